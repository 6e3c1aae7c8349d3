package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and persist an access token",
	Long: `Authenticate against the broker.

A persisted access token is reused when the broker still accepts it;
otherwise the scripted browser login runs and the fresh token is written to
the token file.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	d, session, err := authenticate(cmd.Context())
	if err != nil {
		return err
	}
	defer d.journal.Close()

	profile, err := session.Profile(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	fmt.Printf("Authenticated as %s (%s)\n", profile.UserName, profile.UserID)
	return nil
}
