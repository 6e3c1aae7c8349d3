package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kitecover/config"
	"kitecover/internal/adapters/chromelogin"
	"kitecover/internal/adapters/kiteclient"
	"kitecover/internal/adapters/logger"
	"kitecover/internal/adapters/sqlite"
	"kitecover/internal/adapters/tokenfile"
	"kitecover/internal/app"
	"kitecover/internal/ports"
)

var rootCmd = &cobra.Command{
	Use:   "kitecover",
	Short: "Kite session automation and cover-order placement",
	Long: `kitecover automates a Zerodha Kite trading session.

It provides commands for:
  - Authenticating (cached access token with scripted browser fallback)
  - Synthesizing and placing cover orders from a trade intent file
  - Cancelling all pending orders
  - Summarizing current orders and positions`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// deps bundles everything a subcommand needs after wiring.
type deps struct {
	cfg     *config.Config
	logger  ports.Logger
	broker  ports.BrokerClient
	manager *app.SessionManager
	journal *sqlite.Journal
}

// buildDeps wires the adapters the way the session manager expects them.
// The journal must be closed by the caller.
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	broker, err := kiteclient.New(kiteclient.Config{
		APIKey:    cfg.Credentials.APIKey,
		APISecret: cfg.Credentials.APISecret,
		Logger:    appLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("init broker client: %w", err)
	}

	login, err := chromelogin.New(chromelogin.Config{
		UserID:      cfg.Credentials.UserID,
		Password:    cfg.Credentials.Password,
		PIN:         cfg.Credentials.PIN,
		StepTimeout: cfg.LoginStepTimeout,
		Headless:    cfg.Headless,
		Logger:      appLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("init browser login: %w", err)
	}

	tokens, err := tokenfile.New(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("init token store: %w", err)
	}

	journal, err := sqlite.NewJournal(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		return nil, fmt.Errorf("init order journal: %w", err)
	}

	manager, err := app.NewSessionManager(app.SessionManagerConfig{
		Logger:            appLogger,
		Broker:            broker,
		Tokens:            tokens,
		Login:             login,
		Journal:           journal,
		CancelMaxAttempts: cfg.CancelMaxAttempts,
	})
	if err != nil {
		journal.Close()
		return nil, fmt.Errorf("init session manager: %w", err)
	}

	return &deps{cfg: cfg, logger: appLogger, broker: broker, manager: manager, journal: journal}, nil
}

// authenticate builds the dependency graph and yields a validated session.
func authenticate(ctx context.Context) (*deps, *app.Session, error) {
	d, err := buildDeps()
	if err != nil {
		return nil, nil, err
	}
	session, err := d.manager.Authenticate(ctx)
	if err != nil {
		d.journal.Close()
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}
	return d, session, nil
}
