package main

import (
	"os"

	"kitecover/cmd/kitecover/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
