package main

import (
	"os"

	"github.com/typhoonworks/claude-config/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
