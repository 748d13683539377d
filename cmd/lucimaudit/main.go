package main

import (
	"os"

	"github.com/lucim-tools/lucimaudit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
