// Package main provides the entry point for the pfadmin CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pfadmin/pfadmin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var usage *cli.UsageError
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr, usage.Hint())
		}
		os.Exit(cli.ExitCode(err))
	}
}
