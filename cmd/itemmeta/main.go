// Package main runs the itemmeta command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/itemmeta/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
