// Package main is the entry point for the transcheck CLI.
package main

import (
	"os"

	"transcheck/cmd/transcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
