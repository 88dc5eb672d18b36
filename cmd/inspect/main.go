package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/temirov/inspect/internal/cli"
)

// main is the entry point for the inspect command.
func main() {
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", applicationExecutionError)
		os.Exit(1)
	}
}
