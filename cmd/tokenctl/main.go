package main

import (
	"fmt"
	"os"

	"github.com/polyglotta/polyglotta-api/cmd/tokenctl/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "tokenctl",
		Short: "Token tool for Polyglotta API",
		Long:  "CLI tool for issuing and inspecting signed identity tokens and managing accounts",
	}

	rootCmd.AddCommand(commands.NewIssueCmd())
	rootCmd.AddCommand(commands.NewInspectCmd())
	rootCmd.AddCommand(commands.NewUserAddCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
