package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leafstage/cmd"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leafstage",
		Short: "Leaf disease stage diagnosis",
		Long: `leafstage classifies photos of crop leaves into disease stages, scores
their severity and recommends treatment. Run "leafstage serve" for the HTTP API.`,
		SilenceUsage: true,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		cmd.NewServeCmd(),
		cmd.NewDiagnoseCmd(),
		cmd.NewHistoryCmd(),
		cmd.NewStageCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("leafstage version %s\n", version)
		},
	}
}
