package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leafstage/formatter"
	"leafstage/knowledge"
	"leafstage/models"
)

var clearHistory bool

func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [ID]",
		Short: "List recent diagnoses, newest first",
		Long: `Without arguments, list the recent diagnoses kept in history.
With an ID, print the full stored diagnosis.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "Remove every diagnosis from history")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if clearHistory {
		if err := a.ledger.Clear(); err != nil {
			return err
		}
		if err := a.repo.DeleteAll(); err != nil {
			return err
		}
		printSuccess("History cleared")
		return nil
	}

	if len(args) == 1 {
		rec, err := a.repo.Get(args[0])
		if err != nil {
			return fmt.Errorf("diagnosis %s: %w", args[0], err)
		}
		d := &models.Diagnosis{
			Result:       rec.Result(knowledge.LookupCode(rec.Stage)),
			Quality:      rec.Quality,
			ImagePath:    rec.ImagePath,
			OriginalName: rec.OriginalName,
		}
		return formatter.Render(os.Stdout, d, outputFormat)
	}

	return formatter.Render(os.Stdout, a.ledger.List(), outputFormat)
}
