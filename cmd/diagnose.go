package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leafstage/classifier"
	"leafstage/diagnosis"
	"leafstage/formatter"
	"leafstage/imaging"
)

var (
	strategy     string
	outputFormat string
)

func NewDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose FILE",
		Short: "Diagnose the disease stage of a leaf photo",
		Long: `Classify a leaf photo into a disease stage, score its severity and
print the matching treatment advice. The result is recorded in history.

Examples:
  # Offline analysis with the built-in heuristic
  leafstage diagnose leaf.jpg

  # Ask the configured vision model instead
  leafstage diagnose leaf.jpg -s remote

  # Machine-readable output
  leafstage diagnose leaf.png -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runDiagnose,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Classification strategy (local, remote); defaults to the configured one")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	path := args[0]
	mimeType := imaging.MIMEForExt(path)
	if mimeType == "" {
		return fmt.Errorf("unsupported file type %q (supported: jpg, jpeg, png, webp)", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	s := a.cfg.Classifier.Strategy
	if strategy != "" {
		s = classifier.Strategy(strategy)
	}
	engine, err := a.engine(s)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if s == classifier.StrategyRemote && a.cfg.Oracle.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Oracle.Timeout)
		defer cancel()
	}

	human := outputFormat == "human"
	sp := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	sp.Suffix = fmt.Sprintf(" Analyzing %s (%s)...", filepath.Base(path), s)
	if human {
		sp.Start()
	}

	d, err := engine.Diagnose(ctx, diagnosis.Request{
		Data:         data,
		MIMEType:     mimeType,
		ImagePath:    path,
		OriginalName: filepath.Base(path),
	})
	sp.Stop()
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	if human {
		printSuccess("Analysis complete")
	}

	return formatter.Render(os.Stdout, d, outputFormat)
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}
