package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"leafstage/handlers"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagnosis HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// the server always logs
	verbose = true
	log.SetOutput(os.Stderr)

	a, err := newApp()
	if err != nil {
		return err
	}
	if _, err := a.engine(a.cfg.Classifier.Strategy); err != nil {
		return err
	}

	h, err := handlers.New(a.engineList(), a.ledger, a.repo, handlers.Options{
		DefaultStrategy: a.cfg.Classifier.Strategy,
		UploadDir:       a.cfg.Server.UploadDir,
		OracleTimeout:   a.cfg.Oracle.Timeout,
	})
	if err != nil {
		return err
	}

	router := handlers.NewRouter(h, a.cfg.Server.StaticDir, a.cfg.Server.MaxUploadMB)

	log.Printf("Server starting on %s (default strategy %s, remote enabled: %t)",
		a.cfg.Server.Addr, a.cfg.Classifier.Strategy, a.cfg.RemoteEnabled())
	return router.Run(a.cfg.Server.Addr)
}
