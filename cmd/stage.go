package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"leafstage/formatter"
	"leafstage/knowledge"
	"leafstage/models"
)

func NewStageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage [CODE]",
		Short: "Show symptoms and treatment for a disease stage",
		Long: `Print the knowledge base entry for a stage code (H0, E1, E2, E3, N0).
Without a code, every stage is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if outputFormat != "human" {
					return formatter.Render(os.Stdout, knowledge.All(), outputFormat)
				}
				for _, info := range knowledge.All() {
					formatter.InfoHuman(os.Stdout, info)
				}
				return nil
			}
			code := strings.ToUpper(args[0])
			if _, ok := models.ParseStage(code); !ok {
				return fmt.Errorf("unknown stage %q (supported: H0, E1, E2, E3, N0)", args[0])
			}
			return formatter.Render(os.Stdout, knowledge.LookupCode(code), outputFormat)
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	return cmd
}
