package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/docfix/internal/service"
)

var candidatesCmd = &cobra.Command{
	Use:     "candidates",
	Aliases: []string{"pending"},
	Short:   "List documents the discovery statement reports as fixable",
	Args:    cobra.NoArgs,
	RunE:    runCandidates,
}

var (
	candidatesOutput string
	candidatesFilter string
)

func init() {
	rootCmd.AddCommand(candidatesCmd)

	candidatesCmd.Flags().StringVarP(&candidatesOutput, "output", "o", outputText,
		"output format (text, json, yaml)")
	candidatesCmd.Flags().StringVarP(&candidatesFilter, "filter", "f", "",
		"fuzzy filter on the document code")
}

func runCandidates(cmd *cobra.Command, _ []string) error {
	if err := validateOutput(candidatesOutput); err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	candidates, err := a.docs.Candidates(cmd.Context(), candidatesFilter)
	if err != nil {
		return err
	}

	if candidatesOutput == outputText {
		renderCandidates(cmd.OutOrStdout(), candidates)
		return nil
	}
	if candidates == nil {
		candidates = []service.Candidate{}
	}
	return writeStructured(cmd.OutOrStdout(), candidatesOutput, candidates)
}
