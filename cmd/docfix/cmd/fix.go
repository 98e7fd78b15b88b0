package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var fixCmd = &cobra.Command{
	Use:   "fix <document>",
	Short: "Apply the corrective update to a document",
	Long: `Look up a document and, when it qualifies, run the corrective update.

The wrong-issue-date rejection gets its dedicated update; any other record
must pass all three checkpoints. Use --dry-run to see which update would run.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

var (
	fixOutput string
	fixDryRun bool
)

// errFixFailed makes the process exit non-zero after the outcome is printed.
var errFixFailed = errors.New("fix was not applied")

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().StringVarP(&fixOutput, "output", "o", outputText,
		"output format (text, json, yaml)")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false,
		"show the update that would run without executing it")
}

// planView is the structured form of a dry run.
type planView struct {
	Document  string `json:"document" yaml:"document"`
	Fixable   bool   `json:"fixable" yaml:"fixable"`
	Statement string `json:"statement,omitempty" yaml:"statement,omitempty"`
	UniqueID  string `json:"unique_id,omitempty" yaml:"unique_id,omitempty"`
	Special   bool   `json:"special" yaml:"special"`
	Hint      string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

func runFix(cmd *cobra.Command, args []string) error {
	if err := validateOutput(fixOutput); err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	w := cmd.OutOrStdout()
	if fixDryRun {
		rec, plan, ok, err := a.docs.Plan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if fixOutput == outputText {
			renderPlan(w, rec.Document, plan, ok)
			return nil
		}
		return writeStructured(w, fixOutput, planView{
			Document:  rec.Document,
			Fixable:   ok,
			Statement: plan.Statement,
			UniqueID:  plan.UniqueID,
			Special:   plan.Special,
			Hint:      plan.Hint,
		})
	}

	out, err := a.docs.Fix(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if fixOutput == outputText {
		renderOutcome(w, out)
	} else if err := writeStructured(w, fixOutput, out); err != nil {
		return err
	}
	if !out.Success {
		return errFixFailed
	}
	return nil
}
