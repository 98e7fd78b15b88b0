package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/docfix/internal/clip"
	"github.com/hugo-lorenzo-mato/docfix/internal/present"
)

var checkCmd = &cobra.Command{
	Use:   "check <document>",
	Short: "Look up a document and explain whether it can be fixed",
	Long: `Look up a document by its code and show the transmission record,
the three checkpoints and whether a fix is available.

Examples:
  docfix check 0042-000123
  docfix check 0042-000123 --output json
  docfix check 0042-000123 --copy-id`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var (
	checkOutput string
	checkCopyID bool
)

// copier is replaced in tests.
var copier interface {
	Copy(text string) (clip.Result, error)
} = clip.New()

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", outputText,
		"output format (text, json, yaml)")
	checkCmd.Flags().BoolVar(&checkCopyID, "copy-id", false,
		"copy the record identifier to the clipboard")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := validateOutput(checkOutput); err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	rec, err := a.docs.Search(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if checkOutput == outputText {
		renderRecord(cmd.OutOrStdout(), rec)
	} else if err := writeStructured(cmd.OutOrStdout(), checkOutput, rec); err != nil {
		return err
	}

	if checkCopyID {
		return copyIdentifier(cmd, rec)
	}
	return nil
}

// copyIdentifier copies the fix identifier, or the shown GID when the
// record is not fixable.
func copyIdentifier(cmd *cobra.Command, rec *present.DisplayRecord) error {
	id := rec.IDToUpdate
	if id == "" {
		for _, f := range rec.BasicInfo {
			if f.Label == "GID" {
				id = f.Value
				break
			}
		}
	}
	if id == "" {
		return fmt.Errorf("no identifier to copy for %s", rec.Document)
	}

	res, err := copier.Copy(id)
	if err != nil {
		return err
	}
	switch res.Method {
	case clip.MethodFile:
		fmt.Fprintf(cmd.ErrOrStderr(), "Clipboard unavailable, identifier written to %s\n", res.Path)
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Copied %s to the clipboard (%s)\n", id, res.Method)
	}
	return nil
}
