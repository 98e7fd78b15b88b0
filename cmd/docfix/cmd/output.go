package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/docfix/internal/fix"
	"github.com/hugo-lorenzo-mato/docfix/internal/present"
	"github.com/hugo-lorenzo-mato/docfix/internal/service"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// styles colour text output. The renderer drops escape codes when w is not
// a terminal.
type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	pass  lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true),
		label: r.NewStyle().Foreground(lipgloss.Color("12")),
		pass:  r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		fail:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		muted: r.NewStyle().Faint(true),
	}
}

func (s styles) verdict(pass bool) string {
	if pass {
		return s.pass.Render("PASS")
	}
	return s.fail.Render("FAIL")
}

const labelWidth = 20

func renderRecord(w io.Writer, rec *present.DisplayRecord) {
	s := newStyles(w)
	fmt.Fprintf(w, "%s %s\n", s.title.Render("Document"), rec.Document)

	if !rec.Found {
		fmt.Fprintf(w, "%s\n", s.fail.Render(rec.StatusMessage))
		return
	}
	fmt.Fprintf(w, "%s\n", s.muted.Render(fmt.Sprintf("%d record(s) found", rec.ResultCount)))

	fmt.Fprintf(w, "\n%s\n", s.title.Render("Checkpoints"))
	for _, cp := range rec.Checkpoints {
		fmt.Fprintf(w, "  %s %-14s %s\n", s.verdict(cp.Pass), cp.Label, cp.Message)
	}

	renderGroup(w, s, "Basic info", rec.BasicInfo)
	renderGroup(w, s, "User", rec.UserInfo)
	renderGroup(w, s, "Provider", rec.ProviderInfo)
	renderGroup(w, s, "Prices", rec.PriceInfo)
	if p := rec.Payment; p != nil {
		fmt.Fprintf(w, "\n%s\n", s.title.Render("Payment"))
		fmt.Fprintf(w, "  %s %s\n", s.label.Render(pad("Method")), p.Display)
		if p.AuthID != "" {
			fmt.Fprintf(w, "  %s %s\n", s.label.Render(pad("Authorization")), p.AuthID)
		}
	}

	fmt.Fprintln(w)
	if rec.CanFix {
		fmt.Fprintf(w, "%s %s\n", s.pass.Render("Fixable"), rec.IDToUpdate)
	} else {
		fmt.Fprintf(w, "%s\n", s.fail.Render("Not fixable"))
	}
	for _, line := range strings.Split(rec.StatusMessage, "\n") {
		if line != "" {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func renderGroup(w io.Writer, s styles, title string, fields []present.Field) {
	if len(fields) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", s.title.Render(title))
	for _, f := range fields {
		value := f.Value
		switch {
		case f.IsQR:
			value = "(image)"
		case f.IsLink && f.Href != "":
			value = f.Href
		}
		fmt.Fprintf(w, "  %s %s\n", s.label.Render(pad(f.Label)), value)
	}
}

func pad(label string) string {
	return fmt.Sprintf("%-*s", labelWidth, label)
}

func renderPlan(w io.Writer, document string, plan fix.Plan, ok bool) {
	s := newStyles(w)
	if !ok {
		fmt.Fprintf(w, "%s %s\n", s.fail.Render("No fix available for"), document)
		return
	}
	fmt.Fprintf(w, "%s %s\n", s.title.Render("Would fix"), document)
	fmt.Fprintf(w, "  %s %s\n", s.label.Render(pad("Statement")), plan.Statement)
	fmt.Fprintf(w, "  %s %s\n", s.label.Render(pad("Identifier")), plan.UniqueID)
	if plan.Special {
		fmt.Fprintf(w, "  %s %s\n", s.label.Render(pad("Hint")), plan.Hint)
	}
}

func renderOutcome(w io.Writer, out fix.Outcome) {
	s := newStyles(w)
	if out.Success {
		fmt.Fprintf(w, "%s %s\n", s.pass.Render("OK"), out.Message)
	} else {
		fmt.Fprintf(w, "%s %s\n", s.fail.Render("FAILED"), out.Message)
	}
	if out.Statement != "" {
		fmt.Fprintf(w, "  %s %s\n", s.label.Render(pad("Statement")), out.Statement)
	}
	fmt.Fprintf(w, "  %s %s\n", s.muted.Render(pad("Attempt")), out.AttemptID)
}

func renderCandidates(w io.Writer, candidates []service.Candidate) {
	s := newStyles(w)
	if len(candidates) == 0 {
		fmt.Fprintln(w, s.muted.Render("No pending documents."))
		return
	}
	for _, c := range candidates {
		status := "-"
		if c.Status != nil {
			status = fmt.Sprint(*c.Status)
		}
		fmt.Fprintf(w, "%s %s\n", pad(c.Document), s.muted.Render("status "+status))
	}
	fmt.Fprintf(w, "\n%d document(s)\n", len(candidates))
}
