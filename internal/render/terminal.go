package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/chartdiff/chartdiff/internal/types"
)

// TerminalOptions configures terminal rendering.
type TerminalOptions struct {
	NoColor  bool
	RiskOnly bool
	Context  int
}

var levelColor = map[types.RiskLevel]*color.Color{
	types.RiskSafe:    color.New(color.FgGreen),
	types.RiskWarning: color.New(color.FgYellow),
	types.RiskDanger:  color.New(color.FgRed, color.Bold),
}

// RenderTerminal writes a human-readable, optionally colorized diff to w.
func RenderTerminal(w io.Writer, records []types.ChangeRecord, report *types.CrdReport, opts TerminalOptions) {
	if opts.NoColor {
		color.NoColor = true
	}

	for _, r := range records {
		if opts.RiskOnly && !hasRisk(r.Risks) {
			continue
		}

		renderRecord(w, r, opts)
	}

	if report != nil {
		renderCrdReport(w, *report, opts)
	}
}

func renderRecord(w io.Writer, r types.ChangeRecord, opts TerminalOptions) {
	statusColor := statusColorFor(r.Status)
	fmt.Fprintf(w, "%s %s/%s", statusColor.Sprint(string(r.Status)), r.Kind, r.Name)

	if r.Namespace != "" {
		fmt.Fprintf(w, " (namespace: %s)", r.Namespace)
	}

	fmt.Fprintln(w)

	for _, risk := range r.Risks {
		c := levelColor[risk.Level]
		fmt.Fprintf(w, "  [%s] %s: %s\n", c.Sprint(string(risk.Level)), risk.Rule, risk.Path)
	}

	for _, f := range r.Changes {
		renderFieldChange(w, f, opts.Context)
	}

	fmt.Fprintln(w)
}

func renderFieldChange(w io.Writer, f types.FieldChange, context int) {
	fmt.Fprintf(w, "    %s %s\n", f.ChangeType, f.Path)

	if f.OldValue == nil || f.NewValue == nil {
		return
	}

	oldStr := fmt.Sprint(f.OldValue)
	newStr := fmt.Sprint(f.NewValue)

	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(oldStr, newStr, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	line := renderInlineDiff(diffs, context)
	if line != "" {
		fmt.Fprintf(w, "      %s\n", line)
	}
}

// renderInlineDiff renders a dmp diff sequence as a single colorized line,
// trimming unchanged runs longer than 2*context characters down to context
// characters of lead-in/lead-out (the --context N flag).
func renderInlineDiff(diffs []diffmatchpatch.Diff, context int) string {
	var out string

	for _, d := range diffs {
		text := d.Text
		if d.Type == diffmatchpatch.DiffEqual && context > 0 && len(text) > 2*context {
			text = text[:context] + "..." + text[len(text)-context:]
		}

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			out += color.New(color.FgGreen).Sprint(text)
		case diffmatchpatch.DiffDelete:
			out += color.New(color.FgRed).Sprint(text)
		default:
			out += text
		}
	}

	return out
}

func statusColorFor(status types.PairStatus) *color.Color {
	switch status {
	case types.StatusAdded:
		return color.New(color.FgGreen)
	case types.StatusRemoved:
		return color.New(color.FgRed)
	case types.StatusChanged:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

func renderCrdReport(w io.Writer, report types.CrdReport, opts TerminalOptions) {
	if len(report.Crds) == 0 && len(report.NewCrds) == 0 && len(report.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "--- CRD analysis ---")

	for _, warn := range report.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}

	for _, n := range report.NewCrds {
		fmt.Fprintf(w, "  new CRD: %s (%s/%s)\n", n.Name, n.Group, n.Kind)
	}

	for _, c := range report.Crds {
		if opts.RiskOnly && c.MaxRisk() == types.RiskSafe {
			continue
		}

		renderCrdDetail(w, c)
	}

	if report.PolicyResult != nil {
		fmt.Fprintf(w, "  %s\n", report.PolicyResult.Message)
	}
}

func renderCrdDetail(w io.Writer, c types.CrdChangeDetail) {
	col := levelColor[c.MaxRisk()]
	fmt.Fprintf(w, "  %s %s (%s)\n", col.Sprint(string(c.MaxRisk())), c.Name, c.Status)

	for _, a := range c.RiskAnnotations {
		ac := levelColor[a.Level]
		fmt.Fprintf(w, "    [%s] %s: %s\n", ac.Sprint(string(a.Level)), a.Rule, a.Path)
	}

	for _, warn := range c.StoredVersionWarnings {
		fmt.Fprintf(w, "    stored-version: %s\n", warn)
	}

	for _, verr := range c.SchemaValidationErrors {
		fmt.Fprintf(w, "    schema: %s\n", verr)
	}

	if c.OwnershipConflict != "" {
		fmt.Fprintf(w, "    ownership conflict: %s\n", c.OwnershipConflict)
	}
}
