package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sgpo-tools/pocheck/internal/types"
)

// Render writes the report to w in the requested format.
func Render(w io.Writer, rep *types.Report, format string) error {
	switch format {
	case "json":
		return RenderJSON(w, rep)
	case "yaml":
		return RenderYAML(w, rep)
	case "", "text":
		return RenderText(w, rep)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
	}
}

// RenderText writes the human-readable report form.
func RenderText(w io.Writer, rep *types.Report) error {
	for i := range rep.Entries {
		er := &rep.Entries[i]

		if er.Line > 0 {
			fmt.Fprintf(w, "entry %q (line %d):\n", er.Key, er.Line)
		} else {
			fmt.Fprintf(w, "entry %q:\n", er.Key)
		}
		for _, f := range er.Findings {
			fmt.Fprintf(w, "  %s [%s] %s\n", f.Severity, f.Kind, f.Message)
		}
		fmt.Fprintln(w)
	}

	if len(rep.Entries) == 0 {
		fmt.Fprintf(w, "no issues found (%d entries checked, %d skipped)\n",
			rep.Checked, rep.Skipped)
		return nil
	}

	fmt.Fprintf(w, "%d error(s), %d warning(s) in %d of %d checked entries (%d skipped)\n",
		rep.TotalErrors(), rep.TotalWarnings(), len(rep.Entries), rep.Checked, rep.Skipped)

	return nil
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, rep *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rep)
}

// RenderYAML writes the report as YAML.
func RenderYAML(w io.Writer, rep *types.Report) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()

	return enc.Encode(rep)
}
