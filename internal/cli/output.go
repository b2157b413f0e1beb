package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	discovery "github.com/Sriram-PR/go-discovery"
	"github.com/Sriram-PR/go-discovery/internal/errors"
)

// writeResult prints result to out in the given format. In text format the
// warnings and a summary go to errOut; json and yaml carry them in the
// document.
func writeResult(out, errOut io.Writer, format string, result *discovery.Result) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return errors.WithStackTrace(enc.Encode(normalized(result)))
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(normalized(result)); err != nil {
			return errors.WithStackTrace(err)
		}
		return errors.WithStackTrace(enc.Close())
	}

	for _, file := range result.Files {
		if _, err := fmt.Fprintln(out, file); err != nil {
			return errors.WithStackTrace(err)
		}
	}
	writeWarnings(errOut, result)

	return nil
}

// normalized returns a copy with empty lists instead of nil ones, so json
// prints [] rather than null.
func normalized(result *discovery.Result) *discovery.Result {
	r := *result
	if r.Files == nil {
		r.Files = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []discovery.Warning{}
	}
	return &r
}

func writeWarnings(w io.Writer, result *discovery.Result) {
	yellow := color.New(color.FgYellow)
	faint := color.New(color.Faint)
	if isTerminal(w) {
		yellow.EnableColor()
		faint.EnableColor()
	} else {
		yellow.DisableColor()
		faint.DisableColor()
	}

	for _, warning := range result.Warnings {
		yellow.Fprint(w, "warning: ")
		fmt.Fprintf(w, "%s: %s\n", warning.Path, warning.Reason)
	}

	if result.HasWarnings() {
		faint.Fprintf(w, "%d files, %d skipped\n", result.FileCount(), len(result.Warnings))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
