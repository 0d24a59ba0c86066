package adapters

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"target-resolver/internal/ports"
	"target-resolver/internal/types"
)

// OutputWriterAdapter renders resolution results for humans (text) or tools
// (json, yaml). Patterns are always written in sorted order.
type OutputWriterAdapter struct {
	Out   io.Writer
	Color bool
}

func NewOutputWriterAdapter(out io.Writer, colorize bool) OutputWriterAdapter {
	if out == nil {
		out = os.Stdout
	}
	return OutputWriterAdapter{Out: out, Color: colorize}
}

func (a OutputWriterAdapter) WritePatternResults(results types.PatternResultMap, format types.OutputFormat) error {
	switch format {
	case "", types.OutputFormatText:
		return a.writeText(results)
	case types.OutputFormatJSON:
		encoder := json.NewEncoder(a.Out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(flattenResults(results)); err != nil {
			return writeFailed(format, err)
		}
		return nil
	case types.OutputFormatYAML:
		encoder := yaml.NewEncoder(a.Out)
		encoder.SetIndent(2)
		if err := encoder.Encode(flattenResults(results)); err != nil {
			return writeFailed(format, err)
		}
		if err := encoder.Close(); err != nil {
			return writeFailed(format, err)
		}
		return nil
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output format: %s", format))
	}
}

func (a OutputWriterAdapter) writeText(results types.PatternResultMap) error {
	header := color.New(color.FgCyan, color.Bold)
	empty := color.New(color.FgYellow)
	if !a.Color {
		header.DisableColor()
		empty.DisableColor()
	}
	for _, pattern := range results.Patterns() {
		if _, err := header.Fprintln(a.Out, pattern); err != nil {
			return writeFailed(types.OutputFormatText, err)
		}
		targets := results[pattern]
		if targets.Len() == 0 {
			if _, err := empty.Fprintln(a.Out, "  (no targets)"); err != nil {
				return writeFailed(types.OutputFormatText, err)
			}
			continue
		}
		for _, target := range targets.Strings() {
			if _, err := fmt.Fprintf(a.Out, "  %s\n", target); err != nil {
				return writeFailed(types.OutputFormatText, err)
			}
		}
	}
	return nil
}

// flattenResults turns results into plain string lists. Both encoders sort
// map keys, which keeps the output stable.
func flattenResults(results types.PatternResultMap) map[string][]string {
	out := make(map[string][]string, len(results))
	for pattern, targets := range results {
		out[pattern] = targets.Strings()
	}
	return out
}

func writeFailed(format types.OutputFormat, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed to write %s output", format)).
		WithCause(err)
}

var _ ports.OutputPort = OutputWriterAdapter{}
