package forge

import (
	"fmt"
	"strings"

	"github.com/tabular-agents/forge/fixture"
)

// planInstruction derives the first generation instruction from a target's
// spec. Planning is deterministic, with no oracle call, so it never consumes
// attempt budget; only generate/validate cycles do.
func planInstruction(fx *fixture.Fixture) (string, error) {
	spec := fx.Spec
	if len(spec.Columns) == 0 {
		return "", fmt.Errorf("target %s declares no column contract", fx.TargetID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a Python parser for %q documents", spec.Name)
	if spec.Description != "" {
		fmt.Fprintf(&b, " (%s)", spec.Description)
	}
	b.WriteString(".\n\n")

	b.WriteString("Contract:\n")
	fmt.Fprintf(&b, "- Define parse(input_path) returning the extracted rows as a DataFrame or list of dicts.\n")
	fmt.Fprintf(&b, "- Output columns must be exactly, in order: %s.\n", strings.Join(spec.Columns, ", "))
	b.WriteString("- Do not invent extra columns and do not drop any row.\n")
	if spec.DateFormat != "" {
		fmt.Fprintf(&b, "- Dates are formatted as %s.\n", spec.DateFormat)
	}
	if spec.Notes != "" {
		fmt.Fprintf(&b, "- %s\n", spec.Notes)
	}

	if fx.SampleText != "" {
		b.WriteString("\nExcerpt of the document to parse:\n")
		b.WriteString(fx.SampleText)
		b.WriteString("\n")
	}

	b.WriteString("\nReply with the complete program in a single fenced code block.")
	return b.String(), nil
}
