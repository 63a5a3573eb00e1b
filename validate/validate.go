// Package validate compares a candidate parser's tabular output against the
// expected ground truth and produces a pass/fail verdict with a structured
// diagnostic delta.
//
// Validation is two-phase: a structural check (column set and row count) that
// short-circuits on mismatch, then an ordered cell-by-cell comparison. Numeric
// cells compare under a small absolute/relative tolerance; everything else
// requires exact equality.
package validate

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tabular-agents/forge/core/tabular"
)

// Kind discriminates the two delta shapes.
type Kind string

const (
	// KindStructural means the column set or row count differed; cells were
	// not compared.
	KindStructural Kind = "structural_mismatch"
	// KindCell means structure matched but one or more cell values differed.
	KindCell Kind = "cell_mismatch"
)

// Tolerance bounds the acceptable error for numeric cell comparison. Two
// numeric cells match when |got-want| <= Abs or |got-want| <= Rel*|want|.
type Tolerance struct {
	Abs float64
	Rel float64
}

// DefaultTolerance returns the tolerance used for statement amounts and
// balances: tight enough to catch transposed digits, loose enough to ignore
// float formatting noise.
func DefaultTolerance() Tolerance {
	return Tolerance{Abs: 1e-6, Rel: 1e-9}
}

// CellMismatch records one cell discrepancy found during ordered comparison.
type CellMismatch struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Want   string `json:"want"`
	Got    string `json:"got"`
}

// Delta describes how a candidate's output differs from the expected table.
// For KindStructural the column/row fields are populated; for KindCell the
// Cells slice holds every discrepancy in row order.
type Delta struct {
	Kind           Kind           `json:"kind"`
	MissingColumns []string       `json:"missing_columns,omitempty"`
	ExtraColumns   []string       `json:"extra_columns,omitempty"`
	Reordered      bool           `json:"reordered,omitempty"`
	WantRows       int            `json:"want_rows"`
	GotRows        int            `json:"got_rows"`
	Cells          []CellMismatch `json:"cells,omitempty"`
}

// Describe renders the delta as human-readable evidence for correction
// feedback. Cell listings are capped by maxCells; pass a non-positive value
// for no cap.
func (d *Delta) Describe(maxCells int) string {
	var b strings.Builder
	switch d.Kind {
	case KindStructural:
		if len(d.MissingColumns) > 0 {
			fmt.Fprintf(&b, "missing columns: %s. ", strings.Join(d.MissingColumns, ", "))
		}
		if len(d.ExtraColumns) > 0 {
			fmt.Fprintf(&b, "unexpected extra columns: %s. ", strings.Join(d.ExtraColumns, ", "))
		}
		if d.Reordered {
			b.WriteString("columns are present but in the wrong order. ")
		}
		if d.WantRows != d.GotRows {
			fmt.Fprintf(&b, "row count mismatch: got %d rows, expected %d. ", d.GotRows, d.WantRows)
		}
	case KindCell:
		fmt.Fprintf(&b, "%d cell(s) differ from the expected output. ", len(d.Cells))
		cells := d.Cells
		if maxCells > 0 && len(cells) > maxCells {
			cells = cells[:maxCells]
		}
		for _, c := range cells {
			fmt.Fprintf(&b, "row %d column %q: got %q, expected %q. ", c.Row, c.Column, c.Got, c.Want)
		}
		if maxCells > 0 && len(d.Cells) > maxCells {
			fmt.Fprintf(&b, "(%d more not shown.) ", len(d.Cells)-maxCells)
		}
	}
	return strings.TrimSpace(b.String())
}

// Verdict is the validator's judgment for one candidate. Pass is true iff the
// delta is nil.
type Verdict struct {
	Pass  bool   `json:"pass"`
	Delta *Delta `json:"delta,omitempty"`
}

// Compare validates got against want. The structural check runs first and
// short-circuits: when columns or row counts differ, no cells are compared.
func Compare(got, want *tabular.Table, tol Tolerance) Verdict {
	if delta := compareStructure(got, want); delta != nil {
		return Verdict{Pass: false, Delta: delta}
	}

	var cells []CellMismatch
	for i, wantRow := range want.Rows {
		gotRow := got.Rows[i]
		for j, column := range want.Columns {
			if !cellsEqual(gotRow[j], wantRow[j], tol) {
				cells = append(cells, CellMismatch{
					Row:    i,
					Column: column,
					Want:   wantRow[j],
					Got:    gotRow[j],
				})
			}
		}
	}

	if len(cells) > 0 {
		return Verdict{Pass: false, Delta: &Delta{
			Kind:     KindCell,
			WantRows: want.NumRows(),
			GotRows:  got.NumRows(),
			Cells:    cells,
		}}
	}
	return Verdict{Pass: true}
}

func compareStructure(got, want *tabular.Table) *Delta {
	if slices.Equal(got.Columns, want.Columns) && got.NumRows() == want.NumRows() {
		return nil
	}

	delta := &Delta{
		Kind:     KindStructural,
		WantRows: want.NumRows(),
		GotRows:  got.NumRows(),
	}
	for _, c := range want.Columns {
		if got.ColumnIndex(c) < 0 {
			delta.MissingColumns = append(delta.MissingColumns, c)
		}
	}
	for _, c := range got.Columns {
		if want.ColumnIndex(c) < 0 {
			delta.ExtraColumns = append(delta.ExtraColumns, c)
		}
	}
	if len(delta.MissingColumns) == 0 && len(delta.ExtraColumns) == 0 &&
		!slices.Equal(got.Columns, want.Columns) {
		delta.Reordered = true
	}
	return delta
}

// cellsEqual compares two cells. When both parse as floating point the
// tolerance applies; otherwise the comparison is exact after trimming
// surrounding whitespace.
func cellsEqual(got, want string, tol Tolerance) bool {
	gs, ws := strings.TrimSpace(got), strings.TrimSpace(want)
	gf, gerr := strconv.ParseFloat(gs, 64)
	wf, werr := strconv.ParseFloat(ws, 64)
	if gerr == nil && werr == nil {
		diff := math.Abs(gf - wf)
		return diff <= tol.Abs || diff <= tol.Rel*math.Abs(wf)
	}
	return gs == ws
}
