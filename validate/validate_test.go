package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabular-agents/forge/core/tabular"
)

func mustTable(t *testing.T, csv string) *tabular.Table {
	t.Helper()
	table, err := tabular.FromCSVString(csv)
	require.NoError(t, err)
	return table
}

func TestCompare_ExactMatch(t *testing.T) {
	t.Parallel()

	want := mustTable(t, "Date,Amount\n01-01-2024,10.50\n")
	got := mustTable(t, "Date,Amount\n01-01-2024,10.50\n")

	verdict := Compare(got, want, DefaultTolerance())
	assert.True(t, verdict.Pass)
	assert.Nil(t, verdict.Delta)
}

func TestCompare_NumericTolerance(t *testing.T) {
	t.Parallel()

	want := mustTable(t, "Amount\n10.5\n")
	got := mustTable(t, "Amount\n10.5000000001\n")

	verdict := Compare(got, want, DefaultTolerance())
	assert.True(t, verdict.Pass)
}

func TestCompare_NumericBeyondTolerance(t *testing.T) {
	t.Parallel()

	want := mustTable(t, "Amount\n10.50\n")
	got := mustTable(t, "Amount\n10.51\n")

	verdict := Compare(got, want, DefaultTolerance())
	require.False(t, verdict.Pass)
	require.NotNil(t, verdict.Delta)
	assert.Equal(t, KindCell, verdict.Delta.Kind)
	require.Len(t, verdict.Delta.Cells, 1)
	assert.Equal(t, CellMismatch{Row: 0, Column: "Amount", Want: "10.50", Got: "10.51"}, verdict.Delta.Cells[0])
}

func TestCompare_TextIsExact(t *testing.T) {
	t.Parallel()

	// Dates and descriptions get no tolerance, only numeric cells do.
	want := mustTable(t, "Date\n01-01-2024\n")
	got := mustTable(t, "Date\n2024-01-01\n")

	verdict := Compare(got, want, DefaultTolerance())
	require.False(t, verdict.Pass)
	assert.Equal(t, KindCell, verdict.Delta.Kind)
}

func TestCompare_MissingColumn(t *testing.T) {
	t.Parallel()

	want := mustTable(t, "Date,Description,Balance\n01-01-2024,coffee,99.0\n")
	got := mustTable(t, "Date,Balance\n01-01-2024,99.0\n")

	verdict := Compare(got, want, DefaultTolerance())
	require.False(t, verdict.Pass)
	require.NotNil(t, verdict.Delta)
	assert.Equal(t, KindStructural, verdict.Delta.Kind)
	assert.Equal(t, []string{"Description"}, verdict.Delta.MissingColumns)
	assert.Empty(t, verdict.Delta.ExtraColumns)
	// Structural failures short-circuit: no cell comparison happens.
	assert.Empty(t, verdict.Delta.Cells)
}

func TestCompare_ExtraColumn(t *testing.T) {
	t.Parallel()

	want := mustTable(t, "Date,Balance\n01-01-2024,99.0\n")
	got := mustTable(t, "Date,Ref No,Balance\n01-01-2024,123,99.0\n")

	verdict := Compare(got, want, DefaultTolerance())
	require.False(t, verdict.Pass)
	assert.Equal(t, KindStructural, verdict.Delta.Kind)
	assert.Equal(t, []string{"Ref No"}, verdict.Delta.ExtraColumns)
}

func TestCompare_ReorderedColumns(t *testing.T) {
	t.Parallel()

	want := mustTable(t, "Date,Balance\n01-01-2024,99.0\n")
	got := mustTable(t, "Balance,Date\n99.0,01-01-2024\n")

	verdict := Compare(got, want, DefaultTolerance())
	require.False(t, verdict.Pass)
	assert.Equal(t, KindStructural, verdict.Delta.Kind)
	assert.True(t, verdict.Delta.Reordered)
	assert.Empty(t, verdict.Delta.MissingColumns)
	assert.Empty(t, verdict.Delta.ExtraColumns)
}

func TestCompare_RowCountMismatch(t *testing.T) {
	t.Parallel()

	want := mustTable(t, "Date\n01-01-2024\n02-01-2024\n")
	got := mustTable(t, "Date\n01-01-2024\n")

	verdict := Compare(got, want, DefaultTolerance())
	require.False(t, verdict.Pass)
	assert.Equal(t, KindStructural, verdict.Delta.Kind)
	assert.Equal(t, 2, verdict.Delta.WantRows)
	assert.Equal(t, 1, verdict.Delta.GotRows)
}

func TestCompare_MultipleCellMismatches(t *testing.T) {
	t.Parallel()

	want := mustTable(t, "Date,Amount\n01-01-2024,1.0\n02-01-2024,2.0\n")
	got := mustTable(t, "Date,Amount\n01-01-2024,9.0\n02-01-2024,8.0\n")

	verdict := Compare(got, want, DefaultTolerance())
	require.False(t, verdict.Pass)
	require.Len(t, verdict.Delta.Cells, 2)
	assert.Equal(t, 0, verdict.Delta.Cells[0].Row)
	assert.Equal(t, 1, verdict.Delta.Cells[1].Row)
}

func TestDescribe_Structural(t *testing.T) {
	t.Parallel()

	delta := &Delta{
		Kind:           KindStructural,
		MissingColumns: []string{"Description"},
		ExtraColumns:   []string{"Ref No"},
		WantRows:       5,
		GotRows:        3,
	}

	text := delta.Describe(0)
	assert.Contains(t, text, "Description")
	assert.Contains(t, text, "Ref No")
	assert.Contains(t, text, "got 3 rows, expected 5")
}

func TestDescribe_CellCap(t *testing.T) {
	t.Parallel()

	delta := &Delta{Kind: KindCell}
	for i := 0; i < 8; i++ {
		delta.Cells = append(delta.Cells, CellMismatch{Row: i, Column: "Amount", Want: "1", Got: "2"})
	}

	text := delta.Describe(5)
	assert.Contains(t, text, "8 cell(s) differ")
	assert.Contains(t, text, "3 more not shown")
	assert.Equal(t, 5, strings.Count(text, "row "))
}
