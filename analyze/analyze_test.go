package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabular-agents/forge/executor"
	"github.com/tabular-agents/forge/validate"
)

func TestFromFailure_Categories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind executor.Kind
		want Category
	}{
		{executor.LoadError, Syntax},
		{executor.SignatureError, SchemaMismatch},
		{executor.RuntimeError, Runtime},
		{executor.Timeout, Timeout},
		{executor.Kind("something_else"), Unknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			c := FromFailure(&executor.Failure{Kind: tt.kind, Message: "boom"})
			assert.Equal(t, tt.want, c.Category)
			assert.Contains(t, c.Instruction, "boom")
		})
	}
}

func TestFromFailure_RuntimeCitesError(t *testing.T) {
	t.Parallel()

	c := FromFailure(&executor.Failure{
		Kind:    executor.RuntimeError,
		Message: "ZeroDivisionError: division by zero",
	})
	assert.Equal(t, Runtime, c.Category)
	assert.Contains(t, c.Instruction, "ZeroDivisionError")
}

func TestFromVerdict_Structural(t *testing.T) {
	t.Parallel()

	c := FromVerdict(validate.Verdict{
		Pass: false,
		Delta: &validate.Delta{
			Kind:           validate.KindStructural,
			MissingColumns: []string{"Debit Amt"},
			WantRows:       10,
			GotRows:        10,
		},
	})

	assert.Equal(t, SchemaMismatch, c.Category)
	assert.Contains(t, c.Instruction, "Debit Amt")
}

func TestFromVerdict_CellOnly(t *testing.T) {
	t.Parallel()

	c := FromVerdict(validate.Verdict{
		Pass: false,
		Delta: &validate.Delta{
			Kind: validate.KindCell,
			Cells: []validate.CellMismatch{
				{Row: 2, Column: "Balance", Want: "104.50", Got: "10450"},
			},
		},
	})

	assert.Equal(t, ValueMismatch, c.Category)
	assert.Contains(t, c.Instruction, "104.50")
	assert.Contains(t, c.Instruction, "10450")
}

func TestFromVerdict_CellExamplesCapped(t *testing.T) {
	t.Parallel()

	delta := &validate.Delta{Kind: validate.KindCell}
	for i := 0; i < maxCellExamples+4; i++ {
		delta.Cells = append(delta.Cells, validate.CellMismatch{Row: i, Column: "Balance", Want: "1", Got: "2"})
	}

	c := FromVerdict(validate.Verdict{Pass: false, Delta: delta})
	assert.Contains(t, c.Instruction, "4 more not shown")
}

func TestFromVerdict_NilDelta(t *testing.T) {
	t.Parallel()

	c := FromVerdict(validate.Verdict{Pass: false})
	assert.Equal(t, Unknown, c.Category)
	require.NotEmpty(t, c.Instruction)
}

func TestNoCandidate(t *testing.T) {
	t.Parallel()

	c := NoCandidate("response was empty")
	assert.Equal(t, Unknown, c.Category)
	assert.Contains(t, c.Instruction, "response was empty")
	assert.Contains(t, c.Instruction, "fenced code block")

	c = NoCandidate("")
	assert.Equal(t, Unknown, c.Category)
	assert.Contains(t, c.Instruction, "fenced code block")
}
