package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
		ok    bool
	}{
		{name: "exact match", input: "MRO", want: MRO, ok: true},
		{name: "case insensitive", input: "services", want: Services, ok: true},
		{name: "surrounding whitespace", input: "  Capex  ", want: Capex, ok: true},
		{name: "synonym", input: "capital expenditure", want: Capex, ok: true},
		{name: "synonym case insensitive", input: "Raw Material", want: PCM, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "unknown", input: "Misc", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Canonicalize(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSheetFor(t *testing.T) {
	prs, ok := SheetFor(SheetPRs)
	assert.True(t, ok)
	assert.Equal(t, []string{FieldPRNumber, FieldPRDate, FieldPRStatus}, prs.RequiredFields())

	pos, ok := SheetFor(SheetPOs)
	assert.True(t, ok)
	assert.Contains(t, pos.RequiredFields(), FieldDeliveryStatus)

	_, ok = SheetFor("Budget")
	assert.False(t, ok)
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory("MRO"))
	assert.False(t, IsCategory("mro"), "IsCategory is exact; canonicalize first")
	assert.False(t, IsCategory(Uncategorized))
}
