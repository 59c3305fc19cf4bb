package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format DateFormat
		want   string
		ok     bool
	}{
		{name: "iso", input: "2024-03-15", format: DateISO, want: "2024-03-15", ok: true},
		{name: "day first", input: "15-03-2024", format: DateDayFirst, want: "2024-03-15", ok: true},
		{name: "day first slash", input: "15/03/2024", format: DateDayFirst, want: "2024-03-15", ok: true},
		{name: "auto prefers day first", input: "02-03-2024", format: DateAuto, want: "2024-03-02", ok: true},
		{name: "auto accepts iso", input: "2024-03-02", format: DateAuto, want: "2024-03-02", ok: true},
		{name: "excel serial", input: "45370", format: DateAuto, want: "2024-03-19", ok: true},
		{name: "empty", input: "", format: DateAuto, ok: false},
		{name: "garbage", input: "soon", format: DateAuto, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input, tt.format)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{input: "42", want: 42, ok: true},
		{input: "1,250.75", want: 1250.75, ok: true},
		{input: "₹ 300", want: 300, ok: true},
		{input: "-3.5", want: -3.5, ok: true},
		{input: "", ok: false},
		{input: "ten", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.InDelta(t, tt.want, got, 1e-9, tt.input)
	}
}

func TestInferDtype(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   Dtype
	}{
		{name: "all empty", values: []string{"", " "}, want: DtypeEmpty},
		{name: "numbers", values: []string{"1", "2.5", ""}, want: DtypeNumber},
		{name: "dates", values: []string{"2024-01-01", "02-03-2024"}, want: DtypeDate},
		{name: "mixed is text", values: []string{"1", "abc"}, want: DtypeText},
		{name: "text", values: []string{"Open", "Closed"}, want: DtypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferDtype(tt.values, DateAuto))
		})
	}
}

func TestNullRate(t *testing.T) {
	assert.Equal(t, 0.0, NullRate(nil))
	assert.Equal(t, 0.5, NullRate([]string{"a", "", "b", " "}))
}

func TestExcelSerialEpoch(t *testing.T) {
	// 1 Jan 2020 is serial 43831
	d, ok := ParseDate("43831", DateAuto)
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), d)
}
