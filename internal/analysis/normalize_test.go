package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

func TestNormalizeString(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"15,6%", 15.6, true},
		{"1.234", 1.234, true},
		{"3,5", 3.5, true},
		{" 42 days ", 42, true},
		{"n/a", 0, false},
		{"N/A", 0, false},
		{"NA", 0, false},
		{"-", 0, false},
		{"–", 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"1.2.3", 0, false},
		{"1,234.5", 0, false},
		{"abc", 0, false},
		{".", 0, false},
		{"-7", 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeString(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestNormalizeCell(t *testing.T) {
	v, ok := Normalize(table.NumberCell(152.5))
	assert.True(t, ok)
	assert.Equal(t, 152.5, v)

	_, ok = Normalize(table.NumberCell(math.NaN()))
	assert.False(t, ok)
	_, ok = Normalize(table.NumberCell(math.Inf(1)))
	assert.False(t, ok)
	_, ok = Normalize(table.MissingCell())
	assert.False(t, ok)

	v, ok = Normalize(table.TextCell("15,6%"))
	assert.True(t, ok)
	assert.InDelta(t, 15.6, v, 1e-12)
}

func TestNormalizeValue(t *testing.T) {
	v, ok := NormalizeValue(42)
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)

	_, ok = NormalizeValue(nil)
	assert.False(t, ok)
	_, ok = NormalizeValue(struct{}{})
	assert.False(t, ok)
	_, ok = NormalizeValue(true)
	assert.False(t, ok)

	v, ok = NormalizeValue("n/a")
	assert.False(t, ok)
	assert.Zero(t, v)

	v, ok = NormalizeValue(table.TextCell("2,25"))
	assert.True(t, ok)
	assert.Equal(t, 2.25, v)
}

func TestNormalizeNumericPassthroughIsExact(t *testing.T) {
	for _, x := range []float64{0, -1.5, 1e-300, 3.141592653589793, 1e300, 152, -0.0} {
		got, ok := NormalizeValue(x)
		assert.True(t, ok)
		assert.Equal(t, x, got)
	}
	for _, x := range []int64{0, -3, 1 << 40} {
		got, ok := NormalizeValue(x)
		assert.True(t, ok)
		assert.Equal(t, float64(x), got)
	}
}
