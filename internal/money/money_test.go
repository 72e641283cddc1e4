package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"150.00", 150},
		{"150", 150},
		{" 99.9 ", 99.9},
		{"-3.20", -3.2},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"1,50", 0},
		{"1.234", 0},
		{"1.000,00", 0},
		{"NaN", 0},
		{"1e3", 0},
		{".50", 0},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.InDelta(t, tc.want, Parse(tc.in), 0.0001)
		})
	}
}

func TestParsePtr(t *testing.T) {
	v := "12.34"
	assert.InDelta(t, 12.34, ParsePtr(&v), 0.0001)
	assert.Equal(t, 0.0, ParsePtr(nil))
	assert.True(t, ValidPtr(&v))
	assert.False(t, ValidPtr(nil))
}

func TestFormatAndSum(t *testing.T) {
	assert.Equal(t, "10.50", Format(10.5))
	assert.Equal(t, "0.30", Format(0.1+0.2))
	assert.InDelta(t, 30.25, Sum("10.00", "20.25", "bad"), 0.0001)
	assert.Equal(t, 0.3, Round(0.1+0.2))
}
