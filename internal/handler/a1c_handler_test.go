package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidA1CValue(t *testing.T) {
	for _, v := range []float64{0.1, 5.6, 6.5, 12, 20} {
		assert.True(t, validA1CValue(v), "value %v", v)
	}
	for _, v := range []float64{0, -1, 20.1, 100} {
		assert.False(t, validA1CValue(v), "value %v", v)
	}
}

func TestParseA1CDate(t *testing.T) {
	d, err := parseA1CDate("2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), d)

	for _, s := range []string{"", "2026/08/01", "01-08-2026", "2026-8-1", "2026-08-01 10:00:00"} {
		_, err := parseA1CDate(s)
		assert.Error(t, err, "date %q", s)
	}
}
