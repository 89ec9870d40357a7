package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	testCases := []struct {
		in   float64
		want int
	}{
		{91.5, 92},
		{91.49, 91},
		{-2.5, -2},
		{-2.51, -3},
		{0, 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Round(tc.in), "Round(%v)", tc.in)
	}
}

func TestFormatBytes(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    float64
		decimals int
		want     string
	}{
		{"zero", 0, 2, "0 Bytes"},
		{"bytes", 512, 2, "512 Bytes"},
		{"kilobytes", 250000, 2, "244.14 KB"},
		{"exact megabyte", 1024 * 1024, 2, "1 MB"},
		{"negative decimals", 1536, -1, "2 KB"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatBytes(tc.bytes, tc.decimals))
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	assert.Equal(t, 90, CalculatePercentage(45, 50))
	assert.Equal(t, 91, CalculatePercentage(142, 156))
	assert.Equal(t, 0, CalculatePercentage(5, 0))
	assert.Equal(t, 120, CalculatePercentage(60, 50))
}

func TestHealthScore(t *testing.T) {
	assert.Equal(t, 100, HealthScore(3, 0))
	assert.Equal(t, 91, HealthScore(14, 156))
	assert.Equal(t, 0, HealthScore(300, 100))
}

func TestFormatDateAndCounts(t *testing.T) {
	ts := time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "Jan 16, 2024, 02:30 PM", FormatDate(ts))
	assert.Equal(t, "250,000", FormatCount(250000))
	assert.Equal(t, "99.7%", FormatPercent(99.7))
	assert.Equal(t, "68%", FormatPercent(68))
	assert.Equal(t, "5 minutes ago", FormatAgo(ts, ts.Add(5*time.Minute)))
}
