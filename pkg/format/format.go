// Package format holds the number and date helpers shared by the CLI tables
// and the terminal dashboard.
package format

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// DateLayout is the layout used for "last updated" stamps.
const DateLayout = "Jan 2, 2006, 03:04 PM"

// Round rounds half up (toward positive infinity), so Round(-2.5) is -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// FormatBytes renders a byte count with 1024-based units, trimming trailing
// zeros from the fractional part ("244.14 KB", "1 MB").
func FormatBytes(bytes float64, decimals int) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}
	i := int(math.Floor(math.Log(math.Abs(bytes)) / math.Log(1024)))
	if i < 0 {
		i = 0
	}
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}
	scaled := bytes / math.Pow(1024, float64(i))
	scale := math.Pow(10, float64(decimals))
	scaled = math.Round(scaled*scale) / scale
	return strconv.FormatFloat(scaled, 'f', -1, 64) + " " + byteUnits[i]
}

// FormatDate renders t in the dashboard's short US style, in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatCount renders an integer-valued gauge with thousands separators.
func FormatCount(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// FormatPercent renders a gauge with at most one decimal and a percent sign.
func FormatPercent(v float64) string {
	return humanize.FtoaWithDigits(v, 1) + "%"
}

// FormatAgo renders how long ago t was relative to now ("3 minutes ago").
func FormatAgo(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// CalculatePercentage returns round(value/total*100), or 0 when total is 0.
func CalculatePercentage(value, total float64) int {
	if total == 0 {
		return 0
	}
	return Round(value / total * 100)
}

// HealthScore converts an issue count into a 0-100 score: 100 when there is
// nothing to measure, otherwise 100 minus the issue percentage, floored at 0.
func HealthScore(issues, total float64) int {
	if total == 0 {
		return 100
	}
	score := 100 - Round(issues/total*100)
	if score < 0 {
		return 0
	}
	return score
}
