// Package progress renders fixed-width text bars for ranks and ratios.
package progress

import (
	"math"
	"strings"
)

const (
	Filled = "█"
	Empty  = "░"

	DefaultWidth = 20
)

// RankBar renders a bar that is full for the leader and empty for the last
// of total entrants. A field of one entrant renders a full bar.
func RankBar(position, total, width int) string {
	if width <= 0 {
		return ""
	}
	if position < 1 {
		position = 1
	}

	progress := 1.0
	if total > 1 {
		progress = float64(total-position) / float64(total-1)
	}

	return bar(int(math.Round(float64(width)*clamp(progress, 0, 1))), width)
}

// PercentageBar renders value as a share of max, one glyph per 100/width
// percent. A non-positive max renders an empty bar.
func PercentageBar(value, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	if max <= 0 || math.IsNaN(value) || math.IsNaN(max) {
		return bar(0, width)
	}

	percentage := clamp(value/max*100, 0, 100)
	return bar(int(percentage*float64(width)/100), width)
}

func bar(filled, width int) string {
	return strings.Repeat(Filled, filled) + strings.Repeat(Empty, width-filled)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
