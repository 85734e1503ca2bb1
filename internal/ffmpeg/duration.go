package ffmpeg

import (
	"math"
	"strconv"
	"strings"
)

// DurationTolerance is the largest difference, in seconds, at which two
// durations still count as the same clip length.
const DurationTolerance = 0.05

// ParseDuration parses the single float ffprobe prints for format=duration.
func ParseDuration(out string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(out), 64)
}

// SameDuration reports whether a and b differ by less than DurationTolerance.
func SameDuration(a, b float64) bool {
	return math.Abs(a-b) < DurationTolerance
}
