package run

import (
	"regexp"
	"strconv"
)

// timeMarker matches ffmpeg's elapsed time report within a log line,
// e.g. "time=00:01:23.45".
var timeMarker = regexp.MustCompile(`time=(\d+):(\d+):(\d+(?:\.\d+)?)`)

// ParseTimeMarker extracts elapsed media seconds from one ffmpeg log
// line. The second return is false when the line carries no marker.
func ParseTimeMarker(line string) (float64, bool) {
	m := timeMarker.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.ParseFloat(m[3], 64)
	return float64(hours)*3600 + float64(minutes)*60 + seconds, true
}

// progressTracker converts elapsed seconds into clamped percentages.
// Emitted values never decrease even when the tool prints out-of-order
// time markers during multi-pass encoding.
type progressTracker struct {
	total float64
	last  int
}

func newProgressTracker(totalSeconds float64) *progressTracker {
	return &progressTracker{total: totalSeconds}
}

// Update returns the percentage for the given elapsed seconds. The
// second return is false when total duration is unknown and no
// percentage should be emitted.
func (p *progressTracker) Update(elapsed float64) (int, bool) {
	if p.total <= 0 {
		return 0, false
	}

	percent := int(elapsed / p.total * 100)
	if percent > 100 {
		percent = 100
	}
	if percent < p.last {
		percent = p.last
	}
	p.last = percent
	return percent, true
}
