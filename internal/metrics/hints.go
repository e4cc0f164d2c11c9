package metrics

import (
	"ccis-go/internal/models"
)

// HintRequestFrequency normalizes hint usage against elapsed time. Two hints
// per minute (or more) floors the independence component to zero.
func HintRequestFrequency(hints []models.HintRequest, elapsedMinutes float64) float64 {
	if len(hints) == 0 {
		return 1.0
	}
	if elapsedMinutes <= 0 {
		return 0.0
	}
	hintsPerMinute := float64(len(hints)) / elapsedMinutes
	return clamp01(1 - hintsPerMinute/2)
}

// HelpSeekingQuality is the share of hint requests the learner marked as
// strategic (asked with a plan, not a shortcut). No hints at all counts as
// perfect quality.
func HelpSeekingQuality(hints []models.HintRequest) float64 {
	if len(hints) == 0 {
		return 1.0
	}
	strategic := 0
	for _, h := range hints {
		if h.Strategic {
			strategic++
		}
	}
	return float64(strategic) / float64(len(hints))
}
