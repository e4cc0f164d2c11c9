package metrics

import (
	"ccis-go/internal/models"
)

// ErrorRecoverySpeed normalizes how quickly the learner recovers from errors.
// No errors scores 1; an average recovery of five minutes or more scores 0.
func ErrorRecoverySpeed(recoveries []models.ErrorRecovery) float64 {
	if len(recoveries) == 0 {
		return 1.0
	}

	var totalMs float64
	for _, r := range recoveries {
		totalMs += r.RecoveryMs
	}
	avgMinutes := totalMs / float64(len(recoveries)) / 60000.0

	return clamp01(1 - avgMinutes/5)
}
