package ccis

import (
	"fmt"
	"math"
	"time"
)

// BehavioralSignal is the normalized record derived from one completed task
// interaction. All seven measures are in [0,1]. Treat values as immutable
// once constructed; NewBehavioralSignal is the only way to build a valid one.
type BehavioralSignal struct {
	HintRequestFrequency     float64 `json:"hintRequestFrequency"`
	ErrorRecoverySpeed       float64 `json:"errorRecoverySpeed"`
	TransferSuccessRate      float64 `json:"transferSuccessRate"`
	MetacognitiveAccuracy    float64 `json:"metacognitiveAccuracy"`
	TaskCompletionEfficiency float64 `json:"taskCompletionEfficiency"`
	HelpSeekingQuality       float64 `json:"helpSeekingQuality"`
	SelfAssessmentAlignment  float64 `json:"selfAssessmentAlignment"`

	// AssessmentDuration is in minutes, at least 1.
	AssessmentDuration float64  `json:"assessmentDuration"`
	TaskCount          int       `json:"taskCount"`
	Timestamp          time.Time `json:"timestamp"`
}

// NewBehavioralSignal validates every field and fails fast. There is no
// silent clamping at construction; out-of-range input is a caller bug.
func NewBehavioralSignal(measures [7]float64, durationMinutes float64, taskCount int, at time.Time) (BehavioralSignal, error) {
	names := [7]string{
		"hintRequestFrequency",
		"errorRecoverySpeed",
		"transferSuccessRate",
		"metacognitiveAccuracy",
		"taskCompletionEfficiency",
		"helpSeekingQuality",
		"selfAssessmentAlignment",
	}
	for i, m := range measures {
		if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 || m > 1 {
			return BehavioralSignal{}, &ValidationError{
				Field:  names[i],
				Reason: fmt.Sprintf("must be a finite value in [0,1], got %v", m),
			}
		}
	}
	if math.IsNaN(durationMinutes) || durationMinutes < 1 {
		return BehavioralSignal{}, &ValidationError{
			Field:  "assessmentDuration",
			Reason: fmt.Sprintf("must be at least 1 minute, got %v", durationMinutes),
		}
	}
	if taskCount < 1 {
		return BehavioralSignal{}, &ValidationError{
			Field:  "taskCount",
			Reason: fmt.Sprintf("must be at least 1, got %d", taskCount),
		}
	}
	if at.IsZero() {
		return BehavioralSignal{}, &ValidationError{Field: "timestamp", Reason: "must be set"}
	}

	return BehavioralSignal{
		HintRequestFrequency:     measures[0],
		ErrorRecoverySpeed:       measures[1],
		TransferSuccessRate:      measures[2],
		MetacognitiveAccuracy:    measures[3],
		TaskCompletionEfficiency: measures[4],
		HelpSeekingQuality:       measures[5],
		SelfAssessmentAlignment:  measures[6],
		AssessmentDuration:       durationMinutes,
		TaskCount:                taskCount,
		Timestamp:                at,
	}, nil
}

// Measures returns the seven measures in weight order.
func (s BehavioralSignal) Measures() [7]float64 {
	return [7]float64{
		s.HintRequestFrequency,
		s.ErrorRecoverySpeed,
		s.TransferSuccessRate,
		s.MetacognitiveAccuracy,
		s.TaskCompletionEfficiency,
		s.HelpSeekingQuality,
		s.SelfAssessmentAlignment,
	}
}
