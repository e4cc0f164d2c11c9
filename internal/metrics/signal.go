package metrics

import (
	"time"

	"ccis-go/internal/ccis"
	"ccis-go/internal/models"
)

// DerivationInput carries everything the normalizer needs from one completed
// task interaction.
type DerivationInput struct {
	Logs            models.InteractionLogs
	ElapsedMinutes  float64
	ExpectedMinutes float64
	TaskCount       int
	CompletedAt     time.Time
}

// DeriveSignal turns raw interaction telemetry into the seven normalized
// behavioral measures and validates the result. It is a pure function of its
// input; the same logs always produce the same signal.
func DeriveSignal(in DerivationInput) (ccis.BehavioralSignal, error) {
	measures := [7]float64{
		HintRequestFrequency(in.Logs.Hints, in.ElapsedMinutes),
		ErrorRecoverySpeed(in.Logs.Errors),
		TransferSuccessRate(len(in.Logs.Errors), len(in.Logs.Hints)),
		MetacognitiveAccuracy(in.Logs.SelfAssessments),
		TaskCompletionEfficiency(in.ExpectedMinutes, in.ElapsedMinutes),
		HelpSeekingQuality(in.Logs.Hints),
		SelfAssessmentAlignment(in.Logs.SelfAssessments),
	}

	duration := in.ElapsedMinutes
	if duration < 1 {
		// Signals require at least one minute of assessment time; very fast
		// completions still count as a minute of evidence.
		duration = 1
	}

	taskCount := in.TaskCount
	if taskCount < 1 {
		taskCount = 1
	}

	return ccis.NewBehavioralSignal(measures, duration, taskCount, in.CompletedAt)
}
