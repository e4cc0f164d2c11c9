package repository

import (
	"context"

	"github.com/google/uuid"

	"ccis-go/internal/ccis"
	"ccis-go/internal/database"
	"ccis-go/internal/models"
)

// SaveSignal flattens a behavioral signal into its own row. The derived
// score/confidence/level columns are denormalized for the charts queries.
func SaveSignal(ctx context.Context, sessionID, interactionID uuid.UUID, person ccis.PersonID, competency ccis.CompetencyID, sig ccis.BehavioralSignal) error {
	record := models.SignalRecord{
		SessionID:     sessionID,
		InteractionID: interactionID,
		PersonID:      string(person),
		CompetencyID:  string(competency),

		HintRequestFrequency:     sig.HintRequestFrequency,
		ErrorRecoverySpeed:       sig.ErrorRecoverySpeed,
		TransferSuccessRate:      sig.TransferSuccessRate,
		MetacognitiveAccuracy:    sig.MetacognitiveAccuracy,
		TaskCompletionEfficiency: sig.TaskCompletionEfficiency,
		HelpSeekingQuality:       sig.HelpSeekingQuality,
		SelfAssessmentAlignment:  sig.SelfAssessmentAlignment,

		DurationMinutes: sig.AssessmentDuration,
		TaskCount:       sig.TaskCount,
		WeightedScore:   sig.WeightedScore(),
		Confidence:      sig.Confidence(),
		Level:           int(sig.Level()),
		MeasuredAt:      sig.Timestamp,
	}
	return database.DB.WithContext(ctx).Create(&record).Error
}

// RecordToSignal revalidates a stored row back into a signal value.
func RecordToSignal(r models.SignalRecord) (ccis.BehavioralSignal, error) {
	return ccis.NewBehavioralSignal(
		[7]float64{
			r.HintRequestFrequency,
			r.ErrorRecoverySpeed,
			r.TransferSuccessRate,
			r.MetacognitiveAccuracy,
			r.TaskCompletionEfficiency,
			r.HelpSeekingQuality,
			r.SelfAssessmentAlignment,
		},
		r.DurationMinutes,
		r.TaskCount,
		r.MeasuredAt,
	)
}
