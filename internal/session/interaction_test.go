package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"ccis-go/internal/ccis"
	"ccis-go/internal/models"
)

func newTestInteraction(t *testing.T, clock *testClock) *TaskInteraction {
	t.Helper()
	ti, err := NewTaskInteraction(NewInteractionParams{
		SessionID:  uuid.New(),
		TaskID:     "task-42",
		Person:     "person-1",
		Competency: "communication",
		Tier:       models.DifficultyTier{Name: "beginner", BaseMinutes: 10},
		Now:        clock.Now,
	})
	require.NoError(t, err)
	return ti
}

func TestNewInteractionValidation(t *testing.T) {
	base := NewInteractionParams{
		TaskID:     "task-1",
		Person:     "p",
		Competency: "c",
		Tier:       models.DifficultyTier{Name: "beginner", BaseMinutes: 10},
	}

	noTask := base
	noTask.TaskID = ""
	_, err := NewTaskInteraction(noTask)
	require.True(t, errors.Is(err, ccis.ErrValidation))

	badTier := base
	badTier.Tier = models.DifficultyTier{Name: "broken"}
	_, err = NewTaskInteraction(badTier)
	require.True(t, errors.Is(err, ccis.ErrValidation))
}

func TestRecordingLifecycle(t *testing.T) {
	clock := newTestClock()
	ti := newTestInteraction(t, clock)

	require.NoError(t, ti.RecordHintRequest(models.HintRequest{HintType: "conceptual", OffsetMs: 5000, Strategic: true}))
	require.NoError(t, ti.RecordErrorRecovery(models.ErrorRecovery{ErrorType: "logic", RecoveryMs: 30000}))
	require.NoError(t, ti.RecordSelfAssessment(models.SelfAssessment{
		ConfidencePrediction: 0.6, ActualConfidence: 0.7,
		DifficultyPrediction: 2, ActualDifficulty: 3,
	}))
	require.NoError(t, ti.RecordResourceAccess(models.ResourceAccess{ResourceID: "doc-1", OffsetMs: 8000}))
	require.NoError(t, ti.RecordPeerConsultation(models.PeerConsultation{PeerID: "peer-9", OffsetMs: 9000}))

	logs := ti.Logs()
	require.Len(t, logs.Hints, 1)
	require.Len(t, logs.Errors, 1)
	require.Len(t, logs.SelfAssessments, 1)
	require.Len(t, logs.Resources, 1)
	require.Len(t, logs.Consultations, 1)

	require.NoError(t, ti.Complete(0.8, 3))
	require.Equal(t, InteractionCompleted, ti.Status())

	// Telemetry is frozen once completed.
	err := ti.RecordHintRequest(models.HintRequest{OffsetMs: 10000})
	require.True(t, errors.Is(err, ErrStateViolation))
}

func TestRecordValidation(t *testing.T) {
	clock := newTestClock()
	ti := newTestInteraction(t, clock)

	err := ti.RecordErrorRecovery(models.ErrorRecovery{ErrorType: "logic", RecoveryMs: -1})
	require.True(t, errors.Is(err, ccis.ErrValidation))

	err = ti.RecordSelfAssessment(models.SelfAssessment{ConfidencePrediction: 1.5})
	require.True(t, errors.Is(err, ccis.ErrValidation))

	err = ti.Complete(1.2, 3)
	require.True(t, errors.Is(err, ccis.ErrValidation))
	require.Equal(t, InteractionInProgress, ti.Status())
}

func TestRapidHintsFlagInteraction(t *testing.T) {
	clock := newTestClock()
	ti := newTestInteraction(t, clock)

	require.NoError(t, ti.RecordHintRequest(models.HintRequest{OffsetMs: 1000}))
	require.NoError(t, ti.RecordHintRequest(models.HintRequest{OffsetMs: 9000}))
	require.Equal(t, InteractionInProgress, ti.Status())

	require.NoError(t, ti.RecordHintRequest(models.HintRequest{OffsetMs: 20000}))
	require.Equal(t, InteractionFlagged, ti.Status())

	flags := ti.Flags()
	require.Len(t, flags, 1)
	require.Equal(t, "RAPID_HINT_REQUESTS", flags[0].Code)

	// A flagged interaction keeps accepting telemetry, and the same flag is
	// not raised twice.
	require.NoError(t, ti.RecordHintRequest(models.HintRequest{OffsetMs: 25000}))
	require.Len(t, ti.Flags(), 1)

	// Flagged interactions may still complete.
	require.NoError(t, ti.Complete(0.5, 2))
	require.Equal(t, InteractionCompleted, ti.Status())
}

func TestRepeatedErrorsFlagInteraction(t *testing.T) {
	clock := newTestClock()
	ti := newTestInteraction(t, clock)

	for i := 0; i < 3; i++ {
		require.NoError(t, ti.RecordErrorRecovery(models.ErrorRecovery{
			ErrorType:     "logic",
			ErrorOffsetMs: float64(i) * 60000,
			RecoveryMs:    20000,
		}))
	}

	require.Equal(t, InteractionFlagged, ti.Status())
	flags := ti.Flags()
	require.Len(t, flags, 1)
	require.Equal(t, "REPEATED_LOGIC_ERRORS", flags[0].Code)
}

func TestFlagForReviewStopsLogging(t *testing.T) {
	clock := newTestClock()
	ti := newTestInteraction(t, clock)

	require.NoError(t, ti.FlagForReview("answer pattern looks scripted"))
	require.Equal(t, InteractionUnderReview, ti.Status())
	require.Equal(t, "answer pattern looks scripted", ti.ReviewReason())

	err := ti.RecordHintRequest(models.HintRequest{OffsetMs: 1000})
	require.True(t, errors.Is(err, ErrStateViolation))
	err = ti.Complete(0.5, 2)
	require.True(t, errors.Is(err, ErrStateViolation))
}

func TestAbandonedInteractionYieldsNoSignal(t *testing.T) {
	clock := newTestClock()
	ti := newTestInteraction(t, clock)

	require.NoError(t, ti.Abandon())
	require.Equal(t, InteractionAbandoned, ti.Status())

	_, err := ti.GenerateBehavioralSignal()
	require.True(t, errors.Is(err, ErrStateViolation))
}

func TestGenerateBehavioralSignal(t *testing.T) {
	clock := newTestClock()
	ti := newTestInteraction(t, clock)

	_, err := ti.GenerateBehavioralSignal()
	require.True(t, errors.Is(err, ErrStateViolation), "no signal before completion")

	clock.Advance(10 * time.Minute)
	require.NoError(t, ti.Complete(0.9, 2))

	sig, err := ti.GenerateBehavioralSignal()
	require.NoError(t, err)

	// No hints or errors: full independence, perfect recovery and transfer,
	// neutral metacognition, on-time completion against the 10 minute tier.
	require.Equal(t, [7]float64{1, 1, 1, 0.5, 1, 1, 0.5}, sig.Measures())
	require.InDelta(t, 10, sig.AssessmentDuration, 1e-9)
	require.Equal(t, 1, sig.TaskCount)
	require.Equal(t, clock.Now(), sig.Timestamp)

	// Derivation runs once; later calls return the cached value.
	again, err := ti.GenerateBehavioralSignal()
	require.NoError(t, err)
	require.Equal(t, sig, again)
}

func TestScaffoldingStretchesExpectedTime(t *testing.T) {
	clock := newTestClock()
	ti, err := NewTaskInteraction(NewInteractionParams{
		SessionID:   uuid.New(),
		TaskID:      "task-7",
		Person:      "person-1",
		Competency:  "communication",
		Tier:        models.DifficultyTier{Name: "beginner", BaseMinutes: 10},
		Scaffolding: 2,
		Now:         clock.Now,
	})
	require.NoError(t, err)

	// Two scaffolding levels stretch the expectation to 12 minutes, so a 12
	// minute completion still scores full efficiency.
	clock.Advance(12 * time.Minute)
	require.NoError(t, ti.Complete(0.9, 2))

	sig, err := ti.GenerateBehavioralSignal()
	require.NoError(t, err)
	require.InDelta(t, 1.0, sig.TaskCompletionEfficiency, 1e-9)
}

func TestLogsReturnsDeepCopy(t *testing.T) {
	clock := newTestClock()
	ti := newTestInteraction(t, clock)
	require.NoError(t, ti.RecordHintRequest(models.HintRequest{HintType: "conceptual", OffsetMs: 5000}))

	logs := ti.Logs()
	logs.Hints[0].HintType = "tampered"
	require.Equal(t, "conceptual", ti.Logs().Hints[0].HintType)
}
