package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ccis-go/internal/models"
)

func TestSessionSnapshotRoundTrip(t *testing.T) {
	clock := newTestClock()
	s := newTestSession(t, clock)
	require.NoError(t, s.Start())
	s.NoteInteractionStarted()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.AddBehavioralSignal(midSignal(t, clock)))
	}

	restored := Restore(s.Snapshot(), clock.Now)

	require.Equal(t, s.ID(), restored.ID())
	require.Equal(t, s.Status(), restored.Status())
	require.Equal(t, s.CurrentLevel(), restored.CurrentLevel())
	require.InDelta(t, s.OverallScore(), restored.OverallScore(), 1e-9)
	require.InDelta(t, float64(s.OverallConfidence()), float64(restored.OverallConfidence()), 1e-9)
	require.Equal(t, s.SignalCount(), restored.SignalCount())
	require.Equal(t, s.Interventions(), restored.Interventions())
	require.Equal(t, s.CompetencyProgressMap(), restored.CompetencyProgressMap())
	require.Equal(t, s.Analytics(), restored.Analytics())

	// The restored aggregate keeps working where the snapshot left off.
	for i := 0; i < 2; i++ {
		require.NoError(t, restored.AddBehavioralSignal(midSignal(t, clock)))
	}
	require.NoError(t, restored.Complete())
	require.Equal(t, StatusCompleted, restored.Status())
}

func TestRestoreFillsStructuralDefaults(t *testing.T) {
	clock := newTestClock()
	s := newTestSession(t, clock)

	m := s.Snapshot()
	m.Progress = nil
	m.CurrentLevel = 0

	restored := Restore(m, clock.Now)
	require.NotNil(t, restored.CompetencyProgressMap())
	require.Equal(t, 1, int(restored.CurrentLevel()))
}

func TestInteractionSnapshotRoundTrip(t *testing.T) {
	clock := newTestClock()
	ti := newTestInteraction(t, clock)
	require.NoError(t, ti.RecordHintRequest(models.HintRequest{HintType: "conceptual", OffsetMs: 5000}))
	clock.Advance(8 * time.Minute)
	require.NoError(t, ti.Complete(0.75, 3))

	restored := RestoreInteraction(ti.InteractionSnapshot(), clock.Now)

	require.Equal(t, ti.ID(), restored.ID())
	require.Equal(t, ti.Status(), restored.Status())
	require.Equal(t, ti.Logs(), restored.Logs())
	require.InDelta(t, ti.Accuracy(), restored.Accuracy(), 1e-9)

	// Both derive the same signal from the same logs.
	want, err := ti.GenerateBehavioralSignal()
	require.NoError(t, err)
	got, err := restored.GenerateBehavioralSignal()
	require.NoError(t, err)
	require.Equal(t, want, got)
}
