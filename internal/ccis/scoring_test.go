package ccis

import (
	"math"
	"testing"
	"time"
)

func mustSignal(t *testing.T, measures [7]float64, duration float64, taskCount int) BehavioralSignal {
	t.Helper()
	sig, err := NewBehavioralSignal(measures, duration, taskCount, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewBehavioralSignal: %v", err)
	}
	return sig
}

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightHintFrequency + WeightRecoverySpeed + WeightTransferSuccess +
		WeightMetacognition + WeightEfficiency + WeightHelpSeeking + WeightSelfAlignment
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
}

func TestWeightedScore(t *testing.T) {
	tests := []struct {
		name     string
		measures [7]float64
		want     float64
	}{
		{"all mid", [7]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, 0.5},
		{"fully independent", [7]float64{0, 1, 1, 1, 1, 1, 1}, 1.0},
		{"fully dependent", [7]float64{1, 0, 0, 0, 0, 0, 0}, 0.0},
		{"heavy hint use only", [7]float64{1, 1, 1, 1, 1, 1, 1}, 0.65},
	}

	for _, tt := range tests {
		sig := mustSignal(t, tt.measures, 10, 3)
		got := sig.WeightedScore()
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: WeightedScore() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0, LevelDependent},
		{0.2499, LevelDependent},
		{0.25, LevelGuided},
		{0.4999, LevelGuided},
		{0.50, LevelAssisted},
		{0.8499, LevelAssisted},
		{0.85, LevelIndependent},
		{1.0, LevelIndependent},
	}

	for _, tt := range tests {
		got := LevelForScore(tt.score)
		if got != tt.want {
			t.Errorf("LevelForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestConfidenceBlend(t *testing.T) {
	// Identical measures mean zero variance, so the consistency term is 1.
	// One task and one minute leave coverage and duration nearly empty.
	sig := mustSignal(t, [7]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, 1, 1)
	want := 0.60*1.0 + 0.25*(1.0/5.0) + 0.15*(1.0/15.0)
	if got := sig.Confidence(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Confidence() = %v, want %v", got, want)
	}

	// Full coverage and duration saturate the other two terms.
	sig = mustSignal(t, [7]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, 15, 5)
	if got := sig.Confidence(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("saturated Confidence() = %v, want 1.0", got)
	}

	// Longer and broader than the caps never exceeds 1.
	sig = mustSignal(t, [7]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, 90, 40)
	if got := sig.Confidence(); got > 1.0 {
		t.Errorf("capped Confidence() = %v, want <= 1.0", got)
	}
}

func TestDetectsGaming(t *testing.T) {
	tests := []struct {
		name      string
		measures  [7]float64
		duration  float64
		taskCount int
		want      bool
	}{
		{
			name:      "plain mid signal is clean",
			measures:  [7]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
			duration:  15,
			taskCount: 5,
			want:      false,
		},
		{
			name:      "implausibly fast recovery",
			measures:  [7]float64{0.5, 0.96, 0.5, 0.5, 0.5, 0.5, 0.5},
			duration:  15,
			taskCount: 5,
			want:      true,
		},
		{
			name:      "no hints but transfer contradicts recovery",
			measures:  [7]float64{0.0, 0.2, 0.7, 0.6, 0.5, 0.5, 0.5},
			duration:  15,
			taskCount: 5,
			want:      true,
		},
		{
			name:      "perfect confidence with high score",
			measures:  [7]float64{0.1, 0.95, 0.95, 0.95, 0.95, 0.95, 0.95},
			duration:  15,
			taskCount: 5,
			want:      true,
		},
		{
			name:      "metacognition out of line with transfer",
			measures:  [7]float64{0.5, 0.5, 0.1, 0.7, 0.5, 0.5, 0.5},
			duration:  15,
			taskCount: 5,
			want:      true,
		},
	}

	for _, tt := range tests {
		sig := mustSignal(t, tt.measures, tt.duration, tt.taskCount)
		if got := sig.DetectsGaming(); got != tt.want {
			t.Errorf("%s: DetectsGaming() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDetectsGamingIsDeterministic(t *testing.T) {
	sig := mustSignal(t, [7]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, 15, 5)
	first := sig.DetectsGaming()
	for i := 0; i < 100; i++ {
		if sig.DetectsGaming() != first {
			t.Fatal("DetectsGaming flipped on identical input")
		}
	}
}

func TestNeedsIntervention(t *testing.T) {
	tests := []struct {
		name     string
		measures [7]float64
		want     bool
	}{
		{"no struggle markers", [7]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, false},
		{"heavy hints alone", [7]float64{0.85, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, false},
		{"heavy hints and slow recovery", [7]float64{0.85, 0.1, 0.5, 0.5, 0.5, 0.5, 0.5}, true},
		{"slow recovery and weak transfer", [7]float64{0.5, 0.1, 0.2, 0.5, 0.5, 0.5, 0.5}, true},
		{"all three markers", [7]float64{0.9, 0.1, 0.1, 0.5, 0.5, 0.5, 0.5}, true},
	}

	for _, tt := range tests {
		sig := mustSignal(t, tt.measures, 15, 5)
		if got := sig.NeedsIntervention(); got != tt.want {
			t.Errorf("%s: NeedsIntervention() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
