package ccis

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewBehavioralSignalRejectsBadInput(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	good := [7]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}

	tests := []struct {
		name      string
		measures  [7]float64
		duration  float64
		taskCount int
		at        time.Time
	}{
		{"measure below zero", [7]float64{-0.1, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, 10, 1, at},
		{"measure above one", [7]float64{0.5, 1.1, 0.5, 0.5, 0.5, 0.5, 0.5}, 10, 1, at},
		{"NaN measure", [7]float64{0.5, 0.5, math.NaN(), 0.5, 0.5, 0.5, 0.5}, 10, 1, at},
		{"infinite measure", [7]float64{0.5, 0.5, 0.5, math.Inf(1), 0.5, 0.5, 0.5}, 10, 1, at},
		{"duration under a minute", good, 0.5, 1, at},
		{"NaN duration", good, math.NaN(), 1, at},
		{"zero task count", good, 10, 0, at},
		{"zero timestamp", good, 10, 1, time.Time{}},
	}

	for _, tt := range tests {
		_, err := NewBehavioralSignal(tt.measures, tt.duration, tt.taskCount, tt.at)
		if err == nil {
			t.Errorf("%s: expected error, got none", tt.name)
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: error %v is not a validation error", tt.name, err)
		}
	}
}

func TestMeasuresReturnsWeightOrder(t *testing.T) {
	measures := [7]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}
	sig := mustSignal(t, measures, 10, 2)

	if got := sig.Measures(); got != measures {
		t.Errorf("Measures() = %v, want %v", got, measures)
	}
}

func TestLevelPercent(t *testing.T) {
	tests := []struct {
		level Level
		want  float64
	}{
		{LevelDependent, 25},
		{LevelGuided, 50},
		{LevelAssisted, 75},
		{LevelIndependent, 100},
	}
	for _, tt := range tests {
		if got := tt.level.Percent(); got != tt.want {
			t.Errorf("%v.Percent() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewLevelBounds(t *testing.T) {
	for _, v := range []int{0, 5, -1} {
		if _, err := NewLevel(v); err == nil {
			t.Errorf("NewLevel(%d): expected error", v)
		}
	}
	for _, v := range []int{1, 2, 3, 4} {
		if _, err := NewLevel(v); err != nil {
			t.Errorf("NewLevel(%d): unexpected error %v", v, err)
		}
	}
}
