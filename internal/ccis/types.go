package ccis

import (
	"fmt"
	"math"
	"strings"
)

// Level is the 1-4 classification of how independently a learner performs.
type Level int

const (
	LevelDependent   Level = 1
	LevelGuided      Level = 2
	LevelAssisted    Level = 3
	LevelIndependent Level = 4
)

// NewLevel validates an integer-backed level value.
func NewLevel(v int) (Level, error) {
	if v < 1 || v > 4 {
		return 0, &ValidationError{Field: "level", Reason: fmt.Sprintf("must be between 1 and 4, got %d", v)}
	}
	return Level(v), nil
}

// Percent expresses the level as a share of the maximum level.
func (l Level) Percent() float64 {
	return float64(l) * 25.0
}

func (l Level) String() string {
	return fmt.Sprintf("Level %d", int(l))
}

// Confidence is a [0,1] measure of how trustworthy a level classification is.
type Confidence float64

func NewConfidence(v float64) (Confidence, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
		return 0, &ValidationError{Field: "confidence", Reason: fmt.Sprintf("must be a finite value in [0,1], got %v", v)}
	}
	return Confidence(v), nil
}

// PersonID is an opaque learner identifier owned by the identity service.
type PersonID string

func NewPersonID(v string) (PersonID, error) {
	if strings.TrimSpace(v) == "" {
		return "", &ValidationError{Field: "personId", Reason: "must not be empty"}
	}
	return PersonID(v), nil
}

// CompetencyID is an opaque competency identifier owned by the curriculum service.
type CompetencyID string

func NewCompetencyID(v string) (CompetencyID, error) {
	if strings.TrimSpace(v) == "" {
		return "", &ValidationError{Field: "competencyId", Reason: "must not be empty"}
	}
	return CompetencyID(v), nil
}
