package session

import (
	"time"

	"github.com/google/uuid"

	"ccis-go/internal/ccis"
)

// Reliability is the qualitative trust rating exposed alongside a progress
// snapshot.
type Reliability string

const (
	ReliabilityInsufficient Reliability = "insufficient data"
	ReliabilityHigh         Reliability = "high"
	ReliabilityModerate     Reliability = "moderate"
	ReliabilityLow          Reliability = "low"
)

// ProgressSnapshot is the read-only view handed to external consumers. Every
// collection in it is a copy; mutating a snapshot never touches the session.
type ProgressSnapshot struct {
	SessionID           uuid.UUID                                `json:"sessionId"`
	Person              ccis.PersonID                            `json:"personId"`
	Status              SessionStatus                            `json:"status"`
	SignalCount         int                                      `json:"signalCount"`
	InteractionsStarted int                                      `json:"interactionsStarted"`
	CurrentLevel        ccis.Level                               `json:"currentLevel"`
	OverallConfidence   ccis.Confidence                          `json:"overallConfidence"`
	OverallScore        float64                                  `json:"overallScore"`
	Competencies        map[ccis.CompetencyID]CompetencyProgress `json:"competencies"`
	Interventions       []InterventionType                       `json:"interventions"`
	GamingDetected      bool                                     `json:"gamingDetected"`
	Reliability         Reliability                              `json:"reliability"`
	ElapsedMinutes      float64                                  `json:"elapsedMinutes"`
	AsOf                time.Time                                `json:"asOf"`
}

// Progress builds the current snapshot.
func (s *AssessmentSession) Progress() ProgressSnapshot {
	return ProgressSnapshot{
		SessionID:           s.id,
		Person:              s.person,
		Status:              s.status,
		SignalCount:         len(s.signals),
		InteractionsStarted: s.interactionsStarted,
		CurrentLevel:        s.currentLevel,
		OverallConfidence:   s.overallConfidence,
		OverallScore:        s.overallScore,
		Competencies:        s.CompetencyProgressMap(),
		Interventions:       s.Interventions(),
		GamingDetected:      s.gamingDetected,
		Reliability:         s.reliability(),
		ElapsedMinutes:      s.Elapsed().Minutes(),
		AsOf:                s.now(),
	}
}

func (s *AssessmentSession) reliability() Reliability {
	switch {
	case len(s.signals) < MinSignalsForCompletion:
		return ReliabilityInsufficient
	case float64(s.overallConfidence) >= 0.8 && !s.gamingDetected:
		return ReliabilityHigh
	case float64(s.overallConfidence) >= 0.6 && !s.gamingDetected:
		return ReliabilityModerate
	default:
		return ReliabilityLow
	}
}
