package session

import (
	"time"

	"github.com/google/uuid"

	"ccis-go/internal/ccis"
)

// EventType tags the state transitions worth telling the outside world about.
type EventType string

const (
	EventSessionStarted        EventType = "SESSION_STARTED"
	EventLevelAchieved         EventType = "LEVEL_ACHIEVED"
	EventGamingDetected        EventType = "GAMING_DETECTED"
	EventInterventionTriggered EventType = "INTERVENTION_TRIGGERED"
	EventSessionCompleted      EventType = "SESSION_COMPLETED"
	EventSessionTerminated     EventType = "SESSION_TERMINATED"
)

// Event is one entry in the session's outbox. The session never publishes
// anything itself; callers drain the outbox after each operation and hand the
// entries to the notification layer.
type Event struct {
	Type       EventType         `json:"type"`
	SessionID  uuid.UUID         `json:"sessionId"`
	Person     ccis.PersonID     `json:"personId"`
	Competency ccis.CompetencyID `json:"competencyId"`
	At         time.Time         `json:"at"`

	// Populated depending on Type.
	Level        ccis.Level       `json:"level,omitempty"`
	Confidence   ccis.Confidence  `json:"confidence,omitempty"`
	Intervention InterventionType `json:"intervention,omitempty"`
	Detail       string           `json:"detail,omitempty"`
}

func (s *AssessmentSession) emit(e Event) {
	e.SessionID = s.id
	e.Person = s.person
	e.Competency = s.competency
	if e.At.IsZero() {
		e.At = s.now()
	}
	s.outbox = append(s.outbox, e)
}

// DrainEvents returns the pending events and clears the outbox.
func (s *AssessmentSession) DrainEvents() []Event {
	events := s.outbox
	s.outbox = nil
	return events
}
