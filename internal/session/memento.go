package session

import (
	"time"

	"github.com/google/uuid"

	"ccis-go/internal/ccis"
	"ccis-go/internal/models"
)

// Memento is the full persisted state of a session, used by the repository
// layer to reconstruct the aggregate. It carries no behavior.
type Memento struct {
	ID                  uuid.UUID
	Person              ccis.PersonID
	Competency          ccis.CompetencyID
	SessionType         string
	CreatedAt           time.Time
	StartedAt           time.Time
	MaxDuration         time.Duration
	Status              SessionStatus
	Signals             []ccis.BehavioralSignal
	CurrentLevel        ccis.Level
	OverallConfidence   ccis.Confidence
	OverallScore        float64
	Progress            map[ccis.CompetencyID]CompetencyProgress
	Interventions       []InterventionType
	GamingDetected      bool
	Detections          []GamingDetection
	Analytics           Analytics
	InteractionsStarted int
	TerminationReason   string
	ReviewReason        string
}

// Snapshot exports the session state for persistence. The exported
// collections are copies.
func (s *AssessmentSession) Snapshot() Memento {
	return Memento{
		ID:                  s.id,
		Person:              s.person,
		Competency:          s.competency,
		SessionType:         s.sessionType,
		CreatedAt:           s.createdAt,
		StartedAt:           s.startedAt,
		MaxDuration:         s.maxDuration,
		Status:              s.status,
		Signals:             s.Signals(),
		CurrentLevel:        s.currentLevel,
		OverallConfidence:   s.overallConfidence,
		OverallScore:        s.overallScore,
		Progress:            s.CompetencyProgressMap(),
		Interventions:       s.Interventions(),
		GamingDetected:      s.gamingDetected,
		Detections:          s.Detections(),
		Analytics:           s.Analytics(),
		InteractionsStarted: s.interactionsStarted,
		TerminationReason:   s.terminationReason,
		ReviewReason:        s.reviewReason,
	}
}

// InteractionMemento is the persisted state of one task interaction.
type InteractionMemento struct {
	ID               uuid.UUID
	SessionID        uuid.UUID
	TaskID           string
	Person           ccis.PersonID
	Competency       ccis.CompetencyID
	TierName         string
	TierBaseMinutes  float64
	Scaffolding      int
	Status           InteractionStatus
	StartedAt        time.Time
	CompletedAt      time.Time
	Logs             models.InteractionLogs
	Flags            []InteractionFlag
	ReviewReason     string
	Accuracy         float64
	ActualDifficulty float64
}

// InteractionSnapshot exports the interaction state for persistence.
func (ti *TaskInteraction) InteractionSnapshot() InteractionMemento {
	return InteractionMemento{
		ID:               ti.id,
		SessionID:        ti.sessionID,
		TaskID:           ti.taskID,
		Person:           ti.person,
		Competency:       ti.competency,
		TierName:         ti.tier.Name,
		TierBaseMinutes:  ti.tier.BaseMinutes,
		Scaffolding:      ti.scaffolding,
		Status:           ti.status,
		StartedAt:        ti.startedAt,
		CompletedAt:      ti.completedAt,
		Logs:             ti.Logs(),
		Flags:            ti.Flags(),
		ReviewReason:     ti.reviewReason,
		Accuracy:         ti.accuracy,
		ActualDifficulty: ti.actualDifficulty,
	}
}

// RestoreInteraction rebuilds a task interaction from persisted state.
func RestoreInteraction(m InteractionMemento, now func() time.Time) *TaskInteraction {
	if now == nil {
		now = time.Now
	}
	return &TaskInteraction{
		id:               m.ID,
		sessionID:        m.SessionID,
		taskID:           m.TaskID,
		person:           m.Person,
		competency:       m.Competency,
		tier:             models.DifficultyTier{Name: m.TierName, BaseMinutes: m.TierBaseMinutes},
		scaffolding:      m.Scaffolding,
		status:           m.Status,
		startedAt:        m.StartedAt,
		completedAt:      m.CompletedAt,
		logs:             m.Logs,
		flags:            append([]InteractionFlag(nil), m.Flags...),
		reviewReason:     m.ReviewReason,
		accuracy:         m.Accuracy,
		actualDifficulty: m.ActualDifficulty,
		now:              now,
	}
}

// Restore rebuilds a session from persisted state. Invariants are assumed to
// have held when the memento was taken; only structural defaults are filled.
func Restore(m Memento, now func() time.Time) *AssessmentSession {
	if now == nil {
		now = time.Now
	}
	progress := m.Progress
	if progress == nil {
		progress = make(map[ccis.CompetencyID]CompetencyProgress)
	}
	level := m.CurrentLevel
	if level == 0 {
		level = ccis.LevelDependent
	}

	return &AssessmentSession{
		id:                  m.ID,
		person:              m.Person,
		competency:          m.Competency,
		sessionType:         m.SessionType,
		createdAt:           m.CreatedAt,
		startedAt:           m.StartedAt,
		maxDuration:         m.MaxDuration,
		status:              m.Status,
		signals:             append([]ccis.BehavioralSignal(nil), m.Signals...),
		currentLevel:        level,
		overallConfidence:   m.OverallConfidence,
		overallScore:        m.OverallScore,
		progress:            progress,
		interventions:       append([]InterventionType(nil), m.Interventions...),
		gamingDetected:      m.GamingDetected,
		detections:          append([]GamingDetection(nil), m.Detections...),
		analytics:           m.Analytics.clone(),
		interactionsStarted: m.InteractionsStarted,
		terminationReason:   m.TerminationReason,
		reviewReason:        m.ReviewReason,
		now:                 now,
	}
}
