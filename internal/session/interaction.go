package session

import (
	"math"
	"time"

	"github.com/google/uuid"

	"ccis-go/internal/ccis"
	"ccis-go/internal/metrics"
	"ccis-go/internal/models"
)

// InteractionStatus is the lifecycle state of one task interaction.
type InteractionStatus string

const (
	InteractionInProgress  InteractionStatus = "IN_PROGRESS"
	InteractionCompleted   InteractionStatus = "COMPLETED"
	InteractionAbandoned   InteractionStatus = "ABANDONED"
	InteractionFlagged     InteractionStatus = "FLAGGED"
	InteractionUnderReview InteractionStatus = "UNDER_REVIEW"
)

// InteractionFlag records one gaming flag raised during the interaction.
type InteractionFlag struct {
	Code   string    `json:"code"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

// TaskInteraction accumulates the telemetry of a learner working one task.
// It is owned by its assessment session and mutated only through its own
// operations. FLAGGED interactions keep logging; UNDER_REVIEW ones do not.
type TaskInteraction struct {
	id           uuid.UUID
	sessionID    uuid.UUID
	taskID       string
	person       ccis.PersonID
	competency   ccis.CompetencyID
	tier         models.DifficultyTier
	scaffolding  int
	status       InteractionStatus
	startedAt    time.Time
	completedAt  time.Time
	logs         models.InteractionLogs
	flags        []InteractionFlag
	reviewReason string

	accuracy         float64
	actualDifficulty float64

	signal *ccis.BehavioralSignal

	now func() time.Time
}

// NewInteractionParams carries the identifiers a session hands to a new
// interaction. Now is optional and defaults to time.Now (tests inject it).
type NewInteractionParams struct {
	SessionID   uuid.UUID
	TaskID      string
	Person      ccis.PersonID
	Competency  ccis.CompetencyID
	Tier        models.DifficultyTier
	Scaffolding int
	Now         func() time.Time
}

func NewTaskInteraction(p NewInteractionParams) (*TaskInteraction, error) {
	if p.TaskID == "" {
		return nil, &ccis.ValidationError{Field: "taskId", Reason: "must not be empty"}
	}
	if p.Person == "" {
		return nil, &ccis.ValidationError{Field: "personId", Reason: "must not be empty"}
	}
	if p.Competency == "" {
		return nil, &ccis.ValidationError{Field: "competencyId", Reason: "must not be empty"}
	}
	if p.Tier.BaseMinutes <= 0 {
		return nil, &ccis.ValidationError{Field: "tier", Reason: "base minutes must be positive"}
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	return &TaskInteraction{
		id:          uuid.New(),
		sessionID:   p.SessionID,
		taskID:      p.TaskID,
		person:      p.Person,
		competency:  p.Competency,
		tier:        p.Tier,
		scaffolding: p.Scaffolding,
		status:      InteractionInProgress,
		startedAt:   now(),
		now:         now,
	}, nil
}

func (ti *TaskInteraction) ID() uuid.UUID                { return ti.id }
func (ti *TaskInteraction) SessionID() uuid.UUID         { return ti.sessionID }
func (ti *TaskInteraction) TaskID() string               { return ti.taskID }
func (ti *TaskInteraction) Person() ccis.PersonID        { return ti.person }
func (ti *TaskInteraction) Competency() ccis.CompetencyID { return ti.competency }
func (ti *TaskInteraction) Status() InteractionStatus    { return ti.status }
func (ti *TaskInteraction) StartedAt() time.Time         { return ti.startedAt }
func (ti *TaskInteraction) CompletedAt() time.Time       { return ti.completedAt }
func (ti *TaskInteraction) Accuracy() float64            { return ti.accuracy }
func (ti *TaskInteraction) ActualDifficulty() float64    { return ti.actualDifficulty }

// Logs returns a deep copy of the accumulated telemetry.
func (ti *TaskInteraction) Logs() models.InteractionLogs {
	return models.InteractionLogs{
		Hints:           append([]models.HintRequest(nil), ti.logs.Hints...),
		Errors:          append([]models.ErrorRecovery(nil), ti.logs.Errors...),
		SelfAssessments: append([]models.SelfAssessment(nil), ti.logs.SelfAssessments...),
		Resources:       append([]models.ResourceAccess(nil), ti.logs.Resources...),
		Consultations:   append([]models.PeerConsultation(nil), ti.logs.Consultations...),
	}
}

// Flags returns a copy of the gaming flags raised so far.
func (ti *TaskInteraction) Flags() []InteractionFlag {
	return append([]InteractionFlag(nil), ti.flags...)
}

// recordable guards every record operation. IN_PROGRESS and FLAGGED both
// accept telemetry; everything else is a state violation.
func (ti *TaskInteraction) recordable(op string) error {
	if ti.status != InteractionInProgress && ti.status != InteractionFlagged {
		return &StateError{Entity: "task interaction", Status: string(ti.status), Op: op}
	}
	return nil
}

func (ti *TaskInteraction) RecordHintRequest(hint models.HintRequest) error {
	if err := ti.recordable("record hint request"); err != nil {
		return err
	}
	ti.logs.Hints = append(ti.logs.Hints, hint)
	ti.applyFlags(metrics.CheckHintFlags(ti.logs.Hints))
	return nil
}

func (ti *TaskInteraction) RecordErrorRecovery(recovery models.ErrorRecovery) error {
	if err := ti.recordable("record error recovery"); err != nil {
		return err
	}
	if recovery.RecoveryMs < 0 || math.IsNaN(recovery.RecoveryMs) {
		return &ccis.ValidationError{Field: "recoveryMs", Reason: "must be non-negative"}
	}
	ti.logs.Errors = append(ti.logs.Errors, recovery)
	ti.applyFlags(metrics.CheckErrorFlags(ti.logs.Errors))
	return nil
}

func (ti *TaskInteraction) RecordSelfAssessment(sa models.SelfAssessment) error {
	if err := ti.recordable("record self assessment"); err != nil {
		return err
	}
	if sa.ConfidencePrediction < 0 || sa.ConfidencePrediction > 1 ||
		sa.ActualConfidence < 0 || sa.ActualConfidence > 1 {
		return &ccis.ValidationError{Field: "confidence", Reason: "predictions must be in [0,1]"}
	}
	ti.logs.SelfAssessments = append(ti.logs.SelfAssessments, sa)
	return nil
}

func (ti *TaskInteraction) RecordResourceAccess(ra models.ResourceAccess) error {
	if err := ti.recordable("record resource access"); err != nil {
		return err
	}
	ti.logs.Resources = append(ti.logs.Resources, ra)
	return nil
}

func (ti *TaskInteraction) RecordPeerConsultation(pc models.PeerConsultation) error {
	if err := ti.recordable("record peer consultation"); err != nil {
		return err
	}
	ti.logs.Consultations = append(ti.logs.Consultations, pc)
	return nil
}

// applyFlags appends flag codes not yet raised and moves an in-progress
// interaction to FLAGGED. Logging continues afterwards.
func (ti *TaskInteraction) applyFlags(codes []string) {
	for _, code := range codes {
		if ti.hasFlag(code) {
			continue
		}
		ti.flags = append(ti.flags, InteractionFlag{Code: code, At: ti.now()})
		if ti.status == InteractionInProgress {
			ti.status = InteractionFlagged
		}
	}
}

func (ti *TaskInteraction) hasFlag(code string) bool {
	for _, f := range ti.flags {
		if f.Code == code {
			return true
		}
	}
	return false
}

// Complete closes the interaction with the graded outcome. Flagged
// interactions may still complete; review decides what their signal is worth.
func (ti *TaskInteraction) Complete(accuracy, actualDifficulty float64) error {
	if err := ti.recordable("complete"); err != nil {
		return err
	}
	if accuracy < 0 || accuracy > 1 || math.IsNaN(accuracy) {
		return &ccis.ValidationError{Field: "accuracy", Reason: "must be in [0,1]"}
	}
	ti.accuracy = accuracy
	ti.actualDifficulty = actualDifficulty
	ti.completedAt = ti.now()
	ti.status = InteractionCompleted
	return nil
}

// Abandon marks the interaction as given up. No signal is derived from it.
func (ti *TaskInteraction) Abandon() error {
	if err := ti.recordable("abandon"); err != nil {
		return err
	}
	ti.status = InteractionAbandoned
	return nil
}

// FlagForReview escalates the interaction to a human. Unlike automatic gaming
// flags this stops further logging.
func (ti *TaskInteraction) FlagForReview(reason string) error {
	if err := ti.recordable("flag for review"); err != nil {
		return err
	}
	ti.reviewReason = reason
	ti.status = InteractionUnderReview
	return nil
}

func (ti *TaskInteraction) ReviewReason() string { return ti.reviewReason }

// GenerateBehavioralSignal derives the normalized signal from the accumulated
// logs. Only completed interactions produce a signal, and the derivation runs
// once; later calls return the cached value.
func (ti *TaskInteraction) GenerateBehavioralSignal() (ccis.BehavioralSignal, error) {
	if ti.status != InteractionCompleted {
		return ccis.BehavioralSignal{}, &StateError{
			Entity: "task interaction",
			Status: string(ti.status),
			Op:     "generate behavioral signal",
		}
	}
	if ti.signal != nil {
		return *ti.signal, nil
	}

	elapsed := ti.completedAt.Sub(ti.startedAt).Minutes()
	sig, err := metrics.DeriveSignal(metrics.DerivationInput{
		Logs:            ti.logs,
		ElapsedMinutes:  elapsed,
		ExpectedMinutes: ti.tier.ExpectedMinutes(ti.scaffolding),
		TaskCount:       1,
		CompletedAt:     ti.completedAt,
	})
	if err != nil {
		return ccis.BehavioralSignal{}, err
	}

	ti.signal = &sig
	return sig, nil
}
