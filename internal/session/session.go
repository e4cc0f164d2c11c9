package session

import (
	"math"
	"time"

	"github.com/google/uuid"

	"ccis-go/internal/ccis"
)

// SessionStatus is the lifecycle state of an assessment session.
type SessionStatus string

const (
	StatusPlanned     SessionStatus = "PLANNED"
	StatusActive      SessionStatus = "ACTIVE"
	StatusPaused      SessionStatus = "PAUSED"
	StatusCompleted   SessionStatus = "COMPLETED"
	StatusTerminated  SessionStatus = "TERMINATED"
	StatusUnderReview SessionStatus = "UNDER_REVIEW"
)

// InterventionType names a platform action recommended by the session.
type InterventionType string

const (
	ScaffoldingIncrease InterventionType = "SCAFFOLDING_INCREASE"
	ScaffoldingDecrease InterventionType = "SCAFFOLDING_DECREASE"
	BreakRecommendation InterventionType = "BREAK_RECOMMENDATION"
	AlternativePathway  InterventionType = "ALTERNATIVE_PATHWAY"
	GamingIntervention  InterventionType = "GAMING_INTERVENTION"
)

// Completion gates and trigger thresholds.
const (
	MinSignalsForCompletion  = 5
	minConfidenceToComplete  = 0.3
	lowConfidenceThreshold   = 0.4
	highConfidenceThreshold  = 0.8
	highLevelPercent         = 75.0
	breakElapsedShare        = 0.8
	plateauWindow            = 10
	plateauScoreRange        = 0.1
	patternWindow            = 5
	patternVarianceThreshold = 0.3
)

// CompetencyProgress is the per-competency evidence record the session keeps.
type CompetencyProgress struct {
	Level         ccis.Level      `json:"level"`
	Confidence    ccis.Confidence `json:"confidence"`
	EvidenceCount int             `json:"evidenceCount"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// GamingDetection is one timestamped entry in the detection history.
type GamingDetection struct {
	Source string    `json:"source"` // "signal" or "pattern"
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// AssessmentSession is the consistency boundary for one assessment run. All
// mutation goes through its operations; accessors return copies. One logical
// actor mutates a session at a time; cross-request serialization is the
// persistence layer's job (version column), not the engine's.
type AssessmentSession struct {
	id          uuid.UUID
	person      ccis.PersonID
	competency  ccis.CompetencyID
	sessionType string
	createdAt   time.Time
	startedAt   time.Time
	maxDuration time.Duration

	status            SessionStatus
	signals           []ccis.BehavioralSignal
	currentLevel      ccis.Level
	overallConfidence ccis.Confidence
	overallScore      float64
	progress          map[ccis.CompetencyID]CompetencyProgress
	interventions     []InterventionType
	gamingDetected    bool
	detections        []GamingDetection
	analytics         Analytics

	interactionsStarted int
	terminationReason   string
	reviewReason        string

	outbox []Event
	now    func() time.Time
}

// NewSessionParams configures a session. Now defaults to time.Now.
type NewSessionParams struct {
	Person             ccis.PersonID
	Competency         ccis.CompetencyID
	SessionType        string
	MaxDurationMinutes int
	Now                func() time.Time
}

func NewAssessmentSession(p NewSessionParams) (*AssessmentSession, error) {
	if p.Person == "" {
		return nil, &ccis.ValidationError{Field: "personId", Reason: "must not be empty"}
	}
	if p.Competency == "" {
		return nil, &ccis.ValidationError{Field: "competencyId", Reason: "must not be empty"}
	}
	if p.MaxDurationMinutes < 1 || p.MaxDurationMinutes > 240 {
		return nil, &ccis.ValidationError{Field: "maxDurationMinutes", Reason: "must be between 1 and 240"}
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	sessionType := p.SessionType
	if sessionType == "" {
		sessionType = "standard"
	}

	return &AssessmentSession{
		id:           uuid.New(),
		person:       p.Person,
		competency:   p.Competency,
		sessionType:  sessionType,
		createdAt:    now(),
		maxDuration:  time.Duration(p.MaxDurationMinutes) * time.Minute,
		status:       StatusPlanned,
		currentLevel: ccis.LevelDependent,
		progress:     make(map[ccis.CompetencyID]CompetencyProgress),
		now:          now,
	}, nil
}

func (s *AssessmentSession) ID() uuid.UUID                { return s.id }
func (s *AssessmentSession) Person() ccis.PersonID        { return s.person }
func (s *AssessmentSession) Competency() ccis.CompetencyID { return s.competency }
func (s *AssessmentSession) SessionType() string          { return s.sessionType }
func (s *AssessmentSession) Status() SessionStatus        { return s.status }
func (s *AssessmentSession) StartedAt() time.Time         { return s.startedAt }
func (s *AssessmentSession) MaxDuration() time.Duration   { return s.maxDuration }
func (s *AssessmentSession) CurrentLevel() ccis.Level     { return s.currentLevel }
func (s *AssessmentSession) OverallConfidence() ccis.Confidence { return s.overallConfidence }
func (s *AssessmentSession) OverallScore() float64        { return s.overallScore }
func (s *AssessmentSession) SignalCount() int             { return len(s.signals) }
func (s *AssessmentSession) GamingDetected() bool         { return s.gamingDetected }
func (s *AssessmentSession) TerminationReason() string    { return s.terminationReason }
func (s *AssessmentSession) ReviewReason() string         { return s.reviewReason }

// Signals returns a copy of the collected signals in arrival order.
func (s *AssessmentSession) Signals() []ccis.BehavioralSignal {
	return append([]ccis.BehavioralSignal(nil), s.signals...)
}

// Interventions returns a copy of the triggered intervention types, in
// trigger order. The list has set semantics; each type appears once.
func (s *AssessmentSession) Interventions() []InterventionType {
	return append([]InterventionType(nil), s.interventions...)
}

// Detections returns a copy of the gaming detection history.
func (s *AssessmentSession) Detections() []GamingDetection {
	return append([]GamingDetection(nil), s.detections...)
}

// Progress returns a copy of the per-competency progress map.
func (s *AssessmentSession) CompetencyProgressMap() map[ccis.CompetencyID]CompetencyProgress {
	out := make(map[ccis.CompetencyID]CompetencyProgress, len(s.progress))
	for k, v := range s.progress {
		out[k] = v
	}
	return out
}

// Analytics returns a copy of the rolling analytics snapshot.
func (s *AssessmentSession) Analytics() Analytics {
	return s.analytics.clone()
}

// Elapsed is wall-clock time since the session started. Zero before Start.
func (s *AssessmentSession) Elapsed() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return s.now().Sub(s.startedAt)
}

// Expired reports whether the session has outlived its maximum duration.
func (s *AssessmentSession) Expired() bool {
	return s.Elapsed() >= s.maxDuration
}

// Start activates a planned session and stamps its start time.
func (s *AssessmentSession) Start() error {
	if s.status != StatusPlanned {
		return &StateError{Entity: "assessment session", Status: string(s.status), Op: "start"}
	}
	s.startedAt = s.now()
	s.status = StatusActive
	s.emit(Event{Type: EventSessionStarted})
	return nil
}

// NoteInteractionStarted bumps the count of interactions served in this
// session. The completion-rate analytics compare it against signal count.
func (s *AssessmentSession) NoteInteractionStarted() {
	s.interactionsStarted++
}

// AddBehavioralSignal appends a signal and reruns the aggregate computation:
// confidence-weighted level, gaming patterns, competency progress,
// intervention triggers and the analytics snapshot. ACTIVE only.
func (s *AssessmentSession) AddBehavioralSignal(sig ccis.BehavioralSignal) error {
	if s.status != StatusActive {
		return &StateError{Entity: "assessment session", Status: string(s.status), Op: "add behavioral signal"}
	}

	s.signals = append(s.signals, sig)

	previousLevel := s.currentLevel
	s.recomputeAggregates()
	if s.currentLevel != previousLevel {
		s.emit(Event{Type: EventLevelAchieved, Level: s.currentLevel, Confidence: s.overallConfidence})
	}

	s.checkGaming(sig)
	s.updateCompetencyProgress()
	s.evaluateInterventions(sig)
	s.refreshAnalytics()

	return nil
}

// recomputeAggregates derives the session-level score and confidence as a
// confidence-weighted average across all collected signals. This weighting is
// layered on top of each signal's own internal 7-measure weighting.
func (s *AssessmentSession) recomputeAggregates() {
	var weightedSum, confidenceSum float64
	for _, sig := range s.signals {
		conf := sig.Confidence()
		weightedSum += sig.WeightedScore() * conf
		confidenceSum += conf
	}

	if confidenceSum > 0 {
		s.overallScore = weightedSum / confidenceSum
	} else {
		s.overallScore = 0
	}
	s.overallConfidence = ccis.Confidence(confidenceSum / float64(len(s.signals)))
	s.currentLevel = ccis.LevelForScore(s.overallScore)
}

// checkGaming runs the session-scoped detection: the new signal's own check,
// plus a pattern-inconsistency check over the last five weighted scores.
func (s *AssessmentSession) checkGaming(sig ccis.BehavioralSignal) {
	if sig.DetectsGaming() {
		s.recordDetection(GamingDetection{Source: "signal", Detail: "signal-local gaming heuristics fired", At: s.now()})
	}

	if len(s.signals) >= patternWindow {
		recent := s.signals[len(s.signals)-patternWindow:]
		scores := make([]float64, len(recent))
		for i, r := range recent {
			scores[i] = r.WeightedScore()
		}
		if variance(scores) > patternVarianceThreshold {
			s.recordDetection(GamingDetection{Source: "pattern", Detail: "weighted-score variance over last 5 signals exceeds 0.3", At: s.now()})
		}
	}
}

func (s *AssessmentSession) recordDetection(d GamingDetection) {
	s.detections = append(s.detections, d)
	if !s.gamingDetected {
		s.gamingDetected = true
		s.emit(Event{Type: EventGamingDetected, Detail: d.Detail})
	}
	s.triggerIntervention(GamingIntervention)
}

func (s *AssessmentSession) updateCompetencyProgress() {
	entry := s.progress[s.competency]
	entry.Level = s.currentLevel
	entry.Confidence = s.overallConfidence
	entry.EvidenceCount++
	entry.UpdatedAt = s.now()
	s.progress[s.competency] = entry
}

// evaluateInterventions checks every trigger after each signal. Recording is
// idempotent; a type fires at most once per session.
func (s *AssessmentSession) evaluateInterventions(sig ccis.BehavioralSignal) {
	n := len(s.signals)

	if float64(s.overallConfidence) < lowConfidenceThreshold && n >= MinSignalsForCompletion {
		s.triggerIntervention(ScaffoldingIncrease)
	}
	if s.currentLevel.Percent() >= highLevelPercent && float64(s.overallConfidence) >= highConfidenceThreshold {
		s.triggerIntervention(ScaffoldingDecrease)
	}
	if s.Elapsed() >= time.Duration(float64(s.maxDuration)*breakElapsedShare) {
		s.triggerIntervention(BreakRecommendation)
	}
	if n >= plateauWindow {
		recent := s.signals[n-plateauWindow:]
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range recent {
			score := r.WeightedScore()
			lo = math.Min(lo, score)
			hi = math.Max(hi, score)
		}
		if hi-lo < plateauScoreRange {
			s.triggerIntervention(AlternativePathway)
		}
	}
}

func (s *AssessmentSession) triggerIntervention(t InterventionType) {
	for _, existing := range s.interventions {
		if existing == t {
			return
		}
	}
	s.interventions = append(s.interventions, t)
	s.emit(Event{Type: EventInterventionTriggered, Intervention: t})
}

func (s *AssessmentSession) refreshAnalytics() {
	n := len(s.signals)
	elapsed := s.Elapsed().Minutes()

	s.analytics.Engagement = EngagementMetrics{
		SignalCount:    n,
		ElapsedMinutes: elapsed,
	}
	if n > 0 {
		s.analytics.Engagement.AvgMinutesPerSignal = elapsed / float64(n)
	}

	s.analytics.Learning.LevelProgression = append(s.analytics.Learning.LevelProgression, int(s.currentLevel))
	s.analytics.Learning.ConfidenceProgression = append(s.analytics.Learning.ConfidenceProgression, float64(s.overallConfidence))
	s.analytics.Learning.ScoreProgression = append(s.analytics.Learning.ScoreProgression, s.overallScore)

	var independence, recovery, helpQuality float64
	for _, sig := range s.signals {
		independence += 1 - sig.HintRequestFrequency
		recovery += sig.ErrorRecoverySpeed
		helpQuality += sig.HelpSeekingQuality
	}
	s.analytics.Behavioral = BehavioralMetrics{
		AvgIndependence:  independence / float64(n),
		AvgRecoverySpeed: recovery / float64(n),
		AvgHelpQuality:   helpQuality / float64(n),
		GamingDetections: len(s.detections),
	}

	s.analytics.Predictive = PredictiveMetrics{
		ProjectedLevel:      int(s.currentLevel),
		ProjectedConfidence: float64(s.overallConfidence),
		CompletionRate:      s.completionRate(),
	}
}

func (s *AssessmentSession) completionRate() float64 {
	if s.interactionsStarted <= 0 {
		if len(s.signals) > 0 {
			return 1
		}
		return 0
	}
	return float64(len(s.signals)) / float64(s.interactionsStarted)
}

// Pause suspends an active session.
func (s *AssessmentSession) Pause() error {
	if s.status != StatusActive {
		return &StateError{Entity: "assessment session", Status: string(s.status), Op: "pause"}
	}
	s.status = StatusPaused
	return nil
}

// Resume reactivates a paused session, unless it has already outlived its
// maximum duration.
func (s *AssessmentSession) Resume() error {
	if s.status != StatusPaused {
		return &StateError{Entity: "assessment session", Status: string(s.status), Op: "resume"}
	}
	if s.Expired() {
		return &StateError{Entity: "assessment session", Status: "expired", Op: "resume"}
	}
	s.status = StatusActive
	return nil
}

// Complete finalizes an active session. It requires enough evidence (five
// signals) and a minimally trustworthy aggregate (confidence 0.3).
func (s *AssessmentSession) Complete() error {
	if s.status != StatusActive {
		return &StateError{Entity: "assessment session", Status: string(s.status), Op: "complete"}
	}
	if len(s.signals) < MinSignalsForCompletion {
		return &StateError{Entity: "assessment session", Status: "insufficient signals", Op: "complete"}
	}
	if float64(s.overallConfidence) < minConfidenceToComplete {
		return &StateError{Entity: "assessment session", Status: "insufficient confidence", Op: "complete"}
	}

	s.finalizeAnalytics()
	s.status = StatusCompleted
	s.emit(Event{Type: EventSessionCompleted, Level: s.currentLevel, Confidence: s.overallConfidence})
	return nil
}

func (s *AssessmentSession) finalizeAnalytics() {
	progression := s.analytics.Learning.LevelProgression
	if len(progression) > 0 {
		first := ccis.Level(progression[0]).Percent()
		last := ccis.Level(progression[len(progression)-1]).Percent()
		rate := (last - first) / float64(len(progression))
		s.analytics.Learning.ImprovementRate = &rate
	}
	s.analytics.Predictive = PredictiveMetrics{
		ProjectedLevel:      int(s.currentLevel),
		ProjectedConfidence: float64(s.overallConfidence),
		CompletionRate:      s.completionRate(),
	}
}

// Terminate is the explicit hard stop. Terminating an already terminated
// session is a no-op; terminating a completed one is rejected, since its
// results are final.
func (s *AssessmentSession) Terminate(reason string) error {
	if s.status == StatusTerminated {
		return nil
	}
	if s.status == StatusCompleted {
		return &StateError{Entity: "assessment session", Status: string(s.status), Op: "terminate"}
	}
	s.terminationReason = reason
	s.status = StatusTerminated
	s.emit(Event{Type: EventSessionTerminated, Detail: reason})
	return nil
}

// MarkUnderReview escalates an active session to human review.
func (s *AssessmentSession) MarkUnderReview(reason string) error {
	if s.status != StatusActive {
		return &StateError{Entity: "assessment session", Status: string(s.status), Op: "mark under review"}
	}
	s.reviewReason = reason
	s.status = StatusUnderReview
	return nil
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var acc float64
	for _, v := range values {
		diff := v - mean
		acc += diff * diff
	}
	return acc / float64(len(values))
}
