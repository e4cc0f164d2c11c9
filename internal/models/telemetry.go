package models

// Telemetry types logged by the task player during one task interaction.
// Offsets are milliseconds since the interaction started, mirroring the
// client clock.

type HintRequest struct {
	HintType  string  `json:"hintType"`
	OffsetMs  float64 `json:"offsetMs"`
	Strategic bool    `json:"strategic,omitempty"`
	Content   string  `json:"content,omitempty"`
}

type ErrorRecovery struct {
	ErrorType     string  `json:"errorType"`
	ErrorOffsetMs float64 `json:"errorOffsetMs"`
	RecoveryMs    float64 `json:"recoveryMs"`
	SelfCorrected bool    `json:"selfCorrected,omitempty"`
	StrategyNote  string  `json:"strategyNote,omitempty"`
}

// SelfAssessment pairs the learner's predictions with what actually happened.
// Confidence values are in [0,1]; difficulty is on the platform's 1-5 scale.
type SelfAssessment struct {
	ConfidencePrediction float64 `json:"confidencePrediction"`
	DifficultyPrediction float64 `json:"difficultyPrediction"`
	ActualConfidence     float64 `json:"actualConfidence"`
	ActualDifficulty     float64 `json:"actualDifficulty"`
}

type ResourceAccess struct {
	ResourceID   string  `json:"resourceId"`
	ResourceType string  `json:"resourceType,omitempty"`
	OffsetMs     float64 `json:"offsetMs"`
}

type PeerConsultation struct {
	PeerID   string  `json:"peerId"`
	Topic    string  `json:"topic,omitempty"`
	OffsetMs float64 `json:"offsetMs"`
}

// InteractionLogs bundles the ordered telemetry of one task interaction, the
// shape persisted as jsonb alongside the interaction row.
type InteractionLogs struct {
	Hints           []HintRequest      `json:"hints"`
	Errors          []ErrorRecovery    `json:"errors"`
	SelfAssessments []SelfAssessment   `json:"selfAssessments"`
	Resources       []ResourceAccess   `json:"resources"`
	Consultations   []PeerConsultation `json:"consultations"`
}
