package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SessionRecord is the persisted form of an assessment session. Collections
// that the charts query needs live in typed array columns; everything else
// rides along as jsonb.
type SessionRecord struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	PersonID           string    `gorm:"index"`
	CompetencyID       string    `gorm:"index"`
	SessionType        string
	Status             string `gorm:"index"`
	StartedAt          *time.Time
	MaxDurationMinutes int

	CurrentLevel      int
	OverallConfidence float64
	OverallScore      float64
	SignalCount       int

	Interventions         pq.StringArray  `gorm:"type:text[]"`
	GamingDetected        bool
	LevelProgression      pq.Int64Array   `gorm:"type:integer[]"`
	ConfidenceProgression pq.Float64Array `gorm:"type:double precision[]"`

	Analytics  json.RawMessage `gorm:"type:jsonb"`
	Detections json.RawMessage `gorm:"type:jsonb"`
	Progress   json.RawMessage `gorm:"type:jsonb"`

	InteractionsStarted int
	TerminationReason   string
	ReviewReason        string

	// Version implements optimistic concurrency; the repository bumps it on
	// every save and rejects stale writes.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InteractionRecord is one task interaction, with its telemetry logs as a
// jsonb blob.
type InteractionRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID        uuid.UUID `gorm:"type:uuid;index"`
	TaskID           string
	PersonID         string `gorm:"index"`
	CompetencyID     string
	TierName         string
	ScaffoldingLevel int
	Status           string
	StartedAt        time.Time
	CompletedAt      *time.Time
	Accuracy         float64
	ActualDifficulty float64
	Telemetry        json.RawMessage `gorm:"type:jsonb"`
	Flags            pq.StringArray  `gorm:"type:text[]"`
	ReviewReason     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SignalRecord is one behavioral signal, flattened into columns so the charts
// queries can aggregate without unpacking json.
type SignalRecord struct {
	ID            uint      `gorm:"primaryKey"`
	SessionID     uuid.UUID `gorm:"type:uuid;index"`
	InteractionID uuid.UUID `gorm:"type:uuid"`
	PersonID      string    `gorm:"index"`
	CompetencyID  string

	HintRequestFrequency     float64
	ErrorRecoverySpeed       float64
	TransferSuccessRate      float64
	MetacognitiveAccuracy    float64
	TaskCompletionEfficiency float64
	HelpSeekingQuality       float64
	SelfAssessmentAlignment  float64

	DurationMinutes float64
	TaskCount       int
	WeightedScore   float64
	Confidence      float64
	Level           int

	MeasuredAt time.Time
	CreatedAt  time.Time
}
