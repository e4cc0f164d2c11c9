package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ccis-go/internal/ccis"
	"ccis-go/internal/database"
	"ccis-go/internal/models"
	"ccis-go/internal/session"
)

// ErrStaleSession is returned when an update lost an optimistic-concurrency
// race. The caller should reload the session and retry the operation.
var ErrStaleSession = errors.New("session was modified concurrently")

// CreateSession inserts a freshly created session at version 1.
func CreateSession(ctx context.Context, s *session.AssessmentSession) error {
	record, err := sessionToRecord(s.Snapshot())
	if err != nil {
		return err
	}
	record.Version = 1
	return database.DB.WithContext(ctx).Create(record).Error
}

// UpdateSession persists the aggregate, guarded by the version the caller
// loaded. A zero-row update means someone else won the race.
func UpdateSession(ctx context.Context, s *session.AssessmentSession, loadedVersion int) error {
	record, err := sessionToRecord(s.Snapshot())
	if err != nil {
		return err
	}
	record.Version = loadedVersion + 1

	// Select("*") forces zero-valued fields (scores, booleans) to persist;
	// struct updates would silently skip them.
	result := database.DB.WithContext(ctx).
		Model(&models.SessionRecord{}).
		Where("id = ? AND version = ?", record.ID, loadedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleSession
	}
	return nil
}

// GetSession loads and rehydrates a session plus its stored signals. The
// returned version must be passed back to UpdateSession.
func GetSession(ctx context.Context, id uuid.UUID) (*session.AssessmentSession, int, error) {
	var record models.SessionRecord
	if err := database.DB.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, 0, err
	}

	var signalRows []models.SignalRecord
	if err := database.DB.WithContext(ctx).
		Where("session_id = ?", id).
		Order("id asc").
		Find(&signalRows).Error; err != nil {
		return nil, 0, err
	}

	memento, err := recordToMemento(record, signalRows)
	if err != nil {
		return nil, 0, err
	}
	return session.Restore(memento, nil), record.Version, nil
}

// ListExpiredActive finds sessions still marked ACTIVE whose maximum duration
// elapsed before now. The scheduler terminates them.
func ListExpiredActive(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var records []models.SessionRecord
	err := database.DB.WithContext(ctx).
		Select("id").
		Where("status = ? AND started_at IS NOT NULL AND started_at + (max_duration_minutes * interval '1 minute') <= ?",
			string(session.StatusActive), now).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids, nil
}

func sessionToRecord(m session.Memento) (*models.SessionRecord, error) {
	analyticsJSON, err := json.Marshal(m.Analytics)
	if err != nil {
		return nil, fmt.Errorf("marshal analytics: %w", err)
	}
	detectionsJSON, err := json.Marshal(m.Detections)
	if err != nil {
		return nil, fmt.Errorf("marshal detections: %w", err)
	}
	progressJSON, err := json.Marshal(m.Progress)
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}

	interventions := make(pq.StringArray, len(m.Interventions))
	for i, iv := range m.Interventions {
		interventions[i] = string(iv)
	}

	levels := make(pq.Int64Array, len(m.Analytics.Learning.LevelProgression))
	for i, l := range m.Analytics.Learning.LevelProgression {
		levels[i] = int64(l)
	}
	confidences := pq.Float64Array(m.Analytics.Learning.ConfidenceProgression)

	var startedAt *time.Time
	if !m.StartedAt.IsZero() {
		t := m.StartedAt
		startedAt = &t
	}

	return &models.SessionRecord{
		ID:                    m.ID,
		PersonID:              string(m.Person),
		CompetencyID:          string(m.Competency),
		SessionType:           m.SessionType,
		Status:                string(m.Status),
		StartedAt:             startedAt,
		MaxDurationMinutes:    int(m.MaxDuration.Minutes()),
		CurrentLevel:          int(m.CurrentLevel),
		OverallConfidence:     float64(m.OverallConfidence),
		OverallScore:          m.OverallScore,
		SignalCount:           len(m.Signals),
		Interventions:         interventions,
		GamingDetected:        m.GamingDetected,
		LevelProgression:      levels,
		ConfidenceProgression: confidences,
		Analytics:             analyticsJSON,
		Detections:            detectionsJSON,
		Progress:              progressJSON,
		InteractionsStarted:   m.InteractionsStarted,
		TerminationReason:     m.TerminationReason,
		ReviewReason:          m.ReviewReason,
		CreatedAt:             m.CreatedAt,
	}, nil
}

func recordToMemento(r models.SessionRecord, signalRows []models.SignalRecord) (session.Memento, error) {
	var analytics session.Analytics
	if len(r.Analytics) > 0 {
		if err := json.Unmarshal(r.Analytics, &analytics); err != nil {
			return session.Memento{}, fmt.Errorf("unmarshal analytics: %w", err)
		}
	}
	var detections []session.GamingDetection
	if len(r.Detections) > 0 {
		if err := json.Unmarshal(r.Detections, &detections); err != nil {
			return session.Memento{}, fmt.Errorf("unmarshal detections: %w", err)
		}
	}
	progress := make(map[ccis.CompetencyID]session.CompetencyProgress)
	if len(r.Progress) > 0 {
		if err := json.Unmarshal(r.Progress, &progress); err != nil {
			return session.Memento{}, fmt.Errorf("unmarshal progress: %w", err)
		}
	}

	signals := make([]ccis.BehavioralSignal, 0, len(signalRows))
	for _, row := range signalRows {
		sig, err := RecordToSignal(row)
		if err != nil {
			return session.Memento{}, err
		}
		signals = append(signals, sig)
	}

	interventions := make([]session.InterventionType, len(r.Interventions))
	for i, iv := range r.Interventions {
		interventions[i] = session.InterventionType(iv)
	}

	var startedAt time.Time
	if r.StartedAt != nil {
		startedAt = *r.StartedAt
	}

	return session.Memento{
		ID:                  r.ID,
		Person:              ccis.PersonID(r.PersonID),
		Competency:          ccis.CompetencyID(r.CompetencyID),
		SessionType:         r.SessionType,
		CreatedAt:           r.CreatedAt,
		StartedAt:           startedAt,
		MaxDuration:         time.Duration(r.MaxDurationMinutes) * time.Minute,
		Status:              session.SessionStatus(r.Status),
		Signals:             signals,
		CurrentLevel:        ccis.Level(r.CurrentLevel),
		OverallConfidence:   ccis.Confidence(r.OverallConfidence),
		OverallScore:        r.OverallScore,
		Progress:            progress,
		Interventions:       interventions,
		GamingDetected:      r.GamingDetected,
		Detections:          detections,
		Analytics:           analytics,
		InteractionsStarted: r.InteractionsStarted,
		TerminationReason:   r.TerminationReason,
		ReviewReason:        r.ReviewReason,
	}, nil
}
