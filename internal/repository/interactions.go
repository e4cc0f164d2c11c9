package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm/clause"

	"ccis-go/internal/ccis"
	"ccis-go/internal/database"
	"ccis-go/internal/models"
	"ccis-go/internal/session"
)

// SaveInteraction upserts the interaction row. Telemetry rides in one jsonb
// column; each record operation rewrites it.
func SaveInteraction(ctx context.Context, ti *session.TaskInteraction) error {
	m := ti.InteractionSnapshot()

	telemetry, err := json.Marshal(m.Logs)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	flags := make(pq.StringArray, len(m.Flags))
	for i, f := range m.Flags {
		flags[i] = f.Code
	}

	var completedAt *time.Time
	if !m.CompletedAt.IsZero() {
		t := m.CompletedAt
		completedAt = &t
	}

	record := models.InteractionRecord{
		ID:               m.ID,
		SessionID:        m.SessionID,
		TaskID:           m.TaskID,
		PersonID:         string(m.Person),
		CompetencyID:     string(m.Competency),
		TierName:         m.TierName,
		ScaffoldingLevel: m.Scaffolding,
		Status:           string(m.Status),
		StartedAt:        m.StartedAt,
		CompletedAt:      completedAt,
		Accuracy:         m.Accuracy,
		ActualDifficulty: m.ActualDifficulty,
		Telemetry:        telemetry,
		Flags:            flags,
		ReviewReason:     m.ReviewReason,
	}

	return database.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&record).Error
}

// GetInteraction loads and rehydrates a task interaction.
func GetInteraction(ctx context.Context, id uuid.UUID, tiers *models.TierSet) (*session.TaskInteraction, error) {
	var record models.InteractionRecord
	if err := database.DB.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}

	var logs models.InteractionLogs
	if len(record.Telemetry) > 0 {
		if err := json.Unmarshal(record.Telemetry, &logs); err != nil {
			return nil, fmt.Errorf("unmarshal telemetry: %w", err)
		}
	}

	tier, ok := tiers.Find(record.TierName)
	if !ok {
		// Tier definitions can change between deploys; fall back to the
		// stored name with the intermediate baseline.
		tier = models.DifficultyTier{Name: record.TierName, BaseMinutes: 15}
	}

	flags := make([]session.InteractionFlag, len(record.Flags))
	for i, code := range record.Flags {
		flags[i] = session.InteractionFlag{Code: code, At: record.UpdatedAt}
	}

	var completedAt time.Time
	if record.CompletedAt != nil {
		completedAt = *record.CompletedAt
	}

	return session.RestoreInteraction(session.InteractionMemento{
		ID:               record.ID,
		SessionID:        record.SessionID,
		TaskID:           record.TaskID,
		Person:           ccis.PersonID(record.PersonID),
		Competency:       ccis.CompetencyID(record.CompetencyID),
		TierName:         tier.Name,
		TierBaseMinutes:  tier.BaseMinutes,
		Scaffolding:      record.ScaffoldingLevel,
		Status:           session.InteractionStatus(record.Status),
		StartedAt:        record.StartedAt,
		CompletedAt:      completedAt,
		Logs:             logs,
		Flags:            flags,
		ReviewReason:     record.ReviewReason,
		Accuracy:         record.Accuracy,
		ActualDifficulty: record.ActualDifficulty,
	}, nil), nil
}
