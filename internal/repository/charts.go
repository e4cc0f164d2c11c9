package repository

import (
	"context"
	"fmt"
	"time"

	"ccis-go/internal/database"
)

type TimelineDataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type CorrelationDataPoint struct {
	XValue float64 `json:"xValue"`
	YValue float64 `json:"yValue"`
}

// metricColumns maps chart metric keys to signal_records columns. Keys not in
// this map are rejected before any SQL is built.
var metricColumns = map[string]string{
	"hint_request_frequency":     "hint_request_frequency",
	"error_recovery_speed":       "error_recovery_speed",
	"transfer_success_rate":      "transfer_success_rate",
	"metacognitive_accuracy":     "metacognitive_accuracy",
	"task_completion_efficiency": "task_completion_efficiency",
	"help_seeking_quality":       "help_seeking_quality",
	"self_assessment_alignment":  "self_assessment_alignment",
	"weighted_score":             "weighted_score",
	"confidence":                 "confidence",
	"level":                      "level",
}

// MetricKeys lists the chartable metric keys in a stable order.
func MetricKeys() []string {
	return []string{
		"weighted_score",
		"confidence",
		"level",
		"hint_request_frequency",
		"error_recovery_speed",
		"transfer_success_rate",
		"metacognitive_accuracy",
		"task_completion_efficiency",
		"help_seeking_quality",
		"self_assessment_alignment",
	}
}

// GetTimelineData returns one metric's values over time for a person and
// competency, across all of their sessions.
func GetTimelineData(ctx context.Context, personID, competencyID, metricKey string) ([]TimelineDataPoint, error) {
	column, ok := metricColumns[metricKey]
	if !ok {
		return nil, fmt.Errorf("unknown metric key %q", metricKey)
	}

	var data []TimelineDataPoint
	query := fmt.Sprintf(`
		SELECT measured_at AS date, %s AS value
		FROM signal_records
		WHERE person_id = ? AND competency_id = ?
		ORDER BY measured_at;
	`, column)

	err := database.DB.WithContext(ctx).Raw(query, personID, competencyID).Scan(&data).Error
	return data, err
}

// GetCorrelationData pairs two metrics signal-by-signal for a person, for the
// correlation scatter chart.
func GetCorrelationData(ctx context.Context, personID, xMetric, yMetric string) ([]CorrelationDataPoint, error) {
	xColumn, ok := metricColumns[xMetric]
	if !ok {
		return nil, fmt.Errorf("unknown metric key %q", xMetric)
	}
	yColumn, ok := metricColumns[yMetric]
	if !ok {
		return nil, fmt.Errorf("unknown metric key %q", yMetric)
	}

	var data []CorrelationDataPoint
	query := fmt.Sprintf(`
		SELECT %s AS x_value, %s AS y_value
		FROM signal_records
		WHERE person_id = ?
		ORDER BY measured_at;
	`, xColumn, yColumn)

	err := database.DB.WithContext(ctx).Raw(query, personID).Scan(&data).Error
	return data, err
}
