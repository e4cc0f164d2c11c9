package session

// Analytics is the rolling snapshot the session keeps current as signals
// arrive. Finalization at completion fills the predictive block from the
// aggregate state and computes the improvement rate.
type Analytics struct {
	Engagement EngagementMetrics `json:"engagement"`
	Learning   LearningMetrics   `json:"learning"`
	Behavioral BehavioralMetrics `json:"behavioral"`
	Predictive PredictiveMetrics `json:"predictive"`
}

type EngagementMetrics struct {
	SignalCount         int     `json:"signalCount"`
	ElapsedMinutes      float64 `json:"elapsedMinutes"`
	AvgMinutesPerSignal float64 `json:"avgMinutesPerSignal"`
}

type LearningMetrics struct {
	LevelProgression      []int     `json:"levelProgression"`
	ConfidenceProgression []float64 `json:"confidenceProgression"`
	ScoreProgression      []float64 `json:"scoreProgression"`
	// ImprovementRate is only set at finalization.
	ImprovementRate *float64 `json:"improvementRate,omitempty"`
}

type BehavioralMetrics struct {
	AvgIndependence  float64 `json:"avgIndependence"`
	AvgRecoverySpeed float64 `json:"avgRecoverySpeed"`
	AvgHelpQuality   float64 `json:"avgHelpQuality"`
	GamingDetections int     `json:"gamingDetections"`
}

type PredictiveMetrics struct {
	ProjectedLevel      int     `json:"projectedLevel"`
	ProjectedConfidence float64 `json:"projectedConfidence"`
	CompletionRate      float64 `json:"completionRate"`
}

func (a Analytics) clone() Analytics {
	out := a
	out.Learning.LevelProgression = append([]int(nil), a.Learning.LevelProgression...)
	out.Learning.ConfidenceProgression = append([]float64(nil), a.Learning.ConfidenceProgression...)
	out.Learning.ScoreProgression = append([]float64(nil), a.Learning.ScoreProgression...)
	if a.Learning.ImprovementRate != nil {
		rate := *a.Learning.ImprovementRate
		out.Learning.ImprovementRate = &rate
	}
	return out
}
