package ccis

import "math"

// Weights combine the seven measures into the composite score. They must sum
// to exactly 1.00; TestWeightsSumToOne guards against accidental edits.
const (
	WeightHintFrequency   = 0.35
	WeightRecoverySpeed   = 0.25
	WeightTransferSuccess = 0.20
	WeightMetacognition   = 0.10
	WeightEfficiency      = 0.05
	WeightHelpSeeking     = 0.03
	WeightSelfAlignment   = 0.02
)

// Confidence blend factors.
const (
	confidenceConsistencyWeight = 0.60
	confidenceCoverageWeight    = 0.25
	confidenceDurationWeight    = 0.15
)

// Level thresholds on the composite score, half-open on the lower bound.
const (
	levelTwoThreshold   = 0.25
	levelThreeThreshold = 0.50
	levelFourThreshold  = 0.85
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WeightedScore is the composite independence score in [0,1]. Hint request
// frequency counts against independence, so it enters inverted.
func (s BehavioralSignal) WeightedScore() float64 {
	score := (1-s.HintRequestFrequency)*WeightHintFrequency +
		s.ErrorRecoverySpeed*WeightRecoverySpeed +
		s.TransferSuccessRate*WeightTransferSuccess +
		s.MetacognitiveAccuracy*WeightMetacognition +
		s.TaskCompletionEfficiency*WeightEfficiency +
		s.HelpSeekingQuality*WeightHelpSeeking +
		s.SelfAssessmentAlignment*WeightSelfAlignment
	return clamp01(score)
}

// LevelForScore classifies a composite score. A score exactly on a boundary
// belongs to the higher level.
func LevelForScore(score float64) Level {
	switch {
	case score < levelTwoThreshold:
		return LevelDependent
	case score < levelThreeThreshold:
		return LevelGuided
	case score < levelFourThreshold:
		return LevelAssisted
	default:
		return LevelIndependent
	}
}

// Level classifies this signal's composite score.
func (s BehavioralSignal) Level() Level {
	return LevelForScore(s.WeightedScore())
}

// Confidence blends signal consistency, task coverage and assessment duration
// into a [0,1] trust measure for the classification.
func (s BehavioralSignal) Confidence() float64 {
	consistency := clamp01(1 - 2*s.measureVariance())
	coverage := math.Min(float64(s.TaskCount)/5.0, 1.0)
	duration := math.Min(s.AssessmentDuration/15.0, 1.0)

	return confidenceConsistencyWeight*consistency +
		confidenceCoverageWeight*coverage +
		confidenceDurationWeight*duration
}

// measureVariance is the population variance of the seven measures, with hint
// frequency first inverted so every term points the same direction
// (independence-positive).
func (s BehavioralSignal) measureVariance() float64 {
	values := s.Measures()
	values[0] = 1 - values[0]

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return variance / float64(len(values))
}

// DetectsGaming reports whether this single signal looks manipulated rather
// than genuinely demonstrated. Checks, any of which suffices:
//   - implausibly fast error recovery
//   - near-zero hint usage that contradicts the transfer/recovery gap
//   - a suspiciously perfect confidence and score combination
//   - metacognition wildly out of line with transfer performance
func (s BehavioralSignal) DetectsGaming() bool {
	if s.ErrorRecoverySpeed > 0.95 {
		return true
	}
	if s.HintRequestFrequency < 0.05 && math.Abs(s.TransferSuccessRate-s.ErrorRecoverySpeed) > 0.4 {
		return true
	}
	if s.Confidence() > 0.95 && s.WeightedScore() > 0.8 {
		return true
	}
	if math.Abs(s.MetacognitiveAccuracy-s.TransferSuccessRate) > 0.5 {
		return true
	}
	return false
}

// NeedsIntervention reports whether the learner is struggling enough that the
// platform should step in. At least two independent struggle markers must hold.
func (s BehavioralSignal) NeedsIntervention() bool {
	markers := 0
	if s.HintRequestFrequency > 0.8 {
		markers++
	}
	if s.ErrorRecoverySpeed < 0.2 {
		markers++
	}
	if s.TransferSuccessRate < 0.3 {
		markers++
	}
	return markers >= 2
}
