package metrics

import (
	"math"

	"ccis-go/internal/models"
)

// neutralAccuracy is the prior used when a learner made no self-assessments.
const neutralAccuracy = 0.5

// MetacognitiveAccuracy measures how well the learner's predictions about
// their own confidence and the task's difficulty matched reality. Difficulty
// predictions are on the 1-5 scale, so their error is normalized by 4.
func MetacognitiveAccuracy(assessments []models.SelfAssessment) float64 {
	if len(assessments) == 0 {
		return neutralAccuracy
	}

	var sum float64
	for _, a := range assessments {
		confidenceAccuracy := 1 - math.Abs(a.ConfidencePrediction-a.ActualConfidence)
		difficultyAccuracy := 1 - math.Abs(a.DifficultyPrediction-a.ActualDifficulty)/4
		sum += (clamp01(confidenceAccuracy) + clamp01(difficultyAccuracy)) / 2
	}
	return sum / float64(len(assessments))
}

// SelfAssessmentAlignment currently recomputes metacognitive accuracy. The
// duplication is known; it stays a variable so a distinct alignment formula
// can be swapped in without touching the derivation pipeline.
var SelfAssessmentAlignment = func(assessments []models.SelfAssessment) float64 {
	return MetacognitiveAccuracy(assessments)
}
