package metrics

// TaskCompletionEfficiency compares expected and actual completion time.
// Finishing on or under the expected duration scores 1; overruns decay
// proportionally.
func TaskCompletionEfficiency(expectedMinutes, actualMinutes float64) float64 {
	if actualMinutes <= 0 || expectedMinutes <= 0 {
		return 0.0
	}
	return clamp01(expectedMinutes / actualMinutes)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
