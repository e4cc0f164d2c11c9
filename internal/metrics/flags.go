package metrics

import (
	"fmt"
	"sort"
	"strings"

	"ccis-go/internal/models"
)

// Gaming flag codes raised while an interaction is still in progress.
const (
	FlagRapidHintRequests      = "RAPID_HINT_REQUESTS"
	FlagExcessiveHintUse       = "EXCESSIVE_HINT_DEPENDENCY"
	repeatedErrorFlagTemplate  = "REPEATED_%s_ERRORS"
	rapidHintWindowMs          = 30000.0
	rapidHintCount             = 3
	excessiveHintCount         = 10
	repeatedErrorTypeThreshold = 3
)

// RepeatedErrorFlag builds the flag code for a specific error type, e.g.
// REPEATED_SYNTAX_ERRORS.
func RepeatedErrorFlag(errorType string) string {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(errorType), " ", "_"))
	return fmt.Sprintf(repeatedErrorFlagTemplate, normalized)
}

// CheckHintFlags inspects the hint log for suspicious usage. It returns the
// flag codes that currently apply, in a stable order.
func CheckHintFlags(hints []models.HintRequest) []string {
	var flags []string

	if len(hints) >= rapidHintCount {
		offsets := make([]float64, len(hints))
		for i, h := range hints {
			offsets[i] = h.OffsetMs
		}
		sort.Float64s(offsets)

		// Any window of three consecutive hints inside 30 seconds counts.
		for i := 0; i+rapidHintCount-1 < len(offsets); i++ {
			if offsets[i+rapidHintCount-1]-offsets[i] < rapidHintWindowMs {
				flags = append(flags, FlagRapidHintRequests)
				break
			}
		}
	}

	if len(hints) > excessiveHintCount {
		flags = append(flags, FlagExcessiveHintUse)
	}

	return flags
}

// CheckErrorFlags inspects the error log for the same mistake being made over
// and over. Three or more errors of an identical type raise a per-type flag.
func CheckErrorFlags(recoveries []models.ErrorRecovery) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range recoveries {
		if counts[r.ErrorType] == 0 {
			order = append(order, r.ErrorType)
		}
		counts[r.ErrorType]++
	}

	var flags []string
	for _, errorType := range order {
		if counts[errorType] >= repeatedErrorTypeThreshold {
			flags = append(flags, RepeatedErrorFlag(errorType))
		}
	}
	return flags
}
