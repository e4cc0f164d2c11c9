package metrics

import (
	"testing"

	"ccis-go/internal/models"
)

func TestCheckHintFlagsRapidRequests(t *testing.T) {
	tests := []struct {
		name    string
		offsets []float64
		want    bool
	}{
		{"three hints inside thirty seconds", []float64{1000, 12000, 29000}, true},
		{"three hints spread out", []float64{1000, 40000, 90000}, false},
		{"rapid window later in the log", []float64{0, 60000, 61000, 62000, 63000}, true},
		{"unsorted offsets still detected", []float64{29000, 1000, 12000}, true},
		{"two hints never flag", []float64{0, 1}, false},
		{"window boundary is exclusive", []float64{0, 15000, 30000}, false},
	}

	for _, tt := range tests {
		hints := make([]models.HintRequest, len(tt.offsets))
		for i, off := range tt.offsets {
			hints[i] = models.HintRequest{OffsetMs: off}
		}
		flags := CheckHintFlags(hints)
		got := containsFlag(flags, FlagRapidHintRequests)
		if got != tt.want {
			t.Errorf("%s: rapid flag = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCheckHintFlagsExcessiveUse(t *testing.T) {
	hints := make([]models.HintRequest, 11)
	for i := range hints {
		hints[i] = models.HintRequest{OffsetMs: float64(i) * 60000}
	}
	flags := CheckHintFlags(hints)
	if !containsFlag(flags, FlagExcessiveHintUse) {
		t.Errorf("11 hints: expected %s in %v", FlagExcessiveHintUse, flags)
	}

	flags = CheckHintFlags(hints[:10])
	if containsFlag(flags, FlagExcessiveHintUse) {
		t.Errorf("10 hints: did not expect %s in %v", FlagExcessiveHintUse, flags)
	}
}

func TestCheckErrorFlags(t *testing.T) {
	recoveries := []models.ErrorRecovery{
		{ErrorType: "logic"},
		{ErrorType: "syntax"},
		{ErrorType: "logic"},
		{ErrorType: "logic"},
		{ErrorType: "syntax"},
	}
	flags := CheckErrorFlags(recoveries)
	if len(flags) != 1 || flags[0] != "REPEATED_LOGIC_ERRORS" {
		t.Errorf("CheckErrorFlags = %v, want [REPEATED_LOGIC_ERRORS]", flags)
	}
}

func TestRepeatedErrorFlagNormalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"logic", "REPEATED_LOGIC_ERRORS"},
		{"off by one", "REPEATED_OFF_BY_ONE_ERRORS"},
		{"  Syntax ", "REPEATED_SYNTAX_ERRORS"},
	}
	for _, tt := range tests {
		if got := RepeatedErrorFlag(tt.in); got != tt.want {
			t.Errorf("RepeatedErrorFlag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func containsFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
