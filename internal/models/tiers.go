package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DifficultyTier sets the expected completion time baseline for tasks of a
// given difficulty. Expected duration scales up with the scaffolding level
// the task was served at.
type DifficultyTier struct {
	Name        string  `yaml:"name"`
	BaseMinutes float64 `yaml:"base_minutes"`
}

type TierSet struct {
	Tiers []DifficultyTier `yaml:"tiers"`
}

// DefaultTiers returns the built-in tier table used when no tiers file is
// configured.
func DefaultTiers() *TierSet {
	return &TierSet{Tiers: []DifficultyTier{
		{Name: "beginner", BaseMinutes: 10},
		{Name: "intermediate", BaseMinutes: 15},
		{Name: "advanced", BaseMinutes: 20},
		{Name: "expert", BaseMinutes: 30},
	}}
}

// LoadTiers reads and parses a tiers YAML file.
func LoadTiers(path string) (*TierSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tiers file: %w", err)
	}

	var set TierSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tiers YAML: %w", err)
	}
	if len(set.Tiers) == 0 {
		return nil, fmt.Errorf("tiers file %s defines no tiers", path)
	}
	return &set, nil
}

// Find looks a tier up by name, case-insensitively. The second return is
// false when the tier is unknown.
func (s *TierSet) Find(name string) (DifficultyTier, bool) {
	for _, t := range s.Tiers {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return DifficultyTier{}, false
}

// ExpectedMinutes is the tier baseline scaled by scaffolding: every
// scaffolding level adds 10% to the expected completion time.
func (t DifficultyTier) ExpectedMinutes(scaffoldingLevel int) float64 {
	if scaffoldingLevel < 0 {
		scaffoldingLevel = 0
	}
	return t.BaseMinutes * (1 + 0.1*float64(scaffoldingLevel))
}
