package models

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFindIsCaseInsensitive(t *testing.T) {
	tiers := DefaultTiers()

	for _, name := range []string{"beginner", "Beginner", "BEGINNER"} {
		tier, ok := tiers.Find(name)
		if !ok {
			t.Errorf("Find(%q): not found", name)
			continue
		}
		if tier.BaseMinutes != 10 {
			t.Errorf("Find(%q).BaseMinutes = %v, want 10", name, tier.BaseMinutes)
		}
	}

	if _, ok := tiers.Find("impossible"); ok {
		t.Error("Find(impossible): expected miss")
	}
}

func TestExpectedMinutes(t *testing.T) {
	tier := DifficultyTier{Name: "advanced", BaseMinutes: 20}

	tests := []struct {
		scaffolding int
		want        float64
	}{
		{0, 20},
		{1, 22},
		{2, 24},
		{3, 26},
		{-1, 20}, // negative levels clamp to the baseline
	}
	for _, tt := range tests {
		got := tier.ExpectedMinutes(tt.scaffolding)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ExpectedMinutes(%d) = %v, want %v", tt.scaffolding, got, tt.want)
		}
	}
}

func TestLoadTiers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiers.yaml")
	content := []byte("tiers:\n  - name: \"pilot\"\n    base_minutes: 8\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadTiers(path)
	if err != nil {
		t.Fatalf("LoadTiers: %v", err)
	}
	tier, ok := set.Find("pilot")
	if !ok || tier.BaseMinutes != 8 {
		t.Errorf("loaded tier = %+v (found %v), want base 8", tier, ok)
	}
}

func TestLoadTiersRejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiers.yaml")
	if err := os.WriteFile(path, []byte("tiers: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTiers(path); err == nil {
		t.Error("expected error for empty tier set")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	var u User
	if err := u.SetPassword("s3cret-Enough!"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if u.Password == "s3cret-Enough!" {
		t.Fatal("password stored in plain text")
	}
	if !u.CheckPassword("s3cret-Enough!") {
		t.Error("CheckPassword rejected the correct password")
	}
	if u.CheckPassword("wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}
}
