package types

import "testing"

func TestTierOf(t *testing.T) {
	tests := []struct {
		level int
		want  DangerTier
	}{
		{0, DangerLow},
		{3, DangerLow},
		{4, DangerMedium},
		{6, DangerMedium},
		{7, DangerHigh},
		{10, DangerHigh},
	}
	for _, tt := range tests {
		if got := TierOf(tt.level); got != tt.want {
			t.Errorf("TierOf(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestRequirement_Empty(t *testing.T) {
	if !(Requirement{}).Empty() {
		t.Error("zero requirement should be empty")
	}
	r := Requirement{Periods: []TimePeriod{Night}}
	if r.Empty() {
		t.Error("requirement with a clause should not be empty")
	}
	if !(Requirement{All: []Requirement{}}).Empty() {
		t.Error("empty group lists should still count as empty")
	}
}

func TestOutcome_IsZero(t *testing.T) {
	if !(Outcome{}).IsZero() {
		t.Error("zero outcome should be zero")
	}
	if (Outcome{Message: "x"}).IsZero() {
		t.Error("message-only outcome is not zero")
	}
	if (Outcome{HousingProspects: 1}).IsZero() {
		t.Error("prospect delta is not zero")
	}
}

func TestScaled_CopiesWithoutMutatingTemplate(t *testing.T) {
	ev := &Event{
		ID: "shakedown",
		Choices: []Choice{{
			Text:        "Run",
			Outcome:     Outcome{Money: -10, Stats: map[Stat]float64{Health: -5}},
			FailOutcome: Outcome{Heat: 10},
		}},
	}

	scaled := ev.Scaled(2)
	if scaled == ev {
		t.Fatal("factor 2 must return a copy")
	}
	if scaled.Choices[0].Outcome.Money != -20 {
		t.Errorf("scaled money = %v, want -20", scaled.Choices[0].Outcome.Money)
	}
	if scaled.Choices[0].Outcome.Stats[Health] != -10 {
		t.Errorf("scaled health = %v, want -10", scaled.Choices[0].Outcome.Stats[Health])
	}
	if scaled.Choices[0].FailOutcome.Heat != 20 {
		t.Errorf("scaled fail heat = %v, want 20", scaled.Choices[0].FailOutcome.Heat)
	}

	// Template untouched.
	if ev.Choices[0].Outcome.Money != -10 || ev.Choices[0].Outcome.Stats[Health] != -5 {
		t.Error("Scaled mutated the template")
	}

	// Factor 1 short-circuits to the same template.
	if ev.Scaled(1) != ev {
		t.Error("factor 1 should return the template itself")
	}
}
