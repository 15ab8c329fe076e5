package program

import "testing"

func TestExerciseValidate(t *testing.T) {
	tests := []struct {
		name    string
		ex      Exercise
		wantErr bool
	}{
		{name: "strength", ex: Exercise{Name: "Back Squat", Kind: KindStrength}},
		{name: "cardio", ex: Exercise{Name: "Row", Kind: KindCardio}},
		{name: "blank kind allowed", ex: Exercise{Name: "Sketch"}},
		{name: "unknown kind", ex: Exercise{Name: "X", Kind: "yoga"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ex.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProgramValidate(t *testing.T) {
	p := Program{Name: "  "}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for whitespace name")
	}
	p.Name = "8-Week Strength"
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecordApplyFieldRoundTrip(t *testing.T) {
	ex := Exercise{
		Name:      "Deadlift",
		Kind:      KindStrength,
		Sets:      5,
		Reps:      "5",
		RestSec:   180,
		Tags:      []string{"barbell", "posterior"},
		Scheduled: "2026-09-01",
	}
	rec := ex.Record()

	var got Exercise
	for field, value := range rec {
		got.ApplyField(field, value)
	}
	if got.Name != ex.Name || got.Kind != ex.Kind || got.Sets != ex.Sets ||
		got.RestSec != ex.RestSec || got.Scheduled != ex.Scheduled {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, ex)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "barbell" {
		t.Fatalf("tags did not survive round trip: %v", got.Tags)
	}
}

func TestApplyFieldCoercions(t *testing.T) {
	var ex Exercise
	ex.ApplyField("sets", float64(4))
	if ex.Sets != 4 {
		t.Fatalf("float64 sets not coerced, got %d", ex.Sets)
	}
	ex.ApplyField("tags", "upper, pull , ")
	if len(ex.Tags) != 2 || ex.Tags[1] != "pull" {
		t.Fatalf("comma tags not parsed: %v", ex.Tags)
	}
	ex.ApplyField("unknown-field", "ignored")
	ex.ApplyField("done", true)
	if !ex.Done {
		t.Fatal("done flag not applied")
	}
}
