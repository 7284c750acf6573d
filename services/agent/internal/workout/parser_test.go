package workout

import (
	"context"
	"errors"
	"testing"

	"gymmando/pkg/domain"
)

// fakeGenerator returns a canned completion or error.
type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) GenerateText(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

func TestParseFullUtterance(t *testing.T) {
	p := NewParser(&fakeGenerator{reply: `{
		"intent": "create",
		"exercise": "squats",
		"sets": 3,
		"reps": 10,
		"weight": "135 lbs",
		"rest_time": null,
		"comments": null,
		"workout_id": null
	}`})

	parsed, err := p.Parse(context.Background(), "3 sets of squats at 135 lbs, 10 reps")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Intent != domain.IntentCreate {
		t.Fatalf("intent = %q", parsed.Intent)
	}
	d := parsed.Draft
	if d.Exercise == nil || *d.Exercise != "squats" {
		t.Fatalf("exercise = %v", d.Exercise)
	}
	if d.Sets == nil || *d.Sets != 3 || d.Reps == nil || *d.Reps != 10 {
		t.Fatalf("sets/reps = %v/%v", d.Sets, d.Reps)
	}
	if d.Weight == nil || *d.Weight != "135 lbs" {
		t.Fatalf("weight = %v", d.Weight)
	}
	if d.RestTime != nil || d.Comments != nil {
		t.Fatalf("unmentioned fields must stay nil: %+v", d)
	}
	if parsed.WorkoutID != "" {
		t.Fatalf("workout id should be empty, got %q", parsed.WorkoutID)
	}
}

func TestParseKeepsUnmentionedFieldsNil(t *testing.T) {
	p := NewParser(&fakeGenerator{reply: `{"intent":"create","exercise":"squats","sets":null,"reps":null,"weight":null,"rest_time":null,"comments":null,"workout_id":null}`})

	parsed, err := p.Parse(context.Background(), "did some squats")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	d := parsed.Draft
	if d.Exercise == nil || *d.Exercise != "squats" {
		t.Fatalf("exercise = %v", d.Exercise)
	}
	if d.Sets != nil || d.Reps != nil || d.Weight != nil {
		t.Fatalf("absent fields must be nil: %+v", d)
	}
}

func TestParseUnwrapsCodeFence(t *testing.T) {
	p := NewParser(&fakeGenerator{reply: "```json\n{\"intent\":\"delete\",\"exercise\":null,\"sets\":null,\"reps\":null,\"weight\":null,\"rest_time\":null,\"comments\":null,\"workout_id\":\"a1b2\"}\n```"})

	parsed, err := p.Parse(context.Background(), "delete workout a1b2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Intent != domain.IntentDelete {
		t.Fatalf("intent = %q", parsed.Intent)
	}
	if parsed.WorkoutID != "a1b2" {
		t.Fatalf("workout id = %q", parsed.WorkoutID)
	}
}

func TestParseFailsLoudly(t *testing.T) {
	completionErr := errors.New("completion service down")
	p := NewParser(&fakeGenerator{err: completionErr})
	if _, err := p.Parse(context.Background(), "anything"); !errors.Is(err, completionErr) {
		t.Fatalf("expected wrapped completion error, got %v", err)
	}

	p = NewParser(&fakeGenerator{reply: "sure, logged it!"})
	if _, err := p.Parse(context.Background(), "anything"); err == nil {
		t.Fatalf("expected error for non-JSON output")
	}
}

func TestParseUnknownIntent(t *testing.T) {
	p := NewParser(&fakeGenerator{reply: `{"intent":"chitchat","exercise":null,"sets":null,"reps":null,"weight":null,"rest_time":null,"comments":null,"workout_id":null}`})
	parsed, err := p.Parse(context.Background(), "how's the weather")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Intent != domain.IntentUnknown {
		t.Fatalf("intent = %q, want unknown", parsed.Intent)
	}
}
