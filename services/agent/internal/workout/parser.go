package workout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gymmando/pkg/ai"
	"gymmando/pkg/domain"
)

const parserSystemPrompt = `You extract structured workout data from a gym user's spoken message.

Respond with ONLY a JSON object, no prose, in exactly this shape:
{
  "intent": "create" | "read" | "update" | "delete",
  "exercise": string or null,
  "sets": integer or null,
  "reps": integer or null,
  "weight": string or null,
  "rest_time": integer (seconds) or null,
  "comments": string or null,
  "workout_id": string or null
}

Rules:
- intent is "create" when the user reports a workout they did, "read" when
  they ask about past workouts, "update" when they correct or change an
  earlier entry, "delete" when they want one removed.
- Every field the user did not state MUST be null. Never guess or fill in
  defaults.
- weight is free text exactly as the user said it ("135 lbs", "bodyweight").
- workout_id is only set when the user names a specific workout identifier.`

// Parsed is the extractor's structured output for one utterance.
type Parsed struct {
	Intent domain.Intent
	Draft  domain.WorkoutDraft
	// WorkoutID is the explicitly referenced target record, if the user
	// named one. Empty when the reference was implicit or absent.
	WorkoutID string
}

// Parser turns free-form utterance text into structured workout fields,
// delegating the language understanding to the completion service. Fields
// the user did not mention come back nil, never defaulted.
type Parser struct {
	llm ai.TextGenerator
}

// NewParser builds a Parser on top of a completion client.
func NewParser(llm ai.TextGenerator) *Parser {
	return &Parser{llm: llm}
}

type parserResponse struct {
	Intent    string  `json:"intent"`
	Exercise  *string `json:"exercise"`
	Sets      *int    `json:"sets"`
	Reps      *int    `json:"reps"`
	Weight    *string `json:"weight"`
	RestTime  *int    `json:"rest_time"`
	Comments  *string `json:"comments"`
	WorkoutID *string `json:"workout_id"`
}

// Parse extracts intent and fields from one utterance. Completion failures
// and malformed output are returned as errors so the caller can produce a
// user-facing apology; an empty record is never silently invented.
func (p *Parser) Parse(ctx context.Context, utterance string) (Parsed, error) {
	raw, err := p.llm.GenerateText(ctx, parserSystemPrompt, utterance)
	if err != nil {
		return Parsed{}, fmt.Errorf("parse utterance: %w", err)
	}
	var resp parserResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		return Parsed{}, fmt.Errorf("parse utterance: malformed extractor output: %w", err)
	}
	parsed := Parsed{
		Intent: domain.ParseIntent(resp.Intent),
		Draft: domain.WorkoutDraft{
			Exercise: resp.Exercise,
			Sets:     resp.Sets,
			Reps:     resp.Reps,
			Weight:   resp.Weight,
			RestTime: resp.RestTime,
			Comments: resp.Comments,
		},
	}
	if resp.WorkoutID != nil {
		parsed.WorkoutID = strings.TrimSpace(*resp.WorkoutID)
	}
	return parsed, nil
}

// stripCodeFence unwraps a ```json fenced block if the model added one.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
