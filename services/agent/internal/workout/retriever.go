package workout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gymmando/pkg/ai"
	"gymmando/pkg/domain"
	"gymmando/pkg/store"
)

const queryToolName = "query_workouts"

const retrieverSystemPrompt = `You help a gym user look up their workout history.
When the user's question is about their logged workouts, call the ` + queryToolName + ` tool
with the filters the question implies (exercise name, date range, how many records).
Dates use YYYY-MM-DD. If the question is not about workout history, answer briefly in text.`

// queryToolSchema declares the constrained argument shape the model may
// use. The owner id is deliberately absent: it is never accepted from the
// model and always injected by the agent.
var queryToolSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"exercise": {"type": "string", "description": "Exercise name to match, e.g. \"squats\""},
		"exercise_type": {"type": "string", "description": "Exercise category, e.g. \"legs\" (not yet filterable)"},
		"start_date": {"type": "string", "description": "Start of date range, YYYY-MM-DD"},
		"end_date": {"type": "string", "description": "End of date range, YYYY-MM-DD"},
		"limit": {"type": "integer", "description": "Maximum number of workouts to return"},
		"order_by": {"type": "string", "description": "Field to order by, default created_at"},
		"order_direction": {"type": "string", "enum": ["asc", "desc"]}
	}
}`)

type queryToolArgs struct {
	Exercise       string `json:"exercise"`
	ExerciseType   string `json:"exercise_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Limit          int    `json:"limit"`
	OrderBy        string `json:"order_by"`
	OrderDirection string `json:"order_direction"`
}

// Retriever answers natural-language read requests. The completion service
// sees exactly one callable tool and decides whether and how to call it;
// the retriever validates the request, forces the owner id, runs the store
// query, and hands back the raw serialized result set with no second
// summarization pass.
type Retriever struct {
	llm   ai.ToolCompleter
	store store.WorkoutStore
}

// NewRetriever builds a Retriever over a tool-capable completion client
// and a workout store.
func NewRetriever(llm ai.ToolCompleter, s store.WorkoutStore) *Retriever {
	return &Retriever{llm: llm, store: s}
}

// Retrieve resolves one read request for userID. The owner id always comes
// from the caller; anything the model put in the tool arguments cannot
// widen access to another user's records.
func (r *Retriever) Retrieve(ctx context.Context, query, userID string) (string, error) {
	completion, err := r.llm.CompleteWithTools(ctx, retrieverSystemPrompt, query, []ai.Tool{{
		Name:        queryToolName,
		Description: "Query the user's workout history with optional filters.",
		Parameters:  queryToolSchema,
	}})
	if err != nil {
		return "", fmt.Errorf("retrieve workouts: %w", err)
	}

	if len(completion.ToolCalls) == 0 {
		return completion.Text, nil
	}

	call := completion.ToolCalls[0]
	if call.Name != queryToolName {
		return "", fmt.Errorf("retrieve workouts: model requested unknown tool %q", call.Name)
	}
	var args queryToolArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return "", fmt.Errorf("retrieve workouts: malformed tool arguments: %w", err)
	}

	workouts, err := r.store.QueryWorkouts(ctx, userID, buildQuery(args))
	if err != nil {
		return "", fmt.Errorf("retrieve workouts: %w", err)
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	payload, err := json.Marshal(workouts)
	if err != nil {
		return "", fmt.Errorf("retrieve workouts: %w", err)
	}
	return string(payload), nil
}

func buildQuery(args queryToolArgs) store.WorkoutQuery {
	q := store.WorkoutQuery{
		Exercise: args.Exercise,
		OrderBy:  args.OrderBy,
		Asc:      args.OrderDirection == "asc",
		Limit:    args.Limit,
	}
	if t, err := time.Parse("2006-01-02", args.StartDate); err == nil {
		q.From = t
	}
	if t, err := time.Parse("2006-01-02", args.EndDate); err == nil {
		// Inclusive end of day.
		q.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return q
}
