package ai

import (
	"context"
	"encoding/json"
)

// TextGenerator generates text from a system prompt and user prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Tool declares a single named operation the model may request. Parameters
// is a JSON Schema object describing the argument shape.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ToolCall is the model's request to run a declared tool.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// Completion is the outcome of a single chat completion: either plain text,
// or one or more tool-call requests the caller must validate and execute.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// ToolCompleter runs one chat completion during which the model may request
// exactly the tools the caller declared. The completer never executes tools
// itself; deciding whether a requested call is allowed stays with the caller.
type ToolCompleter interface {
	CompleteWithTools(ctx context.Context, systemPrompt, userPrompt string, tools []Tool) (Completion, error)
}
