package workout

import "gymmando/pkg/domain"

// State is the in-flight value threaded through one run of the workflow
// graph. It is built fresh per turn and never shared across turns or
// users; each stage returns an updated copy rather than mutating shared
// memory.
type State struct {
	// Turn input.
	Utterance string
	UserID    string

	// Populated by the parse stage.
	Intent domain.Intent
	Draft  domain.WorkoutDraft

	// TargetID is the workout a mutation acts on, either stated
	// explicitly by the user or resolved to their most recent record.
	TargetID string

	// Populated by the validate stage on the create path.
	Complete bool
	Missing  []string

	// Response is the only externally observable output of a run.
	Response string
}

// NewState builds the initial state for one conversation turn.
func NewState(utterance, userID string) State {
	return State{Utterance: utterance, UserID: userID}
}

func (s State) withResponse(text string) State {
	s.Response = text
	return s
}
