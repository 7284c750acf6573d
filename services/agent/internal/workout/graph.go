package workout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gymmando/internal/util"
	"gymmando/pkg/domain"
	"gymmando/pkg/store"
)

// Canned user-facing replies. Raw backend errors never reach the user;
// they go to the operational log only.
const (
	replyParseFailed   = "Sorry, I had trouble understanding that. Could you try it again?"
	replyUnknownIntent = "I can log a workout, look one up, change it, or delete it. What would you like to do?"
	replyReadFailed    = "Sorry, I couldn't look up your workouts right now. Please try again."
	replySaveFailed    = "Sorry, I couldn't save that workout right now. Please try again."
	replyStoreFailed   = "Sorry, something went wrong on my end. Please try again."
	replyNoUpdateGoal  = "I couldn't find a workout to update."
	replyNoDeleteGoal  = "I couldn't find a workout to delete."
	replyNothingToSet  = "What would you like to change about that workout?"
	replyTargetMissing = "I couldn't find that workout in your log."
	replyDeleted       = "Deleted that workout from your log."
)

type utteranceParser interface {
	Parse(ctx context.Context, utterance string) (Parsed, error)
}

type historyRetriever interface {
	Retrieve(ctx context.Context, query, userID string) (string, error)
}

// Graph is the workout workflow: parse the utterance, route on intent,
// resolve an implicit mutation target when needed, gate creation on
// validation, and drive the store. One Run handles exactly one turn and
// always terminates with a response on the returned state.
type Graph struct {
	parser    utteranceParser
	retriever historyRetriever
	store     store.WorkoutStore
}

// NewGraph wires the workflow from its three collaborators.
func NewGraph(parser utteranceParser, retriever historyRetriever, s store.WorkoutStore) *Graph {
	return &Graph{parser: parser, retriever: retriever, store: s}
}

// Run executes the graph for one turn. Every path ends with a response;
// failures degrade to a conversational reply instead of propagating.
func (g *Graph) Run(ctx context.Context, state State) State {
	state, ok := g.parseStage(ctx, state)
	if !ok {
		return state
	}

	switch state.Intent {
	case domain.IntentRead:
		return g.readStage(ctx, state)
	case domain.IntentCreate:
		state = g.validateStage(state)
		if !state.Complete {
			return state
		}
		return g.createStage(ctx, state)
	case domain.IntentUpdate, domain.IntentDelete:
		state = g.resolveTargetStage(ctx, state)
		if state.Response != "" {
			return state
		}
		if state.Intent == domain.IntentUpdate {
			return g.updateStage(ctx, state)
		}
		return g.deleteStage(ctx, state)
	default:
		return state.withResponse(replyUnknownIntent)
	}
}

func (g *Graph) parseStage(ctx context.Context, state State) (State, bool) {
	parsed, err := g.parser.Parse(ctx, state.Utterance)
	if err != nil {
		util.LoggerFromContext(ctx).Error("utterance extraction failed", "err", err, "user_id", state.UserID)
		return state.withResponse(replyParseFailed), false
	}
	state.Intent = parsed.Intent
	state.Draft = parsed.Draft
	// A malformed explicit reference is treated like no reference at all;
	// implicit resolution takes over from there.
	if _, err := uuid.Parse(parsed.WorkoutID); err == nil {
		state.TargetID = parsed.WorkoutID
	}
	return state, true
}

func (g *Graph) readStage(ctx context.Context, state State) State {
	answer, err := g.retriever.Retrieve(ctx, state.Utterance, state.UserID)
	if err != nil {
		util.LoggerFromContext(ctx).Error("workout retrieval failed", "err", err, "user_id", state.UserID)
		return state.withResponse(replyReadFailed)
	}
	return state.withResponse(answer)
}

func (g *Graph) validateStage(state State) State {
	complete, missing := Validate(state.Draft)
	state.Complete = complete
	state.Missing = missing
	if !complete {
		return state.withResponse(fmt.Sprintf(
			"I need a bit more info. Could you tell me the %s?", strings.Join(missing, ", ")))
	}
	return state
}

func (g *Graph) createStage(ctx context.Context, state State) State {
	d := state.Draft
	w := domain.Workout{
		UserID:   state.UserID,
		Exercise: *d.Exercise,
		Sets:     *d.Sets,
		Reps:     *d.Reps,
		Weight:   *d.Weight,
		RestTime: d.RestTime,
	}
	if d.Comments != nil {
		w.Comments = *d.Comments
	}
	saved, err := g.store.CreateWorkout(ctx, w)
	if err != nil {
		util.LoggerFromContext(ctx).Error("workout create failed", "err", err, "user_id", state.UserID)
		return state.withResponse(replySaveFailed)
	}
	return state.withResponse(fmt.Sprintf(
		"Got it! Logged %s: %dx%d @ %s.", saved.Exercise, saved.Sets, saved.Reps, saved.Weight))
}

// resolveTargetStage fills TargetID for mutations that did not name one,
// using the user's most recent workout. When nothing resolves, the
// mutation stage reports the miss; a store failure ends the turn here.
func (g *Graph) resolveTargetStage(ctx context.Context, state State) State {
	if state.TargetID != "" {
		return state
	}
	recent, err := g.store.QueryWorkouts(ctx, state.UserID, store.WorkoutQuery{Limit: 1})
	if err != nil {
		util.LoggerFromContext(ctx).Error("target resolution failed", "err", err, "user_id", state.UserID)
		return state.withResponse(replyStoreFailed)
	}
	if len(recent) > 0 {
		state.TargetID = recent[0].ID
	}
	return state
}

func (g *Graph) updateStage(ctx context.Context, state State) State {
	if state.TargetID == "" {
		return state.withResponse(replyNoUpdateGoal)
	}
	if state.Draft.Empty() {
		// A pure reference ("update that set") needs disambiguation, not
		// a silent no-op.
		return state.withResponse(replyNothingToSet)
	}
	updated, found, err := g.store.UpdateWorkout(ctx, state.TargetID, state.UserID, state.Draft)
	if err != nil {
		util.LoggerFromContext(ctx).Error("workout update failed", "err", err, "user_id", state.UserID, "workout_id", state.TargetID)
		return state.withResponse(replyStoreFailed)
	}
	if !found {
		return state.withResponse(replyTargetMissing)
	}
	return state.withResponse("Done. I changed " + describeChanges(state.Draft, updated) + ".")
}

func (g *Graph) deleteStage(ctx context.Context, state State) State {
	if state.TargetID == "" {
		return state.withResponse(replyNoDeleteGoal)
	}
	deleted, err := g.store.DeleteWorkout(ctx, state.TargetID, state.UserID)
	if err != nil {
		util.LoggerFromContext(ctx).Error("workout delete failed", "err", err, "user_id", state.UserID, "workout_id", state.TargetID)
		return state.withResponse(replyStoreFailed)
	}
	if !deleted {
		return state.withResponse(replyTargetMissing)
	}
	return state.withResponse(replyDeleted)
}

// describeChanges enumerates exactly the fields the patch touched, with
// their new values.
func describeChanges(patch domain.WorkoutDraft, updated domain.Workout) string {
	var parts []string
	if patch.Exercise != nil {
		parts = append(parts, "exercise to "+updated.Exercise)
	}
	if patch.Sets != nil {
		parts = append(parts, fmt.Sprintf("sets to %d", updated.Sets))
	}
	if patch.Reps != nil {
		parts = append(parts, fmt.Sprintf("reps to %d", updated.Reps))
	}
	if patch.Weight != nil {
		parts = append(parts, "weight to "+updated.Weight)
	}
	if patch.RestTime != nil && updated.RestTime != nil {
		parts = append(parts, fmt.Sprintf("rest time to %d seconds", *updated.RestTime))
	}
	if patch.Comments != nil {
		parts = append(parts, "comments to "+updated.Comments)
	}
	return strings.Join(parts, ", ")
}
