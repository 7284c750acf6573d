package workout

import "gymmando/pkg/domain"

// requiredFields is the fixed set a workout needs before it can be saved,
// in the order they are named back to the user.
var requiredFields = []string{"exercise", "sets", "reps", "weight"}

// Validate reports whether draft carries every required field and which
// ones are missing. A field counts as missing when it was never extracted
// or extracted as an empty string. Pure; no I/O.
func Validate(draft domain.WorkoutDraft) (complete bool, missing []string) {
	for _, field := range requiredFields {
		if !hasField(draft, field) {
			missing = append(missing, field)
		}
	}
	return len(missing) == 0, missing
}

func hasField(draft domain.WorkoutDraft, field string) bool {
	switch field {
	case "exercise":
		return draft.Exercise != nil && *draft.Exercise != ""
	case "sets":
		return draft.Sets != nil
	case "reps":
		return draft.Reps != nil
	case "weight":
		return draft.Weight != nil && *draft.Weight != ""
	default:
		return false
	}
}
