package ranker

import (
	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/muscle"
)

// applyHardFilters runs stage 1 of the ranker: every candidate either
// survives into scope or is rejected with a structured reason (spec
// §4.5 stage 1). excludeIDs are exercises already seeded as mains and is
// only non-empty for the accessory stage.
func applyHardFilters(in SelectionInput, excludeIDs map[string]bool) (survivors []*exercise.Exercise, rejected []HardFilterFailureReason) {
	for _, ex := range in.ExerciseLibrary.All() {
		if excludeIDs[ex.ID] {
			continue
		}
		if reason, ok := hardFilterReject(in, ex); ok {
			rejected = append(rejected, HardFilterFailureReason{ExerciseID: ex.ID, Reason: reason})
			continue
		}
		survivors = append(survivors, ex)
	}
	return survivors, rejected
}

func hardFilterReject(in SelectionInput, ex *exercise.Exercise) (string, bool) {
	if !ex.EquipmentSubsetOf(in.Constraints.AvailableEquipment) {
		return "equipment_unavailable", true
	}

	if hasContraindication(in, ex) {
		return "contraindicated", true
	}

	if ex.UserAvoided && hasCompliantAlternative(in, ex) {
		return "user_avoided", true
	}

	switch in.Mode {
	case ModeIntent:
		if !matchesIntentScope(ex, in.Intent) {
			return "intent_scope_mismatch", true
		}
	case ModeBodyPart:
		if !intersectsTargetMuscles(ex, in.TargetMuscles) {
			return "body_part_mismatch", true
		}
	}

	return "", false
}

func hasContraindication(in SelectionInput, ex *exercise.Exercise) bool {
	for painMuscle := range in.RecentPainMuscles {
		if ex.Contraindications[string(painMuscle)] {
			return true
		}
	}
	return false
}

// hasCompliantAlternative reports whether another candidate covers the
// same primary muscles without being user-avoided, letting the avoided
// flag be overridden only when no alternative exists (spec §4.5 stage
// 1).
func hasCompliantAlternative(in SelectionInput, avoided *exercise.Exercise) bool {
	for _, ex := range in.ExerciseLibrary.All() {
		if ex.ID == avoided.ID || ex.UserAvoided {
			continue
		}
		if !ex.EquipmentSubsetOf(in.Constraints.AvailableEquipment) {
			continue
		}
		if sharesAnyPrimaryMuscle(ex, avoided) {
			return true
		}
	}
	return false
}

func sharesAnyPrimaryMuscle(a, b *exercise.Exercise) bool {
	bSet := b.PrimarySetOf()
	for _, m := range a.PrimaryMuscles {
		if bSet[m] {
			return true
		}
	}
	return false
}

func matchesIntentScope(ex *exercise.Exercise, intent Intent) bool {
	for _, m := range ex.PrimaryMuscles {
		if ok, err := muscle.InSplit(m, string(intent)); err == nil && ok {
			return true
		}
	}
	return false
}

func intersectsTargetMuscles(ex *exercise.Exercise, targets []muscle.Name) bool {
	targetSet := make(map[muscle.Name]bool, len(targets))
	for _, m := range targets {
		targetSet[m] = true
	}
	for _, m := range ex.PrimaryMuscles {
		if targetSet[m] {
			return true
		}
	}
	return false
}
