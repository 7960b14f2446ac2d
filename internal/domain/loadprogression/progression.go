// Package loadprogression computes the next top-set load for an exercise
// given its history, baselines, and the catalog of donor candidates (spec
// §4.6). It cascades through modal-anchor double progression, an
// autoregulated Epley-based fallback, context-tagged baselines, donor
// estimation, and finally a heuristic default — it never fails outright;
// NoBaseline and missing-history conditions always resolve to a load.
package loadprogression

import (
	"sort"

	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/historyindex"
	"github.com/trainprog/engine/internal/domain/periodization"
)

// RepRange is the closed [lo, hi] rep target for a role.
type RepRange struct {
	Lo int
	Hi int
}

// BaselineContext is the closed vocabulary for user baselines.
type BaselineContext string

const (
	ContextDefault  BaselineContext = "default"
	ContextStrength BaselineContext = "strength"
	ContextVolume   BaselineContext = "volume"
)

// Baseline is a user's context-tagged starting load for an exercise.
type Baseline struct {
	ExerciseID string
	Context    BaselineContext
	Load       float64
}

// Increment returns the per-equipment load-increment step, spec §4.6.
func Increment(eq exercise.Equipment) float64 {
	switch eq {
	case exercise.Barbell:
		return 5
	case exercise.Dumbbell:
		return 2.5
	case exercise.Cable:
		return 5
	default:
		return 2.5
	}
}

// DominantEquipment picks a single equipment item from an exercise's
// equipment set for increment/heuristic lookups, preferring the
// "heaviest" implement when more than one is listed.
func DominantEquipment(eq map[exercise.Equipment]bool) exercise.Equipment {
	priority := []exercise.Equipment{
		exercise.Barbell, exercise.Machine, exercise.Sled, exercise.Cable,
		exercise.Dumbbell, exercise.Kettlebell, exercise.Band, exercise.Bodyweight, exercise.Other,
	}
	for _, p := range priority {
		if eq[p] {
			return p
		}
	}
	return exercise.Other
}

// ModalAnchor computes the weighted historical modal load across recent
// sessions, the weighted-latest approach from historyindex (spec §4.6
// step 1).
func ModalAnchor(sessions []historyindex.Session) (float64, bool) {
	load, ok := historyindex.WeightedModalLoad(sessions)
	if !ok || load == nil {
		return 0, false
	}
	return *load, true
}

// ShouldHoldLoad reports whether the most recent session's modal RPE is
// at or above 9, in which case the anchor load is held rather than
// progressed (spec §4.6 step 1).
func ShouldHoldLoad(latestModalRPE *float64) bool {
	return latestModalRPE != nil && *latestModalRPE >= 9
}

// DoubleProgressionDecision applies the closed-form double-progression
// rule (spec §4.6 step 2). resetReps is true when the next session
// should restart at repRange.Lo.
func DoubleProgressionDecision(repRange RepRange, modalReps int, modalLoad float64, modalRPE float64, eq exercise.Equipment) (nextLoad float64, resetReps bool) {
	switch {
	case modalReps >= repRange.Hi && modalRPE <= 8.5:
		return modalLoad + Increment(eq), true
	case modalReps < repRange.Lo:
		return RoundToHalf(modalLoad * 0.9), false
	default:
		return modalLoad, false
	}
}

// ageDamping dampens the autoregulated fallback's step size by training
// age, spec §4.6 step 3.
func ageDamping(age periodization.TrainingAge) float64 {
	switch age {
	case periodization.Beginner:
		return 1.0
	case periodization.Intermediate:
		return 0.7
	case periodization.Advanced:
		return 0.5
	default:
		return 1.0
	}
}

// SetPerformance is a single performed set's load/reps pair used to seed
// the autoregulated fallback's per-set Epley estimate.
type SetPerformance struct {
	Load float64
	Reps int
}

// AutoregulatedFallback implements spec §4.6 step 3: estimate 1RM per set
// via Epley, take the session's best (highest) estimate, back-solve for a
// load at the lower end of repRange at the adjusted target RPE, and
// dampen the step toward the current anchor by training age and block
// position.
func AutoregulatedFallback(sets []SetPerformance, anchor float64, repRange RepRange, targetRPE, rirAdjustment float64, age periodization.TrainingAge, weekInBlock, blockDurationWeeks int, isDeload bool) float64 {
	best := 0.0
	for _, s := range sets {
		e1rm, err := EstimateOneRepMax(s.Load, s.Reps)
		if err != nil {
			continue
		}
		if e1rm > best {
			best = e1rm
		}
	}
	if best == 0 {
		return anchor
	}

	effectiveReps := repRange.Lo
	rir := 10 - (targetRPE + rirAdjustment)
	if rir > 0 {
		effectiveReps += int(rir)
	}
	solved := LoadForTargetReps(best, effectiveReps)

	step := (solved - anchor) * ageDamping(age)
	step *= blockPositionScale(weekInBlock, blockDurationWeeks, isDeload)

	return RoundToHalf(anchor + step)
}

// blockPositionScale scales the autoregulated step: deload weeks damp it
// heavily, and the step ramps up across the block as technical
// familiarity with the working weight increases (spec §4.6 step 3).
func blockPositionScale(weekInBlock, blockDurationWeeks int, isDeload bool) float64 {
	if isDeload {
		return 0.3
	}
	if blockDurationWeeks <= 1 {
		return 1.0
	}
	progress := float64(weekInBlock-1) / float64(blockDurationWeeks-1)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return 0.5 + 0.5*progress
}

// crossContextMultiplier converts a baseline load from one context to
// another, spec §4.6 step 4.
func crossContextMultiplier(from, to BaselineContext) float64 {
	switch {
	case from == ContextStrength && to == ContextVolume:
		return 0.78
	case from == ContextVolume && to == ContextStrength:
		return 1.12
	default:
		return 1.0
	}
}

// ResolveBaseline picks the preferred baseline context for a goal
// (strength for strength goals, otherwise volume) and converts whatever
// baseline is available into that context, spec §4.6 step 4.
func ResolveBaseline(baselines map[BaselineContext]float64, goal periodization.Goal) (float64, bool) {
	preferred := ContextVolume
	if goal == periodization.GoalStrength || goal == periodization.GoalStrengthHypertrophy {
		preferred = ContextStrength
	}

	if load, ok := baselines[preferred]; ok {
		return load, true
	}
	if load, ok := baselines[ContextDefault]; ok {
		return load, true
	}

	// Fall back to whichever single context is present, converted.
	var keys []BaselineContext
	for k := range baselines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		return baselines[k] * crossContextMultiplier(k, preferred), true
	}
	return 0, false
}
