package loadprogression

import "github.com/trainprog/engine/internal/domain/exercise"

// equipmentDefault is the equipment-keyed default load used when no
// bodyweight is available to scale from (spec §4.6 step 6).
var equipmentDefault = map[exercise.Equipment]float64{
	exercise.Barbell:    65,
	exercise.Dumbbell:   20,
	exercise.Machine:    60,
	exercise.Cable:      40,
	exercise.Kettlebell: 24,
	exercise.Band:       15,
	exercise.Sled:       90,
	exercise.Other:      30,
}

// compoundRatio is the bodyweight-relative ratio used by the heuristic
// fallback, higher for compound lifts than isolation work.
func compoundRatio(eq exercise.Equipment, isCompound bool) float64 {
	base := map[exercise.Equipment]float64{
		exercise.Barbell:    1.0,
		exercise.Dumbbell:   0.35,
		exercise.Machine:    0.7,
		exercise.Cable:      0.4,
		exercise.Kettlebell: 0.3,
		exercise.Band:       0.1,
		exercise.Sled:       1.1,
		exercise.Other:      0.4,
	}[eq]
	if base == 0 {
		base = 0.4
	}
	if !isCompound {
		base *= 0.5
	}
	return base
}

// patternMultiplier nudges the heuristic ratio by movement pattern:
// lower-body patterns carry more load relative to bodyweight than
// upper-body isolation patterns.
func patternMultiplier(p exercise.Pattern) float64 {
	switch p {
	case exercise.Squat, exercise.Hinge:
		return 1.3
	case exercise.Lunge:
		return 1.1
	case exercise.HorizontalPush, exercise.HorizontalPull, exercise.VerticalPush, exercise.VerticalPull:
		return 1.0
	case exercise.Isolation:
		return 0.6
	default:
		return 0.9
	}
}

// HeuristicFallback implements spec §4.6 step 6: a bodyweight-scaled
// estimate when a bodyweight figure is known, otherwise the equipment
// default. Machine exercises floor at 10 lb; all results round to the
// nearest 0.5.
func HeuristicFallback(ex *exercise.Exercise, bodyweight float64, hasBodyweight bool) float64 {
	eq := DominantEquipment(ex.Equipment)

	var load float64
	if hasBodyweight && bodyweight > 0 {
		load = bodyweight * compoundRatio(eq, ex.IsCompound) * patternMultiplier(ex.DominantPattern())
	} else {
		load = equipmentDefault[eq]
		if load == 0 {
			load = equipmentDefault[exercise.Other]
		}
	}

	if eq == exercise.Machine && load < 10 {
		load = 10
	}

	return RoundToHalf(load)
}
