package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/muscle"
)

func benchPress() *exercise.Exercise {
	return &exercise.Exercise{
		ID: "bench-press", Name: "Barbell Bench Press",
		Patterns: []exercise.Pattern{exercise.HorizontalPush}, Split: exercise.SplitPush,
		IsCompound: true, IsMainLiftEligible: true, JointStress: exercise.JointStressMedium,
		Equipment: map[exercise.Equipment]bool{exercise.Barbell: true},
		FatigueCost: 3, SFR: 4, LengthPositionScore: 3,
		PrimaryMuscles:   []muscle.Name{muscle.Chest},
		SecondaryMuscles: []muscle.Name{muscle.Triceps, muscle.FrontDelts},
	}
}

func overheadPress() *exercise.Exercise {
	return &exercise.Exercise{
		ID: "ohp", Name: "Overhead Press",
		Patterns: []exercise.Pattern{exercise.VerticalPush}, Split: exercise.SplitPush,
		IsCompound: true, IsMainLiftEligible: true, JointStress: exercise.JointStressMedium,
		Equipment: map[exercise.Equipment]bool{exercise.Barbell: true},
		FatigueCost: 3, SFR: 3, LengthPositionScore: 3,
		PrimaryMuscles:   []muscle.Name{muscle.FrontDelts},
		SecondaryMuscles: []muscle.Name{muscle.Triceps},
	}
}

func cableFly() *exercise.Exercise {
	return &exercise.Exercise{
		ID: "cable-fly", Name: "Cable Fly",
		Patterns: []exercise.Pattern{exercise.Isolation}, Split: exercise.SplitPush,
		IsCompound: false, Equipment: map[exercise.Equipment]bool{exercise.Cable: true},
		FatigueCost: 2, SFR: 3, LengthPositionScore: 5,
		PrimaryMuscles: []muscle.Name{muscle.Chest},
	}
}

func tricepPushdown() *exercise.Exercise {
	return &exercise.Exercise{
		ID: "tricep-pushdown", Name: "Tricep Pushdown",
		Patterns: []exercise.Pattern{exercise.Isolation}, Split: exercise.SplitPush,
		IsCompound: false, Equipment: map[exercise.Equipment]bool{exercise.Cable: true},
		FatigueCost: 1, SFR: 4, LengthPositionScore: 4,
		PrimaryMuscles: []muscle.Name{muscle.Triceps},
	}
}

func lateralRaise() *exercise.Exercise {
	return &exercise.Exercise{
		ID: "lateral-raise", Name: "Lateral Raise",
		Patterns: []exercise.Pattern{exercise.Isolation}, Split: exercise.SplitPush,
		IsCompound: false, Equipment: map[exercise.Equipment]bool{exercise.Dumbbell: true},
		FatigueCost: 1, SFR: 4, LengthPositionScore: 4,
		PrimaryMuscles: []muscle.Name{muscle.SideDelts},
	}
}

func allPushEquipment() map[exercise.Equipment]bool {
	return map[exercise.Equipment]bool{exercise.Barbell: true, exercise.Cable: true, exercise.Dumbbell: true}
}

func pushCatalog(t *testing.T) *exercise.Catalog {
	t.Helper()
	cat, err := exercise.NewCatalog([]*exercise.Exercise{
		benchPress(), overheadPress(), cableFly(), tricepPushdown(), lateralRaise(),
	})
	require.NoError(t, err)
	return cat
}

func TestSeedMainLifts_PushIntentPicksHorizontalAndVertical(t *testing.T) {
	mains := SeedMainLifts([]*exercise.Exercise{benchPress(), overheadPress(), cableFly()}, IntentPush, nil)
	require.Len(t, mains, 2)
	ids := map[string]bool{mains[0].ID: true, mains[1].ID: true}
	assert.True(t, ids["bench-press"])
	assert.True(t, ids["ohp"])
}

func TestApplyHardFilters_ExcludesEquipmentUnavailable(t *testing.T) {
	in := SelectionInput{
		Mode: ModeIntent, Intent: IntentPush,
		ExerciseLibrary: pushCatalog(t),
		Constraints:     Constraints{AvailableEquipment: map[exercise.Equipment]bool{exercise.Barbell: true}},
	}
	survivors, rejected := applyHardFilters(in, nil)
	for _, s := range survivors {
		assert.True(t, s.EquipmentSubsetOf(in.Constraints.AvailableEquipment))
	}
	assert.NotEmpty(t, rejected)
}

func TestTargetSetsForMuscle_ClampsToRange(t *testing.T) {
	assert.Equal(t, 2, TargetSetsForMuscle(MuscleVolumeState{WeeklyTarget: 2, SessionsPerWeek: 2}, true))
	assert.Equal(t, 5, TargetSetsForMuscle(MuscleVolumeState{WeeklyTarget: 30, SessionsPerWeek: 1}, true))
}

func TestRank_ProducesWellFormedSelection(t *testing.T) {
	in := SelectionInput{
		Mode: ModeIntent, Intent: IntentPush,
		SessionMinutes:  60,
		ExerciseLibrary: pushCatalog(t),
		Constraints:     Constraints{AvailableEquipment: allPushEquipment()},
		MuscleVolume: map[muscle.Name]MuscleVolumeState{
			muscle.Chest:      {WeeklyTarget: 16, SessionsPerWeek: 2},
			muscle.Triceps:    {WeeklyTarget: 12, SessionsPerWeek: 2},
			muscle.SideDelts:  {WeeklyTarget: 19, SessionsPerWeek: 2},
			muscle.FrontDelts: {WeeklyTarget: 7, SessionsPerWeek: 2},
		},
		FatigueState: FatigueState{Overall: 0.7},
	}
	result := Rank(in)

	assert.GreaterOrEqual(t, len(result.SelectedExerciseIDs), MinTotalExercises)
	assert.LessOrEqual(t, len(result.SelectedExerciseIDs), MaxTotalExercises)
	assert.NotEmpty(t, result.MainLiftIDs)
	assert.NotEmpty(t, result.PerExerciseSetTargets)
	for _, st := range result.PerExerciseSetTargets {
		assert.GreaterOrEqual(t, st.Sets, 2)
		assert.LessOrEqual(t, st.Sets, 5)
	}
}

func TestRank_NoRedundantAccessoryPairs(t *testing.T) {
	in := SelectionInput{
		Mode: ModeIntent, Intent: IntentPush,
		SessionMinutes:  75,
		ExerciseLibrary: pushCatalog(t),
		Constraints:     Constraints{AvailableEquipment: allPushEquipment()},
		MuscleVolume: map[muscle.Name]MuscleVolumeState{
			muscle.Chest: {WeeklyTarget: 16, SessionsPerWeek: 2},
		},
		FatigueState: FatigueState{Overall: 0.8},
	}
	result := Rank(in)

	seen := make(map[string]bool)
	cat := in.ExerciseLibrary
	for _, id := range result.AccessoryIDs {
		ex := cat.Get(id)
		require.NotNil(t, ex)
		key := string(ex.DominantPattern())
		for _, m := range ex.PrimaryMuscles {
			key += "|" + string(m)
		}
		assert.False(t, seen[key], "redundant accessory pairing for %s", id)
		seen[key] = true
	}
}
