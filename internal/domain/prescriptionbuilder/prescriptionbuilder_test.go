package prescriptionbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/loadprogression"
	"github.com/trainprog/engine/internal/domain/periodization"
)

func benchPress() *exercise.Exercise {
	return &exercise.Exercise{
		ID: "bench-press", Name: "Barbell Bench Press",
		Patterns: []exercise.Pattern{exercise.HorizontalPush}, IsCompound: true,
		Equipment: map[exercise.Equipment]bool{exercise.Barbell: true},
		FatigueCost: 3, SFR: 4, LengthPositionScore: 3,
	}
}

func TestRepRangeFor_StrengthMain(t *testing.T) {
	rr := RepRangeFor(periodization.GoalStrength, RoleMain)
	assert.Equal(t, loadprogression.RepRange{Lo: 3, Hi: 6}, rr)
}

func TestBaseRPE_IsolationAccessoryBumpUnderHypertrophy(t *testing.T) {
	base := BaseRPE(periodization.GoalHypertrophy, periodization.Intermediate, RoleMain, false)
	bumped := BaseRPE(periodization.GoalHypertrophy, periodization.Intermediate, RoleAccessory, true)
	assert.Greater(t, bumped, base)
}

func TestBuild_AccumulationAppliesVolumeAndRIRAdjustment(t *testing.T) {
	ex := benchPress()
	modifiers := periodization.GetPeriodizationModifiers(periodization.TrainingBlock{BlockType: periodization.Accumulation, DurationWeeks: 3}, 1)
	result := Build(BuildInput{
		Exercise:    ex,
		Role:        RoleMain,
		SolvedLoad:  loadprogression.SolveResult{Load: 200, Source: loadprogression.SourceDoubleProgression},
		Goal:        periodization.GoalHypertrophy,
		TrainingAge: periodization.Intermediate,
		BaseSets:    3,
		Modifiers:   modifiers,
	})
	require.NotEmpty(t, result.Sets)
	// week 1 of accumulation: volume multiplier 1.0 keeps 3 sets, RIR +2 on base RPE 8 gives RPE 6
	assert.Len(t, result.Sets, 3)
	assert.Equal(t, 6.0, *result.Sets[0].TargetRPE)
	assert.NotNil(t, result.Sets[0].TargetLoad)
	assert.NotEmpty(t, result.WarmupSets)
}

func TestBuild_BodyweightOnlyHasNoLoadOrWarmup(t *testing.T) {
	ex := &exercise.Exercise{ID: "pushup", Patterns: []exercise.Pattern{exercise.HorizontalPush}, Equipment: map[exercise.Equipment]bool{exercise.Bodyweight: true}}
	modifiers := periodization.PrescriptionModifiers{VolumeMultiplier: 1, IntensityMultiplier: 1, RestMultiplier: 1}
	result := Build(BuildInput{
		Exercise:   ex,
		Role:       RoleAccessory,
		SolvedLoad: loadprogression.SolveResult{Source: loadprogression.SourceBodyweightOnly},
		Goal:       periodization.GoalHypertrophy,
		Modifiers:  modifiers,
	})
	assert.Nil(t, result.Sets[0].TargetLoad)
	assert.Empty(t, result.WarmupSets)
}

func TestBuildWarmupRamp_BeginnerHasTwoSteps(t *testing.T) {
	sets := BuildWarmupRamp(periodization.Beginner, 200)
	require.Len(t, sets, 2)
	assert.Equal(t, 120.0, *sets[0].TargetLoad)
	assert.Equal(t, 160.0, *sets[1].TargetLoad)
}

func TestBuildWarmupRamp_AdvancedHasThreeSteps(t *testing.T) {
	sets := BuildWarmupRamp(periodization.Advanced, 200)
	require.Len(t, sets, 3)
}

func TestEstimatedMinutes_IncludesWarmupDefaults(t *testing.T) {
	we := WorkoutExercise{
		ExerciseID: "bench-press",
		Sets:       []WorkoutSet{{RestSeconds: 180}},
		WarmupSets: []WorkoutSet{{}, {}},
	}
	minutes := EstimatedMinutes([]WorkoutExercise{we}, nil)
	assert.Greater(t, minutes, 0.0)
}
