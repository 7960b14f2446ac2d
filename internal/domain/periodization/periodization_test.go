package periodization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMacroCycle_Beginner(t *testing.T) {
	macro, err := GenerateMacroCycle(GenerateInput{
		UserID:        "u1",
		StartDate:     time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		DurationWeeks: 12,
		TrainingAge:   Beginner,
		PrimaryGoal:   GoalHypertrophy,
	})
	require.NoError(t, err)
	// beginner template is 4 weeks (3 accumulation + 1 deload) -> 3 full mesos in 12 weeks
	require.Len(t, macro.Mesocycles, 3)
	for i, meso := range macro.Mesocycles {
		assert.Equal(t, i+1, meso.MesoNumber)
		assert.Equal(t, 4, meso.DurationWeeks)
		require.Len(t, meso.Blocks, 2)
		assert.Equal(t, Accumulation, meso.Blocks[0].BlockType)
		assert.Equal(t, 3, meso.Blocks[0].DurationWeeks)
		assert.Equal(t, Deload, meso.Blocks[1].BlockType)
		assert.Equal(t, 1, meso.Blocks[1].DurationWeeks)
		assert.Equal(t, WorkCapacity, meso.Blocks[0].AdaptationType)
	}
}

func TestGenerateMacroCycle_TailWeeksDropped(t *testing.T) {
	// beginner meso is 4 weeks; 14 weeks only fits 3 full mesos (12 weeks), 2 tail weeks dropped
	macro, err := GenerateMacroCycle(GenerateInput{
		UserID:        "u1",
		StartDate:     time.Now(),
		DurationWeeks: 14,
		TrainingAge:   Beginner,
		PrimaryGoal:   GoalHypertrophy,
	})
	require.NoError(t, err)
	assert.Len(t, macro.Mesocycles, 3)
}

func TestGenerateMacroCycle_Advanced(t *testing.T) {
	// advanced template: 2+2+1+1 = 6 weeks
	macro, err := GenerateMacroCycle(GenerateInput{
		UserID:        "u1",
		StartDate:     time.Now(),
		DurationWeeks: 6,
		TrainingAge:   Advanced,
		PrimaryGoal:   GoalStrength,
	})
	require.NoError(t, err)
	require.Len(t, macro.Mesocycles, 1)
	blocks := macro.Mesocycles[0].Blocks
	require.Len(t, blocks, 4)
	assert.Equal(t, Accumulation, blocks[0].BlockType)
	assert.Equal(t, MyofibrillarHypertrophy, blocks[0].AdaptationType)
	assert.Equal(t, Intensification, blocks[1].BlockType)
	assert.Equal(t, Realization, blocks[2].BlockType)
	assert.Equal(t, Deload, blocks[3].BlockType)
	assert.Equal(t, 0, blocks[0].StartWeek)
	assert.Equal(t, 2, blocks[1].StartWeek)
	assert.Equal(t, 4, blocks[2].StartWeek)
	assert.Equal(t, 5, blocks[3].StartWeek)
}

func TestGenerateMacroCycle_BlockTransitionsValidAcrossMesoBoundary(t *testing.T) {
	// intermediate template is 5 weeks (2 accumulation + 2 intensification + 1 deload);
	// 10 weeks gives two full mesos, so the deload -> accumulation wraparound between
	// meso 1 and meso 2 must itself be a valid BlockStateMachine transition.
	macro, err := GenerateMacroCycle(GenerateInput{
		UserID:        "u1",
		StartDate:     time.Now(),
		DurationWeeks: 10,
		TrainingAge:   Intermediate,
		PrimaryGoal:   GoalStrength,
	})
	require.NoError(t, err)
	require.Len(t, macro.Mesocycles, 2)
	assert.Equal(t, Deload, macro.Mesocycles[0].Blocks[2].BlockType)
	assert.Equal(t, Accumulation, macro.Mesocycles[1].Blocks[0].BlockType)
}

func TestGenerateMacroCycle_NoFullMesoFits(t *testing.T) {
	_, err := GenerateMacroCycle(GenerateInput{
		UserID:        "u1",
		StartDate:     time.Now(),
		DurationWeeks: 2,
		TrainingAge:   Advanced,
		PrimaryGoal:   GoalStrength,
	})
	require.ErrorIs(t, err, ErrNoFullMesoFits)
}

func TestGenerateMacroCycle_RequiresUserID(t *testing.T) {
	_, err := GenerateMacroCycle(GenerateInput{
		StartDate:     time.Now(),
		DurationWeeks: 12,
		TrainingAge:   Beginner,
	})
	require.ErrorIs(t, err, ErrUserIDRequired)
}

func TestNormalizeGoal(t *testing.T) {
	assert.Equal(t, GoalGeneralFitness, NormalizeGoal(GoalAthleticism))
	assert.Equal(t, GoalGeneralFitness, NormalizeGoal(GoalGeneralHealth))
	assert.Equal(t, GoalStrength, NormalizeGoal(GoalStrength))
}

func TestDeriveBlockContext_Scenario1(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	macro, err := GenerateMacroCycle(GenerateInput{
		UserID:        "u1",
		StartDate:     start,
		DurationWeeks: 12,
		TrainingAge:   Beginner,
		PrimaryGoal:   GoalHypertrophy,
	})
	require.NoError(t, err)

	ctx, ok := DeriveBlockContext(macro, start.AddDate(0, 0, 14))
	require.True(t, ok)
	assert.Equal(t, Accumulation, ctx.Block.BlockType)
	assert.Equal(t, 3, ctx.WeekInBlock)
	assert.Equal(t, 3, ctx.WeekInMeso)
	assert.Equal(t, SourceComputed, ctx.Source)
}

func TestDeriveBlockContext_OutOfRange(t *testing.T) {
	start := time.Now()
	macro, err := GenerateMacroCycle(GenerateInput{
		UserID:        "u1",
		StartDate:     start,
		DurationWeeks: 12,
		TrainingAge:   Beginner,
		PrimaryGoal:   GoalHypertrophy,
	})
	require.NoError(t, err)

	_, ok := DeriveBlockContext(macro, start.AddDate(0, 0, -1))
	assert.False(t, ok)

	_, ok = DeriveBlockContext(macro, start.AddDate(0, 0, 365))
	assert.False(t, ok)
}

func TestFromFallback(t *testing.T) {
	ctx := FromFallback(CycleContextSnapshot{
		Block:       TrainingBlock{BlockType: Accumulation},
		WeekInBlock: 1,
		WeekInMeso:  1,
		WeekInMacro: 1,
	})
	assert.Equal(t, SourceFallback, ctx.Source)
	assert.Nil(t, ctx.MacroCycle)
}
