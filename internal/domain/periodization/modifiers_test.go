package periodization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPeriodizationModifiers_AccumulationRamp(t *testing.T) {
	block := TrainingBlock{BlockType: Accumulation, DurationWeeks: 3}

	week1 := GetPeriodizationModifiers(block, 1)
	assert.Equal(t, 1.0, week1.VolumeMultiplier)
	assert.Equal(t, 2.0, week1.RIRAdjustment)

	week3 := GetPeriodizationModifiers(block, 3)
	assert.InDelta(t, 1.2, week3.VolumeMultiplier, 1e-9)
	assert.InDelta(t, 0.0, week3.RIRAdjustment, 1e-9)
}

func TestGetPeriodizationModifiers_Realization(t *testing.T) {
	block := TrainingBlock{BlockType: Realization, DurationWeeks: 1}
	mods := GetPeriodizationModifiers(block, 1)
	assert.Equal(t, 0.8, mods.VolumeMultiplier)
	assert.Equal(t, 1.2, mods.RestMultiplier)
	assert.Equal(t, -1.0, mods.RIRAdjustment)
}

func TestGetPeriodizationModifiers_DeloadRamp(t *testing.T) {
	block := TrainingBlock{BlockType: Deload, DurationWeeks: 1}
	mods := GetPeriodizationModifiers(block, 1)
	assert.Equal(t, 0.5, mods.VolumeMultiplier)
	assert.Equal(t, 0.6, mods.IntensityMultiplier)
	assert.Equal(t, 2.0, mods.RIRAdjustment)
}

func TestRampProgress_SingleWeekBlockClampsToZero(t *testing.T) {
	assert.Equal(t, 0.0, rampProgress(1, 1))
}

func TestClampRIR(t *testing.T) {
	assert.Equal(t, 0.0, ClampRIR(1, -3))
	assert.Equal(t, 4.0, ClampRIR(2, 5))
	assert.Equal(t, 2.5, ClampRIR(2, 0.5))
}
