package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainprog/engine/internal/domain/muscle"
)

func TestCompute_MissingSignal(t *testing.T) {
	score := Compute(nil, 0)
	assert.Equal(t, AvailabilityMissing, score.Availability)
	assert.Equal(t, 0.5, score.Overall)
	assert.Equal(t, 1.0, score.WorstMuscleFatigue)
}

func TestCompute_WhoopPresentUsesWhoopWeights(t *testing.T) {
	signal := &Signal{
		Whoop: &WhoopSignal{Recovery: 80, Strain: 10, HRV: 50, SleepQuality: 90},
		Subjective: &SubjectiveSignal{
			Readiness: 4, Motivation: 4,
		},
		Performance: &PerformanceSignal{RPEDeviation: 0, StallCount: 0, VolumeComplianceRate: 1},
	}
	score := Compute(signal, 1)
	assert.Equal(t, 0.5, score.WhoopWeight)
	assert.Equal(t, 0.3, score.SubjectiveWeight)
	assert.Equal(t, 0.2, score.PerformanceWeight)
	assert.Equal(t, AvailabilityPresent, score.Availability)
	assert.InDelta(t, 1.0, score.WorstMuscleFatigue, 1e-9)
}

func TestCompute_NoWhoopUsesSubjectivePerformanceWeights(t *testing.T) {
	signal := &Signal{
		Subjective:  &SubjectiveSignal{Readiness: 3, Motivation: 3},
		Performance: &PerformanceSignal{RPEDeviation: 0, StallCount: 0, VolumeComplianceRate: 1},
	}
	score := Compute(signal, 1)
	assert.Equal(t, 0.0, score.WhoopWeight)
	assert.Equal(t, 0.6, score.SubjectiveWeight)
	assert.Equal(t, 0.4, score.PerformanceWeight)
}

func TestCompute_DeloadTriggerScenario(t *testing.T) {
	signal := &Signal{
		Subjective: &SubjectiveSignal{
			Readiness: 1, Motivation: 1,
			Soreness: map[muscle.Name]int{muscle.Quads: 3},
		},
	}
	score := Compute(signal, 0)
	assert.Less(t, score.Overall, 0.3)
}

func TestCompute_SorenessMapsToPerMuscleFatigue(t *testing.T) {
	signal := &Signal{
		Subjective: &SubjectiveSignal{
			Readiness: 3, Motivation: 3,
			Soreness: map[muscle.Name]int{muscle.Chest: 1, muscle.Back: 2, muscle.Quads: 3},
		},
	}
	score := Compute(signal, 0)
	require.Len(t, score.PerMuscle, 3)
	assert.InDelta(t, 0.0, score.WorstMuscleFatigue, 1e-9)
}

func TestCompute_OverallClampedToUnitInterval(t *testing.T) {
	signal := &Signal{
		Whoop:       &WhoopSignal{Recovery: 100, Strain: 0, HRV: 100, SleepQuality: 100},
		Subjective:  &SubjectiveSignal{Readiness: 5, Motivation: 5},
		Performance: &PerformanceSignal{RPEDeviation: -4, StallCount: 0, VolumeComplianceRate: 1},
	}
	score := Compute(signal, 0)
	assert.LessOrEqual(t, score.Overall, 1.0)
	assert.GreaterOrEqual(t, score.Overall, 0.0)
}

func TestWhoopSignal_ValidateRanges(t *testing.T) {
	require.NoError(t, WhoopSignal{Recovery: 50, Strain: 10, SleepQuality: 50}.Validate())
	require.ErrorIs(t, WhoopSignal{Recovery: 150}.Validate(), ErrRecoveryRange)
	require.ErrorIs(t, WhoopSignal{Strain: 22}.Validate(), ErrStrainRange)
}

func TestSubjectiveSignal_ValidateSorenessRange(t *testing.T) {
	s := SubjectiveSignal{Readiness: 3, Motivation: 3, Soreness: map[muscle.Name]int{muscle.Chest: 4}}
	require.ErrorIs(t, s.Validate(), ErrSorenessRange)
}

func TestPerformanceSubscore_StallPenaltyCapsAtPoint3(t *testing.T) {
	p := PerformanceSignal{RPEDeviation: 0, StallCount: 10, VolumeComplianceRate: 1}
	score := performanceSubscore(p)
	// stallPenalty capped at 0.3 -> (1-0.3)*0.3 = 0.21; rpeScore=0.5*0.5=0.25; vol=1*0.2=0.2
	assert.InDelta(t, 0.66, score, 1e-9)
}
