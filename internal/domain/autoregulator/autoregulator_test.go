package autoregulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ld(v float64) *float64 { return &v }

func TestSelectAction_Scenario6Deload(t *testing.T) {
	action := SelectAction(0.25, Policy{AllowScaleDown: true, AllowScaleUp: true})
	assert.Equal(t, ActionTriggerDeload, action)
}

func TestSelectAction_ModerateFatigueAggressiveReducesVolume(t *testing.T) {
	action := SelectAction(0.4, Policy{AllowScaleDown: true, Aggressive: true})
	assert.Equal(t, ActionReduceVolume, action)
}

func TestSelectAction_ModerateFatigueNonAggressiveScalesDown(t *testing.T) {
	action := SelectAction(0.4, Policy{AllowScaleDown: true, Aggressive: false})
	assert.Equal(t, ActionScaleDown, action)
}

func TestSelectAction_HighFatigueScalesUp(t *testing.T) {
	action := SelectAction(0.9, Policy{AllowScaleUp: true})
	assert.Equal(t, ActionScaleUp, action)
}

func TestSelectAction_DefaultMaintain(t *testing.T) {
	action := SelectAction(0.6, Policy{AllowScaleDown: true, AllowScaleUp: true})
	assert.Equal(t, ActionMaintain, action)
}

func TestApplyScaleDown(t *testing.T) {
	sets := []*WorkingSet{{ExerciseID: "bench", Load: ld(200), RPE: ld(8)}}
	mods := ApplyScaleDown(sets)
	assert.Equal(t, 180.0, *sets[0].Load)
	assert.Equal(t, 7.0, *sets[0].RPE)
	assert.Len(t, mods, 2)
}

func TestApplyScaleUp(t *testing.T) {
	sets := []*WorkingSet{{ExerciseID: "bench", Load: ld(200), RPE: ld(8)}}
	ApplyScaleUp(sets)
	assert.Equal(t, 210.0, *sets[0].Load)
	assert.Equal(t, 8.5, *sets[0].RPE)
}

func TestApplyReduceVolume_PreservesMinimumAndMainLifts(t *testing.T) {
	sets := []*WorkingSet{
		{ExerciseID: "bench", IsMainLift: true, Sets: 5},
		{ExerciseID: "cable-fly", IsMainLift: false, Sets: 3},
	}
	mods := ApplyReduceVolume(sets)
	require.Len(t, mods, 1)
	assert.Equal(t, 5, sets[0].Sets)
	assert.Equal(t, MinSetsPreserved, sets[1].Sets)
}

func TestApplyTriggerDeload_Scenario6(t *testing.T) {
	sets := []*WorkingSet{{ExerciseID: "bench", Sets: 4, Load: ld(200), RPE: ld(8.5)}}
	ApplyTriggerDeload(sets)
	assert.Equal(t, 2, sets[0].Sets)
	assert.Equal(t, 120.0, *sets[0].Load)
	assert.Equal(t, 6.0, *sets[0].RPE)
}
