// Package autoregulator applies fatigue-driven load/volume transforms to
// an already-prescribed plan (spec §4.8). It runs after the prescription
// builder and mutates sets in place, returning a modification log
// alongside the adjusted plan.
package autoregulator

import "math"

// Action is the closed vocabulary of autoregulation actions.
type Action string

const (
	ActionMaintain     Action = "maintain"
	ActionScaleDown    Action = "scale_down"
	ActionScaleUp      Action = "scale_up"
	ActionReduceVolume Action = "reduce_volume"
	ActionTriggerDeload Action = "trigger_deload"
)

// Policy gates which directions autoregulation is allowed to move, so a
// caller can e.g. disable auto-deload for a coached athlete.
type Policy struct {
	AllowScaleDown bool
	AllowScaleUp   bool
	Aggressive     bool // when true, low fatigue prefers reduce_volume over scale_down
}

// MaxSetsToDrop and MinSetsPreserved bound reduce_volume's set trimming
// (spec §4.8).
const (
	MaxSetsToDrop    = 2
	MinSetsPreserved = 2
)

// DeloadNotePrefix is prepended to the workout note when trigger_deload
// fires (spec §4.8).
const DeloadNotePrefix = "[AUTO-DELOAD TRIGGERED]"

// SelectAction maps overall fatigue to an autoregulation action, spec
// §4.8.
func SelectAction(overallFatigue float64, policy Policy) Action {
	switch {
	case overallFatigue < 0.3 && policy.AllowScaleDown:
		return ActionTriggerDeload
	case overallFatigue < 0.5 && policy.AllowScaleDown:
		if policy.Aggressive {
			return ActionReduceVolume
		}
		return ActionScaleDown
	case overallFatigue > 0.85 && policy.AllowScaleUp:
		return ActionScaleUp
	default:
		return ActionMaintain
	}
}

// WorkingSet is the mutable subset of a prescribed set the autoregulator
// transforms.
type WorkingSet struct {
	ExerciseID string
	IsMainLift bool
	Sets       int
	Load       *float64
	RPE        *float64
}

// Modification records one change the autoregulator made, for the
// modification log (spec §4.8).
type Modification struct {
	ExerciseID string
	Field      string
	Before     float64
	After      float64
	Reason     string
}

func roundToHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

// ApplyScaleDown implements spec §4.8 scale_down: load ← round0.5(load ·
// 0.9), rpe ← max(1, rpe − 1).
func ApplyScaleDown(sets []*WorkingSet) []Modification {
	var mods []Modification
	for _, s := range sets {
		if s.Load != nil {
			before := *s.Load
			after := roundToHalf(before * 0.9)
			*s.Load = after
			mods = append(mods, Modification{ExerciseID: s.ExerciseID, Field: "load", Before: before, After: after, Reason: "scale_down: low readiness"})
		}
		if s.RPE != nil {
			before := *s.RPE
			after := before - 1
			if after < 1 {
				after = 1
			}
			*s.RPE = after
			mods = append(mods, Modification{ExerciseID: s.ExerciseID, Field: "rpe", Before: before, After: after, Reason: "scale_down: low readiness"})
		}
	}
	return mods
}

// ApplyScaleUp implements spec §4.8 scale_up: load ← round0.5(load ·
// 1.05), rpe ← min(10, rpe + 0.5).
func ApplyScaleUp(sets []*WorkingSet) []Modification {
	var mods []Modification
	for _, s := range sets {
		if s.Load != nil {
			before := *s.Load
			after := roundToHalf(before * 1.05)
			*s.Load = after
			mods = append(mods, Modification{ExerciseID: s.ExerciseID, Field: "load", Before: before, After: after, Reason: "scale_up: high readiness"})
		}
		if s.RPE != nil {
			before := *s.RPE
			after := before + 0.5
			if after > 10 {
				after = 10
			}
			*s.RPE = after
			mods = append(mods, Modification{ExerciseID: s.ExerciseID, Field: "rpe", Before: before, After: after, Reason: "scale_up: high readiness"})
		}
	}
	return mods
}

// ApplyReduceVolume implements spec §4.8 reduce_volume: main lifts
// untouched; accessories drop up to MaxSetsToDrop sets, never below
// MinSetsPreserved.
func ApplyReduceVolume(sets []*WorkingSet) []Modification {
	var mods []Modification
	for _, s := range sets {
		if s.IsMainLift {
			continue
		}
		before := s.Sets
		dropped := MaxSetsToDrop
		floor := before - dropped
		if floor < MinSetsPreserved {
			floor = MinSetsPreserved
		}
		if floor >= before {
			continue
		}
		s.Sets = floor
		mods = append(mods, Modification{ExerciseID: s.ExerciseID, Field: "sets", Before: float64(before), After: float64(floor), Reason: "reduce_volume: moderate fatigue"})
	}
	return mods
}

// ApplyTriggerDeload implements spec §4.8 trigger_deload: for all
// exercises, sets ← max(1, round(original · 0.5)), load ← load · 0.6,
// rpe ← 6.
func ApplyTriggerDeload(sets []*WorkingSet) []Modification {
	var mods []Modification
	for _, s := range sets {
		beforeSets := s.Sets
		afterSets := int(math.Round(float64(beforeSets) * 0.5))
		if afterSets < 1 {
			afterSets = 1
		}
		s.Sets = afterSets
		mods = append(mods, Modification{ExerciseID: s.ExerciseID, Field: "sets", Before: float64(beforeSets), After: float64(afterSets), Reason: "trigger_deload: critical fatigue"})

		if s.Load != nil {
			beforeLoad := *s.Load
			afterLoad := beforeLoad * 0.6
			*s.Load = afterLoad
			mods = append(mods, Modification{ExerciseID: s.ExerciseID, Field: "load", Before: beforeLoad, After: afterLoad, Reason: "trigger_deload: critical fatigue"})
		}
		if s.RPE != nil {
			beforeRPE := *s.RPE
			*s.RPE = 6
			mods = append(mods, Modification{ExerciseID: s.ExerciseID, Field: "rpe", Before: beforeRPE, After: 6, Reason: "trigger_deload: critical fatigue"})
		}
	}
	return mods
}

// Apply dispatches to the action-specific transform and returns the
// modification log (spec §4.8). maintain produces no modifications.
func Apply(action Action, sets []*WorkingSet) []Modification {
	switch action {
	case ActionScaleDown:
		return ApplyScaleDown(sets)
	case ActionScaleUp:
		return ApplyScaleUp(sets)
	case ActionReduceVolume:
		return ApplyReduceVolume(sets)
	case ActionTriggerDeload:
		return ApplyTriggerDeload(sets)
	default:
		return nil
	}
}
