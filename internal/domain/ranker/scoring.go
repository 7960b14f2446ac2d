package ranker

import (
	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/muscle"
)

// Weights for the stage-4 accessory scoring formula, spec §4.5 stage 4.
const (
	weightMuscleDeficit     = 1.0
	weightTargetedness      = 0.5
	weightSFR               = 0.4
	weightLengthened        = 0.3
	weightPreference        = 0.2
	weightMovementDiversity = 0.2
	weightContinuity        = 0.15
	weightTimeFit           = 0.1
	weightRecencyPenalty    = -0.3
	weightRedundancyPenalty = -0.4
	weightFatigueCostPenalty = -0.2
)

// ScoringContext carries the slot-by-slot mutable state the beam search
// updates as it commits exercises to the session.
type ScoringContext struct {
	MuscleVolume           map[muscle.Name]MuscleVolumeState
	CommittedSets          map[muscle.Name]int
	PatternUsage           map[exercise.Pattern]int
	RecentlyUsedIDs        map[string]bool
	PriorRoleByExerciseID  map[string]string
	SelectedAccessories    []*exercise.Exercise
	Readiness              float64
	RemainingBudgetMinutes float64
	AvgSecondsPerSet       int
}

// ScoreBreakdown preserves each component's weighted contribution for
// explainability.
type ScoreBreakdown struct {
	ExerciseID      string
	Total           float64
	MuscleDeficit   float64
	Targetedness    float64
	SFR             float64
	Lengthened      float64
	Preference      float64
	MovementDiversity float64
	Continuity      float64
	TimeFit         float64
	RecencyPenalty  float64
	RedundancyPenalty float64
	FatigueCostPenalty float64
}

// ScoreCandidate implements the spec §4.5 stage 4 weighted scoring
// formula for a single accessory candidate in the current slot context.
func ScoreCandidate(ex *exercise.Exercise, role string, ctx ScoringContext) ScoreBreakdown {
	deficit := muscleDeficitRaw(ex, ctx)
	targetedness := targetednessRaw(ex, ctx)
	sfr := float64(ex.SFR) / 5
	lengthened := float64(ex.LengthPositionScore) / 5
	preference := preferenceRaw(ex)
	diversity := movementDiversityRaw(ex, ctx)
	continuity := continuityRaw(ex, role, ctx)
	timeFit := timeFitRaw(ex, ctx)
	recency := 0.0
	if ctx.RecentlyUsedIDs[ex.ID] {
		recency = 1.0
	}
	redundancy := redundancyRaw(ex, ctx)
	fatiguePenalty := float64(ex.FatigueCost) / 5 * (1 - ctx.Readiness)

	b := ScoreBreakdown{
		ExerciseID:        ex.ID,
		MuscleDeficit:     deficit * weightMuscleDeficit,
		Targetedness:      targetedness * weightTargetedness,
		SFR:               sfr * weightSFR,
		Lengthened:        lengthened * weightLengthened,
		Preference:        preference * weightPreference,
		MovementDiversity: diversity * weightMovementDiversity,
		Continuity:        continuity * weightContinuity,
		TimeFit:           timeFit * weightTimeFit,
		RecencyPenalty:    recency * weightRecencyPenalty,
		RedundancyPenalty: redundancy * weightRedundancyPenalty,
		FatigueCostPenalty: fatiguePenalty * weightFatigueCostPenalty,
	}
	b.Total = b.MuscleDeficit + b.Targetedness + b.SFR + b.Lengthened + b.Preference +
		b.MovementDiversity + b.Continuity + b.TimeFit + b.RecencyPenalty +
		b.RedundancyPenalty + b.FatigueCostPenalty
	return b
}

func muscleDeficitRaw(ex *exercise.Exercise, ctx ScoringContext) float64 {
	sum := 0.0
	for _, m := range ex.PrimaryMuscles {
		state, ok := ctx.MuscleVolume[m]
		if !ok || state.WeeklyTarget == 0 {
			continue
		}
		committed := state.CommittedInSession + ctx.CommittedSets[m]
		deficit := float64(state.WeeklyTarget-state.WeeklyActual-committed)
		if deficit < 0 {
			deficit = 0
		}
		sum += deficit / float64(state.WeeklyTarget)
	}
	return sum
}

func targetednessRaw(ex *exercise.Exercise, ctx ScoringContext) float64 {
	if len(ex.PrimaryMuscles) == 0 {
		return 0
	}
	matches := 0
	for _, m := range ex.PrimaryMuscles {
		if state, ok := ctx.MuscleVolume[m]; ok {
			committed := state.CommittedInSession + ctx.CommittedSets[m]
			if state.WeeklyTarget-state.WeeklyActual-committed > 0 {
				matches++
			}
		}
	}
	return float64(matches) / float64(len(ex.PrimaryMuscles))
}

func preferenceRaw(ex *exercise.Exercise) float64 {
	if ex.UserFavorite {
		return 1
	}
	if ex.UserAvoided {
		return -1
	}
	return 0
}

func movementDiversityRaw(ex *exercise.Exercise, ctx ScoringContext) float64 {
	reuse := ctx.PatternUsage[ex.DominantPattern()]
	if reuse == 0 {
		return 1
	}
	return 1.0 / float64(1+reuse)
}

func continuityRaw(ex *exercise.Exercise, role string, ctx ScoringContext) float64 {
	if priorRole, ok := ctx.PriorRoleByExerciseID[ex.ID]; ok && priorRole == role {
		return 1
	}
	return 0
}

func timeFitRaw(ex *exercise.Exercise, ctx ScoringContext) float64 {
	if ctx.RemainingBudgetMinutes <= 0 {
		return 0
	}
	minutes := estimateExerciseMinutes(ex, ctx.AvgSecondsPerSet)
	v := 1 - minutes/ctx.RemainingBudgetMinutes
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

func redundancyRaw(ex *exercise.Exercise, ctx ScoringContext) float64 {
	for _, sel := range ctx.SelectedAccessories {
		if sel.DominantPattern() == ex.DominantPattern() && sameMuscleSet(sel, ex) {
			return 1
		}
	}
	return 0
}

func sameMuscleSet(a, b *exercise.Exercise) bool {
	if len(a.PrimaryMuscles) != len(b.PrimaryMuscles) {
		return false
	}
	bSet := b.PrimarySetOf()
	for _, m := range a.PrimaryMuscles {
		if !bSet[m] {
			return false
		}
	}
	return true
}

// estimateExerciseMinutes approximates an exercise's session-time cost
// from its default set count and per-set seconds, used by timeFitScore
// and the final estimated-minutes check.
func estimateExerciseMinutes(ex *exercise.Exercise, avgSecondsPerSet int) float64 {
	sets := 3
	seconds := avgSecondsPerSet
	if seconds <= 0 {
		seconds = 45
	}
	if ex.TimePerSetSeconds != nil {
		seconds = *ex.TimePerSetSeconds
	}
	return float64(sets*seconds) / 60
}
