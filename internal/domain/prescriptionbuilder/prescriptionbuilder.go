// Package prescriptionbuilder turns a selected exercise plus its block
// context and solved load into warmup + working sets (spec §4.7).
package prescriptionbuilder

import (
	"math"

	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/loadprogression"
	"github.com/trainprog/engine/internal/domain/periodization"
)

// Role is the closed vocabulary for a WorkoutExercise's role.
type Role string

const (
	RoleWarmup    Role = "warmup"
	RoleMain      Role = "main"
	RoleAccessory Role = "accessory"
)

// repRangeTable tabulates the [lo, hi] target rep range by goal × role
// (spec §4.7 "tabulated by goal × role").
var repRangeTable = map[periodization.Goal]map[Role]loadprogression.RepRange{
	periodization.GoalStrength: {
		RoleMain:      {Lo: 3, Hi: 6},
		RoleAccessory: {Lo: 8, Hi: 12},
	},
	periodization.GoalHypertrophy: {
		RoleMain:      {Lo: 6, Hi: 10},
		RoleAccessory: {Lo: 10, Hi: 15},
	},
	periodization.GoalStrengthHypertrophy: {
		RoleMain:      {Lo: 4, Hi: 8},
		RoleAccessory: {Lo: 8, Hi: 12},
	},
	periodization.GoalFatLoss: {
		RoleMain:      {Lo: 8, Hi: 12},
		RoleAccessory: {Lo: 12, Hi: 15},
	},
	periodization.GoalGeneralFitness: {
		RoleMain:      {Lo: 8, Hi: 12},
		RoleAccessory: {Lo: 10, Hi: 15},
	},
}

// RepRangeFor resolves the rep range for a goal × role, falling back to
// general_fitness's table when the goal is unrecognized.
func RepRangeFor(goal periodization.Goal, role Role) loadprogression.RepRange {
	goal = periodization.NormalizeGoal(goal)
	if byRole, ok := repRangeTable[goal]; ok {
		return byRole[role]
	}
	return repRangeTable[periodization.GoalGeneralFitness][role]
}

// baseTargetRPE implements spec §4.7's baseTargetRpe(goal, trainingAge):
// strength, strength_hypertrophy and hypertrophy goals share a base of
// RPE 8.0, fat-loss and general-fitness goals sit further from failure
// at 7.5, and more advanced lifters are asked to train closer to failure.
func baseTargetRPE(goal periodization.Goal, age periodization.TrainingAge) float64 {
	goal = periodization.NormalizeGoal(goal)
	base := 8.0
	switch goal {
	case periodization.GoalStrength, periodization.GoalStrengthHypertrophy:
		base = 8.0
	case periodization.GoalHypertrophy:
		base = 8.0
	case periodization.GoalFatLoss, periodization.GoalGeneralFitness:
		base = 7.5
	}
	switch age {
	case periodization.Beginner:
		base -= 0.5
	case periodization.Advanced:
		base += 0.5
	}
	if base > 10 {
		base = 10
	}
	return base
}

// BaseRPE applies spec §4.7's isolation-accessory bump: +0.5 for
// accessory isolation work under a hypertrophy goal.
func BaseRPE(goal periodization.Goal, age periodization.TrainingAge, role Role, isIsolation bool) float64 {
	base := baseTargetRPE(goal, age)
	if role == RoleAccessory && isIsolation && periodization.NormalizeGoal(goal) == periodization.GoalHypertrophy {
		base += 0.5
	}
	if base > 10 {
		base = 10
	}
	return base
}

const baseSetsDefault = 3

// backOffMultiplier returns back-off sets' fraction of the top-set load,
// spec §4.7 (0.85-0.90).
func backOffMultiplier(goal periodization.Goal) float64 {
	switch periodization.NormalizeGoal(goal) {
	case periodization.GoalStrength:
		return 0.85
	case periodization.GoalHypertrophy:
		return 0.90
	default:
		return 0.875
	}
}

// getRestSeconds implements spec §4.7's base-rest lookup: heavy compound
// low-rep work rests longest, main lifts moderate, compound accessories
// a little less, and isolation work shortest.
func getRestSeconds(ex *exercise.Exercise, isMainLift bool, reps int) int {
	switch {
	case ex.IsCompound && reps <= 6:
		return 180
	case isMainLift:
		return 150
	case ex.IsCompound:
		return 120
	default:
		return 75
	}
}

// WorkoutSet is one prescribed set (spec §3).
type WorkoutSet struct {
	SetIndex    int
	Role        Role
	TargetReps  int
	TargetLoad  *float64
	TargetRPE   *float64
	RestSeconds int
	IsBackOff   bool
}

// WorkoutExercise is one exercise's prescription within the plan (spec
// §3).
type WorkoutExercise struct {
	ExerciseID  string
	OrderIndex  int
	Role        Role
	IsMainLift  bool
	Sets        []WorkoutSet
	WarmupSets  []WorkoutSet
}

// BuildInput carries everything Build needs for one exercise.
type BuildInput struct {
	Exercise      *exercise.Exercise
	OrderIndex    int
	Role          Role
	SolvedLoad    loadprogression.SolveResult
	Goal          periodization.Goal
	TrainingAge   periodization.TrainingAge
	BaseSets      int
	Modifiers     periodization.PrescriptionModifiers
	IsDeload      bool
}

// Build assembles one exercise's warmup + working sets applying block
// modifiers, spec §4.7.
func Build(in BuildInput) WorkoutExercise {
	isIsolation := in.Exercise.HasPattern(exercise.Isolation)
	repRange := RepRangeFor(in.Goal, in.Role)
	baseRPE := BaseRPE(in.Goal, in.TrainingAge, in.Role, isIsolation)
	baseRIR := 10 - baseRPE

	rir := periodization.ClampRIR(baseRIR, in.Modifiers.RIRAdjustment)
	rpe := 10 - rir

	baseSets := in.BaseSets
	if baseSets == 0 {
		baseSets = baseSetsDefault
	}
	sets := int(math.Round(float64(baseSets) * in.Modifiers.VolumeMultiplier))
	if sets < 1 {
		sets = 1
	}

	targetReps := repRange.Lo
	restSeconds := int(math.Round(float64(getRestSeconds(in.Exercise, in.Role == RoleMain, targetReps)) * in.Modifiers.RestMultiplier))

	var topSetLoad *float64
	hasLoad := in.SolvedLoad.Source != loadprogression.SourceBodyweightOnly
	if hasLoad {
		load := in.SolvedLoad.Load * in.Modifiers.IntensityMultiplier
		if in.IsDeload {
			load = in.SolvedLoad.Load * backOffMultiplier(in.Goal) * in.Modifiers.IntensityMultiplier
		}
		load = loadprogression.RoundToHalf(load)
		topSetLoad = &load
	}

	workingSets := make([]WorkoutSet, 0, sets)
	for i := 0; i < sets; i++ {
		ws := WorkoutSet{
			SetIndex:    i,
			Role:        in.Role,
			TargetReps:  targetReps,
			TargetRPE:   floatPtr(rpe),
			RestSeconds: restSeconds,
		}
		if topSetLoad != nil {
			isBackOff := i > 0
			load := *topSetLoad
			if isBackOff {
				load = loadprogression.RoundToHalf(load * backOffMultiplier(in.Goal))
			}
			ws.TargetLoad = &load
			ws.IsBackOff = isBackOff
		}
		workingSets = append(workingSets, ws)
	}

	var warmupSets []WorkoutSet
	if in.Role == RoleMain && topSetLoad != nil {
		warmupSets = BuildWarmupRamp(in.TrainingAge, *topSetLoad)
	}

	return WorkoutExercise{
		ExerciseID: in.Exercise.ID,
		OrderIndex: in.OrderIndex,
		Role:       in.Role,
		IsMainLift: in.Role == RoleMain,
		Sets:       workingSets,
		WarmupSets: warmupSets,
	}
}

func floatPtr(v float64) *float64 { return &v }

// warmupStep describes one ramp step as a fraction of the top-set load,
// a rep target, and a rest period.
type warmupStep struct {
	pctOfTopSet float64
	reps        int
	restSeconds int
}

var beginnerWarmupRamp = []warmupStep{
	{pctOfTopSet: 0.60, reps: 8, restSeconds: 60},
	{pctOfTopSet: 0.80, reps: 3, restSeconds: 90},
}

var advancedWarmupRamp = []warmupStep{
	{pctOfTopSet: 0.50, reps: 8, restSeconds: 60},
	{pctOfTopSet: 0.70, reps: 5, restSeconds: 60},
	{pctOfTopSet: 0.85, reps: 3, restSeconds: 90},
}

// BuildWarmupRamp implements spec §4.7's warmup ramp, only generated for
// loaded main lifts.
func BuildWarmupRamp(age periodization.TrainingAge, topSetLoad float64) []WorkoutSet {
	ramp := advancedWarmupRamp
	if age == periodization.Beginner {
		ramp = beginnerWarmupRamp
	}

	sets := make([]WorkoutSet, 0, len(ramp))
	for i, step := range ramp {
		load := loadprogression.RoundToHalf(topSetLoad * step.pctOfTopSet)
		sets = append(sets, WorkoutSet{
			SetIndex:    i,
			Role:        RoleWarmup,
			TargetReps:  step.reps,
			TargetLoad:  &load,
			RestSeconds: step.restSeconds,
		})
	}
	return sets
}

// EstimatedMinutes sums (timePerSetSec + restSeconds)/60 across all sets,
// using a 45s default rest plus a capped 30s set time for warmup sets
// (spec §4.7).
func EstimatedMinutes(exercises []WorkoutExercise, timePerSetSeconds map[string]int) float64 {
	total := 0.0
	for _, we := range exercises {
		perSet := timePerSetSeconds[we.ExerciseID]
		if perSet <= 0 {
			perSet = 45
		}
		for _, s := range we.Sets {
			total += float64(perSet+s.RestSeconds) / 60
		}
		for range we.WarmupSets {
			warmupSetSeconds := perSet
			if warmupSetSeconds > 30 {
				warmupSetSeconds = 30
			}
			total += float64(warmupSetSeconds+45) / 60
		}
	}
	return total
}
