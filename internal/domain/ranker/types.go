// Package ranker selects and orders the exercises for a single session:
// hard-filtering candidates, seeding main lifts, assigning per-exercise
// set targets, and running a beam search over accessory slots (spec
// §4.5). It is the largest component of the engine core.
package ranker

import (
	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/historyindex"
	"github.com/trainprog/engine/internal/domain/muscle"
)

// Mode is the session-selection mode.
type Mode string

const (
	ModeIntent    Mode = "intent"
	ModeBodyPart  Mode = "body_part"
	ModeTemplate  Mode = "template"
)

// Intent is the closed vocabulary of session intents.
type Intent string

const (
	IntentPush     Intent = "push"
	IntentPull     Intent = "pull"
	IntentLegs     Intent = "legs"
	IntentUpper    Intent = "upper"
	IntentLower    Intent = "lower"
	IntentFullBody Intent = "full_body"
)

// Constraints restricts candidates by the caller's environment.
type Constraints struct {
	AvailableEquipment map[exercise.Equipment]bool
	DaysPerWeek        int
}

// MuscleVolumeState is the caller-supplied rolling weekly-volume state
// for one muscle, used to compute set-count targets and deficit scores.
type MuscleVolumeState struct {
	WeeklyTarget      int
	WeeklyActual      int
	SessionsPerWeek   int
	CommittedInSession int
}

// FatigueState is the subset of the readiness score the ranker consumes.
type FatigueState struct {
	Overall float64
}

// RolePin records a prior mesocycle's role for an exercise, used by the
// continuity score.
type RolePin struct {
	ExerciseID string
	Role       string
}

// SelectionInput is the full ranker input (spec §4.5).
type SelectionInput struct {
	Mode               Mode
	Intent             Intent
	TargetMuscles       []muscle.Name
	PinnedExerciseIDs  []string
	WeekInBlock        int
	MesocycleLength    int
	SessionMinutes     int
	TrainingAge        string
	Goals              []string
	Constraints        Constraints
	FatigueState       FatigueState
	History            *historyindex.Index
	ExerciseLibrary    *exercise.Catalog
	MuscleVolume       map[muscle.Name]MuscleVolumeState
	RecentPainMuscles  map[muscle.Name]bool
	PriorRoles         []RolePin
	AvgSecondsPerSet   int
}

// HardFilterFailureReason diagnoses why a candidate did not survive
// stage 1.
type HardFilterFailureReason struct {
	ExerciseID string
	Reason     string
}

// SetTarget is a per-exercise set-count target from stage 3.
type SetTarget struct {
	ExerciseID string
	Sets       int
}

// VolumeContribution records an exercise's contribution toward its
// primary muscles' weekly targets.
type VolumeContribution struct {
	ExerciseID string
	Muscle     muscle.Name
	Sets       int
}

// SelectionResult is the ranker's output (spec §4.5).
type SelectionResult struct {
	SelectedExerciseIDs []string
	MainLiftIDs         []string
	AccessoryIDs        []string
	PerExerciseSetTargets []SetTarget
	Rejected            []HardFilterFailureReason
	VolumeContribution  []VolumeContribution
}
