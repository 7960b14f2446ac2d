// Package engine orchestrates the nine domain components (periodization,
// readiness, ranker, load progression, prescription, autoregulation, and
// stall detection) into the single entry point described in spec §6: a
// pure, synchronous call that turns a day's inputs into a WorkoutPlan plus
// its explainability projections. The engine itself holds no state and
// reads no clock; every timestamp arrives in the request.
package engine

import (
	"time"

	"github.com/trainprog/engine/internal/domain/autoregulator"
	"github.com/trainprog/engine/internal/domain/loadprogression"
	"github.com/trainprog/engine/internal/domain/muscle"
	"github.com/trainprog/engine/internal/domain/periodization"
	"github.com/trainprog/engine/internal/domain/prescriptionbuilder"
	"github.com/trainprog/engine/internal/domain/ranker"
	"github.com/trainprog/engine/internal/domain/readiness"
	"github.com/trainprog/engine/internal/domain/stalldetector"
)

// WorkoutPlan is the top-level planning output (spec §3): warmup, main
// lifts, and accessories as three independent WorkoutExercise lists.
// Warmup is synthesized from each main lift's warmup ramp so the shape
// matches the data model even though prescriptionbuilder keeps a main
// lift's warmup sets attached to the same WorkoutExercise.
type WorkoutPlan struct {
	Warmup           []prescriptionbuilder.WorkoutExercise
	MainLifts        []prescriptionbuilder.WorkoutExercise
	Accessories      []prescriptionbuilder.WorkoutExercise
	EstimatedMinutes float64
}

// SessionContext is a pure projection of the call's resolved periodization
// and readiness state, for explainability (spec §6).
type SessionContext struct {
	UserID        string
	Date          time.Time
	TrainingAge   periodization.TrainingAge
	Goal          periodization.Goal
	Intent        ranker.Intent
	SessionMinutes int
	Block         *periodization.BlockContext
	Fatigue       readiness.Score
}

// ExerciseRationale explains why one candidate was or was not selected.
type ExerciseRationale struct {
	ExerciseID string
	Role       prescriptionbuilder.Role
	Reason     string
}

// PrescriptionRationale explains how one exercise's load/reps/RPE were
// derived.
type PrescriptionRationale struct {
	ExerciseID    string
	LoadSource    loadprogression.Source
	RepRange      loadprogression.RepRange
	TargetRPE     float64
	IsDeload      bool
	ResetReps     bool
	Note          string
}

// Severity is a CoachMessage's severity for UI triage.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityCritical Severity = "critical"
)

// CoachMessage is a human-readable narrative entry surfaced to the athlete
// or coach. Messages carry the spec §7 "local recovery" categories
// (InfeasibleSelection, MissingSignal, NoBaseline, DateOutOfRange) as
// Code, since none of those ever fail the call outright.
type CoachMessage struct {
	Severity Severity
	Code     string
	Message  string
}

// Coach message codes, one per spec §7 non-fatal error category plus the
// autoregulation/stall-detection narrative codes.
const (
	CodeInfeasibleSelection = "infeasible_selection"
	CodeMissingSignal       = "missing_signal"
	CodeNoBaseline          = "no_baseline"
	CodeDateOutOfRange      = "date_out_of_range"
	CodeAutoregulation      = "autoregulation"
	CodeStallIntervention   = "stall_intervention"
)

// FilteredExerciseSummary is a pure projection of ranker.Rejected. ID is a
// stable per-call identifier for the rejection record, so a caller can
// reference one specific filtered-out candidate across a UI session.
type FilteredExerciseSummary struct {
	ID         string
	ExerciseID string
	Reason     string
}

// ModificationRecord pairs one autoregulator modification with a stable
// identifier, so a modification log entry can be referenced or
// acknowledged individually by callers.
type ModificationRecord struct {
	ID           string
	Modification autoregulator.Modification
}

// VolumeCompliance reports one muscle's weekly volume standing after this
// session's contribution is added.
type VolumeCompliance struct {
	Muscle            muscle.Name
	WeeklyTarget      int
	WeeklyActual      int
	CommittedInSession int
	PercentOfTarget   float64
}

// StallStatus pairs a tracked exercise with its stall-detector result.
type StallStatus struct {
	ExerciseID string
	Result     stalldetector.Result
}

// PlanResult bundles WorkoutPlan with every explainability projection
// named in spec §6.
type PlanResult struct {
	Plan                   WorkoutPlan
	Selection              ranker.SelectionResult
	Modifications          []ModificationRecord
	AutoregAction          autoregulator.Action
	Fatigue                readiness.Score
	SessionContext         SessionContext
	ExerciseRationales     []ExerciseRationale
	PrescriptionRationales []PrescriptionRationale
	CoachMessages          []CoachMessage
	FilteredExercises      []FilteredExerciseSummary
	VolumeCompliance       []VolumeCompliance
	StallStatuses          []StallStatus
}
