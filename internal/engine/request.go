package engine

import (
	"time"

	"github.com/trainprog/engine/internal/domain/autoregulator"
	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/historyindex"
	"github.com/trainprog/engine/internal/domain/loadprogression"
	"github.com/trainprog/engine/internal/domain/muscle"
	"github.com/trainprog/engine/internal/domain/periodization"
	"github.com/trainprog/engine/internal/domain/ranker"
	"github.com/trainprog/engine/internal/domain/readiness"
	"github.com/trainprog/engine/internal/validation"
)

// PlanRequest is the full set of external inputs the engine consumes for
// one planning call (spec §6). A request owns nothing persistent; every
// field is a value or a read-only reference the caller retains ownership
// of.
type PlanRequest struct {
	UserID string
	Date   time.Time

	ExerciseLibrary *exercise.Catalog

	// HistoryEntries is the raw workout history sequence; the engine
	// builds a historyindex.Index from it internally.
	HistoryEntries []historyindex.Entry
	HistoryFilter  historyindex.Filter

	// Macro is the MacroCycle hierarchy, either stored or freshly
	// generated by the caller via periodization.GenerateMacroCycle. May
	// be nil, in which case FallbackContext (or TrainingAge/Goal below)
	// is used per spec §7 DateOutOfRange.
	Macro           *periodization.MacroCycle
	FallbackContext *periodization.CycleContextSnapshot

	// TrainingAge and Goal are used when no BlockContext can be
	// resolved from Macro/FallbackContext; when a BlockContext is
	// resolved, the macro's own TrainingAge/PrimaryGoal take
	// precedence.
	TrainingAge periodization.TrainingAge
	Goal        periodization.Goal

	// Readiness is optional; its absence produces a default-moderate
	// fatigue score (spec §7 MissingSignal).
	Readiness      *readiness.Signal
	SignalAgeHours int

	// Selection carries the ranker's own input fields (Mode, Intent,
	// TargetMuscles, PinnedExerciseIDs, SessionMinutes, Constraints,
	// RecentPainMuscles, PriorRoles, AvgSecondsPerSet). The engine fills
	// WeekInBlock, MesocycleLength, TrainingAge, Goals, History,
	// ExerciseLibrary, MuscleVolume, and FatigueState before calling
	// ranker.Rank.
	Selection ranker.SelectionInput

	// WeeklyActual is the caller-tracked sets already logged this week,
	// per muscle, prior to this session.
	WeeklyActual map[muscle.Name]int
	// PreCommittedSets is sets already committed to a muscle earlier in
	// this same session (e.g. a superset logged before planning ran).
	PreCommittedSets map[muscle.Name]int

	// Baselines keys user baselines by (exerciseId, context), per spec
	// §6.
	Baselines map[string]map[loadprogression.BaselineContext]float64
	// DonorCandidates supplies candidate donor exercises per target
	// exercise ID for spec §4.6 step 5.
	DonorCandidates map[string][]loadprogression.DonorCandidate

	Bodyweight    float64
	HasBodyweight bool

	AutoregPolicy autoregulator.Policy

	// BaseSetsPerExercise is the base-set count, before periodization's
	// volume multiplier is applied (spec §4.7), for an exercise the ranker
	// gave no set target; a ranker set target takes precedence. Zero
	// means use the prescription builder's own default.
	BaseSetsPerExercise int

	TimePerSetSeconds map[string]int

	// TrackStallFor lists exercise IDs to run the stall detector
	// against (spec §4.9); history is read from the same HistoryEntries.
	TrackStallFor []string
}

// Validate checks the request against spec §7's InvalidInput category:
// the only fatal conditions are schema-level violations. Everything else
// (missing readiness, no baseline, infeasible selection, date out of
// range) is handled as local recovery inside GeneratePlan.
func (r PlanRequest) Validate() *validation.Result {
	result := validation.NewResult()
	if r.UserID == "" {
		result.AddError(errUserIDRequired)
	}
	if r.ExerciseLibrary == nil {
		result.AddError(errExerciseLibraryRequired)
	}
	if r.Selection.SessionMinutes <= 0 {
		result.AddError(errSessionMinutesRequired)
	}
	if r.Date.IsZero() {
		result.AddError(errDateRequired)
	}
	return result
}
