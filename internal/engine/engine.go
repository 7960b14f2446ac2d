package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	domainerrors "github.com/trainprog/engine/internal/errors"

	"github.com/trainprog/engine/internal/domain/autoregulator"
	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/historyindex"
	"github.com/trainprog/engine/internal/domain/loadprogression"
	"github.com/trainprog/engine/internal/domain/muscle"
	"github.com/trainprog/engine/internal/domain/periodization"
	"github.com/trainprog/engine/internal/domain/prescriptionbuilder"
	"github.com/trainprog/engine/internal/domain/ranker"
	"github.com/trainprog/engine/internal/domain/readiness"
	"github.com/trainprog/engine/internal/domain/stalldetector"
)

// Fatal InvalidInput errors (spec §7): schema-level violations on the
// request itself, checked before any domain component runs.
var (
	errUserIDRequired          = errors.New("engine: user id is required")
	errExerciseLibraryRequired = errors.New("engine: exercise library is required")
	errSessionMinutesRequired  = errors.New("engine: session minutes must be > 0")
	errDateRequired            = errors.New("engine: planning date is required")
)

// defaultMesocycleLength is used for volume-target ramps when no
// BlockContext could be resolved at all (no macro, no fallback).
const defaultMesocycleLength = 4

// idNamespace anchors the deterministic record IDs minted below.
// GeneratePlan must stay a pure function of its input (spec §5), so
// record IDs are content-derived UUIDv5s rather than uuid.New()'s
// random UUIDv4s: the same request always mints the same IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("trainprog.engine"))

func recordID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "|"))).String()
}

// GeneratePlan runs the full pipeline described in spec §6: periodization
// context resolution, fatigue scoring, exercise ranking, load
// progression, prescription building, autoregulation, and stall
// detection. It returns an error only for spec §7's InvalidInput
// category; every other edge case degrades to a well-formed plan plus a
// CoachMessage diagnosing the gap.
func GeneratePlan(req PlanRequest) (*PlanResult, error) {
	if result := req.Validate(); !result.Valid {
		return nil, domainerrors.Wrap(domainerrors.NewValidationMsg(result.Error().Error()), "invalid plan request")
	}

	history, err := historyindex.Build(req.HistoryEntries, req.HistoryFilter)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.NewValidationMsg(err.Error()), "malformed workout history")
	}

	var messages []CoachMessage

	blockCtx, age, goal := resolveBlockContext(req, &messages)

	fatigue := readiness.Compute(req.Readiness, req.SignalAgeHours)
	if req.Readiness == nil {
		messages = append(messages, CoachMessage{
			Severity: SeverityInfo,
			Code:     CodeMissingSignal,
			Message:  "no readiness signal available; autoregulation defaults to maintain",
		})
	}

	weekInMeso, mesoLength, isDeload := 1, defaultMesocycleLength, false
	if blockCtx != nil {
		weekInMeso, mesoLength = blockCtx.WeekInMeso, blockCtx.Mesocycle.DurationWeeks
		isDeload = blockCtx.Block.BlockType == periodization.Deload
	}

	selection := req.Selection
	selection.History = history
	selection.ExerciseLibrary = req.ExerciseLibrary
	selection.TrainingAge = string(age)
	selection.Goals = []string{string(goal)}
	selection.FatigueState = ranker.FatigueState{Overall: fatigue.Overall}
	if blockCtx != nil {
		selection.WeekInBlock = blockCtx.WeekInBlock
		selection.MesocycleLength = mesoLength
	}
	selection.MuscleVolume = buildMuscleVolume(req, selection, weekInMeso, mesoLength, isDeload)

	result := ranker.Rank(selection)
	if len(result.SelectedExerciseIDs) == 0 {
		messages = append(messages, CoachMessage{
			Severity: SeverityWarning,
			Code:     CodeInfeasibleSelection,
			Message:  "no candidate survived hard filters; plan is empty",
		})
	} else if len(result.Rejected) > 0 {
		messages = append(messages, CoachMessage{
			Severity: SeverityInfo,
			Code:     CodeInfeasibleSelection,
			Message:  fmt.Sprintf("%d candidate(s) rejected during filtering", len(result.Rejected)),
		})
	}

	setTargets := make(map[string]int, len(result.PerExerciseSetTargets))
	for _, t := range result.PerExerciseSetTargets {
		setTargets[t.ExerciseID] = t.Sets
	}

	mods := periodization.GetPeriodizationModifiers(blockModifierInput(blockCtx), blockModifierWeek(blockCtx))

	var mainLifts, accessories, warmup []prescriptionbuilder.WorkoutExercise
	var exerciseRationales []ExerciseRationale
	var prescriptionRationales []PrescriptionRationale

	order := 0
	for _, role := range []struct {
		ids  []string
		role prescriptionbuilder.Role
	}{
		{result.MainLiftIDs, prescriptionbuilder.RoleMain},
		{result.AccessoryIDs, prescriptionbuilder.RoleAccessory},
	} {
		for _, id := range role.ids {
			ex := req.ExerciseLibrary.Get(id)
			if ex == nil {
				continue
			}

			solved, baselineMissing := solveLoad(req, ex, history, selection, result.MainLiftIDs, age, goal, weekInMeso, mesoLength, isDeload)
			if baselineMissing {
				messages = append(messages, CoachMessage{
					Severity: SeverityInfo,
					Code:     CodeNoBaseline,
					Message:  fmt.Sprintf("%s: no history or baseline; load estimated", id),
				})
			}

			built := prescriptionbuilder.Build(prescriptionbuilder.BuildInput{
				Exercise:    ex,
				OrderIndex:  order,
				Role:        role.role,
				SolvedLoad:  solved,
				Goal:        goal,
				TrainingAge: age,
				BaseSets:    resolveBaseSets(req, setTargets[id]),
				Modifiers:   mods,
				IsDeload:    isDeload,
			})
			order++

			if role.role == prescriptionbuilder.RoleMain && len(built.WarmupSets) > 0 {
				warmup = append(warmup, prescriptionbuilder.WorkoutExercise{
					ExerciseID: ex.ID,
					OrderIndex: built.OrderIndex,
					Role:       prescriptionbuilder.RoleWarmup,
					Sets:       built.WarmupSets,
				})
			}
			if role.role == prescriptionbuilder.RoleMain {
				mainLifts = append(mainLifts, built)
			} else {
				accessories = append(accessories, built)
			}

			prescriptionRationales = append(prescriptionRationales, PrescriptionRationale{
				ExerciseID: ex.ID,
				LoadSource: solved.Source,
				RepRange:   prescriptionbuilder.RepRangeFor(goal, role.role),
				TargetRPE:  prescriptionbuilder.BaseRPE(goal, age, role.role, ex.HasPattern(exercise.Isolation)),
				IsDeload:   isDeload,
				ResetReps:  solved.ResetReps,
			})
		}
	}

	exerciseRationales = buildExerciseRationales(result)

	estimatedMinutes := prescriptionbuilder.EstimatedMinutes(append(append([]prescriptionbuilder.WorkoutExercise{}, mainLifts...), accessories...), req.TimePerSetSeconds)

	action := autoregulator.SelectAction(fatigue.Overall, req.AutoregPolicy)
	workingSets := toWorkingSets(mainLifts, accessories)
	rawModifications := autoregulator.Apply(action, workingSets)
	applyWorkingSetsBack(workingSets, mainLifts, accessories)
	modifications := make([]ModificationRecord, 0, len(rawModifications))
	for i, m := range rawModifications {
		id := recordID(req.UserID, req.Date.Format("2006-01-02"), m.ExerciseID, m.Field, fmt.Sprint(i))
		modifications = append(modifications, ModificationRecord{ID: id, Modification: m})
	}
	if action == autoregulator.ActionTriggerDeload {
		messages = append(messages, CoachMessage{
			Severity: SeverityCritical,
			Code:     CodeAutoregulation,
			Message:  autoregulator.DeloadNotePrefix + " critical fatigue detected; volume and load reduced",
		})
	} else if len(modifications) > 0 {
		messages = append(messages, CoachMessage{
			Severity: SeverityWarning,
			Code:     CodeAutoregulation,
			Message:  fmt.Sprintf("autoregulation applied: %s (%d change(s))", action, len(modifications)),
		})
	}

	stallStatuses := evaluateStalls(req, history)
	for _, s := range stallStatuses {
		if s.Result.Intervention != stalldetector.InterventionNone {
			messages = append(messages, CoachMessage{
				Severity: SeverityWarning,
				Code:     CodeStallIntervention,
				Message:  fmt.Sprintf("%s: stalled for %.1f weeks, intervention=%s", s.ExerciseID, s.Result.WeeksWithoutProgress, s.Result.Intervention),
			})
		}
	}

	var filtered []FilteredExerciseSummary
	for i, r := range result.Rejected {
		id := recordID(req.UserID, req.Date.Format("2006-01-02"), r.ExerciseID, fmt.Sprint(i))
		filtered = append(filtered, FilteredExerciseSummary{ID: id, ExerciseID: r.ExerciseID, Reason: r.Reason})
	}

	volumeCompliance := buildVolumeCompliance(selection.MuscleVolume, result)

	return &PlanResult{
		Plan: WorkoutPlan{
			Warmup:           warmup,
			MainLifts:        mainLifts,
			Accessories:      accessories,
			EstimatedMinutes: estimatedMinutes,
		},
		Selection:     result,
		Modifications: modifications,
		AutoregAction: action,
		Fatigue:       fatigue,
		SessionContext: SessionContext{
			UserID:         req.UserID,
			Date:           req.Date,
			TrainingAge:    age,
			Goal:           goal,
			Intent:         selection.Intent,
			SessionMinutes: selection.SessionMinutes,
			Block:          blockCtx,
			Fatigue:        fatigue,
		},
		ExerciseRationales:     exerciseRationales,
		PrescriptionRationales: prescriptionRationales,
		CoachMessages:          messages,
		FilteredExercises:      filtered,
		VolumeCompliance:       volumeCompliance,
		StallStatuses:          stallStatuses,
	}, nil
}

// resolveBlockContext implements spec §7 DateOutOfRange local recovery:
// a macro that doesn't cover the date, or no macro at all, falls back to
// a caller-supplied snapshot or the request's bare TrainingAge/Goal.
func resolveBlockContext(req PlanRequest, messages *[]CoachMessage) (*periodization.BlockContext, periodization.TrainingAge, periodization.Goal) {
	if req.Macro != nil {
		if ctx, ok := periodization.DeriveBlockContext(req.Macro, req.Date); ok {
			return ctx, req.Macro.TrainingAge, req.Macro.PrimaryGoal
		}
		*messages = append(*messages, CoachMessage{
			Severity: SeverityWarning,
			Code:     CodeDateOutOfRange,
			Message:  "planning date falls outside the macrocycle; using fallback context",
		})
	}
	if req.FallbackContext != nil {
		return periodization.FromFallback(*req.FallbackContext), req.TrainingAge, req.Goal
	}
	if req.Macro != nil {
		*messages = append(*messages, CoachMessage{
			Severity: SeverityWarning,
			Code:     CodeDateOutOfRange,
			Message:  "no fallback context supplied; proceeding with default volume ramp",
		})
		return nil, req.Macro.TrainingAge, req.Macro.PrimaryGoal
	}
	return nil, req.TrainingAge, req.Goal
}

func blockModifierInput(ctx *periodization.BlockContext) periodization.TrainingBlock {
	if ctx == nil {
		return periodization.TrainingBlock{BlockType: periodization.Accumulation, DurationWeeks: defaultMesocycleLength - 1}
	}
	return ctx.Block
}

func blockModifierWeek(ctx *periodization.BlockContext) int {
	if ctx == nil {
		return 1
	}
	return ctx.WeekInBlock
}

func resolveBaseSets(req PlanRequest, targetSets int) int {
	if targetSets > 0 {
		return targetSets
	}
	return req.BaseSetsPerExercise
}

func buildMuscleVolume(req PlanRequest, selection ranker.SelectionInput, weekInMeso, mesoLength int, isDeload bool) map[muscle.Name]ranker.MuscleVolumeState {
	names := selection.TargetMuscles
	if len(names) == 0 {
		names = muscle.All()
	}
	sessionsPerWeek := selection.Constraints.DaysPerWeek
	if sessionsPerWeek < 1 {
		sessionsPerWeek = 3
	}

	out := make(map[muscle.Name]ranker.MuscleVolumeState, len(names))
	for _, n := range names {
		target, err := muscle.WeeklyTarget(n, weekInMeso, mesoLength, isDeload)
		if err != nil {
			continue
		}
		out[n] = ranker.MuscleVolumeState{
			WeeklyTarget:       target,
			WeeklyActual:       req.WeeklyActual[n],
			SessionsPerWeek:    sessionsPerWeek,
			CommittedInSession: req.PreCommittedSets[n],
		}
	}
	return out
}

func solveLoad(req PlanRequest, ex *exercise.Exercise, history *historyindex.Index, selection ranker.SelectionInput, mainLiftIDs []string, age periodization.TrainingAge, goal periodization.Goal, weekInMeso, mesoLength int, isDeload bool) (loadprogression.SolveResult, bool) {
	role := roleFor(ex, mainLiftIDs)
	repRange := prescriptionbuilder.RepRangeFor(goal, role)
	rpe := prescriptionbuilder.BaseRPE(goal, age, role, ex.HasPattern(exercise.Isolation))

	sessions := history.Sessions(ex.ID)
	baselines := req.Baselines[ex.ID]
	donors := req.DonorCandidates[ex.ID]

	result := loadprogression.Solve(loadprogression.SolveInput{
		Target:             ex,
		Sessions:           sessions,
		RepRange:           repRange,
		TargetRPE:          rpe,
		RIRAdjustment:      0,
		TrainingAge:        age,
		Goal:               goal,
		WeekInBlock:        selection.WeekInBlock,
		BlockDurationWeeks: mesoLength,
		IsDeload:           isDeload,
		Baselines:          baselines,
		Bodyweight:         req.Bodyweight,
		HasBodyweight:      req.HasBodyweight,
		DonorCandidates:    donors,
	})

	baselineMissing := result.Source == loadprogression.SourceDonor || result.Source == loadprogression.SourceHeuristic
	return result, baselineMissing
}

// roleFor classifies an exercise as main or accessory using the ranker's
// own resolved MainLiftIDs (spec §4.5 seeding), the same source the
// build loop above uses to split mainLifts/accessories. Using anything
// narrower here (e.g. just the caller's pinned IDs) would solve a
// seeded-but-unpinned main lift with the accessory rep range and RPE
// while still building it as a main lift.
func roleFor(ex *exercise.Exercise, mainLiftIDs []string) prescriptionbuilder.Role {
	for _, id := range mainLiftIDs {
		if id == ex.ID {
			return prescriptionbuilder.RoleMain
		}
	}
	return prescriptionbuilder.RoleAccessory
}

func buildExerciseRationales(result ranker.SelectionResult) []ExerciseRationale {
	out := make([]ExerciseRationale, 0, len(result.SelectedExerciseIDs))
	mainSet := make(map[string]bool, len(result.MainLiftIDs))
	for _, id := range result.MainLiftIDs {
		mainSet[id] = true
	}
	for _, id := range result.SelectedExerciseIDs {
		role := prescriptionbuilder.RoleAccessory
		reason := "selected by beam search accessory scoring"
		if mainSet[id] {
			role = prescriptionbuilder.RoleMain
			reason = "seeded as a main lift for the session's intent"
		}
		out = append(out, ExerciseRationale{ExerciseID: id, Role: role, Reason: reason})
	}
	return out
}

func toWorkingSets(mainLifts, accessories []prescriptionbuilder.WorkoutExercise) []*autoregulator.WorkingSet {
	var out []*autoregulator.WorkingSet
	for _, we := range mainLifts {
		out = append(out, workingSetFromExercise(we, true))
	}
	for _, we := range accessories {
		out = append(out, workingSetFromExercise(we, false))
	}
	return out
}

func workingSetFromExercise(we prescriptionbuilder.WorkoutExercise, isMain bool) *autoregulator.WorkingSet {
	ws := &autoregulator.WorkingSet{ExerciseID: we.ExerciseID, IsMainLift: isMain, Sets: len(we.Sets)}
	if len(we.Sets) > 0 {
		ws.Load = we.Sets[0].TargetLoad
		ws.RPE = we.Sets[0].TargetRPE
	}
	return ws
}

// applyWorkingSetsBack writes autoregulator-adjusted set counts back onto
// the WorkoutExercise slices in place (the autoregulator only tracks a
// summary Sets count and the top-set load/rpe, not the full per-set
// breakdown).
func applyWorkingSetsBack(sets []*autoregulator.WorkingSet, mainLifts, accessories []prescriptionbuilder.WorkoutExercise) {
	byID := make(map[string]*autoregulator.WorkingSet, len(sets))
	for _, s := range sets {
		byID[s.ExerciseID] = s
	}
	applyTo := func(list []prescriptionbuilder.WorkoutExercise) {
		for i := range list {
			adj, ok := byID[list[i].ExerciseID]
			if !ok {
				continue
			}
			resizeSets(&list[i], adj)
		}
	}
	applyTo(mainLifts)
	applyTo(accessories)
}

func resizeSets(we *prescriptionbuilder.WorkoutExercise, adj *autoregulator.WorkingSet) {
	if adj.Sets == len(we.Sets) {
		rewriteLoadRPE(we, adj)
		return
	}
	if adj.Sets < len(we.Sets) {
		we.Sets = we.Sets[:adj.Sets]
	}
	rewriteLoadRPE(we, adj)
}

func rewriteLoadRPE(we *prescriptionbuilder.WorkoutExercise, adj *autoregulator.WorkingSet) {
	for i := range we.Sets {
		if adj.Load != nil {
			load := *adj.Load
			we.Sets[i].TargetLoad = &load
		}
		if adj.RPE != nil {
			rpe := *adj.RPE
			we.Sets[i].TargetRPE = &rpe
		}
	}
}

func evaluateStalls(req PlanRequest, history *historyindex.Index) []StallStatus {
	out := make([]StallStatus, 0, len(req.TrackStallFor))
	for _, id := range req.TrackStallFor {
		sessions := history.Sessions(id)
		perf := make([]stalldetector.SessionPerformance, 0, len(sessions))
		for _, s := range sessions {
			sets := make([]stalldetector.PerformedSet, 0, len(s.Sets))
			for _, set := range s.Sets {
				if set.WasSkipped || set.Load == nil {
					continue
				}
				sets = append(sets, stalldetector.PerformedSet{Load: *set.Load, Reps: set.Reps})
			}
			if len(sets) == 0 {
				continue
			}
			perf = append(perf, stalldetector.SessionPerformance{Date: s.Date, Sets: sets})
		}
		out = append(out, StallStatus{ExerciseID: id, Result: stalldetector.Detect(perf)})
	}
	return out
}

func buildVolumeCompliance(volumes map[muscle.Name]ranker.MuscleVolumeState, result ranker.SelectionResult) []VolumeCompliance {
	committed := make(map[muscle.Name]int)
	for _, vc := range result.VolumeContribution {
		committed[vc.Muscle] += vc.Sets
	}

	names := make([]muscle.Name, 0, len(volumes))
	for n := range volumes {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	out := make([]VolumeCompliance, 0, len(names))
	for _, n := range names {
		state := volumes[n]
		pct := 0.0
		if state.WeeklyTarget > 0 {
			pct = float64(state.WeeklyActual+committed[n]) / float64(state.WeeklyTarget)
		}
		out = append(out, VolumeCompliance{
			Muscle:             n,
			WeeklyTarget:       state.WeeklyTarget,
			WeeklyActual:       state.WeeklyActual,
			CommittedInSession: committed[n],
			PercentOfTarget:    pct,
		})
	}
	return out
}
