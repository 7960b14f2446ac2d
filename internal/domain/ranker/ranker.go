package ranker

import (
	"sort"

	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/muscle"
)

// mainLiftAvgMinutes approximates a main lift's session-time cost for
// budgeting the accessory slot count.
const mainLiftAvgMinutes = 12.0

// Rank runs the full four-stage selection pipeline (spec §4.5) and
// returns a SelectionResult. It never fails outright: an infeasible
// selection yields a partial plan plus a rejected[] coverage-gap report
// (spec §7 InfeasibleSelection).
func Rank(in SelectionInput) SelectionResult {
	survivors, rejectedMains := applyHardFilters(in, nil)

	mains := SeedMainLifts(survivors, in.Intent, in.PinnedExerciseIDs)
	mainIDs := make(map[string]bool, len(mains))
	for _, m := range mains {
		mainIDs[m.ID] = true
	}

	accessoryCandidates, rejectedAccessories := applyHardFilters(in, mainIDs)

	usedMinutes := float64(len(mains)) * mainLiftAvgMinutes
	remainingBudget := float64(in.SessionMinutes) - usedMinutes
	if remainingBudget < 0 {
		remainingBudget = 0
	}

	slotCount := accessorySlotCount(in, len(mains))

	baseCtx := ScoringContext{
		MuscleVolume:          in.MuscleVolume,
		CommittedSets:         initialCommittedSets(mains),
		PatternUsage:          initialPatternUsage(mains),
		RecentlyUsedIDs:       recentlyUsedSet(in),
		PriorRoleByExerciseID: priorRoleMap(in.PriorRoles),
		Readiness:             in.FatigueState.Overall,
		AvgSecondsPerSet:      in.AvgSecondsPerSet,
	}

	accessories := RunBeamSearch(accessoryCandidates, slotCount, DefaultBeamWidth, remainingBudget, baseCtx)
	accessories = enforceSessionBounds(accessories, len(mains))

	selected := append(append([]*exercise.Exercise{}, mains...), accessories...)

	setTargets := buildSetTargets(selected, in.MuscleVolume)
	volumeContribution := buildVolumeContribution(selected, setTargets)

	var rejected []HardFilterFailureReason
	rejected = append(rejected, rejectedMains...)
	rejected = append(rejected, rejectedAccessories...)

	return SelectionResult{
		SelectedExerciseIDs:   exerciseIDs(selected),
		MainLiftIDs:           exerciseIDs(mains),
		AccessoryIDs:          exerciseIDs(accessories),
		PerExerciseSetTargets: setTargets,
		Rejected:              rejected,
		VolumeContribution:    volumeContribution,
	}
}

// accessorySlotCount derives a target accessory count from remaining
// session minutes, clamped so the overall session stays within [3, 7]
// total exercises (spec §4.5 stage 4).
func accessorySlotCount(in SelectionInput, mainCount int) int {
	target := 4
	if in.SessionMinutes > 0 {
		remaining := float64(in.SessionMinutes) - float64(mainCount)*mainLiftAvgMinutes
		target = int(remaining) / 12
	}
	if target < 1 {
		target = 1
	}
	maxAccessories := MaxTotalExercises - mainCount
	minAccessories := MinTotalExercises - mainCount
	if target > maxAccessories {
		target = maxAccessories
	}
	if target < minAccessories {
		target = minAccessories
	}
	if target < 0 {
		target = 0
	}
	return target
}

func enforceSessionBounds(accessories []*exercise.Exercise, mainCount int) []*exercise.Exercise {
	max := MaxTotalExercises - mainCount
	if max < 0 {
		max = 0
	}
	if len(accessories) > max {
		accessories = accessories[:max]
	}
	return accessories
}

func initialCommittedSets(mains []*exercise.Exercise) map[muscle.Name]int {
	out := make(map[muscle.Name]int)
	for _, ex := range mains {
		for _, m := range ex.PrimaryMuscles {
			out[m] += 4
		}
	}
	return out
}

func initialPatternUsage(mains []*exercise.Exercise) map[exercise.Pattern]int {
	out := make(map[exercise.Pattern]int)
	for _, ex := range mains {
		out[ex.DominantPattern()]++
	}
	return out
}

func recentlyUsedSet(in SelectionInput) map[string]bool {
	out := make(map[string]bool)
	if in.History == nil {
		return out
	}
	for _, ex := range in.ExerciseLibrary.All() {
		sessions := in.History.Sessions(ex.ID)
		if len(sessions) == 0 {
			continue
		}
		out[ex.ID] = true
	}
	return out
}

func priorRoleMap(pins []RolePin) map[string]string {
	out := make(map[string]string, len(pins))
	for _, p := range pins {
		out[p.ExerciseID] = p.Role
	}
	return out
}

func buildSetTargets(selected []*exercise.Exercise, muscleVolume map[muscle.Name]MuscleVolumeState) []SetTarget {
	dominantFor := dominantContributorPerMuscle(selected)
	var out []SetTarget
	for _, ex := range selected {
		sets := 0
		count := 0
		for _, m := range ex.PrimaryMuscles {
			state, ok := muscleVolume[m]
			if !ok {
				continue
			}
			isDominant := dominantFor[m] == ex.ID
			sets += TargetSetsForMuscle(state, isDominant)
			count++
		}
		if count > 1 {
			sets = sets / count
		}
		if sets < 2 {
			sets = 2
		}
		out = append(out, SetTarget{ExerciseID: ex.ID, Sets: sets})
	}
	return out
}

// dominantContributorPerMuscle picks, for each muscle, the first
// selected exercise (in selection order) that trains it as primary — the
// "dominant contributor" for that muscle this session (spec §4.5 stage
// 3).
func dominantContributorPerMuscle(selected []*exercise.Exercise) map[muscle.Name]string {
	out := make(map[muscle.Name]string)
	for _, ex := range selected {
		for _, m := range ex.PrimaryMuscles {
			if _, ok := out[m]; !ok {
				out[m] = ex.ID
			}
		}
	}
	return out
}

func buildVolumeContribution(selected []*exercise.Exercise, targets []SetTarget) []VolumeContribution {
	setsByID := make(map[string]int, len(targets))
	for _, t := range targets {
		setsByID[t.ExerciseID] = t.Sets
	}
	var out []VolumeContribution
	for _, ex := range selected {
		sets := setsByID[ex.ID]
		for _, m := range ex.PrimaryMuscles {
			out = append(out, VolumeContribution{ExerciseID: ex.ID, Muscle: m, Sets: sets})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ExerciseID != out[j].ExerciseID {
			return out[i].ExerciseID < out[j].ExerciseID
		}
		return out[i].Muscle < out[j].Muscle
	})
	return out
}

func exerciseIDs(exs []*exercise.Exercise) []string {
	out := make([]string, 0, len(exs))
	for _, ex := range exs {
		out = append(out, ex.ID)
	}
	return out
}
