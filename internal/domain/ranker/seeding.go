package ranker

import (
	"sort"

	"github.com/trainprog/engine/internal/domain/exercise"
)

// requiredPatterns describes the intent-to-required-pattern map (spec
// §4.5 stage 2): each slot lists the alternative patterns that satisfy
// it, in preference order.
var requiredPatterns = map[Intent][][]exercise.Pattern{
	IntentPush:     {{exercise.HorizontalPush}, {exercise.VerticalPush, exercise.Isolation}},
	IntentPull:     {{exercise.HorizontalPull}, {exercise.VerticalPull}},
	IntentLegs:     {{exercise.Squat}, {exercise.Hinge}},
	IntentUpper:    {{exercise.HorizontalPush, exercise.VerticalPush}, {exercise.HorizontalPull, exercise.VerticalPull}},
	IntentLower:    {{exercise.Squat}, {exercise.Hinge}},
	IntentFullBody: {{exercise.HorizontalPush, exercise.VerticalPush}, {exercise.HorizontalPull, exercise.VerticalPull}, {exercise.Squat, exercise.Hinge}},
}

// mainLiftPriority ranks candidates for stage 2 seeding: eligible,
// compound, high-SFR, fatigue-cost-bounded exercises matching the
// intent's dominant pattern first.
func mainLiftPriority(candidates []*exercise.Exercise, slotPatterns []exercise.Pattern) []*exercise.Exercise {
	var eligible []*exercise.Exercise
	for _, ex := range candidates {
		if !ex.IsMainLiftEligible || !ex.IsCompound || ex.FatigueCost > 4 {
			continue
		}
		if !matchesAnyPattern(ex, slotPatterns) {
			continue
		}
		eligible = append(eligible, ex)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].SFR != eligible[j].SFR {
			return eligible[i].SFR > eligible[j].SFR
		}
		if eligible[i].FatigueCost != eligible[j].FatigueCost {
			return eligible[i].FatigueCost < eligible[j].FatigueCost
		}
		return eligible[i].Name < eligible[j].Name
	})
	return eligible
}

func matchesAnyPattern(ex *exercise.Exercise, patterns []exercise.Pattern) bool {
	for _, p := range patterns {
		if ex.HasPattern(p) {
			return true
		}
	}
	return false
}

// SeedMainLifts picks up to two main lifts satisfying the intent's
// required-pattern slots (spec §4.5 stage 2). Pinned exercises are
// honored first when they satisfy a slot.
func SeedMainLifts(candidates []*exercise.Exercise, intent Intent, pinnedIDs []string) []*exercise.Exercise {
	slots := requiredPatterns[intent]
	pinned := make(map[string]bool, len(pinnedIDs))
	for _, id := range pinnedIDs {
		pinned[id] = true
	}

	var mains []*exercise.Exercise
	used := make(map[string]bool)

	for _, slotPatterns := range slots {
		if len(mains) >= 2 {
			break
		}
		ranked := mainLiftPriority(candidates, slotPatterns)

		var chosen *exercise.Exercise
		for _, ex := range ranked {
			if used[ex.ID] {
				continue
			}
			if pinned[ex.ID] {
				chosen = ex
				break
			}
		}
		if chosen == nil {
			for _, ex := range ranked {
				if !used[ex.ID] {
					chosen = ex
					break
				}
			}
		}
		if chosen != nil {
			mains = append(mains, chosen)
			used[chosen.ID] = true
		}
	}

	return mains
}
