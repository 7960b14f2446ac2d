package ranker

import (
	"math"
	"sort"

	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/muscle"
)

// DefaultBeamWidth is the number of survivor paths carried forward from
// each accessory slot (spec §4.5 stage 4).
const DefaultBeamWidth = 3

// MaxTotalExercises and MinTotalExercises bound the final session size
// (spec §4.5 stage 4).
const (
	MinTotalExercises = 3
	MaxTotalExercises = 7
)

// timeboxEpsilonMinutes is the small overrun tolerance on sessionMinutes
// (spec §4.5 stage 4 "ε").
const timeboxEpsilonMinutes = 2.0

// beamPath is one candidate accessory sequence carried through the beam
// search, together with the running state needed to score the next
// slot.
type beamPath struct {
	accessories []*exercise.Exercise
	score       float64
	usedMinutes float64
}

func (p beamPath) clone() beamPath {
	out := beamPath{score: p.score, usedMinutes: p.usedMinutes}
	out.accessories = append(out.accessories, p.accessories...)
	return out
}

// RunBeamSearch implements spec §4.5 stage 4: it expands accessory slots
// one at a time, keeping the top beamWidth partial sequences by
// cumulative weighted score, and returns the highest-scoring sequence.
// Every path holds at most slotCount accessories and stays within
// remainingMinutesBudget plus timeboxEpsilonMinutes; when no candidate
// fits a slot the search stops there, so the result can be shorter than
// slotCount. The session's lower size bound is not enforced here.
func RunBeamSearch(candidates []*exercise.Exercise, slotCount int, beamWidth int, remainingMinutesBudget float64, baseCtx ScoringContext) []*exercise.Exercise {
	if beamWidth < 1 {
		beamWidth = DefaultBeamWidth
	}

	beams := []beamPath{{}}

	for slot := 0; slot < slotCount; slot++ {
		var expanded []beamPath

		for _, path := range beams {
			ctx := ctxForPath(baseCtx, path)
			scored := scoreRemaining(candidates, path, ctx)

			took := 0
			for _, sc := range scored {
				if took >= beamWidth {
					break
				}
				ex := sc.exercise
				minutes := estimateExerciseMinutes(ex, baseCtx.AvgSecondsPerSet)
				if path.usedMinutes+minutes > remainingMinutesBudget+timeboxEpsilonMinutes {
					continue
				}
				next := path.clone()
				next.accessories = append(next.accessories, ex)
				next.score += sc.breakdown.Total
				next.usedMinutes += minutes
				expanded = append(expanded, next)
				took++
			}
		}

		if len(expanded) == 0 {
			break
		}

		sort.SliceStable(expanded, func(i, j int) bool {
			return roundScore(expanded[i].score) > roundScore(expanded[j].score)
		})
		if len(expanded) > beamWidth {
			expanded = expanded[:beamWidth]
		}
		beams = expanded
	}

	if len(beams) == 0 {
		return nil
	}
	sort.SliceStable(beams, func(i, j int) bool {
		return roundScore(beams[i].score) > roundScore(beams[j].score)
	})
	return beams[0].accessories
}

type scoredCandidate struct {
	exercise  *exercise.Exercise
	breakdown ScoreBreakdown
}

func scoreRemaining(candidates []*exercise.Exercise, path beamPath, ctx ScoringContext) []scoredCandidate {
	selected := make(map[string]bool, len(path.accessories))
	for _, ex := range path.accessories {
		selected[ex.ID] = true
	}

	var out []scoredCandidate
	for _, ex := range candidates {
		if selected[ex.ID] {
			continue
		}
		if violatesRedundancy(ex, ctx) {
			continue
		}
		b := ScoreCandidate(ex, "accessory", ctx)
		out = append(out, scoredCandidate{exercise: ex, breakdown: b})
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := roundScore(out[i].breakdown.Total), roundScore(out[j].breakdown.Total)
		if si != sj {
			return si > sj
		}
		if out[i].exercise.SFR != out[j].exercise.SFR {
			return out[i].exercise.SFR > out[j].exercise.SFR
		}
		if out[i].exercise.FatigueCost != out[j].exercise.FatigueCost {
			return out[i].exercise.FatigueCost < out[j].exercise.FatigueCost
		}
		return out[i].exercise.Name < out[j].exercise.Name
	})
	return out
}

func violatesRedundancy(ex *exercise.Exercise, ctx ScoringContext) bool {
	for _, sel := range ctx.SelectedAccessories {
		if sel.DominantPattern() == ex.DominantPattern() && sameMuscleSet(sel, ex) {
			return true
		}
	}
	return false
}

// ctxForPath extends the base scoring context with the committed state
// from a partial beam path (selected accessories, pattern usage, set
// commitments).
func ctxForPath(base ScoringContext, path beamPath) ScoringContext {
	ctx := base
	ctx.SelectedAccessories = append([]*exercise.Exercise{}, base.SelectedAccessories...)
	ctx.SelectedAccessories = append(ctx.SelectedAccessories, path.accessories...)

	ctx.PatternUsage = copyPatternUsage(base.PatternUsage)
	ctx.CommittedSets = copyCommittedSets(base.CommittedSets)
	for _, ex := range path.accessories {
		ctx.PatternUsage[ex.DominantPattern()]++
		for _, m := range ex.PrimaryMuscles {
			ctx.CommittedSets[m] += 3
		}
	}
	return ctx
}

func copyPatternUsage(m map[exercise.Pattern]int) map[exercise.Pattern]int {
	out := make(map[exercise.Pattern]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyCommittedSets(m map[muscle.Name]int) map[muscle.Name]int {
	out := make(map[muscle.Name]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// roundScore rounds a score to 6 decimal digits before comparison, per
// the determinism contract (spec §9): fixed-precision comparisons avoid
// platform float-ordering drift.
func roundScore(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
