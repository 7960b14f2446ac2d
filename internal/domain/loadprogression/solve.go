package loadprogression

import (
	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/historyindex"
	"github.com/trainprog/engine/internal/domain/periodization"
)

// Source records which cascade step produced a SolveResult's load, for
// explainability.
type Source string

const (
	SourceBodyweightOnly    Source = "bodyweight_only"
	SourceModalAnchorHold   Source = "modal_anchor_hold"
	SourceDoubleProgression Source = "double_progression"
	SourceAutoregulated     Source = "autoregulated"
	SourceBaseline          Source = "baseline"
	SourceDonor             Source = "donor"
	SourceHeuristic         Source = "heuristic"
)

// SolveInput carries everything the cascade in spec §4.6 may need.
type SolveInput struct {
	Target             *exercise.Exercise
	Sessions           []historyindex.Session // this exercise's history, most-recent first
	RepRange           RepRange
	TargetRPE          float64
	RIRAdjustment      float64
	TrainingAge        periodization.TrainingAge
	Goal               periodization.Goal
	WeekInBlock        int
	BlockDurationWeeks int
	IsDeload           bool
	Baselines          map[BaselineContext]float64
	Bodyweight         float64
	HasBodyweight      bool
	DonorCandidates    []DonorCandidate
}

// SolveResult is the next top-set load plus cascade provenance.
type SolveResult struct {
	Load      float64
	ResetReps bool
	Source    Source
}

// Solve computes the next top-set load for an exercise, cascading through
// modal-anchor progression, the autoregulated fallback, baseline
// resolution, donor estimation, and the heuristic default (spec §4.6).
// It never fails: bodyweight-only exercises return no load, and every
// other branch is guaranteed to bottom out in the heuristic default.
func Solve(in SolveInput) SolveResult {
	if in.Target.IsBodyweightOnly() {
		return SolveResult{Source: SourceBodyweightOnly}
	}

	if len(in.Sessions) > 0 {
		if result, ok := solveFromHistory(in); ok {
			return result
		}
	}

	if load, ok := ResolveBaseline(in.Baselines, in.Goal); ok {
		return SolveResult{Load: RoundToHalf(load), Source: SourceBaseline}
	}

	if donor, ok := SelectDonor(in.Target, in.DonorCandidates); ok {
		load := DonorEstimate(in.Target, donor, in.Target.FatigueCost)
		return SolveResult{Load: load, Source: SourceDonor}
	}

	load := HeuristicFallback(in.Target, in.Bodyweight, in.HasBodyweight)
	return SolveResult{Load: load, Source: SourceHeuristic}
}

func solveFromHistory(in SolveInput) (SolveResult, bool) {
	anchor, ok := ModalAnchor(in.Sessions)
	if !ok {
		return SolveResult{}, false
	}

	latest := in.Sessions[0]
	if ShouldHoldLoad(latest.ModalRPE) {
		return SolveResult{Load: anchor, Source: SourceModalAnchorHold}, true
	}

	if latest.ModalRPE == nil || latest.ModalLoad == nil {
		sets := sessionSetPerformances(latest)
		load := AutoregulatedFallback(sets, anchor, in.RepRange, in.TargetRPE, in.RIRAdjustment, in.TrainingAge, in.WeekInBlock, in.BlockDurationWeeks, in.IsDeload)
		return SolveResult{Load: load, Source: SourceAutoregulated}, true
	}

	eq := DominantEquipment(in.Target.Equipment)
	nextLoad, resetReps := DoubleProgressionDecision(in.RepRange, latest.ModalReps, anchor, *latest.ModalRPE, eq)
	return SolveResult{Load: nextLoad, ResetReps: resetReps, Source: SourceDoubleProgression}, true
}

func sessionSetPerformances(s historyindex.Session) []SetPerformance {
	var out []SetPerformance
	for _, set := range s.Sets {
		if set.WasSkipped || set.Load == nil || set.Reps <= 0 {
			continue
		}
		out = append(out, SetPerformance{Load: *set.Load, Reps: set.Reps})
	}
	return out
}
