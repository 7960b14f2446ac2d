package loadprogression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/historyindex"
	"github.com/trainprog/engine/internal/domain/muscle"
	"github.com/trainprog/engine/internal/domain/periodization"
)

func ld(v float64) *float64 { return &v }

func TestSolve_BodyweightOnlyReturnsNoLoad(t *testing.T) {
	ex := &exercise.Exercise{ID: "pushup", Equipment: map[exercise.Equipment]bool{exercise.Bodyweight: true}}
	result := Solve(SolveInput{Target: ex})
	assert.Equal(t, SourceBodyweightOnly, result.Source)
	assert.Equal(t, 0.0, result.Load)
}

func TestSolve_UsesDoubleProgressionFromHistory(t *testing.T) {
	ex := &exercise.Exercise{ID: "bench", Equipment: map[exercise.Equipment]bool{exercise.Barbell: true}}
	sessions := []historyindex.Session{
		{Date: time.Now(), Confidence: 1.0, ModalLoad: ld(200), ModalRPE: ld(8.5), ModalReps: 5},
	}
	result := Solve(SolveInput{
		Target:   ex,
		Sessions: sessions,
		RepRange: RepRange{Lo: 3, Hi: 5},
	})
	assert.Equal(t, SourceDoubleProgression, result.Source)
	assert.Equal(t, 205.0, result.Load)
}

func TestSolve_HoldsWhenLatestRPEVeryHigh(t *testing.T) {
	ex := &exercise.Exercise{ID: "bench", Equipment: map[exercise.Equipment]bool{exercise.Barbell: true}}
	sessions := []historyindex.Session{
		{Date: time.Now(), Confidence: 1.0, ModalLoad: ld(200), ModalRPE: ld(9.5), ModalReps: 5},
	}
	result := Solve(SolveInput{Target: ex, Sessions: sessions, RepRange: RepRange{Lo: 3, Hi: 6}})
	assert.Equal(t, SourceModalAnchorHold, result.Source)
	assert.Equal(t, 200.0, result.Load)
}

func TestSolve_FallsBackToBaselineWithNoHistory(t *testing.T) {
	ex := &exercise.Exercise{ID: "bench", Equipment: map[exercise.Equipment]bool{exercise.Barbell: true}}
	result := Solve(SolveInput{
		Target:    ex,
		Goal:      periodization.GoalStrength,
		Baselines: map[BaselineContext]float64{ContextStrength: 185},
	})
	assert.Equal(t, SourceBaseline, result.Source)
	assert.Equal(t, 185.0, result.Load)
}

func TestSolve_FallsBackToDonorWithNoHistoryOrBaseline(t *testing.T) {
	target := &exercise.Exercise{
		ID: "cable-fly", Equipment: map[exercise.Equipment]bool{exercise.Cable: true},
		IsCompound: false, FatigueCost: 2, Patterns: []exercise.Pattern{exercise.Isolation},
		PrimaryMuscles: []muscle.Name{muscle.Chest},
	}
	donorEx := &exercise.Exercise{
		ID: "barbell-bench", Name: "Barbell Bench Press", Equipment: map[exercise.Equipment]bool{exercise.Barbell: true},
		IsCompound: true, FatigueCost: 3, Patterns: []exercise.Pattern{exercise.HorizontalPush},
		PrimaryMuscles: []muscle.Name{muscle.Chest},
	}
	result := Solve(SolveInput{
		Target:          target,
		DonorCandidates: []DonorCandidate{{Exercise: donorEx, Load: 185, FatigueCost: 3}},
	})
	assert.Equal(t, SourceDonor, result.Source)
	assert.Greater(t, result.Load, 0.0)
}

func TestSolve_FallsBackToHeuristicAsLastResort(t *testing.T) {
	ex := &exercise.Exercise{ID: "lonely-machine", Equipment: map[exercise.Equipment]bool{exercise.Machine: true}}
	result := Solve(SolveInput{Target: ex})
	require.Equal(t, SourceHeuristic, result.Source)
	assert.Equal(t, 60.0, result.Load)
}
