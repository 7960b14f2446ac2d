package historyindex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ld(v float64) *float64 { return &v }
func rp(v float64) *float64 { return &v }

func TestBuild_FiltersNonPerformed(t *testing.T) {
	entries := []Entry{
		{Date: time.Now(), Status: StatusPlanned, Exercises: []ExerciseLog{{ExerciseID: "bench"}}},
		{Date: time.Now(), Status: StatusCompleted, Exercises: []ExerciseLog{{ExerciseID: "bench", Sets: []SetEntry{{SetIndex: 0, Reps: 5, Load: ld(100), RPE: rp(8)}}}}},
	}
	idx, err := Build(entries, Filter{})
	require.NoError(t, err)
	assert.Len(t, idx.Sessions("bench"), 1)
}

func TestBuild_RejectsNegativeReps(t *testing.T) {
	entries := []Entry{
		{Date: time.Now(), Status: StatusCompleted, Exercises: []ExerciseLog{{ExerciseID: "bench", Sets: []SetEntry{{Reps: -1}}}}},
	}
	_, err := Build(entries, Filter{})
	require.ErrorIs(t, err, ErrNegativeReps)
}

func TestBuild_SortsDescendingByDate(t *testing.T) {
	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now()
	entries := []Entry{
		{Date: older, Status: StatusCompleted, Exercises: []ExerciseLog{{ExerciseID: "bench", Sets: []SetEntry{{SetIndex: 0, Reps: 5, Load: ld(95), RPE: rp(8)}}}}},
		{Date: newer, Status: StatusCompleted, Exercises: []ExerciseLog{{ExerciseID: "bench", Sets: []SetEntry{{SetIndex: 0, Reps: 5, Load: ld(100), RPE: rp(8)}}}}},
	}
	idx, err := Build(entries, Filter{})
	require.NoError(t, err)
	sessions := idx.Sessions("bench")
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].Date.After(sessions[1].Date))
}

func TestModalLoad_ExcludesLowRPE(t *testing.T) {
	entries := []Entry{
		{
			Date: time.Now(), Status: StatusCompleted,
			Exercises: []ExerciseLog{{
				ExerciseID: "bench",
				Sets: []SetEntry{
					{SetIndex: 0, Reps: 10, Load: ld(60), RPE: rp(5)}, // excluded, rpe<6
					{SetIndex: 1, Reps: 5, Load: ld(100), RPE: rp(8)},
					{SetIndex: 2, Reps: 5, Load: ld(100), RPE: rp(8.5)},
				},
			}},
		},
	}
	idx, err := Build(entries, Filter{})
	require.NoError(t, err)
	sessions := idx.Sessions("bench")
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].ModalLoad)
	assert.Equal(t, 100.0, *sessions[0].ModalLoad)
}

func TestModalLoad_TieBreaksLatestThenHigher(t *testing.T) {
	sets := []SetEntry{
		{SetIndex: 0, Reps: 5, Load: ld(100), RPE: rp(8)},
		{SetIndex: 1, Reps: 5, Load: ld(105), RPE: rp(8)},
	}
	load, _, _ := modalLoadAndRPE(sets)
	require.NotNil(t, load)
	// both loads appear once; tie broken by latest setIndex => 105
	assert.Equal(t, 105.0, *load)
}

func TestWeightedModalLoad(t *testing.T) {
	t1 := time.Now().Add(-time.Hour)
	t2 := time.Now()
	sessions := []Session{
		{Date: t1, Confidence: 0.5, ModalLoad: ld(100)},
		{Date: t2, Confidence: 0.6, ModalLoad: ld(105)},
	}
	winner, ok := WeightedModalLoad(sessions)
	require.True(t, ok)
	assert.Equal(t, 105.0, *winner)
}

func TestSessionConfidence_ManualWithoutIntentEntries(t *testing.T) {
	entries := []Entry{
		{
			Date: time.Now(), Status: StatusCompleted, IsManualEntry: true, Confidence: 0.3,
			SelectionMode: SelectionManual,
			Exercises:     []ExerciseLog{{ExerciseID: "row", Sets: []SetEntry{{SetIndex: 0, Reps: 5, Load: ld(80), RPE: rp(8)}}}},
		},
	}
	idx, err := Build(entries, Filter{})
	require.NoError(t, err)
	sessions := idx.Sessions("row")
	require.Len(t, sessions, 1)
	assert.Equal(t, 1.0, sessions[0].Confidence)
}

func TestNormalizeAccessorySets(t *testing.T) {
	s := Session{
		ModalLoad: ld(100),
		Sets: []SetEntry{
			{SetIndex: 0, Reps: 8, Load: ld(90)},
			{SetIndex: 1, Reps: 8, Load: ld(100)},
		},
	}
	norm := NormalizeAccessorySets(s)
	for _, set := range norm.Sets {
		assert.Equal(t, 100.0, *set.Load)
	}
}

func TestRestrictToAccumulationAnchor_ExcludesDeload(t *testing.T) {
	entries := []Entry{
		{Date: time.Now(), Status: StatusCompleted, Phase: &PhaseSnapshot{BlockType: "deload", WeekInBlock: 1}, Exercises: []ExerciseLog{{ExerciseID: "bench", Sets: []SetEntry{{SetIndex: 0, Reps: 5, Load: ld(80), RPE: rp(7)}}}}},
		{Date: time.Now(), Status: StatusCompleted, Phase: &PhaseSnapshot{BlockType: "accumulation", WeekInBlock: 3}, Exercises: []ExerciseLog{{ExerciseID: "bench", Sets: []SetEntry{{SetIndex: 0, Reps: 5, Load: ld(100), RPE: rp(8)}}}}},
		{Date: time.Now(), Status: StatusCompleted, Phase: &PhaseSnapshot{BlockType: "accumulation", WeekInBlock: 1}, Exercises: []ExerciseLog{{ExerciseID: "bench", Sets: []SetEntry{{SetIndex: 0, Reps: 5, Load: ld(90), RPE: rp(7)}}}}},
	}
	idx, err := Build(entries, Filter{SeedingNewMeso: true})
	require.NoError(t, err)
	sessions := idx.Sessions("bench")
	require.Len(t, sessions, 1)
	assert.Equal(t, 100.0, *sessions[0].ModalLoad)
}
