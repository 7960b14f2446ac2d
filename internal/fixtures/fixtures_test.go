package fixtures

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/historyindex"
	"github.com/trainprog/engine/internal/domain/loadprogression"
	"github.com/trainprog/engine/internal/domain/muscle"
)

func benchPress() *exercise.Exercise {
	return &exercise.Exercise{
		ID: "bench-press", Name: "Barbell Bench Press",
		Patterns: []exercise.Pattern{exercise.HorizontalPush}, Split: exercise.SplitPush,
		IsCompound: true, IsMainLiftEligible: true, JointStress: exercise.JointStressMedium,
		Equipment:        map[exercise.Equipment]bool{exercise.Barbell: true},
		FatigueCost:      3, SFR: 4, LengthPositionScore: 3,
		PrimaryMuscles:   []muscle.Name{muscle.Chest},
		SecondaryMuscles: []muscle.Name{muscle.Triceps},
	}
}

func lateralRaise() *exercise.Exercise {
	return &exercise.Exercise{
		ID: "lateral-raise", Name: "Lateral Raise",
		Patterns: []exercise.Pattern{exercise.Isolation}, Split: exercise.SplitPush,
		IsCompound: false, Equipment: map[exercise.Equipment]bool{exercise.Dumbbell: true},
		FatigueCost: 1, SFR: 4, LengthPositionScore: 4,
		PrimaryMuscles:   []muscle.Name{muscle.SideDelts},
		StimulusBiasTags: []string{"length_biased"},
	}
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	migrationsPath, err := MigrationsDir()
	require.NoError(t, err)
	db, err := OpenInMemory(migrationsPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSeedAndLoadCatalog_RoundTrips(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedExercises(db, []*exercise.Exercise{benchPress(), lateralRaise()}))

	catalog, err := LoadCatalog(db)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	bench := catalog.Get("bench-press")
	require.NotNil(t, bench)
	assert.Equal(t, "Barbell Bench Press", bench.Name)
	assert.True(t, bench.IsCompound)
	assert.Contains(t, bench.PrimaryMuscles, muscle.Chest)
	assert.Contains(t, bench.SecondaryMuscles, muscle.Triceps)
	assert.True(t, bench.Equipment[exercise.Barbell])

	lateral := catalog.Get("lateral-raise")
	require.NotNil(t, lateral)
	assert.Equal(t, []string{"length_biased"}, lateral.StimulusBiasTags)
}

func TestSeedExercise_RejectsInvalidExercise(t *testing.T) {
	db := setupTestDB(t)
	broken := &exercise.Exercise{ID: "bad"}
	err := SeedExercise(db, broken)
	assert.Error(t, err)
}

func TestSeedAndLoadHistory_RoundTrips(t *testing.T) {
	db := setupTestDB(t)
	loggedAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	load := 185.0
	rpe := 8.0
	entry := historyindex.Entry{
		Date:          loggedAt,
		Status:        historyindex.StatusCompleted,
		SessionIntent: "push",
		SelectionMode: historyindex.SelectionIntent,
		Confidence:    1.0,
		Exercises: []historyindex.ExerciseLog{
			{
				ExerciseID:      "bench-press",
				MovementPattern: string(exercise.HorizontalPush),
				PrimaryMuscles:  []muscle.Name{muscle.Chest},
				Sets: []historyindex.SetEntry{
					{SetIndex: 0, Reps: 8, Load: &load, RPE: &rpe},
				},
			},
		},
	}

	id, err := SeedHistoryEntry(db, "user-1", entry)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	loaded, err := LoadHistory(db, "user-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, historyindex.StatusCompleted, loaded[0].Status)
	assert.Equal(t, "push", loaded[0].SessionIntent)
	require.Len(t, loaded[0].Exercises, 1)
	assert.Equal(t, "bench-press", loaded[0].Exercises[0].ExerciseID)
	require.Len(t, loaded[0].Exercises[0].Sets, 1)
	assert.Equal(t, 185.0, *loaded[0].Exercises[0].Sets[0].Load)
}

func TestSeedAndLoadBaselines_RoundTrips(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedBaseline(db, "user-1", "bench-press", loadprogression.ContextStrength, 205))
	require.NoError(t, SeedBaseline(db, "user-1", "bench-press", loadprogression.ContextVolume, 185))

	baselines, err := LoadBaselines(db, "user-1")
	require.NoError(t, err)
	require.Contains(t, baselines, "bench-press")
	assert.Equal(t, 205.0, baselines["bench-press"][loadprogression.ContextStrength])
	assert.Equal(t, 185.0, baselines["bench-press"][loadprogression.ContextVolume])
}

func TestSeedBaseline_UpsertsOnConflict(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedBaseline(db, "user-1", "bench-press", loadprogression.ContextStrength, 200))
	require.NoError(t, SeedBaseline(db, "user-1", "bench-press", loadprogression.ContextStrength, 210))

	baselines, err := LoadBaselines(db, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 210.0, baselines["bench-press"][loadprogression.ContextStrength])
}
