package fixtures

import (
	"database/sql"
	"fmt"

	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/muscle"
)

// SeedExercise inserts a single exercise and its associated pattern,
// equipment, and muscle rows. Callers typically loop this over a slice
// built for a test; for bulk seeding prefer SeedExercises, which wraps
// the whole batch in one transaction.
func SeedExercise(db *sql.DB, ex *exercise.Exercise) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := seedExerciseTx(tx, ex); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SeedExercises seeds a batch of exercises in a single transaction.
func SeedExercises(db *sql.DB, exercises []*exercise.Exercise) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, ex := range exercises {
		if err := seedExerciseTx(tx, ex); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func seedExerciseTx(tx *sql.Tx, ex *exercise.Exercise) error {
	if err := ex.Validate(); err != nil {
		return fmt.Errorf("invalid exercise %q: %w", ex.ID, err)
	}

	_, err := tx.Exec(`
		INSERT INTO exercises (
			id, name, split, is_compound, is_main_lift_eligible, joint_stress,
			fatigue_cost, sfr, length_position_score, difficulty, unilateral,
			min_reps, max_reps, time_per_set_seconds, user_avoided, user_favorite
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.Name, string(ex.Split), ex.IsCompound, ex.IsMainLiftEligible,
		string(ex.JointStress), ex.FatigueCost, ex.SFR, ex.LengthPositionScore,
		ex.Difficulty, ex.Unilateral, nullableInt(ex.MinReps), nullableInt(ex.MaxReps),
		nullableInt(ex.TimePerSetSeconds), ex.UserAvoided, ex.UserFavorite,
	)
	if err != nil {
		return fmt.Errorf("failed to insert exercise %q: %w", ex.ID, err)
	}

	for _, p := range ex.Patterns {
		if _, err := tx.Exec(`INSERT INTO exercise_patterns (exercise_id, pattern) VALUES (?, ?)`, ex.ID, string(p)); err != nil {
			return fmt.Errorf("failed to insert pattern for %q: %w", ex.ID, err)
		}
	}
	for eq, present := range ex.Equipment {
		if !present {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO exercise_equipment (exercise_id, equipment) VALUES (?, ?)`, ex.ID, string(eq)); err != nil {
			return fmt.Errorf("failed to insert equipment for %q: %w", ex.ID, err)
		}
	}
	for _, m := range ex.PrimaryMuscles {
		if _, err := tx.Exec(`INSERT INTO exercise_primary_muscles (exercise_id, muscle) VALUES (?, ?)`, ex.ID, string(m)); err != nil {
			return fmt.Errorf("failed to insert primary muscle for %q: %w", ex.ID, err)
		}
	}
	for _, m := range ex.SecondaryMuscles {
		if _, err := tx.Exec(`INSERT INTO exercise_secondary_muscles (exercise_id, muscle) VALUES (?, ?)`, ex.ID, string(m)); err != nil {
			return fmt.Errorf("failed to insert secondary muscle for %q: %w", ex.ID, err)
		}
	}
	for _, tag := range ex.StimulusBiasTags {
		if _, err := tx.Exec(`INSERT INTO exercise_stimulus_bias_tags (exercise_id, tag) VALUES (?, ?)`, ex.ID, tag); err != nil {
			return fmt.Errorf("failed to insert stimulus bias tag for %q: %w", ex.ID, err)
		}
	}
	for tag, present := range ex.Contraindications {
		if !present {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO exercise_contraindications (exercise_id, tag) VALUES (?, ?)`, ex.ID, tag); err != nil {
			return fmt.Errorf("failed to insert contraindication for %q: %w", ex.ID, err)
		}
	}
	return nil
}

// LoadCatalog reads every seeded exercise back into an exercise.Catalog,
// with its patterns, equipment, muscles and stimulus bias tags.
// Contraindication tags are not read back.
func LoadCatalog(db *sql.DB) (*exercise.Catalog, error) {
	rows, err := db.Query(`
		SELECT id, name, split, is_compound, is_main_lift_eligible, joint_stress,
			fatigue_cost, sfr, length_position_score, difficulty, unilateral,
			min_reps, max_reps, time_per_set_seconds, user_avoided, user_favorite
		FROM exercises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*exercise.Exercise
	for rows.Next() {
		ex := &exercise.Exercise{}
		var minReps, maxReps, timePerSet sql.NullInt64
		if err := rows.Scan(
			&ex.ID, &ex.Name, &ex.Split, &ex.IsCompound, &ex.IsMainLiftEligible, &ex.JointStress,
			&ex.FatigueCost, &ex.SFR, &ex.LengthPositionScore, &ex.Difficulty, &ex.Unilateral,
			&minReps, &maxReps, &timePerSet, &ex.UserAvoided, &ex.UserFavorite,
		); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		ex.MinReps = intPtr(minReps)
		ex.MaxReps = intPtr(maxReps)
		ex.TimePerSetSeconds = intPtr(timePerSet)
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, ex := range exercises {
		if err := loadPatterns(db, ex); err != nil {
			return nil, err
		}
		if err := loadEquipment(db, ex); err != nil {
			return nil, err
		}
		if err := loadMuscles(db, ex); err != nil {
			return nil, err
		}
		tags, err := db.Query(`SELECT tag FROM exercise_stimulus_bias_tags WHERE exercise_id = ?`, ex.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to query stimulus bias tags for %q: %w", ex.ID, err)
		}
		for tags.Next() {
			var tag string
			if err := tags.Scan(&tag); err != nil {
				tags.Close()
				return nil, err
			}
			ex.StimulusBiasTags = append(ex.StimulusBiasTags, tag)
		}
		tags.Close()
		if err := tags.Err(); err != nil {
			return nil, err
		}
	}

	return exercise.NewCatalog(exercises)
}

func loadPatterns(db *sql.DB, ex *exercise.Exercise) error {
	rows, err := db.Query(`SELECT pattern FROM exercise_patterns WHERE exercise_id = ?`, ex.ID)
	if err != nil {
		return fmt.Errorf("failed to query patterns for %q: %w", ex.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return err
		}
		ex.Patterns = append(ex.Patterns, exercise.Pattern(p))
	}
	return rows.Err()
}

func loadEquipment(db *sql.DB, ex *exercise.Exercise) error {
	rows, err := db.Query(`SELECT equipment FROM exercise_equipment WHERE exercise_id = ?`, ex.ID)
	if err != nil {
		return fmt.Errorf("failed to query equipment for %q: %w", ex.ID, err)
	}
	defer rows.Close()
	ex.Equipment = make(map[exercise.Equipment]bool)
	for rows.Next() {
		var eq string
		if err := rows.Scan(&eq); err != nil {
			return err
		}
		ex.Equipment[exercise.Equipment(eq)] = true
	}
	return rows.Err()
}

func loadMuscles(db *sql.DB, ex *exercise.Exercise) error {
	primary, err := db.Query(`SELECT muscle FROM exercise_primary_muscles WHERE exercise_id = ?`, ex.ID)
	if err != nil {
		return fmt.Errorf("failed to query primary muscles for %q: %w", ex.ID, err)
	}
	defer primary.Close()
	for primary.Next() {
		var m string
		if err := primary.Scan(&m); err != nil {
			return err
		}
		ex.PrimaryMuscles = append(ex.PrimaryMuscles, muscle.Name(m))
	}
	if err := primary.Err(); err != nil {
		return err
	}

	secondary, err := db.Query(`SELECT muscle FROM exercise_secondary_muscles WHERE exercise_id = ?`, ex.ID)
	if err != nil {
		return fmt.Errorf("failed to query secondary muscles for %q: %w", ex.ID, err)
	}
	defer secondary.Close()
	for secondary.Next() {
		var m string
		if err := secondary.Scan(&m); err != nil {
			return err
		}
		ex.SecondaryMuscles = append(ex.SecondaryMuscles, muscle.Name(m))
	}
	return secondary.Err()
}

func nullableInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
