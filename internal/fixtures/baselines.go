package fixtures

import (
	"database/sql"
	"fmt"

	"github.com/trainprog/engine/internal/domain/loadprogression"
)

// SeedBaseline records one user/exercise/context baseline load.
func SeedBaseline(db *sql.DB, userID, exerciseID string, context loadprogression.BaselineContext, load float64) error {
	_, err := db.Exec(`
		INSERT INTO baselines (user_id, exercise_id, context, load) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, exercise_id, context) DO UPDATE SET load = excluded.load`,
		userID, exerciseID, string(context), load,
	)
	if err != nil {
		return fmt.Errorf("failed to seed baseline for %q/%q: %w", exerciseID, context, err)
	}
	return nil
}

// LoadBaselines reads every baseline for a user into the nested map shape
// PlanRequest.Baselines expects: exerciseId -> context -> load.
func LoadBaselines(db *sql.DB, userID string) (map[string]map[loadprogression.BaselineContext]float64, error) {
	rows, err := db.Query(`SELECT exercise_id, context, load FROM baselines WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query baselines: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[loadprogression.BaselineContext]float64)
	for rows.Next() {
		var exerciseID, context string
		var load float64
		if err := rows.Scan(&exerciseID, &context, &load); err != nil {
			return nil, fmt.Errorf("failed to scan baseline: %w", err)
		}
		if out[exerciseID] == nil {
			out[exerciseID] = make(map[loadprogression.BaselineContext]float64)
		}
		out[exerciseID][loadprogression.BaselineContext(context)] = load
	}
	return out, rows.Err()
}
