package fixtures

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/trainprog/engine/internal/domain/historyindex"
)

// SeedHistoryEntry inserts one workout history entry for a user, encoding
// its exercise logs and optional phase snapshot as JSON. History entries
// are write-once records the engine only ever reads back whole (through
// historyindex.Build), so normalizing sets into their own tables would
// buy nothing.
func SeedHistoryEntry(db *sql.DB, userID string, entry historyindex.Entry) (string, error) {
	exercisesJSON, err := json.Marshal(entry.Exercises)
	if err != nil {
		return "", fmt.Errorf("failed to marshal exercises: %w", err)
	}
	var phaseJSON []byte
	if entry.Phase != nil {
		phaseJSON, err = json.Marshal(entry.Phase)
		if err != nil {
			return "", fmt.Errorf("failed to marshal phase: %w", err)
		}
	}
	var week sql.NullInt64
	if entry.Week != nil {
		week = sql.NullInt64{Int64: int64(*entry.Week), Valid: true}
	}

	id := uuid.New().String()
	_, err = db.Exec(`
		INSERT INTO history_entries (
			id, user_id, logged_at, status, session_intent, selection_mode,
			is_manual, confidence, week, phase_json, exercises_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, entry.Date, string(entry.Status), entry.SessionIntent,
		string(entry.SelectionMode), entry.IsManualEntry, entry.Confidence,
		week, nullableJSON(phaseJSON), string(exercisesJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert history entry: %w", err)
	}
	return id, nil
}

// LoadHistory reads every history entry for a user, most recent first,
// ready to pass as PlanRequest.HistoryEntries.
func LoadHistory(db *sql.DB, userID string) ([]historyindex.Entry, error) {
	rows, err := db.Query(`
		SELECT logged_at, status, session_intent, selection_mode, is_manual,
			confidence, week, phase_json, exercises_json
		FROM history_entries WHERE user_id = ? ORDER BY logged_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history entries: %w", err)
	}
	defer rows.Close()

	var entries []historyindex.Entry
	for rows.Next() {
		var e historyindex.Entry
		var status, selectionMode string
		var week sql.NullInt64
		var phaseJSON sql.NullString
		var exercisesJSON string
		if err := rows.Scan(
			&e.Date, &status, &e.SessionIntent, &selectionMode, &e.IsManualEntry,
			&e.Confidence, &week, &phaseJSON, &exercisesJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Status = historyindex.Status(status)
		e.SelectionMode = historyindex.SelectionMode(selectionMode)
		if week.Valid {
			w := int(week.Int64)
			e.Week = &w
		}
		if phaseJSON.Valid {
			var phase historyindex.PhaseSnapshot
			if err := json.Unmarshal([]byte(phaseJSON.String), &phase); err != nil {
				return nil, fmt.Errorf("failed to unmarshal phase: %w", err)
			}
			e.Phase = &phase
		}
		if err := json.Unmarshal([]byte(exercisesJSON), &e.Exercises); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exercises: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableJSON(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
