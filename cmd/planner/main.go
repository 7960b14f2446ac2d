// Package main provides the entry point for the trainprog planner CLI:
// a thin driver that wires a SQLite-backed fixture store into the
// engine's pure planning call and prints the resulting WorkoutPlan.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/trainprog/engine/internal/domain/autoregulator"
	"github.com/trainprog/engine/internal/domain/periodization"
	"github.com/trainprog/engine/internal/domain/ranker"
	"github.com/trainprog/engine/internal/engine"
	"github.com/trainprog/engine/internal/fixtures"
)

func main() {
	dbPath := flag.String("db", "planner.db", "SQLite fixture database path")
	migrationsPath := flag.String("migrations", "", "Migrations directory path (defaults to the fixtures package's bundled migrations)")
	userID := flag.String("user", "demo-user", "User ID to plan for")
	dateFlag := flag.String("date", "", "Session date, YYYY-MM-DD (defaults to today)")
	intentFlag := flag.String("intent", "push", "Session intent: push, pull, legs, upper, lower, full_body")
	sessionMinutes := flag.Int("minutes", 60, "Session duration budget in minutes")
	trainingAgeFlag := flag.String("training-age", "intermediate", "beginner, intermediate, or advanced")
	goalFlag := flag.String("goal", "hypertrophy", "hypertrophy, strength, strength_hypertrophy, fat_loss, athleticism, or general_health")
	seedDemo := flag.Bool("seed-demo", false, "Seed a small demo exercise catalog before planning")
	flag.Parse()

	migrations := *migrationsPath
	if migrations == "" {
		var err error
		migrations, err = fixtures.MigrationsDir()
		if err != nil {
			log.Fatalf("failed to resolve migrations directory: %v", err)
		}
	}

	db, err := fixtures.Open(fixtures.Config{Path: *dbPath, MigrationsPath: migrations})
	if err != nil {
		log.Fatalf("failed to open fixture database: %v", err)
	}
	defer db.Close()

	if *seedDemo {
		if err := fixtures.SeedExercises(db, demoCatalog()); err != nil {
			log.Fatalf("failed to seed demo catalog: %v", err)
		}
		log.Printf("seeded %d demo exercises into %s", len(demoCatalog()), *dbPath)
	}

	catalog, err := fixtures.LoadCatalog(db)
	if err != nil {
		log.Fatalf("failed to load exercise catalog: %v", err)
	}
	if catalog.Len() == 0 {
		log.Fatalf("no exercises found in %s; rerun with -seed-demo to populate one", *dbPath)
	}

	history, err := fixtures.LoadHistory(db, *userID)
	if err != nil {
		log.Fatalf("failed to load workout history: %v", err)
	}
	baselines, err := fixtures.LoadBaselines(db, *userID)
	if err != nil {
		log.Fatalf("failed to load baselines: %v", err)
	}

	date := time.Now()
	if *dateFlag != "" {
		date, err = time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("invalid -date %q: %v", *dateFlag, err)
		}
	}

	availableEquipment := allEquipment(catalog)

	req := engine.PlanRequest{
		UserID:          *userID,
		Date:            date,
		ExerciseLibrary: catalog,
		HistoryEntries:  history,
		TrainingAge:     periodization.TrainingAge(*trainingAgeFlag),
		Goal:            periodization.Goal(*goalFlag),
		Baselines:       baselines,
		Selection: ranker.SelectionInput{
			Mode:           ranker.ModeIntent,
			Intent:         ranker.Intent(*intentFlag),
			SessionMinutes: *sessionMinutes,
			Constraints: ranker.Constraints{
				AvailableEquipment: availableEquipment,
				DaysPerWeek:        3,
			},
		},
		AutoregPolicy: autoregulator.Policy{AllowScaleDown: true, AllowScaleUp: true},
	}

	result, err := engine.GeneratePlan(req)
	if err != nil {
		log.Fatalf("failed to generate plan: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("failed to encode plan: %v", err)
	}
}
