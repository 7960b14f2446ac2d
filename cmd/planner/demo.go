package main

import (
	"github.com/trainprog/engine/internal/domain/exercise"
	"github.com/trainprog/engine/internal/domain/muscle"
)

// allEquipment collects every equipment tag used by the catalog, so the
// demo CLI doesn't need its own equipment inventory flag.
func allEquipment(catalog *exercise.Catalog) map[exercise.Equipment]bool {
	out := make(map[exercise.Equipment]bool)
	for _, ex := range catalog.All() {
		for eq, present := range ex.Equipment {
			if present {
				out[eq] = true
			}
		}
	}
	return out
}

// demoCatalog is a small, hand-built exercise library spanning push,
// pull, and legs, for `-seed-demo` runs with no prior fixture data.
func demoCatalog() []*exercise.Exercise {
	return []*exercise.Exercise{
		{
			ID: "bench-press", Name: "Barbell Bench Press",
			Patterns: []exercise.Pattern{exercise.HorizontalPush}, Split: exercise.SplitPush,
			IsCompound: true, IsMainLiftEligible: true, JointStress: exercise.JointStressMedium,
			Equipment:        map[exercise.Equipment]bool{exercise.Barbell: true},
			FatigueCost:      3, SFR: 4, LengthPositionScore: 3,
			PrimaryMuscles:   []muscle.Name{muscle.Chest},
			SecondaryMuscles: []muscle.Name{muscle.Triceps, muscle.FrontDelts},
		},
		{
			ID: "overhead-press", Name: "Overhead Press",
			Patterns: []exercise.Pattern{exercise.VerticalPush}, Split: exercise.SplitPush,
			IsCompound: true, IsMainLiftEligible: true, JointStress: exercise.JointStressMedium,
			Equipment:        map[exercise.Equipment]bool{exercise.Barbell: true},
			FatigueCost:      3, SFR: 3, LengthPositionScore: 3,
			PrimaryMuscles:   []muscle.Name{muscle.FrontDelts},
			SecondaryMuscles: []muscle.Name{muscle.Triceps},
		},
		{
			ID: "cable-fly", Name: "Cable Fly",
			Patterns: []exercise.Pattern{exercise.Isolation}, Split: exercise.SplitPush,
			IsCompound: false, Equipment: map[exercise.Equipment]bool{exercise.Cable: true},
			FatigueCost: 2, SFR: 3, LengthPositionScore: 5,
			PrimaryMuscles: []muscle.Name{muscle.Chest},
		},
		{
			ID: "lateral-raise", Name: "Dumbbell Lateral Raise",
			Patterns: []exercise.Pattern{exercise.Isolation}, Split: exercise.SplitPush,
			IsCompound: false, Equipment: map[exercise.Equipment]bool{exercise.Dumbbell: true},
			FatigueCost: 1, SFR: 4, LengthPositionScore: 4,
			PrimaryMuscles: []muscle.Name{muscle.SideDelts},
		},
		{
			ID: "barbell-row", Name: "Barbell Row",
			Patterns: []exercise.Pattern{exercise.HorizontalPull}, Split: exercise.SplitPull,
			IsCompound: true, IsMainLiftEligible: true, JointStress: exercise.JointStressMedium,
			Equipment:        map[exercise.Equipment]bool{exercise.Barbell: true},
			FatigueCost:      3, SFR: 4, LengthPositionScore: 3,
			PrimaryMuscles:   []muscle.Name{muscle.Back},
			SecondaryMuscles: []muscle.Name{muscle.Biceps, muscle.RearDelts},
		},
		{
			ID: "lat-pulldown", Name: "Lat Pulldown",
			Patterns: []exercise.Pattern{exercise.VerticalPull}, Split: exercise.SplitPull,
			IsCompound: true, IsMainLiftEligible: true, JointStress: exercise.JointStressLow,
			Equipment:        map[exercise.Equipment]bool{exercise.Cable: true},
			FatigueCost:      2, SFR: 4, LengthPositionScore: 4,
			PrimaryMuscles:   []muscle.Name{muscle.Back},
			SecondaryMuscles: []muscle.Name{muscle.Biceps},
		},
		{
			ID: "barbell-curl", Name: "Barbell Curl",
			Patterns: []exercise.Pattern{exercise.Isolation}, Split: exercise.SplitPull,
			IsCompound: false, Equipment: map[exercise.Equipment]bool{exercise.Barbell: true},
			FatigueCost: 1, SFR: 4, LengthPositionScore: 3,
			PrimaryMuscles: []muscle.Name{muscle.Biceps},
		},
		{
			ID: "back-squat", Name: "Barbell Back Squat",
			Patterns: []exercise.Pattern{exercise.Squat}, Split: exercise.SplitLegs,
			IsCompound: true, IsMainLiftEligible: true, JointStress: exercise.JointStressHigh,
			Equipment:        map[exercise.Equipment]bool{exercise.Barbell: true},
			FatigueCost:      5, SFR: 4, LengthPositionScore: 3,
			PrimaryMuscles:   []muscle.Name{muscle.Quads},
			SecondaryMuscles: []muscle.Name{muscle.Glutes},
		},
		{
			ID: "romanian-deadlift", Name: "Romanian Deadlift",
			Patterns: []exercise.Pattern{exercise.Hinge}, Split: exercise.SplitLegs,
			IsCompound: true, IsMainLiftEligible: true, JointStress: exercise.JointStressMedium,
			Equipment:        map[exercise.Equipment]bool{exercise.Barbell: true},
			FatigueCost:      4, SFR: 4, LengthPositionScore: 4,
			PrimaryMuscles:   []muscle.Name{muscle.Hamstrings},
			SecondaryMuscles: []muscle.Name{muscle.Glutes},
		},
		{
			ID: "leg-curl", Name: "Seated Leg Curl",
			Patterns: []exercise.Pattern{exercise.Isolation}, Split: exercise.SplitLegs,
			IsCompound: false, Equipment: map[exercise.Equipment]bool{exercise.Machine: true},
			FatigueCost: 2, SFR: 4, LengthPositionScore: 5,
			PrimaryMuscles: []muscle.Name{muscle.Hamstrings},
		},
	}
}
