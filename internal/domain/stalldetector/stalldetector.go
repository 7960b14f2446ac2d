// Package stalldetector tracks per-exercise 1RM progress across history
// and recommends an intervention once a lifter has gone too long without
// a new PR (spec §4.9).
package stalldetector

import (
	"sort"
	"time"
)

// InterventionLevel is the closed vocabulary of stall interventions.
type InterventionLevel string

const (
	InterventionNone       InterventionLevel = "none"
	InterventionMicroload  InterventionLevel = "microload"
	InterventionDeload     InterventionLevel = "deload"
	InterventionVariation  InterventionLevel = "variation"
	InterventionVolumeReset InterventionLevel = "volume_reset"
)

// sessionsPerWeek is the assumed training frequency used to convert a
// session count into weeks without progress (spec §4.9).
const sessionsPerWeek = 3.0

// PerformedSet is the load/reps pair the estimator needs.
type PerformedSet struct {
	Load float64
	Reps int
}

// SessionPerformance is one exercise session's sets, in the order
// performed.
type SessionPerformance struct {
	Date time.Time
	Sets []PerformedSet
}

// EstimateOneRepMax applies the spec's capped Brzycki-labeled formula:
// load · (1 + min(10, reps)/30).
func EstimateOneRepMax(load float64, reps int) float64 {
	cappedReps := reps
	if cappedReps > 10 {
		cappedReps = 10
	}
	return load * (1 + float64(cappedReps)/30)
}

// sessionBestE1RM returns the highest estimated 1RM among a session's
// sets.
func sessionBestE1RM(s SessionPerformance) float64 {
	best := 0.0
	for _, set := range s.Sets {
		if set.Load <= 0 || set.Reps <= 0 {
			continue
		}
		e1rm := EstimateOneRepMax(set.Load, set.Reps)
		if e1rm > best {
			best = e1rm
		}
	}
	return best
}

// Result is the stall-detection outcome for one exercise.
type Result struct {
	BestE1RM             float64
	SessionsSincePR      int
	WeeksWithoutProgress float64
	Intervention         InterventionLevel
}

// Detect orders sessions by date itself, so any input order is accepted,
// then scans them oldest-first tracking bestE1RM; the latest session that
// exceeds all older bests marks the PR, and sessions since that PR
// convert to weeks at 3 sessions/week (spec §4.9).
func Detect(sessions []SessionPerformance) Result {
	if len(sessions) == 0 {
		return Result{Intervention: InterventionNone}
	}

	ordered := make([]SessionPerformance, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.After(ordered[j].Date) })

	oldestFirst := make([]SessionPerformance, len(ordered))
	for i, s := range ordered {
		oldestFirst[len(ordered)-1-i] = s
	}

	prIndexOldestFirst := -1
	bestSoFar := 0.0
	for i, s := range oldestFirst {
		e1rm := sessionBestE1RM(s)
		if e1rm > bestSoFar {
			bestSoFar = e1rm
			prIndexOldestFirst = i
		}
	}

	sessionsSincePR := 0
	if prIndexOldestFirst >= 0 {
		sessionsSincePR = len(oldestFirst) - 1 - prIndexOldestFirst
	}

	weeks := float64(sessionsSincePR) / sessionsPerWeek
	return Result{
		BestE1RM:             bestSoFar,
		SessionsSincePR:      sessionsSincePR,
		WeeksWithoutProgress: weeks,
		Intervention:         interventionFor(weeks),
	}
}

func interventionFor(weeksWithoutProgress float64) InterventionLevel {
	switch {
	case weeksWithoutProgress < 2:
		return InterventionNone
	case weeksWithoutProgress < 3:
		return InterventionMicroload
	case weeksWithoutProgress < 5:
		return InterventionDeload
	case weeksWithoutProgress < 8:
		return InterventionVariation
	default:
		return InterventionVolumeReset
	}
}

// IsRepPR reports whether candidate is a rep PR relative to baseline:
// same load, strictly more reps.
func IsRepPR(baseline, candidate PerformedSet) bool {
	return candidate.Load == baseline.Load && candidate.Reps > baseline.Reps
}

// IsLoadPR reports whether candidate is a load PR relative to baseline:
// same reps, strictly more load.
func IsLoadPR(baseline, candidate PerformedSet) bool {
	return candidate.Reps == baseline.Reps && candidate.Load > baseline.Load
}
