// Package readiness combines Whoop, subjective, and performance signals
// into an overall fatigue score with per-muscle breakdown (spec §4.4).
package readiness

import (
	"errors"
	"fmt"

	"github.com/trainprog/engine/internal/domain/muscle"
)

// Availability records whether a ReadinessSignal was present for a call.
type Availability string

const (
	AvailabilityPresent Availability = "present"
	AvailabilityMissing Availability = "missing"
)

// Errors for readiness scoring.
var (
	ErrRecoveryRange     = errors.New("whoop recovery must be in [0, 100]")
	ErrStrainRange       = errors.New("whoop strain must be in [0, 21]")
	ErrSleepQualityRange = errors.New("whoop sleep quality must be in [0, 100]")
	ErrReadinessRange    = errors.New("subjective readiness must be in [1, 5]")
	ErrMotivationRange   = errors.New("subjective motivation must be in [1, 5]")
	ErrSorenessRange     = errors.New("soreness rating must be 1, 2, or 3")
	ErrUnknownMuscle     = errors.New("unknown muscle in soreness map")
)

// WhoopSignal is device-reported recovery data.
type WhoopSignal struct {
	Recovery      float64 // 0-100
	Strain        float64 // 0-21
	HRV           float64 // ms
	SleepQuality  float64 // 0-100
	SleepDuration float64 // hours
}

// Validate checks WhoopSignal is within its documented ranges.
func (w WhoopSignal) Validate() error {
	if w.Recovery < 0 || w.Recovery > 100 {
		return ErrRecoveryRange
	}
	if w.Strain < 0 || w.Strain > 21 {
		return ErrStrainRange
	}
	if w.SleepQuality < 0 || w.SleepQuality > 100 {
		return ErrSleepQualityRange
	}
	return nil
}

// SubjectiveSignal is self-reported readiness, motivation, and soreness.
type SubjectiveSignal struct {
	Readiness  float64 // 1-5
	Motivation float64 // 1-5
	// Soreness maps muscle name to a 1|2|3 rating.
	Soreness map[muscle.Name]int
}

// Validate checks SubjectiveSignal is within its documented ranges.
func (s SubjectiveSignal) Validate() error {
	if s.Readiness < 1 || s.Readiness > 5 {
		return ErrReadinessRange
	}
	if s.Motivation < 1 || s.Motivation > 5 {
		return ErrMotivationRange
	}
	for name, rating := range s.Soreness {
		if !muscle.IsValid(name) {
			return fmt.Errorf("%w: %s", ErrUnknownMuscle, name)
		}
		if rating < 1 || rating > 3 {
			return fmt.Errorf("%w: %s=%d", ErrSorenessRange, name, rating)
		}
	}
	return nil
}

// PerformanceSignal is derived from recent training performance.
type PerformanceSignal struct {
	RPEDeviation         float64
	StallCount           int
	VolumeComplianceRate float64 // 0-1
}

// Signal is the full ReadinessSignal (spec §3). Whoop and Subjective are
// optional; a nil Whoop means the device signal is absent.
type Signal struct {
	Whoop       *WhoopSignal
	Subjective  *SubjectiveSignal
	Performance *PerformanceSignal
}

// Validate validates whichever sub-signals are present.
func (s Signal) Validate() error {
	if s.Whoop != nil {
		if err := s.Whoop.Validate(); err != nil {
			return err
		}
	}
	if s.Subjective != nil {
		if err := s.Subjective.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MuscleFatigue is the per-muscle fatigue contribution derived from
// reported soreness.
type MuscleFatigue struct {
	Muscle  muscle.Name
	Fatigue float64 // in [0,1], 1 = fresh, 0 = maximally fatigued
}

// Score is the FatigueScore output (spec §6): overall plus preserved
// component contributions for explanation.
type Score struct {
	Overall             float64
	WhoopScore          float64
	SubjectiveScore     float64
	PerformanceScore    float64
	WhoopWeight         float64
	SubjectiveWeight    float64
	PerformanceWeight   float64
	WorstMuscleFatigue  float64
	PerMuscle           []MuscleFatigue
	Availability        Availability
	SignalAge           int // hours since the signal timestamp, caller-supplied
}

// Rationale renders a short human-readable explanation of the score,
// mirroring the overall/base weighting (spec §6).
func (s Score) Rationale() string {
	if s.Availability == AvailabilityMissing {
		return "no readiness signal available; using moderate default fatigue score"
	}
	return fmt.Sprintf(
		"overall=%.2f (whoop=%.2f*%.1f + subjective=%.2f*%.1f + performance=%.2f*%.1f, worstMuscleFatigue=%.2f)",
		s.Overall, s.WhoopScore, s.WhoopWeight, s.SubjectiveScore, s.SubjectiveWeight,
		s.PerformanceScore, s.PerformanceWeight, s.WorstMuscleFatigue,
	)
}

// defaultMissingScore is the moderate default used when no signal is
// present (spec §7 MissingSignal).
const defaultMissingScore = 0.5

// Compute combines whichever sub-signals are present into a FatigueScore,
// per spec §4.4. A nil signal produces the MissingSignal default.
func Compute(signal *Signal, signalAgeHours int) Score {
	if signal == nil {
		return Score{
			Overall:            defaultMissingScore,
			WorstMuscleFatigue: 1.0,
			Availability:       AvailabilityMissing,
			SignalAge:          0,
		}
	}

	whoopScore := 0.0
	if signal.Whoop != nil {
		whoopScore = whoopSubscore(*signal.Whoop)
	}

	subjectiveScore := 0.0
	if signal.Subjective != nil {
		subjectiveScore = subjectiveSubscore(*signal.Subjective)
	}

	performanceScore := 0.0
	if signal.Performance != nil {
		performanceScore = performanceSubscore(*signal.Performance)
	}

	whoopWeight, subjWeight, perfWeight := 0.0, 0.6, 0.4
	if signal.Whoop != nil {
		whoopWeight, subjWeight, perfWeight = 0.5, 0.3, 0.2
	}

	base := whoopScore*whoopWeight + subjectiveScore*subjWeight + performanceScore*perfWeight

	worst := 1.0
	var perMuscle []MuscleFatigue
	if signal.Subjective != nil && len(signal.Subjective.Soreness) > 0 {
		worst = 1.0
		for name, rating := range signal.Subjective.Soreness {
			f := 1.0 - (float64(rating)-1.0)/2.0
			perMuscle = append(perMuscle, MuscleFatigue{Muscle: name, Fatigue: f})
			if f < worst {
				worst = f
			}
		}
	}

	overall := base*0.8 + worst*0.2
	overall = clamp01(overall)

	return Score{
		Overall:            overall,
		WhoopScore:         whoopScore,
		SubjectiveScore:    subjectiveScore,
		PerformanceScore:   performanceScore,
		WhoopWeight:        whoopWeight,
		SubjectiveWeight:   subjWeight,
		PerformanceWeight:  perfWeight,
		WorstMuscleFatigue: worst,
		PerMuscle:          perMuscle,
		Availability:       AvailabilityPresent,
		SignalAge:          signalAgeHours,
	}
}

func whoopSubscore(w WhoopSignal) float64 {
	strainPenalty := 0.0
	if w.Strain > 18 {
		strainPenalty = 0.2
	}
	hrvTerm := w.HRV / 50
	if hrvTerm > 1 {
		hrvTerm = 1
	}
	return w.Recovery/100*0.4 + (1-strainPenalty)*0.2 + hrvTerm*0.2 + w.SleepQuality/100*0.2
}

func subjectiveSubscore(s SubjectiveSignal) float64 {
	return (s.Readiness-1)/4*0.6 + (s.Motivation-1)/4*0.4
}

func performanceSubscore(p PerformanceSignal) float64 {
	rpeScore := clamp01(0.5 - p.RPEDeviation/4)
	stallPenalty := float64(p.StallCount) * 0.1
	if stallPenalty > 0.3 {
		stallPenalty = 0.3
	}
	return rpeScore*0.5 + (1-stallPenalty)*0.3 + p.VolumeComplianceRate*0.2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
