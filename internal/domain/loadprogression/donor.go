package loadprogression

import (
	"sort"

	"github.com/trainprog/engine/internal/domain/exercise"
)

// equipmentPairMultiplier scales a donor's load when converting it to the
// target exercise's equipment, reflecting typical unilateral/bilateral
// and leverage differences between implements (spec §4.6 step 5). The
// table is symmetric; unlisted pairs default to 1.0.
var equipmentPairMultiplier = map[[2]exercise.Equipment]float64{
	{exercise.Barbell, exercise.Dumbbell}:   0.45,
	{exercise.Dumbbell, exercise.Barbell}:   2.2,
	{exercise.Barbell, exercise.Machine}:    1.1,
	{exercise.Machine, exercise.Barbell}:    0.9,
	{exercise.Barbell, exercise.Cable}:      0.9,
	{exercise.Cable, exercise.Barbell}:      1.1,
	{exercise.Dumbbell, exercise.Machine}:   2.4,
	{exercise.Machine, exercise.Dumbbell}:   0.42,
	{exercise.Dumbbell, exercise.Cable}:     2.0,
	{exercise.Cable, exercise.Dumbbell}:     0.5,
	{exercise.Machine, exercise.Cable}:      0.85,
	{exercise.Cable, exercise.Machine}:      1.18,
	{exercise.Kettlebell, exercise.Dumbbell}: 1.0,
	{exercise.Dumbbell, exercise.Kettlebell}: 1.0,
}

func pairMultiplier(from, to exercise.Equipment) float64 {
	if from == to {
		return 1.0
	}
	if m, ok := equipmentPairMultiplier[[2]exercise.Equipment{from, to}]; ok {
		return m
	}
	return 1.0
}

// DonorCandidate carries everything needed to score and scale a donor
// exercise's baseline load onto a target exercise.
type DonorCandidate struct {
	Exercise    *exercise.Exercise
	Load        float64
	FatigueCost int
}

// donorScore implements the spec §4.6 step 5 scoring formula.
func donorScore(target, donor *exercise.Exercise) float64 {
	score := 0.0
	score += float64(muscleOverlapCount(target, donor)) * 4
	score += float64(patternOverlapCount(target, donor)) * 3
	if sameEquipment(target, donor) {
		score += 2
	}
	if target.IsCompound == donor.IsCompound {
		score += 1
	}
	return score
}

func muscleOverlapCount(a, b *exercise.Exercise) int {
	bSet := b.PrimarySetOf()
	count := 0
	for _, m := range a.PrimaryMuscles {
		if bSet[m] {
			count++
		}
	}
	return count
}

func patternOverlapCount(a, b *exercise.Exercise) int {
	count := 0
	for _, p := range a.Patterns {
		if b.HasPattern(p) {
			count++
		}
	}
	return count
}

func sameEquipment(a, b *exercise.Exercise) bool {
	return DominantEquipment(a.Equipment) == DominantEquipment(b.Equipment)
}

// clampFatigueScale clamps the donor→target fatigue scaling ratio to
// [0.45, 0.9], spec §4.6 step 5.
func clampFatigueScale(targetFatigue, donorFatigue int) float64 {
	if donorFatigue == 0 {
		return 0.9
	}
	ratio := float64(targetFatigue) / float64(donorFatigue)
	if ratio < 0.45 {
		return 0.45
	}
	if ratio > 0.9 {
		return 0.9
	}
	return ratio
}

// SelectDonor picks the highest-scoring donor candidate sharing at least
// one primary muscle with target, breaking ties by exercise name (spec
// §4.6 step 5). Returns false when no candidate shares a primary muscle.
func SelectDonor(target *exercise.Exercise, candidates []DonorCandidate) (DonorCandidate, bool) {
	var eligible []DonorCandidate
	for _, c := range candidates {
		if c.Exercise.ID == target.ID {
			continue
		}
		if muscleOverlapCount(target, c.Exercise) == 0 {
			continue
		}
		eligible = append(eligible, c)
	}
	if len(eligible) == 0 {
		return DonorCandidate{}, false
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		si := donorScore(target, eligible[i].Exercise)
		sj := donorScore(target, eligible[j].Exercise)
		if si != sj {
			return si > sj
		}
		return eligible[i].Exercise.Name < eligible[j].Exercise.Name
	})
	return eligible[0], true
}

// DonorEstimate scales a chosen donor's load onto the target exercise,
// applying the equipment pair multiplier, an isolation penalty when
// crossing compound→isolation, and the fatigue-cost scale (spec §4.6
// step 5).
func DonorEstimate(target *exercise.Exercise, donor DonorCandidate, targetFatigueCost int) float64 {
	fromEq := DominantEquipment(donor.Exercise.Equipment)
	toEq := DominantEquipment(target.Equipment)
	load := donor.Load * pairMultiplier(fromEq, toEq)

	if donor.Exercise.IsCompound && !target.IsCompound {
		load *= 0.5
	}

	load *= clampFatigueScale(targetFatigueCost, donor.FatigueCost)

	return RoundToHalf(load)
}
