package ranker

import "math"

// TargetSetsForMuscle implements spec §4.5 stage 3: target_sets =
// round(weeklyTarget / sessionsPerWeek · muscleShare), clamped to [2, 5].
// muscleShare is 1.0 when the exercise is the dominant contributor to the
// muscle in this session, else 0.5.
func TargetSetsForMuscle(state MuscleVolumeState, isDominantContributor bool) int {
	sessionsPerWeek := state.SessionsPerWeek
	if sessionsPerWeek < 1 {
		sessionsPerWeek = 1
	}
	share := 0.5
	if isDominantContributor {
		share = 1.0
	}
	raw := float64(state.WeeklyTarget) / float64(sessionsPerWeek) * share
	sets := int(math.Round(raw))
	if sets < 2 {
		sets = 2
	}
	if sets > 5 {
		sets = 5
	}
	return sets
}
