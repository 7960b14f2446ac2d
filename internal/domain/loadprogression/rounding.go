package loadprogression

import "math"

// RoundToHalf rounds a weight to the nearest 0.5 unit, per spec §4.6.
func RoundToHalf(weight float64) float64 {
	return math.Round(weight*2) / 2
}
