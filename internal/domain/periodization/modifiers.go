package periodization

// PrescriptionModifiers are the block×weekInBlock derived multipliers
// applied by the prescription builder (spec §4.3, §4.7).
type PrescriptionModifiers struct {
	VolumeMultiplier    float64
	IntensityMultiplier float64
	// RIRAdjustment is added to the prescription's base RIR and then
	// clamped to [0, 4] by the caller.
	RIRAdjustment float64
	RestMultiplier float64
}

// GetPeriodizationModifiers computes the block's prescription modifiers
// for the given week within the block, per spec §4.3. This implements
// the continuous-ramp formalization the spec chose to resolve the §9
// open question (as opposed to a discrete four-week lookup table).
func GetPeriodizationModifiers(block TrainingBlock, weekInBlock int) PrescriptionModifiers {
	progress := rampProgress(weekInBlock, block.DurationWeeks)

	switch block.BlockType {
	case Accumulation:
		return PrescriptionModifiers{
			VolumeMultiplier:    lerp(1.0, 1.2, progress),
			IntensityMultiplier: 0.9,
			RIRAdjustment:       lerp(2, 0, progress),
			RestMultiplier:      1.0,
		}
	case Intensification:
		return PrescriptionModifiers{
			VolumeMultiplier:    1.0,
			IntensityMultiplier: lerp(0.95, 1.0, progress),
			RIRAdjustment:       lerp(0, -1, progress),
			RestMultiplier:      1.0,
		}
	case Realization:
		return PrescriptionModifiers{
			VolumeMultiplier:    0.8,
			IntensityMultiplier: 1.0,
			RIRAdjustment:       -1,
			RestMultiplier:      1.2,
		}
	case Deload:
		return PrescriptionModifiers{
			VolumeMultiplier:    0.5,
			IntensityMultiplier: 0.6,
			RIRAdjustment:       lerp(2, 3, progress),
			RestMultiplier:      0.8,
		}
	default:
		return PrescriptionModifiers{VolumeMultiplier: 1.0, IntensityMultiplier: 1.0, RestMultiplier: 1.0}
	}
}

// rampProgress returns weekInBlock's fractional progress through the
// block in [0,1], 0 at week 1.
func rampProgress(weekInBlock, durationWeeks int) float64 {
	denom := durationWeeks - 1
	if denom < 1 {
		denom = 1
	}
	p := float64(weekInBlock-1) / float64(denom)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

func lerp(from, to, progress float64) float64 {
	return from + progress*(to-from)
}

// ClampRIR clamps a computed RIR (base + adjustment) to [0, 4], per spec
// §4.3.
func ClampRIR(baseRIR, adjustment float64) float64 {
	v := baseRIR + adjustment
	if v < 0 {
		return 0
	}
	if v > 4 {
		return 4
	}
	return v
}
