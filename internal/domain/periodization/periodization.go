// Package periodization provides domain logic for the macro → meso → block
// periodization hierarchy: generating a MacroCycle from a training age and
// goal, and resolving a calendar date to a BlockContext. This package
// contains pure business logic with no database dependencies, making it
// testable in isolation.
package periodization

import (
	"errors"
	"fmt"
	"time"

	"github.com/trainprog/engine/internal/domain/statemachine"
)

// TrainingAge classifies a lifter's experience level.
type TrainingAge string

const (
	Beginner     TrainingAge = "beginner"
	Intermediate TrainingAge = "intermediate"
	Advanced     TrainingAge = "advanced"
)

// Goal is the macro-cycle's primary training goal.
type Goal string

const (
	GoalHypertrophy         Goal = "hypertrophy"
	GoalStrength            Goal = "strength"
	GoalStrengthHypertrophy Goal = "strength_hypertrophy"
	GoalFatLoss             Goal = "fat_loss"
	GoalAthleticism         Goal = "athleticism"
	GoalGeneralHealth       Goal = "general_health"
	// GoalGeneralFitness is the internal normalization target for
	// athleticism and general_health (spec §3).
	GoalGeneralFitness Goal = "general_fitness"
)

// NormalizeGoal maps athleticism/general_health onto the internal
// general_fitness goal; all other goals pass through unchanged.
func NormalizeGoal(g Goal) Goal {
	switch g {
	case GoalAthleticism, GoalGeneralHealth:
		return GoalGeneralFitness
	default:
		return g
	}
}

// BlockType is a training block's phase from the closed vocabulary.
type BlockType string

const (
	Accumulation    BlockType = "accumulation"
	Intensification BlockType = "intensification"
	Realization     BlockType = "realization"
	Deload          BlockType = "deload"
)

// AdaptationType is the physiological adaptation target of a block.
type AdaptationType string

const (
	NeuralAdaptation        AdaptationType = "neural_adaptation"
	MyofibrillarHypertrophy AdaptationType = "myofibrillar_hypertrophy"
	SarcoplasmicHypertrophy AdaptationType = "sarcoplasmic_hypertrophy"
	WorkCapacity            AdaptationType = "work_capacity"
	Recovery                AdaptationType = "recovery"
)

// VolumeTarget is a qualitative weekly-volume target.
type VolumeTarget string

const (
	VolumeLow      VolumeTarget = "low"
	VolumeModerate VolumeTarget = "moderate"
	VolumeHigh     VolumeTarget = "high"
	VolumePeak     VolumeTarget = "peak"
)

// IntensityBias is a mesocycle/block's intensity emphasis.
type IntensityBias string

const (
	IntensityStrength   IntensityBias = "strength"
	IntensityHypertrophy IntensityBias = "hypertrophy"
	IntensityEndurance  IntensityBias = "endurance"
)

// Errors for periodization operations.
var (
	ErrUserIDRequired           = errors.New("user id is required")
	ErrDurationWeeksInvalid     = errors.New("duration weeks must be >= 1")
	ErrUnknownTrainingAge       = errors.New("unknown training age")
	ErrBlockDurationMismatch    = errors.New("sum of block durations must equal parent mesocycle duration")
	ErrMesoDurationExceedsMacro = errors.New("sum of mesocycle durations must not exceed macro duration")
	ErrNoFullMesoFits           = errors.New("duration weeks too short to fit a single complete mesocycle")
	ErrBlockTransitionInvalid   = errors.New("template produces an invalid block transition")
)

// TrainingBlock is one phase within a mesocycle.
type TrainingBlock struct {
	BlockNumber    int
	BlockType      BlockType
	StartWeek      int // 0-indexed within the macro
	DurationWeeks  int
	VolumeTarget   VolumeTarget
	IntensityBias  IntensityBias
	AdaptationType AdaptationType
}

// Mesocycle owns an ordered sequence of TrainingBlocks.
type Mesocycle struct {
	MesoNumber    int
	StartWeek     int // 0-indexed within the macro
	DurationWeeks int
	Focus         string
	VolumeTarget  VolumeTarget
	IntensityBias IntensityBias
	Blocks        []TrainingBlock
}

// MacroCycle owns an ordered sequence of Mesocycles.
type MacroCycle struct {
	UserID        string
	StartDate     time.Time
	EndDate       time.Time
	DurationWeeks int
	TrainingAge   TrainingAge
	PrimaryGoal   Goal
	Mesocycles    []Mesocycle
}

// blockSpec describes one block within a meso template before week offsets
// are assigned.
type blockSpec struct {
	blockType     BlockType
	durationWeeks int
}

// mesoTemplate describes a full meso template for a training age.
type mesoTemplate struct {
	blocks []blockSpec
}

func templateFor(age TrainingAge) (mesoTemplate, error) {
	switch age {
	case Beginner:
		return mesoTemplate{blocks: []blockSpec{
			{Accumulation, 3},
			{Deload, 1},
		}}, nil
	case Intermediate:
		return mesoTemplate{blocks: []blockSpec{
			{Accumulation, 2},
			{Intensification, 2},
			{Deload, 1},
		}}, nil
	case Advanced:
		return mesoTemplate{blocks: []blockSpec{
			{Accumulation, 2},
			{Intensification, 2},
			{Realization, 1},
			{Deload, 1},
		}}, nil
	default:
		return mesoTemplate{}, fmt.Errorf("%w: %s", ErrUnknownTrainingAge, age)
	}
}

func (t mesoTemplate) totalWeeks() int {
	total := 0
	for _, b := range t.blocks {
		total += b.durationWeeks
	}
	return total
}

// adaptationTypeFor resolves the adaptation type for a block within a
// mesocycle template for a given training age. This is the spec §9 open
// question resolution: advanced accumulation maps to myofibrillar
// hypertrophy (not sarcoplasmic), matching the test-validated mapping the
// spec defers to; beginner accumulation targets general work capacity
// before hypertrophy-specific adaptation is meaningful.
func adaptationTypeFor(age TrainingAge, bt BlockType) AdaptationType {
	switch bt {
	case Accumulation:
		if age == Beginner {
			return WorkCapacity
		}
		return MyofibrillarHypertrophy
	case Intensification:
		return NeuralAdaptation
	case Realization:
		return NeuralAdaptation
	case Deload:
		return Recovery
	default:
		return Recovery
	}
}

func volumeTargetFor(bt BlockType) VolumeTarget {
	switch bt {
	case Accumulation:
		return VolumeHigh
	case Intensification:
		return VolumeModerate
	case Realization:
		return VolumeLow
	case Deload:
		return VolumeLow
	default:
		return VolumeModerate
	}
}

func intensityBiasFor(bt BlockType) IntensityBias {
	switch bt {
	case Accumulation:
		return IntensityHypertrophy
	case Intensification:
		return IntensityStrength
	case Realization:
		return IntensityStrength
	case Deload:
		return IntensityEndurance
	default:
		return IntensityHypertrophy
	}
}

// GenerateInput carries the parameters for GenerateMacroCycle.
type GenerateInput struct {
	UserID        string
	StartDate     time.Time
	DurationWeeks int
	TrainingAge   TrainingAge
	PrimaryGoal   Goal
}

// GenerateMacroCycle builds a MacroCycle by repeating the training-age's
// meso template as many complete times as fit in durationWeeks; any tail
// weeks that don't fit a complete mesocycle are dropped (never partial
// mesos), per spec §4.3.
func GenerateMacroCycle(in GenerateInput) (*MacroCycle, error) {
	if in.UserID == "" {
		return nil, ErrUserIDRequired
	}
	if in.DurationWeeks < 1 {
		return nil, ErrDurationWeeksInvalid
	}

	tmpl, err := templateFor(in.TrainingAge)
	if err != nil {
		return nil, err
	}
	mesoLength := tmpl.totalWeeks()
	mesoCount := in.DurationWeeks / mesoLength
	if mesoCount < 1 {
		return nil, fmt.Errorf("%w: need at least %d weeks for training age %s, got %d", ErrNoFullMesoFits, mesoLength, in.TrainingAge, in.DurationWeeks)
	}

	macro := &MacroCycle{
		UserID:        in.UserID,
		StartDate:     in.StartDate,
		DurationWeeks: in.DurationWeeks,
		EndDate:       in.StartDate.AddDate(0, 0, 7*in.DurationWeeks),
		TrainingAge:   in.TrainingAge,
		PrimaryGoal:   NormalizeGoal(in.PrimaryGoal),
	}

	var blockSM *BlockStateMachine

	weekCursor := 0
	for mesoIdx := 0; mesoIdx < mesoCount; mesoIdx++ {
		meso := Mesocycle{
			MesoNumber:    mesoIdx + 1,
			StartWeek:     weekCursor,
			DurationWeeks: mesoLength,
		}
		blockCursor := weekCursor
		for blockIdx, spec := range tmpl.blocks {
			if blockSM == nil {
				blockSM = NewBlockStateMachine(spec.blockType)
			} else if blockSM.CurrentState() != statemachine.State(spec.blockType) {
				if err := blockSM.TransitionTo(statemachine.State(spec.blockType)); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrBlockTransitionInvalid, err)
				}
			}

			block := TrainingBlock{
				BlockNumber:    blockIdx + 1,
				BlockType:      spec.blockType,
				StartWeek:      blockCursor,
				DurationWeeks:  spec.durationWeeks,
				VolumeTarget:   volumeTargetFor(spec.blockType),
				IntensityBias:  intensityBiasFor(spec.blockType),
				AdaptationType: adaptationTypeFor(in.TrainingAge, spec.blockType),
			}
			meso.Blocks = append(meso.Blocks, block)
			blockCursor += spec.durationWeeks
		}
		// Meso volumeTarget/intensityBias inherit from the first block.
		meso.VolumeTarget = meso.Blocks[0].VolumeTarget
		meso.IntensityBias = meso.Blocks[0].IntensityBias
		meso.Focus = focusLabel(in.TrainingAge, mesoIdx+1)

		if err := validateMeso(meso); err != nil {
			return nil, err
		}

		macro.Mesocycles = append(macro.Mesocycles, meso)
		weekCursor += mesoLength
	}

	if weekCursor > in.DurationWeeks {
		return nil, ErrMesoDurationExceedsMacro
	}

	return macro, nil
}

func focusLabel(age TrainingAge, mesoNumber int) string {
	return fmt.Sprintf("%s mesocycle %d", age, mesoNumber)
}

func validateMeso(m Mesocycle) error {
	total := 0
	for _, b := range m.Blocks {
		total += b.DurationWeeks
	}
	if total != m.DurationWeeks {
		return ErrBlockDurationMismatch
	}
	return nil
}
