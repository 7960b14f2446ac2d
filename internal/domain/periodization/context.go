package periodization

import (
	"time"
)

// ContextSource records how a BlockContext was obtained, for observability.
type ContextSource string

const (
	// SourceComputed means the context was derived from a real MacroCycle.
	SourceComputed ContextSource = "computed"
	// SourceFallback means the caller supplied a CycleContextSnapshot
	// because no macro exists for the date (spec §4.3, §7 DateOutOfRange).
	SourceFallback ContextSource = "fallback"
	// SourceNone means no context could be resolved at all.
	SourceNone ContextSource = "none"
)

// BlockContext is the derived date→phase resolution (spec §3).
type BlockContext struct {
	Block       TrainingBlock
	WeekInBlock int // 1-based
	WeekInMeso  int // 1-based
	WeekInMacro int // 1-based
	Mesocycle   Mesocycle
	MacroCycle  *MacroCycle
	Source      ContextSource
}

// CycleContextSnapshot is a caller-supplied fallback context used when no
// MacroCycle exists for a date (spec §4.3). Its Source is always
// "fallback".
type CycleContextSnapshot struct {
	Block       TrainingBlock
	WeekInBlock int
	WeekInMeso  int
	WeekInMacro int
	Mesocycle   Mesocycle
}

// DeriveBlockContext resolves a calendar date to a BlockContext within a
// MacroCycle, per spec §4.3:
//
//	daysSinceStart = floor((workoutDate - macro.startDate) / 1 day)
//	weekInMacro = floor(daysSinceStart / 7) + 1        ; 1-based
//	if weekInMacro not in [1, macro.durationWeeks] -> null
//	weekIndex = weekInMacro - 1                         ; 0-based
//	meso = unique m where weekIndex in [m.startWeek, m.startWeek+m.durationWeeks)
//	block = unique b in meso where weekIndex in [b.startWeek, b.startWeek+b.durationWeeks)
//
// Returns (nil, false) when the date falls outside the macro's
// bounds or inside a week not covered by any mesocycle/block (a
// malformed macro). Callers may fall back to a CycleContextSnapshot in
// that case (spec §7 DateOutOfRange).
func DeriveBlockContext(macro *MacroCycle, workoutDate time.Time) (*BlockContext, bool) {
	if macro == nil {
		return nil, false
	}

	daysSinceStart := int(workoutDate.Sub(macro.StartDate).Hours() / 24)
	if daysSinceStart < 0 {
		return nil, false
	}
	weekInMacro := daysSinceStart/7 + 1
	if weekInMacro < 1 || weekInMacro > macro.DurationWeeks {
		return nil, false
	}
	weekIndex := weekInMacro - 1

	for _, meso := range macro.Mesocycles {
		if weekIndex < meso.StartWeek || weekIndex >= meso.StartWeek+meso.DurationWeeks {
			continue
		}
		for _, block := range meso.Blocks {
			if weekIndex < block.StartWeek || weekIndex >= block.StartWeek+block.DurationWeeks {
				continue
			}
			return &BlockContext{
				Block:       block,
				WeekInBlock: weekIndex - block.StartWeek + 1,
				WeekInMeso:  weekIndex - meso.StartWeek + 1,
				WeekInMacro: weekInMacro,
				Mesocycle:   meso,
				MacroCycle:  macro,
				Source:      SourceComputed,
			}, true
		}
	}
	return nil, false
}

// FromFallback builds a BlockContext from a caller-supplied snapshot when
// no macro exists for a date (spec §4.3, §7).
func FromFallback(snapshot CycleContextSnapshot) *BlockContext {
	return &BlockContext{
		Block:       snapshot.Block,
		WeekInBlock: snapshot.WeekInBlock,
		WeekInMeso:  snapshot.WeekInMeso,
		WeekInMacro: snapshot.WeekInMacro,
		Mesocycle:   snapshot.Mesocycle,
		MacroCycle:  nil,
		Source:      SourceFallback,
	}
}
