package periodization

import (
	"github.com/trainprog/engine/internal/domain/statemachine"
)

// blockTransitions enumerates every valid block-type transition across
// all training-age templates: accumulation feeds intensification
// (intermediate/advanced) or straight to deload (beginner);
// intensification feeds realization (advanced) or deload (intermediate);
// realization feeds deload; deload wraps back to accumulation for the
// next mesocycle.
var blockTransitions = []statemachine.Transition{
	{From: statemachine.State(Accumulation), To: statemachine.State(Intensification)},
	{From: statemachine.State(Accumulation), To: statemachine.State(Deload)},
	{From: statemachine.State(Intensification), To: statemachine.State(Realization)},
	{From: statemachine.State(Intensification), To: statemachine.State(Deload)},
	{From: statemachine.State(Realization), To: statemachine.State(Deload)},
	{From: statemachine.State(Deload), To: statemachine.State(Accumulation)},
}

// BlockStateMachine tracks the current block type and validates
// transitions between blocks as the macro progresses. It adapts the
// teacher's generic statemachine.StateMachine interface to the
// periodization domain.
type BlockStateMachine struct {
	state statemachine.State
}

// NewBlockStateMachine creates a BlockStateMachine starting at the given
// block type.
func NewBlockStateMachine(initial BlockType) *BlockStateMachine {
	return &BlockStateMachine{state: statemachine.State(initial)}
}

// CurrentState returns the current block type as a statemachine.State.
func (sm *BlockStateMachine) CurrentState() statemachine.State {
	return sm.state
}

// ValidTransitions returns all valid block-type transitions.
func (sm *BlockStateMachine) ValidTransitions() []statemachine.Transition {
	return blockTransitions
}

// CanTransitionTo checks if a transition to the target block type is
// valid from the current state.
func (sm *BlockStateMachine) CanTransitionTo(target statemachine.State) bool {
	for _, t := range blockTransitions {
		if t.From == sm.state && t.To == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target block type.
func (sm *BlockStateMachine) TransitionTo(target statemachine.State) error {
	if !sm.CanTransitionTo(target) {
		return statemachine.NewInvalidTransitionError(sm.state, target)
	}
	sm.state = target
	return nil
}

var _ statemachine.StateMachine = (*BlockStateMachine)(nil)
