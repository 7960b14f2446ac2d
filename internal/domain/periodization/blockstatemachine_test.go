package periodization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainprog/engine/internal/domain/statemachine"
)

func TestBlockStateMachine_ValidTransitions(t *testing.T) {
	sm := NewBlockStateMachine(Accumulation)
	assert.True(t, sm.CanTransitionTo(statemachine.State(Intensification)))
	assert.True(t, sm.CanTransitionTo(statemachine.State(Deload)))
	assert.False(t, sm.CanTransitionTo(statemachine.State(Realization)))

	require.NoError(t, sm.TransitionTo(statemachine.State(Intensification)))
	assert.Equal(t, statemachine.State(Intensification), sm.CurrentState())
}

func TestBlockStateMachine_InvalidTransition(t *testing.T) {
	sm := NewBlockStateMachine(Realization)
	err := sm.TransitionTo(statemachine.State(Accumulation))
	require.Error(t, err)
	var invalidErr *statemachine.InvalidTransitionError
	require.ErrorAs(t, err, &invalidErr)
}

func TestBlockStateMachine_DeloadWrapsToAccumulation(t *testing.T) {
	sm := NewBlockStateMachine(Deload)
	require.True(t, sm.CanTransitionTo(statemachine.State(Accumulation)))
	require.NoError(t, sm.TransitionTo(statemachine.State(Accumulation)))
}
