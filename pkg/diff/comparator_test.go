package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareHaltResultsChecksStackAndGas(t *testing.T) {
	comparator := ResultComparator{GasTolerance: 0}

	expected := ExecutionResult{State: "HALT", GasConsumed: 10, Stack: []StackValue{{Type: "Integer", Value: "1"}}}
	actual := ExecutionResult{State: "HALT", GasConsumed: 12, Stack: []StackValue{{Type: "Integer", Value: "2"}}}

	compared := comparator.Compare("vector_halt", expected, actual)

	types := make(map[DiffType]bool)
	for _, d := range compared.Differences {
		types[d.Type] = true
	}
	assert.True(t, types[StackValueMismatch])
	assert.True(t, types[GasMismatch])
}

func TestCompareFaultResultsIgnoreStackAndGasVariance(t *testing.T) {
	comparator := ResultComparator{GasTolerance: 0}

	expected := ExecutionResult{State: "FAULT", GasConsumed: 7, Stack: nil}
	actual := ExecutionResult{State: "FAULT", GasConsumed: 99, Stack: []StackValue{{Type: "Integer", Value: "123"}}}

	compared := comparator.Compare("vector_fault", expected, actual)

	assert.True(t, compared.IsMatch)
	assert.Empty(t, compared.Differences)
}

func TestCompareStateMismatchIsStillReported(t *testing.T) {
	comparator := ResultComparator{GasTolerance: 0}

	expected := ExecutionResult{State: "HALT", GasConsumed: 0, Stack: []StackValue{{Type: "Integer", Value: "1"}}}
	actual := ExecutionResult{State: "FAULT", GasConsumed: 0, Stack: nil}

	compared := comparator.Compare("vector_state", expected, actual)

	assert.False(t, compared.IsMatch)
	assert.Len(t, compared.Differences, 1)
	assert.Equal(t, StateMismatch, compared.Differences[0].Type)
}
