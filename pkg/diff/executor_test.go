package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePushOne(t *testing.T) {
	v := Vector{Name: "push1", Script: "1140"}
	res, err := Execute(v, nil)
	require.NoError(t, err)
	assert.Equal(t, "HALT", res.State)
	require.Len(t, res.Stack, 1)
	assert.Equal(t, "Integer", res.Stack[0].Type)
	assert.Equal(t, "1", res.Stack[0].Value)
}

func TestExecuteFaultsOnStackUnderflow(t *testing.T) {
	v := Vector{Name: "underflow", Script: "9e"}
	res, err := Execute(v, nil)
	require.NoError(t, err)
	assert.Equal(t, "FAULT", res.State)
	assert.NotEmpty(t, res.Exception)
}

func TestExecuteMatchesVectorExpectation(t *testing.T) {
	v := Vector{
		Name:          "push1",
		Script:        "1140",
		ExpectedState: "HALT",
		ExpectedStack: []StackValue{{Type: "Integer", Value: "1"}},
	}
	actual, err := Execute(v, nil)
	require.NoError(t, err)

	comparator := ResultComparator{GasTolerance: 1000000}
	compared := comparator.Compare(v.Name, ExpectedResultFromVector(v), actual)
	assert.True(t, compared.IsMatch, compared.Differences)
}
