package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/opcode"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
	"github.com/r3e-network/neo-go-core/pkg/vm/vmstate"
)

func runScript(t *testing.T, script []byte, gasLimit int64) *Engine {
	t.Helper()
	e := NewEngine(gasLimit, 0)
	e.LoadScript(script, util.Uint160{}, callflag.All)
	e.Execute()
	return e
}

func TestEnginePushAdd(t *testing.T) {
	script := []byte{byte(opcode.PUSH3), byte(opcode.PUSH5), byte(opcode.ADD)}
	e := runScript(t, script, 10_000_000)
	require.Equal(t, vmstate.Halt, e.State, "fault: %v", e.Err())
	require.Equal(t, 1, e.Result.Len())
	it, err := e.Result.Pop()
	require.NoError(t, err)
	bi, ok := it.(*stackitem.BigInteger)
	require.True(t, ok)
	assert.Equal(t, int64(8), bi.Value.Int64())
}

func TestEngineJumpPastScriptFaults(t *testing.T) {
	// JMP with an offset that lands past the end of the script.
	script := []byte{byte(opcode.JMP), 0x7F}
	e := runScript(t, script, 10_000_000)
	assert.Equal(t, vmstate.Fault, e.State)
}

func TestEnginePushDataCat(t *testing.T) {
	script := []byte{
		byte(opcode.PUSHDATA1), 2, 'h', 'i',
		byte(opcode.PUSHDATA1), 2, '!', '!',
		byte(opcode.CAT),
	}
	e := runScript(t, script, 10_000_000)
	require.Equal(t, vmstate.Halt, e.State, "fault: %v", e.Err())
	it, err := e.Result.Pop()
	require.NoError(t, err)
	buf, ok := it.(*stackitem.Buffer)
	require.True(t, ok)
	assert.Equal(t, "hi!!", string(buf.Value))
}

func TestEngineOutOfGasFaults(t *testing.T) {
	script := []byte{byte(opcode.PUSH1), byte(opcode.PUSH1), byte(opcode.ADD)}
	e := runScript(t, script, 1)
	assert.Equal(t, vmstate.Fault, e.State)
	assert.ErrorContains(t, e.Err(), "gas")
}

func TestEngineTryCatch(t *testing.T) {
	// TRY with catch at +5 (relative to TRY opcode, landing on PUSH2),
	// no finally.
	script := []byte{
		byte(opcode.TRY), 5, 0,
		byte(opcode.PUSHNULL),
		byte(opcode.THROW),
		byte(opcode.PUSH2),
		byte(opcode.RET),
	}
	e := runScript(t, script, 10_000_000)
	require.Equal(t, vmstate.Halt, e.State, "fault: %v", e.Err())
	it, err := e.Result.Pop()
	require.NoError(t, err)
	bi, ok := it.(*stackitem.BigInteger)
	require.True(t, ok)
	assert.Equal(t, int64(2), bi.Value.Int64())
}

func TestEngineAssertFaultsUncaught(t *testing.T) {
	script := []byte{byte(opcode.PUSHF), byte(opcode.ASSERT)}
	e := runScript(t, script, 10_000_000)
	assert.Equal(t, vmstate.Fault, e.State)
}

func TestEngineCallReturnsToCaller(t *testing.T) {
	// CALL +5 (lands on PUSH9 at index 5); callee pushes 9 and RETs;
	// caller continues after CALL with PUSH1 ADD.
	script := []byte{
		byte(opcode.CALL), 5,
		byte(opcode.PUSH1),
		byte(opcode.ADD),
		byte(opcode.RET),
		byte(opcode.PUSH9),
		byte(opcode.RET),
	}
	e := runScript(t, script, 10_000_000)
	require.Equal(t, vmstate.Halt, e.State, "fault: %v", e.Err())
	it, err := e.Result.Pop()
	require.NoError(t, err)
	bi, ok := it.(*stackitem.BigInteger)
	require.True(t, ok)
	assert.Equal(t, int64(10), bi.Value.Int64())
}
