package vm

import "github.com/r3e-network/neo-go-core/pkg/vm/opcode"

// Gas cost tiers per spec §4.4: 1, 1<<3, 1<<5, 1<<6, 1<<8, 1<<11, 1<<13, 1<<15.
const (
	gasTier0 = 1
	gasTier1 = 1 << 3
	gasTier2 = 1 << 5
	gasTier3 = 1 << 6
	gasTier4 = 1 << 8
	gasTier5 = 1 << 11
	gasTier6 = 1 << 13
	gasTier7 = 1 << 15
)

// SyscallBasePrice is the flat cost of dispatching a SYSCALL
// instruction, before the descriptor's own price (spec §4.4).
const SyscallBasePrice = gasTier2

// opcodePrice returns the gas cost of executing op, not including any
// variable-length surcharge (applied separately for PUSHDATA*).
func opcodePrice(op opcode.Opcode) int64 {
	switch op {
	case opcode.PUSHINT8, opcode.PUSHINT16, opcode.PUSHINT32, opcode.PUSHINT64,
		opcode.PUSHT, opcode.PUSHF, opcode.PUSHNULL, opcode.PUSHM1,
		opcode.PUSH0, opcode.PUSH1, opcode.PUSH2, opcode.PUSH3, opcode.PUSH4,
		opcode.PUSH5, opcode.PUSH6, opcode.PUSH7, opcode.PUSH8, opcode.PUSH9,
		opcode.PUSH10, opcode.PUSH11, opcode.PUSH12, opcode.PUSH13, opcode.PUSH14,
		opcode.PUSH15, opcode.PUSH16, opcode.NOP, opcode.DEPTH, opcode.DROP, opcode.NIP,
		opcode.DUP, opcode.OVER, opcode.SWAP, opcode.ISNULL, opcode.SIGN, opcode.ABS,
		opcode.NEGATE, opcode.INC, opcode.DEC, opcode.NOT, opcode.NZ, opcode.SIZE:
		return gasTier0
	case opcode.PUSHINT128, opcode.PUSHINT256, opcode.PUSHA, opcode.XDROP, opcode.CLEAR,
		opcode.PICK, opcode.TUCK, opcode.ROT, opcode.ROLL, opcode.REVERSE3, opcode.REVERSE4,
		opcode.REVERSEN, opcode.INITSSLOT, opcode.INITSLOT,
		opcode.AND, opcode.OR, opcode.XOR, opcode.EQUAL, opcode.NOTEQUAL,
		opcode.ADD, opcode.SUB, opcode.BOOLAND, opcode.BOOLOR,
		opcode.NUMEQUAL, opcode.NUMNOTEQUAL, opcode.LT, opcode.LE, opcode.GT, opcode.GE,
		opcode.MIN, opcode.MAX, opcode.WITHIN, opcode.NEWARRAY0, opcode.NEWSTRUCT0,
		opcode.NEWMAP, opcode.HASKEY, opcode.ISTYPE, opcode.CONVERT,
		opcode.JMP, opcode.JMPL, opcode.JMPIF, opcode.JMPIFL, opcode.JMPIFNOT, opcode.JMPIFNOTL,
		opcode.JMPEQ, opcode.JMPEQL, opcode.JMPNE, opcode.JMPNEL,
		opcode.JMPGT, opcode.JMPGTL, opcode.JMPGE, opcode.JMPGEL,
		opcode.JMPLT, opcode.JMPLTL, opcode.JMPLE, opcode.JMPLEL,
		opcode.RET, opcode.ABORT, opcode.ABORTMSG:
		return gasTier1
	case opcode.INVERT, opcode.MUL, opcode.DIV, opcode.MOD, opcode.SHL, opcode.SHR,
		opcode.MODMUL, opcode.CALL, opcode.CALLL, opcode.CALLA,
		opcode.ASSERT, opcode.ASSERTMSG, opcode.THROW,
		opcode.TRY, opcode.TRYL, opcode.ENDTRY, opcode.ENDTRYL, opcode.ENDFINALLY,
		opcode.NEWARRAY, opcode.NEWARRAYT, opcode.NEWSTRUCT,
		opcode.PACK, opcode.PACKMAP, opcode.PACKSTRUCT, opcode.UNPACK,
		opcode.KEYS, opcode.VALUES, opcode.PICKITEM, opcode.APPEND, opcode.SETITEM,
		opcode.REVERSEITEMS, opcode.REMOVE, opcode.CLEARITEMS, opcode.POPITEM,
		opcode.CAT, opcode.SUBSTR, opcode.LEFT, opcode.RIGHT, opcode.MEMCPY, opcode.NEWBUFFER:
		return gasTier2
	case opcode.SYSCALL:
		return SyscallBasePrice
	case opcode.POW, opcode.SQRT, opcode.MODPOW:
		return gasTier3
	default:
		return gasTier0
	}
}

// pushDataPrice returns the linear byte-length surcharge for
// PUSHDATA1/2/4 (spec §4.4: "scales linearly with data length").
func pushDataPrice(n int) int64 {
	return gasTier0 * int64(n)
}
