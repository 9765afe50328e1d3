package native

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/crypto/base58"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// maxStdLibInput bounds every StdLib method's input, as spec §4.6
// requires (itoa/atoi, base64/base58, json, memory search/compare,
// string split are all capped at 1024 bytes).
const maxStdLibInput = 1024

// stdLibContract is StdLib (spec §4.6): string/number/JSON conversion
// helpers with no storage of its own and no hardfork gating.
type stdLibContract struct {
	meta *Metadata
}

func newStdLib() *stdLibContract {
	return &stdLibContract{meta: NewMetadata(-3, nativenames.StdLib)}
}

func (c *stdLibContract) Metadata() *Metadata { return c.meta }

func (c *stdLibContract) Methods() []Method {
	return []Method{
		{Name: "itoa", Func: c.itoa, Price: 1 << 12, RequiredFlags: callflag.None},
		{Name: "atoi", Func: c.atoi, Price: 1 << 12, RequiredFlags: callflag.None},
		{Name: "base64Encode", Func: c.base64Encode, Price: 1 << 12, RequiredFlags: callflag.None},
		{Name: "base64Decode", Func: c.base64Decode, Price: 1 << 12, RequiredFlags: callflag.None},
		{Name: "base58Encode", Func: c.base58Encode, Price: 1 << 13, RequiredFlags: callflag.None},
		{Name: "base58Decode", Func: c.base58Decode, Price: 1 << 13, RequiredFlags: callflag.None},
		{Name: "base58CheckEncode", Func: c.base58CheckEncode, Price: 1 << 16, RequiredFlags: callflag.None},
		{Name: "base58CheckDecode", Func: c.base58CheckDecode, Price: 1 << 16, RequiredFlags: callflag.None},
		{Name: "serialize", Func: c.jsonSerialize, Price: 1 << 12, RequiredFlags: callflag.None},
		{Name: "deserialize", Func: c.jsonDeserialize, Price: 1 << 14, RequiredFlags: callflag.None},
		{Name: "memoryCompare", Func: c.memoryCompare, Price: 1 << 10, RequiredFlags: callflag.None},
		{Name: "memorySearch", Func: c.memorySearch, Price: 1 << 10, RequiredFlags: callflag.None},
		{Name: "stringSplit", Func: c.stringSplit, Price: 1 << 13, RequiredFlags: callflag.None},
	}
}

func (c *stdLibContract) OnPersist(*interop.Context) error   { return nil }
func (c *stdLibContract) PostPersist(*interop.Context) error { return nil }

func checkStdInputSize(b []byte) error {
	if len(b) > maxStdLibInput {
		return fmt.Errorf("stdlib: input exceeds %d bytes", maxStdLibInput)
	}
	return nil
}

func (c *stdLibContract) itoa(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	v, err := stackitem.ToBigInteger(args[0])
	if err != nil {
		return nil, err
	}
	base := int64(10)
	if len(args) > 1 {
		base, err = popInt(args, 1)
		if err != nil {
			return nil, err
		}
	}
	if base != 10 && base != 16 {
		return nil, fmt.Errorf("itoa: unsupported base %d", base)
	}
	if base == 10 {
		return stackitem.NewByteString([]byte(v.String())), nil
	}
	s := v.Text(16)
	if v.Sign() >= 0 && len(s)%2 != 0 {
		s = "0" + s
	}
	return stackitem.NewByteString([]byte(strings.ToUpper(s))), nil
}

func (c *stdLibContract) atoi(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	s, err := stackitem.ToByteString(args[0])
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize([]byte(s)); err != nil {
		return nil, err
	}
	base := int64(10)
	if len(args) > 1 {
		base, err = popInt(args, 1)
		if err != nil {
			return nil, err
		}
	}
	bi, ok := new(big.Int).SetString(string(s), int(base))
	if !ok {
		return nil, fmt.Errorf("atoi: invalid number %q", s)
	}
	return stackitem.NewBigInteger(bi)
}

func (c *stdLibContract) base64Encode(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	b, err := popBytes(args, 0)
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize(b); err != nil {
		return nil, err
	}
	return stackitem.NewByteString([]byte(base64.StdEncoding.EncodeToString(b))), nil
}

func (c *stdLibContract) base64Decode(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	s, err := stackitem.ToByteString(args[0])
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize([]byte(s)); err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(string(s))
	if err != nil {
		return nil, fmt.Errorf("base64Decode: %w", err)
	}
	return stackitem.NewByteString(b), nil
}

func (c *stdLibContract) base58Encode(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	b, err := popBytes(args, 0)
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize(b); err != nil {
		return nil, err
	}
	return stackitem.NewByteString([]byte(base58.Encode(b))), nil
}

func (c *stdLibContract) base58Decode(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	s, err := stackitem.ToByteString(args[0])
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize([]byte(s)); err != nil {
		return nil, err
	}
	b, err := base58.Decode(string(s))
	if err != nil {
		return nil, fmt.Errorf("base58Decode: %w", err)
	}
	return stackitem.NewByteString(b), nil
}

func (c *stdLibContract) base58CheckEncode(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	b, err := popBytes(args, 0)
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize(b); err != nil {
		return nil, err
	}
	return stackitem.NewByteString([]byte(base58.CheckEncode(b))), nil
}

func (c *stdLibContract) base58CheckDecode(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	s, err := stackitem.ToByteString(args[0])
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize([]byte(s)); err != nil {
		return nil, err
	}
	b, err := base58.CheckDecode(string(s))
	if err != nil {
		return nil, fmt.Errorf("base58CheckDecode: %w", err)
	}
	return stackitem.NewByteString(b), nil
}

func (c *stdLibContract) memoryCompare(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	a, err := popBytes(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := popBytes(args, 1)
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize(a); err != nil {
		return nil, err
	}
	if err := checkStdInputSize(b); err != nil {
		return nil, err
	}
	return stackitem.NewBigInteger(big.NewInt(int64(bytes.Compare(a, b))))
}

func (c *stdLibContract) memorySearch(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	mem, err := popBytes(args, 0)
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize(mem); err != nil {
		return nil, err
	}
	val, err := popBytes(args, 1)
	if err != nil {
		return nil, err
	}
	start := int64(0)
	if len(args) > 2 {
		start, err = popInt(args, 2)
		if err != nil {
			return nil, err
		}
	}
	backward := false
	if len(args) > 3 {
		backward = args[3].Bool()
	}
	if start < 0 || int(start) > len(mem) {
		return nil, fmt.Errorf("memorySearch: start out of range")
	}
	var idx int
	if backward {
		idx = bytes.LastIndex(mem[:start+int64(len(val))], val)
		if idx < 0 {
			idx = -1
		}
	} else {
		rel := bytes.Index(mem[start:], val)
		if rel < 0 {
			idx = -1
		} else {
			idx = int(start) + rel
		}
	}
	return stackitem.NewBigInteger(big.NewInt(int64(idx)))
}

func (c *stdLibContract) stringSplit(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	s, err := stackitem.ToByteString(args[0])
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize([]byte(s)); err != nil {
		return nil, err
	}
	sep, err := stackitem.ToByteString(args[1])
	if err != nil {
		return nil, err
	}
	removeEmpty := false
	if len(args) > 2 {
		removeEmpty = args[2].Bool()
	}
	parts := strings.Split(string(s), string(sep))
	items := make([]stackitem.Item, 0, len(parts))
	for _, p := range parts {
		if removeEmpty && p == "" {
			continue
		}
		items = append(items, stackitem.NewByteString([]byte(p)))
	}
	return stackitem.NewArray(items), nil
}

func (c *stdLibContract) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}

// --- JSON <-> stack item correspondence (spec §4.6) ---

func (c *stdLibContract) jsonSerialize(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("serialize: missing argument")
	}
	var buf bytes.Buffer
	if err := writeJSONItem(&buf, args[0]); err != nil {
		return nil, err
	}
	if err := checkStdInputSize(buf.Bytes()); err != nil {
		return nil, err
	}
	return stackitem.NewByteString(buf.Bytes()), nil
}

func (c *stdLibContract) jsonDeserialize(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	b, err := popBytes(args, 0)
	if err != nil {
		return nil, err
	}
	if err := checkStdInputSize(b); err != nil {
		return nil, err
	}
	p := &jsonParser{s: string(b)}
	item, err := p.parseValue()
	if err != nil {
		return nil, fmt.Errorf("deserialize: %w", err)
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("deserialize: trailing data")
	}
	return item, nil
}

func writeJSONItem(buf *bytes.Buffer, it stackitem.Item) error {
	switch v := it.(type) {
	case stackitem.Null:
		buf.WriteString("null")
	case stackitem.Bool:
		if bool(v) {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case *stackitem.BigInteger:
		buf.WriteString(v.Value.String())
	case stackitem.ByteString:
		writeJSONString(buf, string(v))
	case *stackitem.Buffer:
		writeJSONString(buf, base64.StdEncoding.EncodeToString(v.Value))
	case *stackitem.Array:
		buf.WriteByte('[')
		for i, el := range v.Value() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONItem(buf, el); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *stackitem.Map:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			ks, err := stackitem.ToByteString(k)
			if err != nil {
				return err
			}
			writeJSONString(buf, string(ks))
			buf.WriteByte(':')
			val, _ := v.Get(k)
			if err := writeJSONItem(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("serialize: unsupported item type %v", it.Type())
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// jsonParser is a minimal recursive-descent JSON reader producing
// stack items directly, avoiding a round trip through encoding/json's
// interface{} representation (which can't distinguish Buffer from
// ByteString or represent arbitrary-precision integers exactly).
type jsonParser struct {
	s   string
	pos int
}

func (p *jsonParser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsonParser) parseValue() (stackitem.Item, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch p.s[p.pos] {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return stackitem.NewByteString([]byte(s)), nil
	case 't':
		return p.parseLiteral("true", stackitem.NewBool(true))
	case 'f':
		return p.parseLiteral("false", stackitem.NewBool(false))
	case 'n':
		return p.parseLiteral("null", stackitem.NewNull())
	default:
		return p.parseNumber()
	}
}

func (p *jsonParser) parseLiteral(lit string, item stackitem.Item) (stackitem.Item, error) {
	if p.pos+len(lit) > len(p.s) || p.s[p.pos:p.pos+len(lit)] != lit {
		return nil, fmt.Errorf("invalid literal at %d", p.pos)
	}
	p.pos += len(lit)
	return item, nil
}

func (p *jsonParser) parseNumber() (stackitem.Item, error) {
	start := p.pos
	for p.pos < len(p.s) && strings.ContainsRune("-+0123456789", rune(p.s[p.pos])) {
		p.pos++
	}
	if start == p.pos {
		return nil, fmt.Errorf("invalid number at %d", start)
	}
	bi, ok := new(big.Int).SetString(p.s[start:p.pos], 10)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", p.s[start:p.pos])
	}
	return stackitem.NewBigInteger(bi)
}

func (p *jsonParser) parseString() (string, error) {
	if p.s[p.pos] != '"' {
		return "", fmt.Errorf("expected string at %d", p.pos)
	}
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.s) {
				return "", fmt.Errorf("unterminated escape")
			}
			switch p.s[p.pos] {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case '/':
				sb.WriteByte('/')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				return "", fmt.Errorf("unsupported escape \\%c", p.s[p.pos])
			}
			p.pos++
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("unterminated string")
}

func (p *jsonParser) parseArray() (stackitem.Item, error) {
	p.pos++ // '['
	arr := stackitem.NewArray(nil)
	p.skipSpace()
	if p.pos < len(p.s) && p.s[p.pos] == ']' {
		p.pos++
		return arr, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Append(v)
		p.skipSpace()
		if p.pos >= len(p.s) {
			return nil, fmt.Errorf("unterminated array")
		}
		if p.s[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.s[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		return nil, fmt.Errorf("expected ',' or ']' at %d", p.pos)
	}
}

func (p *jsonParser) parseObject() (stackitem.Item, error) {
	p.pos++ // '{'
	m := stackitem.NewMap()
	p.skipSpace()
	if p.pos < len(p.s) && p.s[p.pos] == '}' {
		p.pos++
		return m, nil
	}
	for {
		p.skipSpace()
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.s) || p.s[p.pos] != ':' {
			return nil, fmt.Errorf("expected ':' at %d", p.pos)
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		m.Set(stackitem.NewByteString([]byte(key)), v)
		p.skipSpace()
		if p.pos >= len(p.s) {
			return nil, fmt.Errorf("unterminated object")
		}
		if p.s[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.s[p.pos] == '}' {
			p.pos++
			return m, nil
		}
		return nil, fmt.Errorf("expected ',' or '}' at %d", p.pos)
	}
}
