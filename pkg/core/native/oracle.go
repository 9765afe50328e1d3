package native

import (
	"encoding/binary"
	"fmt"

	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// Oracle request/response size caps (spec §4.6 Oracle).
const (
	MaxOracleURLLength      = 256
	MaxOracleFilterLength   = 128
	MaxOracleCallbackLength = 32
	MaxOracleUserDataLength = 512

	oracleRequestPrice = 50000000
)

const (
	prefixOracleRequestID = 9
	prefixOracleRequest   = 7
	prefixOracleIDList    = 8
)

// oracleRequest is the stored payload of a single pending Oracle
// request (spec §4.6), keyed by its monotonic id.
type oracleRequest struct {
	OriginalTxID   util.Uint256
	GasForResponse int64
	URL            string
	Filter         string
	CallbackHash   util.Uint160
	CallbackMethod string
	UserData       []byte
}

// oracleContract is Oracle (spec §4.6, id -9): it records outstanding
// requests made via `Oracle.request` and resolves them when a
// consensus-carried OracleResponse transaction attribute finalizes.
type oracleContract struct {
	meta *Metadata
}

func newOracle() *oracleContract {
	return &oracleContract{meta: NewMetadata(-9, nativenames.Oracle)}
}

func (c *oracleContract) Metadata() *Metadata { return c.meta }

func (c *oracleContract) Methods() []Method {
	return []Method{
		{Name: "request", Func: c.request, Price: oracleRequestPrice, RequiredFlags: callflag.States | callflag.AllowNotify},
		{Name: "finish", Func: c.finish, Price: 1 << 15, RequiredFlags: callflag.States | callflag.AllowCall | callflag.AllowNotify},
		{Name: "getPrice", Func: c.getPrice, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "setPrice", Func: c.setPrice, Price: 1 << 15, RequiredFlags: callflag.States},
	}
}

func (c *oracleContract) OnPersist(*interop.Context) error   { return nil }
func (c *oracleContract) PostPersist(*interop.Context) error { return nil }

func (c *oracleContract) nextRequestID(ic *interop.Context) uint64 {
	v := ic.DAO.GetStorageItem(c.meta.ID, []byte{prefixOracleRequestID})
	var id uint64
	if len(v) == 8 {
		id = binary.LittleEndian.Uint64(v)
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, id+1)
	_ = ic.DAO.PutStorageItem(c.meta.ID, []byte{prefixOracleRequestID}, buf)
	return id
}

func requestKey(id uint64) []byte {
	k := make([]byte, 9)
	k[0] = prefixOracleRequest
	binary.BigEndian.PutUint64(k[1:], id)
	return k
}

func (c *oracleContract) encodeRequest(r oracleRequest) []byte {
	buf := make([]byte, 0, 64+len(r.URL)+len(r.Filter)+len(r.CallbackMethod)+len(r.UserData))
	buf = append(buf, r.OriginalTxID.BytesBE()...)
	amt := make([]byte, 8)
	binary.LittleEndian.PutUint64(amt, uint64(r.GasForResponse))
	buf = append(buf, amt...)
	buf = appendLP(buf, []byte(r.URL))
	buf = appendLP(buf, []byte(r.Filter))
	buf = append(buf, r.CallbackHash.BytesBE()...)
	buf = appendLP(buf, []byte(r.CallbackMethod))
	buf = appendLP(buf, r.UserData)
	return buf
}

func appendLP(buf, v []byte) []byte {
	l := make([]byte, 2)
	binary.LittleEndian.PutUint16(l, uint16(len(v)))
	buf = append(buf, l...)
	return append(buf, v...)
}

func readLP(b []byte) ([]byte, []byte, error) {
	if len(b) < 2 {
		return nil, nil, fmt.Errorf("oracle: truncated length-prefixed field")
	}
	l := int(binary.LittleEndian.Uint16(b[:2]))
	b = b[2:]
	if len(b) < l {
		return nil, nil, fmt.Errorf("oracle: truncated field body")
	}
	return b[:l], b[l:], nil
}

func (c *oracleContract) decodeRequest(b []byte) (oracleRequest, error) {
	var r oracleRequest
	if len(b) < 32+8 {
		return r, fmt.Errorf("oracle: truncated request record")
	}
	r.OriginalTxID, _ = util.Uint256DecodeBytesBE(b[:32])
	r.GasForResponse = int64(binary.LittleEndian.Uint64(b[32:40]))
	rest := b[40:]
	var v []byte
	var err error
	if v, rest, err = readLP(rest); err != nil {
		return r, err
	}
	r.URL = string(v)
	if v, rest, err = readLP(rest); err != nil {
		return r, err
	}
	r.Filter = string(v)
	if len(rest) < 20 {
		return r, fmt.Errorf("oracle: truncated callback hash")
	}
	r.CallbackHash, _ = util.Uint160DecodeBytesBE(rest[:20])
	rest = rest[20:]
	if v, rest, err = readLP(rest); err != nil {
		return r, err
	}
	r.CallbackMethod = string(v)
	if v, _, err = readLP(rest); err != nil {
		return r, err
	}
	r.UserData = v
	return r, nil
}

func (c *oracleContract) request(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	url, err := popBytes(args, 0)
	if err != nil {
		return nil, err
	}
	if len(url) == 0 || len(url) > MaxOracleURLLength {
		return nil, fmt.Errorf("request: url length out of bounds")
	}
	filter, err := popBytes(args, 1)
	if err != nil {
		return nil, err
	}
	if len(filter) > MaxOracleFilterLength {
		return nil, fmt.Errorf("request: filter too long")
	}
	callbackMethod, err := popBytes(args, 2)
	if err != nil {
		return nil, err
	}
	if len(callbackMethod) == 0 || len(callbackMethod) > MaxOracleCallbackLength {
		return nil, fmt.Errorf("request: callback length out of bounds")
	}
	if len(callbackMethod) > 0 && callbackMethod[0] == '_' {
		return nil, fmt.Errorf("request: callback may not start with _")
	}
	userData, err := popBytes(args, 3)
	if err != nil {
		return nil, err
	}
	if len(userData) > MaxOracleUserDataLength {
		return nil, fmt.Errorf("request: user data too long")
	}
	gasForResponse, err := popInt(args, 4)
	if err != nil || gasForResponse < oracleRequestPrice {
		return nil, fmt.Errorf("request: insufficient gas for response")
	}
	gasC := newGasToken()
	callerHash := ic.VM.CurrentContext().ScriptHash
	if err := gasC.Burn(ic, callerHash, gasForResponse); err != nil {
		return nil, err
	}
	var txid util.Uint256
	if tx, ok := ic.Container.(*transaction.Transaction); ok {
		txid = tx.Hash()
	}
	id := c.nextRequestID(ic)
	req := oracleRequest{
		OriginalTxID:   txid,
		GasForResponse: gasForResponse,
		URL:            string(url),
		Filter:         string(filter),
		CallbackHash:   callerHash,
		CallbackMethod: string(callbackMethod),
		UserData:       userData,
	}
	if err := ic.DAO.PutStorageItem(c.meta.ID, requestKey(id), c.encodeRequest(req)); err != nil {
		return nil, err
	}
	idBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(idBuf, id)
	return nil, ic.AddNotification(c.meta.Hash, "OracleRequest", stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteString(idBuf),
		stackitem.NewByteString(callerHash.BytesBE()),
		stackitem.NewByteString(url),
		stackitem.NewByteString(filter),
	}))
}

// finish resolves the pending request referenced by the container
// transaction's OracleResponse attribute (spec §4.6): it deletes the
// stored request and emits an OracleResponse notification carrying the
// callback hash, callback method, user data, a success flag and the
// result. It does not call the requesting contract's callback.
func (c *oracleContract) finish(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	tx, ok := ic.Container.(*transaction.Transaction)
	if !ok {
		return nil, fmt.Errorf("finish: not a transaction context")
	}
	var resp *transaction.OracleResponse
	for _, a := range tx.Attributes {
		if v, ok := a.Value.(*transaction.OracleResponse); ok {
			resp = v
			break
		}
	}
	if resp == nil {
		return nil, fmt.Errorf("finish: no oracle response attribute")
	}
	key := requestKey(resp.ID)
	raw := ic.DAO.GetStorageItem(c.meta.ID, key)
	if raw == nil {
		return nil, fmt.Errorf("finish: unknown request id %d", resp.ID)
	}
	req, err := c.decodeRequest(raw)
	if err != nil {
		return nil, err
	}
	if err := ic.DAO.DeleteStorageItem(c.meta.ID, key); err != nil {
		return nil, err
	}
	return nil, ic.AddNotification(c.meta.Hash, "OracleResponse", stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteString(req.CallbackHash.BytesBE()),
		stackitem.NewByteString([]byte(req.CallbackMethod)),
		stackitem.NewByteString(req.UserData),
		stackitem.NewBool(resp.Code == transaction.Success),
		stackitem.NewByteString(resp.Result),
	}))
}

func (c *oracleContract) getPrice(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	return int64Item(getInt64(ic, c.meta.ID, []byte{prefixOracleIDList}, oracleRequestPrice))
}

func (c *oracleContract) setPrice(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	if err := requireCommitteeWitness(ic); err != nil {
		return nil, err
	}
	price, err := popInt(args, 0)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("setPrice: invalid price")
	}
	putInt64(ic, c.meta.ID, []byte{prefixOracleIDList}, price)
	return nil, nil
}

func (c *oracleContract) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}
