package native

import (
	"fmt"
	"math/big"

	"github.com/r3e-network/neo-go-core/pkg/core/block"
	"github.com/r3e-network/neo-go-core/pkg/core/interop"
	"github.com/r3e-network/neo-go-core/pkg/core/native/nativenames"
	"github.com/r3e-network/neo-go-core/pkg/core/transaction"
	"github.com/r3e-network/neo-go-core/pkg/smartcontract/callflag"
	"github.com/r3e-network/neo-go-core/pkg/util"
	"github.com/r3e-network/neo-go-core/pkg/vm/stackitem"
)

// ledgerContract is LedgerContract (spec §4.6, id -4): a read-only
// view over the blocks and transactions dao.Simple already persists.
// It has no storage of its own; every method is a formatted read of
// the DAO's block/transaction tables.
type ledgerContract struct {
	meta *Metadata
}

func newLedger() *ledgerContract {
	return &ledgerContract{meta: NewMetadata(-4, nativenames.Ledger)}
}

func (c *ledgerContract) Metadata() *Metadata { return c.meta }

func (c *ledgerContract) Methods() []Method {
	return []Method{
		{Name: "currentHash", Func: c.currentHash, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "currentIndex", Func: c.currentIndex, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "getBlock", Func: c.getBlock, Price: 1 << 16, RequiredFlags: callflag.ReadStates},
		{Name: "getTransaction", Func: c.getTransaction, Price: 1 << 16, RequiredFlags: callflag.ReadStates},
		{Name: "getTransactionHeight", Func: c.getTransactionHeight, Price: 1 << 15, RequiredFlags: callflag.ReadStates},
		{Name: "getTransactionFromBlock", Func: c.getTransactionFromBlock, Price: 1 << 16, RequiredFlags: callflag.ReadStates},
	}
}

// OnPersist records the persisting block so getBlock/currentHash see
// it immediately, before the caller's own StoreAsCurrentBlock runs
// (spec §4.7: natives must see the block they are persisting).
func (c *ledgerContract) OnPersist(ic *interop.Context) error {
	if ic.Block == nil {
		return nil
	}
	if err := ic.DAO.StoreAsBlock(ic.Block); err != nil {
		return err
	}
	if err := ic.DAO.StoreAsCurrentBlock(ic.Block); err != nil {
		return err
	}
	if err := ic.DAO.StoreHeaderHashByIndex(ic.Block.Index, ic.Block.Hash()); err != nil {
		return err
	}
	for _, tx := range ic.Block.Transactions {
		if err := ic.DAO.StoreAsTransaction(tx, ic.Block.Index); err != nil {
			return err
		}
	}
	return nil
}

func (c *ledgerContract) PostPersist(*interop.Context) error { return nil }

func (c *ledgerContract) currentHash(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := c.resolveCurrentHash(ic)
	if err != nil {
		return nil, err
	}
	return stackitem.NewByteString(h.BytesBE()), nil
}

func (c *ledgerContract) resolveCurrentHash(ic *interop.Context) (util.Uint256, error) {
	if ic.Block != nil {
		return ic.Block.Hash(), nil
	}
	height, err := ic.DAO.GetCurrentBlockHeight()
	if err != nil {
		return util.Uint256{}, err
	}
	h, err := ic.DAO.GetHeaderHashByIndex(height)
	return h, err
}

func (c *ledgerContract) currentIndex(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	index, err := c.resolveCurrentIndex(ic)
	if err != nil {
		return nil, err
	}
	bi, err := stackitem.NewBigInteger(big.NewInt(int64(index)))
	if err != nil {
		return nil, err
	}
	return bi, nil
}

func (c *ledgerContract) resolveCurrentIndex(ic *interop.Context) (uint32, error) {
	if ic.Block != nil {
		return ic.Block.Index, nil
	}
	return ic.DAO.GetCurrentBlockHeight()
}

func (c *ledgerContract) blockByArg(ic *interop.Context, args []stackitem.Item) (*block.Block, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("getBlock: missing argument")
	}
	bs, err := stackitem.ToByteString(args[0])
	if err == nil && len(bs) == util.Uint256Size {
		h, herr := util.Uint256DecodeBytesBE([]byte(bs))
		if herr != nil {
			return nil, herr
		}
		return ic.DAO.GetBlock(h)
	}
	idx, err := popInt(args, 0)
	if err != nil {
		return nil, err
	}
	h, err := ic.DAO.GetHeaderHashByIndex(uint32(idx))
	if err != nil {
		return nil, err
	}
	return ic.DAO.GetBlock(h)
}

func (c *ledgerContract) getBlock(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	blk, err := c.blockByArg(ic, args)
	if err != nil {
		return stackitem.NewNull(), nil
	}
	return blockStackItem(blk), nil
}

func (c *ledgerContract) getTransaction(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popHash256(args, 0)
	if err != nil {
		return nil, err
	}
	tx, _, err := ic.DAO.GetTransaction(h)
	if err != nil {
		return stackitem.NewNull(), nil
	}
	return transactionStackItem(tx), nil
}

func (c *ledgerContract) getTransactionHeight(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	h, err := popHash256(args, 0)
	if err != nil {
		return nil, err
	}
	_, idx, err := ic.DAO.GetTransaction(h)
	if err != nil {
		bi, _ := stackitem.NewBigInteger(big.NewInt(-1))
		return bi, nil
	}
	bi, err := stackitem.NewBigInteger(big.NewInt(int64(idx)))
	if err != nil {
		return nil, err
	}
	return bi, nil
}

func (c *ledgerContract) getTransactionFromBlock(ic *interop.Context, args []stackitem.Item) (stackitem.Item, error) {
	blk, err := c.blockByArg(ic, args)
	if err != nil {
		return stackitem.NewNull(), nil
	}
	idx, err := popInt(args, 1)
	if err != nil {
		return nil, err
	}
	if idx < 0 || int(idx) >= len(blk.Transactions) {
		return stackitem.NewNull(), nil
	}
	return transactionStackItem(blk.Transactions[idx]), nil
}

func popHash256(args []stackitem.Item, i int) (util.Uint256, error) {
	if i >= len(args) {
		return util.Uint256{}, fmt.Errorf("missing argument %d", i)
	}
	bs, err := stackitem.ToByteString(args[i])
	if err != nil {
		return util.Uint256{}, err
	}
	return util.Uint256DecodeBytesBE([]byte(bs))
}

func blockStackItem(b *block.Block) stackitem.Item {
	indexItem, _ := stackitem.NewBigInteger(big.NewInt(int64(b.Index)))
	tsItem, _ := stackitem.NewBigInteger(big.NewInt(int64(b.Timestamp)))
	nonceItem, _ := stackitem.NewBigInteger(new(big.Int).SetUint64(b.Nonce))
	versionItem, _ := stackitem.NewBigInteger(big.NewInt(int64(b.Version)))
	primaryItem, _ := stackitem.NewBigInteger(big.NewInt(int64(b.PrimaryIndex)))
	txCountItem, _ := stackitem.NewBigInteger(big.NewInt(int64(len(b.Transactions))))
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteString(b.Hash().BytesBE()),
		versionItem,
		stackitem.NewByteString(b.PrevHash.BytesBE()),
		stackitem.NewByteString(b.MerkleRoot.BytesBE()),
		tsItem,
		nonceItem,
		indexItem,
		primaryItem,
		stackitem.NewByteString(b.NextConsensus.BytesBE()),
		txCountItem,
	})
}

func transactionStackItem(t *transaction.Transaction) stackitem.Item {
	verItem, _ := stackitem.NewBigInteger(big.NewInt(int64(t.Version)))
	nonceItem, _ := stackitem.NewBigInteger(new(big.Int).SetUint64(uint64(t.Nonce)))
	sysFeeItem, _ := stackitem.NewBigInteger(big.NewInt(t.SystemFee))
	netFeeItem, _ := stackitem.NewBigInteger(big.NewInt(t.NetworkFee))
	validItem, _ := stackitem.NewBigInteger(big.NewInt(int64(t.ValidUntilBlock)))
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteString(t.Hash().BytesBE()),
		verItem,
		nonceItem,
		stackitem.NewByteString(t.Sender().BytesBE()),
		sysFeeItem,
		netFeeItem,
		validItem,
		stackitem.NewByteString(t.Script),
	})
}

func (c *ledgerContract) GetContractScript(*interop.Context, util.Uint160) ([]byte, int32, bool) {
	return nil, 0, false
}
