package state

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/namechain/namechaind/model"
)

// BackedView delegates every call to a base view. It exists so callers can
// hold a stable CoinView whose backend can be swapped, e.g. while the
// database view is rebuilt during a reindex.
type BackedView struct {
	base CoinView
}

func NewBackedView(base CoinView) *BackedView {
	return &BackedView{base: base}
}

// SetBackend replaces the view all calls are forwarded to.
func (v *BackedView) SetBackend(base CoinView) {
	v.base = base
}

func (v *BackedView) GetCoin(ctx context.Context, outpoint model.Outpoint) (*model.Coin, error) {
	return v.base.GetCoin(ctx, outpoint)
}

func (v *BackedView) HaveCoin(ctx context.Context, outpoint model.Outpoint) (bool, error) {
	return v.base.HaveCoin(ctx, outpoint)
}

func (v *BackedView) BestBlock(ctx context.Context) (*chainhash.Hash, error) {
	return v.base.BestBlock(ctx)
}

func (v *BackedView) GetName(ctx context.Context, name []byte) (*model.NameData, error) {
	return v.base.GetName(ctx, name)
}

func (v *BackedView) GetNameHistory(ctx context.Context, name []byte) (*model.NameHistory, error) {
	return v.base.GetNameHistory(ctx, name)
}

func (v *BackedView) GetNamesForHeight(ctx context.Context, height uint32) ([][]byte, error) {
	return v.base.GetNamesForHeight(ctx, height)
}

func (v *BackedView) IterateNames(ctx context.Context) (NameIterator, error) {
	return v.base.IterateNames(ctx)
}

func (v *BackedView) BatchWrite(ctx context.Context, coins map[model.Outpoint]*CoinEntry, bestBlock *chainhash.Hash, names *NameCache) error {
	return v.base.BatchWrite(ctx, coins, bestBlock, names)
}
