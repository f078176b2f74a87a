package state

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/namechain/namechaind/model"
)

// NullView is the innermost backing view: it misses every lookup and
// swallows every write. A CacheView layered over a NullView acts as a pure
// in-memory chain state.
type NullView struct{}

func NewNullView() *NullView {
	return &NullView{}
}

func (v *NullView) GetCoin(_ context.Context, _ model.Outpoint) (*model.Coin, error) {
	return nil, nil
}

func (v *NullView) HaveCoin(_ context.Context, _ model.Outpoint) (bool, error) {
	return false, nil
}

func (v *NullView) BestBlock(_ context.Context) (*chainhash.Hash, error) {
	return &chainhash.Hash{}, nil
}

func (v *NullView) GetName(_ context.Context, _ []byte) (*model.NameData, error) {
	return nil, nil
}

func (v *NullView) GetNameHistory(_ context.Context, _ []byte) (*model.NameHistory, error) {
	return nil, nil
}

func (v *NullView) GetNamesForHeight(_ context.Context, _ uint32) ([][]byte, error) {
	return nil, nil
}

func (v *NullView) IterateNames(_ context.Context) (NameIterator, error) {
	return &emptyNameIterator{}, nil
}

func (v *NullView) BatchWrite(_ context.Context, _ map[model.Outpoint]*CoinEntry, _ *chainhash.Hash, _ *NameCache) error {
	return nil
}

type emptyNameIterator struct{}

func (it *emptyNameIterator) Next() bool            { return false }
func (it *emptyNameIterator) Seek(_ []byte) bool    { return false }
func (it *emptyNameIterator) Name() []byte          { return nil }
func (it *emptyNameIterator) Data() *model.NameData { return nil }
func (it *emptyNameIterator) Error() error          { return nil }
func (it *emptyNameIterator) Release()              {}
