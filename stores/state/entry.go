package state

import (
	"github.com/namechain/namechaind/model"
)

const (
	// entryDirty marks an entry that differs from the backing view and must
	// be written on flush.
	entryDirty = 1 << iota

	// entryFresh marks an entry the backing layers are known not to hold.
	// A fresh entry that becomes pruned again can be dropped instead of
	// being written down as a deletion.
	entryFresh
)

// CoinEntry is one cached coin together with its flush bookkeeping flags.
// A nil Coin means the output is pruned (spent).
type CoinEntry struct {
	Coin  *model.Coin
	flags uint8
}

// NewCoinEntry returns an entry carrying the given coin, flagged dirty so
// a BatchWrite persists it. A nil coin records a deletion.
func NewCoinEntry(coin *model.Coin) *CoinEntry {
	e := &CoinEntry{Coin: coin}
	e.markDirty()

	return e
}

func (e *CoinEntry) IsDirty() bool {
	return e.flags&entryDirty != 0
}

func (e *CoinEntry) IsFresh() bool {
	return e.flags&entryFresh != 0
}

func (e *CoinEntry) IsPruned() bool {
	return e.Coin == nil
}

func (e *CoinEntry) markDirty() {
	e.flags |= entryDirty
}

func (e *CoinEntry) markFresh() {
	e.flags |= entryFresh
}

func (e *CoinEntry) usage() int64 {
	return e.Coin.DynamicMemoryUsage()
}
