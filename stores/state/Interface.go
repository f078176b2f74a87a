package state

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/namechain/namechaind/model"
)

// NameIterator walks name records in CompareNames order (length first, then
// lexicographic — the order the database key encoding produces). The usage
// contract follows the leveldb iterators it wraps: call Next before the
// first read, check Error after the loop, always Release.
type NameIterator interface {
	// Next moves to the next name and reports whether one exists.
	Next() bool

	// Seek positions the iterator at the first name >= the given one and
	// reports whether such a name exists. The current position is valid
	// after a successful Seek without a further Next.
	Seek(name []byte) bool

	// Name returns the current name. Only valid after a successful
	// Next/Seek.
	Name() []byte

	// Data returns the current record. Only valid after a successful
	// Next/Seek.
	Data() *model.NameData

	// Error returns the first error hit while iterating or decoding.
	Error() error

	// Release frees the underlying resources.
	Release()
}

// CoinView is the capability set shared by every layer of the chain state:
// the null view, the database view and the cache view. Lookups return
// (nil, nil) for a clean miss; errors are reserved for storage failures.
type CoinView interface {
	// GetCoin returns the unspent output at the given outpoint.
	GetCoin(ctx context.Context, outpoint model.Outpoint) (*model.Coin, error)

	// HaveCoin reports whether an unspent output exists at the outpoint.
	HaveCoin(ctx context.Context, outpoint model.Outpoint) (bool, error)

	// BestBlock returns the hash of the block this view's state reflects.
	BestBlock(ctx context.Context) (*chainhash.Hash, error)

	// GetName returns the current record for a name.
	GetName(ctx context.Context, name []byte) (*model.NameData, error)

	// GetNameHistory returns the stack of superseded records for a name.
	GetNameHistory(ctx context.Context, name []byte) (*model.NameHistory, error)

	// GetNamesForHeight returns the names whose current record was last
	// updated at the given height, in CompareNames order.
	GetNamesForHeight(ctx context.Context, height uint32) ([][]byte, error)

	// IterateNames returns an iterator over all current name records.
	IterateNames(ctx context.Context) (NameIterator, error)

	// BatchWrite merges a child cache's accumulated state into this view:
	// the dirty coin entries, the new best block hash and the name delta.
	// Entries are moved, not copied; the caller must discard them
	// afterwards.
	BatchWrite(ctx context.Context, coins map[model.Outpoint]*CoinEntry, bestBlock *chainhash.Hash, names *NameCache) error
}
