package state

import (
	"context"
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/namechain/namechaind/model"
	"github.com/namechain/namechaind/settings"
	"github.com/namechain/namechaind/ulogger"
)

// CacheView is an in-memory overlay of a backing CoinView. It batches coin
// and name changes until Flush merges them down in one atomic BatchWrite.
//
// CacheView is single-writer: callers serialize mutating sequences under
// the chainstate lock. Violations of the calling contract (a second live
// modifier, an undo against mismatched state, overwriting an unspent coin)
// panic, because they mean the block-application logic above is broken.
type CacheView struct {
	logger   ulogger.Logger
	settings *settings.Settings
	base     CoinView

	cacheCoins       map[model.Outpoint]*CoinEntry
	cachedCoinsUsage int64
	bestBlock        *chainhash.Hash
	names            *NameCache
	historyEnabled   bool
	hasModifier      bool
}

func NewCacheView(logger ulogger.Logger, tSettings *settings.Settings, base CoinView) *CacheView {
	initPrometheusMetrics()

	return &CacheView{
		logger:         logger,
		settings:       tSettings,
		base:           base,
		cacheCoins:     make(map[model.Outpoint]*CoinEntry),
		names:          NewNameCache(),
		historyEnabled: tSettings.Name.HistoryEnabled,
	}
}

// fetchCoin returns the cache entry for an outpoint, pulling it up from the
// backing view on first access. Misses are memoized as pruned entries
// marked fresh, so repeated lookups of an absent coin stay in memory; this
// is why lookups grow DynamicMemoryUsage.
func (c *CacheView) fetchCoin(ctx context.Context, outpoint model.Outpoint) (*CoinEntry, error) {
	if entry, ok := c.cacheCoins[outpoint]; ok {
		return entry, nil
	}

	coin, err := c.base.GetCoin(ctx, outpoint)
	if err != nil {
		return nil, err
	}

	entry := &CoinEntry{Coin: coin}
	if coin == nil {
		// The backing layers have nothing for this outpoint; our version is
		// fresh and need never be written down as a deletion.
		entry.markFresh()
	}

	c.cacheCoins[outpoint] = entry
	c.cachedCoinsUsage += entry.usage()

	return entry, nil
}

// GetCoin returns a copy of the coin at the given outpoint, or nil if it is
// absent or spent.
func (c *CacheView) GetCoin(ctx context.Context, outpoint model.Outpoint) (*model.Coin, error) {
	entry, err := c.fetchCoin(ctx, outpoint)
	if err != nil {
		return nil, err
	}

	if entry.IsPruned() {
		return nil, nil
	}

	return entry.Coin.Clone(), nil
}

// AccessCoin is the non-owning variant of GetCoin for read-mostly hot paths
// such as input validation. The returned coin is owned by the cache and
// must not be modified or retained across mutating calls.
func (c *CacheView) AccessCoin(ctx context.Context, outpoint model.Outpoint) (*model.Coin, error) {
	entry, err := c.fetchCoin(ctx, outpoint)
	if err != nil {
		return nil, err
	}

	return entry.Coin, nil
}

func (c *CacheView) HaveCoin(ctx context.Context, outpoint model.Outpoint) (bool, error) {
	entry, err := c.fetchCoin(ctx, outpoint)
	if err != nil {
		return false, err
	}

	return !entry.IsPruned(), nil
}

// HaveCoinInCache reports whether the outpoint has an entry in this layer,
// without touching the backing view.
func (c *CacheView) HaveCoinInCache(outpoint model.Outpoint) bool {
	_, ok := c.cacheCoins[outpoint]
	return ok
}

// SpendCoin prunes the coin and returns it for undo recording. Returns nil
// if no unspent coin exists at the outpoint.
func (c *CacheView) SpendCoin(ctx context.Context, outpoint model.Outpoint) (*model.Coin, error) {
	entry, err := c.fetchCoin(ctx, outpoint)
	if err != nil {
		return nil, err
	}

	if entry.IsPruned() {
		return nil, nil
	}

	moved := entry.Coin
	c.cachedCoinsUsage -= entry.usage()

	if entry.IsFresh() {
		// Nothing below has ever seen this coin: spending it means it never
		// needs to exist anywhere.
		delete(c.cacheCoins, outpoint)
	} else {
		entry.Coin = nil
		entry.markDirty()
	}

	prometheusStateCoinSpend.Inc()

	return moved, nil
}

// AddCoin inserts a new coin. Unless possibleOverwrite is set, an unspent
// coin already at the outpoint is a logic error (transaction ids must be
// unique); the small fixed set of historic duplicate-txid violations passes
// possibleOverwrite=true and is deliberately not marked fresh, so the coin
// is still written down when later overwritten or spent.
func (c *CacheView) AddCoin(_ context.Context, outpoint model.Outpoint, coin *model.Coin, possibleOverwrite bool) {
	if coin == nil {
		panic("AddCoin called with a pruned coin")
	}

	entry, ok := c.cacheCoins[outpoint]
	if !ok {
		entry = &CoinEntry{}
		c.cacheCoins[outpoint] = entry
	} else {
		c.cachedCoinsUsage -= entry.usage()
	}

	fresh := false

	if !possibleOverwrite {
		if !entry.IsPruned() {
			panic(fmt.Sprintf("attempted to overwrite unspent coin %s", outpoint.String()))
		}

		// If the prior entry is dirty, a deeper layer may still hold a
		// record for this outpoint and ours cannot be considered fresh.
		fresh = !entry.IsDirty()
	}

	entry.Coin = coin
	entry.markDirty()

	if fresh {
		entry.markFresh()
	}

	c.cachedCoinsUsage += entry.usage()

	prometheusStateCoinAdd.Inc()
}

// ModifyCoin checks out a scoped mutable handle on one coin entry. Exactly
// one handle may be live per CacheView; its Close runs the same cleanup on
// every exit path, dropping entries that ended up fresh and pruned.
func (c *CacheView) ModifyCoin(ctx context.Context, outpoint model.Outpoint) (*CoinModifier, error) {
	if c.hasModifier {
		panic("re-entrant coin modifier on cache view")
	}

	entry, err := c.fetchCoin(ctx, outpoint)
	if err != nil {
		return nil, err
	}

	c.hasModifier = true
	c.cachedCoinsUsage -= entry.usage()

	return &CoinModifier{view: c, outpoint: outpoint, entry: entry}, nil
}

// Uncache drops a clean entry to reclaim memory. Dirty entries are left
// alone.
func (c *CacheView) Uncache(outpoint model.Outpoint) {
	entry, ok := c.cacheCoins[outpoint]
	if !ok || entry.IsDirty() {
		return
	}

	c.cachedCoinsUsage -= entry.usage()
	delete(c.cacheCoins, outpoint)
}

// DynamicMemoryUsage returns the approximate heap footprint of the cached
// coins.
func (c *CacheView) DynamicMemoryUsage() int64 {
	return c.cachedCoinsUsage
}

// CacheSize returns the number of cached coin entries.
func (c *CacheView) CacheSize() int {
	return len(c.cacheCoins)
}

func (c *CacheView) BestBlock(ctx context.Context) (*chainhash.Hash, error) {
	if c.bestBlock != nil {
		return c.bestBlock, nil
	}

	hash, err := c.base.BestBlock(ctx)
	if err != nil {
		return nil, err
	}

	c.bestBlock = hash

	return hash, nil
}

func (c *CacheView) SetBestBlock(hash *chainhash.Hash) {
	c.bestBlock = hash
}

// GetName returns the current record for a name. Unlike coins, a miss is
// never memoized: the name cache only records changes.
func (c *CacheView) GetName(ctx context.Context, name []byte) (*model.NameData, error) {
	if c.names.IsDeleted(name) {
		return nil, nil
	}

	if data, ok := c.names.Get(name); ok {
		return data.Clone(), nil
	}

	return c.base.GetName(ctx, name)
}

func (c *CacheView) GetNameHistory(ctx context.Context, name []byte) (*model.NameHistory, error) {
	if h, ok := c.names.History(name); ok {
		return h.Clone(), nil
	}

	if c.names.IsDeleted(name) {
		return nil, nil
	}

	return c.base.GetNameHistory(ctx, name)
}

// nameHistoryForUpdate returns a mutable history stack for the name: the
// cached pending one, or a copy of the backing view's, or a new empty
// stack.
func (c *CacheView) nameHistoryForUpdate(ctx context.Context, name []byte) (*model.NameHistory, error) {
	if h, ok := c.names.History(name); ok {
		return h, nil
	}

	h, err := c.base.GetNameHistory(ctx, name)
	if err != nil {
		return nil, err
	}

	if h == nil {
		return model.NewNameHistory(), nil
	}

	return h.Clone(), nil
}

// SetName writes a name record. Going forward (isUndo=false) the previous
// record, if any, is pushed onto the history stack; rewinding
// (isUndo=true) the stack is popped instead and the popped record must
// equal data. The expiry index is moved from the old record's height bucket
// to the new one.
func (c *CacheView) SetName(ctx context.Context, name []byte, data *model.NameData, isUndo bool) error {
	old, err := c.GetName(ctx, name)
	if err != nil {
		return err
	}

	if isUndo && old == nil {
		panic(fmt.Sprintf("name undo for %q with no previous record", name))
	}

	if old != nil {
		c.names.UpdateExpireIndex(old.Height, name, false)
	}

	if c.historyEnabled {
		if isUndo {
			h, err := c.nameHistoryForUpdate(ctx, name)
			if err != nil {
				return err
			}

			h.Pop(data)
			c.names.SetHistory(name, h)
		} else if old != nil {
			h, err := c.nameHistoryForUpdate(ctx, name)
			if err != nil {
				return err
			}

			h.Push(old)
			c.names.SetHistory(name, h)
		}
	}

	c.names.Set(name, data)
	c.names.UpdateExpireIndex(data.Height, name, true)

	prometheusStateNameSet.Inc()

	return nil
}

// DeleteName removes a name record. Only undo of a first registration
// deletes names, so the record must exist and (with history enabled) its
// history stack must already be empty.
func (c *CacheView) DeleteName(ctx context.Context, name []byte) error {
	old, err := c.GetName(ctx, name)
	if err != nil {
		return err
	}

	if old == nil {
		panic(fmt.Sprintf("deleting name %q with no record", name))
	}

	if c.historyEnabled {
		h, err := c.GetNameHistory(ctx, name)
		if err != nil {
			return err
		}

		if h != nil && !h.Empty() {
			panic(fmt.Sprintf("deleting name %q with non-empty history", name))
		}
	}

	c.names.UpdateExpireIndex(old.Height, name, false)
	c.names.Remove(name)

	prometheusStateNameDelete.Inc()

	return nil
}

func (c *CacheView) GetNamesForHeight(ctx context.Context, height uint32) ([][]byte, error) {
	base, err := c.base.GetNamesForHeight(ctx, height)
	if err != nil {
		return nil, err
	}

	return c.names.NamesForHeight(height, base), nil
}

func (c *CacheView) IterateNames(ctx context.Context) (NameIterator, error) {
	baseIter, err := c.base.IterateNames(ctx)
	if err != nil {
		return nil, err
	}

	return newCacheNameIterator(baseIter, c.names), nil
}

// BatchWrite merges a child cache's dirty coin entries and name delta into
// this view.
//
// The coin merge implements the fresh/dirty reconciliation:
//
//  1. No local entry: a fresh and pruned child entry is discarded outright
//     (it never needs to exist anywhere); anything else moves in dirty,
//     keeping fresh only if the child had it.
//  2. Local entry exists: a fresh child over a spendable local entry is a
//     logic error (fresh means the parent holds nothing). A fresh local
//     entry overwritten by a pruned child is deleted on the spot. Otherwise
//     the child's coin overwrites ours and the entry is dirty; the child's
//     fresh flag is never propagated, since the layers below this one may
//     still hold the record.
func (c *CacheView) BatchWrite(_ context.Context, coins map[model.Outpoint]*CoinEntry, bestBlock *chainhash.Hash, names *NameCache) error {
	if c.hasModifier {
		panic("batch write into cache view with live coin modifier")
	}

	for outpoint, child := range coins {
		if !child.IsDirty() {
			continue
		}

		local, ok := c.cacheCoins[outpoint]
		if !ok {
			if child.IsFresh() && child.IsPruned() {
				continue
			}

			entry := &CoinEntry{Coin: child.Coin}
			entry.markDirty()

			if child.IsFresh() {
				entry.markFresh()
			}

			c.cacheCoins[outpoint] = entry
			c.cachedCoinsUsage += entry.usage()

			prometheusStateMergedEntries.Inc()

			continue
		}

		if child.IsFresh() && !local.IsPruned() {
			panic(fmt.Sprintf("fresh entry %s merged over unpruned parent entry", outpoint.String()))
		}

		if local.IsFresh() && child.IsPruned() {
			c.cachedCoinsUsage -= local.usage()
			delete(c.cacheCoins, outpoint)

			prometheusStateMergedEntries.Inc()

			continue
		}

		c.cachedCoinsUsage -= local.usage()
		local.Coin = child.Coin
		local.markDirty()
		c.cachedCoinsUsage += local.usage()

		prometheusStateMergedEntries.Inc()
	}

	if names != nil {
		c.names.Apply(names)
	}

	if bestBlock != nil {
		c.bestBlock = bestBlock
	}

	return nil
}

// Flush commits all accumulated changes into the backing view and empties
// the cache. On error the in-memory state is left untouched, so the flush
// can be retried or the process taken down without corrupting anything.
func (c *CacheView) Flush(ctx context.Context) error {
	if c.hasModifier {
		panic("flush of cache view with live coin modifier")
	}

	dirty := make(map[model.Outpoint]*CoinEntry, len(c.cacheCoins))

	for outpoint, entry := range c.cacheCoins {
		if entry.IsDirty() {
			dirty[outpoint] = entry
		}
	}

	if err := c.base.BatchWrite(ctx, dirty, c.bestBlock, c.names); err != nil {
		return err
	}

	c.logger.Debugf("flushed %d dirty coin entries, usage was %d bytes", len(dirty), c.cachedCoinsUsage)

	c.cacheCoins = make(map[model.Outpoint]*CoinEntry)
	c.cachedCoinsUsage = 0
	c.names = NewNameCache()

	prometheusStateFlush.Inc()

	return nil
}

// CoinModifier is a checked-out handle on one cache entry. Close must be
// called on every path; it returns the token and finalizes the entry.
type CoinModifier struct {
	view     *CacheView
	outpoint model.Outpoint
	entry    *CoinEntry
	closed   bool
}

// Coin returns the entry's coin, nil if pruned. Mutations through the
// returned pointer must be followed by MarkDirty.
func (m *CoinModifier) Coin() *model.Coin {
	return m.entry.Coin
}

// SetCoin replaces the entry's coin (nil prunes it) and marks it dirty.
func (m *CoinModifier) SetCoin(coin *model.Coin) {
	m.entry.Coin = coin
	m.entry.markDirty()
}

// MarkDirty flags the entry for writing on the next flush.
func (m *CoinModifier) MarkDirty() {
	m.entry.markDirty()
}

// Close returns the modifier token and finalizes the entry: an entry that
// ended up fresh and pruned is dropped entirely, anything else goes back
// into the usage accounting.
func (m *CoinModifier) Close() {
	if m.closed {
		return
	}

	m.closed = true
	m.view.hasModifier = false

	if m.entry.IsFresh() && m.entry.IsPruned() {
		delete(m.view.cacheCoins, m.outpoint)
		return
	}

	m.view.cachedCoinsUsage += m.entry.usage()
}
