package state

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/namechain/namechaind/model"
	"github.com/namechain/namechaind/settings"
	"github.com/namechain/namechaind/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestView(t *testing.T, base CoinView) *CacheView {
	t.Helper()

	if base == nil {
		base = NewNullView()
	}

	return NewCacheView(ulogger.TestLogger{}, settings.NewTestSettings(), base)
}

func outpoint(seed byte, index uint32) model.Outpoint {
	hash := chainhash.HashH([]byte{seed})
	return model.NewOutpoint(&hash, index)
}

func coin(value uint64, height uint32) *model.Coin {
	return model.NewCoin(value, []byte{0x51}, height, false)
}

func TestCacheViewAddGetSpend(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	op := outpoint(1, 0)
	c := coin(100, 10)

	have, err := view.HaveCoin(ctx, op)
	require.NoError(t, err)
	require.False(t, have)

	view.AddCoin(ctx, op, c, false)

	got, err := view.GetCoin(ctx, op)
	require.NoError(t, err)
	require.True(t, c.Equal(got))

	// GetCoin must hand out a copy
	got.Value = 999

	again, err := view.GetCoin(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), again.Value)

	spent, err := view.SpendCoin(ctx, op)
	require.NoError(t, err)
	require.True(t, c.Equal(spent))

	gone, err := view.GetCoin(ctx, op)
	require.NoError(t, err)
	assert.Nil(t, gone)

	respent, err := view.SpendCoin(ctx, op)
	require.NoError(t, err)
	assert.Nil(t, respent)
}

func TestCacheViewFreshSpendLeavesNoTrace(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	child := newTestView(t, parent)

	op := outpoint(2, 0)

	// added and spent inside the same child layer: the coin was never
	// visible below and must vanish entirely
	child.AddCoin(ctx, op, coin(50, 5), false)

	_, err := child.SpendCoin(ctx, op)
	require.NoError(t, err)

	assert.False(t, child.HaveCoinInCache(op))

	require.NoError(t, child.Flush(ctx))

	assert.False(t, parent.HaveCoinInCache(op))
	assert.Equal(t, 0, parent.CacheSize())
}

func TestCacheViewAddOverwritePanics(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	op := outpoint(3, 0)
	view.AddCoin(ctx, op, coin(1, 1), false)

	require.Panics(t, func() {
		view.AddCoin(ctx, op, coin(2, 2), false)
	})
}

func TestCacheViewAddPossibleOverwrite(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	child := newTestView(t, parent)

	op := outpoint(4, 0)
	child.AddCoin(ctx, op, coin(1, 1), false)

	// the duplicate-transaction escape hatch replaces without panicking,
	// and the entry loses its fresh flag so the overwrite reaches the
	// layers below
	child.AddCoin(ctx, op, coin(2, 2), true)

	got, err := child.GetCoin(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Value)

	require.NoError(t, child.Flush(ctx))

	inParent, err := parent.GetCoin(ctx, op)
	require.NoError(t, err)
	require.NotNil(t, inParent)
	assert.Equal(t, uint64(2), inParent.Value)
}

func TestCacheViewAddNilPanics(t *testing.T) {
	view := newTestView(t, nil)

	require.Panics(t, func() {
		view.AddCoin(context.Background(), outpoint(5, 0), nil, false)
	})
}

func TestCacheViewLayeringTransparency(t *testing.T) {
	// the same operations applied through a child layer and flushed must
	// leave the parent exactly as if they had been applied to it directly
	ctx := context.Background()

	ops := func(v *CacheView) {
		v.AddCoin(ctx, outpoint(10, 0), coin(100, 10), false)
		v.AddCoin(ctx, outpoint(10, 1), coin(200, 10), false)
		v.AddCoin(ctx, outpoint(11, 0), coin(300, 11), false)

		_, err := v.SpendCoin(ctx, outpoint(10, 1))
		require.NoError(t, err)
	}

	direct := newTestView(t, nil)
	ops(direct)

	parent := newTestView(t, nil)
	child := newTestView(t, parent)
	ops(child)
	require.NoError(t, child.Flush(ctx))

	for _, op := range []model.Outpoint{outpoint(10, 0), outpoint(10, 1), outpoint(11, 0)} {
		want, err := direct.GetCoin(ctx, op)
		require.NoError(t, err)

		got, err := parent.GetCoin(ctx, op)
		require.NoError(t, err)

		require.True(t, want.Equal(got), "outpoint %s differs between direct and layered application", op.String())
	}
}

func TestCacheViewSpendPropagatesDeletion(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	op := outpoint(12, 0)
	parent.AddCoin(ctx, op, coin(100, 10), false)

	child := newTestView(t, parent)

	spent, err := child.SpendCoin(ctx, op)
	require.NoError(t, err)
	require.NotNil(t, spent)

	// still present below until the child flushes
	have, err := parent.HaveCoin(ctx, op)
	require.NoError(t, err)
	assert.True(t, have)

	require.NoError(t, child.Flush(ctx))

	have, err = parent.HaveCoin(ctx, op)
	require.NoError(t, err)
	assert.False(t, have)
}

func TestCacheViewBatchWriteFreshOverUnprunedPanics(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	op := outpoint(13, 0)
	parent.AddCoin(ctx, op, coin(1, 1), false)

	// a child entry claiming freshness for an outpoint the parent holds
	// unspent means the layers are out of sync
	entry := &CoinEntry{Coin: coin(2, 2)}
	entry.markDirty()
	entry.markFresh()

	require.Panics(t, func() {
		_ = parent.BatchWrite(ctx, map[model.Outpoint]*CoinEntry{op: entry}, nil, nil)
	})
}

func TestCacheViewBatchWriteSkipsClean(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	op := outpoint(14, 0)

	entry := &CoinEntry{Coin: coin(1, 1)}

	require.NoError(t, parent.BatchWrite(ctx, map[model.Outpoint]*CoinEntry{op: entry}, nil, nil))
	assert.Equal(t, 0, parent.CacheSize())
}

func TestCacheViewModifier(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	op := outpoint(15, 0)
	view.AddCoin(ctx, op, coin(100, 10), false)

	m, err := view.ModifyCoin(ctx, op)
	require.NoError(t, err)

	require.NotNil(t, m.Coin())
	m.SetCoin(coin(200, 10))
	m.Close()

	got, err := view.GetCoin(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), got.Value)

	// Close is idempotent
	m.Close()
}

func TestCacheViewModifierReentrantPanics(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	op := outpoint(16, 0)
	view.AddCoin(ctx, op, coin(1, 1), false)

	m, err := view.ModifyCoin(ctx, op)
	require.NoError(t, err)

	defer m.Close()

	require.Panics(t, func() {
		_, _ = view.ModifyCoin(ctx, outpoint(16, 1))
	})
}

func TestCacheViewModifierPruneDropsFreshEntry(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	op := outpoint(17, 0)
	view.AddCoin(ctx, op, coin(1, 1), false)

	m, err := view.ModifyCoin(ctx, op)
	require.NoError(t, err)

	m.SetCoin(nil)
	m.Close()

	assert.False(t, view.HaveCoinInCache(op))

	// and a new modifier can be checked out again
	m2, err := view.ModifyCoin(ctx, op)
	require.NoError(t, err)
	m2.Close()
}

func TestCacheViewFlushWithModifierPanics(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	op := outpoint(18, 0)
	view.AddCoin(ctx, op, coin(1, 1), false)

	m, err := view.ModifyCoin(ctx, op)
	require.NoError(t, err)

	defer m.Close()

	require.Panics(t, func() {
		_ = view.Flush(ctx)
	})
}

func TestCacheViewUncache(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	op := outpoint(19, 0)
	parent.AddCoin(ctx, op, coin(100, 10), false)

	child := newTestView(t, parent)

	// pull the coin up clean, then drop it
	_, err := child.GetCoin(ctx, op)
	require.NoError(t, err)
	require.True(t, child.HaveCoinInCache(op))

	child.Uncache(op)
	assert.False(t, child.HaveCoinInCache(op))
	assert.Zero(t, child.DynamicMemoryUsage())

	// dirty entries survive Uncache
	op2 := outpoint(19, 1)
	child.AddCoin(ctx, op2, coin(1, 1), false)
	child.Uncache(op2)
	assert.True(t, child.HaveCoinInCache(op2))
}

func TestCacheViewMissMemoized(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	op := outpoint(20, 0)

	_, err := view.GetCoin(ctx, op)
	require.NoError(t, err)

	// the miss itself occupies a cache slot
	assert.True(t, view.HaveCoinInCache(op))
	assert.Equal(t, 1, view.CacheSize())

	// and flushing writes nothing down for it
	parent := newTestView(t, nil)
	child := newTestView(t, parent)

	_, err = child.GetCoin(ctx, op)
	require.NoError(t, err)
	require.NoError(t, child.Flush(ctx))
	assert.Equal(t, 0, parent.CacheSize())
}

func TestCacheViewUsageAccounting(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	require.Zero(t, view.DynamicMemoryUsage())

	op := outpoint(21, 0)
	view.AddCoin(ctx, op, coin(100, 10), false)

	usage := view.DynamicMemoryUsage()
	assert.Positive(t, usage)

	_, err := view.SpendCoin(ctx, op)
	require.NoError(t, err)
	assert.Zero(t, view.DynamicMemoryUsage())
}

func TestCacheViewBestBlock(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	child := newTestView(t, parent)

	hash := chainhash.HashH([]byte("block"))
	child.SetBestBlock(&hash)

	got, err := child.BestBlock(ctx)
	require.NoError(t, err)
	assert.True(t, hash.IsEqual(got))

	require.NoError(t, child.Flush(ctx))

	got, err = parent.BestBlock(ctx)
	require.NoError(t, err)
	assert.True(t, hash.IsEqual(got))
}

func TestCacheViewFlushEmpty(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	require.NoError(t, view.Flush(ctx))
	assert.Equal(t, 0, view.CacheSize())
}
