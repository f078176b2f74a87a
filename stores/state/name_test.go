package state

import (
	"context"
	"testing"

	"github.com/namechain/namechaind/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nameData(value string, height uint32, seed byte) *model.NameData {
	return model.NewNameData([]byte(value), height, outpoint(seed, 0), []byte{0x51})
}

func TestCacheViewNameRoundTrip(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	name := []byte("d/example")

	got, err := view.GetName(ctx, name)
	require.NoError(t, err)
	require.Nil(t, got)

	data := nameData("v1", 100, 1)
	require.NoError(t, view.SetName(ctx, name, data, false))

	got, err = view.GetName(ctx, name)
	require.NoError(t, err)
	require.True(t, data.Equal(got))

	// the returned record is a copy
	got.Value[0] = 'X'

	again, err := view.GetName(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), again.Value)
}

func TestCacheViewNameUpdatePushesHistory(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	name := []byte("d/example")
	v1 := nameData("v1", 100, 1)
	v2 := nameData("v2", 150, 2)

	require.NoError(t, view.SetName(ctx, name, v1, false))

	h, err := view.GetNameHistory(ctx, name)
	require.NoError(t, err)
	require.Nil(t, h)

	require.NoError(t, view.SetName(ctx, name, v2, false))

	h, err = view.GetNameHistory(ctx, name)
	require.NoError(t, err)
	require.Equal(t, 1, h.Len())
	require.True(t, v1.Equal(h.Top()))
}

func TestCacheViewNameUndo(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	name := []byte("d/example")
	v1 := nameData("v1", 100, 1)
	v2 := nameData("v2", 150, 2)

	require.NoError(t, view.SetName(ctx, name, v1, false))
	require.NoError(t, view.SetName(ctx, name, v2, false))

	// rewind the update: v1 comes back and the history entry is popped
	require.NoError(t, view.SetName(ctx, name, v1, true))

	got, err := view.GetName(ctx, name)
	require.NoError(t, err)
	require.True(t, v1.Equal(got))

	h, err := view.GetNameHistory(ctx, name)
	require.NoError(t, err)
	require.True(t, h.Empty())
}

func TestCacheViewNameUndoWithoutRecordPanics(t *testing.T) {
	view := newTestView(t, nil)

	require.Panics(t, func() {
		_ = view.SetName(context.Background(), []byte("d/ghost"), nameData("v", 1, 1), true)
	})
}

func TestCacheViewDeleteName(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	name := []byte("d/example")
	require.NoError(t, view.SetName(ctx, name, nameData("v1", 100, 1), false))
	require.NoError(t, view.DeleteName(ctx, name))

	got, err := view.GetName(ctx, name)
	require.NoError(t, err)
	assert.Nil(t, got)

	names, err := view.GetNamesForHeight(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCacheViewDeleteMissingNamePanics(t *testing.T) {
	view := newTestView(t, nil)

	require.Panics(t, func() {
		_ = view.DeleteName(context.Background(), []byte("d/ghost"))
	})
}

func TestCacheViewDeleteNameWithHistoryPanics(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	name := []byte("d/example")
	require.NoError(t, view.SetName(ctx, name, nameData("v1", 100, 1), false))
	require.NoError(t, view.SetName(ctx, name, nameData("v2", 150, 2), false))

	require.Panics(t, func() {
		_ = view.DeleteName(ctx, name)
	})
}

func TestCacheViewNamesForHeight(t *testing.T) {
	ctx := context.Background()
	view := newTestView(t, nil)

	require.NoError(t, view.SetName(ctx, []byte("d/bb"), nameData("v", 100, 1), false))
	require.NoError(t, view.SetName(ctx, []byte("d/aa"), nameData("v", 100, 2), false))
	require.NoError(t, view.SetName(ctx, []byte("d/cc"), nameData("v", 200, 3), false))

	names, err := view.GetNamesForHeight(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("d/aa"), []byte("d/bb")}, names)

	// updating a name moves it between height buckets
	require.NoError(t, view.SetName(ctx, []byte("d/aa"), nameData("v2", 200, 4), false))

	names, err = view.GetNamesForHeight(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("d/bb")}, names)

	names, err = view.GetNamesForHeight(ctx, 200)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("d/aa"), []byte("d/cc")}, names)
}

func TestCacheViewNameChangesSurviveFlush(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	child := newTestView(t, parent)

	name := []byte("d/example")
	v1 := nameData("v1", 100, 1)
	v2 := nameData("v2", 150, 2)

	require.NoError(t, child.SetName(ctx, name, v1, false))
	require.NoError(t, child.SetName(ctx, name, v2, false))
	require.NoError(t, child.Flush(ctx))

	got, err := parent.GetName(ctx, name)
	require.NoError(t, err)
	require.True(t, v2.Equal(got))

	h, err := parent.GetNameHistory(ctx, name)
	require.NoError(t, err)
	require.Equal(t, 1, h.Len())

	names, err := parent.GetNamesForHeight(ctx, 150)
	require.NoError(t, err)
	require.Equal(t, [][]byte{name}, names)
}

func TestCacheViewNameLifecycleAcrossLayers(t *testing.T) {
	// register below, update and undo above, and make sure the rewind
	// flushes down to exactly the original state
	ctx := context.Background()

	parent := newTestView(t, nil)
	name := []byte("d/example")
	v1 := nameData("v1", 100, 1)

	require.NoError(t, parent.SetName(ctx, name, v1, false))

	child := newTestView(t, parent)
	v2 := nameData("v2", 150, 2)

	require.NoError(t, child.SetName(ctx, name, v2, false))
	require.NoError(t, child.SetName(ctx, name, v1, true))
	require.NoError(t, child.Flush(ctx))

	got, err := parent.GetName(ctx, name)
	require.NoError(t, err)
	require.True(t, v1.Equal(got))

	h, err := parent.GetNameHistory(ctx, name)
	require.NoError(t, err)
	require.True(t, h == nil || h.Empty())

	names, err := parent.GetNamesForHeight(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, [][]byte{name}, names)

	names, err = parent.GetNamesForHeight(ctx, 150)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func collectNames(t *testing.T, iter NameIterator) []string {
	t.Helper()

	var names []string
	for iter.Next() {
		names = append(names, string(iter.Name()))
		require.NotNil(t, iter.Data())
	}

	require.NoError(t, iter.Error())
	iter.Release()

	return names
}

func TestCacheViewIterateNames(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	require.NoError(t, parent.SetName(ctx, []byte("a"), nameData("v", 100, 1), false))
	require.NoError(t, parent.SetName(ctx, []byte("aa"), nameData("v", 100, 2), false))
	require.NoError(t, parent.SetName(ctx, []byte("b"), nameData("v", 100, 3), false))

	child := newTestView(t, parent)
	require.NoError(t, child.DeleteName(ctx, []byte("aa")))
	require.NoError(t, child.SetName(ctx, []byte("c"), nameData("v", 100, 4), false))

	iter, err := child.IterateNames(ctx)
	require.NoError(t, err)

	names := collectNames(t, iter)
	require.Equal(t, []string{"a", "b", "c"}, names)
}

func TestCacheViewIterateNamesCacheWinsTies(t *testing.T) {
	ctx := context.Background()

	parent := newTestView(t, nil)
	require.NoError(t, parent.SetName(ctx, []byte("a"), nameData("old", 100, 1), false))

	child := newTestView(t, parent)
	updated := nameData("new", 150, 2)
	require.NoError(t, child.SetName(ctx, []byte("a"), updated, false))

	iter, err := child.IterateNames(ctx)
	require.NoError(t, err)

	defer iter.Release()

	require.True(t, iter.Next())
	assert.Equal(t, []byte("a"), iter.Name())
	assert.True(t, updated.Equal(iter.Data()))
	assert.False(t, iter.Next())
}

func TestCacheViewIterateNamesSeek(t *testing.T) {
	ctx := context.Background()

	view := newTestView(t, nil)
	require.NoError(t, view.SetName(ctx, []byte("a"), nameData("v", 100, 1), false))
	require.NoError(t, view.SetName(ctx, []byte("b"), nameData("v", 100, 2), false))
	require.NoError(t, view.SetName(ctx, []byte("d"), nameData("v", 100, 3), false))

	iter, err := view.IterateNames(ctx)
	require.NoError(t, err)

	defer iter.Release()

	require.True(t, iter.Seek([]byte("b")))
	assert.Equal(t, []byte("b"), iter.Name())

	require.True(t, iter.Seek([]byte("c")))
	assert.Equal(t, []byte("d"), iter.Name())

	assert.False(t, iter.Seek([]byte("e")))
}

func TestNameCacheApply(t *testing.T) {
	a := NewNameCache()
	b := NewNameCache()

	a.Set([]byte("x"), nameData("v1", 100, 1))
	a.Set([]byte("y"), nameData("v1", 100, 2))

	b.Set([]byte("x"), nameData("v2", 150, 3))
	b.Remove([]byte("y"))
	b.UpdateExpireIndex(150, []byte("x"), true)

	a.Apply(b)

	data, ok := a.Get([]byte("x"))
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), data.Value)

	assert.True(t, a.IsDeleted([]byte("y")))

	_, ok = a.Get([]byte("y"))
	assert.False(t, ok)
}

func TestNameCacheSetClearsDeletion(t *testing.T) {
	nc := NewNameCache()

	nc.Remove([]byte("x"))
	require.True(t, nc.IsDeleted([]byte("x")))

	nc.Set([]byte("x"), nameData("v", 100, 1))
	assert.False(t, nc.IsDeleted([]byte("x")))

	nc.Clear()
	assert.True(t, nc.IsEmpty())
}
