package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameHistoryPushPop(t *testing.T) {
	h := NewNameHistory()
	require.True(t, h.Empty())

	first := NewNameData([]byte("v1"), 100, testOutpoint(1, 0), nil)
	second := NewNameData([]byte("v2"), 150, testOutpoint(2, 0), nil)

	h.Push(first)
	h.Push(second)

	require.Equal(t, 2, h.Len())
	require.True(t, second.Equal(h.Top()))
	require.True(t, first.Equal(h.At(0)))

	h.Pop(second)
	require.Equal(t, 1, h.Len())
	require.True(t, first.Equal(h.Top()))

	h.Pop(first)
	require.True(t, h.Empty())
}

func TestNameHistoryPushSameHeight(t *testing.T) {
	h := NewNameHistory()
	h.Push(NewNameData([]byte("a"), 100, testOutpoint(1, 0), nil))

	// two updates in one block are legal
	h.Push(NewNameData([]byte("b"), 100, testOutpoint(2, 0), nil))
	require.Equal(t, 2, h.Len())
}

func TestNameHistoryPushOutOfOrderPanics(t *testing.T) {
	h := NewNameHistory()
	h.Push(NewNameData([]byte("a"), 100, testOutpoint(1, 0), nil))

	require.Panics(t, func() {
		h.Push(NewNameData([]byte("b"), 99, testOutpoint(2, 0), nil))
	})
}

func TestNameHistoryPopEmptyPanics(t *testing.T) {
	h := NewNameHistory()

	require.Panics(t, func() {
		h.Pop(NewNameData([]byte("a"), 100, testOutpoint(1, 0), nil))
	})
}

func TestNameHistoryPopMismatchPanics(t *testing.T) {
	h := NewNameHistory()
	h.Push(NewNameData([]byte("a"), 100, testOutpoint(1, 0), nil))

	require.Panics(t, func() {
		h.Pop(NewNameData([]byte("b"), 100, testOutpoint(1, 0), nil))
	})
}

func TestNameHistoryBytes(t *testing.T) {
	h := NewNameHistory(
		NewNameData([]byte("v1"), 100, testOutpoint(1, 0), []byte("s1")),
		NewNameData([]byte("v2"), 150, testOutpoint(2, 1), []byte("s2")),
	)

	h2, err := NewNameHistoryFromBytes(h.Bytes())
	require.NoError(t, err)

	require.Equal(t, h.Len(), h2.Len())
	for i := 0; i < h.Len(); i++ {
		assert.True(t, h.At(i).Equal(h2.At(i)))
	}
}

func TestNameHistoryBytesEmpty(t *testing.T) {
	h := NewNameHistory()

	h2, err := NewNameHistoryFromBytes(h.Bytes())
	require.NoError(t, err)
	require.True(t, h2.Empty())
}

func TestNameHistoryBytesErrors(t *testing.T) {
	_, err := NewNameHistoryFromBytes([]byte{1})
	require.Error(t, err)

	h := NewNameHistory(NewNameData([]byte("v"), 1, testOutpoint(1, 0), nil))
	b := h.Bytes()

	_, err = NewNameHistoryFromBytes(b[:len(b)-1])
	require.Error(t, err)

	_, err = NewNameHistoryFromBytes(append(b, 0))
	require.Error(t, err)
}

func TestNameHistoryClone(t *testing.T) {
	h := NewNameHistory(NewNameData([]byte("v"), 1, testOutpoint(1, 0), nil))
	clone := h.Clone()

	clone.Push(NewNameData([]byte("w"), 2, testOutpoint(2, 0), nil))

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 2, clone.Len())
}
