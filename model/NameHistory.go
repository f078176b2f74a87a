package model

import (
	"fmt"

	"github.com/namechain/namechaind/errors"
)

// NameHistory is the stack of superseded records for one name, oldest
// first. Heights are non-decreasing from bottom to top; the top is the
// record most recently pushed out by an update.
//
// Push and Pop enforce the stack invariants with panics: they are only ever
// called by block (un)application, and a violation there means the calling
// validation logic is broken, not the data.
type NameHistory struct {
	entries []*NameData
}

func NewNameHistory(entries ...*NameData) *NameHistory {
	return &NameHistory{entries: entries}
}

func (h *NameHistory) Len() int {
	if h == nil {
		return 0
	}

	return len(h.entries)
}

func (h *NameHistory) Empty() bool {
	return h.Len() == 0
}

// Top returns the most recently superseded record, or nil.
func (h *NameHistory) Top() *NameData {
	if h.Len() == 0 {
		return nil
	}

	return h.entries[len(h.entries)-1]
}

// At returns the record at position i, oldest first.
func (h *NameHistory) At(i int) *NameData {
	return h.entries[i]
}

// Push adds a superseded record. The new record's height must not be below
// the current top's height.
func (h *NameHistory) Push(data *NameData) {
	if top := h.Top(); top != nil && data.Height < top.Height {
		panic(fmt.Sprintf("name history push out of order: new height %d below top height %d", data.Height, top.Height))
	}

	h.entries = append(h.entries, data)
}

// Pop removes the top record. The caller passes the record it expects to
// find there; a mismatch means an undo is being applied against the wrong
// state.
func (h *NameHistory) Pop(expected *NameData) {
	top := h.Top()
	if top == nil {
		panic("name history pop on empty history")
	}

	if !top.Equal(expected) {
		panic(fmt.Sprintf("name history pop mismatch: top is %s, expected %s", top.String(), expected.String()))
	}

	h.entries = h.entries[:len(h.entries)-1]
}

func (h *NameHistory) Clone() *NameHistory {
	clone := &NameHistory{entries: make([]*NameData, len(h.entries))}
	for i, e := range h.entries {
		clone.entries[i] = e.Clone()
	}

	return clone
}

func (h *NameHistory) Bytes() []byte {
	b := make([]byte, 0, 4)

	n := uint32(len(h.entries))
	b = append(b, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))

	for _, e := range h.entries {
		eb := e.Bytes()
		l := uint32(len(eb))
		b = append(b, byte(l), byte(l>>8), byte(l>>16), byte(l>>24))
		b = append(b, eb...)
	}

	return b
}

func NewNameHistoryFromBytes(b []byte) (*NameHistory, error) {
	if len(b) < 4 {
		return nil, errors.NewInvalidArgumentError("name history too short: %d bytes", len(b))
	}

	n := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	offset := uint32(4)

	h := &NameHistory{entries: make([]*NameData, 0, n)}

	for i := uint32(0); i < n; i++ {
		if uint32(len(b)) < offset+4 {
			return nil, errors.NewInvalidArgumentError("name history truncated")
		}

		l := uint32(b[offset]) | uint32(b[offset+1])<<8 | uint32(b[offset+2])<<16 | uint32(b[offset+3])<<24
		offset += 4

		if uint32(len(b)) < offset+l {
			return nil, errors.NewInvalidArgumentError("name history entry truncated")
		}

		entry, err := NewNameDataFromBytes(b[offset : offset+l])
		if err != nil {
			return nil, err
		}

		h.entries = append(h.entries, entry)
		offset += l
	}

	if offset != uint32(len(b)) {
		return nil, errors.NewInvalidArgumentError("name history has %d trailing bytes", uint32(len(b))-offset)
	}

	return h, nil
}
