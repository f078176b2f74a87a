package state

import (
	"sort"

	"github.com/namechain/namechaind/model"
)

// ExpireEntry keys one pending expiry-index change.
type ExpireEntry struct {
	Height uint32
	Name   string
}

// NameCache accumulates pending changes to the name namespace. It only ever
// records changes: a name absent from both entries and deleted has simply
// not been touched, and lookups must fall through to the backing view.
//
// Invariant: a name is never present in entries and deleted at the same
// time, and a cache with no entry/deletion changes holds no history or
// expiry-index changes either.
type NameCache struct {
	entries     map[string]*model.NameData
	deleted     map[string]struct{}
	history     map[string]*model.NameHistory
	expireIndex map[ExpireEntry]bool
}

func NewNameCache() *NameCache {
	return &NameCache{
		entries:     make(map[string]*model.NameData),
		deleted:     make(map[string]struct{}),
		history:     make(map[string]*model.NameHistory),
		expireIndex: make(map[ExpireEntry]bool),
	}
}

// IsEmpty reports whether no changes are pending.
func (nc *NameCache) IsEmpty() bool {
	return len(nc.entries) == 0 && len(nc.deleted) == 0 &&
		len(nc.history) == 0 && len(nc.expireIndex) == 0
}

// Get returns the pending record for a name, if one is cached.
func (nc *NameCache) Get(name []byte) (*model.NameData, bool) {
	data, ok := nc.entries[string(name)]
	return data, ok
}

// IsDeleted reports whether the name has a pending deletion.
func (nc *NameCache) IsDeleted(name []byte) bool {
	_, ok := nc.deleted[string(name)]
	return ok
}

// Set records a new or updated name record.
func (nc *NameCache) Set(name []byte, data *model.NameData) {
	delete(nc.deleted, string(name))
	nc.entries[string(name)] = data
}

// Remove records the deletion of a name record.
func (nc *NameCache) Remove(name []byte) {
	delete(nc.entries, string(name))
	nc.deleted[string(name)] = struct{}{}
}

// History returns the pending history for a name, if one is cached.
func (nc *NameCache) History(name []byte) (*model.NameHistory, bool) {
	h, ok := nc.history[string(name)]
	return h, ok
}

// SetHistory records the full (possibly empty) history stack for a name.
func (nc *NameCache) SetHistory(name []byte, h *model.NameHistory) {
	nc.history[string(name)] = h
}

// UpdateExpireIndex records that the name should be added to (add=true) or
// removed from (add=false) the expiry-index bucket for the given height.
func (nc *NameCache) UpdateExpireIndex(height uint32, name []byte, add bool) {
	nc.expireIndex[ExpireEntry{Height: height, Name: string(name)}] = add
}

// NamesForHeight applies the pending expiry-index changes for one height to
// a base set of names and returns the result in CompareNames order.
func (nc *NameCache) NamesForHeight(height uint32, base [][]byte) [][]byte {
	merged := make(map[string]struct{}, len(base))
	for _, name := range base {
		merged[string(name)] = struct{}{}
	}

	for entry, add := range nc.expireIndex {
		if entry.Height != height {
			continue
		}

		if add {
			merged[entry.Name] = struct{}{}
		} else {
			delete(merged, entry.Name)
		}
	}

	names := make([][]byte, 0, len(merged))
	for name := range merged {
		names = append(names, []byte(name))
	}

	sort.Slice(names, func(i, j int) bool {
		return model.CompareNames(names[i], names[j]) < 0
	})

	return names
}

// sortedNames returns the names with pending records in CompareNames order,
// used to seed the merged iterator.
func (nc *NameCache) sortedNames() [][]byte {
	names := make([][]byte, 0, len(nc.entries))
	for name := range nc.entries {
		names = append(names, []byte(name))
	}

	sort.Slice(names, func(i, j int) bool {
		return model.CompareNames(names[i], names[j]) < 0
	})

	return names
}

// Apply merges another cache's pending changes into this one, later values
// winning.
func (nc *NameCache) Apply(other *NameCache) {
	for name, data := range other.entries {
		nc.Set([]byte(name), data)
	}

	for name := range other.deleted {
		nc.Remove([]byte(name))
	}

	for name, h := range other.history {
		nc.SetHistory([]byte(name), h)
	}

	for entry, add := range other.expireIndex {
		nc.expireIndex[entry] = add
	}
}

// Clear drops all pending changes.
func (nc *NameCache) Clear() {
	nc.entries = make(map[string]*model.NameData)
	nc.deleted = make(map[string]struct{})
	nc.history = make(map[string]*model.NameHistory)
	nc.expireIndex = make(map[ExpireEntry]bool)
}

// IterateEntries visits every pending record.
func (nc *NameCache) IterateEntries(f func(name []byte, data *model.NameData)) {
	for name, data := range nc.entries {
		f([]byte(name), data)
	}
}

// IterateDeleted visits every pending deletion.
func (nc *NameCache) IterateDeleted(f func(name []byte)) {
	for name := range nc.deleted {
		f([]byte(name))
	}
}

// IterateHistory visits every pending history change.
func (nc *NameCache) IterateHistory(f func(name []byte, h *model.NameHistory)) {
	for name, h := range nc.history {
		f([]byte(name), h)
	}
}

// IterateExpireIndex visits every pending expiry-index change.
func (nc *NameCache) IterateExpireIndex(f func(entry ExpireEntry, add bool)) {
	for entry, add := range nc.expireIndex {
		f(entry, add)
	}
}
