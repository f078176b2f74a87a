package state

import (
	"sort"

	"github.com/namechain/namechaind/model"
)

// cacheNameIterator merges a backing view's name iterator with the pending
// changes of a NameCache: deleted names are skipped, names with a pending
// record come from the cache (winning ties against the backing view), and
// the merged stream stays in CompareNames order.
type cacheNameIterator struct {
	base  NameIterator
	cache *NameCache

	cacheNames [][]byte
	cacheIdx   int

	primed    bool
	baseValid bool
	baseName  []byte
	baseData  *model.NameData

	name []byte
	data *model.NameData
	err  error
}

func newCacheNameIterator(base NameIterator, cache *NameCache) *cacheNameIterator {
	return &cacheNameIterator{
		base:       base,
		cache:      cache,
		cacheNames: cache.sortedNames(),
	}
}

// advanceBase pulls the next base name that is neither deleted nor
// overridden by a pending cache record.
func (it *cacheNameIterator) advanceBase() {
	for it.base.Next() {
		name := it.base.Name()

		if it.cache.IsDeleted(name) {
			continue
		}

		if _, ok := it.cache.Get(name); ok {
			// Emitted from the cache side at the same position.
			continue
		}

		it.baseValid = true
		it.baseName = name
		it.baseData = it.base.Data()

		return
	}

	it.baseValid = false

	if err := it.base.Error(); err != nil {
		it.err = err
	}
}

// step selects the smaller of the two cursors as the current element and
// advances that side.
func (it *cacheNameIterator) step() bool {
	if it.err != nil {
		return false
	}

	takeBase := false

	switch {
	case it.baseValid && it.cacheIdx < len(it.cacheNames):
		takeBase = model.CompareNames(it.baseName, it.cacheNames[it.cacheIdx]) < 0
	case it.baseValid:
		takeBase = true
	case it.cacheIdx < len(it.cacheNames):
		takeBase = false
	default:
		it.name = nil
		it.data = nil

		return false
	}

	if takeBase {
		it.name = it.baseName
		it.data = it.baseData
		it.advanceBase()
	} else {
		name := it.cacheNames[it.cacheIdx]
		data, _ := it.cache.Get(name)
		it.name = name
		it.data = data
		it.cacheIdx++
	}

	return true
}

func (it *cacheNameIterator) Next() bool {
	if !it.primed {
		it.advanceBase()
		it.primed = true
	}

	return it.step()
}

func (it *cacheNameIterator) Seek(name []byte) bool {
	it.primed = true
	it.baseValid = false

	if it.base.Seek(name) {
		current := it.base.Name()

		if it.cache.IsDeleted(current) {
			it.advanceBase()
		} else if _, ok := it.cache.Get(current); ok {
			it.advanceBase()
		} else {
			it.baseValid = true
			it.baseName = current
			it.baseData = it.base.Data()
		}
	} else if err := it.base.Error(); err != nil {
		it.err = err
	}

	it.cacheIdx = sort.Search(len(it.cacheNames), func(i int) bool {
		return model.CompareNames(it.cacheNames[i], name) >= 0
	})

	return it.step()
}

func (it *cacheNameIterator) Name() []byte {
	return it.name
}

func (it *cacheNameIterator) Data() *model.NameData {
	return it.data
}

func (it *cacheNameIterator) Error() error {
	return it.err
}

func (it *cacheNameIterator) Release() {
	it.base.Release()
}
