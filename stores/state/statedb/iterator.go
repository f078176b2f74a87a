package statedb

import (
	"github.com/btcsuite/goleveldb/leveldb/iterator"
	"github.com/namechain/namechaind/errors"
	"github.com/namechain/namechaind/model"
)

// dbNameIterator walks the name-record table. The leveldb key encoding
// already yields CompareNames order, so no re-sorting is needed.
type dbNameIterator struct {
	iter iterator.Iterator
	name []byte
	data *model.NameData
	err  error
}

// decodeCurrent loads name and record at the iterator's position.
func (it *dbNameIterator) decodeCurrent() bool {
	name, err := nameFromKey(it.iter.Key())
	if err != nil {
		it.err = err
		return false
	}

	data, err := model.NewNameDataFromBytes(it.iter.Value())
	if err != nil {
		it.err = errors.NewStorageError("corrupt name record for %q", name, err)
		return false
	}

	it.name = append([]byte(nil), name...)
	it.data = data

	return true
}

func (it *dbNameIterator) Next() bool {
	if it.err != nil {
		return false
	}

	if !it.iter.Next() {
		if err := it.iter.Error(); err != nil {
			it.err = errors.NewStorageError("name iteration failed", err)
		}

		return false
	}

	return it.decodeCurrent()
}

func (it *dbNameIterator) Seek(name []byte) bool {
	if it.err != nil {
		return false
	}

	if !it.iter.Seek(nameKey(name)) {
		if err := it.iter.Error(); err != nil {
			it.err = errors.NewStorageError("name seek failed", err)
		}

		return false
	}

	return it.decodeCurrent()
}

func (it *dbNameIterator) Name() []byte {
	return it.name
}

func (it *dbNameIterator) Data() *model.NameData {
	return it.data
}

func (it *dbNameIterator) Error() error {
	return it.err
}

func (it *dbNameIterator) Release() {
	it.iter.Release()
}
