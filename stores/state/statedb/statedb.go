package statedb

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/btcsuite/goleveldb/leveldb"
	"github.com/btcsuite/goleveldb/leveldb/opt"
	"github.com/btcsuite/goleveldb/leveldb/util"
	"github.com/namechain/namechaind/errors"
	"github.com/namechain/namechaind/model"
	"github.com/namechain/namechaind/settings"
	"github.com/namechain/namechaind/stores/state"
	"github.com/namechain/namechaind/ulogger"
)

// On-disk key layout. Every record class lives behind a single tag byte so
// prefix iteration stays cheap. The layout is part of the database format
// and must not change.
const (
	coinKeyPrefix    = 'c' // coinKeyPrefix + txid + big-endian vout -> coin record
	nameKeyPrefix    = 'n' // nameKeyPrefix + compact-size length + name -> name record
	historyKeyPrefix = 'h' // historyKeyPrefix + compact-size length + name -> history stack
	expiryKeyPrefix  = 'x' // expiryKeyPrefix + big-endian height + name -> empty
	bestBlockKey     = 'B' // block hash this state reflects
	reorgKey         = 'R' // present while a multi-block rewind is underway
)

// StateDB is the persistent CoinView at the bottom of the view stack,
// backed by leveldb. All writes arrive through BatchWrite and are committed
// as one atomic, synced batch.
type StateDB struct {
	logger   ulogger.Logger
	settings *settings.Settings
	db       *leveldb.DB
}

func New(_ context.Context, logger ulogger.Logger, tSettings *settings.Settings) (*StateDB, error) {
	initPrometheusMetrics()

	o := &opt.Options{
		BlockCacheCapacity: tSettings.State.DBCacheMiB * opt.MiB,
	}

	db, err := leveldb.OpenFile(tSettings.State.DBPath, o)
	if err != nil {
		return nil, errors.NewStorageUnavailableError("failed to open state database at %s", tSettings.State.DBPath, err)
	}

	logger.Infof("opened state database at %s", tSettings.State.DBPath)

	return &StateDB{
		logger:   logger,
		settings: tSettings,
		db:       db,
	}, nil
}

// NewWithDB wraps an already-open leveldb handle. Tests use this with an
// in-memory storage backend.
func NewWithDB(logger ulogger.Logger, tSettings *settings.Settings, db *leveldb.DB) *StateDB {
	initPrometheusMetrics()

	return &StateDB{
		logger:   logger,
		settings: tSettings,
		db:       db,
	}
}

func (s *StateDB) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.NewStorageError("failed to close state database", err)
	}

	return nil
}

func coinKey(outpoint model.Outpoint) []byte {
	b := outpoint.Bytes()
	return append([]byte{coinKeyPrefix}, b[:]...)
}

// appendCompactSize writes the length the way the reference serialization
// does. Names are at most 255 bytes, so lengths stay below the 4-byte
// encodings and byte-wise key comparison still orders names by length
// first, then lexicographically.
func appendCompactSize(b []byte, n int) []byte {
	if n < 0xfd {
		return append(b, byte(n))
	}

	return append(b, 0xfd, byte(n), byte(n>>8))
}

func nameKey(name []byte) []byte {
	b := appendCompactSize([]byte{nameKeyPrefix}, len(name))
	return append(b, name...)
}

func historyKey(name []byte) []byte {
	b := appendCompactSize([]byte{historyKeyPrefix}, len(name))
	return append(b, name...)
}

// nameFromKey strips the tag byte and compact-size length off a name or
// history key.
func nameFromKey(key []byte) ([]byte, error) {
	if len(key) < 2 {
		return nil, errors.NewStorageError("name key too short: %d bytes", len(key))
	}

	if key[1] < 0xfd {
		return key[2:], nil
	}

	if len(key) < 4 {
		return nil, errors.NewStorageError("name key too short for compact size: %d bytes", len(key))
	}

	return key[4:], nil
}

func expiryKey(height uint32, name []byte) []byte {
	h := model.EncodeExpiryHeight(height)
	b := append([]byte{expiryKeyPrefix}, h[:]...)

	return append(b, name...)
}

func (s *StateDB) GetCoin(_ context.Context, outpoint model.Outpoint) (*model.Coin, error) {
	b, err := s.db.Get(coinKey(outpoint), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}

		return nil, errors.NewStorageError("failed to read coin %s", outpoint.String(), err)
	}

	return model.NewCoinFromBytes(b)
}

func (s *StateDB) HaveCoin(_ context.Context, outpoint model.Outpoint) (bool, error) {
	ok, err := s.db.Has(coinKey(outpoint), nil)
	if err != nil {
		return false, errors.NewStorageError("failed to check coin %s", outpoint.String(), err)
	}

	return ok, nil
}

func (s *StateDB) BestBlock(_ context.Context) (*chainhash.Hash, error) {
	b, err := s.db.Get([]byte{bestBlockKey}, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return &chainhash.Hash{}, nil
		}

		return nil, errors.NewStorageError("failed to read best block", err)
	}

	hash, err := chainhash.NewHash(b)
	if err != nil {
		return nil, errors.NewStorageError("corrupt best block record", err)
	}

	return hash, nil
}

func (s *StateDB) GetName(_ context.Context, name []byte) (*model.NameData, error) {
	b, err := s.db.Get(nameKey(name), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}

		return nil, errors.NewStorageError("failed to read name %q", name, err)
	}

	return model.NewNameDataFromBytes(b)
}

func (s *StateDB) GetNameHistory(_ context.Context, name []byte) (*model.NameHistory, error) {
	b, err := s.db.Get(historyKey(name), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}

		return nil, errors.NewStorageError("failed to read history of %q", name, err)
	}

	return model.NewNameHistoryFromBytes(b)
}

func (s *StateDB) GetNamesForHeight(_ context.Context, height uint32) ([][]byte, error) {
	h := model.EncodeExpiryHeight(height)
	prefix := append([]byte{expiryKeyPrefix}, h[:]...)

	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var names [][]byte

	for iter.Next() {
		name := append([]byte(nil), iter.Key()[len(prefix):]...)
		names = append(names, name)
	}

	if err := iter.Error(); err != nil {
		return nil, errors.NewStorageError("failed to iterate expiry index at height %d", height, err)
	}

	return names, nil
}

func (s *StateDB) IterateNames(_ context.Context) (state.NameIterator, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{nameKeyPrefix}), nil)

	return &dbNameIterator{iter: iter}, nil
}

// BatchWrite commits a cache's accumulated coin and name changes in one
// synced leveldb batch: all keys become visible together or not at all.
func (s *StateDB) BatchWrite(_ context.Context, coins map[model.Outpoint]*state.CoinEntry, bestBlock *chainhash.Hash, names *state.NameCache) error {
	batch := new(leveldb.Batch)

	for outpoint, entry := range coins {
		if !entry.IsDirty() {
			continue
		}

		if entry.IsPruned() {
			if entry.IsFresh() {
				// Never written here; no tombstone needed.
				continue
			}

			batch.Delete(coinKey(outpoint))
		} else {
			batch.Put(coinKey(outpoint), entry.Coin.Bytes())
		}
	}

	if names != nil {
		names.IterateEntries(func(name []byte, data *model.NameData) {
			batch.Put(nameKey(name), data.Bytes())
		})

		names.IterateDeleted(func(name []byte) {
			batch.Delete(nameKey(name))
			batch.Delete(historyKey(name))
		})

		names.IterateHistory(func(name []byte, h *model.NameHistory) {
			if h.Empty() {
				batch.Delete(historyKey(name))
			} else {
				batch.Put(historyKey(name), h.Bytes())
			}
		})

		names.IterateExpireIndex(func(entry state.ExpireEntry, add bool) {
			key := expiryKey(entry.Height, []byte(entry.Name))

			if add {
				batch.Put(key, []byte{})
			} else {
				batch.Delete(key)
			}
		})
	}

	if bestBlock != nil {
		batch.Put([]byte{bestBlockKey}, bestBlock[:])
	}

	if err := s.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.NewStorageError("failed to commit state batch of %d operations", batch.Len(), err)
	}

	prometheusStateDBBatchWrite.Inc()
	prometheusStateDBBatchOps.Add(float64(batch.Len()))

	return nil
}

// SetReorgInProgress marks (or clears) the on-disk flag for a rewind that
// spans multiple blocks, so a crash mid-rewind is detectable at startup.
func (s *StateDB) SetReorgInProgress(inProgress bool) error {
	var err error

	if inProgress {
		err = s.db.Put([]byte{reorgKey}, []byte{1}, &opt.WriteOptions{Sync: true})
	} else {
		err = s.db.Delete([]byte{reorgKey}, &opt.WriteOptions{Sync: true})
	}

	if err != nil {
		return errors.NewStorageError("failed to update reorg marker", err)
	}

	return nil
}

func (s *StateDB) ReorgInProgress() (bool, error) {
	ok, err := s.db.Has([]byte{reorgKey}, nil)
	if err != nil {
		return false, errors.NewStorageError("failed to read reorg marker", err)
	}

	return ok, nil
}
