package statedb

import (
	"context"

	"github.com/btcsuite/goleveldb/leveldb/util"
	"github.com/namechain/namechaind/errors"
	"github.com/namechain/namechaind/model"
	"github.com/namechain/namechaind/stores/state"
)

// ValidateNameDB cross-checks the persisted coin set against the name
// tables. It is a full scan and is meant for startup checks and the
// namedbcheck tool, not the block-application path.
//
// Checked invariants:
//   - The height index derived from the name records is byte-identical to
//     the stored expiry index.
//   - The set of names carried by unspent coins equals the set of
//     non-expired name records (as of height+1, since expiry at the next
//     block has not spent anything yet).
//   - History entries exist only for names with a main record, and not at
//     all when history tracking is disabled.
//
// Inside the chain's known-inconsistent height window a mismatch is
// reported as expected and does not fail the check.
func (s *StateDB) ValidateNameDB(ctx context.Context, height uint32) (bool, error) {
	prometheusStateDBValidate.Inc()

	namesInUTXO, err := s.scanCoinNames()
	if err != nil {
		return false, err
	}

	namesInDB, indexFromNames, err := s.scanNameRecords(height)
	if err != nil {
		return false, err
	}

	indexFromExpiry, err := s.scanExpiryIndex()
	if err != nil {
		return false, err
	}

	ok := true

	if len(indexFromNames) != len(indexFromExpiry) {
		s.logger.Errorf("height index mismatch: %d entries from name records, %d from expiry index", len(indexFromNames), len(indexFromExpiry))

		ok = false
	}

	for entry := range indexFromNames {
		if _, found := indexFromExpiry[entry]; !found {
			s.logger.Errorf("expiry index is missing (%d, %q)", entry.Height, entry.Name)

			ok = false
		}
	}

	for entry := range indexFromExpiry {
		if _, found := indexFromNames[entry]; !found {
			s.logger.Errorf("expiry index has stray entry (%d, %q)", entry.Height, entry.Name)

			ok = false
		}
	}

	for name := range namesInUTXO {
		if _, found := namesInDB[name]; !found {
			s.logger.Errorf("name %q has an unspent coin but no live record", name)

			ok = false
		}
	}

	for name := range namesInDB {
		if _, found := namesInUTXO[name]; !found {
			s.logger.Errorf("live name %q has no unspent coin", name)

			ok = false
		}
	}

	historyOK, err := s.checkHistory(ctx)
	if err != nil {
		return false, err
	}

	if !historyOK {
		ok = false
	}

	if !ok && s.settings.ChainCfgParams.BuggedNameDBWindow.Contains(height) {
		s.logger.Warnf("name database mismatch at height %d is inside the known-inconsistent window, treating as expected", height)

		return true, nil
	}

	return ok, nil
}

// scanCoinNames walks the coin table and collects the names carried by
// unspent name-operation outputs.
func (s *StateDB) scanCoinNames() (map[string]struct{}, error) {
	names := make(map[string]struct{})

	iter := s.db.NewIterator(util.BytesPrefix([]byte{coinKeyPrefix}), nil)
	defer iter.Release()

	for iter.Next() {
		coin, err := model.NewCoinFromBytes(iter.Value())
		if err != nil {
			return nil, errors.NewStorageError("corrupt coin record at key %x", iter.Key(), err)
		}

		ns, found := model.ExtractNameScript(coin.Script)
		if !found || !ns.IsAnyUpdate() {
			continue
		}

		if _, dup := names[string(ns.Name)]; dup {
			s.logger.Errorf("name %q is carried by more than one unspent coin", ns.Name)
		}

		names[string(ns.Name)] = struct{}{}
	}

	if err := iter.Error(); err != nil {
		return nil, errors.NewStorageError("coin scan failed", err)
	}

	return names, nil
}

// scanNameRecords walks the name table, returning the names that are still
// live as of height+1 and the height index every record contributes to.
func (s *StateDB) scanNameRecords(height uint32) (map[string]struct{}, map[state.ExpireEntry]struct{}, error) {
	live := make(map[string]struct{})
	index := make(map[state.ExpireEntry]struct{})

	iter := s.db.NewIterator(util.BytesPrefix([]byte{nameKeyPrefix}), nil)
	defer iter.Release()

	for iter.Next() {
		name, err := nameFromKey(iter.Key())
		if err != nil {
			return nil, nil, err
		}

		data, err := model.NewNameDataFromBytes(iter.Value())
		if err != nil {
			return nil, nil, errors.NewStorageError("corrupt name record for %q", name, err)
		}

		index[state.ExpireEntry{Height: data.Height, Name: string(name)}] = struct{}{}

		if !state.IsExpired(data, height+1, s.settings.ChainCfgParams) {
			live[string(name)] = struct{}{}
		}
	}

	if err := iter.Error(); err != nil {
		return nil, nil, errors.NewStorageError("name scan failed", err)
	}

	return live, index, nil
}

func (s *StateDB) scanExpiryIndex() (map[state.ExpireEntry]struct{}, error) {
	index := make(map[state.ExpireEntry]struct{})

	iter := s.db.NewIterator(util.BytesPrefix([]byte{expiryKeyPrefix}), nil)
	defer iter.Release()

	for iter.Next() {
		key := iter.Key()
		if len(key) < 5 {
			return nil, errors.NewStorageError("expiry index key too short: %x", key)
		}

		h, err := model.DecodeExpiryHeight(key[1:5])
		if err != nil {
			return nil, err
		}

		index[state.ExpireEntry{Height: h, Name: string(key[5:])}] = struct{}{}
	}

	if err := iter.Error(); err != nil {
		return nil, errors.NewStorageError("expiry index scan failed", err)
	}

	return index, nil
}

// checkHistory verifies that every history stack belongs to a name that
// still has a main record, and that none exist when tracking is disabled.
func (s *StateDB) checkHistory(ctx context.Context) (bool, error) {
	ok := true

	iter := s.db.NewIterator(util.BytesPrefix([]byte{historyKeyPrefix}), nil)
	defer iter.Release()

	for iter.Next() {
		name, err := nameFromKey(iter.Key())
		if err != nil {
			s.logger.Errorf("bad history key %x: %v", iter.Key(), err)

			ok = false

			continue
		}

		if !s.settings.Name.HistoryEnabled {
			s.logger.Errorf("history entry for %q exists but history tracking is disabled", name)

			ok = false

			continue
		}

		data, err := s.GetName(ctx, name)
		if err != nil {
			s.logger.Errorf("failed to look up record for history of %q: %v", name, err)

			ok = false

			continue
		}

		if data == nil {
			s.logger.Errorf("history entry for %q has no main record", name)

			ok = false
		}
	}

	if err := iter.Error(); err != nil {
		return false, errors.NewStorageError("history scan failed", err)
	}

	return ok, nil
}
