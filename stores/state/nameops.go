package state

import (
	"context"

	"github.com/namechain/namechaind/chaincfg"
	"github.com/namechain/namechaind/errors"
	"github.com/namechain/namechaind/model"
)

// ApplyNameOp applies one parsed name operation from a confirmed
// transaction output to the view and returns the undo record for it.
// NAME_NEW commitments do not touch the name database and return nil.
//
// A small fixed set of historically inconsistent transactions bypasses the
// usual rules: fully-ignored bugs change nothing, in-UTXO-only bugs leave
// the name database untouched (their coin was already added by the coin
// application path), and fully-applied bugs skip the duplicate check.
func ApplyNameOp(ctx context.Context, view *CacheView, ns *model.NameScript, outpoint model.Outpoint, value uint64, height uint32, params *chaincfg.Params) (*NameTxUndo, error) {
	if !ns.IsAnyUpdate() {
		return nil, nil
	}

	bug, isBug := params.IsHistoricBug(height, &outpoint.TxID)
	if isBug && (bug == chaincfg.BugFullyIgnore || bug == chaincfg.BugInUTXO) {
		view.logger.Infof("skipping name op of historic bug tx %s at height %d", outpoint.TxID.String(), height)
		return nil, nil
	}

	if !model.NameIsValid(ns.Name, params) {
		return nil, errors.NewNameInvalidError("invalid name of %d bytes", len(ns.Name))
	}

	if !model.ValueIsValid(ns.Value, params) {
		return nil, errors.NewNameInvalidError("invalid value of %d bytes for name %q", len(ns.Value), ns.Name)
	}

	if value < params.MinNameCoinAmount(height) {
		return nil, errors.NewTxInvalidError("name output %s holds %d, below the minimum of %d", outpoint.String(), value, params.MinNameCoinAmount(height))
	}

	existing, err := view.GetName(ctx, ns.Name)
	if err != nil {
		return nil, err
	}

	switch ns.Op {
	case model.OpNameFirstUpdate:
		// Re-registering a live name is the registration analogue of a
		// BIP30 duplicate and is rejected, except for the recorded
		// historic violations.
		if existing != nil && !IsExpired(existing, height, params) && !isBug {
			return nil, errors.NewNameExistsError("name %q is already registered and live", ns.Name)
		}

	case model.OpNameUpdate:
		if existing == nil {
			return nil, errors.NewNameNotFoundError("update of unregistered name %q", ns.Name)
		}

		if IsExpired(existing, height, params) {
			return nil, errors.NewNameExpiredError("update of expired name %q", ns.Name)
		}
	}

	undo, err := NewNameTxUndoFromOldState(ctx, ns.Name, view)
	if err != nil {
		return nil, err
	}

	data := model.NewNameData(ns.Value, height, outpoint, ns.AddressScript)

	if err := view.SetName(ctx, ns.Name, data, false); err != nil {
		return nil, err
	}

	return undo, nil
}
