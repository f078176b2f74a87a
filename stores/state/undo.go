package state

import (
	"context"

	"github.com/namechain/namechaind/errors"
	"github.com/namechain/namechaind/model"
)

// NameTxUndo is the inverse of one name-touching transaction: enough to
// put the name database back the way it was. One is captured per
// name-touching transaction, stored in block order, and applied in reverse
// order when the block is disconnected.
type NameTxUndo struct {
	Name    []byte
	IsNew   bool
	OldData *model.NameData
}

// NewNameTxUndoFromOldState captures the state of a name before it is
// (re)written: either the name is brand new, or the record about to be
// overwritten.
func NewNameTxUndoFromOldState(ctx context.Context, name []byte, view CoinView) (*NameTxUndo, error) {
	old, err := view.GetName(ctx, name)
	if err != nil {
		return nil, err
	}

	u := &NameTxUndo{Name: append([]byte(nil), name...)}

	if old == nil {
		u.IsNew = true
	} else {
		u.OldData = old
	}

	return u, nil
}

// Apply rolls the name back: a fresh registration is deleted, an update is
// reverted to the recorded previous state.
func (u *NameTxUndo) Apply(ctx context.Context, view *CacheView) error {
	if u.IsNew {
		return view.DeleteName(ctx, u.Name)
	}

	return view.SetName(ctx, u.Name, u.OldData, true)
}

// Bytes serializes the undo record for block-undo persistence.
func (u *NameTxUndo) Bytes() []byte {
	b := make([]byte, 0, 8+len(u.Name))

	nl := uint32(len(u.Name))
	b = append(b, byte(nl), byte(nl>>8), byte(nl>>16), byte(nl>>24))
	b = append(b, u.Name...)

	if u.IsNew {
		return append(b, 1)
	}

	b = append(b, 0)

	return append(b, u.OldData.Bytes()...)
}

func NewNameTxUndoFromBytes(b []byte) (*NameTxUndo, error) {
	if len(b) < 5 {
		return nil, errors.NewInvalidArgumentError("name undo record too short: %d bytes", len(b))
	}

	nl := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	if uint32(len(b)) < 4+nl+1 {
		return nil, errors.NewInvalidArgumentError("name undo record truncated")
	}

	u := &NameTxUndo{Name: append([]byte(nil), b[4:4+nl]...)}

	switch b[4+nl] {
	case 1:
		if uint32(len(b)) != 4+nl+1 {
			return nil, errors.NewInvalidArgumentError("name undo record for new name has trailing bytes")
		}

		u.IsNew = true
	case 0:
		old, err := model.NewNameDataFromBytes(b[4+nl+1:])
		if err != nil {
			return nil, err
		}

		u.OldData = old
	default:
		return nil, errors.NewInvalidArgumentError("invalid name undo marker %d", b[4+nl])
	}

	return u, nil
}
