package state

import (
	"bytes"
	"context"
	"fmt"

	"github.com/namechain/namechaind/chaincfg"
	"github.com/namechain/namechaind/errors"
	"github.com/namechain/namechaind/model"
)

// IsExpired reports whether a name record counts as expired at the given
// height. Mempool sentinel heights never expire.
func IsExpired(data *model.NameData, height uint32, params *chaincfg.Params) bool {
	if data == nil {
		return false
	}

	if height == model.MempoolHeight || data.Height == model.MempoolHeight {
		return false
	}

	depth := params.ExpirationDepth(height)
	if depth > height {
		return false
	}

	return data.Height+depth <= height
}

// NameExpireUndo records one coin spent by the expiry sweep so a rewind can
// restore it.
type NameExpireUndo struct {
	Name     []byte
	Outpoint model.Outpoint
	Coin     *model.Coin
}

// ExpireNames spends the coins of all names that expire at the given
// height and returns the undo records in sweep order.
//
// Because the expiration depth is itself a function of height, the sweep
// walks every update-height bucket that newly falls out of the live window
// between height-1 and height, both bounds inclusive.
func ExpireNames(ctx context.Context, view *CacheView, height uint32, params *chaincfg.Params) ([]NameExpireUndo, error) {
	if height == 0 {
		return nil, nil
	}

	depthNow := params.ExpirationDepth(height)
	if depthNow > height {
		// No registration is old enough to expire yet.
		return nil, nil
	}

	depthOld := params.ExpirationDepth(height - 1)

	heightMin := height - depthOld
	heightMax := height - depthNow

	var undo []NameExpireUndo

	for h := heightMin; h <= heightMax; h++ {
		names, err := view.GetNamesForHeight(ctx, h)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			if _, skip := params.ExpireExceptions[chaincfg.ExpireException{Height: height, Name: string(name)}]; skip {
				view.logger.Infof("skipping historic expiry exception for %q at height %d", name, height)
				continue
			}

			data, err := view.GetName(ctx, name)
			if err != nil {
				return nil, err
			}

			if data == nil {
				panic(fmt.Sprintf("expiry index lists %q at height %d but no record exists", name, h))
			}

			if !IsExpired(data, height, params) {
				panic(fmt.Sprintf("expiring name %q at height %d that is not expired", name, height))
			}

			coin, err := view.GetCoin(ctx, data.UpdateOutpoint)
			if err != nil {
				return nil, err
			}

			if coin == nil {
				return nil, errors.NewCoinNotFoundError("no coin for expiring name %q at %s", name, data.UpdateOutpoint.String())
			}

			if scriptName, ok := model.NameFromScript(coin.Script); !ok || !bytes.Equal(scriptName, name) {
				return nil, errors.NewProcessingError("coin script at %s does not carry name %q", data.UpdateOutpoint.String(), name)
			}

			spent, err := view.SpendCoin(ctx, data.UpdateOutpoint)
			if err != nil {
				return nil, err
			}

			undo = append(undo, NameExpireUndo{
				Name:     append([]byte(nil), name...),
				Outpoint: data.UpdateOutpoint,
				Coin:     spent,
			})

			view.logger.Debugf("expired name %q at height %d, spent coin %s", name, height, data.UpdateOutpoint.String())
		}
	}

	return undo, nil
}

// UnexpireNames replays an expiry sweep's undo records in reverse,
// restoring each spent coin. Each record is checked to be expired at the
// unwound height and live at the height the rewind lands on, which catches
// a double unexpire.
func UnexpireNames(ctx context.Context, view *CacheView, height uint32, params *chaincfg.Params, undo []NameExpireUndo) error {
	for i := len(undo) - 1; i >= 0; i-- {
		u := undo[i]

		data, err := view.GetName(ctx, u.Name)
		if err != nil {
			return err
		}

		if data == nil {
			panic(fmt.Sprintf("unexpiring name %q with no record", u.Name))
		}

		if !IsExpired(data, height, params) {
			panic(fmt.Sprintf("unexpiring name %q that is not expired at height %d", u.Name, height))
		}

		if IsExpired(data, height-1, params) {
			panic(fmt.Sprintf("name %q is still expired at height %d, double unexpire", u.Name, height-1))
		}

		view.AddCoin(ctx, u.Outpoint, u.Coin, false)
	}

	return nil
}
