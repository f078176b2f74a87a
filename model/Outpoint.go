package model

import (
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/namechain/namechaind/errors"
)

// OutpointSize is the serialized size of an outpoint: txid plus index.
const OutpointSize = 36

// Outpoint identifies one transaction output.
type Outpoint struct {
	TxID  chainhash.Hash
	Index uint32
}

func NewOutpoint(txid *chainhash.Hash, index uint32) Outpoint {
	return Outpoint{TxID: *txid, Index: index}
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID.String(), o.Index)
}

// Bytes serializes the outpoint as txid followed by the big-endian index so
// that serialized outpoints for one transaction sort in output order.
func (o *Outpoint) Bytes() [OutpointSize]byte {
	var b [OutpointSize]byte

	copy(b[:], o.TxID[:])
	b[32] = byte(o.Index >> 24)
	b[33] = byte(o.Index >> 16)
	b[34] = byte(o.Index >> 8)
	b[35] = byte(o.Index)

	return b
}

func NewOutpointFromBytes(b []byte) (*Outpoint, error) {
	if len(b) != OutpointSize {
		return nil, errors.NewInvalidArgumentError("outpoint must be %d bytes, got %d", OutpointSize, len(b))
	}

	o := &Outpoint{}
	copy(o.TxID[:], b[:32])
	o.Index = uint32(b[32])<<24 | uint32(b[33])<<16 | uint32(b[34])<<8 | uint32(b[35])

	return o, nil
}
