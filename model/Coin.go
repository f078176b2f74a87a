package model

import (
	"bytes"
	"fmt"

	"github.com/namechain/namechaind/errors"
)

// MempoolHeight is the sentinel height used for outputs that only exist in
// the mempool. Records carrying it are never considered expired.
const MempoolHeight = uint32(0x7fffffff)

// Coin is one unspent transaction output together with the metadata needed
// to validate a spend of it.
type Coin struct {
	Value    uint64
	Script   []byte
	Height   uint32
	Coinbase bool
}

func NewCoin(value uint64, script []byte, height uint32, coinbase bool) *Coin {
	return &Coin{
		Value:    value,
		Script:   script,
		Height:   height,
		Coinbase: coinbase,
	}
}

// Bytes serializes the coin.
//
// To store the height and coinbase flag in a single uint32:
// 1. Shift the height left by 1 bit to leave space for the flag.
// 2. Set the flag as the least significant bit.
func (c *Coin) Bytes() []byte {
	b := make([]byte, 0, 4+8+4+len(c.Script))

	var flag uint32
	if c.Coinbase {
		flag = 1
	}

	encodedValue := (c.Height << 1) | flag

	b = append(b, byte(encodedValue), byte(encodedValue>>8), byte(encodedValue>>16), byte(encodedValue>>24))

	b = append(b, byte(c.Value), byte(c.Value>>8), byte(c.Value>>16), byte(c.Value>>24),
		byte(c.Value>>32), byte(c.Value>>40), byte(c.Value>>48), byte(c.Value>>56))

	l := uint32(len(c.Script))
	b = append(b, byte(l), byte(l>>8), byte(l>>16), byte(l>>24))
	b = append(b, c.Script...)

	return b
}

func NewCoinFromBytes(b []byte) (*Coin, error) {
	if len(b) < 16 {
		return nil, errors.NewInvalidArgumentError("coin record too short: %d bytes", len(b))
	}

	encodedValue := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24

	c := &Coin{
		Height:   encodedValue >> 1,
		Coinbase: encodedValue&1 == 1,
	}

	c.Value = uint64(b[4]) | uint64(b[5])<<8 | uint64(b[6])<<16 | uint64(b[7])<<24 |
		uint64(b[8])<<32 | uint64(b[9])<<40 | uint64(b[10])<<48 | uint64(b[11])<<56

	l := uint32(b[12]) | uint32(b[13])<<8 | uint32(b[14])<<16 | uint32(b[15])<<24
	if uint32(len(b)-16) != l {
		return nil, errors.NewInvalidArgumentError("coin script length mismatch: expected %d, got %d", l, len(b)-16)
	}

	c.Script = make([]byte, l)
	copy(c.Script, b[16:])

	return c, nil
}

// Clone returns a deep copy.
func (c *Coin) Clone() *Coin {
	clone := *c
	clone.Script = make([]byte, len(c.Script))
	copy(clone.Script, c.Script)

	return &clone
}

func (c *Coin) Equal(other *Coin) bool {
	if c == nil || other == nil {
		return c == other
	}

	return c.Value == other.Value &&
		c.Height == other.Height &&
		c.Coinbase == other.Coinbase &&
		bytes.Equal(c.Script, other.Script)
}

// DynamicMemoryUsage approximates the heap footprint of the coin, used for
// the cache's usage accounting.
func (c *Coin) DynamicMemoryUsage() int64 {
	if c == nil {
		return 0
	}

	return int64(len(c.Script)) + 32
}

func (c *Coin) String() string {
	return fmt.Sprintf("Coin{value: %d, height: %d, coinbase: %v, script: %x}", c.Value, c.Height, c.Coinbase, c.Script)
}
