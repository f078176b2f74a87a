package model

import (
	"bytes"
	"fmt"

	"github.com/namechain/namechaind/chaincfg"
	"github.com/namechain/namechaind/errors"
)

// NameData is the current record for one registered name: its value, the
// height of the last update (which drives expiry), the outpoint of the
// update output and the script controlling future updates.
type NameData struct {
	Value          []byte
	Height         uint32
	UpdateOutpoint Outpoint
	AddressScript  []byte
}

func NewNameData(value []byte, height uint32, outpoint Outpoint, addressScript []byte) *NameData {
	return &NameData{
		Value:          value,
		Height:         height,
		UpdateOutpoint: outpoint,
		AddressScript:  addressScript,
	}
}

func (d *NameData) Bytes() []byte {
	b := make([]byte, 0, 4+4+len(d.Value)+OutpointSize+4+len(d.AddressScript))

	b = append(b, byte(d.Height), byte(d.Height>>8), byte(d.Height>>16), byte(d.Height>>24))

	vl := uint32(len(d.Value))
	b = append(b, byte(vl), byte(vl>>8), byte(vl>>16), byte(vl>>24))
	b = append(b, d.Value...)

	op := d.UpdateOutpoint.Bytes()
	b = append(b, op[:]...)

	sl := uint32(len(d.AddressScript))
	b = append(b, byte(sl), byte(sl>>8), byte(sl>>16), byte(sl>>24))
	b = append(b, d.AddressScript...)

	return b
}

func NewNameDataFromBytes(b []byte) (*NameData, error) {
	if len(b) < 8 {
		return nil, errors.NewInvalidArgumentError("name record too short: %d bytes", len(b))
	}

	d := &NameData{}
	d.Height = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24

	vl := uint32(b[4]) | uint32(b[5])<<8 | uint32(b[6])<<16 | uint32(b[7])<<24
	offset := uint32(8)

	if uint32(len(b)) < offset+vl+OutpointSize+4 {
		return nil, errors.NewInvalidArgumentError("name record truncated")
	}

	d.Value = make([]byte, vl)
	copy(d.Value, b[offset:offset+vl])
	offset += vl

	outpoint, err := NewOutpointFromBytes(b[offset : offset+OutpointSize])
	if err != nil {
		return nil, err
	}

	d.UpdateOutpoint = *outpoint
	offset += OutpointSize

	sl := uint32(b[offset]) | uint32(b[offset+1])<<8 | uint32(b[offset+2])<<16 | uint32(b[offset+3])<<24
	offset += 4

	if uint32(len(b)) != offset+sl {
		return nil, errors.NewInvalidArgumentError("name record script length mismatch: expected %d, got %d", sl, uint32(len(b))-offset)
	}

	d.AddressScript = make([]byte, sl)
	copy(d.AddressScript, b[offset:])

	return d, nil
}

func (d *NameData) Clone() *NameData {
	clone := *d
	clone.Value = append([]byte(nil), d.Value...)
	clone.AddressScript = append([]byte(nil), d.AddressScript...)

	return &clone
}

func (d *NameData) Equal(other *NameData) bool {
	if d == nil || other == nil {
		return d == other
	}

	return d.Height == other.Height &&
		d.UpdateOutpoint == other.UpdateOutpoint &&
		bytes.Equal(d.Value, other.Value) &&
		bytes.Equal(d.AddressScript, other.AddressScript)
}

func (d *NameData) DynamicMemoryUsage() int64 {
	if d == nil {
		return 0
	}

	return int64(len(d.Value)+len(d.AddressScript)) + 64
}

func (d *NameData) String() string {
	return fmt.Sprintf("NameData{value: %q, height: %d, outpoint: %s}", d.Value, d.Height, d.UpdateOutpoint.String())
}

// NameIsValid checks the length rules for a name identifier.
func NameIsValid(name []byte, params *chaincfg.Params) bool {
	return len(name) > 0 && len(name) <= params.MaxNameLength
}

// ValueIsValid checks the length rule for a name value.
func ValueIsValid(value []byte, params *chaincfg.Params) bool {
	return len(value) <= params.MaxValueLength
}
