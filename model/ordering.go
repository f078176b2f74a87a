package model

import (
	"bytes"
	"encoding/binary"

	"github.com/namechain/namechaind/errors"
)

// CompareNames orders names by length first, then lexicographically. This is
// the order the database key encoding produces (names are stored behind a
// compact-size length prefix), so merged iteration over cache and store must
// use it too.
func CompareNames(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}

		return 1
	}

	return bytes.Compare(a, b)
}

// EncodeExpiryHeight encodes a height for use inside expiry-index keys.
// The encoding is big-endian so that raw byte iteration over the index
// yields ascending height order; a little-endian encoding would not.
func EncodeExpiryHeight(height uint32) [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], height)

	return b
}

// DecodeExpiryHeight reverses EncodeExpiryHeight.
func DecodeExpiryHeight(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, errors.NewInvalidArgumentError("expiry height must be 4 bytes, got %d", len(b))
	}

	return binary.BigEndian.Uint32(b), nil
}
