package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(ERR_NAME_NOT_FOUND, "no record for %q", "d/example")

	assert.Equal(t, ERR_NAME_NOT_FOUND, err.Code())
	assert.Contains(t, err.Error(), `no record for "d/example"`)
}

func TestNewWrapsTrailingError(t *testing.T) {
	cause := errors.New("disk on fire")
	err := New(ERR_STORAGE_ERROR, "failed to read coin", cause)

	require.Error(t, err.WrappedErr())
	assert.True(t, Is(err, cause))
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestIsMatchesByCode(t *testing.T) {
	err := NewNameExistsError("name %q is taken", "d/example")

	assert.True(t, Is(err, ErrNameExists))
	assert.False(t, Is(err, ErrNameNotFound))
	assert.False(t, Is(nil, ErrNameExists))
}

func TestIsSeesThroughWrapping(t *testing.T) {
	inner := NewCoinNotFoundError("no coin at outpoint")
	outer := NewProcessingError("expiry sweep failed", inner)

	assert.True(t, Is(outer, ErrCoinNotFound))
	assert.True(t, Is(outer, ErrProcessing))
}

func TestAs(t *testing.T) {
	var target *Error

	err := NewTxInvalidError("amount too low")
	require.True(t, As(err, &target))
	assert.Equal(t, ERR_TX_INVALID, target.Code())
}

func TestErrString(t *testing.T) {
	assert.Equal(t, "NAME_EXPIRED", ERR_NAME_EXPIRED.Enum())
	assert.Equal(t, "UNKNOWN", ERR_UNKNOWN.Enum())
	assert.Equal(t, "TX_INVALID", ERR_TX_INVALID.String())
}
