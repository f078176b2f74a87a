package chaincfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainNetExpirationDepth(t *testing.T) {
	assert.Equal(t, uint32(12000), mainNetExpirationDepth(0))
	assert.Equal(t, uint32(12000), mainNetExpirationDepth(23999))
	assert.Equal(t, uint32(12000), mainNetExpirationDepth(24000))
	assert.Equal(t, uint32(24001), mainNetExpirationDepth(36001))
	assert.Equal(t, uint32(35999), mainNetExpirationDepth(47999))
	assert.Equal(t, uint32(36000), mainNetExpirationDepth(48000))
	assert.Equal(t, uint32(36000), mainNetExpirationDepth(1000000))
}

func TestMainNetMinNameCoinAmount(t *testing.T) {
	assert.Zero(t, mainNetMinNameCoinAmount(0))
	assert.Zero(t, mainNetMinNameCoinAmount(212499))
	assert.Equal(t, uint64(1000000), mainNetMinNameCoinAmount(212500))
}

func TestIsHistoricBug(t *testing.T) {
	txid := newHashFromStr("bff3ed6873e5698b97bf0c28c29302b59588590b4979fbee6ce715d8d4b12358")

	bug, ok := MainNetParams.IsHistoricBug(98423, txid)
	require.True(t, ok)
	assert.Equal(t, BugFullyIgnore, bug)

	// same transaction at a different height is not special
	_, ok = MainNetParams.IsHistoricBug(98424, txid)
	assert.False(t, ok)

	_, ok = RegressionNetParams.IsHistoricBug(98423, txid)
	assert.False(t, ok)
}

func TestHeightRangeContains(t *testing.T) {
	r := HeightRange{Start: 139000, End: 180000}

	assert.False(t, r.Contains(138999))
	assert.True(t, r.Contains(139000))
	assert.True(t, r.Contains(180000))
	assert.False(t, r.Contains(180001))
}

func TestGetChainParams(t *testing.T) {
	for _, name := range []string{"mainnet", "testnet", "regtest"} {
		params, err := GetChainParams(name)
		require.NoError(t, err)
		assert.Equal(t, name, params.Name)
	}

	_, err := GetChainParams("nonsense")
	require.Error(t, err)
}

func TestExpireExceptions(t *testing.T) {
	_, ok := MainNetParams.ExpireExceptions[ExpireException{Height: 175868, Name: "d/postmortem"}]
	assert.True(t, ok)
}
