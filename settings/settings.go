package settings

import (
	"path/filepath"

	"github.com/namechain/namechaind/chaincfg"
)

func NewSettings() *Settings {
	params, err := chaincfg.GetChainParams(getString("network", "mainnet"))
	if err != nil {
		panic(err)
	}

	dataFolder := getString("dataFolder", "data")

	return &Settings{
		ClientName:     getString("clientName", "namechaind"),
		DataFolder:     dataFolder,
		LogLevel:       getString("logLevel", "INFO"),
		ChainCfgParams: params,
		Name: NameSettings{
			HistoryEnabled: getBool("name_historyEnabled", false),
		},
		State: StateSettings{
			DBPath:        getString("state_dbPath", filepath.Join(dataFolder, "chainstate")),
			DBURL:         getURL("state_dbURL"),
			DBCacheMiB:    getInt("state_dbCacheMiB", 8),
			CacheMaxBytes: getInt64("state_cacheMaxBytes", 419430400), // 400MB
		},
	}
}

// NewTestSettings returns settings suitable for unit tests: regtest
// parameters and history tracking enabled so both code paths are covered.
func NewTestSettings() *Settings {
	params, err := chaincfg.GetChainParams("regtest")
	if err != nil {
		panic(err)
	}

	return &Settings{
		ClientName:     "test",
		DataFolder:     "data",
		LogLevel:       "ERROR",
		ChainCfgParams: params,
		Name: NameSettings{
			HistoryEnabled: true,
		},
		State: StateSettings{
			DBPath:        "",
			DBCacheMiB:    1,
			CacheMaxBytes: 33554432, // 32MB
		},
	}
}
