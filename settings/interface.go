package settings

import (
	"net/url"

	"github.com/namechain/namechaind/chaincfg"
)

// NameSettings groups the name-namespace options. HistoryEnabled decides
// whether superseded name records are kept; it is fixed at startup and read
// by both the cache and the database checker.
type NameSettings struct {
	HistoryEnabled bool
}

// StateSettings groups the chain-state storage options.
type StateSettings struct {
	DBPath        string
	DBURL         *url.URL
	DBCacheMiB    int
	CacheMaxBytes int64
}

type Settings struct {
	ClientName     string
	DataFolder     string
	LogLevel       string
	ChainCfgParams *chaincfg.Params
	Name           NameSettings
	State          StateSettings
}
