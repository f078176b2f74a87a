package chaincfg

import (
	"errors"
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// BugType classifies a historically inconsistent transaction. These
// transactions were accepted by old node versions despite violating the name
// rules and must be special-cased forever to stay in sync with the existing
// chain.
type BugType int

const (
	// BugFullyApply applies the transaction's name operation normally even
	// though it would be rejected by current rules.
	BugFullyApply BugType = iota

	// BugInUTXO applies the transaction to the coin set only; the name
	// database is left untouched.
	BugInUTXO

	// BugFullyIgnore skips the name operation entirely.
	BugFullyIgnore
)

// BugKey identifies one historic bug entry.
type BugKey struct {
	Height uint32
	TxID   chainhash.Hash
}

// ExpireException identifies a name whose expiry must be skipped at one
// specific height because its coin was already consumed by an unrelated
// historic bug.
type ExpireException struct {
	Height uint32
	Name   string
}

// HeightRange is an inclusive block-height interval.
type HeightRange struct {
	Start uint32
	End   uint32
}

// Contains reports whether height falls inside the range.
func (r HeightRange) Contains(height uint32) bool {
	return height >= r.Start && height <= r.End
}

// Params defines a name chain network by its name rules and historic
// special cases. The expiry and amount schedules are consensus policy and
// are consumed by the state layer as injected functions of height.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net uint32

	// MaxNameLength and MaxValueLength bound the identifier and payload of
	// a name record.
	MaxNameLength  int
	MaxValueLength int

	// ExpirationDepth returns the number of blocks after which a name
	// registered (or last updated) at the given height expires.
	ExpirationDepth func(height uint32) uint32

	// MinNameCoinAmount returns the minimum amount that must be locked in a
	// name output created at the given height.
	MinNameCoinAmount func(height uint32) uint64

	// HistoricBugs maps historically inconsistent transactions to the way
	// they must be (not) applied.
	HistoricBugs map[BugKey]BugType

	// ExpireExceptions lists (height, name) pairs the expiry sweep must
	// skip.
	ExpireExceptions map[ExpireException]struct{}

	// BuggedNameDBWindow is the height range in which the full-database
	// consistency check is known to fail on the historic chain and is
	// reported as expected rather than fatal.
	BuggedNameDBWindow HeightRange
}

// IsHistoricBug looks up the special-case treatment for a transaction
// confirmed at the given height.
func (p *Params) IsHistoricBug(height uint32, txid *chainhash.Hash) (BugType, bool) {
	bug, ok := p.HistoricBugs[BugKey{Height: height, TxID: *txid}]
	return bug, ok
}

// mainNetExpirationDepth is the original three-segment schedule: names
// initially expired after 12000 blocks; the depth was raised to 36000 with a
// linear transition so that no live name expired retroactively.
func mainNetExpirationDepth(height uint32) uint32 {
	switch {
	case height < 24000:
		return 12000
	case height < 48000:
		return height - 12000
	default:
		return 36000
	}
}

func mainNetMinNameCoinAmount(height uint32) uint64 {
	if height < 212500 {
		return 0
	}

	return 1000000 // 0.01 coin
}

// MainNetParams defines the network parameters for the main name chain
// network.
var MainNetParams = Params{
	Name: "mainnet",
	Net:  0xf9beb4fe,

	MaxNameLength:  255,
	MaxValueLength: 1023,

	ExpirationDepth:   mainNetExpirationDepth,
	MinNameCoinAmount: mainNetMinNameCoinAmount,

	HistoricBugs: map[BugKey]BugType{
		{Height: 98423, TxID: *newHashFromStr("bff3ed6873e5698b97bf0c28c29302b59588590b4979fbee6ce715d8d4b12358")}: BugFullyIgnore,
		{Height: 98424, TxID: *newHashFromStr("41d843655fe40b56b7d5cbe9c71e1e408d88bb9782896a5a57cf1ec8c12f72b3")}: BugFullyIgnore,
		{Height: 98425, TxID: *newHashFromStr("7da33a4046d64f2439cc0f3ada36cd6a223b355106a3e6c2e0b1d61f4ff9b940")}: BugFullyApply,
		{Height: 139872, TxID: *newHashFromStr("2f034f2499c136a2c5a922ca4be65c1292815c753bbb100a2a26d5ad532c3919")}: BugInUTXO,
		{Height: 139936, TxID: *newHashFromStr("c3e76d5384139228221cce60250397d1b87adf7366086bc8d6b5e6eeb5c868bb")}: BugInUTXO,
	},

	ExpireExceptions: map[ExpireException]struct{}{
		{Height: 175868, Name: "d/postmortem"}: {},
	},

	BuggedNameDBWindow: HeightRange{Start: 139000, End: 180000},
}

// TestNetParams defines the network parameters for the test network. The
// test chain has no historic special cases.
var TestNetParams = Params{
	Name: "testnet",
	Net:  0xfabfb5fe,

	MaxNameLength:  255,
	MaxValueLength: 1023,

	ExpirationDepth:   mainNetExpirationDepth,
	MinNameCoinAmount: mainNetMinNameCoinAmount,

	HistoricBugs:     map[BugKey]BugType{},
	ExpireExceptions: map[ExpireException]struct{}{},
}

// RegressionNetParams defines the network parameters for the regression test
// network. The short expiration depth keeps expiry reachable in tests.
var RegressionNetParams = Params{
	Name: "regtest",
	Net:  0xdab5bffa,

	MaxNameLength:  255,
	MaxValueLength: 1023,

	ExpirationDepth: func(height uint32) uint32 {
		return 30
	},
	MinNameCoinAmount: func(height uint32) uint64 {
		return 1000000
	},

	HistoricBugs:     map[BugKey]BugType{},
	ExpireExceptions: map[ExpireException]struct{}{},
}

// ErrDuplicateNet describes an error where the parameters for a network
// could not be set due to the network already being a standard network or
// previously-registered into this package.
var ErrDuplicateNet = errors.New("duplicate network")

var registeredNets = make(map[uint32]struct{})

// Register registers the network parameters for a name chain network. This
// may error with ErrDuplicateNet if the network is already registered
// (either due to a previous Register call, or the network being one of the
// default networks).
//
// Network parameters should be registered into this package by a main
// package as early as possible. Then, library packages may lookup networks
// or network parameters based on inputs and work regardless of the network
// being standard or not.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = struct{}{}

	return nil
}

// mustRegister performs the same function as Register except it panics if
// there is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// newHashFromStr converts the passed big-endian hex string into a
// chainhash.Hash. It only differs from the one available in chainhash in
// that it panics on an error since it will only (and must only) be called
// with hard-coded, and therefore known good, hashes.
func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}
	return hash
}

func GetChainParams(network string) (*Params, error) {
	switch network {
	case "mainnet":
		return &MainNetParams, nil
	case "testnet":
		return &TestNetParams, nil
	case "regtest":
		return &RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %s", network)
	}
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainNetParams)
	mustRegister(&TestNetParams)
	mustRegister(&RegressionNetParams)
}
