package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AccessKind discriminates how an execution unit touched an account.
type AccessKind string

const (
	KindCall         AccessKind = "CALL"
	KindDelegateCall AccessKind = "DELEGATECALL"
	KindCallCode     AccessKind = "CALLCODE"
	KindStaticCall   AccessKind = "STATICCALL"
	KindCreate       AccessKind = "CREATE"
	KindSelfDestruct AccessKind = "SELFDESTRUCT"
	KindResume       AccessKind = "RESUME"
	KindBalance      AccessKind = "BALANCE"
)

// StorageAccess is a single storage read or write observed during simulation.
type StorageAccess struct {
	Account       common.Address `json:"account"`
	Slot          common.Hash    `json:"slot"`
	IsWrite       bool           `json:"isWrite"`
	PreviousValue common.Hash    `json:"previousValue"`
	NewValue      common.Hash    `json:"newValue"`
	Reverted      bool           `json:"reverted"`
}

// AccountAccess is one touch record from the simulation engine. The engine
// emits them in replay order; later writes to the same slot supersede earlier
// ones.
type AccountAccess struct {
	ChainID         uint64          `json:"chainId"`
	Kind            AccessKind      `json:"kind"`
	Account         common.Address  `json:"account"`
	Accessor        common.Address  `json:"accessor"`
	Value           *hexutil.Big    `json:"value"`
	Data            hexutil.Bytes   `json:"data"`
	Reverted        bool            `json:"reverted"`
	StorageAccesses []StorageAccess `json:"storageAccesses"`
}

// ValueBig returns the native value moved by this access, never nil.
func (a *AccountAccess) ValueBig() *big.Int {
	if a.Value == nil {
		return new(big.Int)
	}
	return (*big.Int)(a.Value)
}

// NetDiff is the collapsed before/after value for one storage slot of one
// account across an entire trace. Old always differs from New.
type NetDiff struct {
	Account common.Address `json:"account"`
	Slot    common.Hash    `json:"slot"`
	Old     common.Hash    `json:"old"`
	New     common.Hash    `json:"new"`
}

// SlotKind tags how a decoded slot value was interpreted.
type SlotKind string

const (
	SlotAddress SlotKind = "address"
	SlotBool    SlotKind = "bool"
	SlotUint    SlotKind = "uint"
	SlotString  SlotKind = "string"
)

// DecodedSlot is the optional semantic interpretation of a NetDiff. An empty
// Kind means the slot was not recognized, which is an expected outcome.
type DecodedSlot struct {
	Kind    SlotKind `json:"kind,omitempty"`
	OldText string   `json:"oldText,omitempty"`
	NewText string   `json:"newText,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Detail  string   `json:"detail,omitempty"`
}

// Recognized reports whether decoding produced a semantic interpretation.
func (d DecodedSlot) Recognized() bool {
	return d.Kind != ""
}

// NativeAsset is the sentinel asset address for native-currency transfers.
var NativeAsset = common.Address{}

// Transfer is one net asset movement extracted from a touch record.
type Transfer struct {
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount *big.Int       `json:"amount"`
	Asset  common.Address `json:"asset"`
}

// Native reports whether the transfer moves the native asset.
func (t Transfer) Native() bool {
	return t.Asset == NativeAsset
}

// AccountIdentity is the resolved display name and chain scope of an account.
// Both fields stay zero when the account could not be identified.
type AccountIdentity struct {
	ChainID uint64 `json:"chainId,omitempty"`
	Name    string `json:"name,omitempty"`
}

// ReportRow pairs one net diff with its account identity and decoding result.
type ReportRow struct {
	Identity AccountIdentity `json:"identity"`
	Diff     NetDiff         `json:"diff"`
	Decoded  DecodedSlot     `json:"decoded"`
}
