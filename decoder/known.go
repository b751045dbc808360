package decoder

import (
	"math/big"

	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// slotRule is the decoding rule for one well-known unstructured storage slot.
type slotRule struct {
	kind    types.SlotKind
	summary string
	detail  string
}

// knownSlots maps well-known unstructured slots to their rule. Keys are
// derived at init from their defining labels; the EIP-1967 slots subtract one
// from the label hash per that convention.
var knownSlots = map[common.Hash]slotRule{}

func init() {
	eip1967 := func(label string, kind types.SlotKind, summary, detail string) {
		knownSlots[hashLabel(label, true)] = slotRule{kind: kind, summary: summary, detail: detail}
	}
	fixed := func(label string, kind types.SlotKind, summary, detail string) {
		knownSlots[hashLabel(label, false)] = slotRule{kind: kind, summary: summary, detail: detail}
	}

	eip1967("eip1967.proxy.implementation", types.SlotAddress,
		"Implementation address changed",
		"EIP-1967 implementation slot. Verify the new implementation is the intended contract.")
	eip1967("eip1967.proxy.admin", types.SlotAddress,
		"Proxy admin changed",
		"EIP-1967 admin slot. Only the ProxyAdmin should ever be set here.")
	eip1967("eip1967.proxy.beacon", types.SlotAddress,
		"Proxy beacon changed",
		"EIP-1967 beacon slot.")
	eip1967("eip1967.proxy.rollback", types.SlotBool,
		"Proxy rollback flag changed",
		"EIP-1967 rollback slot, expected to stay unset outside upgrades.")

	fixed("org.zeppelinos.proxy.implementation", types.SlotAddress,
		"Legacy implementation address changed",
		"ZeppelinOS unstructured implementation slot.")
	fixed("org.zeppelinos.proxy.admin", types.SlotAddress,
		"Legacy proxy admin changed",
		"ZeppelinOS unstructured admin slot.")

	fixed("systemconfig.unsafeblocksigner", types.SlotAddress,
		"Unsafe block signer changed",
		"SystemConfig unstructured slot for the p2p unsafe block signer key.")
	fixed("systemconfig.l1crossdomainmessenger", types.SlotAddress,
		"L1CrossDomainMessenger address changed", "")
	fixed("systemconfig.l1erc721bridge", types.SlotAddress,
		"L1ERC721Bridge address changed", "")
	fixed("systemconfig.l1standardbridge", types.SlotAddress,
		"L1StandardBridge address changed", "")
	fixed("systemconfig.l2outputoracle", types.SlotAddress,
		"L2OutputOracle address changed", "")
	fixed("systemconfig.optimismportal", types.SlotAddress,
		"OptimismPortal address changed", "")
	fixed("systemconfig.optimismmintableerc20factory", types.SlotAddress,
		"OptimismMintableERC20Factory address changed", "")
	fixed("systemconfig.batchinbox", types.SlotAddress,
		"Batch inbox address changed", "")
	fixed("systemconfig.disputegamefactory", types.SlotAddress,
		"DisputeGameFactory address changed", "")
	fixed("systemconfig.gaspayingtoken", types.SlotAddress,
		"Gas paying token changed",
		"Custom gas token address, zero for plain ether.")
	fixed("systemconfig.gaspayingtokenname", types.SlotString,
		"Gas paying token name changed", "")
	fixed("systemconfig.gaspayingtokensymbol", types.SlotString,
		"Gas paying token symbol changed", "")
	fixed("systemconfig.startBlock", types.SlotUint,
		"SystemConfig start block changed", "")
}

// hashLabel derives the 32-byte slot key for a stable label. subOne applies
// the EIP-1967 keccak-minus-one convention.
func hashLabel(label string, subOne bool) common.Hash {
	h := crypto.Keccak256Hash([]byte(label))
	if !subOne {
		return h
	}
	n := new(big.Int).SetBytes(h[:])
	n.Sub(n, big.NewInt(1))
	return common.BigToHash(n)
}
