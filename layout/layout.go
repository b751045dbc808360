package layout

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Entry describes one named field of a contract storage layout. Slot is kept
// in the schema's textual form: the store emits it as a decimal string, forge
// artifacts sometimes as 0x-prefixed hex.
type Entry struct {
	Slot   string `json:"slot"`
	Type   string `json:"type"`
	Label  string `json:"label"`
	Offset int    `json:"offset"`
}

// StorageLayout is the ordered field list of one contract.
type StorageLayout struct {
	Storage []Entry `json:"storage"`
}

// SlotHash canonicalizes the textual slot to a 32-byte key.
func (e Entry) SlotHash() (common.Hash, error) {
	text := strings.TrimSpace(e.Slot)
	base := 10
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		text = text[2:]
		base = 16
	}
	n, ok := new(big.Int).SetString(text, base)
	if !ok {
		return common.Hash{}, fmt.Errorf("invalid slot %q in storage layout", e.Slot)
	}
	return common.BigToHash(n), nil
}

// NormalizedType strips the forge artifact "t_" prefix so schema types
// compare as plain tags (address, bool, uint256, ...).
func (e Entry) NormalizedType() string {
	return strings.TrimPrefix(e.Type, "t_")
}
