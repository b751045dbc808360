package decoder

import (
	"math/big"

	"github.com/Reimouto/superchain-ops/layout"
	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// LayoutStore supplies per-contract storage layout schemas.
type LayoutStore interface {
	Layout(name string) (layout.StorageLayout, error)
}

// typeWidths lists the schema type tags the decoder handles and the byte
// width of each. Anything else is intentionally unhandled.
var typeWidths = map[string]int{
	"bool":    1,
	"address": 20,
	"uint8":   1,
	"uint16":  2,
	"uint32":  4,
	"uint48":  6,
	"uint64":  8,
	"uint96":  12,
	"uint128": 16,
	"uint160": 20,
	"uint256": 32,
}

// Decoder maps net storage diffs to semantic descriptions. It tries the
// well-known slot table first, then the contract's layout schema, and
// abstains when neither applies.
type Decoder struct {
	layouts LayoutStore
	log     *logrus.Logger
}

// New creates a Decoder. layouts may be nil, in which case only the fixed
// table is consulted.
func New(layouts LayoutStore, log *logrus.Logger) *Decoder {
	return &Decoder{layouts: layouts, log: log}
}

// Decode interprets one net diff for the contract known as identity. An empty
// identity skips the schema lookup. The zero DecodedSlot is returned whenever
// no interpretation is safe; callers treat that as "annotate manually".
func (d *Decoder) Decode(identity string, slot, oldVal, newVal common.Hash) types.DecodedSlot {
	if rule, ok := knownSlots[slot]; ok {
		return types.DecodedSlot{
			Kind:    rule.kind,
			OldText: renderValue(rule.kind, oldVal, 0, fixedWidth(rule.kind)),
			NewText: renderValue(rule.kind, newVal, 0, fixedWidth(rule.kind)),
			Summary: rule.summary,
			Detail:  rule.detail,
		}
	}

	if identity == "" || d.layouts == nil {
		return types.DecodedSlot{}
	}
	return d.decodeFromSchema(identity, slot, oldVal, newVal)
}

func (d *Decoder) decodeFromSchema(identity string, slot, oldVal, newVal common.Hash) types.DecodedSlot {
	schema, err := d.layouts.Layout(identity)
	if err != nil {
		d.log.Warnf("Storage layout unavailable for %s, leaving slot undecoded: %v", identity, err)
		return types.DecodedSlot{}
	}

	// A slot hosting more than one field is packed; partial decoding is left
	// for manual review.
	occurrences := 0
	for _, entry := range schema.Storage {
		key, err := entry.SlotHash()
		if err != nil {
			d.log.Warnf("Skipping malformed layout entry for %s: %v", identity, err)
			continue
		}
		if key == slot {
			occurrences++
		}
	}
	if occurrences > 1 {
		return types.DecodedSlot{}
	}

	for _, entry := range schema.Storage {
		key, err := entry.SlotHash()
		if err != nil || key != slot {
			continue
		}

		decoded := types.DecodedSlot{Summary: entry.Label}
		tag := entry.NormalizedType()
		width, ok := typeWidths[tag]
		if !ok {
			// Unsupported type: report the label, leave values blank.
			return decoded
		}

		kind := kindForType(tag)
		decoded.Kind = kind
		decoded.OldText = renderValue(kind, oldVal, entry.Offset, width)
		decoded.NewText = renderValue(kind, newVal, entry.Offset, width)
		return decoded
	}

	return types.DecodedSlot{}
}

func kindForType(tag string) types.SlotKind {
	switch tag {
	case "bool":
		return types.SlotBool
	case "address":
		return types.SlotAddress
	default:
		return types.SlotUint
	}
}

// fixedWidth is the zero-offset width used for fixed-table decoding.
func fixedWidth(kind types.SlotKind) int {
	switch kind {
	case types.SlotBool:
		return 1
	case types.SlotAddress:
		return 20
	default:
		return 32
	}
}

// extractValue reads the width-byte value stored at the given byte offset of
// a 32-byte word: shift right by offset bytes, truncate to width.
func extractValue(word common.Hash, offset, width int) []byte {
	v := new(big.Int).SetBytes(word[:])
	v.Rsh(v, uint(offset)*8)

	mask := new(big.Int).Lsh(big.NewInt(1), uint(width)*8)
	mask.Sub(mask, big.NewInt(1))
	v.And(v, mask)

	out := make([]byte, width)
	return v.FillBytes(out)
}

// renderValue formats the sub-word value at (offset, width) per kind. String
// kinds render the whole word verbatim.
func renderValue(kind types.SlotKind, word common.Hash, offset, width int) string {
	switch kind {
	case types.SlotString:
		return word.Hex()
	case types.SlotAddress:
		return common.BytesToAddress(extractValue(word, offset, width)).Hex()
	case types.SlotBool:
		b := extractValue(word, offset, width)
		if b[len(b)-1] != 0 {
			return "true"
		}
		return "false"
	default:
		return new(big.Int).SetBytes(extractValue(word, offset, width)).String()
	}
}
