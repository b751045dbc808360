package decoder

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/Reimouto/superchain-ops/layout"
	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore serves a fixed layout, or an error when err is set.
type stubStore struct {
	layout layout.StorageLayout
	err    error
}

func (s *stubStore) Layout(name string) (layout.StorageLayout, error) {
	return s.layout, s.err
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func addrWord(addr common.Address) common.Hash {
	return common.BytesToHash(common.LeftPadBytes(addr.Bytes(), 32))
}

func TestDecodeKnownImplementationSlot(t *testing.T) {
	d := New(nil, testLogger())

	oldImpl := common.HexToAddress("0x1111111111111111111111111111111111111111")
	newImpl := common.HexToAddress("0x2222222222222222222222222222222222222222")
	slot := hashLabel("eip1967.proxy.implementation", true)

	decoded := d.Decode("", slot, addrWord(oldImpl), addrWord(newImpl))
	require.True(t, decoded.Recognized())
	assert.Equal(t, types.SlotAddress, decoded.Kind)
	assert.Equal(t, oldImpl.Hex(), decoded.OldText)
	assert.Equal(t, newImpl.Hex(), decoded.NewText)
	assert.Equal(t, "Implementation address changed", decoded.Summary)
}

func TestKnownTableTakesPrecedenceOverSchema(t *testing.T) {
	slot := hashLabel("eip1967.proxy.admin", true)
	store := &stubStore{layout: layout.StorageLayout{Storage: []layout.Entry{
		{Slot: new(big.Int).SetBytes(slot[:]).String(), Type: "uint256", Label: "shadowed"},
	}}}
	d := New(store, testLogger())

	decoded := d.Decode("SomeContract", slot, common.Hash{}, addrWord(common.HexToAddress("0x01")))
	assert.Equal(t, "Proxy admin changed", decoded.Summary)
	assert.Equal(t, types.SlotAddress, decoded.Kind)
}

func TestDecodeFromSchema(t *testing.T) {
	store := &stubStore{layout: layout.StorageLayout{Storage: []layout.Entry{
		{Slot: "4", Type: "bool", Label: "paused", Offset: 0},
	}}}
	d := New(store, testLogger())

	decoded := d.Decode("SystemConfig", common.BigToHash(big.NewInt(4)),
		common.Hash{}, common.BigToHash(big.NewInt(1)))
	require.True(t, decoded.Recognized())
	assert.Equal(t, types.SlotBool, decoded.Kind)
	assert.Equal(t, "false", decoded.OldText)
	assert.Equal(t, "true", decoded.NewText)
	assert.Equal(t, "paused", decoded.Summary)
	assert.Empty(t, decoded.Detail, "schema entries carry no free-text detail")
}

func TestDecodeSchemaHexSlotAndTPrefix(t *testing.T) {
	store := &stubStore{layout: layout.StorageLayout{Storage: []layout.Entry{
		{Slot: "0x04", Type: "t_address", Label: "owner", Offset: 0},
	}}}
	d := New(store, testLogger())

	owner := common.HexToAddress("0x3333333333333333333333333333333333333333")
	decoded := d.Decode("Anything", common.BigToHash(big.NewInt(4)), common.Hash{}, addrWord(owner))
	require.True(t, decoded.Recognized())
	assert.Equal(t, owner.Hex(), decoded.NewText)
}

func TestDecodeAbstainsOnSharedSlot(t *testing.T) {
	entries := []layout.Entry{
		{Slot: "4", Type: "uint48", Label: "basefeeScalar", Offset: 0},
		{Slot: "4", Type: "uint48", Label: "blobbasefeeScalar", Offset: 6},
	}
	shared := &stubStore{layout: layout.StorageLayout{Storage: entries}}
	single := &stubStore{layout: layout.StorageLayout{Storage: entries[:1]}}

	slot := common.BigToHash(big.NewInt(4))
	before, after := common.Hash{}, common.BigToHash(big.NewInt(99))

	assert.False(t, New(shared, testLogger()).Decode("C", slot, before, after).Recognized(),
		"packed slots must be abstained on")
	assert.True(t, New(single, testLogger()).Decode("C", slot, before, after).Recognized(),
		"the identical single-entry schema decodes fine")
}

func TestDecodeAbstainsWhenSchemaUnavailable(t *testing.T) {
	store := &stubStore{err: fmt.Errorf("schema service returned HTTP 404")}
	d := New(store, testLogger())

	decoded := d.Decode("Unknown", common.BigToHash(big.NewInt(1)), common.Hash{}, common.BigToHash(big.NewInt(2)))
	assert.False(t, decoded.Recognized())
}

func TestDecodeSkipsSchemaWithoutIdentity(t *testing.T) {
	store := &stubStore{layout: layout.StorageLayout{Storage: []layout.Entry{
		{Slot: "1", Type: "uint256", Label: "counter"},
	}}}
	d := New(store, testLogger())

	decoded := d.Decode("", common.BigToHash(big.NewInt(1)), common.Hash{}, common.BigToHash(big.NewInt(2)))
	assert.False(t, decoded.Recognized(), "schema lookup requires a known identity")
}

func TestDecodeUnsupportedTypeKeepsLabelOnly(t *testing.T) {
	store := &stubStore{layout: layout.StorageLayout{Storage: []layout.Entry{
		{Slot: "2", Type: "mapping(address => uint256)", Label: "balances"},
	}}}
	d := New(store, testLogger())

	decoded := d.Decode("Token", common.BigToHash(big.NewInt(2)), common.Hash{}, common.BigToHash(big.NewInt(2)))
	assert.False(t, decoded.Recognized())
	assert.Equal(t, "balances", decoded.Summary)
	assert.Empty(t, decoded.OldText)
	assert.Empty(t, decoded.NewText)
}

func TestExtractValueRoundTrip(t *testing.T) {
	for _, width := range []int{1, 2, 4, 6, 8, 12, 16, 20, 32} {
		for offset := 0; offset+width <= 32; offset += 5 {
			// Largest value of the width, alternating bits to catch shifts.
			value := new(big.Int).Lsh(big.NewInt(1), uint(width)*8)
			value.Sub(value, big.NewInt(1))
			value.And(value, mustBig(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))

			word := common.BigToHash(new(big.Int).Lsh(value, uint(offset)*8))
			got := new(big.Int).SetBytes(extractValue(word, offset, width))
			assert.Zerof(t, value.Cmp(got), "width=%d offset=%d", width, offset)
		}
	}
}

func mustBig(t *testing.T, hex string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(hex, 16)
	require.True(t, ok)
	return n
}

func TestKnownSlotTableDerivation(t *testing.T) {
	// EIP-1967 implementation slot is a published constant; pin it so the
	// derivation never drifts.
	assert.Equal(t,
		common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc"),
		hashLabel("eip1967.proxy.implementation", true))

	_, ok := knownSlots[hashLabel("systemconfig.unsafeblocksigner", false)]
	assert.True(t, ok)
}
