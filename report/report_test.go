package report

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	safe   = common.HexToAddress("0x9000000000000000000000000000000000000009")
	owner  = common.HexToAddress("0x7000000000000000000000000000000000000007")
	target = common.HexToAddress("0x5000000000000000000000000000000000000005")
	opHash = common.HexToHash("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
)

func row(account common.Address, slot int64, decoded types.DecodedSlot) types.ReportRow {
	return types.ReportRow{
		Identity: types.AccountIdentity{ChainID: 10, Name: "SystemConfig"},
		Diff: types.NetDiff{
			Account: account,
			Slot:    common.BigToHash(big.NewInt(slot)),
			Old:     common.Hash{},
			New:     common.BigToHash(big.NewInt(1)),
		},
		Decoded: decoded,
	}
}

func TestApprovalSlotsMatchSolidityDerivation(t *testing.T) {
	slots := ApprovalSlots([]common.Address{owner}, opHash)
	require.Len(t, slots, 1)

	// Re-derive with the hashed-words helper from go-ethereum as a cross
	// check: keccak256(hash . keccak256(owner . 8)).
	inner := crypto.Keccak256(
		common.LeftPadBytes(owner.Bytes(), 32),
		common.BigToHash(big.NewInt(8)).Bytes(),
	)
	expected := crypto.Keccak256Hash(opHash.Bytes(), inner)

	got, ok := slots[expected]
	require.True(t, ok)
	assert.Equal(t, owner, got)
}

func TestRenderFailsOnEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, nil, nil, Options{})
	require.Error(t, err, "an empty decode result signals an upstream fault")
}

func TestRenderGroupsByAccount(t *testing.T) {
	other := common.HexToAddress("0x6000000000000000000000000000000000000006")
	rows := []types.ReportRow{
		row(target, 1, types.DecodedSlot{}),
		row(target, 2, types.DecodedSlot{}),
		row(other, 1, types.DecodedSlot{}),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, rows, nil, Options{}))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, target.Hex()), "one section header per account")
	assert.Equal(t, 1, strings.Count(out, other.Hex()))
	assert.Equal(t, 3, strings.Count(out, "**Key:**"))
}

func TestRenderUndecodedMarker(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []types.ReportRow{row(target, 1, types.DecodedSlot{})}, nil, Options{}))
	assert.Contains(t, buf.String(), "not automatically decoded; annotate manually")
}

func TestRenderDecodedSummaryAndDetail(t *testing.T) {
	decoded := types.DecodedSlot{
		Kind:    types.SlotBool,
		OldText: "false",
		NewText: "true",
		Summary: "paused",
		Detail:  "Pause flag for withdrawals.",
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []types.ReportRow{row(target, 1, decoded)}, nil, Options{}))

	out := buf.String()
	assert.Contains(t, out, "**Meaning:** paused (false -> true)")
	assert.Contains(t, out, "**Detail:** Pause flag for withdrawals.")
}

func TestRenderAnnotatesSignerApprovalSlots(t *testing.T) {
	slots := ApprovalSlots([]common.Address{owner}, opHash)
	var approvalSlot common.Hash
	for s := range slots {
		approvalSlot = s
	}

	signerRow := types.ReportRow{
		Identity: types.AccountIdentity{Name: "ProxyAdminOwner"},
		Diff: types.NetDiff{
			Account: safe,
			Slot:    approvalSlot,
			Old:     common.Hash{},
			New:     common.BigToHash(big.NewInt(1)),
		},
	}

	opts := Options{Signer: safe, SignerOwners: []common.Address{owner}, OperationHash: opHash}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []types.ReportRow{signerRow}, nil, opts))
	assert.Contains(t, buf.String(), "approval marker set by owner")
	assert.Contains(t, buf.String(), owner.Hex())
	assert.NotContains(t, buf.String(), "not automatically decoded")
}

func TestRenderApprovalSlotOnOtherAccountNotAnnotated(t *testing.T) {
	slots := ApprovalSlots([]common.Address{owner}, opHash)
	var approvalSlot common.Hash
	for s := range slots {
		approvalSlot = s
	}

	r := row(target, 1, types.DecodedSlot{})
	r.Diff.Slot = approvalSlot

	opts := Options{Signer: safe, SignerOwners: []common.Address{owner}, OperationHash: opHash}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []types.ReportRow{r}, nil, opts))
	assert.Contains(t, buf.String(), "not automatically decoded",
		"approval annotation applies to the signer account only")
}

func TestRenderTransfers(t *testing.T) {
	transfers := []types.Transfer{
		{From: owner, To: target, Amount: big.NewInt(5), Asset: types.NativeAsset},
		{From: owner, To: target, Amount: big.NewInt(7), Asset: safe},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []types.ReportRow{row(target, 1, types.DecodedSlot{})}, transfers, Options{}))

	out := buf.String()
	assert.Contains(t, out, "## Transfers")
	assert.Contains(t, out, ": 5 (ETH)")
	assert.Contains(t, out, ": 7 ("+safe.Hex()+")")
}

func TestRenderDeterministic(t *testing.T) {
	rows := []types.ReportRow{row(target, 1, types.DecodedSlot{}), row(target, 2, types.DecodedSlot{})}

	var a, b bytes.Buffer
	require.NoError(t, Render(&a, rows, nil, Options{}))
	require.NoError(t, Render(&b, rows, nil, Options{}))
	assert.Equal(t, a.String(), b.String())
}
