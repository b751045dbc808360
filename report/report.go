package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
)

// Options controls signer-specific annotation of the rendered report.
type Options struct {
	// Signer is the safe whose approval markers should be cross-referenced.
	// Zero disables the special-casing.
	Signer common.Address
	// SignerOwners is the signer safe's member list.
	SignerOwners []common.Address
	// OperationHash identifies the operation being approved.
	OperationHash common.Hash
}

// Render writes the canonical markdown-flavored report. Rows must already be
// grouped by account (the pipeline guarantees this); a new section header is
// emitted whenever the account changes.
//
// An empty row set is a hard failure: the caller asked for a report on a
// trace that was expected to change state, so something upstream is wrong.
func Render(w io.Writer, rows []types.ReportRow, transfers []types.Transfer, opts Options) error {
	if len(rows) == 0 {
		return fmt.Errorf("no state changes decoded: the simulated transaction was expected to write state")
	}

	approvals := map[common.Hash]common.Address{}
	if opts.Signer != (common.Address{}) && len(opts.SignerOwners) > 0 {
		approvals = ApprovalSlots(opts.SignerOwners, opts.OperationHash)
	}

	if len(transfers) > 0 {
		fmt.Fprintf(w, "## Transfers\n\n")
		for _, t := range transfers {
			asset := "ETH"
			if !t.Native() {
				asset = t.Asset.Hex()
			}
			fmt.Fprintf(w, "- `%s` -> `%s`: %s (%s)\n", t.From.Hex(), t.To.Hex(), t.Amount.String(), asset)
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "## State Changes\n")

	var current common.Address
	first := true
	for _, row := range rows {
		if first || row.Diff.Account != current {
			current = row.Diff.Account
			first = false
			fmt.Fprintf(w, "\n### `%s` (%s)\n\n", current.Hex(), describeIdentity(row.Identity))
		}

		fmt.Fprintf(w, "- **Key:** `%s`\n", row.Diff.Slot.Hex())
		fmt.Fprintf(w, "  **Before:** `%s`\n", row.Diff.Old.Hex())
		fmt.Fprintf(w, "  **After:** `%s`\n", row.Diff.New.Hex())

		if owner, ok := approvals[row.Diff.Slot]; ok && row.Diff.Account == opts.Signer {
			fmt.Fprintf(w, "  **Meaning:** approval marker set by owner `%s` for operation `%s`\n",
				owner.Hex(), opts.OperationHash.Hex())
			continue
		}

		if !row.Decoded.Recognized() && row.Decoded.Summary == "" {
			fmt.Fprintf(w, "  **Meaning:** not automatically decoded; annotate manually\n")
			continue
		}

		summary := row.Decoded.Summary
		if row.Decoded.OldText != "" || row.Decoded.NewText != "" {
			summary = fmt.Sprintf("%s (%s -> %s)", summary, row.Decoded.OldText, row.Decoded.NewText)
		}
		fmt.Fprintf(w, "  **Meaning:** %s\n", summary)
		if row.Decoded.Detail != "" {
			fmt.Fprintf(w, "  **Detail:** %s\n", row.Decoded.Detail)
		}
	}

	return nil
}

func describeIdentity(identity types.AccountIdentity) string {
	switch {
	case identity.Name == "" && identity.ChainID == 0:
		return "unknown"
	case identity.ChainID == 0:
		return identity.Name
	case identity.Name == "":
		return "chain " + strconv.FormatUint(identity.ChainID, 10)
	default:
		return fmt.Sprintf("chain %d: %s", identity.ChainID, identity.Name)
	}
}
