package state

import (
	"bytes"
	"sort"

	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
)

// UniqueTouchedAccounts returns every account with at least one effective
// storage write in the trace: isWrite set, not reverted, and a value that
// actually changed. Each account appears once, in first-seen order, or in
// ascending address order when sorted is set.
func UniqueTouchedAccounts(trace []types.AccountAccess, sorted bool) []common.Address {
	seen := make(map[common.Address]bool)
	var accounts []common.Address

	for _, access := range trace {
		for _, sa := range access.StorageAccesses {
			if !sa.IsWrite || sa.Reverted || sa.PreviousValue == sa.NewValue {
				continue
			}
			if !seen[sa.Account] {
				seen[sa.Account] = true
				accounts = append(accounts, sa.Account)
			}
		}
	}

	if sorted {
		sort.Slice(accounts, func(i, j int) bool {
			return bytes.Compare(accounts[i][:], accounts[j][:]) < 0
		})
	}
	return accounts
}

// DiffForAccount collapses every storage write the trace performed against
// account into one net diff per slot. The first write to a slot fixes the old
// value; later writes only move the new value (last write wins). Slots whose
// net old and new values are equal are dropped. Records marked fully reverted
// are skipped. Results come back in slot-first-seen order, or ascending by
// slot as an unsigned integer when sorted is set.
func DiffForAccount(trace []types.AccountAccess, account common.Address, sorted bool) []types.NetDiff {
	running := make(map[common.Hash]*types.NetDiff)
	var order []common.Hash

	for _, access := range trace {
		if access.Reverted {
			continue
		}
		for _, sa := range access.StorageAccesses {
			if !sa.IsWrite || sa.Reverted || sa.Account != account {
				continue
			}
			if diff, ok := running[sa.Slot]; ok {
				diff.New = sa.NewValue
				continue
			}
			running[sa.Slot] = &types.NetDiff{
				Account: account,
				Slot:    sa.Slot,
				Old:     sa.PreviousValue,
				New:     sa.NewValue,
			}
			order = append(order, sa.Slot)
		}
	}

	if sorted {
		sort.Slice(order, func(i, j int) bool {
			return bytes.Compare(order[i][:], order[j][:]) < 0
		})
	}

	diffs := make([]types.NetDiff, 0, len(order))
	for _, slot := range order {
		diff := running[slot]
		if diff.Old == diff.New {
			continue
		}
		diffs = append(diffs, *diff)
	}
	return diffs
}

// DiffAll aggregates net diffs for every touched account. Account enumeration
// order is the primary key of the result, slot order the secondary; both
// respect the sorted flag.
func DiffAll(trace []types.AccountAccess, sorted bool) []types.NetDiff {
	var diffs []types.NetDiff
	for _, account := range UniqueTouchedAccounts(trace, sorted) {
		diffs = append(diffs, DiffForAccount(trace, account, sorted)...)
	}
	return diffs
}
