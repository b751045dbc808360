package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/Reimouto/superchain-ops/registry"
	"github.com/Reimouto/superchain-ops/state"
	"github.com/Reimouto/superchain-ops/transfer"
	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Resolver supplies account identities. Satisfied by *registry.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, account common.Address) types.AccountIdentity
}

// SlotDecoder interprets one net diff. Satisfied by *decoder.Decoder.
type SlotDecoder interface {
	Decode(identity string, slot, oldVal, newVal common.Hash) types.DecodedSlot
}

// Result is the decoded report: one row per net diff, grouped by account in
// enumeration order, plus the extracted transfers in trace order.
type Result struct {
	Rows      []types.ReportRow `json:"rows"`
	Transfers []types.Transfer  `json:"transfers"`
}

// Auditor runs the trace-to-decoded-report pipeline.
type Auditor struct {
	resolver Resolver
	decoder  SlotDecoder
	log      *logrus.Logger
}

// New wires an Auditor.
func New(resolver Resolver, decoder SlotDecoder, log *logrus.Logger) *Auditor {
	return &Auditor{resolver: resolver, decoder: decoder, log: log}
}

// Run audits one simulation trace. External lookup failures degrade rows to
// undecoded; they never abort the run.
func (a *Auditor) Run(ctx context.Context, trace []types.AccountAccess, sorted bool) (*Result, error) {
	result := &Result{
		Transfers: transfer.Extract(trace),
	}

	accounts := state.UniqueTouchedAccounts(trace, sorted)
	a.log.Infof("Trace touches %d account(s) with effective writes", len(accounts))

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("audit cancelled: %v", err)
		}

		identity := a.resolver.Resolve(ctx, account)
		if identity.Name == "" {
			a.log.Debugf("No identity for %s; schema decoding disabled for its diffs", account.Hex())
		}

		// The behavioral marker is display-only; layout schemas are keyed by
		// the bare registry label.
		layoutKey := strings.TrimSuffix(identity.Name, registry.SafeMarker)

		for _, diff := range state.DiffForAccount(trace, account, sorted) {
			result.Rows = append(result.Rows, types.ReportRow{
				Identity: identity,
				Diff:     diff,
				Decoded:  a.decoder.Decode(layoutKey, diff.Slot, diff.Old, diff.New),
			})
		}
	}

	return result, nil
}
