package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ContractCaller is the read-only call surface the probes need. It is
// satisfied by *ethclient.Client.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

var (
	thresholdSelector = crypto.Keccak256([]byte("getThreshold()"))[:4]
	lastLiveSelector  = crypto.Keccak256([]byte("lastLive(address)"))[:4]
	fallbackSelector  = crypto.Keccak256([]byte("ownershipTransferredToFallback()"))[:4]
)

// isSafe probes for the GnosisSafe threshold getter: a successful call with a
// single-word response is taken as a match.
func (r *Resolver) isSafe(ctx context.Context, account common.Address) bool {
	return r.probe(ctx, account, thresholdSelector)
}

// isLivenessGuard probes the per-owner liveness timestamp getter, using the
// account itself as the queried owner.
func (r *Resolver) isLivenessGuard(ctx context.Context, account common.Address) bool {
	data := append(append([]byte{}, lastLiveSelector...), common.LeftPadBytes(account.Bytes(), 32)...)
	return r.probe(ctx, account, data)
}

// isLivenessModule probes the ownership-fallback marker getter.
func (r *Resolver) isLivenessModule(ctx context.Context, account common.Address) bool {
	return r.probe(ctx, account, fallbackSelector)
}

// probe issues one eth_call and matches on success plus a 32-byte response.
// This is approximate on purpose: unrelated contracts with a colliding
// selector would also answer.
func (r *Resolver) probe(ctx context.Context, account common.Address, data []byte) bool {
	if r.caller == nil {
		return false
	}
	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &account, Data: data}, nil)
	return err == nil && len(out) == 32
}
