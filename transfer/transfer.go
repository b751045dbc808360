package transfer

import (
	"bytes"
	"math/big"

	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	selectorLen = 4
	wordLen     = 32
)

var (
	transferSelector     = crypto.Keccak256([]byte("transfer(address,uint256)"))[:selectorLen]
	transferFromSelector = crypto.Keccak256([]byte("transferFrom(address,address,uint256)"))[:selectorLen]
)

// Extract derives the net asset movements from a trace: at most one native
// transfer and one token transfer per touch record, in trace order.
func Extract(trace []types.AccountAccess) []types.Transfer {
	var transfers []types.Transfer
	for i := range trace {
		if t, ok := nativeTransfer(&trace[i]); ok {
			transfers = append(transfers, t)
		}
		if t, ok := tokenTransfer(&trace[i]); ok {
			transfers = append(transfers, t)
		}
	}
	return transfers
}

// nativeTransfer reports the native-value movement of one touch record.
func nativeTransfer(access *types.AccountAccess) (types.Transfer, bool) {
	value := access.ValueBig()
	if access.Reverted || value.Sign() == 0 {
		return types.Transfer{}, false
	}
	return types.Transfer{
		From:   access.Accessor,
		To:     access.Account,
		Amount: value,
		Asset:  types.NativeAsset,
	}, true
}

// tokenTransfer recognizes transfer and transferFrom call payloads. Any other
// selector, or a payload too short for the expected arguments, yields no
// transfer; that is not an error.
func tokenTransfer(access *types.AccountAccess) (types.Transfer, bool) {
	data := access.Data
	if access.Reverted || len(data) < selectorLen+1 {
		return types.Transfer{}, false
	}

	selector := data[:selectorLen]
	args := data[selectorLen:]

	switch {
	case bytes.Equal(selector, transferSelector):
		if len(args) < 2*wordLen {
			return types.Transfer{}, false
		}
		to := wordToAddress(args[:wordLen])
		amount := new(big.Int).SetBytes(args[wordLen : 2*wordLen])
		if amount.Sign() == 0 {
			return types.Transfer{}, false
		}
		return types.Transfer{
			From:   access.Accessor,
			To:     to,
			Amount: amount,
			Asset:  access.Account,
		}, true

	case bytes.Equal(selector, transferFromSelector):
		if len(args) < 3*wordLen {
			return types.Transfer{}, false
		}
		from := wordToAddress(args[:wordLen])
		to := wordToAddress(args[wordLen : 2*wordLen])
		amount := new(big.Int).SetBytes(args[2*wordLen : 3*wordLen])
		if amount.Sign() == 0 {
			return types.Transfer{}, false
		}
		return types.Transfer{
			From:   from,
			To:     to,
			Amount: amount,
			Asset:  access.Account,
		}, true
	}

	return types.Transfer{}, false
}

// wordToAddress reads an ABI-encoded address from a 32-byte argument word.
func wordToAddress(word []byte) common.Address {
	return common.BytesToAddress(word[wordLen-common.AddressLength:])
}
