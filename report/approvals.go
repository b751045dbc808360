package report

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// approvedHashesSlot is the storage index of the GnosisSafe approvedHashes
// nested mapping (owner => operation hash => approved).
const approvedHashesSlot = 8

// ApprovalSlots derives the storage slot each safe owner writes when
// approving operation. The returned map keys are the expected slots, values
// the owner behind each.
func ApprovalSlots(owners []common.Address, operation common.Hash) map[common.Hash]common.Address {
	slots := make(map[common.Hash]common.Address, len(owners))
	indexWord := common.BigToHash(big.NewInt(approvedHashesSlot))

	for _, owner := range owners {
		ownerWord := common.LeftPadBytes(owner.Bytes(), 32)
		inner := keccakWords(ownerWord, indexWord[:])
		slot := keccakWords(operation[:], inner[:])
		slots[slot] = owner
	}
	return slots
}

// keccakWords hashes the concatenation of 32-byte words, matching the
// Solidity mapping slot derivation.
func keccakWords(words ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, w := range words {
		h.Write(w)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}
