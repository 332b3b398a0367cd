// Copyright 2025 Certen Protocol
//
// Public-data commitment: the two-round SHA-256 chained hash the on-chain
// verifier recomputes from (block_number, total_fees, public_data). Ported
// byte-for-byte from prover.rs's apply_and_prove_transfer/_deposit/_exit
// (the block_number/total_fees big-endian preamble, the 0x1f top-bit mask,
// and the big-endian field reduction) — this is the one place a single
// off-by-one byte breaks consensus with a deployed verifier contract.

package commitment

import (
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/rollup-prover/pkg/primitives"
)

// topBitsMask clears the top 3 bits of a 32-byte SHA-256 digest so the
// result always fits in the 254-bit BN254 scalar field. Marked "temporary
// solution" in the source; kept bit-for-bit regardless.
const topBitsMask = 0x1f

// PublicDataCommitment computes the commitment field element for a block.
// totalFees participates only for Transfer blocks; callers must pass nil
// for Deposit and Exit blocks, per the "only Transfer batches have
// total_fees" rule.
func PublicDataCommitment(blockNumber uint32, totalFees *big.Int, publicData []byte) fr.Element {
	h1 := sha256.New()
	blockNumberBE := primitives.BE256(uint64(blockNumber))
	h1.Write(blockNumberBE[:])
	if totalFees != nil {
		feesBE := primitives.BE256FromBigInt(totalFees)
		h1.Write(feesBE[:])
	}
	round1 := h1.Sum(nil)

	h2 := sha256.New()
	h2.Write(round1)
	h2.Write(publicData)
	hashResult := h2.Sum(nil)

	hashResult[0] &= topBitsMask

	var commitment fr.Element
	commitment.SetBytes(hashResult)
	return commitment
}
