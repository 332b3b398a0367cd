// Copyright 2025 Certen Protocol
//
// In-circuit Merkle path verification shared by the three batch circuits.
// Mirrors trie_mimc1.Validate2's shape from the rollup circuit example —
// walk the path leaf-upward, re-hashing with the sibling at each level —
// but built directly on gnark's std/hash/mimc gadget rather than an
// external trie package, since the balance tree here is a flat sparse
// Merkle tree, not the iotaledger trie the example validates against.

package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// leafHash mirrors pkg/account.leafHash: MiMC(balance, nonce, pubX, pubY).
func leafHash(api frontend.API, balance, nonce, pubX, pubY frontend.Variable) frontend.Variable {
	h, _ := mimc.NewMiMC(api)
	h.Write(balance, nonce, pubX, pubY)
	return h.Sum()
}

// computeRoot walks path up from leaf, guided by the little-endian bit
// decomposition of index, and returns the resulting root. Recomputing the
// same siblings against a new leaf hash is how a single insert's root
// update is expressed in-circuit, matching the out-of-circuit tree's
// O(depth) path recomputation on Insert.
func computeRoot(api frontend.API, path []frontend.Variable, index, leaf frontend.Variable) frontend.Variable {
	bits := api.ToBinary(index, len(path))
	cur := leaf
	for level, sibling := range path {
		h, _ := mimc.NewMiMC(api)
		left := api.Select(bits[level], sibling, cur)
		right := api.Select(bits[level], cur, sibling)
		h.Write(left, right)
		cur = h.Sum()
	}
	return cur
}

// checkMerklePath asserts that path+leaf+index reproduce root.
func checkMerklePath(api frontend.API, path []frontend.Variable, index, leaf, root frontend.Variable) {
	api.AssertIsEqual(computeRoot(api, path, index, leaf), root)
}
