// Copyright 2025 Certen Protocol

package account

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

type nodeKey struct {
	level uint8
	index uint64
}

// Tree is a sparse Merkle tree of depth D keyed by account ID. Unset
// positions behave as the default (zero) leaf; root_hash is O(1) after an
// insert because only the O(D) nodes on the changed path are recomputed.
type Tree struct {
	depth  int
	leaves map[uint32]Account
	nodes  map[nodeKey]fr.Element
	zero   []fr.Element // zero[0] is the empty-leaf hash; zero[d] = hash(zero[d-1], zero[d-1])
}

// New builds an empty tree of the given depth.
func New(depth int) *Tree {
	zero := make([]fr.Element, depth+1)
	zero[0] = leafHash(Account{})
	for i := 1; i <= depth; i++ {
		zero[i] = nodeHash(zero[i-1], zero[i-1])
	}
	return &Tree{
		depth:  depth,
		leaves: make(map[uint32]Account),
		nodes:  make(map[nodeKey]fr.Element),
		zero:   zero,
	}
}

// Depth returns the tree's compile-time depth.
func (t *Tree) Depth() int {
	return t.depth
}

func (t *Tree) getHash(level int, idx uint64) fr.Element {
	if level == 0 {
		if leaf, ok := t.leaves[uint32(idx)]; ok {
			return leafHash(leaf)
		}
		return t.zero[0]
	}
	if h, ok := t.nodes[nodeKey{uint8(level), idx}]; ok {
		return h
	}
	return t.zero[level]
}

// Get returns the leaf at id and whether it has ever been inserted
// (the zero value is returned either way when absent).
func (t *Tree) Get(id ID) (Account, bool) {
	leaf, ok := t.leaves[id]
	return leaf, ok
}

// Insert writes leaf at id and recomputes the O(depth) path to the root.
// Inserting the leaf already present at id is a no-op in effect (the same
// hashes are recomputed), satisfying the idempotency invariant.
func (t *Tree) Insert(id ID, leaf Account) {
	t.leaves[id] = leaf
	idx := uint64(id)
	for level := 0; level < t.depth; level++ {
		cur := t.getHash(level, idx)
		sibIdx := idx ^ 1
		sib := t.getHash(level, sibIdx)
		var left, right fr.Element
		if idx%2 == 0 {
			left, right = cur, sib
		} else {
			left, right = sib, cur
		}
		parent := nodeHash(left, right)
		parentIdx := idx >> 1
		t.nodes[nodeKey{uint8(level + 1), parentIdx}] = parent
		idx = parentIdx
	}
}

// RootHash returns the current root.
func (t *Tree) RootHash() fr.Element {
	return t.getHash(t.depth, 0)
}

// MerklePath returns the depth sibling scalars for id, ordered leaf-upward
// (path[0] is the leaf's sibling, path[depth-1] is just below the root).
func (t *Tree) MerklePath(id ID) []fr.Element {
	idx := uint64(id)
	path := make([]fr.Element, t.depth)
	for level := 0; level < t.depth; level++ {
		sibIdx := idx ^ 1
		path[level] = t.getHash(level, sibIdx)
		idx >>= 1
	}
	return path
}

// VerifyMerklePath recomputes the root from leaf, id, and path and
// compares it against root.
func VerifyMerklePath(path []fr.Element, leaf Account, id ID, root fr.Element) bool {
	cur := leafHash(leaf)
	idx := uint64(id)
	for level := 0; level < len(path); level++ {
		sib := path[level]
		var left, right fr.Element
		if idx%2 == 0 {
			left, right = cur, sib
		} else {
			left, right = sib, cur
		}
		cur = nodeHash(left, right)
		idx >>= 1
	}
	return cur == root
}

// Clone deep-copies the tree. Used by the prover to stage mutations
// against a scratch copy and only adopt it after the post-state root
// check and proof verification succeed (see DESIGN.md "poisoning hazard").
func (t *Tree) Clone() *Tree {
	nt := &Tree{
		depth:  t.depth,
		leaves: make(map[uint32]Account, len(t.leaves)),
		nodes:  make(map[nodeKey]fr.Element, len(t.nodes)),
		zero:   t.zero,
	}
	for k, v := range t.leaves {
		nt.leaves[k] = v
	}
	for k, v := range t.nodes {
		nt.nodes[k] = v
	}
	return nt
}
