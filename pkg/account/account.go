// Copyright 2025 Certen Protocol
//
// Account leaves and the sparse Merkle balance tree. The hash function is
// gnark-crypto's MiMC over BN254, the standard out-of-circuit twin of
// gnark's in-circuit std/hash/mimc used by rollup circuits in the
// ecosystem (see DESIGN.md) — this is the concrete resolution of the
// abstract "Pedersen-hash variant defined by the circuit" the operation
// codec's public-data layout never needs to know about.

package account

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// ID is a dense 32-bit index into the balance tree.
type ID = uint32

// Account is a single leaf: balance, nonce, and the EdDSA public key
// coordinates. The zero value is the default/empty leaf.
type Account struct {
	Balance fr.Element
	Nonce   fr.Element
	PubX    fr.Element
	PubY    fr.Element
}

// IsEmpty reports whether a is the default (never-inserted) leaf.
func (a Account) IsEmpty() bool {
	var zero Account
	return a == zero
}

func hashElements(es ...fr.Element) fr.Element {
	h := mimc.NewMiMC()
	for _, e := range es {
		b := e.Bytes()
		h.Write(b[:])
	}
	sum := h.Sum(nil)
	var out fr.Element
	out.SetBytes(sum)
	return out
}

func leafHash(a Account) fr.Element {
	return hashElements(a.Balance, a.Nonce, a.PubX, a.PubY)
}

func nodeHash(left, right fr.Element) fr.Element {
	return hashElements(left, right)
}
