// Copyright 2025 Certen Protocol

package prover

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"

	"github.com/certen/rollup-prover/pkg/account"
	"github.com/certen/rollup-prover/pkg/circuit"
	"github.com/certen/rollup-prover/pkg/rollupparams"
)

func frToBigInt(e fr.Element) *big.Int {
	var b big.Int
	e.BigInt(&b)
	return &b
}

func bigIntToFr(v *big.Int) fr.Element {
	var e fr.Element
	if v != nil {
		e.SetBigInt(v)
	}
	return e
}

func leafToCircuit(a account.Account) circuit.TransferLeaf {
	return circuit.TransferLeaf{
		Balance: frToBigInt(a.Balance),
		Nonce:   frToBigInt(a.Nonce),
		PubX:    frToBigInt(a.PubX),
		PubY:    frToBigInt(a.PubY),
	}
}

func pathToArray(path []fr.Element) [rollupparams.BalanceTreeDepth]frontend.Variable {
	var out [rollupparams.BalanceTreeDepth]frontend.Variable
	for i := 0; i < rollupparams.BalanceTreeDepth; i++ {
		if i < len(path) {
			out[i] = frToBigInt(path[i])
		} else {
			out[i] = big.NewInt(0)
		}
	}
	return out
}
