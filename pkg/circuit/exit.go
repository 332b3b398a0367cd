// Copyright 2025 Certen Protocol
//
// Exit circuit: proves that zeroing out ExitBatchSize accounts, in order,
// yields NewRoot from OldRoot. Each listed account's leaf is replaced with
// the default (zero) leaf; the withdrawn balance itself is public-data
// bookkeeping the prover derives outside the circuit, not a circuit output.

package circuit

import (
	"github.com/consensys/gnark/frontend"

	"github.com/certen/rollup-prover/pkg/rollupparams"
)

type ExitTxWitness struct {
	From   frontend.Variable
	Before TransferLeaf
	Path   [rollupparams.BalanceTreeDepth]frontend.Variable
}

type ExitCircuit struct {
	OldRoot              frontend.Variable `gnark:",public"`
	NewRoot              frontend.Variable `gnark:",public"`
	PublicDataCommitment frontend.Variable `gnark:",public"`

	Exits [rollupparams.ExitBatchSize]ExitTxWitness
}

func (c *ExitCircuit) Define(api frontend.API) error {
	root := c.OldRoot

	for _, e := range c.Exits {
		leafBefore := leafHash(api, e.Before.Balance, e.Before.Nonce, e.Before.PubX, e.Before.PubY)
		checkMerklePath(api, e.Path[:], e.From, leafBefore, root)

		emptyLeaf := leafHash(api, 0, 0, 0, 0)
		root = computeRoot(api, e.Path[:], e.From, emptyLeaf)
	}

	api.AssertIsEqual(root, c.NewRoot)
	return nil
}
