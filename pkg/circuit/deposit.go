// Copyright 2025 Certen Protocol
//
// Deposit circuit: proves that crediting DepositBatchSize deposits,
// in order, yields NewRoot from OldRoot. An empty recipient leaf gets its
// balance and pubkey set from the deposit; an occupied leaf only has its
// balance increased, mirroring apply_and_prove_deposit's leaf_is_empty
// branch.

package circuit

import (
	"github.com/consensys/gnark/frontend"

	"github.com/certen/rollup-prover/pkg/rollupparams"
)

type DepositTxWitness struct {
	Into            frontend.Variable
	Amount          frontend.Variable
	NewPubX, NewPubY frontend.Variable
	LeafIsEmpty     frontend.Variable
	Before          TransferLeaf
	Path            [rollupparams.BalanceTreeDepth]frontend.Variable
}

type DepositCircuit struct {
	OldRoot              frontend.Variable `gnark:",public"`
	NewRoot              frontend.Variable `gnark:",public"`
	PublicDataCommitment frontend.Variable `gnark:",public"`

	Deposits [rollupparams.DepositBatchSize]DepositTxWitness
}

func (c *DepositCircuit) Define(api frontend.API) error {
	root := c.OldRoot

	for _, d := range c.Deposits {
		leafBefore := leafHash(api, d.Before.Balance, d.Before.Nonce, d.Before.PubX, d.Before.PubY)
		checkMerklePath(api, d.Path[:], d.Into, leafBefore, root)

		balanceAfter := api.Select(d.LeafIsEmpty, d.Amount, api.Add(d.Before.Balance, d.Amount))
		pubXAfter := api.Select(d.LeafIsEmpty, d.NewPubX, d.Before.PubX)
		pubYAfter := api.Select(d.LeafIsEmpty, d.NewPubY, d.Before.PubY)

		leafAfter := leafHash(api, balanceAfter, d.Before.Nonce, pubXAfter, pubYAfter)
		root = computeRoot(api, d.Path[:], d.Into, leafAfter)
	}

	api.AssertIsEqual(root, c.NewRoot)
	return nil
}
