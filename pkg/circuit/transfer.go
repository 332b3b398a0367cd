// Copyright 2025 Certen Protocol
//
// Transfer circuit: proves that applying TransferBatchSize transfers to
// OldRoot, in order, sequentially inserting the mutated sender then
// recipient leaf after each transfer (mirroring BabyProver::
// apply_and_prove_transfer's tree.insert(sender)/tree.insert(recipient)
// ordering), yields NewRoot. PublicDataCommitment is a public input only:
// Define places no constraint on it, so the circuit does not bind it to
// the batch. Account id 0 is the protocol sentinel and never
// receives a credit, matching the prover's "recipient_leaf_number != 0"
// guard.

package circuit

import (
	"github.com/consensys/gnark/frontend"

	"github.com/certen/rollup-prover/pkg/rollupparams"
)

// TransferLeaf is one account leaf as circuit variables.
type TransferLeaf struct {
	Balance, Nonce, PubX, PubY frontend.Variable
}

// TransferTxWitness is one batch element's private inputs.
type TransferTxWitness struct {
	From, To       frontend.Variable
	Amount, Fee    frontend.Variable
	SenderBefore   TransferLeaf
	RecipientBefore TransferLeaf
	PathFrom       [rollupparams.BalanceTreeDepth]frontend.Variable
	PathTo         [rollupparams.BalanceTreeDepth]frontend.Variable
}

// TransferCircuit is the Groth16 circuit bound to transfer_pk. Its public
// inputs are exactly [OldRoot, NewRoot, PublicDataCommitment], the order
// the verifier contract and the local verification step both use.
type TransferCircuit struct {
	OldRoot              frontend.Variable `gnark:",public"`
	NewRoot              frontend.Variable `gnark:",public"`
	PublicDataCommitment frontend.Variable `gnark:",public"`

	Transactions [rollupparams.TransferBatchSize]TransferTxWitness
}

func (c *TransferCircuit) Define(api frontend.API) error {
	root := c.OldRoot

	for _, tx := range c.Transactions {
		senderLeafBefore := leafHash(api, tx.SenderBefore.Balance, tx.SenderBefore.Nonce, tx.SenderBefore.PubX, tx.SenderBefore.PubY)
		checkMerklePath(api, tx.PathFrom[:], tx.From, senderLeafBefore, root)

		isSentinel := api.IsZero(tx.To)

		senderBalanceAfter := api.Sub(tx.SenderBefore.Balance, api.Add(tx.Amount, tx.Fee))
		senderNonceAfter := api.Add(tx.SenderBefore.Nonce, 1)
		senderLeafAfter := leafHash(api, senderBalanceAfter, senderNonceAfter, tx.SenderBefore.PubX, tx.SenderBefore.PubY)
		root = computeRoot(api, tx.PathFrom[:], tx.From, senderLeafAfter)

		recipientLeafBefore := leafHash(api, tx.RecipientBefore.Balance, tx.RecipientBefore.Nonce, tx.RecipientBefore.PubX, tx.RecipientBefore.PubY)
		checkMerklePath(api, tx.PathTo[:], tx.To, recipientLeafBefore, root)

		creditedBalance := api.Add(tx.RecipientBefore.Balance, tx.Amount)
		recipientBalanceAfter := api.Select(isSentinel, tx.RecipientBefore.Balance, creditedBalance)
		recipientLeafAfter := leafHash(api, recipientBalanceAfter, tx.RecipientBefore.Nonce, tx.RecipientBefore.PubX, tx.RecipientBefore.PubY)
		root = computeRoot(api, tx.PathTo[:], tx.To, recipientLeafAfter)
	}

	api.AssertIsEqual(root, c.NewRoot)
	return nil
}
