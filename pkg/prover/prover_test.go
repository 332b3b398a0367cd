// Copyright 2025 Certen Protocol

package prover

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/rollup-prover/pkg/account"
	"github.com/certen/rollup-prover/pkg/block"
	"github.com/certen/rollup-prover/pkg/circuit"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/certen/rollup-prover/pkg/snark"
	"github.com/certen/rollup-prover/pkg/statestore"
)

// seedAccounts returns one funded account per transfer slot, keyed
// 1..TransferBatchSize, so an all-zero-amount transfer batch is a valid,
// cheaply provable fixture.
func seedAccounts() []statestore.AccountUpdate {
	updates := make([]statestore.AccountUpdate, 0, rollupparams.TransferBatchSize)
	for id := uint32(1); id <= rollupparams.TransferBatchSize; id++ {
		var a account.Account
		a.Balance.SetUint64(1000)
		updates = append(updates, statestore.AccountUpdate{ID: id, Account: a})
	}
	return updates
}

// zeroTransferBlock builds a TransferBatchSize-sized batch where every
// transfer moves zero value from a distinct funded account to the id-0
// sentinel. Applying it bumps only the senders' nonces, so the post root
// differs from the pre root without any balance arithmetic needing to
// validate.
func zeroTransferBlock(blockNumber uint32) block.Block {
	var txs [rollupparams.TransferBatchSize]block.TransferTx
	for i := range txs {
		txs[i] = block.TransferTx{
			From:   uint32(i + 1),
			To:     0,
			Token:  1,
			Amount: big.NewInt(0),
			Fee:    big.NewInt(0),
			Nonce:  0,
		}
	}
	return block.Block{
		Kind:        block.KindTransfer,
		BlockNumber: blockNumber,
		Transfers:   txs[:],
	}
}

// expectedTransferRoot replays zeroTransferBlock's effect against a fresh
// copy of the seeded tree, independent of the prover engine, to learn the
// root the engine should produce.
func expectedTransferRoot() fr.Element {
	tree := account.New(rollupparams.BalanceTreeDepth)
	for _, u := range seedAccounts() {
		tree.Insert(u.ID, u.Account)
	}
	var one fr.Element
	one.SetOne()
	for id := uint32(1); id <= rollupparams.TransferBatchSize; id++ {
		leaf, _ := tree.Get(id)
		leaf.Nonce.Add(&leaf.Nonce, &one)
		tree.Insert(id, leaf)
	}
	return tree.RootHash()
}

func setupKeys(t *testing.T) (transferKeys, depositKeys, exitKeys *snark.Keys) {
	t.Helper()
	var err error
	transferKeys, err = snark.Setup(&circuit.TransferCircuit{})
	if err != nil {
		t.Fatalf("setup transfer circuit: %v", err)
	}
	depositKeys, err = snark.Setup(&circuit.DepositCircuit{})
	if err != nil {
		t.Fatalf("setup deposit circuit: %v", err)
	}
	exitKeys, err = snark.Setup(&circuit.ExitCircuit{})
	if err != nil {
		t.Fatalf("setup exit circuit: %v", err)
	}
	return transferKeys, depositKeys, exitKeys
}

func newTestProver(t *testing.T) *Prover {
	t.Helper()
	transferKeys, depositKeys, exitKeys := setupKeys(t)
	store := statestore.NewMemory(0, seedAccounts())
	p, err := Create(store, transferKeys, depositKeys, exitKeys)
	if err != nil {
		t.Fatalf("create prover: %v", err)
	}
	return p
}

func TestSequenceMismatchLeavesTreeUnchanged(t *testing.T) {
	p := newTestProver(t)
	rootBefore := p.RootHash()

	b := zeroTransferBlock(p.BlockNumber() + 1) // wrong block number
	_, err := p.ApplyAndProve(b)
	if err == nil {
		t.Fatalf("expected sequence mismatch error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindSequence {
		t.Fatalf("expected KindSequence error, got %v", err)
	}

	if p.RootHash() != rootBefore {
		t.Fatalf("tree mutated despite sequence mismatch")
	}
	if p.BlockNumber() != 1 {
		t.Fatalf("block number advanced despite sequence mismatch")
	}
}

func TestRootMismatchDoesNotMutateTree(t *testing.T) {
	p := newTestProver(t)
	rootBefore := p.RootHash()
	blockBefore := p.BlockNumber()

	b := zeroTransferBlock(p.BlockNumber())
	var wrongRoot fr.Element
	wrongRoot.SetUint64(42) // deliberately does not match the real post-state root
	b.NewRootHash = wrongRoot

	_, err := p.ApplyAndProve(b)
	if err == nil {
		t.Fatalf("expected root mismatch error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindConsistency {
		t.Fatalf("expected KindConsistency error, got %v", err)
	}

	if p.RootHash() != rootBefore {
		t.Fatalf("tree mutated despite root mismatch: poisoning hazard not fixed")
	}
	if p.BlockNumber() != blockBefore {
		t.Fatalf("block number advanced despite root mismatch")
	}
}

func TestBatchSizeMismatchRejected(t *testing.T) {
	p := newTestProver(t)

	b := zeroTransferBlock(p.BlockNumber())
	b.Transfers = b.Transfers[:len(b.Transfers)-1] // one short of TransferBatchSize

	_, err := p.ApplyAndProve(b)
	if err == nil {
		t.Fatalf("expected batch size mismatch error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindApply {
		t.Fatalf("expected KindApply error, got %v", err)
	}
}

func TestProverMonotonicAfterSuccess(t *testing.T) {
	p := newTestProver(t)

	b := zeroTransferBlock(p.BlockNumber())
	b.NewRootHash = expectedTransferRoot()

	startBlock := p.BlockNumber()
	proof, err := p.ApplyAndProve(b)
	if err != nil {
		t.Fatalf("apply and prove: %v", err)
	}

	if p.BlockNumber() != startBlock+1 {
		t.Fatalf("expected block number to advance by exactly 1, got %d -> %d", startBlock, p.BlockNumber())
	}
	if p.RootHash() != b.NewRootHash {
		t.Fatalf("engine root does not match the applied block's declared root")
	}
	if proof.BlockNumber != b.BlockNumber {
		t.Fatalf("proof carries wrong block number")
	}
	for i, c := range proof.Proof {
		if c == nil {
			t.Fatalf("proof component %d is nil", i)
		}
	}
}
