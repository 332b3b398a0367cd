// Copyright 2025 Certen Protocol

package worker

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/certen/rollup-prover/pkg/account"
	"github.com/certen/rollup-prover/pkg/block"
	"github.com/certen/rollup-prover/pkg/circuit"
	"github.com/certen/rollup-prover/pkg/prover"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/certen/rollup-prover/pkg/snark"
	"github.com/certen/rollup-prover/pkg/statestore"
)

func seedAccounts() []statestore.AccountUpdate {
	updates := make([]statestore.AccountUpdate, 0, rollupparams.TransferBatchSize)
	for id := uint32(1); id <= rollupparams.TransferBatchSize; id++ {
		var a account.Account
		a.Balance.SetUint64(1000)
		updates = append(updates, statestore.AccountUpdate{ID: id, Account: a})
	}
	return updates
}

func zeroTransferBlock(blockNumber uint32) block.Block {
	var txs [rollupparams.TransferBatchSize]block.TransferTx
	for i := range txs {
		txs[i] = block.TransferTx{From: uint32(i + 1), To: 0, Token: 1, Amount: big.NewInt(0), Fee: big.NewInt(0)}
	}
	return block.Block{Kind: block.KindTransfer, BlockNumber: blockNumber, Transfers: txs[:]}
}

func newTestHarness(t *testing.T) (*Worker, *prover.Prover, chan ProverRequest, chan CommitRequest) {
	t.Helper()

	transferKeys, err := snark.Setup(&circuit.TransferCircuit{})
	if err != nil {
		t.Fatalf("setup transfer circuit: %v", err)
	}
	depositKeys, err := snark.Setup(&circuit.DepositCircuit{})
	if err != nil {
		t.Fatalf("setup deposit circuit: %v", err)
	}
	exitKeys, err := snark.Setup(&circuit.ExitCircuit{})
	if err != nil {
		t.Fatalf("setup exit circuit: %v", err)
	}

	store := statestore.NewMemory(0, seedAccounts())
	p, err := prover.Create(store, transferKeys, depositKeys, exitKeys)
	if err != nil {
		t.Fatalf("create prover: %v", err)
	}

	requests := make(chan ProverRequest, 1)
	commits := make(chan CommitRequest, 1)
	w := New(p, store, requests, commits, nil)
	return w, p, requests, commits
}

func TestWorkerLifecycleStartStop(t *testing.T) {
	w, _, _, _ := newTestHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if w.State() != StateStopped {
		t.Fatalf("expected worker to start stopped")
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if w.State() != StateRunning {
		t.Fatalf("expected worker to be running after Start")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if w.State() != StateStopped {
		t.Fatalf("expected worker to be stopped after Stop")
	}
}

func TestWorkerProducesCommitOnValidBlock(t *testing.T) {
	w, p, requests, commits := newTestHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	tree := account.New(rollupparams.BalanceTreeDepth)
	for _, u := range seedAccounts() {
		tree.Insert(u.ID, u.Account)
	}
	for id := uint32(1); id <= rollupparams.TransferBatchSize; id++ {
		leaf, _ := tree.Get(id)
		leaf.Nonce.SetUint64(1)
		tree.Insert(id, leaf)
	}

	b := zeroTransferBlock(p.BlockNumber())
	b.NewRootHash = tree.RootHash()

	reqID := uuid.New()
	requests <- ProverRequest{RequestID: reqID, Block: b}

	select {
	case commit := <-commits:
		if commit.RequestID != reqID {
			t.Fatalf("commit carries wrong request id")
		}
		if commit.BlockNumber != b.BlockNumber {
			t.Fatalf("commit carries wrong block number")
		}
	case <-time.After(30 * time.Second):
		t.Fatalf("timed out waiting for commit")
	}
}
