// Copyright 2025 Certen Protocol
//
// Worker - drives the Prover engine off a request channel
//
// Grounded on pkg/batch/scheduler.go's goroutine/select/channel shape: a
// mutex-guarded state machine, a run loop selected over ctx.Done/stopCh
// plus one more case, and Start/Stop/State methods. The scheduler's extra
// case is a ticker; this worker's is a blocking receive on the request
// channel, since the prover is driven by incoming blocks rather than a
// clock (prover.rs's run() loops over rx_for_blocks, not a timer).
//
// prover.rs's run() treats every failure as fatal — storage errors and
// apply_and_prove errors alike are unwrapped with .expect(...), crashing
// the process rather than skipping the block. handle preserves that
// contract via logger.Fatalf: a malformed or out-of-sequence block is an
// operational incident, not a case the worker recovers from on its own.

package worker

import (
	"context"
	"log"
	"math/big"
	"sync"

	"github.com/google/uuid"

	"github.com/certen/rollup-prover/pkg/block"
	"github.com/certen/rollup-prover/pkg/prover"
	"github.com/certen/rollup-prover/pkg/statestore"
)

// State mirrors batch.SchedulerState's three-value lifecycle, trimmed to
// the two this worker actually uses (it is never paused).
type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
)

// ProverRequest is one block awaiting proof, submitted by whatever
// upstream component assembles blocks from incoming transactions.
type ProverRequest struct {
	RequestID uuid.UUID
	Block     block.Block
}

// CommitRequest is the worker's output: a successfully proven block ready
// for on-chain submission.
type CommitRequest struct {
	RequestID   uuid.UUID
	BlockNumber uint32
	Block       block.Block
	Proof       [8]*big.Int
}

// Worker owns one Prover and pumps ProverRequests into it, publishing the
// resulting proofs on commits. Exactly one goroutine ever calls into
// Prover, matching the engine's single-threaded design.
type Worker struct {
	mu sync.RWMutex

	prover *prover.Prover
	store  statestore.StateStore

	requests <-chan ProverRequest
	commits  chan<- CommitRequest

	state  State
	stopCh chan struct{}
	doneCh chan struct{}

	logger *log.Logger
}

// New builds a Worker. requests is read, never closed by the worker;
// commits is written to and never closed either — callers own both
// channels' lifetimes.
func New(p *prover.Prover, store statestore.StateStore, requests <-chan ProverRequest, commits chan<- CommitRequest, logger *log.Logger) *Worker {
	if logger == nil {
		logger = log.New(log.Writer(), "[ProverWorker] ", log.LstdFlags)
	}
	return &Worker{
		prover:   p,
		store:    store,
		requests: requests,
		commits:  commits,
		state:    StateStopped,
		logger:   logger,
	}
}

// Start begins consuming requests in a background goroutine.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateRunning {
		return nil
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.state = StateRunning

	go w.run(ctx)

	w.logger.Println("worker started")
	return nil
}

// Stop signals the run loop to exit and waits for it to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if w.state != StateRunning {
		w.mu.Unlock()
		return nil
	}
	close(w.stopCh)
	w.state = StateStopped
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Println("worker stopped")
	return nil
}

// State reports the worker's current lifecycle state.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			w.logger.Println("worker context cancelled")
			return
		case <-w.stopCh:
			return
		case req := <-w.requests:
			w.handle(req)
		}
	}
}

// handle fast-forwards the engine's tree with any account changes it
// missed since its last applied block, then applies and proves req.Block.
// Any failure here — a storage error, a sequence mismatch, a bad proof —
// is treated as fatal, matching prover.rs's run(): this worker never
// silently drops a block.
func (w *Worker) handle(req ProverRequest) {
	lastApplied := w.prover.BlockNumber() - 1
	diff, err := w.store.LoadStateDiff(lastApplied, req.Block.BlockNumber)
	if err != nil {
		w.logger.Fatalf("request %s: load state diff up to block %d: %v", req.RequestID, req.Block.BlockNumber, err)
	}
	w.prover.ExtendAccounts(diff)

	proof, err := w.prover.ApplyAndProve(req.Block)
	if err != nil {
		w.logger.Fatalf("request %s: apply block %d: %v", req.RequestID, req.Block.BlockNumber, err)
	}

	w.commits <- CommitRequest{
		RequestID:   req.RequestID,
		BlockNumber: req.Block.BlockNumber,
		Block:       req.Block,
		Proof:       proof.Proof,
	}
}
