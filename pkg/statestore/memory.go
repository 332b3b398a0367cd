// Copyright 2025 Certen Protocol

package statestore

import "sync"

// blockSnapshot is the account state as of the end of one block.
type blockSnapshot struct {
	blockNumber uint32
	touched     []AccountUpdate
}

// Memory is an in-process StateStore used by tests and by single-node
// deployments that don't need a durable backend. Callers append each
// block's resulting account touches via RecordBlock as blocks are
// committed elsewhere in the system; the prover worker then replays
// them through LoadStateDiff.
type Memory struct {
	mu          sync.Mutex
	verified    []AccountUpdate
	lastBlock   uint32
	history     []blockSnapshot
}

// NewMemory seeds a store with the given last-verified block number and
// initial account set.
func NewMemory(lastBlock uint32, accounts []AccountUpdate) *Memory {
	return &Memory{verified: accounts, lastBlock: lastBlock}
}

func (m *Memory) LoadVerifiedState() (uint32, []AccountUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AccountUpdate, len(m.verified))
	copy(out, m.verified)
	return m.lastBlock, out, nil
}

// RecordBlock appends the account touches resulting from applying
// blockNumber, making them visible to subsequent LoadStateDiff calls.
func (m *Memory) RecordBlock(blockNumber uint32, touched []AccountUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, blockSnapshot{blockNumber: blockNumber, touched: touched})
}

func (m *Memory) LoadStateDiff(from, to uint32) ([]AccountUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// last write per account wins, matching "final account snapshots
	// over the half-open range" in the interface contract.
	byAccount := make(map[uint32]AccountUpdate)
	for _, snap := range m.history {
		if snap.blockNumber <= from || snap.blockNumber > to {
			continue
		}
		for _, u := range snap.touched {
			byAccount[u.ID] = u
		}
	}

	out := make([]AccountUpdate, 0, len(byAccount))
	for _, u := range byAccount {
		out = append(out, u)
	}
	return out, nil
}
