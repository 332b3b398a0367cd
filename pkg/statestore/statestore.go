// Copyright 2025 Certen Protocol
//
// StateStore is the persistence boundary the prover engine depends on but
// never implements itself: the engine mirrors account state in memory and
// only asks the store for the diffs it needs to fast-forward. Grounded on
// storage.StorageProcessor's load_verified_state/load_state_diff calls in
// prover.rs's create() and run() — here kept as a narrow interface rather
// than a concrete SQL-backed type, per the out-of-scope note in the spec.

package statestore

import "github.com/certen/rollup-prover/pkg/account"

// AccountUpdate is one account's post-state snapshot at a given point in
// the store's history.
type AccountUpdate struct {
	ID      account.ID
	Account account.Account
}

// StateStore is consumed by the prover engine at startup (LoadVerifiedState)
// and on every incoming block (LoadStateDiff). Implementations are free to
// back this with any database; the engine only needs the account deltas.
type StateStore interface {
	// LoadVerifiedState returns the last block number known to be fully
	// proven and verified, plus every account as of that block. Called
	// once, when the engine is constructed.
	LoadVerifiedState() (lastBlock uint32, accounts []AccountUpdate, err error)

	// LoadStateDiff returns the final account snapshot, over the
	// half-open range (from, to], for every account touched by any block
	// in that range. Called once per incoming ProverRequest to fast-
	// forward the engine's tree before it applies the new block itself.
	LoadStateDiff(from, to uint32) (accounts []AccountUpdate, err error)
}
