// Copyright 2025 Certen Protocol
//
// Block, transaction, witness, and proof record types shared between the
// prover engine and its worker loop. Grounded on prover.rs's Block/
// BlockData/TransactionWitness/DepositWitness/FullBabyProof shapes: Rust
// modeled a block's per-kind transaction list as an enum variant
// (BlockData::Transfer/Deposit/Exit); Go has no sum type, so Block carries
// a Kind tag plus the one transaction slice that Kind selects.

package block

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/rollup-prover/pkg/account"
)

// Kind distinguishes the three block shapes the prover engine handles.
// A block carries operations of a single kind; the codec's finer-grained
// OpKind determines its wire layout within that kind (e.g. every entry of
// a Transfer block's batch is encoded as a Transfer operation, never as
// TransferToNew).
type Kind uint8

const (
	KindTransfer Kind = iota
	KindDeposit
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindTransfer:
		return "Transfer"
	case KindDeposit:
		return "Deposit"
	case KindExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// TransferTx is one transfer within a Transfer block's batch. Signature
// verification is out of scope (the circuit enforces it); the prover
// only needs the fields that drive the balance-tree mutation.
type TransferTx struct {
	From, To account.ID
	Token    uint16
	Amount   *big.Int
	Fee      *big.Int
	Nonce    uint32
}

// DepositTx is one deposit within a Deposit block's batch. PubX/PubY are
// the recipient's claimed EdDSA public key, written into an empty leaf
// on first deposit and otherwise ignored.
type DepositTx struct {
	Into       account.ID
	Amount     *big.Int
	PubX, PubY fr.Element
}

// ExitTx is one exit within an Exit block's batch. The prover derives
// the withdrawn balance and public data from the tree itself; the
// request only names which account exits.
type ExitTx struct {
	From account.ID
}

// Block is the unit of work the prover engine consumes: an ordered
// sequence of same-kind transactions, the block number it must apply
// against, and the post-state root the caller expects to result.
// Ordering is the caller's responsibility — the engine never reorders.
type Block struct {
	Kind        Kind
	BlockNumber uint32
	NewRootHash fr.Element

	// TotalFees is meaningful only for Kind == KindTransfer; Deposit and
	// Exit blocks leave it nil and the recorded proof commits zero.
	TotalFees *big.Int

	Transfers []TransferTx
	Deposits  []DepositTx
	Exits     []ExitTx
}

// Witness is the per-transaction auxiliary input handed to the circuit:
// Merkle paths as they stood before mutation, plus pre-mutation leaf
// snapshots. PathTo/LeafTo are unused for Deposit and Exit witnesses.
type Witness struct {
	PathFrom, PathTo []fr.Element
	LeafFrom, LeafTo account.Account
	// LeafIsEmpty is set for deposit witnesses: true when the recipient
	// leaf did not exist before this deposit.
	LeafIsEmpty bool
}

// FullProof is the complete record of one proven block: the encoded
// Groth16 proof, its three public inputs, and the accounting data the
// downstream commit step needs to reconstruct the commitment.
type FullProof struct {
	Proof                [8]*big.Int
	OldRoot, NewRoot     fr.Element
	PublicDataCommitment fr.Element
	BlockNumber          uint32
	TotalFees            *big.Int
	PublicData           []byte
}
