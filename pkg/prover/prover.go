// Copyright 2025 Certen Protocol
//
// Prover Engine: mirrors the balance tree, applies a block's transactions
// while building witnesses, computes the public-data commitment, invokes
// Groth16 with the circuit-specific proving key, and locally verifies the
// result before committing. Grounded on BabyProver::apply_and_prove* in
// prover.rs; the three per-kind methods below follow that file's
// structure almost line for line, translated into the staged-mutation
// form recommended in the source's own "poisoning" design note: every
// method mutates a Tree.Clone() and only assigns it back to p.tree after
// the post-state root check and local proof verification both succeed.

package prover

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"

	"github.com/certen/rollup-prover/pkg/account"
	"github.com/certen/rollup-prover/pkg/block"
	"github.com/certen/rollup-prover/pkg/circuit"
	"github.com/certen/rollup-prover/pkg/codec"
	"github.com/certen/rollup-prover/pkg/commitment"
	"github.com/certen/rollup-prover/pkg/primitives"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/certen/rollup-prover/pkg/snark"
	"github.com/certen/rollup-prover/pkg/statestore"
)

// BatchSizes lets tests exercise the engine with batches smaller than the
// compiled circuits' arities. Production always uses rollupparams'
// constants via Create.
type BatchSizes struct {
	Transfer, Deposit, Exit int
}

// Prover owns the in-memory balance tree and the block-number cursor; it
// is driven by exactly one goroutine (see pkg/worker), so none of its
// state needs synchronization.
type Prover struct {
	blockNumber uint32
	tree        *account.Tree
	batchSizes  BatchSizes

	transferKeys *snark.Keys
	depositKeys  *snark.Keys
	exitKeys     *snark.Keys
}

// Create rebuilds the engine's tree from the store's last verified state
// and adopts the three preloaded circuit key bundles. The caller is
// responsible for loading keys via snark.LoadKeys; Create does not check
// them, and a key-loading failure never reaches it (main.go falls back to
// a fresh trusted setup when loading fails).
func Create(store statestore.StateStore, transferKeys, depositKeys, exitKeys *snark.Keys) (*Prover, error) {
	lastBlock, accounts, err := store.LoadVerifiedState()
	if err != nil {
		return nil, newError(KindIO, "load verified state", err)
	}

	tree := account.New(rollupparams.BalanceTreeDepth)
	for _, u := range accounts {
		tree.Insert(u.ID, u.Account)
	}

	return &Prover{
		blockNumber: lastBlock + 1,
		tree:        tree,
		batchSizes: BatchSizes{
			Transfer: rollupparams.TransferBatchSize,
			Deposit:  rollupparams.DepositBatchSize,
			Exit:     rollupparams.ExitBatchSize,
		},
		transferKeys: transferKeys,
		depositKeys:  depositKeys,
		exitKeys:     exitKeys,
	}, nil
}

// BlockNumber is the block the engine expects to apply next.
func (p *Prover) BlockNumber() uint32 { return p.blockNumber }

// RootHash is the engine's current committed root.
func (p *Prover) RootHash() fr.Element { return p.tree.RootHash() }

// ExtendAccounts unconditionally writes each update into the live tree,
// with no root check. Mirrors prover.rs's extend_accounts: the worker
// calls this once per incoming block, with the state-store diff since the
// engine's last applied block, before calling ApplyAndProve — it is how
// the engine learns about account changes it did not itself produce.
func (p *Prover) ExtendAccounts(updates []statestore.AccountUpdate) {
	for _, u := range updates {
		p.tree.Insert(u.ID, u.Account)
	}
}

// ApplyAndProve dispatches on the block's kind. Mirrors
// BabyProver::apply_and_prove's match on BlockData.
func (p *Prover) ApplyAndProve(b block.Block) (*block.FullProof, error) {
	if b.BlockNumber != p.blockNumber {
		return nil, newError(KindSequence,
			fmt.Sprintf("block %d received while engine is at %d", b.BlockNumber, p.blockNumber),
			ErrSequenceMismatch)
	}

	switch b.Kind {
	case block.KindTransfer:
		return p.applyAndProveTransfer(b)
	case block.KindDeposit:
		return p.applyAndProveDeposit(b)
	case block.KindExit:
		return p.applyAndProveExit(b)
	default:
		return nil, newError(KindApply, fmt.Sprintf("unknown block kind %v", b.Kind), nil)
	}
}

func (p *Prover) applyAndProveTransfer(b block.Block) (*block.FullProof, error) {
	if len(b.Transfers) != p.batchSizes.Transfer {
		return nil, newError(KindApply, "len(transfers) != transfer_batch_size", ErrBatchSizeMismatch)
	}

	staged := p.tree.Clone()
	initialRoot := staged.RootHash()

	var witnesses [rollupparams.TransferBatchSize]circuit.TransferTxWitness
	totalFees := new(big.Int)
	publicData := make([]byte, 0, len(b.Transfers)*2*rollupparams.ChunkBytes)

	for i, tx := range b.Transfers {
		senderLeaf, ok := staged.Get(tx.From)
		if !ok {
			return nil, newError(KindApply, fmt.Sprintf("sender %d unknown", tx.From), ErrUnknownAccount)
		}
		recipientLeaf, _ := staged.Get(tx.To) // allow transfers to empty accounts

		packedAmount, err := primitives.PackAmount(tx.Amount, rollupparams.AmountExponentBitWidth, rollupparams.AmountMantissaBitWidth)
		if err != nil {
			return nil, newError(KindApply, "transfer amount not representable", err)
		}
		amount, err := primitives.UnpackAmount(packedAmount, rollupparams.AmountExponentBitWidth, rollupparams.AmountMantissaBitWidth)
		if err != nil {
			return nil, newError(KindApply, "transfer amount round-trip failed", err)
		}
		packedFee, err := primitives.PackAmount(tx.Fee, rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
		if err != nil {
			return nil, newError(KindApply, "transfer fee not representable", err)
		}
		fee, err := primitives.UnpackAmount(packedFee, rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
		if err != nil {
			return nil, newError(KindApply, "transfer fee round-trip failed", err)
		}

		pathFrom := staged.MerklePath(tx.From)
		pathTo := staged.MerklePath(tx.To)

		amountFr := bigIntToFr(amount)
		feeFr := bigIntToFr(fee)

		var one fr.Element
		one.SetOne()

		updatedSender := senderLeaf
		updatedSender.Balance.Sub(&updatedSender.Balance, &amountFr)
		updatedSender.Balance.Sub(&updatedSender.Balance, &feeFr)
		updatedSender.Nonce.Add(&updatedSender.Nonce, &one)

		updatedRecipient := recipientLeaf
		if tx.To != 0 {
			updatedRecipient.Balance.Add(&updatedRecipient.Balance, &amountFr)
		}

		totalFees.Add(totalFees, fee)

		staged.Insert(tx.From, updatedSender)
		staged.Insert(tx.To, updatedRecipient)

		witnesses[i] = circuit.TransferTxWitness{
			From:            big.NewInt(int64(tx.From)),
			To:              big.NewInt(int64(tx.To)),
			Amount:          amount,
			Fee:             fee,
			SenderBefore:    leafToCircuit(senderLeaf),
			RecipientBefore: leafToCircuit(recipientLeaf),
			PathFrom:        pathToArray(pathFrom),
			PathTo:          pathToArray(pathTo),
		}

		op := codec.TransferOp{From: tx.From, To: tx.To, Token: tx.Token, Amount: amount, Fee: fee, Nonce: tx.Nonce}
		encoded, err := op.Encode()
		if err != nil {
			return nil, newError(KindApply, "transfer public data encode failed", err)
		}
		publicData = append(publicData, encoded...)
	}

	finalRoot := staged.RootHash()
	if initialRoot.Equal(&finalRoot) {
		return nil, newError(KindConsistency, "transfer batch did not change root", ErrRootUnchanged)
	}
	if !finalRoot.Equal(&b.NewRootHash) {
		return nil, newError(KindConsistency, "post-state root disagrees with block's declared root", ErrRootMismatch)
	}

	commitmentFr := commitment.PublicDataCommitment(b.BlockNumber, totalFees, publicData)

	assignment := &circuit.TransferCircuit{
		OldRoot:              frToBigInt(initialRoot),
		NewRoot:              frToBigInt(finalRoot),
		PublicDataCommitment: frToBigInt(commitmentFr),
		Transactions:         witnesses,
	}

	proof, err := p.proveAndVerify(p.transferKeys, assignment, &circuit.TransferCircuit{
		OldRoot:              assignment.OldRoot,
		NewRoot:              assignment.NewRoot,
		PublicDataCommitment: assignment.PublicDataCommitment,
	})
	if err != nil {
		return nil, err
	}

	p.tree = staged
	p.blockNumber++

	return &block.FullProof{
		Proof:                proof,
		OldRoot:              initialRoot,
		NewRoot:              finalRoot,
		PublicDataCommitment: commitmentFr,
		BlockNumber:          b.BlockNumber,
		TotalFees:            totalFees,
		PublicData:           publicData,
	}, nil
}

func (p *Prover) applyAndProveDeposit(b block.Block) (*block.FullProof, error) {
	if len(b.Deposits) != p.batchSizes.Deposit {
		return nil, newError(KindApply, "len(deposits) != deposit_batch_size", ErrBatchSizeMismatch)
	}

	staged := p.tree.Clone()
	initialRoot := staged.RootHash()

	var witnesses [rollupparams.DepositBatchSize]circuit.DepositTxWitness
	publicData := make([]byte, 0, len(b.Deposits)*6*rollupparams.ChunkBytes)

	for i, tx := range b.Deposits {
		existing, ok := staged.Get(tx.Into)
		leafIsEmpty := !ok

		var newLeaf account.Account
		if leafIsEmpty {
			newLeaf.Balance = bigIntToFr(tx.Amount)
			newLeaf.PubX = tx.PubX
			newLeaf.PubY = tx.PubY
		} else {
			newLeaf = existing
			amountFr := bigIntToFr(tx.Amount)
			newLeaf.Balance.Add(&newLeaf.Balance, &amountFr)
		}

		path := staged.MerklePath(tx.Into)
		staged.Insert(tx.Into, newLeaf)

		leafIsEmptyVar := big.NewInt(0)
		if leafIsEmpty {
			leafIsEmptyVar = big.NewInt(1)
		}
		witnesses[i] = circuit.DepositTxWitness{
			Into:        big.NewInt(int64(tx.Into)),
			Amount:      tx.Amount,
			NewPubX:     frToBigInt(tx.PubX),
			NewPubY:     frToBigInt(tx.PubY),
			LeafIsEmpty: leafIsEmptyVar,
			Before:      leafToCircuit(existing),
			Path:        pathToArray(path),
		}

		op := codec.DepositOp{AccountID: tx.Into, Token: 0, Amount: tx.Amount}
		encoded, err := op.Encode()
		if err != nil {
			return nil, newError(KindApply, "deposit public data encode failed", err)
		}
		publicData = append(publicData, encoded...)
	}

	finalRoot := staged.RootHash()
	if initialRoot.Equal(&finalRoot) {
		return nil, newError(KindConsistency, "deposit batch did not change root", ErrRootUnchanged)
	}
	if !finalRoot.Equal(&b.NewRootHash) {
		return nil, newError(KindConsistency, "post-state root disagrees with block's declared root", ErrRootMismatch)
	}

	// Deposit blocks leave total_fees out of the commitment and record
	// zero fees in the proof.
	commitmentFr := commitment.PublicDataCommitment(b.BlockNumber, nil, publicData)

	assignment := &circuit.DepositCircuit{
		OldRoot:              frToBigInt(initialRoot),
		NewRoot:              frToBigInt(finalRoot),
		PublicDataCommitment: frToBigInt(commitmentFr),
		Deposits:             witnesses,
	}

	proof, err := p.proveAndVerify(p.depositKeys, assignment, &circuit.DepositCircuit{
		OldRoot:              assignment.OldRoot,
		NewRoot:              assignment.NewRoot,
		PublicDataCommitment: assignment.PublicDataCommitment,
	})
	if err != nil {
		return nil, err
	}

	p.tree = staged
	p.blockNumber++

	return &block.FullProof{
		Proof:                proof,
		OldRoot:              initialRoot,
		NewRoot:              finalRoot,
		PublicDataCommitment: commitmentFr,
		BlockNumber:          b.BlockNumber,
		TotalFees:            big.NewInt(0),
		PublicData:           publicData,
	}, nil
}

func (p *Prover) applyAndProveExit(b block.Block) (*block.FullProof, error) {
	// Reuses the deposit batch size for its length check — preserved
	// exactly from the source, which checks num_txes != deposit_batch_size
	// here instead of exit_batch_size.
	if len(b.Exits) != p.batchSizes.Deposit {
		return nil, newError(KindApply, "len(exits) != deposit_batch_size", ErrBatchSizeMismatch)
	}

	staged := p.tree.Clone()
	initialRoot := staged.RootHash()

	var witnesses [rollupparams.ExitBatchSize]circuit.ExitTxWitness
	publicData := make([]byte, 0, len(b.Exits)*20)

	for i, tx := range b.Exits {
		leaf, ok := staged.Get(tx.From)
		if !ok {
			return nil, newError(KindApply, fmt.Sprintf("exiting account %d unknown", tx.From), ErrUnknownAccount)
		}

		path := staged.MerklePath(tx.From)
		staged.Insert(tx.From, account.Account{})

		witnesses[i] = circuit.ExitTxWitness{
			From:   big.NewInt(int64(tx.From)),
			Before: leafToCircuit(leaf),
			Path:   pathToArray(path),
		}

		publicData = primitives.PutBEUint32(publicData, tx.From)
		publicData = primitives.PutBEUint128(publicData, frToBigInt(leaf.Balance))
	}

	finalRoot := staged.RootHash()
	if initialRoot.Equal(&finalRoot) {
		return nil, newError(KindConsistency, "exit batch did not change root", ErrRootUnchanged)
	}
	if !finalRoot.Equal(&b.NewRootHash) {
		return nil, newError(KindConsistency, "post-state root disagrees with block's declared root", ErrRootMismatch)
	}

	// Exit blocks leave total_fees out of the commitment and record zero
	// fees in the proof.
	commitmentFr := commitment.PublicDataCommitment(b.BlockNumber, nil, publicData)

	assignment := &circuit.ExitCircuit{
		OldRoot:              frToBigInt(initialRoot),
		NewRoot:              frToBigInt(finalRoot),
		PublicDataCommitment: frToBigInt(commitmentFr),
		Exits:                witnesses,
	}

	proof, err := p.proveAndVerify(p.exitKeys, assignment, &circuit.ExitCircuit{
		OldRoot:              assignment.OldRoot,
		NewRoot:              assignment.NewRoot,
		PublicDataCommitment: assignment.PublicDataCommitment,
	})
	if err != nil {
		return nil, err
	}

	p.tree = staged
	p.blockNumber++

	return &block.FullProof{
		Proof:                proof,
		OldRoot:              initialRoot,
		NewRoot:              finalRoot,
		PublicDataCommitment: commitmentFr,
		BlockNumber:          b.BlockNumber,
		TotalFees:            big.NewInt(0),
		PublicData:           publicData,
	}, nil
}

// proveAndVerify runs Groth16 proving against the full private assignment
// and immediately re-verifies the result against publicOnly before
// returning the encoded 8-tuple. A verification failure here means the
// witness and the declared public inputs disagree — the caller must not
// commit its staged tree in that case, so this never mutates p itself.
func (p *Prover) proveAndVerify(keys *snark.Keys, assignment, publicOnly frontend.Circuit) ([8]*big.Int, error) {
	var zero [8]*big.Int

	proof, err := snark.Prove(keys.CS, keys.PK, assignment)
	if err != nil {
		return zero, newError(KindCrypto, "proof generation failed", err)
	}

	ok, err := snark.VerifyLocally(proof, keys.VK, publicOnly)
	if err != nil {
		return zero, newError(KindCrypto, "local verification failed", err)
	}
	if !ok {
		return zero, newError(KindCrypto, "local verification rejected proof", ErrProofInvalid)
	}

	encoded, err := snark.EncodeProof(proof)
	if err != nil {
		return zero, newError(KindCrypto, "proof encoding failed", err)
	}
	return encoded, nil
}
