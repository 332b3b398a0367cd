// Copyright 2025 Certen Protocol

package codec

import (
	"math/big"

	"github.com/certen/rollup-prover/pkg/primitives"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/ethereum/go-ethereum/common"
)

// ChangePubKeyOp rotates an account's signing key. EthWitnessBytes carries
// the raw, unverified ECDSA signature blob accompanying the off-chain
// request; it is never decoded or checked here (signature verification is
// out of scope, see spec Non-goals) — only passed through on encode.
type ChangePubKeyOp struct {
	AccountID     uint32
	NewPkHash     [20]byte
	Account       common.Address
	Nonce         uint32
	FeeToken      uint16
	Fee           *big.Int
	EthWitnessBytes []byte
}

func (ChangePubKeyOp) OpKind() OpKind { return KindChangePubKey }

func (op ChangePubKeyOp) EthWitness() []byte {
	return op.EthWitnessBytes
}

func (op ChangePubKeyOp) Encode() ([]byte, error) {
	feePacked, err := primitives.PackAmount(op.Fee, rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}

	buf := make([]byte, 0, 6*rollupparams.ChunkBytes)
	buf = append(buf, byte(KindChangePubKey))
	buf = primitives.PutBEUint32(buf, op.AccountID)
	buf = append(buf, op.NewPkHash[:]...)
	buf = append(buf, op.Account.Bytes()...)
	buf = primitives.PutBEUint32(buf, op.Nonce)
	buf = primitives.PutBEUint16(buf, op.FeeToken)
	buf = append(buf, feePacked...)
	return padRight(buf, 6*rollupparams.ChunkBytes), nil
}

func decodeChangePubKey(data []byte) (Operation, error) {
	const accountIDOffset = 1
	pkHashOffset := accountIDOffset + rollupparams.AccountIDBitWidth/8
	accountOffset := pkHashOffset + rollupparams.NewPubkeyHashWidth/8
	nonceOffset := accountOffset + rollupparams.AddressWidth/8
	feeTokenOffset := nonceOffset + rollupparams.NonceBitWidth/8
	feeOffset := feeTokenOffset + rollupparams.TokenBitWidth/8
	end := feeOffset + rollupparams.PackedFeeBytes()

	if len(data) < end {
		return nil, ErrTruncatedField
	}

	accountID, err := primitives.BEUint32(data[accountIDOffset:])
	if err != nil {
		return nil, err
	}
	var pkHash [20]byte
	copy(pkHash[:], data[pkHashOffset:accountOffset])
	account := common.BytesToAddress(data[accountOffset:nonceOffset])
	nonce, err := primitives.BEUint32(data[nonceOffset:])
	if err != nil {
		return nil, err
	}
	feeToken, err := primitives.BEUint16(data[feeTokenOffset:])
	if err != nil {
		return nil, err
	}
	fee, err := primitives.UnpackAmount(data[feeOffset:end], rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}

	return ChangePubKeyOp{
		AccountID: accountID,
		NewPkHash: pkHash,
		Account:   account,
		Nonce:     nonce,
		FeeToken:  feeToken,
		Fee:       fee,
	}, nil
}
