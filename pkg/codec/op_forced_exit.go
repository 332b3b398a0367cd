// Copyright 2025 Certen Protocol

package codec

import (
	"math/big"

	"github.com/certen/rollup-prover/pkg/primitives"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/ethereum/go-ethereum/common"
)

// ForcedExitOp lets a third party force an exit for a target account.
// WithdrawAmount is resolved by the prover at apply time (like FullExit);
// nil encodes as zero.
type ForcedExitOp struct {
	InitiatorID    uint32
	TargetID       uint32
	Token          uint16
	Fee            *big.Int
	Target         common.Address
	WithdrawAmount *big.Int
	// Nonce is unknown from pubdata on decode.
	Nonce uint32
}

func (ForcedExitOp) OpKind() OpKind { return KindForcedExit }

func (op ForcedExitOp) amount() *big.Int {
	if op.WithdrawAmount == nil {
		return big.NewInt(0)
	}
	return op.WithdrawAmount
}

func (op ForcedExitOp) Encode() ([]byte, error) {
	feePacked, err := primitives.PackAmount(op.Fee, rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}

	buf := make([]byte, 0, 6*rollupparams.ChunkBytes)
	buf = append(buf, byte(KindForcedExit))
	buf = primitives.PutBEUint32(buf, op.InitiatorID)
	buf = primitives.PutBEUint32(buf, op.TargetID)
	buf = primitives.PutBEUint16(buf, op.Token)
	buf = primitives.PutBEUint128(buf, op.amount())
	buf = append(buf, feePacked...)
	buf = append(buf, op.Target.Bytes()...)
	return padRight(buf, 6*rollupparams.ChunkBytes), nil
}

func (op ForcedExitOp) WithdrawalData() []byte {
	buf := make([]byte, 0, 1+rollupparams.FRAddressLen+2+16)
	buf = append(buf, withdrawDataPrefixQueued)
	buf = append(buf, op.Target.Bytes()...)
	buf = primitives.PutBEUint16(buf, op.Token)
	buf = primitives.PutBEUint128(buf, op.amount())
	return buf
}

func decodeForcedExit(data []byte) (Operation, error) {
	const initiatorOffset = 1
	targetOffset := initiatorOffset + rollupparams.AccountIDBitWidth/8
	tokenOffset := targetOffset + rollupparams.AccountIDBitWidth/8
	amountOffset := tokenOffset + rollupparams.TokenBitWidth/8
	feeOffset := amountOffset + rollupparams.BalanceBitWidth/8
	ethAddrOffset := feeOffset + rollupparams.PackedFeeBytes()
	ethAddrEnd := ethAddrOffset + rollupparams.EthAddressBitWidth/8

	initiatorID, err := primitives.BEUint32(data[initiatorOffset:])
	if err != nil {
		return nil, err
	}
	targetID, err := primitives.BEUint32(data[targetOffset:])
	if err != nil {
		return nil, err
	}
	token, err := primitives.BEUint16(data[tokenOffset:])
	if err != nil {
		return nil, err
	}
	amount, err := primitives.BEUint128(data[amountOffset:])
	if err != nil {
		return nil, err
	}
	fee, err := primitives.UnpackAmount(data[feeOffset:ethAddrOffset], rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}
	target := common.BytesToAddress(data[ethAddrOffset:ethAddrEnd])

	return ForcedExitOp{
		InitiatorID:    initiatorID,
		TargetID:       targetID,
		Token:          token,
		Fee:            fee,
		Target:         target,
		WithdrawAmount: amount,
		Nonce:          0,
	}, nil
}
