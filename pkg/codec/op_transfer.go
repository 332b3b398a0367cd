// Copyright 2025 Certen Protocol

package codec

import (
	"math/big"

	"github.com/certen/rollup-prover/pkg/primitives"
	"github.com/certen/rollup-prover/pkg/rollupparams"
)

// TransferOp is an ordinary transfer between two existing accounts,
// occupying 2 chunks on the wire.
type TransferOp struct {
	From   uint32
	To     uint32
	Token  uint16
	Amount *big.Int
	Fee    *big.Int
	// Nonce is unknown from pubdata on decode.
	Nonce uint32
}

func (TransferOp) OpKind() OpKind { return KindTransfer }

func (op TransferOp) Encode() ([]byte, error) {
	amountPacked, err := primitives.PackAmount(op.Amount, rollupparams.AmountExponentBitWidth, rollupparams.AmountMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}
	feePacked, err := primitives.PackAmount(op.Fee, rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}

	buf := make([]byte, 0, 2*rollupparams.ChunkBytes)
	buf = append(buf, byte(KindTransfer))
	buf = primitives.PutBEUint32(buf, op.From)
	buf = primitives.PutBEUint16(buf, op.Token)
	buf = primitives.PutBEUint32(buf, op.To)
	buf = append(buf, amountPacked...)
	buf = append(buf, feePacked...)
	return padRight(buf, 2*rollupparams.ChunkBytes), nil
}

func decodeTransfer(data []byte) (Operation, error) {
	const fromOffset = 1
	tokenOffset := fromOffset + rollupparams.AccountIDBitWidth/8
	toOffset := tokenOffset + rollupparams.TokenBitWidth/8
	amountOffset := toOffset + rollupparams.AccountIDBitWidth/8
	feeOffset := amountOffset + rollupparams.PackedAmountBytes()

	fromID, err := primitives.BEUint32(data[fromOffset:])
	if err != nil {
		return nil, err
	}
	toID, err := primitives.BEUint32(data[toOffset:])
	if err != nil {
		return nil, err
	}
	token, err := primitives.BEUint16(data[tokenOffset:])
	if err != nil {
		return nil, err
	}
	amount, err := primitives.UnpackAmount(data[amountOffset:], rollupparams.AmountExponentBitWidth, rollupparams.AmountMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}
	fee, err := primitives.UnpackAmount(data[feeOffset:], rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}

	return TransferOp{
		From:   fromID,
		To:     toID,
		Token:  token,
		Amount: amount,
		Fee:    fee,
		Nonce:  0,
	}, nil
}
