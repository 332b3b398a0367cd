// Copyright 2025 Certen Protocol

package codec

import (
	"math/big"

	"github.com/certen/rollup-prover/pkg/primitives"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/ethereum/go-ethereum/common"
)

// TransferToNewOp transfers to an account not yet present in the tree.
type TransferToNewOp struct {
	From   uint32
	To     common.Address
	ToID   uint32
	Token  uint16
	Amount *big.Int
	Fee    *big.Int
	// Nonce is unknown from pubdata on decode.
	Nonce uint32
}

func (TransferToNewOp) OpKind() OpKind { return KindTransferToNew }

func (op TransferToNewOp) Encode() ([]byte, error) {
	amountPacked, err := primitives.PackAmount(op.Amount, rollupparams.AmountExponentBitWidth, rollupparams.AmountMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}
	feePacked, err := primitives.PackAmount(op.Fee, rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}

	buf := make([]byte, 0, 6*rollupparams.ChunkBytes)
	buf = append(buf, byte(KindTransferToNew))
	buf = primitives.PutBEUint32(buf, op.From)
	buf = primitives.PutBEUint16(buf, op.Token)
	buf = append(buf, amountPacked...)
	buf = append(buf, op.To.Bytes()...)
	buf = primitives.PutBEUint32(buf, op.ToID)
	buf = append(buf, feePacked...)
	return padRight(buf, 6*rollupparams.ChunkBytes), nil
}

func decodeTransferToNew(data []byte) (Operation, error) {
	const fromOffset = 1
	tokenOffset := fromOffset + rollupparams.AccountIDBitWidth/8
	amountOffset := tokenOffset + rollupparams.TokenBitWidth/8
	toAddrOffset := amountOffset + rollupparams.PackedAmountBytes()
	toIDOffset := toAddrOffset + rollupparams.FRAddressLen
	feeOffset := toIDOffset + rollupparams.AccountIDBitWidth/8

	fromID, err := primitives.BEUint32(data[fromOffset:])
	if err != nil {
		return nil, err
	}
	toID, err := primitives.BEUint32(data[toIDOffset:])
	if err != nil {
		return nil, err
	}
	to := common.BytesToAddress(data[toAddrOffset : toAddrOffset+rollupparams.FRAddressLen])
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

	return TransferToNewOp{
		From:   fromID,
		To:     to,
		ToID:   toID,
		Token:  token,
		Amount: amount,
		Fee:    fee,
		Nonce:  0,
	}, nil
}
