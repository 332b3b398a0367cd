// Copyright 2025 Certen Protocol

package codec

import (
	"math/big"

	"github.com/certen/rollup-prover/pkg/primitives"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/ethereum/go-ethereum/common"
)

// DepositOp is a priority (L1->L2) operation. Amount is unpacked (raw
// u128) because it already originated from the L1 contract that paid it.
type DepositOp struct {
	AccountID uint32
	Token     uint16
	Amount    *big.Int
	To        common.Address
	// From is the L1 sender; it is not part of the public data and is
	// always the zero address on a decoded operation.
	From common.Address
}

func (DepositOp) OpKind() OpKind { return KindDeposit }

func (op DepositOp) Encode() ([]byte, error) {
	buf := make([]byte, 0, 6*rollupparams.ChunkBytes)
	buf = append(buf, byte(KindDeposit))
	buf = primitives.PutBEUint32(buf, op.AccountID)
	buf = primitives.PutBEUint16(buf, op.Token)
	buf = primitives.PutBEUint128(buf, op.Amount)
	buf = append(buf, op.To.Bytes()...)
	return padRight(buf, 6*rollupparams.ChunkBytes), nil
}

func decodeDeposit(data []byte) (Operation, error) {
	const accountIDOffset = 1
	tokenOffset := accountIDOffset + rollupparams.AccountIDBitWidth/8
	amountOffset := tokenOffset + rollupparams.TokenBitWidth/8
	addrOffset := amountOffset + rollupparams.BalanceBitWidth/8

	accountID, err := primitives.BEUint32(data[accountIDOffset:])
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
	to := common.BytesToAddress(data[addrOffset : addrOffset+rollupparams.FRAddressLen])

	return DepositOp{
		AccountID: accountID,
		Token:     token,
		Amount:    amount,
		To:        to,
		From:      common.Address{},
	}, nil
}
