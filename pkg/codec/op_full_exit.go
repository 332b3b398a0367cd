// Copyright 2025 Certen Protocol

package codec

import (
	"math/big"

	"github.com/certen/rollup-prover/pkg/primitives"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/ethereum/go-ethereum/common"
)

// FullExitOp is a priority full-account exit. WithdrawAmount is nil (and
// encodes as zero) when the exit failed and funds remain in the account.
type FullExitOp struct {
	AccountID      uint32
	EthAddress     common.Address
	Token          uint16
	WithdrawAmount *big.Int
}

func (FullExitOp) OpKind() OpKind { return KindFullExit }

func (op FullExitOp) amount() *big.Int {
	if op.WithdrawAmount == nil {
		return big.NewInt(0)
	}
	return op.WithdrawAmount
}

func (op FullExitOp) Encode() ([]byte, error) {
	buf := make([]byte, 0, 6*rollupparams.ChunkBytes)
	buf = append(buf, byte(KindFullExit))
	buf = primitives.PutBEUint32(buf, op.AccountID)
	buf = append(buf, op.EthAddress.Bytes()...)
	buf = primitives.PutBEUint16(buf, op.Token)
	buf = primitives.PutBEUint128(buf, op.amount())
	return padRight(buf, 6*rollupparams.ChunkBytes), nil
}

func (op FullExitOp) WithdrawalData() []byte {
	buf := make([]byte, 0, 1+rollupparams.FRAddressLen+2+16)
	buf = append(buf, withdrawDataPrefixImmediate)
	buf = append(buf, op.EthAddress.Bytes()...)
	buf = primitives.PutBEUint16(buf, op.Token)
	buf = primitives.PutBEUint128(buf, op.amount())
	return buf
}

func decodeFullExit(data []byte) (Operation, error) {
	const accountIDOffset = 1
	ethAddrOffset := accountIDOffset + rollupparams.AccountIDBitWidth/8
	tokenOffset := ethAddrOffset + rollupparams.EthAddressBitWidth/8
	amountOffset := tokenOffset + rollupparams.TokenBitWidth/8

	accountID, err := primitives.BEUint32(data[accountIDOffset:])
	if err != nil {
		return nil, err
	}
	ethAddress := common.BytesToAddress(data[ethAddrOffset : ethAddrOffset+rollupparams.EthAddressBitWidth/8])
	token, err := primitives.BEUint16(data[tokenOffset:])
	if err != nil {
		return nil, err
	}
	amount, err := primitives.BEUint128(data[amountOffset:])
	if err != nil {
		return nil, err
	}

	return FullExitOp{
		AccountID:      accountID,
		EthAddress:     ethAddress,
		Token:          token,
		WithdrawAmount: amount,
	}, nil
}
