// Copyright 2025 Certen Protocol

package codec

import (
	"math/big"

	"github.com/certen/rollup-prover/pkg/primitives"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/ethereum/go-ethereum/common"
)

// withdrawDataPrefixQueued/withdrawDataPrefixImmediate are the
// addToPendingWithdrawalsQueue flag values: 1 for
// user-initiated withdrawals (Withdraw, ForcedExit), 0 for FullExit.
const withdrawDataPrefixQueued = 1
const withdrawDataPrefixImmediate = 0

// WithdrawOp is an L2->L1 withdrawal.
type WithdrawOp struct {
	AccountID uint32
	Token     uint16
	Amount    *big.Int // raw u128
	Fee       *big.Int
	To        common.Address
	// From is unknown from pubdata on decode.
	From common.Address
	// Nonce is unknown from pubdata on decode.
	Nonce uint32
}

func (WithdrawOp) OpKind() OpKind { return KindWithdraw }

func (op WithdrawOp) Encode() ([]byte, error) {
	feePacked, err := primitives.PackAmount(op.Fee, rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}

	buf := make([]byte, 0, 6*rollupparams.ChunkBytes)
	buf = append(buf, byte(KindWithdraw))
	buf = primitives.PutBEUint32(buf, op.AccountID)
	buf = primitives.PutBEUint16(buf, op.Token)
	buf = primitives.PutBEUint128(buf, op.Amount)
	buf = append(buf, feePacked...)
	buf = append(buf, op.To.Bytes()...)
	return padRight(buf, 6*rollupparams.ChunkBytes), nil
}

func (op WithdrawOp) WithdrawalData() []byte {
	buf := make([]byte, 0, 1+rollupparams.FRAddressLen+2+16)
	buf = append(buf, withdrawDataPrefixQueued)
	buf = append(buf, op.To.Bytes()...)
	buf = primitives.PutBEUint16(buf, op.Token)
	buf = primitives.PutBEUint128(buf, op.Amount)
	return buf
}

func decodeWithdraw(data []byte) (Operation, error) {
	const accountOffset = 1
	tokenOffset := accountOffset + rollupparams.AccountIDBitWidth/8
	amountOffset := tokenOffset + rollupparams.TokenBitWidth/8
	feeOffset := amountOffset + rollupparams.BalanceBitWidth/8
	ethAddrOffset := feeOffset + rollupparams.PackedFeeBytes()

	accountID, err := primitives.BEUint32(data[accountOffset:])
	if err != nil {
		return nil, err
	}
	token, err := primitives.BEUint16(data[tokenOffset:])
	if err != nil {
		return nil, err
	}
	to := common.BytesToAddress(data[ethAddrOffset : ethAddrOffset+rollupparams.EthAddressBitWidth/8])
	amount, err := primitives.BEUint128(data[amountOffset:])
	if err != nil {
		return nil, err
	}
	fee, err := primitives.UnpackAmount(data[feeOffset:], rollupparams.FeeExponentBitWidth, rollupparams.FeeMantissaBitWidth)
	if err != nil {
		return nil, ErrBadPackedAmount
	}

	return WithdrawOp{
		AccountID: accountID,
		Token:     token,
		Amount:    amount,
		Fee:       fee,
		To:        to,
		From:      common.Address{},
		Nonce:     0,
	}, nil
}
