// Copyright 2025 Certen Protocol

package codec

import (
	"github.com/certen/rollup-prover/pkg/primitives"
	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/ethereum/go-ethereum/common"
)

// CloseOp has no balance effects in the codec layer; it only emits an
// opcode and account id.
type CloseOp struct {
	AccountID uint32
	// Account, Nonce are unknown from pubdata on decode.
	Account common.Address
	Nonce   uint32
}

func (CloseOp) OpKind() OpKind { return KindClose }

func (op CloseOp) Encode() ([]byte, error) {
	buf := make([]byte, 0, rollupparams.ChunkBytes)
	buf = append(buf, byte(KindClose))
	buf = primitives.PutBEUint32(buf, op.AccountID)
	return padRight(buf, rollupparams.ChunkBytes), nil
}

func decodeClose(data []byte) (Operation, error) {
	const accountIDOffset = 1
	accountID, err := primitives.BEUint32(data[accountIDOffset:])
	if err != nil {
		return nil, err
	}
	return CloseOp{
		AccountID: accountID,
		Account:   common.Address{},
		Nonce:     0,
	}, nil
}
