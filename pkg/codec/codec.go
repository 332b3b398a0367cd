// Copyright 2025 Certen Protocol
//
// Operation Codec: the bit-exact chunked wire format shared with the
// on-chain verifier. Every layout below is grounded byte-for-byte on
// original_source/core/lib/models/src/node/operations.rs
// (get_public_data/from_public_data/get_withdrawal_data); this is the
// contract that must never drift even by one byte.

package codec

import (
	"fmt"

	"github.com/certen/rollup-prover/pkg/rollupparams"
)

// OpKind is the tag byte distinguishing the nine operation variants.
type OpKind uint8

const (
	KindNoop          OpKind = 0x00
	KindDeposit       OpKind = 0x01
	KindTransferToNew OpKind = 0x02
	KindWithdraw      OpKind = 0x03
	KindClose         OpKind = 0x04
	KindTransfer      OpKind = 0x05
	KindFullExit      OpKind = 0x06
	KindChangePubKey  OpKind = 0x07
	KindForcedExit    OpKind = 0x08
)

func (k OpKind) String() string {
	switch k {
	case KindNoop:
		return "Noop"
	case KindDeposit:
		return "Deposit"
	case KindTransferToNew:
		return "TransferToNew"
	case KindWithdraw:
		return "Withdraw"
	case KindClose:
		return "Close"
	case KindTransfer:
		return "Transfer"
	case KindFullExit:
		return "FullExit"
	case KindChangePubKey:
		return "ChangePubKey"
	case KindForcedExit:
		return "ForcedExit"
	default:
		return fmt.Sprintf("OpKind(0x%02x)", uint8(k))
	}
}

// Chunks returns the fixed chunk count for the operation kind.
func (k OpKind) Chunks() (int, error) {
	switch k {
	case KindNoop, KindClose:
		return 1, nil
	case KindTransfer:
		return 2, nil
	case KindDeposit, KindTransferToNew, KindWithdraw, KindFullExit, KindChangePubKey, KindForcedExit:
		return 6, nil
	default:
		return 0, ErrUnknownOpcode
	}
}

// PublicDataLength returns Chunks()*CHUNK_BYTES for the given opcode,
// without requiring a decoded operation.
func PublicDataLength(opType byte) (int, error) {
	chunks, err := OpKind(opType).Chunks()
	if err != nil {
		return 0, err
	}
	return chunks * rollupparams.ChunkBytes, nil
}

// Operation is the tagged-union interface every operation variant
// implements. Go has no pattern-matching sum type, so OpKind() plays the
// role of a discriminant for switch-based dispatch, mirroring the Rust
// FranklinOp enum's match arms.
type Operation interface {
	OpKind() OpKind
	// Encode produces exactly Chunks()*CHUNK_BYTES bytes, big-endian in
	// every field, right-padded with zeros, opcode first.
	Encode() ([]byte, error)
}

// WithdrawalDataCarrier is implemented by operations that expose a
// secondary withdrawal-data payload for the on-chain pending-withdrawals
// queue (Withdraw, ForcedExit, FullExit).
type WithdrawalDataCarrier interface {
	WithdrawalData() []byte
}

// EthWitnessCarrier is implemented by operations that carry a raw,
// unverified signature blob alongside their public data (ChangePubKey).
type EthWitnessCarrier interface {
	EthWitness() []byte
}

func padRight(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Decode inspects bytes[0] and delegates to the matching operation's
// decoder. Fields marked "unknown from pubdata" in operations.rs are
// filled with their zero value on the returned operation — the result is
// a projection of the original transaction, not a round-trippable record.
func Decode(data []byte) (Operation, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPubdata
	}
	opType := data[0]
	n, err := PublicDataLength(opType)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: kind=%s want=%d got=%d", ErrWrongLength, OpKind(opType), n, len(data))
	}

	switch OpKind(opType) {
	case KindNoop:
		return decodeNoop(data)
	case KindDeposit:
		return decodeDeposit(data)
	case KindTransferToNew:
		return decodeTransferToNew(data)
	case KindWithdraw:
		return decodeWithdraw(data)
	case KindClose:
		return decodeClose(data)
	case KindTransfer:
		return decodeTransfer(data)
	case KindFullExit:
		return decodeFullExit(data)
	case KindChangePubKey:
		return decodeChangePubKey(data)
	case KindForcedExit:
		return decodeForcedExit(data)
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownOpcode, opType)
	}
}
