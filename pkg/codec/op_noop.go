// Copyright 2025 Certen Protocol

package codec

import (
	"bytes"

	"github.com/certen/rollup-prover/pkg/rollupparams"
)

// NoopOp is the one-chunk filler operation. The decoder accepts only an
// all-zero payload; a mis-padded block must be rejected.
type NoopOp struct{}

func (NoopOp) OpKind() OpKind { return KindNoop }

func (NoopOp) Encode() ([]byte, error) {
	return make([]byte, rollupparams.ChunkBytes), nil
}

func decodeNoop(data []byte) (Operation, error) {
	if !bytes.Equal(data, make([]byte, rollupparams.ChunkBytes)) {
		return nil, ErrNoopNotAllZero
	}
	return NoopOp{}, nil
}
