// Copyright 2025 Certen Protocol

package codec

import "errors"

// Sentinel codec failures, returned directly (or wrapped with fmt.Errorf)
// to the caller. pkg/prover's Kind taxonomy has no codec kind; decode
// failures are identified with errors.Is against these sentinels.
var (
	ErrEmptyPubdata     = errors.New("codec: empty public data")
	ErrUnknownOpcode    = errors.New("codec: unknown opcode")
	ErrWrongLength      = errors.New("codec: wrong public data length for operation")
	ErrTruncatedField   = errors.New("codec: truncated field in public data")
	ErrBadPackedAmount  = errors.New("codec: packed amount not representable")
	ErrNoopNotAllZero   = errors.New("codec: noop payload must be all-zero")
	ErrNoWithdrawalData = errors.New("codec: operation kind has no withdrawal data")
)
