// Copyright 2025 Certen Protocol
//
// Byte-slice helpers used throughout the codec: fixed-width big-endian
// integer parsing mirroring the offset arithmetic in the original
// operations codec (bytes_slice_to_uint32/16/128 in the Rust source).

package primitives

import (
	"encoding/binary"
	"errors"
	"math/big"
)

// ErrShortSlice is returned when a fixed-width read runs past the end of
// the supplied slice.
var ErrShortSlice = errors.New("primitives: slice too short for fixed-width read")

// BEUint16 reads a big-endian uint16 from the first 2 bytes of b.
func BEUint16(b []byte) (uint16, error) {
	if len(b) < 2 {
		return 0, ErrShortSlice
	}
	return binary.BigEndian.Uint16(b[:2]), nil
}

// BEUint32 reads a big-endian uint32 from the first 4 bytes of b.
func BEUint32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, ErrShortSlice
	}
	return binary.BigEndian.Uint32(b[:4]), nil
}

// BEUint128 reads a big-endian 128-bit unsigned integer from the first 16
// bytes of b, returned as a *big.Int.
func BEUint128(b []byte) (*big.Int, error) {
	if len(b) < 16 {
		return nil, ErrShortSlice
	}
	return new(big.Int).SetBytes(b[:16]), nil
}

// PutBEUint16 appends the big-endian encoding of v to dst.
func PutBEUint16(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}

// PutBEUint32 appends the big-endian encoding of v to dst.
func PutBEUint32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

// PutBEUint128 appends the big-endian, 16-byte-padded encoding of v to dst.
// v must be non-negative and fit in 128 bits.
func PutBEUint128(dst []byte, v *big.Int) []byte {
	var buf [16]byte
	if v != nil {
		b := v.Bytes()
		if len(b) > 16 {
			b = b[len(b)-16:]
		}
		copy(buf[16-len(b):], b)
	}
	return append(dst, buf[:]...)
}

// BE256 returns the 32-byte big-endian representation of v, zero padded on
// the left. Used by the public-data commitment (block_number, total_fees).
func BE256(v uint64) [32]byte {
	var out [32]byte
	binary.BigEndian.PutUint64(out[24:], v)
	return out
}

// BE256FromBigInt returns the 32-byte big-endian representation of v, zero
// padded on the left. v must fit in 256 bits; a nil v encodes as zero.
func BE256FromBigInt(v *big.Int) [32]byte {
	var out [32]byte
	if v != nil {
		b := v.Bytes()
		if len(b) > 32 {
			b = b[len(b)-32:]
		}
		copy(out[32-len(b):], b)
	}
	return out
}
