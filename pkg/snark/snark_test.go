package snark

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark/frontend"
)

// dummyCircuit is a minimal circuit exercising the Setup/Prove/VerifyLocally/
// EncodeProof/DecodeProof pipeline without pulling in the full rollup
// circuits (and their proving time) into a unit test.
type dummyCircuit struct {
	X frontend.Variable `gnark:",public"`
	Y frontend.Variable
}

func (c *dummyCircuit) Define(api frontend.API) error {
	square := api.Mul(c.Y, c.Y)
	api.AssertIsEqual(square, c.X)
	return nil
}

func TestProveVerifyEncodeRoundTrip(t *testing.T) {
	keys, err := Setup(&dummyCircuit{})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	assignment := &dummyCircuit{X: 9, Y: 3}
	proof, err := Prove(keys.CS, keys.PK, assignment)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	ok, err := VerifyLocally(proof, keys.VK, &dummyCircuit{X: 9})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected proof to verify")
	}

	encoded, err := EncodeProof(proof)
	if err != nil {
		t.Fatalf("encode proof: %v", err)
	}
	for i, v := range encoded {
		if v == nil {
			t.Fatalf("encoded component %d is nil", i)
		}
	}

	decoded := DecodeProof(encoded)
	reEncoded, err := EncodeProof(decoded)
	if err != nil {
		t.Fatalf("re-encode proof: %v", err)
	}
	for i := range encoded {
		if encoded[i].Cmp(reEncoded[i]) != 0 {
			t.Fatalf("component %d: encode/decode round trip mismatch", i)
		}
	}
}

func TestVerifyLocallyRejectsWrongPublicInput(t *testing.T) {
	keys, err := Setup(&dummyCircuit{})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	proof, err := Prove(keys.CS, keys.PK, &dummyCircuit{X: 9, Y: 3})
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	ok, err := VerifyLocally(proof, keys.VK, &dummyCircuit{X: 10})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatalf("expected verification to fail for wrong public input")
	}
}

func TestPadBigInt(t *testing.T) {
	out := PadBigInt(big.NewInt(1))
	if len(out) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(out))
	}
	if out[31] != 1 {
		t.Fatalf("expected last byte 1, got %d", out[31])
	}
	if PadBigInt(nil) == nil {
		t.Fatalf("expected non-nil for nil input")
	}
}
