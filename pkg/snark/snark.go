// Copyright 2025 Certen Protocol
//
// Groth16 plumbing shared by the three rollup circuits: compiling a
// circuit to a constraint system, reading/writing proving and verifying
// keys, producing a proof, verifying it locally, and encoding it into the
// 8-tuple curve-point layout the on-chain verifier expects. The
// component-extraction/reconstruction and the padding convention are
// ported directly from bls_zkp's extractProofComponents/reconstructProof/
// padBigInt — the BN254 point layout is identical, only the circuit
// changes.

package snark

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// ErrNotBN254Proof is returned when a groth16.Proof value is not the
// concrete BN254 implementation this package knows how to encode.
var ErrNotBN254Proof = errors.New("snark: proof is not a BN254 proof")

// Keys bundles everything needed to prove and locally verify against one
// circuit: its compiled constraint system plus the proving and verifying
// key pair produced by the circuit's trusted setup.
type Keys struct {
	CS constraint.ConstraintSystem
	PK groth16.ProvingKey
	VK groth16.VerifyingKey
}

// Setup compiles circuit to an R1CS and runs the Groth16 trusted setup.
// Used by cmd/keysetup to produce the three on-disk proving keys; the
// prover engine itself only ever loads keys, never generates them.
func Setup(circuit frontend.Circuit) (*Keys, error) {
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("compile circuit: %w", err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}
	return &Keys{CS: cs, PK: pk, VK: vk}, nil
}

// WriteTo persists the constraint system, proving key, and verifying key
// to three files under dir, named "<name>_cs.key", "<name>_pk.key", and
// "<name>_vk.key".
func (k *Keys) WriteTo(dir, name string) error {
	if err := writeFile(dir+"/"+name+"_cs.key", k.CS); err != nil {
		return fmt.Errorf("write constraint system: %w", err)
	}
	if err := writeFile(dir+"/"+name+"_pk.key", k.PK); err != nil {
		return fmt.Errorf("write proving key: %w", err)
	}
	if err := writeFile(dir+"/"+name+"_vk.key", k.VK); err != nil {
		return fmt.Errorf("write verifying key: %w", err)
	}
	return nil
}

type writerTo interface {
	WriteTo(w io.Writer) (int64, error)
}

func writeFile(path string, v writerTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = v.WriteTo(f)
	return err
}

// LoadKeys reads the constraint system, proving key, and verifying key
// written by Keys.WriteTo(dir, name) back from disk. Any of the three
// files missing or corrupt makes it return an error; it does not end the
// process itself, and main.go's loadOrSetupKeys answers such an error by
// running a fresh trusted setup instead of failing startup.
func LoadKeys(dir, name string) (*Keys, error) {
	cs := groth16.NewCS(ecc.BN254)
	if err := readFile(dir+"/"+name+"_cs.key", cs); err != nil {
		return nil, fmt.Errorf("read constraint system: %w", err)
	}

	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readFile(dir+"/"+name+"_pk.key", pk); err != nil {
		return nil, fmt.Errorf("read proving key: %w", err)
	}

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readFile(dir+"/"+name+"_vk.key", vk); err != nil {
		return nil, fmt.Errorf("read verifying key: %w", err)
	}

	return &Keys{CS: cs, PK: pk, VK: vk}, nil
}

type readerFrom interface {
	ReadFrom(r io.Reader) (int64, error)
}

func readFile(path string, v readerFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = v.ReadFrom(f)
	return err
}

// Prove generates a Groth16 proof for assignment against cs/pk.
func Prove(cs constraint.ConstraintSystem, pk groth16.ProvingKey, assignment frontend.Circuit) (groth16.Proof, error) {
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("build witness: %w", err)
	}
	proof, err := groth16.Prove(cs, pk, witness)
	if err != nil {
		return nil, fmt.Errorf("generate proof: %w", err)
	}
	return proof, nil
}

// VerifyLocally verifies proof against vk using only the public fields of
// publicAssignment. A verification failure is reported as (false, nil),
// matching the bls_zkp prover's convention of distinguishing "verify ran
// and rejected" from "verify could not run".
func VerifyLocally(proof groth16.Proof, vk groth16.VerifyingKey, publicAssignment frontend.Circuit) (bool, error) {
	publicWitness, err := frontend.NewWitness(publicAssignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("build public witness: %w", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return false, nil
	}
	return true, nil
}

// EncodeProof lays a Groth16 BN254 proof out as the 8-tuple
// [a.x, a.y, b.x0, b.x1, b.y0, b.y1, c.x, c.y] the verifier contract
// expects. The G2 coordinate order (x0 before x1, y0 before y1) is the
// curve-specific convention; swapping it produces a proof that compiles
// but never verifies on-chain.
func EncodeProof(proof groth16.Proof) ([8]*big.Int, error) {
	var out [8]*big.Int

	p, ok := proof.(*groth16bn254.Proof)
	if !ok {
		return out, ErrNotBN254Proof
	}

	ax, ay := new(big.Int), new(big.Int)
	p.Ar.X.BigInt(ax)
	p.Ar.Y.BigInt(ay)

	bx0, bx1 := new(big.Int), new(big.Int)
	by0, by1 := new(big.Int), new(big.Int)
	p.Bs.X.A0.BigInt(bx0)
	p.Bs.X.A1.BigInt(bx1)
	p.Bs.Y.A0.BigInt(by0)
	p.Bs.Y.A1.BigInt(by1)

	cx, cy := new(big.Int), new(big.Int)
	p.Krs.X.BigInt(cx)
	p.Krs.Y.BigInt(cy)

	out = [8]*big.Int{ax, ay, bx0, bx1, by0, by1, cx, cy}
	return out, nil
}

// DecodeProof is EncodeProof's inverse, used by tests that need to
// reconstruct a groth16.Proof from its encoded tuple.
func DecodeProof(encoded [8]*big.Int) groth16.Proof {
	p := &groth16bn254.Proof{}
	p.Ar.X.SetBigInt(encoded[0])
	p.Ar.Y.SetBigInt(encoded[1])
	p.Bs.X.A0.SetBigInt(encoded[2])
	p.Bs.X.A1.SetBigInt(encoded[3])
	p.Bs.Y.A0.SetBigInt(encoded[4])
	p.Bs.Y.A1.SetBigInt(encoded[5])
	p.Krs.X.SetBigInt(encoded[6])
	p.Krs.Y.SetBigInt(encoded[7])
	return p
}

// PadBigInt renders n as a 32-byte big-endian word, the width every
// encoded proof component and public input occupies on-chain.
func PadBigInt(n *big.Int) []byte {
	if n == nil {
		return make([]byte, 32)
	}
	b := n.Bytes()
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
