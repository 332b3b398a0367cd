// Copyright 2025 Certen Protocol
//
// keysetup runs the Groth16 trusted setup for the three rollup circuits
// and writes their proving/verifying keys to disk. Adapted from
// cmd/bls-zk-setup's one-circuit wrapper, grown into flag parsing since
// this tool has three circuits x two artifacts (constraint system +
// key pair) instead of one.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/consensys/gnark/frontend"

	"github.com/certen/rollup-prover/pkg/circuit"
	"github.com/certen/rollup-prover/pkg/snark"
)

func main() {
	outDir := flag.String("out", "./keys", "directory to write proving/verifying key files to")
	only := flag.String("circuit", "", "run setup for a single circuit only: transfer, deposit, or exit (default: all three)")
	flag.Parse()

	jobs := []struct {
		name    string
		circuit frontend.Circuit
	}{
		{"transfer", &circuit.TransferCircuit{}},
		{"deposit", &circuit.DepositCircuit{}},
		{"exit", &circuit.ExitCircuit{}},
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output directory %s: %v", *outDir, err)
	}

	for _, job := range jobs {
		if *only != "" && *only != job.name {
			continue
		}
		if err := runSetup(*outDir, job.name, job.circuit); err != nil {
			log.Fatalf("setup for %s circuit failed: %v", job.name, err)
		}
	}
}

func runSetup(outDir, name string, c frontend.Circuit) error {
	log.Printf("running trusted setup for %s circuit...", name)
	keys, err := snark.Setup(c)
	if err != nil {
		return fmt.Errorf("trusted setup: %w", err)
	}
	if err := keys.WriteTo(outDir, name); err != nil {
		return fmt.Errorf("write keys: %w", err)
	}
	log.Printf("wrote %s/%s_{cs,pk,vk}.key", outDir, name)
	return nil
}
