// Copyright 2025 Certen Protocol

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/consensys/gnark/frontend"

	"github.com/certen/rollup-prover/pkg/circuit"
	"github.com/certen/rollup-prover/pkg/config"
	"github.com/certen/rollup-prover/pkg/prover"
	"github.com/certen/rollup-prover/pkg/snark"
	"github.com/certen/rollup-prover/pkg/statestore"
	"github.com/certen/rollup-prover/pkg/worker"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("starting rollup prover")

	var (
		configPath = flag.String("config", "config.yaml", "path to the prover's YAML config file")
		showHelp   = flag.Bool("help", false, "show help message")
	)
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	log.Printf("loaded config: environment=%s keys_dir=%s statestore.backend=%s",
		cfg.Environment, cfg.Prover.KeysDir, cfg.StateStore.Backend)

	store, err := buildStateStore(cfg.StateStore)
	if err != nil {
		log.Fatalf("failed to build state store: %v", err)
	}

	transferKeys, err := loadOrSetupKeys(cfg.Prover.KeysDir, cfg.Prover.TransferKeyName, &circuit.TransferCircuit{})
	if err != nil {
		log.Fatalf("failed to load transfer circuit keys: %v", err)
	}
	depositKeys, err := loadOrSetupKeys(cfg.Prover.KeysDir, cfg.Prover.DepositKeyName, &circuit.DepositCircuit{})
	if err != nil {
		log.Fatalf("failed to load deposit circuit keys: %v", err)
	}
	exitKeys, err := loadOrSetupKeys(cfg.Prover.KeysDir, cfg.Prover.ExitKeyName, &circuit.ExitCircuit{})
	if err != nil {
		log.Fatalf("failed to load exit circuit keys: %v", err)
	}

	engine, err := prover.Create(store, transferKeys, depositKeys, exitKeys)
	if err != nil {
		log.Fatalf("failed to create prover engine: %v", err)
	}
	log.Printf("prover engine ready: block=%d root=%s", engine.BlockNumber(), engine.RootHash().String())

	requests := make(chan worker.ProverRequest, 16)
	commits := make(chan worker.CommitRequest, 16)

	w := worker.New(engine, store, requests, commits, log.New(log.Writer(), "[ProverWorker] ", log.LstdFlags))

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		log.Fatalf("failed to start worker: %v", err)
	}

	go func() {
		for commit := range commits {
			log.Printf("committed block %d (request %s)", commit.BlockNumber, commit.RequestID)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("shutting down rollup prover...")
	cancel()
	if err := w.Stop(); err != nil {
		log.Printf("worker stop error: %v", err)
	}
	log.Printf("rollup prover stopped")
}

func printHelp() {
	fmt.Println("rollup prover - encodes rollup transactions and generates Groth16 proofs for each block")
	flag.PrintDefaults()
}

// buildStateStore wires cfg.Backend to a concrete statestore.StateStore.
// "memory" is the only backend implemented by this repo; a deployment
// needing durable storage supplies its own StateStore implementation and
// wires it in here instead of silently falling back to one.
func buildStateStore(cfg config.StateStoreSettings) (statestore.StateStore, error) {
	switch cfg.Backend {
	case "memory", "":
		return statestore.NewMemory(0, nil), nil
	default:
		return nil, fmt.Errorf("unsupported statestore backend %q: wire a StateStore implementation in for it", cfg.Backend)
	}
}

// loadOrSetupKeys loads proving/verifying keys for name from dir, or runs a
// fresh Groth16 trusted setup against blankCircuit and persists the result
// when none are found. Running setup on the fly is a development
// convenience — a real deployment runs cmd/keysetup once, out of band, and
// distributes the resulting key files, since a trusted setup produced by
// the prover's own binary at boot is not a ceremony.
func loadOrSetupKeys(dir, name string, blankCircuit frontend.Circuit) (*snark.Keys, error) {
	if keys, err := snark.LoadKeys(dir, name); err == nil {
		return keys, nil
	}

	log.Printf("no proving keys found for %q under %s, running trusted setup (development only)", name, dir)
	keys, err := snark.Setup(blankCircuit)
	if err != nil {
		return nil, fmt.Errorf("setup circuit %s: %w", name, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create keys directory %s: %w", dir, err)
	}
	if err := keys.WriteTo(dir, name); err != nil {
		return nil, fmt.Errorf("write generated keys for %s: %w", name, err)
	}
	return keys, nil
}
