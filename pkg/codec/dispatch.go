// Copyright 2025 Certen Protocol
//
// Transcript-query helpers mirroring FranklinOp's withdrawal_data()/
// eth_witness() match arms: most operations don't carry either, so these
// return ok=false rather than forcing every Operation implementation to
// define a no-op method.

package codec

// WithdrawalData returns the secondary withdrawal-data payload for
// Withdraw, ForcedExit, and FullExit operations. ok is false for every
// other kind.
func WithdrawalData(op Operation) (data []byte, ok bool) {
	carrier, ok := op.(WithdrawalDataCarrier)
	if !ok {
		return nil, false
	}
	return carrier.WithdrawalData(), true
}

// EthWitness returns the raw signature blob carried by a ChangePubKey
// operation. ok is false for every other kind.
func EthWitness(op Operation) (data []byte, ok bool) {
	carrier, ok := op.(EthWitnessCarrier)
	if !ok {
		return nil, false
	}
	return carrier.EthWitness(), true
}
