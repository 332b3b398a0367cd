package codec

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/certen/rollup-prover/pkg/rollupparams"
	"github.com/ethereum/go-ethereum/common"
)

func addr(hexByte byte) common.Address {
	var a common.Address
	for i := range a {
		a[i] = hexByte
	}
	return a
}

// S1 from the seed scenarios: DepositOp{account_id=5, token=1, amount=100,
// to=0x11...11}.
func TestS1DepositCodec(t *testing.T) {
	op := DepositOp{
		AccountID: 5,
		Token:     1,
		Amount:    big.NewInt(100),
		To:        addr(0x11),
	}
	encoded, err := op.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(encoded) != 6*rollupparams.ChunkBytes {
		t.Fatalf("expected %d bytes, got %d", 6*rollupparams.ChunkBytes, len(encoded))
	}
	if encoded[0] != byte(KindDeposit) {
		t.Fatalf("expected opcode 0x01, got 0x%02x", encoded[0])
	}

	decodedOp, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decoded, ok := decodedOp.(DepositOp)
	if !ok {
		t.Fatalf("expected DepositOp, got %T", decodedOp)
	}
	if decoded.AccountID != 5 || decoded.Token != 1 || decoded.Amount.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("decoded fields mismatch: %+v", decoded)
	}
	if decoded.To != addr(0x11) {
		t.Fatalf("decoded address mismatch: %x", decoded.To)
	}
	if decoded.From != (common.Address{}) {
		t.Fatalf("expected decoded From to be zero address (unknown from pubdata)")
	}
}

// S2: TransferOp{from=7, to=9, token=2, amount=pack(1000), fee=pack(1)}.
func TestS2TransferCodec(t *testing.T) {
	op := TransferOp{
		From:   7,
		To:     9,
		Token:  2,
		Amount: big.NewInt(1000),
		Fee:    big.NewInt(1),
	}
	encoded, err := op.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(encoded) != 18 {
		t.Fatalf("expected 18 bytes, got %d", len(encoded))
	}
	if encoded[0] != 0x05 {
		t.Fatalf("expected opcode 0x05, got 0x%02x", encoded[0])
	}

	decodedOp, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decoded := decodedOp.(TransferOp)
	if decoded.From != 7 || decoded.To != 9 || decoded.Token != 2 {
		t.Fatalf("decoded fields mismatch: %+v", decoded)
	}
	if decoded.Amount.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("expected amount 1000, got %s", decoded.Amount)
	}
	if decoded.Fee.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("expected fee 1, got %s", decoded.Fee)
	}
}

// S4: ForcedExitOp{initiator_id=3, target_id=7, token=1, amount=500,
// fee=pack(2), target=0xaa...aa} -> 54 bytes starting with
// 08 00000003 00000007 0001 000...1F4 <fee_packed> aa...aa 00...
func TestS4ForcedExitPublicData(t *testing.T) {
	op := ForcedExitOp{
		InitiatorID:    3,
		TargetID:       7,
		Token:          1,
		WithdrawAmount: big.NewInt(500),
		Fee:            big.NewInt(2),
		Target:         addr(0xaa),
	}
	encoded, err := op.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(encoded) != 54 {
		t.Fatalf("expected 54 bytes, got %d", len(encoded))
	}

	wantPrefix, err := hex.DecodeString("0800000003000000070001000000000000000000000000000001f4")
	if err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	if !bytes.Equal(encoded[:len(wantPrefix)], wantPrefix) {
		t.Fatalf("unexpected prefix: got %x want %x", encoded[:len(wantPrefix)], wantPrefix)
	}
}

func TestNoopRequiresAllZero(t *testing.T) {
	zero := make([]byte, rollupparams.ChunkBytes)
	if _, err := Decode(zero); err != nil {
		t.Fatalf("expected all-zero noop to decode, got %v", err)
	}

	nonZero := make([]byte, rollupparams.ChunkBytes)
	nonZero[0] = 0x00
	nonZero[5] = 0x01
	if _, err := Decode(nonZero); err == nil {
		t.Fatalf("expected mis-padded noop payload to be rejected")
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	op := CloseOp{AccountID: 1}
	encoded, _ := op.Encode()
	if _, err := Decode(encoded[:len(encoded)-1]); err == nil {
		t.Fatalf("expected truncated payload to be rejected")
	}
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	payload := make([]byte, rollupparams.ChunkBytes)
	payload[0] = 0xff
	if _, err := Decode(payload); err == nil {
		t.Fatalf("expected unknown opcode to be rejected")
	}
}

func TestWithdrawalDataDispatch(t *testing.T) {
	w := WithdrawOp{AccountID: 1, Token: 3, Amount: big.NewInt(42), Fee: big.NewInt(1), To: addr(0x22)}
	data, ok := WithdrawalData(w)
	if !ok {
		t.Fatalf("expected Withdraw to carry withdrawal data")
	}
	if data[0] != 1 {
		t.Fatalf("expected queued-withdrawal flag 1, got %d", data[0])
	}

	fe := FullExitOp{AccountID: 1, EthAddress: addr(0x33), Token: 2, WithdrawAmount: big.NewInt(10)}
	feData, ok := WithdrawalData(fe)
	if !ok {
		t.Fatalf("expected FullExit to carry withdrawal data")
	}
	if feData[0] != 0 {
		t.Fatalf("expected immediate-withdrawal flag 0, got %d", feData[0])
	}

	_, ok = WithdrawalData(CloseOp{AccountID: 1})
	if ok {
		t.Fatalf("expected Close to carry no withdrawal data")
	}
}

func TestPublicDataLengthMatchesChunks(t *testing.T) {
	cases := map[byte]int{
		byte(KindNoop):          1,
		byte(KindDeposit):       6,
		byte(KindTransferToNew): 6,
		byte(KindWithdraw):      6,
		byte(KindClose):         1,
		byte(KindTransfer):      2,
		byte(KindFullExit):      6,
		byte(KindChangePubKey):  6,
		byte(KindForcedExit):    6,
	}
	for opType, chunks := range cases {
		n, err := PublicDataLength(opType)
		if err != nil {
			t.Fatalf("PublicDataLength(0x%02x): %v", opType, err)
		}
		if n != chunks*rollupparams.ChunkBytes {
			t.Fatalf("PublicDataLength(0x%02x) = %d, want %d", opType, n, chunks*rollupparams.ChunkBytes)
		}
	}
}
