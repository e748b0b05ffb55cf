package externalapi

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
)

func TestNewProofOfSuccinctWork(t *testing.T) {
	proofBytes := []byte{1, 2, 3, 4}
	proof, err := NewProofOfSuccinctWork(proofBytes, 4)
	if err != nil {
		t.Fatalf("TestNewProofOfSuccinctWork: unexpected error: %s", err)
	}
	proofBytes[0] = 9
	if proof[0] != 1 {
		t.Fatalf("TestNewProofOfSuccinctWork: proof aliases its input")
	}

	_, err = NewProofOfSuccinctWork(proofBytes, 5)
	if !errors.Is(err, ruleerrors.ErrMalformedProof) {
		t.Fatalf("TestNewProofOfSuccinctWork: got %v, want ErrMalformedProof", err)
	}
	var widthErr ruleerrors.ErrProofWidth
	if !errors.As(err, &widthErr) || widthErr.Expected != 5 || widthErr.Actual != 4 {
		t.Fatalf("TestNewProofOfSuccinctWork: missing width details in %v", err)
	}
}

func TestBlockHeaderSize(t *testing.T) {
	if BlockHeaderSize(771) != 919 {
		t.Fatalf("TestBlockHeaderSize: got %d, want 919", BlockHeaderSize(771))
	}
	header := &BlockHeader{Proof: make(ProofOfSuccinctWork, 256)}
	if header.Size() != 404 {
		t.Fatalf("TestBlockHeaderSize: got %d, want 404", header.Size())
	}
}

func TestBlockHeaderCloneAndEqual(t *testing.T) {
	header := &BlockHeader{
		PreviousBlockHash: BlockHeaderHash{1},
		TransactionsRoot:  PedersenMerkleRoot{2},
		CommitmentsRoot:   MerkleRoot{3},
		SerialNumbersRoot: MerkleRoot{4},
		Metadata:          NewBlockHeaderMetadata(5, 6, 7),
		Proof:             ProofOfSuccinctWork{8, 9},
	}
	clone := header.Clone()
	if !clone.Equal(header) {
		t.Fatalf("TestBlockHeaderCloneAndEqual: clone differs from the original")
	}
	clone.Proof[0] = 0
	if clone.Equal(header) {
		t.Fatalf("TestBlockHeaderCloneAndEqual: clone shares its proof with the original")
	}
	if (*BlockHeader)(nil).Equal(header) || !(*BlockHeader)(nil).Equal(nil) {
		t.Fatalf("TestBlockHeaderCloneAndEqual: wrong nil handling")
	}
}

func TestTransactionClone(t *testing.T) {
	tx := &DomainTransaction{
		OutputCommitments:  []Commitment{{1}},
		InputSerialNumbers: []SerialNumber{{2}},
		Memo:               []byte("memo"),
	}
	clone := tx.Clone()
	clone.OutputCommitments[0][0] = 9
	clone.InputSerialNumbers[0][0] = 9
	clone.Memo[0] = 'x'
	if tx.OutputCommitments[0][0] != 1 || tx.InputSerialNumbers[0][0] != 2 || tx.Memo[0] != 'm' {
		t.Fatalf("TestTransactionClone: clone shares memory with the original")
	}
}

func TestBlockHeaderHashFromString(t *testing.T) {
	hash := BlockHeaderHash{0xab, 31: 0xcd}
	parsed, err := NewBlockHeaderHashFromString(hash.String())
	if err != nil {
		t.Fatalf("TestBlockHeaderHashFromString: unexpected error: %s", err)
	}
	if !parsed.Equal(&hash) {
		t.Fatalf("TestBlockHeaderHashFromString: got %s, want %s", parsed, hash)
	}

	invalid := []string{"", "ab", hash.String() + "00", "zz" + hash.String()[2:]}
	for _, hashString := range invalid {
		_, err := NewBlockHeaderHashFromString(hashString)
		if err == nil {
			t.Errorf("TestBlockHeaderHashFromString: %q unexpectedly parsed", hashString)
		}
	}

	_, err = NewBlockHeaderHashFromByteSlice([]byte{1, 2, 3})
	if err == nil {
		t.Fatalf("TestBlockHeaderHashFromString: short byte slice unexpectedly accepted")
	}
}
