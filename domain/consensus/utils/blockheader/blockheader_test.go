package blockheader

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/posw"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/serialization"
	"github.com/snarkpow/snarkpowd/domain/dagconfig"
)

// fakeBackend proves by writing the nonce into an otherwise zero proof.
type fakeBackend struct {
	proofSize int
}

func (b *fakeBackend) Prove(_ []*externalapi.PedersenMerkleRoot, nonce uint32) ([]byte, error) {
	proof := make([]byte, b.proofSize)
	binary.LittleEndian.PutUint32(proof, nonce)
	return proof, nil
}

func (b *fakeBackend) Verify(proof []byte, _ []*externalapi.PedersenMerkleRoot, nonce uint32) error {
	if binary.LittleEndian.Uint32(proof) != nonce {
		return errors.Wrap(ruleerrors.ErrInvalidProof, "nonce mismatch")
	}
	return nil
}

func (b *fakeBackend) CheckProofStructure(proof []byte) error {
	if len(proof) != b.proofSize {
		return ruleerrors.NewErrProofWidth(b.proofSize, len(proof))
	}
	return nil
}

func (b *fakeBackend) ProofSize() int {
	return b.proofSize
}

// fakeParams returns the testnet parameters with a fake proof backend.
func fakeParams() *dagconfig.Params {
	params := dagconfig.TestnetParams
	params.ProofBackendFunc = func(proofSize int) (posw.ProofBackend, error) {
		return &fakeBackend{proofSize: proofSize}, nil
	}
	return &params
}

func testTransactions(count int) []*externalapi.DomainTransaction {
	transactions := make([]*externalapi.DomainTransaction, count)
	for i := range transactions {
		transactions[i] = &externalapi.DomainTransaction{
			OutputCommitments:  []externalapi.Commitment{{byte(i), 1}},
			InputSerialNumbers: []externalapi.SerialNumber{{byte(i), 2}},
		}
	}
	return transactions
}

func mineTestHeader(t *testing.T, params *dagconfig.Params) *externalapi.BlockHeader {
	header, err := New(params, &externalapi.BlockHeaderHash{0x11}, testTransactions(3),
		&externalapi.MerkleRoot{0x22}, &externalapi.MerkleRoot{0x33},
		1600000000, math.MaxUint64/4, 1000, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	return header
}

func TestNew(t *testing.T) {
	params := fakeParams()
	header := mineTestHeader(t, params)

	if header.Metadata.Nonce >= 1000 {
		t.Fatalf("TestNew: nonce %d is out of range", header.Metadata.Nonce)
	}
	if posw.Score(header.Proof) > header.Metadata.DifficultyTarget {
		t.Fatalf("TestNew: proof score is above the difficulty target")
	}
	if header.Proof.Size() != params.ProofSize {
		t.Fatalf("TestNew: expected a %d byte proof, got %d", params.ProofSize, header.Proof.Size())
	}
	if header.IsGenesis() {
		t.Fatalf("TestNew: a header with a previous block and a timestamp is not a genesis header")
	}

	err := ValidateProof(params, header, testTransactions(3))
	if err != nil {
		t.Fatalf("TestNew: ValidateProof: %s", err)
	}
	err = ValidateProof(params, header, testTransactions(2))
	if !errors.Is(err, ruleerrors.ErrInvalidProof) {
		t.Fatalf("TestNew: expected ErrInvalidProof for other transactions, got %v", err)
	}
}

func TestNewExhausted(t *testing.T) {
	_, err := New(fakeParams(), &externalapi.BlockHeaderHash{0x11}, testTransactions(1),
		&externalapi.MerkleRoot{}, &externalapi.MerkleRoot{}, 1, 0, 16, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ruleerrors.ErrMiningExhausted) {
		t.Fatalf("TestNewExhausted: expected ErrMiningExhausted, got %v", err)
	}
}

func TestNewMalformedProof(t *testing.T) {
	params := fakeParams()
	params.ProofBackendFunc = func(proofSize int) (posw.ProofBackend, error) {
		return &wrongWidthBackend{fakeBackend{proofSize: proofSize}}, nil
	}
	_, err := New(params, &externalapi.BlockHeaderHash{0x11}, testTransactions(1),
		&externalapi.MerkleRoot{}, &externalapi.MerkleRoot{}, 1, math.MaxUint64, 16, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ruleerrors.ErrMalformedProof) {
		t.Fatalf("TestNewMalformedProof: expected ErrMalformedProof, got %v", err)
	}
}

// wrongWidthBackend claims the network proof size but produces shorter
// proofs.
type wrongWidthBackend struct {
	fakeBackend
}

func (b *wrongWidthBackend) Prove(subroots []*externalapi.PedersenMerkleRoot, nonce uint32) ([]byte, error) {
	proof, err := b.fakeBackend.Prove(subroots, nonce)
	if err != nil {
		return nil, err
	}
	return proof[:len(proof)-1], nil
}

func TestNewEmptyTransactionsPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ruleerrors.ErrNoTransactions) {
			t.Fatalf("TestNewEmptyTransactionsPanics: expected a panic with ErrNoTransactions, got %v", r)
		}
	}()
	New(fakeParams(), &externalapi.BlockHeaderHash{}, nil, &externalapi.MerkleRoot{}, &externalapi.MerkleRoot{},
		1, math.MaxUint64, 16, rand.New(rand.NewSource(1)))
}

func TestNewGenesis(t *testing.T) {
	params := fakeParams()
	header, err := NewNetworkGenesis(params, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("TestNewGenesis: %s", err)
	}
	checkGenesis(t, params, header)
}

func TestGroth16Genesis(t *testing.T) {
	params := &dagconfig.TestnetParams
	header, err := NewNetworkGenesis(params, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("TestGroth16Genesis: %s", err)
	}
	checkGenesis(t, params, header)

	err = ValidateProof(params, header, params.GenesisTransactions)
	if err != nil {
		t.Fatalf("TestGroth16Genesis: ValidateProof: %s", err)
	}

	headerBytes, err := SerializeToBytes(header)
	if err != nil {
		t.Fatalf("TestGroth16Genesis: SerializeToBytes: %s", err)
	}
	if len(headerBytes) != 919 {
		t.Fatalf("TestGroth16Genesis: expected a 919 byte header, got %d", len(headerBytes))
	}
}

func checkGenesis(t *testing.T, params *dagconfig.Params, header *externalapi.BlockHeader) {
	if !header.IsGenesis() {
		t.Fatalf("checkGenesis: header is not a genesis header")
	}
	if !header.PreviousBlockHash.IsZero() {
		t.Fatalf("checkGenesis: previous block hash is %s", header.PreviousBlockHash)
	}
	if header.Metadata.Timestamp != 0 {
		t.Fatalf("checkGenesis: timestamp is %d", header.Metadata.Timestamp)
	}
	if header.Metadata.DifficultyTarget != math.MaxUint64 {
		t.Fatalf("checkGenesis: difficulty target is %d", header.Metadata.DifficultyTarget)
	}
	if header.TransactionsRoot.IsZero() || header.CommitmentsRoot.IsZero() || header.SerialNumbersRoot.IsZero() {
		t.Fatalf("checkGenesis: a root is zero: %s", header)
	}
	if header.Size() != params.HeaderSize() {
		t.Fatalf("checkGenesis: header is %d bytes, expected %d", header.Size(), params.HeaderSize())
	}
}

func TestIsGenesis(t *testing.T) {
	tests := []struct {
		name              string
		previousBlockHash externalapi.BlockHeaderHash
		timestamp         int64
		expected          bool
	}{
		{"zero hash and zero timestamp", externalapi.BlockHeaderHash{}, 0, true},
		{"zero hash only", externalapi.BlockHeaderHash{}, 1600000000, true},
		{"zero timestamp only", externalapi.BlockHeaderHash{1}, 0, true},
		{"neither", externalapi.BlockHeaderHash{1}, 1600000000, false},
	}
	for _, test := range tests {
		header := &externalapi.BlockHeader{
			PreviousBlockHash: test.previousBlockHash,
			Metadata:          externalapi.NewBlockHeaderMetadata(test.timestamp, 0, 0),
		}
		if header.IsGenesis() != test.expected {
			t.Fatalf("TestIsGenesis: %s: expected %t", test.name, test.expected)
		}
	}
}

func TestHash(t *testing.T) {
	params := fakeParams()
	header := mineTestHeader(t, params)

	hash, err := Hash(params, header)
	if err != nil {
		t.Fatalf("TestHash: %s", err)
	}
	otherHash, err := Hash(params, header.Clone())
	if err != nil {
		t.Fatalf("TestHash: %s", err)
	}
	if !hash.Equal(otherHash) {
		t.Fatalf("TestHash: a clone has a different hash")
	}

	changed := header.Clone()
	changed.Metadata.Timestamp++
	changedHash, err := Hash(params, changed)
	if err != nil {
		t.Fatalf("TestHash: %s", err)
	}
	if hash.Equal(changedHash) {
		t.Fatalf("TestHash: changing the timestamp did not change the hash")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	params := fakeParams()
	header := mineTestHeader(t, params)

	headerBytes, err := SerializeToBytes(header)
	if err != nil {
		t.Fatalf("TestSerializeRoundTrip: SerializeToBytes: %s", err)
	}
	if len(headerBytes) != params.HeaderSize() || SerializeSize(header) != params.HeaderSize() {
		t.Fatalf("TestSerializeRoundTrip: expected %d bytes, got %d", params.HeaderSize(), len(headerBytes))
	}

	decoded, err := DeserializeFromBytes(headerBytes, params.ProofSize)
	if err != nil {
		t.Fatalf("TestSerializeRoundTrip: DeserializeFromBytes: %s", err)
	}
	if !decoded.Equal(header) {
		t.Fatalf("TestSerializeRoundTrip: decoded header differs: %s", spew.Sdump(decoded, header))
	}
}

func TestSerializeMatchesSerializeFields(t *testing.T) {
	header := mineTestHeader(t, fakeParams())

	canonical := &bytes.Buffer{}
	err := Serialize(canonical, header)
	if err != nil {
		t.Fatalf("TestSerializeMatchesSerializeFields: Serialize: %s", err)
	}
	generic := &bytes.Buffer{}
	err = serialization.SerializeFields(generic, header)
	if err != nil {
		t.Fatalf("TestSerializeMatchesSerializeFields: SerializeFields: %s", err)
	}
	if !bytes.Equal(canonical.Bytes(), generic.Bytes()) {
		t.Fatalf("TestSerializeMatchesSerializeFields: encodings differ:\ncanonical %x\ngeneric   %x",
			canonical.Bytes(), generic.Bytes())
	}
}

func TestSerializeLayout(t *testing.T) {
	var previousHash externalapi.BlockHeaderHash
	var transactionsRoot externalapi.PedersenMerkleRoot
	var commitmentsRoot, serialNumbersRoot externalapi.MerkleRoot
	for i := 0; i < externalapi.DigestSize; i++ {
		previousHash[i] = 0x10 + byte(i)
		transactionsRoot[i] = 0x40 + byte(i)
		commitmentsRoot[i] = 0x70 + byte(i)
		serialNumbersRoot[i] = 0xa0 + byte(i)
	}
	header := &externalapi.BlockHeader{
		PreviousBlockHash: previousHash,
		TransactionsRoot:  transactionsRoot,
		CommitmentsRoot:   commitmentsRoot,
		SerialNumbersRoot: serialNumbersRoot,
		Metadata:          externalapi.NewBlockHeaderMetadata(0x0102030405060708, 0x1112131415161718, 0x21222324),
		Proof:             externalapi.ProofOfSuccinctWork{0xd1, 0xd2, 0xd3, 0xd4, 0xd5},
	}

	headerBytes, err := SerializeToBytes(header)
	if err != nil {
		t.Fatalf("TestSerializeLayout: SerializeToBytes: %s", err)
	}

	tests := []struct {
		name     string
		start    int
		end      int
		expected []byte
	}{
		{"previous hash", 0, 32, previousHash[:]},
		{"transactions root", 32, 64, transactionsRoot[:]},
		{"commitments root", 64, 96, commitmentsRoot[:]},
		{"serial numbers root", 96, 128, serialNumbersRoot[:]},
		{"timestamp", 128, 136, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}},
		{"difficulty target", 136, 144, []byte{0x18, 0x17, 0x16, 0x15, 0x14, 0x13, 0x12, 0x11}},
		{"nonce", 144, 148, []byte{0x24, 0x23, 0x22, 0x21}},
		{"proof", 148, 153, []byte{0xd1, 0xd2, 0xd3, 0xd4, 0xd5}},
	}
	if len(headerBytes) != 153 {
		t.Fatalf("TestSerializeLayout: expected 153 bytes, got %d: %x", len(headerBytes), headerBytes)
	}
	for _, test := range tests {
		if !bytes.Equal(headerBytes[test.start:test.end], test.expected) {
			t.Fatalf("TestSerializeLayout: %s at [%d, %d) is %x, want %x",
				test.name, test.start, test.end, headerBytes[test.start:test.end], test.expected)
		}
	}

	decoded, err := DeserializeFromBytes(headerBytes, len(header.Proof))
	if err != nil {
		t.Fatalf("TestSerializeLayout: DeserializeFromBytes: %s", err)
	}
	if !decoded.Equal(header) {
		t.Fatalf("TestSerializeLayout: decoded header differs: %s", spew.Sdump(decoded, header))
	}
}

func TestZeroHeader(t *testing.T) {
	const timestamp = 1234567890
	header := &externalapi.BlockHeader{
		Metadata: externalapi.NewBlockHeaderMetadata(timestamp, 0, 0),
		Proof:    make(externalapi.ProofOfSuccinctWork, dagconfig.TestnetParams.ProofSize),
	}

	headerBytes, err := SerializeToBytes(header)
	if err != nil {
		t.Fatalf("TestZeroHeader: SerializeToBytes: %s", err)
	}
	if len(headerBytes) != dagconfig.TestnetParams.HeaderSize() {
		t.Fatalf("TestZeroHeader: expected %d bytes, got %d", dagconfig.TestnetParams.HeaderSize(), len(headerBytes))
	}

	decoded, err := DeserializeFromBytes(headerBytes, dagconfig.TestnetParams.ProofSize)
	if err != nil {
		t.Fatalf("TestZeroHeader: DeserializeFromBytes: %s", err)
	}
	if !decoded.PreviousBlockHash.IsZero() || !decoded.TransactionsRoot.IsZero() ||
		!decoded.CommitmentsRoot.IsZero() || !decoded.SerialNumbersRoot.IsZero() {
		t.Fatalf("TestZeroHeader: a digest is not zero: %s", decoded)
	}
	if decoded.Metadata != externalapi.NewBlockHeaderMetadata(timestamp, 0, 0) {
		t.Fatalf("TestZeroHeader: unexpected metadata %+v", decoded.Metadata)
	}
	if !decoded.Proof.Equal(header.Proof) {
		t.Fatalf("TestZeroHeader: proof is not zero")
	}
}

func TestDeserializeTruncated(t *testing.T) {
	header := mineTestHeader(t, fakeParams())
	headerBytes, err := SerializeToBytes(header)
	if err != nil {
		t.Fatalf("TestDeserializeTruncated: SerializeToBytes: %s", err)
	}

	for _, length := range []int{0, 1, 31, 32, 100, 147, 148, len(headerBytes) - 1} {
		_, err := DeserializeFromBytes(headerBytes[:length], dagconfig.TestnetParams.ProofSize)
		if !errors.Is(err, ruleerrors.ErrTruncatedInput) {
			t.Fatalf("TestDeserializeTruncated: %d bytes: expected ErrTruncatedInput, got %v", length, err)
		}
	}

	_, err = DeserializeFromBytes(append(headerBytes, 0), dagconfig.TestnetParams.ProofSize)
	if err == nil {
		t.Fatalf("TestDeserializeTruncated: expected an error for trailing bytes")
	}
}

func TestSerializeWithSizePrefix(t *testing.T) {
	header := mineTestHeader(t, fakeParams())

	framed := &bytes.Buffer{}
	err := SerializeWithSizePrefix(framed, header)
	if err != nil {
		t.Fatalf("TestSerializeWithSizePrefix: %s", err)
	}
	raw, err := SerializeToBytes(header)
	if err != nil {
		t.Fatalf("TestSerializeWithSizePrefix: %s", err)
	}
	if !bytes.Equal(framed.Bytes()[serialization.SizePrefixLength:], raw) {
		t.Fatalf("TestSerializeWithSizePrefix: framed payload differs from the raw encoding")
	}

	decoded, err := DeserializeWithSizePrefix(framed, dagconfig.TestnetParams.ProofSize)
	if err != nil {
		t.Fatalf("TestSerializeWithSizePrefix: %s", err)
	}
	if !decoded.Equal(header) {
		t.Fatalf("TestSerializeWithSizePrefix: decoded header differs")
	}
}
