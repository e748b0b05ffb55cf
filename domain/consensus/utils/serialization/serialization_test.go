package serialization

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
)

type nestedFields struct {
	Flag  bool
	Small uint8
}

type sampleFields struct {
	Digest  externalapi.MerkleRoot
	Signed  int64
	Wide    uint64
	Narrow  uint32
	Nested  nestedFields
	Payload []byte
}

func TestSerializeFieldsMatchesWriteElements(t *testing.T) {
	sample := &sampleFields{
		Digest:  externalapi.MerkleRoot{1, 2, 3},
		Signed:  -2,
		Wide:    0x0102030405060708,
		Narrow:  0xdeadbeef,
		Nested:  nestedFields{Flag: true, Small: 7},
		Payload: []byte{9, 9, 9},
	}

	generic := &bytes.Buffer{}
	err := SerializeFields(generic, sample)
	if err != nil {
		t.Fatalf("TestSerializeFieldsMatchesWriteElements: SerializeFields: %s", err)
	}

	explicit := &bytes.Buffer{}
	err = WriteElements(explicit, sample.Digest, sample.Signed, sample.Wide, sample.Narrow,
		sample.Nested.Flag, sample.Nested.Small)
	if err != nil {
		t.Fatalf("TestSerializeFieldsMatchesWriteElements: WriteElements: %s", err)
	}
	explicit.Write(sample.Payload)

	if !bytes.Equal(generic.Bytes(), explicit.Bytes()) {
		t.Fatalf("TestSerializeFieldsMatchesWriteElements: got %x, want %x",
			generic.Bytes(), explicit.Bytes())
	}

	size, err := FieldsSize(sample)
	if err != nil {
		t.Fatalf("TestSerializeFieldsMatchesWriteElements: FieldsSize: %s", err)
	}
	expectedSize := externalapi.DigestSize + 8 + 8 + 4 + 1 + 1 + 3
	if size != expectedSize {
		t.Fatalf("TestSerializeFieldsMatchesWriteElements: expected size %d, got %d", expectedSize, size)
	}
}

func TestSerializeFieldsRejectsUnsupported(t *testing.T) {
	type withString struct {
		Name string
	}
	err := SerializeFields(&bytes.Buffer{}, withString{Name: "x"})
	if !errors.Is(err, errNoEncodingForType) {
		t.Fatalf("TestSerializeFieldsRejectsUnsupported: expected errNoEncodingForType, got %v", err)
	}

	var nilSample *sampleFields
	err = SerializeFields(&bytes.Buffer{}, nilSample)
	if err == nil {
		t.Fatalf("TestSerializeFieldsRejectsUnsupported: expected an error for a nil pointer")
	}
}

func TestElementsRoundTrip(t *testing.T) {
	metadata := externalapi.NewBlockHeaderMetadata(1234, 0xffffffffffffffff, 42)
	hash := externalapi.BlockHeaderHash{0xaa}
	proof := externalapi.ProofOfSuccinctWork{1, 2, 3, 4}

	buf := &bytes.Buffer{}
	err := WriteElements(buf, &hash, &metadata, proof, true)
	if err != nil {
		t.Fatalf("TestElementsRoundTrip: WriteElements: %s", err)
	}

	var readHash externalapi.BlockHeaderHash
	var readMetadata externalapi.BlockHeaderMetadata
	readProof := make(externalapi.ProofOfSuccinctWork, len(proof))
	var readFlag bool
	err = ReadElements(buf, &readHash, &readMetadata, &readProof, &readFlag)
	if err != nil {
		t.Fatalf("TestElementsRoundTrip: ReadElements: %s", err)
	}
	if readHash != hash || readMetadata != metadata || !readProof.Equal(proof) || !readFlag {
		t.Fatalf("TestElementsRoundTrip: round trip mismatch: %s",
			spew.Sdump(readHash, readMetadata, readProof, readFlag))
	}
}

func TestReadElementMalformed(t *testing.T) {
	var flag bool
	err := ReadElement(bytes.NewReader([]byte{2}), &flag)
	if !IsMalformedError(err) {
		t.Fatalf("TestReadElementMalformed: expected a malformed error for a non canonical bool, got %v", err)
	}

	var wide uint64
	err = ReadElement(bytes.NewReader([]byte{1, 2, 3}), &wide)
	if !IsMalformedError(err) {
		t.Fatalf("TestReadElementMalformed: expected a malformed error for a short read, got %v", err)
	}
}

func TestSizePrefix(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: []byte{}},
		{name: "short", payload: []byte{1, 2, 3}},
		{name: "long", payload: bytes.Repeat([]byte{0x5a}, 1000)},
	}

	for _, test := range tests {
		framed := AddSizePrefix(test.payload)
		if len(framed) != SizePrefixLength+len(test.payload) {
			t.Fatalf("TestSizePrefix: %s: framed length %d", test.name, len(framed))
		}
		if !bytes.Equal(framed[SizePrefixLength:], test.payload) {
			t.Fatalf("TestSizePrefix: %s: payload after prefix differs", test.name)
		}

		stripped, err := StripSizePrefix(framed)
		if err != nil {
			t.Fatalf("TestSizePrefix: %s: StripSizePrefix: %s", test.name, err)
		}
		if !bytes.Equal(stripped, test.payload) {
			t.Fatalf("TestSizePrefix: %s: stripped payload differs", test.name)
		}

		read, err := ReadWithSizePrefix(bytes.NewReader(framed))
		if err != nil {
			t.Fatalf("TestSizePrefix: %s: ReadWithSizePrefix: %s", test.name, err)
		}
		if !bytes.Equal(read, test.payload) {
			t.Fatalf("TestSizePrefix: %s: read payload differs", test.name)
		}
	}
}

func TestSizePrefixErrors(t *testing.T) {
	framed := AddSizePrefix([]byte{1, 2, 3})

	_, err := StripSizePrefix(append(framed, 4))
	if !errors.Is(err, ruleerrors.ErrSizePrefixMismatch) {
		t.Fatalf("TestSizePrefixErrors: expected ErrSizePrefixMismatch, got %v", err)
	}

	_, err = StripSizePrefix(framed[:4])
	if !errors.Is(err, ruleerrors.ErrTruncatedInput) {
		t.Fatalf("TestSizePrefixErrors: expected ErrTruncatedInput for a short prefix, got %v", err)
	}

	_, err = ReadWithSizePrefix(bytes.NewReader(framed[:len(framed)-1]))
	if !errors.Is(err, ruleerrors.ErrTruncatedInput) {
		t.Fatalf("TestSizePrefixErrors: expected ErrTruncatedInput for a short payload, got %v", err)
	}

	huge := AddSizePrefix(nil)
	huge[7] = 0x01
	_, err = ReadWithSizePrefix(bytes.NewReader(huge))
	if !errors.Is(err, ruleerrors.ErrSizePrefixMismatch) {
		t.Fatalf("TestSizePrefixErrors: expected ErrSizePrefixMismatch for a huge prefix, got %v", err)
	}
}
