package blockheader

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/serialization"
)

// Serialize writes the canonical encoding of header to w: the previous block
// hash, the transactions root, the commitments root, the serial numbers
// root, the timestamp, the difficulty target, the nonce and the proof, in
// that order, with no padding and no length prefixes.
func Serialize(w io.Writer, header *externalapi.BlockHeader) error {
	return serialization.WriteElements(w, &header.PreviousBlockHash, &header.TransactionsRoot,
		&header.CommitmentsRoot, &header.SerialNumbersRoot, &header.Metadata, header.Proof)
}

// SerializeToBytes returns the canonical encoding of header.
func SerializeToBytes(header *externalapi.BlockHeader) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, SerializeSize(header)))
	err := Serialize(buf, header)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// block header.
func SerializeSize(header *externalapi.BlockHeader) int {
	return header.Size()
}

func readField(r io.Reader, name string, width int, element interface{}) error {
	err := serialization.ReadElement(r, element)
	if err != nil {
		if serialization.IsMalformedError(err) {
			return ruleerrors.NewErrTruncatedField(name, width)
		}
		return err
	}
	return nil
}

// Deserialize reads a canonically encoded header whose proof is proofSize
// bytes wide from r. It fails with ruleerrors.ErrTruncatedInput if r ends
// before the header does.
func Deserialize(r io.Reader, proofSize int) (*externalapi.BlockHeader, error) {
	header := &externalapi.BlockHeader{
		Proof: make(externalapi.ProofOfSuccinctWork, proofSize),
	}

	fields := []struct {
		name    string
		width   int
		element interface{}
	}{
		{"previous block hash", externalapi.DigestSize, &header.PreviousBlockHash},
		{"transactions root", externalapi.DigestSize, &header.TransactionsRoot},
		{"commitments root", externalapi.DigestSize, &header.CommitmentsRoot},
		{"serial numbers root", externalapi.DigestSize, &header.SerialNumbersRoot},
		{"timestamp", 8, &header.Metadata.Timestamp},
		{"difficulty target", 8, &header.Metadata.DifficultyTarget},
		{"nonce", 4, &header.Metadata.Nonce},
		{"proof", proofSize, &header.Proof},
	}
	for _, field := range fields {
		err := readField(r, field.name, field.width, field.element)
		if err != nil {
			return nil, err
		}
	}
	return header, nil
}

// DeserializeFromBytes decodes a header that takes up all of headerBytes.
func DeserializeFromBytes(headerBytes []byte, proofSize int) (*externalapi.BlockHeader, error) {
	reader := bytes.NewReader(headerBytes)
	header, err := Deserialize(reader, proofSize)
	if err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, errors.Errorf("%d trailing bytes after a %d byte block header",
			reader.Len(), header.Size())
	}
	return header, nil
}

// SerializeWithSizePrefix writes the canonical encoding of header to w,
// framed with an 8 byte little-endian size prefix.
func SerializeWithSizePrefix(w io.Writer, header *externalapi.BlockHeader) error {
	headerBytes, err := SerializeToBytes(header)
	if err != nil {
		return err
	}
	return serialization.WriteWithSizePrefix(w, headerBytes)
}

// DeserializeWithSizePrefix reads a header framed with a size prefix from r.
func DeserializeWithSizePrefix(r io.Reader, proofSize int) (*externalapi.BlockHeader, error) {
	headerBytes, err := serialization.ReadWithSizePrefix(r)
	if err != nil {
		return nil, err
	}
	return DeserializeFromBytes(headerBytes, proofSize)
}
