package serialization

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/util/binaryserializer"
)

// SizePrefixLength is the width of the little-endian length prefix that frames
// on-wire structures.
const SizePrefixLength = 8

// MaxSizePrefixedPayload caps the payload length a size prefix may announce.
const MaxSizePrefixedPayload = 1 << 26

// WriteWithSizePrefix writes the length of payload as an 8 byte little-endian
// integer followed by payload itself.
func WriteWithSizePrefix(w io.Writer, payload []byte) error {
	err := binaryserializer.PutUint64(w, uint64(len(payload)))
	if err != nil {
		return err
	}
	return binaryserializer.PutBytes(w, payload)
}

// ReadWithSizePrefix reads a size prefix from r and then exactly that many
// payload bytes.
func ReadWithSizePrefix(r io.Reader) ([]byte, error) {
	size, err := binaryserializer.Uint64(r)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrTruncatedInput, "failed to read size prefix: %s", err)
	}
	if size > MaxSizePrefixedPayload {
		return nil, errors.Wrapf(ruleerrors.ErrSizePrefixMismatch,
			"size prefix %d is above the maximum of %d", size, MaxSizePrefixedPayload)
	}
	payload := make([]byte, size)
	err = binaryserializer.Bytes(r, payload)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrTruncatedInput,
			"failed to read %d byte payload: %s", size, err)
	}
	return payload, nil
}

// AddSizePrefix returns payload framed with its size prefix.
func AddSizePrefix(payload []byte) []byte {
	framed := bytes.NewBuffer(make([]byte, 0, SizePrefixLength+len(payload)))
	// Writing into a bytes.Buffer never fails.
	_ = WriteWithSizePrefix(framed, payload)
	return framed.Bytes()
}

// StripSizePrefix returns the payload of framed, failing with
// ErrSizePrefixMismatch if the prefix does not describe exactly the rest of
// framed.
func StripSizePrefix(framed []byte) ([]byte, error) {
	if len(framed) < SizePrefixLength {
		return nil, errors.Wrapf(ruleerrors.ErrTruncatedInput,
			"framed data is %d bytes, shorter than its %d byte size prefix", len(framed), SizePrefixLength)
	}
	size, err := binaryserializer.Uint64(bytes.NewReader(framed[:SizePrefixLength]))
	if err != nil {
		return nil, err
	}
	payload := framed[SizePrefixLength:]
	if size != uint64(len(payload)) {
		return nil, errors.Wrapf(ruleerrors.ErrSizePrefixMismatch,
			"size prefix announces %d bytes but %d follow", size, len(payload))
	}
	return payload, nil
}
