package serialization

import (
	"io"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/util/binaryserializer"
)

// errNoEncodingForType signifies that there's no encoding for the given type.
var errNoEncodingForType = errors.New("there's no encoding for this type")

var errMalformed = errors.New("errMalformed")

// WriteElement writes the little endian representation of element to w.
func WriteElement(w io.Writer, element interface{}) error {
	// Attempt to write the element based on the concrete type via fast
	// type assertions first.
	switch e := element.(type) {
	case uint8:
		return binaryserializer.PutUint8(w, e)

	case bool:
		if e {
			return binaryserializer.PutUint8(w, 0x01)
		}
		return binaryserializer.PutUint8(w, 0x00)

	case int32:
		return binaryserializer.PutUint32(w, uint32(e))

	case uint32:
		return binaryserializer.PutUint32(w, e)

	case int64:
		return binaryserializer.PutUint64(w, uint64(e))

	case uint64:
		return binaryserializer.PutUint64(w, e)

	case externalapi.BlockHeaderHash:
		return binaryserializer.PutBytes(w, e[:])

	case *externalapi.BlockHeaderHash:
		return binaryserializer.PutBytes(w, e[:])

	case externalapi.PedersenMerkleRoot:
		return binaryserializer.PutBytes(w, e[:])

	case *externalapi.PedersenMerkleRoot:
		return binaryserializer.PutBytes(w, e[:])

	case externalapi.MerkleRoot:
		return binaryserializer.PutBytes(w, e[:])

	case *externalapi.MerkleRoot:
		return binaryserializer.PutBytes(w, e[:])

	case externalapi.Commitment:
		return binaryserializer.PutBytes(w, e[:])

	case externalapi.SerialNumber:
		return binaryserializer.PutBytes(w, e[:])

	case externalapi.BlockHeaderMetadata:
		return WriteElements(w, e.Timestamp, e.DifficultyTarget, e.Nonce)

	case *externalapi.BlockHeaderMetadata:
		return WriteElements(w, e.Timestamp, e.DifficultyTarget, e.Nonce)

	case externalapi.ProofOfSuccinctWork:
		return binaryserializer.PutBytes(w, e)
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to write type %T", element)
}

// WriteElements writes multiple items to w. It is equivalent to multiple
// calls to writeElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to. A
// ProofOfSuccinctWork is filled up to its current length.
func ReadElement(r io.Reader, element interface{}) error {
	// Attempt to read the element based on the concrete type via fast
	// type assertions first.
	switch e := element.(type) {
	case *uint8:
		rv, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *bool:
		rv, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		if rv == 0x00 {
			*e = false
		} else if rv == 0x01 {
			*e = true
		} else {
			return errors.Wrapf(errMalformed, "in order to keep serialization canonical, true has to"+
				" always be 0x01")
		}
		return nil

	case *int32:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil

	case *uint32:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int64:
		rv, err := binaryserializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = int64(rv)
		return nil

	case *uint64:
		rv, err := binaryserializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *externalapi.BlockHeaderHash:
		return binaryserializer.Bytes(r, e[:])

	case *externalapi.PedersenMerkleRoot:
		return binaryserializer.Bytes(r, e[:])

	case *externalapi.MerkleRoot:
		return binaryserializer.Bytes(r, e[:])

	case *externalapi.Commitment:
		return binaryserializer.Bytes(r, e[:])

	case *externalapi.SerialNumber:
		return binaryserializer.Bytes(r, e[:])

	case *externalapi.BlockHeaderMetadata:
		return ReadElements(r, &e.Timestamp, &e.DifficultyTarget, &e.Nonce)

	case *externalapi.ProofOfSuccinctWork:
		return binaryserializer.Bytes(r, *e)
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to read type %T", element)
}

// ReadElements reads multiple items from r. It is equivalent to multiple
// calls to ReadElement.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := ReadElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// IsMalformedError returns whether the error indicates a malformed data source
func IsMalformedError(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) || errors.Is(err, errMalformed)
}
