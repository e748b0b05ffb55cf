package coinbasepuzzle

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/serialization"
	"github.com/snarkpow/snarkpowd/util/binaryserializer"
)

const (
	randomVAbsent  = 0x00
	randomVPresent = 0x01
)

// writeSolution writes the canonical encoding of solution to w: address,
// nonce, commitment, proof.w, a random_v presence tag and random_v when
// present.
func writeSolution(w io.Writer, solution *ProverSolution) error {
	partialSolution := solution.partialSolution
	commitmentBytes := partialSolution.commitment.Bytes()
	wBytes := solution.proof.W.Bytes()

	err := binaryserializer.PutBytes(w, partialSolution.address[:])
	if err != nil {
		return err
	}
	err = binaryserializer.PutUint64(w, partialSolution.nonce)
	if err != nil {
		return err
	}
	err = binaryserializer.PutBytes(w, commitmentBytes[:])
	if err != nil {
		return err
	}
	err = binaryserializer.PutBytes(w, wBytes[:])
	if err != nil {
		return err
	}

	if !solution.proof.HasRandomV() {
		return binaryserializer.PutUint8(w, randomVAbsent)
	}
	err = binaryserializer.PutUint8(w, randomVPresent)
	if err != nil {
		return err
	}
	randomVBytes := solution.proof.RandomV.Bytes()
	return binaryserializer.PutBytes(w, randomVBytes[:])
}

func readBytes(r io.Reader, name string, width int) ([]byte, error) {
	buf := make([]byte, width)
	err := binaryserializer.Bytes(r, buf)
	if err != nil {
		if serialization.IsMalformedError(err) {
			return nil, ruleerrors.NewErrTruncatedField(name, width)
		}
		return nil, err
	}
	return buf, nil
}

func readSolution(r io.Reader) (*ProverSolution, error) {
	addressBytes, err := readBytes(r, "address", AddressSize)
	if err != nil {
		return nil, err
	}
	var address Address
	copy(address[:], addressBytes)

	nonceBytes, err := readBytes(r, "nonce", 8)
	if err != nil {
		return nil, err
	}
	nonce, err := binaryserializer.Uint64(bytes.NewReader(nonceBytes))
	if err != nil {
		return nil, err
	}

	commitmentBytes, err := readBytes(r, "commitment", KZGCommitmentSize)
	if err != nil {
		return nil, err
	}
	commitment, err := KZGCommitmentFromBytes(commitmentBytes)
	if err != nil {
		return nil, err
	}

	wBytes, err := readBytes(r, "proof.w", KZGCommitmentSize)
	if err != nil {
		return nil, err
	}
	w, err := KZGCommitmentFromBytes(wBytes)
	if err != nil {
		return nil, err
	}

	tag, err := readBytes(r, "random_v tag", 1)
	if err != nil {
		return nil, err
	}
	proof := KZGProof{W: w}
	switch tag[0] {
	case randomVAbsent:
	case randomVPresent:
		randomVBytes, err := readBytes(r, "proof.random_v", RandomVSize)
		if err != nil {
			return nil, err
		}
		proof.RandomV, err = randomVFromBytes(randomVBytes)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(ruleerrors.ErrMalformedSolution, "invalid random_v tag %d", tag[0])
	}

	return NewProverSolution(NewPartialSolution(address, nonce, commitment), proof), nil
}

// ToBytes returns the canonical encoding of the solution.
func (solution *ProverSolution) ToBytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	err := writeSolution(buf, solution)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes decodes a solution that takes up all of data.
func FromBytes(data []byte) (*ProverSolution, error) {
	reader := bytes.NewReader(data)
	solution, err := readSolution(reader)
	if err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedSolution, "%d trailing bytes after prover solution", reader.Len())
	}
	return solution, nil
}

// ToBytesWithSizePrefix returns the canonical encoding of the solution
// framed with an 8 byte little-endian size prefix.
func (solution *ProverSolution) ToBytesWithSizePrefix() ([]byte, error) {
	solutionBytes, err := solution.ToBytes()
	if err != nil {
		return nil, err
	}
	return serialization.AddSizePrefix(solutionBytes), nil
}

// FromBytesWithSizePrefix decodes a solution framed with a size prefix.
func FromBytesWithSizePrefix(data []byte) (*ProverSolution, error) {
	solutionBytes, err := serialization.StripSizePrefix(data)
	if err != nil {
		return nil, err
	}
	return FromBytes(solutionBytes)
}
