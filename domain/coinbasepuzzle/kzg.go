package coinbasepuzzle

import (
	"encoding/hex"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
)

// KZGCommitmentSize is the size of a compressed KZG commitment.
const KZGCommitmentSize = bn254.SizeOfG1AffineCompressed

// RandomVSize is the size of the blinding scalar of a KZG proof.
const RandomVSize = fr.Bytes

// KZGCommitment is a polynomial commitment: a point of the bn254 G1 group.
type KZGCommitment struct {
	point bn254.G1Affine
}

// NewKZGCommitment returns the commitment to point.
func NewKZGCommitment(point bn254.G1Affine) KZGCommitment {
	return KZGCommitment{point: point}
}

// KZGCommitmentFromBytes parses a compressed commitment, checking that it
// is a point of the G1 group.
func KZGCommitmentFromBytes(commitmentBytes []byte) (KZGCommitment, error) {
	if len(commitmentBytes) != KZGCommitmentSize {
		return KZGCommitment{}, errors.Wrapf(ruleerrors.ErrMalformedSolution,
			"KZG commitment is %d bytes, expected %d", len(commitmentBytes), KZGCommitmentSize)
	}
	var commitment KZGCommitment
	_, err := commitment.point.SetBytes(commitmentBytes)
	if err != nil {
		return KZGCommitment{}, errors.Wrapf(ruleerrors.ErrMalformedSolution, "invalid KZG commitment: %s", err)
	}
	return commitment, nil
}

func kzgCommitmentFromHex(encoded string) (KZGCommitment, error) {
	commitmentBytes, err := hex.DecodeString(encoded)
	if err != nil {
		return KZGCommitment{}, errors.Wrapf(ruleerrors.ErrMalformedSolution, "invalid KZG commitment hex: %s", err)
	}
	return KZGCommitmentFromBytes(commitmentBytes)
}

// Point returns the committed G1 point.
func (commitment KZGCommitment) Point() bn254.G1Affine {
	return commitment.point
}

// Bytes returns the compressed encoding of the commitment.
func (commitment KZGCommitment) Bytes() [KZGCommitmentSize]byte {
	return commitment.point.Bytes()
}

// String returns the hex encoding of the compressed commitment.
func (commitment KZGCommitment) String() string {
	commitmentBytes := commitment.Bytes()
	return hex.EncodeToString(commitmentBytes[:])
}

// Equal returns whether commitment equals to other
func (commitment KZGCommitment) Equal(other KZGCommitment) bool {
	return commitment.point.Equal(&other.point)
}

// KZGProof is an opening proof of a KZG commitment. RandomV, the blinding
// scalar, is only present for hiding commitments.
type KZGProof struct {
	W       KZGCommitment
	RandomV *fr.Element
}

// HasRandomV returns whether the proof carries a blinding scalar.
func (proof KZGProof) HasRandomV() bool {
	return proof.RandomV != nil
}

// Equal returns whether proof equals to other
func (proof KZGProof) Equal(other KZGProof) bool {
	if !proof.W.Equal(other.W) {
		return false
	}
	if proof.RandomV == nil || other.RandomV == nil {
		return proof.RandomV == nil && other.RandomV == nil
	}
	return proof.RandomV.Equal(other.RandomV)
}

func randomVFromBytes(randomVBytes []byte) (*fr.Element, error) {
	if len(randomVBytes) != RandomVSize {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedSolution,
			"random_v is %d bytes, expected %d", len(randomVBytes), RandomVSize)
	}
	randomV := new(fr.Element)
	err := randomV.SetBytesCanonical(randomVBytes)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedSolution, "invalid random_v: %s", err)
	}
	return randomV, nil
}

func randomVToHex(randomV *fr.Element) string {
	randomVBytes := randomV.Bytes()
	return hex.EncodeToString(randomVBytes[:])
}

func randomVFromHex(encoded string) (*fr.Element, error) {
	randomVBytes, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedSolution, "invalid random_v hex: %s", err)
	}
	return randomVFromBytes(randomVBytes)
}
