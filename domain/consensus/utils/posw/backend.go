package posw

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/merkle"
)

// ProofBackend generates and verifies proofs of succinct work over the
// subroots of a transaction tree.
type ProofBackend interface {
	// Prove returns the proof bytes for the given subroots and nonce. The
	// returned slice is exactly ProofSize bytes long.
	Prove(subroots []*externalapi.PedersenMerkleRoot, nonce uint32) ([]byte, error)

	// Verify returns an error wrapping ruleerrors.ErrInvalidProof if proof
	// does not prove the statement (subroots, nonce).
	Verify(proof []byte, subroots []*externalapi.PedersenMerkleRoot, nonce uint32) error

	// CheckProofStructure returns an error wrapping
	// ruleerrors.ErrMalformedProof if proof cannot be parsed.
	CheckProofStructure(proof []byte) error

	// ProofSize returns the fixed width of proofs produced by the backend.
	ProofSize() int
}

type groth16Backend struct {
	params    *Parameters
	proofSize int
}

// NewGroth16Backend returns a ProofBackend proving MaskedRootCircuit with
// Groth16 over bn254. Serialized proofs are zero padded to proofSize.
func NewGroth16Backend(params *Parameters, proofSize int) ProofBackend {
	return &groth16Backend{
		params:    params,
		proofSize: proofSize,
	}
}

func (b *groth16Backend) ProofSize() int {
	return b.proofSize
}

func checkSubroots(subroots []*externalapi.PedersenMerkleRoot) error {
	if len(subroots) != merkle.SubrootCount {
		return errors.Errorf("expected %d subroots, got %d", merkle.SubrootCount, len(subroots))
	}
	return nil
}

func newAssignment(subroots []*externalapi.PedersenMerkleRoot, nonce uint32) *MaskedRootCircuit {
	assignment := &MaskedRootCircuit{Nonce: nonce}
	for i, subroot := range subroots {
		assignment.Subroots[i] = new(big.Int).SetBytes(subroot[:])
	}
	maskedRoot := MaskedRoot(subroots, nonce)
	assignment.MaskedRoot = new(big.Int).SetBytes(maskedRoot[:])
	return assignment
}

func (b *groth16Backend) Prove(subroots []*externalapi.PedersenMerkleRoot, nonce uint32) ([]byte, error) {
	err := checkSubroots(subroots)
	if err != nil {
		return nil, err
	}

	fullWitness, err := frontend.NewWitness(newAssignment(subroots, nonce), ecc.BN254.ScalarField())
	if err != nil {
		return nil, errors.Wrap(err, "failed to build the witness")
	}
	proof, err := groth16.Prove(b.params.ConstraintSystem, b.params.ProvingKey, fullWitness)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to prove nonce %d", nonce)
	}

	buf := &bytes.Buffer{}
	_, err = proof.WriteTo(buf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize the proof")
	}
	if buf.Len() > b.proofSize {
		return nil, errors.Errorf("serialized proof is %d bytes, which does not fit in %d bytes",
			buf.Len(), b.proofSize)
	}

	padded := make([]byte, b.proofSize)
	copy(padded, buf.Bytes())
	return padded, nil
}

func (b *groth16Backend) parseProof(proofBytes []byte) (groth16.Proof, error) {
	if len(proofBytes) != b.proofSize {
		return nil, ruleerrors.NewErrProofWidth(b.proofSize, len(proofBytes))
	}

	proof := groth16.NewProof(ecc.BN254)
	reader := bytes.NewReader(proofBytes)
	_, err := proof.ReadFrom(reader)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedProof, "failed to parse proof: %s", err)
	}

	// Everything after the serialized proof is padding and must be zero so
	// that a proof has exactly one encoding.
	for reader.Len() > 0 {
		padding, _ := reader.ReadByte()
		if padding != 0 {
			return nil, errors.Wrap(ruleerrors.ErrMalformedProof, "proof padding is not zero")
		}
	}
	return proof, nil
}

func (b *groth16Backend) CheckProofStructure(proof []byte) error {
	_, err := b.parseProof(proof)
	return err
}

func (b *groth16Backend) Verify(proofBytes []byte, subroots []*externalapi.PedersenMerkleRoot, nonce uint32) error {
	err := checkSubroots(subroots)
	if err != nil {
		return err
	}
	proof, err := b.parseProof(proofBytes)
	if err != nil {
		return err
	}

	publicWitness, err := publicWitness(subroots, nonce)
	if err != nil {
		return err
	}
	err = groth16.Verify(proof, b.params.VerifyingKey, publicWitness)
	if err != nil {
		return errors.Wrapf(ruleerrors.ErrInvalidProof, "proof does not verify for nonce %d: %s", nonce, err)
	}
	return nil
}

func publicWitness(subroots []*externalapi.PedersenMerkleRoot, nonce uint32) (witness.Witness, error) {
	assignment := &MaskedRootCircuit{Nonce: nonce, MaskedRoot: 0}
	for i, subroot := range subroots {
		assignment.Subroots[i] = new(big.Int).SetBytes(subroot[:])
	}
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, errors.Wrap(err, "failed to build the public witness")
	}
	return w, nil
}
