package coinbasepuzzle

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
)

// Keys are matched exactly. The default jsoniter and encoding/json configs
// fold case, which would accept "PROOF.W" for "proof.w".
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	CaseSensitive:          true,
}.Froze()

// The field names and their order are part of the solution submission
// protocol.
type partialSolutionJSON struct {
	Address    string `json:"address"`
	Nonce      uint64 `json:"nonce"`
	Commitment string `json:"commitment"`
}

type proverSolutionJSON struct {
	PartialSolution *partialSolutionJSON `json:"partial_solution"`
	ProofW          string               `json:"proof.w"`
	ProofRandomV    *string              `json:"proof.random_v,omitempty"`
}

func (solution *ProverSolution) toJSON() ([]byte, error) {
	partialSolution := solution.partialSolution
	encoded := &proverSolutionJSON{
		PartialSolution: &partialSolutionJSON{
			Address:    partialSolution.address.String(),
			Nonce:      partialSolution.nonce,
			Commitment: partialSolution.commitment.String(),
		},
		ProofW: solution.proof.W.String(),
	}
	if solution.proof.HasRandomV() {
		randomV := randomVToHex(solution.proof.RandomV)
		encoded.ProofRandomV = &randomV
	}

	encodedBytes, err := json.Marshal(encoded)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return encodedBytes, nil
}

func fromJSON(data []byte) (*ProverSolution, error) {
	decoded := &proverSolutionJSON{}
	err := json.Unmarshal(data, decoded)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedSolution, "invalid prover solution JSON: %s", err)
	}
	if decoded.PartialSolution == nil {
		return nil, errors.Wrap(ruleerrors.ErrMalformedSolution, "prover solution has no partial_solution")
	}

	address, err := DecodeAddress(decoded.PartialSolution.Address)
	if err != nil {
		return nil, err
	}
	commitment, err := kzgCommitmentFromHex(decoded.PartialSolution.Commitment)
	if err != nil {
		return nil, err
	}
	w, err := kzgCommitmentFromHex(decoded.ProofW)
	if err != nil {
		return nil, err
	}

	proof := KZGProof{W: w}
	// A missing or null proof.random_v both mean the proof has none.
	if decoded.ProofRandomV != nil {
		proof.RandomV, err = randomVFromHex(*decoded.ProofRandomV)
		if err != nil {
			return nil, err
		}
	}

	return NewProverSolution(NewPartialSolution(address, decoded.PartialSolution.Nonce, commitment), proof), nil
}
