package coinbasepuzzle

// ProverSolution is a partial solution together with its KZG opening proof,
// as submitted by a prover. It is created once and only read afterwards.
type ProverSolution struct {
	partialSolution *PartialSolution
	proof           KZGProof
}

// NewProverSolution returns a prover solution.
func NewProverSolution(partialSolution *PartialSolution, proof KZGProof) *ProverSolution {
	return &ProverSolution{
		partialSolution: partialSolution,
		proof:           proof,
	}
}

// PartialSolution returns the partial solution.
func (solution *ProverSolution) PartialSolution() *PartialSolution {
	return solution.partialSolution
}

// Proof returns the KZG opening proof.
func (solution *ProverSolution) Proof() KZGProof {
	return solution.proof
}

// Address returns the address of the prover.
func (solution *ProverSolution) Address() Address {
	return solution.partialSolution.Address()
}

// Nonce returns the nonce of the partial solution.
func (solution *ProverSolution) Nonce() uint64 {
	return solution.partialSolution.Nonce()
}

// Commitment returns the commitment of the partial solution.
func (solution *ProverSolution) Commitment() KZGCommitment {
	return solution.partialSolution.Commitment()
}

// Equal returns whether solution equals to other
func (solution *ProverSolution) Equal(other *ProverSolution) bool {
	if solution == nil || other == nil {
		return solution == other
	}
	return solution.partialSolution.Equal(other.partialSolution) &&
		solution.proof.Equal(other.proof)
}

// String returns the human-readable encoding of the solution.
func (solution *ProverSolution) String() string {
	encoded, err := solution.toJSON()
	if err != nil {
		return "<invalid prover solution: " + err.Error() + ">"
	}
	return string(encoded)
}

// FromString parses the human-readable encoding of a solution.
func FromString(encoded string) (*ProverSolution, error) {
	return fromJSON([]byte(encoded))
}
