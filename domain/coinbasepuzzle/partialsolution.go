package coinbasepuzzle

// PartialSolution is a prover's answer to the coinbase puzzle before its
// KZG opening proof is attached.
type PartialSolution struct {
	address    Address
	nonce      uint64
	commitment KZGCommitment
}

// NewPartialSolution returns a partial solution. It is only read afterwards.
func NewPartialSolution(address Address, nonce uint64, commitment KZGCommitment) *PartialSolution {
	return &PartialSolution{
		address:    address,
		nonce:      nonce,
		commitment: commitment,
	}
}

// Address returns the address of the prover.
func (solution *PartialSolution) Address() Address {
	return solution.address
}

// Nonce returns the nonce the prover solved the puzzle with.
func (solution *PartialSolution) Nonce() uint64 {
	return solution.nonce
}

// Commitment returns the commitment to the prover polynomial.
func (solution *PartialSolution) Commitment() KZGCommitment {
	return solution.commitment
}

// Equal returns whether solution equals to other
func (solution *PartialSolution) Equal(other *PartialSolution) bool {
	if solution == nil || other == nil {
		return solution == other
	}
	return solution.address == other.address &&
		solution.nonce == other.nonce &&
		solution.commitment.Equal(other.commitment)
}
