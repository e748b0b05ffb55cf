package externalapi

// DomainTransaction is the part of a transaction the block header commits
// to: output commitments, input serial numbers and an opaque memo.
// Execution and validation of transactions happen elsewhere.
type DomainTransaction struct {
	OutputCommitments  []Commitment
	InputSerialNumbers []SerialNumber
	Memo               []byte
}

// Commitments returns the output commitments of the transaction.
func (tx *DomainTransaction) Commitments() []Commitment {
	return tx.OutputCommitments
}

// SerialNumbers returns the input serial numbers of the transaction.
func (tx *DomainTransaction) SerialNumbers() []SerialNumber {
	return tx.InputSerialNumbers
}

// Clone returns a deep copy of the transaction.
func (tx *DomainTransaction) Clone() *DomainTransaction {
	clone := &DomainTransaction{
		OutputCommitments:  make([]Commitment, len(tx.OutputCommitments)),
		InputSerialNumbers: make([]SerialNumber, len(tx.InputSerialNumbers)),
		Memo:               make([]byte, len(tx.Memo)),
	}
	copy(clone.OutputCommitments, tx.OutputCommitments)
	copy(clone.InputSerialNumbers, tx.InputSerialNumbers)
	copy(clone.Memo, tx.Memo)
	return clone
}
