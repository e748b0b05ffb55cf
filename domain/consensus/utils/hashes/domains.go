package hashes

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	blockHeaderHashDomain = "BlockHeaderHash"
	transactionIDDomain   = "TransactionID"
	proofScoreDomain      = "ProofOfSuccinctWorkScore"
)

func newKeyedWriter(key []byte) HashWriter {
	blake, err := blake2b.New256(key)
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %d bytes is a valid blake2b key length", len(key)))
	}
	return HashWriter{blake}
}

// NewBlockHeaderHashWriter returns a new HashWriter used for block header hashes
func NewBlockHeaderHashWriter() HashWriter {
	return newKeyedWriter([]byte(blockHeaderHashDomain))
}

// NewTransactionIDWriter returns a new HashWriter used for transaction ids
func NewTransactionIDWriter() HashWriter {
	return newKeyedWriter([]byte(transactionIDDomain))
}

// NewProofScoreWriter returns a new HashWriter used to derive the score of a
// proof of succinct work
func NewProofScoreWriter() HashWriter {
	return newKeyedWriter([]byte(proofScoreDomain))
}

// NewCommitmentTreeWriter returns a new HashWriter used for the nodes of a
// commitment tree with the given personalization. The personalization must
// be at most blake2b.Size bytes long.
func NewCommitmentTreeWriter(personalization []byte) HashWriter {
	if len(personalization) > blake2b.Size {
		panic(errors.Errorf("commitment tree personalization is %d bytes, at most %d are allowed",
			len(personalization), blake2b.Size))
	}
	return newKeyedWriter(personalization)
}
