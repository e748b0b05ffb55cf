package externalapi

import (
	"bytes"
	"fmt"

	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
)

// BlockHeaderMetadataSize is the encoded size of BlockHeaderMetadata:
// Timestamp 8 bytes + DifficultyTarget 8 bytes + Nonce 4 bytes.
const BlockHeaderMetadataSize = 20

// BlockHeaderMetadata holds the mined parameters of a block header.
type BlockHeaderMetadata struct {
	// Unix time in seconds at which the block was created.
	Timestamp int64

	// A proof is accepted when its score is at most DifficultyTarget, so a
	// lower target is harder.
	DifficultyTarget uint64

	// Nonce used to generate the proof of succinct work.
	Nonce uint32
}

// NewBlockHeaderMetadata returns metadata with the given fields.
func NewBlockHeaderMetadata(timestamp int64, difficultyTarget uint64, nonce uint32) BlockHeaderMetadata {
	return BlockHeaderMetadata{
		Timestamp:        timestamp,
		DifficultyTarget: difficultyTarget,
		Nonce:            nonce,
	}
}

// ProofOfSuccinctWork is the fixed width proof embedded in a block header.
// The width is set by the active network parameters.
type ProofOfSuccinctWork []byte

// NewProofOfSuccinctWork copies proofBytes into a ProofOfSuccinctWork after
// checking that it is exactly proofSize bytes long.
func NewProofOfSuccinctWork(proofBytes []byte, proofSize int) (ProofOfSuccinctWork, error) {
	if len(proofBytes) != proofSize {
		return nil, ruleerrors.NewErrProofWidth(proofSize, len(proofBytes))
	}
	proof := make(ProofOfSuccinctWork, proofSize)
	copy(proof, proofBytes)
	return proof, nil
}

// Size returns the width of the proof in bytes.
func (proof ProofOfSuccinctWork) Size() int {
	return len(proof)
}

// Equal returns whether proof equals to other
func (proof ProofOfSuccinctWork) Equal(other ProofOfSuccinctWork) bool {
	return bytes.Equal(proof, other)
}

// BlockHeaderSize returns the canonical encoded size of a block header whose
// proof is proofSize bytes wide.
func BlockHeaderSize(proofSize int) int {
	return DigestSize + // PreviousBlockHash
		DigestSize + // TransactionsRoot
		DigestSize + // CommitmentsRoot
		DigestSize + // SerialNumbersRoot
		BlockHeaderMetadataSize +
		proofSize
}

// BlockHeader is the consensus bearing header of a block.
//
// A BlockHeader is built exactly once, either by mining or by decoding, and
// must not be modified afterwards. Use Clone to derive a modified copy.
type BlockHeader struct {
	// Hash of the previous block header.
	PreviousBlockHash BlockHeaderHash

	// Root of the transaction id tree of this block.
	TransactionsRoot PedersenMerkleRoot

	// Root of the tree of output commitments created by this block's
	// transactions.
	CommitmentsRoot MerkleRoot

	// Root of the tree of serial numbers revealed by this block's
	// transactions.
	SerialNumbersRoot MerkleRoot

	Metadata BlockHeaderMetadata

	Proof ProofOfSuccinctWork
}

// Size returns the canonical encoded size of the header.
func (header *BlockHeader) Size() int {
	return BlockHeaderSize(header.Proof.Size())
}

// IsGenesis returns true if the header is a genesis header: either its
// timestamp is zero or its previous block hash is all zeros.
func (header *BlockHeader) IsGenesis() bool {
	return header.Metadata.Timestamp == 0 ||
		header.PreviousBlockHash.IsZero()
}

// Equal returns whether header equals to other
func (header *BlockHeader) Equal(other *BlockHeader) bool {
	if header == nil || other == nil {
		return header == other
	}
	return header.PreviousBlockHash == other.PreviousBlockHash &&
		header.TransactionsRoot == other.TransactionsRoot &&
		header.CommitmentsRoot == other.CommitmentsRoot &&
		header.SerialNumbersRoot == other.SerialNumbersRoot &&
		header.Metadata == other.Metadata &&
		header.Proof.Equal(other.Proof)
}

// Clone returns a deep copy of the header.
func (header *BlockHeader) Clone() *BlockHeader {
	clone := *header
	clone.Proof = make(ProofOfSuccinctWork, len(header.Proof))
	copy(clone.Proof, header.Proof)
	return &clone
}

func (header *BlockHeader) String() string {
	return fmt.Sprintf("BlockHeader{previous: %s, transactions root: %s, commitments root: %s, "+
		"serial numbers root: %s, timestamp: %d, difficulty target: %d, nonce: %d, proof: %d bytes}",
		header.PreviousBlockHash, header.TransactionsRoot, header.CommitmentsRoot,
		header.SerialNumbersRoot, header.Metadata.Timestamp, header.Metadata.DifficultyTarget,
		header.Metadata.Nonce, len(header.Proof))
}
