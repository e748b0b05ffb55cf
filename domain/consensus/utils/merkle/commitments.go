package merkle

import (
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/hashes"
)

const (
	leafPrefix = 0x00
	nodePrefix = 0x01

	// MaxCommitmentTreeDepth bounds the depth of a commitment tree so that
	// its capacity fits in a uint64.
	MaxCommitmentTreeDepth = 63
)

// CommitmentTreeParameters fix the shape and hash of the commitment and
// serial number trees of a network.
type CommitmentTreeParameters struct {
	// Depth is the number of levels above the leaves. The tree holds at
	// most 2^Depth leaves.
	Depth uint8

	// Personalization keys the blake2b hash of every node. At most 64 bytes.
	Personalization []byte
}

// Capacity returns the maximum number of leaves the tree can hold.
func (params *CommitmentTreeParameters) Capacity() uint64 {
	return 1 << params.Depth
}

// emptyHashes returns the hash of an empty subtree at every level from the
// leaves (index 0) up to the root (index Depth).
func (params *CommitmentTreeParameters) emptyHashes() [][externalapi.DigestSize]byte {
	empty := make([][externalapi.DigestSize]byte, params.Depth+1)
	empty[0] = params.hashLeaf([externalapi.DigestSize]byte{})
	for level := 1; level <= int(params.Depth); level++ {
		empty[level] = params.hashNode(empty[level-1], empty[level-1])
	}
	return empty
}

func (params *CommitmentTreeParameters) hashLeaf(leaf [externalapi.DigestSize]byte) [externalapi.DigestSize]byte {
	writer := hashes.NewCommitmentTreeWriter(params.Personalization)
	writer.InfallibleWrite([]byte{leafPrefix}, leaf[:])
	return writer.Finalize()
}

func (params *CommitmentTreeParameters) hashNode(left, right [externalapi.DigestSize]byte) [externalapi.DigestSize]byte {
	writer := hashes.NewCommitmentTreeWriter(params.Personalization)
	writer.InfallibleWrite([]byte{nodePrefix}, left[:], right[:])
	return writer.Finalize()
}

// root computes the root of the fixed depth tree whose leftmost leaves are
// the given ones and whose remaining leaves are empty.
func (params *CommitmentTreeParameters) root(leaves [][externalapi.DigestSize]byte) (*externalapi.MerkleRoot, error) {
	if params.Depth > MaxCommitmentTreeDepth {
		return nil, errors.Errorf("commitment tree depth %d is above the maximum of %d",
			params.Depth, MaxCommitmentTreeDepth)
	}
	if uint64(len(leaves)) > params.Capacity() {
		return nil, errors.Wrapf(ruleerrors.ErrTooManyLeaves,
			"%d leaves do not fit in a commitment tree of depth %d", len(leaves), params.Depth)
	}

	empty := params.emptyHashes()
	if len(leaves) == 0 {
		root := externalapi.MerkleRoot(empty[params.Depth])
		return &root, nil
	}

	level := make([][externalapi.DigestSize]byte, len(leaves))
	for i, leaf := range leaves {
		level[i] = params.hashLeaf(leaf)
	}
	for height := 0; height < int(params.Depth); height++ {
		if len(level)%2 == 1 {
			level = append(level, empty[height])
		}
		parents := make([][externalapi.DigestSize]byte, len(level)/2)
		for i := range parents {
			parents[i] = params.hashNode(level[2*i], level[2*i+1])
		}
		level = parents
	}

	root := externalapi.MerkleRoot(level[0])
	return &root, nil
}

// CommitmentsRoot returns the root of the tree of the given output
// commitments, in order.
func CommitmentsRoot(commitments []externalapi.Commitment,
	params *CommitmentTreeParameters) (*externalapi.MerkleRoot, error) {

	leaves := make([][externalapi.DigestSize]byte, len(commitments))
	for i, commitment := range commitments {
		leaves[i] = commitment
	}
	return params.root(leaves)
}

// SerialNumbersRoot returns the root of the tree of the given input serial
// numbers, in order.
func SerialNumbersRoot(serialNumbers []externalapi.SerialNumber,
	params *CommitmentTreeParameters) (*externalapi.MerkleRoot, error) {

	leaves := make([][externalapi.DigestSize]byte, len(serialNumbers))
	for i, serialNumber := range serialNumbers {
		leaves[i] = serialNumber
	}
	return params.root(leaves)
}

// CommitmentsRootFromTransactions flattens the output commitments of the
// given transactions and returns their root. Only the given transactions are
// committed to, not any earlier ledger state.
func CommitmentsRootFromTransactions(transactions []*externalapi.DomainTransaction,
	params *CommitmentTreeParameters) (*externalapi.MerkleRoot, error) {

	var commitments []externalapi.Commitment
	for _, tx := range transactions {
		commitments = append(commitments, tx.Commitments()...)
	}
	return CommitmentsRoot(commitments, params)
}

// SerialNumbersRootFromTransactions flattens the input serial numbers of the
// given transactions and returns their root.
func SerialNumbersRootFromTransactions(transactions []*externalapi.DomainTransaction,
	params *CommitmentTreeParameters) (*externalapi.MerkleRoot, error) {

	var serialNumbers []externalapi.SerialNumber
	for _, tx := range transactions {
		serialNumbers = append(serialNumbers, tx.SerialNumbers()...)
	}
	return SerialNumbersRoot(serialNumbers, params)
}
