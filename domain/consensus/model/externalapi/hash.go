package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// DigestSize is the size in bytes of every digest and merkle root used by
// the block header.
const DigestSize = 32

// BlockHeaderHash is the identifier of a block header: the network header
// hash function applied to the canonical header encoding.
type BlockHeaderHash [DigestSize]byte

// PedersenMerkleRoot is the root of a block's transaction tree. It is built
// with the SNARK-friendly hash consumed by the proof of succinct work circuit
// and is never interchangeable with MerkleRoot.
type PedersenMerkleRoot [DigestSize]byte

// MerkleRoot is the root of a block's commitment or serial number tree,
// built with the network commitment-tree hash.
type MerkleRoot [DigestSize]byte

// TransactionID identifies a transaction.
type TransactionID [DigestSize]byte

// Commitment is a transaction output commitment.
type Commitment [DigestSize]byte

// SerialNumber is the tag revealed when a commitment is consumed.
type SerialNumber [DigestSize]byte

func digestFromBytes(digestBytes []byte, name string) ([DigestSize]byte, error) {
	var digest [DigestSize]byte
	if len(digestBytes) != DigestSize {
		return digest, errors.Errorf("invalid %s size. Want: %d, got: %d",
			name, DigestSize, len(digestBytes))
	}
	copy(digest[:], digestBytes)
	return digest, nil
}

func digestFromString(digestString string, name string) ([DigestSize]byte, error) {
	expectedLength := DigestSize * 2
	if len(digestString) != expectedLength {
		return [DigestSize]byte{}, errors.Errorf("%s string length is %d, while it should be %d",
			name, len(digestString), expectedLength)
	}
	digestBytes, err := hex.DecodeString(digestString)
	if err != nil {
		return [DigestSize]byte{}, errors.WithStack(err)
	}
	return digestFromBytes(digestBytes, name)
}

func isZeroDigest(digest [DigestSize]byte) bool {
	return digest == [DigestSize]byte{}
}

// NewBlockHeaderHashFromByteSlice returns a BlockHeaderHash holding a copy of
// hashBytes. It fails if hashBytes is not DigestSize long.
func NewBlockHeaderHashFromByteSlice(hashBytes []byte) (*BlockHeaderHash, error) {
	digest, err := digestFromBytes(hashBytes, "block header hash")
	if err != nil {
		return nil, err
	}
	hash := BlockHeaderHash(digest)
	return &hash, nil
}

// NewBlockHeaderHashFromString parses a hex encoded BlockHeaderHash.
func NewBlockHeaderHashFromString(hashString string) (*BlockHeaderHash, error) {
	digest, err := digestFromString(hashString, "block header hash")
	if err != nil {
		return nil, err
	}
	hash := BlockHeaderHash(digest)
	return &hash, nil
}

// String returns the hash as a hex string.
func (hash BlockHeaderHash) String() string {
	return hex.EncodeToString(hash[:])
}

// IsZero returns whether every byte of the hash is zero.
func (hash BlockHeaderHash) IsZero() bool {
	return isZeroDigest(hash)
}

// Equal returns whether hash equals to other
func (hash *BlockHeaderHash) Equal(other *BlockHeaderHash) bool {
	if hash == nil || other == nil {
		return hash == other
	}
	return *hash == *other
}

// NewPedersenMerkleRootFromByteSlice returns a PedersenMerkleRoot holding a
// copy of rootBytes.
func NewPedersenMerkleRootFromByteSlice(rootBytes []byte) (*PedersenMerkleRoot, error) {
	digest, err := digestFromBytes(rootBytes, "pedersen merkle root")
	if err != nil {
		return nil, err
	}
	root := PedersenMerkleRoot(digest)
	return &root, nil
}

// String returns the root as a hex string.
func (root PedersenMerkleRoot) String() string {
	return hex.EncodeToString(root[:])
}

// IsZero returns whether every byte of the root is zero.
func (root PedersenMerkleRoot) IsZero() bool {
	return isZeroDigest(root)
}

// Equal returns whether root equals to other
func (root *PedersenMerkleRoot) Equal(other *PedersenMerkleRoot) bool {
	if root == nil || other == nil {
		return root == other
	}
	return *root == *other
}

// NewMerkleRootFromByteSlice returns a MerkleRoot holding a copy of rootBytes.
func NewMerkleRootFromByteSlice(rootBytes []byte) (*MerkleRoot, error) {
	digest, err := digestFromBytes(rootBytes, "merkle root")
	if err != nil {
		return nil, err
	}
	root := MerkleRoot(digest)
	return &root, nil
}

// String returns the root as a hex string.
func (root MerkleRoot) String() string {
	return hex.EncodeToString(root[:])
}

// IsZero returns whether every byte of the root is zero.
func (root MerkleRoot) IsZero() bool {
	return isZeroDigest(root)
}

// Equal returns whether root equals to other
func (root *MerkleRoot) Equal(other *MerkleRoot) bool {
	if root == nil || other == nil {
		return root == other
	}
	return *root == *other
}

// String returns the transaction ID as a hex string.
func (id TransactionID) String() string {
	return hex.EncodeToString(id[:])
}

// String returns the commitment as a hex string.
func (commitment Commitment) String() string {
	return hex.EncodeToString(commitment[:])
}

// String returns the serial number as a hex string.
func (serialNumber SerialNumber) String() string {
	return hex.EncodeToString(serialNumber[:])
}
