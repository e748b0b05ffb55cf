package merkle

import (
	"math"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/hashes"
)

// SubrootCount is the number of transaction tree nodes consumed by the proof
// of succinct work circuit. They are the nodes two levels below the root.
const SubrootCount = 4

// TransactionsTree is a transaction id tree built with MiMC. All of its
// nodes are kept in a linear array the same way a btcd merkle store is: the
// leaves first, then each level of parents, with the root last.
type TransactionsTree struct {
	nodes     []externalapi.PedersenMerkleRoot
	leafCount int
}

// nextPowerOfTwo returns the next highest power of two from a given number if
// it is not already a power of two. This is a helper function used during the
// calculation of a merkle tree.
func nextPowerOfTwo(n int) int {
	// Return the number if it's already a power of 2.
	if n&(n-1) == 0 {
		return n
	}

	// Figure out and return the next power of two.
	exponent := uint(math.Log2(float64(n))) + 1
	return 1 << exponent // 2^exponent
}

// BuildTransactionsTree creates a transaction tree from the given transaction
// ids and returns it along with its root and its SubrootCount subroots.
//
// Leaves are the transaction ids reduced into the bn254 scalar field, padded
// with zero leaves up to the next power of two that is at least
// SubrootCount. Every parent is MiMC(left, right).
//
// An empty transaction set is a programmer error and panics.
func BuildTransactionsTree(transactionIDs []*externalapi.TransactionID) (
	*TransactionsTree, *externalapi.PedersenMerkleRoot, []*externalapi.PedersenMerkleRoot) {

	if len(transactionIDs) == 0 {
		panic(errors.Wrap(ruleerrors.ErrNoTransactions, "cannot build a transaction tree without transactions"))
	}

	leafCount := nextPowerOfTwo(len(transactionIDs))
	if leafCount < SubrootCount {
		leafCount = SubrootCount
	}

	// A tree with leafCount leaves has 2*leafCount-1 nodes.
	nodes := make([]externalapi.PedersenMerkleRoot, leafCount*2-1)
	for i, id := range transactionIDs {
		nodes[i] = hashes.ReduceToField(*id)
	}

	// Start the array offset after the last leaf and adjusted to the next
	// power of two.
	offset := leafCount
	for i := 0; i < len(nodes)-1; i += 2 {
		nodes[offset] = hashes.MiMC(nodes[i], nodes[i+1])
		offset++
	}

	tree := &TransactionsTree{nodes: nodes, leafCount: leafCount}
	return tree, tree.Root(), tree.Subroots()
}

// Root returns the root of the tree.
func (tree *TransactionsTree) Root() *externalapi.PedersenMerkleRoot {
	root := tree.nodes[len(tree.nodes)-1]
	return &root
}

// Subroots returns the SubrootCount nodes two levels below the root, left to
// right.
func (tree *TransactionsTree) Subroots() []*externalapi.PedersenMerkleRoot {
	// The last 2*SubrootCount-1 nodes form the top of the tree, and the first
	// SubrootCount of them are its bottom level.
	start := len(tree.nodes) - (2*SubrootCount - 1)
	subroots := make([]*externalapi.PedersenMerkleRoot, SubrootCount)
	for i := range subroots {
		subroot := tree.nodes[start+i]
		subroots[i] = &subroot
	}
	return subroots
}

// Leaves returns the padded leaves of the tree.
func (tree *TransactionsTree) Leaves() []externalapi.PedersenMerkleRoot {
	leaves := make([]externalapi.PedersenMerkleRoot, tree.leafCount)
	copy(leaves, tree.nodes[:tree.leafCount])
	return leaves
}

// Depth returns the number of parent levels above the leaves.
func (tree *TransactionsTree) Depth() int {
	depth := 0
	for width := tree.leafCount; width > 1; width /= 2 {
		depth++
	}
	return depth
}

// RootFromSubroots hashes SubrootCount subroots two levels up into the root
// they belong to.
func RootFromSubroots(subroots []*externalapi.PedersenMerkleRoot) (*externalapi.PedersenMerkleRoot, error) {
	if len(subroots) != SubrootCount {
		return nil, errors.Errorf("expected %d subroots, got %d", SubrootCount, len(subroots))
	}
	left := hashes.MiMC(*subroots[0], *subroots[1])
	right := hashes.MiMC(*subroots[2], *subroots[3])
	root := externalapi.PedersenMerkleRoot(hashes.MiMC(left, right))
	return &root, nil
}
