package blockheader

import (
	"context"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/consensushashing"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/merkle"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/posw"
	"github.com/snarkpow/snarkpowd/domain/dagconfig"
)

// New mines a block header over transactions: it builds their transaction
// tree, searches [0, maxNonce) for a proof of succinct work satisfying
// difficultyTarget and assembles the header.
//
// An empty transaction set is a programmer error and panics. If no nonce
// satisfies the target the returned error wraps ruleerrors.ErrMiningExhausted.
func New(params *dagconfig.Params, previousHash *externalapi.BlockHeaderHash,
	transactions []*externalapi.DomainTransaction,
	commitmentsRoot *externalapi.MerkleRoot, serialNumbersRoot *externalapi.MerkleRoot,
	timestamp int64, difficultyTarget uint64, maxNonce uint32, rng io.Reader) (*externalapi.BlockHeader, error) {

	return NewInRange(context.Background(), params, previousHash, transactions, commitmentsRoot,
		serialNumbersRoot, timestamp, difficultyTarget, posw.NonceRange{Start: 0, End: maxNonce}, rng)
}

// NewInRange is New restricted to the nonces of nonceRange. Mining stops
// with ctx's error once ctx is done, which lets a caller run attempts over
// disjoint ranges in parallel and cancel the rest once one succeeds.
func NewInRange(ctx context.Context, params *dagconfig.Params, previousHash *externalapi.BlockHeaderHash,
	transactions []*externalapi.DomainTransaction,
	commitmentsRoot *externalapi.MerkleRoot, serialNumbersRoot *externalapi.MerkleRoot,
	timestamp int64, difficultyTarget uint64, nonceRange posw.NonceRange, rng io.Reader) (*externalapi.BlockHeader, error) {

	if len(transactions) == 0 {
		panic(errors.Wrap(ruleerrors.ErrNoTransactions, "cannot build a block header without transactions"))
	}

	_, transactionsRoot, subroots := merkle.BuildTransactionsTree(consensushashing.TransactionIDs(transactions))

	backend, err := params.PoSWBackend()
	if err != nil {
		return nil, err
	}
	nonce, proofBytes, err := posw.NewMiner(backend).MineRange(ctx, subroots, difficultyTarget, nonceRange, rng)
	if err != nil {
		return nil, err
	}

	proof, err := externalapi.NewProofOfSuccinctWork(proofBytes, params.ProofSize)
	if err != nil {
		return nil, err
	}
	err = backend.CheckProofStructure(proof)
	if err != nil {
		return nil, err
	}

	header := &externalapi.BlockHeader{
		PreviousBlockHash: *previousHash,
		TransactionsRoot:  *transactionsRoot,
		CommitmentsRoot:   *commitmentsRoot,
		SerialNumbersRoot: *serialNumbersRoot,
		Metadata:          externalapi.NewBlockHeaderMetadata(timestamp, difficultyTarget, nonce),
		Proof:             proof,
	}
	log.Debugf("Mined %s", header)
	return header, nil
}

// NewGenesis mines a genesis header over transactions: the previous block
// hash is zero, the timestamp is zero and both the difficulty target and
// the nonce bound are at their maximum. The commitments and serial numbers
// roots are computed from the transactions.
func NewGenesis(params *dagconfig.Params, transactions []*externalapi.DomainTransaction,
	rng io.Reader) (*externalapi.BlockHeader, error) {

	commitmentsRoot, err := merkle.CommitmentsRootFromTransactions(transactions, params.CommitmentTreeParameters)
	if err != nil {
		return nil, err
	}
	serialNumbersRoot, err := merkle.SerialNumbersRootFromTransactions(transactions, params.CommitmentTreeParameters)
	if err != nil {
		return nil, err
	}

	header, err := New(params, &externalapi.BlockHeaderHash{}, transactions, commitmentsRoot, serialNumbersRoot,
		0, math.MaxUint64, math.MaxUint32, rng)
	if err != nil {
		return nil, err
	}

	if !header.IsGenesis() {
		return nil, errors.Wrapf(ruleerrors.ErrGenesisConstruction, "constructed header %s is not a genesis header", header)
	}
	return header, nil
}

// NewNetworkGenesis mines the genesis header over the genesis transactions
// of the network.
func NewNetworkGenesis(params *dagconfig.Params, rng io.Reader) (*externalapi.BlockHeader, error) {
	return NewGenesis(params, params.GenesisTransactions, rng)
}

// Hash returns the hash of the header under the header hash function of the
// network.
func Hash(params *dagconfig.Params, header *externalapi.BlockHeader) (*externalapi.BlockHeaderHash, error) {
	headerBytes, err := SerializeToBytes(header)
	if err != nil {
		return nil, err
	}
	return params.HeaderHashFunc(headerBytes), nil
}

// ValidateProof checks that the proof of header was mined over transactions
// and satisfies the difficulty target of header.
func ValidateProof(params *dagconfig.Params, header *externalapi.BlockHeader,
	transactions []*externalapi.DomainTransaction) error {

	if len(transactions) == 0 {
		return errors.Wrap(ruleerrors.ErrNoTransactions, "cannot validate a block header without transactions")
	}
	_, transactionsRoot, subroots := merkle.BuildTransactionsTree(consensushashing.TransactionIDs(transactions))
	if !transactionsRoot.Equal(&header.TransactionsRoot) {
		return errors.Wrapf(ruleerrors.ErrInvalidProof, "transactions root %s does not match the transactions (%s)",
			header.TransactionsRoot, transactionsRoot)
	}
	if header.Proof.Size() != params.ProofSize {
		return ruleerrors.NewErrProofWidth(params.ProofSize, header.Proof.Size())
	}

	backend, err := params.PoSWBackend()
	if err != nil {
		return err
	}
	return posw.VerifyHeaderProof(backend, subroots, header.Metadata.Nonce, header.Proof,
		header.Metadata.DifficultyTarget)
}
