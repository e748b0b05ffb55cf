package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/coinbasepuzzle"
	"github.com/snarkpow/snarkpowd/domain/consensus/datastructures/blockheaderstore"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/blockheader"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/merkle"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/posw"
	"github.com/snarkpow/snarkpowd/domain/dagconfig"
	"github.com/snarkpow/snarkpowd/infrastructure/db/database"
	"golang.org/x/sync/errgroup"
)

var blocksMined uint64

const logBlockRateInterval = 30 * time.Second

// miningJob holds everything needed to mine one header except the
// timestamp, which is bumped whenever every worker exhausts its range.
type miningJob struct {
	params            *dagconfig.Params
	previousHash      *externalapi.BlockHeaderHash
	previousTimestamp int64
	transactions      []*externalapi.DomainTransaction
	commitmentsRoot   *externalapi.MerkleRoot
	serialNumbersRoot *externalapi.MerkleRoot
	difficultyTarget  uint64
	maxNonce          uint32
	workers           int
	rng               io.Reader
}

func mineLoop(ctx context.Context, cfg *configFlags, store *blockheaderstore.Store) error {
	params := cfg.NetParams()

	tipHash, err := loadOrMineGenesis(params, store)
	if err != nil {
		return err
	}
	tip, err := store.Get(tipHash)
	if err != nil {
		return err
	}
	log.Infof("Mining on top of %s (%d headers stored)", tipHash, store.Count())

	logBlockRate(ctx)

	for i := uint64(0); cfg.NumberOfBlocks == 0 || i < cfg.NumberOfBlocks; i++ {
		job, err := newMiningJob(cfg, tipHash, tip, store.Count())
		if err != nil {
			return err
		}
		header, err := mineBlock(ctx, job)
		if err != nil {
			return err
		}
		tipHash, err = handleFoundBlock(params, store, header, job.transactions)
		if err != nil {
			return err
		}
		tip = header
		atomic.AddUint64(&blocksMined, 1)
	}
	return nil
}

func loadOrMineGenesis(params *dagconfig.Params, store *blockheaderstore.Store) (*externalapi.BlockHeaderHash, error) {
	tipHash, err := store.Tip()
	if err == nil {
		return tipHash, nil
	}
	if !database.IsNotFoundError(err) {
		return nil, err
	}

	log.Infof("No chain found for %s, mining the genesis block header", params.Name)
	genesis, err := blockheader.NewNetworkGenesis(params, rand.Reader)
	if err != nil {
		return nil, err
	}
	return handleFoundBlock(params, store, genesis, params.GenesisTransactions)
}

// handleFoundBlock checks the proof of header once more, persists it and
// makes it the chain tip.
func handleFoundBlock(params *dagconfig.Params, store *blockheaderstore.Store, header *externalapi.BlockHeader,
	transactions []*externalapi.DomainTransaction) (*externalapi.BlockHeaderHash, error) {

	err := blockheader.ValidateProof(params, header, transactions)
	if err != nil {
		return nil, errors.Wrapf(err, "mined an invalid block header")
	}
	hash, err := store.Put(header)
	if err != nil {
		return nil, err
	}
	err = store.SetTip(hash)
	if err != nil {
		return nil, err
	}
	log.Infof("Found block header %s with nonce %d at timestamp %d", hash, header.Metadata.Nonce,
		header.Metadata.Timestamp)
	return hash, nil
}

// coinbaseTransaction builds the single transaction of a mined block: one
// fresh output commitment and a memo naming the height and the prover.
func coinbaseTransaction(height uint64, address coinbasepuzzle.Address, rng io.Reader) (
	*externalapi.DomainTransaction, error) {

	var commitment externalapi.Commitment
	_, err := io.ReadFull(rng, commitment[:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to draw a coinbase commitment")
	}
	return &externalapi.DomainTransaction{
		OutputCommitments: []externalapi.Commitment{commitment},
		Memo:              []byte(fmt.Sprintf("coinbase %d %s", height, address)),
	}, nil
}

func newMiningJob(cfg *configFlags, tipHash *externalapi.BlockHeaderHash, tip *externalapi.BlockHeader,
	height uint64) (*miningJob, error) {

	params := cfg.NetParams()
	coinbase, err := coinbaseTransaction(height, cfg.miningAddress, rand.Reader)
	if err != nil {
		return nil, err
	}
	transactions := []*externalapi.DomainTransaction{coinbase}
	commitmentsRoot, err := merkle.CommitmentsRootFromTransactions(transactions, params.CommitmentTreeParameters)
	if err != nil {
		return nil, err
	}
	serialNumbersRoot, err := merkle.SerialNumbersRootFromTransactions(transactions, params.CommitmentTreeParameters)
	if err != nil {
		return nil, err
	}

	return &miningJob{
		params:            params,
		previousHash:      tipHash,
		previousTimestamp: tip.Metadata.Timestamp,
		transactions:      transactions,
		commitmentsRoot:   commitmentsRoot,
		serialNumbersRoot: serialNumbersRoot,
		difficultyTarget:  cfg.difficultyTarget,
		maxNonce:          cfg.MaxNonce,
		workers:           cfg.Workers,
		rng:               rand.Reader,
	}, nil
}

// mineBlock mines job until a header is found or ctx is done. Each round
// runs one attempt per nonce range; when all of them exhaust their range the
// timestamp is bumped and a new round starts.
func mineBlock(ctx context.Context, job *miningJob) (*externalapi.BlockHeader, error) {
	timestamp := time.Now().Unix()
	for {
		if timestamp <= job.previousTimestamp {
			timestamp = job.previousTimestamp + 1
		}
		header, err := mineAttempt(ctx, job, timestamp)
		if err == nil {
			return header, nil
		}
		if !errors.Is(err, ruleerrors.ErrMiningExhausted) {
			return nil, err
		}
		log.Debugf("Nonce space exhausted at timestamp %d, bumping the timestamp", timestamp)
		timestamp++
	}
}

// mineAttempt runs job.workers parallel searches over disjoint nonce ranges
// at the given timestamp. The first header found cancels the remaining
// searches.
func mineAttempt(ctx context.Context, job *miningJob, timestamp int64) (*externalapi.BlockHeader, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	attemptCtx, cancel := context.WithCancel(groupCtx)
	defer cancel()

	var foundLock sync.Mutex
	var found *externalapi.BlockHeader

	for _, nonceRange := range posw.SplitNonceRange(job.maxNonce, job.workers) {
		if nonceRange.Size() == 0 {
			continue
		}
		group.Go(func() error {
			header, err := blockheader.NewInRange(attemptCtx, job.params, job.previousHash, job.transactions,
				job.commitmentsRoot, job.serialNumbersRoot, timestamp, job.difficultyTarget, nonceRange, job.rng)
			if err != nil {
				if errors.Is(err, ruleerrors.ErrMiningExhausted) {
					return nil
				}
				if attemptCtx.Err() != nil && errors.Is(err, attemptCtx.Err()) {
					return nil
				}
				return err
			}

			foundLock.Lock()
			defer foundLock.Unlock()
			if found == nil {
				found = header
				cancel()
			}
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}
	if found != nil {
		return found, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, errors.Wrapf(ruleerrors.ErrMiningExhausted,
		"no nonce in [0, %d) satisfies difficulty target %d at timestamp %d",
		job.maxNonce, job.difficultyTarget, timestamp)
}

func logBlockRate(ctx context.Context) {
	spawn("logBlockRate", func() {
		ticker := time.NewTicker(logBlockRateInterval)
		defer ticker.Stop()
		lastCheck := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case currentTime := <-ticker.C:
				currentBlocksMined := atomic.SwapUint64(&blocksMined, 0)
				log.Infof("Mined %d block headers in the last %s", currentBlocksMined,
					currentTime.Sub(lastCheck).Round(time.Second))
				lastCheck = currentTime
			}
		}
	})
}
