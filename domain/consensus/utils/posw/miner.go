package posw

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/infrastructure/logger"
	"github.com/snarkpow/snarkpowd/util/binaryserializer"
)

// NonceRange is the half open range of nonces [Start, End) a mining attempt
// searches.
type NonceRange struct {
	Start uint32
	End   uint32
}

// Size returns the number of nonces in the range.
func (nonceRange NonceRange) Size() uint64 {
	if nonceRange.End <= nonceRange.Start {
		return 0
	}
	return uint64(nonceRange.End - nonceRange.Start)
}

// Contains returns whether nonce is in the range.
func (nonceRange NonceRange) Contains(nonce uint32) bool {
	return nonce >= nonceRange.Start && nonce < nonceRange.End
}

func (nonceRange NonceRange) String() string {
	return fmt.Sprintf("[%d, %d)", nonceRange.Start, nonceRange.End)
}

// SplitNonceRange splits [0, maxNonce) into parts disjoint ranges of nearly
// equal size. Empty ranges are returned when parts exceeds maxNonce.
func SplitNonceRange(maxNonce uint32, parts int) []NonceRange {
	if parts < 1 {
		parts = 1
	}
	ranges := make([]NonceRange, parts)
	total := uint64(maxNonce)
	for i := range ranges {
		ranges[i] = NonceRange{
			Start: uint32(total * uint64(i) / uint64(parts)),
			End:   uint32(total * uint64(i+1) / uint64(parts)),
		}
	}
	return ranges
}

// Miner searches for a nonce whose proof of succinct work satisfies a
// difficulty target. A Miner holds no mutable state, so one Miner may serve
// many concurrent attempts as long as they do not share a randomness source.
type Miner struct {
	backend ProofBackend
}

// NewMiner returns a Miner generating proofs with backend.
func NewMiner(backend ProofBackend) *Miner {
	initPrometheusMetrics()
	return &Miner{backend: backend}
}

// Backend returns the proof backend of the miner.
func (m *Miner) Backend() ProofBackend {
	return m.backend
}

// Mine searches [0, maxNonce) for a nonce whose proof scores at most
// difficultyTarget. See MineRange.
func (m *Miner) Mine(ctx context.Context, subroots []*externalapi.PedersenMerkleRoot,
	difficultyTarget uint64, maxNonce uint32, rng io.Reader) (uint32, []byte, error) {

	return m.MineRange(ctx, subroots, difficultyTarget, NonceRange{Start: 0, End: maxNonce}, rng)
}

// MineRange searches nonceRange for a nonce whose proof scores at most
// difficultyTarget, starting at a nonce drawn from rng and moving forward
// with wrap-around so that every nonce in the range is tried at most once.
//
// It returns the nonce and its proof on success. If every nonce in the range
// fails it returns an error wrapping ruleerrors.ErrMiningExhausted, and the
// caller decides whether to retry with a new timestamp or range. Errors from
// the proof backend and cancellation of ctx are returned as is.
func (m *Miner) MineRange(ctx context.Context, subroots []*externalapi.PedersenMerkleRoot,
	difficultyTarget uint64, nonceRange NonceRange, rng io.Reader) (uint32, []byte, error) {

	initPrometheusMetrics()
	onEnd := logger.LogAndMeasureExecutionTime(log, "MineRange")
	defer onEnd()

	size := nonceRange.Size()
	if size == 0 {
		prometheusRangesExhausted.Inc()
		return 0, nil, errors.Wrapf(ruleerrors.ErrMiningExhausted, "nonce range %s is empty", nonceRange)
	}

	random, err := binaryserializer.Uint32(rng)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to draw a starting nonce")
	}
	offset := uint64(random) % size
	log.Debugf("Searching nonce range %s from nonce %d", nonceRange, uint64(nonceRange.Start)+offset)

	for i := uint64(0); i < size; i++ {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}

		nonce := nonceRange.Start + uint32((offset+i)%size)
		start := time.Now()
		proof, err := m.backend.Prove(subroots, nonce)
		if err != nil {
			return 0, nil, err
		}
		prometheusProofGeneration.Observe(time.Since(start).Seconds())
		prometheusProofsGenerated.Inc()

		score := Score(proof)
		log.Tracef("Nonce %d scored %d against target %d", nonce, score, difficultyTarget)
		if score <= difficultyTarget {
			prometheusNoncesFound.Inc()
			log.Debugf("Found nonce %d with score %d after %d proofs", nonce, score, i+1)
			return nonce, proof, nil
		}
	}

	prometheusRangesExhausted.Inc()
	return 0, nil, errors.Wrapf(ruleerrors.ErrMiningExhausted,
		"no nonce in %s satisfies difficulty target %d", nonceRange, difficultyTarget)
}
