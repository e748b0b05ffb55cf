package posw

import (
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
)

// VerifyHeaderProof checks that proof proves the statement (subroots, nonce)
// and that its score satisfies difficultyTarget.
func VerifyHeaderProof(backend ProofBackend, subroots []*externalapi.PedersenMerkleRoot,
	nonce uint32, proof externalapi.ProofOfSuccinctWork, difficultyTarget uint64) error {

	err := backend.Verify(proof, subroots, nonce)
	if err != nil {
		return err
	}
	score := Score(proof)
	if score > difficultyTarget {
		return errors.Wrapf(ruleerrors.ErrInvalidProof,
			"proof score %d is above difficulty target %d", score, difficultyTarget)
	}
	return nil
}
