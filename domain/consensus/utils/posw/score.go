package posw

import "github.com/snarkpow/snarkpowd/domain/consensus/utils/hashes"

// Score derives the numeric score of a proof: the first 8 bytes of its proof
// score hash, read as a little-endian integer. Since the proof of a nonce is
// unpredictable, scores behave like independent uniform draws.
func Score(proof []byte) uint64 {
	writer := hashes.NewProofScoreWriter()
	writer.InfallibleWrite(proof)
	return writer.FinalizeUint64()
}

// SatisfiesTarget returns whether proof is accepted at difficultyTarget.
// Lower targets are harder.
func SatisfiesTarget(proof []byte, difficultyTarget uint64) bool {
	return Score(proof) <= difficultyTarget
}
