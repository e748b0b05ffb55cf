package hashes

import (
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
)

// BlockHeaderHash hashes the canonical encoding of a block header. It is the
// header hash function of the reference networks.
func BlockHeaderHash(serializedHeader []byte) *externalapi.BlockHeaderHash {
	writer := NewBlockHeaderHashWriter()
	writer.InfallibleWrite(serializedHeader)
	hash := externalapi.BlockHeaderHash(writer.Finalize())
	return &hash
}
