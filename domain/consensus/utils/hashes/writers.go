package hashes

import (
	"encoding/binary"
	"hash"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
)

// HashWriter accumulates the input of one keyed blake2b digest. The key is
// the domain of the digest, so writers are only obtained from the
// domain constructors in this package.
type HashWriter struct {
	hash.Hash
}

// InfallibleWrite writes every chunk in order. Writing to a hash.Hash never
// fails.
func (h HashWriter) InfallibleWrite(chunks ...[]byte) {
	for _, chunk := range chunks {
		_, err := h.Write(chunk)
		if err != nil {
			panic(errors.Wrap(err, "hash.Hash returned a write error"))
		}
	}
}

// Finalize returns the 32 byte digest of everything written so far.
func (h HashWriter) Finalize() [externalapi.DigestSize]byte {
	var digest [externalapi.DigestSize]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// FinalizeUint64 returns the first 8 bytes of the digest read as a
// little-endian integer.
func (h HashWriter) FinalizeUint64() uint64 {
	digest := h.Finalize()
	return binary.LittleEndian.Uint64(digest[:8])
}
