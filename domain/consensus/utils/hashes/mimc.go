package hashes

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
)

// FieldElementSize is the size of a canonical bn254 scalar field element.
const FieldElementSize = fr.Bytes

// ReduceToField interprets digest as a big endian integer and returns the
// canonical big endian encoding of its reduction into the bn254 scalar field.
func ReduceToField(digest [externalapi.DigestSize]byte) [externalapi.DigestSize]byte {
	var element fr.Element
	element.SetBytes(digest[:])
	return element.Bytes()
}

// MiMC hashes the given field elements with MiMC over the bn254 scalar
// field. This is the SNARK-friendly hash shared by the transaction tree and
// the proof of succinct work circuit. Every input must be a canonical field
// element, e.g. the output of ReduceToField or of MiMC itself.
func MiMC(elements ...[externalapi.DigestSize]byte) [externalapi.DigestSize]byte {
	hasher := mimc.NewMiMC()
	for _, element := range elements {
		_, err := hasher.Write(element[:])
		if err != nil {
			panic(errors.Wrapf(err, "MiMC input %x is not a canonical field element", element))
		}
	}

	var sum [externalapi.DigestSize]byte
	copy(sum[:], hasher.Sum(nil))
	return sum
}
