package coinbasepuzzle

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
)

// AddressSize is the size of a prover address in bytes.
const AddressSize = 32

// AddressHRP is the human readable part of bech32 encoded prover addresses.
const AddressHRP = "prover"

// Address identifies the prover a coinbase solution pays out to.
type Address [AddressSize]byte

// String returns the bech32 encoding of the address.
func (address Address) String() string {
	converted, err := bech32.ConvertBits(address[:], 8, 5, true)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. 8 to 5 bit conversion with padding cannot fail"))
	}
	encoded, err := bech32.Encode(AddressHRP, converted)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. a 32 byte address always fits in bech32"))
	}
	return encoded
}

// DecodeAddress parses a bech32 encoded prover address.
func DecodeAddress(encoded string) (Address, error) {
	hrp, data, err := bech32.Decode(encoded)
	if err != nil {
		return Address{}, errors.Wrapf(ruleerrors.ErrMalformedSolution, "invalid address %q: %s", encoded, err)
	}
	if hrp != AddressHRP {
		return Address{}, errors.Wrapf(ruleerrors.ErrMalformedSolution,
			"address %q has prefix %q, expected %q", encoded, hrp, AddressHRP)
	}
	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, errors.Wrapf(ruleerrors.ErrMalformedSolution, "invalid address %q: %s", encoded, err)
	}
	if len(converted) != AddressSize {
		return Address{}, errors.Wrapf(ruleerrors.ErrMalformedSolution,
			"address %q decodes to %d bytes, expected %d", encoded, len(converted), AddressSize)
	}

	var address Address
	copy(address[:], converted)
	return address, nil
}
