package posw

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/hashes"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/merkle"
)

// MaskedRootCircuit proves knowledge of the transaction tree root masked with
// a nonce. The nonce and the subroots are public, so every nonce yields an
// independent proof over the same block contents.
type MaskedRootCircuit struct {
	Nonce    frontend.Variable                      `gnark:",public"`
	Subroots [merkle.SubrootCount]frontend.Variable `gnark:",public"`

	MaskedRoot frontend.Variable
}

// Define declares the circuit constraints: with mask = MiMC(nonce), hashing
// the subroots two levels up while mixing the mask into every node must give
// MaskedRoot.
func (circuit *MaskedRootCircuit) Define(api frontend.API) error {
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	hasher.Write(circuit.Nonce)
	mask := hasher.Sum()
	hasher.Reset()

	hasher.Write(mask, circuit.Subroots[0], circuit.Subroots[1])
	left := hasher.Sum()
	hasher.Reset()

	hasher.Write(mask, circuit.Subroots[2], circuit.Subroots[3])
	right := hasher.Sum()
	hasher.Reset()

	hasher.Write(mask, left, right)
	api.AssertIsEqual(hasher.Sum(), circuit.MaskedRoot)
	return nil
}

// nonceToField returns the canonical field element encoding of nonce.
func nonceToField(nonce uint32) [externalapi.DigestSize]byte {
	var element [externalapi.DigestSize]byte
	element[externalapi.DigestSize-4] = byte(nonce >> 24)
	element[externalapi.DigestSize-3] = byte(nonce >> 16)
	element[externalapi.DigestSize-2] = byte(nonce >> 8)
	element[externalapi.DigestSize-1] = byte(nonce)
	return element
}

// MaskedRoot computes natively the value MaskedRootCircuit constrains
// MaskedRoot to.
func MaskedRoot(subroots []*externalapi.PedersenMerkleRoot, nonce uint32) [externalapi.DigestSize]byte {
	mask := hashes.MiMC(nonceToField(nonce))
	left := hashes.MiMC(mask, *subroots[0], *subroots[1])
	right := hashes.MiMC(mask, *subroots[2], *subroots[3])
	return hashes.MiMC(mask, left, right)
}
