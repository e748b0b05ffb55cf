// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"math"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/hashes"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/merkle"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/posw"
)

const (
	// testnetProofSize is the proof width of the reference network. It makes
	// for a 919 byte block header.
	testnetProofSize = 771
	simnetProofSize  = 256
	devnetProofSize  = 512

	commitmentTreeDepth = 32
)

// HeaderHashFunc hashes the canonical encoding of a block header.
type HeaderHashFunc func(serializedHeader []byte) *externalapi.BlockHeaderHash

// ProofBackendFunc returns the proof backend producing proofs of the given
// width.
type ProofBackendFunc func(proofSize int) (posw.ProofBackend, error)

// Params defines a network by its parameters. A network fixes the width of
// its proofs, the hash of its headers, the proof system securing them and
// the shape of its commitment trees.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// ProofSize is the width in bytes of the proof of succinct work embedded
	// in every block header.
	ProofSize int

	// HeaderHashFunc is the collision resistant hash of block headers.
	HeaderHashFunc HeaderHashFunc

	// ProofBackendFunc builds the proof backend of the network.
	ProofBackendFunc ProofBackendFunc

	// CommitmentTreeParameters define the commitment and serial number
	// trees.
	CommitmentTreeParameters *merkle.CommitmentTreeParameters

	// GenesisTransactions are the transactions committed to by the genesis
	// header.
	GenesisTransactions []*externalapi.DomainTransaction

	// DefaultDifficultyTarget is the difficulty target miners use when none
	// is given.
	DefaultDifficultyTarget uint64
}

// HeaderSize returns the width of a canonically encoded block header.
func (p *Params) HeaderSize() int {
	return externalapi.BlockHeaderSize(p.ProofSize)
}

// PoSWBackend returns the proof backend of the network.
func (p *Params) PoSWBackend() (posw.ProofBackend, error) {
	backend, err := p.ProofBackendFunc(p.ProofSize)
	if err != nil {
		return nil, err
	}
	if backend.ProofSize() != p.ProofSize {
		return nil, errors.Errorf("proof backend of %s produces %d byte proofs, expected %d",
			p.Name, backend.ProofSize(), p.ProofSize)
	}
	return backend, nil
}

// groth16ProofBackend returns a Groth16 backend over the process wide
// parameters.
func groth16ProofBackend(proofSize int) (posw.ProofBackend, error) {
	params, err := posw.LoadParameters()
	if err != nil {
		return nil, err
	}
	return posw.NewGroth16Backend(params, proofSize), nil
}

// TestnetParams defines the network parameters for the test network. It is
// the reference network with a 919 byte block header.
var TestnetParams = Params{
	Name:             "testnet",
	ProofSize:        testnetProofSize,
	HeaderHashFunc:   hashes.BlockHeaderHash,
	ProofBackendFunc: groth16ProofBackend,
	CommitmentTreeParameters: &merkle.CommitmentTreeParameters{
		Depth:           commitmentTreeDepth,
		Personalization: []byte("SnarkPowTestnetCommitmentTree"),
	},
	GenesisTransactions:     []*externalapi.DomainTransaction{testnetGenesisTransaction},
	DefaultDifficultyTarget: math.MaxUint64 / 64,
}

// SimnetParams defines the network parameters for the simulation test
// network. It is intended for private use, with small proofs and an easy
// difficulty target.
var SimnetParams = Params{
	Name:             "simnet",
	ProofSize:        simnetProofSize,
	HeaderHashFunc:   hashes.BlockHeaderHash,
	ProofBackendFunc: groth16ProofBackend,
	CommitmentTreeParameters: &merkle.CommitmentTreeParameters{
		Depth:           commitmentTreeDepth,
		Personalization: []byte("SnarkPowSimnetCommitmentTree"),
	},
	GenesisTransactions:     []*externalapi.DomainTransaction{simnetGenesisTransaction},
	DefaultDifficultyTarget: math.MaxUint64 / 2,
}

// DevnetParams defines the network parameters for the development network.
var DevnetParams = Params{
	Name:             "devnet",
	ProofSize:        devnetProofSize,
	HeaderHashFunc:   hashes.BlockHeaderHash,
	ProofBackendFunc: groth16ProofBackend,
	CommitmentTreeParameters: &merkle.CommitmentTreeParameters{
		Depth:           commitmentTreeDepth,
		Personalization: []byte("SnarkPowDevnetCommitmentTree"),
	},
	GenesisTransactions:     []*externalapi.DomainTransaction{devnetGenesisTransaction},
	DefaultDifficultyTarget: math.MaxUint64 / 8,
}

var (
	// ErrDuplicateNet describes an error where the parameters for a network
	// could not be set due to the network already being a standard network
	// or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate network")

	// ErrUnknownNet describes an error where the parameters for a network
	// were requested by a name that was never registered.
	ErrUnknownNet = errors.New("unknown network")
)

var (
	registeredNets = make(map[string]*Params)
)

// Register registers the network parameters for a network. This may error
// with ErrDuplicateNet if the network is already registered (either due to a
// previous Register call, or the network being one of the default networks).
//
// Network parameters should be registered into this package by a main package
// as early as possible.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Name]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Name] = params

	return nil
}

// ParamsByName returns the registered network parameters with the given name.
func ParamsByName(name string) (*Params, error) {
	params, ok := registeredNets[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNet, "no network named %s", name)
	}
	return params, nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&TestnetParams)
	mustRegister(&SimnetParams)
	mustRegister(&DevnetParams)
}
