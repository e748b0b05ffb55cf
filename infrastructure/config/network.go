package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/merkle"
	"github.com/snarkpow/snarkpowd/domain/dagconfig"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet            bool   `long:"testnet" description:"Use the test network"`
	Simnet             bool   `long:"simnet" description:"Use the simulation test network"`
	Devnet             bool   `long:"devnet" description:"Use the development test network"`
	OverrideParamsFile string `long:"override-params-file" description:"Overrides network params (allowed only on devnet)"`

	ActiveNetParams *dagconfig.Params
}

type overrideParamsConfig struct {
	ProofSize               *int    `json:"proofSize"`
	DefaultDifficultyTarget *uint64 `json:"defaultDifficultyTarget"`
	CommitmentTreeDepth     *uint8  `json:"commitmentTreeDepth"`
}

// ResolveNetwork parses the network command line argument and sets
// ActiveNetParams accordingly. The test network is selected when no network
// flag is given. It returns error if more than one network was selected, nil
// otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	networkFlags.ActiveNetParams = &dagconfig.TestnetParams
	// Multiple networks can't be selected simultaneously.
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &dagconfig.TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		networkFlags.ActiveNetParams = &dagconfig.SimnetParams
	}
	if networkFlags.Devnet {
		numNets++
		networkFlags.ActiveNetParams = &dagconfig.DevnetParams
	}
	if numNets > 1 {
		message := "Multiple networks parameters (testnet, simnet, devnet, etc.) cannot be used " +
			"together. Please choose only one network"
		err := errors.New(message)
		if parser != nil {
			fmt.Fprintln(os.Stderr, err)
			parser.WriteHelp(os.Stderr)
		}
		return err
	}

	return networkFlags.overrideParams()
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *dagconfig.Params {
	return networkFlags.ActiveNetParams
}

func (networkFlags *NetworkFlags) overrideParams() error {
	if networkFlags.OverrideParamsFile == "" {
		return nil
	}

	if !networkFlags.Devnet {
		return errors.Errorf("override-params-file is allowed only when using devnet")
	}

	overrideParamsFile, err := os.Open(networkFlags.OverrideParamsFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer overrideParamsFile.Close()

	config := &overrideParamsConfig{}
	err = json.NewDecoder(overrideParamsFile).Decode(config)
	if err != nil {
		return errors.Wrapf(err, "failed to decode %s", networkFlags.OverrideParamsFile)
	}

	// Work on a copy so the registered devnet parameters stay intact.
	params := *networkFlags.ActiveNetParams
	treeParameters := *params.CommitmentTreeParameters
	params.CommitmentTreeParameters = &treeParameters

	if config.ProofSize != nil {
		if *config.ProofSize <= 0 {
			return errors.Errorf("proofSize must be positive, got %d", *config.ProofSize)
		}
		params.ProofSize = *config.ProofSize
	}

	if config.DefaultDifficultyTarget != nil {
		params.DefaultDifficultyTarget = *config.DefaultDifficultyTarget
	}

	if config.CommitmentTreeDepth != nil {
		if *config.CommitmentTreeDepth > merkle.MaxCommitmentTreeDepth {
			return errors.Errorf("commitmentTreeDepth must be at most %d, got %d",
				merkle.MaxCommitmentTreeDepth, *config.CommitmentTreeDepth)
		}
		params.CommitmentTreeParameters.Depth = *config.CommitmentTreeDepth
	}

	networkFlags.ActiveNetParams = &params
	return nil
}
