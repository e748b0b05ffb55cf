package posw

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/serialization"
	"github.com/snarkpow/snarkpowd/infrastructure/logger"
)

// Parameters hold the compiled MaskedRootCircuit and its Groth16 keys.
// Building them is expensive, so a process builds or loads them once.
type Parameters struct {
	ConstraintSystem constraint.ConstraintSystem
	ProvingKey       groth16.ProvingKey
	VerifyingKey     groth16.VerifyingKey
}

var (
	parametersOnce sync.Once
	parameters     *Parameters
	parametersErr  error
)

func init() {
	// gnark logs every compilation and proof to stdout through zerolog.
	gnarklogger.Set(zerolog.New(io.Discard).Level(zerolog.Disabled))
}

// LoadParameters returns the process wide parameters, setting them up on
// first use.
func LoadParameters() (*Parameters, error) {
	return LoadParametersFromFile("")
}

// LoadParametersFromFile returns the process wide parameters. On first use
// they are read from path if it exists, or set up and written to path
// otherwise. An empty path sets up fresh parameters without persisting them.
// Only the first call in a process decides where the parameters come from.
func LoadParametersFromFile(path string) (*Parameters, error) {
	parametersOnce.Do(func() {
		parameters, parametersErr = loadOrSetupParameters(path)
	})
	return parameters, parametersErr
}

func loadOrSetupParameters(path string) (*Parameters, error) {
	if path != "" {
		file, err := os.Open(path)
		if err == nil {
			defer file.Close()
			log.Infof("Loading proof of succinct work parameters from %s", path)
			return ReadParameters(bufio.NewReader(file))
		}
		if !os.IsNotExist(err) {
			return nil, errors.WithStack(err)
		}
	}

	params, err := SetupParameters()
	if err != nil {
		return nil, err
	}

	if path != "" {
		err = writeParametersFile(path, params)
		if err != nil {
			return nil, err
		}
	}
	return params, nil
}

func writeParametersFile(path string, params *Parameters) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	err = params.WriteTo(writer)
	if err != nil {
		return err
	}
	return errors.WithStack(writer.Flush())
}

// SetupParameters compiles MaskedRootCircuit and runs a Groth16 setup for it.
func SetupParameters() (*Parameters, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "SetupParameters")
	defer onEnd()

	var circuit MaskedRootCircuit
	constraintSystem, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile the masked root circuit")
	}

	provingKey, verifyingKey, err := groth16.Setup(constraintSystem)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run the groth16 setup")
	}

	log.Debugf("Set up proof of succinct work parameters with %d constraints",
		constraintSystem.GetNbConstraints())

	return &Parameters{
		ConstraintSystem: constraintSystem,
		ProvingKey:       provingKey,
		VerifyingKey:     verifyingKey,
	}, nil
}

// WriteTo writes the constraint system, the proving key and the verifying
// key to w, each framed with a size prefix.
func (params *Parameters) WriteTo(w io.Writer) error {
	sections := []struct {
		name   string
		object io.WriterTo
	}{
		{"constraint system", params.ConstraintSystem},
		{"proving key", params.ProvingKey},
		{"verifying key", params.VerifyingKey},
	}
	for _, section := range sections {
		buf := &bytes.Buffer{}
		_, err := section.object.WriteTo(buf)
		if err != nil {
			return errors.Wrapf(err, "failed to write the %s", section.name)
		}
		err = serialization.WriteWithSizePrefix(w, buf.Bytes())
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadParameters reads parameters written by Parameters.WriteTo.
func ReadParameters(r io.Reader) (*Parameters, error) {
	params := &Parameters{
		ConstraintSystem: groth16.NewCS(ecc.BN254),
		ProvingKey:       groth16.NewProvingKey(ecc.BN254),
		VerifyingKey:     groth16.NewVerifyingKey(ecc.BN254),
	}
	sections := []struct {
		name   string
		object io.ReaderFrom
	}{
		{"constraint system", params.ConstraintSystem},
		{"proving key", params.ProvingKey},
		{"verifying key", params.VerifyingKey},
	}
	for _, section := range sections {
		payload, err := serialization.ReadWithSizePrefix(r)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read the %s", section.name)
		}
		_, err = section.object.ReadFrom(bytes.NewReader(payload))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode the %s", section.name)
		}
	}
	return params, nil
}
