package coinbasepuzzle

import (
	"github.com/pkg/errors"
)

// Mode selects the encoding of a prover solution.
type Mode int

const (
	// Compact is the size prefixed canonical byte encoding used between
	// peers and in storage.
	Compact Mode = iota

	// HumanReadable is the JSON encoding used by interactive clients and
	// APIs.
	HumanReadable
)

func (mode Mode) String() string {
	switch mode {
	case Compact:
		return "compact"
	case HumanReadable:
		return "human-readable"
	}
	return "unknown"
}

// Serialize encodes solution in the given mode.
func Serialize(solution *ProverSolution, mode Mode) ([]byte, error) {
	switch mode {
	case Compact:
		return solution.ToBytesWithSizePrefix()
	case HumanReadable:
		return solution.toJSON()
	}
	return nil, errors.Errorf("unknown serialization mode %d", mode)
}

// Deserialize decodes a solution encoded in the given mode.
func Deserialize(data []byte, mode Mode) (*ProverSolution, error) {
	var solution *ProverSolution
	var err error
	switch mode {
	case Compact:
		solution, err = FromBytesWithSizePrefix(data)
	case HumanReadable:
		solution, err = fromJSON(data)
	default:
		return nil, errors.Errorf("unknown serialization mode %d", mode)
	}
	if err != nil {
		log.Debugf("Failed to decode a %s prover solution: %s", mode, err)
		return nil, err
	}
	return solution, nil
}
