package coinbasepuzzle

import (
	"github.com/snarkpow/snarkpowd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("CBPZ")
