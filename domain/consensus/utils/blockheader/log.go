package blockheader

import (
	"github.com/snarkpow/snarkpowd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BHDR")
