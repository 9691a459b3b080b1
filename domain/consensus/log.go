package consensus

import (
	"github.com/kaspanet/ghostdagsim/infrastructure/logger"
)

var log = logger.RegisterSubSystem("GDAG")
