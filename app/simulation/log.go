package simulation

import (
	"github.com/kaspanet/ghostdagsim/infrastructure/logger"
)

var log = logger.RegisterSubSystem("SIMU")
