package ghostdagmanager

import (
	"github.com/kaspanet/ghostdagsim/infrastructure/logger"
)

var log = logger.RegisterSubSystem("GHST")
