package replay

import (
	"github.com/kaspanet/ghostdagsim/infrastructure/logger"
)

var log = logger.RegisterSubSystem("RPLY")
