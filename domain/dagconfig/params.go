package dagconfig

import (
	"math"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

const (
	defaultFinalityWindow = 10000
	devnetFinalityWindow  = 200
)

// defaultGenesisInterval is the widest root interval whose size is still
// representable in 64 bits.
var defaultGenesisInterval = model.ReachabilityInterval{Start: 1, End: math.MaxUint64 - 1}

// Params defines a GHOSTDAG instance by its parameters.
type Params struct {
	// Name defines a human-readable identifier for the parameter set.
	Name string

	// K defines the K parameter for GHOSTDAG consensus algorithm.
	// See ghostdag.go for further details.
	K model.KType

	// FinalityWindow is the blue score a block on the virtual's selected
	// chain has to be buried under before it is finalized.
	FinalityWindow uint64

	// GenesisInterval is the reachability interval of the genesis block.
	// It bounds the number of blocks the DAG can ever index.
	GenesisInterval model.ReachabilityInterval

	// GenesisHash is the hash of the genesis block. When nil, a random
	// hash is generated for every new DAG.
	GenesisHash *externalapi.DomainHash
}

// Clone returns a clone of the params. The clone shares GenesisHash, which
// is immutable.
func (p *Params) Clone() *Params {
	clone := *p
	return &clone
}

// Validate checks that the params describe a DAG that can be created
func (p *Params) Validate() error {
	if p.GenesisInterval.End < p.GenesisInterval.Start {
		return errors.Errorf("genesis interval %s of %s is empty", &p.GenesisInterval, p.Name)
	}
	if p.GenesisInterval.End-p.GenesisInterval.Start+1 < 2 {
		return errors.Errorf("genesis interval %s of %s has to hold at least two indexes",
			&p.GenesisInterval, p.Name)
	}
	return nil
}

// SimnetParams are the parameters of the simulation network, matching the
// k the simulation selects for its default topology.
var SimnetParams = Params{
	Name:            "simnet",
	K:               16,
	FinalityWindow:  defaultFinalityWindow,
	GenesisInterval: defaultGenesisInterval,
}

// WidenetParams are used to generate wide DAGs over high latency topologies.
var WidenetParams = Params{
	Name:            "widenet",
	K:               18,
	FinalityWindow:  defaultFinalityWindow,
	GenesisInterval: defaultGenesisInterval,
}

// DevnetParams keep a short finality window so that finality and interval
// concentration happen often.
var DevnetParams = Params{
	Name:            "devnet",
	K:               3,
	FinalityWindow:  devnetFinalityWindow,
	GenesisInterval: defaultGenesisInterval,
}

var (
	// ErrDuplicateNet describes an error where the parameters for a
	// network could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate network")

	// ErrUnknownNet describes an error where the parameters of a network
	// were requested by a name that was never registered.
	ErrUnknownNet = errors.New("unknown network")
)

var registeredNets = make(map[string]*Params)

// Register registers the parameters of a network. This may error with
// ErrDuplicateNet if the network is already registered (either due to a
// previous Register call, or the network being one of the default
// networks).
func Register(params *Params) error {
	if _, ok := registeredNets[params.Name]; ok {
		return errors.Wrapf(ErrDuplicateNet, "network %s", params.Name)
	}
	registeredNets[params.Name] = params

	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// ParamsByName returns a clone of the params registered under name
func ParamsByName(name string) (*Params, error) {
	params, ok := registeredNets[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNet, "network %s", name)
	}
	return params.Clone(), nil
}

// DefaultParams returns a clone of SimnetParams
func DefaultParams() *Params {
	return SimnetParams.Clone()
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&SimnetParams)
	mustRegister(&WidenetParams)
	mustRegister(&DevnetParams)
}
