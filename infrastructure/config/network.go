package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/dagconfig"
	"github.com/pkg/errors"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Simnet                bool   `long:"simnet" description:"Use the simulation network parameters (default)"`
	Widenet               bool   `long:"widenet" description:"Use the wide network parameters"`
	Devnet                bool   `long:"devnet" description:"Use the development network parameters"`
	OverrideDAGParamsFile string `long:"override-dag-params-file" description:"Overrides DAG params (allowed only on devnet)"`

	ActiveNetParams *dagconfig.Params
}

type overrideDAGParamsConfig struct {
	K                    *model.KType `json:"k"`
	FinalityWindow       *uint64      `json:"finalityWindow"`
	GenesisIntervalStart *uint64      `json:"genesisIntervalStart"`
	GenesisIntervalEnd   *uint64      `json:"genesisIntervalEnd"`
	GenesisHash          *string      `json:"genesisHash"`
}

// ResolveNetwork parses the network command line argument and sets ActiveNetParams accordingly.
// It returns error if more than one network was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// Multiple networks can't be selected simultaneously.
	numNets := 0
	netName := dagconfig.SimnetParams.Name
	if networkFlags.Simnet {
		numNets++
	}
	if networkFlags.Widenet {
		numNets++
		netName = dagconfig.WidenetParams.Name
	}
	if networkFlags.Devnet {
		numNets++
		netName = dagconfig.DevnetParams.Name
	}
	if numNets > 1 {
		message := "Multiple networks parameters (simnet, widenet, devnet) cannot be used " +
			"together. Please choose only one network"
		err := errors.Errorf(message)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return err
	}
	params, err := dagconfig.ParamsByName(netName)
	if err != nil {
		return err
	}
	networkFlags.ActiveNetParams = params

	err = networkFlags.overrideDAGParams()
	if err != nil {
		return err
	}
	return networkFlags.ActiveNetParams.Validate()
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *dagconfig.Params {
	return networkFlags.ActiveNetParams
}

func (networkFlags *NetworkFlags) overrideDAGParams() error {
	if networkFlags.OverrideDAGParamsFile == "" {
		return nil
	}

	if !networkFlags.Devnet {
		return errors.Errorf("override-dag-params-file is allowed only when using devnet")
	}

	overrideDAGParamsFile, err := os.Open(networkFlags.OverrideDAGParamsFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer overrideDAGParamsFile.Close()

	decoder := json.NewDecoder(overrideDAGParamsFile)
	decoder.DisallowUnknownFields()
	config := &overrideDAGParamsConfig{}
	err = decoder.Decode(config)
	if err != nil {
		return errors.Wrapf(err, "failed decoding %s", networkFlags.OverrideDAGParamsFile)
	}

	if config.K != nil {
		networkFlags.ActiveNetParams.K = *config.K
	}

	if config.FinalityWindow != nil {
		networkFlags.ActiveNetParams.FinalityWindow = *config.FinalityWindow
	}

	if config.GenesisIntervalStart != nil {
		networkFlags.ActiveNetParams.GenesisInterval.Start = *config.GenesisIntervalStart
	}

	if config.GenesisIntervalEnd != nil {
		networkFlags.ActiveNetParams.GenesisInterval.End = *config.GenesisIntervalEnd
	}

	if config.GenesisHash != nil {
		networkFlags.ActiveNetParams.GenesisHash, err = externalapi.NewDomainHashFromString(*config.GenesisHash)
		if err != nil {
			return errors.Wrapf(err, "invalid genesis hash %s", *config.GenesisHash)
		}
	}

	return nil
}
