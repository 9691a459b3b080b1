package simulation

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// BlockMessage announces a newly mined block
type BlockMessage struct {
	Hash    *externalapi.DomainHash
	Parents []*externalapi.DomainHash
}

// LatencyOracle returns the time it takes a message to get from sender to
// receiver
type LatencyOracle func(sender, receiver int) (float64, error)

// Receiver handles a message delivered by the hub
type Receiver func(message *BlockMessage) error

// Hub broadcasts messages between the nodes of a simulation, delivering
// every message to each receiver after the latency the oracle assigns to
// the pair.
type Hub struct {
	scheduler *scheduler
	latency   LatencyOracle

	receivers map[int]Receiver
	nodes     []int
}

func newHub(scheduler *scheduler, latency LatencyOracle) *Hub {
	return &Hub{
		scheduler: scheduler,
		latency:   latency,
		receivers: make(map[int]Receiver),
	}
}

// Register registers the receiver of node
func (h *Hub) Register(node int, receiver Receiver) error {
	if _, ok := h.receivers[node]; ok {
		return errors.Errorf("node %d is already registered", node)
	}
	h.receivers[node] = receiver
	h.nodes = append(h.nodes, node)
	return nil
}

// Broadcast delivers message to all nodes but sender
func (h *Hub) Broadcast(sender int, message *BlockMessage) error {
	if len(h.receivers) == 0 {
		return errors.New("there are no registered receivers")
	}
	for _, node := range h.nodes {
		if node == sender {
			continue
		}
		delay, err := h.latency(sender, node)
		if err != nil {
			return err
		}
		receiver := h.receivers[node]
		h.scheduler.schedule(delay, func() error {
			return receiver(message)
		})
	}
	return nil
}
