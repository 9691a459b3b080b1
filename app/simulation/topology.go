package simulation

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// latencyNoiseFactor is the standard deviation of the latency noise
// relative to the distance between the nodes
const latencyNoiseFactor = 0.25

type point struct {
	x, y float64
}

// PlanarTopology places nodes on a plane. The latency between two nodes is
// their distance plus gaussian noise, bounded from below by a minimal
// delay.
type PlanarTopology struct {
	minDelay    float64
	random      *rand.Rand
	coordinates map[int]point
}

// NewPlanarTopology creates an empty PlanarTopology
func NewPlanarTopology(minDelay float64, random *rand.Rand) *PlanarTopology {
	return &PlanarTopology{
		minDelay:    minDelay,
		random:      random,
		coordinates: make(map[int]point),
	}
}

// Place places node at the given coordinates
func (pt *PlanarTopology) Place(node int, x, y float64) error {
	if _, ok := pt.coordinates[node]; ok {
		return errors.Errorf("node %d is already placed", node)
	}
	pt.coordinates[node] = point{x: x, y: y}
	return nil
}

// Coordinates returns the coordinates of node
func (pt *PlanarTopology) Coordinates(node int) (x, y float64, err error) {
	coordinates, ok := pt.coordinates[node]
	if !ok {
		return 0, 0, errors.Errorf("node %d is not placed", node)
	}
	return coordinates.x, coordinates.y, nil
}

// Latency samples the time it takes a message to get from sender to
// receiver
func (pt *PlanarTopology) Latency(sender, receiver int) (float64, error) {
	senderX, senderY, err := pt.Coordinates(sender)
	if err != nil {
		return 0, err
	}
	receiverX, receiverY, err := pt.Coordinates(receiver)
	if err != nil {
		return 0, err
	}

	distance := math.Hypot(senderX-receiverX, senderY-receiverY)
	noise := pt.random.NormFloat64() * latencyNoiseFactor * distance
	return math.Max(distance+noise, pt.minDelay), nil
}
