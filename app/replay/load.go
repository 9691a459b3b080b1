package replay

import (
	"github.com/gammazero/deque"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/infrastructure/db/relationstore"
	"github.com/pkg/errors"
)

// Order defines the direction the persisted DAG is traversed in
type Order int

const (
	// TipsDown loads the past of the stored tips by following parents
	TipsDown Order = iota

	// PruningPointUp loads the future of the stored pruning point by
	// following children
	PruningPointUp
)

func (o Order) String() string {
	switch o {
	case TipsDown:
		return "tips-down"
	case PruningPointUp:
		return "pruning-point-up"
	}
	return "unknown"
}

// OrderFromString returns the Order named s
func OrderFromString(s string) (Order, error) {
	switch s {
	case TipsDown.String():
		return TipsDown, nil
	case PruningPointUp.String():
		return PruningPointUp, nil
	}
	return 0, errors.Errorf("unknown replay order %s", s)
}

const loadProgressInterval = 40000

// Load traverses the store in the given order and returns the relations
// of every block it reached. Blocks whose relations are missing from the
// store are counted in missing and left out.
func Load(store *relationstore.Store, order Order) (
	blocks map[externalapi.DomainHash]*relationstore.BlockRelations, missing int, err error) {

	var start []*externalapi.DomainHash
	switch order {
	case TipsDown:
		start, err = store.Tips()
		if err != nil {
			return nil, 0, err
		}
		log.Infof("Loading the past of %d tips", len(start))
	case PruningPointUp:
		pruningPoint, err := store.PruningPoint()
		if err != nil {
			return nil, 0, err
		}
		start = []*externalapi.DomainHash{pruningPoint}
		log.Infof("Loading the future of pruning point %s", pruningPoint)
	default:
		return nil, 0, errors.Errorf("unknown replay order %d", order)
	}

	blocks = make(map[externalapi.DomainHash]*relationstore.BlockRelations)
	visited := make(map[externalapi.DomainHash]struct{})
	queue := new(deque.Deque[*externalapi.DomainHash])
	for _, blockHash := range start {
		visited[*blockHash] = struct{}{}
		queue.PushBack(blockHash)
	}

	for queue.Len() > 0 {
		blockHash := queue.PopFront()
		blockRelations, err := store.BlockRelations(blockHash)
		if err != nil {
			if !relationstore.IsNotFoundError(err) {
				return nil, 0, err
			}
			missing++
			continue
		}
		blocks[*blockHash] = blockRelations

		next := blockRelations.Parents
		if order == PruningPointUp {
			next = blockRelations.Children
		}
		for _, nextHash := range next {
			if _, ok := visited[*nextHash]; ok {
				continue
			}
			visited[*nextHash] = struct{}{}
			queue.PushBack(nextHash)
			if len(visited)%loadProgressInterval == 0 {
				log.Infof("Loaded %d blocks", len(visited))
			}
		}
	}

	log.Infof("Loaded %d blocks in %s order", len(blocks), order)
	if missing > 0 {
		log.Warnf("Relations of %d blocks are missing from the store", missing)
	}
	return blocks, missing, nil
}
