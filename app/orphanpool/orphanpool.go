package orphanpool

import (
	"github.com/gammazero/deque"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// DefaultMaxOrphans is the default maximum number of orphan blocks that
// can be queued.
const DefaultMaxOrphans = 1000

// orphanBlock represents a block that we don't yet have all the parents
// for. sequence is the order in which the orphan was queued.
type orphanBlock struct {
	hash     *externalapi.DomainHash
	parents  []*externalapi.DomainHash
	sequence uint64
}

// OrphanPool feeds blocks into a DAG. Blocks that arrive before their
// parents are held back until the missing parents are added.
// An OrphanPool is not safe for concurrent use.
type OrphanPool struct {
	dag        externalapi.DAG
	maxOrphans int

	orphans      map[externalapi.DomainHash]*orphanBlock
	prevOrphans  map[externalapi.DomainHash][]*orphanBlock
	nextSequence uint64
}

// New creates an OrphanPool feeding dag. At most maxOrphans blocks are
// held back at once. The oldest orphan is evicted to make room for a new
// one.
func New(dag externalapi.DAG, maxOrphans int) *OrphanPool {
	return &OrphanPool{
		dag:         dag,
		maxOrphans:  maxOrphans,
		orphans:     make(map[externalapi.DomainHash]*orphanBlock),
		prevOrphans: make(map[externalapi.DomainHash][]*orphanBlock),
	}
}

// ProcessBlock adds the block to the DAG, followed by every orphan that
// no longer misses parents once the block is added. If the block itself
// misses parents, it is queued as an orphan and isOrphan is true.
//
// Orphans rejected by the DAG when they are unorphaned are logged and
// dropped, so the error reflects only the given block.
func (op *OrphanPool) ProcessBlock(blockHash *externalapi.DomainHash, parentHashes []*externalapi.DomainHash) (
	added []*externalapi.BlockInfo, isOrphan bool, err error) {

	if op.IsKnownOrphan(blockHash) {
		return nil, false, errors.Wrapf(ruleerrors.ErrDuplicateBlock, "block %s is already a known orphan",
			blockHash)
	}

	blockInfo, err := op.dag.AddNewBlock(blockHash, parentHashes)
	if err != nil {
		var missingParentsErr ruleerrors.ErrMissingParents
		if errors.As(err, &missingParentsErr) {
			log.Debugf("Block %s is an orphan, missing parents %s", blockHash,
				missingParentsErr.MissingParentHashes)
			op.addOrphanBlock(blockHash, parentHashes)
			return nil, true, nil
		}
		return nil, false, err
	}

	added = append(added, blockInfo)
	unorphaned, err := op.processOrphans(blockHash)
	if err != nil {
		return nil, false, err
	}
	return append(added, unorphaned...), false, nil
}

// IsKnownOrphan returns whether the passed hash is currently a known
// orphan.
func (op *OrphanPool) IsKnownOrphan(blockHash *externalapi.DomainHash) bool {
	_, exists := op.orphans[*blockHash]
	return exists
}

// Count returns the number of orphans currently queued
func (op *OrphanPool) Count() int {
	return len(op.orphans)
}

// MissingAncestorHashes returns all of the missing parents in the orphan's
// sub-DAG
func (op *OrphanPool) MissingAncestorHashes(orphanHash *externalapi.DomainHash) []*externalapi.DomainHash {
	missingAncestorHashes := make([]*externalapi.DomainHash, 0)

	visited := make(map[externalapi.DomainHash]struct{})
	queue := new(deque.Deque[*externalapi.DomainHash])
	queue.PushBack(orphanHash)
	for queue.Len() > 0 {
		current := queue.PopFront()
		if _, ok := visited[*current]; ok {
			continue
		}
		visited[*current] = struct{}{}

		orphan, orphanExists := op.orphans[*current]
		if orphanExists {
			for _, parentHash := range orphan.parents {
				queue.PushBack(parentHash)
			}
			continue
		}
		if !op.dag.HasBlock(current) && !current.Equal(orphanHash) {
			missingAncestorHashes = append(missingAncestorHashes, current)
		}
	}
	return missingAncestorHashes
}

// addOrphanBlock adds the passed block to the orphan pool. It evicts the
// oldest orphan if the pool is full.
func (op *OrphanPool) addOrphanBlock(blockHash *externalapi.DomainHash, parentHashes []*externalapi.DomainHash) {
	if op.maxOrphans <= 0 {
		log.Warnf("Orphan pool is disabled, dropping block %s", blockHash)
		return
	}

	if len(op.orphans)+1 > op.maxOrphans {
		var oldest *orphanBlock
		for _, orphan := range op.orphans {
			if oldest == nil || orphan.sequence < oldest.sequence {
				oldest = orphan
			}
		}
		log.Warnf("Orphan pool is full, evicting orphan %s", oldest.hash)
		op.removeOrphanBlock(oldest)
	}

	orphan := &orphanBlock{
		hash:     blockHash,
		parents:  externalapi.CloneHashes(parentHashes),
		sequence: op.nextSequence,
	}
	op.nextSequence++
	op.orphans[*blockHash] = orphan

	// Add to parent hash lookup index for faster dependency lookups.
	for _, parentHash := range parentHashes {
		op.prevOrphans[*parentHash] = append(op.prevOrphans[*parentHash], orphan)
	}
}

// removeOrphanBlock removes the passed orphan block from the orphan pool
// and previous orphan index.
func (op *OrphanPool) removeOrphanBlock(orphan *orphanBlock) {
	delete(op.orphans, *orphan.hash)

	for _, parentHash := range orphan.parents {
		orphans := op.prevOrphans[*parentHash]
		for i := 0; i < len(orphans); i++ {
			if orphans[i] == orphan {
				orphans = append(orphans[:i], orphans[i+1:]...)
				i--
			}
		}

		// Remove the map entry altogether if there are no longer any orphans
		// which depend on the parent hash.
		if len(orphans) == 0 {
			delete(op.prevOrphans, *parentHash)
			continue
		}
		op.prevOrphans[*parentHash] = orphans
	}
}

// processOrphans adds to the DAG every orphan that depends on the passed
// block hash and has no more missing parents. It repeats the process for
// the newly added blocks until there are no more.
func (op *OrphanPool) processOrphans(blockHash *externalapi.DomainHash) ([]*externalapi.BlockInfo, error) {
	var unorphaned []*externalapi.BlockInfo

	processHashes := new(deque.Deque[*externalapi.DomainHash])
	processHashes.PushBack(blockHash)
	for processHashes.Len() > 0 {
		processHash := processHashes.PopFront()

		// An indexing for loop is used since removeOrphanBlock modifies
		// the slice.
		for i := 0; i < len(op.prevOrphans[*processHash]); i++ {
			orphan := op.prevOrphans[*processHash][i]
			if !op.hasAllParents(orphan) {
				continue
			}

			op.removeOrphanBlock(orphan)
			i--

			blockInfo, err := op.dag.AddNewBlock(orphan.hash, orphan.parents)
			if err != nil {
				if !errors.As(err, &ruleerrors.RuleError{}) {
					return nil, err
				}
				log.Warnf("Orphan block %s was rejected: %s", orphan.hash, err)
				continue
			}
			log.Debugf("Unorphaned block %s", orphan.hash)
			unorphaned = append(unorphaned, blockInfo)
			processHashes.PushBack(orphan.hash)
		}
	}
	return unorphaned, nil
}

func (op *OrphanPool) hasAllParents(orphan *orphanBlock) bool {
	for _, parentHash := range orphan.parents {
		if !op.dag.HasBlock(parentHash) {
			return false
		}
	}
	return true
}
