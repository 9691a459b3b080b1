package relationstore

import (
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// ErrNotFound denotes that the requested item was not found in the store
var ErrNotFound = errors.New("not found")

// IsNotFoundError checks whether an error is an ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store persists the relations of a block DAG together with its tips
// and pruning point in a leveldb database. Relation lookups are served
// from an LRU cache when possible.
// A Store is not safe for concurrent use.
type Store struct {
	ldb   *leveldb.DB
	cache *lru.Cache[externalapi.DomainHash, *BlockRelations]
}

// Open opens the store at the given path, creating it if it does not
// exist. cacheSize is the number of block relations kept in memory.
func Open(path string, cacheSize int) (*Store, error) {
	cache, err := lru.New[externalapi.DomainHash, *BlockRelations](cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "failed creating a relations cache of size %d", cacheSize)
	}

	ldb, err := leveldb.OpenFile(path, Options())

	// If the database is corrupted, attempt to recover.
	if _, corrupted := err.(*ldbErrors.ErrCorrupted); corrupted {
		log.Warnf("LevelDB corruption detected for path %s: %s", path, err)
		ldb, err = leveldb.RecoverFile(path, nil)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		log.Warnf("LevelDB recovered from corruption for path %s", path)
	}

	// If the database cannot be opened for any other
	// reason, return the error as-is.
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Store{
		ldb:   ldb,
		cache: cache,
	}, nil
}

// Close closes the store
func (s *Store) Close() error {
	return errors.WithStack(s.ldb.Close())
}

// PutBlock stores a block with the given parents and registers it as a
// child of each of them. The parents have to be stored already. A block
// with no parents is stored as a root of the DAG.
func (s *Store) PutBlock(blockHash *externalapi.DomainHash, parentHashes []*externalapi.DomainHash) error {
	exists, err := s.HasBlock(blockHash)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("block %s already exists", blockHash)
	}

	batch := new(leveldb.Batch)
	updated := make(map[externalapi.DomainHash]*BlockRelations, len(parentHashes)+1)

	blockRelations := &BlockRelations{
		Parents:  externalapi.CloneHashes(parentHashes),
		Children: []*externalapi.DomainHash{},
	}
	batch.Put(relationsKey(blockHash), serializeBlockRelations(blockRelations))
	updated[*blockHash] = blockRelations

	for _, parentHash := range parentHashes {
		parentRelations, ok := updated[*parentHash]
		if !ok {
			parentRelations, err = s.BlockRelations(parentHash)
			if err != nil {
				return errors.Wrapf(err, "parent %s of block %s", parentHash, blockHash)
			}
		}
		parentRelations = parentRelations.Clone()
		parentRelations.Children = append(parentRelations.Children, blockHash)
		batch.Put(relationsKey(parentHash), serializeBlockRelations(parentRelations))
		updated[*parentHash] = parentRelations
	}

	count, err := s.BlockCount()
	if err != nil {
		return err
	}
	var countBytes [8]byte
	binary.LittleEndian.PutUint64(countBytes[:], count+1)
	batch.Put(blockCountKey, countBytes[:])

	err = s.ldb.Write(batch, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	for hash, relations := range updated {
		s.cache.Add(hash, relations)
	}
	return nil
}

// HasBlock returns whether the given block was stored
func (s *Store) HasBlock(blockHash *externalapi.DomainHash) (bool, error) {
	if s.cache.Contains(*blockHash) {
		return true, nil
	}
	exists, err := s.ldb.Has(relationsKey(blockHash), nil)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return exists, nil
}

// BlockRelations returns the relations of the given block. Returns
// ErrNotFound if no relations were stored for it.
// The returned relations must not be modified.
func (s *Store) BlockRelations(blockHash *externalapi.DomainHash) (*BlockRelations, error) {
	if blockRelations, ok := s.cache.Get(*blockHash); ok {
		return blockRelations, nil
	}

	serialized, err := s.get(relationsKey(blockHash))
	if err != nil {
		return nil, errors.Wrapf(err, "block %s", blockHash)
	}
	blockRelations, err := deserializeBlockRelations(serialized)
	if err != nil {
		return nil, err
	}
	s.cache.Add(*blockHash, blockRelations)
	return blockRelations, nil
}

// BlockCount returns the number of blocks stored with PutBlock
func (s *Store) BlockCount() (uint64, error) {
	serialized, err := s.get(blockCountKey)
	if err != nil {
		if IsNotFoundError(err) {
			return 0, nil
		}
		return 0, err
	}
	if len(serialized) != blockCountLength {
		return 0, errors.Errorf("block count is %d bytes long, expected %d", len(serialized), blockCountLength)
	}
	return binary.LittleEndian.Uint64(serialized), nil
}

// SetTips stores the tips of the DAG
func (s *Store) SetTips(tips []*externalapi.DomainHash) error {
	return errors.WithStack(s.ldb.Put(tipsKey, hashes.SerializeHashSlice(tips), nil))
}

// Tips returns the stored tips of the DAG
func (s *Store) Tips() ([]*externalapi.DomainHash, error) {
	serialized, err := s.get(tipsKey)
	if err != nil {
		return nil, errors.Wrapf(err, "tips")
	}
	return hashes.DeserializeHashSlice(serialized)
}

// SetPruningPoint stores the pruning point of the DAG, the block replays
// in pruning-point-up order start from
func (s *Store) SetPruningPoint(pruningPoint *externalapi.DomainHash) error {
	return errors.WithStack(s.ldb.Put(pruningPointKey, pruningPoint.ByteSlice(), nil))
}

// PruningPoint returns the stored pruning point of the DAG
func (s *Store) PruningPoint() (*externalapi.DomainHash, error) {
	serialized, err := s.get(pruningPointKey)
	if err != nil {
		return nil, errors.Wrapf(err, "pruning point")
	}
	return hashes.FromBytes(serialized)
}

func (s *Store) get(key []byte) ([]byte, error) {
	data, err := s.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "key %q not found", key)
		}
		return nil, errors.WithStack(err)
	}
	return data, nil
}
