package hashset

import (
	"sort"
	"strings"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
)

// HashSet is an unordered set of hashes
type HashSet map[externalapi.DomainHash]struct{}

// New returns a new HashSet
func New() HashSet {
	return HashSet{}
}

// NewFromSlice returns a new HashSet containing the given hashes
func NewFromSlice(hashes ...*externalapi.DomainHash) HashSet {
	set := New()

	for _, hash := range hashes {
		set.Add(hash)
	}

	return set
}

func (hs HashSet) String() string {
	hashStrings := make([]string, 0, len(hs))
	for hash := range hs {
		hashStrings = append(hashStrings, hash.String())
	}
	sort.Strings(hashStrings)
	return strings.Join(hashStrings, ", ")
}

// Add adds hash to the set
func (hs HashSet) Add(hash *externalapi.DomainHash) {
	hs[*hash] = struct{}{}
}

// Remove removes hash from the set
func (hs HashSet) Remove(hash *externalapi.DomainHash) {
	delete(hs, *hash)
}

// Contains returns whether hash is in the set
func (hs HashSet) Contains(hash *externalapi.DomainHash) bool {
	_, ok := hs[*hash]
	return ok
}

// ToSlice returns the hashes of the set, sorted in ascending order
func (hs HashSet) ToSlice() []*externalapi.DomainHash {
	slice := make([]*externalapi.DomainHash, 0, len(hs))

	for hash := range hs {
		hash := hash
		slice = append(slice, &hash)
	}
	sort.Slice(slice, func(i, j int) bool {
		return slice[i].Less(slice[j])
	})

	return slice
}
