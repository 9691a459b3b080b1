package hashes

import "github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"

// Less returns true iff hash a is less than hash b, treating both as
// big-endian unsigned integers.
func Less(a, b *externalapi.DomainHash) bool {
	return a.Less(b)
}
