package externalapi

// DAG is the minimal block DAG surface shared by full GHOSTDAG
// instances and tip-tracking stubs.
type DAG interface {
	AddNewBlock(blockHash *DomainHash, parentHashes []*DomainHash) (*BlockInfo, error)
	Tips() []*DomainHash
	HasBlock(blockHash *DomainHash) bool
	BlockCount() int
}
