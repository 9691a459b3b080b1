package model

// BlockRelationStore represents a store of BlockRelations
type BlockRelationStore interface {
	Insert(blockID BlockID, blockRelations *BlockRelations)
	BlockRelation(blockID BlockID) (*BlockRelations, error)
	AddChild(blockID BlockID, childID BlockID) error
	Has(blockID BlockID) bool
}
