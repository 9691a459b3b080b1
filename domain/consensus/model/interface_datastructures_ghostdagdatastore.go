package model

// GHOSTDAGDataStore represents a store of BlockGHOSTDAGData
type GHOSTDAGDataStore interface {
	Insert(blockID BlockID, blockGHOSTDAGData *BlockGHOSTDAGData)
	Get(blockID BlockID) (*BlockGHOSTDAGData, error)
	Has(blockID BlockID) bool
}
