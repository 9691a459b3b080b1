package model

// GHOSTDAGManager resolves and manages GHOSTDAG block data
type GHOSTDAGManager interface {
	GHOSTDAG(blockID BlockID) error
	ChooseSelectedParent(blockIDs ...BlockID) (BlockID, error)
	Less(blockA BlockID, ghostdagDataA *BlockGHOSTDAGData,
		blockB BlockID, ghostdagDataB *BlockGHOSTDAGData) bool
	IsBlue(blockID BlockID, context BlockID) (bool, error)
}
