package model

// BlockRelations represents a block's DAG relations
type BlockRelations struct {
	Parents  []BlockID
	Children []BlockID
}

// Clone returns a clone of BlockRelations
func (br *BlockRelations) Clone() *BlockRelations {
	parentsClone := make([]BlockID, len(br.Parents))
	copy(parentsClone, br.Parents)
	childrenClone := make([]BlockID, len(br.Children))
	copy(childrenClone, br.Children)
	return &BlockRelations{
		Parents:  parentsClone,
		Children: childrenClone,
	}
}
