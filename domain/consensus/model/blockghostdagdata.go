package model

// KType defines the size of GHOSTDAG consensus algorithm K parameter.
type KType byte

// BlockGHOSTDAGData represents GHOSTDAG data for some block
type BlockGHOSTDAGData struct {
	BlueScore      uint64
	SelectedParent BlockID
	// MergeSetBlues holds the blues this block added on top of its selected
	// parent's blue set, in the order they were accepted.
	MergeSetBlues []BlockID
	MergeSetReds  []BlockID
	// BluesAnticoneSizes maps every blue block whose blue anticone size was
	// affected by this block to that size as seen from this block.
	BluesAnticoneSizes map[BlockID]KType
}

// NewBlockGHOSTDAGData creates a new instance of BlockGHOSTDAGData
func NewBlockGHOSTDAGData(blueScore uint64, selectedParent BlockID, mergeSetBlues []BlockID,
	mergeSetReds []BlockID, bluesAnticoneSizes map[BlockID]KType) *BlockGHOSTDAGData {

	return &BlockGHOSTDAGData{
		BlueScore:          blueScore,
		SelectedParent:     selectedParent,
		MergeSetBlues:      mergeSetBlues,
		MergeSetReds:       mergeSetReds,
		BluesAnticoneSizes: bluesAnticoneSizes,
	}
}

// MergeSet returns the whole merge set of the block, blues first.
func (bgd *BlockGHOSTDAGData) MergeSet() []BlockID {
	mergeSet := make([]BlockID, 0, len(bgd.MergeSetBlues)+len(bgd.MergeSetReds))
	mergeSet = append(mergeSet, bgd.MergeSetBlues...)
	return append(mergeSet, bgd.MergeSetReds...)
}
