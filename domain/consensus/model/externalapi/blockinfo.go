package externalapi

// BlockInfo contains various information about a specific block
type BlockInfo struct {
	Hash           *DomainHash
	LocalIndex     uint64
	Parents        []*DomainHash
	SelectedParent *DomainHash
	BlueScore      uint64
	MergeSetBlues  []*DomainHash
	MergeSetReds   []*DomainHash
}

// Clone returns a clone of BlockInfo
func (bi *BlockInfo) Clone() *BlockInfo {
	return &BlockInfo{
		Hash:           bi.Hash,
		LocalIndex:     bi.LocalIndex,
		Parents:        CloneHashes(bi.Parents),
		SelectedParent: bi.SelectedParent,
		BlueScore:      bi.BlueScore,
		MergeSetBlues:  CloneHashes(bi.MergeSetBlues),
		MergeSetReds:   CloneHashes(bi.MergeSetReds),
	}
}

// ExportedBlock is the serializable form of a block used when dumping a DAG.
// ID and Parents refer to blocks by their local index.
type ExportedBlock struct {
	ID      string   `json:"id"`
	Parents []string `json:"parents"`
}
