package model

// ReachabilityDataStore represents a store of ReachabilityData.
// Returned data is owned by the store and mutated in place by the
// reachability manager.
type ReachabilityDataStore interface {
	Insert(blockID BlockID, reachabilityData *ReachabilityData)
	ReachabilityData(blockID BlockID) (*ReachabilityData, error)
	HasReachabilityData(blockID BlockID) bool
}
