package domain

// Mutation results carry just enough for a client-side optimistic patch.
//
// The client's local state is a cache with no authority of its own: after a
// predictable mutation (create, plain edit) it may patch locally using the
// returned id, but any mutation whose resulting order depends on server
// state — pin toggles, group cascades — requires a full re-fetch of the
// affected list. The last full re-fetch always wins.

// InsertResult reports the id assigned to a newly created row
type InsertResult struct {
	InsertedID uint64 `json:"insertedId"`
}

// DeleteByGroupResult reports how many memos a group-wide delete removed
type DeleteByGroupResult struct {
	Count int64 `json:"count"`
}

// UploadResult reports the stored location of an uploaded file
type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}
