package interfaces

import "earnings-insight/internal/types"

// Store is the persistence capability the pipeline writes through. No
// transactional guarantees; last write wins per ID. A production deployment
// swaps in a real database behind this same contract.
type Store interface {
	PutDocument(doc types.Document) error
	PutRecord(rec types.QuarterRecord) error
	Documents() ([]types.Document, error)
	Records() ([]types.QuarterRecord, error)
	Stats() (types.StoreStats, error)
}
