package index

// RecordIndex defines the interface for record indexing operations.
// Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type RecordIndex interface {
	Upsert(r Row, body string) error
	Delete(kind, id string) error
	AllChecksums() (map[string]map[string]string, error)
	Count(kind string) (int, error)
	Search(query, kind string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies RecordIndex at compile time.
var _ RecordIndex = (*DB)(nil)
