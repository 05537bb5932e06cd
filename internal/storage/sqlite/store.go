package sqlite

// Store bundles the SQLite-backed stores behind one value. The promoted
// method set satisfies the consumer-side store interfaces of the session,
// grading, and progress packages.
type Store struct {
	*ContentStore
	*SessionStore
	*SubmissionStore
	*ProgressStore
}

// NewStore creates the full SQLite store over one connection.
func NewStore(db *DB) *Store {
	return &Store{
		ContentStore:    NewContentStore(db),
		SessionStore:    NewSessionStore(db),
		SubmissionStore: NewSubmissionStore(db),
		ProgressStore:   NewProgressStore(db),
	}
}
