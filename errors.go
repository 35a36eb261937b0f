package vanilladb

import "errors"

var (
	// ErrDatabaseNotFound is returned when a named database has not been created.
	ErrDatabaseNotFound = errors.New("vanilladb: database not found")

	// ErrDatabaseExists is returned by CreateDatabase when the name is already in use.
	ErrDatabaseExists = errors.New("vanilladb: database already exists")

	// ErrCollectionNotFound is returned when a named collection has not been created.
	ErrCollectionNotFound = errors.New("vanilladb: collection not found")

	// ErrCollectionExists is returned by CreateCollection when the name is already in use.
	ErrCollectionExists = errors.New("vanilladb: collection already exists")

	// ErrIndexExists reports an index name already in use with a different
	// max_degree or uniqueness. Database.Index does not return it: it returns
	// an already-open index without comparing configurations.
	ErrIndexExists = errors.New("vanilladb: index already exists with different configuration")
)
