package vanilladb

// Config holds store-level configuration.
type Config struct {
	// DataDir is the directory all database subdirectories and their
	// collection/index files live under.
	DataDir string

	// IndexMaxDegree is the default max_degree new indexes are created with
	// when Database.Index is called without an explicit override.
	IndexMaxDegree int

	// WriteBehindCapacity, if > 0, wraps every opened data file in a
	// WriteBehindFileIO batching layer of this capacity instead of writing
	// straight through to DirectFileIo.
	WriteBehindCapacity int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:             "./data",
		IndexMaxDegree:      64,
		WriteBehindCapacity: 0,
	}
}
