// Package vanilladb is the embedded, single-process document store's
// top-level entry point: Store owns a set of Databases on disk, each holding
// named Collections and, optionally, named B+ tree Indexes over them.
package vanilladb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mnohosten/vanilladb/pkg/btree"
	"github.com/mnohosten/vanilladb/pkg/codec"
	"github.com/mnohosten/vanilladb/pkg/collection"
	"github.com/mnohosten/vanilladb/pkg/storage"
)

const (
	collectionExt = ".col"
	indexExt      = ".btree"
)

// Store is the root handle for a set of databases rooted at one data directory.
type Store struct {
	mu        sync.RWMutex
	config    Config
	databases map[string]*Database
}

// Open opens (creating if necessary) the store rooted at config.DataDir,
// reconstructing every database and collection it finds by scanning the
// directory tree. Index attachment is not automatic, since max_degree and
// uniqueness are not persisted: call Database.Index explicitly after Open.
func Open(config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("vanilladb: create data dir: %w", err)
	}

	s := &Store{config: *config, databases: make(map[string]*Database)}

	entries, err := os.ReadDir(config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("vanilladb: scan data dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		db, err := s.openDatabase(entry.Name())
		if err != nil {
			return nil, err
		}
		s.databases[entry.Name()] = db
	}
	return s, nil
}

func (s *Store) openDatabase(name string) (*Database, error) {
	path := filepath.Join(s.config.DataDir, name)
	db := &Database{
		name:       name,
		path:       path,
		config:     s.config,
		collections: make(map[string]*collection.Collection),
		collFiles:   make(map[string]*storage.DirectFileIo),
		indexes:     make(map[string]*btree.Tree),
		indexFiles:  make(map[string]*storage.DirectFileIo),
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("vanilladb: scan database %q: %w", name, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch {
		case strings.HasSuffix(entry.Name(), collectionExt):
			collName := strings.TrimSuffix(entry.Name(), collectionExt)
			if err := db.attachCollection(collName); err != nil {
				return nil, err
			}
		}
	}
	return db, nil
}

// CreateDatabase creates a new, empty database named name.
func (s *Store) CreateDatabase(name string) (*Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.databases[name]; exists {
		return nil, ErrDatabaseExists
	}
	path := filepath.Join(s.config.DataDir, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("vanilladb: create database %q: %w", name, err)
	}
	db := &Database{
		name:        name,
		path:        path,
		config:      s.config,
		collections: make(map[string]*collection.Collection),
		collFiles:   make(map[string]*storage.DirectFileIo),
		indexes:     make(map[string]*btree.Tree),
		indexFiles:  make(map[string]*storage.DirectFileIo),
	}
	s.databases[name] = db
	return db, nil
}

// Database returns the named database.
func (s *Store) Database(name string) (*Database, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, ok := s.databases[name]
	if !ok {
		return nil, ErrDatabaseNotFound
	}
	return db, nil
}

// Close closes every open collection and index file handle across all databases.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, db := range s.databases {
		if err := db.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Database is a named group of collections and indexes, each persisted as its
// own file under the database's directory.
type Database struct {
	name   string
	path   string
	config Config

	mu          sync.RWMutex
	collections map[string]*collection.Collection
	collFiles   map[string]*storage.DirectFileIo
	indexes     map[string]*btree.Tree
	indexFiles  map[string]*storage.DirectFileIo
}

func (db *Database) collectionPath(name string) string {
	return filepath.Join(db.path, name+collectionExt)
}

func (db *Database) indexPath(name string) string {
	return filepath.Join(db.path, name+indexExt)
}

func (db *Database) openFileIO(path string) (storage.FileIO, *storage.DirectFileIo, error) {
	direct, err := storage.OpenDirectFileIo(path)
	if err != nil {
		return nil, nil, err
	}
	if db.config.WriteBehindCapacity > 0 {
		return storage.NewWriteBehindFileIO(direct, db.config.WriteBehindCapacity), direct, nil
	}
	return direct, direct, nil
}

func (db *Database) attachCollection(name string) error {
	io, direct, err := db.openFileIO(db.collectionPath(name))
	if err != nil {
		return err
	}
	coll, err := collection.Open(io)
	if err != nil {
		return err
	}
	db.collections[name] = coll
	db.collFiles[name] = direct
	return nil
}

// CreateCollection creates a new, empty collection named name.
func (db *Database) CreateCollection(name string) (*collection.Collection, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.collections[name]; exists {
		return nil, ErrCollectionExists
	}
	io, direct, err := db.openFileIO(db.collectionPath(name))
	if err != nil {
		return nil, err
	}
	coll, err := collection.Open(io)
	if err != nil {
		return nil, err
	}
	db.collections[name] = coll
	db.collFiles[name] = direct
	return coll, nil
}

// Collection returns the named collection.
func (db *Database) Collection(name string) (*collection.Collection, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	coll, ok := db.collections[name]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return coll, nil
}

// Index opens the named index, creating it on first use. Since max_degree and
// uniqueness are not persisted, every call must supply the same values used
// when the index was first created. If the index is already open in this
// Database, the open tree is returned as-is: maxDegree and unique are ignored
// and a mismatch with the open tree's configuration is not detected.
func (db *Database) Index(name string, keyType codec.FieldType, maxDegree int, unique bool) (*btree.Tree, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if maxDegree <= 0 {
		maxDegree = db.config.IndexMaxDegree
	}
	if tree, ok := db.indexes[name]; ok {
		return tree, nil
	}
	io, direct, err := db.openFileIO(db.indexPath(name))
	if err != nil {
		return nil, err
	}
	pager, err := storage.NewPager(io)
	if err != nil {
		return nil, err
	}
	tree, err := btree.Open(pager, keyType, maxDegree, unique)
	if err != nil {
		return nil, err
	}
	db.indexes[name] = tree
	db.indexFiles[name] = direct
	return tree, nil
}

func (db *Database) close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	var firstErr error
	for _, f := range db.collFiles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, f := range db.indexFiles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
