// Package programstore persists program blobs in LevelDB under their
// blake2b-256 hash and keeps recently used decoded programs in memory so
// that every instance running the same code shares one read-only Program.
package programstore

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/crypto/blake2b"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/program"
)

// DefaultCacheSize is the number of decoded programs kept per kind.
const DefaultCacheSize = 64

var blobPrefix = []byte("pvm-blob-")

// Hash is the key a blob is stored under.
func Hash(blob []byte) common.Hash {
	return common.Hash(blake2b.Sum256(blob))
}

func blobKey(h common.Hash) []byte {
	return append(append(make([]byte, 0, len(blobPrefix)+common.HashLength), blobPrefix...), h.Bytes()...)
}

// Store is safe for concurrent use.
type Store struct {
	db        *leveldb.DB
	programs  *lru.Cache[common.Hash, *program.Program]
	standards *lru.Cache[common.Hash, *program.StandardProgram]
}

// Open opens or creates the store at path. An empty path keeps everything
// in memory.
func Open(path string, cacheSize int) (*Store, error) {
	if cacheSize < 1 {
		cacheSize = DefaultCacheSize
	}
	var db *leveldb.DB
	var err error
	if path == "" {
		db, err = leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, &opt.Options{NoSync: true})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open program store at %q: %w", path, err)
	}
	programs, err := lru.New[common.Hash, *program.Program](cacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	standards, err := lru.New[common.Hash, *program.StandardProgram](cacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	log.Debug(log.StoreModule, "program store opened", "path", path, "cache", cacheSize)
	return &Store{db: db, programs: programs, standards: standards}, nil
}

func storeErr(op string, h common.Hash, err error) error {
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return fmt.Errorf("%w: %s", jamerrors.ErrProgramNotFound, h.Hex())
	case errors.Is(err, leveldb.ErrClosed):
		return jamerrors.ErrStoreClosed
	}
	return fmt.Errorf("%s %s: %w", op, h.Hex(), err)
}

// Put stores blob and returns its hash. Storing the same blob twice is a
// no-op.
func (s *Store) Put(blob []byte) (common.Hash, error) {
	h := Hash(blob)
	if err := s.db.Put(blobKey(h), blob, nil); err != nil {
		return h, storeErr("put", h, err)
	}
	log.Trace(log.StoreModule, "blob stored", "hash", h, "len", len(blob))
	return h, nil
}

// Has reports whether a blob is stored under h.
func (s *Store) Has(h common.Hash) (bool, error) {
	ok, err := s.db.Has(blobKey(h), nil)
	if err != nil {
		return false, storeErr("has", h, err)
	}
	return ok, nil
}

// Get returns the raw blob stored under h.
func (s *Store) Get(h common.Hash) ([]byte, error) {
	blob, err := s.db.Get(blobKey(h), nil)
	if err != nil {
		return nil, storeErr("get", h, err)
	}
	return blob, nil
}

// Program returns the decoded generic program stored under h. Concurrent
// callers receive the same *program.Program.
func (s *Store) Program(h common.Hash) (*program.Program, error) {
	if p, ok := s.programs.Get(h); ok {
		return p, nil
	}
	blob, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	p, err := program.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", h.Hex(), err)
	}
	if prev, ok, _ := s.programs.PeekOrAdd(h, p); ok {
		return prev, nil
	}
	log.Trace(log.StoreModule, "program decoded", "hash", h, "code", len(p.Code()))
	return p, nil
}

// Standard returns the decoded standard program stored under h.
func (s *Store) Standard(h common.Hash) (*program.StandardProgram, error) {
	if std, ok := s.standards.Get(h); ok {
		return std, nil
	}
	blob, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	std, err := program.DecodeStandard(blob)
	if err != nil {
		return nil, fmt.Errorf("standard program %s: %w", h.Hex(), err)
	}
	if prev, ok, _ := s.standards.PeekOrAdd(h, std); ok {
		return prev, nil
	}
	return std, nil
}

// Delete removes the blob under h and drops its decoded forms.
func (s *Store) Delete(h common.Hash) error {
	s.programs.Remove(h)
	s.standards.Remove(h)
	if err := s.db.Delete(blobKey(h), nil); err != nil {
		return storeErr("delete", h, err)
	}
	return nil
}

// Hashes lists every stored blob hash in key order.
func (s *Store) Hashes() ([]common.Hash, error) {
	iter := s.db.NewIterator(util.BytesPrefix(blobPrefix), nil)
	defer iter.Release()

	var out []common.Hash
	for iter.Next() {
		out = append(out, common.BytesToHash(iter.Key()[len(blobPrefix):]))
	}
	if err := iter.Error(); err != nil {
		if errors.Is(err, leveldb.ErrClosed) {
			return nil, jamerrors.ErrStoreClosed
		}
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return out, nil
}

// Cached is the number of decoded programs held in memory.
func (s *Store) Cached() int {
	return s.programs.Len() + s.standards.Len()
}

func (s *Store) Close() error {
	s.programs.Purge()
	s.standards.Purge()
	return s.db.Close()
}
