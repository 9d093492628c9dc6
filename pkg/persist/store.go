package persist

import (
	"github.com/cockroachdb/pebble"
)

// Store is a pebble-backed key-value index giving O(1) lookup of the
// latest value for a logical key (a replica id or list name), the same
// role a hash index plays over a bitcask-style log: the Writer/Reader
// pair is the durability layer, Store is the fast-lookup layer rebuilt
// from it on recovery.
type Store struct {
	db *pebble.DB
}

// NewStore opens (or creates) a pebble database at path.
func NewStore(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Put writes data under key, overwriting any previous value.
func (s *Store) Put(key string, data []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	return s.db.Set([]byte(key), data, pebble.NoSync)
}

// Get returns the value stored under key.
func (s *Store) Get(key string) ([]byte, error) {
	data, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes key, if present.
func (s *Store) Delete(key string) error {
	return s.db.Delete([]byte(key), pebble.NoSync)
}

// Keys returns every key with the given prefix.
func (s *Store) Keys(prefix string) ([]string, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	return keys, iter.Error()
}

// prefixUpperBound returns the smallest key strictly greater than every
// key with the given prefix, or nil if the prefix is all 0xff bytes.
func prefixUpperBound(prefix string) []byte {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 0xff {
			out := append([]byte(nil), b[:i+1]...)
			out[i]++
			return out
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
