// Package persist provides durability for Order metadata and List/Outline
// snapshots: an append-only WAL records every write for crash recovery,
// and a pebble-backed Store gives fast point lookups of each key's
// current value, rebuilt from the WAL on every Open the same way a
// bitcask-style store rebuilds its hash index from its log.
package persist

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ssargent/listpositions/pkg/order"
)

const (
	orderPrefix = "order:"
	listPrefix  = "list:"
)

// Manager is the durability facade used by pkg/di to wire Order and List
// state to disk.
type Manager struct {
	writer *Writer
	store  *Store
	walPath string
}

// Open opens (creating if necessary) a Manager rooted at dataDir,
// truncating any corrupted tail of the WAL and replaying it into the
// index store.
func Open(dataDir string) (*Manager, error) {
	walPath := filepath.Join(dataDir, "wal.log")
	storePath := filepath.Join(dataDir, "index")

	if err := truncateCorruptedTail(walPath); err != nil {
		return nil, fmt.Errorf("persist: validating wal: %w", err)
	}

	store, err := NewStore(storePath)
	if err != nil {
		return nil, fmt.Errorf("persist: opening index: %w", err)
	}

	if err := replay(walPath, store); err != nil {
		store.Close()
		return nil, fmt.Errorf("persist: replaying wal: %w", err)
	}

	writer, err := NewWriter(WALConfig{FilePath: walPath})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("persist: opening wal for append: %w", err)
	}

	return &Manager{writer: writer, store: store, walPath: walPath}, nil
}

// truncateCorruptedTail scans the WAL end to end and truncates it at the
// last record that validates, discarding a possible torn write from a
// previous crash.
func truncateCorruptedTail(walPath string) error {
	if _, err := os.Stat(walPath); os.IsNotExist(err) {
		return nil
	}

	reader, err := NewReader(ReaderConfig{FilePath: walPath})
	if err != nil {
		return err
	}
	defer reader.Close()

	lastGood := int64(0)
	for {
		_, err := reader.ReadNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			if err == ErrCorruption {
				break
			}
			return err
		}
		lastGood = reader.Offset()
	}

	file, err := os.OpenFile(walPath, os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer file.Close()
	return file.Truncate(lastGood)
}

// replay walks every record in the WAL and installs its latest value into
// store, so the index reflects the log even if store's data directory was
// deleted or is stale relative to it.
func replay(walPath string, store *Store) error {
	if _, err := os.Stat(walPath); os.IsNotExist(err) {
		return nil
	}

	reader, err := NewReader(ReaderConfig{FilePath: walPath})
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		rec, err := reader.ReadNext()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := store.Put(string(rec.Key), rec.Value); err != nil {
			return err
		}
	}
}

func (m *Manager) put(key string, data []byte) error {
	if _, err := m.writer.Put([]byte(key), data); err != nil {
		return err
	}
	return m.store.Put(key, data)
}

// SaveOrderMeta durably persists the full set of bunch metadata for a
// replica's Order, as returned by Order.Save.
func (m *Manager) SaveOrderMeta(replicaID string, metas []order.BunchMeta) error {
	data, err := json.Marshal(metas)
	if err != nil {
		return fmt.Errorf("persist: marshal order meta: %w", err)
	}
	return m.put(orderPrefix+replicaID, data)
}

// LoadOrderMeta returns the previously saved bunch metadata for a
// replica, or (nil, nil) if none was ever saved.
func (m *Manager) LoadOrderMeta(replicaID string) ([]order.BunchMeta, error) {
	data, err := m.store.Get(orderPrefix + replicaID)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var metas []order.BunchMeta
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil, fmt.Errorf("persist: unmarshal order meta: %w", err)
	}
	return metas, nil
}

// SaveListSnapshot durably persists the caller's pre-serialized snapshot
// of a List[T]'s or Outline's content. Callers marshal their own
// itemlist.Snapshot[T] before calling this, since Manager cannot be
// generic over every T a caller might use.
func (m *Manager) SaveListSnapshot(listName string, data []byte) error {
	return m.put(listPrefix+listName, data)
}

// LoadListSnapshot returns the previously saved snapshot bytes for a
// list, or (nil, nil) if none was ever saved.
func (m *Manager) LoadListSnapshot(listName string) ([]byte, error) {
	data, err := m.store.Get(listPrefix + listName)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Lists returns the names of every list with a saved snapshot.
func (m *Manager) Lists() ([]string, error) {
	keys, err := m.store.Keys(listPrefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k[len(listPrefix):]
	}
	return names, nil
}

// Close flushes and closes the WAL and index store.
func (m *Manager) Close() error {
	werr := m.writer.Close()
	serr := m.store.Close()
	if werr != nil {
		return werr
	}
	return serr
}
