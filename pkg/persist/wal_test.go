package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriterCreatesFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "wal.log")

	w, err := NewWriter(WALConfig{FilePath: filePath, BufferSize: 4096})
	require.NoError(t, err)
	assert.FileExists(t, filePath)
	assert.Equal(t, int64(0), w.Size())
	require.NoError(t, w.Close())
}

func TestNewWriterCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "nested", "deep", "wal.log")

	w, err := NewWriter(WALConfig{FilePath: filePath})
	require.NoError(t, err)
	assert.DirExists(t, filepath.Dir(filePath))
	require.NoError(t, w.Close())
}

func TestWriterPutThenReadBack(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "wal.log")

	w, err := NewWriter(WALConfig{FilePath: filePath})
	require.NoError(t, err)

	off1, err := w.Put([]byte("order:r1"), []byte(`[{"bunchId":"b1"}]`))
	require.NoError(t, err)
	off2, err := w.Put([]byte("list:todo"), []byte(`[]`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(ReaderConfig{FilePath: filePath})
	require.NoError(t, err)
	defer r.Close()

	rec1, err := r.ReadAt(off1)
	require.NoError(t, err)
	assert.Equal(t, "order:r1", string(rec1.Key))

	rec2, err := r.ReadAt(off2)
	require.NoError(t, err)
	assert.Equal(t, "list:todo", string(rec2.Key))
}

func TestReaderSequentialReadNext(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "wal.log")

	w, err := NewWriter(WALConfig{FilePath: filePath})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := w.Put([]byte("k"), []byte("v"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r, err := NewReader(ReaderConfig{FilePath: filePath})
	require.NoError(t, err)
	defer r.Close()

	count := 0
	for {
		_, err := r.ReadNext()
		if err != nil {
			break
		}
		count++
	}
	assert.Equal(t, 3, count)
}
