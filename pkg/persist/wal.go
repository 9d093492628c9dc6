package persist

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// WALConfig configures a Writer's backing file.
type WALConfig struct {
	FilePath      string        // path to the append-only log file
	FsyncInterval time.Duration // how often to fsync (0 = every write)
	BufferSize    int           // write buffer size
}

// Writer appends Order and List mutation records to a single growing log
// file, the durability layer underneath Manager's pebble-backed index.
type Writer struct {
	file       *os.File
	writer     *bufio.Writer
	codec      *RecordCodec
	fsyncTimer *time.Timer
	config     WALConfig
	mutex      sync.Mutex
	offset     int64
}

// NewWriter opens (or creates) the log file at config.FilePath for append.
func NewWriter(config WALConfig) (*Writer, error) {
	if config.BufferSize == 0 {
		config.BufferSize = 64 * 1024
	}
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return nil, err
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	w := &Writer{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		codec:  NewRecordCodec(),
		config: config,
		offset: stat.Size(),
	}
	if config.FsyncInterval > 0 {
		w.fsyncTimer = time.AfterFunc(config.FsyncInterval, func() {
			w.mutex.Lock()
			defer w.mutex.Unlock()
			w.sync()
		})
	}
	return w, nil
}

// Put appends a key-value record and returns the byte offset it starts at.
func (w *Writer) Put(key, value []byte) (int64, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	data, err := w.codec.Encode(key, value)
	if err != nil {
		return 0, err
	}
	n, err := w.writer.Write(data)
	if err != nil {
		return 0, err
	}
	recordOffset := w.offset
	w.offset += int64(n)

	if w.config.FsyncInterval == 0 {
		if err := w.sync(); err != nil {
			return 0, err
		}
	} else if w.fsyncTimer != nil {
		w.fsyncTimer.Reset(w.config.FsyncInterval)
	}
	return recordOffset, nil
}

// Sync forces a flush and fsync to disk.
func (w *Writer) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.sync()
}

func (w *Writer) sync() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close flushes, fsyncs, and closes the log file.
func (w *Writer) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.fsyncTimer != nil {
		w.fsyncTimer.Stop()
	}
	if err := w.sync(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Size returns the current log size in bytes.
func (w *Writer) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Path returns the backing file path.
func (w *Writer) Path() string {
	return w.config.FilePath
}
