package persist

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
)

// ReaderConfig configures a Reader's starting position.
type ReaderConfig struct {
	FilePath    string
	StartOffset int64
}

// Reader provides sequential and random access to records written by a
// Writer, used both for normal reads-by-offset and for WAL replay at
// startup.
type Reader struct {
	file   *os.File
	reader *bufio.Reader
	codec  *RecordCodec
	offset int64
	config ReaderConfig
}

// NewReader opens config.FilePath for reading, seeking to StartOffset.
func NewReader(config ReaderConfig) (*Reader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}
	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, io.SeekStart); err != nil {
			file.Close()
			return nil, err
		}
	}
	return &Reader{
		file:   file,
		reader: bufio.NewReader(file),
		codec:  NewRecordCodec(),
		offset: config.StartOffset,
		config: config,
	}, nil
}

// ReadNext reads the next record from the current offset, returning io.EOF
// once the log is exhausted.
func (r *Reader) ReadNext() (*Record, error) {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(r.reader, header)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	r.offset += int64(n)

	keySize := binary.LittleEndian.Uint32(header[4:8])
	valueSize := binary.LittleEndian.Uint32(header[8:12])
	dataSize := int(keySize) + int(valueSize)

	data := make([]byte, dataSize)
	if dataSize > 0 {
		n, err = io.ReadFull(r.reader, data)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, ErrCorruption
			}
			return nil, err
		}
		r.offset += int64(n)
	}

	full := make([]byte, headerSize+dataSize)
	copy(full[:headerSize], header)
	copy(full[headerSize:], data)

	record, err := r.codec.Decode(full)
	if err != nil {
		return nil, ErrCorruption
	}
	return record, nil
}

// ReadAt reads the record starting at the given byte offset, reopening the
// file so concurrent writers remain visible.
func (r *Reader) ReadAt(offset int64) (*Record, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(file, header); err != nil {
		return nil, ErrCorruption
	}

	keySize := binary.LittleEndian.Uint32(header[4:8])
	valueSize := binary.LittleEndian.Uint32(header[8:12])
	dataSize := int(keySize) + int(valueSize)

	data := make([]byte, dataSize)
	if dataSize > 0 {
		if _, err := io.ReadFull(file, data); err != nil {
			return nil, ErrCorruption
		}
	}

	full := make([]byte, headerSize+dataSize)
	copy(full[:headerSize], header)
	copy(full[headerSize:], data)

	record, err := r.codec.Decode(full)
	if err != nil {
		return nil, ErrCorruption
	}
	return record, nil
}

// Seek repositions the sequential reader, discarding any buffered data.
func (r *Reader) Seek(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	r.reader = bufio.NewReader(r.file)
	r.offset = offset
	return nil
}

// Offset returns the current sequential read offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
