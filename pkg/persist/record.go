package persist

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"time"
)

// Record is one WAL entry: a logical key plus its current value, with a
// checksum and timestamp for crash recovery.
type Record struct {
	CRC32     uint32
	KeySize   uint32
	ValueSize uint32
	Timestamp uint64
	Key       []byte
	Value     []byte
}

// RecordCodec serializes Records to the on-disk WAL format:
// [CRC32(4)][KeySize(4)][ValueSize(4)][Timestamp(8)][Key][Value], all
// integers little-endian.
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance.
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

const headerSize = 20

// Encode serializes a key-value pair into a binary record.
func (c *RecordCodec) Encode(key, value []byte) ([]byte, error) {
	r := NewRecord(key, value)
	r.CRC32 = r.calculateCRC32()

	buf := make([]byte, headerSize+len(key)+len(value))
	binary.LittleEndian.PutUint32(buf[0:4], r.CRC32)
	binary.LittleEndian.PutUint32(buf[4:8], r.KeySize)
	binary.LittleEndian.PutUint32(buf[8:12], r.ValueSize)
	binary.LittleEndian.PutUint64(buf[12:20], r.Timestamp)
	copy(buf[headerSize:headerSize+len(key)], key)
	copy(buf[headerSize+len(key):], value)
	return buf, nil
}

// Decode deserializes a binary record, including its key and value.
func (c *RecordCodec) Decode(data []byte) (*Record, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("persist: record too short: %d bytes", len(data))
	}

	keySize := binary.LittleEndian.Uint32(data[4:8])
	valueSize := binary.LittleEndian.Uint32(data[8:12])
	want := headerSize + int(keySize) + int(valueSize)
	if len(data) < want {
		return nil, fmt.Errorf("persist: record truncated: have %d bytes, want %d", len(data), want)
	}

	r := &Record{
		CRC32:     binary.LittleEndian.Uint32(data[0:4]),
		KeySize:   keySize,
		ValueSize: valueSize,
		Timestamp: binary.LittleEndian.Uint64(data[12:20]),
		Key:       append([]byte(nil), data[headerSize:headerSize+int(keySize)]...),
		Value:     append([]byte(nil), data[headerSize+int(keySize):want]...),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate recomputes the record's CRC32 and compares it against the
// stored checksum.
func (r *Record) Validate() error {
	if r.calculateCRC32() != r.CRC32 {
		return ErrCorruption
	}
	return nil
}

// Size returns the total encoded size of the record.
func (r *Record) Size() int {
	return headerSize + len(r.Key) + len(r.Value)
}

// NewRecord creates a new record stamped with the current time. CRC32 is
// left unset; callers that need a valid record call calculateCRC32 (Encode
// does this automatically).
func NewRecord(key, value []byte) *Record {
	return &Record{
		KeySize:   uint32(len(key)),
		ValueSize: uint32(len(value)),
		Timestamp: uint64(time.Now().UnixNano()),
		Key:       key,
		Value:     value,
	}
}

func (r *Record) calculateCRC32() uint32 {
	crc := crc32.NewIEEE()
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], r.KeySize)
	crc.Write(lenBuf[:])
	binary.LittleEndian.PutUint32(lenBuf[:], r.ValueSize)
	crc.Write(lenBuf[:])
	var tsBuf [8]byte
	binary.LittleEndian.PutUint64(tsBuf[:], r.Timestamp)
	crc.Write(tsBuf[:])
	crc.Write(r.Key)
	crc.Write(r.Value)
	return crc.Sum32()
}
