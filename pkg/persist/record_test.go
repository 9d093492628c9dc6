package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCodecRoundTrip(t *testing.T) {
	c := NewRecordCodec()
	data, err := c.Encode([]byte("order:r1"), []byte(`{"x":1}`))
	require.NoError(t, err)

	rec, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "order:r1", string(rec.Key))
	assert.Equal(t, `{"x":1}`, string(rec.Value))
	assert.NoError(t, rec.Validate())
}

func TestRecordCodecDetectsCorruption(t *testing.T) {
	c := NewRecordCodec()
	data, err := c.Encode([]byte("k"), []byte("v"))
	require.NoError(t, err)

	data[len(data)-1] ^= 0xff // flip a bit in the value
	_, err = c.Decode(data)
	assert.ErrorIs(t, err, ErrCorruption)
}

func TestRecordCodecRejectsTruncatedData(t *testing.T) {
	c := NewRecordCodec()
	data, err := c.Encode([]byte("k"), []byte("value"))
	require.NoError(t, err)

	_, err = c.Decode(data[:len(data)-2])
	assert.Error(t, err)
}

func TestRecordSize(t *testing.T) {
	r := NewRecord([]byte("ab"), []byte("cde"))
	assert.Equal(t, headerSize+2+3, r.Size())
}
