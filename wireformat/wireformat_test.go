package wireformat

import (
	"bytes"
	"testing"

	"github.com/notargets/mountainrange/mrerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := []float64{0, 1, 2, 3, 4}
	h := []float64{5, 4, 3, 2, 1}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 1.5, r, h))
	assert.Equal(t, 24+16*len(h), buf.Len())

	hdr, gotR, gotH, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), hdr.Ndims)
	assert.Equal(t, uint64(len(h)), hdr.Cells)
	assert.Equal(t, 1.5, hdr.T)
	assert.Equal(t, r, gotR)
	assert.Equal(t, h, gotH)
}

func TestDecodeUnsupportedDimensions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 0, []float64{1, 2, 3}, []float64{1, 2, 3}))
	raw := buf.Bytes()
	raw[0] = 2 // corrupt ndims

	_, _, _, err := Decode(bytes.NewReader(raw))
	assert.ErrorIs(t, err, mrerrors.ErrUnsupportedDimensions)
}

func TestDecodeCorruptInputShortBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 0, []float64{1, 2, 3}, []float64{1, 2, 3}))
	raw := buf.Bytes()[:buf.Len()-8] // truncate one trailing float64

	_, _, _, err := Decode(bytes.NewReader(raw))
	assert.ErrorIs(t, err, mrerrors.ErrCorruptInput)
}

func TestDecodeCorruptInputTrailingBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 0, []float64{1, 2, 3}, []float64{1, 2, 3}))
	buf.WriteByte(0xFF)

	_, _, _, err := Decode(&buf)
	assert.ErrorIs(t, err, mrerrors.ErrCorruptInput)
}
