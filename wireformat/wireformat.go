// Package wireformat implements the little-endian binary layout used to
// persist a mountain range: an 8-byte ndims, an 8-byte cell count, an
// 8-byte simulation time, then the uplift rate and height arrays back to
// back, all IEEE-754 binary64. This is the "external collaborator" the
// core Range consumes via FromStream and produces via WriteTo.
package wireformat

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/notargets/mountainrange/mrerrors"
)

// headerSize is the byte length of the ndims/cells/t header.
const headerSize = 8 + 8 + 8

// supportedDims is the only dimensionality this format accepts.
const supportedDims = 1

// Header holds the fixed-size fields preceding the r and h arrays.
type Header struct {
	Ndims uint64
	Cells uint64
	T     float64
}

// Decode reads a full mountain range payload from r. It returns
// mrerrors.ErrUnsupportedDimensions if the declared ndims isn't 1, and
// mrerrors.ErrCorruptInput if the stream is short or its length doesn't
// match the declared cell count. Any other read failure is wrapped in
// mrerrors.ErrIOFailure.
func Decode(r io.Reader) (Header, []float64, []float64, error) {
	var hdr Header

	headerBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, nil, nil, fmt.Errorf("%w: could not read %d-byte header: %v",
				mrerrors.ErrCorruptInput, headerSize, err)
		}
		return Header{}, nil, nil, fmt.Errorf("%w: reading header: %v", mrerrors.ErrIOFailure, err)
	}

	hdr.Ndims = binary.LittleEndian.Uint64(headerBuf[0:8])
	hdr.Cells = binary.LittleEndian.Uint64(headerBuf[8:16])
	hdr.T = math.Float64frombits(binary.LittleEndian.Uint64(headerBuf[16:24]))

	if hdr.Ndims != supportedDims {
		return Header{}, nil, nil, fmt.Errorf("%w: ndims=%d, only 1-dimensional ranges are supported",
			mrerrors.ErrUnsupportedDimensions, hdr.Ndims)
	}
	if hdr.Cells < 3 {
		return Header{}, nil, nil, fmt.Errorf("%w: cells=%d, must be at least 3",
			mrerrors.ErrCorruptInput, hdr.Cells)
	}

	body := make([]byte, 16*hdr.Cells)
	n, err := io.ReadFull(r, body)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Header{}, nil, nil, fmt.Errorf("%w: reading body: %v", mrerrors.ErrIOFailure, err)
	}
	if uint64(n) != uint64(len(body)) {
		return Header{}, nil, nil, fmt.Errorf(
			"%w: declared cells=%d requires %d body bytes, found %d",
			mrerrors.ErrCorruptInput, hdr.Cells, len(body), n)
	}

	// The stream must end exactly here: any trailing byte is a size
	// mismatch per the spec's "total file size must equal 24 + 16*cells".
	var extra [1]byte
	if m, _ := r.Read(extra[:]); m > 0 {
		return Header{}, nil, nil, fmt.Errorf("%w: trailing bytes past declared cells=%d",
			mrerrors.ErrCorruptInput, hdr.Cells)
	}

	uplift := make([]float64, hdr.Cells)
	height := make([]float64, hdr.Cells)
	for i := uint64(0); i < hdr.Cells; i++ {
		uplift[i] = math.Float64frombits(binary.LittleEndian.Uint64(body[8*i : 8*i+8]))
	}
	rOffset := 8 * hdr.Cells
	for i := uint64(0); i < hdr.Cells; i++ {
		height[i] = math.Float64frombits(binary.LittleEndian.Uint64(body[rOffset+8*i : rOffset+8*i+8]))
	}

	return hdr, uplift, height, nil
}

// Encode writes t, r, and h in the format Decode expects.
func Encode(w io.Writer, t float64, r, h []float64) error {
	if len(r) != len(h) {
		return fmt.Errorf("%w: uplift rate length %d does not match height length %d",
			mrerrors.ErrCorruptInput, len(r), len(h))
	}
	cells := uint64(len(h))

	buf := make([]byte, headerSize+16*len(h))
	binary.LittleEndian.PutUint64(buf[0:8], supportedDims)
	binary.LittleEndian.PutUint64(buf[8:16], cells)
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(t))

	off := headerSize
	for _, v := range r {
		binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v))
		off += 8
	}
	for _, v := range h {
		binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v))
		off += 8
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: writing payload: %v", mrerrors.ErrIOFailure, err)
	}
	return nil
}
