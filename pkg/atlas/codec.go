package atlas

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/atlast-io/atlast/pkg/errors"
)

// Binary layout of atlas.data, all fields little-endian:
//
//	uint64  record count
//	repeated per record:
//	  float32  x
//	  float32  y
//	  float32  width
//	  float32  height
//	  uint64   name length (bytes)
//	  []byte   name (UTF-8)
//
// The layout matches the historical serialization of the format, so archives
// written by older builds deserialize unchanged. The count prefix makes the
// file self-describing: no external schema negotiation is needed.

// MarshalRecords serializes records to the atlas.data binary layout.
// The output is deterministic: the same records always produce the same bytes.
func MarshalRecords(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	writeU64 := func(v uint64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		buf.Write(b[:])
	}
	writeF32 := func(v float32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		buf.Write(b[:])
	}

	writeU64(uint64(len(records)))
	for _, r := range records {
		writeF32(r.X)
		writeF32(r.Y)
		writeF32(r.Width)
		writeF32(r.Height)
		writeU64(uint64(len(r.Name)))
		buf.WriteString(r.Name)
	}
	return buf.Bytes(), nil
}

// UnmarshalRecords deserializes an atlas.data blob back into the ordered
// record sequence. The float round-trip is bit-exact at single precision.
func UnmarshalRecords(data []byte) ([]Record, error) {
	r := &reader{data: data}

	count, err := r.u64()
	if err != nil {
		return nil, err
	}
	// Each record is at least 4*4 float bytes plus an 8-byte name length, so
	// an absurd count in a truncated file fails up front instead of during a
	// giant allocation.
	if count > uint64(len(r.data))/24 {
		return nil, errors.New(errors.ErrCodeInvalidArchive,
			"record count %d exceeds what %d bytes can hold", count, len(data))
	}

	records := make([]Record, 0, count)
	for i := uint64(0); i < count; i++ {
		var rec Record
		if rec.X, err = r.f32(); err != nil {
			return nil, err
		}
		if rec.Y, err = r.f32(); err != nil {
			return nil, err
		}
		if rec.Width, err = r.f32(); err != nil {
			return nil, err
		}
		if rec.Height, err = r.f32(); err != nil {
			return nil, err
		}
		if rec.Name, err = r.str(); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if len(r.data) != 0 {
		return nil, errors.New(errors.ErrCodeInvalidArchive,
			"%d trailing bytes after %d records", len(r.data), count)
	}
	return records, nil
}

// reader consumes the blob front to back.
type reader struct {
	data []byte
}

func (r *reader) take(n int) ([]byte, error) {
	if len(r.data) < n {
		return nil, errors.New(errors.ErrCodeInvalidArchive,
			"truncated atlas data: need %d bytes, have %d", n, len(r.data))
	}
	b := r.data[:n]
	r.data = r.data[n:]
	return b, nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) f32() (float32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) str() (string, error) {
	n, err := r.u64()
	if err != nil {
		return "", err
	}
	if n > uint64(len(r.data)) {
		return "", errors.New(errors.ErrCodeInvalidArchive,
			"name length %d exceeds remaining %d bytes", n, len(r.data))
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
