package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/armadaproject/qpp/pkg/api"
)

// Snapshot is the persisted form of an Archive: the whole ring, its dimensions and the write cursor.
type Snapshot struct {
	Results    []api.BitVector `json:"results" cbor:"1,keyasint"`
	Qubits     uint            `json:"qubits" cbor:"2,keyasint"`
	Capacity   uint            `json:"capacity" cbor:"3,keyasint"`
	CurrentPos uint            `json:"current_pos" cbor:"4,keyasint"`
}

func newSnapshot(qubits, capacity uint) Snapshot {
	results := make([]api.BitVector, capacity)
	for i := range results {
		results[i] = make(api.BitVector, qubits)
	}
	return Snapshot{
		Results:    results,
		Qubits:     qubits,
		Capacity:   capacity,
		CurrentPos: 0,
	}
}

// Validate checks the structural invariants of the ring.
func (s *Snapshot) Validate() error {
	if s.Qubits == 0 {
		return errors.New("snapshot qubits must be at least 1")
	}
	if s.Capacity == 0 {
		return errors.New("snapshot capacity must be at least 1")
	}
	if uint(len(s.Results)) != s.Capacity {
		return errors.Errorf("snapshot holds %d vectors but capacity is %d", len(s.Results), s.Capacity)
	}
	if s.CurrentPos >= s.Capacity {
		return errors.Errorf("snapshot cursor %d is outside capacity %d", s.CurrentPos, s.Capacity)
	}
	for i, v := range s.Results {
		if uint(len(v)) != s.Qubits {
			return errors.Errorf("snapshot vector %d has width %d, expected %d", i, len(v), s.Qubits)
		}
		for j, bit := range v {
			if bit > 1 {
				return errors.Errorf("snapshot vector %d has value %d at bit %d", i, bit, j)
			}
		}
	}
	return nil
}

func (s *Snapshot) deepCopy() *Snapshot {
	results := make([]api.BitVector, len(s.Results))
	for i, v := range s.Results {
		results[i] = append(api.BitVector(nil), v...)
	}
	return &Snapshot{
		Results:    results,
		Qubits:     s.Qubits,
		Capacity:   s.Capacity,
		CurrentPos: s.CurrentPos,
	}
}

// Format is the wire encoding of a persisted snapshot.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

func (f *Format) UnmarshalText(text []byte) error {
	switch Format(strings.ToLower(string(text))) {
	case FormatJSON, "":
		*f = FormatJSON
	case FormatCBOR:
		*f = FormatCBOR
	default:
		return fmt.Errorf("unknown snapshot format %q", text)
	}
	return nil
}

// Compression is applied to the encoded snapshot before it is stored.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

func (c *Compression) UnmarshalText(text []byte) error {
	switch Compression(strings.ToLower(string(text))) {
	case CompressionNone, "":
		*c = CompressionNone
	case CompressionZstd:
		*c = CompressionZstd
	default:
		return fmt.Errorf("unknown snapshot compression %q", text)
	}
	return nil
}

var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("archive: CBOR encoder initialization failed: " + err.Error())
	}
}

// Codec turns snapshots into bytes and back.
type Codec struct {
	Format      Format
	Compression Compression
}

func (c Codec) Encode(s *Snapshot) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch c.Format {
	case FormatCBOR:
		data, err = cborEncMode.Marshal(s)
	default:
		data, err = json.Marshal(s)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encoding snapshot as %s", c.Format)
	}

	if c.Compression == CompressionZstd {
		var buf bytes.Buffer
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			return nil, errors.WithStack(err)
		}
		if err := w.Close(); err != nil {
			return nil, errors.WithStack(err)
		}
		data = buf.Bytes()
	}
	return data, nil
}

func (c Codec) Decode(data []byte) (*Snapshot, error) {
	if c.Compression == CompressionZstd {
		r, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer r.Close()
		data, err = r.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Wrap(err, "decompressing snapshot")
		}
	}

	s := &Snapshot{}
	var err error
	switch c.Format {
	case FormatCBOR:
		err = cbor.Unmarshal(data, s)
	default:
		err = json.Unmarshal(data, s)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding snapshot as %s", c.Format)
	}
	return s, nil
}
