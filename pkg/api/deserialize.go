package api

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// BitVector is one measurement stored in the archive, most significant bit first, one byte per bit.
// It is rendered in json as an array of 0 and 1 rather than as base64.
type BitVector []byte

func (v BitVector) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.Grow(2*len(v) + 2)
	b.WriteByte('[')
	for i, bit := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(bit)))
	}
	b.WriteByte(']')
	return []byte(b.String()), nil
}

func (v *BitVector) UnmarshalJSON(data []byte) error {
	var bits []int
	if err := json.Unmarshal(data, &bits); err != nil {
		return err
	}
	out := make(BitVector, len(bits))
	for i, bit := range bits {
		if bit != 0 && bit != 1 {
			return errors.Errorf("bit %d has value %d, expected 0 or 1", i, bit)
		}
		out[i] = byte(bit)
	}
	*v = out
	return nil
}

// String renders the vector as a bit-string, e.g. "0110".
func (v BitVector) String() string {
	var b strings.Builder
	b.Grow(len(v))
	for _, bit := range v {
		if bit == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// UnmarshalJSON rejects unknown modes while decoding; an empty string decodes to DefaultMode.
func (x *Mode) UnmarshalJSON(data []byte) error {
	var t string
	if e := json.Unmarshal(data, &t); e != nil {
		return e
	}
	m, e := ParseMode(t)
	if e != nil {
		return e
	}
	*x = m
	return nil
}
