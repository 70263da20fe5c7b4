package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitVector_JsonRoundTrip(t *testing.T) {
	v := BitVector{0, 1, 1, 0}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "[0,1,1,0]", string(data))

	var decoded BitVector
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, v, decoded)
	assert.Equal(t, "0110", decoded.String())
}

func TestBitVector_EmptyAndInvalid(t *testing.T) {
	data, err := json.Marshal(BitVector{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	var decoded BitVector
	assert.Error(t, json.Unmarshal([]byte("[0,2]"), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`"AQ=="`), &decoded))
}

func TestParseMode(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Mode
		wantErr bool
	}{
		"empty defaults to aggregation": {input: "", want: ModeAggregation},
		"sequence":                      {input: "sequence", want: ModeSequence},
		"expectation":                   {input: "expectation", want: ModeExpectation},
		"sweep":                         {input: "sweep", want: ModeSweep},
		"unknown":                       {input: "histogram", wantErr: true},
		"case sensitive":                {input: "MAX", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseMode(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMode_SampleBased(t *testing.T) {
	for _, m := range []Mode{ModeSequence, ModeAggregation, ModeMax, ModeMin, ModeExpectation} {
		assert.True(t, m.SampleBased(), m)
	}
	assert.False(t, ModeSweep.SampleBased())
	assert.False(t, Mode("bogus").SampleBased())
}

func TestMode_UnmarshalJSON(t *testing.T) {
	var m Mode
	require.NoError(t, json.Unmarshal([]byte(`"min"`), &m))
	assert.Equal(t, ModeMin, m)
	assert.Error(t, json.Unmarshal([]byte(`"median"`), &m))
}
