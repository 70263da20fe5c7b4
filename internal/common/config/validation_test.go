package config

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port  uint16 `validate:"required"`
	Inner struct {
		Capacity uint `validate:"gte=1"`
	}
}

func TestValidate(t *testing.T) {
	valid := testConfig{Port: 3003}
	valid.Inner.Capacity = 20
	assert.NoError(t, Validate(valid))

	invalid := testConfig{}
	err := Validate(invalid)
	require.Error(t, err)
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	assert.Len(t, validationErrors, 2)

	// Must not panic on either shape of error.
	LogValidationErrors(err)
	LogValidationErrors(nil)
}

func TestStripPrefix(t *testing.T) {
	assert.Equal(t, "Inner.Capacity", stripPrefix("testConfig.Inner.Capacity"))
	assert.Equal(t, "Port", stripPrefix("Port"))
}

type level int

func (l *level) UnmarshalText(text []byte) error {
	*l = level(len(text))
	return nil
}

func TestCustomHooks_Decode(t *testing.T) {
	var out struct {
		Interval time.Duration
		Args     []string
		Level    level
	}
	decoderConfig := &mapstructure.DecoderConfig{Result: &out}
	for _, opt := range CustomHooks {
		opt(decoderConfig)
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	require.NoError(t, err)

	err = decoder.Decode(map[string]interface{}{
		"interval": "2s",
		"args":     "a,b",
		"level":    "abcd",
	})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, out.Interval)
	assert.Equal(t, []string{"a", "b"}, out.Args)
	assert.Equal(t, level(4), out.Level)
}
