package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{
		"centigrade":   UnitCentigrade,
		"Fahrenheit":   UnitFahrenheit,
		" KELVIN ":     UnitKelvin,
		"\tcentigrade": UnitCentigrade,
	} {
		got, err := ParseUnit(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	for _, in := range []string{"", "celsius", "metric", "imperial"} {
		_, err := ParseUnit(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestKeyNormalization(t *testing.T) {
	assert.Equal(t, "london|centigrade", Key("London", UnitCentigrade))
	assert.Equal(t, "london|centigrade", Key("  LONDON  ", UnitCentigrade))
	assert.Equal(t, "new york|kelvin", Key("New York", UnitKelvin))

	// Same city, different unit: distinct entries.
	assert.NotEqual(t, Key("London", UnitCentigrade), Key("London", UnitFahrenheit))
}
