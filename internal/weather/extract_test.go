package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "coord": {"lon": -0.1257, "lat": 51.5085},
  "weather": [{"id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d"}],
  "base": "stations",
  "main": {"temp": 18.3, "feels_like": 17.9, "temp_min": 16.7, "temp_max": 19.4, "pressure": 1014, "humidity": 63},
  "visibility": 10000,
  "wind": {"speed": 4.6, "deg": 250},
  "sys": {"country": "GB", "sunrise": 1717216800, "sunset": 1717275600},
  "name": "London",
  "cod": 200
}`

func TestExtract(t *testing.T) {
	rep := Extract([]byte(samplePayload), UnitCentigrade)

	assert.Equal(t, "London", rep.City)
	assert.Equal(t, "GB", rep.Country)
	assert.Equal(t, UnitCentigrade, rep.Unit)

	assert.Equal(t, "Clouds", rep.Weather.Main)
	assert.Equal(t, "broken clouds", rep.Weather.Description)
	assert.Equal(t, "04d", rep.Weather.Icon)

	assert.InDelta(t, 18.3, rep.Main.Temp, 0.001)
	assert.InDelta(t, 17.9, rep.Main.FeelsLike, 0.001)
	assert.Equal(t, int64(1014), rep.Main.Pressure)
	assert.Equal(t, int64(63), rep.Main.Humidity)

	require.NotNil(t, rep.Wind)
	assert.InDelta(t, 4.6, rep.Wind.Speed, 0.001)
	require.NotNil(t, rep.Wind.Deg)
	assert.Equal(t, int64(250), *rep.Wind.Deg)

	require.NotNil(t, rep.Sys)
	assert.Equal(t, int64(1717216800), rep.Sys.Sunrise)

	assert.JSONEq(t, samplePayload, string(rep.Raw))
}

func TestExtractMissingFields(t *testing.T) {
	rep := Extract([]byte(`{"name":"Nowhere","main":{"temp":1.5}}`), UnitKelvin)

	assert.Equal(t, "Nowhere", rep.City)
	assert.Empty(t, rep.Country)
	assert.Empty(t, rep.Weather.Main)
	assert.InDelta(t, 1.5, rep.Main.Temp, 0.001)
	assert.Nil(t, rep.Wind)
	assert.Nil(t, rep.Sys)
}

func TestExtractWindWithoutDirection(t *testing.T) {
	rep := Extract([]byte(`{"name":"X","wind":{"speed":2.0}}`), UnitCentigrade)

	require.NotNil(t, rep.Wind)
	assert.InDelta(t, 2.0, rep.Wind.Speed, 0.001)
	assert.Nil(t, rep.Wind.Deg)
}
