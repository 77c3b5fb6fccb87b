package sensor

import (
	"testing"

	"tempest2mqtt/pkg/weatherflowrest"
	"tempest2mqtt/pkg/weatherflowudp"

	"github.com/stretchr/testify/assert"
)

func TestLocalTableKeysAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, desc := range Local() {
		assert.NotEmpty(t, desc.Key)
		assert.NotEmpty(t, desc.Name, "sensor %s has no name", desc.Key)
		assert.NotEmpty(t, desc.EventSubscriptions, "sensor %s has no event subscriptions", desc.Key)
		assert.NotNil(t, desc.Extract, "sensor %s has no extractor", desc.Key)
		assert.False(t, seen[desc.Key], "duplicate key %s", desc.Key)
		seen[desc.Key] = true
	}
}

func TestCloudTableKeysAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, desc := range Cloud() {
		assert.NotEmpty(t, desc.Key)
		assert.NotNil(t, desc.Extract, "sensor %s has no extractor", desc.Key)
		assert.False(t, seen[desc.Key], "duplicate key %s", desc.Key)
		seen[desc.Key] = true
	}
}

// Every local sensor key must map to a device attribute, otherwise the
// HasAttribute filter would silently drop it.
func TestLocalKeysMatchDeviceAttributes(t *testing.T) {
	listener := weatherflowudp.NewListener()
	listener.Deliver([]byte(`{"serial_number":"ST-1","type":"rapid_wind","hub_sn":"HB-1","ob":[0,0,0]}`))
	tempest := listener.Devices()[0]

	for _, desc := range Local() {
		assert.True(t, tempest.HasAttribute(desc.Key), "key %s is not a tempest attribute", desc.Key)
	}
}

func TestCloudExtractorsHandleEmptyObservation(t *testing.T) {
	obs := &weatherflowrest.Observation{}
	for _, desc := range Cloud() {
		value := desc.Extract(obs)
		assert.True(t, value.IsAbsent(), "sensor %s should be absent on an empty record", desc.Key)
	}
}

func TestLocalExtractorsHandleFreshDevice(t *testing.T) {
	listener := weatherflowudp.NewListener()
	listener.Deliver([]byte(`{"serial_number":"ST-1","type":"rapid_wind","hub_sn":"HB-1","ob":[0,1.5,90]}`))
	device := listener.Devices()[0]

	for _, desc := range Local() {
		switch desc.Key {
		case "wind_speed", "wind_direction":
			assert.True(t, desc.Extract(device).IsNumber(), "sensor %s should have a value after rapid_wind", desc.Key)
		default:
			assert.True(t, desc.Extract(device).IsAbsent(), "sensor %s should be absent before the first observation", desc.Key)
		}
	}
}

func TestWindSensorSubscriptions(t *testing.T) {
	subs := map[string][]string{}
	for _, desc := range Local() {
		subs[desc.Key] = desc.EventSubscriptions
	}

	assert.Equal(t, []string{weatherflowudp.EventRapidWind, weatherflowudp.EventObservation}, subs["wind_speed"])
	assert.Equal(t, []string{weatherflowudp.EventRapidWind, weatherflowudp.EventObservation}, subs["wind_direction"])
	assert.Equal(t, []string{weatherflowudp.EventObservation}, subs["air_temperature"])
	assert.Equal(t, []string{weatherflowudp.EventStatusUpdate}, subs["rssi"])
	assert.Equal(t, []string{weatherflowudp.EventStatusUpdate}, subs["up_since"])
}

func TestImperialUnits(t *testing.T) {
	units := map[string]LocalDescription{}
	for _, desc := range Local() {
		units[desc.Key] = desc
	}

	rain := units["rain_accumulation_previous_minute"]
	assert.Equal(t, "mm", rain.Unit(true))
	assert.Equal(t, "in", rain.Unit(false))

	pressure := units["station_pressure"]
	assert.Equal(t, "mbar", pressure.Unit(true))
	assert.Equal(t, "inHg", pressure.Unit(false))

	// temperature stays native, conversion is delegated to the consumer
	temperature := units["air_temperature"]
	assert.Equal(t, "°C", temperature.Unit(true))
	assert.Equal(t, "°C", temperature.Unit(false))
}

func TestPrecipitationText(t *testing.T) {
	assert.True(t, precipitationText(nil).IsAbsent())

	rain := weatherflowudp.PrecipitationRain
	assert.Equal(t, "rain", precipitationText(&rain).Text())

	mixed := weatherflowudp.PrecipitationRainHail
	assert.Equal(t, "rain_hail", precipitationText(&mixed).Text())

	unknown := weatherflowudp.PrecipitationUnknown
	assert.True(t, precipitationText(&unknown).IsAbsent())
}

func TestDecimalsDefault(t *testing.T) {
	assert.Equal(t, uint(2), Description{}.Decimals())
	assert.Equal(t, uint(0), Description{Precision: precision(0)}.Decimals())
	assert.Equal(t, uint(3), Description{Precision: precision(3)}.Decimals())
}
