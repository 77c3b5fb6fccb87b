package weatherflowudp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func deviceWith(t *testing.T, temperature, humidity, pressure, windSpeed float64) *Device {
	t.Helper()
	d := newDevice("ST-TEST", "HB-TEST")
	d.airTemperature = &temperature
	d.relativeHumidity = &humidity
	d.stationPressure = &pressure
	d.windSpeed = &windSpeed
	return d
}

func TestDerivedMeasurements(t *testing.T) {
	d := deviceWith(t, 20, 60, 1013.25, 2)

	vp := d.VaporPressure()
	assert.NotNil(t, vp)
	assert.Equal(t, "mbar", vp.Unit)
	assert.InDelta(t, 14.03, vp.Magnitude, 0.1)

	dp := d.DewPointTemperature()
	assert.NotNil(t, dp)
	assert.InDelta(t, 12.0, dp.Magnitude, 0.2)

	wb := d.WetBulbTemperature()
	assert.NotNil(t, wb)
	assert.InDelta(t, 15.0, wb.Magnitude, 0.3)

	rho := d.AirDensity()
	assert.NotNil(t, rho)
	assert.Equal(t, "kg/m³", rho.Unit)
	assert.InDelta(t, 1.204, rho.Magnitude, 0.005)
}

func TestDerivedMeasurementsRequireInputs(t *testing.T) {
	d := newDevice("ST-TEST", "HB-TEST")

	assert.Nil(t, d.VaporPressure())
	assert.Nil(t, d.DewPointTemperature())
	assert.Nil(t, d.WetBulbTemperature())
	assert.Nil(t, d.AirDensity())
	assert.Nil(t, d.FeelsLikeTemperature())
	assert.Nil(t, d.RainRate())
}

func TestFeelsLikeTemperature(t *testing.T) {
	// mild conditions report the plain air temperature
	mild := deviceWith(t, 20, 60, 1013.25, 2)
	assert.Equal(t, 20.0, mild.FeelsLikeTemperature().Magnitude)

	// hot and humid engages the heat index
	hot := deviceWith(t, 32, 70, 1013.25, 1)
	assert.Greater(t, hot.FeelsLikeTemperature().Magnitude, 32.0)

	// cold and windy engages wind chill
	cold := deviceWith(t, 0, 50, 1013.25, 5)
	assert.Less(t, cold.FeelsLikeTemperature().Magnitude, 0.0)

	// cold but calm reports the plain air temperature
	calm := deviceWith(t, 0, 50, 1013.25, 0.5)
	assert.Equal(t, 0.0, calm.FeelsLikeTemperature().Magnitude)
}

func TestRainRateExtrapolatesHourly(t *testing.T) {
	d := newDevice("ST-TEST", "HB-TEST")
	accum := 0.5
	d.rainAccumulation = &accum

	rate := d.RainRate()
	assert.NotNil(t, rate)
	assert.Equal(t, 30.0, rate.Magnitude)
	assert.Equal(t, "mm/h", rate.Unit)
}

func TestPrecipitationTypeClassification(t *testing.T) {
	assert.Equal(t, PrecipitationNone, precipitationTypeFromRaw(0))
	assert.Equal(t, PrecipitationRain, precipitationTypeFromRaw(1))
	assert.Equal(t, PrecipitationHail, precipitationTypeFromRaw(2))
	assert.Equal(t, PrecipitationRainHail, precipitationTypeFromRaw(3))
	assert.Equal(t, PrecipitationUnknown, precipitationTypeFromRaw(4))
	assert.Equal(t, PrecipitationUnknown, precipitationTypeFromRaw(-1))

	assert.Equal(t, "None", PrecipitationNone.String())
	assert.Equal(t, "Rain", PrecipitationRain.String())
	assert.Equal(t, "Hail", PrecipitationHail.String())
	assert.Equal(t, "Rain_Hail", PrecipitationRainHail.String())
	assert.Equal(t, "Unknown", PrecipitationUnknown.String())
}
