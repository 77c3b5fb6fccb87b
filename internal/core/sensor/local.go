package sensor

import (
	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/pkg/weatherflowudp"
)

// localTable lists every push sensor a UDP-discovered device can expose.
// Which subset applies to a concrete device depends on its hardware model.
var localTable = buildLocalTable()

// Local returns the push-mode description table.
func Local() []LocalDescription {
	return localTable
}

func buildLocalTable() []LocalDescription {
	descriptions := []LocalDescription{
		{
			Description: Description{
				Key:               "air_density",
				Name:              "Air density",
				UnitOfMeasurement: "kg/m³",
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(5),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.AirDensity()) },
		},
		{
			Description: Description{
				Key:               "air_temperature",
				Name:              "Temperature",
				UnitOfMeasurement: "°C",
				DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(1),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.AirTemperature()) },
		},
		{
			Description: Description{
				Key:               "dew_point_temperature",
				Name:              "Dew point",
				UnitOfMeasurement: "°C",
				DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(1),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.DewPointTemperature()) },
		},
		{
			Description: Description{
				Key:               "feels_like_temperature",
				Name:              "Feels like",
				UnitOfMeasurement: "°C",
				DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(1),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.FeelsLikeTemperature()) },
		},
		{
			Description: Description{
				Key:               "wet_bulb_temperature",
				Name:              "Wet bulb temperature",
				UnitOfMeasurement: "°C",
				DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(1),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.WetBulbTemperature()) },
		},
		{
			Description: Description{
				Key:               "battery",
				Name:              "Battery voltage",
				UnitOfMeasurement: "V",
				DeviceClass:       domain.DEVICE_CLASS_VOLTAGE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				EntityCategory:    domain.ENTITY_CLASS_DIAGNOSTIC,
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.Battery()) },
		},
		{
			Description: Description{
				Key:               "illuminance",
				Name:              "Illuminance",
				UnitOfMeasurement: "lx",
				DeviceClass:       domain.DEVICE_CLASS_ILLUMINANCE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.Illuminance()) },
		},
		{
			Description: Description{
				Key:               "lightning_strike_average_distance",
				Name:              "Lightning average distance",
				UnitOfMeasurement: "km",
				DeviceClass:       domain.DEVICE_CLASS_DISTANCE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(2),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.LightningStrikeAverageDistance()) },
		},
		{
			Description: Description{
				Key:        "lightning_strike_count",
				Name:       "Lightning count",
				StateClass: domain.STATE_CLASS_TOTAL,
			},
			Extract: func(d *weatherflowudp.Device) Value { return numberPtr(d.LightningStrikeCount()) },
		},
		{
			Description: Description{
				Key:         "precipitation_type",
				Name:        "Precipitation type",
				DeviceClass: domain.DEVICE_CLASS_ENUM,
				Options:     precipitationOptions,
			},
			Extract: func(d *weatherflowudp.Device) Value { return precipitationText(d.PrecipitationType()) },
		},
		{
			Description: Description{
				Key:               "rain_accumulation_previous_minute",
				Name:              "Rain accumulation",
				UnitOfMeasurement: "mm",
				DeviceClass:       domain.DEVICE_CLASS_PRECIPITATION,
				StateClass:        domain.STATE_CLASS_TOTAL,
			},
			ImperialUnit: "in",
			Extract:      func(d *weatherflowudp.Device) Value { return magnitude(d.RainAccumulationPreviousMinute()) },
		},
		{
			Description: Description{
				Key:               "rain_rate",
				Name:              "Rain rate",
				UnitOfMeasurement: "mm/h",
				DeviceClass:       domain.DEVICE_CLASS_PRECIPITATION_INTENSITY,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.RainRate()) },
		},
		{
			Description: Description{
				Key:               "relative_humidity",
				Name:              "Humidity",
				UnitOfMeasurement: "%",
				DeviceClass:       domain.DEVICE_CLASS_HUMIDITY,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.RelativeHumidity()) },
		},
		{
			Description: Description{
				Key:               "rssi",
				Name:              "RSSI",
				UnitOfMeasurement: "dBm",
				DeviceClass:       domain.DEVICE_CLASS_SIGNAL_STRENGTH,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				EntityCategory:    domain.ENTITY_CLASS_DIAGNOSTIC,
				EnabledByDefault:  disabled(),
			},
			EventSubscriptions: []string{weatherflowudp.EventStatusUpdate},
			Extract:            func(d *weatherflowudp.Device) Value { return magnitude(d.RSSI()) },
		},
		{
			Description: Description{
				Key:               "station_pressure",
				Name:              "Station pressure",
				UnitOfMeasurement: "mbar",
				DeviceClass:       domain.DEVICE_CLASS_PRESSURE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(5),
			},
			ImperialUnit: "inHg",
			Extract:      func(d *weatherflowudp.Device) Value { return magnitude(d.StationPressure()) },
		},
		{
			Description: Description{
				Key:               "solar_radiation",
				Name:              "Solar radiation",
				UnitOfMeasurement: "W/m²",
				DeviceClass:       domain.DEVICE_CLASS_IRRADIANCE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.SolarRadiation()) },
		},
		{
			Description: Description{
				Key:              "up_since",
				Name:             "Uptime",
				DeviceClass:      domain.DEVICE_CLASS_TIMESTAMP,
				EntityCategory:   domain.ENTITY_CLASS_DIAGNOSTIC,
				EnabledByDefault: disabled(),
			},
			EventSubscriptions: []string{weatherflowudp.EventStatusUpdate},
			Extract:            func(d *weatherflowudp.Device) Value { return timePtr(d.UpSince()) },
		},
		{
			Description: Description{
				Key:               "uv",
				Name:              "UV index",
				UnitOfMeasurement: "UV index",
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
			},
			Extract: func(d *weatherflowudp.Device) Value { return numberPtr(d.UV()) },
		},
		{
			Description: Description{
				Key:               "vapor_pressure",
				Name:              "Vapor pressure",
				UnitOfMeasurement: "mbar",
				DeviceClass:       domain.DEVICE_CLASS_PRESSURE,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(5),
			},
			ImperialUnit: "inHg",
			Extract:      func(d *weatherflowudp.Device) Value { return magnitude(d.VaporPressure()) },
		},
		{
			Description: Description{
				Key:               "wind_gust",
				Name:              "Wind gust",
				UnitOfMeasurement: "m/s",
				DeviceClass:       domain.DEVICE_CLASS_WIND_SPEED,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(2),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.WindGust()) },
		},
		{
			Description: Description{
				Key:               "wind_lull",
				Name:              "Wind lull",
				UnitOfMeasurement: "m/s",
				DeviceClass:       domain.DEVICE_CLASS_WIND_SPEED,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(2),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.WindLull()) },
		},
		{
			Description: Description{
				Key:               "wind_speed",
				Name:              "Wind speed",
				UnitOfMeasurement: "m/s",
				DeviceClass:       domain.DEVICE_CLASS_WIND_SPEED,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(2),
			},
			EventSubscriptions: []string{weatherflowudp.EventRapidWind, weatherflowudp.EventObservation},
			Extract:            func(d *weatherflowudp.Device) Value { return magnitude(d.WindSpeed()) },
		},
		{
			Description: Description{
				Key:               "wind_average",
				Name:              "Wind speed average",
				UnitOfMeasurement: "m/s",
				DeviceClass:       domain.DEVICE_CLASS_WIND_SPEED,
				StateClass:        domain.STATE_CLASS_MEASUREMENT,
				Precision:         precision(2),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.WindAverage()) },
		},
		{
			Description: Description{
				Key:               "wind_direction",
				Name:              "Wind direction",
				UnitOfMeasurement: "°",
				DeviceClass:       domain.DEVICE_CLASS_WIND_DIRECTION,
				StateClass:        domain.STATE_CLASS_MEASUREMENT_ANGLE,
				Precision:         precision(0),
			},
			EventSubscriptions: []string{weatherflowudp.EventRapidWind, weatherflowudp.EventObservation},
			Extract:            func(d *weatherflowudp.Device) Value { return magnitude(d.WindDirection()) },
		},
		{
			Description: Description{
				Key:               "wind_direction_average",
				Name:              "Wind direction average",
				UnitOfMeasurement: "°",
				DeviceClass:       domain.DEVICE_CLASS_WIND_DIRECTION,
				StateClass:        domain.STATE_CLASS_MEASUREMENT_ANGLE,
				Precision:         precision(0),
			},
			Extract: func(d *weatherflowudp.Device) Value { return magnitude(d.WindDirectionAverage()) },
		},
	}
	for i := range descriptions {
		if len(descriptions[i].EventSubscriptions) == 0 {
			descriptions[i].EventSubscriptions = []string{weatherflowudp.EventObservation}
		}
	}
	return descriptions
}
