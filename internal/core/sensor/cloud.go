package sensor

import (
	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/pkg/weatherflowrest"
)

// cloudTable lists every pull sensor derived from a station observation
// record. Extractors tolerate missing fields and report Absent.
var cloudTable = []CloudDescription{
	{
		Description: Description{
			Key:               "air_density",
			Name:              "Air density",
			UnitOfMeasurement: "kg/m³",
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(5),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.AirDensity) },
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
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.AirTemperature) },
	},
	{
		Description: Description{
			Key:               "barometric_pressure",
			Name:              "Pressure barometric",
			UnitOfMeasurement: "mbar",
			DeviceClass:       domain.DEVICE_CLASS_ATMOSPHERIC_PRESSURE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(3),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.BarometricPressure) },
	},
	{
		Description: Description{
			Key:               "sea_level_pressure",
			Name:              "Pressure sea level",
			UnitOfMeasurement: "mbar",
			DeviceClass:       domain.DEVICE_CLASS_ATMOSPHERIC_PRESSURE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(3),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.SeaLevelPressure) },
	},
	{
		Description: Description{
			Key:               "brightness",
			Name:              "Illuminance",
			UnitOfMeasurement: "lx",
			DeviceClass:       domain.DEVICE_CLASS_ILLUMINANCE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.Brightness) },
	},
	{
		Description: Description{
			Key:               "delta_t",
			Name:              "Delta T",
			UnitOfMeasurement: "°C",
			DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(1),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.DeltaT) },
	},
	{
		Description: Description{
			Key:               "dew_point",
			Name:              "Dew point",
			UnitOfMeasurement: "°C",
			DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(1),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.DewPoint) },
	},
	{
		Description: Description{
			Key:               "feels_like",
			Name:              "Feels like",
			UnitOfMeasurement: "°C",
			DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(1),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.FeelsLike) },
	},
	{
		Description: Description{
			Key:               "heat_index",
			Name:              "Heat index",
			UnitOfMeasurement: "°C",
			DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(1),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.HeatIndex) },
	},
	{
		Description: Description{
			Key:               "wind_chill",
			Name:              "Wind chill",
			UnitOfMeasurement: "°C",
			DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(1),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.WindChill) },
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
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.WetBulbTemperature) },
	},
	{
		Description: Description{
			Key:               "wet_bulb_globe_temperature",
			Name:              "Wet bulb globe temperature",
			UnitOfMeasurement: "°C",
			DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(1),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.WetBulbGlobeTemperature) },
	},
	{
		Description: Description{
			Key:        "lightning_strike_count",
			Name:       "Lightning count",
			StateClass: domain.STATE_CLASS_TOTAL,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.LightningStrikeCount) },
	},
	{
		Description: Description{
			Key:        "lightning_strike_count_last_3hr",
			Name:       "Lightning count last 3 hours",
			StateClass: domain.STATE_CLASS_TOTAL,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.LightningStrikeCountLast3Hr) },
	},
	{
		Description: Description{
			Key:               "lightning_strike_last_distance",
			Name:              "Lightning last distance",
			UnitOfMeasurement: "km",
			DeviceClass:       domain.DEVICE_CLASS_DISTANCE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.LightningStrikeLastDistance) },
	},
	{
		Description: Description{
			Key:         "lightning_strike_last_epoch",
			Name:        "Lightning last strike",
			DeviceClass: domain.DEVICE_CLASS_TIMESTAMP,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return epochPtr(o.LightningStrikeLastEpoch) },
	},
	{
		Description: Description{
			Key:               "precip",
			Name:              "Precipitation rate",
			UnitOfMeasurement: "mm/min",
			DeviceClass:       domain.DEVICE_CLASS_PRECIPITATION_INTENSITY,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.Precip) },
	},
	{
		Description: Description{
			Key:               "precip_accum_local_day_final",
			Name:              "Precipitation today",
			UnitOfMeasurement: "mm",
			DeviceClass:       domain.DEVICE_CLASS_PRECIPITATION,
			StateClass:        domain.STATE_CLASS_TOTAL,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.PrecipAccumLocalDayFinal) },
	},
	{
		Description: Description{
			Key:               "precip_accum_local_yesterday_final",
			Name:              "Precipitation yesterday",
			UnitOfMeasurement: "mm",
			DeviceClass:       domain.DEVICE_CLASS_PRECIPITATION,
			StateClass:        domain.STATE_CLASS_TOTAL,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.PrecipAccumLocalYesterdayFnl) },
	},
	{
		Description: Description{
			Key:               "precip_minutes_local_day",
			Name:              "Precipitation minutes today",
			UnitOfMeasurement: "min",
			StateClass:        domain.STATE_CLASS_TOTAL,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.PrecipMinutesLocalDay) },
	},
	{
		Description: Description{
			Key:               "precip_minutes_local_yesterday",
			Name:              "Precipitation minutes yesterday",
			UnitOfMeasurement: "min",
			StateClass:        domain.STATE_CLASS_TOTAL,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.PrecipMinutesLocalYesterday) },
	},
	{
		Description: Description{
			Key:  "pressure_trend",
			Name: "Pressure trend",
		},
		Extract: func(o *weatherflowrest.Observation) Value { return textPtr(o.PressureTrend) },
	},
	{
		Description: Description{
			Key:               "relative_humidity",
			Name:              "Humidity",
			UnitOfMeasurement: "%",
			DeviceClass:       domain.DEVICE_CLASS_HUMIDITY,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.RelativeHumidity) },
	},
	{
		Description: Description{
			Key:               "solar_radiation",
			Name:              "Solar radiation",
			UnitOfMeasurement: "W/m²",
			DeviceClass:       domain.DEVICE_CLASS_IRRADIANCE,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.SolarRadiation) },
	},
	{
		Description: Description{
			Key:               "uv",
			Name:              "UV index",
			UnitOfMeasurement: "UV index",
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.UV) },
	},
	{
		Description: Description{
			Key:               "wind_avg",
			Name:              "Wind speed average",
			UnitOfMeasurement: "m/s",
			DeviceClass:       domain.DEVICE_CLASS_SPEED,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(1),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.WindAvg) },
	},
	{
		Description: Description{
			Key:               "wind_gust",
			Name:              "Wind gust",
			UnitOfMeasurement: "m/s",
			DeviceClass:       domain.DEVICE_CLASS_SPEED,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(1),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.WindGust) },
	},
	{
		Description: Description{
			Key:               "wind_lull",
			Name:              "Wind lull",
			UnitOfMeasurement: "m/s",
			DeviceClass:       domain.DEVICE_CLASS_SPEED,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			Precision:         precision(1),
		},
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.WindLull) },
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
		Extract: func(o *weatherflowrest.Observation) Value { return numberPtr(o.WindDirection) },
	},
	{
		Description: Description{
			Key:            "timestamp",
			Name:           "Last observation",
			DeviceClass:    domain.DEVICE_CLASS_TIMESTAMP,
			EntityCategory: domain.ENTITY_CLASS_DIAGNOSTIC,
		},
		Extract: func(o *weatherflowrest.Observation) Value { return epochPtr(o.Timestamp) },
	},
}

// Cloud returns the pull-mode description table.
func Cloud() []CloudDescription {
	return cloudTable
}
