package domain

const (
	STATE_CLASS_MEASUREMENT       = "measurement"
	STATE_CLASS_MEASUREMENT_ANGLE = "measurement_angle"
	STATE_CLASS_TOTAL             = "total"

	DEVICE_CLASS_TEMPERATURE             = "temperature"
	DEVICE_CLASS_VOLTAGE                 = "voltage"
	DEVICE_CLASS_ILLUMINANCE             = "illuminance"
	DEVICE_CLASS_DISTANCE                = "distance"
	DEVICE_CLASS_ENUM                    = "enum"
	DEVICE_CLASS_PRECIPITATION           = "precipitation"
	DEVICE_CLASS_PRECIPITATION_INTENSITY = "precipitation_intensity"
	DEVICE_CLASS_HUMIDITY                = "humidity"
	DEVICE_CLASS_SIGNAL_STRENGTH         = "signal_strength"
	DEVICE_CLASS_PRESSURE                = "pressure"
	DEVICE_CLASS_ATMOSPHERIC_PRESSURE    = "atmospheric_pressure"
	DEVICE_CLASS_IRRADIANCE              = "irradiance"
	DEVICE_CLASS_TIMESTAMP               = "timestamp"
	DEVICE_CLASS_WIND_SPEED              = "wind_speed"
	DEVICE_CLASS_WIND_DIRECTION          = "wind_direction"
	DEVICE_CLASS_SPEED                   = "speed"
	DEVICE_CLASS_CONNECTIVITY            = "connectivity"

	ENTITY_CLASS_DIAGNOSTIC = "diagnostic"

	SENSOR_TYPE_SENSOR = "sensor"
	SENSOR_TYPE_BINARY = "binary_sensor"
)

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string
	DeviceClass       string
	EntityCategory    string
	EnabledByDefault  *bool
	Icon              string
	// Options restricts an enum sensor's reportable values.
	Options []string
	// Precision is the suggested display precision; nil leaves it to the
	// consumer.
	Precision *uint
}
