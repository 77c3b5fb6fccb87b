package mqtt

import (
	"fmt"

	"tempest2mqtt/internal/core/domain"
)

type HADiscoveryConfig struct {
	Device                    HADiscoveryDevice         `json:"device"`
	StateTopic                string                    `json:"state_topic"`
	StateClass                string                    `json:"state_class,omitempty"`
	DeviceClass               string                    `json:"device_class,omitempty"`
	UnitOfMeasurement         string                    `json:"unit_of_measurement,omitempty"`
	AvTopic                   string                    `json:"availability_topic,omitempty"`
	Availability              []HADiscoveryAvailability `json:"availability,omitempty"`
	AvailabilityMode          string                    `json:"availability_mode,omitempty"`
	EntityCategory            string                    `json:"entity_category,omitempty"`
	Name                      string                    `json:"name"`
	UniqueId                  string                    `json:"unique_id"`
	Platform                  string                    `json:"platform"`
	EnabledByDefault          *bool                     `json:"enabled_by_default,omitempty"`
	PayloadOn                 string                    `json:"payload_on,omitempty"`
	PayloadOff                string                    `json:"payload_off,omitempty"`
	Icon                      string                    `json:"icon,omitempty"`
	Options                   []string                  `json:"options,omitempty"`
	SuggestedDisplayPrecision *uint                     `json:"suggested_display_precision,omitempty"`
	ValueTemplate             string                    `json:"value_template,omitempty"`
	LastResetValueTemplate    string                    `json:"last_reset_value_template,omitempty"`
}

type HADiscoveryAvailability struct {
	Topic string `json:"topic"`
}

type HADiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	ViaDevice    string   `json:"via_device,omitempty"`
}

// HADiscoveryMessage pairs a ready-to-publish discovery config with its topic.
type HADiscoveryMessage struct {
	Topic  string
	Config HADiscoveryConfig
}

// HADiscoveryMessages builds discovery payloads for a batch of sensors. The
// first sensor of each device carries the full device description; later ones
// reference it by identifier and name only.
func HADiscoveryMessages(client *MQTTClient, sensors []domain.GenericSensor) []HADiscoveryMessage {
	seen := map[string]bool{}
	out := make([]HADiscoveryMessage, 0, len(sensors))
	for _, s := range sensors {
		if seen[s.Device.Id] {
			s.Device = domain.IdDevice(s.Device)
		}
		seen[s.Device.Id] = true
		out = append(out, HADiscoveryMessage{
			Topic:  HADiscoverySensorTopic(client, s),
			Config: GenericSensorToHADiscoveryMessage(client, s),
		})
	}
	return out
}

func HADiscoverySensorTopic(client *MQTTClient, sensor domain.GenericSensor) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", client.DiscoveryTopic(), sensor.SensorType, sensor.Device.Id, sensor.Id)
}

func GenericSensorToHADiscoveryMessage(client *MQTTClient, sensor domain.GenericSensor) HADiscoveryConfig {
	dev := device(sensor.Device)
	var topic string
	switch {
	case sensor.Id == domain.SENSOR_ID_BRIDGE_STATE:
		topic = client.BridgeStateTopic()
	case sensor.SensorType == domain.SENSOR_TYPE_SENSOR:
		topic = client.SensorStateTopic(sensor.Id)
	case sensor.SensorType == domain.SENSOR_TYPE_BINARY:
		topic = client.BinarySensorStateTopic(sensor.Id)
	}
	disConfig := HADiscoveryConfig{
		Device:                    dev,
		StateTopic:                topic,
		StateClass:                sensor.StateClass,
		DeviceClass:               sensor.DeviceClass,
		UnitOfMeasurement:         sensor.UnitOfMeasurement,
		EntityCategory:            sensor.EntityCategory,
		Name:                      sensor.Name,
		UniqueId:                  sensor.UniqueId,
		Icon:                      sensor.Icon,
		EnabledByDefault:          sensor.EnabledByDefault,
		Options:                   sensor.Options,
		SuggestedDisplayPrecision: sensor.Precision,
		Platform:                  "mqtt",
	}
	if sensor.Id == domain.SENSOR_ID_BRIDGE_STATE {
		disConfig.PayloadOn = MQTT_PAYLOAD_ONLINE
		disConfig.PayloadOff = MQTT_PAYLOAD_OFFLINE
	} else {
		// a sensor goes unavailable when the bridge dies or its source
		// stops reporting it
		disConfig.Availability = []HADiscoveryAvailability{
			{Topic: client.BridgeStateTopic()},
			{Topic: client.SensorAvailabilityTopic(sensor.Id)},
		}
		disConfig.AvailabilityMode = "all"
	}
	if sensor.StateClass == domain.STATE_CLASS_TOTAL {
		// total sensors carry their value and reset marker in one JSON
		// payload
		disConfig.ValueTemplate = "{{ value_json.value }}"
		disConfig.LastResetValueTemplate = "{{ value_json.last_reset }}"
	}
	return disConfig
}

func device(d domain.Device) HADiscoveryDevice {
	return HADiscoveryDevice{
		Id:           []string{d.Id},
		Manufacturer: d.Manufacturer,
		Version:      d.Version,
		Model:        d.Model,
		Name:         d.Name,
		ViaDevice:    d.ViaDevice,
	}
}
