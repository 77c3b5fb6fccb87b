package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"tempest2mqtt/pkg/weatherflowrest"
	"tempest2mqtt/pkg/weatherflowudp"

	"github.com/carlmjohnson/versioninfo"
)

const SENSOR_ID_BRIDGE_STATE = "bridge"

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("tempest_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "WeatherFlow",
		Model:        "tempest2mqtt",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Tempest Bridge %s", md5HashShort(baseTopic)),
	}
}

// LocalDevice describes a UDP-discovered station component.
func LocalDevice(dev *weatherflowudp.Device) Device {
	return Device{
		Id:           fmt.Sprintf("tempest_local_%s", md5HashShort(dev.SerialNumber())),
		Manufacturer: "WeatherFlow",
		Model:        dev.Model(),
		Version:      dev.FirmwareRevision(),
		Name:         dev.SerialNumber(),
	}
}

// CloudDevice describes a REST station.
func CloudDevice(station weatherflowrest.Station) Device {
	name := station.PublicName
	if name == "" {
		name = station.Name
	}
	return Device{
		Id:           fmt.Sprintf("tempest_cloud_%d", station.StationID),
		Manufacturer: "WeatherFlow",
		Model:        "Tempest Station",
		Name:         name,
	}
}

// IdDevice strips a device down to its identifying fields, for discovery
// payloads after the first full one.
func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       UniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	}}
}

func UniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5HashShort(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[0:8]
}
