package weatherflowudp

import (
	"encoding/json"
	"fmt"
)

// Message types broadcast by WeatherFlow hubs on UDP port 50222.
const (
	msgTypeObservationTempest = "obs_st"
	msgTypeRapidWind          = "rapid_wind"
	msgTypeDeviceStatus       = "device_status"
	msgTypeHubStatus          = "hub_status"
)

type rawMessage struct {
	Type             string  `json:"type"`
	SerialNumber     string  `json:"serial_number"`
	HubSerialNumber  string  `json:"hub_sn"`
	FirmwareRevision any     `json:"firmware_revision"`
	Timestamp        int64   `json:"timestamp"`
	Uptime           int64   `json:"uptime"`
	Voltage          float64 `json:"voltage"`
	RSSI             float64 `json:"rssi"`
	HubRSSI          float64 `json:"hub_rssi"`

	// obs_st carries a list of observation records, each a positional array
	Obs [][]*float64 `json:"obs"`
	// rapid_wind carries a single positional array [epoch, m/s, degrees]
	Ob []float64 `json:"ob"`
}

// Positional indices of an obs_st record.
const (
	obsEpoch = iota
	obsWindLull
	obsWindAvg
	obsWindGust
	obsWindDirection
	obsWindSampleInterval
	obsStationPressure
	obsAirTemperature
	obsRelativeHumidity
	obsIlluminance
	obsUV
	obsSolarRadiation
	obsRainAccumulation
	obsPrecipitationType
	obsLightningAvgDistance
	obsLightningCount
	obsBattery
	obsReportInterval
	obsFieldCount
)

func decodeMessage(data []byte) (*rawMessage, error) {
	var msg rawMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("weatherflowudp: malformed datagram: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("weatherflowudp: datagram without type")
	}
	return &msg, nil
}

func (m *rawMessage) firmware() string {
	switch v := m.FirmwareRevision.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

func (m *rawMessage) observationRecord() []*float64 {
	if len(m.Obs) == 0 {
		return nil
	}
	rec := m.Obs[0]
	if len(rec) < obsFieldCount {
		return nil
	}
	return rec
}
