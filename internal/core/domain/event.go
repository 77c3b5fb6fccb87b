package domain

import (
	"fmt"
	"time"
)

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

type FloatSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
	// LastReset marks when a total sensor last reset. When set, the value
	// is published as a JSON payload carrying both fields.
	LastReset *time.Time
}

type TextSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value string
}

type TimestampSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value time.Time
}

// SensorAvailabilityUpdateEvent toggles a single sensor between available and
// unavailable without touching its last state.
type SensorAvailabilityUpdateEvent struct {
	SensorUpdateEventMixIn
	Available bool
}
