package actor

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/internal/core/sensor"
	"tempest2mqtt/pkg/weatherflowrest"
	"tempest2mqtt/pkg/weatherflowudp"

	"github.com/asynkron/protoactor-go/eventstream"
)

// PushBinding ties one description to a UDP device. It recomputes on the
// subscribed device events and publishes the result on the event stream.
type PushBinding struct {
	Sensor domain.GenericSensor

	desc     sensor.LocalDescription
	device   *weatherflowudp.Device
	stream   *eventstream.EventStream
	releases []func()

	// mu serializes recomputes: device events fire on the UDP read
	// goroutine while the initial Bind runs on the actor goroutine.
	mu        sync.Mutex
	available bool
	published bool
}

func NewPushBinding(device *weatherflowudp.Device, haDevice domain.Device,
	desc sensor.LocalDescription, metric bool, stream *eventstream.EventStream) *PushBinding {
	return &PushBinding{
		Sensor: domain.GenericSensor{
			Device:            haDevice,
			Id:                localSensorId(device.SerialNumber(), desc.Key),
			SensorType:        domain.SENSOR_TYPE_SENSOR,
			Name:              desc.Name,
			UniqueId:          domain.UniqueId(haDevice.Id, desc.Key),
			UnitOfMeasurement: desc.Unit(metric),
			StateClass:        desc.StateClass,
			DeviceClass:       desc.DeviceClass,
			EntityCategory:    desc.EntityCategory,
			EnabledByDefault:  desc.EnabledByDefault,
			Options:           desc.Options,
			Precision:         desc.Precision,
		},
		desc:   desc,
		device: device,
		stream: stream,
	}
}

// Bind subscribes to the description's device events and publishes the
// current state once.
func (b *PushBinding) Bind() {
	for _, event := range b.desc.EventSubscriptions {
		b.releases = append(b.releases, b.device.On(event, b.recompute))
	}
	b.recompute()
}

// Release drops the device subscriptions. Safe to call more than once.
func (b *PushBinding) Release() {
	for _, release := range b.releases {
		release()
	}
	b.releases = nil
}

func (b *PushBinding) recompute() {
	b.mu.Lock()
	defer b.mu.Unlock()
	value := b.desc.Extract(b.device)
	if value.IsAbsent() {
		b.setAvailable(false)
		return
	}
	b.setAvailable(true)

	var lastReset *time.Time
	if b.desc.StateClass == domain.STATE_CLASS_TOTAL {
		lastReset = b.device.LastReport()
	}
	publishValue(b.stream, b.Sensor.Id, value, b.desc.Decimals(), lastReset)
}

func (b *PushBinding) setAvailable(available bool) {
	if b.published && b.available == available {
		return
	}
	b.published = true
	b.available = available
	b.stream.Publish(domain.SensorAvailabilityUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: b.Sensor.Id},
		Available:              available,
	})
}

// PullBinding ties one description to a REST station. It recomputes from the
// latest observation of each snapshot.
type PullBinding struct {
	Sensor domain.GenericSensor

	desc      sensor.CloudDescription
	stationID int
	stream    *eventstream.EventStream

	available bool
	published bool
}

func NewPullBinding(station weatherflowrest.Station, haDevice domain.Device,
	desc sensor.CloudDescription, stream *eventstream.EventStream) *PullBinding {
	return &PullBinding{
		Sensor: domain.GenericSensor{
			Device:            haDevice,
			Id:                cloudSensorId(station.StationID, desc.Key),
			SensorType:        domain.SENSOR_TYPE_SENSOR,
			Name:              desc.Name,
			UniqueId:          domain.UniqueId(haDevice.Id, desc.Key),
			UnitOfMeasurement: desc.UnitOfMeasurement,
			StateClass:        desc.StateClass,
			DeviceClass:       desc.DeviceClass,
			EntityCategory:    desc.EntityCategory,
			EnabledByDefault:  desc.EnabledByDefault,
			Options:           desc.Options,
			Precision:         desc.Precision,
		},
		desc:      desc,
		stationID: station.StationID,
		stream:    stream,
	}
}

// Update recomputes from a snapshot. A missing station or an empty
// observation list turns the sensor unavailable instead of erroring out.
func (b *PullBinding) Update(stations map[int]*weatherflowrest.StationData) {
	data := stations[b.stationID]
	obs := data.LatestObservation()
	if obs == nil {
		b.setAvailable(false)
		return
	}
	value := b.desc.Extract(obs)
	if value.IsAbsent() {
		b.setAvailable(false)
		return
	}
	b.setAvailable(true)

	var lastReset *time.Time
	if b.desc.StateClass == domain.STATE_CLASS_TOTAL && obs.Timestamp != nil {
		ts := time.Unix(*obs.Timestamp, 0).UTC()
		lastReset = &ts
	}
	publishValue(b.stream, b.Sensor.Id, value, b.desc.Decimals(), lastReset)
}

func (b *PullBinding) setAvailable(available bool) {
	if b.published && b.available == available {
		return
	}
	b.published = true
	b.available = available
	b.stream.Publish(domain.SensorAvailabilityUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: b.Sensor.Id},
		Available:              available,
	})
}

func publishValue(stream *eventstream.EventStream, id string, value sensor.Value, decimals uint, lastReset *time.Time) {
	switch {
	case value.IsNumber():
		stream.Publish(domain.FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: id},
			Value:                  value.Number(),
			Decimals:               decimals,
			LastReset:              lastReset,
		})
	case value.IsText():
		stream.Publish(domain.TextSensorUpdateEvent{
			SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: id},
			Value:                  value.Text(),
		})
	case value.IsTimestamp():
		stream.Publish(domain.TimestampSensorUpdateEvent{
			SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: id},
			Value:                  value.Timestamp(),
		})
	}
}

func localSensorId(serial, key string) string {
	clean := strings.ToLower(strings.ReplaceAll(serial, "-", "_"))
	return fmt.Sprintf("%s_%s", clean, key)
}

func cloudSensorId(stationID int, key string) string {
	return fmt.Sprintf("station_%d_%s", stationID, key)
}
