package actor

import (
	"sync"
	"testing"
	"time"

	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/internal/core/sensor"
	"tempest2mqtt/pkg/weatherflowrest"
	"tempest2mqtt/pkg/weatherflowudp"

	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
)

const bindingObsST = `{
	"serial_number": "ST-00012345",
	"type": "obs_st",
	"hub_sn": "HB-00054321",
	"obs": [[1724917200, 0.18, 0.87, 1.89, 204, 3, 1017.57, 22.37, 50.26, 328, 0.03, 3, 0.2, 1, 0, 3, 2.676, 1]],
	"firmware_revision": 176
}`

func collectEvents(stream *eventstream.EventStream) (*[]any, func()) {
	var events []any
	sub := stream.Subscribe(func(evt any) {
		events = append(events, evt)
	})
	return &events, func() { stream.Unsubscribe(sub) }
}

func localDescription(t *testing.T, key string) sensor.LocalDescription {
	t.Helper()
	for _, desc := range sensor.Local() {
		if desc.Key == key {
			return desc
		}
	}
	t.Fatalf("no local description for key %s", key)
	return sensor.LocalDescription{}
}

func cloudDescription(t *testing.T, key string) sensor.CloudDescription {
	t.Helper()
	for _, desc := range sensor.Cloud() {
		if desc.Key == key {
			return desc
		}
	}
	t.Fatalf("no cloud description for key %s", key)
	return sensor.CloudDescription{}
}

func discoveredDevice(t *testing.T, listener *weatherflowudp.Listener) *weatherflowudp.Device {
	t.Helper()
	devices := listener.Devices()
	if len(devices) != 1 {
		t.Fatalf("expected one device, got %d", len(devices))
	}
	return devices[0]
}

func TestPushBindingPublishesOnBind(t *testing.T) {
	listener := weatherflowudp.NewListener()
	listener.Deliver([]byte(bindingObsST))
	device := discoveredDevice(t, listener)

	stream := &eventstream.EventStream{}
	events, release := collectEvents(stream)
	defer release()

	desc := localDescription(t, "air_temperature")
	binding := NewPushBinding(device, domain.LocalDevice(device), desc, true, stream)
	defer binding.Release()

	assert.Equal(t, "st_00012345_air_temperature", binding.Sensor.Id)
	assert.Equal(t, "°C", binding.Sensor.UnitOfMeasurement)

	binding.Bind()

	assert.Len(t, *events, 2)
	avail, ok := (*events)[0].(domain.SensorAvailabilityUpdateEvent)
	assert.True(t, ok)
	assert.True(t, avail.Available)
	update, ok := (*events)[1].(domain.FloatSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, binding.Sensor.Id, update.SensorId())
	assert.Equal(t, 22.37, update.Value)
	assert.Nil(t, update.LastReset)
}

func TestPushBindingRecomputesOnDeviceEvents(t *testing.T) {
	listener := weatherflowudp.NewListener()
	listener.Deliver([]byte(bindingObsST))
	device := discoveredDevice(t, listener)

	stream := &eventstream.EventStream{}
	desc := localDescription(t, "wind_speed")
	binding := NewPushBinding(device, domain.LocalDevice(device), desc, true, stream)
	binding.Bind()

	events, release := collectEvents(stream)
	defer release()

	listener.Deliver([]byte(`{"serial_number":"ST-00012345","type":"rapid_wind","hub_sn":"HB-00054321","ob":[1724917203, 2.3, 187]}`))

	assert.Len(t, *events, 1)
	update := (*events)[0].(domain.FloatSensorUpdateEvent)
	assert.Equal(t, 2.3, update.Value)

	// released bindings stay silent
	binding.Release()
	listener.Deliver([]byte(`{"serial_number":"ST-00012345","type":"rapid_wind","hub_sn":"HB-00054321","ob":[1724917204, 3.1, 190]}`))
	assert.Len(t, *events, 1)
}

func TestPushBindingAvailabilityTransitions(t *testing.T) {
	listener := weatherflowudp.NewListener()
	listener.Deliver([]byte(`{"serial_number":"ST-00012345","type":"rapid_wind","hub_sn":"HB-00054321","ob":[0,0,0]}`))
	device := discoveredDevice(t, listener)

	stream := &eventstream.EventStream{}
	events, release := collectEvents(stream)
	defer release()

	// air temperature is unknown until the first full observation
	desc := localDescription(t, "air_temperature")
	binding := NewPushBinding(device, domain.LocalDevice(device), desc, true, stream)
	defer binding.Release()
	binding.Bind()

	assert.Len(t, *events, 1)
	avail := (*events)[0].(domain.SensorAvailabilityUpdateEvent)
	assert.False(t, avail.Available)

	listener.Deliver([]byte(bindingObsST))

	// one transition to available, then the value
	assert.Len(t, *events, 3)
	avail = (*events)[1].(domain.SensorAvailabilityUpdateEvent)
	assert.True(t, avail.Available)
	_, ok := (*events)[2].(domain.FloatSensorUpdateEvent)
	assert.True(t, ok)

	// a second observation repeats the value but not the availability
	listener.Deliver([]byte(bindingObsST))
	assert.Len(t, *events, 4)
	_, ok = (*events)[3].(domain.FloatSensorUpdateEvent)
	assert.True(t, ok)
}

func TestPushBindingTotalCarriesLastReset(t *testing.T) {
	listener := weatherflowudp.NewListener()
	listener.Deliver([]byte(bindingObsST))
	device := discoveredDevice(t, listener)

	stream := &eventstream.EventStream{}
	events, release := collectEvents(stream)
	defer release()

	desc := localDescription(t, "lightning_strike_count")
	binding := NewPushBinding(device, domain.LocalDevice(device), desc, true, stream)
	defer binding.Release()
	binding.Bind()

	assert.Len(t, *events, 2)
	update := (*events)[1].(domain.FloatSensorUpdateEvent)
	assert.Equal(t, 3.0, update.Value)
	assert.NotNil(t, update.LastReset)
	assert.Equal(t, time.Unix(1724917200, 0).UTC(), *update.LastReset)
}

func TestPushBindingConcurrentDeliveries(t *testing.T) {
	listener := weatherflowudp.NewListener()
	listener.Deliver([]byte(`{"serial_number":"ST-00012345","type":"rapid_wind","hub_sn":"HB-00054321","ob":[0,0,0]}`))
	device := discoveredDevice(t, listener)

	stream := &eventstream.EventStream{}
	var mu sync.Mutex
	var events []any
	sub := stream.Subscribe(func(evt any) {
		mu.Lock()
		events = append(events, evt)
		mu.Unlock()
	})
	defer stream.Unsubscribe(sub)

	desc := localDescription(t, "wind_speed")
	binding := NewPushBinding(device, domain.LocalDevice(device), desc, true, stream)
	defer binding.Release()

	// datagrams arrive on the read goroutine while Bind runs on the caller
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			listener.Deliver([]byte(`{"serial_number":"ST-00012345","type":"rapid_wind","hub_sn":"HB-00054321","ob":[1724917203, 2.3, 187]}`))
		}
	}()
	binding.Bind()
	<-done

	mu.Lock()
	defer mu.Unlock()
	availabilityEvents := 0
	firstValue := -1
	for i, evt := range events {
		switch evt.(type) {
		case domain.SensorAvailabilityUpdateEvent:
			availabilityEvents++
		case domain.FloatSensorUpdateEvent:
			if firstValue == -1 {
				firstValue = i
			}
		}
	}
	assert.Equal(t, 1, availabilityEvents)
	avail := events[0].(domain.SensorAvailabilityUpdateEvent)
	assert.True(t, avail.Available)
	assert.Greater(t, firstValue, 0)
}

func snapshotWith(obs ...weatherflowrest.Observation) map[int]*weatherflowrest.StationData {
	return map[int]*weatherflowrest.StationData{
		1234: {
			Station:      weatherflowrest.Station{StationID: 1234, Name: "Backyard"},
			Observations: obs,
		},
	}
}

func TestPullBindingPublishesFromSnapshot(t *testing.T) {
	stream := &eventstream.EventStream{}
	events, release := collectEvents(stream)
	defer release()

	station := weatherflowrest.Station{StationID: 1234, Name: "Backyard"}
	desc := cloudDescription(t, "air_temperature")
	binding := NewPullBinding(station, domain.CloudDevice(station), desc, stream)

	assert.Equal(t, "station_1234_air_temperature", binding.Sensor.Id)

	temperature := 21.5
	ts := int64(1724917200)
	binding.Update(snapshotWith(weatherflowrest.Observation{Timestamp: &ts, AirTemperature: &temperature}))

	assert.Len(t, *events, 2)
	update := (*events)[1].(domain.FloatSensorUpdateEvent)
	assert.Equal(t, 21.5, update.Value)
}

func TestPullBindingTurnsUnavailable(t *testing.T) {
	stream := &eventstream.EventStream{}
	events, release := collectEvents(stream)
	defer release()

	station := weatherflowrest.Station{StationID: 1234}
	desc := cloudDescription(t, "air_temperature")
	binding := NewPullBinding(station, domain.CloudDevice(station), desc, stream)

	// empty observation list
	binding.Update(snapshotWith())
	// station missing from the snapshot entirely
	binding.Update(map[int]*weatherflowrest.StationData{})
	// record present but field missing
	ts := int64(1724917200)
	binding.Update(snapshotWith(weatherflowrest.Observation{Timestamp: &ts}))

	assert.Len(t, *events, 1)
	avail := (*events)[0].(domain.SensorAvailabilityUpdateEvent)
	assert.False(t, avail.Available)
}
