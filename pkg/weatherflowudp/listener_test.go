package weatherflowudp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const sampleObsST = `{
	"serial_number": "ST-00012345",
	"type": "obs_st",
	"hub_sn": "HB-00054321",
	"obs": [[1724917200, 0.18, 0.87, 1.89, 204, 3, 1017.57, 22.37, 50.26, 328, 0.03, 3, 0.0, 0, 0, 0, 2.676, 1]],
	"firmware_revision": 176
}`

const sampleRapidWind = `{
	"serial_number": "ST-00012345",
	"type": "rapid_wind",
	"hub_sn": "HB-00054321",
	"ob": [1724917203, 2.3, 187]
}`

const sampleDeviceStatus = `{
	"serial_number": "ST-00012345",
	"type": "device_status",
	"hub_sn": "HB-00054321",
	"timestamp": 1724917210,
	"uptime": 2189,
	"voltage": 2.676,
	"firmware_revision": 176,
	"rssi": -62,
	"hub_rssi": -53
}`

const sampleHubStatus = `{
	"serial_number": "HB-00054321",
	"type": "hub_status",
	"firmware_revision": "171",
	"uptime": 86154,
	"rssi": -29,
	"timestamp": 1724917215
}`

func TestListenerDiscoversDeviceOnce(t *testing.T) {
	listener := NewListener()

	var discovered []string
	release := listener.OnDeviceDiscovered(func(d *Device) {
		discovered = append(discovered, d.SerialNumber())
	})
	defer release()

	listener.Deliver([]byte(sampleObsST))
	listener.Deliver([]byte(sampleRapidWind))
	listener.Deliver([]byte(sampleDeviceStatus))

	assert.Equal(t, []string{"ST-00012345"}, discovered)
	assert.Len(t, listener.Devices(), 1)
}

func TestListenerDropsMalformedDatagrams(t *testing.T) {
	listener := NewListener()

	listener.Deliver([]byte("not json"))
	listener.Deliver([]byte(`{"serial_number":"ST-1"}`))
	listener.Deliver([]byte(`{"type":"obs_st"}`))

	assert.Empty(t, listener.Devices())
}

func TestObservationPopulatesDevice(t *testing.T) {
	listener := NewListener()
	listener.Deliver([]byte(sampleObsST))

	devices := listener.Devices()
	assert.Len(t, devices, 1)
	device := devices[0]

	assert.Equal(t, "ST-00012345", device.SerialNumber())
	assert.Equal(t, "HB-00054321", device.HubSerialNumber())
	assert.Equal(t, "Tempest", device.Model())
	assert.Equal(t, "176", device.FirmwareRevision())
	assert.True(t, device.Loaded())

	assert.Equal(t, 22.37, device.AirTemperature().Magnitude)
	assert.Equal(t, "°C", device.AirTemperature().Unit)
	assert.Equal(t, 1017.57, device.StationPressure().Magnitude)
	assert.Equal(t, 50.26, device.RelativeHumidity().Magnitude)
	assert.Equal(t, 0.87, device.WindAverage().Magnitude)
	assert.Equal(t, 0.87, device.WindSpeed().Magnitude)
	assert.Equal(t, 1.89, device.WindGust().Magnitude)
	assert.Equal(t, 0.18, device.WindLull().Magnitude)
	assert.Equal(t, float64(204), device.WindDirection().Magnitude)
	assert.Equal(t, float64(328), device.Illuminance().Magnitude)
	assert.Equal(t, 0.03, *device.UV())
	assert.Equal(t, float64(3), device.SolarRadiation().Magnitude)
	assert.Equal(t, 2.676, device.Battery().Magnitude)
	assert.Equal(t, PrecipitationNone, *device.PrecipitationType())
	assert.Equal(t, time.Unix(1724917200, 0).UTC(), *device.LastReport())
}

func TestRapidWindUpdatesInstantWind(t *testing.T) {
	listener := NewListener()
	listener.Deliver([]byte(sampleObsST))
	listener.Deliver([]byte(sampleRapidWind))

	device := listener.Devices()[0]

	assert.Equal(t, 2.3, device.WindSpeed().Magnitude)
	assert.Equal(t, float64(187), device.WindDirection().Magnitude)
	// averages come from the full observation only
	assert.Equal(t, 0.87, device.WindAverage().Magnitude)
	assert.Equal(t, float64(204), device.WindDirectionAverage().Magnitude)
}

func TestDeviceStatusUpdatesDiagnostics(t *testing.T) {
	listener := NewListener()
	listener.Deliver([]byte(sampleDeviceStatus))

	device := listener.Devices()[0]

	assert.Equal(t, float64(-62), device.RSSI().Magnitude)
	assert.Equal(t, 2.676, device.Battery().Magnitude)
	// sensor units only load on their first observation
	assert.False(t, device.Loaded())

	expectedUp := time.Unix(1724917210, 0).UTC().Add(-2189 * time.Second)
	assert.Equal(t, expectedUp, *device.UpSince())
}

func TestHubLoadsOnFirstStatus(t *testing.T) {
	listener := NewListener()
	listener.Deliver([]byte(sampleHubStatus))

	device := listener.Devices()[0]

	assert.Equal(t, "Hub", device.Model())
	assert.Equal(t, "171", device.FirmwareRevision())
	assert.True(t, device.Loaded())
	assert.True(t, device.HasAttribute("rssi"))
	assert.True(t, device.HasAttribute("up_since"))
	assert.False(t, device.HasAttribute("air_temperature"))
	assert.Nil(t, device.Battery())
}

func TestLoadCompleteFiresOnce(t *testing.T) {
	listener := NewListener()
	listener.Deliver([]byte(sampleObsST))
	device := listener.Devices()[0]

	loads := 0
	observations := 0
	releaseLoad := device.On(EventLoadComplete, func() { loads++ })
	releaseObs := device.On(EventObservation, func() { observations++ })
	defer releaseLoad()
	defer releaseObs()

	listener.Deliver([]byte(sampleObsST))
	listener.Deliver([]byte(sampleObsST))

	assert.Equal(t, 0, loads, "load complete already fired before subscribing")
	assert.Equal(t, 2, observations)
}

func TestSubscriptionRelease(t *testing.T) {
	listener := NewListener()
	listener.Deliver([]byte(sampleObsST))
	device := listener.Devices()[0]

	fired := 0
	release := device.On(EventObservation, func() { fired++ })
	listener.Deliver([]byte(sampleObsST))
	release()
	release()
	listener.Deliver([]byte(sampleObsST))

	assert.Equal(t, 1, fired)
}

func TestStartListeningReportsBindConflict(t *testing.T) {
	first := NewListener(WithBindAddress("127.0.0.1:0"))
	if err := first.StartListening(); err != nil {
		t.Skipf("cannot bind udp socket: %v", err)
	}
	defer first.StopListening()

	second := NewListener(WithBindAddress("invalid:addr:"))
	err := second.StartListening()
	assert.Error(t, err)
	var listenerErr *ListenerError
	assert.ErrorAs(t, err, &listenerErr)
}
