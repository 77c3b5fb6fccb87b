package weatherflowudp

import (
	"math"
	"strings"
	"sync"
	"time"
)

// Device events. Observation-driven attributes only change on EventObservation
// or EventRapidWind; diagnostics change on EventStatusUpdate.
const (
	EventLoadComplete = "load_complete"
	EventObservation  = "observation"
	EventRapidWind    = "rapid_wind"
	EventStatusUpdate = "status_update"
)

var tempestAttributes = []string{
	"air_density",
	"air_temperature",
	"battery",
	"dew_point_temperature",
	"feels_like_temperature",
	"illuminance",
	"lightning_strike_average_distance",
	"lightning_strike_count",
	"precipitation_type",
	"rain_accumulation_previous_minute",
	"rain_rate",
	"relative_humidity",
	"rssi",
	"solar_radiation",
	"station_pressure",
	"up_since",
	"uv",
	"vapor_pressure",
	"wet_bulb_temperature",
	"wind_average",
	"wind_direction",
	"wind_direction_average",
	"wind_gust",
	"wind_lull",
	"wind_speed",
}

var hubAttributes = []string{
	"rssi",
	"up_since",
}

// Device is a weather station component (Tempest sensor unit or hub) seen on
// the local network. Attribute getters return nil until the first message
// carrying that attribute arrives.
type Device struct {
	serialNumber string
	hubSerial    string
	hub          bool

	mu               sync.Mutex
	firmware         string
	lastReport       *time.Time
	upSince          *time.Time
	rssi             *float64
	battery          *float64
	windLull         *float64
	windAverage      *float64
	windGust         *float64
	windSpeed        *float64
	windDirection    *float64
	windDirectionAvg *float64
	stationPressure  *float64
	airTemperature   *float64
	relativeHumidity *float64
	illuminance      *float64
	uv               *float64
	solarRadiation   *float64
	rainAccumulation *float64
	precipType       *PrecipitationType
	lightningDist    *float64
	lightningCount   *float64

	loaded    bool
	listeners map[string][]*subscription
}

type subscription struct {
	event string
	fn    func()
}

func newDevice(serial, hubSerial string) *Device {
	return &Device{
		serialNumber: serial,
		hubSerial:    hubSerial,
		hub:          strings.HasPrefix(serial, "HB-"),
		listeners:    map[string][]*subscription{},
	}
}

func (d *Device) SerialNumber() string { return d.serialNumber }

func (d *Device) HubSerialNumber() string { return d.hubSerial }

func (d *Device) Model() string {
	if d.hub {
		return "Hub"
	}
	return "Tempest"
}

func (d *Device) FirmwareRevision() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.firmware
}

// HasAttribute reports whether this hardware model exposes the named
// attribute. Hubs only report diagnostics.
func (d *Device) HasAttribute(name string) bool {
	attrs := tempestAttributes
	if d.hub {
		attrs = hubAttributes
	}
	for _, a := range attrs {
		if a == name {
			return true
		}
	}
	return false
}

// On registers fn for the named device event and returns a release func.
// Release is idempotent.
func (d *Device) On(event string, fn func()) func() {
	sub := &subscription{event: event, fn: fn}
	d.mu.Lock()
	d.listeners[event] = append(d.listeners[event], sub)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			subs := d.listeners[event]
			for i, s := range subs {
				if s == sub {
					d.listeners[event] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

func (d *Device) emit(event string) {
	d.mu.Lock()
	subs := append([]*subscription(nil), d.listeners[event]...)
	d.mu.Unlock()
	for _, s := range subs {
		s.fn()
	}
}

// LastReport is the time of the most recent observation or status message.
func (d *Device) LastReport() *time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastReport
}

func (d *Device) UpSince() *time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.upSince
}

func (d *Device) RSSI() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.rssi, "dBm")
}

func (d *Device) Battery() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.battery, "V")
}

func (d *Device) WindLull() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.windLull, "m/s")
}

func (d *Device) WindAverage() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.windAverage, "m/s")
}

func (d *Device) WindGust() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.windGust, "m/s")
}

// WindSpeed is the most recent sample, updated by both rapid-wind and full
// observation messages.
func (d *Device) WindSpeed() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.windSpeed, "m/s")
}

func (d *Device) WindDirection() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.windDirection, "°")
}

func (d *Device) WindDirectionAverage() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.windDirectionAvg, "°")
}

func (d *Device) StationPressure() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.stationPressure, "mbar")
}

func (d *Device) AirTemperature() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.airTemperature, "°C")
}

func (d *Device) RelativeHumidity() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.relativeHumidity, "%")
}

func (d *Device) Illuminance() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.illuminance, "lx")
}

func (d *Device) UV() *float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uv
}

func (d *Device) SolarRadiation() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.solarRadiation, "W/m²")
}

func (d *Device) RainAccumulationPreviousMinute() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.rainAccumulation, "mm")
}

// RainRate extrapolates the last minute of accumulation to an hourly rate.
func (d *Device) RainRate() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rainAccumulation == nil {
		return nil
	}
	return measure(*d.rainAccumulation*60, "mm/h")
}

func (d *Device) PrecipitationType() *PrecipitationType {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.precipType
}

func (d *Device) LightningStrikeAverageDistance() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return measurePtr(d.lightningDist, "km")
}

func (d *Device) LightningStrikeCount() *float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lightningCount
}

// VaporPressure is the partial pressure of water vapor derived from air
// temperature and relative humidity (Magnus saturation curve).
func (d *Device) VaporPressure() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.airTemperature == nil || d.relativeHumidity == nil {
		return nil
	}
	t := *d.airTemperature
	sat := 6.112 * math.Exp(17.67*t/(t+243.5))
	return measure(*d.relativeHumidity/100*sat, "mbar")
}

func (d *Device) DewPointTemperature() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.airTemperature == nil || d.relativeHumidity == nil || *d.relativeHumidity <= 0 {
		return nil
	}
	t := *d.airTemperature
	g := math.Log(*d.relativeHumidity/100) + 17.67*t/(243.5+t)
	return measure(243.5*g/(17.67-g), "°C")
}

// WetBulbTemperature uses the Stull (2011) empirical approximation.
func (d *Device) WetBulbTemperature() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.airTemperature == nil || d.relativeHumidity == nil {
		return nil
	}
	t := *d.airTemperature
	rh := *d.relativeHumidity
	tw := t*math.Atan(0.151977*math.Sqrt(rh+8.313659)) +
		math.Atan(t+rh) - math.Atan(rh-1.676331) +
		0.00391838*math.Pow(rh, 1.5)*math.Atan(0.023101*rh) - 4.686035
	return measure(tw, "°C")
}

func (d *Device) AirDensity() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.airTemperature == nil || d.stationPressure == nil {
		return nil
	}
	rho := (*d.stationPressure * 100) / (287.05 * (*d.airTemperature + 273.15))
	return measure(rho, "kg/m³")
}

// FeelsLikeTemperature reports heat index in hot humid conditions, wind chill
// in cold windy conditions, and the plain air temperature otherwise.
func (d *Device) FeelsLikeTemperature() *Measurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.airTemperature == nil || d.relativeHumidity == nil {
		return nil
	}
	t := *d.airTemperature
	rh := *d.relativeHumidity
	if t >= 26.67 && rh >= 40 {
		return measure(heatIndex(t, rh), "°C")
	}
	if t <= 10 && d.windSpeed != nil {
		kmh := *d.windSpeed * 3.6
		if kmh > 4.8 {
			chill := 13.12 + 0.6215*t - 11.37*math.Pow(kmh, 0.16) + 0.3965*t*math.Pow(kmh, 0.16)
			return measure(chill, "°C")
		}
	}
	return measure(t, "°C")
}

func heatIndex(t, rh float64) float64 {
	tf := t*9/5 + 32
	hi := -42.379 + 2.04901523*tf + 10.14333127*rh -
		0.22475541*tf*rh - 0.00683783*tf*tf - 0.05481717*rh*rh +
		0.00122874*tf*tf*rh + 0.00085282*tf*rh*rh - 0.00000199*tf*tf*rh*rh
	return (hi - 32) * 5 / 9
}

func (d *Device) handleObservation(msg *rawMessage, rec []*float64) {
	d.mu.Lock()
	ts := time.Unix(int64(floatOr(rec[obsEpoch], 0)), 0).UTC()
	d.lastReport = &ts
	if fw := msg.firmware(); fw != "" {
		d.firmware = fw
	}
	d.windLull = rec[obsWindLull]
	d.windAverage = rec[obsWindAvg]
	d.windGust = rec[obsWindGust]
	d.windSpeed = rec[obsWindAvg]
	d.windDirection = rec[obsWindDirection]
	d.windDirectionAvg = rec[obsWindDirection]
	d.stationPressure = rec[obsStationPressure]
	d.airTemperature = rec[obsAirTemperature]
	d.relativeHumidity = rec[obsRelativeHumidity]
	d.illuminance = rec[obsIlluminance]
	d.uv = rec[obsUV]
	d.solarRadiation = rec[obsSolarRadiation]
	d.rainAccumulation = rec[obsRainAccumulation]
	if rec[obsPrecipitationType] != nil {
		pt := precipitationTypeFromRaw(*rec[obsPrecipitationType])
		d.precipType = &pt
	}
	d.lightningDist = rec[obsLightningAvgDistance]
	d.lightningCount = rec[obsLightningCount]
	d.battery = rec[obsBattery]
	firstLoad := !d.loaded
	d.loaded = true
	d.mu.Unlock()

	if firstLoad {
		d.emit(EventLoadComplete)
	}
	d.emit(EventObservation)
}

func (d *Device) handleRapidWind(msg *rawMessage) {
	if len(msg.Ob) < 3 {
		return
	}
	d.mu.Lock()
	speed := msg.Ob[1]
	dir := msg.Ob[2]
	d.windSpeed = &speed
	d.windDirection = &dir
	d.mu.Unlock()
	d.emit(EventRapidWind)
}

func (d *Device) handleStatus(msg *rawMessage) {
	d.mu.Lock()
	ts := time.Unix(msg.Timestamp, 0).UTC()
	d.lastReport = &ts
	rssi := msg.RSSI
	d.rssi = &rssi
	if msg.Uptime > 0 {
		up := ts.Add(-time.Duration(msg.Uptime) * time.Second)
		d.upSince = &up
	}
	if !d.hub && msg.Voltage > 0 {
		v := msg.Voltage
		d.battery = &v
	}
	if fw := msg.firmware(); fw != "" {
		d.firmware = fw
	}
	firstLoad := d.hub && !d.loaded
	if firstLoad {
		d.loaded = true
	}
	d.mu.Unlock()

	if firstLoad {
		d.emit(EventLoadComplete)
	}
	d.emit(EventStatusUpdate)
}

// Loaded reports whether the device has delivered enough data to be usable
// (first observation for sensor units, first status for hubs).
func (d *Device) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
