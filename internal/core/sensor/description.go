package sensor

import (
	"strings"

	"tempest2mqtt/pkg/weatherflowrest"
	"tempest2mqtt/pkg/weatherflowudp"
)

// Description is the source-independent part of a sensor description. Tables
// are built once at startup and never mutated.
type Description struct {
	Key               string
	Name              string
	UnitOfMeasurement string
	DeviceClass       string
	StateClass        string
	EntityCategory    string
	// Precision is the suggested display precision; nil means unspecified.
	Precision        *uint
	EnabledByDefault *bool
	Options          []string
}

// Decimals is the precision used when formatting a numeric state.
func (d Description) Decimals() uint {
	if d.Precision != nil {
		return *d.Precision
	}
	return 2
}

// LocalDescription describes a push sensor fed by UDP device events.
type LocalDescription struct {
	Description
	// EventSubscriptions are the device events that trigger re-evaluation.
	EventSubscriptions []string
	// ImperialUnit replaces UnitOfMeasurement when the configured unit
	// system is imperial.
	ImperialUnit string
	Extract      func(*weatherflowudp.Device) Value
}

// CloudDescription describes a pull sensor computed from the latest REST
// observation record.
type CloudDescription struct {
	Description
	Extract func(*weatherflowrest.Observation) Value
}

// Unit returns the display unit for the given unit system.
func (d LocalDescription) Unit(metric bool) string {
	if !metric && d.ImperialUnit != "" {
		return d.ImperialUnit
	}
	return d.UnitOfMeasurement
}

var precipitationOptions = []string{"none", "rain", "hail", "rain_hail", "unknown"}

// precipitationText maps the raw precipitation enum to its reportable form.
// An unknown classification is treated as no value at all.
func precipitationText(raw *weatherflowudp.PrecipitationType) Value {
	if raw == nil {
		return Absent()
	}
	name := strings.ToLower(raw.String())
	if name == "unknown" {
		return Absent()
	}
	return Text(name)
}

func precision(v uint) *uint { return &v }

func disabled() *bool {
	v := false
	return &v
}
