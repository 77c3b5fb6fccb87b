package weatherflowudp

// Measurement is a scalar with its native unit, mirroring how the broadcast
// protocol reports values (always metric).
type Measurement struct {
	Magnitude float64
	Unit      string
}

func measure(value float64, unit string) *Measurement {
	return &Measurement{Magnitude: value, Unit: unit}
}

func measurePtr(value *float64, unit string) *Measurement {
	if value == nil {
		return nil
	}
	return measure(*value, unit)
}

// PrecipitationType is the raw precipitation classification reported in an
// observation record.
type PrecipitationType int

const (
	PrecipitationNone PrecipitationType = iota
	PrecipitationRain
	PrecipitationHail
	PrecipitationRainHail
	precipitationTypeCount
)

// PrecipitationUnknown marks values outside the documented range.
const PrecipitationUnknown = PrecipitationType(-1)

func precipitationTypeFromRaw(raw float64) PrecipitationType {
	v := PrecipitationType(int(raw))
	if v < PrecipitationNone || v >= precipitationTypeCount {
		return PrecipitationUnknown
	}
	return v
}

func (p PrecipitationType) String() string {
	switch p {
	case PrecipitationNone:
		return "None"
	case PrecipitationRain:
		return "Rain"
	case PrecipitationHail:
		return "Hail"
	case PrecipitationRainHail:
		return "Rain_Hail"
	default:
		return "Unknown"
	}
}
