// Package sensor holds the static description tables binding raw station
// fields to presentable Home Assistant sensor values, one table per sourcing
// mode.
package sensor

import (
	"time"

	"tempest2mqtt/pkg/weatherflowudp"
)

type valueKind int

const (
	kindAbsent valueKind = iota
	kindNumber
	kindText
	kindTimestamp
)

// Value is the result of a description's extractor: a number, a string, a
// timestamp, or Absent when the raw field is missing.
type Value struct {
	kind   valueKind
	number float64
	text   string
	ts     time.Time
}

func Absent() Value { return Value{} }

func Number(v float64) Value { return Value{kind: kindNumber, number: v} }

func Text(v string) Value { return Value{kind: kindText, text: v} }

func Timestamp(v time.Time) Value { return Value{kind: kindTimestamp, ts: v} }

func numberPtr(v *float64) Value {
	if v == nil {
		return Absent()
	}
	return Number(*v)
}

func textPtr(v *string) Value {
	if v == nil {
		return Absent()
	}
	return Text(*v)
}

func timePtr(v *time.Time) Value {
	if v == nil {
		return Absent()
	}
	return Timestamp(*v)
}

func epochPtr(v *int64) Value {
	if v == nil {
		return Absent()
	}
	return Timestamp(time.Unix(*v, 0).UTC())
}

func magnitude(m *weatherflowudp.Measurement) Value {
	if m == nil {
		return Absent()
	}
	return Number(m.Magnitude)
}

func (v Value) IsAbsent() bool { return v.kind == kindAbsent }

func (v Value) IsNumber() bool { return v.kind == kindNumber }

func (v Value) IsText() bool { return v.kind == kindText }

func (v Value) IsTimestamp() bool { return v.kind == kindTimestamp }

func (v Value) Number() float64 { return v.number }

func (v Value) Text() string { return v.text }

func (v Value) Timestamp() time.Time { return v.ts }
