package domain

import (
	"tempest2mqtt/internal/entry"
	"tempest2mqtt/pkg/weatherflowrest"
	"tempest2mqtt/pkg/weatherflowudp"
)

const (
	ACTOR_ID_MASTER      = "master"
	ACTOR_ID_MQTT        = "mqtt"
	ACTOR_ID_LISTENER    = "listener"
	ACTOR_ID_COORDINATOR = "coordinator"
)

// Entry lifecycle. Setup and teardown requests come from the host adapter
// (HTTP server, daemon boot); the master actor owns the registry slot.

type SetupEntryRequest struct {
	ActorRequestMixIn
	Entry *entry.Entry
}

type SetupEntryResponse struct {
	ActorResponseMixIn
	EntryID string
	// AuthFailed distinguishes a cloud 401 from a generic setup failure.
	AuthFailed bool
}

type TeardownEntryRequest struct {
	ActorRequestMixIn
	EntryID string
}

type TeardownEntryResponse struct {
	ActorResponseMixIn
	EntryID string
}

// RemoveDeviceRequest asks whether the device record identified by serial may
// be removed from a given entry.
type RemoveDeviceRequest struct {
	ActorRequestMixIn
	EntryID string
	Serial  string
}

type RemoveDeviceResponse struct {
	ActorResponseMixIn
	Allowed bool
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}

// Listener actor messages (local mode).

type DeviceDiscovered struct {
	EntryID string
	Device  *weatherflowudp.Device
}

// DeviceReady fires after a discovered device's load-complete event; sensors
// are only bound to ready devices.
type DeviceReady struct {
	EntryID string
	Device  *weatherflowudp.Device
}

// Coordinator actor messages (cloud mode).

// CoordinatorReady is sent to the parent after the first successful refresh.
type CoordinatorReady struct {
	EntryID  string
	Stations map[int]*weatherflowrest.StationData
}

// CoordinatorFailed is sent when the first refresh fails. AuthFailed marks an
// HTTP 401, which requires re-authentication instead of a retry.
type CoordinatorFailed struct {
	EntryID    string
	Err        error
	AuthFailed bool
}

// SnapshotUpdated is published on the event stream after every later refresh.
type SnapshotUpdated struct {
	EntryID  string
	Stations map[int]*weatherflowrest.StationData
}

// MQTT actor messages.

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}
