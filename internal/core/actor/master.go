package actor

import (
	"errors"
	"fmt"
	"time"

	adactor "tempest2mqtt/internal/adapter/actor"
	"tempest2mqtt/internal/config"
	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/internal/core/sensor"
	"tempest2mqtt/internal/entry"
	"tempest2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

// MasterActor supervises the MQTT child plus one sourcing child per entry
// (UDP listener for local mode, REST coordinator for cloud mode) and owns the
// sensor bindings built on top of them.
type MasterActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *actorutil.Stash

	eventStream       *eventstream.EventStream
	store             *entry.Store
	mqttActor         *actor.PID
	entries           *entry.Registry[*entryRuntime]
	mqttActorProvider MQTTActorProvider

	currentHealthCheck healthCheckResult

	logger *zap.Logger
}

// entryRuntime is the live state of one set-up entry.
type entryRuntime struct {
	entry *entry.Entry
	child *actor.PID

	// pendingSetup holds the reply target while a cloud entry waits for
	// its first refresh.
	pendingSetup *actor.PID

	pushBindings map[string][]*PushBinding
	pullBindings map[int][]*PullBinding
}

type healthCheckResult struct {
	pending   int
	unhealthy int
	respondTo *actor.PID
}

func NewMasterActor(config config.Config, store *entry.Store, mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterActor {
	act := &MasterActor{
		config:            config,
		behavior:          actor.NewBehavior(),
		stash:             &actorutil.Stash{},
		eventStream:       &eventstream.EventStream{},
		store:             store,
		entries:           entry.NewRegistry[*entryRuntime](),
		mqttActorProvider: mqttActorProvider,
		logger:            actorutil.ActorLogger(domain.ACTOR_ID_MASTER, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		// start MQTT child
		mqttActorPID, err := state.startMQTTActor(ctx)
		if err != nil {
			panic(err)
		}
		state.mqttActor = mqttActorPID

		// route coordinator snapshots through the mailbox
		self := ctx.Self()
		root := ctx.ActorSystem().Root
		state.eventStream.Subscribe(func(value any) {
			if snapshot, ok := value.(domain.SnapshotUpdated); ok {
				root.Send(self, snapshot)
			}
		})

		if state.config.MQTT.HADiscoveryEnable {
			ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
				Sensors: domain.BridgeSensors(domain.BridgeDevice(state.config.MQTT.BaseTopic)),
			})
		}

		// set up every stored entry
		for _, e := range state.store.List() {
			ctx.Send(ctx.Self(), domain.SetupEntryRequest{Entry: e})
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.SetupEntryRequest:
		state.setupEntry(ctx, msg)
	case domain.TeardownEntryRequest:
		state.teardownEntry(ctx, msg)
	case domain.RemoveDeviceRequest:
		state.removeDevice(ctx, msg)
	case domain.DeviceDiscovered:
		state.logger.Info("master@default device discovered",
			zap.String("entry", msg.EntryID), zap.String("serial", msg.Device.SerialNumber()))
	case domain.DeviceReady:
		state.deviceReady(ctx, msg)
	case domain.CoordinatorReady:
		state.coordinatorReady(ctx, msg)
	case domain.CoordinatorFailed:
		state.coordinatorFailed(ctx, msg)
	case domain.SnapshotUpdated:
		state.snapshotUpdated(msg)
	case domain.ActorHealthRequest:
		state.healthCheck(ctx)
	case *actor.Terminated:
		// if the MQTT actor gives up, terminate
		if msg.Who.Id == fmt.Sprintf("%s/%s", domain.ACTOR_ID_MASTER, domain.ACTOR_ID_MQTT) {
			state.logger.Error("master@default mqtt terminated")
			panic(errors.New("mqtt terminated"))
		}
	default:
		state.logger.Debug("master@default ignored", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *MasterActor) setupEntry(ctx actor.Context, msg domain.SetupEntryRequest) {
	e := msg.Entry
	replyTo := actorutil.ForRequest(msg).ReplyTo(ctx)
	state.logger.Info("master@default setup entry",
		zap.String("entry", e.ID), zap.String("mode", string(e.Mode())))

	if _, ok := state.entries.Get(e.ID); ok {
		respond(ctx, replyTo, domain.SetupEntryResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: errors.New("entry already set up"),
			},
			EntryID: e.ID,
		})
		return
	}

	runtime := &entryRuntime{
		entry:        e,
		pushBindings: map[string][]*PushBinding{},
		pullBindings: map[int][]*PullBinding{},
	}

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	switch e.Mode() {
	case entry.ModeLocal:
		props := actor.PropsFromProducer(func() actor.Actor {
			return adactor.NewListenerActor(&state.config, e.ID, state.logger)
		}, actor.WithSupervisor(supervisor))
		pid, err := ctx.SpawnNamed(props, childName(domain.ACTOR_ID_LISTENER, e.ID))
		if err != nil {
			respond(ctx, replyTo, domain.SetupEntryResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{ResponseError: err},
				EntryID:            e.ID,
			})
			return
		}
		runtime.child = pid
		state.entries.Insert(e.ID, runtime)
		// the listener is up; devices announce themselves later
		respond(ctx, replyTo, domain.SetupEntryResponse{EntryID: e.ID})
	case entry.ModeCloud:
		props := actor.PropsFromProducer(func() actor.Actor {
			return adactor.NewCoordinatorActor(&state.config, e.ID, e.Token.AccessToken, state.eventStream, state.logger)
		}, actor.WithSupervisor(supervisor))
		pid, err := ctx.SpawnNamed(props, childName(domain.ACTOR_ID_COORDINATOR, e.ID))
		if err != nil {
			respond(ctx, replyTo, domain.SetupEntryResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{ResponseError: err},
				EntryID:            e.ID,
			})
			return
		}
		runtime.child = pid
		runtime.pendingSetup = replyTo
		state.entries.Insert(e.ID, runtime)
	}
}

func (state *MasterActor) teardownEntry(ctx actor.Context, msg domain.TeardownEntryRequest) {
	replyTo := actorutil.ForRequest(msg).ReplyTo(ctx)
	runtime, ok := state.entries.Remove(msg.EntryID)
	if !ok {
		respond(ctx, replyTo, domain.TeardownEntryResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: errors.New("unknown entry"),
			},
			EntryID: msg.EntryID,
		})
		return
	}
	state.logger.Info("master@default teardown entry", zap.String("entry", msg.EntryID))

	for _, bindings := range runtime.pushBindings {
		for _, binding := range bindings {
			binding.Release()
		}
	}
	if runtime.child != nil {
		ctx.Stop(runtime.child)
	}
	respond(ctx, replyTo, domain.TeardownEntryResponse{EntryID: msg.EntryID})
}

// removeDevice implements the host's stale-device cleanup check: a device
// record may only be removed while its source no longer reports it.
func (state *MasterActor) removeDevice(ctx actor.Context, msg domain.RemoveDeviceRequest) {
	replyTo := actorutil.ForRequest(msg).ReplyTo(ctx)
	runtime, ok := state.entries.Get(msg.EntryID)
	if !ok {
		respond(ctx, replyTo, domain.RemoveDeviceResponse{Allowed: true})
		return
	}
	if runtime.entry.Mode() == entry.ModeCloud {
		respond(ctx, replyTo, domain.RemoveDeviceResponse{Allowed: true})
		return
	}
	_, present := runtime.pushBindings[msg.Serial]
	respond(ctx, replyTo, domain.RemoveDeviceResponse{Allowed: !present})
}

func (state *MasterActor) deviceReady(ctx actor.Context, msg domain.DeviceReady) {
	runtime, ok := state.entries.Get(msg.EntryID)
	if !ok {
		return
	}
	serial := msg.Device.SerialNumber()
	if _, bound := runtime.pushBindings[serial]; bound {
		// first binding wins; a device re-announcing itself is a no-op
		return
	}
	state.logger.Info("master@default binding device",
		zap.String("entry", msg.EntryID), zap.String("serial", serial))

	haDevice := domain.LocalDevice(msg.Device)
	var bindings []*PushBinding
	var sensors []domain.GenericSensor
	for _, desc := range sensor.Local() {
		if !msg.Device.HasAttribute(desc.Key) {
			continue
		}
		binding := NewPushBinding(msg.Device, haDevice, desc, state.config.Metric(), state.eventStream)
		bindings = append(bindings, binding)
		sensors = append(sensors, binding.Sensor)
	}
	runtime.pushBindings[serial] = bindings

	if state.config.MQTT.HADiscoveryEnable {
		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{Sensors: sensors})
	}
	for _, binding := range bindings {
		binding.Bind()
	}
}

func (state *MasterActor) coordinatorReady(ctx actor.Context, msg domain.CoordinatorReady) {
	runtime, ok := state.entries.Get(msg.EntryID)
	if !ok {
		return
	}
	state.logger.Info("master@default coordinator ready",
		zap.String("entry", msg.EntryID), zap.Int("stations", len(msg.Stations)))

	var sensors []domain.GenericSensor
	for stationID, data := range msg.Stations {
		if _, bound := runtime.pullBindings[stationID]; bound {
			continue
		}
		haDevice := domain.CloudDevice(data.Station)
		var bindings []*PullBinding
		for _, desc := range sensor.Cloud() {
			binding := NewPullBinding(data.Station, haDevice, desc, state.eventStream)
			bindings = append(bindings, binding)
			sensors = append(sensors, binding.Sensor)
		}
		runtime.pullBindings[stationID] = bindings
	}

	if state.config.MQTT.HADiscoveryEnable && len(sensors) > 0 {
		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{Sensors: sensors})
	}
	for _, bindings := range runtime.pullBindings {
		for _, binding := range bindings {
			binding.Update(msg.Stations)
		}
	}

	if runtime.pendingSetup != nil {
		ctx.Send(runtime.pendingSetup, domain.SetupEntryResponse{EntryID: msg.EntryID})
		runtime.pendingSetup = nil
	}
}

func (state *MasterActor) coordinatorFailed(ctx actor.Context, msg domain.CoordinatorFailed) {
	runtime, ok := state.entries.Get(msg.EntryID)
	if !ok {
		return
	}
	state.logger.Error("master@default coordinator failed",
		zap.String("entry", msg.EntryID), zap.Bool("authFailed", msg.AuthFailed), zap.Error(msg.Err))

	if runtime.pendingSetup != nil {
		ctx.Send(runtime.pendingSetup, domain.SetupEntryResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{ResponseError: msg.Err},
			EntryID:            msg.EntryID,
			AuthFailed:         msg.AuthFailed,
		})
		runtime.pendingSetup = nil
	}
}

func (state *MasterActor) snapshotUpdated(msg domain.SnapshotUpdated) {
	runtime, ok := state.entries.Get(msg.EntryID)
	if !ok {
		return
	}
	for _, bindings := range runtime.pullBindings {
		for _, binding := range bindings {
			binding.Update(msg.Stations)
		}
	}
}

func (state *MasterActor) healthCheck(ctx actor.Context) {
	state.logger.Debug("master@default ActorHealthRequest")

	targets := []*actor.PID{state.mqttActor}
	for _, id := range state.entries.Keys() {
		if runtime, ok := state.entries.Get(id); ok && runtime.child != nil {
			targets = append(targets, runtime.child)
		}
	}

	state.currentHealthCheck = healthCheckResult{
		pending:   len(targets),
		respondTo: ctx.Sender(),
	}
	for _, target := range targets {
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(target, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{Healthy: false}
		})
	}
	if len(targets) == 0 {
		state.currentHealthCheck.respond(ctx)
		return
	}
	ctx.SetReceiveTimeout(1 * time.Second)
	state.behavior.BecomeStacked(state.HealthCheckReceive)
}

func (state *MasterActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		state.currentHealthCheck.unhealthy++
		state.currentHealthCheck.respond(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse",
			zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.pending--
		if !msg.Healthy {
			state.currentHealthCheck.unhealthy++
		}
		if state.currentHealthCheck.pending <= 0 {
			state.currentHealthCheck.respond(ctx)
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		} else {
			ctx.SetReceiveTimeout(1 * time.Second)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	mqttActorPID, err := ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
	if err != nil {
		return nil, err
	}

	return mqttActorPID, nil
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.unhealthy == 0,
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}

func respond(ctx actor.Context, replyTo *actor.PID, resp any) {
	if replyTo != nil {
		ctx.Send(replyTo, resp)
	}
}

func childName(kind, entryID string) string {
	return fmt.Sprintf("%s_%s", kind, entryID)
}
