package actor

import (
	"fmt"

	"tempest2mqtt/internal/config"
	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/internal/util/actorutil"
	"tempest2mqtt/pkg/weatherflowudp"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// ListenerActor owns the UDP listener for a local entry. Binding failures
// panic so the supervisor's backoff retries until the port frees up.
type ListenerActor struct {
	config   *config.Config
	entryID  string
	behavior actor.Behavior
	stash    *actorutil.Stash
	listener *weatherflowudp.Listener

	releaseDiscovered func()
	releaseLoaded     map[string]func()

	logger *zap.Logger
}

// deviceLoaded is the internal marker for a device's first full observation.
type deviceLoaded struct {
	Device *weatherflowudp.Device
}

func NewListenerActor(config *config.Config, entryID string, logger *zap.Logger) *ListenerActor {
	act := &ListenerActor{
		config:        config,
		entryID:       entryID,
		behavior:      actor.NewBehavior(),
		stash:         &actorutil.Stash{},
		releaseLoaded: map[string]func(){},
		logger:        actorutil.ActorLogger(domain.ACTOR_ID_LISTENER, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *ListenerActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *ListenerActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("listener@default started")

		bindAddress := state.config.Local.BindAddress
		if bindAddress == "" {
			bindAddress = weatherflowudp.DefaultBindAddress
		}
		state.listener = weatherflowudp.NewListener(
			weatherflowudp.WithBindAddress(bindAddress),
			weatherflowudp.WithLogger(state.logger))

		// discovery callbacks fire on the read goroutine, so route them
		// through the mailbox
		self := ctx.Self()
		root := ctx.ActorSystem().Root
		state.releaseDiscovered = state.listener.OnDeviceDiscovered(func(dev *weatherflowudp.Device) {
			root.Send(self, domain.DeviceDiscovered{EntryID: state.entryID, Device: dev})
		})

		if err := state.listener.StartListening(); err != nil {
			state.logger.Error("listener@default bind failed", zap.Error(err))
			panic(err)
		}
	case domain.DeviceDiscovered:
		state.logger.Info("listener@default device discovered",
			zap.String("serial", msg.Device.SerialNumber()))
		ctx.Send(ctx.Parent(), msg)

		// wait for the first full observation before exposing sensors
		dev := msg.Device
		serial := dev.SerialNumber()
		if _, tracked := state.releaseLoaded[serial]; tracked {
			break
		}
		// the load event may already have fired on the read goroutine
		// before this message got through the mailbox
		if dev.Loaded() {
			ctx.Send(ctx.Self(), deviceLoaded{Device: dev})
			break
		}
		self := ctx.Self()
		root := ctx.ActorSystem().Root
		state.releaseLoaded[serial] = dev.On(weatherflowudp.EventLoadComplete, func() {
			root.Send(self, deviceLoaded{Device: dev})
		})
		// re-check to close the gap between the check and the subscribe
		if dev.Loaded() {
			ctx.Send(ctx.Self(), deviceLoaded{Device: dev})
		}
	case deviceLoaded:
		serial := msg.Device.SerialNumber()
		state.logger.Info("listener@default device ready", zap.String("serial", serial))
		if release := state.releaseLoaded[serial]; release != nil {
			release()
			delete(state.releaseLoaded, serial)
		}
		ctx.Send(ctx.Parent(), domain.DeviceReady{EntryID: state.entryID, Device: msg.Device})
	case domain.ActorHealthRequest:
		state.logger.Debug("listener@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_LISTENER,
			Healthy: true,
			State:   "listening",
		})
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	default:
		state.logger.Debug("listener@default ignored", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *ListenerActor) stop() {
	state.logger.Debug("listener: stop")
	if state.releaseDiscovered != nil {
		state.releaseDiscovered()
		state.releaseDiscovered = nil
	}
	for serial, release := range state.releaseLoaded {
		release()
		delete(state.releaseLoaded, serial)
	}
	if state.listener != nil {
		state.listener.StopListening()
	}
}
