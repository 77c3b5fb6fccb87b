package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tempest2mqtt/internal/config"
	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/internal/util/actorutil"
	"tempest2mqtt/pkg/weatherflowrest"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

const refreshTimeout = 30 * time.Second

// CoordinatorActor polls the WeatherFlow REST API for a cloud entry. The
// first refresh gates entry setup; later refreshes fan out on the event
// stream. A transient first failure panics so the supervisor retries with
// backoff; an authentication failure is reported to the parent instead
// because retrying cannot fix it.
type CoordinatorActor struct {
	config      *config.Config
	entryID     string
	token       string
	behavior    actor.Behavior
	stash       *actorutil.Stash
	client      *weatherflowrest.Client
	scheduler   quartz.Scheduler
	cancelSched context.CancelFunc
	eventStream *eventstream.EventStream
	snapshot    map[int]*weatherflowrest.StationData
	logger      *zap.Logger
}

type refreshTick struct {
}

type refreshResult struct {
	Stations map[int]*weatherflowrest.StationData
	Err      error
}

func NewCoordinatorActor(config *config.Config, entryID, token string, eventStream *eventstream.EventStream, logger *zap.Logger) *CoordinatorActor {
	act := &CoordinatorActor{
		config:      config,
		entryID:     entryID,
		token:       token,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		eventStream: eventStream,
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_COORDINATOR, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *CoordinatorActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *CoordinatorActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("coordinator@starting started")

		var opts []weatherflowrest.ClientOption
		if state.config.Cloud.BaseURL != "" {
			opts = append(opts, weatherflowrest.WithBaseURL(state.config.Cloud.BaseURL))
		}
		state.client = weatherflowrest.NewClient(state.token, opts...)

		state.refresh(ctx)
	case refreshResult:
		if msg.Err != nil {
			authFailed := isAuthError(msg.Err)
			state.logger.Error("coordinator@starting first refresh failed",
				zap.Error(msg.Err), zap.Bool("authFailed", authFailed))
			ctx.Send(ctx.Parent(), domain.CoordinatorFailed{
				EntryID:    state.entryID,
				Err:        msg.Err,
				AuthFailed: authFailed,
			})
			if !authFailed {
				// let the supervisor retry with backoff
				panic(msg.Err)
			}
			return
		}
		state.logger.Info("coordinator@starting first refresh complete",
			zap.Int("stations", len(msg.Stations)))
		state.snapshot = msg.Stations
		ctx.Send(ctx.Parent(), domain.CoordinatorReady{
			EntryID:  state.entryID,
			Stations: msg.Stations,
		})
		state.startScheduler(ctx)
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.stop()
	default:
		state.logger.Debug("coordinator@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *CoordinatorActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("coordinator@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_COORDINATOR,
			Healthy: true,
			State:   "polling",
		})
	case refreshTick:
		state.logger.Debug("coordinator@default tick")
		state.refresh(ctx)
	case refreshResult:
		if msg.Err != nil {
			if isAuthError(msg.Err) {
				state.logger.Error("coordinator@default auth failed", zap.Error(msg.Err))
				ctx.Send(ctx.Parent(), domain.CoordinatorFailed{
					EntryID:    state.entryID,
					Err:        msg.Err,
					AuthFailed: true,
				})
				return
			}
			// keep the last good snapshot on transient failures
			state.logger.Warn("coordinator@default refresh failed", zap.Error(msg.Err))
			return
		}
		state.logger.Debug("coordinator@default refresh complete",
			zap.Int("stations", len(msg.Stations)))
		state.snapshot = msg.Stations
		state.eventStream.Publish(domain.SnapshotUpdated{
			EntryID:  state.entryID,
			Stations: msg.Stations,
		})
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	default:
		state.logger.Debug("coordinator@default ignored", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *CoordinatorActor) refresh(ctx actor.Context) {
	client := state.client
	actorutil.NewBackgroundTask(ctx, func() (*refreshResult, error) {
		reqCtx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		stations, err := client.GetAllData(reqCtx)
		return &refreshResult{Stations: stations, Err: err}, nil
	}).Recover(func(err error) refreshResult {
		return refreshResult{Err: err}
	}).WithTimeout(refreshTimeout + time.Second).PipeTo(ctx.Self())
}

func (state *CoordinatorActor) startScheduler(ctx actor.Context) {
	interval := time.Duration(state.config.Cloud.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}

	self := ctx.Self()
	root := ctx.ActorSystem().Root
	tickJob := job.NewFunctionJob(func(context.Context) (bool, error) {
		root.Send(self, refreshTick{})
		return true, nil
	})

	schedCtx, cancel := context.WithCancel(context.Background())
	sched := quartz.NewStdScheduler()
	sched.Start(schedCtx)

	err := sched.ScheduleJob(
		quartz.NewJobDetail(tickJob, quartz.NewJobKey("refresh_"+state.entryID)),
		quartz.NewSimpleTrigger(interval))
	if err != nil {
		cancel()
		panic(err)
	}

	state.scheduler = sched
	state.cancelSched = cancel
}

func (state *CoordinatorActor) stop() {
	state.logger.Debug("coordinator: stop")
	if state.scheduler != nil {
		state.scheduler.Stop()
		state.scheduler = nil
	}
	if state.cancelSched != nil {
		state.cancelSched()
		state.cancelSched = nil
	}
}

func isAuthError(err error) bool {
	var apiErr *weatherflowrest.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsAuth()
	}
	return false
}
