package actor

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	adactor "tempest2mqtt/internal/adapter/actor"
	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/internal/entry"
	"tempest2mqtt/internal/util"
	"tempest2mqtt/pkg/weatherflowudp"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	store, err := entry.NewStore(filepath.Join(t.TempDir(), "entries.json"))
	if err != nil {
		t.Fatal(err)
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterActor(cfg, store, func(stream *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, stream, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorLocalEntryLifecycle(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()

	store, err := entry.NewStore(filepath.Join(t.TempDir(), "entries.json"))
	if err != nil {
		t.Fatal(err)
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterActor(cfg, store, func(stream *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, stream, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Fatal(err)
	}
	defer as.Shutdown()

	localEntry := entry.NewLocal()

	res, err := context.RequestFuture(pid, domain.SetupEntryRequest{Entry: localEntry}, 10*time.Second).Result()
	assert.NoError(t, err)
	setupResp, ok := res.(domain.SetupEntryResponse)
	assert.True(t, ok)
	assert.False(t, setupResp.HasResponseError())
	assert.Equal(t, localEntry.ID, setupResp.EntryID)

	// a second setup of the same entry is rejected
	res, err = context.RequestFuture(pid, domain.SetupEntryRequest{Entry: localEntry}, 10*time.Second).Result()
	assert.NoError(t, err)
	setupResp, ok = res.(domain.SetupEntryResponse)
	assert.True(t, ok)
	assert.True(t, setupResp.HasResponseError())

	// no device reported through this entry yet, removal is allowed
	res, err = context.RequestFuture(pid, domain.RemoveDeviceRequest{
		EntryID: localEntry.ID,
		Serial:  "ST-00012345",
	}, 10*time.Second).Result()
	assert.NoError(t, err)
	removeResp, ok := res.(domain.RemoveDeviceResponse)
	assert.True(t, ok)
	assert.True(t, removeResp.Allowed)

	res, err = context.RequestFuture(pid, domain.TeardownEntryRequest{EntryID: localEntry.ID}, 10*time.Second).Result()
	assert.NoError(t, err)
	teardownResp, ok := res.(domain.TeardownEntryResponse)
	assert.True(t, ok)
	assert.False(t, teardownResp.HasResponseError())

	// tearing down twice reports the missing entry
	res, err = context.RequestFuture(pid, domain.TeardownEntryRequest{EntryID: localEntry.ID}, 10*time.Second).Result()
	assert.NoError(t, err)
	teardownResp, ok = res.(domain.TeardownEntryResponse)
	assert.True(t, ok)
	assert.True(t, teardownResp.HasResponseError())

	context.Stop(pid)
}

func TestMasterActorCloudSetupAuthFailure(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":{"status_code":401,"status_message":"UNAUTHORIZED"}}`)
	}))
	defer server.Close()

	as := actor.NewActorSystem()
	context := as.Root
	defer as.Shutdown()

	cfg := util.LoadTestConfig()
	cfg.Cloud.BaseURL = server.URL
	logger := zap.NewNop()

	store, err := entry.NewStore(filepath.Join(t.TempDir(), "entries.json"))
	if err != nil {
		t.Fatal(err)
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterActor(cfg, store, func(stream *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, stream, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Fatal(err)
	}

	cloudEntry := entry.NewCloud(entry.Token{AccessToken: "expired"})

	res, err := context.RequestFuture(pid, domain.SetupEntryRequest{Entry: cloudEntry}, 10*time.Second).Result()
	assert.NoError(t, err)
	setupResp, ok := res.(domain.SetupEntryResponse)
	assert.True(t, ok)
	assert.True(t, setupResp.HasResponseError())
	assert.True(t, setupResp.AuthFailed, "a 401 on the first refresh surfaces as an auth failure")

	context.Stop(pid)
}

func TestMasterActorTeardownReleasesListenerSocket(t *testing.T) {

	// grab a concrete free port so the release can be observed
	probe, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	bindAddress := probe.LocalAddr().String()
	probe.Close()

	as := actor.NewActorSystem()
	context := as.Root
	defer as.Shutdown()

	cfg := util.LoadTestConfig()
	cfg.Local.BindAddress = bindAddress
	logger := zap.NewNop()

	store, err := entry.NewStore(filepath.Join(t.TempDir(), "entries.json"))
	if err != nil {
		t.Fatal(err)
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterActor(cfg, store, func(stream *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, stream, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Fatal(err)
	}

	localEntry := entry.NewLocal()
	res, err := context.RequestFuture(pid, domain.SetupEntryRequest{Entry: localEntry}, 10*time.Second).Result()
	assert.NoError(t, err)
	setupResp := res.(domain.SetupEntryResponse)
	assert.False(t, setupResp.HasResponseError())

	// the listener holds the socket while the entry is up
	assert.Eventually(t, func() bool {
		extra := weatherflowudp.NewListener(weatherflowudp.WithBindAddress(bindAddress))
		if err := extra.StartListening(); err != nil {
			return true
		}
		extra.StopListening()
		return false
	}, 5*time.Second, 100*time.Millisecond, "socket should be bound after setup")

	res, err = context.RequestFuture(pid, domain.TeardownEntryRequest{EntryID: localEntry.ID}, 10*time.Second).Result()
	assert.NoError(t, err)
	teardownResp := res.(domain.TeardownEntryResponse)
	assert.False(t, teardownResp.HasResponseError())

	// the child stops asynchronously after the teardown reply
	assert.Eventually(t, func() bool {
		extra := weatherflowudp.NewListener(weatherflowudp.WithBindAddress(bindAddress))
		if err := extra.StartListening(); err != nil {
			return false
		}
		extra.StopListening()
		return true
	}, 5*time.Second, 100*time.Millisecond, "socket should be released after teardown")

	context.Stop(pid)
}
