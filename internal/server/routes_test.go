package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	adactor "tempest2mqtt/internal/adapter/actor"
	coreactor "tempest2mqtt/internal/core/actor"
	"tempest2mqtt/internal/core/domain"
	"tempest2mqtt/internal/entry"
	"tempest2mqtt/internal/util"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDeleteEntryWithoutRuntime(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root
	defer as.Shutdown()

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()

	store, err := entry.NewStore(filepath.Join(t.TempDir(), "entries.json"))
	if err != nil {
		t.Fatal(err)
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return coreactor.NewMasterActor(cfg, store, func(stream *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, stream, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Fatal(err)
	}
	defer context.Stop(pid)

	// wait for the master to finish booting from the empty store
	_, err = context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	assert.NoError(t, err)

	// stored after the master booted, so no runtime exists for it
	orphan := entry.NewLocal()
	assert.NoError(t, store.Add(orphan))

	httpServer := NewServer(cfg, context, pid, store, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/entries/"+orphan.ID, nil)
	rec := httptest.NewRecorder()
	httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := store.Get(orphan.ID)
	assert.False(t, ok, "entry removed from the store despite the missing runtime")

	// deleting again reports the entry as gone
	req = httptest.NewRequest(http.MethodDelete, "/api/entries/"+orphan.ID, nil)
	rec = httptest.NewRecorder()
	httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
