package server

import (
	"fmt"
	"net/http"
	"time"

	"tempest2mqtt/internal/config"
	"tempest2mqtt/internal/entry"
	"tempest2mqtt/internal/flow"

	"github.com/asynkron/protoactor-go/actor"
	_ "github.com/joho/godotenv/autoload"
)

type Server struct {
	port        uint
	httpLog     bool
	rootContext *actor.RootContext
	masterActor *actor.PID
	store       *entry.Store
	flow        *flow.Service
}

func NewServer(cfg config.Config, rootContext *actor.RootContext, masterActor *actor.PID,
	store *entry.Store, flowService *flow.Service) *http.Server {
	NewServer := &Server{
		port:        cfg.Port,
		rootContext: rootContext,
		masterActor: masterActor,
		store:       store,
		flow:        flowService,
		httpLog:     cfg.HttpLog,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
