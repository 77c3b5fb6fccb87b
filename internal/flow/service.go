package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"tempest2mqtt/internal/config"
	"tempest2mqtt/internal/entry"
	"tempest2mqtt/pkg/weatherflowudp"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Default WeatherFlow authorization endpoints. The client id is the public
// one WeatherFlow hands out for third-party integrations.
const (
	DefaultAuthorizeURL = "https://tempestwx.com/authorize.html"
	DefaultTokenURL     = "https://swd.weatherflow.com/id/oauth2/token"
	DefaultClientID     = "1f59ad93-2c35-40b1-b984-ace096dbe624"
)

const (
	ModeOptionLocal = "local"
	ModeOptionCloud = "cloud"
)

const (
	AbortSingleInstance = "single_instance_allowed"

	ErrNoDevicesFound = "no_devices_found"
	ErrCannotConnect  = "cannot_connect"
)

type ResultType string

const (
	ResultForm         ResultType = "form"
	ResultAbort        ResultType = "abort"
	ResultExternalAuth ResultType = "external_auth"
	ResultCreateEntry  ResultType = "create_entry"
)

// Result is one step outcome of the setup wizard.
type Result struct {
	Type        ResultType
	StepID      string
	Options     []string
	Errors      map[string]string
	AbortReason string
	AuthURL     string
	Entry       *entry.Entry
}

// Service drives the two-mode setup wizard: the local path probes the
// network, the cloud path runs the authorization code flow with PKCE.
// At most one entry per mode may exist.
type Service struct {
	cfg    config.Config
	store  *entry.Store
	prober Prober
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]pendingAuth
}

type pendingAuth struct {
	verifier string
	created  time.Time
}

func NewService(cfg config.Config, store *entry.Store, prober Prober, logger *zap.Logger) *Service {
	if prober == nil {
		prober = DefaultProber
	}
	return &Service{
		cfg:     cfg,
		store:   store,
		prober:  prober,
		logger:  logger.With(zap.String("component", "flow")),
		pending: map[string]pendingAuth{},
	}
}

// StepUser handles the mode selection step. An empty mode renders the form.
func (s *Service) StepUser(ctx context.Context, mode string) (Result, error) {
	switch mode {
	case "":
		return s.userForm(nil), nil
	case ModeOptionLocal:
		return s.stepLocal(ctx)
	case ModeOptionCloud:
		return s.stepCloud()
	default:
		return Result{}, errors.New("unknown mode")
	}
}

func (s *Service) stepLocal(ctx context.Context) (Result, error) {
	if s.store.HasMode(entry.ModeLocal) {
		return Result{Type: ResultAbort, AbortReason: AbortSingleInstance}, nil
	}

	bindAddress := s.cfg.Local.BindAddress
	if bindAddress == "" {
		bindAddress = weatherflowudp.DefaultBindAddress
	}
	timeout := time.Duration(s.cfg.Local.ProbeTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s.logger.Info("probing for local devices", zap.String("bindAddress", bindAddress))
	found, err := s.prober(bindAddress, timeout, s.logger)
	if err != nil {
		s.logger.Warn("local probe failed", zap.Error(err))
		return s.userForm(map[string]string{"base": ErrCannotConnect}), nil
	}
	if !found {
		return s.userForm(map[string]string{"base": ErrNoDevicesFound}), nil
	}

	e := entry.NewLocal()
	if err := s.store.Add(e); err != nil {
		return Result{}, err
	}
	return Result{Type: ResultCreateEntry, Entry: e}, nil
}

func (s *Service) stepCloud() (Result, error) {
	if s.store.HasMode(entry.ModeCloud) {
		return Result{Type: ResultAbort, AbortReason: AbortSingleInstance}, nil
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	s.mu.Lock()
	s.pending[state] = pendingAuth{verifier: verifier, created: time.Now()}
	s.mu.Unlock()

	url := s.oauthConfig().AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	return Result{Type: ResultExternalAuth, StepID: "auth", AuthURL: url}, nil
}

// Callback finishes the cloud path: it exchanges the authorization code with
// the stored PKCE verifier and persists the normalized token.
func (s *Service) Callback(ctx context.Context, state, code string) (Result, error) {
	s.mu.Lock()
	auth, ok := s.pending[state]
	delete(s.pending, state)
	s.mu.Unlock()
	if !ok {
		return Result{}, errors.New("unknown or expired flow state")
	}

	if s.store.HasMode(entry.ModeCloud) {
		return Result{Type: ResultAbort, AbortReason: AbortSingleInstance}, nil
	}

	tok, err := s.oauthConfig().Exchange(ctx, code, oauth2.VerifierOption(auth.verifier))
	if err != nil {
		return Result{}, err
	}
	normalized, err := NormalizeToken(tok)
	if err != nil {
		return Result{}, err
	}

	e := entry.NewCloud(normalized)
	if err := s.store.Add(e); err != nil {
		return Result{}, err
	}
	return Result{Type: ResultCreateEntry, Entry: e}, nil
}

func (s *Service) userForm(formErrors map[string]string) Result {
	return Result{
		Type:    ResultForm,
		StepID:  "user",
		Options: []string{ModeOptionLocal, ModeOptionCloud},
		Errors:  formErrors,
	}
}

func (s *Service) oauthConfig() *oauth2.Config {
	oauthCfg := s.cfg.Cloud.OAuth
	authorizeURL := oauthCfg.AuthorizeURL
	if authorizeURL == "" {
		authorizeURL = DefaultAuthorizeURL
	}
	tokenURL := oauthCfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	clientID := oauthCfg.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	return &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: oauthCfg.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authorizeURL,
			TokenURL: tokenURL,
		},
	}
}
