// Package fulfillment is the HTTP face of the assistant: it receives webhook
// turns from the conversational platform, routes them by action to a
// handler, and serves the usual health probes next to the webhook.
package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/FVLArchive/qwatch/pkg/config"
	"github.com/FVLArchive/qwatch/pkg/handler"
	"github.com/FVLArchive/qwatch/pkg/messages"
	"github.com/FVLArchive/qwatch/pkg/notify"
	"github.com/FVLArchive/qwatch/pkg/platform"
	"github.com/FVLArchive/qwatch/pkg/queue"
	"github.com/FVLArchive/qwatch/pkg/settings"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = 8080

	// accessTokenHeader carries the shared secret configured on the
	// platform's webhook settings page.
	accessTokenHeader = "Access-Token"

	// accessTokenKey is the global settings key holding the expected
	// token. It is seeded from config on first read.
	accessTokenKey = "fulfillmentAccessToken"

	maxBodyBytes = 1 << 20
)

// Service serves the webhook and health endpoints for one deployment.
type Service struct {
	cfg      *config.Config
	log      *slog.Logger
	settings settings.Provider
	backend  queue.Backend
	catalog  *queue.Catalog
	notifier notify.Sender
	registry Registry

	mu        sync.RWMutex
	startedAt time.Time
	served    uint64
}

type statusResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	TurnsServed   uint64 `json:"turns_served"`
}

// NewService assembles the webhook service from its backing stores.
func NewService(cfg *config.Config, provider settings.Provider, backend queue.Backend, catalog *queue.Catalog, notifier notify.Sender, log *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if provider == nil {
		return nil, errors.New("settings provider is required")
	}
	if backend == nil {
		return nil, errors.New("queue backend is required")
	}
	if catalog == nil {
		catalog = queue.DefaultCatalog()
	}
	if notifier == nil {
		notifier = notify.Disabled{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cfg:      cfg,
		log:      log.With("component", "fulfillment.service"),
		settings: provider,
		backend:  backend,
		catalog:  catalog,
		notifier: notifier,
		registry: DefaultRegistry(),
	}, nil
}

// Run serves until the context is cancelled or the listener fails.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	s.startedAt = time.Now().UTC()
	s.mu.Unlock()

	host := strings.TrimSpace(s.cfg.Fulfillment.Host)
	if host == "" {
		host = defaultHost
	}
	port := s.cfg.Fulfillment.Port
	if port <= 0 {
		port = defaultPort
	}

	addr := host + ":" + strconv.Itoa(port)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("Fulfillment server started", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("start fulfillment server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErrors:
		return err
	}
}

// Handler returns the service's HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/fulfillment", s.handleWebhook)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	return mux
}

func (s *Service) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if err := s.checkAccessToken(ctx, r); err != nil {
		s.log.Warn("Rejected webhook call", "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read request body", http.StatusBadRequest)
		return
	}

	req, err := platform.ParseLegacy(body)
	if err != nil {
		if errors.Is(err, platform.ErrSuccessorProtocol) {
			s.log.Warn("Rejected successor protocol request")
			http.Error(w, "unsupported protocol revision", http.StatusBadRequest)
			return
		}
		s.log.Warn("Failed to parse webhook body", "error", err)
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	pkg := &handler.Package{
		Responder: platform.NewResponder(req),
		Settings:  settings.NewHandle(s.settings, req.ActorID),
		Queue:     queue.NewSource(s.backend, s.catalog),
		Notifier:  s.notifier,
		Log:       s.log,
	}

	h, ok := s.registry[req.Action]
	if !ok {
		// An unmapped action means the platform-side intent configuration
		// is ahead of this deployment. Apologize instead of failing the
		// conversation with an opaque error.
		s.log.Error("No handler registered for action", "action", req.Action)
		pkg.Responder.AskText(messages.Apology())
	} else {
		handler.Respond(ctx, pkg, h)
	}

	payload := pkg.Responder.Payload()
	if payload == nil {
		s.log.Error("Turn produced no payload", "action", req.Action)
		http.Error(w, "no response produced", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.served++
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newLegacyReply(payload)); err != nil {
		s.log.Error("Failed to write webhook response", "error", err)
	}
}

// legacyReply is the envelope the legacy protocol expects: the payload nested
// under the assistant platform's data key, with the first bubble mirrored
// into the flat speech fields for surfaces that read only those.
type legacyReply struct {
	Speech      string          `json:"speech,omitempty"`
	DisplayText string          `json:"displayText,omitempty"`
	Data        legacyReplyData `json:"data"`
}

type legacyReplyData struct {
	Google *platform.Payload `json:"google"`
}

func newLegacyReply(payload *platform.Payload) legacyReply {
	reply := legacyReply{Data: legacyReplyData{Google: payload}}
	if payload.RichResponse != nil {
		if items := payload.RichResponse.SimpleResponses(); len(items) > 0 {
			reply.Speech = items[0].TextToSpeech
			reply.DisplayText = items[0].DisplayText
		}
	}
	return reply
}

// checkAccessToken compares the request's token header against the shared
// secret in global settings, seeding the secret from config on first use. A
// request without the header is admitted so platform consoles that cannot
// send custom headers keep working.
func (s *Service) checkAccessToken(ctx context.Context, r *http.Request) error {
	presented := r.Header.Get(accessTokenHeader)
	if presented == "" {
		return nil
	}

	expected, err := s.settings.GetOrDefaultGlobal(ctx, accessTokenKey, s.cfg.Fulfillment.AccessToken)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	if expected != "" && presented != expected {
		return errors.New("access token mismatch")
	}
	return nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondStatus(w, http.StatusOK, "ok")
}

func (s *Service) handleReady(w http.ResponseWriter, _ *http.Request) {
	statusCode := http.StatusOK
	status := "ready"
	if !s.isReady() {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}
	s.respondStatus(w, statusCode, status)
}

func (s *Service) respondStatus(w http.ResponseWriter, statusCode int, status string) {
	s.mu.RLock()
	uptime := int64(0)
	if !s.startedAt.IsZero() {
		uptime = int64(time.Since(s.startedAt).Seconds())
	}
	payload := statusResponse{
		Status:        status,
		UptimeSeconds: uptime,
		TurnsServed:   s.served,
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to write status response", "error", err)
	}
}

func (s *Service) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.startedAt.IsZero()
}
