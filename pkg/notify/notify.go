// Package notify delivers push prompts that re-open a conversation with an
// actor, for example when their place in line comes up. Delivery is
// best-effort: callers fire and forget, and failures surface only in logs.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/FVLArchive/qwatch/pkg/config"
)

const defaultTimeout = 10 * time.Second

// Sender requests delivery of one push prompt.
type Sender interface {
	// Send delivers a prompt with the given title to actorID, invoking
	// intent when the actor opens it.
	Send(ctx context.Context, actorID, intent, title string) error
}

type pushMessage struct {
	Notification struct {
		Title string `json:"title"`
	} `json:"userNotification"`
	Target struct {
		ActorID string `json:"userId"`
		Intent  string `json:"intent"`
	} `json:"target"`
}

// HTTPSender posts push prompts to the platform's conversation delivery
// endpoint with a bearer token.
type HTTPSender struct {
	endpoint string
	token    string
	client   *http.Client
	log      *slog.Logger
}

// NewHTTPSender builds a sender from notification config.
func NewHTTPSender(cfg config.NotificationsConfig, log *slog.Logger) *HTTPSender {
	if log == nil {
		log = slog.Default()
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &HTTPSender{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
		log:      log.With("component", "notify.sender"),
	}
}

func (s *HTTPSender) Send(ctx context.Context, actorID, intent, title string) error {
	var msg pushMessage
	msg.Notification.Title = title
	msg.Target.ActorID = actorID
	msg.Target.Intent = intent

	body, err := json.Marshal(map[string]any{"customPushMessage": msg})
	if err != nil {
		return fmt.Errorf("encode push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post push message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push endpoint returned %s", resp.Status)
	}
	return nil
}

// Disabled is a no-op sender used when notifications are not configured.
type Disabled struct{}

func (Disabled) Send(context.Context, string, string, string) error {
	return nil
}

// Dispatch sends a push prompt on a detached goroutine. The outcome is
// logged and never reaches the calling turn.
func Dispatch(sender Sender, log *slog.Logger, actorID, intent, title string) {
	if log == nil {
		log = slog.Default()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		if err := sender.Send(ctx, actorID, intent, title); err != nil {
			log.Warn("Push prompt delivery failed", "actor_id", actorID, "intent", intent, "error", err)
			return
		}
		log.Debug("Push prompt delivered", "actor_id", actorID, "intent", intent)
	}()
}
