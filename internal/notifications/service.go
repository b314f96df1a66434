// Package notifications pushes queue events over ntfy when a topic is
// configured.
package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"curator/internal/config"
)

const userAgent = "Curator-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyOrganized(ctx context.Context, filename, category, targetPath string) error
	NotifyFailed(ctx context.Context, filename, detail string) error
	NotifyNeedsClassification(ctx context.Context, filename string) error
	NotifyAwaitingDecision(ctx context.Context, filename, kind string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		completed:   cfg.Notifications.Completed,
		failed:      cfg.Notifications.Failed,
		needsReview: cfg.Notifications.NeedsReview,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	completed   bool
	failed      bool
	needsReview bool
}

func (n *ntfyService) NotifyOrganized(ctx context.Context, filename, category, targetPath string) error {
	if !n.completed {
		return nil
	}
	return n.send(ctx, payload{
		title:   "Curator - Asset Organized",
		message: fmt.Sprintf("%s filed as %s at %s", strings.TrimSpace(filename), category, targetPath),
		tags:    []string{"curator", "organized"},
	})
}

func (n *ntfyService) NotifyFailed(ctx context.Context, filename, detail string) error {
	if !n.failed {
		return nil
	}
	return n.send(ctx, payload{
		title:    "Curator - Processing Failed",
		message:  fmt.Sprintf("%s failed: %s", strings.TrimSpace(filename), strings.TrimSpace(detail)),
		tags:     []string{"curator", "failed"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyNeedsClassification(ctx context.Context, filename string) error {
	if !n.needsReview {
		return nil
	}
	return n.send(ctx, payload{
		title:   "Curator - Needs Classification",
		message: fmt.Sprintf("%s could not be classified automatically", strings.TrimSpace(filename)),
		tags:    []string{"curator", "review"},
	})
}

func (n *ntfyService) NotifyAwaitingDecision(ctx context.Context, filename, kind string) error {
	if !n.needsReview {
		return nil
	}
	return n.send(ctx, payload{
		title:   "Curator - Decision Needed",
		message: fmt.Sprintf("%s is waiting on a %s decision", strings.TrimSpace(filename), kind),
		tags:    []string{"curator", "review"},
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "Curator - Test",
		message: "Notifications are configured correctly",
		tags:    []string{"curator"},
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyOrganized(context.Context, string, string, string) error { return nil }
func (noopService) NotifyFailed(context.Context, string, string) error            { return nil }
func (noopService) NotifyNeedsClassification(context.Context, string) error       { return nil }
func (noopService) NotifyAwaitingDecision(context.Context, string, string) error  { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
