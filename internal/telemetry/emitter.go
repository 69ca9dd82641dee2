// Package telemetry sends best-effort usage events to an analytics collector.
// Nothing here ever reports back to a request: events are queued, delivered
// by a background worker, and dropped on any failure.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Event is one measurement-protocol event hit.
type Event struct {
	Category  string
	Action    string
	Label     string
	Value     string
	Dimension string
	Metric    string
}

// ReviewCreated is the event sent after a review is stored.
func ReviewCreated(movieID string) Event {
	return Event{
		Category:  "Review",
		Action:    "/reviews",
		Label:     "API Request for Movie Review",
		Value:     "1",
		Dimension: movieID,
		Metric:    "1",
	}
}

// Config configures an Emitter.
type Config struct {
	TrackingID string
	BaseURL    string
	QueueSize  int
	Timeout    time.Duration
}

// Emitter queues events and delivers them from Run.
type Emitter struct {
	trackingID string
	baseURL    string
	httpClient *http.Client
	queue      chan Event
	breaker    *gobreaker.CircuitBreaker[struct{}]
}

// New returns an Emitter, or nil when no tracking id is configured.
// A nil *Emitter is valid and drops every event.
func New(cfg Config) *Emitter {
	if cfg.TrackingID == "" {
		return nil
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Emitter{
		trackingID: cfg.TrackingID,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		queue:      make(chan Event, cfg.QueueSize),
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "analytics-collector",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
					Msg("telemetry circuit breaker state change")
			},
		}),
	}
}

// Track queues ev without blocking. When the queue is full the event is dropped.
func (e *Emitter) Track(ev Event) {
	if e == nil {
		return
	}
	select {
	case e.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("telemetry queue full, event dropped")
	}
}

// Run delivers queued events until ctx is cancelled.
func (e *Emitter) Run(ctx context.Context) {
	if e == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-e.queue:
			if err := e.deliver(ctx, ev); err != nil {
				log.Warn().Err(err).Str("action", ev.Action).Msg("telemetry delivery failed")
			}
		}
	}
}

func (e *Emitter) deliver(ctx context.Context, ev Event) error {
	_, err := e.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, e.send(ctx, ev)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("collector unavailable: %w", err)
	}
	return err
}

// HitParams builds the collector query for ev. cid is a fresh random client id.
func (e *Emitter) HitParams(ev Event) url.Values {
	return url.Values{
		"v":   {"1"},
		"tid": {e.trackingID},
		"cid": {uuid.NewString()},
		"t":   {"event"},
		"ec":  {ev.Category},
		"ea":  {ev.Action},
		"el":  {ev.Label},
		"ev":  {ev.Value},
		"cd1": {ev.Dimension},
		"cm1": {ev.Metric},
	}
}

func (e *Emitter) send(ctx context.Context, ev Event) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/collect?"+e.HitParams(ev).Encode(), nil)
	if err != nil {
		return fmt.Errorf("collector request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("collector /collect: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector /collect returned %d", resp.StatusCode)
	}
	return nil
}
