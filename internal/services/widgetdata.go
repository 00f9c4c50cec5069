package services

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/metrics"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
	"github.com/GregMSThompson/owms-dashboard/pkg/logger"
)

// dataCache is the widget payload cache (redis or in-process LRU).
type dataCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// upstreamClient fetches widget payloads from the OWMS API.
type upstreamClient interface {
	Get(ctx context.Context, token, apiPath string) (any, error)
}

type cachedPayload struct {
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// widgetDataService fetches widget payloads with a per-user cache. Entries
// younger than dedupeWindow are served without an upstream call; entries
// are retained for retention so a failing upstream can fall back to them.
type widgetDataService struct {
	cache        dataCache
	client       upstreamClient
	group        singleflight.Group
	dedupeWindow time.Duration
	retention    time.Duration
	clockNow     func() time.Time
}

func NewWidgetDataService(cache dataCache, client upstreamClient, dedupeWindow, retention time.Duration) *widgetDataService {
	if retention < dedupeWindow {
		retention = dedupeWindow
	}
	return &widgetDataService{
		cache:        cache,
		client:       client,
		dedupeWindow: dedupeWindow,
		retention:    retention,
		clockNow:     time.Now,
	}
}

// RefreshAfter is the polling interval advertised to clients.
func (s *widgetDataService) RefreshAfter() time.Duration {
	return s.retention
}

func cacheKey(uid, apiPath string) string {
	return "widget:" + uid + ":" + apiPath
}

// Fetch returns the payload for def. Client-only widgets get an empty
// object without a call. revalidate skips the dedupe window but still
// collapses concurrent calls and still falls back to a retained entry.
func (s *widgetDataService) Fetch(ctx context.Context, caller dto.Caller, def widgets.Definition, revalidate bool) (dto.WidgetData, error) {
	if def.ClientOnly() {
		metrics.WidgetFetches.WithLabelValues(def.ID, metrics.FetchSkipped).Inc()
		return dto.WidgetData{Payload: map[string]any{}, FetchedAt: s.clockNow()}, nil
	}

	log := logger.FromContext(ctx)
	key := cacheKey(caller.UID, def.APIPath)
	cached, hasCached := s.read(ctx, key)
	if hasCached && !revalidate && s.clockNow().Sub(cached.FetchedAt) < s.dedupeWindow {
		if payload, err := decodePayload(cached.Payload); err == nil {
			metrics.WidgetFetches.WithLabelValues(def.ID, metrics.FetchHit).Inc()
			return dto.WidgetData{Payload: payload, FetchedAt: cached.FetchedAt, Cached: true}, nil
		}
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		// A cancelled caller must not fail the others sharing this flight.
		// The HTTP client timeout still bounds the call.
		callCtx := context.WithoutCancel(ctx)
		start := time.Now()
		payload, err := s.client.Get(callCtx, caller.Token, def.APIPath)
		metrics.UpstreamLatency.WithLabelValues(def.ID).Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		entry := dto.WidgetData{Payload: payload, FetchedAt: s.clockNow()}
		s.write(callCtx, key, entry)
		return entry, nil
	})
	if err != nil {
		if hasCached {
			if payload, derr := decodePayload(cached.Payload); derr == nil {
				log.Warn("serving stale widget data", "widget_id", def.ID, "fetched_at", cached.FetchedAt, "error", err)
				metrics.WidgetFetches.WithLabelValues(def.ID, metrics.FetchStale).Inc()
				return dto.WidgetData{Payload: payload, FetchedAt: cached.FetchedAt, Stale: true, Cached: true}, nil
			}
		}
		metrics.WidgetFetches.WithLabelValues(def.ID, metrics.FetchError).Inc()
		return dto.WidgetData{}, err
	}

	if shared && logger.IsDebugEnabled(ctx) {
		log.Debug("widget fetch shared with concurrent caller", "widget_id", def.ID)
	}
	metrics.WidgetFetches.WithLabelValues(def.ID, metrics.FetchUpstream).Inc()
	return v.(dto.WidgetData), nil
}

func (s *widgetDataService) read(ctx context.Context, key string) (cachedPayload, bool) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return cachedPayload{}, false
	}
	var c cachedPayload
	if err := json.Unmarshal(raw, &c); err != nil {
		logger.FromContext(ctx).Warn("discarding unreadable cache entry", "key", key, "error", err)
		return cachedPayload{}, false
	}
	return c, true
}

func (s *widgetDataService) write(ctx context.Context, key string, entry dto.WidgetData) {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn("widget payload not cacheable", "key", key, "error", err)
		return
	}
	raw, err := json.Marshal(cachedPayload{Payload: payload, FetchedAt: entry.FetchedAt})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.retention); err != nil {
		logger.FromContext(ctx).Warn("failed to cache widget payload", "key", key, "error", err)
	}
}

func decodePayload(raw json.RawMessage) (any, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
