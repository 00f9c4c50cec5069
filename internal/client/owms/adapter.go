package owmsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/pkg/logger"
)

const serviceName = "owms-api"

// maxBody caps how much of an upstream response is read.
const maxBody = 4 << 20

type Adapter struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAdapter builds a client for the OWMS REST API. ratePerSec <= 0
// disables rate limiting.
func NewAdapter(baseURL string, timeout time.Duration, ratePerSec float64) *Adapter {
	a := &Adapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	if ratePerSec > 0 {
		burst := int(ratePerSec)
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}
	return a
}

// Get fetches apiPath on behalf of the bearer token and decodes the JSON
// body. An empty body decodes to an empty object.
func (a *Adapter) Get(ctx context.Context, token, apiPath string) (any, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, errs.NewExternalServiceError(serviceName, 0, true, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+apiPath, nil)
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceName, 0, false, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceName, 0, true, err)
	}
	defer resp.Body.Close()

	log := logger.FromContext(ctx)
	if logger.IsDebugEnabled(ctx) {
		log.Debug("owms api call", "path", apiPath, "status", resp.StatusCode, "duration", time.Since(start))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceName, resp.StatusCode, true, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		transient := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, errs.NewExternalServiceError(serviceName, resp.StatusCode, transient, upstreamMessage(body))
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return map[string]any{}, nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errs.NewExternalServiceError(serviceName, resp.StatusCode, false, fmt.Errorf("decode response: %w", err))
	}
	return payload, nil
}

// upstreamMessage extracts {"message": "..."} from an error body when
// present.
func upstreamMessage(body []byte) error {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return errors.New(e.Message)
	}
	return nil
}
