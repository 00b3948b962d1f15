// Package capi is the HTTP client for the ad platform's server-side
// Conversions API. One SendEvents call is one network submission; there is
// no retry, queueing, or batching across calls — a failed submission is a
// lost signal by design.
package capi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ghuser/signalbridge/pkg/config"
	trackingdomain "github.com/ghuser/signalbridge/services/tracking/domain"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
)

const defaultTimeout = 10 * time.Second

// Client submits conversion event batches to the ingestion endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
}

// Response is the ingestion acknowledgment. FBTraceID cross-references the
// submission in the ad platform's own logs.
type Response struct {
	EventsReceived int      `json:"events_received"`
	Messages       []string `json:"messages"`
	FBTraceID      string   `json:"fbtrace_id"`
}

// requestBody is the wire shape of one submission.
type requestBody struct {
	Data          []*models.ConversionEvent `json:"data"`
	AccessToken   string                    `json:"access_token"`
	TestEventCode string                    `json:"test_event_code,omitempty"`
}

// errorBody is the structured error envelope returned on rejection.
type errorBody struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// NewClient returns a Client configured from cfg with an OTel-instrumented
// transport and a bounded request timeout.
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.CapiTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: cfg.CapiBaseURL,
		version: cfg.CapiVersion,
	}
}

// SendEvents submits events to pixelID in a single synchronous call.
// testEventCode, when non-empty, routes the batch to the platform's test
// event console instead of production attribution.
func (c *Client) SendEvents(ctx context.Context, pixelID, accessToken, testEventCode string, events []*models.ConversionEvent) (*Response, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("capi: empty event batch")
	}

	body, err := json.Marshal(requestBody{
		Data:          events,
		AccessToken:   accessToken,
		TestEventCode: testEventCode,
	})
	if err != nil {
		return nil, fmt.Errorf("capi: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/events", c.baseURL, c.version, pixelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("capi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("capi: send events: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck

	resBody, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("capi: read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, rejectionError(res.StatusCode, resBody)
	}

	var ack Response
	if err := json.Unmarshal(resBody, &ack); err != nil {
		return nil, fmt.Errorf("capi: parse acknowledgment: %w", err)
	}
	return &ack, nil
}

// rejectionError wraps ErrDeliveryRejected with the upstream error detail
// when the body parses as the platform's error envelope.
func rejectionError(status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		return fmt.Errorf("%w: status %d: %s (type=%s, code=%d, fbtrace_id=%s)",
			trackingdomain.ErrDeliveryRejected, status,
			eb.Error.Message, eb.Error.Type, eb.Error.Code, eb.Error.FBTraceID)
	}
	return fmt.Errorf("%w: status %d", trackingdomain.ErrDeliveryRejected, status)
}
