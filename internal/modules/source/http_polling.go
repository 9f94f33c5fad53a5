package source

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/birdlab-tech/building-analytics/internal/auth"
	"github.com/birdlab-tech/building-analytics/internal/errhandling"
	"github.com/birdlab-tech/building-analytics/internal/logger"
	"github.com/birdlab-tech/building-analytics/internal/modconfig"
	"github.com/birdlab-tech/building-analytics/internal/pathutil"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// Default configuration values.
const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "BuildingAnalytics/1.0"
)

// Error types for the HTTP polling module.
var (
	ErrMissingEndpoint  = errors.New("endpoint is required in module configuration")
	ErrInvalidDataField = errors.New("dataField does not contain an array")
)

// HTTPPollingConfig represents the configuration for the httpPolling
// source module.
type HTTPPollingConfig struct {
	// Endpoint is the BMS API URL (required).
	Endpoint string `json:"endpoint"`
	// Headers are additional HTTP headers.
	Headers map[string]string `json:"headers,omitempty"`
	// TimeoutSeconds is the request timeout (default 30).
	TimeoutSeconds float64 `json:"timeout,omitempty"`
	// DataField is a dot-notation path to the array of points inside an
	// object response (e.g. "data.points"). Empty means the response
	// body itself is the array.
	DataField string `json:"dataField,omitempty"`
	// LabelField names the record field holding the label when the
	// array contains objects rather than plain strings.
	LabelField string `json:"labelField,omitempty"`
	// InsecureSkipVerify disables TLS verification. BMS controllers
	// commonly ship self-signed certificates.
	InsecureSkipVerify bool `json:"insecureSkipVerify,omitempty"`
	// Retry configures transient-failure retries.
	Retry errhandling.RetryConfig `json:"-"`
}

// HTTPPolling fetches the current point list from the vendor BMS REST
// API. One Fetch is one poll; the watch command drives repeated polls.
type HTTPPolling struct {
	cfg         HTTPPollingConfig
	authHandler auth.Handler
	client      *http.Client
}

// ParseHTTPPollingConfig parses a raw configuration map.
func ParseHTTPPollingConfig(config map[string]interface{}) (HTTPPollingConfig, error) {
	cfg := HTTPPollingConfig{
		Endpoint:           modconfig.String(config, "endpoint"),
		TimeoutSeconds:     modconfig.Float64(config, "timeout"),
		DataField:          modconfig.String(config, "dataField"),
		LabelField:         modconfig.String(config, "labelField"),
		InsecureSkipVerify: modconfig.Bool(config, "insecureSkipVerify", false),
		Headers:            modconfig.StringMap(config, "headers"),
	}
	if cfg.Endpoint == "" {
		return cfg, ErrMissingEndpoint
	}
	if retry := modconfig.SubMap(config, "retry"); retry != nil {
		cfg.Retry = errhandling.ParseRetryConfig(retry)
	} else {
		cfg.Retry = errhandling.DefaultRetryConfig()
	}
	return cfg, nil
}

// NewHTTPPollingFromConfig creates an httpPolling source module from
// configuration, wiring the authentication handler when one is declared.
func NewHTTPPollingFromConfig(config *filterrun.ModuleConfig) (*HTTPPolling, error) {
	if config == nil {
		return nil, ErrNilConfig
	}

	cfg, err := ParseHTTPPollingConfig(config.Config)
	if err != nil {
		return nil, err
	}

	authHandler, err := auth.NewHandler(config.Authentication)
	if err != nil {
		return nil, err
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds * float64(time.Second))
	}

	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 - self-signed BMS controllers
		}
	}

	return &HTTPPolling{
		cfg:         cfg,
		authHandler: authHandler,
		client:      &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

// Fetch polls the endpoint once and extracts the label list. Transient
// failures (5xx, 429, network errors) are retried per the module's
// retry configuration.
func (m *HTTPPolling) Fetch(ctx context.Context) ([]string, error) {
	var labels []string

	err := errhandling.Retry(ctx, m.cfg.Retry, func(ctx context.Context) error {
		fetched, err := m.poll(ctx)
		if err != nil {
			return err
		}
		labels = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return labels, nil
}

func (m *HTTPPolling) poll(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cfg.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range m.cfg.Headers {
		req.Header.Set(k, v)
	}
	if m.authHandler != nil {
		if err := m.authHandler.Apply(req); err != nil {
			return nil, err
		}
	}

	started := time.Now()
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errhandling.ClassifyNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return nil, errhandling.ClassifyHTTPStatus(resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errhandling.ClassifyNetworkError(err)
	}

	labels, err := m.extractLabels(body)
	if err != nil {
		return nil, err
	}

	logger.WithModule("source", "httpPolling").Debug("poll completed",
		"endpoint", m.cfg.Endpoint,
		"count", len(labels),
		"duration", time.Since(started),
	)
	return labels, nil
}

// extractLabels pulls the label list out of the response body. The body
// is either a bare JSON array or an object holding the array under
// DataField; array items are strings or objects with LabelField.
func (m *HTTPPolling) extractLabels(body []byte) ([]string, error) {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("parsing JSON response: %w", err)
	}

	raw := decoded
	if m.cfg.DataField != "" {
		obj, ok := decoded.(map[string]interface{})
		if !ok {
			return nil, ErrInvalidDataField
		}
		raw, ok = pathutil.GetNestedValue(obj, m.cfg.DataField)
		if !ok {
			return nil, fmt.Errorf("%w: field %q not found", ErrInvalidDataField, m.cfg.DataField)
		}
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, ErrInvalidDataField
	}

	labels := make([]string, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			labels = append(labels, v)
		case map[string]interface{}:
			field := m.cfg.LabelField
			if field == "" {
				field = "label"
			}
			label, ok := pathutil.GetNestedValue(v, field)
			if !ok {
				return nil, fmt.Errorf("record %d has no %q field", i, field)
			}
			s, ok := label.(string)
			if !ok {
				return nil, fmt.Errorf("record %d: %q is not a string", i, field)
			}
			labels = append(labels, s)
		default:
			return nil, fmt.Errorf("record %d has unsupported type %T", i, item)
		}
	}
	return dropBlank(labels), nil
}

// Close releases idle connections.
func (m *HTTPPolling) Close() error {
	m.client.CloseIdleConnections()
	return nil
}

var _ Module = (*HTTPPolling)(nil)
