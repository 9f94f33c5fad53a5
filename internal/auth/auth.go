// Package auth provides authentication handlers for source modules.
// BMS vendor APIs in the field use static bearer tokens or API keys;
// handlers apply the matching header to outgoing requests.
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// Supported authentication types.
const (
	TypeBearer = "bearer"
	TypeAPIKey = "apiKey"
)

// ErrMissingCredentials is returned when required credentials are absent.
var ErrMissingCredentials = errors.New("missing credentials")

// Handler applies authentication to an outgoing HTTP request.
type Handler interface {
	// Apply sets the authentication headers on the request.
	Apply(req *http.Request) error
}

// NewHandler builds a handler from an AuthConfig. A nil config yields a
// nil handler (no authentication).
func NewHandler(cfg *filterrun.AuthConfig) (Handler, error) {
	if cfg == nil {
		return nil, nil
	}

	switch cfg.Type {
	case TypeBearer:
		token := cfg.Credentials["token"]
		if token == "" {
			return nil, fmt.Errorf("%w: bearer auth requires a token", ErrMissingCredentials)
		}
		return &bearerHandler{token: token}, nil

	case TypeAPIKey:
		key := cfg.Credentials["key"]
		if key == "" {
			return nil, fmt.Errorf("%w: apiKey auth requires a key", ErrMissingCredentials)
		}
		header := cfg.Credentials["header"]
		if header == "" {
			header = "X-API-Key"
		}
		return &apiKeyHandler{header: header, key: key}, nil

	default:
		return nil, fmt.Errorf("unsupported authentication type: %s", cfg.Type)
	}
}

type bearerHandler struct {
	token string
}

func (h *bearerHandler) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+h.token)
	return nil
}

type apiKeyHandler struct {
	header string
	key    string
}

func (h *apiKeyHandler) Apply(req *http.Request) error {
	req.Header.Set(h.header, h.key)
	return nil
}
