// internal/modules/shodan/shodan.go
package shodan

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/errors"
	"osintx/internal/platform/httpclient"
	"osintx/internal/platform/logx"
)

const (
	moduleName     = "shodan"
	defaultBaseURL = "https://api.shodan.io"

	endpointHostInfo   = "/shodan/host/%s"
	endpointHostSearch = "/shodan/host/search"
)

// Module collects exposure data from the Shodan REST API. IP targets
// resolve through the host endpoint; domain targets go through a
// hostname search.
type Module struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
	logger  logx.Logger
}

// New creates a Shodan module from its configuration.
func New(cfg ports.ModuleConfig, logger logx.Logger) (*Module, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "shodan requires an API key")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	rateLimit := cfg.RateLimit
	if rateLimit == 0 {
		rateLimit = 1.0 // free tier default
	}

	client := httpclient.New(httpclient.Config{
		Timeout:        timeout,
		MaxRetries:     cfg.Retries,
		RetryBackoff:   2 * time.Second,
		RateLimit:      rateLimit,
		RateLimitBurst: 1,
	}, logger)

	return &Module{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger.With("module", moduleName),
	}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return moduleName
}

// Start validates the target type and returns a handle encoding it.
// Shodan queries are synchronous, so the handle just carries the
// target until Fetch resolves it.
func (m *Module) Start(ctx context.Context, target domain.Target) (ports.Handle, error) {
	switch target.Type {
	case domain.TargetTypeIP, domain.TargetTypeDomain:
		return ports.Handle(string(target.Type) + ":" + target.Value), nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidInput, "shodan does not support %s targets", target.Type)
	}
}

// Fetch resolves the handle against the Shodan API and returns the raw
// JSON response as a data tree.
func (m *Module) Fetch(ctx context.Context, handle ports.Handle) (domain.RawData, error) {
	targetType, value, ok := strings.Cut(string(handle), ":")
	if !ok {
		return domain.RawData{}, errors.Wrapf(errors.ErrInvalidInput, "malformed handle %q", handle)
	}

	var apiURL string
	switch domain.TargetType(targetType) {
	case domain.TargetTypeIP:
		apiURL = m.buildURL(fmt.Sprintf(endpointHostInfo, value), nil)
	case domain.TargetTypeDomain:
		apiURL = m.buildURL(endpointHostSearch, map[string]string{
			"query": "hostname:" + value,
		})
	default:
		return domain.RawData{}, errors.Wrapf(errors.ErrInvalidInput, "unsupported handle type %q", targetType)
	}

	m.logger.Debug("fetching", "target", value)

	body, err := m.client.FetchJSON(ctx, apiURL)
	if err != nil {
		return domain.RawData{}, errors.Wrapf(err, "shodan fetch for %s failed", value)
	}

	raw, err := domain.RawFromJSON(body)
	if err != nil {
		return domain.RawData{}, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	return raw, nil
}

// Close releases module resources.
func (m *Module) Close() error {
	return nil
}

// buildURL constructs the full API URL with the key and parameters.
func (m *Module) buildURL(endpoint string, params map[string]string) string {
	u, _ := url.Parse(m.baseURL + endpoint)
	q := u.Query()
	q.Set("key", m.apiKey)
	for key, value := range params {
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
