// internal/modules/spiderfoot/spiderfoot.go
package spiderfoot

import (
	"context"
	"encoding/json"
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
	moduleName     = "spiderfoot"
	defaultBaseURL = "http://localhost:5001"

	endpointStartScan  = "/startscan"
	endpointScanStatus = "/scanstatus"
	endpointScanExport = "/scanexportjson"

	defaultPollInterval = 2 * time.Second
)

// Scan profiles requested from the server, mirroring a passive footprint run.
var defaultScanModules = []string{"dns", "whois", "social", "leaks"}

// Module drives a remote SpiderFoot server. Scans are asynchronous on
// the server side: Start launches one and returns its scan id, Fetch
// polls until the scan finishes and exports the results.
type Module struct {
	baseURL      string
	client       *httpclient.Client
	logger       logx.Logger
	pollInterval time.Duration
}

// New creates a SpiderFoot module from its configuration.
func New(cfg ports.ModuleConfig, logger logx.Logger) (*Module, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	pollInterval := defaultPollInterval
	if custom, ok := cfg.Custom["poll_interval"]; ok {
		if parsed, err := time.ParseDuration(custom); err == nil && parsed > 0 {
			pollInterval = parsed
		}
	}

	client := httpclient.New(httpclient.Config{
		Timeout:        timeout,
		MaxRetries:     cfg.Retries,
		RetryBackoff:   time.Second,
		RateLimit:      cfg.RateLimit,
		RateLimitBurst: 1,
	}, logger)

	return &Module{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       client,
		logger:       logger.With("module", moduleName),
		pollInterval: pollInterval,
	}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return moduleName
}

// Start launches a scan on the SpiderFoot server and returns its id.
func (m *Module) Start(ctx context.Context, target domain.Target) (ports.Handle, error) {
	form := url.Values{}
	form.Set("scanname", "osintx-"+target.Value)
	form.Set("scantarget", target.Value)
	form.Set("modulelist", strings.Join(defaultScanModules, ","))

	resp, err := m.client.Post(ctx, m.baseURL+endpointStartScan, []byte(form.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "application/json",
	})
	if err != nil {
		return "", errors.Wrapf(err, "start scan for %s", target.Value)
	}

	if err := httpclient.CheckStatus(resp); err != nil {
		resp.Body.Close()
		return "", errors.Wrapf(err, "start scan for %s", target.Value)
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		return "", errors.Wrapf(err, "start scan for %s", target.Value)
	}

	// Server replies ["SUCCESS", "<scan id>"]
	var reply []string
	if err := json.Unmarshal(body, &reply); err != nil || len(reply) < 2 {
		return "", errors.Wrapf(errors.ErrInvalidResponse, "unexpected startscan reply: %s", body)
	}
	if reply[0] != "SUCCESS" {
		return "", errors.Wrapf(errors.ErrInvalidResponse, "scan rejected: %s", reply[1])
	}

	m.logger.Debug("scan started", "target", target.Value, "scan_id", reply[1])
	return ports.Handle(reply[1]), nil
}

// Fetch polls the scan until it finishes, then exports its results.
func (m *Module) Fetch(ctx context.Context, handle ports.Handle) (domain.RawData, error) {
	scanID := string(handle)

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		status, err := m.scanStatus(ctx, scanID)
		if err != nil {
			return domain.RawData{}, err
		}

		switch status {
		case "FINISHED":
			return m.export(ctx, scanID)
		case "ERROR-FAILED", "ABORTED":
			return domain.RawData{}, errors.Wrapf(errors.ErrInvalidResponse, "scan %s ended with status %s", scanID, status)
		}

		select {
		case <-ctx.Done():
			return domain.RawData{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close releases module resources.
func (m *Module) Close() error {
	return nil
}

// scanStatus reads the current status of a scan.
func (m *Module) scanStatus(ctx context.Context, scanID string) (string, error) {
	body, err := m.client.FetchJSON(ctx, m.baseURL+endpointScanStatus+"?id="+url.QueryEscape(scanID))
	if err != nil {
		return "", errors.Wrapf(err, "scan status for %s", scanID)
	}

	// Server replies [name, target, created, started, ended, status]
	var reply []any
	if err := json.Unmarshal(body, &reply); err != nil || len(reply) < 6 {
		return "", errors.Wrapf(errors.ErrInvalidResponse, "unexpected scanstatus reply: %s", body)
	}

	status, ok := reply[5].(string)
	if !ok {
		return "", errors.Wrapf(errors.ErrInvalidResponse, "unexpected status field: %v", reply[5])
	}
	return status, nil
}

// export downloads the finished scan as a raw data tree.
func (m *Module) export(ctx context.Context, scanID string) (domain.RawData, error) {
	body, err := m.client.FetchJSON(ctx, m.baseURL+endpointScanExport+"?ids="+url.QueryEscape(scanID))
	if err != nil {
		return domain.RawData{}, errors.Wrapf(err, "export scan %s", scanID)
	}

	raw, err := domain.RawFromJSON(body)
	if err != nil {
		return domain.RawData{}, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	m.logger.Debug("scan exported", "scan_id", scanID)
	return raw, nil
}
