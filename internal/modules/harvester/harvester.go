// internal/modules/harvester/harvester.go
package harvester

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/errors"
	"osintx/internal/platform/logx"
)

const (
	moduleName     = "harvester"
	defaultExec    = "theHarvester"
	defaultSources = "google,bing,yahoo,duckduckgo"
)

// Module shells out to theHarvester for passive email and host
// discovery across public search engines.
type Module struct {
	execPath string
	sources  string
	timeout  time.Duration
	logger   logx.Logger
}

// New creates a theHarvester module from its configuration.
func New(cfg ports.ModuleConfig, logger logx.Logger) (*Module, error) {
	execPath := defaultExec
	if custom, ok := cfg.Custom["exec_path"]; ok && custom != "" {
		execPath = custom
	}

	resolved, err := exec.LookPath(execPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "theHarvester binary not found: %v", err)
	}

	sources := defaultSources
	if custom, ok := cfg.Custom["sources"]; ok && custom != "" {
		sources = custom
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Module{
		execPath: resolved,
		sources:  sources,
		timeout:  timeout,
		logger:   logger.With("module", moduleName),
	}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return moduleName
}

// Start validates the target and returns its value as the handle.
func (m *Module) Start(ctx context.Context, target domain.Target) (ports.Handle, error) {
	if target.Type == domain.TargetTypeIP {
		return "", errors.Wrap(errors.ErrInvalidInput, "harvester does not support ip targets")
	}

	// Email targets harvest over their domain part
	value := target.Value
	if target.Type == domain.TargetTypeEmail {
		if _, after, ok := strings.Cut(value, "@"); ok {
			value = after
		}
	}
	return ports.Handle(value), nil
}

// Fetch runs theHarvester against the handle's domain and parses its
// JSON output.
func (m *Module) Fetch(ctx context.Context, handle ports.Handle) (domain.RawData, error) {
	target := string(handle)

	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, m.execPath,
		"-d", target,
		"-b", m.sources,
		"-f", "json",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	m.logger.Debug("executing", "target", target, "sources", m.sources)

	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return domain.RawData{}, errors.Wrapf(errors.ErrTimeout, "harvest of %s: %v", target, runCtx.Err())
		}
		return domain.RawData{}, errors.Wrapf(err, "harvest of %s: %s", target, strings.TrimSpace(stderr.String()))
	}

	output := bytes.TrimSpace(stdout.Bytes())
	if len(output) == 0 {
		return domain.NewMap(nil), nil
	}

	// theHarvester prints banner lines before the JSON document
	if idx := bytes.IndexAny(output, "{["); idx > 0 {
		output = output[idx:]
	}

	raw, err := domain.RawFromJSON(output)
	if err != nil {
		return domain.RawData{}, errors.Wrapf(errors.ErrInvalidResponse, "parse harvester output: %v", err)
	}

	return raw, nil
}

// Close releases module resources.
func (m *Module) Close() error {
	return nil
}
