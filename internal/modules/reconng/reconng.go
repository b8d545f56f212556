// internal/modules/reconng/reconng.go
package reconng

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
	moduleName  = "reconng"
	defaultExec = "recon-cli"
)

// Recon modules executed per target, mirroring a passive host discovery run.
var defaultReconModules = []string{
	"recon/domains-hosts/hackertarget",
	"recon/hosts-ports/shodan_ip",
}

// Module shells out to recon-cli, running a fixed set of recon modules
// against the target and merging their JSON output into one tree keyed
// by recon module name.
type Module struct {
	execPath     string
	timeout      time.Duration
	reconModules []string
	logger       logx.Logger
}

// New creates a recon-ng module from its configuration.
func New(cfg ports.ModuleConfig, logger logx.Logger) (*Module, error) {
	execPath := defaultExec
	if custom, ok := cfg.Custom["exec_path"]; ok && custom != "" {
		execPath = custom
	}

	resolved, err := exec.LookPath(execPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "recon-cli binary not found: %v", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	reconModules := defaultReconModules
	if custom, ok := cfg.Custom["recon_modules"]; ok && custom != "" {
		reconModules = strings.Split(custom, ",")
	}

	return &Module{
		execPath:     resolved,
		timeout:      timeout,
		reconModules: reconModules,
		logger:       logger.With("module", moduleName),
	}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return moduleName
}

// Start validates the target and returns its value as the handle.
// recon-cli runs synchronously, so the actual work happens in Fetch.
func (m *Module) Start(ctx context.Context, target domain.Target) (ports.Handle, error) {
	if target.Type == domain.TargetTypeEmail {
		return "", errors.Wrap(errors.ErrInvalidInput, "reconng does not support email targets")
	}
	return ports.Handle(target.Value), nil
}

// Fetch runs every configured recon module against the target and
// merges their output under one map keyed by recon module name.
func (m *Module) Fetch(ctx context.Context, handle ports.Handle) (domain.RawData, error) {
	target := string(handle)
	merged := make(map[string]domain.RawData, len(m.reconModules))

	for _, reconModule := range m.reconModules {
		raw, err := m.runModule(ctx, reconModule, target)
		if err != nil {
			// One failing recon module does not void the others
			m.logger.Warn("recon module failed",
				"recon_module", reconModule,
				"target", target,
				"error", err.Error(),
			)
			merged[reconModule] = domain.NewMap(map[string]domain.RawData{
				"error": domain.NewScalar(err.Error()),
			})
			continue
		}
		merged[reconModule] = raw
	}

	return domain.NewMap(merged), nil
}

// Close releases module resources.
func (m *Module) Close() error {
	return nil
}

// runModule executes a single recon-cli module invocation.
func (m *Module) runModule(ctx context.Context, reconModule, target string) (domain.RawData, error) {
	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, m.execPath,
		"-m", reconModule,
		"-o", "SOURCE="+target,
		"-x",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	m.logger.Debug("executing", "recon_module", reconModule, "target", target)

	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return domain.RawData{}, errors.Wrapf(errors.ErrTimeout, "recon module %s: %v", reconModule, runCtx.Err())
		}
		return domain.RawData{}, errors.Wrapf(err, "recon module %s: %s", reconModule, strings.TrimSpace(stderr.String()))
	}

	output := bytes.TrimSpace(stdout.Bytes())
	if len(output) == 0 {
		return domain.NewMap(nil), nil
	}

	raw, err := domain.RawFromJSON(output)
	if err != nil {
		// recon-cli mixes banner text with output; fall back to raw text
		return domain.NewMap(map[string]domain.RawData{
			"output": domain.NewScalar(string(output)),
		}), nil
	}
	return raw, nil
}
