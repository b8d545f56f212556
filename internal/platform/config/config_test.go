// internal/platform/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"osintx/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	testutil.AssertEqual(t, cfg.TargetType, "domain", "default target type")
	testutil.AssertEqual(t, cfg.TimeoutS, 60, "default module timeout")
	testutil.AssertEqual(t, cfg.ListenAddr, ":8080", "default listen addr")
	testutil.AssertEqual(t, len(cfg.ModuleConfigs), 4, "all modules configured")
	testutil.AssertTrue(t, cfg.Cache.Enabled, "cache enabled by default")
	testutil.AssertTrue(t, cfg.Resilience.CircuitBreakerEnabled, "circuit breaker enabled by default")

	for name, mc := range cfg.ModuleConfigs {
		testutil.AssertTrue(t, mc.Enabled, name+" enabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
target:
  value: example.com
  type: domain
  modules: [shodan, spiderfoot]

timeout_seconds: 120
listen_addr: ":9090"
store_dsn: "postgres://test@localhost/osintx"

modules:
  shodan:
    api_key: "file-key"
    rate_limit: 2.5
  spiderfoot:
    base_url: "http://sf:5001"
    custom:
      poll_interval: "5s"

cache:
  enabled: false

resilience:
  max_retries: 7
`
	path := filepath.Join(t.TempDir(), "osintx.yaml")
	testutil.AssertNoError(t, os.WriteFile(path, []byte(content), 0o644), "write config file")

	cfg := DefaultConfig()
	testutil.AssertNoError(t, loadFromFile(&cfg, path), "load should succeed")

	testutil.AssertEqual(t, cfg.TargetValue, "example.com", "target from file")
	testutil.AssertEqual(t, len(cfg.Modules), 2, "modules from file")
	testutil.AssertEqual(t, cfg.TimeoutS, 120, "timeout from file")
	testutil.AssertEqual(t, cfg.ListenAddr, ":9090", "listen addr from file")
	testutil.AssertEqual(t, cfg.StoreDSN, "postgres://test@localhost/osintx", "dsn from file")

	testutil.AssertEqual(t, cfg.ModuleConfigs["shodan"].APIKey, "file-key", "shodan api key")
	testutil.AssertEqual(t, cfg.ModuleConfigs["shodan"].RateLimit, 2.5, "shodan rate limit")
	testutil.AssertEqual(t, cfg.ModuleConfigs["spiderfoot"].BaseURL, "http://sf:5001", "spiderfoot base url")
	testutil.AssertEqual(t, cfg.ModuleConfigs["spiderfoot"].Custom["poll_interval"], "5s", "custom key merged")

	testutil.AssertFalse(t, cfg.Cache.Enabled, "cache disabled by file")
	testutil.AssertEqual(t, cfg.Resilience.MaxRetries, 7, "retries from file")

	// Valores no mencionados en el archivo conservan el default
	testutil.AssertTrue(t, cfg.ModuleConfigs["harvester"].Enabled, "untouched module keeps defaults")
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	testutil.AssertNoError(t, os.WriteFile(path, []byte("target: ["), 0o644), "write config file")

	cfg := DefaultConfig()
	testutil.AssertError(t, loadFromFile(&cfg, path), "broken yaml is an error")

	cfg = DefaultConfig()
	testutil.AssertError(t, loadFromFile(&cfg, "/nonexistent/osintx.yaml"), "missing file is an error")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OSINTX_TARGET", "example.com")
	t.Setenv("OSINTX_TARGET_TYPE", "ip")
	t.Setenv("OSINTX_MODULES", "shodan, reconng")
	t.Setenv("OSINTX_TIMEOUT", "90")
	t.Setenv("OSINTX_MODULES_SHODAN_API_KEY", "env-key")
	t.Setenv("OSINTX_MODULES_SHODAN_RATELIMIT", "0.5")
	t.Setenv("OSINTX_MODULES_HARVESTER_ENABLED", "false")
	t.Setenv("OSINTX_CACHE_TTL", "300")

	cfg := DefaultConfig()
	loadFromEnv(&cfg)

	testutil.AssertEqual(t, cfg.TargetValue, "example.com", "target from env")
	testutil.AssertEqual(t, cfg.TargetType, "ip", "target type from env")
	testutil.AssertEqual(t, len(cfg.Modules), 2, "modules from env")
	testutil.AssertEqual(t, cfg.Modules[1], "reconng", "module list trimmed")
	testutil.AssertEqual(t, cfg.TimeoutS, 90, "timeout from env")
	testutil.AssertEqual(t, cfg.ModuleConfigs["shodan"].APIKey, "env-key", "module api key from env")
	testutil.AssertEqual(t, cfg.ModuleConfigs["shodan"].RateLimit, 0.5, "module rate limit from env")
	testutil.AssertFalse(t, cfg.ModuleConfigs["harvester"].Enabled, "module disabled from env")
	testutil.AssertEqual(t, cfg.Cache.TTL, 5*time.Minute, "cache ttl from env")
}

func TestNormalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetValue = " Example.COM. "
	cfg.TargetType = " Domain "
	cfg.TimeoutS = -5
	cfg.Modules = []string{" Shodan ", "", "harvester"}

	normalize(&cfg)

	testutil.AssertEqual(t, cfg.TargetValue, "Example.COM", "trailing dot and spaces trimmed")
	testutil.AssertEqual(t, cfg.TargetType, "domain", "target type lowercased")
	testutil.AssertEqual(t, cfg.TimeoutS, 60, "invalid timeout reset to default")
	testutil.AssertEqual(t, len(cfg.Modules), 2, "empty module entries dropped")
	testutil.AssertEqual(t, cfg.Modules[0], "shodan", "module names lowercased")
}

func TestParseHelpers(t *testing.T) {
	testutil.AssertTrue(t, parseBool("true"), "true")
	testutil.AssertTrue(t, parseBool("YES"), "yes")
	testutil.AssertTrue(t, parseBool("1"), "one")
	testutil.AssertFalse(t, parseBool("false"), "false")
	testutil.AssertFalse(t, parseBool("garbage"), "garbage is false")

	testutil.AssertEqual(t, parseInt("42", 0), 42, "valid int")
	testutil.AssertEqual(t, parseInt("x", 7), 7, "invalid int falls back")

	testutil.AssertEqual(t, parseFloat("2.5", 0), 2.5, "valid float")
	testutil.AssertEqual(t, parseFloat("x", 1.5), 1.5, "invalid float falls back")

	testutil.AssertEqual(t, len(splitList("a, b,,c ")), 3, "split trims and drops empties")
}

func TestGetenv(t *testing.T) {
	t.Setenv("OSINTX_TEST_KEY", "custom")
	testutil.AssertEqual(t, getenv("OSINTX_TEST_KEY", "default"), "custom", "env var wins")
	testutil.AssertEqual(t, getenv("OSINTX_TEST_MISSING", "default"), "default", "default when unset")
}
