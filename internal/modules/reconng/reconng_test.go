// internal/modules/reconng/reconng_test.go
package reconng

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/logx"
	"osintx/internal/testutil"
)

// fakeBinary writes an executable shell script standing in for recon-cli.
func fakeBinary(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recon-cli")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func testConfig(execPath string) ports.ModuleConfig {
	cfg := ports.DefaultModuleConfig()
	cfg.Custom["exec_path"] = execPath
	return cfg
}

func TestNew(t *testing.T) {
	path := fakeBinary(t, "exit 0")
	module, err := New(testConfig(path), logx.NewSilent())

	testutil.AssertNoError(t, err, "new should succeed")
	testutil.AssertEqual(t, module.Name(), "reconng", "module name")
	testutil.AssertEqual(t, len(module.reconModules), 2, "default recon modules")
}

func TestNew_CustomReconModules(t *testing.T) {
	path := fakeBinary(t, "exit 0")
	cfg := testConfig(path)
	cfg.Custom["recon_modules"] = "recon/domains-hosts/brute_hosts"

	module, err := New(cfg, logx.NewSilent())

	testutil.AssertNoError(t, err, "new should succeed")
	testutil.AssertEqual(t, len(module.reconModules), 1, "custom recon module list")
	testutil.AssertEqual(t, module.reconModules[0], "recon/domains-hosts/brute_hosts", "custom module name")
}

func TestModule_Start(t *testing.T) {
	path := fakeBinary(t, "exit 0")
	module, err := New(testConfig(path), logx.NewSilent())
	testutil.AssertNoError(t, err, "new")

	target := domain.NewTarget(domain.TargetTypeDomain, "example.com", []string{"reconng"})
	handle, err := module.Start(context.Background(), *target)
	testutil.AssertNoError(t, err, "domain target supported")
	testutil.AssertEqual(t, string(handle), "example.com", "handle is the target value")

	email := domain.NewTarget(domain.TargetTypeEmail, "admin@example.com", []string{"reconng"})
	_, err = module.Start(context.Background(), *email)
	testutil.AssertError(t, err, "email target rejected")
}

func TestModule_Fetch(t *testing.T) {
	path := fakeBinary(t, `echo '{"hosts": ["a.example.com", "b.example.com"]}'`)
	module, err := New(testConfig(path), logx.NewSilent())
	testutil.AssertNoError(t, err, "new")

	raw, err := module.Fetch(context.Background(), ports.Handle("example.com"))

	testutil.AssertNoError(t, err, "fetch should succeed")
	testutil.AssertEqual(t, raw.Kind, domain.RawMap, "merged output is a map")
	testutil.AssertEqual(t, len(raw.Map), 2, "one entry per recon module")

	entry := raw.Map["recon/domains-hosts/hackertarget"]
	testutil.AssertEqual(t, len(entry.Map["hosts"].List), 2, "recon module output preserved")
}

func TestModule_Fetch_PartialFailure(t *testing.T) {
	// Fails on the shodan_ip module, succeeds on hackertarget
	path := fakeBinary(t, `case "$*" in
*shodan_ip*) echo "module error" >&2; exit 1 ;;
*) echo '{"hosts": ["a.example.com"]}' ;;
esac`)
	module, err := New(testConfig(path), logx.NewSilent())
	testutil.AssertNoError(t, err, "new")

	raw, err := module.Fetch(context.Background(), ports.Handle("example.com"))

	testutil.AssertNoError(t, err, "one failing recon module does not void the fetch")
	testutil.AssertEqual(t, len(raw.Map), 2, "both recon modules present")

	failed := raw.Map["recon/hosts-ports/shodan_ip"]
	_, hasError := failed.Map["error"]
	testutil.AssertTrue(t, hasError, "failed recon module records its error")

	ok := raw.Map["recon/domains-hosts/hackertarget"]
	testutil.AssertEqual(t, len(ok.Map["hosts"].List), 1, "successful recon module output preserved")
}

func TestModule_Fetch_NonJSONOutput(t *testing.T) {
	path := fakeBinary(t, `echo "[*] recon-ng banner text"`)
	module, err := New(testConfig(path), logx.NewSilent())
	testutil.AssertNoError(t, err, "new")

	raw, err := module.Fetch(context.Background(), ports.Handle("example.com"))

	testutil.AssertNoError(t, err, "non-json output is tolerated")
	entry := raw.Map["recon/domains-hosts/hackertarget"]
	_, hasOutput := entry.Map["output"]
	testutil.AssertTrue(t, hasOutput, "raw text kept under output key")
}
