// internal/platform/config/help.go
package config

import (
	"fmt"
	"os"
	"runtime"
)

const helpText = `
osintx - OSINT Intelligence Aggregation Engine

USAGE:
  osintx --target <value> [options]
  osintx --serve [options]

CORE OPTIONS:
  -t, --target string      Target value (e.g., example.com, 198.51.100.7)
  --type string            Target type: domain, ip, email (default: "domain")
  -m, --modules string     Comma-separated collection modules (default: "shodan,harvester")
  --timeout int            Per-module timeout in seconds (default: 60)
  --out string             Output directory (default: "osintx_out")

SERVE OPTIONS:
  --serve                  Run the HTTP API instead of a one-shot collection
  --listen string          HTTP API listen address (default: ":8080")

STORE OPTIONS:
  --store-dsn string       PostgreSQL DSN for the graph store and search index

OUTPUT OPTIONS:
  --no-table               Disable table output, JSON only (default: false)

RESILIENCE OPTIONS:
  --resilience-retries int Max retries per module on failure (default: 3)
  --resilience-cb          Enable per-module circuit breaker (default: true)
  --cache                  Enable per-module outcome cache (default: true)

INFO:
  --version                Print version information and exit
  --help                   Show this help message

EXAMPLES:
  One-shot collection:
    osintx --target example.com --modules shodan,harvester

  Collect over an IP:
    osintx --target 198.51.100.7 --type ip --modules shodan

  Run the API:
    osintx --serve --listen :8080

ENVIRONMENT VARIABLES:
  Most flags can be set via environment variables with the OSINTX_ prefix:

  OSINTX_TARGET                     Target value
  OSINTX_TARGET_TYPE=ip             Target type
  OSINTX_MODULES=shodan,reconng     Collection modules
  OSINTX_TIMEOUT=120                Per-module timeout in seconds
  OSINTX_STORE_DSN=postgres://...   PostgreSQL DSN
  OSINTX_LISTEN_ADDR=:9090          API listen address
  OSINTX_OUTPUT_DIR=/path           Output directory
  OSINTX_CONFIG=/path/osintx.yaml   YAML config file (applied before env)

  Module-specific (replace SHODAN with the module name):
  OSINTX_MODULES_SHODAN_ENABLED=false
  OSINTX_MODULES_SHODAN_API_KEY=...
  OSINTX_MODULES_SPIDERFOOT_BASE_URL=http://localhost:5001

  Note: CLI flags override environment variables.

COLLECTION MODULES:
  shodan       Shodan exposure database (requires API key)
  spiderfoot   SpiderFoot server scans (dns, whois, social, leaks)
  reconng      Recon-ng framework via recon-cli
  harvester    theHarvester passive email/host discovery

OUTPUT:
  One-shot collections persist to the graph store, index the result for
  search, write a JSON file under the output directory, and print a
  table to stdout (unless --no-table).
`

// PrintHelp imprime la ayuda y termina el proceso.
func PrintHelp() {
	fmt.Fprint(os.Stdout, helpText)
	os.Exit(0)
}

// PrintVersion imprime la versión y termina el proceso.
func PrintVersion(version, commit, date string) {
	fmt.Printf("osintx %s\n", version)
	fmt.Printf("  Commit:  %s\n", commit)
	fmt.Printf("  Built:   %s\n", date)
	fmt.Printf("  Go:      %s\n", runtime.Version())
	os.Exit(0)
}
