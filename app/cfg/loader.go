package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Paths
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing per-source YAML configuration files (built-in defaults when absent)"`
	CacheDir   string `long:"cache-dir" env:"CACHE_DIR" default:"assets/data/leaderboard_sources" description:"Directory for per-source cached snapshots"`
	Output     string `long:"output" env:"OUTPUT" default:"assets/data/leaderboard.json" description:"Combined leaderboard JSON output path"`
	OutputJS   string `long:"output-js" env:"OUTPUT_JS" description:"Optional JS output that assigns the payload to a window global"`
	JSGlobal   string `long:"js-global" env:"JS_GLOBAL" default:"MIND_LEADERBOARD" description:"Window global name used by the JS output"`
	WriteIndex string `long:"write-index" env:"WRITE_INDEX" description:"If set, rewrite the leaderboard table in this index.html"`

	// Fetch behavior
	PhaseRegex      string            `long:"phase-regex" env:"PHASE_REGEX" default:"(?i)official\\s*test|official" description:"Regex used to select the CodaLab phase"`
	Refresh         []string          `long:"refresh" env:"REFRESH" env-delim:"," description:"Source names to refetch even when a cache exists (repeatable; 'all' refreshes everything)"`
	LocalCSV        map[string]string `long:"local-csv" description:"source:path pairs seeding a cache from a locally downloaded results CSV"`
	BootstrapIndex  string            `long:"bootstrap-from-index" description:"Seed the legacy source cache from this index.html when the cache is missing"`
	BootstrapSource string            `long:"bootstrap-source" default:"codalab-old" description:"Source whose cache the index bootstrap seeds"`
	Insecure        bool              `long:"insecure" env:"INSECURE" description:"Disable TLS certificate verification for HTTP requests"`
	Timeout         int               `long:"timeout" env:"FETCH_TIMEOUT" default:"45" description:"HTTP fetch timeout in seconds"`
	UserAgent       string            `long:"user-agent" env:"USER_AGENT" default:"msnews.github.io leaderboard updater (https://msnews.github.io/)" description:"User agent string for HTTP requests"`

	// CodaBench credentials; some exports return 403 without them.
	CodabenchBearer string `long:"codabench-bearer-token" env:"CODABENCH_BEARER_TOKEN" description:"Bearer token for the CodaBench export endpoint"`
	CodabenchToken  string `long:"codabench-token" env:"CODABENCH_TOKEN" description:"Token for deployments that accept 'Token <...>' auth"`
	CodabenchCookie string `long:"codabench-cookie" env:"CODABENCH_COOKIE" description:"Cookie string for the CodaBench export endpoint"`

	// Optional run archive / serve mode
	ArchiveDB string `long:"archive-db" env:"ARCHIVE_DB" description:"Optional sqlite database recording generated runs"`
	Serve     bool   `long:"serve" env:"SERVE" description:"Serve the combined artifact over HTTP after generation"`
	Port      string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for serve mode"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load parses configuration from command-line flags and environment
// variables. Returns (nil, nil) when help was requested.
func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourcesDir:      raw.SourcesDir,
		CacheDir:        raw.CacheDir,
		Output:          raw.Output,
		OutputJS:        raw.OutputJS,
		JSGlobal:        raw.JSGlobal,
		WriteIndex:      raw.WriteIndex,
		PhaseRegex:      raw.PhaseRegex,
		Refresh:         raw.Refresh,
		LocalCSV:        raw.LocalCSV,
		BootstrapIndex:  raw.BootstrapIndex,
		BootstrapSource: raw.BootstrapSource,
		Insecure:        raw.Insecure,
		Timeout:         raw.Timeout,
		UserAgent:       raw.UserAgent,
		CodabenchBearer: raw.CodabenchBearer,
		CodabenchToken:  raw.CodabenchToken,
		CodabenchCookie: raw.CodabenchCookie,
		ArchiveDB:       raw.ArchiveDB,
		Serve:           raw.Serve,
		Port:            raw.Port,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
