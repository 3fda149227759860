package cfg

// Cfg is the resolved process configuration.
type Cfg struct {
	// Paths
	SourcesDir string
	CacheDir   string
	Output     string
	OutputJS   string
	JSGlobal   string
	WriteIndex string

	// Fetch behavior
	PhaseRegex      string
	Refresh         []string
	LocalCSV        map[string]string
	BootstrapIndex  string
	BootstrapSource string
	Insecure        bool
	Timeout         int
	UserAgent       string

	// CodaBench credentials (environment-supplied)
	CodabenchBearer string
	CodabenchToken  string
	CodabenchCookie string

	// Optional run archive / serve mode
	ArchiveDB string
	Serve     bool
	Port      string

	// Application metadata
	Debug   bool
	Version string
}

// RefreshRequested reports whether a refresh was requested for the source,
// either by name or with the catch-all "all".
func (c *Cfg) RefreshRequested(source string) bool {
	for _, name := range c.Refresh {
		if name == source || name == "all" {
			return true
		}
	}
	return false
}
