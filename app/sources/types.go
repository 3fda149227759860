package sources

// Kind selects the fetch strategy family for a source.
const (
	KindCodalab   = "codalab"
	KindCodabench = "codabench"
)

// Source describes one upstream leaderboard.
type Source struct {
	// Name identifies the source in output metadata and cache file names.
	Name          string `yaml:"source"`
	Kind          string `yaml:"kind"`
	BaseURL       string `yaml:"base_url"`
	CompetitionID int    `yaml:"competition_id"`
	ResultsURL    string `yaml:"results_url"`

	// ResultsID parameterizes the CodaLab /results/<id>/data CSV export.
	ResultsID int `yaml:"results_id,omitempty"`
	// PhaseID parameterizes the CodaBench results.csv export.
	PhaseID int `yaml:"phase_id,omitempty"`
	// Method is the fetch strategy: scrape, csv or auto for CodaBench;
	// csv or api for CodaLab.
	Method string `yaml:"method,omitempty"`

	// Optional sources degrade to a warning when unavailable; a failure in
	// a non-optional source aborts the run.
	Optional bool `yaml:"optional"`
}

// CacheName is the snapshot file name (without extension) for the source.
func (s Source) CacheName() string {
	return s.Name
}
