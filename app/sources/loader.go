package sources

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Defaults are the three upstream competition leaderboards this site
// aggregates. A sources directory overrides them entirely.
func Defaults() []Source {
	return []Source{
		{
			Name:          "codalab-old",
			Kind:          KindCodalab,
			BaseURL:       "https://competitions.codalab.org",
			CompetitionID: 24122,
			ResultsURL:    "https://competitions.codalab.org/competitions/24122#results",
			ResultsID:     40019,
			Optional:      true,
		},
		{
			Name:          "codalab-new",
			Kind:          KindCodalab,
			BaseURL:       "https://codalab.lisn.upsaclay.fr",
			CompetitionID: 420,
			ResultsURL:    "https://codalab.lisn.upsaclay.fr/competitions/420#results",
			ResultsID:     563,
			Optional:      true,
		},
		{
			Name:          "codabench",
			Kind:          KindCodabench,
			BaseURL:       "https://www.codabench.org",
			CompetitionID: 13955,
			ResultsURL:    "https://www.codabench.org/competitions/13955/#/results-tab",
			PhaseID:       23177,
			Method:        "scrape",
		},
	}
}

// Loader reads per-source YAML configuration files.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadAll loads every YAML file from the sources directory, sorted by file
// name so iteration order is fixed across runs. When the directory does
// not exist or holds no files, the built-in defaults are used.
func (l *Loader) LoadAll() ([]Source, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return Defaults(), nil
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(l.dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)
	if len(files) == 0 {
		return Defaults(), nil
	}
	sort.Strings(files)

	srcs := make([]Source, 0, len(files))
	for _, file := range files {
		src, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}
		if err := l.validate(src); err != nil {
			return nil, fmt.Errorf("invalid source config %s: %w", file, err)
		}
		srcs = append(srcs, *src)
		slog.Debug("Loaded source configuration", "file", file, "source", src.Name)
	}

	return srcs, nil
}

func (l *Loader) loadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var src Source
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	l.setDefaults(&src)

	return &src, nil
}

func (l *Loader) setDefaults(src *Source) {
	if src.Method == "" {
		switch src.Kind {
		case KindCodabench:
			src.Method = "scrape"
		case KindCodalab:
			src.Method = "csv"
		}
	}
}

func (l *Loader) validate(src *Source) error {
	if src.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if src.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if src.CompetitionID == 0 {
		return fmt.Errorf("competition_id is required")
	}
	switch src.Kind {
	case KindCodalab:
		switch src.Method {
		case "csv":
			if src.ResultsID == 0 {
				return fmt.Errorf("results_id is required for the codalab csv method")
			}
		case "api":
		default:
			return fmt.Errorf("invalid method %q (expected csv|api)", src.Method)
		}
	case KindCodabench:
		switch src.Method {
		case "scrape", "csv", "auto":
		default:
			return fmt.Errorf("invalid method %q (expected scrape|csv|auto)", src.Method)
		}
	default:
		return fmt.Errorf("invalid kind %q (expected codalab|codabench)", src.Kind)
	}
	return nil
}
