// Package pipeline drives one full update run: load or fetch every
// configured source in fixed order, combine, and write the artifacts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/msnews/leaderboard-comb/app/cfg"
	"github.com/msnews/leaderboard-comb/app/fetch"
	"github.com/msnews/leaderboard-comb/app/leaderboard"
	"github.com/msnews/leaderboard-comb/app/scrape"
	"github.com/msnews/leaderboard-comb/app/snapshot"
	"github.com/msnews/leaderboard-comb/app/sources"
)

type Pipeline struct {
	cfg       *cfg.Cfg
	srcs      []sources.Source
	manager   *snapshot.Manager
	codalab   *fetch.Codalab
	codabench *fetch.Codabench
}

func New(c *cfg.Cfg, srcs []sources.Source) *Pipeline {
	client := fetch.NewClient(
		time.Duration(c.Timeout)*time.Second,
		c.UserAgent,
		fetch.Credentials{
			Bearer: c.CodabenchBearer,
			Token:  c.CodabenchToken,
			Cookie: c.CodabenchCookie,
		},
		c.Insecure,
	)

	return &Pipeline{
		cfg:       c,
		srcs:      srcs,
		manager:   snapshot.NewManager(snapshot.NewStore(c.CacheDir)),
		codalab:   fetch.NewCodalab(client),
		codabench: fetch.NewCodabench(client),
	}
}

// Run loads every source sequentially in configured order and combines the
// results. Optional sources degrade to a warning and are omitted; a
// failure in a non-optional source aborts the run before any artifact is
// written.
func (p *Pipeline) Run(ctx context.Context) (*leaderboard.Combined, error) {
	var snaps []*snapshot.Snapshot
	for _, src := range p.srcs {
		snap, err := p.loadSource(ctx, src)
		if err != nil {
			if src.Optional {
				slog.Warn("Source unavailable, omitting", "source", src.Name, "error", err)
				continue
			}
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		if snap.IsPlaceholder() {
			slog.Warn("Snapshot is a placeholder; request a refresh to fetch real data",
				"source", src.Name)
		}
		snaps = append(snaps, snap)
	}

	return leaderboard.Combine(snaps), nil
}

func (p *Pipeline) loadSource(ctx context.Context, src sources.Source) (*snapshot.Snapshot, error) {
	// A locally downloaded CSV bypasses the cache decision entirely: it
	// seeds the cache and is used as-is.
	if path, ok := p.cfg.LocalCSV[src.Name]; ok && path != "" {
		snap, err := fetch.LocalCSV(src, path)
		if err != nil {
			return nil, err
		}
		if err := p.manager.Store().Save(src.CacheName(), snap); err != nil {
			return nil, err
		}
		return snap, nil
	}

	if err := p.maybeBootstrap(src); err != nil {
		return nil, err
	}

	fetchFn := p.fetchFunc(ctx, src)
	return p.manager.LoadOrFetch(src.CacheName(), p.cfg.RefreshRequested(src.Name), fetchFn)
}

func (p *Pipeline) fetchFunc(ctx context.Context, src sources.Source) snapshot.FetchFunc {
	switch src.Kind {
	case sources.KindCodalab:
		if src.Method == "api" {
			return func() (*snapshot.Snapshot, error) {
				return p.codalab.LeaderboardAPI(ctx, src, p.cfg.PhaseRegex)
			}
		}
		return func() (*snapshot.Snapshot, error) {
			return p.codalab.ResultsCSV(ctx, src)
		}
	case sources.KindCodabench:
		return func() (*snapshot.Snapshot, error) {
			return p.codabench.Fetch(ctx, src, p.cachedPhaseID(src))
		}
	default:
		return func() (*snapshot.Snapshot, error) {
			return nil, fmt.Errorf("unknown source kind %q", src.Kind)
		}
	}
}

// cachedPhaseID prefers a phase id recorded in the existing cache, in case
// the competition's result-set id moved since the source was configured.
func (p *Pipeline) cachedPhaseID(src sources.Source) int {
	cached, err := p.manager.Store().Load(src.CacheName())
	if err != nil || cached == nil {
		return 0
	}
	return cached.PhaseID
}

// maybeBootstrap seeds the configured legacy source's cache from the
// static index.html table, one time, when no cache exists yet.
func (p *Pipeline) maybeBootstrap(src sources.Source) error {
	if p.cfg.BootstrapIndex == "" || src.Name != p.cfg.BootstrapSource {
		return nil
	}
	if p.manager.Store().Exists(src.CacheName()) {
		return nil
	}

	html, err := os.ReadFile(p.cfg.BootstrapIndex)
	if err != nil {
		return fmt.Errorf("failed to read bootstrap index: %w", err)
	}
	rows, err := scrape.Bootstrap(html)
	if err != nil {
		return fmt.Errorf("failed to parse bootstrap index: %w", err)
	}
	if len(rows) == 0 {
		slog.Warn("Bootstrap index contained no leaderboard rows", "source", src.Name)
		return nil
	}

	seed := &snapshot.Snapshot{
		Source:        src.Name,
		CompetitionID: src.CompetitionID,
		BaseURL:       src.BaseURL,
		ResultsURL:    src.ResultsURL,
		Phase:         &snapshot.Phase{Raw: map[string]any{"bootstrap": true, "note": "Seeded from index.html static table"}},
		FetchedAt:     snapshot.UTCNow(),
		Rows:          rows,
	}
	if err := p.manager.Store().Save(src.CacheName(), seed); err != nil {
		return err
	}
	slog.Info("Seeded cache from static index table", "source", src.Name, "rows", len(rows))
	return nil
}

// WriteArtifacts writes the combined JSON, the optional JS global
// assignment, and the optional index.html injection.
func (p *Pipeline) WriteArtifacts(c *leaderboard.Combined) error {
	data, err := c.MarshalCanonical()
	if err != nil {
		return fmt.Errorf("failed to serialize combined leaderboard: %w", err)
	}
	if err := writeFile(p.cfg.Output, data); err != nil {
		return err
	}
	slog.Info("Wrote combined leaderboard", "path", p.cfg.Output,
		"rows", len(c.Rows), "sources", len(c.Sources))

	if p.cfg.OutputJS != "" {
		js, err := leaderboard.RenderJS(c, p.cfg.JSGlobal)
		if err != nil {
			return fmt.Errorf("failed to render JS output: %w", err)
		}
		if err := writeFile(p.cfg.OutputJS, js); err != nil {
			return err
		}
		slog.Info("Wrote JS global assignment", "path", p.cfg.OutputJS)
	}

	if p.cfg.WriteIndex != "" {
		html, err := os.ReadFile(p.cfg.WriteIndex)
		if err != nil {
			return fmt.Errorf("failed to read index file: %w", err)
		}
		updated, err := leaderboard.InjectIndexHTML(string(html), c)
		if err != nil {
			return err
		}
		if err := os.WriteFile(p.cfg.WriteIndex, []byte(updated), 0o644); err != nil {
			return fmt.Errorf("failed to write index file: %w", err)
		}
		slog.Info("Updated leaderboard table", "path", p.cfg.WriteIndex)
	}

	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
