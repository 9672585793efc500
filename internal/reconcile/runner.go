// Package reconcile walks the vault and aligns every note's frontmatter
// with the position its folder path dictates.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/audit"
	"github.com/starford/othala/internal/frontmatter"
	"github.com/starford/othala/internal/hierarchy"
	"github.com/starford/othala/internal/storage"
)

const defaultWorkers = 4

// Stats summarizes a reconcile pass.
type Stats struct {
	Files      int   `json:"files"`
	Changed    int   `json:"changed"`
	Unchanged  int   `json:"unchanged"`
	Skipped    int   `json:"skipped"`
	Errors     int   `json:"errors"`
	FieldEdits int   `json:"field_edits"`
	DurationMS int64 `json:"duration_ms"`
}

// FileReport describes what reconciling a single note found. A populated
// Changes slice with Skipped false means the note diverged from its path.
type FileReport struct {
	Path      string              `json:"path"`
	IndexType hierarchy.IndexType `json:"index_type,omitempty"`
	Depth     int                 `json:"depth"`
	Changes   []hierarchy.Change  `json:"changes,omitempty"`
	Skipped   bool                `json:"skipped,omitempty"`
	Reason    string              `json:"reason,omitempty"`
}

// Report is the outcome of a vault-wide pass. Files holds only notes that
// changed, were skipped, or failed; untouched notes are just counted.
type Report struct {
	Stats  Stats        `json:"stats"`
	DryRun bool         `json:"dry_run"`
	Files  []FileReport `json:"files,omitempty"`
}

// Runner applies hierarchy reconciliation to vault files.
type Runner struct {
	store   storage.Provider
	cls     *hierarchy.Classifier
	trail   *audit.Trail
	logger  *slog.Logger
	workers int
}

// NewRunner wires a runner. workers caps the parallel file passes in Run,
// defaulting to 4 when not positive.
func NewRunner(store storage.Provider, cls *hierarchy.Classifier, trail *audit.Trail, logger *slog.Logger, workers int) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Runner{store: store, cls: cls, trail: trail, logger: logger, workers: workers}
}

// ReconcileContent classifies rel and rewrites data's frontmatter to match.
// The body comes back byte for byte; only the frontmatter block is rebuilt,
// and only when at least one field changed. Unparseable frontmatter skips
// the note rather than failing it.
func (r *Runner) ReconcileContent(rel string, data []byte) ([]byte, FileReport, error) {
	rep := FileReport{Path: rel}

	cl, err := r.cls.ClassifyRel(rel)
	if err != nil {
		return nil, rep, err
	}
	rep.Depth = cl.Depth

	block, body, hasFM := frontmatter.Split(data)
	var ff *frontmatter.Fields
	if hasFM {
		ff, err = frontmatter.Parse(block)
		if err != nil {
			rep.Skipped = true
			rep.Reason = "frontmatter not parseable"
			return data, rep, nil
		}
	}

	res := hierarchy.Reconcile(ff, cl)
	rep.IndexType = res.IndexType
	rep.Changes = res.Changes
	if len(res.Changes) == 0 {
		return data, rep, nil
	}

	rendered, err := res.Fields.Render()
	if err != nil {
		return nil, rep, fmt.Errorf("reconcile: render %s: %w", rel, err)
	}
	if !hasFM {
		body = frontmatter.TrimBOM(body)
		if len(body) > 0 && body[0] != '\n' {
			body = append([]byte("\n"), body...)
		}
	}
	return frontmatter.Compose(rendered, body), rep, nil
}

// ProcessFile reconciles one vault file in place. With dryRun the divergence
// is reported but nothing is written or audited.
func (r *Runner) ProcessFile(rel string, dryRun bool) (FileReport, error) {
	data, err := r.store.Read(rel)
	if err != nil {
		return FileReport{Path: rel}, err
	}
	out, rep, err := r.ReconcileContent(rel, data)
	if err != nil || rep.Skipped || len(rep.Changes) == 0 || dryRun {
		return rep, err
	}
	if err := r.store.Write(rel, out); err != nil {
		return rep, fmt.Errorf("reconcile: write %s: %w", rel, err)
	}
	r.record(rel, rep.Changes)
	return rep, nil
}

// Run reconciles every note in the vault. Files are processed in parallel;
// a note that fails or cannot be classified is reported and skipped, never
// fatal for the pass. A second Run over an unchanged vault reports zero
// changed files.
func (r *Runner) Run(ctx context.Context, dryRun bool) (*Report, error) {
	start := time.Now()
	metas, err := r.store.List("")
	if err != nil {
		return nil, fmt.Errorf("reconcile: list vault: %w", err)
	}

	rpt := &Report{DryRun: dryRun}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, m := range metas {
		rel := m.Path
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rep, err := r.ProcessFile(rel, dryRun)

			mu.Lock()
			defer mu.Unlock()
			rpt.Stats.Files++
			switch {
			case err != nil:
				rpt.Stats.Errors++
				rep.Skipped = true
				rep.Reason = err.Error()
				rpt.Files = append(rpt.Files, rep)
				r.logger.Warn("reconcile: file failed",
					slog.String("path", rel),
					slog.String("error", err.Error()))
			case rep.Skipped:
				rpt.Stats.Skipped++
				rpt.Files = append(rpt.Files, rep)
				r.logger.Warn("reconcile: file skipped",
					slog.String("path", rel),
					slog.String("reason", rep.Reason))
			case len(rep.Changes) == 0:
				rpt.Stats.Unchanged++
			default:
				rpt.Stats.Changed++
				rpt.Stats.FieldEdits += len(rep.Changes)
				rpt.Files = append(rpt.Files, rep)
				for _, ch := range rep.Changes {
					r.logger.Debug("reconcile: field",
						slog.String("path", rel),
						slog.String("field", ch.Field),
						slog.String("op", string(ch.Op)),
						slog.String("old", ch.Old),
						slog.String("new", ch.New))
				}
				r.logger.Info("reconcile: note aligned",
					slog.String("path", rel),
					slog.String("index_type", string(rep.IndexType)),
					slog.Int("changes", len(rep.Changes)),
					slog.Bool("dry_run", dryRun))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rpt, err
	}

	sort.Slice(rpt.Files, func(i, j int) bool { return rpt.Files[i].Path < rpt.Files[j].Path })
	rpt.Stats.DurationMS = time.Since(start).Milliseconds()

	r.logger.Info("reconcile: pass complete",
		slog.Int("files", rpt.Stats.Files),
		slog.Int("changed", rpt.Stats.Changed),
		slog.Int("skipped", rpt.Stats.Skipped),
		slog.Int("errors", rpt.Stats.Errors),
		slog.Bool("dry_run", dryRun))
	return rpt, nil
}

func (r *Runner) record(rel string, changes []hierarchy.Change) {
	entries := make([]audit.Entry, 0, len(changes))
	for _, ch := range changes {
		entries = append(entries, audit.Entry{
			Path:  rel,
			Field: ch.Field,
			Op:    string(ch.Op),
			Old:   ch.Old,
			New:   ch.New,
		})
	}
	if err := r.trail.Record(entries...); err != nil {
		r.logger.Warn("reconcile: audit append failed",
			slog.String("path", rel),
			slog.String("error", err.Error()))
	}
}
