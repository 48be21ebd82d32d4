package analysis

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/ben-ranford/depsweep/internal/language"
	"github.com/ben-ranford/depsweep/internal/telemetry"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type walker struct {
	ignoreDirs  map[string]struct{}
	table       *language.ParserTable
	extractor   *extractor
	concurrency int
	metrics     *telemetry.Metrics
	logger      *log.Logger
}

// walk lists directories breadth first on the calling goroutine and runs one
// extraction task per (file, parser) pair on a bounded errgroup. Every task
// hands its contribution to a single collector, which owns the result.
func (w *walker) walk(ctx context.Context, dir string) (DetectionResult, error) {
	result := newDetectionResult()
	contributions := make(chan contribution)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for c := range contributions {
			result.fold(c)
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(w.concurrency)
	w.traverse(groupCtx, group, dir, contributions)

	err := group.Wait()
	close(contributions)
	<-collected

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return DetectionResult{}, err
	}
	return result, nil
}

func (w *walker) traverse(ctx context.Context, group *errgroup.Group, dir string, out chan<- contribution) {
	visited := make(map[string]struct{})
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		visited[real] = struct{}{}
	}

	queue := []string{dir}
	for len(queue) > 0 && ctx.Err() == nil {
		current := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(current)
		if err != nil {
			w.invalidDir(current, err, out)
			continue
		}
		w.logger.Debug("visit", "dir", relativePath(w.extractor.rootDir, current), "entries", len(entries))

		for _, entry := range entries {
			path := filepath.Join(current, entry.Name())
			info, err := os.Stat(path)
			if err != nil {
				w.invalidDir(path, err, out)
				continue
			}

			if !info.IsDir() {
				for _, parser := range classify(entry.Name(), w.table) {
					w.schedule(ctx, group, path, parser, out)
				}
				continue
			}

			if _, ignored := w.ignoreDirs[entry.Name()]; ignored || isSubModule(path) {
				continue
			}
			real, err := filepath.EvalSymlinks(path)
			if err != nil {
				w.invalidDir(path, err, out)
				continue
			}
			if _, seen := visited[real]; seen {
				continue
			}
			visited[real] = struct{}{}
			queue = append(queue, path)
		}
	}
}

func (w *walker) schedule(ctx context.Context, group *errgroup.Group, path string, parser language.Parser, out chan<- contribution) {
	group.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		started := time.Now()
		names, err := w.extractor.extract(ctx, path, parser)
		if err != nil {
			w.metrics.ObserveExtraction(parser.ID(), telemetry.OutcomeInvalid, time.Since(started))
			w.logger.Warn("cannot analyse file", "file", relativePath(w.extractor.rootDir, path), "parser", parser.ID(), "err", err)
			out <- contribution{file: path, fileErr: err}
			return nil
		}
		w.metrics.ObserveExtraction(parser.ID(), telemetry.OutcomeOK, time.Since(started))
		out <- contribution{file: path, names: names}
		return nil
	})
}

func (w *walker) invalidDir(path string, err error, out chan<- contribution) {
	w.metrics.InvalidDirectory()
	w.logger.Warn("cannot read directory", "dir", relativePath(w.extractor.rootDir, path), "err", err)
	out <- contribution{dir: path, dirErr: &TraversalError{Path: path, Err: err}}
}
