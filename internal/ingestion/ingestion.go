package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockpulse/internal/analysis"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/logger"
)

const (
	fileSuffix  = ".csv"
	maxParallel = 8
)

// FileReport is the batch outcome for one file.
type FileReport struct {
	File     string           `json:"file"`
	Rows     int              `json:"rows"`
	Analysis *models.Analysis `json:"analysis"`
}

// AnalyzeDirectory parses and analyzes every .csv file in dir.
//
// Parameters:
//   - dir:      directory containing .csv price files (not recursive).
//   - window:   moving-average window applied to every file.
//   - parallel: concurrent files; 0 means min(8, NumCPU), larger values are clamped to 8.
//
// Behavior:
//   - Each goroutine owns the Series it parses; nothing is shared between files.
//   - If any file fails, the remaining ones are cancelled and that error is returned.
//
// Returns:
//   - []FileReport sorted by file name.
//   - error: first error encountered (if any).
func AnalyzeDirectory(ctx context.Context, dir string, window, parallel int) ([]FileReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", fileSuffix, dir)
	}

	limit := parallelism(parallel)
	logger.L().Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", limit).Msg("batch start")

	var (
		mu      sync.Mutex
		reports = make([]FileReport, 0, len(files))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, f := range files {
		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(f)
			logger.L().Info().Int("idx", i+1).Int("total", len(files)).Str("file", base).Msg("file start")

			rep, err := analyzeFile(gctx, f, window)
			if err != nil {
				logger.L().Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", base, err)
			}

			mu.Lock()
			reports = append(reports, rep)
			mu.Unlock()

			logger.L().Info().Int("idx", i+1).Int("total", len(files)).Str("file", base).Int("rows", rep.Rows).Dur("elapsed", time.Since(start)).Msg("file done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].File < reports[j].File })
	return reports, nil
}

func analyzeFile(ctx context.Context, path string, window int) (FileReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileReport{}, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	series, err := ParseSeries(ctx, f)
	if err != nil {
		return FileReport{}, err
	}
	a, err := analysis.Analyze(series, window)
	if err != nil {
		return FileReport{}, err
	}
	return FileReport{File: filepath.Base(path), Rows: len(series), Analysis: a}, nil
}

func parallelism(requested int) int {
	if requested > 0 {
		return min(requested, maxParallel)
	}
	return min(runtime.NumCPU(), maxParallel)
}
