package analyze

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/jackzampolin/docket/internal/layout"
)

// FileResult is the per-file outcome of a batch run. Either Structure or
// Err is set, never both.
type FileResult struct {
	File      string             `json:"file"`
	Structure *DocumentStructure `json:"structure,omitempty"`
	Err       string             `json:"error,omitempty"`
}

// BatchResult summarizes a directory analysis run.
type BatchResult struct {
	RunID      string                 `json:"run_id"`
	Directory  string                 `json:"directory"`
	Successful int                    `json:"successful"`
	Failed     int                    `json:"failed"`
	Elapsed    time.Duration          `json:"elapsed"`
	Files      map[string]*FileResult `json:"files"`
}

// Structures returns the successful analyses in filename order.
func (r *BatchResult) Structures() []*DocumentStructure {
	names := make([]string, 0, len(r.Files))
	for name := range r.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	var docs []*DocumentStructure
	for _, name := range names {
		if fr := r.Files[name]; fr.Structure != nil {
			docs = append(docs, fr.Structure)
		}
	}
	return docs
}

// AnalyzeDir analyzes every *.pdf file under dir. Files are independent, so
// they fan out across workers; each worker produces its own
// DocumentStructure and nothing is shared until results are collected. A
// failed file is recorded and the batch continues.
//
// attempts > 1 retries transient per-file failures. Missing or structurally
// unreadable files are never retried; the core reports them once and the
// decision to retry rests here, in the batch driver.
func (a *Analyzer) AnalyzeDir(ctx context.Context, dir string, workers, attempts int) (*BatchResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", dir, err)
	}
	sort.Strings(paths)

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if attempts <= 0 {
		attempts = 1
	}

	start := time.Now()
	result := &BatchResult{
		RunID:     uuid.New().String(),
		Directory: dir,
		Files:     make(map[string]*FileResult, len(paths)),
	}

	a.logger.Info("starting batch analysis",
		"run_id", result.RunID, "dir", dir, "files", len(paths), "workers", workers)

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				fr := a.analyzeWithRetry(ctx, path, attempts)
				mu.Lock()
				result.Files[filepath.Base(path)] = fr
				if fr.Err == "" {
					result.Successful++
				} else {
					result.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			// Stop feeding; in-flight files finish or observe cancellation.
		case jobs <- path:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start).Round(time.Millisecond)
	a.logger.Info("batch analysis complete",
		"run_id", result.RunID, "successful", result.Successful, "failed", result.Failed)
	return result, nil
}

func (a *Analyzer) analyzeWithRetry(ctx context.Context, path string, attempts int) *FileResult {
	fr := &FileResult{File: filepath.Base(path)}

	var doc *DocumentStructure
	err := retry.Do(
		func() error {
			var aerr error
			doc, aerr = a.AnalyzeFile(ctx, path)
			return aerr
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// A file that is absent or structurally broken will not heal
			// between attempts.
			return !errors.Is(err, layout.ErrNotFound) && !errors.Is(err, layout.ErrUnreadable)
		}),
	)
	if err != nil {
		a.logger.Warn("file analysis failed", "file", fr.File, "error", err)
		fr.Err = err.Error()
		return fr
	}
	fr.Structure = doc
	return fr
}
