package engine

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"mpix/internal/codec"
)

// Engine runs one batch. Create with New, run once with Run; Snapshot may be
// polled from any goroutine while the run is in flight.
type Engine struct {
	cfg      Config
	progress *progress
}

// New validates and normalizes cfg. The events channel may be nil; when set,
// the engine pushes one Event per job transition and the caller owns closing
// it after Run returns.
func New(cfg Config, events chan<- Event) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg.normalized(),
		progress: newProgress(events),
	}, nil
}

// Snapshot returns a point-in-time copy of the run's progress.
func (e *Engine) Snapshot() Snapshot {
	return e.progress.snapshot()
}

// Failures returns the failed results recorded so far, with file path and
// error detail.
func (e *Engine) Failures() []Result {
	return e.progress.failedResults()
}

// Run enumerates jobs and processes them on a fixed pool of workers pulling
// from a shared queue. Job-local errors are recorded and never stop the
// pool; the only run-level failure is an invalid source path. Cancelling ctx
// lets in-flight jobs finish and drains queued jobs as cancelled.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	jobs, err := Enumerate(e.cfg)
	if err != nil {
		return Summary{}, err
	}

	e.progress.start(len(jobs), e.cfg.Workers)

	// Pull-based distribution: the queue is filled and closed up front,
	// and free workers take the next job. RAW decodes cost far more than
	// standard ones, so workers clearing cheap jobs absorb more of the
	// queue instead of idling behind a static split.
	queue := make(chan Job, len(jobs))
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	results := make(chan Result)

	var wg sync.WaitGroup
	wg.Add(e.cfg.Workers)
	for i := 0; i < e.cfg.Workers; i++ {
		go func(id int) {
			defer wg.Done()
			e.worker(ctx, id, queue, results)
		}(i)
	}

	summary := Summary{Total: len(jobs)}
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			switch res.Status {
			case StatusSucceeded:
				summary.Succeeded++
			case StatusFailed:
				summary.Failed++
			case StatusCancelled:
				summary.Cancelled++
			}
			e.progress.jobFinished(res)
		}
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	e.progress.completedAll()
	summary.Elapsed = time.Since(start)
	return summary, nil
}

// worker is the Fetching→Processing→Reporting loop. After cancellation it
// keeps draining the queue so every job still yields exactly one result,
// but queued jobs are reported as cancelled instead of being processed.
func (e *Engine) worker(ctx context.Context, id int, queue <-chan Job, results chan<- Result) {
	for job := range queue {
		if ctx.Err() != nil {
			results <- Result{Job: job, WorkerID: id, Status: StatusCancelled}
			continue
		}

		e.progress.jobStarted(id, job.RelPath)
		res := e.process(id, job)
		e.progress.workerReporting(id)
		results <- res
	}
	e.progress.workerDrained(id)
}

// process runs the full pipeline for one job. The pixel buffer lives and
// dies on this worker; nothing is shared across goroutines.
func (e *Engine) process(id int, job Job) Result {
	start := time.Now()

	fail := func(stage Stage, err error) Result {
		return Result{
			Job:      job,
			WorkerID: id,
			Status:   StatusFailed,
			Err:      &StageError{Stage: stage, Path: job.RelPath, Err: err},
			Elapsed:  time.Since(start),
		}
	}

	img, err := codec.Decode(job.SourcePath, job.Kind)
	if err != nil {
		return fail(StageDecode, err)
	}

	resized := codec.Resize(img, e.cfg.Megapixels)

	data, err := codec.EncodeJPEG(resized, e.cfg.Quality)
	if err != nil {
		return fail(StageEncode, err)
	}

	outPath := filepath.Join(e.cfg.OutputDir, job.OutputRel)
	if err := writeFileAtomic(outPath, data); err != nil {
		return fail(StageWrite, err)
	}

	return Result{
		Job:        job,
		WorkerID:   id,
		Status:     StatusSucceeded,
		OutputPath: outPath,
		Elapsed:    time.Since(start),
	}
}
