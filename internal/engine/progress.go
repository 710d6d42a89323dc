package engine

import "sync"

// PoolState is the lifecycle of the worker pool.
type PoolState int

const (
	PoolNotStarted PoolState = iota
	PoolRunning
	PoolDraining
	PoolCompleted
)

func (s PoolState) String() string {
	switch s {
	case PoolRunning:
		return "running"
	case PoolDraining:
		return "draining"
	case PoolCompleted:
		return "completed"
	default:
		return "not started"
	}
}

// WorkerState is the loop position of one worker.
type WorkerState int

const (
	WorkerIdle WorkerState = iota
	WorkerFetching
	WorkerProcessing
	WorkerReporting
	WorkerDrained
)

func (s WorkerState) String() string {
	switch s {
	case WorkerFetching:
		return "fetching"
	case WorkerProcessing:
		return "processing"
	case WorkerReporting:
		return "reporting"
	case WorkerDrained:
		return "drained"
	default:
		return "idle"
	}
}

// WorkerStatus is one worker's entry in a Snapshot.
type WorkerStatus struct {
	ID          int
	State       WorkerState
	CurrentFile string
}

// Snapshot is a point-in-time copy of the run's progress. It is detached
// from the aggregator; callers may hold it as long as they like.
type Snapshot struct {
	State     PoolState
	Total     int
	Completed int
	Failed    int
	Cancelled int
	Workers   []WorkerStatus
}

// Done reports whether every job has been accounted for.
func (s Snapshot) Done() bool {
	return s.Completed+s.Failed+s.Cancelled == s.Total
}

// progress is the single synchronization point for counters and per-worker
// status. Counter updates happen under the mutex; event sends happen outside
// it and never block: a full or unread sink drops the event instead of
// stalling a worker. Counters stay exact regardless, and finished events
// carry absolute totals so a lossy consumer still converges. All failed
// results are retained so failures can be listed after the run.
type progress struct {
	mu        sync.Mutex
	state     PoolState
	total     int
	completed int
	failed    int
	cancelled int
	workers   []WorkerStatus
	failures  []Result

	events chan<- Event
}

func newProgress(events chan<- Event) *progress {
	return &progress{events: events}
}

func (p *progress) start(total, workers int) {
	p.mu.Lock()
	p.state = PoolRunning
	p.total = total
	p.workers = make([]WorkerStatus, workers)
	for i := range p.workers {
		p.workers[i] = WorkerStatus{ID: i, State: WorkerFetching}
	}
	p.mu.Unlock()

	p.emit(Event{Kind: EventRunStarted, Total: total, Workers: workers})
}

func (p *progress) jobStarted(workerID int, file string) {
	p.mu.Lock()
	p.workers[workerID].State = WorkerProcessing
	p.workers[workerID].CurrentFile = file
	p.mu.Unlock()

	p.emit(Event{Kind: EventJobStarted, WorkerID: workerID, File: file})
}

func (p *progress) jobFinished(res Result) {
	p.mu.Lock()
	switch res.Status {
	case StatusSucceeded:
		p.completed++
	case StatusFailed:
		p.failed++
		p.failures = append(p.failures, res)
	case StatusCancelled:
		p.cancelled++
	}
	if res.WorkerID >= 0 && res.WorkerID < len(p.workers) {
		p.workers[res.WorkerID].State = WorkerFetching
		p.workers[res.WorkerID].CurrentFile = ""
	}
	ev := Event{
		Kind:      EventJobFinished,
		WorkerID:  res.WorkerID,
		Total:     p.total,
		File:      res.Job.RelPath,
		Status:    res.Status,
		Err:       res.Err,
		Completed: p.completed,
		Failed:    p.failed,
		Cancelled: p.cancelled,
	}
	p.mu.Unlock()

	p.emit(ev)
}

// workerReporting marks the window between finishing a job's pipeline and
// handing its result to the collector.
func (p *progress) workerReporting(workerID int) {
	p.mu.Lock()
	if workerID >= 0 && workerID < len(p.workers) {
		p.workers[workerID].State = WorkerReporting
	}
	p.mu.Unlock()
}

func (p *progress) workerDrained(workerID int) {
	p.mu.Lock()
	p.workers[workerID].State = WorkerDrained
	p.workers[workerID].CurrentFile = ""
	if p.state == PoolRunning {
		p.state = PoolDraining
	}
	p.mu.Unlock()
}

func (p *progress) completedAll() {
	p.mu.Lock()
	p.state = PoolCompleted
	p.mu.Unlock()
}

func (p *progress) snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	workers := make([]WorkerStatus, len(p.workers))
	copy(workers, p.workers)
	return Snapshot{
		State:     p.state,
		Total:     p.total,
		Completed: p.completed,
		Failed:    p.failed,
		Cancelled: p.cancelled,
		Workers:   workers,
	}
}

func (p *progress) failedResults() []Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Result, len(p.failures))
	copy(out, p.failures)
	return out
}

// emit pushes an event without ever blocking. A consumer that falls behind
// loses notifications, never correctness: the authoritative counters live in
// the aggregator and in the totals stamped on finished events.
func (p *progress) emit(ev Event) {
	if p.events == nil {
		return
	}
	select {
	case p.events <- ev:
	default:
	}
}
