package engine

import (
	"sync"
	"testing"
)

func TestProgressConcurrentAccounting(t *testing.T) {
	const workers = 8
	const perWorker = 50

	p := newProgress(nil)
	p.start(workers*perWorker, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				p.jobStarted(id, "file")
				status := StatusSucceeded
				switch i % 3 {
				case 1:
					status = StatusFailed
				case 2:
					status = StatusCancelled
				}
				p.jobFinished(Result{WorkerID: id, Status: status})
			}
			p.workerDrained(id)
		}(w)
	}
	wg.Wait()
	p.completedAll()

	snap := p.snapshot()
	if !snap.Done() {
		t.Fatalf("accounting lost jobs: %+v", snap)
	}
	if got := snap.Completed + snap.Failed + snap.Cancelled; got != workers*perWorker {
		t.Fatalf("counted %d results, want %d", got, workers*perWorker)
	}
	if snap.State != PoolCompleted {
		t.Fatalf("state = %v, want completed", snap.State)
	}
	for _, ws := range snap.Workers {
		if ws.State != WorkerDrained {
			t.Fatalf("worker %d state = %v, want drained", ws.ID, ws.State)
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	p := newProgress(nil)
	p.start(3, 2)
	p.jobStarted(0, "a.png")

	snap := p.snapshot()
	snap.Workers[0].CurrentFile = "tampered"
	snap.Completed = 99

	fresh := p.snapshot()
	if fresh.Workers[0].CurrentFile != "a.png" {
		t.Fatalf("snapshot mutation leaked into aggregator: %+v", fresh.Workers[0])
	}
	if fresh.Completed != 0 {
		t.Fatalf("counter mutation leaked: %d", fresh.Completed)
	}
}

func TestProgressEvents(t *testing.T) {
	events := make(chan Event, 16)
	p := newProgress(events)

	p.start(1, 1)
	p.jobStarted(0, "a.png")
	p.jobFinished(Result{WorkerID: 0, Status: StatusSucceeded, Job: Job{RelPath: "a.png"}})
	close(events)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	want := []EventKind{EventRunStarted, EventJobStarted, EventJobFinished}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Kind != want[i] {
			t.Fatalf("event %d = %v, want %v", i, got[i].Kind, want[i])
		}
	}

	// Finished events carry absolute totals, not deltas.
	last := got[len(got)-1]
	if last.Total != 1 || last.Completed != 1 || last.Failed != 0 || last.Cancelled != 0 {
		t.Fatalf("finished event totals = %+v", last)
	}
}

func TestProgressEmitNeverBlocks(t *testing.T) {
	events := make(chan Event, 1)
	p := newProgress(events)

	// start fills the single slot; with nobody reading, every later
	// transition must shed its event and return immediately.
	p.start(3, 1)
	for i := 0; i < 3; i++ {
		p.jobStarted(0, "file")
		p.jobFinished(Result{WorkerID: 0, Status: StatusSucceeded})
	}

	snap := p.snapshot()
	if snap.Completed != 3 {
		t.Fatalf("completed = %d, want 3", snap.Completed)
	}
	if len(events) != 1 {
		t.Fatalf("sink holds %d events, want 1", len(events))
	}
	if ev := <-events; ev.Kind != EventRunStarted {
		t.Fatalf("buffered event kind = %v, want run started", ev.Kind)
	}
}

func TestWorkerReportingState(t *testing.T) {
	p := newProgress(nil)
	p.start(1, 1)
	p.jobStarted(0, "a.png")

	p.workerReporting(0)
	if got := p.snapshot().Workers[0].State; got != WorkerReporting {
		t.Fatalf("state = %v, want reporting", got)
	}

	p.jobFinished(Result{WorkerID: 0, Status: StatusSucceeded})
	if got := p.snapshot().Workers[0].State; got != WorkerFetching {
		t.Fatalf("state after report = %v, want fetching", got)
	}
}
