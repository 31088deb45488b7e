package main

import (
	"log"
	"sync"
	"time"
)

const (
	runBufferSize  = 1024
	runFlushEvery  = 2 * time.Second
	runFlushHighWM = 64
)

// RunRecorder batches finished runs and writes them to SQLite on a
// background goroutine, so the simulation thread never waits on disk.
type RunRecorder struct {
	db     *DB
	events chan RunRow
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewRunRecorder creates and starts the background writer
func NewRunRecorder(db *DB) *RunRecorder {
	r := &RunRecorder{
		db:     db,
		events: make(chan RunRow, runBufferSize),
		stop:   make(chan struct{}),
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Record enqueues a finished run without blocking. Overflow is dropped;
// run history is best-effort.
func (r *RunRecorder) Record(row RunRow) {
	select {
	case r.events <- row:
	default:
		log.Printf("run recorder buffer full, dropping run for %s", row.PlayerID)
	}
}

// Close flushes pending rows and stops the writer
func (r *RunRecorder) Close() {
	close(r.stop)
	r.wg.Wait()
}

func (r *RunRecorder) writer() {
	defer r.wg.Done()

	ticker := time.NewTicker(runFlushEvery)
	defer ticker.Stop()

	batch := make([]RunRow, 0, runFlushHighWM)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.db.InsertRuns(batch); err != nil {
			log.Printf("run batch insert: %v", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case row := <-r.events:
			batch = append(batch, row)
			if len(batch) >= runFlushHighWM {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-r.stop:
			// Drain whatever is queued, then final flush
			for {
				select {
				case row := <-r.events:
					batch = append(batch, row)
				default:
					flush()
					return
				}
			}
		}
	}
}
