package worker

import (
	"context"
	"sync"

	"github.com/osse101/MarketCrafter_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context) error

// Process calls f.
func (f JobFunc) Process(ctx context.Context) error { return f(ctx) }

// Pool runs jobs on a fixed number of workers in FIFO order. The queue is
// unbounded so Enqueue never blocks; callers running inside an event loop
// can hand off work without risking a deadlock with the workers that feed
// that loop.
type Pool struct {
	name    string
	workers int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Job
	stopped bool

	wg sync.WaitGroup
}

// NewPool creates a new worker pool
func NewPool(name string, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{name: name, workers: workers}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start starts the workers. Jobs receive ctx.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// worker is the worker loop
func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		job, ok := p.next()
		if !ok {
			return
		}
		if err := job.Process(ctx); err != nil {
			// Log error but don't crash worker
			logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "pool", p.name, "error", err)
		}
	}
}

func (p *Pool) next() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.stopped {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}
	job := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return job, true
}

// Enqueue adds a job to the queue. It returns false once Stop has been called.
func (p *Pool) Enqueue(job Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		logger.Debug(LogMsgEnqueueRejected, "pool", p.name)
		return false
	}
	p.queue = append(p.queue, job)
	p.cond.Signal()
	return true
}

// Pending returns the number of queued jobs not yet picked up.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Stop rejects new jobs, lets the workers drain the queue and waits for them.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
	logger.Info(LogMsgPoolStopped, "pool", p.name)
}
