package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines. Results are drained as
// they arrive, so Submit never waits on an unread result.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	collected  chan []Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	started    bool
	jobsOnce   sync.Once
	resultOnce sync.Once
}

// NewPool creates a pool bound to ctx with the given number of workers
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		collected:  make(chan []Result, 1),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers and the result collector
func (p *Pool) Start() {
	p.started = true

	go func() {
		var out []Result
		for r := range p.results {
			out = append(out, r)
		}
		p.collected <- out
	}()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.results <- job.Execute(p.ctx)
		}
	}
}

// Submit queues a job. It fails once the pool's context is done.
func (p *Pool) Submit(job Job) error {
	// Wait and Shutdown cancel before closing the queue
	if err := p.ctx.Err(); err != nil {
		return err
	}

	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobQueue <- job:
		return nil
	}
}

// Wait closes the queue, waits for the workers and returns every result
// produced. Jobs still queued when the context is cancelled produce none.
func (p *Pool) Wait() []Result {
	p.closeJobs()
	p.wg.Wait()
	p.closeResults()
	p.cancelFunc()

	if !p.started {
		return nil
	}
	return <-p.collected
}

// Shutdown cancels outstanding work and discards pending results
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.closeJobs()
	p.wg.Wait()
	p.closeResults()

	if p.started {
		select {
		case <-p.collected:
		default:
		}
	}
}

// Workers returns the pool size
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) closeJobs() {
	p.jobsOnce.Do(func() {
		close(p.jobQueue)
	})
}

func (p *Pool) closeResults() {
	p.resultOnce.Do(func() {
		close(p.results)
	})
}
