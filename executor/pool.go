package executor

import (
	"sync"

	"github.com/hupe1980/usecasemesh/logging"
)

// PoolConfig holds configuration options for the worker pool.
type PoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start.
	// If zero or negative, defaults to 1.
	WorkerCount int

	// QueueSize is the buffer of the pending function queue. Go blocks while
	// the queue is full.
	QueueSize int
}

// DefaultPoolConfig returns a PoolConfig with reasonable defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		WorkerCount: 4,
		QueueSize:   64,
	}
}

// Pool is a bounded work executor: a fixed number of worker goroutines pull
// functions from a shared queue.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	logger logging.Logger
}

// NewPool creates and starts a worker pool with the specified configuration.
func NewPool(config PoolConfig, logger logging.Logger) *Pool {
	logger = logging.Component(logger, "executor")

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	queueSize := config.QueueSize
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{
		tasks:  make(chan func(), queueSize),
		logger: logger,
	}

	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

// Go submits fn to the pool. After Close, fn runs on its own goroutine so
// that no run is ever lost.
func (p *Pool) Go(fn func()) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		p.logger.Warn("worker pool closed, running function on a new goroutine")
		go safeCall("pool", p.logger, fn)
		return
	}
	p.tasks <- fn
	p.mu.RUnlock()
}

// Close stops accepting functions and waits for the workers to finish the
// queued ones.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)

	for fn := range p.tasks {
		safeCall("pool", p.logger, fn)
	}

	p.logger.Debug("task channel closed, stopping worker", "worker_id", id)
}
