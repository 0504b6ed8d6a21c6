package worker

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout bounds a single task when the pool is created with a
// non-positive timeout.
const DefaultTimeout = 10 * time.Second

type Pool struct {
	tasks   chan Task
	quit    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	timeout time.Duration
}

type Task struct {
	Ctx  context.Context
	Work func(ctx context.Context) error
}

// NewPool starts maxWorkers goroutines that drain a queue of queueSize
// pending tasks. Each task runs with a deadline of taskTimeout.
func NewPool(maxWorkers, queueSize int, taskTimeout time.Duration) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if queueSize < 1 {
		queueSize = 100
	}
	if taskTimeout <= 0 {
		taskTimeout = DefaultTimeout
	}
	p := &Pool{
		tasks:   make(chan Task, queueSize),
		quit:    make(chan struct{}),
		timeout: taskTimeout,
	}

	p.wg.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case task := <-p.tasks:
			p.run(task)
		}
	}
}

func (p *Pool) run(task Task) {
	parent := task.Ctx
	if parent == nil {
		parent = context.Background()
	}
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()
	_ = task.Work(ctx)
}

// Submit queues task without blocking. It reports false when the queue is
// full or the pool has been shut down; the caller may retry later.
func (p *Pool) Submit(task Task) bool {
	select {
	case <-p.quit:
		return false
	default:
	}
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// Shutdown stops the workers and waits for running tasks to return.
// Queued tasks that have not started are dropped.
func (p *Pool) Shutdown() {
	p.once.Do(func() { close(p.quit) })
	p.wg.Wait()
}
