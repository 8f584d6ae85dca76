package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrPoolStopped is returned for tasks submitted to, or still queued in, a stopped pool.
	ErrPoolStopped = errors.New("worker pool stopped")
	// ErrWorkerCrashed is returned once a task has crashed its worker maxAttempts times.
	ErrWorkerCrashed = errors.New("worker crashed")
)

const defaultMaxAttempts = 3

// Handler executes a single task inside a worker.
type Handler[T, R any] func(ctx context.Context, task T) (R, error)

// RestartObserver is notified every time a crashed worker is replaced.
type RestartObserver interface {
	ObserveRestart()
}

// Identified is implemented by tasks that carry an id worth logging.
type Identified interface {
	TaskID() string
}

type result[R any] struct {
	value R
	err   error
}

type job[T, R any] struct {
	task     T
	attempts int
	done     chan result[R]
}

// Pool is a fixed set of long-lived workers serving tasks in FIFO order.
// A worker that panics is replaced and its task is put back at the head of the queue.
type Pool[T, R any] struct {
	logger      *zap.Logger
	handler     Handler[T, R]
	size        int
	maxAttempts int
	observer    RestartObserver

	queue chan *job[T, R]
	retry chan *job[T, R]

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
	cancel   context.CancelFunc
}

// NewPool constructs a Pool with size workers. maxAttempts <= 0 selects the default.
func NewPool[T, R any](logger *zap.Logger, size, maxAttempts int, handler Handler[T, R], observer RestartObserver) *Pool[T, R] {
	if size <= 0 {
		size = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Pool[T, R]{
		logger:      logger,
		handler:     handler,
		size:        size,
		maxAttempts: maxAttempts,
		observer:    observer,
		queue:       make(chan *job[T, R]),
		retry:       make(chan *job[T, R], size),
		stopped:     make(chan struct{}),
	}
}

// Start launches the workers. They run until Stop is called or ctx is canceled.
func (p *Pool[T, R]) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		p.stopOnce.Do(func() { close(p.stopped) })
	}()
}

// Stop cancels the workers and waits for them to exit.
func (p *Pool[T, R]) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.stopOnce.Do(func() { close(p.stopped) })
	p.wg.Wait()
}

// Do queues task and blocks until a worker finishes it, ctx is canceled or the pool stops.
func (p *Pool[T, R]) Do(ctx context.Context, task T) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	j := &job[T, R]{task: task, done: make(chan result[R], 1)}

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-p.stopped:
		return zero, ErrPoolStopped
	case p.queue <- j:
	}

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-p.stopped:
		return zero, ErrPoolStopped
	case res := <-j.done:
		return res.value, res.err
	}
}

func (p *Pool[T, R]) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		j, ok := p.next(ctx)
		if !ok {
			return
		}
		if crashed := p.run(ctx, id, j); crashed {
			p.replace(ctx, id, j)
			return
		}
	}
}

// next prefers requeued jobs over fresh ones.
func (p *Pool[T, R]) next(ctx context.Context) (*job[T, R], bool) {
	select {
	case j := <-p.retry:
		return j, true
	default:
	}
	select {
	case <-ctx.Done():
		return nil, false
	case j := <-p.retry:
		return j, true
	case j := <-p.queue:
		return j, true
	}
}

func (p *Pool[T, R]) run(ctx context.Context, id int, j *job[T, R]) (crashed bool) {
	defer func() {
		if r := recover(); r != nil {
			crashed = true
			fields := []zap.Field{zap.Int("worker", id), zap.Int("attempt", j.attempts), zap.Any("panic", r)}
			if ident, ok := any(j.task).(Identified); ok {
				fields = append(fields, zap.String("task", ident.TaskID()))
			}
			p.logger.Error("worker crashed", fields...)
		}
	}()

	j.attempts++
	value, err := p.handler(ctx, j.task)
	j.done <- result[R]{value: value, err: err}
	return false
}

func (p *Pool[T, R]) replace(ctx context.Context, id int, j *job[T, R]) {
	if p.observer != nil {
		p.observer.ObserveRestart()
	}
	if j.attempts >= p.maxAttempts {
		j.done <- result[R]{err: fmt.Errorf("%w after %d attempts", ErrWorkerCrashed, j.attempts)}
	} else {
		p.retry <- j
	}

	if ctx.Err() != nil {
		return
	}
	p.logger.Warn("restarting worker", zap.Int("worker", id))
	p.wg.Add(1)
	go p.worker(ctx, id)
}
