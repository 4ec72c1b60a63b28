// Package queue runs background jobs outside the request path.
//
//	type OrderConfirmationJob struct{ OrderID uint }
//
//	func (OrderConfirmationJob) JobName() string { return "order.confirmation" }
//	func (j *OrderConfirmationJob) Handle(ctx context.Context) error { ... }
//
//	queue.Register("order.confirmation", func() queue.Job { return &OrderConfirmationJob{} })
//	queue.Dispatch(&OrderConfirmationJob{OrderID: 42})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/metrics"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	Handle(ctx context.Context) error
}

// Named lets a job choose its registry name. Otherwise the Go type name
// ("*jobs.OrderConfirmationJob") is used.
type Named interface {
	JobName() string
}

// FailedJob holds information about a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// DelayedDriver can hold a job until a point in time.
type DelayedDriver interface {
	PushDelayed(payload []byte, delay time.Duration) error
}

// Manager is the central queue hub.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	backoff  time.Duration
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	backoff:  time.Second,
	driver:   NewMemoryDriver(),
}

// drainer is a driver whose buffered jobs would be lost when the process
// exits. Workers empty it before they stop.
type drainer interface {
	TryPop() ([]byte, bool)
}

// SetDriver swaps the underlying queue driver (e.g. Redis) and returns the
// previous one.
func SetDriver(d Driver) Driver {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	prev := defaultManager.driver
	defaultManager.driver = d
	return prev
}

// SetMaxRetry sets how many attempts a job gets before it is failed.
func SetMaxRetry(n int) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.maxRetry = n
}

// SetBackoff sets the base delay between attempts. Attempt n waits n×d.
func SetBackoff(d time.Duration) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.backoff = d
}

// Register makes a job type available for deserialization by name.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func nameOf(job Job) string {
	if n, ok := job.(Named); ok {
		return n.JobName()
	}
	return fmt.Sprintf("%T", job)
}

func encode(job Job) ([]byte, string, error) {
	typeName := nameOf(job)

	payload, err := json.Marshal(job)
	if err != nil {
		return nil, typeName, fmt.Errorf("queue: marshal job %s: %w", typeName, err)
	}
	env, err := json.Marshal(envelope{Type: typeName, Payload: payload})
	if err != nil {
		return nil, typeName, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, typeName, nil
}

// Dispatch pushes job onto the queue immediately.
func Dispatch(job Job) error {
	env, _, err := encode(job)
	if err != nil {
		return err
	}

	defaultManager.mu.RLock()
	d := defaultManager.driver
	defaultManager.mu.RUnlock()

	return d.Push(env)
}

// DispatchAfter pushes job after delay. Drivers without delayed support
// fall back to a timer goroutine.
func DispatchAfter(job Job, delay time.Duration) error {
	env, typeName, err := encode(job)
	if err != nil {
		return err
	}

	defaultManager.mu.RLock()
	d := defaultManager.driver
	defaultManager.mu.RUnlock()

	if dd, ok := d.(DelayedDriver); ok {
		return dd.PushDelayed(env, delay)
	}

	time.AfterFunc(delay, func() {
		if err := d.Push(env); err != nil {
			logger.Error("queue: delayed dispatch failed", "type", typeName, "error", err)
		}
	})
	return nil
}

// StartWorkers launches n workers that process jobs until ctx is cancelled.
// On cancellation they first finish jobs still buffered in memory. The
// returned WaitGroup completes when every worker has exited.
func StartWorkers(ctx context.Context, n int) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defaultManager.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	return &wg
}

func (m *Manager) work(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			m.drain(context.WithoutCancel(ctx))
			return
		}

		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		m.process(ctx, raw)
	}
}

func (m *Manager) drain(ctx context.Context) {
	m.mu.RLock()
	d, ok := m.driver.(drainer)
	m.mu.RUnlock()
	if !ok {
		return
	}

	for {
		raw, ok := d.TryPop()
		if !ok {
			return
		}
		m.process(ctx, raw)
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(ctx, job, env)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, env envelope) {
	m.mu.RLock()
	maxRetry, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()
	if maxRetry < 1 {
		maxRetry = 1
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			logger.Debug("queue: job processed", "type", env.Type, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < maxRetry {
			sleep(ctx, time.Duration(attempt)*backoff)
		}
	}

	metrics.RecordQueueJob(env.Type, "failed", start)
	m.persistFailed(env, lastErr, maxRetry)
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// FailedJobs returns a snapshot of failures seen by this process.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}
