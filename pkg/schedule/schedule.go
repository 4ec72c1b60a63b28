// Package schedule runs recurring background tasks.
//
//	s := schedule.New()
//	s.Every(5).Minutes().Name("catalog:warm").Run(warmCatalog)
//	s.Cron("5 0 * * *").Name("sales:summary").Run(logSales)
//	s.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/logger"
)

// Task is a scheduled unit of work. ctx ends with the scheduler.
type Task func(ctx context.Context) error

type entry struct {
	id        string
	interval  time.Duration
	cronExpr  string
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Scheduler holds registered entries and dispatches them once a second.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
}

func New() *Scheduler { return &Scheduler{} }

// Builder configures one entry before Run registers it.
type Builder struct {
	s *Scheduler
	e *entry
}

type freqBuilder struct {
	s *Scheduler
	n int
}

// Every starts a fluent builder with n units.
func (s *Scheduler) Every(n int) *freqBuilder { return &freqBuilder{s: s, n: n} }

func (s *Scheduler) EveryMinute() *Builder { return s.Every(1).Minutes() }
func (s *Scheduler) Hourly() *Builder      { return s.Every(1).Hours() }
func (s *Scheduler) Daily() *Builder       { return s.Every(24).Hours() }

// Cron schedules with a 5-field expression (min hour dom mon dow). Each
// field is *, a number, */step, a-b or a comma list of those.
func (s *Scheduler) Cron(expr string) *Builder {
	return &Builder{s: s, e: &entry{cronExpr: expr}}
}

func (f *freqBuilder) every(unit time.Duration) *Builder {
	return &Builder{s: f.s, e: &entry{interval: time.Duration(f.n) * unit}}
}

func (f *freqBuilder) Seconds() *Builder { return f.every(time.Second) }
func (f *freqBuilder) Minutes() *Builder { return f.every(time.Minute) }
func (f *freqBuilder) Hours() *Builder   { return f.every(time.Hour) }

// WithoutOverlapping skips a run while the previous one is still going.
func (b *Builder) WithoutOverlapping() *Builder {
	b.e.noOverlap = true
	return b
}

// Name sets the id used in logs and List.
func (b *Builder) Name(id string) *Builder {
	b.e.id = id
	return b
}

// Run registers the task.
func (b *Builder) Run(task Task) {
	b.e.task = task
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.e.id == "" {
		b.e.id = fmt.Sprintf("task-%d", len(b.s.entries)+1)
	}
	b.s.entries = append(b.s.entries, b.e)
}

// Start dispatches due tasks every second until ctx is cancelled. Call
// Wait afterwards to let running tasks finish.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		logger.Info("schedule: scheduler started", "tasks", len(s.List()))
		for {
			select {
			case <-ctx.Done():
				logger.Info("schedule: scheduler stopped")
				return
			case now := <-ticker.C:
				s.RunDue(ctx, now)
			}
		}
	}()
}

// Wait blocks until every dispatched task has returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

// RunDue dispatches every entry due at now.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) {
	s.mu.Lock()
	current := append([]*entry(nil), s.entries...)
	s.mu.Unlock()

	for _, e := range current {
		if e.due(now) {
			s.dispatch(ctx, e, now)
		}
	}
}

// RunNamed runs one task synchronously, for the CLI.
func (s *Scheduler) RunNamed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.id == id {
			return e.task(ctx)
		}
	}
	return fmt.Errorf("schedule: no task named %q", id)
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cronExpr != "" {
		// Once per matching minute.
		if !e.lastRun.IsZero() && e.lastRun.Truncate(time.Minute).Equal(now.Truncate(time.Minute)) {
			return false
		}
		return matchCron(e.cronExpr, now)
	}
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", fmt.Sprint(r))
			}
		}()

		start := time.Now()
		if err := e.task(ctx); err != nil {
			logger.Error("schedule: task failed", "id", e.id, "error", err)
			return
		}
		logger.Debug("schedule: task done", "id", e.id, "duration", time.Since(start).String())
	}()
}

func matchCron(expr string, t time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	values := []int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range fields {
		if !matchField(f, values[i]) {
			return false
		}
	}
	return true
}

func matchField(field string, val int) bool {
	for _, part := range strings.Split(field, ",") {
		if matchPart(part, val) {
			return true
		}
	}
	return false
}

func matchPart(part string, val int) bool {
	if part == "*" {
		return true
	}
	if step, ok := strings.CutPrefix(part, "*/"); ok {
		n, err := strconv.Atoi(step)
		return err == nil && n > 0 && val%n == 0
	}
	if lo, hi, ok := strings.Cut(part, "-"); ok {
		l, err1 := strconv.Atoi(lo)
		h, err2 := strconv.Atoi(hi)
		return err1 == nil && err2 == nil && val >= l && val <= h
	}
	n, err := strconv.Atoi(part)
	return err == nil && n == val
}

// List describes every registered entry, for the CLI.
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		freq := e.cronExpr
		if freq == "" {
			freq = "every " + e.interval.String()
		}
		out = append(out, fmt.Sprintf("%s  [%s]", e.id, freq))
	}
	return out
}
