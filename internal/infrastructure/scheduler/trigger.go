package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PeriodicTrigger submits a task to the scheduler at a fixed interval
type PeriodicTrigger struct {
	name       string
	interval   time.Duration
	runOnStart bool
	task       TaskFunc
	scheduler  *Scheduler
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewPeriodicTrigger creates a trigger. With runOnStart the first run is
// submitted immediately instead of after one interval.
func NewPeriodicTrigger(name string, interval time.Duration, runOnStart bool, task TaskFunc, scheduler *Scheduler, logger *zap.Logger) *PeriodicTrigger {
	return &PeriodicTrigger{
		name:       name,
		interval:   interval,
		runOnStart: runOnStart,
		task:       task,
		scheduler:  scheduler,
		logger:     logger,
	}
}

// Start starts the trigger loop
func (p *PeriodicTrigger) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isRunning {
		return nil
	}
	if p.interval <= 0 {
		return ErrInvalidConfig
	}
	p.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.runLoop(ctx)

	p.logger.Info("Periodic trigger started",
		zap.String("job", p.name),
		zap.Duration("interval", p.interval),
	)
	return nil
}

// Stop stops the trigger loop
func (p *PeriodicTrigger) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.cancel()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Periodic trigger stopped", zap.String("job", p.name))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *PeriodicTrigger) runLoop(ctx context.Context) {
	defer p.wg.Done()

	if p.runOnStart {
		p.fire()
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fire()
		}
	}
}

func (p *PeriodicTrigger) fire() {
	if _, err := p.scheduler.Submit(p.name, p.task); err != nil {
		p.logger.Warn("Failed to submit periodic job",
			zap.String("job", p.name),
			zap.Error(err),
		)
	}
}
