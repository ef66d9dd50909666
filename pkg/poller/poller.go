package poller

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Poller errors.
var (
	ErrAlreadyRunning = errors.New("poller already running")
	ErrNotRunning     = errors.New("poller not running")
)

// DefaultInterval is the refresh cadence when none is configured.
const DefaultInterval = 30 * time.Second

// Refresher is the engine surface the poller drives. *avr.Device
// satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Config configures a Poller.
type Config struct {
	// Interval between successful refreshes (default: DefaultInterval).
	Interval time.Duration

	// OnRefresh, if set, is called after every refresh attempt with
	// its outcome. Called from the polling goroutine.
	OnRefresh func(err error)
}

// Poller periodically refreshes a receiver's state.
type Poller struct {
	refresher Refresher
	interval  time.Duration
	onRefresh func(error)
	backoff   *Backoff

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// New creates a Poller for the given refresher.
func New(refresher Refresher, cfg Config) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		refresher: refresher,
		interval:  interval,
		onRefresh: cfg.OnRefresh,
		backoff:   NewBackoff(),
	}
}

// Start launches the polling loop. The first refresh happens
// immediately. Returns ErrAlreadyRunning if the loop is active.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})

	go p.loop(ctx, p.stopCh, p.done)
	return nil
}

// Stop halts the polling loop and waits for it to finish. Returns
// ErrNotRunning if the loop is not active.
func (p *Poller) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrNotRunning
	}
	p.running = false
	stopCh, done := p.stopCh, p.done
	p.mu.Unlock()

	close(stopCh)
	<-done
	return nil
}

// Running reports whether the polling loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) loop(ctx context.Context, stopCh, done chan struct{}) {
	defer close(done)

	for {
		err := p.refresher.Refresh(ctx)
		if p.onRefresh != nil {
			p.onRefresh(err)
		}

		var delay time.Duration
		if err != nil {
			delay = p.backoff.Next()
		} else {
			p.backoff.Reset()
			delay = p.interval
		}

		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-time.After(delay):
		}
	}
}
