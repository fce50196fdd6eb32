// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/YuQing-Ding/IPTV-Editor/internal/metrics"
)

// Kind distinguishes the two probe job types.
type Kind string

const (
	KindStream Kind = "stream"
	KindLogo   Kind = "logo"
)

// Completion is delivered for every finished probe, carrying the stable row
// key the caller enqueued with. Exactly one of Stream/Logo is set, matching
// Kind. Completions arrive in completion order, not submission order.
type Completion struct {
	Key    string
	Kind   Kind
	Stream Result
	Logo   LogoResult
}

// PoolConfig defines configuration for the probe Pool.
type PoolConfig struct {
	Workers       int
	QueueSize     int
	StreamTimeout time.Duration
	LogoTimeout   time.Duration
	// RPS throttles outbound checks; zero disables throttling.
	RPS float64
}

type job struct {
	kind Kind
	key  string
	url  string
}

// Pool executes probe checks concurrently on a bounded set of workers.
// Checks with the same (kind, key, url) are deduplicated while one is
// outstanding.
type Pool struct {
	checker *Checker
	cfg     PoolConfig
	deliver func(Completion)

	jobs    chan job
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc

	wg       sync.WaitGroup
	once     sync.Once
	stopOnce sync.Once

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

// NewPool creates a probe pool delivering completions through the supplied
// callback. The callback runs on worker goroutines and must be fast and
// panic-free.
func NewPool(checker *Checker, cfg PoolConfig, deliver func(Completion)) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 512
	}
	if cfg.StreamTimeout <= 0 {
		cfg.StreamTimeout = DefaultStreamTimeout
	}
	if cfg.LogoTimeout <= 0 {
		cfg.LogoTimeout = DefaultLogoTimeout
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	limiter := rate.NewLimiter(limit, cfg.Workers)

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		checker:  checker,
		cfg:      cfg,
		deliver:  deliver,
		jobs:     make(chan job, cfg.QueueSize),
		limiter:  limiter,
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]struct{}),
	}
}

// SetRPS adjusts the outbound check rate on a running pool; zero or
// negative disables throttling. In-flight limiter waits pick up the new
// limit immediately.
func (p *Pool) SetRPS(rps float64) {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	p.limiter.SetLimit(limit)
}

// Start launches the worker goroutines. Safe to call more than once.
func (p *Pool) Start() {
	p.once.Do(func() {
		for i := 0; i < p.cfg.Workers; i++ {
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				for {
					select {
					case <-p.ctx.Done():
						return
					case j := <-p.jobs:
						p.handle(p.ctx, j)
					}
				}
			}()
		}
	})
}

// Stop cancels in-flight checks and waits for the workers to exit.
// Queued jobs are abandoned. The jobs channel is never closed so a late
// enqueue, e.g. from a debounce timer firing during shutdown, is dropped
// instead of panicking.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}

// EnqueueStream queues a stream liveness check for the row identified by
// key. Returns false if the job was dropped (queue full or ctx done);
// a duplicate of an outstanding check counts as handled.
func (p *Pool) EnqueueStream(ctx context.Context, key, url string) bool {
	return p.enqueue(ctx, job{kind: KindStream, key: key, url: url})
}

// EnqueueLogo queues a logo reachability check for the row identified by key.
func (p *Pool) EnqueueLogo(ctx context.Context, key, url string) bool {
	return p.enqueue(ctx, job{kind: KindLogo, key: key, url: url})
}

func (p *Pool) enqueue(ctx context.Context, j job) bool {
	if j.key == "" {
		return false
	}

	dedupKey := string(j.kind) + "|" + j.key + "|" + j.url
	p.inflightMu.Lock()
	if _, ok := p.inflight[dedupKey]; ok {
		p.inflightMu.Unlock()
		metrics.IncProbeQueue("dedup")
		return true
	}
	p.inflight[dedupKey] = struct{}{}
	p.inflightMu.Unlock()

	if p.ctx.Err() != nil {
		p.clearInflight(dedupKey)
		return false
	}
	select {
	case <-ctx.Done():
		p.clearInflight(dedupKey)
		return false
	case p.jobs <- j:
		metrics.IncProbeQueue("accepted")
		return true
	default:
		p.clearInflight(dedupKey)
		metrics.IncProbeQueue("dropped")
		return false
	}
}

func (p *Pool) handle(ctx context.Context, j job) {
	defer p.clearInflight(string(j.kind) + "|" + j.key + "|" + j.url)

	if err := p.limiter.Wait(ctx); err != nil {
		return
	}
	if ctx.Err() != nil {
		return
	}

	c := Completion{Key: j.key, Kind: j.kind}
	switch j.kind {
	case KindStream:
		c.Stream = p.checker.CheckStream(ctx, j.url, p.cfg.StreamTimeout)
	case KindLogo:
		c.Logo = p.checker.CheckLogo(ctx, j.url, p.cfg.LogoTimeout)
	}
	if p.deliver != nil {
		p.deliver(c)
	}
}

func (p *Pool) clearInflight(dedupKey string) {
	p.inflightMu.Lock()
	delete(p.inflight, dedupKey)
	p.inflightMu.Unlock()
}
