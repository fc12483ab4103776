package worker

import (
    "context"
    "sync"
    "time"

    "go.uber.org/zap"
)

// Poller runs fn once on Start and then once per interval until stopped.
// A failed run is only logged: the next tick is the retry.
type Poller struct {
    name     string
    interval time.Duration
    fn       func(ctx context.Context) error
    logger   *zap.Logger
    wg       sync.WaitGroup
    stop     chan struct{}
    once     sync.Once
}

func NewPoller(name string, interval time.Duration, fn func(ctx context.Context) error, logger *zap.Logger) *Poller {
    return &Poller{
        name:     name,
        interval: interval,
        fn:       fn,
        logger:   logger,
        stop:     make(chan struct{}),
    }
}

func (p *Poller) Start(ctx context.Context) {
    p.logger.Info("Starting poller", zap.String("poller", p.name), zap.Duration("interval", p.interval))

    p.wg.Add(1)
    go p.loop(ctx)
}

// Stop is safe to call more than once.
func (p *Poller) Stop() {
    p.once.Do(func() {
        close(p.stop)
        p.wg.Wait()
        p.logger.Info("Poller stopped", zap.String("poller", p.name))
    })
}

func (p *Poller) loop(ctx context.Context) {
    defer p.wg.Done()

    p.run(ctx)

    ticker := time.NewTicker(p.interval)
    defer ticker.Stop()

    for {
        select {
        case <-p.stop:
            return
        case <-ctx.Done():
            return
        case <-ticker.C:
            p.run(ctx)
        }
    }
}

func (p *Poller) run(ctx context.Context) {
    start := time.Now()
    if err := p.fn(ctx); err != nil {
        p.logger.Warn("poll failed", zap.String("poller", p.name), zap.Error(err))
        return
    }
    p.logger.Debug("poll done", zap.String("poller", p.name), zap.Duration("took", time.Since(start)))
}
