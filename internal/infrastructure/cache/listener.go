package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"furnicost/pkg/logger"
)

// Channel is the NOTIFY channel the catalog triggers publish to. The payload
// is the table name.
const Channel = "catalog_changed"

// Invalidator is anything that can drop its cached state.
type Invalidator interface {
	Name() string
	Invalidate()
}

// InvalidationListener is called after a notification was dispatched.
type InvalidationListener func(table string)

// Listener LISTENs on Channel and invalidates the matching snapshots.
type Listener struct {
	pool *pgxpool.Pool

	mu      sync.RWMutex
	targets map[string][]Invalidator

	listenersMu sync.RWMutex
	listeners   []InvalidationListener

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewListener creates a listener. pool may be nil when only manual dispatch
// is needed.
func NewListener(pool *pgxpool.Pool, targets ...Invalidator) *Listener {
	l := &Listener{
		pool:    pool,
		targets: make(map[string][]Invalidator),
	}
	for _, t := range targets {
		l.Register(t)
	}
	return l
}

// Register adds a snapshot to invalidate when its table changes.
func (l *Listener) Register(t Invalidator) {
	l.mu.Lock()
	l.targets[t.Name()] = append(l.targets[t.Name()], t)
	l.mu.Unlock()
}

// OnInvalidation registers a callback for invalidation events.
func (l *Listener) OnInvalidation(fn InvalidationListener) {
	l.listenersMu.Lock()
	l.listeners = append(l.listeners, fn)
	l.listenersMu.Unlock()
}

// Start begins listening in the background.
func (l *Listener) Start(ctx context.Context) {
	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()
	if l.started || l.pool == nil {
		return
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.started = true

	l.wg.Add(1)
	go l.listenLoop()
	logger.Info(l.ctx, "catalog cache listener started", "channel", Channel)
}

// Stop stops the background listener and waits for it to exit.
func (l *Listener) Stop() {
	l.lifecycleMu.Lock()
	if !l.started {
		l.lifecycleMu.Unlock()
		return
	}
	cancel := l.cancel
	l.started = false
	l.cancel = nil
	l.lifecycleMu.Unlock()

	cancel()
	l.wg.Wait()
	logger.Info(context.Background(), "catalog cache listener stopped")
}

func (l *Listener) listenLoop() {
	defer l.wg.Done()

	for l.ctx.Err() == nil {
		conn, err := l.pool.Acquire(l.ctx)
		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			logger.Error(l.ctx, "failed to acquire connection for LISTEN", "error", err)
			l.sleep(time.Second)
			continue
		}

		if _, err := conn.Exec(l.ctx, "LISTEN "+Channel); err != nil {
			logger.Error(l.ctx, "failed to LISTEN", "channel", Channel, "error", err)
			conn.Release()
			l.sleep(time.Second)
			continue
		}

		// Anything cached before LISTEN took effect may already be stale.
		l.Dispatch("")
		l.waitForNotifications(conn)
		conn.Release()
	}
}

func (l *Listener) waitForNotifications(conn *pgxpool.Conn) {
	for {
		ctx, cancel := context.WithTimeout(l.ctx, 30*time.Second)
		n, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			if ctx.Err() != nil {
				continue
			}
			logger.Warn(l.ctx, "notification wait failed, reconnecting", "error", err)
			return
		}

		logger.Debug(l.ctx, "catalog change notification", "table", n.Payload)
		l.Dispatch(n.Payload)
	}
}

// Dispatch invalidates the snapshots of table. An empty table invalidates all.
func (l *Listener) Dispatch(table string) {
	table = strings.TrimSpace(table)

	l.mu.RLock()
	for name, targets := range l.targets {
		if table != "" && name != table {
			continue
		}
		for _, t := range targets {
			t.Invalidate()
		}
	}
	l.mu.RUnlock()

	l.listenersMu.RLock()
	defer l.listenersMu.RUnlock()
	for _, fn := range l.listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(context.Background(), "invalidation listener panic recovered", "table", table, "panic", r)
				}
			}()
			fn(table)
		}()
	}
}

func (l *Listener) sleep(d time.Duration) {
	select {
	case <-l.ctx.Done():
	case <-time.After(d):
	}
}
