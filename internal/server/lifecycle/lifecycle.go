// Package lifecycle owns the running/stopped state of the HTTP listener.
// It guarantees at most one bound listener per process and exposes a
// cooperative, one-shot shutdown signal.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/benrowan/crusty-crawler/internal/common"
	"github.com/benrowan/crusty-crawler/internal/logging"
)

const shutdownGrace = 5 * time.Second

// Controller transitions Stopped → Running → Stopped. The mutex guards the
// state fields only; it is held across the synchronous bind (fast) but
// never across the serve loop or request handling.
//
// Invariant: cancel is non-nil iff running is true.
type Controller struct {
	mu      sync.Mutex
	running bool
	port    int
	cancel  context.CancelFunc
	gen     uint64 // distinguishes serve loops across restarts

	host    string
	handler http.Handler
	logger  logging.Logger

	// listen is a test seam over net.Listen.
	listen func(network, addr string) (net.Listener, error)
}

func NewController(host string, handler http.Handler, logger logging.Logger) *Controller {
	return &Controller{
		host:    host,
		handler: handler,
		logger:  logger.With("module", "lifecycle"),
		listen:  net.Listen,
	}
}

// Start binds the listener on host:port and launches the serve loop.
// Binding happens synchronously, so a port conflict is returned to the
// caller here rather than surfacing only in the logs. Returns
// common.ErrAlreadyRunning when a listener is already up; the existing
// listener is never replaced.
func (c *Controller) Start(port int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return common.ErrAlreadyRunning
	}

	ln, err := c.listen("tcp", net.JoinHostPort(c.host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("binding port %d: %w", port, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Handler: c.handler}

	c.running = true
	c.port = port
	c.cancel = cancel
	c.gen++
	gen := c.gen

	// Shutdown watcher: fires once the cancel func is consumed.
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownGrace)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		c.logger.Info(ctx, "server started", "addr", ln.Addr().String(), "port", port)

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error(ctx, "serve loop ended", "error", err)
		}
		cancel()

		c.mu.Lock()
		// Only reset state if no newer Start has taken over.
		if c.gen == gen {
			c.running = false
			c.cancel = nil
		}
		c.mu.Unlock()

		c.logger.Info(context.Background(), "server stopped", "port", port)
	}()

	return nil
}

// Stop consumes the shutdown signal and marks the controller stopped
// immediately; the serve loop drains cooperatively in the background.
// Returns common.ErrNotRunning when there is nothing to stop, leaving
// state untouched, so calling it twice is a reported no-op rather than a
// crash.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return common.ErrNotRunning
	}
	cancel := c.cancel
	c.running = false
	c.cancel = nil
	c.mu.Unlock()

	// One-shot: the func is gone from the state above; cancelling an
	// already-cancelled context is harmless.
	cancel()

	return nil
}

// Status reports the current state. The port survives a stop so the CLI
// can show and reuse the last configured value.
func (c *Controller) Status() (running bool, port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running, c.port
}
