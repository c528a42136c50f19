package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
)

// listener owns one *http.Server and the Start/Ready/Ping/Shutdown lifecycle
// shared by the API and metrics servers.
type listener struct {
	logger     *slog.Logger
	name       string
	port       string
	mu         sync.Mutex
	server     *http.Server
	addr       net.Addr
	ready      chan struct{}
	inShutdown atomic.Bool
}

func newListener(logger *slog.Logger, name, port string) *listener {
	return &listener{
		logger: logger,
		name:   name,
		port:   port,
		ready:  make(chan struct{}),
	}
}

// start binds the port synchronously so a taken port fails Start, then
// serves in a goroutine.
func (l *listener) start(ctx context.Context, handler http.Handler) error {
	if l.inShutdown.Load() {
		l.logger.InfoContext(ctx, l.name+" is shutting down, skipping start")

		return nil
	}

	addr := ":" + l.port

	lc := &net.ListenConfig{
		KeepAliveConfig: net.KeepAliveConfig{
			Enable: true,
		},
	}

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s tcp: %w", l.name, err)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	l.mu.Lock()
	l.server = server
	l.addr = ln.Addr()
	l.mu.Unlock()

	l.logger.InfoContext(ctx, l.name+" listening", "addr", ln.Addr().String())

	go func() {
		close(l.ready)

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.ErrorContext(ctx, l.name+" error", "reason", err)
		}
	}()

	return nil
}

// Addr returns the bound address, or nil before Start.
func (l *listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.addr
}

func (l *listener) Name() string {
	return l.name
}

func (l *listener) Ready() <-chan struct{} {
	return l.ready
}

func (l *listener) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ready:
		if l.inShutdown.Load() {
			return fmt.Errorf("%s is shutting down", l.name)
		}

		return nil
	default:
		return fmt.Errorf("%s is not ready", l.name)
	}
}

func (l *listener) Shutdown(ctx context.Context) error {
	if !l.inShutdown.CompareAndSwap(false, true) {
		l.logger.ErrorContext(ctx, l.name+" is already shutting down, skipping shutdown")

		return nil
	}

	l.logger.InfoContext(ctx, "shutting down "+l.name)

	l.mu.Lock()
	server := l.server
	l.mu.Unlock()

	if server == nil {
		return nil
	}

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", l.name, err)
	}

	l.logger.InfoContext(ctx, l.name+" closed properly")

	return nil
}
