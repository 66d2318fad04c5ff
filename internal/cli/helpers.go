package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/woq-blended/hawtio-integration/internal/logging"
	"golang.org/x/term"
)

// SignalContext is a context cancelled by SIGINT or SIGTERM that remembers
// which signal arrived.
type SignalContext struct {
	context.Context
	Cancel func()

	once   sync.Once
	mu     sync.Mutex
	signal os.Signal
}

// NewSignalContext starts listening for shutdown signals until parent is done
// or Cancel is called.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx}
	sc.Cancel = func() { sc.once.Do(cancel) }

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.mu.Lock()
			sc.signal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.signal
}

// NewLogger configures the application logger on stderr. --debug wins
// over --log-level, which defaults to warn.
func NewLogger(opts Options) (*slog.Logger, error) {
	level := slog.LevelWarn
	if opts.LogLevel != "" {
		l, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return nil, err
		}
		level = l
	}
	if opts.Debug {
		level = slog.LevelDebug
	}

	switch opts.LogFormat {
	case "", "text":
		return logging.NewWithWriter(os.Stderr, level, false), nil
	case "json":
		return logging.NewWithWriter(os.Stderr, level, true), nil
	}
	return nil, fmt.Errorf("unknown log format %q", opts.LogFormat)
}

// PrintSystemMessage prints a standardized system message to w.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// IsTerminal reports whether w is an interactive terminal. Styled output
// is only written to terminals.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
