package cli

import (
	"context"
	"fmt"
	"io"

	hawtio "github.com/woq-blended/hawtio-integration"
	"github.com/woq-blended/hawtio-integration/internal/presentation/tui"
)

// WriteOutline renders the outline of routeID (all routes when empty) to w.
func WriteOutline(w io.Writer, ws *hawtio.Workspace, routeID string, plain bool) error {
	nodes, err := ws.Outline(routeID)
	if err != nil {
		return err
	}
	out, err := tui.RenderOutline(nodes, plain)
	if err != nil {
		return fmt.Errorf("render outline: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// RunWatch prints the outline of the route document and prints it again
// after every change to the file, until ctx is done.
func RunWatch(ctx context.Context, opts Options, out io.Writer) error {
	logger, err := NewLogger(opts)
	if err != nil {
		return err
	}
	plain := !IsTerminal(out)
	if !plain {
		tui.PrintBanner(out)
	}

	ws, done, err := OpenWorkspace(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer done()

	events, err := ws.Watch(ctx)
	if err != nil {
		return err
	}

	logger.Info("Starting Watcher", "path", opts.path())
	if err := WriteOutline(out, ws, "", plain); err != nil {
		return err
	}
	PrintSystemMessage(out, "Watching '%s' for changes...", opts.path())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher", "path", opts.path())
			PrintSystemMessage(out, "Stopped watching '%s'.", opts.path())
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			logger.Info("Change detected, routes reloaded", "path", opts.path())
			PrintSystemMessage(out, "Change detected in '%s'.", opts.path())
			if err := WriteOutline(out, ws, "", plain); err != nil {
				logger.Error("Outline failed", "err", err)
			}
		}
	}
}
