package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	hawtio "github.com/woq-blended/hawtio-integration"
	"github.com/woq-blended/hawtio-integration/internal/adapters/file"
	"github.com/woq-blended/hawtio-integration/pkg/adapters/memory"
	"github.com/woq-blended/hawtio-integration/pkg/adapters/redis"
	"github.com/woq-blended/hawtio-integration/pkg/observability"
	"github.com/woq-blended/hawtio-integration/pkg/ports"
	"github.com/woq-blended/hawtio-integration/pkg/schema"
	"github.com/woq-blended/hawtio-integration/pkg/settings"
)

// DefaultFile is the route document used when --file is not given.
const DefaultFile = "camel.xml"

// Options contains the configuration shared by all commands.
type Options struct {
	File   string
	Schema string
	Set    []string
	Debug  bool

	// LogLevel is debug, info, warn or error; LogFormat is text or json.
	LogLevel  string
	LogFormat string

	// RedisAddr selects a Redis diagram cache; empty keeps diagrams in memory.
	RedisAddr string
	CacheTTL  time.Duration

	Metrics *observability.Metrics
}

func (o Options) path() string {
	if o.File == "" {
		return DefaultFile
	}
	return o.File
}

// ParseSettings turns key=value pairs into Settings. Later pairs win.
func ParseSettings(pairs []string) (settings.Settings, error) {
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return settings.Default(), fmt.Errorf("invalid setting %q, expected key=value", pair)
		}
		m[key] = strings.TrimSpace(value)
	}
	return settings.FromStrings(m)
}

// OpenWorkspace initializes a workspace with standard CLI conventions:
// the route document is a file, the schema catalog is the embedded one
// unless --schema names another, and diagrams are cached in memory unless
// a Redis address is configured. The returned func releases the cache.
func OpenWorkspace(ctx context.Context, opts Options, logger *slog.Logger) (*hawtio.Workspace, func() error, error) {
	path := opts.path()

	s, err := ParseSettings(opts.Set)
	if err != nil {
		return nil, nil, err
	}

	catalog := schema.Default()
	if opts.Schema != "" {
		catalog, err = schema.LoadFile(opts.Schema)
		if err != nil {
			return nil, nil, fmt.Errorf("error loading schema: %w", err)
		}
	}

	var (
		cache ports.DiagramCache = memory.NewCache()
		done                     = func() error { return nil }
	)
	if opts.RedisAddr != "" {
		rc := redis.New(opts.RedisAddr, "", 0, redis.WithTTL(opts.CacheTTL))
		cache, done = rc, rc.Close
		logger.Debug("Using redis diagram cache", "address", opts.RedisAddr, "ttl", opts.CacheTTL)
	}

	ws, err := hawtio.Open(ctx, file.New(path, file.WithLogger(logger)),
		hawtio.WithLogger(logger),
		hawtio.WithCatalog(catalog),
		hawtio.WithSettings(s),
		hawtio.WithCache(cache),
		hawtio.WithMetrics(opts.Metrics),
	)
	if err != nil {
		_ = done()
		return nil, nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	return ws, done, nil
}
