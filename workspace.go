package hawtio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/cespare/xxhash/v2"
	"github.com/woq-blended/hawtio-integration/internal/logging"
	"github.com/woq-blended/hawtio-integration/pkg/diagram"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"github.com/woq-blended/hawtio-integration/pkg/observability"
	"github.com/woq-blended/hawtio-integration/pkg/ports"
	"github.com/woq-blended/hawtio-integration/pkg/route"
	"github.com/woq-blended/hawtio-integration/pkg/schema"
	"github.com/woq-blended/hawtio-integration/pkg/settings"
)

var (
	// ErrReadOnlySource is returned by Save when the source cannot write.
	ErrReadOnlySource = errors.New("route source is read-only")
	// ErrNotWatchable is returned by Watch when the source cannot signal changes.
	ErrNotWatchable = errors.New("route source cannot be watched")
	// ErrNotLoaded is returned when the workspace has no document yet.
	ErrNotLoaded = errors.New("workspace not loaded")
)

// Saver is implemented by sources that can persist an edited document.
type Saver interface {
	Save(ctx context.Context, doc *etree.Document) error
}

// RouteInfo summarizes one route of the document.
type RouteInfo struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	From  string `json:"from,omitempty"`
	Steps int    `json:"steps"`
}

// Workspace owns one route document and the views derived from it.
// It is safe for concurrent use.
type Workspace struct {
	source   ports.RouteSource
	catalog  *schema.Catalog
	settings settings.Settings
	cache    ports.DiagramCache
	metrics  *observability.Metrics
	logger   *slog.Logger
	name     string

	decoder   *route.Decoder
	encoder   *route.Encoder
	assembler *route.Assembler
	builder   *diagram.Builder

	mu       sync.RWMutex
	doc      *etree.Document
	records  *route.RecordCache
	writer   *route.TreeWriter
	outlines []*domain.RouteStepNode
	digest   uint64
}

// Option defines a functional option for configuring the Workspace.
type Option func(*Workspace)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// WithCatalog replaces the embedded default schema catalog.
func WithCatalog(c *schema.Catalog) Option {
	return func(w *Workspace) {
		w.catalog = c
	}
}

// WithSettings sets the view preferences used for labels and layout.
func WithSettings(s settings.Settings) Option {
	return func(w *Workspace) {
		w.settings = s
	}
}

// WithCache enables diagram caching.
func WithCache(c ports.DiagramCache) Option {
	return func(w *Workspace) {
		w.cache = c
	}
}

// WithMetrics records workspace activity on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(w *Workspace) {
		w.metrics = m
	}
}

// WithName sets the outline key prefix. It defaults to the id, or tag, of
// the document root.
func WithName(name string) Option {
	return func(w *Workspace) {
		w.name = name
	}
}

// New creates a workspace over source. Call Reload before using it.
func New(source ports.RouteSource, opts ...Option) *Workspace {
	w := &Workspace{
		source:   source,
		settings: settings.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.NewNop()
	}
	if w.catalog == nil {
		w.catalog = schema.Default()
	}

	w.decoder = route.NewDecoder(w.catalog, route.WithDecoderLogger(w.logger))
	w.encoder = route.NewEncoder(
		route.WithClassifier(w.decoder.Classifier()),
		route.WithEncoderLogger(w.logger),
	)
	w.assembler = route.NewAssembler(w.catalog, route.WithAssemblerLogger(w.logger))
	w.builder = diagram.NewBuilder(w.catalog,
		diagram.WithIcons(w.catalog),
		diagram.WithSettings(w.settings),
		diagram.WithLogger(w.logger),
	)
	return w
}

// Open creates a workspace and loads its document.
func Open(ctx context.Context, source ports.RouteSource, opts ...Option) (*Workspace, error) {
	w := New(source, opts...)
	if err := w.Reload(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Reload reads the document from the source again, discarding edits that
// were not saved.
func (w *Workspace) Reload(ctx context.Context) error {
	doc, err := w.source.Load(ctx)
	w.metrics.ObserveReload(err)
	if err != nil {
		return fmt.Errorf("failed to load routes: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.doc = doc
	w.records = route.NewRecordCache(w.decoder, w.encoder)
	w.writer = route.NewTreeWriter(w.records, w.encoder)
	w.refresh()

	logging.LogWith(ctx, w.logger).Debug("routes loaded", "routes", len(w.outlines), "digest", fmt.Sprintf("%016x", w.digest))
	return nil
}

// refresh rebuilds the outlines, tagging every step with its key, and the
// document digest. Callers hold the write lock.
func (w *Workspace) refresh() {
	w.outlines = w.assembler.Outlines(w.doc.Root(), w.rootKey())

	h := xxhash.New()
	if _, err := w.doc.WriteTo(h); err != nil {
		w.logger.Warn("failed to digest routes", "err", err)
	}
	w.digest = h.Sum64()
}

func (w *Workspace) rootKey() string {
	if w.name != "" {
		return route.SafeID(w.name)
	}
	root := w.doc.Root()
	return route.SafeID(root.SelectAttrValue("id", root.Tag))
}

func (w *Workspace) root() (*etree.Element, error) {
	if w.doc == nil || w.doc.Root() == nil {
		return nil, ErrNotLoaded
	}
	return w.doc.Root(), nil
}

// Settings returns the view preferences in use.
func (w *Workspace) Settings() settings.Settings {
	return w.settings
}

// Catalog returns the schema catalog in use.
func (w *Workspace) Catalog() *schema.Catalog {
	return w.catalog
}

// Routes lists the routes of the document in order.
func (w *Workspace) Routes() ([]RouteInfo, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, err := w.root(); err != nil {
		return nil, err
	}

	infos := make([]RouteInfo, 0, len(w.outlines))
	for _, o := range w.outlines {
		info := RouteInfo{
			ID:  o.Element.SelectAttrValue("id", ""),
			Key: o.Key,
		}
		if from := o.Element.SelectElement("from"); from != nil {
			info.From = route.NodeURI(from)
		}
		o.Walk(func(*domain.RouteStepNode) { info.Steps++ })
		info.Steps-- // the route itself
		infos = append(infos, info)
	}
	return infos, nil
}

// Outline returns the outline of the route with the given id, or of every
// route when routeID is empty.
func (w *Workspace) Outline(routeID string) ([]*domain.RouteStepNode, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, err := w.root(); err != nil {
		return nil, err
	}
	if routeID == "" {
		return w.outlines, nil
	}
	for _, o := range w.outlines {
		if o.Element.SelectAttrValue("id", "") == routeID {
			return []*domain.RouteStepNode{o}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrRouteNotFound, routeID)
}

// Diagram lays out the route with the given id, or every route when
// routeID is empty. Results are served from the cache when one is set.
func (w *Workspace) Diagram(ctx context.Context, routeID string) (*domain.Diagram, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	root, err := w.root()
	if err != nil {
		return nil, err
	}
	if len(w.outlines) == 0 {
		return nil, domain.ErrNoRoutes
	}
	if routeID != "" && route.FindRoute(root, routeID) == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRouteNotFound, routeID)
	}

	logger := logging.LogWith(logging.WithRouteID(ctx, routeID), w.logger)
	key := w.diagramKey(routeID)
	if w.cache != nil {
		d, err := w.cache.Get(ctx, key)
		if err == nil {
			w.metrics.ObserveCache(true)
			return d, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn("diagram cache read failed", "err", err)
		}
		w.metrics.ObserveCache(false)
	}

	start := time.Now()
	d := w.builder.Build(root, routeID)
	w.metrics.ObserveBuild(routeID, len(d.Nodes), time.Since(start))
	logger.Debug("diagram built", "nodes", len(d.Nodes), "links", len(d.Links))

	if w.cache != nil {
		if err := w.cache.Put(ctx, key, d); err != nil {
			logger.Warn("diagram cache write failed", "err", err)
		}
	}
	return d, nil
}

// diagramKey identifies a diagram by the document content, the route
// selection and the settings that change labels or layout.
func (w *Workspace) diagramKey(routeID string) string {
	s := w.settings
	return fmt.Sprintf("%016x:%s:%d:%t:%d", w.digest, routeID, s.MaximumLabelWidth, s.IgnoreIDForLabel, s.DiagramWidth)
}

// Highlight builds the diagram of routeID and marks the nodes matching target.
func (w *Workspace) Highlight(ctx context.Context, routeID, target string) (*domain.Diagram, []int, error) {
	d, err := w.Diagram(ctx, routeID)
	if err != nil {
		return nil, nil, err
	}
	return d, diagram.Highlight(d, target), nil
}

// Query returns the diagram nodes of routeID satisfying the expression where.
func (w *Workspace) Query(ctx context.Context, routeID, where string) ([]*domain.DiagramNode, error) {
	q, err := diagram.CompileQuery(where)
	if err != nil {
		return nil, err
	}
	d, err := w.Diagram(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return q.Filter(d)
}

// Decode returns a copy of the record of the step with the given outline key.
func (w *Workspace) Decode(key string) (*domain.Record, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	el, err := w.element(key)
	if err != nil {
		return nil, err
	}
	w.metrics.ObserveDecode()
	return w.records.Record(el).Clone(), nil
}

// Update writes rec onto the step with the given outline key and returns
// the resulting XML of that step.
func (w *Workspace) Update(ctx context.Context, key string, rec *domain.Record) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	el, err := w.element(key)
	if err != nil {
		return "", err
	}

	diff := domain.Diff(w.records.Record(el), rec)
	w.records.Update(el, rec, route.Indentation(el))
	w.metrics.ObserveEncode()
	w.refresh()
	logging.LogWith(ctx, w.logger).Debug("step updated", "key", key, "tag", el.Tag, "changed", diff.Keys())
	return elementXML(el)
}

// Changes reports what writing rec onto the step with the given outline key
// would change, without touching the document.
func (w *Workspace) Changes(key string, rec *domain.Record) (*domain.RecordDiff, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	el, err := w.element(key)
	if err != nil {
		return nil, err
	}
	return domain.Diff(w.records.Record(el), rec), nil
}

func (w *Workspace) element(key string) (*etree.Element, error) {
	root, err := w.root()
	if err != nil {
		return nil, err
	}
	el := route.FindByCID(root, key)
	if el == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStepNotFound, key)
	}
	return el, nil
}

// ElementXML returns the XML of the step with the given outline key.
func (w *Workspace) ElementXML(key string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	el, err := w.element(key)
	if err != nil {
		return "", err
	}
	return elementXML(el)
}

// RegenerateXML writes the outline subtree with the given key back to XML,
// using edited records where present.
func (w *Workspace) RegenerateXML(key string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, err := w.root(); err != nil {
		return "", err
	}
	var node *domain.RouteStepNode
	for _, o := range w.outlines {
		if node = o.Find(key); node != nil {
			break
		}
	}
	if node == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrStepNotFound, key)
	}
	return elementXML(w.writer.BuildXML(node, nil, ""))
}

// XML returns the whole document without internal bookkeeping attributes.
func (w *Workspace) XML() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, err := w.cleanDocument()
	if err != nil {
		return "", err
	}
	return doc.WriteToString()
}

func (w *Workspace) cleanDocument() (*etree.Document, error) {
	root, err := w.root()
	if err != nil {
		return nil, err
	}
	doc := w.doc.Copy()
	doc.SetRoot(route.StripInternal(root))
	return doc, nil
}

// Save writes the document back to the source.
func (w *Workspace) Save(ctx context.Context) error {
	saver, ok := w.source.(Saver)
	if !ok {
		return ErrReadOnlySource
	}
	w.mu.RLock()
	doc, err := w.cleanDocument()
	w.mu.RUnlock()
	if err != nil {
		return err
	}
	return saver.Save(ctx, doc)
}

// Watch reloads the workspace whenever the source changes. The returned
// channel carries one event per successful reload and is closed when ctx
// is done.
func (w *Workspace) Watch(ctx context.Context) (<-chan string, error) {
	watchable, ok := w.source.(ports.WatchableSource)
	if !ok {
		return nil, ErrNotWatchable
	}
	changes, err := watchable.Watch(ctx)
	if err != nil {
		return nil, err
	}

	events := make(chan string, 1)
	go func() {
		defer close(events)
		for range changes {
			if err := w.Reload(ctx); err != nil {
				w.logger.Warn("reload failed", "err", err)
				continue
			}
			select {
			case events <- "reload":
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// Messages parses trace or debug exchanges, truncating bodies to the
// configured maximum length.
func (w *Workspace) Messages(xml string) ([]domain.Message, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidXML, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidXML)
	}
	return route.ParseMessages(doc.Root(), w.settings.MaximumTraceOrDebugBodyLength), nil
}

func elementXML(el *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(route.StripInternal(el))
	out, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
