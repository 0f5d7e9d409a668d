// Package engine binds a sequence of boxes to one list surface.
//
// An Engine is owned by the caller and bound to exactly one surface for its
// lifetime. It retains the current box, stages intermediate trees while a
// script is being replayed, answers the surface's data source queries and
// memoizes item sizes by identity.
//
// An Engine is confined to the goroutine that owns the surface. Render calls
// made while a render is in progress (from a surface callback or a commit
// listener) are coalesced: only the latest box is applied once the current
// render finishes.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/diff"
	"github.com/vango-dev/bento/pkg/patch"
	"github.com/vango-dev/bento/pkg/sizecache"
	"github.com/vango-dev/bento/pkg/surface"
	"github.com/vango-dev/bento/pkg/telemetry"
)

// Commit describes a finished render.
type Commit[S, R comparable] struct {
	Generation uint64
	Script     *diff.Script[S, R]
	Result     patch.Result
	Duration   time.Duration

	// Err is the error the surface rejected the script with.
	Err error

	// Reloaded is set when the surface rejected the script and was rebuilt
	// from the new box instead.
	Reloaded bool
}

// Engine reconciles boxes into a surface.
type Engine[S, R comparable] struct {
	surface surface.Surface
	source  *surface.BoxSource[S, R]
	applier *patch.Applier[S, R]
	cache   *sizecache.Cache[itemKey[S, R]]
	index   *index[S, R]

	current    box.Box[S, R]
	generation uint64

	rendering bool
	pending   *box.Box[S, R]
	// superseded counts pending boxes replaced before they were rendered.
	superseded int

	width   float64
	margins box.Insets

	targets       map[itemKey[S, R]]*registration
	skipPopulated bool

	listeners map[uint64]func(Commit[S, R])
	nextID    uint64

	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
	closed  bool
}

// Option configures an Engine.
type Option[S, R comparable] func(*Engine[S, R])

// WithLogger sets the logger.
func WithLogger[S, R comparable](logger *slog.Logger) Option[S, R] {
	return func(e *Engine[S, R]) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics collector. The size cache reports to it too.
func WithMetrics[S, R comparable](m *telemetry.Metrics) Option[S, R] {
	return func(e *Engine[S, R]) {
		e.metrics = m
	}
}

// WithTracer sets the tracer used for render spans.
func WithTracer[S, R comparable](t trace.Tracer) Option[S, R] {
	return func(e *Engine[S, R]) {
		e.tracer = t
	}
}

// WithFocusSkippingPopulated makes focus navigation pass over items that
// already hold a value.
func WithFocusSkippingPopulated[S, R comparable]() Option[S, R] {
	return func(e *Engine[S, R]) {
		e.skipPopulated = true
	}
}

// dataSourceSetter is implemented by surfaces that accept their data source
// after construction, such as surface.Memory.
type dataSourceSetter interface {
	SetDataSource(surface.DataSource)
}

// reloader is implemented by surfaces that can rebuild from their data
// source, discarding all cell state.
type reloader interface {
	ReloadData()
}

// New creates an engine bound to s. If s accepts a data source, the engine
// installs itself. The initial box is empty.
func New[S, R comparable](s surface.Surface, opts ...Option[S, R]) *Engine[S, R] {
	e := &Engine[S, R]{
		surface:   s,
		source:    surface.NewBoxSource(box.Box[S, R]{}),
		targets:   make(map[itemKey[S, R]]*registration),
		listeners: make(map[uint64]func(Commit[S, R])),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = telemetry.Tracer()
	}

	e.index = newIndex[S, R]()
	e.cache = sizecache.New[itemKey[S, R]](e.resolve)
	if e.metrics != nil {
		e.cache.SetObserver(e.metrics)
	}
	e.applier = patch.New[S, R](s, e.stage,
		patch.WithInvalidator[S, R](e),
		patch.WithLogger[S, R](e.logger),
	)

	if ds, ok := s.(dataSourceSetter); ok {
		ds.SetDataSource(e)
	}
	return e
}

// Render reconciles the surface with next.
//
// next must have unique identifiers in every sibling scope; Render panics
// otherwise. A Render call made while another is in progress records next
// and returns nil; the outer call applies the most recent recorded box after
// its own, even when its own script was rejected, and the intermediate ones
// are never applied. ctx is checked before work starts; an apply in progress
// is never interrupted.
func (e *Engine[S, R]) Render(ctx context.Context, next box.Box[S, R]) error {
	if e.closed {
		return errors.New("E305")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	next.MustValidate()

	if e.rendering {
		if e.pending != nil {
			e.superseded++
			e.metrics.RecordCoalesced()
			e.logger.Debug("render superseded", "generation", e.generation)
		}
		e.pending = &next
		return nil
	}

	e.rendering = true
	defer func() {
		e.rendering = false
		e.pending = nil
		e.superseded = 0
	}()

	// A pending box is rendered even after a rejected script. The first
	// error is returned.
	var first error
	for {
		if err := e.render(ctx, next); err != nil && first == nil {
			first = err
		}
		if e.pending == nil || e.closed {
			return first
		}
		next = *e.pending
		e.pending = nil
	}
}

func (e *Engine[S, R]) render(ctx context.Context, next box.Box[S, R]) (err error) {
	start := time.Now()
	_, span := telemetry.StartSpan(ctx, e.tracer, "render",
		telemetry.AttrSections.Int(len(next.Sections)),
		telemetry.AttrRows.Int(next.RowCount()),
		telemetry.AttrCoalesced.Int(e.superseded),
	)
	e.superseded = 0
	defer func() {
		e.metrics.RecordRender(time.Since(start), err)
		telemetry.EndSpan(span, err)
	}()

	prev := e.current
	script := diff.Compute(prev, next)

	res, applyErr := e.applier.Apply(script)
	commit := Commit[S, R]{Script: script, Result: res}
	if applyErr != nil {
		e.logger.Error("surface rejected script", "error", applyErr, "generation", e.generation+1)
		e.stage(next)
		e.cache.InvalidateAll()
		if r, ok := e.surface.(reloader); ok {
			r.ReloadData()
			commit.Reloaded = true
		}
		err = fmt.Errorf("apply generation %d: %w", e.generation+1, applyErr)
		commit.Err = applyErr
	}

	e.current = next
	e.generation++
	commit.Generation = e.generation
	commit.Duration = time.Since(start)

	span.SetAttributes(
		telemetry.AttrGeneration.Int64(int64(e.generation)),
		telemetry.AttrOps.Int(script.Len()),
		telemetry.AttrPasses.Int(res.SectionPasses+res.RowPasses),
	)
	e.record(script, res)
	e.logger.Debug("render committed",
		"generation", e.generation,
		"ops", script.Len(),
		"section_passes", res.SectionPasses,
		"row_passes", res.RowPasses,
		"reconfigured", res.Reconfigured,
		"duration", commit.Duration,
	)

	e.notifyNeighbors(prev, next)
	for _, id := range sortedIDs(e.listeners) {
		if fn, ok := e.listeners[id]; ok {
			fn(commit)
		}
	}
	return err
}

func (e *Engine[S, R]) record(script *diff.Script[S, R], res patch.Result) {
	if e.metrics == nil {
		return
	}
	for _, level := range []diff.Level{diff.LevelSection, diff.LevelRow} {
		for _, kind := range []diff.Kind{diff.OpDelete, diff.OpInsert, diff.OpMove, diff.OpUpdate} {
			e.metrics.RecordOps(level.String(), kind.String(), script.Count(kind, level))
		}
	}
	e.metrics.RecordBatches(diff.LevelSection.String(), res.SectionPasses)
	e.metrics.RecordBatches(diff.LevelRow.String(), res.RowPasses)
	e.metrics.SetShape(len(e.current.Sections), e.current.RowCount())
}

// stage publishes the tree the surface must reflect.
func (e *Engine[S, R]) stage(b box.Box[S, R]) {
	e.source.Stage(b)
	e.index.reset(b)
}

// Current returns the last committed box.
func (e *Engine[S, R]) Current() box.Box[S, R] {
	return e.current
}

// Generation returns the number of committed renders.
func (e *Engine[S, R]) Generation() uint64 {
	return e.generation
}

// OnCommit registers fn to run after every render. The returned function
// removes the registration.
func (e *Engine[S, R]) OnCommit(fn func(Commit[S, R])) (cancel func()) {
	e.nextID++
	id := e.nextID
	e.listeners[id] = fn
	return func() {
		delete(e.listeners, id)
	}
}

// Close releases listeners, focus targets and cached sizes. Render fails
// with E305 afterwards.
func (e *Engine[S, R]) Close() {
	if e.closed {
		return
	}
	e.closed = true
	clear(e.listeners)
	clear(e.targets)
	e.cache.InvalidateAll()
	e.logger.Debug("engine closed", "generation", e.generation)
}

// NumberOfSections implements surface.DataSource.
func (e *Engine[S, R]) NumberOfSections() int {
	return e.source.NumberOfSections()
}

// NumberOfRows implements surface.DataSource.
func (e *Engine[S, R]) NumberOfRows(section int) int {
	return e.source.NumberOfRows(section)
}

// RowContent implements surface.DataSource.
func (e *Engine[S, R]) RowContent(section, row int) (any, box.Component) {
	return e.source.RowContent(section, row)
}

// SectionContent implements surface.DataSource.
func (e *Engine[S, R]) SectionContent(section int) (any, box.Component, box.Component) {
	return e.source.SectionContent(section)
}

// Staged returns the tree the surface currently reflects. It differs from
// Current only while a render is in progress.
func (e *Engine[S, R]) Staged() box.Box[S, R] {
	return e.source.Box()
}

var _ surface.DataSource = (*Engine[int, int])(nil)
var _ patch.Invalidator[int, int] = (*Engine[int, int])(nil)
