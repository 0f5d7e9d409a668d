// Package patch replays diff scripts against a list surface.
//
// An Applier runs one atomic batch for all section-level structural changes,
// then one atomic batch per section whose rows changed structurally, then
// re-renders updated rows, headers and footers in place. Before each batch the
// applier stages the tree the surface must reflect once the batch commits, so
// that the surface's post-batch data source queries are answered consistently.
//
// Updates never reload cells. Re-rendering in place keeps the cell object and
// therefore its selection, first responder and animation state.
package patch

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/diff"
	"github.com/vango-dev/bento/pkg/surface"
)

// Invalidator is notified of items whose cached sizes are stale.
type Invalidator[S, R comparable] interface {
	InvalidateRow(section S, row R)
	InvalidateSlot(section S, slot box.Slot)
	InvalidateSection(section S)
}

// Result summarizes one Apply call.
type Result struct {
	SectionPasses int
	RowPasses     int
	Reconfigured  int
}

// Applier replays scripts against a surface.
type Applier[S, R comparable] struct {
	surface    surface.Surface
	stage      func(box.Box[S, R])
	invalidate Invalidator[S, R]
	logger     *slog.Logger
}

// Option configures an Applier.
type Option[S, R comparable] func(*Applier[S, R])

// WithInvalidator sets the size cache invalidation hook.
func WithInvalidator[S, R comparable](inv Invalidator[S, R]) Option[S, R] {
	return func(a *Applier[S, R]) {
		a.invalidate = inv
	}
}

// WithLogger sets the logger.
func WithLogger[S, R comparable](logger *slog.Logger) Option[S, R] {
	return func(a *Applier[S, R]) {
		a.logger = logger
	}
}

// New creates an Applier. stage is called with the tree the surface must
// reflect after the next batch; the data source given to the surface must
// serve that tree.
func New[S, R comparable](s surface.Surface, stage func(box.Box[S, R]), opts ...Option[S, R]) *Applier[S, R] {
	a := &Applier[S, R]{
		surface: s,
		stage:   stage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply replays script. The surface must currently display script.Old; if it
// has been mutated behind the applier's back the result is undefined.
func (a *Applier[S, R]) Apply(script *diff.Script[S, R]) (Result, error) {
	var res Result

	if script.IsEmpty() {
		a.stage(script.New)
		return res, nil
	}

	a.invalidateStale(script)

	oldIndex := make(map[S]int, len(script.Old.Sections))
	for i := range script.Old.Sections {
		oldIndex[script.Old.Sections[i].ID] = i
	}

	// Pass 1: sections. Surviving sections keep their old rows and
	// supplements until their own passes.
	current := box.Box[S, R]{Sections: make([]box.Section[S, R], len(script.New.Sections))}
	for j, sec := range script.New.Sections {
		if i, ok := oldIndex[sec.ID]; ok {
			current.Sections[j] = script.Old.Sections[i]
		} else {
			current.Sections[j] = sec
		}
	}

	if script.Sections.HasStructuralChanges() {
		cs := &script.Sections
		staged := current
		err := a.surface.PerformBatchUpdates(func(b surface.Batch) {
			a.stage(staged)
			if len(cs.Deletes) > 0 {
				b.DeleteSections(cs.Deletes...)
			}
			for _, m := range cs.Moves {
				b.MoveSection(m.From, m.To)
			}
			if len(cs.Inserts) > 0 {
				b.InsertSections(cs.Inserts...)
			}
		})
		if err != nil {
			return res, fmt.Errorf("section pass: %w", err)
		}
		res.SectionPasses++
		a.logger.Debug("section pass committed",
			"deletes", len(cs.Deletes), "moves", len(cs.Moves), "inserts", len(cs.Inserts))
	}

	// Pass 2..n: rows, one batch per section.
	for n := range script.Rows {
		rc := &script.Rows[n]
		if !rc.HasStructuralChanges() {
			continue
		}

		next := box.Box[S, R]{Sections: make([]box.Section[S, R], len(current.Sections))}
		copy(next.Sections, current.Sections)
		next.Sections[rc.To].Rows = script.New.Sections[rc.To].Rows
		current = next

		staged := current
		err := a.surface.PerformBatchUpdates(func(b surface.Batch) {
			a.stage(staged)
			if len(rc.Deletes) > 0 {
				b.DeleteRows(rc.To, rc.Deletes...)
			}
			for _, m := range rc.Moves {
				b.MoveRow(rc.To, m.From, m.To)
			}
			if len(rc.Inserts) > 0 {
				b.InsertRows(rc.To, rc.Inserts...)
			}
		})
		if err != nil {
			return res, fmt.Errorf("row pass for section %v: %w", script.New.Sections[rc.To].ID, err)
		}
		res.RowPasses++
	}

	// Updates re-render in place at post-batch positions.
	a.stage(script.New)

	for _, m := range script.Sections.Updates {
		oldSec, newSec := &script.Old.Sections[m.From], &script.New.Sections[m.To]
		if !box.Equal(oldSec.Header, newSec.Header) {
			if err := a.surface.ReconfigureHeader(m.To); err != nil {
				return res, fmt.Errorf("reconfigure header of section %v: %w", newSec.ID, err)
			}
			res.Reconfigured++
		}
		if !box.Equal(oldSec.Footer, newSec.Footer) {
			if err := a.surface.ReconfigureFooter(m.To); err != nil {
				return res, fmt.Errorf("reconfigure footer of section %v: %w", newSec.ID, err)
			}
			res.Reconfigured++
		}
	}

	for n := range script.Rows {
		rc := &script.Rows[n]
		for _, m := range rc.Updates {
			if err := a.surface.ReconfigureRow(rc.To, m.To); err != nil {
				return res, fmt.Errorf("reconfigure row %v: %w", script.New.Sections[rc.To].Rows[m.To].ID, err)
			}
			res.Reconfigured++
		}
	}

	return res, nil
}

// invalidateStale drops cached sizes of updated and deleted items. Sizes are
// re-measured lazily on the next query.
func (a *Applier[S, R]) invalidateStale(script *diff.Script[S, R]) {
	if a.invalidate == nil {
		return
	}

	for _, i := range script.Sections.Deletes {
		a.invalidate.InvalidateSection(script.Old.Sections[i].ID)
	}
	for _, m := range script.Sections.Updates {
		oldSec, newSec := &script.Old.Sections[m.From], &script.New.Sections[m.To]
		if !box.Equal(oldSec.Header, newSec.Header) {
			a.invalidate.InvalidateSlot(newSec.ID, box.SlotHeader)
		}
		if !box.Equal(oldSec.Footer, newSec.Footer) {
			a.invalidate.InvalidateSlot(newSec.ID, box.SlotFooter)
		}
	}

	for n := range script.Rows {
		rc := &script.Rows[n]
		oldSec, newSec := &script.Old.Sections[rc.From], &script.New.Sections[rc.To]
		for _, i := range rc.Deletes {
			a.invalidate.InvalidateRow(oldSec.ID, oldSec.Rows[i].ID)
		}
		for _, m := range rc.Updates {
			a.invalidate.InvalidateRow(newSec.ID, newSec.Rows[m.To].ID)
		}
	}
}
