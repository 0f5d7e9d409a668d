// Package adapter answers the layout callbacks of a table view from an
// engine.
//
// The table asks for row, header and footer heights by index during its
// layout pass. The adapter resolves the item at that index, asks its
// component for a height through the engine's size cache and adds the
// separator thickness to row heights. Items whose component does not
// customize its height get AutomaticDimension, leaving the decision to the
// table.
//
// Geometry must be set after the table has settled its layout margins;
// margins that change later are picked up by the next SetGeometry call.
package adapter

import (
	"log/slog"

	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/engine"
)

// AutomaticDimension tells the table to size an item itself.
const AutomaticDimension = -1.0

// Geometry describes the table the adapter serves.
type Geometry struct {
	// Width is the width of the table's bounds.
	Width float64

	// Margins are the table's layout margins.
	Margins box.Insets

	// ContentScaleFactor is the number of pixels per point. Zero is
	// treated as 1.
	ContentScaleFactor float64

	// Separators reports whether the table draws row separators.
	Separators bool
}

// SeparatorHeight returns the thickness of a row separator: one pixel when
// separators are drawn, else 0.
func (g Geometry) SeparatorHeight() float64 {
	if !g.Separators {
		return 0
	}
	scale := g.ContentScaleFactor
	if scale <= 0 {
		scale = 1
	}
	return 1.0 / scale
}

// ContentMargins returns the margins copied onto cell and header/footer
// content views: the table's horizontal margins with no vertical inset.
func (g Geometry) ContentMargins() box.Insets {
	return box.Insets{Left: g.Margins.Left, Right: g.Margins.Right}
}

// View is what the table displays for one row, header or footer.
type View struct {
	ID        any
	Component box.Component

	// LayoutMargins are the content view margins. The view does not
	// inherit its superview's margins.
	LayoutMargins box.Insets
}

// Adapter serves table layout callbacks.
type Adapter[S, R comparable] struct {
	engine   *engine.Engine[S, R]
	geometry Geometry
	logger   *slog.Logger
}

// New creates an adapter over e with the given geometry.
func New[S, R comparable](e *engine.Engine[S, R], g Geometry) *Adapter[S, R] {
	a := &Adapter[S, R]{engine: e, logger: slog.Default()}
	a.SetGeometry(g)
	return a
}

// SetLogger sets the logger.
func (a *Adapter[S, R]) SetLogger(logger *slog.Logger) {
	a.logger = logger
}

// SetGeometry updates the table geometry. Width or margin changes drop the
// cached sizes.
func (a *Adapter[S, R]) SetGeometry(g Geometry) {
	if g != a.geometry {
		a.logger.Debug("table geometry", "width", g.Width, "scale", g.ContentScaleFactor, "separators", g.Separators)
	}
	a.geometry = g
	a.engine.SetGeometry(g.Width, g.Margins)
}

// Geometry returns the table geometry.
func (a *Adapter[S, R]) Geometry() Geometry {
	return a.geometry
}

// HeightForRow returns the height of a row including its separator.
func (a *Adapter[S, R]) HeightForRow(section, row int) float64 {
	if size, ok := a.engine.RowSize(section, row); ok {
		return size.Height + a.geometry.SeparatorHeight()
	}
	return AutomaticDimension
}

// EstimatedHeightForRow returns the estimated height of a row.
func (a *Adapter[S, R]) EstimatedHeightForRow(section, row int) float64 {
	if size, ok := a.engine.EstimatedRowSize(section, row); ok {
		return size.Height
	}
	return AutomaticDimension
}

// HeightForHeader returns the height of a section header.
func (a *Adapter[S, R]) HeightForHeader(section int) float64 {
	return a.slotHeight(section, box.SlotHeader)
}

// HeightForFooter returns the height of a section footer.
func (a *Adapter[S, R]) HeightForFooter(section int) float64 {
	return a.slotHeight(section, box.SlotFooter)
}

// EstimatedHeightForHeader returns the estimate for a header. Headers are
// cheap to measure, so the exact height is used.
func (a *Adapter[S, R]) EstimatedHeightForHeader(section int) float64 {
	return a.slotHeight(section, box.SlotHeader)
}

// EstimatedHeightForFooter returns the estimate for a footer.
func (a *Adapter[S, R]) EstimatedHeightForFooter(section int) float64 {
	return a.slotHeight(section, box.SlotFooter)
}

func (a *Adapter[S, R]) slotHeight(section int, slot box.Slot) float64 {
	if size, ok := a.engine.SlotSize(section, slot); ok {
		return size.Height
	}
	return AutomaticDimension
}

// CellForRow returns the view of a row.
func (a *Adapter[S, R]) CellForRow(section, row int) View {
	id, c := a.engine.RowContent(section, row)
	return View{ID: id, Component: c, LayoutMargins: a.geometry.ContentMargins()}
}

// ViewForHeader returns the header view of a section, if it has one.
func (a *Adapter[S, R]) ViewForHeader(section int) (View, bool) {
	id, header, _ := a.engine.SectionContent(section)
	if header == nil {
		return View{}, false
	}
	return View{ID: id, Component: header, LayoutMargins: a.geometry.ContentMargins()}, true
}

// ViewForFooter returns the footer view of a section, if it has one.
func (a *Adapter[S, R]) ViewForFooter(section int) (View, bool) {
	id, _, footer := a.engine.SectionContent(section)
	if footer == nil {
		return View{}, false
	}
	return View{ID: id, Component: footer, LayoutMargins: a.geometry.ContentMargins()}, true
}

// NumberOfSections returns the section count of the staged box.
func (a *Adapter[S, R]) NumberOfSections() int {
	return a.engine.NumberOfSections()
}

// NumberOfRows returns the row count of a staged section.
func (a *Adapter[S, R]) NumberOfRows(section int) int {
	return a.engine.NumberOfRows(section)
}
