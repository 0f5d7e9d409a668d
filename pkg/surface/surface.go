// Package surface defines the stateful list surface that bento patches, and
// provides Memory, an in-memory implementation.
//
// A surface is index-addressed: it knows sections and rows only by position.
// It keeps per-cell state (selection, first responder, running animations)
// that must survive structural edits whenever the underlying item survives.
// Structural edits arrive in atomic batches; after each batch the surface asks
// its DataSource for counts and for the content of inserted items, exactly as
// a native table view does.
package surface

import "github.com/vango-dev/bento/pkg/box"

// Batch collects the structural operations of one atomic update pass.
//
// Deletes and move sources are pre-batch indices. Inserts and move
// destinations are post-batch indices. Surfaces process deletes and moves
// before inserts.
type Batch interface {
	DeleteSections(sections ...int)
	InsertSections(sections ...int)
	MoveSection(from, to int)

	// Row operations address the section by its index at the time of the
	// batch; a batch that contains row operations must not contain section
	// operations.
	DeleteRows(section int, rows ...int)
	InsertRows(section int, rows ...int)
	MoveRow(section, from, to int)
}

// Surface is a list surface that can be patched.
type Surface interface {
	// PerformBatchUpdates runs updates, then commits every operation it
	// recorded as one atomic pass. The data source must reflect the post-batch
	// structure by the time updates returns.
	PerformBatchUpdates(updates func(b Batch)) error

	// ReconfigureRow re-renders the row in place, keeping its cell state.
	ReconfigureRow(section, row int) error

	// ReconfigureHeader re-renders a section header in place.
	ReconfigureHeader(section int) error

	// ReconfigureFooter re-renders a section footer in place.
	ReconfigureFooter(section int) error
}

// DataSource answers the queries a surface issues after a batch.
type DataSource interface {
	NumberOfSections() int
	NumberOfRows(section int) int
	RowContent(section, row int) (id any, c box.Component)
	SectionContent(section int) (id any, header, footer box.Component)
}
