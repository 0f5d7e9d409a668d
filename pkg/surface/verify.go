package surface

import (
	"github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/box"
)

// Verify checks that the surface displays exactly the structure and content
// of b. It is used by tests and by the simulate command to prove convergence.
func Verify[S, R comparable](m *Memory, b box.Box[S, R]) error {
	if len(m.sections) != len(b.Sections) {
		return errors.New("E143").WithDetailf("surface has %d sections, box has %d", len(m.sections), len(b.Sections))
	}
	for i, sec := range b.Sections {
		view := m.sections[i]
		if view.ID != any(sec.ID) {
			return errors.New("E143").WithDetailf("section %d is %v, want %v", i, view.ID, sec.ID)
		}
		if !box.Equal(view.Header, sec.Header) || !box.Equal(view.Footer, sec.Footer) {
			return errors.New("E143").WithDetailf("section %v shows a stale header or footer", sec.ID)
		}
		if len(view.Cells) != len(sec.Rows) {
			return errors.New("E143").WithDetailf("section %v has %d rows, box has %d", sec.ID, len(view.Cells), len(sec.Rows))
		}
		for j, row := range sec.Rows {
			cell := view.Cells[j]
			if cell.ID != any(row.ID) {
				return errors.New("E143").WithDetailf("row [%d, %d] is %v, want %v", i, j, cell.ID, row.ID)
			}
			if !box.Equal(cell.Component, row.Component) {
				return errors.New("E143").WithDetailf("row %v in section %v shows stale content", row.ID, sec.ID)
			}
		}
	}
	return nil
}
