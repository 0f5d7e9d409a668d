package box

import "github.com/vango-dev/bento/internal/errors"

// Box is the declarative tree for one render pass.
type Box[S, R comparable] struct {
	Sections []Section[S, R]
}

// Section is an identified group of rows with optional header and footer.
type Section[S, R comparable] struct {
	ID     S
	Header Component // nil when the section has no header
	Footer Component // nil when the section has no footer
	Rows   []Row[R]
}

// Row is an identified component inside a section.
type Row[R comparable] struct {
	ID        R
	Component Component
}

// Slot names a supplementary position of a section.
type Slot uint8

const (
	SlotHeader Slot = iota
	SlotFooter
)

// String returns the string representation of the Slot.
func (s Slot) String() string {
	switch s {
	case SlotHeader:
		return "header"
	case SlotFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// New creates a box from sections.
func New[S, R comparable](sections ...Section[S, R]) Box[S, R] {
	return Box[S, R]{Sections: sections}
}

// NewSection creates a section without header and footer.
func NewSection[S, R comparable](id S, rows ...Row[R]) Section[S, R] {
	return Section[S, R]{ID: id, Rows: rows}
}

// NewRow creates a row.
func NewRow[R comparable](id R, c Component) Row[R] {
	return Row[R]{ID: id, Component: c}
}

// WithHeader returns a copy of the section with the header set.
func (s Section[S, R]) WithHeader(c Component) Section[S, R] {
	s.Header = c
	return s
}

// WithFooter returns a copy of the section with the footer set.
func (s Section[S, R]) WithFooter(c Component) Section[S, R] {
	s.Footer = c
	return s
}

// Slot returns the component in the given slot, or nil.
func (s Section[S, R]) Slot(slot Slot) Component {
	switch slot {
	case SlotHeader:
		return s.Header
	case SlotFooter:
		return s.Footer
	default:
		return nil
	}
}

// IsEmpty reports whether the box has no sections.
func (b Box[S, R]) IsEmpty() bool {
	return len(b.Sections) == 0
}

// RowCount returns the total number of rows in all sections.
func (b Box[S, R]) RowCount() int {
	n := 0
	for i := range b.Sections {
		n += len(b.Sections[i].Rows)
	}
	return n
}

// SectionIndex returns the position of the section with the given id.
func (b Box[S, R]) SectionIndex(id S) (int, bool) {
	for i := range b.Sections {
		if b.Sections[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// RowIndex returns the position of the row with the given id inside a section.
func (s Section[S, R]) RowIndex(id R) (int, bool) {
	for i := range s.Rows {
		if s.Rows[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Validate checks that identifiers are unique within their sibling scope.
func (b Box[S, R]) Validate() error {
	seen := make(map[S]struct{}, len(b.Sections))
	for i := range b.Sections {
		sec := &b.Sections[i]
		if _, dup := seen[sec.ID]; dup {
			return errors.New("E201").
				WithDetailf("Section id %v appears more than once (again at index %d).", sec.ID, i)
		}
		seen[sec.ID] = struct{}{}

		rows := make(map[R]struct{}, len(sec.Rows))
		for j := range sec.Rows {
			if _, dup := rows[sec.Rows[j].ID]; dup {
				return errors.New("E202").
					WithDetailf("Row id %v appears more than once in section %v (again at index %d).", sec.Rows[j].ID, sec.ID, j)
			}
			rows[sec.Rows[j].ID] = struct{}{}
		}
	}
	return nil
}

// MustValidate panics if Validate fails. Duplicate identifiers leave the diff
// result undefined, so callers that feed a box to the engine treat them as a
// programmer error.
func (b Box[S, R]) MustValidate() {
	if err := b.Validate(); err != nil {
		panic(err)
	}
}

// Equal reports whether two boxes are structurally equal: same identifiers in
// the same order and equal components in every position.
func (b Box[S, R]) Equal(other Box[S, R]) bool {
	if len(b.Sections) != len(other.Sections) {
		return false
	}
	for i := range b.Sections {
		if !b.Sections[i].Equal(other.Sections[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two sections have the same identity, equal header and
// footer, and structurally equal rows.
func (s Section[S, R]) Equal(other Section[S, R]) bool {
	if s.ID != other.ID || !s.SupplementsEqual(other) {
		return false
	}
	if len(s.Rows) != len(other.Rows) {
		return false
	}
	for i := range s.Rows {
		if s.Rows[i].ID != other.Rows[i].ID || !Equal(s.Rows[i].Component, other.Rows[i].Component) {
			return false
		}
	}
	return true
}

// SupplementsEqual reports whether header and footer are equal.
func (s Section[S, R]) SupplementsEqual(other Section[S, R]) bool {
	return Equal(s.Header, other.Header) && Equal(s.Footer, other.Footer)
}
