package surface

import "github.com/vango-dev/bento/pkg/box"

// BoxSource serves a staged box as a DataSource. It is the usual stage
// function target of a patch.Applier.
type BoxSource[S, R comparable] struct {
	tree box.Box[S, R]
}

// NewBoxSource creates a source serving b.
func NewBoxSource[S, R comparable](b box.Box[S, R]) *BoxSource[S, R] {
	return &BoxSource[S, R]{tree: b}
}

// Stage replaces the served box.
func (s *BoxSource[S, R]) Stage(b box.Box[S, R]) {
	s.tree = b
}

// Box returns the served box.
func (s *BoxSource[S, R]) Box() box.Box[S, R] {
	return s.tree
}

// NumberOfSections implements DataSource.
func (s *BoxSource[S, R]) NumberOfSections() int {
	return len(s.tree.Sections)
}

// NumberOfRows implements DataSource.
func (s *BoxSource[S, R]) NumberOfRows(section int) int {
	if section < 0 || section >= len(s.tree.Sections) {
		return 0
	}
	return len(s.tree.Sections[section].Rows)
}

// RowContent implements DataSource.
func (s *BoxSource[S, R]) RowContent(section, row int) (any, box.Component) {
	r := s.tree.Sections[section].Rows[row]
	return r.ID, r.Component
}

// SectionContent implements DataSource.
func (s *BoxSource[S, R]) SectionContent(section int) (any, box.Component, box.Component) {
	sec := &s.tree.Sections[section]
	return sec.ID, sec.Header, sec.Footer
}

var _ DataSource = (*BoxSource[int, int])(nil)
