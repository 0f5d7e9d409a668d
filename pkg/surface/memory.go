package surface

import (
	"fmt"

	"github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/box"
)

// Cell is a row as the surface sees it. Its state fields survive every
// structural edit that keeps the cell alive.
type Cell struct {
	ID        any
	Component box.Component

	Selected       bool
	FirstResponder bool
	Animating      bool

	// Configured counts how many times content was applied to the cell.
	Configured int

	serial uint64
}

// Serial is unique per created cell; a cell that survives a batch keeps it.
func (c *Cell) Serial() uint64 {
	return c.serial
}

// SectionView is a section as the surface sees it.
type SectionView struct {
	ID     any
	Header box.Component
	Footer box.Component
	Cells  []*Cell

	HeaderConfigured int
	FooterConfigured int

	serial uint64
}

// Serial is unique per created section.
func (s *SectionView) Serial() uint64 {
	return s.serial
}

// Stats counts surface activity.
type Stats struct {
	Batches        int
	Reloads        int
	Reconfigures   int
	CellsCreated   int
	CellsDiscarded int
}

// Memory is an in-memory list surface. It enforces the batch index rules of
// native table views and rejects batches that would leave it inconsistent
// with its data source. It is not safe for concurrent use.
type Memory struct {
	source   DataSource
	sections []*SectionView
	serial   uint64
	inBatch  bool
	stats    Stats
}

// NewMemory creates an empty memory surface backed by source.
func NewMemory(source DataSource) *Memory {
	return &Memory{source: source}
}

// SetDataSource replaces the data source.
func (m *Memory) SetDataSource(source DataSource) {
	m.source = source
}

// ReloadData discards every cell and rebuilds the surface from the data
// source. All cell state is lost.
func (m *Memory) ReloadData() {
	for _, s := range m.sections {
		m.stats.CellsDiscarded += len(s.Cells)
	}
	m.sections = m.sections[:0]
	if m.source == nil {
		return
	}
	for i := 0; i < m.source.NumberOfSections(); i++ {
		m.sections = append(m.sections, m.makeSection(i))
	}
	m.stats.Reloads++
}

// NumberOfSections returns the current section count.
func (m *Memory) NumberOfSections() int {
	return len(m.sections)
}

// NumberOfRows returns the current row count of a section.
func (m *Memory) NumberOfRows(section int) int {
	if section < 0 || section >= len(m.sections) {
		return 0
	}
	return len(m.sections[section].Cells)
}

// Section returns the section at index, or nil.
func (m *Memory) Section(section int) *SectionView {
	if section < 0 || section >= len(m.sections) {
		return nil
	}
	return m.sections[section]
}

// Cell returns the cell at a position, or nil.
func (m *Memory) Cell(section, row int) *Cell {
	s := m.Section(section)
	if s == nil || row < 0 || row >= len(s.Cells) {
		return nil
	}
	return s.Cells[row]
}

// Stats returns activity counters.
func (m *Memory) Stats() Stats {
	return m.stats
}

// Select marks a cell selected and clears every other selection.
func (m *Memory) Select(section, row int) error {
	target := m.Cell(section, row)
	if target == nil {
		return errors.New("E302").WithDetailf("select [%d, %d]", section, row)
	}
	m.forEachCell(func(c *Cell) { c.Selected = false })
	target.Selected = true
	return nil
}

// SetFirstResponder makes one cell the first responder.
func (m *Memory) SetFirstResponder(section, row int) error {
	target := m.Cell(section, row)
	if target == nil {
		return errors.New("E302").WithDetailf("first responder [%d, %d]", section, row)
	}
	m.forEachCell(func(c *Cell) { c.FirstResponder = false })
	target.FirstResponder = true
	return nil
}

// SelectedCell returns the position of the selected cell.
func (m *Memory) SelectedCell() (section, row int, ok bool) {
	return m.find(func(c *Cell) bool { return c.Selected })
}

// FirstResponder returns the position of the first responder cell.
func (m *Memory) FirstResponder() (section, row int, ok bool) {
	return m.find(func(c *Cell) bool { return c.FirstResponder })
}

func (m *Memory) find(match func(*Cell) bool) (int, int, bool) {
	for i, s := range m.sections {
		for j, c := range s.Cells {
			if match(c) {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

func (m *Memory) forEachCell(fn func(*Cell)) {
	for _, s := range m.sections {
		for _, c := range s.Cells {
			fn(c)
		}
	}
}

// ReconfigureRow implements Surface.
func (m *Memory) ReconfigureRow(section, row int) error {
	c := m.Cell(section, row)
	if c == nil {
		return errors.New("E302").WithDetailf("reconfigure row [%d, %d]", section, row)
	}
	c.ID, c.Component = m.source.RowContent(section, row)
	c.Configured++
	m.stats.Reconfigures++
	return nil
}

// ReconfigureHeader implements Surface.
func (m *Memory) ReconfigureHeader(section int) error {
	s := m.Section(section)
	if s == nil {
		return errors.New("E302").WithDetailf("reconfigure header %d", section)
	}
	s.ID, s.Header, _ = m.source.SectionContent(section)
	s.HeaderConfigured++
	m.stats.Reconfigures++
	return nil
}

// ReconfigureFooter implements Surface.
func (m *Memory) ReconfigureFooter(section int) error {
	s := m.Section(section)
	if s == nil {
		return errors.New("E302").WithDetailf("reconfigure footer %d", section)
	}
	s.ID, _, s.Footer = m.source.SectionContent(section)
	s.FooterConfigured++
	m.stats.Reconfigures++
	return nil
}

// PerformBatchUpdates implements Surface.
func (m *Memory) PerformBatchUpdates(updates func(b Batch)) error {
	if m.inBatch {
		return errors.New("E304").WithDetail("nested batch update")
	}
	m.inBatch = true
	b := &memoryBatch{}
	func() {
		defer func() { m.inBatch = false }()
		updates(b)
	}()

	if b.hasSectionOps() && len(b.rows) > 0 {
		return errors.New("E304").WithDetail("section and row operations in one batch")
	}

	if b.hasSectionOps() {
		if err := m.commitSections(b); err != nil {
			return err
		}
	} else {
		if err := m.commitRows(b); err != nil {
			return err
		}
	}
	m.stats.Batches++
	return nil
}

func (m *Memory) commitSections(b *memoryBatch) error {
	next, err := reorder(m.sections, b.sectionDeletes, b.sectionMoves, b.sectionInserts, m.makeSection)
	if err != nil {
		return errors.New("E301").WithDetail("sections").Wrap(err)
	}
	if err := m.checkSectionCount(len(next)); err != nil {
		return err
	}
	for i, s := range next {
		if want := m.source.NumberOfRows(i); len(s.Cells) != want {
			return errors.New("E303").
				WithDetailf("section %d has %d rows after batch, data source reports %d", i, len(s.Cells), want)
		}
	}
	for _, i := range b.sectionDeletes {
		m.stats.CellsDiscarded += len(m.sections[i].Cells)
	}
	m.sections = next
	return nil
}

func (m *Memory) commitRows(b *memoryBatch) error {
	if err := m.checkSectionCount(len(m.sections)); err != nil {
		return err
	}

	staged := make(map[int][]*Cell, len(b.rows))
	discarded := 0
	for section, ops := range b.rows {
		if section < 0 || section >= len(m.sections) {
			return errors.New("E301").Wrap(errors.New("E302").WithDetailf("section %d of %d", section, len(m.sections)))
		}
		cells := m.sections[section].Cells
		next, err := reorder(cells, ops.deletes, ops.moves, ops.inserts, func(row int) *Cell {
			return m.makeCell(section, row)
		})
		if err != nil {
			return errors.New("E301").WithDetailf("rows of section %d", section).Wrap(err)
		}
		staged[section] = next
		discarded += len(ops.deletes)
	}

	for i, s := range m.sections {
		n := len(s.Cells)
		if next, ok := staged[i]; ok {
			n = len(next)
		}
		if want := m.source.NumberOfRows(i); n != want {
			return errors.New("E303").
				WithDetailf("section %d has %d rows after batch, data source reports %d", i, n, want)
		}
	}

	for section, next := range staged {
		m.sections[section].Cells = next
	}
	m.stats.CellsDiscarded += discarded
	return nil
}

func (m *Memory) checkSectionCount(have int) error {
	if want := m.source.NumberOfSections(); have != want {
		return errors.New("E303").
			WithDetailf("surface has %d sections after batch, data source reports %d", have, want)
	}
	return nil
}

func (m *Memory) makeSection(section int) *SectionView {
	m.serial++
	s := &SectionView{serial: m.serial}
	s.ID, s.Header, s.Footer = m.source.SectionContent(section)
	n := m.source.NumberOfRows(section)
	s.Cells = make([]*Cell, n)
	for j := 0; j < n; j++ {
		s.Cells[j] = m.makeCell(section, j)
	}
	return s
}

func (m *Memory) makeCell(section, row int) *Cell {
	m.serial++
	m.stats.CellsCreated++
	c := &Cell{serial: m.serial, Configured: 1}
	c.ID, c.Component = m.source.RowContent(section, row)
	return c
}

// reorder applies one batch to a slice: deletes and move sources index into
// old; inserts and move destinations index into the result. Items that are
// neither deleted nor moved fill the remaining slots in their old order.
func reorder[T any](old []T, deletes []int, moves [][2]int, inserts []int, fresh func(int) T) ([]T, error) {
	gone := make(map[int]bool, len(deletes)+len(moves))
	for _, i := range deletes {
		if i < 0 || i >= len(old) {
			return nil, errors.New("E302").WithDetailf("delete %d of %d", i, len(old))
		}
		if gone[i] {
			return nil, errors.New("E304").WithDetailf("index %d deleted twice", i)
		}
		gone[i] = true
	}
	for _, mv := range moves {
		if mv[0] < 0 || mv[0] >= len(old) {
			return nil, errors.New("E302").WithDetailf("move source %d of %d", mv[0], len(old))
		}
		if gone[mv[0]] {
			return nil, errors.New("E304").WithDetailf("index %d both moved and deleted", mv[0])
		}
		gone[mv[0]] = true
	}

	size := len(old) - len(deletes) + len(inserts)
	next := make([]T, size)
	taken := make([]bool, size)
	place := func(j int, what string) error {
		if j < 0 || j >= size {
			return errors.New("E302").WithDetailf("%s %d of %d", what, j, size)
		}
		if taken[j] {
			return errors.New("E304").WithDetailf("destination %d used twice", j)
		}
		taken[j] = true
		return nil
	}

	for _, mv := range moves {
		if err := place(mv[1], "move destination"); err != nil {
			return nil, err
		}
		next[mv[1]] = old[mv[0]]
	}
	insertAt := make([]int, 0, len(inserts))
	for _, j := range inserts {
		if err := place(j, "insert"); err != nil {
			return nil, err
		}
		insertAt = append(insertAt, j)
	}

	j := 0
	for i, item := range old {
		if gone[i] {
			continue
		}
		for j < size && taken[j] {
			j++
		}
		if j >= size {
			return nil, errors.New("E302").WithDetail("batch leaves more items than slots")
		}
		next[j] = item
		taken[j] = true
	}

	// Inserted items are created last so data source queries see the
	// post-batch structure.
	for _, j := range insertAt {
		next[j] = fresh(j)
	}
	return next, nil
}

// memoryBatch records the operations of one PerformBatchUpdates call.
type memoryBatch struct {
	sectionDeletes []int
	sectionInserts []int
	sectionMoves   [][2]int
	rows           map[int]*rowOps
}

type rowOps struct {
	deletes []int
	inserts []int
	moves   [][2]int
}

func (b *memoryBatch) hasSectionOps() bool {
	return len(b.sectionDeletes) > 0 || len(b.sectionInserts) > 0 || len(b.sectionMoves) > 0
}

func (b *memoryBatch) section(s int) *rowOps {
	if b.rows == nil {
		b.rows = make(map[int]*rowOps)
	}
	ops, ok := b.rows[s]
	if !ok {
		ops = &rowOps{}
		b.rows[s] = ops
	}
	return ops
}

func (b *memoryBatch) DeleteSections(sections ...int) {
	b.sectionDeletes = append(b.sectionDeletes, sections...)
}

func (b *memoryBatch) InsertSections(sections ...int) {
	b.sectionInserts = append(b.sectionInserts, sections...)
}

func (b *memoryBatch) MoveSection(from, to int) {
	b.sectionMoves = append(b.sectionMoves, [2]int{from, to})
}

func (b *memoryBatch) DeleteRows(section int, rows ...int) {
	ops := b.section(section)
	ops.deletes = append(ops.deletes, rows...)
}

func (b *memoryBatch) InsertRows(section int, rows ...int) {
	ops := b.section(section)
	ops.inserts = append(ops.inserts, rows...)
}

func (b *memoryBatch) MoveRow(section, from, to int) {
	ops := b.section(section)
	ops.moves = append(ops.moves, [2]int{from, to})
}

// String renders the surface structure for debugging.
func (m *Memory) String() string {
	out := ""
	for i, s := range m.sections {
		out += fmt.Sprintf("[%d] %v:", i, s.ID)
		for _, c := range s.Cells {
			out += fmt.Sprintf(" %v", c.ID)
		}
		out += "\n"
	}
	return out
}
