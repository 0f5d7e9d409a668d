package engine

import (
	"sort"

	"github.com/vango-dev/bento/pkg/box"
)

type itemKind uint8

const (
	kindRow itemKind = iota
	kindHeader
	kindFooter
)

func slotKind(slot box.Slot) itemKind {
	if slot == box.SlotFooter {
		return kindFooter
	}
	return kindHeader
}

// itemKey identifies a row, header or footer across renders.
type itemKey[S, R comparable] struct {
	kind    itemKind
	section S
	row     R
}

// index maps identifiers of the staged tree to positions. It is rebuilt
// lazily after each stage.
type index[S, R comparable] struct {
	tree     box.Box[S, R]
	sections map[S]int
	rows     []map[R]int
	built    bool
}

func newIndex[S, R comparable]() *index[S, R] {
	return &index[S, R]{}
}

func (ix *index[S, R]) reset(b box.Box[S, R]) {
	ix.tree = b
	ix.built = false
}

func (ix *index[S, R]) build() {
	if ix.built {
		return
	}
	ix.sections = make(map[S]int, len(ix.tree.Sections))
	ix.rows = make([]map[R]int, len(ix.tree.Sections))
	for i := range ix.tree.Sections {
		ix.sections[ix.tree.Sections[i].ID] = i
	}
	ix.built = true
}

func (ix *index[S, R]) section(id S) (int, bool) {
	ix.build()
	i, ok := ix.sections[id]
	return i, ok
}

func (ix *index[S, R]) row(section S, row R) (int, int, bool) {
	i, ok := ix.section(section)
	if !ok {
		return -1, -1, false
	}
	if ix.rows[i] == nil {
		rows := ix.tree.Sections[i].Rows
		m := make(map[R]int, len(rows))
		for j := range rows {
			m[rows[j].ID] = j
		}
		ix.rows[i] = m
	}
	j, ok := ix.rows[i][row]
	return i, j, ok
}

// component returns the component an item key refers to.
func (ix *index[S, R]) component(k itemKey[S, R]) (box.Component, bool) {
	if k.kind == kindRow {
		i, j, ok := ix.row(k.section, k.row)
		if !ok {
			return nil, false
		}
		return ix.tree.Sections[i].Rows[j].Component, true
	}
	i, ok := ix.section(k.section)
	if !ok {
		return nil, false
	}
	if k.kind == kindFooter {
		return ix.tree.Sections[i].Footer, true
	}
	return ix.tree.Sections[i].Header, true
}

func sortedIDs[V any](m map[uint64]V) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
