package engine

import (
	"sort"

	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/focus"
)

type registration struct {
	id     uint64
	target focus.Target
}

// RegisterTarget registers the view that displays a row as its focus target.
// The returned function removes the registration; views call it when they
// are discarded or reused for another row. A later registration for the same
// row replaces the earlier one.
func (e *Engine[S, R]) RegisterTarget(section S, row R, t focus.Target) (release func()) {
	e.nextID++
	id := e.nextID
	k := itemKey[S, R]{kind: kindRow, section: section, row: row}
	e.targets[k] = &registration{id: id, target: t}
	return func() {
		if reg, ok := e.targets[k]; ok && reg.id == id {
			delete(e.targets, k)
		}
	}
}

// Neighbors reports whether the row has a focus destination before and
// after it in the current box.
func (e *Engine[S, R]) Neighbors(section S, row R) focus.Neighbors {
	at, ok := pathOf(e.current, section, row)
	if !ok {
		return focus.Neighbors{}
	}
	return focus.NeighborsOf(e.current, at, e.skipPopulated)
}

// FocusNext focuses the closest focusable row after the given one. It
// reports false when there is none or no target is registered for it.
func (e *Engine[S, R]) FocusNext(section S, row R) bool {
	return e.focusFrom(section, row, focus.Forward)
}

// FocusPrevious focuses the closest focusable row before the given one.
func (e *Engine[S, R]) FocusPrevious(section S, row R) bool {
	return e.focusFrom(section, row, focus.Backward)
}

func (e *Engine[S, R]) focusFrom(section S, row R, dir focus.Direction) bool {
	at, ok := pathOf(e.current, section, row)
	if !ok {
		return false
	}
	to, ok := focus.Neighbor(e.current, at, dir, e.skipPopulated)
	if !ok {
		return false
	}
	sec := &e.current.Sections[to.Section]
	reg, ok := e.targets[itemKey[S, R]{kind: kindRow, section: sec.ID, row: sec.Rows[to.Row].ID}]
	if !ok {
		return false
	}
	reg.target.Focus()
	return true
}

// notifyNeighbors tells every registered target whose neighbor availability
// differs between prev and next.
func (e *Engine[S, R]) notifyNeighbors(prev, next box.Box[S, R]) {
	if len(e.targets) == 0 {
		return
	}

	type pending struct {
		at     focus.Path
		target focus.Target
	}
	var changed []pending
	for k, reg := range e.targets {
		now, ok := pathOf(next, k.section, k.row)
		if !ok {
			continue
		}
		after := focus.NeighborsOf(next, now, e.skipPopulated)
		if was, ok := pathOf(prev, k.section, k.row); ok {
			if focus.NeighborsOf(prev, was, e.skipPopulated) == after {
				continue
			}
		}
		changed = append(changed, pending{at: now, target: reg.target})
	}

	// Display order keeps notification order deterministic.
	sort.Slice(changed, func(i, j int) bool {
		a, b := changed[i].at, changed[j].at
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		return a.Row < b.Row
	})
	for _, p := range changed {
		p.target.NeighboringFocusEligibilityDidChange()
	}
}

func pathOf[S, R comparable](b box.Box[S, R], section S, row R) (focus.Path, bool) {
	i, ok := b.SectionIndex(section)
	if !ok {
		return focus.Path{}, false
	}
	j, ok := b.Sections[i].RowIndex(row)
	if !ok {
		return focus.Path{}, false
	}
	return focus.Path{Section: i, Row: j}, true
}
