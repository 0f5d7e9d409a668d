package engine

import (
	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/sizecache"
)

func (e *Engine[S, R]) resolve(k itemKey[S, R]) (box.Component, bool) {
	return e.index.component(k)
}

// SetGeometry sets the available width and the inherited margins used for
// size queries. A change drops every cached size.
func (e *Engine[S, R]) SetGeometry(width float64, margins box.Insets) {
	if width == e.width && margins == e.margins {
		return
	}
	e.width, e.margins = width, margins
	e.cache.InvalidateAll()
	e.logger.Debug("geometry changed", "width", width, "margins", margins.Horizontal())
}

// Geometry returns the width and margins used for size queries.
func (e *Engine[S, R]) Geometry() (float64, box.Insets) {
	return e.width, e.margins
}

func (e *Engine[S, R]) rowKey(section, row int) (itemKey[S, R], bool) {
	b := e.source.Box()
	if section < 0 || section >= len(b.Sections) {
		return itemKey[S, R]{}, false
	}
	sec := &b.Sections[section]
	if row < 0 || row >= len(sec.Rows) {
		return itemKey[S, R]{}, false
	}
	return itemKey[S, R]{kind: kindRow, section: sec.ID, row: sec.Rows[row].ID}, true
}

func (e *Engine[S, R]) slotKey(section int, slot box.Slot) (itemKey[S, R], bool) {
	b := e.source.Box()
	if section < 0 || section >= len(b.Sections) {
		return itemKey[S, R]{}, false
	}
	return itemKey[S, R]{kind: slotKind(slot), section: b.Sections[section].ID}, true
}

// RowSize returns the exact size of the row at a staged position. It reports
// false when the position is out of range or the row does not customize its
// height.
func (e *Engine[S, R]) RowSize(section, row int) (box.Size, bool) {
	k, ok := e.rowKey(section, row)
	if !ok {
		return box.Size{}, false
	}
	return e.cache.Size(k, e.width, e.margins)
}

// EstimatedRowSize returns the estimated size of the row at a staged
// position.
func (e *Engine[S, R]) EstimatedRowSize(section, row int) (box.Size, bool) {
	k, ok := e.rowKey(section, row)
	if !ok {
		return box.Size{}, false
	}
	return e.cache.Estimated(k, e.width, e.margins)
}

// SlotSize returns the exact size of a header or footer.
func (e *Engine[S, R]) SlotSize(section int, slot box.Slot) (box.Size, bool) {
	k, ok := e.slotKey(section, slot)
	if !ok {
		return box.Size{}, false
	}
	return e.cache.Size(k, e.width, e.margins)
}

// EstimatedSlotSize returns the estimated size of a header or footer.
func (e *Engine[S, R]) EstimatedSlotSize(section int, slot box.Slot) (box.Size, bool) {
	k, ok := e.slotKey(section, slot)
	if !ok {
		return box.Size{}, false
	}
	return e.cache.Estimated(k, e.width, e.margins)
}

// CacheStats returns size cache counters.
func (e *Engine[S, R]) CacheStats() sizecache.Stats {
	return e.cache.Stats()
}

// InvalidateRow implements patch.Invalidator.
func (e *Engine[S, R]) InvalidateRow(section S, row R) {
	e.cache.Invalidate(itemKey[S, R]{kind: kindRow, section: section, row: row})
}

// InvalidateSlot implements patch.Invalidator.
func (e *Engine[S, R]) InvalidateSlot(section S, slot box.Slot) {
	e.cache.Invalidate(itemKey[S, R]{kind: slotKind(slot), section: section})
}

// InvalidateSection implements patch.Invalidator.
func (e *Engine[S, R]) InvalidateSection(section S) {
	e.cache.InvalidateFunc(func(k itemKey[S, R]) bool {
		return k.section == section
	})
}
