package diff

import "github.com/vango-dev/bento/pkg/box"

// Kind is the type of an edit operation.
type Kind uint8

const (
	OpDelete Kind = 0x01 // Remove an item (pre-batch index)
	OpInsert Kind = 0x02 // Insert an item (post-batch index)
	OpMove   Kind = 0x03 // Move an item (pre-batch to post-batch index)
	OpUpdate Kind = 0x04 // Content changed in place
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case OpDelete:
		return "Delete"
	case OpInsert:
		return "Insert"
	case OpMove:
		return "Move"
	case OpUpdate:
		return "Update"
	default:
		return "Unknown"
	}
}

// Level is the granularity an operation applies to.
type Level uint8

const (
	LevelSection Level = 0x01
	LevelRow     Level = 0x02
)

// String returns the string representation of the Level.
func (l Level) String() string {
	switch l {
	case LevelSection:
		return "Section"
	case LevelRow:
		return "Row"
	default:
		return "Unknown"
	}
}

// Move pairs a pre-batch index with a post-batch index.
type Move struct {
	From int
	To   int
}

// Changeset is the edit script of one ordered, keyed collection.
type Changeset struct {
	Deletes []int  // pre-batch indices, ascending
	Inserts []int  // post-batch indices, ascending
	Moves   []Move // ordered by destination
	Updates []Move // matched items whose content changed, ordered by destination
}

// IsEmpty reports whether the changeset has no operations.
func (c *Changeset) IsEmpty() bool {
	return c.Len() == 0
}

// Len returns the number of operations in the changeset.
func (c *Changeset) Len() int {
	return len(c.Deletes) + len(c.Inserts) + len(c.Moves) + len(c.Updates)
}

// HasStructuralChanges reports whether the changeset deletes, inserts or
// moves anything.
func (c *Changeset) HasStructuralChanges() bool {
	return len(c.Deletes) > 0 || len(c.Inserts) > 0 || len(c.Moves) > 0
}

// RowChanges is the row-level changeset of a section present in both boxes.
type RowChanges struct {
	From int // section index before the section-level batch
	To   int // section index after the section-level batch
	Changeset
}

// Script is the complete edit script between two boxes.
type Script[S, R comparable] struct {
	Old box.Box[S, R]
	New box.Box[S, R]

	// Sections holds section-level operations. A section Update means its
	// header or footer changed.
	Sections Changeset

	// Rows holds row-level operations for surviving sections, ordered by
	// destination section.
	Rows []RowChanges
}

// IsEmpty reports whether the script has no operations.
func (s *Script[S, R]) IsEmpty() bool {
	return s.Len() == 0
}

// Len returns the total number of operations.
func (s *Script[S, R]) Len() int {
	n := s.Sections.Len()
	for i := range s.Rows {
		n += s.Rows[i].Len()
	}
	return n
}

// Op is a single flattened edit operation.
type Op[S, R comparable] struct {
	Kind  Kind
	Level Level

	// Section and Row are pre-batch positions; -1 when not applicable.
	Section int
	Row     int

	// ToSection and ToRow are post-batch positions; -1 when not applicable.
	ToSection int
	ToRow     int

	SectionID S
	RowID     R // zero for section-level operations
}

// Ops flattens the script. Section operations come first, then row
// operations section by section. Within a changeset, deletes are listed in
// descending pre-batch order, followed by moves, inserts in ascending
// post-batch order, and updates.
func (s *Script[S, R]) Ops() []Op[S, R] {
	ops := make([]Op[S, R], 0, s.Len())
	c := &s.Sections
	for n := len(c.Deletes) - 1; n >= 0; n-- {
		i := c.Deletes[n]
		ops = append(ops, Op[S, R]{Kind: OpDelete, Level: LevelSection, Section: i, Row: -1, ToSection: -1, ToRow: -1,
			SectionID: s.Old.Sections[i].ID})
	}
	for _, m := range c.Moves {
		ops = append(ops, Op[S, R]{Kind: OpMove, Level: LevelSection, Section: m.From, Row: -1, ToSection: m.To, ToRow: -1,
			SectionID: s.New.Sections[m.To].ID})
	}
	for _, j := range c.Inserts {
		ops = append(ops, Op[S, R]{Kind: OpInsert, Level: LevelSection, Section: -1, Row: -1, ToSection: j, ToRow: -1,
			SectionID: s.New.Sections[j].ID})
	}
	for _, m := range c.Updates {
		ops = append(ops, Op[S, R]{Kind: OpUpdate, Level: LevelSection, Section: m.From, Row: -1, ToSection: m.To, ToRow: -1,
			SectionID: s.New.Sections[m.To].ID})
	}

	for _, rc := range s.Rows {
		oldSec := &s.Old.Sections[rc.From]
		newSec := &s.New.Sections[rc.To]
		for n := len(rc.Deletes) - 1; n >= 0; n-- {
			i := rc.Deletes[n]
			ops = append(ops, Op[S, R]{Kind: OpDelete, Level: LevelRow, Section: rc.From, Row: i, ToSection: rc.To, ToRow: -1,
				SectionID: oldSec.ID, RowID: oldSec.Rows[i].ID})
		}
		for _, m := range rc.Moves {
			ops = append(ops, Op[S, R]{Kind: OpMove, Level: LevelRow, Section: rc.From, Row: m.From, ToSection: rc.To, ToRow: m.To,
				SectionID: newSec.ID, RowID: newSec.Rows[m.To].ID})
		}
		for _, j := range rc.Inserts {
			ops = append(ops, Op[S, R]{Kind: OpInsert, Level: LevelRow, Section: rc.From, Row: -1, ToSection: rc.To, ToRow: j,
				SectionID: newSec.ID, RowID: newSec.Rows[j].ID})
		}
		for _, m := range rc.Updates {
			ops = append(ops, Op[S, R]{Kind: OpUpdate, Level: LevelRow, Section: rc.From, Row: m.From, ToSection: rc.To, ToRow: m.To,
				SectionID: newSec.ID, RowID: newSec.Rows[m.To].ID})
		}
	}

	return ops
}

// Count returns the number of operations of a kind at a level.
func (s *Script[S, R]) Count(kind Kind, level Level) int {
	pick := func(c *Changeset) int {
		switch kind {
		case OpDelete:
			return len(c.Deletes)
		case OpInsert:
			return len(c.Inserts)
		case OpMove:
			return len(c.Moves)
		case OpUpdate:
			return len(c.Updates)
		}
		return 0
	}
	if level == LevelSection {
		return pick(&s.Sections)
	}
	n := 0
	for i := range s.Rows {
		n += pick(&s.Rows[i].Changeset)
	}
	return n
}
