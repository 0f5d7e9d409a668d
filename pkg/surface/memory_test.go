package surface

import (
	"strings"
	"testing"

	"github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/box"
)

type tree = box.Box[string, int]

func rows(ids ...int) []box.Row[int] {
	out := make([]box.Row[int], len(ids))
	for i, id := range ids {
		out[i] = box.NewRow(id, box.Component(id*10))
	}
	return out
}

func setup(b tree) (*Memory, *BoxSource[string, int]) {
	src := NewBoxSource(b)
	m := NewMemory(src)
	m.ReloadData()
	return m, src
}

func TestMemoryReloadData(t *testing.T) {
	b := box.New(
		box.NewSection("a", rows(1, 2)...).WithHeader("A"),
		box.NewSection("b", rows(3)...),
	)
	m, _ := setup(b)

	if err := Verify(m, b); err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	stats := m.Stats()
	if stats.Reloads != 1 || stats.CellsCreated != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if got := m.String(); !strings.Contains(got, "[0] a: 1 2") {
		t.Errorf("String() = %q", got)
	}
}

func TestMemoryRowBatchPreservesState(t *testing.T) {
	m, src := setup(box.New(box.NewSection("s", rows(0, 1, 2, 3)...)))
	if err := m.Select(0, 3); err != nil {
		t.Fatal(err)
	}
	if err := m.SetFirstResponder(0, 1); err != nil {
		t.Fatal(err)
	}
	selected := m.Cell(0, 3).Serial()

	next := box.New(box.NewSection("s", rows(3, 0, 1, 9)...))
	err := m.PerformBatchUpdates(func(b Batch) {
		src.Stage(next)
		b.DeleteRows(0, 2)
		b.MoveRow(0, 3, 0)
		b.InsertRows(0, 3)
	})
	if err != nil {
		t.Fatalf("PerformBatchUpdates() error: %v", err)
	}
	if err := Verify(m, next); err != nil {
		t.Fatalf("Verify() error: %v", err)
	}

	if s, r, ok := m.SelectedCell(); !ok || s != 0 || r != 0 {
		t.Errorf("selected = (%d, %d, %v), want (0, 0, true)", s, r, ok)
	}
	if m.Cell(0, 0).Serial() != selected {
		t.Error("moved cell was recreated")
	}
	if s, r, ok := m.FirstResponder(); !ok || s != 0 || r != 2 {
		t.Errorf("first responder = (%d, %d, %v), want (0, 2, true)", s, r, ok)
	}
	if got := m.Stats().CellsDiscarded; got != 1 {
		t.Errorf("CellsDiscarded = %d, want 1", got)
	}
}

func TestMemoryDeleteAndInsertAtSameIndex(t *testing.T) {
	m, src := setup(box.New(box.NewSection("s", rows(0, 1, 2, 3)...)))
	next := box.New(box.NewSection("s", rows(0, 1, 7, 3)...))

	err := m.PerformBatchUpdates(func(b Batch) {
		src.Stage(next)
		b.DeleteRows(0, 2)
		b.InsertRows(0, 2)
	})
	if err != nil {
		t.Fatalf("PerformBatchUpdates() error: %v", err)
	}
	if err := Verify(m, next); err != nil {
		t.Fatal(err)
	}
}

func TestMemorySectionBatch(t *testing.T) {
	m, src := setup(box.New(
		box.NewSection("a", rows(1)...),
		box.NewSection("b", rows(2)...),
		box.NewSection("c", rows(3)...),
	))
	keep := m.Section(2).Serial()

	next := box.New(
		box.NewSection("c", rows(3)...),
		box.NewSection("a", rows(1)...),
		box.NewSection("d", rows(4, 5)...),
	)
	err := m.PerformBatchUpdates(func(b Batch) {
		src.Stage(next)
		b.DeleteSections(1)
		b.MoveSection(2, 0)
		b.InsertSections(2)
	})
	if err != nil {
		t.Fatalf("PerformBatchUpdates() error: %v", err)
	}
	if err := Verify(m, next); err != nil {
		t.Fatal(err)
	}
	if m.Section(0).Serial() != keep {
		t.Error("moved section was recreated")
	}
}

func TestMemoryRejectsInvalidBatches(t *testing.T) {
	base := box.New(box.NewSection("s", rows(0, 1, 2)...))

	tests := []struct {
		name  string
		stage tree
		apply func(b Batch)
		code  string
	}{
		{
			name:  "delete out of range",
			stage: box.New(box.NewSection("s", rows(0, 1)...)),
			apply: func(b Batch) { b.DeleteRows(0, 3) },
			code:  "E302",
		},
		{
			name:  "insert out of range",
			stage: box.New(box.NewSection("s", rows(0, 1, 2, 3)...)),
			apply: func(b Batch) { b.InsertRows(0, 5) },
			code:  "E302",
		},
		{
			name:  "delete twice",
			stage: box.New(box.NewSection("s", rows(0)...)),
			apply: func(b Batch) { b.DeleteRows(0, 1, 1) },
			code:  "E304",
		},
		{
			name:  "moved and deleted",
			stage: box.New(box.NewSection("s", rows(0, 1)...)),
			apply: func(b Batch) {
				b.DeleteRows(0, 2)
				b.MoveRow(0, 2, 0)
			},
			code: "E304",
		},
		{
			name:  "count mismatch",
			stage: box.New(box.NewSection("s", rows(0, 1, 2, 3)...)),
			apply: func(b Batch) {},
			code:  "E303",
		},
		{
			name:  "mixed levels",
			stage: base,
			apply: func(b Batch) {
				b.InsertSections(1)
				b.DeleteRows(0, 0)
			},
			code: "E304",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, src := setup(base)
			before := m.String()
			err := m.PerformBatchUpdates(func(b Batch) {
				src.Stage(tt.stage)
				tt.apply(b)
			})
			if !errors.HasCode(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if m.String() != before {
				t.Error("rejected batch mutated the surface")
			}
		})
	}
}

func TestMemoryRejectsNestedBatch(t *testing.T) {
	m, _ := setup(box.New(box.NewSection("s", rows(0)...)))
	var inner error
	err := m.PerformBatchUpdates(func(b Batch) {
		inner = m.PerformBatchUpdates(func(Batch) {})
	})
	if err != nil {
		t.Fatalf("outer batch error: %v", err)
	}
	if !errors.HasCode(inner, "E304") {
		t.Errorf("nested batch error = %v, want E304", inner)
	}
}

func TestMemoryReconfigureKeepsCell(t *testing.T) {
	m, src := setup(box.New(box.NewSection("s", rows(1)...).WithFooter("f")))
	cell := m.Cell(0, 0)
	cell.Animating = true

	next := box.New(box.NewSection[string, int]("s", box.NewRow(1, box.Component("new"))).WithFooter("g"))
	src.Stage(next)
	if err := m.ReconfigureRow(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.ReconfigureFooter(0); err != nil {
		t.Fatal(err)
	}

	if m.Cell(0, 0) != cell || !cell.Animating {
		t.Error("reconfigure replaced the cell or dropped its state")
	}
	if cell.Configured != 2 {
		t.Errorf("Configured = %d, want 2", cell.Configured)
	}
	if err := Verify(m, next); err != nil {
		t.Fatal(err)
	}
	if err := m.ReconfigureRow(0, 4); !errors.HasCode(err, "E302") {
		t.Errorf("out of range reconfigure error = %v, want E302", err)
	}
}

func TestVerifyDetectsStaleContent(t *testing.T) {
	m, _ := setup(box.New(box.NewSection("s", rows(1)...)))
	stale := box.New(box.NewSection[string, int]("s", box.NewRow(1, box.Component("other"))))
	if err := Verify(m, stale); !errors.HasCode(err, "E143") {
		t.Errorf("Verify() error = %v, want E143", err)
	}
}
