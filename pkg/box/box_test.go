package box

import (
	"testing"

	"github.com/vango-dev/bento/internal/errors"
)

type label struct{ text string }

type sized struct {
	text   string
	height float64
}

func (s sized) Height(width, margins float64) float64          { return s.height }
func (s sized) EstimatedHeight(width, margins float64) float64 { return s.height / 2 }

type decorated struct{ base Component }

func (d decorated) Unwrap() Component { return d.base }

type alwaysEqual struct{ n int }

func (alwaysEqual) Equal(other Component) bool {
	_, ok := other.(alwaysEqual)
	return ok
}

func TestAs(t *testing.T) {
	tests := []struct {
		name string
		c    Component
		want bool
	}{
		{"nil", nil, false},
		{"plain", label{"x"}, false},
		{"capable", sized{"x", 44}, true},
		{"wrapped capable", decorated{sized{"x", 44}}, true},
		{"wrapped plain", decorated{label{"x"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := As[HeightCustomizing](tt.c)
			if ok != tt.want {
				t.Fatalf("As ok = %v, want %v", ok, tt.want)
			}
			if ok && h.Height(320, 0) != 44 {
				t.Errorf("Height = %v, want 44", h.Height(320, 0))
			}
		})
	}
}

type selfWrap struct{}

func (s selfWrap) Unwrap() Component { return s }

func TestAsCyclicWrapperTerminates(t *testing.T) {
	if _, ok := As[HeightCustomizing](selfWrap{}); ok {
		t.Error("cyclic wrapper should not report a capability")
	}
}

func TestSlotAs(t *testing.T) {
	sec := NewSection[string, int]("s").WithHeader(sized{"h", 30})

	if _, ok := SlotAs[HeightCustomizing](sec, SlotHeader); !ok {
		t.Error("header should provide HeightCustomizing")
	}
	if _, ok := SlotAs[HeightCustomizing](sec, SlotFooter); ok {
		t.Error("missing footer should not provide a capability")
	}
}

func TestRowAs(t *testing.T) {
	row := NewRow(1, sized{"r", 10})
	if _, ok := RowAs[HeightCustomizing](row); !ok {
		t.Error("row should provide HeightCustomizing")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Component
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", label{"x"}, nil, false},
		{"same struct", label{"x"}, label{"x"}, true},
		{"different struct", label{"x"}, label{"y"}, false},
		{"different types", label{"x"}, sized{"x", 0}, false},
		{"strings", "a", "a", true},
		{"string vs int", "1", 1, false},
		{"equatable", alwaysEqual{1}, alwaysEqual{2}, true},
		{"slices", []int{1, 2}, []int{1, 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	ok := New(
		NewSection("a", NewRow(1, "x"), NewRow(2, "y")),
		NewSection("b", NewRow(1, "x")),
	)
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	dupSection := New(NewSection[string, int]("a"), NewSection[string, int]("a"))
	if err := dupSection.Validate(); !errors.HasCode(err, "E201") {
		t.Errorf("duplicate section: err = %v, want E201", err)
	}

	dupRow := New(NewSection("a", NewRow(1, "x"), NewRow(1, "y")))
	if err := dupRow.Validate(); !errors.HasCode(err, "E202") {
		t.Errorf("duplicate row: err = %v, want E202", err)
	}
}

func TestMustValidatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustValidate should panic on duplicate ids")
		}
	}()
	New(NewSection[string, int]("a"), NewSection[string, int]("a")).MustValidate()
}

func TestBoxEqual(t *testing.T) {
	a := New(NewSection("s", NewRow(1, "x")).WithFooter("f"))
	b := New(NewSection("s", NewRow(1, "x")).WithFooter("f"))
	c := New(NewSection("s", NewRow(1, "y")).WithFooter("f"))
	d := New(NewSection("s", NewRow(1, "x")))

	if !a.Equal(b) {
		t.Error("identical boxes should be equal")
	}
	if a.Equal(c) {
		t.Error("row content change should make boxes unequal")
	}
	if a.Equal(d) {
		t.Error("footer change should make boxes unequal")
	}
}

func TestIndexLookups(t *testing.T) {
	b := New(NewSection("a", NewRow(1, "x")), NewSection("b", NewRow(5, "y"), NewRow(6, "z")))

	if i, ok := b.SectionIndex("b"); !ok || i != 1 {
		t.Errorf("SectionIndex(b) = %d, %v", i, ok)
	}
	if _, ok := b.SectionIndex("zz"); ok {
		t.Error("SectionIndex(zz) should fail")
	}
	if j, ok := b.Sections[1].RowIndex(6); !ok || j != 1 {
		t.Errorf("RowIndex(6) = %d, %v", j, ok)
	}
	if b.RowCount() != 3 {
		t.Errorf("RowCount = %d, want 3", b.RowCount())
	}
}

func TestInsets(t *testing.T) {
	in := Insets{Top: 1, Left: 16, Bottom: 2, Right: 20}
	if in.Horizontal() != 36 || in.Vertical() != 3 {
		t.Errorf("Horizontal/Vertical = %v/%v", in.Horizontal(), in.Vertical())
	}
}
