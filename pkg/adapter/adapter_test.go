package adapter

import (
	"context"
	"testing"

	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/components"
	"github.com/vango-dev/bento/pkg/engine"
	"github.com/vango-dev/bento/pkg/surface"
)

func TestSeparatorHeight(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		want float64
	}{
		{"no separators", Geometry{ContentScaleFactor: 2}, 0},
		{"1x", Geometry{ContentScaleFactor: 1, Separators: true}, 1},
		{"2x", Geometry{ContentScaleFactor: 2, Separators: true}, 0.5},
		{"3x", Geometry{ContentScaleFactor: 3, Separators: true}, 1.0 / 3.0},
		{"unset scale", Geometry{Separators: true}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.SeparatorHeight(); got != tt.want {
				t.Errorf("SeparatorHeight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentMargins(t *testing.T) {
	g := Geometry{Margins: box.Insets{Top: 8, Left: 16, Bottom: 8, Right: 20}}
	want := box.Insets{Left: 16, Right: 20}
	if got := g.ContentMargins(); got != want {
		t.Errorf("ContentMargins() = %+v, want %+v", got, want)
	}
}

func newAdapter(t *testing.T, g Geometry, b box.Box[string, int]) *Adapter[string, int] {
	t.Helper()
	e := engine.New[string, int](surface.NewMemory(nil))
	if err := e.Render(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	return New(e, g)
}

func TestHeights(t *testing.T) {
	g := Geometry{Width: 375, Margins: box.Insets{Left: 16, Right: 16}, ContentScaleFactor: 2, Separators: true}
	a := newAdapter(t, g, box.New(
		box.NewSection[string, int]("s",
			box.NewRow(1, box.Component(components.Sized{Base: components.Label{Text: "a"}, Fixed: 44, Estimate: 40})),
			box.NewRow(2, box.Component(components.Label{Text: "b"})),
		).WithHeader(components.Sized{Fixed: 28, Estimate: 10}),
	))

	if got := a.HeightForRow(0, 0); got != 44.5 {
		t.Errorf("HeightForRow() = %v, want 44.5", got)
	}
	if got := a.EstimatedHeightForRow(0, 0); got != 40 {
		t.Errorf("EstimatedHeightForRow() = %v, want 40", got)
	}
	if got := a.HeightForRow(0, 1); got != AutomaticDimension {
		t.Errorf("HeightForRow(label) = %v, want AutomaticDimension", got)
	}
	if got := a.HeightForHeader(0); got != 28 {
		t.Errorf("HeightForHeader() = %v, want 28", got)
	}
	if got := a.EstimatedHeightForHeader(0); got != 28 {
		t.Errorf("EstimatedHeightForHeader() = %v, want exact height 28", got)
	}
	if got := a.HeightForFooter(0); got != AutomaticDimension {
		t.Errorf("HeightForFooter() = %v, want AutomaticDimension", got)
	}
	if got := a.EstimatedHeightForFooter(0); got != AutomaticDimension {
		t.Errorf("EstimatedHeightForFooter() = %v, want AutomaticDimension", got)
	}
}

func TestHeightUsesInheritedMargins(t *testing.T) {
	text := components.Text{Body: "one two three four", LineHeight: 20, CharWidth: 10}
	b := box.New(box.NewSection[string, int]("s", box.NewRow(1, box.Component(text))))

	// 140pt wide minus 2*20pt margins leaves 10 columns: "one two" / "three four".
	a := newAdapter(t, Geometry{Width: 140, Margins: box.Insets{Left: 20, Right: 20}}, b)
	if got := a.HeightForRow(0, 0); got != 40 {
		t.Errorf("HeightForRow() = %v, want 40", got)
	}

	a.SetGeometry(Geometry{Width: 240, Margins: box.Insets{Left: 20, Right: 20}})
	if got := a.HeightForRow(0, 0); got != 20 {
		t.Errorf("HeightForRow() after widening = %v, want 20", got)
	}
}

func TestViews(t *testing.T) {
	g := Geometry{Width: 320, Margins: box.Insets{Top: 4, Left: 12, Right: 12}}
	a := newAdapter(t, g, box.New(
		box.NewSection[string, int]("s", box.NewRow(7, box.Component("seven"))).WithFooter("end"),
	))

	cell := a.CellForRow(0, 0)
	if cell.ID != 7 || cell.Component != "seven" {
		t.Errorf("CellForRow() = %+v", cell)
	}
	if cell.LayoutMargins != (box.Insets{Left: 12, Right: 12}) {
		t.Errorf("LayoutMargins = %+v", cell.LayoutMargins)
	}
	if _, ok := a.ViewForHeader(0); ok {
		t.Error("section has no header")
	}
	if v, ok := a.ViewForFooter(0); !ok || v.Component != "end" || v.ID != "s" {
		t.Errorf("ViewForFooter() = %+v, %v", v, ok)
	}
	if a.NumberOfSections() != 1 || a.NumberOfRows(0) != 1 {
		t.Error("counts do not reflect the rendered box")
	}
}
