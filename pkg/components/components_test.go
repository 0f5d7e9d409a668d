package components

import (
	"testing"

	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/focus"
)

func TestTextLines(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		columns float64
		want    int
	}{
		{"empty", "", 10, 1},
		{"fits", "hello", 10, 1},
		{"wraps", "one two three four", 10, 2},
		{"paragraphs", "a\nb\nc", 10, 3},
		{"long word", "abcdefghijkl", 5, 3},
		{"wide runes", "日本語テキスト", 6, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Text{Body: tt.body, LineHeight: 10, CharWidth: 1}
			if got := text.Lines(tt.columns, 0); got != tt.want {
				t.Errorf("Lines() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTextHeight(t *testing.T) {
	text := Text{
		Body:       "one two three four",
		LineHeight: 18,
		CharWidth:  8,
		Insets:     box.Insets{Top: 6, Left: 4, Bottom: 6, Right: 4},
	}
	// (120 - 32 - 8) / 8 = 10 columns
	if got := text.Height(120, 32); got != 2*18+12 {
		t.Errorf("Height() = %v, want %v", got, 2*18+12)
	}
	if got := text.EstimatedHeight(120, 32); got != 18+12 {
		t.Errorf("EstimatedHeight() = %v, want %v", got, 18+12)
	}
}

func TestSized(t *testing.T) {
	s := Sized{Base: Label{"x"}, Fixed: 44}
	if s.EstimatedHeight(0, 0) != 44 {
		t.Error("zero estimate should fall back to the fixed height")
	}
	if l, ok := box.As[Label](s); !ok || l.Text != "x" {
		t.Error("Sized should unwrap to its base")
	}
}

func TestCustomInputCapabilities(t *testing.T) {
	c := Sized{
		Fixed: 44,
		Base: CustomInput{
			Base:   Label{"date"},
			Input:  Label{"picker"},
			Status: focus.ContentPopulated,
		},
	}

	e := focus.EligibilityOf(c)
	if !e.IsEligible() || e.Status() != focus.ContentPopulated {
		t.Errorf("EligibilityOf() = %+v", e)
	}
	p, ok := box.As[focus.CustomInputProviding](c)
	if !ok || p.CustomInput() != (Label{"picker"}) {
		t.Error("CustomInputProviding not found through the wrapper")
	}
	if _, ok := box.As[box.HeightCustomizing](c); !ok {
		t.Error("outer height capability lost")
	}
}

func TestCustomInputView(t *testing.T) {
	chain := focus.NewChain()
	v := NewCustomInputView(chain, func() focus.Neighbors { return focus.Neighbors{Next: true} })
	v.Render(CustomInput{Base: Label{"date"}, Input: Label{"picker"}, Highlight: "#eee"})

	v.Focus()
	if !v.IsFirstResponder() || v.InputView().Input != (Label{"picker"}) {
		t.Fatal("view should show its custom input when focused")
	}
	if !v.Toolbar().Neighbors.Next {
		t.Error("toolbar should enable next")
	}

	v.Render(CustomInput{Base: Label{"date"}})
	if v.IsFirstResponder() {
		t.Error("removing the input should resign")
	}
	v.Close()
	if chain.Notifier().Len() != 0 {
		t.Error("keyboard registration leaked")
	}
}
