package focus

import (
	"testing"

	"github.com/vango-dev/bento/pkg/box"
)

type field struct {
	value string
}

func (f field) FocusEligibility() Eligibility {
	if f.value == "" {
		return Eligible(ContentEmpty)
	}
	return Eligible(ContentPopulated)
}

type static string

type wrapped struct{ inner box.Component }

func (w wrapped) Unwrap() box.Component { return w.inner }

func TestEligibility(t *testing.T) {
	tests := []struct {
		name        string
		c           box.Component
		eligible    bool
		acceptsAll  bool
		acceptsSkip bool
	}{
		{"plain", static("x"), false, false, false},
		{"nil", nil, false, false, false},
		{"empty field", field{}, true, true, true},
		{"populated field", field{"v"}, true, true, false},
		{"wrapped field", wrapped{field{}}, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := EligibilityOf(tt.c)
			if e.IsEligible() != tt.eligible {
				t.Errorf("IsEligible() = %v, want %v", e.IsEligible(), tt.eligible)
			}
			if e.Accepts(false) != tt.acceptsAll {
				t.Errorf("Accepts(false) = %v, want %v", e.Accepts(false), tt.acceptsAll)
			}
			if e.Accepts(true) != tt.acceptsSkip {
				t.Errorf("Accepts(true) = %v, want %v", e.Accepts(true), tt.acceptsSkip)
			}
		})
	}
}

func TestNeighbor(t *testing.T) {
	b := box.New(
		box.NewSection("a",
			box.NewRow(0, box.Component(field{})),
			box.NewRow(1, box.Component(static("label"))),
			box.NewRow(2, box.Component(field{"filled"})),
		),
		box.NewSection[string, int]("empty"),
		box.NewSection("b",
			box.NewRow(0, box.Component(static("label"))),
			box.NewRow(1, box.Component(field{})),
		),
	)

	tests := []struct {
		name   string
		from   Path
		dir    Direction
		skip   bool
		want   Path
		wantOK bool
	}{
		{"next within section", Path{0, 0}, Forward, false, Path{0, 2}, true},
		{"next skips populated across sections", Path{0, 0}, Forward, true, Path{2, 1}, true},
		{"next across empty section", Path{0, 2}, Forward, false, Path{2, 1}, true},
		{"previous across sections", Path{2, 1}, Backward, false, Path{0, 2}, true},
		{"previous skipping populated", Path{2, 1}, Backward, true, Path{0, 0}, true},
		{"none before first", Path{0, 0}, Backward, false, Path{}, false},
		{"none after last", Path{2, 1}, Forward, false, Path{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Neighbor(b, tt.from, tt.dir, tt.skip)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Neighbor() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	n := NeighborsOf(b, Path{0, 2}, false)
	if !n.Previous || !n.Next {
		t.Errorf("NeighborsOf = %+v, want both", n)
	}
}

func TestNotifier(t *testing.T) {
	n := NewNotifier()
	var calls []string

	cancelA := n.Subscribe(KeyboardDidHide, func() { calls = append(calls, "a") })
	var cancelB func()
	cancelB = n.Subscribe(KeyboardDidHide, func() {
		calls = append(calls, "b")
		cancelB()
	})
	n.Subscribe(Event(99), func() { calls = append(calls, "other") })

	n.Post(KeyboardDidHide)
	n.Post(KeyboardDidHide)
	cancelA()
	cancelA()
	n.Post(KeyboardDidHide)

	want := []string{"a", "b", "a"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
	if n.Len() != 1 {
		t.Errorf("Len() = %d, want 1", n.Len())
	}
}

func TestResponderLifecycle(t *testing.T) {
	chain := NewChain()
	neighbors := Neighbors{Next: true}
	r := NewResponder(chain, func() Neighbors { return neighbors })
	r.SetInput(static("picker"))

	r.Focus()
	if !r.IsFirstResponder() || chain.Current() != r {
		t.Fatal("Focus() did not make the responder first")
	}
	if r.InputView() == nil || r.Toolbar() == nil {
		t.Fatal("input view and toolbar should be installed")
	}
	if !r.Toolbar().Neighbors.Next || r.Toolbar().Neighbors.Previous {
		t.Errorf("toolbar neighbors = %+v", r.Toolbar().Neighbors)
	}
	if !r.Observing() {
		t.Error("first responder should observe keyboard dismissal")
	}

	neighbors = Neighbors{Previous: true}
	r.NeighboringFocusEligibilityDidChange()
	if tb := r.Toolbar(); !tb.Neighbors.Previous || tb.Neighbors.Next || tb.Updates != 1 {
		t.Errorf("toolbar = %+v after neighbor change", tb)
	}
	if r.Reloads() != 1 {
		t.Errorf("Reloads() = %d, want 1", r.Reloads())
	}

	r.SetInput(static("other"))
	if r.InputView().Input != static("other") || r.InputView().Updates != 2 {
		t.Errorf("input view = %+v", r.InputView())
	}

	chain.KeyboardDidHide()
	if r.IsFirstResponder() || chain.Current() != nil {
		t.Error("keyboard dismissal should resign")
	}
	if r.InputView() != nil || r.Toolbar() != nil {
		t.Error("keyboard dismissal should clear the input views")
	}
	if r.Observing() || chain.Notifier().Len() != 0 {
		t.Error("keyboard registration leaked")
	}
}

func TestResponderHandsOver(t *testing.T) {
	chain := NewChain()
	a := NewResponder(chain, nil)
	b := NewResponder(chain, nil)

	a.Focus()
	b.Focus()
	if a.IsFirstResponder() || !b.IsFirstResponder() || chain.Current() != b {
		t.Error("focusing b should resign a")
	}

	a.Close()
	b.Close()
	if chain.Notifier().Len() != 0 {
		t.Errorf("Len() = %d after Close, want 0", chain.Notifier().Len())
	}
	if chain.Current() != nil {
		t.Error("closed responder is still current")
	}
}

func TestResponderNilInputResigns(t *testing.T) {
	chain := NewChain()
	r := NewResponder(chain, nil)
	r.SetInput(static("picker"))
	r.Focus()

	r.SetInput(nil)
	if r.IsFirstResponder() || r.IsHighlighted() {
		t.Error("clearing the input should resign")
	}
}
