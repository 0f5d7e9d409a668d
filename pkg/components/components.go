// Package components provides stock components for bento boxes.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/focus"
)

// Label is a single line of text. It leaves sizing to the surface.
type Label struct {
	Text string
}

// Text is wrapped body text that measures its own height. Widths are in
// points; each terminal column of the text counts as CharWidth points.
type Text struct {
	Body       string
	LineHeight float64
	CharWidth  float64
	Insets     box.Insets
}

// Height implements box.HeightCustomizing.
func (t Text) Height(width, inheritedMargins float64) float64 {
	return float64(t.Lines(width, inheritedMargins))*t.LineHeight + t.Insets.Vertical()
}

// EstimatedHeight implements box.HeightCustomizing. It assumes one line per
// paragraph.
func (t Text) EstimatedHeight(width, inheritedMargins float64) float64 {
	paragraphs := strings.Count(t.Body, "\n") + 1
	return float64(paragraphs)*t.LineHeight + t.Insets.Vertical()
}

// Lines returns the number of lines the body wraps to.
func (t Text) Lines(width, inheritedMargins float64) int {
	columns := 0
	if t.CharWidth > 0 {
		columns = int((width - inheritedMargins - t.Insets.Horizontal()) / t.CharWidth)
	}
	if columns < 1 {
		columns = 1
	}
	lines := 0
	for _, paragraph := range strings.Split(t.Body, "\n") {
		lines += wrap(paragraph, columns)
	}
	return lines
}

// wrap counts the lines of greedy word wrapping at the given column width.
// Words wider than a line are broken.
func wrap(paragraph string, columns int) int {
	lines, used := 1, 0
	for _, word := range strings.Fields(paragraph) {
		w := runewidth.StringWidth(word)
		switch {
		case used == 0:
			used = w
		case used+1+w <= columns:
			used += 1 + w
			continue
		default:
			lines++
			used = w
		}
		for used > columns {
			lines++
			used -= columns
		}
	}
	return lines
}

// Sized gives a fixed height to a component that does not measure itself.
type Sized struct {
	Base     box.Component
	Fixed    float64
	Estimate float64 // zero means Fixed
}

// Height implements box.HeightCustomizing.
func (s Sized) Height(width, inheritedMargins float64) float64 {
	return s.Fixed
}

// EstimatedHeight implements box.HeightCustomizing.
func (s Sized) EstimatedHeight(width, inheritedMargins float64) float64 {
	if s.Estimate > 0 {
		return s.Estimate
	}
	return s.Fixed
}

// Unwrap implements box.Wrapper.
func (s Sized) Unwrap() box.Component {
	return s.Base
}

// CustomInput decorates a component so that it takes focus and shows Input
// instead of the system keyboard while focused.
type CustomInput struct {
	Base      box.Component
	Input     box.Component
	Status    focus.ContentStatus
	Highlight string
}

// FocusEligibility implements focus.Focusable.
func (c CustomInput) FocusEligibility() focus.Eligibility {
	return focus.Eligible(c.Status)
}

// CustomInput implements focus.CustomInputProviding.
func (c CustomInput) CustomInput() box.Component {
	return c.Input
}

// Unwrap implements box.Wrapper.
func (c CustomInput) Unwrap() box.Component {
	return c.Base
}

// CustomInputView displays a CustomInput and holds its focus state.
type CustomInputView struct {
	*focus.Responder

	Base      box.Component
	Highlight string
}

// NewCustomInputView creates a view in chain. neighbors reports the focus
// neighbors of the row the view displays.
func NewCustomInputView(chain *focus.Chain, neighbors func() focus.Neighbors) *CustomInputView {
	return &CustomInputView{Responder: focus.NewResponder(chain, neighbors)}
}

// Render applies a component to the view.
func (v *CustomInputView) Render(c CustomInput) {
	v.Base = c.Base
	v.Highlight = c.Highlight
	v.SetInput(c.Input)
}

var (
	_ box.HeightCustomizing      = Text{}
	_ box.HeightCustomizing      = Sized{}
	_ box.Wrapper                = Sized{}
	_ focus.Focusable            = CustomInput{}
	_ focus.CustomInputProviding = CustomInput{}
	_ focus.Target               = (*CustomInputView)(nil)
)
