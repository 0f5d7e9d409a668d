// Package scenario reads YAML scenario files: an ordered list of boxes to
// render one after the other, built from the stock components.
//
//	surface:
//	  width: 320
//	renders:
//	  - name: initial
//	    sections:
//	      - id: profile
//	        header: {label: Profile}
//	        rows:
//	          - id: name
//	            label: Ada Lovelace
//	          - id: bio
//	            text: {body: "Mathematician and writer", lineHeight: 18, charWidth: 8}
//	          - id: birthday
//	            label: Birthday
//	            height: 44
//	            input: date picker
//	            status: empty
//
// A component is a label or a text. A height wraps it in a fixed size and an
// input makes it focusable with a custom input view.
package scenario

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/adapter"
	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/components"
	"github.com/vango-dev/bento/pkg/focus"
)

// Scenario is a decoded scenario file.
type Scenario struct {
	// Surface overrides the configured table geometry.
	Surface *Surface `yaml:"surface,omitempty"`

	// Renders are the boxes to render, in order.
	Renders []Render `yaml:"renders"`

	path string
}

// Surface holds geometry overrides. Unset fields keep the configured value.
type Surface struct {
	Width              *float64 `yaml:"width,omitempty"`
	ContentScaleFactor *float64 `yaml:"contentScaleFactor,omitempty"`
	Separators         *bool    `yaml:"separators,omitempty"`
	Margins            *Margins `yaml:"margins,omitempty"`
}

// Margins are layout margins in points.
type Margins struct {
	Top    float64 `yaml:"top,omitempty"`
	Left   float64 `yaml:"left,omitempty"`
	Bottom float64 `yaml:"bottom,omitempty"`
	Right  float64 `yaml:"right,omitempty"`
}

// Render is one box.
type Render struct {
	Name     string    `yaml:"name,omitempty"`
	Sections []Section `yaml:"sections"`
}

// Section describes a box section.
type Section struct {
	ID     string     `yaml:"id"`
	Header *Component `yaml:"header,omitempty"`
	Footer *Component `yaml:"footer,omitempty"`
	Rows   []Row      `yaml:"rows,omitempty"`
}

// Row describes a box row.
type Row struct {
	ID        string `yaml:"id"`
	Component `yaml:",inline"`
}

// Component describes a stock component.
type Component struct {
	Label string `yaml:"label,omitempty"`
	Text  *Text  `yaml:"text,omitempty"`

	Height   float64 `yaml:"height,omitempty"`
	Estimate float64 `yaml:"estimate,omitempty"`

	Input     string `yaml:"input,omitempty"`
	Status    string `yaml:"status,omitempty"`
	Highlight string `yaml:"highlight,omitempty"`
}

// Text describes wrapped body text.
type Text struct {
	Body       string  `yaml:"body"`
	LineHeight float64 `yaml:"lineHeight"`
	CharWidth  float64 `yaml:"charWidth"`
	Insets     Margins `yaml:"insets,omitempty"`
}

// Load reads and decodes a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").WithDetail(path)
		}
		return nil, errors.New("E142").WithDetail(path).Wrap(err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	s.path = path
	return s, nil
}

// Parse decodes a scenario document. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, errors.New("E142").WithDetail("empty document")
		}
		return nil, errors.New("E142").Wrap(err)
	}
	if len(s.Renders) == 0 {
		return nil, errors.New("E142").WithDetail("no renders")
	}
	return &s, nil
}

// Path returns the file the scenario was loaded from.
func (s *Scenario) Path() string {
	return s.path
}

// Geometry applies the scenario's overrides to base.
func (s *Scenario) Geometry(base adapter.Geometry) adapter.Geometry {
	g := base
	if s.Surface == nil {
		return g
	}
	if s.Surface.Width != nil {
		g.Width = *s.Surface.Width
	}
	if s.Surface.ContentScaleFactor != nil {
		g.ContentScaleFactor = *s.Surface.ContentScaleFactor
	}
	if s.Surface.Separators != nil {
		g.Separators = *s.Surface.Separators
	}
	if m := s.Surface.Margins; m != nil {
		g.Margins = m.insets()
	}
	return g
}

// Boxes builds the box of every render. Duplicate identifiers are reported
// as E142 wrapping the identity error.
func (s *Scenario) Boxes() ([]box.Box[string, string], error) {
	boxes := make([]box.Box[string, string], len(s.Renders))
	for i, r := range s.Renders {
		b, err := r.Box()
		if err != nil {
			return nil, errors.New("E142").WithDetailf("render %d %q", i, r.Name).Wrap(err)
		}
		boxes[i] = b
	}
	return boxes, nil
}

// Box builds the render's box.
func (r Render) Box() (box.Box[string, string], error) {
	sections := make([]box.Section[string, string], len(r.Sections))
	for i, sec := range r.Sections {
		out := box.Section[string, string]{ID: sec.ID, Rows: make([]box.Row[string], len(sec.Rows))}
		var err error
		if sec.Header != nil {
			if out.Header, err = sec.Header.Build(); err != nil {
				return box.Box[string, string]{}, errors.New("E142").WithDetailf("header of section %q", sec.ID).Wrap(err)
			}
		}
		if sec.Footer != nil {
			if out.Footer, err = sec.Footer.Build(); err != nil {
				return box.Box[string, string]{}, errors.New("E142").WithDetailf("footer of section %q", sec.ID).Wrap(err)
			}
		}
		for j, row := range sec.Rows {
			c, err := row.Build()
			if err != nil {
				return box.Box[string, string]{}, errors.New("E142").WithDetailf("row %q of section %q", row.ID, sec.ID).Wrap(err)
			}
			out.Rows[j] = box.NewRow(row.ID, c)
		}
		sections[i] = out
	}
	b := box.New(sections...)
	if err := b.Validate(); err != nil {
		return box.Box[string, string]{}, err
	}
	return b, nil
}

// Build converts the description into a component.
func (c Component) Build() (box.Component, error) {
	var base box.Component
	switch {
	case c.Text != nil && c.Label != "":
		return nil, errors.New("E142").WithDetail("a component is either a label or a text")
	case c.Text != nil:
		base = components.Text{
			Body:       c.Text.Body,
			LineHeight: c.Text.LineHeight,
			CharWidth:  c.Text.CharWidth,
			Insets:     c.Text.Insets.insets(),
		}
	case c.Label != "":
		base = components.Label{Text: c.Label}
	default:
		return nil, errors.New("E142").WithDetail("component needs a label or a text")
	}

	if c.Height < 0 || c.Estimate < 0 {
		return nil, errors.New("E142").WithDetail("heights must not be negative")
	}
	if c.Height > 0 {
		base = components.Sized{Base: base, Fixed: c.Height, Estimate: c.Estimate}
	} else if c.Estimate > 0 {
		return nil, errors.New("E142").WithDetail("estimate without height")
	}

	if c.Input == "" {
		if c.Status != "" {
			return nil, errors.New("E142").WithDetail("status without input")
		}
		return base, nil
	}
	var status focus.ContentStatus
	switch c.Status {
	case "", "empty":
		status = focus.ContentEmpty
	case "populated":
		status = focus.ContentPopulated
	default:
		return nil, errors.New("E142").WithDetailf("unknown status %q", c.Status)
	}
	return components.CustomInput{
		Base:      base,
		Input:     components.Label{Text: c.Input},
		Status:    status,
		Highlight: c.Highlight,
	}, nil
}

func (m Margins) insets() box.Insets {
	return box.Insets{Top: m.Top, Left: m.Left, Bottom: m.Bottom, Right: m.Right}
}
