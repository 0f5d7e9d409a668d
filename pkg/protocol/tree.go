package protocol

import (
	"fmt"

	"github.com/vango-dev/bento/pkg/box"
)

// TreeRow is a row in a tree snapshot.
type TreeRow struct {
	ID        string
	Component string
}

// TreeSection is a section in a tree snapshot. Header and Footer are empty
// when the section has none.
type TreeSection struct {
	ID     string
	Header string
	Footer string
	Rows   []TreeRow
}

// TreeMessage is a snapshot of a box.
type TreeMessage struct {
	Generation uint64
	Sections   []TreeSection
}

// NewTreeMessage snapshots b.
func NewTreeMessage[S, R comparable](generation uint64, b box.Box[S, R]) *TreeMessage {
	m := &TreeMessage{Generation: generation, Sections: make([]TreeSection, len(b.Sections))}
	for i, s := range b.Sections {
		ts := TreeSection{
			ID:     fmt.Sprint(s.ID),
			Header: Describe(s.Header),
			Footer: Describe(s.Footer),
			Rows:   make([]TreeRow, len(s.Rows)),
		}
		for j, r := range s.Rows {
			ts.Rows[j] = TreeRow{ID: fmt.Sprint(r.ID), Component: Describe(r.Component)}
		}
		m.Sections[i] = ts
	}
	return m
}

// Describe renders a component for display. Stringers describe themselves;
// other values are printed with their type.
func Describe(c box.Component) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T%+v", c, c)
	}
}

// EncodeTree encodes m into a tree frame.
func EncodeTree(m *TreeMessage) (*Frame, error) {
	e := NewEncoder()
	e.WriteUvarint(m.Generation)
	e.WriteUvarint(uint64(len(m.Sections)))
	for _, s := range m.Sections {
		e.WriteString(s.ID)
		e.WriteString(s.Header)
		e.WriteString(s.Footer)
		e.WriteUvarint(uint64(len(s.Rows)))
		for _, r := range s.Rows {
			e.WriteString(r.ID)
			e.WriteString(r.Component)
		}
	}
	if e.Len() > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	return NewFrame(FrameTree, e.Bytes()), nil
}

// DecodeTree decodes a tree frame. Malformed payloads yield E160.
func DecodeTree(f *Frame) (*TreeMessage, error) {
	if f.Type != FrameTree {
		return nil, malformed("tree", ErrInvalidFrameType)
	}
	m, err := decodeTree(NewDecoder(f.Payload))
	if err != nil {
		return nil, malformed("tree", err)
	}
	return m, nil
}

func decodeTree(d *Decoder) (*TreeMessage, error) {
	m := &TreeMessage{}
	var err error
	if m.Generation, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	n, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	m.Sections = make([]TreeSection, n)
	for i := range m.Sections {
		s := &m.Sections[i]
		for _, p := range []*string{&s.ID, &s.Header, &s.Footer} {
			if *p, err = d.ReadString(); err != nil {
				return nil, err
			}
		}
		rows, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		s.Rows = make([]TreeRow, rows)
		for j := range s.Rows {
			if s.Rows[j].ID, err = d.ReadString(); err != nil {
				return nil, err
			}
			if s.Rows[j].Component, err = d.ReadString(); err != nil {
				return nil, err
			}
		}
	}
	if !d.EOF() {
		return nil, ErrTrailingBytes
	}
	return m, nil
}
