// Package box defines the declarative tree that bento reconciles against a
// list surface.
//
// A Box is an ordered list of sections. Each Section carries an identifier,
// an optional header component, an optional footer component and an ordered
// list of rows. Each Row pairs an identifier with a component.
//
// # Identity
//
// Section identifiers must be unique among the sections of a box, and row
// identifiers must be unique among the rows of their section. Identifiers are
// what the diff engine matches on: an item keeps its identifier across renders
// even when its content changes.
//
// # Components and Capabilities
//
// A Component is any immutable value. Components opt into behaviors by
// implementing capability interfaces such as HeightCustomizing. Capabilities
// are looked up by type:
//
//	if h, ok := box.As[box.HeightCustomizing](row.Component); ok {
//	    height := h.Height(width, margins.Horizontal())
//	}
//
// Components that decorate another component implement Wrapper so that the
// lookup can see through them.
package box
