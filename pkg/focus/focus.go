// Package focus provides focus capabilities for list items.
//
// Components declare whether they can take focus by implementing Focusable.
// Views that can become the active input target implement Target. Neighbor
// lookups walk a box in display order and drive the previous/next controls of
// an input toolbar.
package focus

import "github.com/vango-dev/bento/pkg/box"

// ContentStatus describes whether a focusable item already holds a value.
type ContentStatus uint8

const (
	// ContentEmpty means the item has no value yet.
	ContentEmpty ContentStatus = iota

	// ContentPopulated means the item holds a value.
	ContentPopulated
)

// String returns the string representation of the ContentStatus.
func (s ContentStatus) String() string {
	if s == ContentPopulated {
		return "populated"
	}
	return "empty"
}

// Eligibility describes whether an item can take focus.
type Eligibility struct {
	eligible bool
	status   ContentStatus
}

// Ineligible is the eligibility of items that never take focus.
var Ineligible = Eligibility{}

// Eligible returns the eligibility of a focusable item.
func Eligible(status ContentStatus) Eligibility {
	return Eligibility{eligible: true, status: status}
}

// IsEligible reports whether the item can take focus.
func (e Eligibility) IsEligible() bool {
	return e.eligible
}

// Status returns the content status of an eligible item.
func (e Eligibility) Status() ContentStatus {
	return e.status
}

// Accepts reports whether the item qualifies as a focus destination.
// With skipPopulated, items that already hold a value are passed over.
func (e Eligibility) Accepts(skipPopulated bool) bool {
	if !e.eligible {
		return false
	}
	return !skipPopulated || e.status == ContentEmpty
}

// Focusable is the capability of components that can take focus.
type Focusable interface {
	FocusEligibility() Eligibility
}

// CustomInputProviding is the capability of components that replace the
// system keyboard with their own input view while focused.
type CustomInputProviding interface {
	CustomInput() box.Component
}

// Target is a view that can be asked to become the active input target.
type Target interface {
	// Focus requests that the view become the active input target.
	Focus()

	// NeighboringFocusEligibilityDidChange tells the view that the
	// focusability of its neighbors changed.
	NeighboringFocusEligibilityDidChange()
}

// EligibilityOf returns the eligibility of a component.
func EligibilityOf(c box.Component) Eligibility {
	if f, ok := box.As[Focusable](c); ok {
		return f.FocusEligibility()
	}
	return Ineligible
}
