package focus

import "github.com/vango-dev/bento/pkg/box"

// Chain tracks the single first responder of a surface and owns the keyboard
// notifier its responders subscribe to.
type Chain struct {
	current  *Responder
	notifier *Notifier
}

// NewChain creates a responder chain.
func NewChain() *Chain {
	return &Chain{notifier: NewNotifier()}
}

// Current returns the first responder, or nil.
func (c *Chain) Current() *Responder {
	return c.current
}

// Notifier returns the keyboard notifier of the chain.
func (c *Chain) Notifier() *Notifier {
	return c.notifier
}

// KeyboardDidHide posts the keyboard-hidden event.
func (c *Chain) KeyboardDidHide() {
	c.notifier.Post(KeyboardDidHide)
}

// InputView is the custom keyboard shown while a responder is focused.
type InputView struct {
	Input   box.Component
	Updates int
}

// Toolbar is the input accessory with previous/next controls.
type Toolbar struct {
	Neighbors Neighbors
	Updates   int
}

// Responder is the focus state of a view that offers a custom input. It
// implements Target.
type Responder struct {
	chain     *Chain
	neighbors func() Neighbors

	input       box.Component
	inputView   *InputView
	toolbar     *Toolbar
	first       bool
	highlighted bool
	reloads     int

	cancelKeyboard func()
}

// NewResponder creates a responder in chain. neighbors reports the current
// neighbor availability of the view's row; it may be nil.
func NewResponder(chain *Chain, neighbors func() Neighbors) *Responder {
	return &Responder{chain: chain, neighbors: neighbors}
}

// SetInput replaces the custom input. While the responder is first, a new
// input refreshes the input view and a nil input resigns.
func (r *Responder) SetInput(input box.Component) {
	r.input = input
	if !r.first {
		return
	}
	if input != nil {
		if r.inputView == nil {
			r.inputView = &InputView{}
		}
		r.inputView.Input = input
		r.inputView.Updates++
		r.reloadInputViews()
	} else {
		r.ResignFirstResponder()
	}
}

// BecomeFirstResponder makes the responder the chain's first responder. It
// installs the input view and toolbar and starts observing keyboard
// dismissal.
func (r *Responder) BecomeFirstResponder() bool {
	if r.first {
		return true
	}
	if r.input != nil {
		r.inputView = &InputView{Input: r.input, Updates: 1}
		r.toolbar = &Toolbar{Neighbors: r.currentNeighbors()}
	}

	if prev := r.chain.current; prev != nil && prev != r {
		prev.ResignFirstResponder()
	}
	r.chain.current = r
	r.first = true
	r.highlighted = true

	if r.cancelKeyboard == nil {
		r.cancelKeyboard = r.chain.notifier.Subscribe(KeyboardDidHide, r.keyboardDidHide)
	}
	return true
}

// ResignFirstResponder gives up first responder status.
func (r *Responder) ResignFirstResponder() bool {
	r.highlighted = false
	if !r.first {
		return true
	}
	r.first = false
	if r.chain.current == r {
		r.chain.current = nil
	}
	return true
}

// Focus implements Target.
func (r *Responder) Focus() {
	r.BecomeFirstResponder()
}

// NeighboringFocusEligibilityDidChange implements Target.
func (r *Responder) NeighboringFocusEligibilityDidChange() {
	if r.toolbar != nil {
		r.toolbar.Neighbors = r.currentNeighbors()
		r.toolbar.Updates++
	}
	r.reloadInputViews()
}

func (r *Responder) keyboardDidHide() {
	if r.first {
		r.ResignFirstResponder()
	}
	r.inputView = nil
	r.toolbar = nil
	r.release()
}

// Close releases the keyboard registration. Views call it when discarded.
func (r *Responder) Close() {
	if r.first {
		r.ResignFirstResponder()
	}
	r.release()
}

func (r *Responder) release() {
	if r.cancelKeyboard != nil {
		r.cancelKeyboard()
		r.cancelKeyboard = nil
	}
}

func (r *Responder) currentNeighbors() Neighbors {
	if r.neighbors == nil {
		return Neighbors{}
	}
	return r.neighbors()
}

func (r *Responder) reloadInputViews() {
	r.reloads++
}

// IsFirstResponder reports whether the responder is first.
func (r *Responder) IsFirstResponder() bool { return r.first }

// IsHighlighted reports whether the view shows its focus highlight.
func (r *Responder) IsHighlighted() bool { return r.highlighted }

// InputView returns the installed custom input view, or nil.
func (r *Responder) InputView() *InputView { return r.inputView }

// Toolbar returns the installed toolbar, or nil.
func (r *Responder) Toolbar() *Toolbar { return r.toolbar }

// Reloads counts input view reloads.
func (r *Responder) Reloads() int { return r.reloads }

// Observing reports whether the responder holds a keyboard registration.
func (r *Responder) Observing() bool { return r.cancelKeyboard != nil }
