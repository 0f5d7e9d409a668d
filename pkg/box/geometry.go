package box

// Insets are edge insets in points.
type Insets struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// Horizontal returns Left + Right.
func (i Insets) Horizontal() float64 {
	return i.Left + i.Right
}

// Vertical returns Top + Bottom.
func (i Insets) Vertical() float64 {
	return i.Top + i.Bottom
}

// Size is a measured extent.
type Size struct {
	Width  float64
	Height float64
}
