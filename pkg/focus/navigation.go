package focus

import "github.com/vango-dev/bento/pkg/box"

// Direction is a traversal direction in display order.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Path locates a row.
type Path struct {
	Section int
	Row     int
}

// Neighbors reports which directions have a focus destination.
type Neighbors struct {
	Previous bool
	Next     bool
}

// Neighbor returns the closest row in dir, starting after from, whose
// component accepts focus. Traversal crosses section boundaries.
func Neighbor[S, R comparable](b box.Box[S, R], from Path, dir Direction, skipPopulated bool) (Path, bool) {
	s, r := from.Section, from.Row
	for {
		r += int(dir)
		for s >= 0 && s < len(b.Sections) && (r < 0 || r >= len(b.Sections[s].Rows)) {
			s += int(dir)
			if s < 0 || s >= len(b.Sections) {
				return Path{}, false
			}
			if dir == Forward {
				r = 0
			} else {
				r = len(b.Sections[s].Rows) - 1
			}
		}
		if s < 0 || s >= len(b.Sections) {
			return Path{}, false
		}
		if EligibilityOf(b.Sections[s].Rows[r].Component).Accepts(skipPopulated) {
			return Path{Section: s, Row: r}, true
		}
	}
}

// NeighborsOf returns the neighbor availability around a row.
func NeighborsOf[S, R comparable](b box.Box[S, R], at Path, skipPopulated bool) Neighbors {
	_, prev := Neighbor(b, at, Backward, skipPopulated)
	_, next := Neighbor(b, at, Forward, skipPopulated)
	return Neighbors{Previous: prev, Next: next}
}
