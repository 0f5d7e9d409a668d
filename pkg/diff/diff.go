package diff

import (
	"sort"

	"github.com/vango-dev/bento/pkg/box"
)

// Compute returns the script that transforms prev into next.
//
// Both boxes must have unique identifiers in every sibling scope; Compute
// panics otherwise because a keyed diff over duplicate keys is undefined.
func Compute[S, R comparable](prev, next box.Box[S, R]) *Script[S, R] {
	prev.MustValidate()
	next.MustValidate()

	script := &Script[S, R]{Old: prev, New: next}

	// Identical trees - nothing to do
	if prev.Equal(next) {
		return script
	}

	oldKeys := make([]S, len(prev.Sections))
	for i := range prev.Sections {
		oldKeys[i] = prev.Sections[i].ID
	}
	newKeys := make([]S, len(next.Sections))
	for j := range next.Sections {
		newKeys[j] = next.Sections[j].ID
	}

	sections, matched := keyed(oldKeys, newKeys, func(i, j int) bool {
		return prev.Sections[i].SupplementsEqual(next.Sections[j])
	})
	script.Sections = sections

	// Diff rows of every surviving section, moved ones included
	for _, m := range matched {
		oldSec := &prev.Sections[m.From]
		newSec := &next.Sections[m.To]
		rows := diffRows(oldSec.Rows, newSec.Rows)
		if !rows.IsEmpty() {
			script.Rows = append(script.Rows, RowChanges{From: m.From, To: m.To, Changeset: rows})
		}
	}

	return script
}

// diffRows computes the keyed changeset of two row lists.
func diffRows[R comparable](prev, next []box.Row[R]) Changeset {
	oldKeys := make([]R, len(prev))
	for i := range prev {
		oldKeys[i] = prev[i].ID
	}
	newKeys := make([]R, len(next))
	for j := range next {
		newKeys[j] = next[j].ID
	}
	cs, _ := keyed(oldKeys, newKeys, func(i, j int) bool {
		return box.Equal(prev[i].Component, next[j].Component)
	})
	return cs
}

// keyed diffs two key sequences. same reports whether the matched items at
// old index i and new index j have equal content. It returns the changeset
// and every matched pair in new order.
func keyed[K comparable](oldKeys, newKeys []K, same func(i, j int) bool) (Changeset, []Move) {
	var cs Changeset

	oldIndex := make(map[K]int, len(oldKeys))
	for i, k := range oldKeys {
		oldIndex[k] = i
	}

	matchedOld := make([]bool, len(oldKeys))
	pairs := make([]Move, 0, len(newKeys))

	for j, k := range newKeys {
		if i, ok := oldIndex[k]; ok {
			matchedOld[i] = true
			pairs = append(pairs, Move{From: i, To: j})
		} else {
			cs.Inserts = append(cs.Inserts, j)
		}
	}

	for i := range oldKeys {
		if !matchedOld[i] {
			cs.Deletes = append(cs.Deletes, i)
		}
	}

	stay := stationary(pairs)
	for n, p := range pairs {
		if !stay[n] {
			cs.Moves = append(cs.Moves, p)
		}
		if !same(p.From, p.To) {
			cs.Updates = append(cs.Updates, p)
		}
	}

	return cs, pairs
}

// stationary marks the pairs that keep their place: those on the longest
// increasing subsequence of old indices taken in new order.
func stationary(pairs []Move) []bool {
	stay := make([]bool, len(pairs))
	if len(pairs) == 0 {
		return stay
	}

	// Fast path: nothing reordered
	ordered := true
	for n := 1; n < len(pairs); n++ {
		if pairs[n].From < pairs[n-1].From {
			ordered = false
			break
		}
	}
	if ordered {
		for n := range stay {
			stay[n] = true
		}
		return stay
	}

	// Patience sorting. tops[k] is the pair index on top of pile k; piles
	// stay sorted by the old index of their top.
	tops := make([]int, 0, len(pairs))
	prev := make([]int, len(pairs))
	for n, p := range pairs {
		k := sort.Search(len(tops), func(k int) bool {
			return pairs[tops[k]].From > p.From
		})
		if k > 0 {
			prev[n] = tops[k-1]
		} else {
			prev[n] = -1
		}
		if k == len(tops) {
			tops = append(tops, n)
		} else {
			tops[k] = n
		}
	}

	for n := tops[len(tops)-1]; n >= 0; n = prev[n] {
		stay[n] = true
	}
	return stay
}
