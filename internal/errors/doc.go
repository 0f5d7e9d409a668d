// Package errors provides structured, actionable error values for bento.
//
// Each error carries a unique code (e.g., "E201") that maps to a short
// message, a category, an optional hint and a documentation URL.
//
// # Error Categories
//
//   - identity: duplicate identifiers inside a box
//   - surface: batch updates the list surface refused
//   - protocol: malformed script frames
//   - config: bento.json problems
//   - cli: scenario and command errors
//
// # Usage
//
//	err := errors.New("E202").
//	    WithDetailf("Row id %v appears twice in section %v", row, section)
//
//	fmt.Println(err.Format())
package errors
