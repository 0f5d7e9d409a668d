// Package diff computes edit scripts between two boxes.
//
// Compute matches sections by identifier, then matches rows by identifier
// inside every section present in both boxes. The result is a Script made of
// one section-level Changeset and one row-level Changeset per surviving
// section.
//
// # Index Convention
//
// Deletes, move sources and update sources refer to positions before the
// batch. Inserts, move destinations and update destinations refer to positions
// after the batch. A list surface that processes deletes and moves before
// inserts can replay a Changeset without any index going stale.
//
// # Moves
//
// Matched items whose old positions, read in new order, form the longest
// increasing subsequence keep their place; every other matched item is
// reported as a Move. This yields the fewest possible moves. When several
// longest subsequences exist, the one found by patience sorting is used: each
// item goes on the leftmost pile whose top is greater, and the subsequence is
// read back from the top of the last pile. Unmatched items never affect the
// relative order of the rest.
package diff
