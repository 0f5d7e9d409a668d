// Package protocol implements the binary wire format bento uses to publish
// commits to inspectors.
//
// Every message is framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameScript (0x01): the edit script of one commit
//   - FrameTree (0x02): a snapshot of the current box
//   - FrameError (0x03): a render that fell back to a full reload
//
// # Encoding
//
// Integers are varints (protobuf-style). Indices that may be -1 are ZigZag
// encoded. Strings are length-prefixed. Section and row identifiers are
// carried as their fmt rendering, so a decoded script can be replayed
// against keys but not converted back to typed identifiers.
//
// Script payload:
//
//	[Generation: varint][Flags: byte][Sections: changeset][RowSets: varint count]
//	  RowSet: [From: varint][To: varint][changeset]
//	changeset: [Deletes][Inserts][Moves][Updates]
//	  Deletes, Inserts: varint count + varint indices
//	  Moves, Updates:   varint count + (from, to) varint pairs
//	[Ops: varint count]
//	  Op: [Kind: byte][Level: byte][Section, Row, ToSection, ToRow: svarint]
//	      [SectionID: string][RowID: string]
package protocol
