package protocol

import (
	"fmt"

	bentoerrors "github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/diff"
)

// Op is a flattened edit operation with identifiers rendered as text.
type Op struct {
	Kind      diff.Kind
	Level     diff.Level
	Section   int // -1 when not applicable
	Row       int
	ToSection int
	ToRow     int
	SectionID string
	RowID     string // empty for section operations
}

// ScriptMessage is the wire form of one commit's edit script.
type ScriptMessage struct {
	Generation uint64
	Reloaded   bool
	Sections   diff.Changeset
	Rows       []diff.RowChanges
	Ops        []Op
}

// NewScriptMessage converts a script into its wire form.
func NewScriptMessage[S, R comparable](generation uint64, s *diff.Script[S, R], reloaded bool) *ScriptMessage {
	m := &ScriptMessage{
		Generation: generation,
		Reloaded:   reloaded,
		Sections:   s.Sections,
		Rows:       s.Rows,
	}
	for _, op := range s.Ops() {
		w := Op{
			Kind:      op.Kind,
			Level:     op.Level,
			Section:   op.Section,
			Row:       op.Row,
			ToSection: op.ToSection,
			ToRow:     op.ToRow,
			SectionID: fmt.Sprint(op.SectionID),
		}
		if op.Level == diff.LevelRow {
			w.RowID = fmt.Sprint(op.RowID)
		}
		m.Ops = append(m.Ops, w)
	}
	return m
}

// Len returns the number of operations in the message.
func (m *ScriptMessage) Len() int {
	n := m.Sections.Len()
	for i := range m.Rows {
		n += m.Rows[i].Len()
	}
	return n
}

// EncodeScript encodes m into a script frame.
func EncodeScript(m *ScriptMessage) (*Frame, error) {
	e := NewEncoder()
	e.WriteUvarint(m.Generation)
	encodeChangeset(e, &m.Sections)
	e.WriteUvarint(uint64(len(m.Rows)))
	for i := range m.Rows {
		e.WriteInt(m.Rows[i].From)
		e.WriteInt(m.Rows[i].To)
		encodeChangeset(e, &m.Rows[i].Changeset)
	}
	e.WriteUvarint(uint64(len(m.Ops)))
	for _, op := range m.Ops {
		e.WriteByte(byte(op.Kind))
		e.WriteByte(byte(op.Level))
		e.WriteSvarint(int64(op.Section))
		e.WriteSvarint(int64(op.Row))
		e.WriteSvarint(int64(op.ToSection))
		e.WriteSvarint(int64(op.ToRow))
		e.WriteString(op.SectionID)
		e.WriteString(op.RowID)
	}
	if e.Len() > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}

	f := NewFrame(FrameScript, e.Bytes())
	if m.Reloaded {
		f.Flags |= FlagReloaded
	}
	return f, nil
}

// DecodeScript decodes a script frame. Malformed payloads yield E160.
func DecodeScript(f *Frame) (*ScriptMessage, error) {
	if f.Type != FrameScript {
		return nil, malformed("script", ErrInvalidFrameType)
	}
	m, err := decodeScript(NewDecoder(f.Payload))
	if err != nil {
		return nil, malformed("script", err)
	}
	m.Reloaded = f.Flags.Has(FlagReloaded)
	return m, nil
}

func decodeScript(d *Decoder) (*ScriptMessage, error) {
	m := &ScriptMessage{}
	var err error
	if m.Generation, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if err = decodeChangeset(d, &m.Sections); err != nil {
		return nil, err
	}

	n, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		m.Rows = make([]diff.RowChanges, n)
	}
	for i := range m.Rows {
		rc := &m.Rows[i]
		if rc.From, err = d.ReadInt(); err != nil {
			return nil, err
		}
		if rc.To, err = d.ReadInt(); err != nil {
			return nil, err
		}
		if err = decodeChangeset(d, &rc.Changeset); err != nil {
			return nil, err
		}
	}

	if n, err = d.ReadCollectionCount(); err != nil {
		return nil, err
	}
	if n > 0 {
		m.Ops = make([]Op, n)
	}
	for i := range m.Ops {
		if m.Ops[i], err = decodeOp(d); err != nil {
			return nil, err
		}
	}
	if !d.EOF() {
		return nil, ErrTrailingBytes
	}
	return m, nil
}

func decodeOp(d *Decoder) (Op, error) {
	var op Op
	k, err := d.ReadByte()
	if err != nil {
		return op, err
	}
	l, err := d.ReadByte()
	if err != nil {
		return op, err
	}
	op.Kind, op.Level = diff.Kind(k), diff.Level(l)
	if op.Kind.String() == "Unknown" || op.Level.String() == "Unknown" {
		return op, fmt.Errorf("protocol: unknown operation %#x/%#x", k, l)
	}
	for _, p := range []*int{&op.Section, &op.Row, &op.ToSection, &op.ToRow} {
		if *p, err = d.ReadSignedIndex(); err != nil {
			return op, err
		}
	}
	if op.SectionID, err = d.ReadString(); err != nil {
		return op, err
	}
	if op.RowID, err = d.ReadString(); err != nil {
		return op, err
	}
	return op, nil
}

func encodeChangeset(e *Encoder, c *diff.Changeset) {
	e.WriteInts(c.Deletes)
	e.WriteInts(c.Inserts)
	encodeMoves(e, c.Moves)
	encodeMoves(e, c.Updates)
}

func encodeMoves(e *Encoder, moves []diff.Move) {
	e.WriteUvarint(uint64(len(moves)))
	for _, m := range moves {
		e.WriteInt(m.From)
		e.WriteInt(m.To)
	}
}

func decodeChangeset(d *Decoder, c *diff.Changeset) error {
	var err error
	if c.Deletes, err = d.ReadInts(); err != nil {
		return err
	}
	if c.Inserts, err = d.ReadInts(); err != nil {
		return err
	}
	if c.Moves, err = decodeMoves(d); err != nil {
		return err
	}
	c.Updates, err = decodeMoves(d)
	return err
}

func decodeMoves(d *Decoder) ([]diff.Move, error) {
	n, err := d.ReadCollectionCount()
	if err != nil || n == 0 {
		return nil, err
	}
	moves := make([]diff.Move, n)
	for i := range moves {
		if moves[i].From, err = d.ReadInt(); err != nil {
			return nil, err
		}
		if moves[i].To, err = d.ReadInt(); err != nil {
			return nil, err
		}
	}
	return moves, nil
}

// ErrorMessage reports a commit whose script the surface rejected.
type ErrorMessage struct {
	Generation uint64
	Code       string
	Message    string
}

// EncodeError encodes m into an error frame.
func EncodeError(m *ErrorMessage) (*Frame, error) {
	e := NewEncoder()
	e.WriteUvarint(m.Generation)
	e.WriteString(m.Code)
	e.WriteString(m.Message)
	if e.Len() > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	f := NewFrame(FrameError, e.Bytes())
	f.Flags |= FlagReloaded
	return f, nil
}

// DecodeError decodes an error frame. Malformed payloads yield E160.
func DecodeError(f *Frame) (*ErrorMessage, error) {
	if f.Type != FrameError {
		return nil, malformed("error", ErrInvalidFrameType)
	}
	d := NewDecoder(f.Payload)
	m := &ErrorMessage{}
	var err error
	if m.Generation, err = d.ReadUvarint(); err != nil {
		return nil, malformed("error", err)
	}
	if m.Code, err = d.ReadString(); err != nil {
		return nil, malformed("error", err)
	}
	if m.Message, err = d.ReadString(); err != nil {
		return nil, malformed("error", err)
	}
	if !d.EOF() {
		return nil, malformed("error", ErrTrailingBytes)
	}
	return m, nil
}

func malformed(kind string, err error) error {
	return bentoerrors.New("E160").WithDetailf("%s frame", kind).Wrap(err)
}
