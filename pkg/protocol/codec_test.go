package protocol

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func TestEncoderDecoder(t *testing.T) {
	e := NewEncoder()
	e.WriteByte(0x42)
	e.WriteUvarint(12345)
	e.WriteSvarint(-9876)
	e.WriteInt(7)
	e.WriteString("hello world")
	e.WriteBool(true)
	e.WriteBool(false)
	e.WriteInts([]int{3, 1, 4})

	d := NewDecoder(e.Bytes())

	if b, err := d.ReadByte(); err != nil || b != 0x42 {
		t.Errorf("ReadByte() = %x, %v; want 0x42, nil", b, err)
	}
	if uv, err := d.ReadUvarint(); err != nil || uv != 12345 {
		t.Errorf("ReadUvarint() = %d, %v; want 12345, nil", uv, err)
	}
	if sv, err := d.ReadSvarint(); err != nil || sv != -9876 {
		t.Errorf("ReadSvarint() = %d, %v; want -9876, nil", sv, err)
	}
	if i, err := d.ReadInt(); err != nil || i != 7 {
		t.Errorf("ReadInt() = %d, %v; want 7, nil", i, err)
	}
	if s, err := d.ReadString(); err != nil || s != "hello world" {
		t.Errorf("ReadString() = %q, %v; want \"hello world\", nil", s, err)
	}
	if b, err := d.ReadBool(); err != nil || !b {
		t.Errorf("ReadBool() = %v, %v; want true, nil", b, err)
	}
	if b, err := d.ReadBool(); err != nil || b {
		t.Errorf("ReadBool() = %v, %v; want false, nil", b, err)
	}
	ints, err := d.ReadInts()
	if err != nil || len(ints) != 3 || ints[0] != 3 || ints[1] != 1 || ints[2] != 4 {
		t.Errorf("ReadInts() = %v, %v; want [3 1 4], nil", ints, err)
	}
	if !d.EOF() {
		t.Errorf("decoder has %d unread bytes", d.Remaining())
	}
}

func TestVarintBoundaries(t *testing.T) {
	unsigned := []uint64{0, 1, 127, 128, 16383, 16384, math.MaxUint32, math.MaxUint64}
	for _, v := range unsigned {
		e := NewEncoder()
		e.WriteUvarint(v)
		got, err := NewDecoder(e.Bytes()).ReadUvarint()
		if err != nil || got != v {
			t.Errorf("uvarint %d: got %d, %v", v, got, err)
		}
	}

	signed := []int64{0, -1, 1, -64, 64, math.MinInt64, math.MaxInt64}
	for _, v := range signed {
		e := NewEncoder()
		e.WriteSvarint(v)
		got, err := NewDecoder(e.Bytes()).ReadSvarint()
		if err != nil || got != v {
			t.Errorf("svarint %d: got %d, %v", v, got, err)
		}
	}

	// Small values stay small on the wire.
	e := NewEncoder()
	e.WriteSvarint(-1)
	if e.Len() != 1 {
		t.Errorf("svarint -1 encoded in %d bytes, want 1", e.Len())
	}
}

func TestDecoderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(*Decoder) error
		want error
	}{
		{"empty byte", nil, func(d *Decoder) error { _, err := d.ReadByte(); return err }, io.ErrUnexpectedEOF},
		{"truncated varint", []byte{0x80}, func(d *Decoder) error { _, err := d.ReadUvarint(); return err }, io.ErrUnexpectedEOF},
		{"varint overflow", bytes.Repeat([]byte{0xFF}, 10), func(d *Decoder) error { _, err := d.ReadUvarint(); return err }, ErrVarintOverflow},
		{"short string", []byte{0x05, 'a'}, func(d *Decoder) error { _, err := d.ReadString(); return err }, io.ErrUnexpectedEOF},
		{"huge string", []byte{0xFF, 0xFF, 0x7F}, func(d *Decoder) error { _, err := d.ReadString(); return err }, ErrAllocationTooLarge},
		{"invalid bool", []byte{0x02}, func(d *Decoder) error { _, err := d.ReadBool(); return err }, ErrInvalidBool},
		{"huge collection", []byte{0xFF, 0xFF, 0xFF, 0x7F}, func(d *Decoder) error { _, err := d.ReadCollectionCount(); return err }, ErrCollectionTooLarge},
		{"count past buffer", []byte{0x05, 0x01}, func(d *Decoder) error { _, err := d.ReadCollectionCount(); return err }, io.ErrUnexpectedEOF},
		{"negative index", []byte{0x03}, func(d *Decoder) error { _, err := d.ReadSignedIndex(); return err }, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.read(NewDecoder(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := &Frame{Type: FrameScript, Flags: FlagReloaded, Payload: []byte{1, 2, 3}}
	data, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != FrameHeaderSize+3 {
		t.Fatalf("encoded length = %d", len(data))
	}

	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != FrameScript || !got.Flags.Has(FlagReloaded) || !bytes.Equal(got.Payload, f.Payload) {
		t.Errorf("DecodeFrame() = %+v", got)
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, f); err != nil {
		t.Fatal(err)
	}
	if err := WriteFrame(&buf, NewFrame(FrameTree, nil)); err != nil {
		t.Fatal(err)
	}
	first, err := ReadFrame(&buf)
	if err != nil || first.Type != FrameScript {
		t.Fatalf("ReadFrame() = %+v, %v", first, err)
	}
	second, err := ReadFrame(&buf)
	if err != nil || second.Type != FrameTree || len(second.Payload) != 0 {
		t.Fatalf("ReadFrame() = %+v, %v", second, err)
	}
}

func TestFrameErrors(t *testing.T) {
	if _, err := NewFrame(FrameScript, make([]byte, MaxPayloadSize+1)).Encode(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("oversized payload: %v", err)
	}
	if _, err := DecodeFrame([]byte{0x7F, 0, 0, 0}); !errors.Is(err, ErrInvalidFrameType) {
		t.Errorf("unknown type: %v", err)
	}
	if _, err := DecodeFrame([]byte{byte(FrameTree), 0, 0, 2, 1}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("short payload: %v", err)
	}
	if _, err := DecodeFrame([]byte{byte(FrameTree), 0, 0, 0, 1}); !errors.Is(err, ErrTrailingBytes) {
		t.Errorf("trailing bytes: %v", err)
	}
	if FrameType(0x7F).String() != "Unknown" || FrameError.String() != "Error" {
		t.Error("FrameType.String()")
	}
}
