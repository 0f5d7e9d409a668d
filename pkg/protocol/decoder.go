package protocol

import (
	"errors"
	"io"
)

// Limits applied to length prefixes read off the wire.
const (
	// MaxStringLength bounds a single identifier or component description.
	MaxStringLength = 64 * 1024

	// MaxCollectionCount is the maximum number of items in a list.
	MaxCollectionCount = 100_000

	// MaxIndex bounds decoded section and row indices.
	MaxIndex = 1 << 31
)

// Common decoding errors.
var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrInvalidBool        = errors.New("protocol: invalid boolean value")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
	ErrIndexOutOfRange    = errors.New("protocol: index out of range")
	ErrTrailingBytes      = errors.New("protocol: trailing bytes after payload")
)

// Decoder reads binary data from a byte buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a new decoder from the given byte slice.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF returns true if all bytes have been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadUvarint reads an unsigned varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	var v uint64
	var shift uint

	for {
		if d.pos >= len(d.buf) {
			return 0, io.ErrUnexpectedEOF
		}
		b := d.buf[d.pos]
		d.pos++
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrVarintOverflow
		}
	}
}

// ReadSvarint reads a signed varint using ZigZag decoding.
func (d *Decoder) ReadSvarint() (int64, error) {
	uv, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	v := int64(uv >> 1)
	if uv&1 != 0 {
		v = ^v
	}
	return v, nil
}

// ReadInt reads a non-negative index written by WriteInt.
func (d *Decoder) ReadInt() (int, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if v >= MaxIndex {
		return 0, ErrIndexOutOfRange
	}
	return int(v), nil
}

// ReadSignedIndex reads an index that may be -1.
func (d *Decoder) ReadSignedIndex() (int, error) {
	v, err := d.ReadSvarint()
	if err != nil {
		return 0, err
	}
	if v < -1 || v >= MaxIndex {
		return 0, ErrIndexOutOfRange
	}
	return int(v), nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > MaxStringLength {
		return "", ErrAllocationTooLarge
	}
	if length > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	n := int(length)
	s := string(d.buf[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

// ReadBool reads a boolean written by WriteBool.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// ReadCollectionCount reads a varint count and validates it against limits.
// Every item takes at least one byte, so counts larger than the remaining
// buffer are rejected before anything is allocated.
func (d *Decoder) ReadCollectionCount() (int, error) {
	count, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if count > MaxCollectionCount {
		return 0, ErrCollectionTooLarge
	}
	if count > uint64(d.Remaining()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(count), nil
}

// ReadInts reads a list written by WriteInts.
func (d *Decoder) ReadInts() ([]int, error) {
	n, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	v := make([]int, n)
	for i := range v {
		if v[i], err = d.ReadInt(); err != nil {
			return nil, err
		}
	}
	return v, nil
}
