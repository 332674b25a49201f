// Package codec is the deterministic binary record format for kv storage.
// Fixed-width big-endian integers, varint lengths and length-prefixed UTF-8
// keep encoded records byte-stable, so no json noise leaks into state.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"

	"padi_protocol/sdk"
)

type Writer struct {
	buf bytes.Buffer
}

// NewWriter spins up a fresh writer so we dont leak old bytes between encodes.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated buffer, tiny helper but keeps code tidy.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Byte writes one raw byte, used for enum tags.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// Bool squashes bools into a single byte flag for deterministic payloads.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// Uint64 writes big endian numbers so tooling can read them without guessing.
func (w *Writer) Uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// Int64 reuses the uint routine since casting keeps the sign bits intact.
func (w *Writer) Int64(v int64) {
	w.Uint64(uint64(v))
}

// VarUint uses varints to keep counts and lens compact.
func (w *Writer) VarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// String prefixes its length then dumps UTF-8 directly.
func (w *Writer) String(s string) {
	w.VarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

// BytesField writes a length-prefixed byte slice (calldata blobs).
func (w *Writer) BytesField(b []byte) {
	w.VarUint(uint64(len(b)))
	w.buf.Write(b)
}

// StringList writes count then each entry, preserving order.
func (w *Writer) StringList(list []string) {
	w.VarUint(uint64(len(list)))
	for _, s := range list {
		w.String(s)
	}
}

// Address canonicalizes the address before writing, so later parsing is easy.
func (w *Writer) Address(a sdk.Address) {
	w.String(a.String())
}

type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps raw bytes so we can peek sequentially w/out copying.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

var errUnexpectedEOF = errors.New("unexpected EOF")

// Byte grabs the next byte and bumps the cursor.
func (r *Reader) Byte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// Bool restores bools stored via Writer.Bool above.
func (r *Reader) Bool() (bool, error) {
	b, err := r.Byte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// Uint64 decodes big endian integers for ids and totals.
func (r *Reader) Uint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errUnexpectedEOF
	}
	val := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return val, nil
}

// Int64 simply casts the unsigned read, matching the writer logic.
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// VarUint undoes the compact varint encoding for lengths/counts.
func (r *Reader) VarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

// String reads the varint length then slices out the utf8 chunk.
func (r *Reader) String() (string, error) {
	l, err := r.VarUint()
	if err != nil {
		return "", err
	}
	if r.pos+int(l) > len(r.data) {
		return "", errUnexpectedEOF
	}
	s := string(r.data[r.pos : r.pos+int(l)])
	r.pos += int(l)
	return s, nil
}

// BytesField reads a length-prefixed byte slice.
func (r *Reader) BytesField() ([]byte, error) {
	l, err := r.VarUint()
	if err != nil {
		return nil, err
	}
	if r.pos+int(l) > len(r.data) {
		return nil, errUnexpectedEOF
	}
	b := make([]byte, l)
	copy(b, r.data[r.pos:r.pos+int(l)])
	r.pos += int(l)
	return b, nil
}

// StringList restores an ordered string slice.
func (r *Reader) StringList() ([]string, error) {
	count, err := r.VarUint()
	if err != nil {
		return nil, err
	}
	list := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		s, err := r.String()
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

// Address rebuilds the typed address from its string form.
func (r *Reader) Address() (sdk.Address, error) {
	s, err := r.String()
	if err != nil {
		return sdk.AddressZero, err
	}
	return sdk.Address(s), nil
}
