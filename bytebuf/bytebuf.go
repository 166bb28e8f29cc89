// Package bytebuf provides View, a reference-counted, offset/length window
// over a shared mutable byte buffer. It is the single representation used
// by every message type in the wire package: multiple Views may alias and
// mutate the same underlying buffer, which is how field accessors on a
// decoded report stay cheap to construct and cheap to clone.
package bytebuf

import (
	"sync"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the 1-byte string encoding tag carried by StringContent-shaped
// payloads and used by the string accessors below.
type Encoding byte

// The three string encodings the protocol understands. Values match the
// wire encoding byte exactly.
const (
	EncodingGB18030 Encoding = 0x02
	EncodingUTF16LE Encoding = 0x03
	EncodingASCII   Encoding = 0x04
)

// Valid reports whether e is one of the three recognized encodings.
func (e Encoding) Valid() bool {
	switch e {
	case EncodingGB18030, EncodingUTF16LE, EncodingASCII:
		return true
	default:
		return false
	}
}

// buffer is the shared, mutable backing store. A short-held mutex guards
// every access; callers must not hold it across an await (there is no
// await in Go, but the same rule applies to any blocking call made while
// holding a View method's internal lock -- none do).
type buffer struct {
	mu   sync.Mutex
	data []byte
}

// View is a cheap, aliasing handle onto a window of a shared buffer.
// The zero View is not usable; construct one with New, FromString, or Sub.
type View struct {
	buf    *buffer
	offset int
	length int
}

// New constructs a View over an owned, newly allocated buffer.
func New(b []byte) View {
	cp := make([]byte, len(b))
	copy(cp, b)
	return View{buf: &buffer{data: cp}, offset: 0, length: len(cp)}
}

// Empty constructs a zero-length View, the "empty constructor" every
// message type in wire exposes.
func Empty() View {
	return View{buf: &buffer{data: nil}, offset: 0, length: 0}
}

// FromString encodes s with the given encoding, appends its terminator,
// and returns a View over the result.
func FromString(enc Encoding, s string) View {
	return New(EncodeString(enc, s))
}

// Len returns the number of bytes this View exposes.
func (v View) Len() int {
	return v.length
}

// Sub returns an aliased sub-view over [index, index+length) of v, or
// (View{}, false) if that range falls outside v.
func (v View) Sub(index, length int) (View, bool) {
	if index < 0 || length < 0 {
		return View{}, false
	}
	off := v.offset + index
	v.buf.mu.Lock()
	ok := off+length <= len(v.buf.data) && off+length <= v.offset+v.length
	v.buf.mu.Unlock()
	if !ok {
		return View{}, false
	}
	return View{buf: v.buf, offset: off, length: length}, true
}

// DeepClone returns an independent View with its own copy of the
// underlying bytes; mutations through the clone are not visible to v.
func (v View) DeepClone() View {
	v.buf.mu.Lock()
	cp := make([]byte, v.length)
	if v.offset+v.length <= len(v.buf.data) {
		copy(cp, v.buf.data[v.offset:v.offset+v.length])
	}
	v.buf.mu.Unlock()
	return View{buf: &buffer{data: cp}, offset: 0, length: v.length}
}

// Bytes returns a copy of the bytes this View covers.
func (v View) Bytes() []byte {
	v.buf.mu.Lock()
	defer v.buf.mu.Unlock()
	out := make([]byte, v.length)
	if v.offset+v.length <= len(v.buf.data) {
		copy(out, v.buf.data[v.offset:v.offset+v.length])
	}
	return out
}

func (v View) inBounds(index, width int) bool {
	if index < 0 || width < 0 {
		return false
	}
	v.buf.mu.Lock()
	defer v.buf.mu.Unlock()
	return v.offset+index+width <= len(v.buf.data) && index+width <= v.length
}

// U8 reads (and optionally writes, when value is non-nil) the byte at
// index. Out-of-range access returns (0, false).
func (v View) U8(index int, value *byte) (byte, bool) {
	if !v.inBounds(index, 1) {
		return 0, false
	}
	v.buf.mu.Lock()
	defer v.buf.mu.Unlock()
	at := v.offset + index
	if value != nil {
		v.buf.data[at] = *value
	}
	return v.buf.data[at], true
}

// U16 reads/writes a little-endian u16 at index.
func (v View) U16(index int, value *uint16) (uint16, bool) {
	if !v.inBounds(index, 2) {
		return 0, false
	}
	v.buf.mu.Lock()
	defer v.buf.mu.Unlock()
	at := v.offset + index
	if value != nil {
		v.buf.data[at] = byte(*value)
		v.buf.data[at+1] = byte(*value >> 8)
	}
	return uint16(v.buf.data[at]) | uint16(v.buf.data[at+1])<<8, true
}

// I16 reads/writes a little-endian i16 at index.
func (v View) I16(index int, value *int16) (int16, bool) {
	if !v.inBounds(index, 2) {
		return 0, false
	}
	v.buf.mu.Lock()
	defer v.buf.mu.Unlock()
	at := v.offset + index
	if value != nil {
		u := uint16(*value)
		v.buf.data[at] = byte(u)
		v.buf.data[at+1] = byte(u >> 8)
	}
	return int16(uint16(v.buf.data[at]) | uint16(v.buf.data[at+1])<<8), true
}

// U32 reads/writes a little-endian u32 at index.
func (v View) U32(index int, value *uint32) (uint32, bool) {
	if !v.inBounds(index, 4) {
		return 0, false
	}
	v.buf.mu.Lock()
	defer v.buf.mu.Unlock()
	at := v.offset + index
	if value != nil {
		b := *value
		v.buf.data[at] = byte(b)
		v.buf.data[at+1] = byte(b >> 8)
		v.buf.data[at+2] = byte(b >> 16)
		v.buf.data[at+3] = byte(b >> 24)
	}
	return uint32(v.buf.data[at]) |
		uint32(v.buf.data[at+1])<<8 |
		uint32(v.buf.data[at+2])<<16 |
		uint32(v.buf.data[at+3])<<24, true
}

// SliceBytes reads (or, when value is non-nil, writes) a length-byte span
// at index. On read, length is the number of bytes to return (the rest of
// the view if negative). On write, len(*value) bytes are copied in.
func (v View) SliceBytes(index, length int, value []byte) ([]byte, bool) {
	if value != nil {
		if !v.inBounds(index, len(value)) {
			return nil, false
		}
		v.buf.mu.Lock()
		at := v.offset + index
		copy(v.buf.data[at:at+len(value)], value)
		v.buf.mu.Unlock()
		return value, true
	}
	if length < 0 {
		length = v.length - index
	}
	if !v.inBounds(index, length) {
		return nil, false
	}
	v.buf.mu.Lock()
	at := v.offset + index
	out := make([]byte, length)
	copy(out, v.buf.data[at:at+length])
	v.buf.mu.Unlock()
	return out, true
}

// Str reads (or writes, when value is non-nil) a null-terminated string at
// index using the given encoding. Read scans for the encoding-appropriate
// terminator; write fails (returns false) if the encoded bytes plus
// terminator do not fit in the remaining view.
func (v View) Str(enc Encoding, index int, value *string) (string, bool) {
	if !enc.Valid() {
		return "", false
	}
	if value != nil {
		encoded := EncodeString(enc, *value)
		if !v.inBounds(index, len(encoded)) {
			return "", false
		}
		v.buf.mu.Lock()
		at := v.offset + index
		copy(v.buf.data[at:at+len(encoded)], encoded)
		v.buf.mu.Unlock()
		return *value, true
	}

	v.buf.mu.Lock()
	defer v.buf.mu.Unlock()
	start := v.offset + index
	if start < v.offset || start > v.offset+v.length || start > len(v.buf.data) {
		return "", false
	}
	end := findTerminator(v.buf.data, start, v.offset+v.length, enc)
	if end < start {
		return "", false
	}
	s, ok := DecodeString(enc, v.buf.data[start:end])
	return s, ok
}

func findTerminator(data []byte, start, limit int, enc Encoding) int {
	if limit > len(data) {
		limit = len(data)
	}
	switch enc {
	case EncodingUTF16LE:
		i := start
		for i+1 < limit && (data[i] != 0 || data[i+1] != 0) {
			i += 2
		}
		return i
	default: // GB18030, ASCII: single NUL terminator
		i := start
		for i < limit && data[i] != 0 {
			i++
		}
		return i
	}
}

// EncodeString encodes s per enc and appends the terminator: a single NUL
// for ASCII/GB18030, a double NUL (2-byte aligned) for UTF-16LE.
func EncodeString(enc Encoding, s string) []byte {
	switch enc {
	case EncodingUTF16LE:
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().String(s)
		var b []byte
		if err == nil {
			b = []byte(encoded)
		}
		return append(b, 0x00, 0x00)
	case EncodingGB18030:
		encoded, _ := simplifiedchinese.GB18030.NewEncoder().String(s)
		return append([]byte(encoded), 0x00)
	default: // ASCII
		return append([]byte(s), 0x00)
	}
}

// DecodeString decodes b (without its terminator) per enc.
func DecodeString(enc Encoding, b []byte) (string, bool) {
	switch enc {
	case EncodingUTF16LE:
		s, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().String(string(b))
		if err != nil {
			return "", false
		}
		return s, true
	case EncodingGB18030:
		s, err := simplifiedchinese.GB18030.NewDecoder().String(string(b))
		if err != nil {
			return "", false
		}
		return s, true
	case EncodingASCII:
		return string(b), true
	default:
		return "", false
	}
}
