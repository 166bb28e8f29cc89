package wire

import "github.com/go-sayo/sayohid/bytebuf"

// StringContent is the shape behind every string-typed cmd (Password,
// script names, and friends): a device-chosen character encoding applied
// to a null-terminated run of bytes.
//
// The source protocol overloads the terminal frame's status byte to also
// carry this encoding tag, recovered on the Rust side with a raw
// reinterpret of the status field. That conflates two unrelated concerns
// behind one byte and makes the encoding invisible to anything that only
// looks at the type. Here EncodingByte is its own field, set explicitly by
// whoever decodes the frame (the terminal status *value* still happens to
// equal the encoding tag on the wire; framecodec.Decode's status output is
// the thing callers should be passing in, not a cast of arbitrary bits).
type StringContent struct {
	base
	EncodingByte bytebuf.Encoding
}

// NewStringContent wraps v (the bytes following the encoding tag) as a
// StringContent using the given encoding.
func NewStringContent(encoding bytebuf.Encoding, v bytebuf.View) StringContent {
	return StringContent{base: base{v}, EncodingByte: encoding}
}

// SetEncoding overrides the encoding this StringContent decodes with.
// deviceclient.RequestWithHeader calls this after a request completes,
// passing the encoding EncodingForStatus derives from the response's
// terminal status byte.
func (s *StringContent) SetEncoding(e bytebuf.Encoding) { s.EncodingByte = e }

// EncodingForStatus maps a terminal frame status to the string encoding it
// identifies. Only meaningful for StringContent-shaped responses; status
// 0x00 (and any status other than 0x02/0x03) means ASCII by convention,
// since a plain StatusSuccessEnd carries no other encoding signal.
func EncodingForStatus(status byte) bytebuf.Encoding {
	switch status {
	case 0x02:
		return bytebuf.EncodingGB18030
	case 0x03:
		return bytebuf.EncodingUTF16LE
	default:
		return bytebuf.EncodingASCII
	}
}

// Str reads, or writes (when value is non-nil), the decoded string.
func (s StringContent) Str(value *string) (string, bool) {
	return s.v.Str(s.EncodingByte, 0, value)
}

// EncodedLen returns the number of bytes the current string occupies on
// the wire, not counting its terminator.
func (s StringContent) EncodedLen() (int, bool) {
	str, ok := s.Str(nil)
	if !ok {
		return 0, false
	}
	return len(bytebuf.EncodeString(s.EncodingByte, str)) - terminatorLen(s.EncodingByte), true
}

func terminatorLen(enc bytebuf.Encoding) int {
	if enc == bytebuf.EncodingUTF16LE {
		return 2
	}
	return 1
}

// Reencode re-encodes the current string under a new encoding, truncating
// characters from the end until the result (plus terminator) fits in the
// view's capacity. It returns the string actually stored.
func (s *StringContent) Reencode(newEncoding bytebuf.Encoding) (string, bool) {
	str, ok := s.Str(nil)
	if !ok {
		return "", false
	}
	limit := s.v.Len()
	runes := []rune(str)
	for len(runes) > 0 {
		candidate := string(runes)
		encoded := bytebuf.EncodeString(newEncoding, candidate)
		if len(encoded) <= limit {
			s.EncodingByte = newEncoding
			s.v.Str(newEncoding, 0, &candidate)
			return candidate, true
		}
		runes = runes[:len(runes)-1]
	}
	empty := ""
	s.EncodingByte = newEncoding
	s.v.Str(newEncoding, 0, &empty)
	return empty, true
}
