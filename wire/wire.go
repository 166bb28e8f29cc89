// Package wire declares the named byte-layout message types exchanged over
// the protocol: one Go type per cmd in the command catalogue, each a thin
// field-accessor wrapper around a bytebuf.View. Every type is cheap to
// construct and cheap to clone, since it is just a View plus a fixed set
// of offset accessors.
package wire

import "github.com/go-sayo/sayohid/bytebuf"

// Message is implemented by every wire type: it exposes the View backing
// its fields so the frame codec and request engine can serialize it
// without knowing its concrete shape.
type Message interface {
	View() bytebuf.View
}

// Tagged is implemented by message types that carry a compile-time CMD
// byte identifying them on the wire.
type Tagged interface {
	Message
	Cmd() byte
}

// base embeds a View and implements Message for every message type below.
type base struct {
	v bytebuf.View
}

// View returns the underlying byte view.
func (b base) View() bytebuf.View { return b.v }

// Bytes returns a copy of the message's encoded wire bytes.
func (b base) Bytes() []byte { return b.v.Bytes() }

// Addressable is the common shape for block-addressed bulk payloads: a
// little-endian u32 address at offset 0 followed by the data bytes.
type Addressable struct{ base }

// NewAddressable wraps an existing view as an Addressable.
func NewAddressable(v bytebuf.View) Addressable { return Addressable{base{v}} }

// EmptyAddressable returns a zero-length Addressable.
func EmptyAddressable() Addressable { return Addressable{base{bytebuf.Empty()}} }

// AddressableWith builds an Addressable carrying addr and data.
func AddressableWith(addr uint32, data []byte) Addressable {
	v := bytebuf.New(make([]byte, 4+len(data)))
	a := addr
	v.U32(0, &a)
	if len(data) > 0 {
		v.SliceBytes(4, len(data), data)
	}
	return Addressable{base{v}}
}

// Addr reads (or writes, when addr is non-nil) the address field.
func (a Addressable) Addr(addr *uint32) (uint32, bool) { return a.v.U32(0, addr) }

// Data returns the payload bytes following the address field.
func (a Addressable) Data() ([]byte, bool) { return a.v.SliceBytes(4, -1, nil) }
