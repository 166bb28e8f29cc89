package wire

import "github.com/go-sayo/sayohid/bytebuf"

// KeyDataSize is the fixed encoded size of a single KeyData record.
const KeyDataSize = 8

// KeyData describes one binding on a physical key: the binding mode, up to
// three mode-specific option bytes, and a 4-byte value payload (a key code
// run, a macro index, whatever the mode calls for).
type KeyData struct{ base }

func NewKeyData(v bytebuf.View) KeyData { return KeyData{base{v}} }

func (k KeyData) Mode(value *byte) (byte, bool)  { return k.v.U8(0, value) }
func (k KeyData) Opt0(value *byte) (byte, bool)  { return k.v.U8(1, value) }
func (k KeyData) Opt1(value *byte) (byte, bool)  { return k.v.U8(2, value) }
func (k KeyData) Opt2(value *byte) (byte, bool)  { return k.v.U8(3, value) }
func (k KeyData) Value(value []byte) ([]byte, bool) { return k.v.SliceBytes(4, 4, value) }

// KeyInfo is a single entry of the cmd 0x10 table: a physical key's
// location and size on the layout grid, followed by up to four KeyData
// bindings (tap, hold, double-tap, and whatever else the mode table needs).
type KeyInfo struct{ base }

func NewKeyInfo(v bytebuf.View) KeyInfo { return KeyInfo{base{v}} }

func (k KeyInfo) Valid(value *byte) (byte, bool)      { return k.v.U8(0, value) }
func (k KeyInfo) KeyClass(value *byte) (byte, bool)   { return k.v.U8(1, value) }
func (k KeyInfo) SiteX(value *uint16) (uint16, bool)  { return k.v.U16(4, value) }
func (k KeyInfo) SiteY(value *uint16) (uint16, bool)  { return k.v.U16(6, value) }
func (k KeyInfo) Width(value *uint16) (uint16, bool)  { return k.v.U16(8, value) }
func (k KeyInfo) Height(value *uint16) (uint16, bool) { return k.v.U16(10, value) }
func (k KeyInfo) FilletAngle(value *uint16) (uint16, bool) { return k.v.U16(12, value) }

// Binding returns the index'th KeyData (0..3) as an aliased sub-view.
func (k KeyInfo) Binding(index int) (KeyData, bool) {
	if index < 0 || index >= 4 {
		return KeyData{}, false
	}
	sub, ok := k.v.Sub(16+index*KeyDataSize, KeyDataSize)
	if !ok {
		return KeyData{}, false
	}
	return NewKeyData(sub), true
}

// Bindings returns every KeyData slot that fits in the view's tail,
// starting at offset 16.
func (k KeyInfo) Bindings() []KeyData {
	var out []KeyData
	for i := 16; i+KeyDataSize <= k.v.Len(); i += KeyDataSize {
		sub, ok := k.v.Sub(i, KeyDataSize)
		if !ok {
			break
		}
		out = append(out, NewKeyData(sub))
	}
	return out
}
