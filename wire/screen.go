package wire

import "github.com/go-sayo/sayohid/bytebuf"

// ScreenBuffer is the cmd 0x25 payload: an address-tagged slice of the
// device's LCD framebuffer. It only ever arrives on the decode side, as an
// unsolicited refresh the reportdecoder mirrors into a local buffer; no
// request ever asks for it by index.
type ScreenBuffer struct{ Addressable }

func NewScreenBuffer(v bytebuf.View) ScreenBuffer { return ScreenBuffer{NewAddressable(v)} }

// LcdDrawData is the addressable payload shape used by the three LCD draw
// commands (0x21 full, 0x22 partial, 0x23 icon): an address into the
// target surface followed by raw pixel bytes.
type LcdDrawData struct{ Addressable }

func NewLcdDrawData(v bytebuf.View) LcdDrawData { return LcdDrawData{NewAddressable(v)} }

// LcdDrawDataWith builds an LcdDrawData carrying addr and pixel bytes.
func LcdDrawDataWith(addr uint32, pixels []byte) LcdDrawData {
	return LcdDrawData{AddressableWith(addr, pixels)}
}
