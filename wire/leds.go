package wire

import "github.com/go-sayo/sayohid/bytebuf"

// LedDataSize is the fixed encoded size of a single LedData record.
const LedDataSize = 8

// LedData is one LED's current animation state: mode, colour cycling mode
// and speed packed into a single byte, plus timing and a static colour.
type LedData struct{ base }

func NewLedData(v bytebuf.View) LedData { return LedData{base{v}} }

// packed byte 0: mode in bits 0-3, colorMode in bits 4-5, speed in bits 6-7.
func (l LedData) modeColorSpeed(mode, colorMode, speed *byte) (byte, byte, byte, bool) {
	cur, ok := l.v.U8(0, nil)
	if !ok {
		return 0, 0, 0, false
	}
	if mode == nil && colorMode == nil && speed == nil {
		return cur & 0x0F, (cur >> 4) & 0x03, cur >> 6, true
	}
	m, c, s := cur&0x0F, (cur>>4)&0x03, cur>>6
	if mode != nil {
		m = *mode & 0x0F
	}
	if colorMode != nil {
		c = *colorMode & 0x03
	}
	if speed != nil {
		s = *speed
	}
	packed := m | (c << 4) | (s << 6)
	l.v.U8(0, &packed)
	return m, c, s, true
}

func (l LedData) Mode(value *byte) (byte, bool) {
	m, _, _, ok := l.modeColorSpeed(value, nil, nil)
	return m, ok
}

func (l LedData) ColorMode(value *byte) (byte, bool) {
	_, c, _, ok := l.modeColorSpeed(nil, value, nil)
	return c, ok
}

func (l LedData) Speed(value *byte) (byte, bool) {
	_, _, s, ok := l.modeColorSpeed(nil, nil, value)
	return s, ok
}

func (l LedData) Event(value *byte) (byte, bool)       { return l.v.U8(1, value) }
func (l LedData) LightingTime(value *byte) (byte, bool) { return l.v.U8(2, value) }
func (l LedData) DarkTime(value *byte) (byte, bool)     { return l.v.U8(3, value) }
func (l LedData) R(value *byte) (byte, bool)            { return l.v.U8(4, value) }
func (l LedData) G(value *byte) (byte, bool)            { return l.v.U8(5, value) }
func (l LedData) B(value *byte) (byte, bool)            { return l.v.U8(6, value) }
func (l LedData) ColorTableNumber(value *byte) (byte, bool) { return l.v.U8(7, value) }

// Color reads or writes the r/g/b triple in one call.
func (l LedData) Color(r, g, b *byte) (byte, byte, byte, bool) {
	rv, ok1 := l.R(r)
	gv, ok2 := l.G(g)
	bv, ok3 := l.B(b)
	return rv, gv, bv, ok1 && ok2 && ok3
}

// LEDInfo is a single entry of the cmd 0x11 table: an LED's position and
// size on the layout grid, followed by its LedData slots.
type LEDInfo struct{ base }

func NewLEDInfo(v bytebuf.View) LEDInfo { return LEDInfo{base{v}} }

func (l LEDInfo) Valid(value *byte) (byte, bool)         { return l.v.U8(0, value) }
func (l LEDInfo) LedClass(value *byte) (byte, bool)      { return l.v.U8(1, value) }
func (l LEDInfo) SiteX(value *uint16) (uint16, bool)     { return l.v.U16(4, value) }
func (l LEDInfo) SiteY(value *uint16) (uint16, bool)     { return l.v.U16(6, value) }
func (l LEDInfo) Width(value *uint16) (uint16, bool)     { return l.v.U16(8, value) }
func (l LEDInfo) Height(value *uint16) (uint16, bool)    { return l.v.U16(10, value) }
func (l LEDInfo) FilletAngle(value *uint16) (uint16, bool) { return l.v.U16(12, value) }

// Slots returns every LedData entry that fits in the view's tail.
func (l LEDInfo) Slots() []LedData {
	var out []LedData
	for i := 16; i+LedDataSize <= l.v.Len(); i += LedDataSize {
		sub, ok := l.v.Sub(i, LedDataSize)
		if !ok {
			break
		}
		out = append(out, NewLedData(sub))
	}
	return out
}

// SayoColorDataSize is the encoded size of one palette entry.
const SayoColorDataSize = 3

// SayoColorData is a single r/g/b palette entry in a ColorTable.
type SayoColorData struct{ base }

func NewSayoColorData(v bytebuf.View) SayoColorData { return SayoColorData{base{v}} }

func (c SayoColorData) R(value *byte) (byte, bool) { return c.v.U8(0, value) }
func (c SayoColorData) G(value *byte) (byte, bool) { return c.v.U8(1, value) }
func (c SayoColorData) B(value *byte) (byte, bool) { return c.v.U8(2, value) }

// ColorTable is the cmd 0x12 response: a device-stored RGB palette.
type ColorTable struct{ base }

func NewColorTable(v bytebuf.View) ColorTable { return ColorTable{base{v}} }

func (c ColorTable) NumberOfColors(value *byte) (byte, bool) { return c.v.U8(0, value) }

// Entries returns every palette entry that fits in the view's tail.
func (c ColorTable) Entries() []SayoColorData {
	var out []SayoColorData
	for i := 2; i+SayoColorDataSize <= c.v.Len(); i += SayoColorDataSize {
		sub, ok := c.v.Sub(i, SayoColorDataSize)
		if !ok {
			break
		}
		out = append(out, NewSayoColorData(sub))
	}
	return out
}

// swapBG exchanges the low and high colour bytes (blue and red) of an
// 0xAARRGGBB colour, converting to and from the device's stored 0xAABBGGRR
// order (red in the low byte) for LedEffect's and AmbientLed's colours.
func swapBG(color uint32) uint32 {
	r := color & 0xFF
	g := (color >> 8) & 0xFF
	b := (color >> 16) & 0xFF
	a := (color >> 24) & 0xFF
	return (r << 16) | (g << 8) | b | (a << 24)
}

// LedEffect is the cmd 0x26 response: the active global lighting effect
// plus per-profile and per-indicator accent colours. Every 32-bit colour
// field on the wire stores its red and blue bytes swapped relative to
// the 0xAARRGGBB convention used everywhere else in this package; Color
// and the *Color accessors apply the swap transparently so callers always
// see and set standard ARGB values.
type LedEffect struct{ base }

func NewLedEffect(v bytebuf.View) LedEffect { return LedEffect{base{v}} }

func (e LedEffect) R(value *byte) (byte, bool)       { return e.v.U8(0, value) }
func (e LedEffect) G(value *byte) (byte, bool)       { return e.v.U8(1, value) }
func (e LedEffect) B(value *byte) (byte, bool)       { return e.v.U8(2, value) }
func (e LedEffect) Enabled(value *byte) (byte, bool) { return e.v.U8(3, value) }

// Color reads/writes the global accent colour (bytes 0-2, no alpha stored;
// reads synthesize 0xFF alpha).
func (e LedEffect) Color(value *uint32) (uint32, bool) {
	if value != nil {
		r := byte((*value >> 16) & 0xFF)
		g := byte((*value >> 8) & 0xFF)
		b := byte(*value & 0xFF)
		e.R(&r)
		e.G(&g)
		e.B(&b)
		return *value, true
	}
	raw, ok := e.v.U32(0, nil)
	if !ok {
		return 0, false
	}
	return swapBG(raw) | 0xFF000000, true
}

func (e LedEffect) Mode(value *byte) (byte, bool)       { return e.v.U8(4, value) }
func (e LedEffect) SubMode(value *byte) (byte, bool)    { return e.v.U8(5, value) }
func (e LedEffect) Speed(value *byte) (byte, bool)      { return e.v.U8(6, value) }
func (e LedEffect) Brightness(value *byte) (byte, bool) { return e.v.U8(7, value) }

func (e LedEffect) swappedColor(offset int, value *uint32) (uint32, bool) {
	if value != nil {
		swapped := swapBG(*value)
		e.v.U32(offset, &swapped)
		return *value, true
	}
	raw, ok := e.v.U32(offset, nil)
	if !ok {
		return 0, false
	}
	return swapBG(raw), true
}

// ProfileColor reads/writes one of the four profile accent colours
// (index 0..3), stored as red/blue-swapped u32s starting at byte 8.
func (e LedEffect) ProfileColor(index int, value *uint32) (uint32, bool) {
	if index < 0 || index >= 4 {
		return 0, false
	}
	return e.swappedColor(8+index*4, value)
}

func (e LedEffect) NumlockColor(value *uint32) (uint32, bool)     { return e.swappedColor(24, value) }
func (e LedEffect) CapslockColor(value *uint32) (uint32, bool)    { return e.swappedColor(28, value) }
func (e LedEffect) ScrolllockColor(value *uint32) (uint32, bool)  { return e.swappedColor(32, value) }
func (e LedEffect) SOCDColor(value *uint32) (uint32, bool)        { return e.swappedColor(36, value) }
func (e LedEffect) FnDiffColor(value *uint32) (uint32, bool)      { return e.swappedColor(40, value) }
func (e LedEffect) TapColor(value *uint32) (uint32, bool)         { return e.swappedColor(44, value) }

// GamePadCfg is the cmd 0x28 response: the emulated gamepad's type/option
// byte plus up to eight calibration points.
type GamePadCfg struct{ base }

func NewGamePadCfg(v bytebuf.View) GamePadCfg { return GamePadCfg{base{v}} }

func (g GamePadCfg) GamepadType(value *byte) (byte, bool) { return g.v.U8(0, value) }
func (g GamePadCfg) Options(value *byte) (byte, bool)     { return g.v.U8(1, value) }
func (g GamePadCfg) Reserved(value *uint16) (uint16, bool) { return g.v.U16(2, value) }

// Point reads/writes calibration point index (0..7) as an (x, y) pair.
func (g GamePadCfg) Point(index int, x, y *byte) (byte, byte, bool) {
	if index < 0 || index >= 8 {
		return 0, 0, false
	}
	offset := 4 + index*2
	xv, ok1 := g.v.U8(offset, x)
	yv, ok2 := g.v.U8(offset+1, y)
	return xv, yv, ok1 && ok2
}

// GamePadMapSize is the size of the button/axis mapping table following
// the eight calibration points at offset 20.
const GamePadMapSize = 36

// MapByte reads/writes one byte (0..35) of the raw button/axis mapping
// table.
func (g GamePadCfg) MapByte(index int, value *byte) (byte, bool) {
	if index < 0 || index >= GamePadMapSize {
		return 0, false
	}
	return g.v.U8(20+index, value)
}

// MapBytes returns a copy of the full 36-byte mapping table.
func (g GamePadCfg) MapBytes() ([]byte, bool) { return g.v.SliceBytes(20, GamePadMapSize, nil) }
