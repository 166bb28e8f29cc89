package wire

import "github.com/go-sayo/sayohid/bytebuf"

// TouchSensitivity is the cmd 0x13 response: a hall-effect channel's
// trigger threshold, its selectable range, and the last raw ADC sample.
type TouchSensitivity struct{ base }

func NewTouchSensitivity(v bytebuf.View) TouchSensitivity { return TouchSensitivity{base{v}} }

func (t TouchSensitivity) TriggerValue(value *uint16) (uint16, bool) { return t.v.U16(0, value) }
func (t TouchSensitivity) TriggerValueRange(value *uint16) (uint16, bool) {
	return t.v.U16(2, value)
}
func (t TouchSensitivity) RawData(value *uint16) (uint16, bool) { return t.v.U16(4, value) }
func (t TouchSensitivity) ZeroPos(value *uint16) (uint16, bool) { return t.v.U16(6, value) }

// decodeLevel and encodeLevel implement the firmware's compressed 0.01mm
// level encoding: values above 100 are stored as 100 plus half the excess,
// trading resolution above 1.00mm for twice the representable range.
func encodeLevel(level uint16) byte {
	if level > 100 {
		return byte(100 + (level-100)/2)
	}
	return byte(level)
}

func decodeLevel(raw byte) uint16 {
	if raw > 100 {
		return 100 + (uint16(raw)-100)*2
	}
	return uint16(raw)
}

// AnalogKeyInfo is the legacy (pre-1.20 firmware) per-key hall-effect
// calibration record: a raw ADC reading plus six compressed 0.01mm levels.
type AnalogKeyInfo struct{ base }

func NewAnalogKeyInfo(v bytebuf.View) AnalogKeyInfo { return AnalogKeyInfo{base{v}} }

func (a AnalogKeyInfo) RawLevel(value *byte) (byte, bool) { return a.v.U8(0, value) }
func (a AnalogKeyInfo) Polar(value *byte) (byte, bool)    { return a.v.U8(1, value) }

func (a AnalogKeyInfo) level(offset int, value *uint16) (uint16, bool) {
	if value != nil {
		enc := encodeLevel(*value)
		if _, ok := a.v.U8(offset, &enc); !ok {
			return 0, false
		}
		return *value, true
	}
	raw, ok := a.v.U8(offset, nil)
	if !ok {
		return 0, false
	}
	return decodeLevel(raw), true
}

func (a AnalogKeyInfo) TriggerLevel(value *uint16) (uint16, bool)      { return a.level(2, value) }
func (a AnalogKeyInfo) ReleaseLevel(value *uint16) (uint16, bool)      { return a.level(3, value) }
func (a AnalogKeyInfo) RapidTriggerTop(value *uint16) (uint16, bool)   { return a.level(4, value) }
func (a AnalogKeyInfo) RapidTriggerArea(value *uint16) (uint16, bool)  { return a.level(5, value) }
func (a AnalogKeyInfo) RapidTriggerLevel(value *uint16) (uint16, bool) { return a.level(6, value) }
func (a AnalogKeyInfo) RapidReleaseLevel(value *uint16) (uint16, bool) { return a.level(7, value) }

func (a AnalogKeyInfo) RawData(value *uint16) (uint16, bool) { return a.v.U16(8, value) }
func (a AnalogKeyInfo) ZeroPos(value *uint16) (uint16, bool) { return a.v.U16(10, value) }
func (a AnalogKeyInfo) RawUm(value *uint16) (uint16, bool)   { return a.v.U16(12, value) }

// LevelData returns the per-key curve bytes following the fixed header.
func (a AnalogKeyInfo) LevelData(value []byte) ([]byte, bool) { return a.v.SliceBytes(16, -1, value) }

// AnalogKeyInfo2 is the current (1.20+ firmware) per-key hall-effect
// record, carrying full 16-bit micron units instead of AnalogKeyInfo's
// compressed byte levels, plus rapid-trigger and switch-type fields the
// legacy layout never had room for.
type AnalogKeyInfo2 struct{ base }

func NewAnalogKeyInfo2(v bytebuf.View) AnalogKeyInfo2 { return AnalogKeyInfo2{base{v}} }

func (a AnalogKeyInfo2) RawData(value *uint16) (uint16, bool) { return a.v.U16(0, value) }
func (a AnalogKeyInfo2) RawUm(value *uint16) (uint16, bool)   { return a.v.U16(2, value) }
func (a AnalogKeyInfo2) ZeroPos(value *uint16) (uint16, bool) { return a.v.U16(4, value) }
func (a AnalogKeyInfo2) MaxValue(value *uint16) (uint16, bool) { return a.v.U16(6, value) }

func (a AnalogKeyInfo2) Stroke(value *byte) (byte, bool)     { return a.v.U8(8, value) }
func (a AnalogKeyInfo2) RTMode(value *byte) (byte, bool)     { return a.v.U8(9, value) }
func (a AnalogKeyInfo2) SwitchType(value *byte) (byte, bool) { return a.v.U8(10, value) }

func (a AnalogKeyInfo2) TriggerLevel(value *uint16) (uint16, bool)      { return a.v.U16(12, value) }
func (a AnalogKeyInfo2) ReleaseLevel(value *uint16) (uint16, bool)      { return a.v.U16(14, value) }
func (a AnalogKeyInfo2) RapidTriggerTop(value *uint16) (uint16, bool)   { return a.v.U16(16, value) }
func (a AnalogKeyInfo2) RapidTriggerArea(value *uint16) (uint16, bool)  { return a.v.U16(18, value) }
func (a AnalogKeyInfo2) RapidTriggerLevel(value *uint16) (uint16, bool) { return a.v.U16(20, value) }
func (a AnalogKeyInfo2) RapidReleaseLevel(value *uint16) (uint16, bool) { return a.v.U16(22, value) }

// CurveData returns the 80-byte per-key curve table starting at offset 24.
func (a AnalogKeyInfo2) CurveData(value []byte) ([]byte, bool) { return a.v.SliceBytes(24, 80, value) }
