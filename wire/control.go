package wire

import "github.com/go-sayo/sayohid/bytebuf"

// Reboot sub-modes, packed into the cmd 0x0E magic payload.
const (
	RebootSubReboot     byte = 0x01
	RebootSubRecovery   byte = 0xFE
	RebootSubBootloader byte = 0xFF
)

// Reboot is the cmd 0x0E fire-and-forget request: a fixed magic prefix
// followed by a sub-mode byte and its bitwise complement, the device's way
// of distinguishing a deliberate reboot request from noise on the bus.
type Reboot struct{ base }

func NewReboot(v bytebuf.View) Reboot { return Reboot{base{v}} }

// RebootWith builds the 4-byte magic payload for sub (one of the
// RebootSub* constants).
func RebootWith(sub byte) Reboot {
	v := bytebuf.New([]byte{0x96, 0x72, sub, ^sub})
	return Reboot{base{v}}
}

func (r Reboot) Sub(value *byte) (byte, bool) { return r.v.U8(2, value) }

// SaveAll is the cmd 0x0D fire-and-forget request: a fixed 2-byte magic
// asking the device to persist its current working configuration.
type SaveAll struct{ base }

func NewSaveAll(v bytebuf.View) SaveAll { return SaveAll{base{v}} }

// SaveAllMagic builds the fixed SaveAll payload.
func SaveAllMagic() SaveAll {
	return SaveAll{base{bytebuf.New([]byte{0x96, 0x72})}}
}

// KeyPhysicalStatus is the cmd 0x1E response: a raw, device-defined dump of
// every physical key's current electrical state (pressed depth, debounce
// state, whatever the firmware's diagnostic view considers relevant). The
// layout isn't otherwise interpreted by this package; callers index into
// the raw bytes themselves.
type KeyPhysicalStatus struct{ base }

func NewKeyPhysicalStatus(v bytebuf.View) KeyPhysicalStatus { return KeyPhysicalStatus{base{v}} }

// Raw returns the status dump bytes as received.
func (k KeyPhysicalStatus) Raw() ([]byte, bool) { return k.v.SliceBytes(0, -1, nil) }

// LedStatus is the cmd 0x27 response: a raw, enumerable dump of every LED's
// current on-wire colour/brightness state, one fixed-size record per LED.
type LedStatus struct{ base }

func NewLedStatus(v bytebuf.View) LedStatus { return LedStatus{base{v}} }

// LedStatusRecordSize is the encoded size of a single LED's status record.
const LedStatusRecordSize = 4

// Record returns the index'th LED status record (r, g, b, brightness).
func (l LedStatus) Record(index int) (r, g, b, brightness byte, ok bool) {
	off := index * LedStatusRecordSize
	sub, ok := l.v.Sub(off, LedStatusRecordSize)
	if !ok {
		return 0, 0, 0, 0, false
	}
	r, _ = sub.U8(0, nil)
	g, _ = sub.U8(1, nil)
	b, _ = sub.U8(2, nil)
	brightness, _ = sub.U8(3, nil)
	return r, g, b, brightness, true
}

// Count returns how many complete LED status records the view holds.
func (l LedStatus) Count() int {
	return l.v.Len() / LedStatusRecordSize
}

// AmbientLed is the cmd 0x2A response: the under-glow lighting group's
// brightness, animation speed, active LED count, up to three accent
// colours, and a 128-bit (16-byte) bitmap selecting which physical LEDs
// belong to the ambient group.
type AmbientLed struct{ base }

func NewAmbientLed(v bytebuf.View) AmbientLed { return AmbientLed{base{v}} }

func (a AmbientLed) Brightness(value *byte) (byte, bool) { return a.v.U8(0, value) }
func (a AmbientLed) Speed(value *byte) (byte, bool)      { return a.v.U8(1, value) }
func (a AmbientLed) Count(value *byte) (byte, bool)      { return a.v.U8(2, value) }
func (a AmbientLed) Mode(value *byte) (byte, bool)       { return a.v.U8(3, value) }

// Color reads/writes one of the three accent colours (index 0..2), stored
// red/blue-swapped on the wire like LedEffect's colour fields.
func (a AmbientLed) Color(index int, value *uint32) (uint32, bool) {
	if index < 0 || index >= 3 {
		return 0, false
	}
	offset := 4 + index*4
	if value != nil {
		swapped := swapBG(*value)
		a.v.U32(offset, &swapped)
		return *value, true
	}
	raw, ok := a.v.U32(offset, nil)
	if !ok {
		return 0, false
	}
	return swapBG(raw), true
}

// LedMapSize is the encoded size of the 128-bit LED membership bitmap.
const LedMapSize = 16

// LedMapBit reads/writes a single bit (0..127) of the LED membership
// bitmap starting at offset 16.
func (a AmbientLed) LedMapBit(index int, value *bool) (bool, bool) {
	if index < 0 || index >= LedMapSize*8 {
		return false, false
	}
	byteOff := 16 + index/8
	bit := uint(index % 8)
	cur, ok := a.v.U8(byteOff, nil)
	if !ok {
		return false, false
	}
	if value == nil {
		return (cur>>bit)&1 == 1, true
	}
	var next byte
	if *value {
		next = cur | (1 << bit)
	} else {
		next = cur &^ (1 << bit)
	}
	a.v.U8(byteOff, &next)
	return *value, true
}

// LedMap returns a copy of the raw 16-byte membership bitmap.
func (a AmbientLed) LedMap() ([]byte, bool) { return a.v.SliceBytes(16, LedMapSize, nil) }
