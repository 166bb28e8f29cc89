package wire

import "github.com/go-sayo/sayohid/bytebuf"

// AdvancedKeyBinding is the cmd 0x1D response: a hall-effect key's
// multi-level binding (distinct actions at up to four trigger depths)
// plus twelve per-function option bytes.
type AdvancedKeyBinding struct{ base }

func NewAdvancedKeyBinding(v bytebuf.View) AdvancedKeyBinding { return AdvancedKeyBinding{base{v}} }

func (a AdvancedKeyBinding) Mode(value *byte) (byte, bool)    { return a.v.U8(0, value) }
func (a AdvancedKeyBinding) BindKey(value *byte) (byte, bool) { return a.v.U8(1, value) }

// KeyData returns the index'th (0..3) KeyData binding slot.
func (a AdvancedKeyBinding) KeyData(index int) (KeyData, bool) {
	if index < 0 || index >= 4 {
		return KeyData{}, false
	}
	sub, ok := a.v.Sub(4+index*KeyDataSize, KeyDataSize)
	if !ok {
		return KeyData{}, false
	}
	return NewKeyData(sub), true
}

// KeyDatas returns every KeyData slot in the fixed 4-slot table.
func (a AdvancedKeyBinding) KeyDatas() []KeyData {
	var out []KeyData
	for i := 0; i < 4; i++ {
		kd, ok := a.KeyData(i)
		if !ok {
			break
		}
		out = append(out, kd)
	}
	return out
}

// FuncOpt reads/writes one of the twelve per-function option bytes
// (index 0..11) following the KeyData table at offset 36.
func (a AdvancedKeyBinding) FuncOpt(index int, value *byte) (byte, bool) {
	if index < 0 || index >= 12 {
		return 0, false
	}
	return a.v.U8(36+index, value)
}
