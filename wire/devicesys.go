package wire

import (
	"github.com/go-sayo/sayohid/bytebuf"
	"github.com/go-sayo/sayohid/util"
)

// DeviceInfo is the cmd 0x00 response: model/version identity plus a live
// battery and CPU snapshot, terminated by a variable-length supported-API
// list.
type DeviceInfo struct{ base }

func NewDeviceInfo(v bytebuf.View) DeviceInfo { return DeviceInfo{base{v}} }

func (d DeviceInfo) ModelCode(value *uint16) (uint16, bool) { return d.v.U16(0, value) }
func (d DeviceInfo) Ver(value *uint16) (uint16, bool)       { return d.v.U16(2, value) }
func (d DeviceInfo) USB0Orientation(value *byte) (byte, bool) { return d.v.U8(4, value) }
func (d DeviceInfo) USB0Offset(value *byte) (byte, bool)      { return d.v.U8(5, value) }
func (d DeviceInfo) USB1Orientation(value *byte) (byte, bool) { return d.v.U8(6, value) }
func (d DeviceInfo) USB1Offset(value *byte) (byte, bool)      { return d.v.U8(7, value) }
func (d DeviceInfo) BatteryLevel(value *byte) (byte, bool)    { return d.v.U8(8, value) }
func (d DeviceInfo) KeyFn(value *byte) (byte, bool)           { return d.v.U8(9, value) }
func (d DeviceInfo) CPULoad1s(value *byte) (byte, bool)       { return d.v.U8(10, value) }
func (d DeviceInfo) CPULoad1ms(value *byte) (byte, bool)      { return d.v.U8(11, value) }

// APIList is the variable-length tail listing supported cmd bytes.
func (d DeviceInfo) APIList() ([]byte, bool) { return d.v.SliceBytes(12, -1, nil) }

// SystemInfo is the cmd 0x02 response: clock rates, system time, and the
// active config slot/range pair the device is currently running.
type SystemInfo struct{ base }

func NewSystemInfo(v bytebuf.View) SystemInfo { return SystemInfo{base{v}} }

func (s SystemInfo) LCDWidth(value *uint16) (uint16, bool)       { return s.v.U16(0, value) }
func (s SystemInfo) LCDHeight(value *uint16) (uint16, bool)      { return s.v.U16(2, value) }
func (s SystemInfo) LCDRefreshRate(value *byte) (byte, bool)     { return s.v.U8(4, value) }

// CfgSelection is the low nibble of byte 5: the active config slot.
func (s SystemInfo) CfgSelection(value *byte) (byte, bool) {
	cur, ok := s.v.U8(5, nil)
	if !ok {
		return 0, false
	}
	if value == nil {
		return util.LowNibble(cur), true
	}
	packed := util.PackNibbles(*value, util.HighNibble(cur))
	s.v.U8(5, &packed)
	return *value, true
}

// CfgRange is the high nibble of byte 5: the number of selectable slots.
// It is read-only on the wire.
func (s SystemInfo) CfgRange() (byte, bool) {
	cur, ok := s.v.U8(5, nil)
	if !ok {
		return 0, false
	}
	return util.HighNibble(cur), true
}

func (s SystemInfo) SysTimeMs(value *uint16) (uint16, bool) { return s.v.U16(6, value) }
func (s SystemInfo) SysTimeS(value *uint32) (uint32, bool)  { return s.v.U32(8, value) }
func (s SystemInfo) VID(value *uint16) (uint16, bool)       { return s.v.U16(12, value) }
func (s SystemInfo) PID(value *uint16) (uint16, bool)       { return s.v.U16(14, value) }
func (s SystemInfo) CPULoad1m(value *byte) (byte, bool)     { return s.v.U8(16, value) }
func (s SystemInfo) CPULoad5m(value *byte) (byte, bool)     { return s.v.U8(17, value) }
func (s SystemInfo) CPUFreq(value *uint32) (uint32, bool)   { return s.v.U32(18, value) }
func (s SystemInfo) HCLKFreq(value *uint32) (uint32, bool)  { return s.v.U32(22, value) }
func (s SystemInfo) PCLK1Freq(value *uint32) (uint32, bool) { return s.v.U32(26, value) }
func (s SystemInfo) PCLK2Freq(value *uint32) (uint32, bool) { return s.v.U32(30, value) }
func (s SystemInfo) ADC0Freq(value *uint32) (uint32, bool)  { return s.v.U32(34, value) }
func (s SystemInfo) ADC1Freq(value *uint32) (uint32, bool)  { return s.v.U32(38, value) }

// DeviceConfig is the cmd 0x03 response: a run of (value, selectable-range)
// byte/word pairs describing the device's tunable settings. This is a
// representative subset of the source device's field list, not every pair
// the firmware exposes.
type DeviceConfig struct{ base }

func NewDeviceConfig(v bytebuf.View) DeviceConfig { return DeviceConfig{base{v}} }

func (c DeviceConfig) DisplayWidth(value *uint16) (uint16, bool)  { return c.v.U16(0, value) }
func (c DeviceConfig) DisplayHeight(value *uint16) (uint16, bool) { return c.v.U16(2, value) }

func (c DeviceConfig) DevFeatureSelection0(value *byte) (byte, bool) { return c.v.U8(4, value) }
func (c DeviceConfig) DevFeatureSelection0Range(value *byte) (byte, bool) {
	return c.v.U8(5, value)
}
func (c DeviceConfig) EncChannel(value *byte) (byte, bool)      { return c.v.U8(6, value) }
func (c DeviceConfig) EncChannelRange(value *byte) (byte, bool) { return c.v.U8(7, value) }
func (c DeviceConfig) KeyReleaseDelay(value *byte) (byte, bool) { return c.v.U8(8, value) }
func (c DeviceConfig) KeyReleaseDelayRange(value *byte) (byte, bool) {
	return c.v.U8(9, value)
}
func (c DeviceConfig) LCDTimeout(value *byte) (byte, bool)      { return c.v.U8(10, value) }
func (c DeviceConfig) LCDTimeoutRange(value *byte) (byte, bool) { return c.v.U8(11, value) }

func (c DeviceConfig) HidFeatureSelection0(value *byte) (byte, bool) { return c.v.U8(12, value) }
func (c DeviceConfig) HidFeatureSelection0Range(value *byte) (byte, bool) {
	return c.v.U8(13, value)
}
func (c DeviceConfig) HidFeatureSelection1(value *byte) (byte, bool) { return c.v.U8(14, value) }
func (c DeviceConfig) HidFeatureSelection1Range(value *byte) (byte, bool) {
	return c.v.U8(15, value)
}

func (c DeviceConfig) KeyboardLayout(value *byte) (byte, bool) { return c.v.U8(16, value) }
func (c DeviceConfig) KeyboardLayoutRange(value *byte) (byte, bool) {
	return c.v.U8(17, value)
}
func (c DeviceConfig) KeyboardLanguage(value *byte) (byte, bool) { return c.v.U8(18, value) }
func (c DeviceConfig) KeyboardLanguageRange(value *byte) (byte, bool) {
	return c.v.U8(19, value)
}

func (c DeviceConfig) DevFeatureSelection1(value *byte) (byte, bool) { return c.v.U8(20, value) }
func (c DeviceConfig) DevFeatureSelection1Range(value *byte) (byte, bool) {
	return c.v.U8(21, value)
}
func (c DeviceConfig) USBSpeed(value *byte) (byte, bool)      { return c.v.U8(22, value) }
func (c DeviceConfig) USBSpeedRange(value *byte) (byte, bool) { return c.v.U8(23, value) }

func (c DeviceConfig) KeyPressDelay(value *uint16) (uint16, bool)      { return c.v.U16(24, value) }
func (c DeviceConfig) KeyPressDelayRange(value *uint16) (uint16, bool) { return c.v.U16(26, value) }

func (c DeviceConfig) DisplayWidthNegative(value *uint16) (uint16, bool) {
	return c.v.U16(28, value)
}
func (c DeviceConfig) DisplayHeightNegative(value *uint16) (uint16, bool) {
	return c.v.U16(30, value)
}

func (c DeviceConfig) HallMultisampling(value *byte) (byte, bool) { return c.v.U8(32, value) }
func (c DeviceConfig) HallMultisamplingRange(value *byte) (byte, bool) {
	return c.v.U8(33, value)
}
func (c DeviceConfig) LedDimmingTime(value *byte) (byte, bool) { return c.v.U8(34, value) }
func (c DeviceConfig) LedDimmingTimeRange(value *byte) (byte, bool) {
	return c.v.U8(35, value)
}
func (c DeviceConfig) LedTurnOffTime(value *byte) (byte, bool) { return c.v.U8(36, value) }
func (c DeviceConfig) LedTurnOffTimeRange(value *byte) (byte, bool) {
	return c.v.U8(37, value)
}

// RFConfig is the cmd 0x04 response: the 2.4GHz radio's address, mode and
// timing settings, each paired with its selectable range like DeviceConfig.
type RFConfig struct{ base }

func NewRFConfig(v bytebuf.View) RFConfig { return RFConfig{base{v}} }

func (r RFConfig) Addr(value *uint32) (uint32, bool)     { return r.v.U32(0, value) }
func (r RFConfig) Mode(value *byte) (byte, bool)          { return r.v.U8(4, value) }
func (r RFConfig) ModeRange(value *byte) (byte, bool)     { return r.v.U8(5, value) }
func (r RFConfig) Channel(value *byte) (byte, bool)       { return r.v.U8(6, value) }
func (r RFConfig) ChannelRange(value *byte) (byte, bool)  { return r.v.U8(7, value) }
func (r RFConfig) Gap(value *byte) (byte, bool)           { return r.v.U8(8, value) }
func (r RFConfig) GapRange(value *byte) (byte, bool)      { return r.v.U8(9, value) }
func (r RFConfig) Timeout(value *byte) (byte, bool)       { return r.v.U8(10, value) }
func (r RFConfig) TimeoutRange(value *byte) (byte, bool)  { return r.v.U8(11, value) }
func (r RFConfig) SleepTime(value *byte) (byte, bool)     { return r.v.U8(12, value) }
func (r RFConfig) SleepTimeRange(value *byte) (byte, bool) { return r.v.U8(13, value) }
func (r RFConfig) LedTime(value *byte) (byte, bool)       { return r.v.U8(14, value) }
func (r RFConfig) LedTimeRange(value *byte) (byte, bool)  { return r.v.U8(15, value) }
