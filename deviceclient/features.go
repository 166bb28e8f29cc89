package deviceclient

import (
	"context"

	"github.com/go-sayo/sayohid/bytebuf"
	"github.com/go-sayo/sayohid/reportdecoder"
	"github.com/go-sayo/sayohid/wire"
)

// This file is the thin per-feature accessor layer spec.md §1 calls out as
// the high-level API "out of scope" for the core: each function here is a
// one-line Request/RequestAllIndex/GetAddressable call against a single
// cmd and field layout from §6's command catalogue. None of it adds
// protocol logic beyond what deviceclient.go already provides.

// GetDeviceInfo reads the identity/health snapshot (cmd 0x00).
func GetDeviceInfo(ctx context.Context, c *Client) (wire.DeviceInfo, bool) {
	return Request(ctx, c, wire.CmdDeviceInfo, 0, nil, wire.NewDeviceInfo)
}

// GetSystemInfo reads the clock/timing snapshot (cmd 0x02).
func GetSystemInfo(ctx context.Context, c *Client) (wire.SystemInfo, bool) {
	return Request(ctx, c, wire.CmdSystemInfo, 0, nil, wire.NewSystemInfo)
}

// GetDeviceConfig reads the tunable settings table (cmd 0x03).
func GetDeviceConfig(ctx context.Context, c *Client) (wire.DeviceConfig, bool) {
	return Request(ctx, c, wire.CmdDeviceConfig, 0, nil, wire.NewDeviceConfig)
}

// SetDeviceConfig writes back the (mutated) settings table and returns the
// device's merged view of it.
func SetDeviceConfig(ctx context.Context, c *Client, cfg wire.DeviceConfig) (wire.DeviceConfig, bool) {
	return Request(ctx, c, wire.CmdDeviceConfig, 0, cfg.Bytes(), wire.NewDeviceConfig)
}

// GetRFConfig reads the 2.4GHz radio settings (cmd 0x04).
func GetRFConfig(ctx context.Context, c *Client) (wire.RFConfig, bool) {
	return Request(ctx, c, wire.CmdRFConfig, 0, nil, wire.NewRFConfig)
}

// SetRFConfig writes back the radio settings and returns the device's
// merged view of them.
func SetRFConfig(ctx context.Context, c *Client, cfg wire.RFConfig) (wire.RFConfig, bool) {
	return Request(ctx, c, wire.CmdRFConfig, 0, cfg.Bytes(), wire.NewRFConfig)
}

// Reboot asks the device to perform a normal restart.
func Reboot(ctx context.Context, c *Client) bool {
	return fireMagic(ctx, c, wire.RebootWith(wire.RebootSubReboot).Bytes())
}

// Recovery asks the device to restart into its recovery mode.
func Recovery(ctx context.Context, c *Client) bool {
	return fireMagic(ctx, c, wire.RebootWith(wire.RebootSubRecovery).Bytes())
}

// BootloaderEnter asks the device to restart into its firmware bootloader.
func BootloaderEnter(ctx context.Context, c *Client) bool {
	return fireMagic(ctx, c, wire.RebootWith(wire.RebootSubBootloader).Bytes())
}

// SaveAllCfg asks the device to persist its current working configuration
// to non-volatile storage.
func SaveAllCfg(ctx context.Context, c *Client) bool {
	return fireMagic(ctx, c, wire.SaveAllMagic().Bytes())
}

func fireMagic(ctx context.Context, c *Client, payload []byte) bool {
	cmd := wire.CmdReboot
	if len(payload) == 2 {
		cmd = wire.CmdSaveAll
	}
	_, ok := Request(ctx, c, cmd, 0, payload, func(bytebuf.View) struct{} { return struct{}{} })
	return ok
}

// decodeStringContent builds a StringContent over a bare response body.
// Its placeholder encoding is immediately corrected by
// RequestWithHeader/RequestWithHeaderStatus from the response's terminal
// status byte (the encoding's actual wire location, per §4.C).
func decodeStringContent(v bytebuf.View) wire.StringContent {
	return wire.NewStringContent(bytebuf.EncodingASCII, v)
}

// GetDeviceName/SetDeviceName read and write the device's display name, a
// StringContent over cmd 0x01.
func GetDeviceName(ctx context.Context, c *Client) (string, bool) {
	sc, ok := Request(ctx, c, wire.CmdStringContent, 0, nil, decodeStringContent)
	if !ok {
		return "", false
	}
	return sc.Str(nil)
}

func SetDeviceName(ctx context.Context, c *Client, name string) bool {
	return setStringContentIndex(ctx, c, wire.CmdStringContent, 0, bytebuf.EncodingASCII, name)
}

// LockDevice/UnlockDevice set or clear the device's password-lock state by
// writing the Password message (cmd 0x16), per device.rs's lock_device.
// Both send the same write; whether the device locks or unlocks depends on
// its current state, matching device.rs's single lock_device primitive.
func LockDevice(ctx context.Context, c *Client, password string) bool {
	return setStringContentIndex(ctx, c, wire.CmdPassword, 0, bytebuf.EncodingASCII, password)
}

func UnlockDevice(ctx context.Context, c *Client, password string) bool {
	return setStringContentIndex(ctx, c, wire.CmdPassword, 0, bytebuf.EncodingASCII, password)
}

// GetPasswords/SetPassword enumerate and write the device's stored
// passwords (cmd 0x16), StringContent indexed per slot.
func GetPasswords(ctx context.Context, c *Client) []wire.StringContent {
	return RequestAllIndex(ctx, c, wire.CmdPassword, decodeStringContent)
}

func SetPassword(ctx context.Context, c *Client, index byte, password string) bool {
	return setStringContentIndex(ctx, c, wire.CmdPassword, index, bytebuf.EncodingASCII, password)
}

// GetStrings/SetString enumerate and write the device's user-defined
// string table (cmd 0x17).
func GetStrings(ctx context.Context, c *Client) []wire.StringContent {
	return RequestAllIndex(ctx, c, wire.CmdStringTable, decodeStringContent)
}

func SetString(ctx context.Context, c *Client, index byte, s string) bool {
	return setStringContentIndex(ctx, c, wire.CmdStringTable, index, bytebuf.EncodingGB18030, s)
}

// GetScriptNames/SetScriptName enumerate and write script slot names
// (cmd 0x19).
func GetScriptNames(ctx context.Context, c *Client) []wire.StringContent {
	return RequestAllIndex(ctx, c, wire.CmdScriptNames, decodeStringContent)
}

func SetScriptName(ctx context.Context, c *Client, index byte, name string) bool {
	return setStringContentIndex(ctx, c, wire.CmdScriptNames, index, bytebuf.EncodingASCII, name)
}

func setStringContentIndex(ctx context.Context, c *Client, cmd byte, index byte, enc bytebuf.Encoding, s string) bool {
	payload := bytebuf.EncodeString(enc, s)
	_, ok := RequestStatus(ctx, c, cmd, index, payload, byte(enc), decodeStringContent)
	return ok
}

// GetKeyInfos/SetKeyInfo enumerate and write the physical key layout and
// binding table (cmd 0x10).
func GetKeyInfos(ctx context.Context, c *Client) []wire.KeyInfo {
	return RequestAllIndex(ctx, c, wire.CmdKeyInfo, wire.NewKeyInfo)
}

func SetKeyInfo(ctx context.Context, c *Client, index byte, k wire.KeyInfo) (wire.KeyInfo, bool) {
	return Request(ctx, c, wire.CmdKeyInfo, index, k.Bytes(), wire.NewKeyInfo)
}

// GetLedInfos/SetLedInfo enumerate and write the LED layout and animation
// table (cmd 0x11).
func GetLedInfos(ctx context.Context, c *Client) []wire.LEDInfo {
	return RequestAllIndex(ctx, c, wire.CmdLEDInfo, wire.NewLEDInfo)
}

func SetLedInfo(ctx context.Context, c *Client, index byte, l wire.LEDInfo) (wire.LEDInfo, bool) {
	return Request(ctx, c, wire.CmdLEDInfo, index, l.Bytes(), wire.NewLEDInfo)
}

// GetColorTables/SetColorTable enumerate and write the stored RGB palettes
// (cmd 0x12).
func GetColorTables(ctx context.Context, c *Client) []wire.ColorTable {
	return RequestAllIndex(ctx, c, wire.CmdColorTable, wire.NewColorTable)
}

func SetColorTable(ctx context.Context, c *Client, index byte, t wire.ColorTable) (wire.ColorTable, bool) {
	return Request(ctx, c, wire.CmdColorTable, index, t.Bytes(), wire.NewColorTable)
}

// GetTouchSensitivities/SetTouchSensitivity enumerate and write the
// per-channel hall sensitivity settings (cmd 0x13).
func GetTouchSensitivities(ctx context.Context, c *Client) []wire.TouchSensitivity {
	return RequestAllIndex(ctx, c, wire.CmdTouchSensitivity, wire.NewTouchSensitivity)
}

func GetTouchSensitivity(ctx context.Context, c *Client, index byte) (wire.TouchSensitivity, bool) {
	return Request(ctx, c, wire.CmdTouchSensitivity, index, nil, wire.NewTouchSensitivity)
}

func SetTouchSensitivity(ctx context.Context, c *Client, index byte, t wire.TouchSensitivity) (wire.TouchSensitivity, bool) {
	return Request(ctx, c, wire.CmdTouchSensitivity, index, t.Bytes(), wire.NewTouchSensitivity)
}

// GetHall50um/GetHallInfoUm read the two fixed hall-effect read-out
// records (cmd 0x15, index 0 and 1 respectively).
func GetHall50um(ctx context.Context, c *Client) (wire.AnalogKeyInfo, bool) {
	return Request(ctx, c, wire.CmdHall, 0, nil, wire.NewAnalogKeyInfo)
}

func GetHallInfoUm(ctx context.Context, c *Client) (wire.AnalogKeyInfo2, bool) {
	return Request(ctx, c, wire.CmdHall, 1, nil, wire.NewAnalogKeyInfo2)
}

// GetAnalogKeyInfos/GetAnalogKeyInfo/SetAnalogKeyInfo enumerate and write
// the current-firmware per-key hall-effect calibration table (cmd 0x1C).
func GetAnalogKeyInfos(ctx context.Context, c *Client) []wire.AnalogKeyInfo2 {
	return RequestAllIndex(ctx, c, wire.CmdAnalogKeyInfo2, wire.NewAnalogKeyInfo2)
}

func GetAnalogKeyInfo(ctx context.Context, c *Client, index byte) (wire.AnalogKeyInfo2, bool) {
	return Request(ctx, c, wire.CmdAnalogKeyInfo2, index, nil, wire.NewAnalogKeyInfo2)
}

func SetAnalogKeyInfo(ctx context.Context, c *Client, index byte, a wire.AnalogKeyInfo2) (wire.AnalogKeyInfo2, bool) {
	return Request(ctx, c, wire.CmdAnalogKeyInfo2, index, a.Bytes(), wire.NewAnalogKeyInfo2)
}

// GetAdvancedKeyBindings/SetAdvancedKeyBinding enumerate and write the
// multi-level hall-effect binding table (cmd 0x1D).
func GetAdvancedKeyBindings(ctx context.Context, c *Client) []wire.AdvancedKeyBinding {
	return RequestAllIndex(ctx, c, wire.CmdAdvancedKeyBinding, wire.NewAdvancedKeyBinding)
}

func SetAdvancedKeyBinding(ctx context.Context, c *Client, index byte, a wire.AdvancedKeyBinding) (wire.AdvancedKeyBinding, bool) {
	return Request(ctx, c, wire.CmdAdvancedKeyBinding, index, a.Bytes(), wire.NewAdvancedKeyBinding)
}

// GetKeyPhysicalStatus reads the raw per-key electrical diagnostic dump
// (cmd 0x1E).
func GetKeyPhysicalStatus(ctx context.Context, c *Client) (wire.KeyPhysicalStatus, bool) {
	return Request(ctx, c, wire.CmdKeyPhysicalStatus, 0, nil, wire.NewKeyPhysicalStatus)
}

// ScreenLayer selects which of the three LCD draw commands a draw-data
// call targets.
type ScreenLayer byte

const (
	ScreenLayerFull    ScreenLayer = wire.CmdLcdDrawDataFull
	ScreenLayerPartial ScreenLayer = wire.CmdLcdDrawDataPartial
	ScreenLayerIcon    ScreenLayer = wire.CmdLcdDrawDataIcon
)

// GetLcdDrawDatas/SetLcdDrawData enumerate and write one of the three LCD
// draw-data layers (cmd 0x21/0x22/0x23), each an Addressable pixel blob.
func GetLcdDrawDatas(ctx context.Context, c *Client, layer ScreenLayer) []wire.LcdDrawData {
	return RequestAllIndex(ctx, c, byte(layer), wire.NewLcdDrawData)
}

func SetLcdDrawData(ctx context.Context, c *Client, layer ScreenLayer, index byte, addr uint32, pixels []byte) (wire.LcdDrawData, bool) {
	msg := wire.LcdDrawDataWith(addr, pixels)
	return Request(ctx, c, byte(layer), index, msg.Bytes(), wire.NewLcdDrawData)
}

// GetScript/SetScript read and write one script slot's bulk byte content
// (cmd 0x1A), built directly on the addressable bulk primitives.
func GetScript(ctx context.Context, c *Client, index byte) ([]byte, error) {
	return GetAddressable(ctx, c, wire.CmdScriptBulk, index)
}

func SetScript(ctx context.Context, c *Client, index byte, baseAddr uint32, data []byte, progress func(completed, total int) bool) []int {
	return SetAddressable(ctx, c, wire.CmdScriptBulk, index, baseAddr, data, progress)
}

// GetDisplayAssets/SetDisplayAssets read and write the bulk display-asset
// blob (cmd 0x20).
func GetDisplayAssets(ctx context.Context, c *Client, index byte) ([]byte, error) {
	return GetAddressable(ctx, c, wire.CmdDisplayAssets, index)
}

func SetDisplayAssets(ctx context.Context, c *Client, index byte, baseAddr uint32, data []byte, progress func(completed, total int) bool) []int {
	return SetAddressable(ctx, c, wire.CmdDisplayAssets, index, baseAddr, data, progress)
}

// PullScreenBuffer returns a snapshot of the decoder's mirrored LCD
// framebuffer region starting at addr, per device.rs's pull_screen_buffer.
// The decoder (component D) is the one populating this mirror, from
// unsolicited cmd 0x25 refreshes; this accessor only reads it back.
func PullScreenBuffer(dec *reportdecoder.Decoder, addr uint32) []byte {
	return dec.Screen(addr)
}

// GetLedStatus enumerates the raw per-LED status dump (cmd 0x27).
func GetLedStatus(ctx context.Context, c *Client) (wire.LedStatus, bool) {
	return Request(ctx, c, wire.CmdLedStatus, 0, nil, wire.NewLedStatus)
}

// GetLedEffect/SetLedEffect read and write the active global lighting
// effect and accent colours (cmd 0x26).
func GetLedEffect(ctx context.Context, c *Client) (wire.LedEffect, bool) {
	return Request(ctx, c, wire.CmdLedEffect, 0, nil, wire.NewLedEffect)
}

func SetLedEffect(ctx context.Context, c *Client, e wire.LedEffect) (wire.LedEffect, bool) {
	return Request(ctx, c, wire.CmdLedEffect, 0, e.Bytes(), wire.NewLedEffect)
}

// GetGamePadCfg/SetGamePadCfg read and write the emulated gamepad
// calibration and mapping table (cmd 0x28).
func GetGamePadCfg(ctx context.Context, c *Client) (wire.GamePadCfg, bool) {
	return Request(ctx, c, wire.CmdGamePadCfg, 0, nil, wire.NewGamePadCfg)
}

func SetGamePadCfg(ctx context.Context, c *Client, g wire.GamePadCfg) (wire.GamePadCfg, bool) {
	return Request(ctx, c, wire.CmdGamePadCfg, 0, g.Bytes(), wire.NewGamePadCfg)
}

// GetAmbientLed/SetAmbientLed read and write the under-glow lighting
// group's settings (cmd 0x2A).
func GetAmbientLed(ctx context.Context, c *Client) (wire.AmbientLed, bool) {
	return Request(ctx, c, wire.CmdAmbientLed, 0, nil, wire.NewAmbientLed)
}

func SetAmbientLed(ctx context.Context, c *Client, a wire.AmbientLed) (wire.AmbientLed, bool) {
	return Request(ctx, c, wire.CmdAmbientLed, 0, a.Bytes(), wire.NewAmbientLed)
}
