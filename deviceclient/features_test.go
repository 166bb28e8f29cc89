package deviceclient_test

import (
	"context"
	"testing"

	"github.com/go-sayo/sayohid/bytebuf"
	"github.com/go-sayo/sayohid/deviceclient"
	"github.com/go-sayo/sayohid/framecodec"
	"github.com/go-sayo/sayohid/wire"
)

func TestGetDeviceInfoDecodesModel(t *testing.T) {
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		if h.Cmd != wire.CmdDeviceInfo {
			t.Fatalf("unexpected cmd %#x", h.Cmd)
		}
		v := bytebuf.New(make([]byte, 13))
		model := uint16(0x1234)
		v.U16(0, &model)
		return framecodec.StatusOK, v.Bytes(), true
	})
	info, ok := deviceclient.GetDeviceInfo(context.Background(), c)
	if !ok {
		t.Fatal("expected GetDeviceInfo to succeed")
	}
	model, _ := info.ModelCode(nil)
	if model != 0x1234 {
		t.Fatalf("expected model 0x1234, got %#x", model)
	}
}

func TestDeviceNameRoundTrip(t *testing.T) {
	var stored []byte
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		if len(body) > 0 {
			stored = append([]byte{}, body...)
			return byte(bytebuf.EncodingASCII), nil, true
		}
		return byte(bytebuf.EncodingASCII), stored, true
	})

	if ok := deviceclient.SetDeviceName(context.Background(), c, "Keypad"); !ok {
		t.Fatal("expected SetDeviceName to succeed")
	}
	got, ok := deviceclient.GetDeviceName(context.Background(), c)
	if !ok {
		t.Fatal("expected GetDeviceName to succeed")
	}
	if got != "Keypad" {
		t.Fatalf("expected %q, got %q", "Keypad", got)
	}
}

func TestRebootSendsExpectedMagic(t *testing.T) {
	var seenCmd byte
	var seenBody []byte
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		seenCmd = h.Cmd
		seenBody = append([]byte{}, body...)
		return framecodec.StatusOK, nil, true
	})
	if ok := deviceclient.Reboot(context.Background(), c); !ok {
		t.Fatal("expected Reboot to succeed")
	}
	if seenCmd != wire.CmdReboot {
		t.Fatalf("expected cmd 0x0E, got %#x", seenCmd)
	}
	want := []byte{0x96, 0x72, wire.RebootSubReboot, ^wire.RebootSubReboot}
	if len(seenBody) != len(want) {
		t.Fatalf("unexpected magic length: %v", seenBody)
	}
	for i, b := range want {
		if seenBody[i] != b {
			t.Fatalf("byte %d: want %#x got %#x", i, b, seenBody[i])
		}
	}
}

func TestSaveAllCfgSendsExpectedMagic(t *testing.T) {
	var seenBody []byte
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		seenBody = append([]byte{}, body...)
		return framecodec.StatusOK, nil, true
	})
	if ok := deviceclient.SaveAllCfg(context.Background(), c); !ok {
		t.Fatal("expected SaveAllCfg to succeed")
	}
	if len(seenBody) != 2 || seenBody[0] != 0x96 || seenBody[1] != 0x72 {
		t.Fatalf("unexpected SaveAll magic: %v", seenBody)
	}
}

func TestGetKeyInfosEnumeratesUntilUnknownIndex(t *testing.T) {
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		if h.Index >= 2 {
			return framecodec.StatusUnknownIndex, nil, true
		}
		v := bytebuf.New(make([]byte, 16))
		valid := byte(1)
		v.U8(0, &valid)
		return framecodec.StatusOK, v.Bytes(), true
	})
	infos := deviceclient.GetKeyInfos(context.Background(), c)
	if len(infos) != 2 {
		t.Fatalf("expected 2 key infos, got %d", len(infos))
	}
}

func TestAmbientLedColorRoundTripsThroughSetGet(t *testing.T) {
	var stored []byte
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		if len(body) > 0 {
			stored = append([]byte{}, body...)
		}
		return framecodec.StatusOK, stored, true
	})
	a := wire.NewAmbientLed(bytebuf.New(make([]byte, 32)))
	want := uint32(0x00112233)
	a.Color(0, &want)

	if _, ok := deviceclient.SetAmbientLed(context.Background(), c, a); !ok {
		t.Fatal("expected SetAmbientLed to succeed")
	}
	got, ok := deviceclient.GetAmbientLed(context.Background(), c)
	if !ok {
		t.Fatal("expected GetAmbientLed to succeed")
	}
	gotColor, _ := got.Color(0, nil)
	if gotColor != want {
		t.Fatalf("expected color %#x, got %#x", want, gotColor)
	}
}
