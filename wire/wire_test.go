package wire_test

import (
	"testing"

	"github.com/go-sayo/sayohid/bytebuf"
	"github.com/go-sayo/sayohid/wire"
)

func TestDeviceInfoFields(t *testing.T) {
	d := wire.NewDeviceInfo(bytebuf.New(make([]byte, 16)))
	ver := uint16(0x0102)
	d.Ver(&ver)
	if got, ok := d.Ver(nil); !ok || got != 0x0102 {
		t.Fatalf("got %#x, %v", got, ok)
	}
	if _, ok := d.APIList(); !ok {
		t.Fatal("expected APIList to succeed on a 16-byte view")
	}
}

func TestSystemInfoCfgSelectionPreservesRange(t *testing.T) {
	v := bytebuf.New(make([]byte, 42))
	rangeAndSel := byte(0x53) // range=5, selection=3
	v.U8(5, &rangeAndSel)
	s := wire.NewSystemInfo(v)

	if got, ok := s.CfgRange(); !ok || got != 5 {
		t.Fatalf("expected range 5, got %d (%v)", got, ok)
	}
	if got, ok := s.CfgSelection(nil); !ok || got != 3 {
		t.Fatalf("expected selection 3, got %d (%v)", got, ok)
	}

	next := byte(7)
	s.CfgSelection(&next)
	if got, ok := s.CfgRange(); !ok || got != 5 {
		t.Fatalf("expected range to survive selection write, got %d (%v)", got, ok)
	}
	if got, ok := s.CfgSelection(nil); !ok || got != 7 {
		t.Fatalf("expected selection 7 after write, got %d (%v)", got, ok)
	}
}

func TestKeyInfoBindings(t *testing.T) {
	k := wire.NewKeyInfo(bytebuf.New(make([]byte, 16+4*wire.KeyDataSize)))
	b0, ok := k.Binding(0)
	if !ok {
		t.Fatal("expected binding 0 to exist")
	}
	mode := byte(0x02)
	b0.Mode(&mode)
	if got, ok := k.Bindings()[0].Mode(nil); !ok || got != 0x02 {
		t.Fatalf("expected binding write to alias Bindings() view, got %d (%v)", got, ok)
	}
	if _, ok := k.Binding(4); ok {
		t.Fatal("expected out-of-range binding index to fail")
	}
}

func TestLedDataPackedByteRoundTrip(t *testing.T) {
	l := wire.NewLedData(bytebuf.New(make([]byte, wire.LedDataSize)))
	mode, colorMode, speed := byte(5), byte(2), byte(3)
	l.Mode(&mode)
	l.ColorMode(&colorMode)
	l.Speed(&speed)

	if got, ok := l.Mode(nil); !ok || got != 5 {
		t.Fatalf("mode: got %d (%v)", got, ok)
	}
	if got, ok := l.ColorMode(nil); !ok || got != 2 {
		t.Fatalf("colorMode: got %d (%v)", got, ok)
	}
	if got, ok := l.Speed(nil); !ok || got != 3 {
		t.Fatalf("speed: got %d (%v)", got, ok)
	}
}

func TestLedEffectColorSwapRoundTrip(t *testing.T) {
	e := wire.NewLedEffect(bytebuf.New(make([]byte, 48)))
	in := uint32(0xFF112233) // A=FF R=11 G=22 B=33
	e.ProfileColor(0, &in)
	out, ok := e.ProfileColor(0, nil)
	if !ok || out != in {
		t.Fatalf("expected round trip %#08x, got %#08x (%v)", in, out, ok)
	}

	// verify the wire bytes actually have R/B swapped relative to input.
	raw, _ := e.View().U32(8, nil)
	wantRaw := uint32(0x11) | uint32(0x22)<<8 | uint32(0x33)<<16 | uint32(0xFF)<<24
	if raw != wantRaw {
		t.Fatalf("expected swapped wire repr %#08x, got %#08x", wantRaw, raw)
	}
}

func TestLedEffectGlobalColorNoAlphaStored(t *testing.T) {
	e := wire.NewLedEffect(bytebuf.New(make([]byte, 48)))
	in := uint32(0x00AABBCC)
	e.Color(&in)
	out, ok := e.Color(nil)
	if !ok || out != 0xFFAABBCC {
		t.Fatalf("expected synthesized alpha 0xFF, got %#08x (%v)", out, ok)
	}
}

func TestAnalogKeyInfoLevelCompression(t *testing.T) {
	a := wire.NewAnalogKeyInfo(bytebuf.New(make([]byte, 24)))
	low := uint16(40)
	a.TriggerLevel(&low)
	if got, ok := a.TriggerLevel(nil); !ok || got != 40 {
		t.Fatalf("expected lossless round trip under 100, got %d (%v)", got, ok)
	}

	high := uint16(150) // > 100: compressed, lossy
	a.ReleaseLevel(&high)
	got, ok := a.ReleaseLevel(nil)
	if !ok {
		t.Fatal("expected read to succeed")
	}
	if got != 150 {
		t.Fatalf("expected exact round trip for even excess, got %d", got)
	}
}

func TestColorTableEntries(t *testing.T) {
	v := bytebuf.New(make([]byte, 2+3*wire.SayoColorDataSize))
	n := byte(3)
	v.U8(0, &n)
	ct := wire.NewColorTable(v)
	entries := ct.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	r := byte(0x7F)
	entries[1].R(&r)
	if got, _ := ct.Entries()[1].R(nil); got != 0x7F {
		t.Fatalf("expected write to alias table view, got %#x", got)
	}
}

func TestGamePadCfgPoints(t *testing.T) {
	g := wire.NewGamePadCfg(bytebuf.New(make([]byte, 4+8*2)))
	x, y := byte(10), byte(20)
	g.Point(0, &x, &y)
	gx, gy, ok := g.Point(0, nil, nil)
	if !ok || gx != 10 || gy != 20 {
		t.Fatalf("expected (10,20), got (%d,%d) %v", gx, gy, ok)
	}
	if _, _, ok := g.Point(8, nil, nil); ok {
		t.Fatal("expected out-of-range point index to fail")
	}
}

func TestStringContentRoundTrip(t *testing.T) {
	v := bytebuf.New(make([]byte, 32))
	sc := wire.NewStringContent(bytebuf.EncodingASCII, v)
	s := "hunter2"
	sc.Str(&s)
	got, ok := sc.Str(nil)
	if !ok || got != s {
		t.Fatalf("expected %q, got %q (%v)", s, got, ok)
	}
}

func TestStringContentReencode(t *testing.T) {
	v := bytebuf.New(make([]byte, 6))
	sc := wire.NewStringContent(bytebuf.EncodingASCII, v)
	s := "hi"
	sc.Str(&s)
	got, ok := sc.Reencode(bytebuf.EncodingUTF16LE)
	if !ok {
		t.Fatal("expected reencode to succeed")
	}
	if len(got) == 0 {
		t.Fatal("expected re-encoded string to keep at least one character")
	}
}

func TestAddressableRoundTrip(t *testing.T) {
	a := wire.AddressableWith(0x1000, []byte{1, 2, 3, 4})
	addr, ok := a.Addr(nil)
	if !ok || addr != 0x1000 {
		t.Fatalf("expected addr 0x1000, got %#x (%v)", addr, ok)
	}
	data, ok := a.Data()
	if !ok || len(data) != 4 {
		t.Fatalf("expected 4 data bytes, got %v (%v)", data, ok)
	}
}

func TestScreenBufferIsAddressable(t *testing.T) {
	sb := wire.NewScreenBuffer(bytebuf.New(make([]byte, 8)))
	if _, ok := sb.Addr(nil); !ok {
		t.Fatal("expected ScreenBuffer to expose Addressable's Addr")
	}
}
