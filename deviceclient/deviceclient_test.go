package deviceclient_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-sayo/sayohid/bytebuf"
	"github.com/go-sayo/sayohid/deviceclient"
	"github.com/go-sayo/sayohid/framecodec"
	"github.com/go-sayo/sayohid/reportdecoder"
	"github.com/go-sayo/sayohid/wire"
)

// loopEndpoint feeds every frame it's asked to send straight into a
// reportdecoder.Decoder, as if a device echoed it back synchronously. Tests
// install a responder func to shape the canned reply. Continuation frames
// are buffered, so the responder runs once per request with the
// reassembled body.
type loopEndpoint struct {
	dec      *reportdecoder.Decoder
	respond  func(h framecodec.Header, body []byte) (status byte, payload []byte, ok bool)
	clientEcho byte
	pending  []byte
}

func (e *loopEndpoint) Send(frame []byte) error {
	h, body, _, err := framecodec.Decode(frame, e.clientEcho)
	if err != nil {
		return err
	}
	if h.Status == framecodec.StatusContinue {
		e.pending = append(e.pending, body...)
		return nil
	}
	body = append(e.pending, body...)
	e.pending = nil
	status, payload, ok := e.respond(h, body)
	if !ok {
		return nil
	}
	frames, err := framecodec.Encode(h.ReportID, e.clientEcho, h.Cmd, h.Index, payload, status)
	if err != nil {
		return err
	}
	for _, f := range frames {
		e.dec.HandleFrame(f)
	}
	return nil
}

func newClient(t *testing.T, respond func(h framecodec.Header, body []byte) (byte, []byte, bool)) *deviceclient.Client {
	t.Helper()
	const echo = 0x55
	dec := reportdecoder.New(echo)
	ep := &loopEndpoint{dec: dec, respond: respond, clientEcho: echo}
	c := deviceclient.New(ep, dec, framecodec.ReportIDFast, echo)
	c.RequestTimeout = 2 * time.Second
	c.FrameTimeout = 2 * time.Second
	return c
}

func TestRequestWithHeaderRoundTrip(t *testing.T) {
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		return framecodec.StatusOK, []byte{0xAA, 0xBB}, true
	})
	h, v, ok := deviceclient.RequestWithHeader(context.Background(), c, 0x10, 0x00, nil, wire.NewAddressable)
	if !ok {
		t.Fatal("expected request to succeed")
	}
	if h.Status != framecodec.StatusOK {
		t.Fatalf("unexpected status %#x", h.Status)
	}
	if len(v.View().Bytes()) != 2 {
		t.Fatalf("unexpected payload length: %v", v.View().Bytes())
	}
}

func TestRequestFiltersOnStatus(t *testing.T) {
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		return framecodec.StatusUnknownCommand, []byte{}, true
	})
	_, ok := deviceclient.Request(context.Background(), c, 0x10, 0x00, nil, wire.NewAddressable)
	if ok {
		t.Fatal("expected Request to reject a non-success status")
	}
}

func TestRequestTimesOutWithNoResponse(t *testing.T) {
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		return 0, nil, false // never respond
	})
	c.RequestTimeout = 50 * time.Millisecond
	_, _, ok := deviceclient.RequestWithHeader(context.Background(), c, 0x10, 0x00, nil, wire.NewAddressable)
	if ok {
		t.Fatal("expected timeout to report failure")
	}
}

func TestStringContentEncodingFromStatus(t *testing.T) {
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		return 0x03, bytebuf.EncodeString(bytebuf.EncodingUTF16LE, "hi"), true
	})
	_, sc, ok := deviceclient.RequestWithHeader(context.Background(), c, 0x01, 0x00, nil, func(v bytebuf.View) wire.StringContent {
		return wire.NewStringContent(bytebuf.EncodingASCII, v) // wrong encoding on purpose
	})
	if !ok {
		t.Fatal("expected request to succeed")
	}
	if sc.EncodingByte != bytebuf.EncodingUTF16LE {
		t.Fatalf("expected encoding to be corrected from status, got %#x", byte(sc.EncodingByte))
	}
	got, ok := sc.Str(nil)
	if !ok || got != "hi" {
		t.Fatalf("expected decoded string %q, got %q (%v)", "hi", got, ok)
	}
}

func TestRequestAllIndexStopsOnUnknownIndex(t *testing.T) {
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		if h.Index >= 3 {
			return framecodec.StatusUnknownIndex, nil, true
		}
		return framecodec.StatusOK, []byte{h.Index}, true
	})
	values := deviceclient.RequestAllIndex(context.Background(), c, 0x10, wire.NewAddressable)
	if len(values) != 3 {
		t.Fatalf("expected 3 values before unknown-index stop, got %d", len(values))
	}
}

func TestRequestAllIndexAbortsAfterConsecutiveFailures(t *testing.T) {
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		return 0, nil, false // every request times out
	})
	c.RequestTimeout = 10 * time.Millisecond
	values := deviceclient.RequestAllIndex(context.Background(), c, 0x10, wire.NewAddressable)
	if len(values) != 0 {
		t.Fatalf("expected no values, got %d", len(values))
	}
}

func TestGetAddressableProbeThenRead(t *testing.T) {
	const total = 6
	data := []byte{1, 2, 3, 4, 5, 6}
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		a := wire.NewAddressable(bytebuf.New(body))
		addr, _ := a.Addr(nil)
		if addr == deviceclient.ProbeAddr {
			return framecodec.StatusOverflow, wire.AddressableWith(total, nil).Bytes(), true
		}
		remaining := data[addr:]
		return framecodec.StatusOK, wire.AddressableWith(addr, remaining).Bytes(), true
	})
	got, err := deviceclient.GetAddressable(context.Background(), c, 0x20, 0x00)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != total {
		t.Fatalf("expected %d bytes, got %d", total, len(got))
	}
}

func TestSetAddressableChunksAndReportsProgress(t *testing.T) {
	var written []byte
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		a := wire.NewAddressable(bytebuf.New(body))
		addr, _ := a.Addr(nil)
		if addr == deviceclient.ProbeAddr {
			return framecodec.StatusOverflow, wire.AddressableWith(0, nil).Bytes(), true
		}
		d, _ := a.Data()
		written = append(written, d...)
		return framecodec.StatusOK, wire.AddressableWith(addr, nil).Bytes(), true
	})

	data := make([]byte, framecodec.BodyCapacityFast*2+10)
	for i := range data {
		data[i] = byte(i)
	}
	var progressCalls int
	failed := deviceclient.SetAddressable(context.Background(), c, 0x20, 0x00, 0, data, func(completed, total int) bool {
		progressCalls++
		return true
	})
	if len(failed) != 0 {
		t.Fatalf("expected no failed chunks, got %v", failed)
	}
	if progressCalls == 0 {
		t.Fatal("expected progress callback to be invoked")
	}
	if len(written) < len(data) {
		t.Fatalf("expected at least %d bytes written, got %d", len(data), len(written))
	}
}

// TestSetAddressableMatchesWorkedExample reproduces spec.md's S5 scenario:
// base_addr=0x1000, 5000 bytes, report 0x22 must chunk at addresses spaced
// exactly BodyCapacityFast (1012) bytes apart, starting at base_addr.
func TestSetAddressableMatchesWorkedExample(t *testing.T) {
	var addrs []uint32
	c := newClient(t, func(h framecodec.Header, body []byte) (byte, []byte, bool) {
		a := wire.NewAddressable(bytebuf.New(body))
		addr, _ := a.Addr(nil)
		if addr == deviceclient.ProbeAddr {
			return framecodec.StatusOverflow, wire.AddressableWith(0, nil).Bytes(), true
		}
		addrs = append(addrs, addr)
		return framecodec.StatusOK, wire.AddressableWith(addr, nil).Bytes(), true
	})

	data := make([]byte, 5000)
	deviceclient.SetAddressable(context.Background(), c, 0x1A, 0x00, 0x1000, data, nil)

	want := []uint32{0x1000, 0x13F4, 0x17E8, 0x1BDC, 0x1FD0, 0x23C4}
	if len(addrs) < len(want) {
		t.Fatalf("expected at least %d chunks, got %d: %v", len(want), len(addrs), addrs)
	}
	for i, w := range want {
		if addrs[i] != w {
			t.Fatalf("chunk %d address = %#x, want %#x", i, addrs[i], w)
		}
	}
}
