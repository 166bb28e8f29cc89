package reportdecoder_test

import (
	"testing"
	"time"

	"github.com/go-sayo/sayohid/broadcast"
	"github.com/go-sayo/sayohid/framecodec"
	"github.com/go-sayo/sayohid/reportdecoder"
)

const echo = 0x7A

func encodeOne(t *testing.T, cmd, index byte, payload []byte, status byte) []byte {
	t.Helper()
	frames, err := framecodec.Encode(framecodec.ReportIDFast, echo, cmd, index, payload, status)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected single frame, got %d", len(frames))
	}
	return frames[0]
}

func TestRequestResponseRoundTrip(t *testing.T) {
	d := reportdecoder.New(echo)
	ch, cancel := d.Register(reportdecoder.Key{framecodec.ReportIDFast, 0x00, 0x00})
	defer cancel()

	d.HandleFrame(encodeOne(t, 0x00, 0x00, []byte{1, 2, 3}, framecodec.StatusOK))

	select {
	case res := <-ch:
		if res.Err != nil {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		if len(res.Payload) != 3 || res.Payload[0] != 1 {
			t.Fatalf("unexpected payload: %v", res.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for response")
	}
}

func TestMultiFragmentReassembly(t *testing.T) {
	d := reportdecoder.New(echo)
	ch, cancel := d.Register(reportdecoder.Key{framecodec.ReportIDSlow, 0x10, 0x00})
	defer cancel()

	payload := make([]byte, framecodec.BodyCapacitySlow*2+5)
	for i := range payload {
		payload[i] = byte(i)
	}
	frames, err := framecodec.Encode(framecodec.ReportIDSlow, echo, 0x10, 0x00, payload, framecodec.StatusOK)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, f := range frames {
		d.HandleFrame(f)
	}

	select {
	case res := <-ch:
		if len(res.Payload) != len(payload) {
			t.Fatalf("expected reassembled length %d, got %d", len(payload), len(res.Payload))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reassembled response")
	}
}

func TestFIFOOrderingOfAwaiters(t *testing.T) {
	d := reportdecoder.New(echo)
	key := reportdecoder.Key{framecodec.ReportIDFast, 0x01, 0x00}
	ch1, c1 := d.Register(key)
	defer c1()
	ch2, c2 := d.Register(key)
	defer c2()

	d.HandleFrame(encodeOne(t, 0x01, 0x00, []byte{0xAA}, framecodec.StatusOK))
	d.HandleFrame(encodeOne(t, 0x01, 0x00, []byte{0xBB}, framecodec.StatusOK))

	first := <-ch1
	second := <-ch2
	if first.Payload[0] != 0xAA {
		t.Fatalf("expected first awaiter to get first response, got %v", first.Payload)
	}
	if second.Payload[0] != 0xBB {
		t.Fatalf("expected second awaiter to get second response, got %v", second.Payload)
	}
}

func TestCancelledAwaiterIsSkipped(t *testing.T) {
	d := reportdecoder.New(echo)
	key := reportdecoder.Key{framecodec.ReportIDFast, 0x02, 0x00}
	ch1, c1 := d.Register(key)
	c1() // cancel before response arrives
	ch2, c2 := d.Register(key)
	defer c2()

	d.HandleFrame(encodeOne(t, 0x02, 0x00, []byte{0x01}, framecodec.StatusOK))

	select {
	case <-ch1:
		t.Fatal("cancelled awaiter should not receive a result")
	default:
	}

	select {
	case res := <-ch2:
		if res.Payload[0] != 0x01 {
			t.Fatalf("expected live awaiter to get the response, got %v", res.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for live awaiter")
	}
}

func TestBroadcastFanOut(t *testing.T) {
	d := reportdecoder.New(echo)
	received := make(chan []broadcast.Item, 1)
	d.Subscribe(func(items []broadcast.Item) { received <- items })

	frames, err := framecodec.Encode(framecodec.ReportIDFast, framecodec.BroadcastEcho, framecodec.BroadcastCmd, 0x00, []byte{0x10, 0xAB, 0x00}, framecodec.StatusOK)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	d.HandleFrame(frames[0])

	select {
	case items := <-received:
		if len(items) != 1 || items[0].Type != broadcast.TypeKbKeyPress {
			t.Fatalf("unexpected broadcast items: %+v", items)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast dispatch")
	}
}

func TestScreenMirror(t *testing.T) {
	d := reportdecoder.New(echo)
	body := append([]byte{0x00, 0x10, 0x00, 0x00}, []byte{1, 2, 3, 4}...)
	frame := encodeOne(t, framecodec.ScreenBufferCmd, 0x00, body, framecodec.StatusOK)
	d.HandleFrame(frame)

	got := d.Screen(0x00001000)
	if len(got) != 4 || got[0] != 1 {
		t.Fatalf("expected mirrored pixels, got %v", got)
	}
	if d.Screen(0xDEAD) != nil {
		t.Fatal("expected unmirrored address to return nil")
	}
}

func TestScreenMirrorStitchesAdjacentWrites(t *testing.T) {
	d := reportdecoder.New(echo)

	first := append([]byte{0x00, 0x10, 0x00, 0x00}, []byte{1, 2, 3, 4}...)
	d.HandleFrame(encodeOne(t, framecodec.ScreenBufferCmd, 0x00, first, framecodec.StatusOK))

	second := append([]byte{0x04, 0x10, 0x00, 0x00}, []byte{5, 6, 7, 8}...)
	d.HandleFrame(encodeOne(t, framecodec.ScreenBufferCmd, 0x00, second, framecodec.StatusOK))

	got := d.Screen(0x00001000)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if len(got) != len(want) {
		t.Fatalf("expected stitched mirror of length %d, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected stitched mirror %v, got %v", want, got)
		}
	}

	// Reading from partway through the first write should return the
	// remainder of both writes, stitched contiguously.
	mid := d.Screen(0x00001002)
	if len(mid) != 6 || mid[0] != 3 {
		t.Fatalf("expected mid-read to return stitched remainder starting at 3, got %v", mid)
	}
}

func TestCancelAllResolvesOutstandingAwaiters(t *testing.T) {
	d := reportdecoder.New(echo)
	key := reportdecoder.Key{framecodec.ReportIDFast, 0x03, 0x00}
	ch, cancel := d.Register(key)
	defer cancel()

	d.CancelAll()

	select {
	case res := <-ch:
		if res.Err != reportdecoder.ErrCancelled {
			t.Fatalf("expected ErrCancelled, got %v", res.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cancellation")
	}

	// A frame arriving after CancelAll should find no awaiter and not panic.
	d.HandleFrame(encodeOne(t, 0x03, 0x00, []byte{1}, framecodec.StatusOK))
}

func TestUnrelatedEchoFrameIsIgnored(t *testing.T) {
	d := reportdecoder.New(echo)
	frames, err := framecodec.Encode(framecodec.ReportIDFast, echo+1, 0x00, 0x00, []byte{1}, framecodec.StatusOK)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Should not panic or deadlock even with no registered awaiter.
	d.HandleFrame(frames[0])
}
