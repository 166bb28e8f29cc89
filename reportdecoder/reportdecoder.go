// Package reportdecoder reassembles fragmented frames into logical
// payloads, dispatches them to whichever request is waiting for them,
// mirrors screen-buffer refreshes, and fans broadcast frames out to
// subscribers. One Decoder exists per connected device.
package reportdecoder

import (
	"errors"
	"log"
	"sync"

	"github.com/go-sayo/sayohid/broadcast"
	"github.com/go-sayo/sayohid/framecodec"
)

// ErrCancelled is the Result.Err value delivered to every awaiter still
// outstanding when CancelAll runs.
var ErrCancelled = errors.New("reportdecoder: cancelled")

// Key identifies a logical request/response stream.
type Key = [3]byte

// Result is what an awaiter receives: either a complete payload and its
// terminal status, or ErrCancelled from CancelAll. Malformed, CRC-failing
// or dropped frames never reach an awaiter.
type Result struct {
	Status  byte
	Payload []byte
	Err     error
}

// awaiter is one outstanding request's one-shot delivery channel.
type awaiter struct {
	ch        chan Result
	cancelled bool
}

type segment struct {
	buf []byte
}

// Decoder is the per-device reassembly, dispatch, and broadcast fan-out
// state. The zero value is not usable; use New.
type Decoder struct {
	segMu sync.Mutex
	segs  map[Key]*segment

	awaitMu sync.Mutex
	awaits  map[Key][]*awaiter

	screenMu sync.Mutex
	screen   []byte

	subMu sync.Mutex
	subs  []func([]broadcast.Item)

	clientEcho byte
}

// New constructs a Decoder that recognizes clientEcho as its own requests'
// echo byte (see framecodec.Decode).
func New(clientEcho byte) *Decoder {
	return &Decoder{
		segs:       make(map[Key]*segment),
		awaits:     make(map[Key][]*awaiter),
		clientEcho: clientEcho,
	}
}

// Register enqueues a new awaiter for key and returns the channel its
// result will arrive on, along with a cancel function. Awaiters for the
// same key are served in FIFO order.
func (d *Decoder) Register(key Key) (<-chan Result, func()) {
	a := &awaiter{ch: make(chan Result, 1)}
	d.awaitMu.Lock()
	d.awaits[key] = append(d.awaits[key], a)
	d.awaitMu.Unlock()
	return a.ch, func() {
		d.awaitMu.Lock()
		a.cancelled = true
		d.awaitMu.Unlock()
	}
}

// Subscribe registers fn to receive every parsed broadcast stream.
func (d *Decoder) Subscribe(fn func([]broadcast.Item)) {
	d.subMu.Lock()
	d.subs = append(d.subs, fn)
	d.subMu.Unlock()
}

// HandleFrame is the listener-path entry point: it decodes one incoming
// HID report and routes it. The segment table, awaiter table and screen
// mirror are guarded with non-blocking try-locks, and a lock that cannot be
// acquired causes the frame to be dropped with a log line rather than
// stalling the transport's delivery thread. The subscriber list is copied
// under a short-held blocking lock before broadcast callbacks run.
func (d *Decoder) HandleFrame(frame []byte) {
	h, body, ours, err := framecodec.Decode(frame, d.clientEcho)
	if err != nil {
		log.Printf("reportdecoder: dropping malformed frame: %v", err)
		return
	}
	if !ours {
		return
	}

	if h.IsBroadcast() {
		d.dispatchBroadcast(body)
		return
	}

	if h.Cmd == framecodec.ScreenBufferCmd {
		d.mirrorScreen(body)
		return
	}

	key := h.Key()
	complete, payload, ok := d.reassemble(key, h.Status, body)
	if !ok {
		return
	}
	if complete {
		d.deliver(key, Result{Status: h.Status, Payload: payload})
	}
}

// reassemble folds one frame's body into key's in-progress segment buffer.
// It returns (true, payload, true) once a terminal (non-continue) status
// closes out the buffer, and the buffer is dropped at that point. Frames
// for a key are always appended to its open buffer: nothing detects a new
// stream starting before the previous one terminated, since the protocol
// promises reassembly is never interleaved.
func (d *Decoder) reassemble(key Key, status byte, body []byte) (complete bool, payload []byte, ok bool) {
	if !d.segMu.TryLock() {
		log.Printf("reportdecoder: segment table busy, dropping frame for %v", key)
		return false, nil, false
	}
	defer d.segMu.Unlock()

	seg, exists := d.segs[key]
	if !exists {
		seg = &segment{}
		d.segs[key] = seg
	}
	seg.buf = append(seg.buf, body...)

	if status == framecodec.StatusContinue {
		return false, nil, true
	}

	out := seg.buf
	delete(d.segs, key)
	return true, out, true
}

// deliver hands payload to the oldest non-cancelled awaiter for key.
// Cancelled awaiters at the front of the queue are skipped and dropped
// (lazy removal).
func (d *Decoder) deliver(key Key, res Result) {
	if !d.awaitMu.TryLock() {
		log.Printf("reportdecoder: awaiter table busy, dropping response for %v", key)
		return
	}
	queue := d.awaits[key]
	var next *awaiter
	for len(queue) > 0 {
		candidate := queue[0]
		queue = queue[1:]
		if candidate.cancelled {
			continue
		}
		next = candidate
		break
	}
	d.awaits[key] = queue
	d.awaitMu.Unlock()

	if next != nil {
		next.ch <- res
	}
}

// maxScreenMirror bounds how large the screen mirror is ever allowed to
// grow in response to a single refresh, so a corrupt or hostile address
// field can't force an unbounded allocation. No device this protocol
// targets addresses a framebuffer anywhere near this size.
const maxScreenMirror = 16 << 20 // 16 MiB

// mirrorScreen updates the local framebuffer mirror from an unsolicited
// ScreenBuffer refresh: a little-endian u32 address followed by pixel
// bytes. Per spec.md §4.D the mirror is a single contiguous buffer grown
// on demand; the write is copied into screen_mirror[address..address+len],
// clipped at maxScreenMirror.
func (d *Decoder) mirrorScreen(body []byte) {
	if len(body) < 4 {
		return
	}
	addr := uint32(body[0]) | uint32(body[1])<<8 | uint32(body[2])<<16 | uint32(body[3])<<24
	data := body[4:]

	start := uint64(addr)
	end := start + uint64(len(data))
	if end > maxScreenMirror {
		end = maxScreenMirror
	}
	if start >= end {
		return
	}
	data = data[:end-start]

	if !d.screenMu.TryLock() {
		log.Printf("reportdecoder: screen mirror busy, dropping refresh at %#x", addr)
		return
	}
	if end > uint64(len(d.screen)) {
		grown := make([]byte, end)
		copy(grown, d.screen)
		d.screen = grown
	}
	copy(d.screen[start:end], data)
	d.screenMu.Unlock()
}

// Screen returns a copy of the mirrored framebuffer from addr to the end
// of whatever has been mirrored so far, stitching together every prior
// contiguous or overlapping write into the single mirror buffer. It
// returns nil if nothing has been mirrored at or past addr yet.
func (d *Decoder) Screen(addr uint32) []byte {
	d.screenMu.Lock()
	defer d.screenMu.Unlock()
	if uint64(addr) >= uint64(len(d.screen)) {
		return nil
	}
	return append([]byte(nil), d.screen[addr:]...)
}

// CancelAll delivers ErrCancelled to every outstanding awaiter across every
// key and discards both the awaiter and segment tables. The connection
// manager calls this on detach: nothing will ever complete these requests
// now, and per-frame timeouts would otherwise leave callers waiting out the
// full request timeout for no reason.
func (d *Decoder) CancelAll() {
	d.awaitMu.Lock()
	awaits := d.awaits
	d.awaits = make(map[Key][]*awaiter)
	d.awaitMu.Unlock()

	for _, queue := range awaits {
		for _, a := range queue {
			if !a.cancelled {
				a.ch <- Result{Err: ErrCancelled}
			}
		}
	}

	d.segMu.Lock()
	d.segs = make(map[Key]*segment)
	d.segMu.Unlock()
}

func (d *Decoder) dispatchBroadcast(body []byte) {
	items := broadcast.Parse(body)

	d.subMu.Lock()
	subs := append([]func([]broadcast.Item){}, d.subs...)
	d.subMu.Unlock()

	for _, fn := range subs {
		fn(items)
	}
}
