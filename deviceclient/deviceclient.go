// Package deviceclient issues requests against a device's ReportDecoder:
// register an awaiter, encode and send the frames, await the response with
// a timeout, and decode the result. It also drives the two composite
// operations built on top of a single request — scanning every index of a
// table, and bulk address-range get/set.
package deviceclient

import (
	"context"
	"errors"
	"time"

	"github.com/go-sayo/sayohid/bytebuf"
	"github.com/go-sayo/sayohid/framecodec"
	"github.com/go-sayo/sayohid/reportdecoder"
	"github.com/go-sayo/sayohid/wire"
)

// Defaults for the per-frame send timeout and the overall await timeout.
const (
	DefaultFrameTimeout   = 1000 * time.Millisecond
	DefaultRequestTimeout = 8000 * time.Millisecond

	// AddrAlignment is the granularity bulk set rounds its address range
	// to before chunking.
	AddrAlignment = 4096

	// ProbeAddr is the out-of-band address that asks a device for the
	// total length of an addressable region instead of its data.
	ProbeAddr uint32 = 0xFFFFFFFF
)

// Sentinel errors. sendOne reports ErrSend/ErrSendTimeout internally; the
// Request* functions collapse every failure to ok=false, matching the
// option-returning shape of the underlying protocol operations, and
// GetAddressable returns ErrRequestTimeout when one of its requests fails.
var (
	ErrSend           = errors.New("deviceclient: send failed")
	ErrSendTimeout    = errors.New("deviceclient: send timed out")
	ErrRequestTimeout = errors.New("deviceclient: no response within timeout")
)

// Endpoint is the abstract HID transport a Client writes frames to. It is
// supplied by the connection manager, never implemented by this package.
type Endpoint interface {
	Send(frame []byte) error
}

// awaiterSource is the subset of *reportdecoder.Decoder a Client needs;
// narrowed to an interface so tests can substitute a fake.
type awaiterSource interface {
	Register(key reportdecoder.Key) (<-chan reportdecoder.Result, func())
}

// Client issues requests for one device over one report ID.
type Client struct {
	Endpoint Endpoint
	Decoder  awaiterSource
	ReportID byte
	Echo     byte

	FrameTimeout   time.Duration
	RequestTimeout time.Duration

	// BulkChunkSize overrides SetAddressable's per-chunk data size. Zero
	// (the default) uses the report id's full frame body capacity.
	BulkChunkSize int
}

// New constructs a Client with the default timeouts.
func New(ep Endpoint, dec awaiterSource, reportID, echo byte) *Client {
	return &Client{
		Endpoint:       ep,
		Decoder:        dec,
		ReportID:       reportID,
		Echo:           echo,
		FrameTimeout:   DefaultFrameTimeout,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Header is the response metadata returned alongside a decoded value.
type Header struct {
	Status byte
	Index  byte
}

// stringEncodingSetter lets RequestWithHeader recover the encoding tag
// StringContent needs without this package knowing about StringContent
// directly: the terminal frame's status byte doubles as the encoding tag
// for any response shaped this way.
type stringEncodingSetter interface {
	SetEncoding(bytebuf.Encoding)
}

// RequestWithHeader registers an awaiter for (reportID, cmd, index),
// encodes and sends payload, and awaits the decoded response. decode
// constructs T from the response's payload view; it is invoked at most
// once, only on success. The outgoing frames' terminal status is
// framecodec.StatusOK; use RequestWithHeaderStatus to send a different
// terminal status (StringContent writes must carry their encoding tag).
func RequestWithHeader[T any](ctx context.Context, c *Client, cmd, index byte, payload []byte, decode func(bytebuf.View) T) (Header, T, bool) {
	return RequestWithHeaderStatus(ctx, c, cmd, index, payload, framecodec.StatusOK, decode)
}

// RequestWithHeaderStatus is RequestWithHeader with control over the
// outgoing frames' terminal status byte. Every StringContent-shaped write
// (SetDeviceName, SetPassword, SetString, ...) must pass the content's
// encoding tag here instead of StatusOK, matching §4.C's encode rule.
func RequestWithHeaderStatus[T any](ctx context.Context, c *Client, cmd, index byte, payload []byte, terminalStatus byte, decode func(bytebuf.View) T) (Header, T, bool) {
	var zero T
	key := reportdecoder.Key{c.ReportID, cmd, index}
	ch, cancel := c.Decoder.Register(key)
	defer cancel()

	frames, err := framecodec.Encode(c.ReportID, c.Echo, cmd, index, payload, terminalStatus)
	if err != nil {
		return Header{}, zero, false
	}
	for _, f := range frames {
		if err := c.sendOne(ctx, f); err != nil {
			return Header{}, zero, false
		}
	}

	timer := time.NewTimer(c.RequestTimeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		if res.Err != nil {
			return Header{}, zero, false
		}
		v := decode(bytebuf.New(res.Payload))
		if setter, ok := any(&v).(stringEncodingSetter); ok {
			setter.SetEncoding(wire.EncodingForStatus(res.Status))
		}
		return Header{Status: res.Status, Index: index}, v, true
	case <-timer.C:
		return Header{}, zero, false
	case <-ctx.Done():
		return Header{}, zero, false
	}
}

func (c *Client) sendOne(ctx context.Context, frame []byte) error {
	sendCtx, cancel := context.WithTimeout(ctx, c.FrameTimeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Endpoint.Send(frame) }()
	select {
	case err := <-done:
		if err != nil {
			return ErrSend
		}
		return nil
	case <-sendCtx.Done():
		return ErrSendTimeout
	}
}

// isSuccessStatus reports whether status is one of the three terminal
// statuses Request treats as a real value rather than a protocol error.
func isSuccessStatus(status byte) bool {
	switch status {
	case framecodec.StatusSuccessEnd, framecodec.StatusSuccessEndGB18030, framecodec.StatusSuccessEndUTF16LE:
		return true
	default:
		return false
	}
}

// Request is RequestWithHeader without the header: it reports ok=false
// unless the response's status is one of the three success statuses.
func Request[T any](ctx context.Context, c *Client, cmd, index byte, payload []byte, decode func(bytebuf.View) T) (T, bool) {
	h, v, ok := RequestWithHeader(ctx, c, cmd, index, payload, decode)
	if !ok || !isSuccessStatus(h.Status) {
		var zero T
		return zero, false
	}
	return v, true
}

// RequestStatus is Request with control over the outgoing terminal status
// byte, for StringContent-shaped writes (see RequestWithHeaderStatus).
func RequestStatus[T any](ctx context.Context, c *Client, cmd, index byte, payload []byte, terminalStatus byte, decode func(bytebuf.View) T) (T, bool) {
	h, v, ok := RequestWithHeaderStatus(ctx, c, cmd, index, payload, terminalStatus, decode)
	if !ok || !isSuccessStatus(h.Status) {
		var zero T
		return zero, false
	}
	return v, true
}

// RequestAllIndex issues Request for index = 0, 1, 2, … and collects every
// success in index order. It stops after 8 consecutive failed requests,
// as soon as a response reports "unknown index", or if index would wrap
// past 0xFF.
func RequestAllIndex[T any](ctx context.Context, c *Client, cmd byte, decode func(bytebuf.View) T) []T {
	var out []T
	consecutiveFail := 0
	for index := 0; index <= 0xFF; index++ {
		h, v, ok := RequestWithHeader(ctx, c, cmd, byte(index), nil, decode)
		if !ok {
			consecutiveFail++
			if consecutiveFail >= 8 {
				break
			}
			continue
		}
		consecutiveFail = 0
		if h.Status == framecodec.StatusUnknownIndex {
			break
		}
		if !isSuccessStatus(h.Status) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// GetAddressable reads an entire addressable region: it first probes the
// region's total length, then reads it forward in report-capacity-sized
// chunks, and re-probes at the end to leave the device in a known state.
func GetAddressable(ctx context.Context, c *Client, cmd byte, index byte) ([]byte, error) {
	probe := func() (uint32, bool) {
		_, v, ok := RequestWithHeader(ctx, c, cmd, index, wire.AddressableWith(ProbeAddr, nil).Bytes(), wire.NewAddressable)
		if !ok {
			return 0, false
		}
		addr, aok := v.Addr(nil)
		if !aok {
			return 0, false
		}
		return addr, true
	}

	total, ok := probe()
	if !ok {
		return nil, ErrRequestTimeout
	}

	out := make([]byte, 0, total)
	for uint32(len(out)) < total {
		addr := uint32(len(out))
		_, v, ok := RequestWithHeader(ctx, c, cmd, index, wire.AddressableWith(addr, nil).Bytes(), wire.NewAddressable)
		if !ok {
			return nil, ErrRequestTimeout
		}
		gotAddr, aok := v.Addr(nil)
		if !aok || gotAddr != addr {
			return nil, errors.New("deviceclient: address mismatch in bulk read")
		}
		data, dok := v.Data()
		if !dok || len(data) == 0 {
			break
		}
		out = append(out, data...)
	}

	probe()
	return out, nil
}

// SetAddressable writes data starting at baseAddr, aligning the written
// range outward to AddrAlignment and zero-padding the tail, splitting it
// into report-capacity-sized chunks, and invoking progress after each
// chunk with (completed, total). progress returning false cancels the
// remaining chunks. It returns the indices of chunks that failed to send;
// the caller should treat any non-empty result as a partial failure.
func SetAddressable(ctx context.Context, c *Client, cmd byte, index byte, baseAddr uint32, data []byte, progress func(completed, total int) bool) []int {
	alignedStart := (baseAddr / AddrAlignment) * AddrAlignment
	end := baseAddr + uint32(len(data))
	alignedEnd := ((end + AddrAlignment - 1) / AddrAlignment) * AddrAlignment

	padded := make([]byte, alignedEnd-alignedStart)
	copy(padded[baseAddr-alignedStart:], data)

	// Per spec.md §4.E/S5, the chunk's data size is the full per-frame
	// body capacity; the 4-byte address prefix rides along on top of it
	// and framecodec fragments the resulting Addressable message across
	// as many wire frames as that requires. A caller-set BulkChunkSize
	// overrides this when it wants smaller writes (e.g. a slower link).
	chunkCap := framecodec.BodyCapacitySlow
	if c.ReportID == framecodec.ReportIDFast {
		chunkCap = framecodec.BodyCapacityFast
	}
	if c.BulkChunkSize > 0 && c.BulkChunkSize < chunkCap {
		chunkCap = c.BulkChunkSize
	}

	var failed []int
	total := (len(padded) + chunkCap - 1) / chunkCap
	if total == 0 {
		total = 1
	}
	completed := 0
	for offset := 0; offset < len(padded); offset += chunkCap {
		chunkEnd := offset + chunkCap
		if chunkEnd > len(padded) {
			chunkEnd = len(padded)
		}
		chunkAddr := alignedStart + uint32(offset)
		msg := wire.AddressableWith(chunkAddr, padded[offset:chunkEnd])
		_, _, ok := RequestWithHeader(ctx, c, cmd, index, msg.Bytes(), wire.NewAddressable)
		completed++
		if !ok {
			failed = append(failed, completed-1)
		}
		if progress != nil && !progress(completed, total) {
			break
		}
	}

	GetAddressable(ctx, c, cmd, index) // re-probe to leave device state known; errors ignored
	return failed
}
