// Package connmgr owns the attach/detach lifecycle of devices on the bus:
// creating and tearing down the per-device reportdecoder.Decoder and
// deviceclient.Client, caching which frame report IDs a device answers to
// over a short warm-up window, and keeping a bounded attach/detach history
// per device for diagnostics.
package connmgr

import (
	"errors"
	"sync"
	"time"

	"github.com/brandondube/ringo"
	"github.com/cenkalti/backoff"

	"github.com/go-sayo/sayohid/deviceclient"
	"github.com/go-sayo/sayohid/framecodec"
	"github.com/go-sayo/sayohid/reportdecoder"
)

// WarmUp bounds how long Attach keeps re-probing a device that answers
// neither report id. Probing stops at the first round in which either id
// answers; the capability bits found then stay fixed until detach, and a
// report id that starts answering later is not picked up.
const WarmUp = 2 * time.Second

// historyCapacity bounds the per-device attach/detach ring buffer.
const historyCapacity = 64

var errNotSettled = errors.New("connmgr: capability not yet settled")

// ProbeFunc reports whether a device currently answers to reportID. Probing
// is transport-specific (a feature-report query, a descriptor check, ...),
// so the manager takes it as a parameter rather than owning it.
type ProbeFunc func(reportID byte) bool

// Device is everything the manager keeps about one attached device.
type Device struct {
	ID      string
	Decoder *reportdecoder.Decoder
	Client  *deviceclient.Client

	mu      sync.Mutex
	has21   bool
	has22   bool
	history ringo.CircleTime
}

// ReportID returns 0x22 if the device answered the fast report during its
// warm-up window, else 0x21. Every request the manager's Client issues for
// this device uses this report id.
func (d *Device) ReportID() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.has22 {
		return framecodec.ReportIDFast
	}
	return framecodec.ReportIDSlow
}

// Supports22/Supports21 report the settled capability bits.
func (d *Device) Supports22() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.has22
}

func (d *Device) Supports21() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.has21
}

// History returns the device's attach/detach timestamps, oldest first.
func (d *Device) History() []time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.Contiguous()
}

func (d *Device) recordEvent(t time.Time) {
	d.mu.Lock()
	d.history.Append(t)
	d.mu.Unlock()
}

// settleCapability polls probe for both report ids with an exponential
// backoff until either id answers or WarmUp elapses, the same "retry, give
// up after a bounded elapsed
// time" shape comm.RemoteDevice.Open uses for its connection retries. A nil
// probe means the caller already knows the device's report ids (e.g. from
// its HID descriptor) and capability detection is skipped.
func (d *Device) settleCapability(probe ProbeFunc) {
	if probe == nil {
		d.mu.Lock()
		d.has21, d.has22 = true, true
		d.mu.Unlock()
		return
	}

	check := func() error {
		has21 := probe(framecodec.ReportIDSlow)
		has22 := probe(framecodec.ReportIDFast)
		d.mu.Lock()
		d.has21, d.has22 = has21, has22
		d.mu.Unlock()
		if has21 || has22 {
			return nil
		}
		return errNotSettled
	}

	backoff.Retry(check, &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         250 * time.Millisecond,
		MaxElapsedTime:      WarmUp,
		Clock:               backoff.SystemClock,
	})
}

// Manager tracks every currently attached device, keyed by a caller-chosen
// stable ID (serial number, bus path, whatever the transport layer offers).
type Manager struct {
	mu      sync.Mutex
	devices map[string]*Device
}

// New constructs an empty Manager.
func New() *Manager {
	return &Manager{devices: make(map[string]*Device)}
}

// Attach creates the decoder and client for a newly seen device, settles its
// report-id capability, and registers it under id. Re-attaching an id that
// is already tracked is a no-op that returns the existing Device. probe may
// be nil when the caller already knows the device's capability bits.
func (m *Manager) Attach(id string, ep deviceclient.Endpoint, echo byte, probe ProbeFunc) *Device {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.devices[id]; ok {
		return d
	}

	d := &Device{ID: id, Decoder: reportdecoder.New(echo)}
	d.history.Init(historyCapacity)
	d.settleCapability(probe)

	if !d.has21 && !d.has22 {
		return nil
	}

	d.Client = deviceclient.New(ep, d.Decoder, d.ReportID(), echo)
	d.recordEvent(time.Now())
	m.devices[id] = d
	return d
}

// Detach tears down a device: it cancels every outstanding awaiter (they
// resolve with reportdecoder.ErrCancelled rather than waiting out their
// request timeout) and drops the device from the manager. Detaching an
// unknown id is a no-op.
func (m *Manager) Detach(id string) {
	m.mu.Lock()
	d, ok := m.devices[id]
	if ok {
		delete(m.devices, id)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	d.Decoder.CancelAll()
	d.recordEvent(time.Now())
}

// Get returns the tracked Device for id, if attached.
func (m *Manager) Get(id string) (*Device, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.devices[id]
	return d, ok
}

// IDs returns the ids of every currently attached device.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.devices))
	for id := range m.devices {
		out = append(out, id)
	}
	return out
}
