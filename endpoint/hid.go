package endpoint

import (
	"time"

	"github.com/karalabe/hid"

	"github.com/go-sayo/sayohid/reportdecoder"
)

// HIDEndpoint adapts a karalabe/hid.Device to deviceclient.Endpoint and
// drives a read loop that feeds the device's Decoder, mirroring the
// Write/ReadTimeout pair hid.Device already exposes.
type HIDEndpoint struct {
	dev      hid.Device
	reportID byte
	decoder  *reportdecoder.Decoder

	stop chan struct{}
	done chan struct{}
}

// NewHIDEndpoint wraps dev for frames of size reportID (0x21 or 0x22),
// delivering every input report it reads to dec.HandleFrame.
func NewHIDEndpoint(dev hid.Device, reportID byte, dec *reportdecoder.Decoder) *HIDEndpoint {
	return &HIDEndpoint{
		dev:      dev,
		reportID: reportID,
		decoder:  dec,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Send writes one already-encoded frame to the device.
func (e *HIDEndpoint) Send(frame []byte) error {
	n, err := e.dev.Write(frame)
	if err != nil {
		return err
	}
	if n != len(frame) {
		return ErrShortWrite
	}
	return nil
}

// Run reads input reports until Close is called, handing each complete
// frame to the Decoder. It blocks; call it from its own goroutine.
func (e *HIDEndpoint) Run(readTimeout time.Duration) {
	defer close(e.done)
	buf := make([]byte, frameSize(e.reportID))
	timeoutMs := int(readTimeout / time.Millisecond)
	for {
		select {
		case <-e.stop:
			return
		default:
		}
		n, err := e.dev.ReadTimeout(buf, timeoutMs)
		if err != nil {
			if err == hid.ErrDeviceClosed {
				return
			}
			continue
		}
		if n == 0 {
			continue
		}
		frame := make([]byte, n)
		copy(frame, buf[:n])
		e.decoder.HandleFrame(frame)
	}
}

// Close stops the read loop and closes the underlying device.
func (e *HIDEndpoint) Close() error {
	close(e.stop)
	<-e.done
	return e.dev.Close()
}
