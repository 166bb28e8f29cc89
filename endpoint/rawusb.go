package endpoint

import (
	"time"

	"github.com/google/gousb"

	"github.com/go-sayo/sayohid/reportdecoder"
)

// RawUSBEndpoint adapts a gousb bulk interrupt pipe to deviceclient.Endpoint,
// for peripherals that expose the protocol over a raw USB endpoint instead
// of the OS HID subsystem. It generalizes usbtmc.USBDevice's
// open-interface/in-endpoint/out-endpoint shape to this protocol's
// fixed-size frames: no USBTMC bulk-transfer header is involved, the frame
// bytes go straight over the wire.
type RawUSBEndpoint struct {
	ctx    *gousb.Context
	device *gousb.Device
	iface  *gousb.Interface
	closer func()
	in     *gousb.InEndpoint
	out    *gousb.OutEndpoint

	reportID byte
	decoder  *reportdecoder.Decoder

	stop chan struct{}
	done chan struct{}
}

// OpenRawUSBEndpoint opens the default interface of the first device
// matching vid/pid and binds its in/out endpoint numbers.
func OpenRawUSBEndpoint(vid, pid uint16, inEP, outEP int, reportID byte, dec *reportdecoder.Decoder) (*RawUSBEndpoint, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, err
	}
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}
	iface, closer, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}
	in, err := iface.InEndpoint(inEP)
	if err != nil {
		closer()
		dev.Close()
		ctx.Close()
		return nil, err
	}
	out, err := iface.OutEndpoint(outEP)
	if err != nil {
		closer()
		dev.Close()
		ctx.Close()
		return nil, err
	}
	return &RawUSBEndpoint{
		ctx:      ctx,
		device:   dev,
		iface:    iface,
		closer:   closer,
		in:       in,
		out:      out,
		reportID: reportID,
		decoder:  dec,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Send writes one already-encoded frame to the out endpoint.
func (e *RawUSBEndpoint) Send(frame []byte) error {
	n, err := e.out.Write(frame)
	if err != nil {
		return err
	}
	if n != len(frame) {
		return ErrShortWrite
	}
	return nil
}

// Run reads fixed-size frames from the in endpoint until Close, handing
// each to the Decoder. It blocks; call it from its own goroutine.
func (e *RawUSBEndpoint) Run() {
	defer close(e.done)
	buf := make([]byte, frameSize(e.reportID))
	for {
		select {
		case <-e.stop:
			return
		default:
		}
		n, err := e.in.Read(buf)
		if err != nil {
			time.Sleep(10 * time.Millisecond)
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

// Close stops the read loop and releases the USB interface and device.
func (e *RawUSBEndpoint) Close() error {
	close(e.stop)
	<-e.done
	e.closer()
	err := e.device.Close()
	e.ctx.Close()
	return err
}
