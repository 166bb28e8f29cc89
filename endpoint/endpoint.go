// Package endpoint adapts real USB transports to the deviceclient.Endpoint
// and reportdecoder input-report interfaces. Neither the core codec nor the
// connection manager (spec.md §1, "the physical transport... is out of
// scope") know these types exist; they are reference glue for a caller that
// wants to plug an enumerated device straight in, same as karalabe/hid's
// Device and the teacher's usbtmc.USBDevice are reference glue over their
// own transports.
package endpoint

import (
	"errors"

	"github.com/go-sayo/sayohid/framecodec"
)

// ErrShortWrite is returned when a transport accepts fewer bytes than a
// full frame without reporting an error.
var ErrShortWrite = errors.New("endpoint: short write")

// frameSize returns the whole-frame byte count for the given report ID.
func frameSize(reportID byte) int {
	if reportID == framecodec.ReportIDFast {
		return framecodec.FrameSizeFast
	}
	return framecodec.FrameSizeSlow
}
