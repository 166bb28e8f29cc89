// Package framecodec fragments a logical payload into a sequence of fixed
// size HID report frames (and validates/parses them one frame at a time on
// the way back in; reassembly lives in reportdecoder). It owns the wire
// header, the 16-bit additive checksum, and the
// 4-byte padding rule; it knows nothing about what a payload means.
package framecodec

import "fmt"

// Report IDs this protocol cares about. 0x23 ("sleep") is enumerated by the
// device but never selected by the request engine; it plays no part in
// frame encode/decode.
const (
	ReportIDSlow byte = 0x21 // bootloader/slow
	ReportIDFast byte = 0x22 // main/fast
	ReportIDIdle byte = 0x23 // sleep, request paths never pick this

	// HeaderSize is the fixed 8-byte frame header.
	HeaderSize = 8

	// BodyCapacitySlow/Fast are the body-byte capacity of a single frame
	// for the corresponding report ID (frame size minus the 12-byte
	// overhead the device reserves around the payload).
	BodyCapacitySlow = 52
	BodyCapacityFast = 1012

	// FrameSizeSlow/Fast are the full wire frame sizes.
	FrameSizeSlow = 64
	FrameSizeFast = 1024

	// StatusContinue marks a non-terminal fragment; more segments follow.
	StatusContinue byte = 0x01
	// StatusOK is the default terminal status for non-string payloads.
	StatusOK byte = 0x00

	// BroadcastCmd and BroadcastEcho identify an unsolicited broadcast
	// frame rather than a request/response.
	BroadcastCmd  byte = 0xFF
	BroadcastEcho byte = 0x00

	// ScreenBufferCmd is consumed by the decoder only; it never satisfies
	// an awaiter.
	ScreenBufferCmd byte = 0x25
)

// Status, after masking off the low 10 bits of the status_len field.
const (
	StatusSuccessEnd        byte = 0x00
	StatusSuccessContinue   byte = 0x01
	StatusSuccessEndGB18030 byte = 0x02
	StatusSuccessEndUTF16LE byte = 0x03
	StatusUnknownIndex      byte = 0x10
	StatusOverflow          byte = 0x11
	StatusUnderflow         byte = 0x12
	StatusMismatch          byte = 0x13
	StatusAlignmentError    byte = 0x14
	StatusCRCError          byte = 0x3C
	StatusLengthError       byte = 0x3D
	StatusReadOnlyIndex     byte = 0x3E
	StatusUnknownCommand    byte = 0x3F
)

// Error is the codec's closed set of failure kinds. It mirrors the
// ReportError enum the source protocol uses: a small set of named causes,
// never a generic wrapped error.
type Error struct {
	Kind string
	Info string
}

func (e *Error) Error() string {
	if e.Info == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Info)
}

func newErr(kind, info string) *Error { return &Error{Kind: kind, Info: info} }

// Sentinel error kinds, matching spec.md §7.
var (
	ErrBadHeaderLength   = "BadHeaderLength"
	ErrBadReportHeader   = "BadReportHeader"
	ErrBadReportLength   = "BadReportLength"
	ErrCRCError          = "CrcError"
	ErrUnsupportedReport = "UnsupportedReportId"
)

// Header is the fixed 8-byte frame header, decoded into its logical fields.
type Header struct {
	ReportID byte
	Echo     byte
	CRC      uint16
	Status   byte
	Len      uint16 // payload byte count in this frame + 4
	Cmd      byte
	Index    byte
}

// Key returns the (report_id, cmd, index) triple used to key both the
// segment-reassembly table and the awaiter table.
func (h Header) Key() [3]byte {
	return [3]byte{h.ReportID, h.Cmd, h.Index}
}

// IsBroadcast reports whether this header identifies an unsolicited
// broadcast frame (echo == 0 && cmd == 0xFF).
func (h Header) IsBroadcast() bool {
	return h.Echo == BroadcastEcho && h.Cmd == BroadcastCmd
}

// bodyCapacity returns the per-frame body byte budget for reportID, or an
// error if reportID is not one this codec can frame.
func bodyCapacity(reportID byte) (int, error) {
	switch reportID {
	case ReportIDSlow:
		return BodyCapacitySlow, nil
	case ReportIDFast:
		return BodyCapacityFast, nil
	default:
		return 0, newErr(ErrUnsupportedReport, fmt.Sprintf("report id %#x", reportID))
	}
}

// checksum computes the protocol's 16-bit additive "CRC" over frame, which
// must have its two CRC bytes (offsets 2,3) already zeroed.
func checksum(frame []byte) uint16 {
	var crc uint16
	for i, b := range frame {
		if i%2 == 0 {
			crc += uint16(b)
		} else {
			crc += uint16(b) << 8
		}
	}
	return crc
}

// Encode fragments payload into one or more wire frames for
// (reportID, echo, cmd, index). terminalStatus is the status byte the
// final frame carries; callers pass StatusOK except for StringContent,
// where they pass the content's encoding tag (0x02/0x03/0x04). An empty
// payload still produces exactly one frame.
func Encode(reportID, echo, cmd, index byte, payload []byte, terminalStatus byte) ([][]byte, error) {
	cap, err := bodyCapacity(reportID)
	if err != nil {
		return nil, err
	}

	var frames [][]byte
	sent := 0
	for sent < len(payload) || sent == 0 {
		bodyLen := len(payload) - sent
		if bodyLen > cap {
			bodyLen = cap
		}
		last := sent+bodyLen >= len(payload)
		status := StatusContinue
		if last {
			status = terminalStatus
		}

		frame := make([]byte, HeaderSize+bodyLen)
		frame[0] = reportID
		frame[1] = echo
		// frame[2:4] CRC, patched last
		statusLen := (uint16(status) << 10) | uint16(bodyLen+4)
		frame[4] = byte(statusLen)
		frame[5] = byte(statusLen >> 8)
		frame[6] = cmd
		frame[7] = index
		copy(frame[HeaderSize:], payload[sent:sent+bodyLen])

		if pad := len(frame) % 4; pad != 0 {
			frame = append(frame, make([]byte, 4-pad)...)
		}

		crc := checksum(frame)
		frame[2] = byte(crc)
		frame[3] = byte(crc >> 8)

		frames = append(frames, frame)
		sent += bodyLen
		if sent == 0 {
			break
		}
	}
	return frames, nil
}

// Decode validates and parses a single incoming frame. clientEcho is the
// echo byte this client stamps its own requests with; frames whose echo is
// neither clientEcho nor 0 are not ours and (Header{}, nil, false, nil) is
// returned so the caller silently drops them. Broadcast frames (echo == 0)
// bypass CRC verification.
func Decode(frame []byte, clientEcho byte) (Header, []byte, bool, error) {
	if len(frame) < HeaderSize {
		return Header{}, nil, false, newErr(ErrBadHeaderLength, fmt.Sprintf("%d", len(frame)))
	}
	reportID := frame[0]
	if reportID != ReportIDSlow && reportID != ReportIDFast {
		return Header{}, nil, false, nil
	}
	echo := frame[1]
	if echo != clientEcho && echo != 0 {
		return Header{}, nil, false, nil
	}

	if echo != 0 {
		wantCRC := uint16(frame[2]) | uint16(frame[3])<<8
		patched := make([]byte, len(frame))
		copy(patched, frame)
		patched[2] = 0
		patched[3] = 0
		if got := checksum(patched); got != wantCRC {
			return Header{}, nil, false, newErr(ErrCRCError, "")
		}
	}

	statusLen := uint16(frame[4]) | uint16(frame[5])<<8
	status := byte(statusLen >> 10)
	length := statusLen & 0x03FF

	h := Header{
		ReportID: reportID,
		Echo:     echo,
		CRC:      uint16(frame[2]) | uint16(frame[3])<<8,
		Status:   status,
		Len:      length,
		Cmd:      frame[6],
		Index:    frame[7],
	}

	if int(length)+4 > len(frame) {
		return h, nil, false, newErr(ErrBadReportLength, fmt.Sprintf("%d", len(frame)))
	}
	body := make([]byte, int(length)+4-HeaderSize)
	copy(body, frame[HeaderSize:int(length)+4])
	return h, body, true, nil
}
