// Package protocol builds the command frames spoken by the motor controller
// and acquisition card on top of a serial session, and serializes
// write/read exchanges between goroutines.
//
// Client also runs the multi-step workflows of both devices: program upload
// and parameter polling on the motor controller, and the status poll and data
// dump on the acquisition card.
package protocol

import (
	"bytes"
	"strings"
)

// Control bytes.
const (
	STX = 0x02
	ETX = 0x03
	EOT = 0x04
	ACK = 0x06
	CR  = 0x0D
	NAK = 0x15
	ETB = 0x17
)

// DefaultAddress is the motor controller address ('0').
const DefaultAddress byte = 0x30

// MotorFrame wraps cmd as STX, addr, cmd, ETX.
func MotorFrame(addr byte, cmd string) []byte {
	frame := make([]byte, 0, len(cmd)+3)
	frame = append(frame, STX, addr)
	frame = append(frame, cmd...)
	return append(frame, ETX)
}

// AcqFrame terminates cmd with a carriage return.
func AcqFrame(cmd string) []byte {
	frame := make([]byte, 0, len(cmd)+1)
	frame = append(frame, cmd...)
	return append(frame, CR)
}

var annotator = strings.NewReplacer(
	"\x02", "<STX>",
	"\x06", "<ACK>",
	"\x03", "<ETX>",
	"\x15", "<NAK>",
)

// Annotate renders resp with its control bytes spelled out, e.g.
// "\x02\x06OK" becomes "<STX><ACK>OK".
func Annotate(resp []byte) string {
	return annotator.Replace(string(resp))
}

// Reply classifies a controller response.
type Reply int

const (
	ReplyUnknown Reply = iota
	ReplyACK
	ReplyNAK
)

func (r Reply) String() string {
	switch r {
	case ReplyACK:
		return "ACK"
	case ReplyNAK:
		return "NAK"
	default:
		return "unknown"
	}
}

// Classify reports whether resp carries an ACK or a NAK. ACK wins if both
// are present.
func Classify(resp []byte) Reply {
	switch {
	case bytes.IndexByte(resp, ACK) >= 0:
		return ReplyACK
	case bytes.IndexByte(resp, NAK) >= 0:
		return ReplyNAK
	default:
		return ReplyUnknown
	}
}
