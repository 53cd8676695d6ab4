// Package link implements the framed host link.
//
// Wire form, one frame per line:
//
//	marker topic TAB payload '*' HH '\n'
//
// marker is '>' (host to device) or '<' (device to host). HH is the CRC-8 of
// everything before the '*' as two uppercase hex digits.
package link

import (
	"bytes"
	"strings"

	"costume-go/errcode"
	"costume-go/x/conv"
)

// Direction is the leading marker byte of a frame.
type Direction byte

const (
	ToDevice Direction = '>'
	ToHost   Direction = '<'
)

func (d Direction) Valid() bool { return d == ToDevice || d == ToHost }

const (
	Separator  = '\t'
	Delimiter  = '*'
	Terminator = '\n'
)

// Envelope is the content protected by a frame's checksum.
type Envelope struct {
	Direction Direction
	Topic     string
	Payload   string
}

var (
	ErrMissingMarker    = &errcode.E{C: errcode.FrameError, Op: "decode", Msg: "missing marker"}
	ErrMissingDelimiter = &errcode.E{C: errcode.FrameError, Op: "decode", Msg: "missing delimiter"}
	ErrMalformed        = &errcode.E{C: errcode.FrameError, Op: "decode", Msg: "malformed frame"}
	ErrChecksum         = &errcode.E{C: errcode.FrameError, Op: "decode", Msg: "checksum mismatch"}

	ErrBadTopic   = &errcode.E{C: errcode.InvalidPayload, Op: "encode", Msg: "topic must be non-empty without TAB, CR or LF"}
	ErrBadPayload = &errcode.E{C: errcode.InvalidPayload, Op: "encode", Msg: "payload must not contain CR or LF"}
)

// Encode returns the wire form of e.
func Encode(e Envelope) ([]byte, error) {
	return AppendFrame(make([]byte, 0, len(e.Topic)+len(e.Payload)+6), e)
}

// AppendFrame appends the wire form of e to dst.
func AppendFrame(dst []byte, e Envelope) ([]byte, error) {
	if !e.Direction.Valid() {
		return dst, ErrMissingMarker
	}
	if e.Topic == "" || strings.ContainsAny(e.Topic, "\t\r\n") {
		return dst, ErrBadTopic
	}
	if strings.ContainsAny(e.Payload, "\r\n") {
		return dst, ErrBadPayload
	}
	start := len(dst)
	dst = append(dst, byte(e.Direction))
	dst = append(dst, e.Topic...)
	dst = append(dst, Separator)
	dst = append(dst, e.Payload...)
	sum := Checksum(dst[start:])
	dst = append(dst, Delimiter)
	dst = conv.AppendHex2(dst, sum)
	return append(dst, Terminator), nil
}

// Decode parses exactly one line. A trailing LF (and CR before it) is
// optional; any other LF in the line is malformed.
func Decode(line []byte) (Envelope, error) {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	if len(line) == 0 || !Direction(line[0]).Valid() {
		return Envelope{}, ErrMissingMarker
	}
	star := bytes.LastIndexByte(line, Delimiter)
	if star < 0 {
		return Envelope{}, ErrMissingDelimiter
	}
	want, ok := conv.ParseHex2(line[star+1:])
	if !ok {
		return Envelope{}, ErrMalformed
	}
	content := line[:star]
	if bytes.IndexByte(content, '\n') >= 0 {
		return Envelope{}, ErrMalformed
	}
	if Checksum(content) != want {
		return Envelope{}, ErrChecksum
	}
	tab := bytes.IndexByte(content, Separator)
	if tab <= 1 {
		return Envelope{}, ErrMalformed
	}
	return Envelope{
		Direction: Direction(content[0]),
		Topic:     string(content[1:tab]),
		Payload:   string(content[tab+1:]),
	}, nil
}
