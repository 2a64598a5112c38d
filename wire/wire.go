//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package wire implements the fixed-layout, big-endian frame codec that
// the coordinator and agents use to talk to each other over TCP: the
// `task` frame (coordinator to agent) and the `response` frame (agent to
// coordinator), byte-for-byte compatible with the original C structs'
// __attribute__((packed)) layout.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/markkurossi/itsmpc/field"
)

var bo = binary.BigEndian

// Opcodes for task and response frames.
const (
	OpAdd byte = 0x01
	OpMul byte = 0x02
	OpCmp byte = 0x03
	OpRen byte = 0x80
	OpRes byte = 0x81
)

// BitLen is the number of bit-shares carried in a CMP task, mirrored from
// field.BitLen so callers need not import field just to size an array.
const BitLen = field.BitLen

// TaskSize is the wire size, in bytes, of a Task frame:
// 1 (op) + 4 (a) + 4 (b) + 4*BitLen (u_shares) + 4*BitLen (v_shares).
const TaskSize = 1 + 4 + 4 + 4*BitLen + 4*BitLen

// ResponseSize is the wire size, in bytes, of a Response frame.
const ResponseSize = 1 + 4

// ErrShortFrame is returned when a read ends before a full frame arrives
// — the protocol's definition of a fatal, session-ending short read.
var ErrShortFrame = errors.New("wire: short frame")

// ErrUnexpectedOp names a frame that arrives with a valid encoding but
// the wrong opcode for the protocol state the caller is in. No function
// in this package returns it, and the agent and coordinator packages
// return their own ErrUnexpectedOp sentinels instead.
var ErrUnexpectedOp = errors.New("wire: unexpected opcode")

// Task is the coordinator-to-agent frame: an opcode plus two share
// operands and, for CMP, the bit-share arrays for both operands. Unused
// fields are always present and zeroed, never omitted — the frame is
// always TaskSize bytes regardless of op.
type Task struct {
	Op      byte
	A       uint32
	B       uint32
	UShares [BitLen]int32
	VShares [BitLen]int32
}

// MarshalBinary encodes t into a TaskSize-byte big-endian frame.
func (t *Task) MarshalBinary() ([]byte, error) {
	buf := make([]byte, TaskSize)
	buf[0] = t.Op
	bo.PutUint32(buf[1:5], t.A)
	bo.PutUint32(buf[5:9], t.B)
	off := 9
	for _, v := range t.UShares {
		bo.PutUint32(buf[off:off+4], uint32(v))
		off += 4
	}
	for _, v := range t.VShares {
		bo.PutUint32(buf[off:off+4], uint32(v))
		off += 4
	}
	return buf, nil
}

// UnmarshalBinary decodes a TaskSize-byte frame into t.
func (t *Task) UnmarshalBinary(buf []byte) error {
	if len(buf) != TaskSize {
		return fmt.Errorf("wire: task frame is %d bytes, expected %d: %w",
			len(buf), TaskSize, ErrShortFrame)
	}
	t.Op = buf[0]
	t.A = bo.Uint32(buf[1:5])
	t.B = bo.Uint32(buf[5:9])
	off := 9
	for i := range t.UShares {
		t.UShares[i] = int32(bo.Uint32(buf[off : off+4]))
		off += 4
	}
	for i := range t.VShares {
		t.VShares[i] = int32(bo.Uint32(buf[off : off+4]))
		off += 4
	}
	return nil
}

// Response is the agent-to-coordinator frame, also used by the
// coordinator for the REN round-trip's coordinator-to-agent leg.
type Response struct {
	Op    byte
	Value uint32
}

// MarshalBinary encodes r into a ResponseSize-byte big-endian frame.
func (r *Response) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ResponseSize)
	buf[0] = r.Op
	bo.PutUint32(buf[1:5], r.Value)
	return buf, nil
}

// UnmarshalBinary decodes a ResponseSize-byte frame into r.
func (r *Response) UnmarshalBinary(buf []byte) error {
	if len(buf) != ResponseSize {
		return fmt.Errorf("wire: response frame is %d bytes, expected %d: %w",
			len(buf), ResponseSize, ErrShortFrame)
	}
	r.Op = buf[0]
	r.Value = bo.Uint32(buf[1:5])
	return nil
}

// readFull reads exactly len(buf) bytes, or returns ErrShortFrame on any
// EOF/short read — a short read mid-frame is always fatal to the session.
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrShortFrame
		}
		return err
	}
	return nil
}

// WriteTask writes t to w as a TaskSize-byte frame.
func WriteTask(w io.Writer, t *Task) error {
	buf, _ := t.MarshalBinary()
	_, err := w.Write(buf)
	return err
}

// ReadTask reads a TaskSize-byte frame from r.
func ReadTask(r io.Reader) (*Task, error) {
	buf := make([]byte, TaskSize)
	if err := readFull(r, buf); err != nil {
		return nil, err
	}
	var t Task
	if err := t.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	return &t, nil
}

// WriteResponse writes r to w as a ResponseSize-byte frame.
func WriteResponse(w io.Writer, r *Response) error {
	buf, _ := r.MarshalBinary()
	_, err := w.Write(buf)
	return err
}

// ReadResponse reads a ResponseSize-byte frame from r.
func ReadResponse(r io.Reader) (*Response, error) {
	buf := make([]byte, ResponseSize)
	if err := readFull(r, buf); err != nil {
		return nil, err
	}
	var resp Response
	if err := resp.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JoinMessage is the literal 5-byte ASCII handshake every agent sends on
// connect.
const JoinMessage = "JOIN\n"
