//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package agent implements the ITS-MPC agent: a single-threaded loop that
// joins a coordinator, receives task frames, and performs the agent's
// share of the field arithmetic and distributed comparison protocol.
package agent

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/markkurossi/itsmpc/field"
	"github.com/markkurossi/itsmpc/wire"
)

// ErrUnexpectedOp is returned when a reply carries an opcode the current
// protocol step did not expect (e.g. a REN round-trip that comes back
// with anything other than OpRen). Per the protocol's failure semantics
// this is always fatal.
var ErrUnexpectedOp = errors.New("agent: unexpected opcode in reply")

// Agent is a single connection to a coordinator, driving the receive
// loop described in SPEC_FULL.md §6.D.
type Agent struct {
	conn net.Conn
}

// Dial connects to a coordinator at addr and sends the JOIN handshake.
func Dial(network, addr string) (*Agent, error) {
	conn, err := net.Dial(network, addr)
	if err != nil {
		return nil, fmt.Errorf("agent: dial %s: %w", addr, err)
	}
	if _, err := conn.Write([]byte(wire.JoinMessage)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("agent: send JOIN: %w", err)
	}
	return &Agent{conn: conn}, nil
}

// Close closes the agent's connection to the coordinator.
func (a *Agent) Close() error {
	return a.conn.Close()
}

// Serve reads and dispatches task frames until a read or a task fails or
// a task carries an unknown opcode. A short read of a task frame is
// returned as io.EOF whether the connection closed at a frame boundary or
// in the middle of a frame; the two cases are not told apart. Every other
// failure is returned as an error other than io.EOF.
func (a *Agent) Serve() error {
	for {
		task, err := wire.ReadTask(a.conn)
		if err != nil {
			if errors.Is(err, wire.ErrShortFrame) {
				return io.EOF
			}
			return err
		}

		switch task.Op {
		case wire.OpAdd:
			if err := a.handleAdd(task); err != nil {
				return err
			}
		case wire.OpMul:
			if err := a.handleMul(task); err != nil {
				return err
			}
		case wire.OpCmp:
			if err := a.handleCmp(task); err != nil {
				return err
			}
		default:
			return fmt.Errorf("agent: unknown task opcode 0x%02x", task.Op)
		}
	}
}

func (a *Agent) handleAdd(task *wire.Task) error {
	res := field.Add(int64(task.A), int64(task.B))
	return a.sendResult(res)
}

func (a *Agent) handleMul(task *wire.Task) error {
	res := field.Mul(int64(task.A), int64(task.B))
	return a.sendResult(res)
}

func (a *Agent) sendResult(value int64) error {
	return wire.WriteResponse(a.conn, &wire.Response{
		Op:    wire.OpRes,
		Value: uint32(field.Normalize(value)),
	})
}

// runRenorm sends the agent's current share as a REN response and blocks
// for the coordinator's REN reply carrying the renormalized share. Any
// reply opcode other than REN is a protocol-fatal error.
func (a *Agent) runRenorm(value int64) (int64, error) {
	if err := wire.WriteResponse(a.conn, &wire.Response{
		Op:    wire.OpRen,
		Value: uint32(field.Normalize(value)),
	}); err != nil {
		return 0, fmt.Errorf("agent: send REN: %w", err)
	}

	resp, err := wire.ReadResponse(a.conn)
	if err != nil {
		return 0, fmt.Errorf("agent: recv REN reply: %w", err)
	}
	if resp.Op != wire.OpRen {
		return 0, ErrUnexpectedOp
	}
	return int64(resp.Value), nil
}

// handleCmp runs the agent's side of the distributed comparison protocol
// described in SPEC_FULL.md §6.D and spec.md §4.E, bit position by bit
// position, synchronizing with the coordinator via runRenorm whenever a
// local product would exceed degree 1.
func (a *Agent) handleCmp(task *wire.Task) error {
	const l = field.BitLen

	u := make([]int64, l)
	v := make([]int64, l)
	for i := 0; i < l; i++ {
		u[i] = int64(task.UShares[i])
		v[i] = int64(task.VShares[i])
	}

	eq := make([]int64, l)
	gt := make([]int64, l)
	lt := make([]int64, l)
	prefixEq := make([]int64, l)
	prefixEq[0] = int64(task.A)

	for j := 0; j < l; j++ {
		t, err := a.runRenorm(field.Mul(u[j], v[j]))
		if err != nil {
			return err
		}
		xor := field.Sub(field.Add(u[j], v[j]), field.Mul(2, t))
		eq[j] = field.Sub(1, xor)

		notV := field.Sub(1, v[j])
		gtj, err := a.runRenorm(field.Mul(u[j], notV))
		if err != nil {
			return err
		}
		gt[j] = gtj

		notU := field.Sub(1, u[j])
		ltj, err := a.runRenorm(field.Mul(notU, v[j]))
		if err != nil {
			return err
		}
		lt[j] = ltj
	}

	for j := 1; j < l; j++ {
		pe, err := a.runRenorm(field.Mul(prefixEq[j-1], eq[j-1]))
		if err != nil {
			return err
		}
		prefixEq[j] = pe
	}

	flag := make([]int64, l)
	for j := 0; j < l; j++ {
		diff := field.Sub(gt[j], lt[j])
		fj, err := a.runRenorm(field.Mul(prefixEq[j], diff))
		if err != nil {
			return err
		}
		flag[j] = fj
	}

	var cmpShare int64
	for j := 0; j < l; j++ {
		cmpShare = field.Add(cmpShare, flag[j])
	}

	return a.sendResult(cmpShare)
}
