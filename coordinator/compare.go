//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package coordinator

import (
	"fmt"

	"github.com/markkurossi/itsmpc/field"
	"github.com/markkurossi/itsmpc/share"
	"github.com/markkurossi/itsmpc/wire"
)

// maxOperand is the exclusive upper bound on CMP operands: 2^BitLen.
const maxOperand = 1 << field.BitLen

// bits decomposes v into its BitLen-bit binary representation, MSB
// first at index 0.
func bits(v int64) [field.BitLen]int64 {
	var out [field.BitLen]int64
	for i := 0; i < field.BitLen; i++ {
		shift := field.BitLen - 1 - i
		out[i] = (v >> uint(shift)) & 1
	}
	return out
}

// Cmp runs the distributed comparison protocol on u and v and returns the
// two indicators spec.md §4.E defines: c is the "u >= v" indicator, e is
// the "u == v" indicator. Both are derived from the single reconstructed
// field element cmp using the CLI's canonical interpretation: e holds iff
// cmp == 0, c holds iff 0 <= cmp <= floor(p/2).
func (s *Session) Cmp(u, v int64) (c, e bool, err error) {
	if err := s.requireInitialized(); err != nil {
		return false, false, err
	}
	if u < 0 || u >= maxOperand || v < 0 || v >= maxOperand {
		return false, false, fmt.Errorf("coordinator: u=%d v=%d: %w", u, v, ErrOperandRange)
	}

	bitsU := bits(u)
	bitsV := bits(v)

	uShares := make([][NP]int64, field.BitLen)
	vShares := make([][NP]int64, field.BitLen)
	for i := 0; i < field.BitLen; i++ {
		ru := field.RandElement(s.rng)
		rv := field.RandElement(s.rng)
		uShares[i] = share.SplitAll(ru, bitsU[i])
		vShares[i] = share.SplitAll(rv, bitsV[i])
	}

	r0 := field.RandElement(s.rng)
	oneShares := share.SplitAll(r0, 1)

	if err := s.sendTasks(func(j int) *wire.Task {
		t := &wire.Task{
			Op: wire.OpCmp,
			A:  uint32(oneShares[j]),
		}
		for i := 0; i < field.BitLen; i++ {
			t.UShares[i] = int32(uShares[i][j])
			t.VShares[i] = int32(vShares[i][j])
		}
		return t
	}); err != nil {
		return false, false, err
	}

	// Phase A: per spec.md §4.E, 3 REN cycles per bit position (t, gt, lt).
	for j := 0; j < field.BitLen; j++ {
		for k := 0; k < 3; k++ {
			if err := s.waitRenorm(); err != nil {
				return false, false, err
			}
		}
	}
	// Phase B: one REN cycle per prefix-equality bit beyond the first.
	for j := 1; j < field.BitLen; j++ {
		if err := s.waitRenorm(); err != nil {
			return false, false, err
		}
	}
	// Phase C: one REN cycle per flag bit.
	for j := 0; j < field.BitLen; j++ {
		if err := s.waitRenorm(); err != nil {
			return false, false, err
		}
	}

	t, err := s.collectResponses(wire.OpRes)
	if err != nil {
		return false, false, err
	}
	cmp := share.Reconstruct(t)

	e = cmp == 0
	c = cmp >= 0 && cmp <= field.P/2
	return c, e, nil
}

// LT reports whether a < b.
func (s *Session) LT(a, b int64) (bool, error) {
	c, _, err := s.Cmp(a, b)
	if err != nil {
		return false, err
	}
	return !c, nil
}

// GT reports whether a > b.
func (s *Session) GT(a, b int64) (bool, error) {
	return s.LT(b, a)
}

// LE reports whether a <= b: true when a == b or a < b.
func (s *Session) LE(a, b int64) (bool, error) {
	c, e, err := s.Cmp(a, b)
	if err != nil {
		return false, err
	}
	return e || !c, nil
}

// GE reports whether a >= b.
func (s *Session) GE(a, b int64) (bool, error) {
	lt, err := s.LT(a, b)
	if err != nil {
		return false, err
	}
	return !lt, nil
}

// EQ reports whether a == b.
func (s *Session) EQ(a, b int64) (bool, error) {
	_, e, err := s.Cmp(a, b)
	return e, err
}

// NE reports whether a != b.
func (s *Session) NE(a, b int64) (bool, error) {
	eq, err := s.EQ(a, b)
	if err != nil {
		return false, err
	}
	return !eq, nil
}
