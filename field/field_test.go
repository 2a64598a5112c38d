//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package field

import (
	"math/rand"
	"testing"
)

func TestP(t *testing.T) {
	if P <= 1 {
		t.Fatalf("P=%d is not a valid modulus", P)
	}
	for i := int64(2); i*i <= P; i++ {
		if P%i == 0 {
			t.Fatalf("P=%d is not prime: divisible by %d", P, i)
		}
	}
}

func TestOverflowHeadroom(t *testing.T) {
	// 3*(p-1)^2 must stay well below 2^63, per the field's design
	// constraint.
	bound := int64(3) * (P - 1) * (P - 1)
	const maxInt64 = 1<<63 - 1
	if bound >= maxInt64 {
		t.Fatalf("3*(P-1)^2=%d overflows int64", bound)
	}
}

var addSubTests = []struct {
	a, b, add, sub int64
}{
	{7, 5, 12, 2},
	{10000, 500, (10500) % P, (10000 - 500) % P},
	{0, 1, 1, P - 1},
	{P - 1, 1, 0, P - 2},
}

func TestAddSub(t *testing.T) {
	for i, test := range addSubTests {
		if got := Add(test.a, test.b); got != test.add {
			t.Errorf("test-%d: Add(%d,%d)=%d, expected %d",
				i, test.a, test.b, got, test.add)
		}
		if got := Sub(test.a, test.b); got != test.sub {
			t.Errorf("test-%d: Sub(%d,%d)=%d, expected %d",
				i, test.a, test.b, got, test.sub)
		}
	}
}

func TestMul(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{13, 11, 143},
		{200, 300, 60000 % P},
		{P - 1, P - 1, 1}, // (-1)*(-1) = 1 mod p
	}
	for i, test := range tests {
		if got := Mul(test.a, test.b); got != test.want {
			t.Errorf("test-%d: Mul(%d,%d)=%d, expected %d",
				i, test.a, test.b, got, test.want)
		}
	}
}

func TestNeg(t *testing.T) {
	for a := int64(0); a < P; a += 977 {
		if got := Add(a, Neg(a)); got != 0 {
			t.Errorf("Add(%d, Neg(%d))=%d, expected 0", a, a, got)
		}
	}
}

func TestRandElementRange(t *testing.T) {
	src := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := RandElement(src)
		if v < 0 || v >= P {
			t.Fatalf("RandElement out of range: %d", v)
		}
	}
}

func TestNormalizeUnderflow(t *testing.T) {
	if got := Normalize(-1); got != P-1 {
		t.Errorf("Normalize(-1)=%d, expected %d", got, P-1)
	}
	if got := Normalize(-P); got != 0 {
		t.Errorf("Normalize(-P)=%d, expected 0", got)
	}
}
