//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package share implements the three-party additive/Shamir-style secret
// sharing used by the ITS-MPC protocol: splitting a secret into a share
// triple, reconstructing a secret from its shares, and renormalizing a
// degree-2 share triple (the result of a local multiplication) back down
// to degree 1.
package share

import "github.com/markkurossi/itsmpc/field"

// NP is the fixed party count. The reconstruction coefficients and the
// renormalization protocol below are hard-wired to three parties;
// generalizing to n parties is a non-goal (SPEC_FULL.md §11).
const NP = 3

// Gamma holds the fixed reconstruction coefficients γ = (3, p-3, 1).
// Gamma·(1,1,1)ᵀ ≡ 1 (mod p); this is what lets Reconstruct collapse a
// degree-1 share triple back to its constant term.
var Gamma = [NP]int64{3, field.P - 3, 1}

// Triple is a share of a secret: one evaluation per party, indexed by
// party number j in {0,1,2}.
type Triple [NP]int64

// Split returns the share of secret s held by party j, given noise
// coefficient r: s_j = ((j+1)*r + s) mod p.
func Split(j int, r, s int64) int64 {
	return field.Normalize(int64(j+1)*r + s)
}

// SplitAll produces the full share triple of s under noise r.
func SplitAll(r, s int64) Triple {
	var t Triple
	for j := 0; j < NP; j++ {
		t[j] = Split(j, r, s)
	}
	return t
}

// Reconstruct recovers the secret encoded by a degree-1 share triple
// using the fixed gamma coefficients.
func Reconstruct(t Triple) int64 {
	var sum int64
	for j := 0; j < NP; j++ {
		sum += Gamma[j] * t[j]
	}
	return field.Normalize(sum)
}

// Renormalize reduces the polynomial degree of a share triple from 2 back
// to 1 while preserving the secret it encodes. It runs all five steps of
// Protocol 2 in one call: the coordinator collects each agent's current
// share over REN frames, calls Renormalize once, and ships each party
// its new share back — matching the reference server's waitRENORM.
func Renormalize(t Triple, src field.Source) Triple {
	rU := field.RandElement(src)
	c2 := field.RandElement(src)

	rShares := dealerNoiseShares(rU, c2)

	var d Triple
	for j := 0; j < NP; j++ {
		d[j] = field.Add(t[j], rShares[j])
	}

	var reshareD [NP]Triple
	for j := 0; j < NP; j++ {
		coeff := field.RandElement(src)
		for k := 0; k < NP; k++ {
			reshareD[j][k] = Split(k, coeff, d[j])
		}
	}

	return dealerCombine(reshareD, rShares)
}

// dealerNoiseShares performs steps 1-2 of Renormalize: sample r_U, c2 and
// form their degree-1 share triple r_j = (r_U + c2*(j+1)) mod p.
func dealerNoiseShares(rU, c2 int64) Triple {
	return SplitAll(c2, rU)
}

// dealerCombine performs step 5: new share for party k is
// (Σ_j γ_j · D_{j,k}) - r_k, normalized.
func dealerCombine(reshareD [NP]Triple, rShares Triple) Triple {
	var out Triple
	for k := 0; k < NP; k++ {
		var sum int64
		for j := 0; j < NP; j++ {
			sum += Gamma[j] * reshareD[j][k]
		}
		out[k] = field.Sub(field.Normalize(sum), rShares[k])
	}
	return out
}
