package umash

import "math/bits"

// Package umash implements the computational core of UMASH: a keyed,
// almost-universal string hash with a 64-bit digest and an optional
// 128-bit fingerprint.
//
// Arithmetic throughout this file happens in the ring R = Z/(2^64-8); a
// final reduction to the Mersenne prime p = 2^61-1 is only ever needed
// once, while preparing a ParamSet.

// R's modulus M = 2^64-8 is never materialised as a constant: every
// routine below works modulo M implicitly, by exploiting 2^64 == 8 (mod M)
// to fold a 64-bit carry or a 128-bit product's high half back in.
//
// mersennePrime is p = 2^61-1, the modulus reduceModP folds down to; M = 8p.
const mersennePrime = (uint64(1) << 61) - 1

// addFast returns (x+y) mod M with a loose post-condition: the result may
// be as large as 2^64-1, not just < M. Discarding a 64-bit carry is
// subtraction of 2^64, and 2^64 == 8 (mod M), so an overflowing add is
// fixed up by adding 8 back in.
func addFast(x, y uint64) uint64 {
	sum, carry := bits.Add64(x, y, 0)
	return sum + 8*carry
}

// addSlow returns (x+y) mod M with the strict post-condition result < M.
// The fast path below succeeds whenever the unfixed sum is comfortably
// clear of the wraparound point, which holds with probability close to 1
// for pseudo-random inputs; the slow path only triggers near the modulus
// boundary.
func addSlow(x, y uint64) uint64 {
	sum, carry := bits.Add64(x, y, 0)
	fixup := 8 * carry
	if sum < (1<<64-1)-16+1 {
		// sum < 2^64-16: adding fixup (0 or 8) cannot overflow or land
		// above M.
		return sum + fixup
	}
	// sum is within 16 of wrapping; reduce sum alone mod M, apply the
	// carry fixup, then reduce once more.
	reduced := sum
	if reduced >= 1<<64-8 {
		reduced -= 1<<64 - 8
	}
	reduced += fixup
	if reduced >= 1<<64-8 {
		reduced -= 1<<64 - 8
	}
	return reduced
}

// mulFast returns (m*x) mod M with the loose post-condition result < 2^64.
// The full 128-bit product hi:lo is folded back down via addFast, using
// 2^64 == 8 (mod M) again: hi*2^64 == hi*8 (mod M).
//
// Precondition: m < 2^61 (i.e. m is a reduced-mod-p polynomial key word,
// never an arbitrary 64-bit value). hi = ⌊m*x/2^64⌋ < m ≤ 2^61-1, so
// 8*hi < 2^64 and cannot overflow the uint64 multiply; every call site
// (hornerDoubleUpdate's m0/m1, both always a poly[i] word, and Prepare's
// f*f with f masked to 61 bits) honors this.
func mulFast(m, x uint64) uint64 {
	hi, lo := bits.Mul64(m, x)
	return addFast(lo, 8*hi)
}

// hornerDoubleUpdate performs one Horner step over a degree-1 polynomial
// extension, absorbing two compressed block words (x, y) per iteration:
//
//	add_slow( mul_fast(m0, add_fast(acc, x)), mul_fast(m1, y) )
//
// The result satisfies the strict post-condition (< M), so it may be fed
// back in as acc on the next call.
func hornerDoubleUpdate(acc, m0, m1, x, y uint64) uint64 {
	return addSlow(mulFast(m0, addFast(acc, x)), mulFast(m1, y))
}

// reduceModP performs the one-shot reduction from R down to the Mersenne
// prime p = 2^61-1. It is only used while preparing a ParamSet (see
// params.go); the hash output path never calls it, because Finalizer's
// mixing is collision-bounded over the wider ring directly.
func reduceModP(x uint64) uint64 {
	// Any 64-bit x is folded into 61-bit range via the standard Mersenne
	// trick: x = hi*2^61 + lo  ==>  x mod p == (hi+lo) mod p, repeated
	// while the sum still has bits above bit 60. The folded value is then
	// at most p itself, which is the only case that maps to 0.
	for x>>61 != 0 {
		x = (x & mersennePrime) + (x >> 61)
	}
	if x == mersennePrime {
		x = 0
	}
	return x
}
