package umash

import (
	"hash"
	"sync"
)

// Fingerprint is two nearly-independent 64-bit digests produced from one
// key schedule: Hash[0] uses Toeplitz shift 0, Hash[1] uses shift T. Its
// collision bound is approximately the single-hash bound squared.
type Fingerprint struct {
	Hash [2]uint64
}

// Low returns the shift-0 half of the fingerprint.
func (f Fingerprint) Low() uint64 { return f.Hash[0] }

// High returns the shift-T half of the fingerprint.
func (f Fingerprint) High() uint64 { return f.Hash[1] }

// Hash maps data to a 64-bit digest under p and seed. which selects one
// of the two nearly-independent hashes a ParamSet can produce: 0 uses
// Toeplitz shift 0 and poly key 0, any nonzero value is normalised to 1
// and uses shift T and poly key 1 -- matching the reference C
// implementation's own normalisation of non-zero `which` to 1, rather
// than rejecting out-of-range values at the boundary.
//
// Hash allocates nothing on the heap and tolerates unaligned data and
// n == 0. p is borrowed read-only for the duration of the call and never
// retained.
func Hash(p *ParamSet, seed uint64, which int, data []byte) uint64 {
	idx := 0
	shift := 0
	if which != 0 {
		idx = 1
		shift = T
	}

	ph := p.Ph[shift : shift+K]
	poly := p.Poly[idx]

	n := len(data)
	switch {
	case n <= 8:
		return shortHash(ph[n], seed, data)
	case n <= 16:
		return mediumHash(ph, poly, seed, data)
	default:
		return longHash(ph, poly, seed, data)
	}
}

// Sum64 is a thin alias for Hash(p, seed, 0, data).
func Sum64(p *ParamSet, seed uint64, data []byte) uint64 {
	return Hash(p, seed, 0, data)
}

// Fingerprint64 runs the Short/Medium/Long dispatch twice, once per key
// view (shift 0 / shift T, poly key 0 / poly key 1), returning both
// digests in shift order.
func Fingerprint64(p *ParamSet, seed uint64, data []byte) Fingerprint {
	return Fingerprint{Hash: [2]uint64{
		Hash(p, seed, 0, data),
		Hash(p, seed, 1, data),
	}}
}

// Digest is a hash.Hash64-shaped convenience wrapper around Sum64 (Hash
// with which=0); it never computes a fingerprint. It is NOT part of the
// core described in spec.md §1 (the
// core has no incremental/streaming algebra), it merely buffers written
// bytes and defers all real work to Sum/Sum64, in the same spirit as the
// teacher's Calc type buffering into carry and only folding at Digest().
// The zero value is not usable; construct with NewDigest.
type Digest struct {
	mu   sync.Mutex
	p    *ParamSet
	seed uint64
	buf  []byte
}

var _ hash.Hash = &Digest{}
var _ hash.Hash64 = &Digest{}

// NewDigest returns a Digest that hashes whatever is Write()n to it under
// p and seed, once Sum/Sum64 is called.
func NewDigest(p *ParamSet, seed uint64) *Digest {
	return &Digest{p: p, seed: seed}
}

// Write buffers p for later hashing. It never fails.
func (d *Digest) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Sum64 returns the 64-bit digest of all bytes written so far, without
// resetting the accumulated buffer.
func (d *Digest) Sum64() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Sum64(d.p, d.seed, d.buf)
}

// Sum appends the 8-byte big-endian digest of all bytes written so far to
// b, matching the hash.Hash convention used by the standard library's own
// 64-bit hashes (e.g. hash/crc64).
func (d *Digest) Sum(b []byte) []byte {
	v := d.Sum64()
	return append(b,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Reset clears the accumulated buffer so the Digest can be reused.
func (d *Digest) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf = d.buf[:0]
}

// Size is the digest size in bytes (8, a 64-bit hash).
func (d *Digest) Size() int { return 8 }

// BlockSize is PH's natural block size.
func (d *Digest) BlockSize() int { return blockSize }
