package umash

import (
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// K is PH_PARAM_COUNT: the number of PH key words consumed by one block.
// T is the Toeplitz shift: the reference upstream UMASH implementation
// (rurban/umash) fixes its trailing key extension at 4 words beyond the
// 32 consumed per block, so this module freezes T = 4 too, resolving
// spec.md's open question about T before any persisted ParamSet can be
// produced. ph therefore carries K+T = 36 words: ph[0:K] for which=0,
// ph[T:T+K] for which=1/the fingerprint's second hash.
const (
	K = phParamCount
	T = 4
)

// paramWordCount is the total number of uint64 words in a ParamSet's
// external (persisted) layout: 2*2 poly words, then K+T ph words.
const paramWordCount = 2*2 + K + T

// ParamSet is a key schedule: two polynomial keys (each stored as (f^2, f))
// and K+T pairwise-distinct PH key words. Once Prepare returns true, a
// ParamSet is immutable and may be shared read-only across any number of
// concurrent hash calls; the core never mutates it and never retains a
// reference beyond the duration of a single call.
type ParamSet struct {
	Poly [2][2]uint64 // poly[i] = (f^2 mod p, f)
	Ph   [K + T]uint64
}

// Prepare repairs p in place: it is given a ParamSet filled with
// arbitrary (e.g. random) bytes and fixes up the two polynomial
// multipliers and de-duplicates the PH key words. The two pre-squared
// cells Poly[0][0] and Poly[1][0] serve as a small entropy reservoir,
// consumed sequentially, should either step need to replace a bad value;
// Prepare returns false, and p must be considered unusable, if repair
// demands more entropy than those two words can supply.
func Prepare(p *ParamSet) bool {
	reservoir := [2]uint64{p.Poly[0][0], p.Poly[1][0]}
	next, ok := 0, true
	takeNext := func() (uint64, bool) {
		if next >= len(reservoir) {
			return 0, false
		}
		v := reservoir[next]
		next++
		return v, true
	}

	for i := 0; i < 2; i++ {
		f := p.Poly[i][1] & mersennePrime
		for f == 0 || f == mersennePrime {
			f, ok = takeNext()
			if !ok {
				return false
			}
			f &= mersennePrime
		}
		p.Poly[i][0] = reduceModP(mulFast(f, f))
		p.Poly[i][1] = f
	}

	for i := range p.Ph {
		for isDuplicatePh(p.Ph[:], i) {
			v, ok := takeNext()
			if !ok {
				return false
			}
			p.Ph[i] = v
		}
	}

	return true
}

func isDuplicatePh(ph []uint64, i int) bool {
	for j := 0; j < i; j++ {
		if ph[j] == ph[i] {
			return true
		}
	}
	return false
}

// NewParamSetFromBytes lays raw (poly[0][0], poly[0][1], poly[1][0],
// poly[1][1], ph[0..K+T)) into a fresh ParamSet's external layout and
// runs Prepare over it. It is a supplementary convenience constructor,
// grounded on the reference's umash_params_derive: the core (Prepare)
// itself takes no opinion on where random words come from.
func NewParamSetFromBytes(raw [paramWordCount]uint64) (*ParamSet, error) {
	p := &ParamSet{
		Poly: [2][2]uint64{{raw[0], raw[1]}, {raw[2], raw[3]}},
	}
	copy(p.Ph[:], raw[4:])

	if !Prepare(p) {
		return nil, xerrors.Errorf("umash: preparing param set: %w", ErrReservoirExhausted)
	}
	return p, nil
}

// NewParamSetFromReader reads paramWordCount little-endian uint64 words
// of raw entropy from r (e.g. crypto/rand.Reader) and returns a prepared
// ParamSet. The core never reads an entropy source itself (spec.md §6:
// "Key material is sourced by the caller from a random byte producer of
// its choice"); this is purely a caller convenience.
func NewParamSetFromReader(r io.Reader) (*ParamSet, error) {
	var buf [paramWordCount * 8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, xerrors.Errorf("umash: reading param set entropy (%v): %w", err, ErrShortRead)
	}

	var raw [paramWordCount]uint64
	for i := range raw {
		raw[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return NewParamSetFromBytes(raw)
}

// MarshalBinary encodes p in the external layout documented in spec.md
// §6: poly (2x2 little-endian u64, row-major) followed by ph
// ((K+T) little-endian u64). It never fails.
func (p *ParamSet) MarshalBinary() ([]byte, error) {
	buf := make([]byte, paramWordCount*8)
	off := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			binary.LittleEndian.PutUint64(buf[off:], p.Poly[i][j])
			off += 8
		}
	}
	for _, w := range p.Ph {
		binary.LittleEndian.PutUint64(buf[off:], w)
		off += 8
	}
	return buf, nil
}

// UnmarshalBinary decodes a ParamSet previously produced by MarshalBinary.
// It does not re-validate the result against Prepare's invariants: callers
// persisting and reloading a ParamSet are expected to have prepared it
// once, up front.
func (p *ParamSet) UnmarshalBinary(data []byte) error {
	if len(data) != paramWordCount*8 {
		return xerrors.Errorf("umash: param set must be exactly %d bytes, got %d", paramWordCount*8, len(data))
	}
	off := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			p.Poly[i][j] = binary.LittleEndian.Uint64(data[off:])
			off += 8
		}
	}
	for i := range p.Ph {
		p.Ph[i] = binary.LittleEndian.Uint64(data[off:])
		off += 8
	}
	return nil
}
