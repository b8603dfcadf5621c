package umash

import (
	"bytes"
	"math/big"
	"math/rand"
	"testing"
)

// S6: prepare on an all-zero buffer must fail -- every polynomial
// multiplier is zero and the entropy reservoir is also zero, so there is
// nothing to repair it with.
func TestPrepareAllZeroFails(t *testing.T) {
	var p ParamSet
	if Prepare(&p) {
		t.Fatal("Prepare succeeded on an all-zero ParamSet, want false")
	}
}

// P2: for any ParamSet accepted by Prepare, each poly[i][1] in (0, p),
// poly[i][0] == poly[i][1]^2 mod p, and all K+T ph words are pairwise
// distinct.
func TestPrepareInvariants(t *testing.T) {
	bigP := new(big.Int).SetUint64(mersennePrime)

	for trial := 0; trial < 2000; trial++ {
		rng := rand.New(rand.NewSource(int64(trial) + 1))
		var p ParamSet
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				p.Poly[i][j] = rng.Uint64()
			}
		}
		for i := range p.Ph {
			p.Ph[i] = rng.Uint64()
		}

		if !Prepare(&p) {
			// Exceedingly unlikely with real random 64-bit words, but not
			// impossible to hand-construct; if it happens for a random
			// trial, something upstream is broken.
			t.Fatalf("trial %d: Prepare failed on random input", trial)
		}

		for i := 0; i < 2; i++ {
			f := p.Poly[i][1]
			if f == 0 || f == mersennePrime {
				t.Fatalf("trial %d: poly[%d][1] = %d out of (0, p)", trial, i, f)
			}
			want := new(big.Int).Mul(new(big.Int).SetUint64(f), new(big.Int).SetUint64(f))
			want.Mod(want, bigP)
			if p.Poly[i][0] != want.Uint64() {
				t.Fatalf("trial %d: poly[%d][0] = %d, want %d", trial, i, p.Poly[i][0], want.Uint64())
			}
		}

		seen := make(map[uint64]bool, len(p.Ph))
		for i, w := range p.Ph {
			if seen[w] {
				t.Fatalf("trial %d: ph[%d] = %d duplicates an earlier word", trial, i, w)
			}
			seen[w] = true
		}
	}
}

func TestParamSetMarshalRoundTrip(t *testing.T) {
	p := testParamSet(t, 11)

	buf, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %s", err)
	}
	if len(buf) != paramWordCount*8 {
		t.Fatalf("MarshalBinary produced %d bytes, want %d", len(buf), paramWordCount*8)
	}

	var got ParamSet
	if err := got.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary: %s", err)
	}
	if got != *p {
		t.Fatalf("round-tripped ParamSet does not match original")
	}
}

func TestNewParamSetFromReaderShortRead(t *testing.T) {
	short := bytes.NewReader(make([]byte, 8)) // far fewer than paramWordCount*8 bytes
	if _, err := NewParamSetFromReader(short); err == nil {
		t.Fatal("NewParamSetFromReader succeeded on a short reader, want an error")
	}
}

func TestNewParamSetFromReaderSucceeds(t *testing.T) {
	buf := make([]byte, paramWordCount*8)
	rand.New(rand.NewSource(17)).Read(buf)
	p, err := NewParamSetFromReader(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("NewParamSetFromReader: %s", err)
	}
	if p == nil {
		t.Fatal("NewParamSetFromReader returned a nil ParamSet with no error")
	}
}
