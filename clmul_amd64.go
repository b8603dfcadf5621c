//go:build amd64 && !purego

package umash

import "github.com/klauspost/cpuid/v2"

// clmulHW is implemented in clmul_amd64.s using a single PCLMULQDQ
// instruction. Declared //go:noescape: it never takes the address of its
// result words, only reads the two 64-bit operands.
//
//go:noescape
func clmulHW(a, b uint64) (hi, lo uint64)

func init() {
	// Same cpuid-gated backend-selection idiom the teacher inherits
	// transitively through minio/sha256-simd: pick the accelerated path
	// once, at init, iff the CPU actually advertises the instruction.
	if cpuid.CPU.Supports(cpuid.CLMUL) {
		clmul64 = clmulHW
	}
}
