package umash

// finalize is the output mixer applied to the Long/Medium-path
// accumulator before it is returned as a digest. It is simpler than the
// Short path's mixer because the accumulator already has well-distributed
// high and low bits after the Horner fold.
func finalize(x uint64) uint64 {
	x ^= x >> 27
	x *= mixC2
	return x
}
