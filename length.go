package umash

import "encoding/binary"

// Mixing constants used by the Short-path splitmix64-style mixer and by
// the Finalizer.
const (
	mixC1 = 0xbf58476d1ce4e5b9
	mixC2 = 0x94d049bb133111eb
)

// shortHash handles 0-8 byte inputs. phLen is the length-indexed key word
// ph[len(data)] used to bump the seed; no poly key is taken (the short
// path has no Horner chain).
func shortHash(phLen uint64, seed uint64, data []byte) uint64 {
	n := len(data)
	seedPrime := seed ^ phLen

	var v uint64
	if n >= 4 {
		lo := uint64(binary.LittleEndian.Uint32(data[0:4]))
		hi := uint64(binary.LittleEndian.Uint32(data[n-4 : n]))
		v = (hi << 32) | uint64(uint32(lo+hi))
	} else {
		var b, w uint64
		if n&1 != 0 {
			b = uint64(data[0])
		}
		if n&2 != 0 {
			w = uint64(binary.LittleEndian.Uint16(data[n-2 : n]))
		}
		v = (w << 32) | uint64(uint32(b+w))
	}

	v ^= v >> 30
	v *= mixC1
	v = (v ^ seedPrime) ^ (v >> 27)
	v *= mixC2
	v ^= v >> 31
	return v
}

// mediumHash handles 9-16 byte inputs.
func mediumHash(ph []uint64, poly [2]uint64, seed uint64, data []byte) uint64 {
	n := len(data)
	acc := seed ^ uint64(n)

	x := loadLE64(data, 0) ^ ph[0]
	y := loadLE64(data, n-8) ^ ph[1]
	hi, lo := clmul64(x, y)
	acc ^= lo

	return finalize(hornerDoubleUpdate(0, poly[0], poly[1], acc, hi))
}

// longHash handles inputs longer than 16 bytes: a flat Horner fold of
// full 256-byte blocks followed by one final (possibly short) block.
func longHash(ph []uint64, poly [2]uint64, seed uint64, data []byte) uint64 {
	n := len(data)
	var acc uint64

	pos := 0
	for n-pos > blockSize {
		c := phOneBlock(ph, seed, data[pos:pos+blockSize])
		acc = hornerDoubleUpdate(acc, poly[0], poly[1], c.bits0, c.bits1)
		pos += blockSize
	}

	tailLen := n - pos
	seedPrime := seed ^ uint64(byte(tailLen))
	last16 := data[n-16 : n]
	c := phLastBlock(ph, seedPrime, data[pos:n], last16)
	acc = hornerDoubleUpdate(acc, poly[0], poly[1], c.bits0, c.bits1)

	return finalize(acc)
}
