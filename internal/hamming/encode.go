package hamming

import "math/bits"

// Encode packs msg into codewords and serializes them, CodewordBytes each.
// Empty input yields an empty stream.
func Encode(msg []byte, code Code) []byte {
	return PackCodewords(EncodeCodewords(msg, code), code)
}

// EncodeCodewords splits the LSB-first bitstream of msg into DataBits groups,
// zero-padding the last group, and protects each group.
func EncodeCodewords(msg []byte, code Code) []uint64 {
	n := code.Codewords(len(msg))
	out := make([]uint64, n)
	nbits := len(msg) * 8
	d := int(code.dataBits)
	for i := range out {
		var data uint64
		for j := 0; j < d; j++ {
			bit := i*d + j
			if bit >= nbits {
				break
			}
			data |= uint64(msg[bit/8]>>(bit%8)&1) << j
		}
		out[i] = code.EncodeWord(data)
	}
	return out
}

// EncodeWord protects the low DataBits bits of data.
func (c Code) EncodeWord(data uint64) uint64 {
	var cw uint64
	for j, p := range c.dataPos {
		cw |= (data >> j & 1) << p
	}
	s := c.syndrome(cw)
	for k := range c.cover {
		if s&(1<<k) != 0 {
			cw |= uint64(1) << (uint(1) << k)
		}
	}
	if bits.OnesCount64(cw)&1 == 1 {
		cw |= 1
	}
	return cw
}

// PackCodewords serializes codewords least-significant byte first.
func PackCodewords(words []uint64, code Code) []byte {
	w := code.CodewordBytes()
	out := make([]byte, len(words)*w)
	for i, cw := range words {
		for b := 0; b < w; b++ {
			out[i*w+b] = byte(cw >> (8 * b))
		}
	}
	return out
}
