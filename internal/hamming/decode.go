package hamming

import (
	"fmt"
	"math/bits"
)

// Status is the SECDED outcome for one received codeword.
type Status uint8

const (
	StatusClean Status = iota
	StatusParityOnly
	StatusCorrected
	StatusUncorrectable
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusParityOnly:
		return "parity_only"
	case StatusCorrected:
		return "corrected"
	case StatusUncorrectable:
		return "uncorrectable"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Report holds per-codeword decode statuses for one stream.
type Report struct {
	Statuses []Status
}

// Count returns how many codewords ended in status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, st := range r.Statuses {
		if st == s {
			n++
		}
	}
	return n
}

// OK reports whether every codeword was accepted.
func (r Report) OK() bool {
	return r.Count(StatusUncorrectable) == 0
}

// Decode recovers floor(codewords*DataBits/8) bytes from stream. A stream whose
// length is not a multiple of CodewordBytes returns ErrMisaligned; any codeword
// with a detected double error fails the whole decode with ErrUncorrectable.
func Decode(stream []byte, code Code) ([]byte, error) {
	words, err := UnpackCodewords(stream, code)
	if err != nil {
		return nil, err
	}
	return decodeWords(words, code, len(words)*int(code.dataBits)/8)
}

// DecodeLen is Decode truncated to the original message size, dropping the
// zero padding added by Encode.
func DecodeLen(stream []byte, code Code, size int) ([]byte, error) {
	words, err := UnpackCodewords(stream, code)
	if err != nil {
		return nil, err
	}
	limit := len(words) * int(code.dataBits) / 8
	if size < 0 || size > limit {
		return nil, fmt.Errorf("%w: size=%d max=%d", ErrInvalidLength, size, limit)
	}
	return decodeWords(words, code, size)
}

// Inspect classifies each codeword of stream without extracting payload.
func Inspect(stream []byte, code Code) (Report, error) {
	words, err := UnpackCodewords(stream, code)
	if err != nil {
		return Report{}, err
	}
	r := Report{Statuses: make([]Status, len(words))}
	for i, cw := range words {
		_, r.Statuses[i] = code.DecodeWord(cw)
	}
	return r, nil
}

// UnpackCodewords splits a serialized stream into codeword values.
func UnpackCodewords(stream []byte, code Code) ([]uint64, error) {
	w := code.CodewordBytes()
	if w == 0 || len(stream)%w != 0 {
		return nil, fmt.Errorf("%w: len=%d width=%d", ErrMisaligned, len(stream), w)
	}
	words := make([]uint64, len(stream)/w)
	for i := range words {
		var cw uint64
		for b := 0; b < w; b++ {
			cw |= uint64(stream[i*w+b]) << (8 * b)
		}
		words[i] = cw
	}
	return words, nil
}

// DecodeWord applies the SECDED decision table to one codeword and returns
// its payload bits. The payload is meaningless for StatusUncorrectable.
func (c Code) DecodeWord(cw uint64) (uint64, Status) {
	cw &= c.mask
	s := c.syndrome(cw)
	overallMismatch := bits.OnesCount64(cw)&1 == 1

	var status Status
	switch {
	case s == 0 && !overallMismatch:
		status = StatusClean
	case s == 0:
		status = StatusParityOnly
	case overallMismatch:
		cw ^= 1 << s
		status = StatusCorrected
	default:
		return 0, StatusUncorrectable
	}
	return c.extract(cw), status
}

func (c Code) extract(cw uint64) uint64 {
	var data uint64
	for j, p := range c.dataPos {
		data |= (cw >> p & 1) << j
	}
	return data
}

func decodeWords(words []uint64, code Code, size int) ([]byte, error) {
	out := make([]byte, size)
	nbits := size * 8
	d := int(code.dataBits)
	for i, cw := range words {
		data, status := code.DecodeWord(cw)
		if status == StatusUncorrectable {
			return nil, &CodewordError{Index: i, Codeword: cw & code.mask, Width: code.totalBits}
		}
		for j := 0; j < d; j++ {
			bit := i*d + j
			if bit >= nbits {
				break
			}
			out[bit/8] |= byte(data>>j&1) << (bit % 8)
		}
	}
	return out, nil
}
