// Package noise injects independent random bit errors into encoded streams.
package noise

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/rand"
	"time"
)

var (
	ErrInvalidProbability = errors.New("noise: probability outside [0,1]")
	ErrInvalidLength      = errors.New("noise: negative mask length")
	ErrLengthMismatch     = errors.New("noise: stream and mask length mismatch")
)

// Injector draws error masks from its own random source. It is not safe for
// concurrent use; callers own it exclusively.
type Injector struct {
	rng *rand.Rand
}

// NewInjector seeds from the current time.
func NewInjector() *Injector {
	return NewInjectorWithSeed(time.Now().UnixNano())
}

// NewInjectorWithSeed returns a reproducible injector.
func NewInjectorWithSeed(seed int64) *Injector {
	return NewInjectorFromSource(rand.NewSource(seed))
}

func NewInjectorFromSource(src rand.Source) *Injector {
	return &Injector{rng: rand.New(src)}
}

// ValidateProbability rejects p outside [0,1], including NaN.
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidProbability, p)
	}
	return nil
}

// GenerateMask returns ceil(lengthBits/8) bytes where each of the first
// lengthBits bits (LSB-first) is set independently with probability p.
func (i *Injector) GenerateMask(lengthBits int, p float64) ([]byte, error) {
	if err := ValidateProbability(p); err != nil {
		return nil, err
	}
	if lengthBits < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, lengthBits)
	}
	mask := make([]byte, (lengthBits+7)/8)
	for bit := 0; bit < lengthBits; bit++ {
		if i.rng.Float64() < p {
			mask[bit/8] |= 1 << (bit % 8)
		}
	}
	return mask, nil
}

// ResizeMask truncates or zero-extends mask to size bytes, keeping the prefix.
func ResizeMask(mask []byte, size int) []byte {
	if size < 0 {
		size = 0
	}
	out := make([]byte, size)
	copy(out, mask)
	return out
}

// Apply XORs mask into stream and returns the corrupted copy.
func Apply(stream, mask []byte) ([]byte, error) {
	if len(stream) != len(mask) {
		return nil, fmt.Errorf("%w: stream=%d mask=%d", ErrLengthMismatch, len(stream), len(mask))
	}
	out := make([]byte, len(stream))
	for i := range stream {
		out[i] = stream[i] ^ mask[i]
	}
	return out, nil
}

// Stats summarizes one mask.
type Stats struct {
	TotalBits int
	ErrorBits int
	ActualBER float64
	Positions []int
}

func MaskStats(mask []byte) Stats {
	s := Stats{TotalBits: len(mask) * 8}
	for i, b := range mask {
		s.ErrorBits += bits.OnesCount8(b)
		for k := 0; k < 8; k++ {
			if b&(1<<k) != 0 {
				s.Positions = append(s.Positions, i*8+k)
			}
		}
	}
	if s.TotalBits > 0 {
		s.ActualBER = float64(s.ErrorBits) / float64(s.TotalBits)
	}
	return s
}
