package hamming

import (
	"errors"
	"fmt"
)

var (
	ErrUncorrectable = errors.New("hamming: uncorrectable codeword")
	ErrMisaligned    = errors.New("hamming: stream not aligned to codeword width")
	ErrInvalidCode   = errors.New("hamming: invalid code parameters")
	ErrUnknownCode   = errors.New("hamming: unknown code")
	ErrInvalidLength = errors.New("hamming: invalid decode length")
)

// CodewordError identifies the first codeword that failed double-error detection.
type CodewordError struct {
	Index    int
	Codeword uint64
	Width    uint32
}

func (e *CodewordError) Error() string {
	return fmt.Sprintf("hamming: uncorrectable codeword %d (%0*b)", e.Index, int(e.Width), e.Codeword)
}

func (e *CodewordError) Unwrap() error {
	return ErrUncorrectable
}
