package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/danmuck/hamming/internal/hamming"
	"github.com/danmuck/hamming/internal/noise"
	"github.com/rs/zerolog/log"
)

// SweepResult aggregates repeated randomized round trips of one message.
type SweepResult struct {
	Code        string
	Probability float64
	Trials      int
	Codewords   int

	Decoded       int
	Uncorrectable int
	InvalidText   int
	// Miscorrected counts trials that decoded cleanly to the wrong bytes
	// (three or more errors in one codeword).
	Miscorrected int

	MaskBits          int
	ErrorBits         int
	CorrectedWords    int
	ParityOnlyWords   int
	UncorrectedWords  int
	ErrorDistribution map[int]int
}

// SuccessRate is the fraction of trials whose decode matched the message.
func (r SweepResult) SuccessRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Decoded-r.Miscorrected) / float64(r.Trials)
}

// ActualBER is the observed injected bit-error rate across all trials.
func (r SweepResult) ActualBER() float64 {
	if r.MaskBits == 0 {
		return 0
	}
	return float64(r.ErrorBits) / float64(r.MaskBits)
}

// Sweep runs trials independent randomize-and-decode cycles over msg.
func Sweep(msg []byte, code hamming.Code, injector *noise.Injector, p float64, trials int) (SweepResult, error) {
	if trials <= 0 {
		return SweepResult{}, fmt.Errorf("pipeline: trials must be positive: %d", trials)
	}
	if err := noise.ValidateProbability(p); err != nil {
		return SweepResult{}, err
	}
	if injector == nil {
		injector = noise.NewInjector()
	}

	encoded := hamming.Encode(msg, code)
	res := SweepResult{
		Code:              code.Name(),
		Probability:       p,
		Trials:            trials,
		Codewords:         code.Codewords(len(msg)),
		ErrorDistribution: make(map[int]int),
	}
	for i := 0; i < trials; i++ {
		mask, err := injector.GenerateMask(len(encoded)*8, p)
		if err != nil {
			return SweepResult{}, fmt.Errorf("pipeline: trial %d: %w", i, err)
		}
		st := noise.MaskStats(mask)
		res.MaskBits += st.TotalBits
		res.ErrorBits += st.ErrorBits
		res.ErrorDistribution[st.ErrorBits]++

		corrupted, err := noise.Apply(encoded, mask)
		if err != nil {
			return SweepResult{}, fmt.Errorf("pipeline: trial %d: %w", i, err)
		}
		report, err := hamming.Inspect(corrupted, code)
		if err != nil {
			return SweepResult{}, fmt.Errorf("pipeline: trial %d: %w", i, err)
		}
		res.CorrectedWords += report.Count(hamming.StatusCorrected)
		res.ParityOnlyWords += report.Count(hamming.StatusParityOnly)
		res.UncorrectedWords += report.Count(hamming.StatusUncorrectable)

		out := decodeText(corrupted, code, len(msg))
		switch {
		case out.OK:
			res.Decoded++
			if !bytes.Equal([]byte(out.Text), msg) {
				res.Miscorrected++
			}
		case errors.Is(out.Err, hamming.ErrUncorrectable):
			res.Uncorrectable++
		default:
			res.InvalidText++
		}
	}
	log.Debug().Msgf(
		"pipeline.Sweep code=%s p=%g trials=%d decoded=%d miscorrected=%d",
		res.Code, p, trials, res.Decoded, res.Miscorrected,
	)
	return res, nil
}
