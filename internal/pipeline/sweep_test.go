package pipeline

import (
	"testing"

	"github.com/danmuck/hamming/internal/hamming"
	"github.com/danmuck/hamming/internal/noise"
	"github.com/danmuck/hamming/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepZeroProbabilityAlwaysDecodes(t *testing.T) {
	testlog.Start(t)
	res, err := Sweep([]byte("sweep"), hamming.EH16_11, noise.NewInjectorWithSeed(5), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Decoded)
	assert.Zero(t, res.ErrorBits)
	assert.Equal(t, 1.0, res.SuccessRate())
	assert.Equal(t, 20, res.ErrorDistribution[0])
}

func TestSweepCountsAddUp(t *testing.T) {
	testlog.Start(t)
	msg := []byte("the quick brown fox")
	res, err := Sweep(msg, hamming.EH16_11, noise.NewInjectorWithSeed(8), 0.03, 300)
	require.NoError(t, err)

	assert.Equal(t, 300, res.Decoded+res.Uncorrectable+res.InvalidText)
	assert.Equal(t, hamming.EH16_11.EncodedLen(len(msg))*8*300, res.MaskBits)
	assert.InDelta(t, 0.03, res.ActualBER(), 0.01)
	assert.Positive(t, res.CorrectedWords)
	assert.Positive(t, res.Uncorrectable)

	trials := 0
	for _, n := range res.ErrorDistribution {
		trials += n
	}
	assert.Equal(t, 300, trials)
}

func TestSweepRejectsBadInput(t *testing.T) {
	_, err := Sweep([]byte("x"), hamming.EH16_11, nil, 0.1, 0)
	assert.Error(t, err)
	_, err = Sweep([]byte("x"), hamming.EH16_11, nil, 2, 1)
	assert.ErrorIs(t, err, noise.ErrInvalidProbability)
}
