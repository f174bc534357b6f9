package pipeline

import (
	"testing"

	"github.com/danmuck/hamming/internal/hamming"
	"github.com/danmuck/hamming/internal/noise"
	"github.com/danmuck/hamming/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, policy MaskPolicy) *Session {
	t.Helper()
	testlog.Start(t)
	return NewSession(Config{Code: hamming.EH16_11, Policy: policy}, noise.NewInjectorWithSeed(11))
}

func TestEmptySessionSnapshot(t *testing.T) {
	s := newTestSession(t, MaskResize)
	snap := s.Snapshot()
	assert.Empty(t, snap.Encoded)
	assert.Empty(t, snap.Mask)
	assert.True(t, snap.Decoded.OK)
	assert.Equal(t, "", snap.Decoded.Text)
}

func TestSetMessageRoundTripWithZeroMask(t *testing.T) {
	s := newTestSession(t, MaskResize)
	snap := s.SetMessage("Hello, Hamming")

	assert.Equal(t, TriggerInput, snap.Trigger)
	assert.Equal(t, hamming.EH16_11.EncodedLen(14), len(snap.Encoded))
	assert.Len(t, snap.Mask, len(snap.Encoded))
	assert.Equal(t, snap.Encoded, snap.Corrupted)
	require.True(t, snap.Decoded.OK)
	assert.Equal(t, "Hello, Hamming", snap.Decoded.Text)
	assert.Equal(t, len(snap.Report.Statuses), snap.Report.Count(hamming.StatusClean))
}

func TestRandomizeFullProbabilityInvertsStream(t *testing.T) {
	s := newTestSession(t, MaskResize)
	s.SetMessage("A")

	snap, err := s.Randomize(1)
	require.NoError(t, err)
	assert.Equal(t, TriggerRandomize, snap.Trigger)
	assert.Equal(t, []byte{0xff, 0xff}, snap.Mask)
	for i := range snap.Encoded {
		assert.Equal(t, snap.Encoded[i]^0xff, snap.Corrupted[i])
	}
	// Inverting a whole (16,11) codeword leaves syndrome and overall parity
	// intact, so it decodes cleanly to ^0x41 = 0xbe, a lone continuation byte.
	assert.Equal(t, 1, snap.Report.Count(hamming.StatusClean))
	assert.False(t, snap.Decoded.OK)
	assert.ErrorIs(t, snap.Decoded.Err, ErrInvalidText)
}

func TestRandomizeRejectsInvalidProbability(t *testing.T) {
	s := newTestSession(t, MaskResize)
	s.SetMessage("A")
	_, err := s.Randomize(1.5)
	assert.ErrorIs(t, err, noise.ErrInvalidProbability)
	assert.Equal(t, TriggerInput, s.Snapshot().Trigger)
}

func TestSingleMaskBitIsCorrected(t *testing.T) {
	s := newTestSession(t, MaskResize)
	s.SetMessage("A")
	s.mu.Lock()
	s.mask[0] = 1 << 5
	s.mu.Unlock()
	s.Touch(TriggerRandomize)

	snap := s.Snapshot()
	require.True(t, snap.Decoded.OK)
	assert.Equal(t, "A", snap.Decoded.Text)
	assert.Equal(t, 1, snap.Report.Count(hamming.StatusCorrected))
}

func TestDoubleMaskBitCollapsesToFailure(t *testing.T) {
	s := newTestSession(t, MaskResize)
	s.SetMessage("A")
	s.mu.Lock()
	s.mask[0] = 1<<5 | 1<<2
	s.mu.Unlock()
	s.Touch(TriggerRandomize)

	snap := s.Snapshot()
	assert.False(t, snap.Decoded.OK)
	assert.ErrorIs(t, snap.Decoded.Err, hamming.ErrUncorrectable)
	assert.Empty(t, snap.Decoded.Text)
}

func TestInvalidTextCollapsesToFailure(t *testing.T) {
	s := newTestSession(t, MaskResize)
	s.SetMessage("A")

	// Steer the codeword to a clean encoding of 0xc1, never valid utf-8.
	cw := hamming.EH16_11.EncodeWord(0xc1)
	want := hamming.PackCodewords([]uint64{cw}, hamming.EH16_11)
	snap := s.Snapshot()
	s.mu.Lock()
	s.mask[0] = snap.Encoded[0] ^ want[0]
	s.mask[1] = snap.Encoded[1] ^ want[1]
	s.mu.Unlock()
	s.Touch(TriggerRandomize)

	snap = s.Snapshot()
	assert.False(t, snap.Decoded.OK)
	assert.ErrorIs(t, snap.Decoded.Err, ErrInvalidText)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	s := newTestSession(t, MaskResize)
	s.SetMessage("idempotent")
	_, err := s.Randomize(0.05)
	require.NoError(t, err)

	first := s.SetMessage("idempotent")
	second := s.SetMessage("idempotent")
	s.Touch(TriggerInput)
	third := s.Snapshot()

	assert.Equal(t, first.Encoded, second.Encoded)
	assert.Equal(t, first.Mask, second.Mask)
	assert.Equal(t, first.Corrupted, second.Corrupted)
	assert.Equal(t, first.Decoded, second.Decoded)
	assert.Equal(t, second.Mask, third.Mask)
	assert.Equal(t, second.Corrupted, third.Corrupted)
}

func TestSnapshotsDoNotShareBuffers(t *testing.T) {
	s := newTestSession(t, MaskResize)
	first := s.SetMessage("A")
	want := s.Snapshot()

	for _, snap := range []Snapshot{first, s.Snapshot()} {
		snap.Encoded[0] ^= 0xff
		snap.Mask[0] ^= 0xff
		snap.Corrupted[0] ^= 0xff
		snap.Report.Statuses[0] = hamming.StatusUncorrectable
	}

	got := s.Snapshot()
	assert.Equal(t, want.Encoded, got.Encoded)
	assert.Equal(t, want.Mask, got.Mask)
	assert.Equal(t, want.Corrupted, got.Corrupted)
	assert.Equal(t, want.Report, got.Report)
	assert.Equal(t, []byte{0x09, 0x09}, got.Encoded)
}

func TestTransmitReportsMisalignedStream(t *testing.T) {
	corrupted, report, outcome := transmit([]byte{0x09, 0x09, 0x09}, make([]byte, 3), hamming.EH16_11, 1)
	assert.Equal(t, []byte{0x09, 0x09, 0x09}, corrupted)
	assert.Empty(t, report.Statuses)
	assert.False(t, outcome.OK)
	assert.ErrorIs(t, outcome.Err, hamming.ErrMisaligned)
}

func TestTransmitReportsMaskMismatch(t *testing.T) {
	corrupted, _, outcome := transmit([]byte{0x09, 0x09}, []byte{0x00}, hamming.EH16_11, 1)
	assert.Nil(t, corrupted)
	assert.False(t, outcome.OK)
	assert.ErrorIs(t, outcome.Err, noise.ErrLengthMismatch)
}

func TestResizePolicyKeepsMaskPrefix(t *testing.T) {
	s := newTestSession(t, MaskResize)
	s.SetMessage("a longer message")
	snap, err := s.Randomize(0.2)
	require.NoError(t, err)
	mask := snap.Mask

	grown := s.SetMessage("a longer message, extended")
	require.Greater(t, len(grown.Mask), len(mask))
	assert.Equal(t, mask, grown.Mask[:len(mask)])
	for _, b := range grown.Mask[len(mask):] {
		assert.Zero(t, b)
	}

	shrunk := s.SetMessage("a")
	assert.Equal(t, mask[:len(shrunk.Mask)], shrunk.Mask)
}

func TestRegeneratePolicyRedrawsOnLengthChange(t *testing.T) {
	s := newTestSession(t, MaskRegenerate)
	s.SetMessage("abc")
	_, err := s.Randomize(1)
	require.NoError(t, err)

	snap := s.SetMessage("abcdefgh")
	for _, b := range snap.Mask {
		assert.Equal(t, byte(0xff), b)
	}

	same := s.SetMessage("hgfedcba")
	assert.Equal(t, snap.Mask, same.Mask)
}

func TestRegeneratePolicyBeforeRandomizeZeroExtends(t *testing.T) {
	s := newTestSession(t, MaskRegenerate)
	snap := s.SetMessage("abc")
	for _, b := range snap.Mask {
		assert.Zero(t, b)
	}
}

func TestClearMask(t *testing.T) {
	s := newTestSession(t, MaskResize)
	s.SetMessage("clear me")
	_, err := s.Randomize(0.5)
	require.NoError(t, err)

	snap := s.ClearMask()
	assert.Equal(t, TriggerClear, snap.Trigger)
	assert.Equal(t, snap.Encoded, snap.Corrupted)
	require.True(t, snap.Decoded.OK)
	assert.Equal(t, "clear me", snap.Decoded.Text)
}

func TestParseMaskPolicy(t *testing.T) {
	p, err := ParseMaskPolicy("")
	require.NoError(t, err)
	assert.Equal(t, MaskResize, p)
	p, err = ParseMaskPolicy(" Regenerate ")
	require.NoError(t, err)
	assert.Equal(t, MaskRegenerate, p)
	_, err = ParseMaskPolicy("shuffle")
	assert.Error(t, err)
}

func TestParseProbability(t *testing.T) {
	p, err := ParseProbability(" 0.25 ")
	require.NoError(t, err)
	assert.Equal(t, 0.25, p)

	for _, raw := range []string{"", "abc", "-0.1", "1.01", "NaN"} {
		_, err := ParseProbability(raw)
		assert.ErrorIs(t, err, noise.ErrInvalidProbability, "raw=%q", raw)
	}
}
