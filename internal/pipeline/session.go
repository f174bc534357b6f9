package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/danmuck/hamming/internal/hamming"
	"github.com/danmuck/hamming/internal/noise"
	"github.com/danmuck/hamming/internal/observability"
	"github.com/rs/zerolog/log"
)

var ErrInvalidText = errors.New("pipeline: decoded bytes are not valid utf-8")

// Trigger names the event that caused a recompute.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerInput
	TriggerRandomize
	TriggerClear
)

func (t Trigger) String() string {
	switch t {
	case TriggerInput:
		return "input"
	case TriggerRandomize:
		return "randomize"
	case TriggerClear:
		return "clear"
	default:
		return "none"
	}
}

// MaskPolicy decides how a mask follows an encoded stream whose length changed.
type MaskPolicy string

const (
	// MaskResize truncates or zero-extends, keeping earlier injected errors.
	MaskResize MaskPolicy = "resize"
	// MaskRegenerate redraws the whole mask at the last randomize probability.
	MaskRegenerate MaskPolicy = "regenerate"
)

func ParseMaskPolicy(raw string) (MaskPolicy, error) {
	switch MaskPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MaskResize:
		return MaskResize, nil
	case MaskRegenerate:
		return MaskRegenerate, nil
	default:
		return "", fmt.Errorf("pipeline: unknown mask policy %q", raw)
	}
}

// Config fixes the code and mask policy for one session.
type Config struct {
	Code   hamming.Code
	Policy MaskPolicy
}

func DefaultConfig() Config {
	return Config{
		Code:   hamming.EH16_11,
		Policy: MaskResize,
	}
}

// Outcome is the decode result shown to the display layer. Err keeps the
// cause for logs only; consumers branch on OK.
type Outcome struct {
	Text string
	OK   bool
	Err  error
}

// Snapshot is the set of artifacts produced by one recompute.
type Snapshot struct {
	Trigger   Trigger
	Message   string
	Encoded   []byte
	Mask      []byte
	Corrupted []byte
	Decoded   Outcome
	Report    hamming.Report
}

// clone detaches the byte slices so callers cannot reach the cached snapshot.
func (s Snapshot) clone() Snapshot {
	s.Encoded = bytes.Clone(s.Encoded)
	s.Mask = bytes.Clone(s.Mask)
	s.Corrupted = bytes.Clone(s.Corrupted)
	s.Report.Statuses = slices.Clone(s.Report.Statuses)
	return s
}

// Session owns one message, one mask and the last computed snapshot.
type Session struct {
	mu sync.Mutex

	code     hamming.Code
	policy   MaskPolicy
	injector *noise.Injector

	message     []byte
	mask        []byte
	probability float64
	randomized  bool

	dirty   bool
	pending Trigger
	last    Snapshot
}

// NewSession builds an idle session. A nil injector is replaced by a
// time-seeded one.
func NewSession(cfg Config, injector *noise.Injector) *Session {
	if injector == nil {
		injector = noise.NewInjector()
	}
	if cfg.Policy == "" {
		cfg.Policy = MaskResize
	}
	if cfg.Code.TotalBits() == 0 {
		cfg.Code = hamming.EH16_11
	}
	s := &Session{
		code:     cfg.Code,
		policy:   cfg.Policy,
		injector: injector,
	}
	s.last = s.recompute(TriggerNone)
	return s
}

func (s *Session) Code() hamming.Code {
	return s.code
}

// SetMessage replaces the message and recomputes.
func (s *Session) SetMessage(text string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = []byte(text)
	s.last = s.recompute(TriggerInput)
	s.dirty = false
	return s.last.clone()
}

// Randomize draws a fresh mask over the current encoded length and recomputes.
func (s *Session) Randomize(p float64) (Snapshot, error) {
	if err := noise.ValidateProbability(p); err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.redrawMask(s.code.EncodedLen(len(s.message)), p); err != nil {
		return Snapshot{}, err
	}
	s.probability = p
	s.randomized = true
	s.last = s.recompute(TriggerRandomize)
	s.dirty = false
	return s.last.clone(), nil
}

// ClearMask drops all injected errors and recomputes.
func (s *Session) ClearMask() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mask = make([]byte, len(s.mask))
	s.randomized = false
	s.last = s.recompute(TriggerClear)
	s.dirty = false
	return s.last.clone()
}

// Touch marks the session for recompute on the next Snapshot call without
// doing the work now.
func (s *Session) Touch(trigger Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
	s.pending = trigger
}

// Snapshot returns the cached artifacts, recomputing only when dirty.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		s.last = s.recompute(s.pending)
		s.dirty = false
	}
	return s.last.clone()
}

func (s *Session) redrawMask(size int, p float64) error {
	mask, err := s.injector.GenerateMask(size*8, p)
	if err != nil {
		return err
	}
	st := noise.MaskStats(mask)
	observability.RecordMask(s.code.Name(), st.TotalBits, st.ErrorBits)
	log.Debug().Msgf(
		"pipeline.Session.redrawMask code=%s bits=%d errors=%d p=%g",
		s.code.Name(), st.TotalBits, st.ErrorBits, p,
	)
	s.mask = mask
	return nil
}

// fitMask brings the mask to size bytes according to the session policy.
func (s *Session) fitMask(size int) {
	if len(s.mask) == size {
		return
	}
	if s.policy == MaskRegenerate && s.randomized {
		if err := s.redrawMask(size, s.probability); err == nil {
			return
		}
	}
	s.mask = noise.ResizeMask(s.mask, size)
}

func (s *Session) recompute(trigger Trigger) Snapshot {
	encoded := hamming.Encode(s.message, s.code)
	s.fitMask(len(encoded))
	corrupted, report, outcome := transmit(encoded, s.mask, s.code, len(s.message))

	snap := Snapshot{
		Trigger:   trigger,
		Message:   string(s.message),
		Encoded:   encoded,
		Mask:      append([]byte(nil), s.mask...),
		Corrupted: corrupted,
		Decoded:   outcome,
		Report:    report,
	}
	s.record(snap)
	return snap
}

func (s *Session) record(snap Snapshot) {
	name := s.code.Name()
	observability.RecordPipelineRun(name, snap.Trigger.String(), outcomeLabel(snap.Decoded))
	for _, st := range []hamming.Status{
		hamming.StatusClean,
		hamming.StatusParityOnly,
		hamming.StatusCorrected,
		hamming.StatusUncorrectable,
	} {
		observability.RecordCodewords(name, st.String(), snap.Report.Count(st))
	}
	if !snap.Decoded.OK {
		log.Debug().Msgf(
			"pipeline.Session.recompute trigger=%s code=%s decode failed: %v",
			snap.Trigger, name, snap.Decoded.Err,
		)
		return
	}
	log.Debug().Msgf(
		"pipeline.Session.recompute trigger=%s code=%s codewords=%d corrected=%d",
		snap.Trigger, name, len(snap.Report.Statuses), snap.Report.Count(hamming.StatusCorrected),
	)
}

// transmit corrupts encoded with mask and decodes size bytes back. Any
// failure along the way lands in the outcome.
func transmit(encoded, mask []byte, code hamming.Code, size int) ([]byte, hamming.Report, Outcome) {
	corrupted, err := noise.Apply(encoded, mask)
	if err != nil {
		return nil, hamming.Report{}, Outcome{Err: err}
	}
	report, err := hamming.Inspect(corrupted, code)
	if err != nil {
		return corrupted, hamming.Report{}, Outcome{Err: err}
	}
	return corrupted, report, decodeText(corrupted, code, size)
}

// decodeText collapses codec and text failures into a single not-OK outcome.
func decodeText(stream []byte, code hamming.Code, size int) Outcome {
	raw, err := hamming.DecodeLen(stream, code, size)
	if err != nil {
		return Outcome{Err: err}
	}
	if !utf8.Valid(raw) {
		return Outcome{Err: ErrInvalidText}
	}
	return Outcome{Text: string(raw), OK: true}
}

func outcomeLabel(o Outcome) string {
	switch {
	case o.OK:
		return "ok"
	case errors.Is(o.Err, hamming.ErrUncorrectable):
		return "uncorrectable"
	case errors.Is(o.Err, ErrInvalidText):
		return "invalid_text"
	default:
		return "error"
	}
}

// ParseProbability reads a probability typed by the user.
func ParseProbability(raw string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", noise.ErrInvalidProbability, raw)
	}
	if err := noise.ValidateProbability(p); err != nil {
		return 0, err
	}
	return p, nil
}
