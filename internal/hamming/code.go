package hamming

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	minTotalBits = 8
	maxTotalBits = 64
)

// Code describes one extended Hamming variant. Values are immutable once built.
type Code struct {
	name      string
	dataBits  uint32
	totalBits uint32
	mask      uint64
	// cover[k] selects every position whose index has bit k set; parity bit 2^k
	// is the XOR of those positions.
	cover []uint64
	// dataPos lists codeword positions that carry data bits, ascending.
	dataPos []uint8
}

var (
	EH8_4   = mustCode("eh8_4", 4, 8)
	EH16_11 = mustCode("eh16_11", 11, 16)
	EH32_26 = mustCode("eh32_26", 26, 32)
	EH64_57 = mustCode("eh64_57", 57, 64)
)

var registry = []Code{EH8_4, EH16_11, EH32_26, EH64_57}

// NewCode builds an extended Hamming code with dataBits payload bits per
// totalBits codeword. totalBits must be a power of two in [8, 64] and
// dataBits must equal totalBits - log2(totalBits) - 1.
func NewCode(dataBits, totalBits uint32) (Code, error) {
	return newCode(fmt.Sprintf("eh%d_%d", totalBits, dataBits), dataBits, totalBits)
}

func newCode(name string, dataBits, totalBits uint32) (Code, error) {
	if totalBits < minTotalBits || totalBits > maxTotalBits || bits.OnesCount32(totalBits) != 1 {
		return Code{}, fmt.Errorf("%w: total_bits=%d", ErrInvalidCode, totalBits)
	}
	r := uint32(bits.TrailingZeros32(totalBits))
	if dataBits != totalBits-r-1 {
		return Code{}, fmt.Errorf("%w: data_bits=%d total_bits=%d want data_bits=%d",
			ErrInvalidCode, dataBits, totalBits, totalBits-r-1)
	}

	c := Code{
		name:      name,
		dataBits:  dataBits,
		totalBits: totalBits,
		mask:      ^uint64(0) >> (64 - totalBits),
		cover:     make([]uint64, r),
		dataPos:   make([]uint8, 0, dataBits),
	}
	for p := uint32(1); p < totalBits; p++ {
		for k := range c.cover {
			if p&(1<<k) != 0 {
				c.cover[k] |= 1 << p
			}
		}
		if p&(p-1) != 0 {
			c.dataPos = append(c.dataPos, uint8(p))
		}
	}
	return c, nil
}

func mustCode(name string, dataBits, totalBits uint32) Code {
	c, err := newCode(name, dataBits, totalBits)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup resolves a preset code by name, e.g. "eh16_11".
func Lookup(name string) (Code, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, c := range registry {
		if c.name == key {
			return c, nil
		}
	}
	return Code{}, fmt.Errorf("%w: %q", ErrUnknownCode, name)
}

// Codes returns the preset codes, smallest first.
func Codes() []Code {
	out := make([]Code, len(registry))
	copy(out, registry)
	return out
}

func (c Code) Name() string      { return c.name }
func (c Code) DataBits() uint32  { return c.dataBits }
func (c Code) TotalBits() uint32 { return c.totalBits }

// ParityBits counts the syndrome parity bits plus the overall parity bit.
func (c Code) ParityBits() uint32 { return uint32(len(c.cover)) + 1 }

// CodewordBytes is the serialized width of one codeword.
func (c Code) CodewordBytes() int { return int(c.totalBits / 8) }

// Codewords returns how many codewords a message of size bytes encodes to.
func (c Code) Codewords(size int) int {
	if size <= 0 || c.dataBits == 0 {
		return 0
	}
	d := int(c.dataBits)
	return (size*8 + d - 1) / d
}

// EncodedLen returns the stream length in bytes for a message of size bytes.
func (c Code) EncodedLen(size int) int {
	return c.Codewords(size) * c.CodewordBytes()
}

func (c Code) String() string {
	return fmt.Sprintf("%s(%d,%d)", c.name, c.totalBits, c.dataBits)
}

// syndrome XOR-reduces each parity group, including the parity bit itself.
func (c Code) syndrome(cw uint64) uint32 {
	var s uint32
	for k, m := range c.cover {
		s |= uint32(bits.OnesCount64(cw&m)&1) << k
	}
	return s
}
