package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// Stream is a single deterministic pseudo-random sequence.
// Methods are the primitives every generation component is allowed to call;
// implementations must never reach for math/rand directly so that the
// ordering guarantees of spec §5 hold.
type Stream struct {
	seed   uint64
	source *rand.Rand
}

// NewStream derives a stage-specific stream from a master seed using
// H(masterSeed, label, configHash), matching the derivation scheme used to
// isolate pipeline stages from one another.
func NewStream(masterSeed uint64, label string, configHash []byte) *Stream {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(label))
	h.Write(configHash)
	sum := h.Sum(nil)
	derived := binary.BigEndian.Uint64(sum[:8])

	return &Stream{
		seed:   derived,
		source: rand.New(rand.NewSource(int64(derived))), //nolint:gosec // deterministic generation, not security-sensitive
	}
}

// Seed returns the derived seed, useful for debugging which sequence a
// stage consumed.
func (s *Stream) Seed() uint64 { return s.seed }

// RandRange returns a uniform integer in [lo, hi], inclusive on both ends.
func (s *Stream) RandRange(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return lo + s.source.Intn(hi-lo+1)
}

// RandPercent returns true with probability p/100. p is clamped to [0,100].
func (s *Stream) RandPercent(p int) bool {
	if p <= 0 {
		return false
	}
	if p >= 100 {
		return true
	}
	return s.source.Intn(100) < p
}

// ClumpParams configures RandClump.
type ClumpParams struct {
	Lo, Hi      int
	ClumpFactor int
}

// RandClump returns the sum of ClumpFactor uniform draws in
// [lo/clumpFactor, hi/clumpFactor], which approximates a normal
// distribution centered between lo and hi while staying integer and
// deterministic. ClumpFactor <= 1 degenerates to a single RandRange draw.
func (s *Stream) RandClump(p ClumpParams) int {
	cf := p.ClumpFactor
	if cf < 1 {
		cf = 1
	}
	lo := p.Lo / cf
	hi := p.Hi / cf
	if hi < lo {
		hi = lo
	}
	total := 0
	for i := 0; i < cf; i++ {
		total += s.RandRange(lo, hi)
	}
	return total
}

// ShuffleList performs an in-place Fisher-Yates shuffle.
func (s *Stream) ShuffleList(n int, swap func(i, j int)) {
	s.source.Shuffle(n, swap)
}

// FillSequentialList fills out with 0..len(out)-1 and shuffles it, giving a
// random permutation of indices. Used wherever the spec asks for a
// "shuffled sequential list" (bridge row/column order, machine origin
// candidates).
func (s *Stream) FillSequentialList(out []int) {
	for i := range out {
		out[i] = i
	}
	s.ShuffleList(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
}

// WeightedChoice selects an index proportionally to weights. Returns -1 if
// weights is empty or sums to zero.
func (s *Stream) WeightedChoice(weights []int) int {
	total := 0
	for _, w := range weights {
		if w < 0 {
			panic("rng: WeightedChoice weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return -1
	}
	roll := s.source.Intn(total)
	cum := 0
	for i, w := range weights {
		cum += w
		if roll < cum {
			return i
		}
	}
	return len(weights) - 1
}

// Bool returns a fair coin flip, used for the diagonal-opening tiebreak
// (spec §9 Open Question).
func (s *Stream) Bool() bool {
	return s.source.Intn(2) == 1
}

// Streams bundles the two independent sequences a level generation pass
// consults: Substantive for anything that affects grid layout or pipeline
// control flow, Cosmetic for flavor-only choices that must never perturb
// the substantive sequence.
type Streams struct {
	Substantive *Stream
	Cosmetic    *Stream
}

// NewStreams derives both streams for one level generation from a single
// master seed and a depth index, which together make generation
// reproducible: same seed and depth always yields the same level.
func NewStreams(masterSeed uint64, depth int, configHash []byte) Streams {
	var depthBuf [8]byte
	binary.BigEndian.PutUint64(depthBuf[:], uint64(depth))
	label := append([]byte("depth:"), depthBuf[:]...)
	return Streams{
		Substantive: NewStream(masterSeed, "substantive|"+string(label), configHash),
		Cosmetic:    NewStream(masterSeed, "cosmetic|"+string(label), configHash),
	}
}
