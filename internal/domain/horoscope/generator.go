package horoscope

import "unicode/utf16"

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
	weylIncrement  uint32 = 0x6D2B79F5
	twoPow32              = 4294967296.0
)

// generator is a seeded mulberry32 stream. The seed is folded FNV-1a style over
// UTF-16 code units so that stored outputs stay reproducible for any sign name.
type generator struct {
	state uint32
}

func newGenerator(seed string) *generator {
	h := fnvOffsetBasis
	for _, unit := range utf16.Encode([]rune(seed)) {
		h = (h ^ uint32(unit)) * fnvPrime
	}
	return &generator{state: h}
}

// next returns the following value in [0,1).
func (g *generator) next() float64 {
	g.state += weylIncrement
	s := g.state
	t := (s ^ (s >> 15)) * (1 | s)
	t = (t + (t^(t>>7))*(61|t)) ^ t
	return float64(t^(t>>14)) / twoPow32
}

// pick draws one element from pool, consuming exactly one value.
func pick(g *generator, pool []string) (int, string) {
	idx := pickIndex(g.next(), len(pool))
	return idx, pool[idx]
}

// pickIndex scales r in [0,1) onto n slots, clamping r == 1.
func pickIndex(r float64, n int) int {
	idx := int(r * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
