package animation

import "math/rand"

// Frame rule constants.
const (
	RainbowStep        = 5.0 // degrees per frame
	PulseStep          = 5
	DropChance         = 20 // one in DropChance per pixel per frame
	DropLength         = 6
	DefaultStrobeOnMs  = 50
	DefaultStrobeOffMs = 450
)

// fireTiers are brightness levels applied to the base colour, brightest first.
var fireTiers = [...]uint8{255, 200, 150, 100, 60}

// RainbowPhase tracks the hue offset in degrees.
type RainbowPhase struct {
	Hue float64
}

// PulsePhase tracks the oscillating brightness.
type PulsePhase struct {
	Level  uint8
	Rising bool
}

// ChasePhase tracks the lit head.
type ChasePhase struct {
	Position int
}

// StrobePhase tracks whether the strip is currently lit.
type StrobePhase struct {
	On bool
}

// RaindropPhase holds one countdown per pixel.
type RaindropPhase struct {
	Drops []int
}

// Phases is the phase store: one record per kind. It lives only in memory.
type Phases struct {
	Rainbow  RainbowPhase
	Pulse    PulsePhase
	Chase    ChasePhase
	Strobe   StrobePhase
	Raindrop RaindropPhase

	n   int
	rng *rand.Rand
}

// NewPhases creates a phase store for a strip of n pixels. The seed drives
// Raindrop and Fireplace.
func NewPhases(n int, seed int64) *Phases {
	p := &Phases{
		n:   n,
		rng: rand.New(rand.NewSource(seed)),
	}
	for k := range kindNames {
		p.Reset(k)
	}
	return p
}

// Reset restores the record for k to its initial values.
func (p *Phases) Reset(k Kind) {
	switch k {
	case Rainbow:
		p.Rainbow = RainbowPhase{}
	case Pulse:
		p.Pulse = PulsePhase{Level: 0, Rising: true}
	case Chase:
		p.Chase = ChasePhase{}
	case Strobe:
		p.Strobe = StrobePhase{}
	case Raindrop:
		p.Raindrop = RaindropPhase{Drops: make([]int, p.n)}
	}
}

// Len returns the strip length the store was built for.
func (p *Phases) Len() int {
	return p.n
}
