package animation

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dokzlo13/stripd/internal/pixel"
)

// Advance renders one frame of kind k into buf and steps its phase.
// Returns false for None or an unknown kind, leaving buf untouched.
func (p *Phases) Advance(k Kind, buf *pixel.Buffer, base pixel.Color) bool {
	switch k {
	case Rainbow:
		p.rainbow(buf, base)
	case Pulse:
		p.pulse(buf, base)
	case Chase:
		p.chase(buf, base)
	case Strobe:
		p.strobe(buf, base)
	case Raindrop:
		p.raindrop(buf, base)
	case Fireplace:
		p.fireplace(buf, base)
	default:
		return false
	}
	return true
}

func (p *Phases) rainbow(buf *pixel.Buffer, base pixel.Color) {
	n := buf.Len()
	if n == 0 {
		return
	}
	value := rainbowValue(base)
	spread := 360.0 / float64(n)
	for i := 0; i < n; i++ {
		hue := math.Mod(p.Rainbow.Hue+float64(i)*spread, 360)
		r, g, b := colorful.Hsv(hue, 1, value).Clamped().RGB255()
		buf.Set(i, pixel.Color{R: r, G: g, B: b})
	}
	p.Rainbow.Hue = math.Mod(p.Rainbow.Hue+RainbowStep, 360)
}

// rainbowValue derives the HSV value from the perceived lightness of base.
// A black base renders at full value so the rainbow stays visible.
func rainbowValue(base pixel.Color) float64 {
	if base.IsBlack() {
		return 1
	}
	c := colorful.Color{R: float64(base.R) / 255, G: float64(base.G) / 255, B: float64(base.B) / 255}
	l, _, _ := c.Lab()
	return math.Max(0, math.Min(1, l))
}

func (p *Phases) pulse(buf *pixel.Buffer, base pixel.Color) {
	buf.Fill(base.Scale(p.Pulse.Level))

	level := int(p.Pulse.Level)
	if p.Pulse.Rising {
		level += PulseStep
		if level >= 255 {
			level = 255
			p.Pulse.Rising = false
		}
	} else {
		level -= PulseStep
		if level <= 0 {
			level = 0
			p.Pulse.Rising = true
		}
	}
	p.Pulse.Level = uint8(level)
}

func (p *Phases) chase(buf *pixel.Buffer, base pixel.Color) {
	n := buf.Len()
	if n == 0 {
		return
	}
	buf.Clear()
	buf.Set(p.Chase.Position, base)
	p.Chase.Position = (p.Chase.Position + 1) % n
}

func (p *Phases) strobe(buf *pixel.Buffer, base pixel.Color) {
	p.Strobe.On = !p.Strobe.On
	if p.Strobe.On {
		buf.Fill(base)
	} else {
		buf.Clear()
	}
}

func (p *Phases) raindrop(buf *pixel.Buffer, base pixel.Color) {
	drops := p.Raindrop.Drops
	for i := 0; i < buf.Len() && i < len(drops); i++ {
		if drops[i] == 0 && p.rng.Intn(DropChance) == 0 {
			drops[i] = DropLength
		}
		if drops[i] > 0 {
			buf.Set(i, base)
			drops[i]--
		} else {
			buf.Set(i, pixel.Black)
		}
	}
}

// fireplace picks a tier per pixel every frame. Pixels near index 0 draw only
// from the brighter tiers.
func (p *Phases) fireplace(buf *pixel.Buffer, base pixel.Color) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		span := 3 + (i*(len(fireTiers)-2))/n
		buf.Set(i, base.Scale(fireTiers[p.rng.Intn(span)]))
	}
}
