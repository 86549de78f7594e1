package animation

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/couchcryptid/bloomwatch/internal/domain"
)

const (
	pxPerUnit      = 4.0 // stage size units to pixels
	discDiameter   = 80.0
	playingScale   = 1.1
	bloomPetals    = 6
	colorEasing    = 0.15
	ringPeriodSecs = 1.0
)

// StateSource exposes the cycle state a renderer draws.
type StateSource interface {
	State() State
}

// BloomRenderer draws the current stage of a bloom cycle. Size changes are
// eased with a damped spring and the colour is blended towards the stage
// colour, so a stage change animates over several frames.
type BloomRenderer struct {
	src    StateSource
	spring harmonica.Spring

	started  bool
	size     float64
	velocity float64
	color    colorful.Color
}

// NewBloomRenderer creates a renderer stepping its spring once per frame
// interval.
func NewBloomRenderer(src StateSource, frameInterval time.Duration) *BloomRenderer {
	if frameInterval <= 0 {
		frameInterval = time.Second / 60
	}
	return &BloomRenderer{
		src:    src,
		spring: harmonica.NewSpring(frameInterval.Seconds(), 6.0, 0.5),
	}
}

// Render is called from a single frame loop and is not safe for concurrent use.
func (r *BloomRenderer) Render(s Surface, t float64) {
	st := r.src.State()
	info := st.Stage.Info()
	target := info.Size * pxPerUnit
	targetColor := hexColor(info.Color)

	if !r.started {
		r.size, r.color, r.started = target, targetColor, true
	}
	r.size, r.velocity = r.spring.Update(r.size, r.velocity, target)
	r.color = r.color.BlendLab(targetColor, colorEasing).Clamped()

	w, h := s.Bounds()
	cx, cy := w/2, h/2-10

	s.Draw(Shape{Kind: ShapeEllipse, X: cx, Y: cy, Width: discDiameter, Height: discDiameter, Fill: "#dcfce7", Opacity: 0.3})

	scale := 1.0
	if st.IsPlaying {
		scale = playingScale
	}
	// Pulse between full and 90% opacity once per second.
	pulse := 0.95 + 0.05*math.Sin(2*math.Pi*t)
	d := math.Max(r.size, 0) * scale

	if st.Stage == domain.StageBloom {
		for i := range bloomPetals {
			a := PetalAngle(i, bloomPetals, t)
			s.Draw(Shape{
				Kind:     ShapeEllipse,
				X:        cx + math.Cos(a)*d*0.6,
				Y:        cy + math.Sin(a)*d*0.6,
				Width:    d * 0.5,
				Height:   d * 0.25,
				Rotation: a,
				Fill:     r.color.Hex(),
				Opacity:  0.8,
			})
		}
	}
	body := Circle(cx, cy, d/2, r.color.Hex())
	body.Opacity = pulse
	s.Draw(body)

	for _, ring := range []struct {
		diameter, opacity, offset float64
		stroke                    string
	}{
		{80, 0.2, 0, "#86efac"},
		{64, 0.3, 0.5, "#4ade80"},
	} {
		p := math.Mod(t/ringPeriodSecs+ring.offset, 1)
		grow := ring.diameter * (1 + p)
		s.Draw(Shape{
			Kind: ShapeEllipse, X: cx, Y: cy, Width: grow, Height: grow,
			Stroke: ring.stroke, Opacity: ring.opacity * (1 - p),
		})
	}

	// Progress bar and one indicator per stage.
	barW := w * 0.8
	s.Draw(Shape{Kind: ShapeRect, X: w / 2, Y: h - 24, Width: barW, Height: 6, Fill: "#e5e7eb"})
	done := barW * float64(st.Index+1) / float64(domain.StageCount)
	s.Draw(Shape{Kind: ShapeRect, X: w/2 - barW/2 + done/2, Y: h - 24, Width: done, Height: 6, Fill: progressColor(st.Index)})

	for i, stage := range domain.Stages() {
		x := w/2 - barW/2 + barW*(float64(i)+0.5)/float64(domain.StageCount)
		fill := "#d1d5db"
		if i <= st.Index {
			fill = stage.Color
		}
		s.Draw(Circle(x, h-10, 4, fill))
	}
}

// PetalAngle is the angle of petal i of count at time t, in radians.
func PetalAngle(i, count int, t float64) float64 {
	return float64(i)*2*math.Pi/float64(count) + t
}

// progressColor walks from green to pink as the cycle progresses.
func progressColor(index int) string {
	from, to := hexColor("#4ade80"), hexColor("#f472b6")
	f := float64(index) / float64(domain.StageCount-1)
	return from.BlendHcl(to, f).Clamped().Hex()
}

func hexColor(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}
