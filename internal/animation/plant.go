package animation

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	plantLeaves = 6
	plantPetals = 8
)

// PlantRenderer draws the rotating plant of the viewer: a stem, six
// orbiting leaves, a pulsing flower head and eight petals cycling through
// magenta hues. It is stateless.
type PlantRenderer struct{}

func (PlantRenderer) Render(s Surface, t float64) {
	w, h := s.Bounds()
	cx, cy := w/2, h/2

	s.Draw(Shape{Kind: ShapeRect, X: cx, Y: cy + 100, Width: 10, Height: 100, Fill: "#8B4513"})

	for i := range plantLeaves {
		a := float64(i)*2*math.Pi/plantLeaves + t*0.5
		s.Draw(Shape{
			Kind:     ShapeEllipse,
			X:        cx + math.Cos(a)*40,
			Y:        cy + math.Sin(a)*40,
			Width:    30,
			Height:   16,
			Rotation: a,
			Fill:     "#228B22",
		})
	}

	s.Draw(Circle(cx, cy-20, FlowerRadius(t), "#FF69B4"))

	for i := range plantPetals {
		a := PetalAngle(i, plantPetals, t)
		s.Draw(Shape{
			Kind:     ShapeEllipse,
			X:        cx + math.Cos(a)*30,
			Y:        cy - 20 + math.Sin(a)*30,
			Width:    24,
			Height:   40,
			Rotation: a,
			Fill:     PetalColor(i, t),
		})
	}
}

// FlowerRadius is the flower head radius at time t; it pulses between 20 and 30.
func FlowerRadius(t float64) float64 {
	return 25 + math.Sin(2*t)*5
}

// PetalColor is the hex colour of petal i at time t.
func PetalColor(i int, t float64) string {
	hue := 300 + math.Sin(t+float64(i))*30
	return colorful.Hsl(hue, 0.7, 0.6).Clamped().Hex()
}
