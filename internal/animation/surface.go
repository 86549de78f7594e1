package animation

// ShapeKind selects how a Shape is painted.
type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeEllipse ShapeKind = "ellipse"
)

// Shape is one drawing primitive. X and Y locate the centre; Width and Height
// are full extents; Rotation is in radians about the centre. A shape with an
// empty Fill and a Stroke colour is drawn as an outline.
type Shape struct {
	Kind     ShapeKind `json:"kind"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Rotation float64   `json:"rotation,omitempty"`
	Fill     string    `json:"fill,omitempty"`
	Stroke   string    `json:"stroke,omitempty"`
	Opacity  float64   `json:"opacity,omitempty"`
}

// Circle returns a filled circle of radius r.
func Circle(x, y, r float64, fill string) Shape {
	return Shape{Kind: ShapeEllipse, X: x, Y: y, Width: 2 * r, Height: 2 * r, Fill: fill}
}

// Surface is the drawing target of a frame loop.
type Surface interface {
	// Ready reports whether the surface can be drawn on. Frames are skipped
	// while it returns false.
	Ready() bool
	Bounds() (width, height float64)
	Clear()
	Draw(Shape)
}

// Presenter is implemented by surfaces that buffer a frame until it is
// complete.
type Presenter interface {
	Present()
}

// Renderer paints one frame at time t, in seconds.
type Renderer interface {
	Render(s Surface, t float64)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(s Surface, t float64)

func (f RendererFunc) Render(s Surface, t float64) { f(s, t) }
