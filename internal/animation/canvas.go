package animation

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sync"
)

// Canvas is an in-memory Surface. Shapes drawn since the last Clear are kept
// in a back buffer; Present swaps it to the front, so readers never observe a
// half-drawn frame.
type Canvas struct {
	width, height float64

	mu       sync.RWMutex
	attached bool
	back     []Shape
	front    []Shape
	frameNo  uint64
}

// NewCanvas returns a detached canvas of the given size.
func NewCanvas(width, height float64) *Canvas {
	return &Canvas{width: width, height: height}
}

// Attach makes the canvas ready for drawing.
func (c *Canvas) Attach() {
	c.mu.Lock()
	c.attached = true
	c.mu.Unlock()
}

// Detach makes the canvas unready; frame loops skip it until re-attached.
func (c *Canvas) Detach() {
	c.mu.Lock()
	c.attached = false
	c.mu.Unlock()
}

func (c *Canvas) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attached
}

func (c *Canvas) Bounds() (float64, float64) { return c.width, c.height }

func (c *Canvas) Clear() {
	c.mu.Lock()
	c.back = c.back[:0]
	c.mu.Unlock()
}

func (c *Canvas) Draw(s Shape) {
	c.mu.Lock()
	c.back = append(c.back, s)
	c.mu.Unlock()
}

func (c *Canvas) Present() {
	c.mu.Lock()
	c.front, c.back = c.back, c.front[:0]
	c.frameNo++
	c.mu.Unlock()
}

// Frame returns a copy of the last presented frame and its sequence number.
// The number is zero until the first frame is presented.
func (c *Canvas) Frame() ([]Shape, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Shape, len(c.front))
	copy(out, c.front)
	return out, c.frameNo
}

// WriteSVG renders the last presented frame as a standalone SVG document.
func (c *Canvas) WriteSVG(w io.Writer, background string) error {
	shapes, _ := c.Frame()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(c.width), num(c.height), num(c.width), num(c.height))
	bw.WriteByte('\n')
	if background != "" {
		fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="%s"/>`, background)
		bw.WriteByte('\n')
	}
	for _, s := range shapes {
		writeShape(bw, s)
		bw.WriteByte('\n')
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writeShape(w *bufio.Writer, s Shape) {
	switch s.Kind {
	case ShapeRect:
		fmt.Fprintf(w, `<rect x="%s" y="%s" width="%s" height="%s"`,
			num(s.X-s.Width/2), num(s.Y-s.Height/2), num(s.Width), num(s.Height))
	default:
		fmt.Fprintf(w, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"`,
			num(s.X), num(s.Y), num(s.Width/2), num(s.Height/2))
	}
	if s.Fill != "" {
		fmt.Fprintf(w, ` fill="%s"`, s.Fill)
	} else {
		w.WriteString(` fill="none"`)
	}
	if s.Stroke != "" {
		fmt.Fprintf(w, ` stroke="%s" stroke-width="2"`, s.Stroke)
	}
	if s.Opacity > 0 && s.Opacity < 1 {
		fmt.Fprintf(w, ` opacity="%s"`, num(s.Opacity))
	}
	if s.Rotation != 0 {
		fmt.Fprintf(w, ` transform="rotate(%s %s %s)"`,
			num(s.Rotation*180/math.Pi), num(s.X), num(s.Y))
	}
	w.WriteString("/>")
}

// num formats with two decimals and no trailing zeros.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := fmt.Sprintf("%.2f", v)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
