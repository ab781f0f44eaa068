package synth

// Canvas is a row-major grid of float64 pixel intensities.
// Pixel (x, y) lives at Pix[y*Width+x]; the shape is (Height, Width).
type Canvas struct {
	Width  int
	Height int
	Pix    []float64
}

// NewCanvas allocates a zeroed width x height canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// Shape returns (rows, columns), i.e. (Height, Width).
func (c *Canvas) Shape() (int, int) { return c.Height, c.Width }

// In reports whether (x, y) is a pixel of the canvas.
func (c *Canvas) In(x, y int) bool {
	return x >= 0 && x < c.Width && y >= 0 && y < c.Height
}

// At returns the value at (x, y).
func (c *Canvas) At(x, y int) float64 { return c.Pix[y*c.Width+x] }

// Set stores v at (x, y).
func (c *Canvas) Set(x, y int, v float64) { c.Pix[y*c.Width+x] = v }

// Add accumulates v into (x, y).
func (c *Canvas) Add(x, y int, v float64) { c.Pix[y*c.Width+x] += v }

// Rows returns one slice per row. The slices alias Pix.
func (c *Canvas) Rows() [][]float64 {
	rows := make([][]float64, c.Height)
	for y := range rows {
		rows[y] = c.Pix[y*c.Width : (y+1)*c.Width]
	}
	return rows
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	out := NewCanvas(c.Width, c.Height)
	copy(out.Pix, c.Pix)
	return out
}
