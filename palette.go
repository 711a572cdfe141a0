package mandelbrot

import "github.com/chewxy/math32"

// Cosine palette coefficients: colour(t) = d + e*cos(2π(f*t + g)).
// The compute shader carries the same constants; keep them in sync.
var (
	paletteD = [3]float32{0.3, 0.3, 0.5}
	paletteE = [3]float32{-0.2, -0.3, -0.5}
	paletteF = [3]float32{2.1, 2.0, 3.0}
	paletteG = [3]float32{0.0, 0.1, 0.0}
)

// escapeRadius2 is the squared bailout radius.
const escapeRadius2 = 4

// Escape iterates z = z² + c from zero and returns how many steps ran before
// |z|² exceeded 4, or maxIter if it never did.
func Escape(cr, ci float32, maxIter int) int {
	var zr, zi float32
	n := 0
	for n < maxIter {
		zr2, zi2 := zr*zr, zi*zi
		if zr2+zi2 > escapeRadius2 {
			break
		}
		zi = 2*zr*zi + ci
		zr = zr2 - zi2 + cr
		n++
	}
	return n
}

// Shade maps an escape count to an opaque colour.
func Shade(n, maxIter int) Pixel {
	t := float32(n) / float32(maxIter)
	var c [3]float32
	for i := range c {
		c[i] = paletteD[i] + paletteE[i]*math32.Cos(2*math32.Pi*(paletteF[i]*t+paletteG[i]))
	}
	return Pixel{R: c[0], G: c[1], B: c[2], A: 1}
}

// Sample computes pixel (x, y) of the view in float32, the precision the
// compute shader works in.
func Sample(v View, x, y int) Pixel {
	u := (float32(x)+0.5)/float32(v.Width) - 0.5
	w := (float32(y)+0.5)/float32(v.Height) - 0.5
	cr := float32(v.CenterX) + u*float32(v.SpanX())
	ci := float32(v.CenterY) - w*float32(v.SpanY())
	return Shade(Escape(cr, ci, v.MaxIterations), v.MaxIterations)
}
