package life

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"gridlife/internal/core"
)

// convCounter computes the neighbor-counting pass as a 2D convolution with
// the 3×3 all-ones (center-zero) kernel: real FFT along rows, complex FFT
// along columns, pointwise multiply against the pre-transformed kernel,
// inverse transform, round. The plane is zero-padded to at least one extra
// cell per axis so the circular convolution equals the linear one and the
// grid keeps its hard edges.
type convCounter struct {
	w, h       int
	padW, padH int
	halfW      int // padW/2+1 coefficients per row for real input

	rowFFT *fourier.FFT
	colFFT *fourier.CmplxFFT

	kernelFreq []complex128 // padH rows × halfW cols
	freq       []complex128 // work buffer, same shape
	colBuf     []complex128 // column scratch, length padH
	rowBuf     []float64    // row scratch, length padW
	norm       float64      // 1/(padW*padH) for the unnormalized inverse
}

func newConvCounter(w, h int) *convCounter {
	c := &convCounter{
		w:    w,
		h:    h,
		padW: nextPow2(w + 1),
		padH: nextPow2(h + 1),
	}
	c.halfW = c.padW/2 + 1
	c.rowFFT = fourier.NewFFT(c.padW)
	c.colFFT = fourier.NewCmplxFFT(c.padH)
	c.norm = 1 / float64(c.padW*c.padH)

	c.kernelFreq = make([]complex128, c.padH*c.halfW)
	c.freq = make([]complex128, c.padH*c.halfW)
	c.colBuf = make([]complex128, c.padH)
	c.rowBuf = make([]float64, c.padW)

	// Kernel in the spatial domain: 1 at each of the 8 neighbor offsets,
	// wrapped onto the padded plane.
	kernel := make([]float64, c.padW*c.padH)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			fy := (dy + c.padH) % c.padH
			fx := (dx + c.padW) % c.padW
			kernel[fy*c.padW+fx] = 1
		}
	}
	for y := 0; y < c.padH; y++ {
		c.rowFFT.Coefficients(c.kernelFreq[y*c.halfW:(y+1)*c.halfW], kernel[y*c.padW:(y+1)*c.padW])
	}
	c.transformColumns(c.kernelFreq, false)
	return c
}

// count fills every cell's neighbor accumulator from the convolution. Only
// the Neighbors field is written; the alive snapshot is untouched.
func (c *convCounter) count(g *core.Grid) {
	cells := g.Cells()

	// Forward transform of the alive plane, rows then columns.
	for y := 0; y < c.padH; y++ {
		for x := range c.rowBuf {
			c.rowBuf[x] = 0
		}
		if y < c.h {
			base := y * c.w
			for x := 0; x < c.w; x++ {
				if cells[base+x].Alive {
					c.rowBuf[x] = 1
				}
			}
		}
		c.rowFFT.Coefficients(c.freq[y*c.halfW:(y+1)*c.halfW], c.rowBuf)
	}
	c.transformColumns(c.freq, false)

	for i := range c.freq {
		c.freq[i] *= c.kernelFreq[i]
	}

	// Inverse transform, columns then rows, then round to integer counts.
	c.transformColumns(c.freq, true)
	for y := 0; y < c.h; y++ {
		c.rowFFT.Sequence(c.rowBuf, c.freq[y*c.halfW:(y+1)*c.halfW])
		base := y * c.w
		for x := 0; x < c.w; x++ {
			cells[base+x].Neighbors = uint8(math.Round(c.rowBuf[x] * c.norm))
		}
	}
}

// transformColumns applies the column-axis complex FFT (or its inverse) in
// place over every reduced-column of the buffer.
func (c *convCounter) transformColumns(buf []complex128, inverse bool) {
	for x := 0; x < c.halfW; x++ {
		for y := 0; y < c.padH; y++ {
			c.colBuf[y] = buf[y*c.halfW+x]
		}
		if inverse {
			c.colFFT.Sequence(c.colBuf, c.colBuf)
		} else {
			c.colFFT.Coefficients(c.colBuf, c.colBuf)
		}
		for y := 0; y < c.padH; y++ {
			buf[y*c.halfW+x] = c.colBuf[y]
		}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
