package engine

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BaseAffineBatch applies a 2x3 affine matrix to a set of planar points (SoA).
// DSTX = a*x + b*y + c
// DSTY = d*x + e*y + f
func BaseAffineBatch[T hwy.Floats](
	a, b, c T,
	d, e, f T,
	srcX, srcY []T,
	dstX, dstY []T,
) {
	size := min(len(srcX), len(srcY), len(dstX), len(dstY))

	vA := hwy.Set(a)
	vB := hwy.Set(b)
	vC := hwy.Set(c)
	vD := hwy.Set(d)
	vE := hwy.Set(e)
	vF := hwy.Set(f)

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			x := hwy.Load(srcX[offset:])
			y := hwy.Load(srcY[offset:])

			resX := hwy.FMA(x, vA, vC)
			resX = hwy.FMA(y, vB, resX)

			resY := hwy.FMA(x, vD, vF)
			resY = hwy.FMA(y, vE, resY)

			hwy.Store(resX, dstX[offset:])
			hwy.Store(resY, dstY[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			x := hwy.MaskLoad(mask, srcX[offset:])
			y := hwy.MaskLoad(mask, srcY[offset:])

			resX := hwy.FMA(x, vA, vC)
			resX = hwy.FMA(y, vB, resX)

			resY := hwy.FMA(x, vD, vF)
			resY = hwy.FMA(y, vE, resY)

			hwy.MaskStore(mask, resX, dstX[offset:])
			hwy.MaskStore(mask, resY, dstY[offset:])
		},
	)
}
