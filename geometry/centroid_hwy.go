package geometry

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BaseSumPoints computes the vector sum of a list of planar coordinates.
// Input is de-interleaved (separate slices for X and Y).
func BaseSumPoints[T hwy.Floats](xs, ys []T) (sumX, sumY T) {
	size := min(len(xs), len(ys))

	vSumX := hwy.Zero[T]()
	vSumY := hwy.Zero[T]()

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			vx := hwy.Load(xs[offset:])
			vy := hwy.Load(ys[offset:])

			vSumX = hwy.Add(vSumX, vx)
			vSumY = hwy.Add(vSumY, vy)
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			vx := hwy.MaskLoad(mask, xs[offset:])
			vy := hwy.MaskLoad(mask, ys[offset:])

			vSumX = hwy.Add(vSumX, vx)
			vSumY = hwy.Add(vSumY, vy)
		},
	)

	return hwy.ReduceSum(vSumX), hwy.ReduceSum(vSumY)
}
