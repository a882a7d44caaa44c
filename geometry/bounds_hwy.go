package geometry

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BaseBoundXY computes the axis-aligned extent of a set of planar points
// given as separate X and Y slices. Both axes are reduced in one pass.
func BaseBoundXY[T hwy.Floats](xs, ys []T) (minX, minY, maxX, maxY T) {
	size := min(len(xs), len(ys))
	if size == 0 {
		return 0, 0, 0, 0
	}

	// Accumulators start at the first point so inactive tail lanes never win.
	vMinX, vMaxX := hwy.Set(xs[0]), hwy.Set(xs[0])
	vMinY, vMaxY := hwy.Set(ys[0]), hwy.Set(ys[0])

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			x := hwy.Load(xs[offset:])
			y := hwy.Load(ys[offset:])
			vMinX, vMaxX = hwy.Min(vMinX, x), hwy.Max(vMaxX, x)
			vMinY, vMaxY = hwy.Min(vMinY, y), hwy.Max(vMaxY, y)
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			x := hwy.MaskLoad(mask, xs[offset:])
			y := hwy.MaskLoad(mask, ys[offset:])
			vMinX = hwy.Min(vMinX, hwy.IfThenElse(mask, x, vMinX))
			vMaxX = hwy.Max(vMaxX, hwy.IfThenElse(mask, x, vMaxX))
			vMinY = hwy.Min(vMinY, hwy.IfThenElse(mask, y, vMinY))
			vMaxY = hwy.Max(vMaxY, hwy.IfThenElse(mask, y, vMaxY))
		},
	)

	return hwy.ReduceMin(vMinX), hwy.ReduceMin(vMinY), hwy.ReduceMax(vMaxX), hwy.ReduceMax(vMaxY)
}
