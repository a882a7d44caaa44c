package geometry

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BaseMinDistanceSquared finds the minimum squared Euclidean distance from a
// target point to a set of planar points (SoA layout). inf is returned for an
// empty set and fills the masked-out tail lanes.
func BaseMinDistanceSquared[T hwy.Floats](targetX, targetY T, xs, ys []T, inf T) T {
	size := min(len(xs), len(ys))

	vTx := hwy.Set(targetX)
	vTy := hwy.Set(targetY)
	vInf := hwy.Set(inf)
	vMinDist := vInf

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			vx := hwy.Load(xs[offset:])
			vy := hwy.Load(ys[offset:])

			dx := hwy.Sub(vx, vTx)
			dy := hwy.Sub(vy, vTy)

			// dist = dx*dx + dy*dy
			distSq := hwy.Add(hwy.Mul(dx, dx), hwy.Mul(dy, dy))

			vMinDist = hwy.Min(vMinDist, distSq)
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			vx := hwy.MaskLoad(mask, xs[offset:])
			vy := hwy.MaskLoad(mask, ys[offset:])

			dx := hwy.Sub(vx, vTx)
			dy := hwy.Sub(vy, vTy)

			distSq := hwy.Add(hwy.Mul(dx, dx), hwy.Mul(dy, dy))

			// Zero-filled lanes would otherwise report the target itself.
			distSq = hwy.IfThenElse(mask, distSq, vInf)

			vMinDist = hwy.Min(vMinDist, distSq)
		},
	)

	return hwy.ReduceMin(vMinDist)
}
