package engine

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/math"
)

const radiansPerDegree = 0.017453292519943295

// BasePlateCarreeDegrees projects (lng, lat) pairs given in degrees with the
// Plate Carree projection. Any slice length is accepted.
// X = radians(lng) * fromRadians
// Y = radians(lat) * fromRadians
func BasePlateCarreeDegrees[T hwy.Floats](lngs, lats, xs, ys []T, fromRadians T) {
	size := min(len(lngs), len(lats), len(xs), len(ys))
	vScale := hwy.Mul(hwy.Set(T(radiansPerDegree)), hwy.Set(fromRadians))

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			hwy.Store(hwy.Mul(hwy.Load(lngs[offset:]), vScale), xs[offset:])
			hwy.Store(hwy.Mul(hwy.Load(lats[offset:]), vScale), ys[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			hwy.MaskStore(mask, hwy.Mul(hwy.MaskLoad(mask, lngs[offset:]), vScale), xs[offset:])
			hwy.MaskStore(mask, hwy.Mul(hwy.MaskLoad(mask, lats[offset:]), vScale), ys[offset:])
		},
	)
}

// BaseMercatorDegrees projects (lng, lat) pairs given in degrees with the
// spherical Mercator projection. Latitudes are clamped to ±latLimit degrees.
// X = radians(lng) * fromRadians
// Y = 0.5 * log((1+sin(lat))/(1-sin(lat))) * fromRadians
func BaseMercatorDegrees[T hwy.Floats](lngs, lats, xs, ys []T, fromRadians, latLimit T) {
	size := min(len(lngs), len(lats), len(xs), len(ys))

	vFromRad := hwy.Set(fromRadians)
	vDeg := hwy.Set(T(radiansPerDegree))
	vXScale := hwy.Mul(vDeg, vFromRad)
	vYScale := hwy.Mul(hwy.Set(T(0.5)), vFromRad)
	vOne := hwy.Set(T(1.0))
	vHi := hwy.Set(latLimit)
	vLo := hwy.Set(-latLimit)

	project := func(lng, lat hwy.Vec[T]) (x, y hwy.Vec[T]) {
		lat = hwy.Mul(hwy.Max(vLo, hwy.Min(vHi, lat)), vDeg)
		s := math.Sin(lat)
		ratio := hwy.Div(hwy.Add(vOne, s), hwy.Sub(vOne, s))
		return hwy.Mul(lng, vXScale), hwy.Mul(math.Log(ratio), vYScale)
	}

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			x, y := project(hwy.Load(lngs[offset:]), hwy.Load(lats[offset:]))
			hwy.Store(x, xs[offset:])
			hwy.Store(y, ys[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			x, y := project(hwy.MaskLoad(mask, lngs[offset:]), hwy.MaskLoad(mask, lats[offset:]))
			hwy.MaskStore(mask, x, xs[offset:])
			hwy.MaskStore(mask, y, ys[offset:])
		},
	)
}
