package shape

import (
	"math"
	"sync"

	"github.com/olivier-w/holoforge/internal/geom"
)

const (
	lorenzSigma = 10.0
	lorenzRho   = 28.0
	lorenzBeta  = 8.0 / 3.0
	lorenzScale = 3.0

	lorenzDt     = 0.005
	lorenzWarmup = 400
	lorenzSteps  = 16000
	// lorenzWindow is how many trajectory steps one rendered strand spans.
	lorenzWindow = 4000
	// lorenzRate is how many trajectory steps the window slides per second.
	lorenzRate = 40.0
)

var (
	lorenzOnce  sync.Once
	lorenzTrack []geom.Point3
)

// trajectory integrates the attractor once with RK4 from a fixed initial
// condition and caches it for the life of the process.
func trajectory() []geom.Point3 {
	lorenzOnce.Do(func() {
		deriv := func(x, y, z float64) (float64, float64, float64) {
			return lorenzSigma * (y - x), x*(lorenzRho-z) - y, x*y - lorenzBeta*z
		}
		x, y, z := 0.1, 0.0, 0.0
		lorenzTrack = make([]geom.Point3, 0, lorenzSteps)
		for i := range lorenzWarmup + lorenzSteps {
			k1x, k1y, k1z := deriv(x, y, z)
			k2x, k2y, k2z := deriv(x+k1x*lorenzDt/2, y+k1y*lorenzDt/2, z+k1z*lorenzDt/2)
			k3x, k3y, k3z := deriv(x+k2x*lorenzDt/2, y+k2y*lorenzDt/2, z+k2z*lorenzDt/2)
			k4x, k4y, k4z := deriv(x+k3x*lorenzDt, y+k3y*lorenzDt, z+k3z*lorenzDt)
			x += lorenzDt / 6 * (k1x + 2*k2x + 2*k3x + k4x)
			y += lorenzDt / 6 * (k1y + 2*k2y + 2*k3y + k4y)
			z += lorenzDt / 6 * (k1z + 2*k2z + 2*k3z + k4z)
			if i >= lorenzWarmup {
				lorenzTrack = append(lorenzTrack, geom.Pt(x*lorenzScale, y*lorenzScale, z*lorenzScale))
			}
		}
	})
	return lorenzTrack
}

// lorenzOffset returns where the window starts along the trajectory at time
// t. It sweeps forward and back as a triangle wave so it never jumps.
func lorenzOffset(t float64) float64 {
	span := float64(lorenzSteps - lorenzWindow - 1)
	p := math.Mod(t*lorenzRate, 2*span)
	if p < 0 {
		p += 2 * span
	}
	if p > span {
		p = 2*span - p
	}
	return p
}

// lorenz is a single open strand following a sliding window of the cached
// trajectory.
func lorenz(t float64) []curve {
	track := trajectory()
	start := lorenzOffset(t)
	at := func(u float64) geom.Point3 {
		f := start + u*lorenzWindow
		i := int(f)
		if i >= len(track)-1 {
			return track[len(track)-1]
		}
		return track[i].Lerp(track[i+1], f-float64(i))
	}
	return []curve{{at: at, density: lorenzWindow}}
}
