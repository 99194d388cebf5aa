package physics

import "github.com/Faultbox/scenekit/pkg/math"

// Surface is anything that reports ground height, such as a terrain height field.
type Surface interface {
	Height(x, y float32) float32
}

// ClampToHeight lifts every point that sank below the surface back onto it and
// returns how many points moved. It is applied by the caller after integration.
func ClampToHeight(points []math.Vec3, s Surface) int {
	moved := 0
	for i, p := range points {
		if z := s.Height(p.X, p.Y); p.Z < z {
			points[i].Z = z
			moved++
		}
	}
	return moved
}
