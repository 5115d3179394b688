package sim

import "math"

// Advance applies one forward-Euler step of the unicycle model.
func Advance(p Pose, u Input, dt float64) Pose {
	return Pose{
		X:   p.X + u.V*dt*math.Cos(p.Yaw),
		Y:   p.Y + u.V*dt*math.Sin(p.Yaw),
		Yaw: p.Yaw + u.Omega*dt,
	}
}
