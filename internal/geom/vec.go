// Package geom provides the small 2D vector type shared by movement code.
package geom

import "math"

// Vec2 is a 2D vector in either world units or normalized arena space.
type Vec2 struct{ X, Y float64 }

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }

// Norm returns the unit vector in the direction of a, or the zero vector.
func (a Vec2) Norm() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Clamp limits both components to [lo, hi].
func (a Vec2) Clamp(lo, hi float64) Vec2 {
	return Vec2{clamp(a.X, lo, hi), clamp(a.Y, lo, hi)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
