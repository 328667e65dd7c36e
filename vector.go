package main

import "math"

// Vector2 is a 2D point or direction in world units
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }

func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }

func (v Vector2) Scale(s float64) Vector2 { return Vector2{v.X * s, v.Y * s} }

// Length returns the euclidean norm
func (v Vector2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector in the same direction, or zero for a zero vector
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return Vector2{v.X / l, v.Y / l}
}

// DistanceTo returns the euclidean distance between two points
func (v Vector2) DistanceTo(o Vector2) float64 {
	return Distance(v.X, v.Y, o.X, o.Y)
}

func (v Vector2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Rotate returns v rotated by angle radians
func (v Vector2) Rotate(angle float64) Vector2 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Vector2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

func (v Vector2) rounded() Vector2 {
	return Vector2{round1(v.X), round1(v.Y)}
}
