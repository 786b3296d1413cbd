// Package spatialmath defines the rigid transformations exchanged across the
// map builder bridge boundary.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a rigid transformation in 3D space, represented as a translation
// paired with a unit rotation quaternion.
type Pose struct {
	Translation r3.Vector
	Rotation    quat.Number
}

// NewZeroPose returns the identity pose.
func NewZeroPose() Pose {
	return Pose{Rotation: quat.Number{Real: 1}}
}

// NewPose returns a pose with the given translation and rotation. The
// rotation is normalized so composed poses stay rigid.
func NewPose(translation r3.Vector, rotation quat.Number) Pose {
	return Pose{Translation: translation, Rotation: normalize(rotation)}
}

// NewPoseFromPoint returns a pose with the given translation and an identity
// rotation.
func NewPoseFromPoint(translation r3.Vector) Pose {
	return Pose{Translation: translation, Rotation: quat.Number{Real: 1}}
}

// NewPoseFromYaw returns a planar pose rotated by the given angle, in
// radians, about the +Z axis.
func NewPoseFromYaw(translation r3.Vector, yaw float64) Pose {
	return Pose{
		Translation: translation,
		Rotation:    quat.Number{Real: math.Cos(yaw / 2), Kmag: math.Sin(yaw / 2)},
	}
}

// Compose returns the pose representing b applied within a's frame.
func Compose(a, b Pose) Pose {
	return Pose{
		Translation: a.TransformPoint(b.Translation),
		Rotation:    normalize(quat.Mul(a.Rotation, b.Rotation)),
	}
}

// Invert returns the inverse transformation of p.
func Invert(p Pose) Pose {
	inv := quat.Conj(normalize(p.Rotation))
	t := rotate(inv, p.Translation)
	return Pose{Translation: r3.Vector{X: -t.X, Y: -t.Y, Z: -t.Z}, Rotation: inv}
}

// TransformPoint applies p to the given point.
func (p Pose) TransformPoint(pt r3.Vector) r3.Vector {
	return rotate(normalize(p.Rotation), pt).Add(p.Translation)
}

// Yaw returns the heading about the +Z axis, in radians.
func (p Pose) Yaw() float64 {
	q := normalize(p.Rotation)
	return math.Atan2(
		2*(q.Real*q.Kmag+q.Imag*q.Jmag),
		1-2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag),
	)
}

// AlmostEqual reports whether two poses are equal within epsilon. Rotations
// are compared up to quaternion sign, since q and -q denote the same
// rotation.
func (p Pose) AlmostEqual(o Pose, epsilon float64) bool {
	if p.Translation.Sub(o.Translation).Norm() > epsilon {
		return false
	}
	a, b := normalize(p.Rotation), normalize(o.Rotation)
	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	return 1-math.Abs(dot) <= epsilon
}

func rotate(q quat.Number, pt r3.Vector) r3.Vector {
	res := quat.Mul(quat.Mul(q, quat.Number{Imag: pt.X, Jmag: pt.Y, Kmag: pt.Z}), quat.Conj(q))
	return r3.Vector{X: res.Imag, Y: res.Jmag, Z: res.Kmag}
}

func normalize(q quat.Number) quat.Number {
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Number{Real: q.Real / n, Imag: q.Imag / n, Jmag: q.Jmag / n, Kmag: q.Kmag / n}
}
