// Package posemath implements pose composition/inversion, quaternion
// normalization checks, and velocity transforms shared by the space
// graph and frame lifecycle.
//
// Quaternion algebra (multiplication, conjugate, norm) is delegated to
// gonum.org/v1/gonum/num/quat rather than hand-rolled, following the
// pack's precedent of pulling gonum in for numerical primitives
// (banshee-data-velocity.report depends on gonum.org/v1/gonum); Vector3
// and Pose composition, which gonum has no type for, are modeled on
// gviegas-neo3/linear's method-on-pointer style.
package posemath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Vector3 is a 3-component vector in the runtime's working precision.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v+other.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v-other.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Negate returns -v.
func (v Vector3) Negate() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// Cross returns the cross product v x other.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Orientation is a unit quaternion; X/Y/Z/W match OpenXR's XrQuaternionf
// field order and map onto gonum's Imag/Jmag/Kmag/Real.
type Orientation struct {
	X, Y, Z, W float64
}

// IdentityOrientation is the no-rotation quaternion.
var IdentityOrientation = Orientation{0, 0, 0, 1}

func (o Orientation) toGonum() quat.Number {
	return quat.Number{Real: o.W, Imag: o.X, Jmag: o.Y, Kmag: o.Z}
}

func fromGonum(q quat.Number) Orientation {
	return Orientation{X: q.Imag, Y: q.Jmag, Z: q.Kmag, W: q.Real}
}

// Norm returns the quaternion's norm (should be 1 for a valid rotation).
func (o Orientation) Norm() float64 {
	return quat.Abs(o.toGonum())
}

// quaternionEpsilon is the tolerance spec.md §9 ("Quaternion
// normalization") specifies for accepting a quaternion as a valid
// rotation.
const quaternionEpsilon = 1e-5

// IsNormalized reports whether o's norm falls within
// [1-quaternionEpsilon, 1+quaternionEpsilon]. Quaternions outside this
// band must be treated as POSE_INVALID by callers, except for layer
// poses computed internally where normalization can be assumed.
func (o Orientation) IsNormalized() bool {
	n := o.Norm()
	return math.Abs(n-1) <= quaternionEpsilon
}

// Mul returns the composition o*other (apply other's rotation first,
// then o's — standard quaternion composition order).
func (o Orientation) Mul(other Orientation) Orientation {
	return fromGonum(quat.Mul(o.toGonum(), other.toGonum()))
}

// Conjugate returns the inverse rotation for a unit quaternion.
func (o Orientation) Conjugate() Orientation {
	return fromGonum(quat.Conj(o.toGonum()))
}

// RotateVector3 applies o's rotation to v.
func (o Orientation) RotateVector3(v Vector3) Vector3 {
	p := quat.Number{Real: 0, Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	q := o.toGonum()
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return Vector3{r.Imag, r.Jmag, r.Kmag}
}

// EulerXYZToQuaternion builds a unit quaternion from extrinsic X-then-Y-
// then-Z rotations (about the fixed X, then Y, then Z axes), in radians. Used to turn the configuration store's
// degree-valued calibration offsets into an Orientation.
func EulerXYZToQuaternion(rx, ry, rz float64) Orientation {
	x := axisAngle(Vector3{X: 1}, rx)
	y := axisAngle(Vector3{Y: 1}, ry)
	z := axisAngle(Vector3{Z: 1}, rz)
	return z.Mul(y).Mul(x)
}

func axisAngle(axis Vector3, angle float64) Orientation {
	half := angle / 2
	s := math.Sin(half)
	return Orientation{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: math.Cos(half)}
}

// Pose is a rigid transform: an orientation followed by a translation,
// matching OpenXR's XrPosef layout (orientation, then position).
type Pose struct {
	Orientation Orientation
	Position    Vector3
}

// IdentityPose is the pose with no rotation and no translation.
var IdentityPose = Pose{Orientation: IdentityOrientation}

// Compose returns the pose that first applies b, then a — i.e. a point
// p in b's local frame maps to Compose(a, b).Transform(p) == a.Transform(b.Transform(p)).
// This is the "space_to_origin x invert(base_to_origin)" style
// composition spec.md §4.5 describes for LocateSpace.
func Compose(a, b Pose) Pose {
	return Pose{
		Orientation: a.Orientation.Mul(b.Orientation),
		Position:    a.Position.Add(a.Orientation.RotateVector3(b.Position)),
	}
}

// Invert returns p's inverse: Compose(p, Invert(p)) == IdentityPose
// (within floating point tolerance).
func Invert(p Pose) Pose {
	inv := p.Orientation.Conjugate()
	return Pose{
		Orientation: inv,
		Position:    inv.RotateVector3(p.Position.Negate()),
	}
}

// Transform applies p to a point v expressed in p's local frame,
// returning the point in p's parent frame.
func (p Pose) Transform(v Vector3) Vector3 {
	return p.Position.Add(p.Orientation.RotateVector3(v))
}

// Velocity holds linear and angular velocity, in the same frame as the
// pose they accompany.
type Velocity struct {
	Linear  Vector3
	Angular Vector3
}

// SubtractVelocity computes the relative velocity of a with respect to
// b. Per spec.md §4.5, linear velocity subtraction ignores centripetal
// coupling — this is a documented imprecision, not a bug.
func SubtractVelocity(a, b Velocity) Velocity {
	return Velocity{
		Linear:  a.Linear.Sub(b.Linear),
		Angular: a.Angular.Sub(b.Angular),
	}
}

// IsFinitePose reports whether every component of p is finite (not NaN
// or Inf). spec.md §4.5 requires LocateSpace/LocateViews to never
// return a NaN pose; callers use this to detect a bad host sample and
// fall back to the last known valid pose.
func IsFinitePose(p Pose) bool {
	vals := []float64{
		p.Orientation.X, p.Orientation.Y, p.Orientation.Z, p.Orientation.W,
		p.Position.X, p.Position.Y, p.Position.Z,
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
