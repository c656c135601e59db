package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

/// This function is used to ensure that a floating point number is not a NaN or infinity.
func B3IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

/// Useful constant
var B3Vec3_zero = mgl64.Vec3{0, 0, 0}

/// Does this vector contain finite coordinates?
func B3Vec3IsValid(v mgl64.Vec3) bool {
	return B3IsValid(v[0]) && B3IsValid(v[1]) && B3IsValid(v[2])
}

/// Return the unit vector of v. The length of v must not be zero.
func B3Vec3GetUnit(v mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	B3Assert(length > B3_machineEpsilon)
	return v.Mul(1.0 / length)
}

func B3Vec3Abs(a mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(a[0]), math.Abs(a[1]), math.Abs(a[2])}
}

func B3Vec3Min(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Min(a[0], b[0]),
		math.Min(a[1], b[1]),
		math.Min(a[2], b[2]),
	}
}

func B3Vec3Max(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Max(a[0], b[0]),
		math.Max(a[1], b[1]),
		math.Max(a[2], b[2]),
	}
}

/// Componentwise product.
func B3Vec3Clamp(a, low, high mgl64.Vec3) mgl64.Vec3 {
	return B3Vec3Max(
		low,
		B3Vec3Min(a, high),
	)
}

func B3FloatClamp[T constraints.Float](a, low, high T) T {
	if a < low {
		return low
	}
	if a > high {
		return high
	}
	return a
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func AbsInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

/// Return the matrix with the absolute value of each entry.
func B3Mat3Abs(m mgl64.Mat3) mgl64.Mat3 {
	var res mgl64.Mat3
	for i := range m {
		res[i] = math.Abs(m[i])
	}
	return res
}

///////////////////////////////////////////////////////////////////////////////
/// A transform contains translation and rotation. It is used to represent
/// the position and orientation of rigid frames.
///////////////////////////////////////////////////////////////////////////////
type B3Transform struct {
	P mgl64.Vec3
	Q mgl64.Quat
}

/// The identity transform.
func MakeB3Transform() B3Transform {
	return B3Transform{
		P: mgl64.Vec3{0, 0, 0},
		Q: mgl64.QuatIdent(),
	}
}

func NewB3Transform() *B3Transform {
	res := MakeB3Transform()
	return &res
}

/// Initialize using a position vector and an orientation.
func MakeB3TransformByPositionAndOrientation(position mgl64.Vec3, orientation mgl64.Quat) B3Transform {
	return B3Transform{
		P: position,
		Q: orientation,
	}
}

func MakeB3TransformFromPosition(position mgl64.Vec3) B3Transform {
	return MakeB3TransformByPositionAndOrientation(position, mgl64.QuatIdent())
}

/// Set this to the identity transform.
func (t *B3Transform) SetIdentity() {
	t.P = mgl64.Vec3{0, 0, 0}
	t.Q = mgl64.QuatIdent()
}

func (t B3Transform) GetPosition() mgl64.Vec3 {
	return t.P
}

func (t B3Transform) GetOrientation() mgl64.Quat {
	return t.Q
}

/// Rotation matrix of the orientation.
func (t B3Transform) GetOrientationMatrix() mgl64.Mat3 {
	return t.Q.Normalize().Mat4().Mat3()
}

func (t B3Transform) GetInverse() B3Transform {
	invQ := t.Q.Inverse()
	return B3Transform{
		P: invQ.Rotate(t.P.Mul(-1.0)),
		Q: invQ,
	}
}

func (t B3Transform) IsValid() bool {
	return B3Vec3IsValid(t.P) && B3IsValid(t.Q.W) && B3Vec3IsValid(t.Q.V)
}

/// A * B
func B3TransformMul(A, B B3Transform) B3Transform {
	return B3Transform{
		P: A.Q.Rotate(B.P).Add(A.P),
		Q: A.Q.Mul(B.Q),
	}
}

/// inv(A) * B
func B3TransformMulT(A, B B3Transform) B3Transform {
	return B3TransformMul(A.GetInverse(), B)
}

func B3TransformVec3Mul(T B3Transform, v mgl64.Vec3) mgl64.Vec3 {
	return T.Q.Rotate(v).Add(T.P)
}

func B3TransformVec3MulT(T B3Transform, v mgl64.Vec3) mgl64.Vec3 {
	return T.Q.Inverse().Rotate(v.Sub(T.P))
}

/// Componentwise comparison with an absolute tolerance.
func B3Vec3ApproxEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return math.Abs(a[0]-b[0]) <= epsilon && math.Abs(a[1]-b[1]) <= epsilon && math.Abs(a[2]-b[2]) <= epsilon
}

func B3TransformApproxEqual(A, B B3Transform, epsilon float64) bool {
	return B3Vec3ApproxEqual(A.P, B.P, epsilon) &&
		math.Abs(A.Q.W-B.Q.W) <= epsilon &&
		B3Vec3ApproxEqual(A.Q.V, B.Q.V, epsilon)
}
