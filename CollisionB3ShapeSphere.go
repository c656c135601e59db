package box3d

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
)

/// A sphere centered at the origin of its local frame. The sphere has no
/// separate margin: the margin is the radius.
type B3SphereShape struct {
	B3Shape
}

func MakeB3SphereShape(radius float64) B3SphereShape {
	B3Assert(radius > 0.0)

	return B3SphereShape{
		B3Shape: B3Shape{
			M_type:   B3Shape_Type.E_sphere,
			M_margin: radius,
		},
	}
}

func NewB3SphereShape(radius float64) *B3SphereShape {
	res := MakeB3SphereShape(radius)
	return &res
}

///////////////////////////////////////////////////////////////////////////////

func (shape B3SphereShape) GetRadius() float64 {
	return shape.M_margin
}

func (shape B3SphereShape) Clone() B3ShapeInterface {
	clone := NewB3SphereShape(shape.M_margin)
	return clone
}

func (shape B3SphereShape) GetSizeInBytes() int {
	return int(unsafe.Sizeof(shape))
}

func (shape B3SphereShape) GetLocalSupportPointWithMargin(direction mgl64.Vec3) mgl64.Vec3 {
	return b3SupportPointWithMargin(B3Vec3_zero, direction, shape.M_margin)
}

// The core of a sphere is its center.
func (shape B3SphereShape) GetLocalSupportPointWithoutMargin(direction mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{0, 0, 0}
}

func (shape B3SphereShape) GetLocalBounds() (min, max mgl64.Vec3) {
	r := shape.M_margin
	max = mgl64.Vec3{r, r, r}
	min = mgl64.Vec3{-r, -r, -r}
	return min, max
}

// Solid sphere: I = 2/5 m r^2 on each axis.
func (shape B3SphereShape) ComputeLocalInertiaTensor(mass float64) mgl64.Mat3 {
	diag := 0.4 * mass * shape.M_margin * shape.M_margin
	return mgl64.Diag3(mgl64.Vec3{diag, diag, diag})
}

// The bounds of a sphere do not depend on the orientation.
func (shape B3SphereShape) ComputeAABB(aabb *B3AABB, transform B3Transform) {
	r := shape.M_margin
	extents := mgl64.Vec3{r, r, r}
	aabb.LowerBound = transform.P.Sub(extents)
	aabb.UpperBound = transform.P.Add(extents)
}

func (shape B3SphereShape) IsEqualTo(other B3ShapeInterface) (bool, error) {
	otherSphere, ok := b3AsSphere(other)
	if !ok {
		return false, b3ShapeKindMismatch(shape, other)
	}
	return shape.M_margin == otherSphere.M_margin, nil
}

func (shape B3SphereShape) testPointInside(localPoint mgl64.Vec3) bool {
	return localPoint.LenSqr() <= shape.M_margin*shape.M_margin
}

func (shape B3SphereShape) Raycast(ray B3Ray, maxDistance float64) bool {
	_, ok := shape.raycastFraction(ray, maxDistance)
	return ok
}

func (shape B3SphereShape) RaycastWithInfo(ray B3Ray, info *B3RaycastInfo, maxDistance float64) bool {
	t, ok := shape.raycastFraction(ray, maxDistance)
	if !ok {
		return false
	}

	hit := ray.GetPoint(t)
	info.WorldPoint = hit
	info.WorldNormal = hit.Mul(1.0 / shape.M_margin)
	info.HitFraction = t
	return true
}

// Collision Detection in Interactive 3D Environments by Gino van den Bergen
// From Section 3.1.2
// x = o + t * d
// norm(x) = radius
// Returns the smallest root t in [0, maxDistance].
func (shape B3SphereShape) raycastFraction(ray B3Ray, maxDistance float64) (float64, bool) {
	o := ray.Origin
	d := ray.Direction

	a := d.Dot(d)
	b := o.Dot(d)
	c := o.Dot(o) - shape.M_margin*shape.M_margin

	// Short direction.
	if a < B3_machineEpsilon {
		return 0.0, false
	}

	// Check for negative discriminant.
	sigma := b*b - a*c
	if sigma < 0.0 {
		return 0.0, false
	}

	sqrtSigma := math.Sqrt(sigma)

	// Near root first, the far root is only used when the origin is inside.
	t := (-b - sqrtSigma) / a
	if t < 0.0 {
		t = (-b + sqrtSigma) / a
		if t < 0.0 {
			return 0.0, false
		}
	}

	if t > maxDistance {
		return 0.0, false
	}

	return t, true
}

func b3AsSphere(shape B3ShapeInterface) (B3SphereShape, bool) {
	switch s := shape.(type) {
	case B3SphereShape:
		return s, true
	case *B3SphereShape:
		return *s, true
	}
	return B3SphereShape{}, false
}
