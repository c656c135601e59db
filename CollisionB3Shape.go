package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

/// A shape is used for collision detection. Shapes are created by a
/// B3ShapeRepository and shared by the proxy shapes that reference them.

var B3Shape_Type = struct {
	E_sphere    uint8
	E_box       uint8
	E_capsule   uint8
	E_typeCount uint8
}{
	E_sphere:    0,
	E_box:       1,
	E_capsule:   2,
	E_typeCount: 3,
}

/// The set of shape kinds is closed: only the types of this package implement
/// B3ShapeInterface.
type B3ShapeInterface interface {
	/// Clone the concrete shape.
	Clone() B3ShapeInterface

	/// Get the type of this shape. You can use this to down cast to the concrete shape.
	/// @return the shape type.
	GetType() uint8

	/// Get the collision margin of the shape.
	GetMargin() float64

	/// Support point of the margin-inflated shape in direction (local space).
	GetLocalSupportPointWithMargin(direction mgl64.Vec3) mgl64.Vec3

	/// Support point of the core shape in direction (local space).
	GetLocalSupportPointWithoutMargin(direction mgl64.Vec3) mgl64.Vec3

	/// Local bounds of the shape including its margin.
	GetLocalBounds() (min, max mgl64.Vec3)

	/// Inertia tensor of the shape about its local origin for a given mass.
	ComputeLocalInertiaTensor(mass float64) mgl64.Mat3

	/// Given a transform, compute the associated axis aligned bounding box.
	/// @param aabb returns the axis aligned box.
	/// @param transform the local-to-world transform of the shape.
	ComputeAABB(aabb *B3AABB, transform B3Transform)

	/// Compare with another shape of the same kind. Comparing shapes of
	/// different kinds returns ErrShapeKindMismatch.
	IsEqualTo(other B3ShapeInterface) (bool, error)

	/// Test a ray in local space against the shape.
	Raycast(ray B3Ray, maxDistance float64) bool

	/// Cast a ray in local space. On a hit, info receives the local hit point,
	/// the outward normal and the hit fraction.
	RaycastWithInfo(ray B3Ray, info *B3RaycastInfo, maxDistance float64) bool

	/// Approximate memory footprint of the shape.
	GetSizeInBytes() int

	/// Test a point given in local space for containment.
	testPointInside(localPoint mgl64.Vec3) bool
}

type B3Shape struct {
	M_type uint8

	/// Collision margin. For a sphere and a capsule this is the radius.
	M_margin float64
}

func (shape B3Shape) GetType() uint8 {
	return shape.M_type
}

func (shape B3Shape) GetMargin() float64 {
	return shape.M_margin
}

func B3ShapeTypeName(t uint8) string {
	switch t {
	case B3Shape_Type.E_sphere:
		return "sphere"
	case B3Shape_Type.E_box:
		return "box"
	case B3Shape_Type.E_capsule:
		return "capsule"
	}
	return "unknown"
}

func b3ShapeKindMismatch(a, b B3ShapeInterface) error {
	return errors.Wrapf(
		ErrShapeKindMismatch,
		"%s vs %s",
		B3ShapeTypeName(a.GetType()),
		B3ShapeTypeName(b.GetType()),
	)
}

// Support point with margin built from the core support point. A zero
// direction picks the +Y axis.
func b3SupportPointWithMargin(core mgl64.Vec3, direction mgl64.Vec3, margin float64) mgl64.Vec3 {
	if direction.LenSqr() < B3_machineEpsilon*B3_machineEpsilon {
		return core.Add(mgl64.Vec3{0, margin, 0})
	}
	return core.Add(B3Vec3GetUnit(direction).Mul(margin))
}

// World AABB of local bounds under a transform: the rotated half extents are
// |R| * extents around the transformed center.
func b3ComputeAABBFromLocalBounds(aabb *B3AABB, transform B3Transform, min, max mgl64.Vec3) {
	center := min.Add(max).Mul(0.5)
	extents := max.Sub(min).Mul(0.5)

	worldCenter := B3TransformVec3Mul(transform, center)
	worldExtents := B3Mat3Abs(transform.GetOrientationMatrix()).Mul3x1(extents)

	aabb.LowerBound = worldCenter.Sub(worldExtents)
	aabb.UpperBound = worldCenter.Add(worldExtents)
}
