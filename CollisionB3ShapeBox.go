package box3d

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
)

/// A box centered at the origin of its local frame and aligned with its axes.
/// The margin is taken from inside the box: the core box has the half extents
/// minus the margin so that the inflated shape matches the given extents.
type B3BoxShape struct {
	B3Shape

	/// Half extents of the core box (without margin).
	M_extent mgl64.Vec3
}

func MakeB3BoxShape(halfExtents mgl64.Vec3, margin float64) B3BoxShape {
	B3Assert(margin > 0.0)
	B3Assert(halfExtents[0] > margin && halfExtents[1] > margin && halfExtents[2] > margin)

	return B3BoxShape{
		B3Shape: B3Shape{
			M_type:   B3Shape_Type.E_box,
			M_margin: margin,
		},
		M_extent: halfExtents.Sub(mgl64.Vec3{margin, margin, margin}),
	}
}

func NewB3BoxShape(halfExtents mgl64.Vec3, margin float64) *B3BoxShape {
	res := MakeB3BoxShape(halfExtents, margin)
	return &res
}

///////////////////////////////////////////////////////////////////////////////

/// Half extents of the box including the margin.
func (shape B3BoxShape) GetExtent() mgl64.Vec3 {
	m := shape.M_margin
	return shape.M_extent.Add(mgl64.Vec3{m, m, m})
}

func (shape B3BoxShape) Clone() B3ShapeInterface {
	clone := NewB3BoxShape(shape.GetExtent(), shape.M_margin)
	clone.M_extent = shape.M_extent
	return clone
}

func (shape B3BoxShape) GetSizeInBytes() int {
	return int(unsafe.Sizeof(shape))
}

func (shape B3BoxShape) GetLocalSupportPointWithMargin(direction mgl64.Vec3) mgl64.Vec3 {
	return b3SupportPointWithMargin(
		shape.GetLocalSupportPointWithoutMargin(direction),
		direction,
		shape.M_margin,
	)
}

func (shape B3BoxShape) GetLocalSupportPointWithoutMargin(direction mgl64.Vec3) mgl64.Vec3 {
	var res mgl64.Vec3
	for i := 0; i < 3; i++ {
		if direction[i] < 0.0 {
			res[i] = -shape.M_extent[i]
		} else {
			res[i] = shape.M_extent[i]
		}
	}
	return res
}

func (shape B3BoxShape) GetLocalBounds() (min, max mgl64.Vec3) {
	max = shape.GetExtent()
	min = max.Mul(-1.0)
	return min, max
}

// Solid cuboid of half extents (x, y, z): I_xx = m/3 (y^2 + z^2) and so on.
func (shape B3BoxShape) ComputeLocalInertiaTensor(mass float64) mgl64.Mat3 {
	factor := mass / 3.0
	e := shape.GetExtent()
	xSquare := e[0] * e[0]
	ySquare := e[1] * e[1]
	zSquare := e[2] * e[2]

	return mgl64.Diag3(mgl64.Vec3{
		factor * (ySquare + zSquare),
		factor * (xSquare + zSquare),
		factor * (xSquare + ySquare),
	})
}

func (shape B3BoxShape) ComputeAABB(aabb *B3AABB, transform B3Transform) {
	min, max := shape.GetLocalBounds()
	b3ComputeAABBFromLocalBounds(aabb, transform, min, max)
}

func (shape B3BoxShape) IsEqualTo(other B3ShapeInterface) (bool, error) {
	otherBox, ok := b3AsBox(other)
	if !ok {
		return false, b3ShapeKindMismatch(shape, other)
	}
	return shape.M_extent == otherBox.M_extent && shape.M_margin == otherBox.M_margin, nil
}

func (shape B3BoxShape) testPointInside(localPoint mgl64.Vec3) bool {
	e := shape.GetExtent()
	return math.Abs(localPoint[0]) <= e[0] &&
		math.Abs(localPoint[1]) <= e[1] &&
		math.Abs(localPoint[2]) <= e[2]
}

func (shape B3BoxShape) Raycast(ray B3Ray, maxDistance float64) bool {
	min, max := shape.GetLocalBounds()
	_, _, hit := MakeB3AABBFromBounds(min, max).RayCast(ray, maxDistance)
	return hit
}

// A ray starting inside the box does not hit it.
func (shape B3BoxShape) RaycastWithInfo(ray B3Ray, info *B3RaycastInfo, maxDistance float64) bool {
	min, max := shape.GetLocalBounds()
	t, normal, hit := MakeB3AABBFromBounds(min, max).RayCast(ray, maxDistance)
	if !hit {
		return false
	}

	info.WorldPoint = ray.GetPoint(t)
	info.WorldNormal = normal
	info.HitFraction = t
	return true
}

// Closest point of the box to p and whether p is inside, in box space.
func (shape B3BoxShape) closestPoint(p mgl64.Vec3) (mgl64.Vec3, bool) {
	e := shape.GetExtent()
	closest := B3Vec3Clamp(p, e.Mul(-1.0), e)
	return closest, closest == p
}

func b3AsBox(shape B3ShapeInterface) (B3BoxShape, bool) {
	switch s := shape.(type) {
	case B3BoxShape:
		return s, true
	case *B3BoxShape:
		return *s, true
	}
	return B3BoxShape{}, false
}
