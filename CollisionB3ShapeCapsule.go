package box3d

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
)

/// A capsule: the set of points at distance at most radius from the segment
/// between (0, -halfHeight, 0) and (0, halfHeight, 0). The margin is the radius.
type B3CapsuleShape struct {
	B3Shape

	M_halfHeight float64
}

func MakeB3CapsuleShape(radius, halfHeight float64) B3CapsuleShape {
	B3Assert(radius > 0.0)
	B3Assert(halfHeight > 0.0)

	return B3CapsuleShape{
		B3Shape: B3Shape{
			M_type:   B3Shape_Type.E_capsule,
			M_margin: radius,
		},
		M_halfHeight: halfHeight,
	}
}

func NewB3CapsuleShape(radius, halfHeight float64) *B3CapsuleShape {
	res := MakeB3CapsuleShape(radius, halfHeight)
	return &res
}

///////////////////////////////////////////////////////////////////////////////

func (shape B3CapsuleShape) GetRadius() float64 {
	return shape.M_margin
}

func (shape B3CapsuleShape) GetHalfHeight() float64 {
	return shape.M_halfHeight
}

/// End points of the inner segment in local space.
func (shape B3CapsuleShape) GetSegment() (a, b mgl64.Vec3) {
	return mgl64.Vec3{0, -shape.M_halfHeight, 0}, mgl64.Vec3{0, shape.M_halfHeight, 0}
}

func (shape B3CapsuleShape) Clone() B3ShapeInterface {
	return NewB3CapsuleShape(shape.M_margin, shape.M_halfHeight)
}

func (shape B3CapsuleShape) GetSizeInBytes() int {
	return int(unsafe.Sizeof(shape))
}

func (shape B3CapsuleShape) GetLocalSupportPointWithMargin(direction mgl64.Vec3) mgl64.Vec3 {
	return b3SupportPointWithMargin(
		shape.GetLocalSupportPointWithoutMargin(direction),
		direction,
		shape.M_margin,
	)
}

func (shape B3CapsuleShape) GetLocalSupportPointWithoutMargin(direction mgl64.Vec3) mgl64.Vec3 {
	if direction[1] < 0.0 {
		return mgl64.Vec3{0, -shape.M_halfHeight, 0}
	}
	return mgl64.Vec3{0, shape.M_halfHeight, 0}
}

func (shape B3CapsuleShape) GetLocalBounds() (min, max mgl64.Vec3) {
	r := shape.M_margin
	max = mgl64.Vec3{r, shape.M_halfHeight + r, r}
	min = max.Mul(-1.0)
	return min, max
}

// Cylinder of height 2h plus two hemispheres, mass split by volume.
func (shape B3CapsuleShape) ComputeLocalInertiaTensor(mass float64) mgl64.Mat3 {
	r := shape.M_margin
	height := 2.0 * shape.M_halfHeight
	radiusSquare := r * r
	heightSquare := height * height
	radiusSquareDouble := 2.0 * radiusSquare

	factor1 := 2.0 * r / (4.0*r + 3.0*height)
	factor2 := 3.0 * height / (4.0*r + 3.0*height)

	sum1 := 0.4 * radiusSquareDouble
	sum2 := 0.75*height*r + 0.5*heightSquare
	sum3 := 0.25*radiusSquare + 1.0/12.0*heightSquare

	IxxAndzz := factor1*mass*(sum1+sum2) + factor2*mass*sum3
	Iyy := factor1*mass*sum1 + factor2*mass*0.25*radiusSquareDouble

	return mgl64.Diag3(mgl64.Vec3{IxxAndzz, Iyy, IxxAndzz})
}

func (shape B3CapsuleShape) ComputeAABB(aabb *B3AABB, transform B3Transform) {
	min, max := shape.GetLocalBounds()
	b3ComputeAABBFromLocalBounds(aabb, transform, min, max)
}

func (shape B3CapsuleShape) IsEqualTo(other B3ShapeInterface) (bool, error) {
	otherCapsule, ok := b3AsCapsule(other)
	if !ok {
		return false, b3ShapeKindMismatch(shape, other)
	}
	return shape.M_margin == otherCapsule.M_margin && shape.M_halfHeight == otherCapsule.M_halfHeight, nil
}

func (shape B3CapsuleShape) testPointInside(localPoint mgl64.Vec3) bool {
	a, b := shape.GetSegment()
	closest := B3ClosestPointOnSegment(a, b, localPoint)
	return localPoint.Sub(closest).LenSqr() <= shape.M_margin*shape.M_margin
}

func (shape B3CapsuleShape) Raycast(ray B3Ray, maxDistance float64) bool {
	_, _, ok := shape.raycastFraction(ray, maxDistance)
	return ok
}

// A ray starting inside the capsule does not hit it.
func (shape B3CapsuleShape) RaycastWithInfo(ray B3Ray, info *B3RaycastInfo, maxDistance float64) bool {
	t, normal, ok := shape.raycastFraction(ray, maxDistance)
	if !ok {
		return false
	}

	info.WorldPoint = ray.GetPoint(t)
	info.WorldNormal = normal
	info.HitFraction = t
	return true
}

// Nearest entry point over the cylinder side and the two end caps.
func (shape B3CapsuleShape) raycastFraction(ray B3Ray, maxDistance float64) (float64, mgl64.Vec3, bool) {
	if shape.testPointInside(ray.Origin) {
		return 0.0, mgl64.Vec3{}, false
	}

	r := shape.M_margin
	h := shape.M_halfHeight
	o := ray.Origin
	d := ray.Direction

	bestT := B3_maxFloat
	var bestNormal mgl64.Vec3
	found := false

	// Infinite cylinder x^2 + z^2 = r^2 restricted to |y| <= h.
	a := d[0]*d[0] + d[2]*d[2]
	if a > B3_machineEpsilon {
		b := o[0]*d[0] + o[2]*d[2]
		c := o[0]*o[0] + o[2]*o[2] - r*r
		sigma := b*b - a*c
		if sigma >= 0.0 {
			t := (-b - math.Sqrt(sigma)) / a
			if t >= 0.0 {
				p := ray.GetPoint(t)
				if math.Abs(p[1]) <= h {
					bestT = t
					bestNormal = mgl64.Vec3{p[0] / r, 0, p[2] / r}
					found = true
				}
			}
		}
	}

	// End caps.
	for _, sign := range [2]float64{1.0, -1.0} {
		center := mgl64.Vec3{0, sign * h, 0}
		t, ok := b3RaySphereEntry(ray, center, r)
		if !ok || t >= bestT {
			continue
		}

		p := ray.GetPoint(t)
		if sign*p[1] < h {
			continue
		}

		bestT = t
		bestNormal = p.Sub(center).Mul(1.0 / r)
		found = true
	}

	if !found || bestT > maxDistance {
		return 0.0, mgl64.Vec3{}, false
	}

	return bestT, bestNormal, true
}

// Entry parameter of a ray into a sphere, only for t >= 0.
func b3RaySphereEntry(ray B3Ray, center mgl64.Vec3, radius float64) (float64, bool) {
	s := ray.Origin.Sub(center)
	a := ray.Direction.Dot(ray.Direction)
	if a < B3_machineEpsilon {
		return 0.0, false
	}

	b := s.Dot(ray.Direction)
	c := s.Dot(s) - radius*radius
	sigma := b*b - a*c
	if sigma < 0.0 {
		return 0.0, false
	}

	t := (-b - math.Sqrt(sigma)) / a
	if t < 0.0 {
		return 0.0, false
	}
	return t, true
}

func b3AsCapsule(shape B3ShapeInterface) (B3CapsuleShape, bool) {
	switch s := shape.(type) {
	case B3CapsuleShape:
		return s, true
	case *B3CapsuleShape:
		return *s, true
	}
	return B3CapsuleShape{}, false
}
