package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

///////////////////////////////////////////////////////////////////////////////
/// A ray starting at Origin going along Direction. Points on the ray are
/// Origin + t * Direction for t >= 0. Distances passed with a ray are in units
/// of t, so they are metric only for a unit Direction.
///////////////////////////////////////////////////////////////////////////////
type B3Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func MakeB3Ray(origin, direction mgl64.Vec3) B3Ray {
	return B3Ray{
		Origin:    origin,
		Direction: direction,
	}
}

/// Point at parameter t.
func (ray B3Ray) GetPoint(t float64) mgl64.Vec3 {
	return ray.Origin.Add(ray.Direction.Mul(t))
}

/// Express the ray in the frame given by transform (world to local when
/// transform is the local-to-world transform).
func (ray B3Ray) ToLocal(transform B3Transform) B3Ray {
	invQ := transform.Q.Inverse()
	return B3Ray{
		Origin:    invQ.Rotate(ray.Origin.Sub(transform.P)),
		Direction: invQ.Rotate(ray.Direction),
	}
}

/// Ray-cast output data. The ray hits at Origin + HitFraction * Direction.
type B3RaycastInfo struct {
	WorldPoint  mgl64.Vec3
	WorldNormal mgl64.Vec3
	HitFraction float64

	/// Entities of the body and proxy shape hit. Only filled by world queries.
	Body       B3Entity
	ProxyShape B3Entity
}

func MakeB3RaycastInfo() B3RaycastInfo {
	return B3RaycastInfo{
		HitFraction: 0.0,
	}
}

///////////////////////////////////////////////////////////////////////////////
/// An axis aligned bounding box.
///////////////////////////////////////////////////////////////////////////////
type B3AABB struct {
	LowerBound mgl64.Vec3 ///< the lower vertex
	UpperBound mgl64.Vec3 ///< the upper vertex
}

func MakeB3AABB() B3AABB {
	return B3AABB{}
}

func MakeB3AABBFromBounds(lowerBound, upperBound mgl64.Vec3) B3AABB {
	return B3AABB{
		LowerBound: lowerBound,
		UpperBound: upperBound,
	}
}

func NewB3AABB() *B3AABB {
	res := MakeB3AABB()
	return &res
}

/// Get the center of the AABB.
func (bb B3AABB) GetCenter() mgl64.Vec3 {
	return bb.LowerBound.Add(bb.UpperBound).Mul(0.5)
}

/// Get the extents of the AABB (half-widths).
func (bb B3AABB) GetExtents() mgl64.Vec3 {
	return bb.UpperBound.Sub(bb.LowerBound).Mul(0.5)
}

/// Get the surface area of the box. Used as the insertion cost in the dynamic tree.
func (bb B3AABB) GetSurfaceArea() float64 {
	d := bb.UpperBound.Sub(bb.LowerBound)
	return 2.0 * (d[0]*d[1] + d[1]*d[2] + d[2]*d[0])
}

func (bb B3AABB) GetVolume() float64 {
	d := bb.UpperBound.Sub(bb.LowerBound)
	return d[0] * d[1] * d[2]
}

/// Combine an AABB into this one.
func (bb *B3AABB) CombineInPlace(aabb B3AABB) {
	bb.LowerBound = B3Vec3Min(bb.LowerBound, aabb.LowerBound)
	bb.UpperBound = B3Vec3Max(bb.UpperBound, aabb.UpperBound)
}

/// Combine two AABBs into this one.
func (bb *B3AABB) CombineTwoInPlace(aabb1, aabb2 B3AABB) {
	bb.LowerBound = B3Vec3Min(aabb1.LowerBound, aabb2.LowerBound)
	bb.UpperBound = B3Vec3Max(aabb1.UpperBound, aabb2.UpperBound)
}

/// Does this aabb contain the provided AABB.
func (bb B3AABB) Contains(aabb B3AABB) bool {
	for i := 0; i < 3; i++ {
		if aabb.LowerBound[i] < bb.LowerBound[i] || bb.UpperBound[i] < aabb.UpperBound[i] {
			return false
		}
	}
	return true
}

func (bb B3AABB) ContainsPoint(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < bb.LowerBound[i] || bb.UpperBound[i] < p[i] {
			return false
		}
	}
	return true
}

func (bb B3AABB) IsValid() bool {
	d := bb.UpperBound.Sub(bb.LowerBound)
	valid := d[0] >= 0.0 && d[1] >= 0.0 && d[2] >= 0.0
	valid = valid && B3Vec3IsValid(bb.LowerBound) && B3Vec3IsValid(bb.UpperBound)
	return valid
}

/// Grow the box by r on every side.
func (bb *B3AABB) Inflate(r float64) {
	e := mgl64.Vec3{r, r, r}
	bb.LowerBound = bb.LowerBound.Sub(e)
	bb.UpperBound = bb.UpperBound.Add(e)
}

func B3TestOverlapBoundingBoxes(a, b B3AABB) bool {
	for i := 0; i < 3; i++ {
		if b.LowerBound[i] > a.UpperBound[i] || a.LowerBound[i] > b.UpperBound[i] {
			return false
		}
	}
	return true
}

// From Real-time Collision Detection, p179.
// On a hit the entry parameter t in [0, maxDistance] and the face normal are
// returned. A ray starting inside the box does not hit it.
func (bb B3AABB) RayCast(ray B3Ray, maxDistance float64) (fraction float64, normal mgl64.Vec3, hit bool) {
	tmin := -B3_maxFloat
	tmax := B3_maxFloat

	p := ray.Origin
	d := ray.Direction

	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < B3_machineEpsilon {
			// Parallel.
			if p[i] < bb.LowerBound[i] || bb.UpperBound[i] < p[i] {
				return 0.0, normal, false
			}
		} else {
			invD := 1.0 / d[i]
			t1 := (bb.LowerBound[i] - p[i]) * invD
			t2 := (bb.UpperBound[i] - p[i]) * invD

			// Sign of the normal vector.
			s := -1.0

			if t1 > t2 {
				t1, t2 = t2, t1
				s = 1.0
			}

			// Push the min up
			if t1 > tmin {
				normal = mgl64.Vec3{}
				normal[i] = s
				tmin = t1
			}

			// Pull the max down
			tmax = math.Min(tmax, t2)

			if tmin > tmax {
				return 0.0, normal, false
			}
		}
	}

	// Does the ray start inside the box?
	// Does the ray intersect beyond the max distance?
	if tmin < 0.0 || maxDistance < tmin {
		return 0.0, normal, false
	}

	return tmin, normal, true
}

/// Overlap test between the box and the part of the ray with t in
/// [0, maxDistance]. Unlike RayCast a ray starting inside the box overlaps.
func (bb B3AABB) TestRayOverlap(ray B3Ray, maxDistance float64) bool {
	tmin := 0.0
	tmax := maxDistance

	for i := 0; i < 3; i++ {
		if math.Abs(ray.Direction[i]) < B3_machineEpsilon {
			if ray.Origin[i] < bb.LowerBound[i] || bb.UpperBound[i] < ray.Origin[i] {
				return false
			}
			continue
		}

		invD := 1.0 / ray.Direction[i]
		t1 := (bb.LowerBound[i] - ray.Origin[i]) * invD
		t2 := (bb.UpperBound[i] - ray.Origin[i]) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}

	return true
}
