package box3d

import (
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A contact point between two shapes, in world space.
type B3ContactPoint struct {
	PointOnA mgl64.Vec3 ///< deepest point of shape A inside shape B
	PointOnB mgl64.Vec3 ///< deepest point of shape B inside shape A
	Depth    float64    ///< penetration depth, positive when overlapping
}

/// A manifold for two touching convex shapes. All points share the normal.
type B3ContactManifold struct {
	Normal     mgl64.Vec3 ///< world vector pointing from A to B
	Points     [B3_maxManifoldPoints]B3ContactPoint
	PointCount int
}

func NewB3ContactManifold() *B3ContactManifold {
	return &B3ContactManifold{}
}

func (manifold *B3ContactManifold) addPoint(pointOnA, pointOnB mgl64.Vec3, depth float64) {
	B3Assert(manifold.PointCount < B3_maxManifoldPoints)
	manifold.Points[manifold.PointCount] = B3ContactPoint{
		PointOnA: pointOnA,
		PointOnB: pointOnB,
		Depth:    depth,
	}
	manifold.PointCount++
}

// Swap the roles of A and B.
func (manifold *B3ContactManifold) flip() {
	manifold.Normal = manifold.Normal.Mul(-1.0)
	for i := 0; i < manifold.PointCount; i++ {
		p := &manifold.Points[i]
		p.PointOnA, p.PointOnB = p.PointOnB, p.PointOnA
	}
}

func (manifold B3ContactManifold) Dump(w io.Writer) {
	n := manifold.Normal
	fmt.Fprintf(w, "manifold points=%d normal=(%.4f, %.4f, %.4f)\n", manifold.PointCount, n[0], n[1], n[2])
	for i := 0; i < manifold.PointCount; i++ {
		p := manifold.Points[i]
		fmt.Fprintf(w, "  point %d a=(%.4f, %.4f, %.4f) b=(%.4f, %.4f, %.4f) depth=%.4f\n", i,
			p.PointOnA[0], p.PointOnA[1], p.PointOnA[2],
			p.PointOnB[0], p.PointOnB[1], p.PointOnB[2],
			p.Depth)
	}
}

/// Compute the contact manifold between two shapes. Returns false when the
/// shapes do not touch or when no algorithm exists for the pair.
func B3Collide(manifold *B3ContactManifold, shapeA B3ShapeInterface, xfA B3Transform, shapeB B3ShapeInterface, xfB B3Transform) bool {
	manifold.PointCount = 0

	typeA := shapeA.GetType()
	typeB := shapeB.GetType()

	switch {
	case typeA == B3Shape_Type.E_sphere && typeB == B3Shape_Type.E_sphere:
		sphereA, _ := b3AsSphere(shapeA)
		sphereB, _ := b3AsSphere(shapeB)
		return B3CollideSpheres(manifold, sphereA, xfA, sphereB, xfB)

	case typeA == B3Shape_Type.E_sphere && typeB == B3Shape_Type.E_capsule:
		sphere, _ := b3AsSphere(shapeA)
		capsule, _ := b3AsCapsule(shapeB)
		return B3CollideSphereAndCapsule(manifold, sphere, xfA, capsule, xfB)

	case typeA == B3Shape_Type.E_capsule && typeB == B3Shape_Type.E_sphere:
		sphere, _ := b3AsSphere(shapeB)
		capsule, _ := b3AsCapsule(shapeA)
		if !B3CollideSphereAndCapsule(manifold, sphere, xfB, capsule, xfA) {
			return false
		}
		manifold.flip()
		return true

	case typeA == B3Shape_Type.E_capsule && typeB == B3Shape_Type.E_capsule:
		capsuleA, _ := b3AsCapsule(shapeA)
		capsuleB, _ := b3AsCapsule(shapeB)
		return B3CollideCapsules(manifold, capsuleA, xfA, capsuleB, xfB)

	case typeA == B3Shape_Type.E_box && typeB == B3Shape_Type.E_sphere:
		box, _ := b3AsBox(shapeA)
		sphere, _ := b3AsSphere(shapeB)
		return B3CollideBoxAndSphere(manifold, box, xfA, sphere, xfB)

	case typeA == B3Shape_Type.E_sphere && typeB == B3Shape_Type.E_box:
		box, _ := b3AsBox(shapeB)
		sphere, _ := b3AsSphere(shapeA)
		if !B3CollideBoxAndSphere(manifold, box, xfB, sphere, xfA) {
			return false
		}
		manifold.flip()
		return true
	}

	return false
}

// Unit vector from a to b, or fallback when the points coincide.
func b3ContactNormal(a, b mgl64.Vec3, fallback mgl64.Vec3) mgl64.Vec3 {
	d := b.Sub(a)
	if d.LenSqr() > B3_machineEpsilon*B3_machineEpsilon {
		return B3Vec3GetUnit(d)
	}
	return fallback
}

// Two spheres of radius rA and rB centered at cA and cB.
func b3CollidePointsWithRadius(manifold *B3ContactManifold, cA mgl64.Vec3, rA float64, cB mgl64.Vec3, rB float64, fallback mgl64.Vec3) bool {
	d := cB.Sub(cA)
	distSqr := d.LenSqr()
	radius := rA + rB
	if distSqr > radius*radius {
		return false
	}

	normal := b3ContactNormal(cA, cB, fallback)

	manifold.Normal = normal
	manifold.addPoint(
		cA.Add(normal.Mul(rA)),
		cB.Sub(normal.Mul(rB)),
		radius-math.Sqrt(distSqr),
	)
	return true
}

func B3CollideSpheres(manifold *B3ContactManifold, sphereA B3SphereShape, xfA B3Transform, sphereB B3SphereShape, xfB B3Transform) bool {
	manifold.PointCount = 0

	return b3CollidePointsWithRadius(
		manifold,
		xfA.P, sphereA.GetRadius(),
		xfB.P, sphereB.GetRadius(),
		mgl64.Vec3{0, 1, 0},
	)
}

func B3CollideSphereAndCapsule(manifold *B3ContactManifold, sphereA B3SphereShape, xfA B3Transform, capsuleB B3CapsuleShape, xfB B3Transform) bool {
	manifold.PointCount = 0

	a, b := capsuleB.GetSegment()
	segA := B3TransformVec3Mul(xfB, a)
	segB := B3TransformVec3Mul(xfB, b)

	center := xfA.P
	closest := B3ClosestPointOnSegment(segA, segB, center)

	// The sphere center is on the capsule axis: push along any axis normal.
	fallback := b3AnyPerpendicular(segB.Sub(segA))

	return b3CollidePointsWithRadius(
		manifold,
		center, sphereA.GetRadius(),
		closest, capsuleB.GetRadius(),
		fallback,
	)
}

func B3CollideCapsules(manifold *B3ContactManifold, capsuleA B3CapsuleShape, xfA B3Transform, capsuleB B3CapsuleShape, xfB B3Transform) bool {
	manifold.PointCount = 0

	a1, b1 := capsuleA.GetSegment()
	a2, b2 := capsuleB.GetSegment()
	seg1A := B3TransformVec3Mul(xfA, a1)
	seg1B := B3TransformVec3Mul(xfA, b1)
	seg2A := B3TransformVec3Mul(xfB, a2)
	seg2B := B3TransformVec3Mul(xfB, b2)

	rA := capsuleA.GetRadius()
	rB := capsuleB.GetRadius()
	radius := rA + rB

	d1 := seg1B.Sub(seg1A)
	d2 := seg2B.Sub(seg2A)

	c1, c2 := B3ClosestPointsBetweenSegments(seg1A, seg1B, seg2A, seg2B)
	dist := c2.Sub(c1).Len()
	if dist > radius {
		return false
	}

	// Fallback normal when the axes touch.
	fallback := d1.Cross(d2)
	if fallback.LenSqr() > B3_machineEpsilon {
		fallback = B3Vec3GetUnit(fallback)
		if fallback.Dot(xfB.P.Sub(xfA.P)) < 0.0 {
			fallback = fallback.Mul(-1.0)
		}
	} else {
		fallback = b3AnyPerpendicular(d1)
	}

	normal := b3ContactNormal(c1, c2, fallback)

	// Parallel axes: clip segment 2 to the slab of segment 1 and keep both
	// ends as contact points.
	cross := B3Vec3GetUnit(d1).Cross(B3Vec3GetUnit(d2))
	if cross.LenSqr() < B3_parallelEpsilon*B3_parallelEpsilon && dist > B3_machineEpsilon {
		planes := []B3Plane{
			MakeB3Plane(seg1A, d1),
			MakeB3Plane(seg1B, d1.Mul(-1.0)),
		}
		clipped := B3ClipSegmentWithPlanes(seg2A, seg2B, planes)

		if len(clipped) == 2 {
			manifold.Normal = normal
			for _, q := range clipped {
				p := B3ClosestPointOnSegment(seg1A, seg1B, q)
				separation := q.Sub(p).Dot(normal)
				manifold.addPoint(
					p.Add(normal.Mul(rA)),
					q.Sub(normal.Mul(rB)),
					radius-separation,
				)
			}
			return true
		}
	}

	manifold.Normal = normal
	manifold.addPoint(
		c1.Add(normal.Mul(rA)),
		c2.Sub(normal.Mul(rB)),
		radius-dist,
	)
	return true
}

func B3CollideBoxAndSphere(manifold *B3ContactManifold, boxA B3BoxShape, xfA B3Transform, sphereB B3SphereShape, xfB B3Transform) bool {
	manifold.PointCount = 0

	r := sphereB.GetRadius()

	// Compute sphere position in the frame of the box.
	center := xfB.P
	cLocal := B3TransformVec3MulT(xfA, center)

	closest, inside := boxA.closestPoint(cLocal)

	var nLocal mgl64.Vec3
	var depth float64

	if !inside {
		d := cLocal.Sub(closest)
		distSqr := d.LenSqr()
		if distSqr > r*r {
			return false
		}

		dist := math.Sqrt(distSqr)
		nLocal = d.Mul(1.0 / dist)
		depth = r - dist
	} else {
		// Center inside the box: push out through the nearest face.
		e := boxA.GetExtent()
		axis := 0
		minDist := B3_maxFloat
		for i := 0; i < 3; i++ {
			faceDist := e[i] - math.Abs(cLocal[i])
			if faceDist < minDist {
				minDist = faceDist
				axis = i
			}
		}

		sign := 1.0
		if cLocal[axis] < 0.0 {
			sign = -1.0
		}

		nLocal[axis] = sign
		closest = cLocal
		closest[axis] = sign * e[axis]
		depth = r + minDist
	}

	normal := xfA.Q.Rotate(nLocal)

	manifold.Normal = normal
	manifold.addPoint(
		B3TransformVec3Mul(xfA, closest),
		center.Sub(normal.Mul(r)),
		depth,
	)
	return true
}

// A unit vector perpendicular to v.
func b3AnyPerpendicular(v mgl64.Vec3) mgl64.Vec3 {
	abs := B3Vec3Abs(v)

	// Cross with the axis v is least aligned with.
	axis := mgl64.Vec3{1, 0, 0}
	if abs[1] < abs[0] && abs[1] <= abs[2] {
		axis = mgl64.Vec3{0, 1, 0}
	} else if abs[2] < abs[0] && abs[2] < abs[1] {
		axis = mgl64.Vec3{0, 0, 1}
	}

	p := v.Cross(axis)
	if p.LenSqr() < B3_machineEpsilon {
		return mgl64.Vec3{0, 1, 0}
	}
	return B3Vec3GetUnit(p)
}
