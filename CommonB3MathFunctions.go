package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A half-space {X : (X - Point) . Normal >= 0} used as a clipping plane.
type B3Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

func MakeB3Plane(point, normal mgl64.Vec3) B3Plane {
	return B3Plane{
		Point:  point,
		Normal: normal,
	}
}

/// Signed distance of p along the plane normal (scaled by |Normal|).
func (plane B3Plane) Distance(p mgl64.Vec3) float64 {
	return p.Sub(plane.Point).Dot(plane.Normal)
}

/// Offset d of the plane equation Normal . X = d.
func (plane B3Plane) GetOffset() float64 {
	return plane.Normal.Dot(plane.Point)
}

// From Real-time Collision Detection, p47.
// The triangle (a, b, c) must not be degenerate.
func B3BarycentricCoordinates(a, b, c, p mgl64.Vec3) (u, v, w float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1.0 - v - w

	return u, v, w
}

/// Clamp a vector such that it is no longer than a given maximum length.
func B3ClampLength(vector mgl64.Vec3, maxLength float64) mgl64.Vec3 {
	if vector.LenSqr() > maxLength*maxLength {
		return vector.Mul(maxLength / vector.Len())
	}
	return vector
}

/// Return the point of the segment [segPointA, segPointB] closest to pointC.
func B3ClosestPointOnSegment(segPointA, segPointB, pointC mgl64.Vec3) mgl64.Vec3 {
	ab := segPointB.Sub(segPointA)

	abLengthSquare := ab.LenSqr()

	// The segment is almost a point
	if abLengthSquare < B3_machineEpsilon {
		return segPointA
	}

	// Project C onto the line AB and clamp to the segment
	t := pointC.Sub(segPointA).Dot(ab) / abLengthSquare
	t = B3FloatClamp(t, 0.0, 1.0)

	return segPointA.Add(ab.Mul(t))
}

// From Real-time Collision Detection, p149.
// Returns the closest point on each segment.
func B3ClosestPointsBetweenSegments(seg1PointA, seg1PointB, seg2PointA, seg2PointB mgl64.Vec3) (closestPointSeg1, closestPointSeg2 mgl64.Vec3) {
	d1 := seg1PointB.Sub(seg1PointA)
	d2 := seg2PointB.Sub(seg2PointA)
	r := seg1PointA.Sub(seg2PointA)
	a := d1.LenSqr()
	e := d2.LenSqr()
	f := d2.Dot(r)

	var s, t float64

	// Both segments degenerate into points
	if a <= B3_machineEpsilon && e <= B3_machineEpsilon {
		return seg1PointA, seg2PointA
	}

	if a <= B3_machineEpsilon {
		// First segment degenerates into a point
		s = 0.0
		t = B3FloatClamp(f/e, 0.0, 1.0)
	} else {
		c := d1.Dot(r)

		if e <= B3_machineEpsilon {
			// Second segment degenerates into a point
			t = 0.0
			s = B3FloatClamp(-c/a, 0.0, 1.0)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b

			if denom != 0.0 {
				// Closest point on line 1 to line 2, clamped to segment 1
				s = B3FloatClamp((b*f-c*e)/denom, 0.0, 1.0)
			} else {
				// Parallel: pick an arbitrary point on segment 1
				s = 0.0
			}

			// Point on line 2 closest to the point found on segment 1
			t = (b*s + f) / e

			// Clamp t to segment 2 and recompute s for the clamped t
			if t < 0.0 {
				t = 0.0
				s = B3FloatClamp(-c/a, 0.0, 1.0)
			} else if t > 1.0 {
				t = 1.0
				s = B3FloatClamp((b-c)/a, 0.0, 1.0)
			}
		}
	}

	closestPointSeg1 = seg1PointA.Add(d1.Mul(s))
	closestPointSeg2 = seg2PointA.Add(d2.Mul(t))
	return closestPointSeg1, closestPointSeg2
}

/// Intersection of the segment (segA, segB) with the plane planeNormal . X = planeD.
/// Returns t such that segA + t * (segB - segA) is on the plane, or -1 when the
/// segment is parallel to the plane. The intersection lies on the segment only
/// if t is in [0, 1].
func B3PlaneSegmentIntersection(segA, segB mgl64.Vec3, planeD float64, planeNormal mgl64.Vec3) float64 {
	t := -1.0

	ab := segB.Sub(segA)

	nDotAB := planeNormal.Dot(ab)

	if math.Abs(nDotAB) > B3_parallelEpsilon {
		t = (planeD - planeNormal.Dot(segA)) / nDotAB
	}

	return t
}

/// Distance from point to the infinite line through linePointA and linePointB.
func B3PointToLineDistance(linePointA, linePointB, point mgl64.Vec3) float64 {
	distAB := linePointB.Sub(linePointA).Len()

	if distAB < B3_machineEpsilon {
		return point.Sub(linePointA).Len()
	}

	return point.Sub(linePointA).Cross(point.Sub(linePointB)).Len() / distAB
}

// Sutherland-Hodgman clipping of a segment. Each plane keeps the side its
// normal points to. Returns the two clipped end points or nothing when the
// segment is entirely clipped away.
func B3ClipSegmentWithPlanes(segA, segB mgl64.Vec3, planes []B3Plane) []mgl64.Vec3 {
	inputVertices := []mgl64.Vec3{segA, segB}
	outputVertices := make([]mgl64.Vec3, 0, 2)

	for _, plane := range planes {

		// Nothing left to clip
		if len(inputVertices) == 0 {
			return inputVertices
		}

		outputVertices = outputVertices[:0]

		v1 := inputVertices[0]
		v2 := inputVertices[1]

		v1DotN := plane.Distance(v1)
		v2DotN := plane.Distance(v2)

		if v2DotN >= 0.0 {
			if v1DotN < 0.0 {
				// v1 is behind: keep the crossing point instead
				t := B3PlaneSegmentIntersection(v1, v2, plane.GetOffset(), plane.Normal)

				if t >= 0.0 && t <= 1.0 {
					outputVertices = append(outputVertices, v1.Add(v2.Sub(v1).Mul(t)))
				} else {
					outputVertices = append(outputVertices, v2)
				}
			} else {
				outputVertices = append(outputVertices, v1)
			}

			outputVertices = append(outputVertices, v2)
		} else if v1DotN >= 0.0 {
			// v2 is behind: keep v1 and the crossing point
			outputVertices = append(outputVertices, v1)

			t := B3PlaneSegmentIntersection(v1, v2, plane.GetOffset(), plane.Normal)

			if t >= 0.0 && t <= 1.0 {
				outputVertices = append(outputVertices, v1.Add(v2.Sub(v1).Mul(t)))
			} else {
				outputVertices = append(outputVertices, v1)
			}
		}

		inputVertices, outputVertices = outputVertices, inputVertices
	}

	result := make([]mgl64.Vec3, len(inputVertices))
	copy(result, inputVertices)
	return result
}

// Sutherland-Hodgman clipping of a polygon against a sequence of planes.
// The edge from the last vertex back to the first one is clipped as well.
func B3ClipPolygonWithPlanes(polygonVertices []mgl64.Vec3, planes []B3Plane) []mgl64.Vec3 {
	inputVertices := make([]mgl64.Vec3, len(polygonVertices))
	copy(inputVertices, polygonVertices)
	outputVertices := make([]mgl64.Vec3, 0, len(polygonVertices)+len(planes))

	for _, plane := range planes {
		outputVertices = outputVertices[:0]

		nbVertices := len(inputVertices)
		vStart := nbVertices - 1

		for vEnd := 0; vEnd < nbVertices; vEnd++ {
			v1 := inputVertices[vStart]
			v2 := inputVertices[vEnd]

			v1DotN := plane.Distance(v1)
			v2DotN := plane.Distance(v2)

			if v2DotN >= 0.0 {
				if v1DotN < 0.0 {
					// Entering the half-space: add the crossing point
					t := B3PlaneSegmentIntersection(v1, v2, plane.GetOffset(), plane.Normal)

					if t >= 0.0 && t <= 1.0 {
						outputVertices = append(outputVertices, v1.Add(v2.Sub(v1).Mul(t)))
					} else {
						outputVertices = append(outputVertices, v2)
					}
				}

				outputVertices = append(outputVertices, v2)
			} else if v1DotN >= 0.0 {
				// Leaving the half-space: add the crossing point
				t := B3PlaneSegmentIntersection(v1, v2, plane.GetOffset(), plane.Normal)

				if t >= 0.0 && t <= 1.0 {
					outputVertices = append(outputVertices, v1.Add(v2.Sub(v1).Mul(t)))
				} else {
					outputVertices = append(outputVertices, v1)
				}
			}

			vStart = vEnd
		}

		inputVertices, outputVertices = outputVertices, inputVertices
	}

	return inputVertices
}
