package box3d_test

import (
	"math"
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
)

func at(x, y, z float64) box3d.B3Transform {
	return box3d.MakeB3TransformFromPosition(mgl64.Vec3{x, y, z})
}

func checkManifold(t *testing.T, manifold *box3d.B3ContactManifold, normal mgl64.Vec3, pointCount int, depth float64) {
	t.Helper()

	if !vec3Near(manifold.Normal, normal) {
		t.Fatalf("expected normal %v, got %v", normal, manifold.Normal)
	}
	if manifold.PointCount != pointCount {
		t.Fatalf("expected %d points, got %d", pointCount, manifold.PointCount)
	}
	for i := 0; i < manifold.PointCount; i++ {
		if math.Abs(manifold.Points[i].Depth-depth) > testEpsilon {
			t.Fatalf("point %d: expected depth %v, got %v", i, depth, manifold.Points[i].Depth)
		}
	}
}

func TestCollideSpheres(t *testing.T) {
	sphere := box3d.NewB3SphereShape(1.0)
	manifold := box3d.NewB3ContactManifold()

	if !box3d.B3Collide(manifold, sphere, at(0, 0, 0), sphere, at(1.5, 0, 0)) {
		t.Fatalf("the spheres touch")
	}
	checkManifold(t, manifold, mgl64.Vec3{1, 0, 0}, 1, 0.5)

	p := manifold.Points[0]
	if !vec3Near(p.PointOnA, mgl64.Vec3{1, 0, 0}) || !vec3Near(p.PointOnB, mgl64.Vec3{0.5, 0, 0}) {
		t.Fatalf("unexpected contact point %v", p)
	}

	if box3d.B3Collide(manifold, sphere, at(0, 0, 0), sphere, at(3, 0, 0)) {
		t.Fatalf("the spheres do not touch")
	}
	if manifold.PointCount != 0 {
		t.Fatalf("a separated pair has no point")
	}

	// Coincident centers use a fixed normal.
	if !box3d.B3Collide(manifold, sphere, at(2, 2, 2), sphere, at(2, 2, 2)) {
		t.Fatalf("coincident spheres touch")
	}
	checkManifold(t, manifold, mgl64.Vec3{0, 1, 0}, 1, 2.0)
}

func TestCollideSphereAndCapsule(t *testing.T) {
	sphere := box3d.MakeB3SphereShape(0.5)
	capsule := box3d.MakeB3CapsuleShape(0.5, 1.0)
	manifold := box3d.NewB3ContactManifold()

	if !box3d.B3Collide(manifold, sphere, at(0.8, 0.5, 0), capsule, at(0, 0, 0)) {
		t.Fatalf("the sphere touches the capsule")
	}
	checkManifold(t, manifold, mgl64.Vec3{-1, 0, 0}, 1, 0.2)

	// Same pair seen from the capsule.
	if !box3d.B3Collide(manifold, capsule, at(0, 0, 0), sphere, at(0.8, 0.5, 0)) {
		t.Fatalf("the capsule touches the sphere")
	}
	checkManifold(t, manifold, mgl64.Vec3{1, 0, 0}, 1, 0.2)
	if !vec3Near(manifold.Points[0].PointOnA, mgl64.Vec3{0.5, 0.5, 0}) {
		t.Fatalf("unexpected point on the capsule %v", manifold.Points[0].PointOnA)
	}

	// Above the top cap
	if box3d.B3Collide(manifold, capsule, at(0, 0, 0), sphere, at(0, 2.1, 0)) {
		t.Fatalf("the sphere is above the capsule")
	}
}

func TestCollideCapsules(t *testing.T) {
	capsule := box3d.MakeB3CapsuleShape(0.5, 1.0)
	manifold := box3d.NewB3ContactManifold()

	// Parallel capsules side by side touch along a segment.
	if !box3d.B3Collide(manifold, capsule, at(0, 0, 0), capsule, at(0.8, 0, 0)) {
		t.Fatalf("the capsules touch")
	}
	checkManifold(t, manifold, mgl64.Vec3{1, 0, 0}, 2, 0.2)

	// Crossing capsules touch at a single point.
	crossed := box3d.MakeB3TransformByPositionAndOrientation(
		mgl64.Vec3{0, 0, 0.8},
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
	)
	if !box3d.B3Collide(manifold, capsule, at(0, 0, 0), capsule, crossed) {
		t.Fatalf("the crossing capsules touch")
	}
	checkManifold(t, manifold, mgl64.Vec3{0, 0, 1}, 1, 0.2)

	if box3d.B3Collide(manifold, capsule, at(0, 0, 0), capsule, at(1.2, 0, 0)) {
		t.Fatalf("the capsules do not touch")
	}
}

func TestCollideBoxAndSphere(t *testing.T) {
	box := box3d.NewB3BoxShape(mgl64.Vec3{1, 1, 1}, box3d.B3_objectMargin)
	sphere := box3d.NewB3SphereShape(0.5)
	manifold := box3d.NewB3ContactManifold()

	if !box3d.B3Collide(manifold, box, at(0, 0, 0), sphere, at(1.3, 0, 0)) {
		t.Fatalf("the sphere touches the box")
	}
	checkManifold(t, manifold, mgl64.Vec3{1, 0, 0}, 1, 0.2)
	if !vec3Near(manifold.Points[0].PointOnA, mgl64.Vec3{1, 0, 0}) || !vec3Near(manifold.Points[0].PointOnB, mgl64.Vec3{0.8, 0, 0}) {
		t.Fatalf("unexpected contact point %v", manifold.Points[0])
	}

	if !box3d.B3Collide(manifold, sphere, at(1.3, 0, 0), box, at(0, 0, 0)) {
		t.Fatalf("the sphere touches the box")
	}
	checkManifold(t, manifold, mgl64.Vec3{-1, 0, 0}, 1, 0.2)

	// Center inside the box: pushed through the nearest face.
	if !box3d.B3Collide(manifold, box, at(0, 0, 0), sphere, at(0, -0.8, 0)) {
		t.Fatalf("the sphere is inside the box")
	}
	checkManifold(t, manifold, mgl64.Vec3{0, -1, 0}, 1, 0.7)

	if box3d.B3Collide(manifold, box, at(0, 0, 0), sphere, at(2, 0, 0)) {
		t.Fatalf("the sphere does not touch the box")
	}
}

func TestCollideUnsupportedPair(t *testing.T) {
	box := box3d.NewB3BoxShape(mgl64.Vec3{1, 1, 1}, box3d.B3_objectMargin)
	capsule := box3d.NewB3CapsuleShape(0.5, 1.0)
	manifold := box3d.NewB3ContactManifold()

	if box3d.B3Collide(manifold, box, at(0, 0, 0), box, at(0.5, 0, 0)) {
		t.Fatalf("no algorithm for box-box")
	}
	if box3d.B3Collide(manifold, box, at(0, 0, 0), capsule, at(0.5, 0, 0)) {
		t.Fatalf("no algorithm for box-capsule")
	}
}
