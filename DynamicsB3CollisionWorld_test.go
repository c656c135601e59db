package box3d_test

import (
	"os"
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

func overlappingPairs(world *box3d.B3CollisionWorld) map[box3d.B3OverlappingPair]bool {
	pairs := map[box3d.B3OverlappingPair]bool{}
	world.ComputeOverlappingPairs(func(proxyShapeA, proxyShapeB box3d.B3Entity) {
		pairs[box3d.MakeB3OverlappingPair(proxyShapeA, proxyShapeB)] = true
	})
	return pairs
}

func touchingPairs(world *box3d.B3CollisionWorld) map[box3d.B3OverlappingPair]bool {
	pairs := map[box3d.B3OverlappingPair]bool{}
	world.TestCollision(func(proxyShapeA, proxyShapeB box3d.B3Entity, manifold *box3d.B3ContactManifold) {
		if manifold.PointCount == 0 {
			return
		}
		pairs[box3d.MakeB3OverlappingPair(proxyShapeA, proxyShapeB)] = true
	})
	return pairs
}

func TestCollisionWorld(t *testing.T) {
	world, err := box3d.NewB3CollisionWorld(box3d.MakeB3Settings())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	shape := world.CreateShape(box3d.NewB3SphereShape(1.0))

	bodyA := world.CreateCollisionBody(at(0, 0, 0))
	bodyB := world.CreateCollisionBody(at(1.5, 0, 0))
	bodyC := world.CreateCollisionBody(at(10, 0, 0))

	a, err := bodyA.AddCollisionShape(shape, box3d.MakeB3Transform(), 1.0)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	b, _ := bodyB.AddCollisionShape(shape, box3d.MakeB3Transform(), 1.0)
	c, _ := bodyC.AddCollisionShape(shape, box3d.MakeB3Transform(), 1.0)

	if world.GetBodyCount() != 3 || world.GetProxyCount() != 3 {
		t.Fatalf("unexpected counts %d %d", world.GetBodyCount(), world.GetProxyCount())
	}

	pairs := overlappingPairs(world)
	if len(pairs) != 1 || !pairs[box3d.MakeB3OverlappingPair(a, b)] {
		t.Fatalf("expected only the pair (%s, %s), got %v", a, b, pairs)
	}

	// C moves next to B.
	bodyC.SetTransform(at(2.5, 0, 0))

	pairs = overlappingPairs(world)
	if !pairs[box3d.MakeB3OverlappingPair(a, b)] || !pairs[box3d.MakeB3OverlappingPair(b, c)] {
		t.Fatalf("expected the pairs of B, got %v", pairs)
	}

	touching := touchingPairs(world)
	if len(touching) != 2 || !touching[box3d.MakeB3OverlappingPair(a, b)] || !touching[box3d.MakeB3OverlappingPair(b, c)] {
		t.Fatalf("unexpected touching pairs %v", touching)
	}

	// A mask of zero filters out every pair of C.
	if err := world.SetCollideWithMaskBits(c, 0); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	pairs = overlappingPairs(world)
	if len(pairs) != 1 || !pairs[box3d.MakeB3OverlappingPair(a, b)] {
		t.Fatalf("expected C to be filtered out, got %v", pairs)
	}

	// Two sleeping proxy shapes keep their pair but are not collided.
	bodyA.SetIsSleeping(true)
	bodyB.SetIsSleeping(true)

	if components := world.GetProxyShapesComponents(); components.GetSleepingStartIndex() != 1 || !components.GetIsEntitySleeping(a) {
		t.Fatalf("the rows of A and B should be sleeping")
	}
	if touching := touchingPairs(world); len(touching) != 0 {
		t.Fatalf("sleeping pairs must not be collided, got %v", touching)
	}
	if world.GetPairCount() != 1 {
		t.Fatalf("the sleeping pair was dropped")
	}

	bodyA.SetIsSleeping(false)
	bodyB.SetIsSleeping(false)

	// Closest hit along +x
	ray := box3d.MakeB3Ray(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{1, 0, 0})
	closest := box3d.MakeB3RaycastInfo()
	closest.HitFraction = 100.0
	world.RayCast(func(info box3d.B3RaycastInfo) float64 {
		if info.HitFraction < closest.HitFraction {
			closest = info
		}
		return info.HitFraction
	}, ray, 100.0)

	if closest.ProxyShape != a || closest.Body != bodyA.GetEntity() {
		t.Fatalf("expected to hit %s first, got %s", a, closest.ProxyShape)
	}
	if !floatNear(closest.HitFraction, 4.0) || !vec3Near(closest.WorldPoint, mgl64.Vec3{-1, 0, 0}) || !vec3Near(closest.WorldNormal, mgl64.Vec3{-1, 0, 0}) {
		t.Fatalf("unexpected hit %+v", closest)
	}

	inside := []box3d.B3Entity{}
	world.TestPointInside(func(proxyShape box3d.B3Entity) bool {
		inside = append(inside, proxyShape)
		return true
	}, mgl64.Vec3{1.2, 0, 0})
	if len(inside) != 1 || inside[0] != b {
		t.Fatalf("expected only %s to contain the point, got %v", b, inside)
	}

	// Proxy shapes of the same body never pair.
	a2, err := bodyA.AddCollisionShape(shape, box3d.MakeB3TransformFromPosition(mgl64.Vec3{0.5, 0, 0}), 1.0)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	pairs = overlappingPairs(world)
	if pairs[box3d.MakeB3OverlappingPair(a, a2)] {
		t.Fatalf("proxy shapes of the same body paired")
	}
	if !pairs[box3d.MakeB3OverlappingPair(a2, b)] {
		t.Fatalf("expected the pair (%s, %s), got %v", a2, b, pairs)
	}
	if bodyA.GetNbProxyShapes() != 2 {
		t.Fatalf("expected 2 proxy shapes on A, got %d", bodyA.GetNbProxyShapes())
	}

	if err := bodyA.RemoveCollisionShape(c); errors.Cause(err) != box3d.ErrUnknownEntity {
		t.Fatalf("expected an unknown entity, got %v", err)
	}
	if err := bodyA.RemoveCollisionShape(a2); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := world.GetProxyShape(a2); errors.Cause(err) != box3d.ErrUnknownEntity {
		t.Fatalf("expected an unknown entity, got %v", err)
	}
	if world.GetProxyShapesComponents().HasComponent(a2) {
		t.Fatalf("the row of %s was not removed", a2)
	}

	if err := world.DestroyShape(shape); errors.Cause(err) != box3d.ErrShapeInUse {
		t.Fatalf("expected the shape to be in use, got %v", err)
	}

	for _, body := range world.GetBodyList() {
		if err := world.DestroyCollisionBody(body); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}

	if world.GetBodyCount() != 0 || world.GetProxyCount() != 0 || world.GetPairCount() != 0 {
		t.Fatalf("the world should be empty")
	}
	if err := world.DestroyCollisionBody(bodyA); errors.Cause(err) != box3d.ErrUnknownEntity {
		t.Fatalf("expected an unknown body, got %v", err)
	}
	if err := world.DestroyShape(shape); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCollisionWorldLocalToBodyTransform(t *testing.T) {
	world, _ := box3d.NewB3CollisionWorld(box3d.MakeB3Settings())

	shape := world.CreateShape(box3d.NewB3SphereShape(1.0))
	body := world.CreateCollisionBody(at(1.5, 0, 0))
	proxyShape, _ := body.AddCollisionShape(shape, box3d.MakeB3Transform(), 1.0)

	if err := world.SetLocalToBodyTransform(proxyShape, box3d.MakeB3TransformFromPosition(mgl64.Vec3{0, 3, 0})); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	proxy, err := world.GetProxyShape(proxyShape)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if proxy.GetLocalToBodyTransform().P != (mgl64.Vec3{0, 3, 0}) {
		t.Fatalf("the proxy shape was not updated")
	}

	components := world.GetProxyShapesComponents()
	if components.GetLocalToBodyTransform(proxyShape).P != (mgl64.Vec3{0, 3, 0}) {
		t.Fatalf("the row was not updated")
	}

	fat := world.M_contactManager.M_broadPhase.GetFatAABB(components.GetBroadPhaseId(proxyShape))
	if !fat.Contains(box3d.MakeB3AABBFromBounds(mgl64.Vec3{0.5, 2, -1}, mgl64.Vec3{2.5, 4, 1})) {
		t.Fatalf("the broad-phase proxy was not moved: %v", fat)
	}

	if !body.TestPointInside(mgl64.Vec3{1.5, 3.5, 0}) || body.TestPointInside(mgl64.Vec3{1.5, 0, 0}) {
		t.Fatalf("unexpected point containment")
	}

	if err := world.SetLocalToBodyTransform(box3d.MakeB3Entity(99, 0), box3d.MakeB3Transform()); errors.Cause(err) != box3d.ErrUnknownEntity {
		t.Fatalf("expected an unknown entity, got %v", err)
	}
}

func TestCollisionWorldShiftOrigin(t *testing.T) {
	world, _ := box3d.NewB3CollisionWorld(box3d.MakeB3Settings())

	shape := world.CreateShape(box3d.NewB3SphereShape(1.0))
	body := world.CreateCollisionBody(at(10, 0, 0))
	proxyShape, _ := body.AddCollisionShape(shape, box3d.MakeB3Transform(), 1.0)

	world.ShiftOrigin(mgl64.Vec3{10, 0, 0})

	if !vec3Near(body.GetPosition(), mgl64.Vec3{0, 0, 0}) {
		t.Fatalf("unexpected shifted position %v", body.GetPosition())
	}

	found := false
	world.QueryAABB(func(e box3d.B3Entity) bool {
		found = e == proxyShape
		return false
	}, box3d.MakeB3AABBFromBounds(mgl64.Vec3{-0.5, -0.5, -0.5}, mgl64.Vec3{0.5, 0.5, 0.5}))
	if !found {
		t.Fatalf("the broad-phase was not shifted")
	}
}

func TestCollisionWorldSettings(t *testing.T) {
	settings := box3d.MakeB3Settings()
	settings.AABBExtension = -1.0
	if _, err := box3d.NewB3CollisionWorld(settings); errors.Cause(err) != box3d.ErrInvalidSettings {
		t.Fatalf("expected invalid settings, got %v", err)
	}

	data, err := os.ReadFile("testdata/settings.yaml")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	world, err := box3d.NewB3CollisionWorldFromYAML(data)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	shape := world.CreateShape(box3d.NewB3SphereShape(1.0))
	body := world.CreateCollisionBody(at(0, 0, 0))
	proxyShape, _ := body.AddCollisionShape(shape, box3d.MakeB3Transform(), 1.0)

	components := world.GetProxyShapesComponents()
	if components.GetCollisionCategoryBits(proxyShape) != 2 || components.GetCollideWithMaskBits(proxyShape) != 0xFFFD {
		t.Fatalf("the default filter bits were not taken from the settings")
	}
	if components.GetNbAllocatedComponents() != 64 {
		t.Fatalf("unexpected capacity %d", components.GetNbAllocatedComponents())
	}

	box, err := world.GetShape(world.CreateBoxShape(mgl64.Vec3{1, 2, 3}))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if box.GetType() != box3d.B3Shape_Type.E_box || box.GetMargin() != box3d.B3_objectMargin {
		t.Fatalf("unexpected box %v", box)
	}
}
