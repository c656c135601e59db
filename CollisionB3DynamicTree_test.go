package box3d_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
)

func makeUnitAABB(center mgl64.Vec3) box3d.B3AABB {
	half := mgl64.Vec3{0.5, 0.5, 0.5}
	return box3d.MakeB3AABBFromBounds(center.Sub(half), center.Add(half))
}

func TestDynamicTreeProxies(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := box3d.NewB3DynamicTree(box3d.MakeB3Settings())

	centers := map[int]mgl64.Vec3{}
	for i := 0; i < 100; i++ {
		center := mgl64.Vec3{rng.Float64() * 50, rng.Float64() * 50, rng.Float64() * 50}
		proxyId := tree.CreateProxy(makeUnitAABB(center), box3d.MakeB3Entity(uint32(i), 0))
		centers[proxyId] = center
	}
	tree.Validate()

	if tree.GetNodeCount() != 2*100-1 {
		t.Fatalf("unexpected node count %d", tree.GetNodeCount())
	}

	// A binary tree with 100 leaves is at least 7 levels high.
	if tree.GetHeight() < 7 || tree.GetMaxBalance() < 0 {
		t.Fatalf("unexpected height %d", tree.GetHeight())
	}

	// The query returns exactly the leaves whose fat AABB overlaps.
	query := box3d.MakeB3AABBFromBounds(mgl64.Vec3{10, 10, 10}, mgl64.Vec3{30, 30, 30})
	found := map[int]bool{}
	tree.Query(func(nodeId int) bool {
		found[nodeId] = true
		return true
	}, query)

	for proxyId := range centers {
		expected := box3d.B3TestOverlapBoundingBoxes(tree.GetFatAABB(proxyId), query)
		if found[proxyId] != expected {
			t.Fatalf("proxy %d: found=%v expected=%v", proxyId, found[proxyId], expected)
		}
	}

	// Small moves stay inside the fat AABB.
	for proxyId, center := range centers {
		moved := tree.MoveProxy(proxyId, makeUnitAABB(center.Add(mgl64.Vec3{0.01, 0, 0})), mgl64.Vec3{0.01, 0, 0})
		if moved {
			t.Fatalf("proxy %d should not be re-inserted", proxyId)
		}
	}

	// Large moves re-insert the leaf with a predicted AABB.
	for proxyId, center := range centers {
		displacement := mgl64.Vec3{5, 0, -5}
		aabb := makeUnitAABB(center.Add(displacement))
		if !tree.MoveProxy(proxyId, aabb, displacement) {
			t.Fatalf("proxy %d should be re-inserted", proxyId)
		}
		if !tree.GetFatAABB(proxyId).Contains(aabb) {
			t.Fatalf("proxy %d: the fat AABB does not contain the AABB", proxyId)
		}
	}
	tree.Validate()

	// Remove half of the proxies.
	ids := make([]int, 0, len(centers))
	for proxyId := range centers {
		ids = append(ids, proxyId)
	}
	sort.Ints(ids)
	for _, proxyId := range ids[:50] {
		tree.DestroyProxy(proxyId)
	}
	tree.Validate()

	if tree.GetNodeCount() != 2*50-1 {
		t.Fatalf("unexpected node count %d", tree.GetNodeCount())
	}

	tree.RebuildBottomUp()
	tree.Validate()

	if tree.GetAreaRatio() < 1.0 {
		t.Fatalf("the area ratio includes the root: %v", tree.GetAreaRatio())
	}
}

func TestDynamicTreeRayCast(t *testing.T) {
	tree := box3d.NewB3DynamicTree(box3d.MakeB3Settings())

	near := tree.CreateProxy(makeUnitAABB(mgl64.Vec3{5, 0, 0}), box3d.MakeB3Entity(1, 0))
	far := tree.CreateProxy(makeUnitAABB(mgl64.Vec3{10, 0, 0}), box3d.MakeB3Entity(2, 0))
	tree.CreateProxy(makeUnitAABB(mgl64.Vec3{5, 5, 0}), box3d.MakeB3Entity(3, 0))

	ray := box3d.MakeB3Ray(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0})

	hits := map[int]bool{}
	tree.RayCast(func(ray box3d.B3Ray, maxDistance float64, nodeId int) float64 {
		hits[nodeId] = true
		return -1.0
	}, ray, 100.0)

	if len(hits) != 2 || !hits[near] || !hits[far] {
		t.Fatalf("unexpected hits %v", hits)
	}

	// Terminating at the first leaf visits only one leaf.
	count := 0
	tree.RayCast(func(ray box3d.B3Ray, maxDistance float64, nodeId int) float64 {
		count++
		return 0.0
	}, ray, 100.0)
	if count != 1 {
		t.Fatalf("expected the cast to stop after one leaf, got %d", count)
	}

	// A short ray only reaches the near box.
	hits = map[int]bool{}
	tree.RayCast(func(ray box3d.B3Ray, maxDistance float64, nodeId int) float64 {
		hits[nodeId] = true
		return maxDistance
	}, ray, 6.0)
	if len(hits) != 1 || !hits[near] {
		t.Fatalf("unexpected hits for a short ray %v", hits)
	}
}

func TestDynamicTreeShiftOrigin(t *testing.T) {
	tree := box3d.NewB3DynamicTree(box3d.MakeB3Settings())
	proxyId := tree.CreateProxy(makeUnitAABB(mgl64.Vec3{5, 5, 5}), box3d.MakeB3Entity(1, 0))

	before := tree.GetFatAABB(proxyId)
	tree.ShiftOrigin(mgl64.Vec3{5, 0, 0})
	after := tree.GetFatAABB(proxyId)

	if !vec3Near(after.LowerBound, before.LowerBound.Sub(mgl64.Vec3{5, 0, 0})) {
		t.Fatalf("unexpected shifted AABB %v", after)
	}
}

func TestBroadPhasePairs(t *testing.T) {
	bp := box3d.NewB3BroadPhase(box3d.MakeB3Settings())

	eA := box3d.MakeB3Entity(1, 0)
	eB := box3d.MakeB3Entity(2, 0)
	eC := box3d.MakeB3Entity(3, 0)

	idA := bp.CreateProxy(makeUnitAABB(mgl64.Vec3{0, 0, 0}), eA)
	idB := bp.CreateProxy(makeUnitAABB(mgl64.Vec3{0.8, 0, 0}), eB)
	idC := bp.CreateProxy(makeUnitAABB(mgl64.Vec3{10, 0, 0}), eC)

	if bp.GetProxyCount() != 3 || bp.GetMoveCount() != 3 {
		t.Fatalf("unexpected counts %d %d", bp.GetProxyCount(), bp.GetMoveCount())
	}

	type pair struct{ a, b box3d.B3Entity }
	collect := func() []pair {
		pairs := []pair{}
		bp.UpdatePairs(func(a, b box3d.B3Entity) {
			pairs = append(pairs, pair{a, b})
		})
		return pairs
	}

	// Each pair is reported once even though both proxies moved.
	pairs := collect()
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %v", pairs)
	}
	if !((pairs[0].a == eA && pairs[0].b == eB) || (pairs[0].a == eB && pairs[0].b == eA)) {
		t.Fatalf("unexpected pair %v", pairs[0])
	}

	if !bp.TestOverlap(idA, idB) || bp.TestOverlap(idA, idC) {
		t.Fatalf("unexpected overlap results")
	}

	// Nothing moved.
	if pairs := collect(); len(pairs) != 0 {
		t.Fatalf("expected no new pair, got %v", pairs)
	}

	// C moves next to A.
	bp.MoveProxy(idC, makeUnitAABB(mgl64.Vec3{-0.8, 0, 0}), mgl64.Vec3{-10.8, 0, 0})
	pairs = collect()
	if len(pairs) != 1 {
		t.Fatalf("expected one new pair, got %v", pairs)
	}

	// A destroyed proxy is no longer reported.
	bp.TouchProxy(idB)
	bp.DestroyProxy(idB)
	for _, p := range collect() {
		if p.a == eB || p.b == eB {
			t.Fatalf("destroyed proxy reported in %v", p)
		}
	}

	if bp.GetUserData(idA) != eA {
		t.Fatalf("unexpected user data %s", bp.GetUserData(idA))
	}
}

func TestAABB(t *testing.T) {
	a := box3d.MakeB3AABBFromBounds(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 4, 6})

	if a.GetCenter() != (mgl64.Vec3{1, 2, 3}) || a.GetExtents() != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("unexpected center/extents %v %v", a.GetCenter(), a.GetExtents())
	}
	if a.GetVolume() != 48 || a.GetSurfaceArea() != 2*(8+24+12) {
		t.Fatalf("unexpected volume/area %v %v", a.GetVolume(), a.GetSurfaceArea())
	}

	b := box3d.MakeB3AABBFromBounds(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{3, 3, 3})
	if !box3d.B3TestOverlapBoundingBoxes(a, b) {
		t.Fatalf("the boxes overlap")
	}

	c := a
	c.CombineInPlace(b)
	if !c.Contains(a) || !c.Contains(b) || c.UpperBound != (mgl64.Vec3{3, 4, 6}) {
		t.Fatalf("unexpected combined box %v", c)
	}

	if !a.ContainsPoint(mgl64.Vec3{1, 1, 1}) || a.ContainsPoint(mgl64.Vec3{-1, 1, 1}) {
		t.Fatalf("unexpected point containment")
	}

	// Starting inside: no hit for RayCast but TestRayOverlap succeeds.
	inside := box3d.MakeB3Ray(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 0, 0})
	if _, _, hit := a.RayCast(inside, 100); hit {
		t.Fatalf("a ray starting inside does not hit")
	}
	if !a.TestRayOverlap(inside, 100) {
		t.Fatalf("a ray starting inside overlaps")
	}

	ray := box3d.MakeB3Ray(mgl64.Vec3{1, 10, 1}, mgl64.Vec3{0, -1, 0})
	fraction, normal, hit := a.RayCast(ray, 100)
	if !hit || fraction != 6 || normal != (mgl64.Vec3{0, 1, 0}) {
		t.Fatalf("unexpected hit %v %v %v", fraction, normal, hit)
	}
	if a.TestRayOverlap(ray, 5) {
		t.Fatalf("the box is beyond the max distance")
	}
}
