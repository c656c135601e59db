package box3d

import (
	"sort"
)

/// Two proxy shapes whose fat AABBs overlap. ProxyShapeA < ProxyShapeB.
type B3OverlappingPair struct {
	ProxyShapeA B3Entity
	ProxyShapeB B3Entity
}

func MakeB3OverlappingPair(proxyShapeA, proxyShapeB B3Entity) B3OverlappingPair {
	if proxyShapeB < proxyShapeA {
		proxyShapeA, proxyShapeB = proxyShapeB, proxyShapeA
	}
	return B3OverlappingPair{
		ProxyShapeA: proxyShapeA,
		ProxyShapeB: proxyShapeB,
	}
}

/// Delegate of the collision world. Keeps the set of overlapping pairs found
/// by the broad-phase and drops the pairs that stop overlapping.
type B3ContactManager struct {
	M_broadPhase B3BroadPhase

	/// Rows of the proxy shapes, owned by the world.
	M_proxyShapesComponents *B3ProxyShapesComponents

	M_pairs map[B3OverlappingPair]struct{}

	M_contactFilter B3ContactFilterInterface
}

func MakeB3ContactManager(settings B3Settings, components *B3ProxyShapesComponents) B3ContactManager {
	return B3ContactManager{
		M_broadPhase:            MakeB3BroadPhase(settings),
		M_proxyShapesComponents: components,
		M_pairs:                 make(map[B3OverlappingPair]struct{}),
		M_contactFilter:         &B3ContactFilter{},
	}
}

func (mgr B3ContactManager) GetPairCount() int {
	return len(mgr.M_pairs)
}

func (mgr B3ContactManager) HasPair(proxyShapeA, proxyShapeB B3Entity) bool {
	_, ok := mgr.M_pairs[MakeB3OverlappingPair(proxyShapeA, proxyShapeB)]
	return ok
}

/// Current pairs ordered by entity.
func (mgr B3ContactManager) GetPairs() []B3OverlappingPair {
	pairs := make([]B3OverlappingPair, 0, len(mgr.M_pairs))
	for pair := range mgr.M_pairs {
		pairs = append(pairs, pair)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].ProxyShapeA != pairs[j].ProxyShapeA {
			return pairs[i].ProxyShapeA < pairs[j].ProxyShapeA
		}
		return pairs[i].ProxyShapeB < pairs[j].ProxyShapeB
	})

	return pairs
}

func (mgr B3ContactManager) GetFilter(proxyShape B3Entity) B3Filter {
	components := mgr.M_proxyShapesComponents
	return B3Filter{
		CategoryBits: components.GetCollisionCategoryBits(proxyShape),
		MaskBits:     components.GetCollideWithMaskBits(proxyShape),
		ProxyShape:   proxyShape,
		Body:         components.GetBodyEntity(proxyShape),
	}
}

func (mgr B3ContactManager) shouldCollide(proxyShapeA, proxyShapeB B3Entity) bool {
	filterA := mgr.GetFilter(proxyShapeA)
	filterB := mgr.GetFilter(proxyShapeB)

	// Are the proxy shapes on the same body?
	if filterA.Body == filterB.Body {
		return false
	}

	// Check user filtering.
	if mgr.M_contactFilter != nil && !mgr.M_contactFilter.ShouldCollide(filterA, filterB) {
		return false
	}

	return true
}

func (mgr *B3ContactManager) FindNewContacts() {
	mgr.M_broadPhase.UpdatePairs(mgr.AddPair)
}

func (mgr *B3ContactManager) AddPair(proxyShapeA B3Entity, proxyShapeB B3Entity) {
	pair := MakeB3OverlappingPair(proxyShapeA, proxyShapeB)

	// Does the pair already exist?
	if _, ok := mgr.M_pairs[pair]; ok {
		return
	}

	if !mgr.shouldCollide(proxyShapeA, proxyShapeB) {
		return
	}

	mgr.M_pairs[pair] = struct{}{}
}

// Drop the pairs that no longer pass the filter or whose fat AABBs stopped
// overlapping. Pairs between two sleeping proxy shapes are kept as they are.
func (mgr *B3ContactManager) Collide() {
	components := mgr.M_proxyShapesComponents

	for pair := range mgr.M_pairs {
		if !mgr.shouldCollide(pair.ProxyShapeA, pair.ProxyShapeB) {
			delete(mgr.M_pairs, pair)
			continue
		}

		sleepingA := components.GetIsEntitySleeping(pair.ProxyShapeA)
		sleepingB := components.GetIsEntitySleeping(pair.ProxyShapeB)

		// At least one proxy shape must be awake.
		if sleepingA && sleepingB {
			continue
		}

		proxyIdA := components.GetBroadPhaseId(pair.ProxyShapeA)
		proxyIdB := components.GetBroadPhaseId(pair.ProxyShapeB)

		// Here we destroy pairs that cease to overlap in the broad-phase.
		if !mgr.M_broadPhase.TestOverlap(proxyIdA, proxyIdB) {
			delete(mgr.M_pairs, pair)
		}
	}
}

/// Forget every pair involving the proxy shape.
func (mgr *B3ContactManager) DestroyPairs(proxyShape B3Entity) {
	for pair := range mgr.M_pairs {
		if pair.ProxyShapeA == proxyShape || pair.ProxyShapeB == proxyShape {
			delete(mgr.M_pairs, pair)
		}
	}
}
