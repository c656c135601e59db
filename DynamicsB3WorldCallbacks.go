package box3d

/// This holds contact filtering data of a proxy shape.
type B3Filter struct {
	/// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16

	/// The collision mask bits. This states the categories that this
	/// shape would accept for collision.
	MaskBits uint16

	ProxyShape B3Entity
	Body       B3Entity
}

type B3ContactFilterInterface interface {
	ShouldCollide(filterA B3Filter, filterB B3Filter) bool
}

type B3ContactFilter struct {
}

// Return true if contact calculations should be performed between these two shapes.
// If you implement your own collision filter you may want to build from this implementation.
func (cf *B3ContactFilter) ShouldCollide(filterA B3Filter, filterB B3Filter) bool {
	collide := (filterA.MaskBits&filterB.CategoryBits) != 0 && (filterA.CategoryBits&filterB.MaskBits) != 0
	return collide
}

/// Called for each proxy shape found in an AABB query.
/// @return false to terminate the query.
type B3BroadPhaseQueryCallback func(proxyShape B3Entity) bool

/// Called for each proxy shape hit by a ray. You control how the ray cast
/// proceeds by returning a float:
/// return -1: ignore this proxy shape and continue
/// return 0: terminate the ray cast
/// return fraction: clip the ray to this point
/// return maxDistance: don't clip the ray and continue
/// @param info the hit point, normal, fraction and entities of the hit
type B3RaycastCallback func(info B3RaycastInfo) float64

/// Called for each pair of proxy shapes whose fat AABBs overlap.
type B3OverlapCallback func(proxyShapeA B3Entity, proxyShapeB B3Entity)

/// Called for each pair of touching proxy shapes with their contact manifold.
type B3CollisionCallback func(proxyShapeA B3Entity, proxyShapeB B3Entity, manifold *B3ContactManifold)
