package box3d

import (
	"fmt"
	"io"
)

/// The data of one proxy shape row.
type B3ProxyShapeComponent struct {
	BodyEntity B3Entity

	/// Proxy shape in the shape repository (not owned).
	ProxyShape B3Handle

	/// Id of the proxy in the broad-phase, -1 if unassigned.
	BroadPhaseId int

	/// Local-space bounds of the shape.
	LocalBounds B3AABB

	/// Transform from the local space of the shape to the space of its body.
	LocalToBodyTransform B3Transform

	/// Collision shape in the shape repository (not owned).
	CollisionShape B3Handle

	/// Mass in kilograms.
	Mass float64

	/// The collision category bits. Normally you would just set one bit.
	CollisionCategoryBits uint16

	/// The collision mask bits. This states the categories that this
	/// shape would accept for collision.
	CollideWithMaskBits uint16
}

func MakeB3ProxyShapeComponent(bodyEntity B3Entity, proxyShape B3Handle, localBounds B3AABB, localToBodyTransform B3Transform, collisionShape B3Handle, mass float64) B3ProxyShapeComponent {
	return B3ProxyShapeComponent{
		BodyEntity:            bodyEntity,
		ProxyShape:            proxyShape,
		BroadPhaseId:          E_nullProxy,
		LocalBounds:           localBounds,
		LocalToBodyTransform:  localToBodyTransform,
		CollisionShape:        collisionShape,
		Mass:                  mass,
		CollisionCategoryBits: B3_defaultCollisionCategoryBits,
		CollideWithMaskBits:   B3_defaultCollideWithMaskBits,
	}
}

/// Components table holding one row per proxy shape, keyed by the proxy-shape
/// entity. Each field is stored in its own column. The rows of sleeping
/// entities are always stored after the rows of awake entities: the rows
/// [0, sleepingStartIndex) are awake and [sleepingStartIndex, nbComponents)
/// are sleeping. Removal and sleep changes swap rows, so the order inside each
/// partition is not stable.
type B3ProxyShapesComponents struct {
	m_nbComponents          int
	m_nbAllocatedComponents int

	/// Index of the first row of a sleeping entity.
	m_sleepingStartIndex int

	m_mapEntityToComponentIndex map[B3Entity]int

	m_proxyShapesEntities   []B3Entity
	m_bodiesEntities        []B3Entity
	m_proxyShapes           []B3Handle
	m_broadPhaseIds         []int
	m_localBounds           []B3AABB
	m_localToBodyTransforms []B3Transform
	m_collisionShapes       []B3Handle
	m_masses                []float64
	m_collisionCategoryBits []uint16
	m_collideWithMaskBits   []uint16
}

func MakeB3ProxyShapesComponents(capacity int) B3ProxyShapesComponents {
	B3Assert(capacity >= 0)

	components := B3ProxyShapesComponents{
		m_mapEntityToComponentIndex: make(map[B3Entity]int, capacity),
	}
	components.Allocate(capacity)

	return components
}

func NewB3ProxyShapesComponents(capacity int) *B3ProxyShapesComponents {
	res := MakeB3ProxyShapesComponents(capacity)
	return &res
}

func b3GrowColumn[T any](column []T, nbComponents int, capacity int) []T {
	res := make([]T, capacity)
	copy(res, column[:nbComponents])
	return res
}

/// Make room for at least minCapacity rows. Existing rows keep their index.
func (components *B3ProxyShapesComponents) Allocate(minCapacity int) {
	if minCapacity <= components.m_nbAllocatedComponents {
		return
	}

	n := components.m_nbComponents
	components.m_proxyShapesEntities = b3GrowColumn(components.m_proxyShapesEntities, n, minCapacity)
	components.m_bodiesEntities = b3GrowColumn(components.m_bodiesEntities, n, minCapacity)
	components.m_proxyShapes = b3GrowColumn(components.m_proxyShapes, n, minCapacity)
	components.m_broadPhaseIds = b3GrowColumn(components.m_broadPhaseIds, n, minCapacity)
	components.m_localBounds = b3GrowColumn(components.m_localBounds, n, minCapacity)
	components.m_localToBodyTransforms = b3GrowColumn(components.m_localToBodyTransforms, n, minCapacity)
	components.m_collisionShapes = b3GrowColumn(components.m_collisionShapes, n, minCapacity)
	components.m_masses = b3GrowColumn(components.m_masses, n, minCapacity)
	components.m_collisionCategoryBits = b3GrowColumn(components.m_collisionCategoryBits, n, minCapacity)
	components.m_collideWithMaskBits = b3GrowColumn(components.m_collideWithMaskBits, n, minCapacity)

	components.m_nbAllocatedComponents = minCapacity
}

/// Add a row for a proxy-shape entity.
func (components *B3ProxyShapesComponents) AddComponent(proxyShapeEntity B3Entity, isSleeping bool, component B3ProxyShapeComponent) {
	_, exists := components.m_mapEntityToComponentIndex[proxyShapeEntity]
	B3Assert(!exists)

	// Grow the columns as needed.
	if components.m_nbComponents == components.m_nbAllocatedComponents {
		components.Allocate(MaxInt(2*components.m_nbAllocatedComponents, B3_initComponentsCapacity))
	}

	var index int

	if isSleeping {
		// Sleeping rows go at the end.
		index = components.m_nbComponents
	} else {
		// Awake rows go at the boundary. The first sleeping row, if any, moves
		// to the end to make room.
		if components.m_sleepingStartIndex != components.m_nbComponents {
			components.moveComponentToIndex(components.m_sleepingStartIndex, components.m_nbComponents)
		}

		index = components.m_sleepingStartIndex
		components.m_sleepingStartIndex++
	}

	components.m_proxyShapesEntities[index] = proxyShapeEntity
	components.m_bodiesEntities[index] = component.BodyEntity
	components.m_proxyShapes[index] = component.ProxyShape
	components.m_broadPhaseIds[index] = component.BroadPhaseId
	components.m_localBounds[index] = component.LocalBounds
	components.m_localToBodyTransforms[index] = component.LocalToBodyTransform
	components.m_collisionShapes[index] = component.CollisionShape
	components.m_masses[index] = component.Mass
	components.m_collisionCategoryBits[index] = component.CollisionCategoryBits
	components.m_collideWithMaskBits[index] = component.CollideWithMaskBits

	components.m_mapEntityToComponentIndex[proxyShapeEntity] = index

	components.m_nbComponents++
}

/// Remove the row of a proxy-shape entity. The proxy shape and the collision
/// shape it refers to are not destroyed.
func (components *B3ProxyShapesComponents) RemoveComponent(proxyShapeEntity B3Entity) {
	index := components.componentIndex(proxyShapeEntity)

	delete(components.m_mapEntityToComponentIndex, proxyShapeEntity)

	lastIndex := components.m_nbComponents - 1

	if index < components.m_sleepingStartIndex {
		// Fill the hole with the last awake row, then fill the last awake slot
		// with the last row so the sleeping rows stay contiguous.
		lastAwakeIndex := components.m_sleepingStartIndex - 1

		if index != lastAwakeIndex {
			components.moveComponentToIndex(lastAwakeIndex, index)
		}

		if components.m_sleepingStartIndex != components.m_nbComponents {
			components.moveComponentToIndex(lastIndex, lastAwakeIndex)
		}

		components.m_sleepingStartIndex--
	} else {
		if index != lastIndex {
			components.moveComponentToIndex(lastIndex, index)
		}
	}

	// The last slot is always vacated.
	components.clearComponent(lastIndex)

	components.m_nbComponents--
}

/// Move the row of an entity to the sleeping or awake partition. Nothing
/// happens if the row is already in the right partition.
func (components *B3ProxyShapesComponents) SetIsEntitySleeping(proxyShapeEntity B3Entity, isSleeping bool) {
	index := components.componentIndex(proxyShapeEntity)

	if isSleeping && index < components.m_sleepingStartIndex {
		// Swap with the last awake row.
		components.swapComponents(index, components.m_sleepingStartIndex-1)
		components.m_sleepingStartIndex--
	} else if !isSleeping && index >= components.m_sleepingStartIndex {
		// Swap with the first sleeping row.
		components.swapComponents(index, components.m_sleepingStartIndex)
		components.m_sleepingStartIndex++
	}
}

// Copy a row over another one. The source slot still holds a copy.
func (components *B3ProxyShapesComponents) moveComponentToIndex(srcIndex, destIndex int) {
	entity := components.m_proxyShapesEntities[srcIndex]

	components.m_proxyShapesEntities[destIndex] = entity
	components.m_bodiesEntities[destIndex] = components.m_bodiesEntities[srcIndex]
	components.m_proxyShapes[destIndex] = components.m_proxyShapes[srcIndex]
	components.m_broadPhaseIds[destIndex] = components.m_broadPhaseIds[srcIndex]
	components.m_localBounds[destIndex] = components.m_localBounds[srcIndex]
	components.m_localToBodyTransforms[destIndex] = components.m_localToBodyTransforms[srcIndex]
	components.m_collisionShapes[destIndex] = components.m_collisionShapes[srcIndex]
	components.m_masses[destIndex] = components.m_masses[srcIndex]
	components.m_collisionCategoryBits[destIndex] = components.m_collisionCategoryBits[srcIndex]
	components.m_collideWithMaskBits[destIndex] = components.m_collideWithMaskBits[srcIndex]

	components.m_mapEntityToComponentIndex[entity] = destIndex
}

func (components *B3ProxyShapesComponents) swapComponents(index1, index2 int) {
	if index1 == index2 {
		return
	}

	c := components
	c.m_proxyShapesEntities[index1], c.m_proxyShapesEntities[index2] = c.m_proxyShapesEntities[index2], c.m_proxyShapesEntities[index1]
	c.m_bodiesEntities[index1], c.m_bodiesEntities[index2] = c.m_bodiesEntities[index2], c.m_bodiesEntities[index1]
	c.m_proxyShapes[index1], c.m_proxyShapes[index2] = c.m_proxyShapes[index2], c.m_proxyShapes[index1]
	c.m_broadPhaseIds[index1], c.m_broadPhaseIds[index2] = c.m_broadPhaseIds[index2], c.m_broadPhaseIds[index1]
	c.m_localBounds[index1], c.m_localBounds[index2] = c.m_localBounds[index2], c.m_localBounds[index1]
	c.m_localToBodyTransforms[index1], c.m_localToBodyTransforms[index2] = c.m_localToBodyTransforms[index2], c.m_localToBodyTransforms[index1]
	c.m_collisionShapes[index1], c.m_collisionShapes[index2] = c.m_collisionShapes[index2], c.m_collisionShapes[index1]
	c.m_masses[index1], c.m_masses[index2] = c.m_masses[index2], c.m_masses[index1]
	c.m_collisionCategoryBits[index1], c.m_collisionCategoryBits[index2] = c.m_collisionCategoryBits[index2], c.m_collisionCategoryBits[index1]
	c.m_collideWithMaskBits[index1], c.m_collideWithMaskBits[index2] = c.m_collideWithMaskBits[index2], c.m_collideWithMaskBits[index1]

	c.m_mapEntityToComponentIndex[c.m_proxyShapesEntities[index1]] = index1
	c.m_mapEntityToComponentIndex[c.m_proxyShapesEntities[index2]] = index2
}

// Forget the content of a slot that is no longer used.
func (components *B3ProxyShapesComponents) clearComponent(index int) {
	components.m_proxyShapesEntities[index] = 0
	components.m_bodiesEntities[index] = 0
	components.m_proxyShapes[index] = B3Handle_null
	components.m_broadPhaseIds[index] = E_nullProxy
	components.m_localBounds[index] = B3AABB{}
	components.m_localToBodyTransforms[index] = B3Transform{}
	components.m_collisionShapes[index] = B3Handle_null
	components.m_masses[index] = 0.0
	components.m_collisionCategoryBits[index] = 0
	components.m_collideWithMaskBits[index] = 0
}

func (components B3ProxyShapesComponents) componentIndex(proxyShapeEntity B3Entity) int {
	index, ok := components.m_mapEntityToComponentIndex[proxyShapeEntity]
	B3Assert(ok)
	return index
}

///////////////////////////////////////////////////////////////////////////////

func (components B3ProxyShapesComponents) HasComponent(proxyShapeEntity B3Entity) bool {
	_, ok := components.m_mapEntityToComponentIndex[proxyShapeEntity]
	return ok
}

func (components B3ProxyShapesComponents) GetComponentIndex(proxyShapeEntity B3Entity) int {
	return components.componentIndex(proxyShapeEntity)
}

func (components B3ProxyShapesComponents) GetNbComponents() int {
	return components.m_nbComponents
}

func (components B3ProxyShapesComponents) GetNbAllocatedComponents() int {
	return components.m_nbAllocatedComponents
}

func (components B3ProxyShapesComponents) GetSleepingStartIndex() int {
	return components.m_sleepingStartIndex
}

func (components B3ProxyShapesComponents) GetIsEntitySleeping(proxyShapeEntity B3Entity) bool {
	return components.componentIndex(proxyShapeEntity) >= components.m_sleepingStartIndex
}

func (components B3ProxyShapesComponents) GetBodyEntity(proxyShapeEntity B3Entity) B3Entity {
	return components.m_bodiesEntities[components.componentIndex(proxyShapeEntity)]
}

func (components B3ProxyShapesComponents) GetMass(proxyShapeEntity B3Entity) float64 {
	return components.m_masses[components.componentIndex(proxyShapeEntity)]
}

func (components B3ProxyShapesComponents) GetProxyShape(proxyShapeEntity B3Entity) B3Handle {
	return components.m_proxyShapes[components.componentIndex(proxyShapeEntity)]
}

func (components B3ProxyShapesComponents) GetLocalToBodyTransform(proxyShapeEntity B3Entity) B3Transform {
	return components.m_localToBodyTransforms[components.componentIndex(proxyShapeEntity)]
}

func (components *B3ProxyShapesComponents) SetLocalToBodyTransform(proxyShapeEntity B3Entity, transform B3Transform) {
	components.m_localToBodyTransforms[components.componentIndex(proxyShapeEntity)] = transform
}

func (components B3ProxyShapesComponents) GetLocalBounds(proxyShapeEntity B3Entity) B3AABB {
	return components.m_localBounds[components.componentIndex(proxyShapeEntity)]
}

func (components *B3ProxyShapesComponents) SetLocalBounds(proxyShapeEntity B3Entity, bounds B3AABB) {
	components.m_localBounds[components.componentIndex(proxyShapeEntity)] = bounds
}

func (components B3ProxyShapesComponents) GetCollisionShape(proxyShapeEntity B3Entity) B3Handle {
	return components.m_collisionShapes[components.componentIndex(proxyShapeEntity)]
}

func (components B3ProxyShapesComponents) GetBroadPhaseId(proxyShapeEntity B3Entity) int {
	return components.m_broadPhaseIds[components.componentIndex(proxyShapeEntity)]
}

func (components *B3ProxyShapesComponents) SetBroadPhaseId(proxyShapeEntity B3Entity, broadPhaseId int) {
	components.m_broadPhaseIds[components.componentIndex(proxyShapeEntity)] = broadPhaseId
}

func (components B3ProxyShapesComponents) GetCollisionCategoryBits(proxyShapeEntity B3Entity) uint16 {
	return components.m_collisionCategoryBits[components.componentIndex(proxyShapeEntity)]
}

func (components *B3ProxyShapesComponents) SetCollisionCategoryBits(proxyShapeEntity B3Entity, collisionCategoryBits uint16) {
	components.m_collisionCategoryBits[components.componentIndex(proxyShapeEntity)] = collisionCategoryBits
}

func (components B3ProxyShapesComponents) GetCollideWithMaskBits(proxyShapeEntity B3Entity) uint16 {
	return components.m_collideWithMaskBits[components.componentIndex(proxyShapeEntity)]
}

func (components *B3ProxyShapesComponents) SetCollideWithMaskBits(proxyShapeEntity B3Entity, collideWithMaskBits uint16) {
	components.m_collideWithMaskBits[components.componentIndex(proxyShapeEntity)] = collideWithMaskBits
}

///////////////////////////////////////////////////////////////////////////////

/// Visit the rows of awake entities in index order. Stop when callback
/// returns false. The table must not be modified during the visit.
func (components B3ProxyShapesComponents) QueryAwake(callback func(proxyShapeEntity B3Entity) bool) {
	for i := 0; i < components.m_sleepingStartIndex; i++ {
		if !callback(components.m_proxyShapesEntities[i]) {
			return
		}
	}
}

/// Visit the rows of sleeping entities in index order.
func (components B3ProxyShapesComponents) QuerySleeping(callback func(proxyShapeEntity B3Entity) bool) {
	for i := components.m_sleepingStartIndex; i < components.m_nbComponents; i++ {
		if !callback(components.m_proxyShapesEntities[i]) {
			return
		}
	}
}

/// Check the table invariants. For testing.
func (components B3ProxyShapesComponents) Validate() {
	B3Assert(0 <= components.m_sleepingStartIndex && components.m_sleepingStartIndex <= components.m_nbComponents)
	B3Assert(components.m_nbComponents <= components.m_nbAllocatedComponents)
	B3Assert(len(components.m_mapEntityToComponentIndex) == components.m_nbComponents)

	for i := 0; i < components.m_nbComponents; i++ {
		index, ok := components.m_mapEntityToComponentIndex[components.m_proxyShapesEntities[i]]
		B3Assert(ok)
		B3Assert(index == i)
	}
}

func (components B3ProxyShapesComponents) Dump(w io.Writer) {
	fmt.Fprintf(w, "proxy shapes components=%d sleepingStart=%d\n", components.m_nbComponents, components.m_sleepingStartIndex)
	for i := 0; i < components.m_nbComponents; i++ {
		state := "awake"
		if i >= components.m_sleepingStartIndex {
			state = "sleeping"
		}
		p := components.m_localToBodyTransforms[i].P
		fmt.Fprintf(w, "  [%d] %s body=%s proxy=%s shape=%s broadphase=%d mass=%.3f category=0x%04x mask=0x%04x local=(%.3f, %.3f, %.3f) %s\n",
			i,
			components.m_proxyShapesEntities[i],
			components.m_bodiesEntities[i],
			components.m_proxyShapes[i],
			components.m_collisionShapes[i],
			components.m_broadPhaseIds[i],
			components.m_masses[i],
			components.m_collisionCategoryBits[i],
			components.m_collideWithMaskBits[i],
			p[0], p[1], p[2],
			state,
		)
	}
}
