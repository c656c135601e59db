package box3d

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

/// The collision world owns the shapes, the bodies and their proxy shapes.
/// It keeps the broad-phase in sync with the awake proxy-shape rows and runs
/// the overlap, narrow-phase, AABB, ray and point queries.
type B3CollisionWorld struct {
	M_settings B3Settings

	M_entityManager B3EntityManager

	M_shapes B3ShapeRepository

	M_proxyShapesComponents B3ProxyShapesComponents

	M_contactManager B3ContactManager

	M_bodies   map[B3Entity]*B3CollisionBody
	M_bodyList []*B3CollisionBody
}

/// Create a world. The settings are validated first.
func NewB3CollisionWorld(settings B3Settings) (*B3CollisionWorld, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	world := &B3CollisionWorld{
		M_settings:              settings,
		M_entityManager:         MakeB3EntityManager(),
		M_shapes:                MakeB3ShapeRepository(settings.InitialProxyShapeCapacity),
		M_proxyShapesComponents: MakeB3ProxyShapesComponents(settings.InitialProxyShapeCapacity),
		M_bodies:                make(map[B3Entity]*B3CollisionBody),
	}

	world.M_contactManager = MakeB3ContactManager(settings, &world.M_proxyShapesComponents)

	return world, nil
}

/// Create a world from YAML settings.
func NewB3CollisionWorldFromYAML(data []byte) (*B3CollisionWorld, error) {
	settings, err := LoadB3Settings(data)
	if err != nil {
		return nil, err
	}
	return NewB3CollisionWorld(settings)
}

func (world *B3CollisionWorld) GetSettings() B3Settings {
	return world.M_settings
}

/// Register a contact filter to provide specific control over collision.
/// Otherwise the default filter is used (category and mask bits).
func (world *B3CollisionWorld) SetContactFilter(filter B3ContactFilterInterface) {
	world.M_contactManager.M_contactFilter = filter
}

func (world *B3CollisionWorld) GetProxyShapesComponents() *B3ProxyShapesComponents {
	return world.M_contactManager.M_proxyShapesComponents
}

///////////////////////////////////////////////////////////////////////////////
// Shapes

/// Store a copy of the shape and return its handle.
func (world *B3CollisionWorld) CreateShape(shape B3ShapeInterface) B3Handle {
	return world.M_shapes.CreateShape(shape)
}

/// Store a box with the margin of the settings.
func (world *B3CollisionWorld) CreateBoxShape(halfExtents mgl64.Vec3) B3Handle {
	return world.M_shapes.CreateShape(NewB3BoxShape(halfExtents, world.M_settings.BoxMargin))
}

func (world *B3CollisionWorld) GetShape(h B3Handle) (B3ShapeInterface, error) {
	return world.M_shapes.GetShape(h)
}

/// Destroy a shape. Fails with ErrShapeInUse while proxy shapes use it.
func (world *B3CollisionWorld) DestroyShape(h B3Handle) error {
	return world.M_shapes.DestroyShape(h)
}

///////////////////////////////////////////////////////////////////////////////
// Bodies

func (world *B3CollisionWorld) CreateCollisionBody(xf B3Transform) *B3CollisionBody {
	B3Assert(xf.IsValid())

	body := &B3CollisionBody{
		M_entity:       world.M_entityManager.CreateEntity(),
		M_xf:           xf,
		M_broadPhaseXf: xf,
		M_world:        world,
	}

	world.M_bodies[body.M_entity] = body
	world.M_bodyList = append(world.M_bodyList, body)

	return body
}

/// Destroy a body and all its proxy shapes. The collision shapes are kept.
func (world *B3CollisionWorld) DestroyCollisionBody(body *B3CollisionBody) error {
	if _, ok := world.M_bodies[body.M_entity]; !ok {
		return errors.Wrapf(ErrUnknownEntity, "body %s", body.M_entity)
	}

	for _, proxyShape := range body.M_proxyShapes {
		if err := world.removeProxyShape(proxyShape); err != nil {
			return err
		}
	}
	body.M_proxyShapes = nil

	delete(world.M_bodies, body.M_entity)
	for i, b := range world.M_bodyList {
		if b == body {
			world.M_bodyList = append(world.M_bodyList[:i], world.M_bodyList[i+1:]...)
			break
		}
	}

	world.M_entityManager.DestroyEntity(body.M_entity)
	body.M_world = nil

	return nil
}

func (world *B3CollisionWorld) GetBody(entity B3Entity) (*B3CollisionBody, bool) {
	body, ok := world.M_bodies[entity]
	return body, ok
}

func (world *B3CollisionWorld) GetBodyCount() int {
	return len(world.M_bodyList)
}

/// Bodies in creation order.
func (world *B3CollisionWorld) GetBodyList() []*B3CollisionBody {
	res := make([]*B3CollisionBody, len(world.M_bodyList))
	copy(res, world.M_bodyList)
	return res
}

///////////////////////////////////////////////////////////////////////////////
// Proxy shapes

func (world *B3CollisionWorld) GetProxyShape(proxyShape B3Entity) (*B3ProxyShape, error) {
	components := world.M_contactManager.M_proxyShapesComponents
	if !components.HasComponent(proxyShape) {
		return nil, errors.Wrapf(ErrUnknownEntity, "proxy shape %s", proxyShape)
	}
	return world.M_shapes.GetProxyShape(components.GetProxyShape(proxyShape))
}

func (world *B3CollisionWorld) addProxyShape(body *B3CollisionBody, shapeHandle B3Handle, transform B3Transform, mass float64) (B3Entity, error) {
	shape, err := world.M_shapes.GetShape(shapeHandle)
	if err != nil {
		return 0, err
	}

	proxyHandle, err := world.M_shapes.CreateProxyShape(shapeHandle, body, transform, mass)
	if err != nil {
		return 0, err
	}

	proxy, err := world.M_shapes.GetProxyShape(proxyHandle)
	if err != nil {
		return 0, err
	}

	entity := world.M_entityManager.CreateEntity()
	proxy.SetEntity(entity)

	min, max := shape.GetLocalBounds()
	component := MakeB3ProxyShapeComponent(
		body.M_entity,
		proxyHandle,
		MakeB3AABBFromBounds(min, max),
		transform,
		shapeHandle,
		mass,
	)
	component.CollisionCategoryBits = world.M_settings.DefaultCategoryBits
	component.CollideWithMaskBits = world.M_settings.DefaultMaskBits

	components := &world.M_proxyShapesComponents
	components.AddComponent(entity, body.M_isSleeping, component)

	aabb := world.computeProxyShapeAABB(entity, body.M_xf)
	components.SetBroadPhaseId(entity, world.M_contactManager.M_broadPhase.CreateProxy(aabb, entity))

	body.M_proxyShapes = append(body.M_proxyShapes, entity)

	return entity, nil
}

func (world *B3CollisionWorld) removeProxyShape(proxyShape B3Entity) error {
	components := &world.M_proxyShapesComponents
	if !components.HasComponent(proxyShape) {
		return errors.Wrapf(ErrUnknownEntity, "proxy shape %s", proxyShape)
	}

	proxyHandle := components.GetProxyShape(proxyShape)

	world.M_contactManager.DestroyPairs(proxyShape)
	world.M_contactManager.M_broadPhase.DestroyProxy(components.GetBroadPhaseId(proxyShape))
	components.RemoveComponent(proxyShape)

	if err := world.M_shapes.DestroyProxyShape(proxyHandle); err != nil {
		return err
	}

	world.M_entityManager.DestroyEntity(proxyShape)
	return nil
}

/// Change the transform from the shape space to the body space.
func (world *B3CollisionWorld) SetLocalToBodyTransform(proxyShape B3Entity, transform B3Transform) error {
	proxy, err := world.GetProxyShape(proxyShape)
	if err != nil {
		return err
	}

	proxy.SetLocalToBodyTransform(transform)

	components := &world.M_proxyShapesComponents
	components.SetLocalToBodyTransform(proxyShape, transform)

	body, ok := world.M_bodies[components.GetBodyEntity(proxyShape)]
	B3Assert(ok)

	aabb := world.computeProxyShapeAABB(proxyShape, body.M_xf)
	world.M_contactManager.M_broadPhase.MoveProxy(components.GetBroadPhaseId(proxyShape), aabb, mgl64.Vec3{})

	return nil
}

func (world *B3CollisionWorld) SetCollisionCategoryBits(proxyShape B3Entity, bits uint16) error {
	components := &world.M_proxyShapesComponents
	if !components.HasComponent(proxyShape) {
		return errors.Wrapf(ErrUnknownEntity, "proxy shape %s", proxyShape)
	}

	components.SetCollisionCategoryBits(proxyShape, bits)
	world.M_contactManager.M_broadPhase.TouchProxy(components.GetBroadPhaseId(proxyShape))
	return nil
}

func (world *B3CollisionWorld) SetCollideWithMaskBits(proxyShape B3Entity, bits uint16) error {
	components := &world.M_proxyShapesComponents
	if !components.HasComponent(proxyShape) {
		return errors.Wrapf(ErrUnknownEntity, "proxy shape %s", proxyShape)
	}

	components.SetCollideWithMaskBits(proxyShape, bits)
	world.M_contactManager.M_broadPhase.TouchProxy(components.GetBroadPhaseId(proxyShape))
	return nil
}

// World AABB of a proxy shape for a given body transform.
func (world *B3CollisionWorld) computeProxyShapeAABB(proxyShape B3Entity, bodyXf B3Transform) B3AABB {
	components := world.M_contactManager.M_proxyShapesComponents

	shape, err := world.M_shapes.GetShape(components.GetCollisionShape(proxyShape))
	B3Assert(err == nil)

	var aabb B3AABB
	shape.ComputeAABB(&aabb, B3TransformMul(bodyXf, components.GetLocalToBodyTransform(proxyShape)))
	return aabb
}

func (world *B3CollisionWorld) getProxyShapeTransform(proxyShape B3Entity) B3Transform {
	components := world.M_contactManager.M_proxyShapesComponents
	body := world.M_bodies[components.GetBodyEntity(proxyShape)]
	return B3TransformMul(body.M_xf, components.GetLocalToBodyTransform(proxyShape))
}

///////////////////////////////////////////////////////////////////////////////
// Broad-phase and queries

/// Move the broad-phase proxies of the awake proxy shapes to the current
/// transforms of their bodies. Sleeping rows are not visited.
func (world *B3CollisionWorld) UpdateBroadPhase() {
	components := world.M_contactManager.M_proxyShapesComponents
	broadPhase := &world.M_contactManager.M_broadPhase

	components.QueryAwake(func(proxyShape B3Entity) bool {
		body := world.M_bodies[components.GetBodyEntity(proxyShape)]

		aabb := world.computeProxyShapeAABB(proxyShape, body.M_xf)
		displacement := body.M_xf.P.Sub(body.M_broadPhaseXf.P)
		broadPhase.MoveProxy(components.GetBroadPhaseId(proxyShape), aabb, displacement)
		return true
	})

	for _, body := range world.M_bodyList {
		if !body.M_isSleeping {
			body.M_broadPhaseXf = body.M_xf
		}
	}
}

/// Report every pair of proxy shapes of different bodies whose fat AABBs
/// overlap and that pass the contact filter.
func (world *B3CollisionWorld) ComputeOverlappingPairs(callback B3OverlapCallback) {
	world.UpdateBroadPhase()
	world.M_contactManager.FindNewContacts()
	world.M_contactManager.Collide()

	for _, pair := range world.M_contactManager.GetPairs() {
		callback(pair.ProxyShapeA, pair.ProxyShapeB)
	}
}

/// Run the narrow-phase on the overlapping pairs with at least one awake
/// proxy shape and report the touching ones.
func (world *B3CollisionWorld) TestCollision(callback B3CollisionCallback) {
	components := world.M_contactManager.M_proxyShapesComponents

	world.ComputeOverlappingPairs(func(proxyShapeA B3Entity, proxyShapeB B3Entity) {
		if components.GetIsEntitySleeping(proxyShapeA) && components.GetIsEntitySleeping(proxyShapeB) {
			return
		}

		shapeA, errA := world.M_shapes.GetShape(components.GetCollisionShape(proxyShapeA))
		shapeB, errB := world.M_shapes.GetShape(components.GetCollisionShape(proxyShapeB))
		if errA != nil || errB != nil {
			return
		}

		manifold := NewB3ContactManifold()
		touching := B3Collide(
			manifold,
			shapeA, world.getProxyShapeTransform(proxyShapeA),
			shapeB, world.getProxyShapeTransform(proxyShapeB),
		)

		if touching {
			callback(proxyShapeA, proxyShapeB, manifold)
		}
	})
}

/// Query the world for all proxy shapes whose fat AABB overlaps aabb.
func (world *B3CollisionWorld) QueryAABB(callback B3BroadPhaseQueryCallback, aabb B3AABB) {
	broadPhase := &world.M_contactManager.M_broadPhase
	broadPhase.Query(func(proxyId int) bool {
		return callback(broadPhase.GetUserData(proxyId))
	}, aabb)
}

/// Ray-cast the world for all proxy shapes in the path of the ray. Your
/// callback controls whether you get the closest point, any point, or n-points.
func (world *B3CollisionWorld) RayCast(callback B3RaycastCallback, ray B3Ray, maxDistance float64) {
	broadPhase := &world.M_contactManager.M_broadPhase

	// B3TreeRayCastCallback
	wrapper := func(ray B3Ray, maxDistance float64, nodeId int) float64 {
		proxy, err := world.GetProxyShape(broadPhase.GetUserData(nodeId))
		if err != nil {
			return -1.0
		}

		info := MakeB3RaycastInfo()
		if proxy.RaycastWithInfo(ray, &info, maxDistance) {
			return callback(info)
		}

		return maxDistance
	}

	broadPhase.RayCast(wrapper, ray, maxDistance)
}

/// Report the proxy shapes containing a world point.
func (world *B3CollisionWorld) TestPointInside(callback B3BroadPhaseQueryCallback, worldPoint mgl64.Vec3) {
	aabb := MakeB3AABBFromBounds(worldPoint, worldPoint)

	world.QueryAABB(func(proxyShape B3Entity) bool {
		proxy, err := world.GetProxyShape(proxyShape)
		if err != nil {
			return true
		}

		if proxy.TestPointInside(worldPoint) {
			return callback(proxyShape)
		}
		return true
	}, aabb)
}

func (world *B3CollisionWorld) GetProxyCount() int {
	return world.M_contactManager.M_broadPhase.GetProxyCount()
}

func (world *B3CollisionWorld) GetPairCount() int {
	return world.M_contactManager.GetPairCount()
}

func (world *B3CollisionWorld) GetTreeHeight() int {
	return world.M_contactManager.M_broadPhase.GetTreeHeight()
}

func (world *B3CollisionWorld) GetTreeBalance() int {
	return world.M_contactManager.M_broadPhase.GetTreeBalance()
}

func (world *B3CollisionWorld) GetTreeQuality() float64 {
	return world.M_contactManager.M_broadPhase.GetTreeQuality()
}

/// Shift the world origin. Useful for large worlds.
/// The body shift formula is: position -= newOrigin
func (world *B3CollisionWorld) ShiftOrigin(newOrigin mgl64.Vec3) {
	for _, body := range world.M_bodyList {
		body.M_xf.P = body.M_xf.P.Sub(newOrigin)
		body.M_broadPhaseXf.P = body.M_broadPhaseXf.P.Sub(newOrigin)
	}

	world.M_contactManager.M_broadPhase.ShiftOrigin(newOrigin)
}

/// Write the state of the world, bodies first.
func (world *B3CollisionWorld) Dump(w io.Writer) {
	fmt.Fprintf(w, "world bodies=%d shapes=%d proxies=%d pairs=%d\n",
		len(world.M_bodyList),
		world.M_shapes.GetNbShapes(),
		world.M_shapes.GetNbProxyShapes(),
		world.M_contactManager.GetPairCount(),
	)

	for _, body := range world.M_bodyList {
		body.Dump(w)
	}

	world.M_proxyShapesComponents.Dump(w)
	world.M_contactManager.M_broadPhase.M_tree.Dump(w)

	for _, pair := range world.M_contactManager.GetPairs() {
		fmt.Fprintf(w, "pair %s %s\n", pair.ProxyShapeA, pair.ProxyShapeB)
	}
}
