package box3d

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
)

/// What a proxy shape needs to know about the body it is attached to.
type B3BodyInterface interface {
	GetEntity() B3Entity

	/// Local-to-world transform of the body.
	GetTransform() B3Transform
}

/// A proxy shape attaches a collision shape to a body. It holds the
/// transform from the shape local space to the body space and the mass of the
/// shape. Several proxy shapes may share the same collision shape.
/// Proxy shapes are created via B3ShapeRepository.CreateProxyShape.
type B3ProxyShape struct {
	/// The shape and the handle under which the repository stores it.
	M_shape       B3ShapeInterface
	M_shapeHandle B3Handle

	/// Owning body (not owned).
	M_body B3BodyInterface

	M_localToBodyTransform B3Transform

	M_mass float64

	/// Entity of the proxy shape in the collision world, if any.
	M_entity B3Entity
}

func MakeB3ProxyShape(shape B3ShapeInterface, shapeHandle B3Handle, body B3BodyInterface, transform B3Transform, mass float64) B3ProxyShape {
	B3Assert(shape != nil)
	B3Assert(transform.IsValid())
	B3Assert(B3IsValid(mass) && mass >= 0.0)

	return B3ProxyShape{
		M_shape:                shape,
		M_shapeHandle:          shapeHandle,
		M_body:                 body,
		M_localToBodyTransform: transform,
		M_mass:                 mass,
	}
}

func NewB3ProxyShape(shape B3ShapeInterface, shapeHandle B3Handle, body B3BodyInterface, transform B3Transform, mass float64) *B3ProxyShape {
	res := MakeB3ProxyShape(shape, shapeHandle, body, transform, mass)
	return &res
}

func (proxy B3ProxyShape) GetCollisionShape() B3ShapeInterface {
	return proxy.M_shape
}

func (proxy B3ProxyShape) GetCollisionShapeHandle() B3Handle {
	return proxy.M_shapeHandle
}

func (proxy B3ProxyShape) GetBody() B3BodyInterface {
	return proxy.M_body
}

func (proxy B3ProxyShape) GetEntity() B3Entity {
	return proxy.M_entity
}

func (proxy *B3ProxyShape) SetEntity(entity B3Entity) {
	proxy.M_entity = entity
}

func (proxy B3ProxyShape) GetMass() float64 {
	return proxy.M_mass
}

func (proxy B3ProxyShape) GetMargin() float64 {
	return proxy.M_shape.GetMargin()
}

func (proxy B3ProxyShape) GetSizeInBytes() int {
	return int(unsafe.Sizeof(proxy))
}

func (proxy B3ProxyShape) GetLocalSupportPointWithMargin(direction mgl64.Vec3) mgl64.Vec3 {
	return proxy.M_shape.GetLocalSupportPointWithMargin(direction)
}

func (proxy B3ProxyShape) GetLocalSupportPointWithoutMargin(direction mgl64.Vec3) mgl64.Vec3 {
	return proxy.M_shape.GetLocalSupportPointWithoutMargin(direction)
}

func (proxy B3ProxyShape) GetLocalToBodyTransform() B3Transform {
	return proxy.M_localToBodyTransform
}

func (proxy *B3ProxyShape) SetLocalToBodyTransform(transform B3Transform) {
	B3Assert(transform.IsValid())
	proxy.M_localToBodyTransform = transform
}

/// Body transform composed with the local-to-body transform.
func (proxy B3ProxyShape) GetLocalToWorldTransform() B3Transform {
	if proxy.M_body == nil {
		return proxy.M_localToBodyTransform
	}
	return B3TransformMul(proxy.M_body.GetTransform(), proxy.M_localToBodyTransform)
}

/// Test a point given in world space for containment.
func (proxy B3ProxyShape) TestPointInside(worldPoint mgl64.Vec3) bool {
	localToWorld := proxy.GetLocalToWorldTransform()
	localPoint := B3TransformVec3Mul(localToWorld.GetInverse(), worldPoint)
	return proxy.M_shape.testPointInside(localPoint)
}

/// World AABB of the shape at the current body transform.
func (proxy B3ProxyShape) ComputeWorldAABB(aabb *B3AABB) {
	proxy.M_shape.ComputeAABB(aabb, proxy.GetLocalToWorldTransform())
}

/// Test a world space ray against the shape.
func (proxy B3ProxyShape) Raycast(ray B3Ray, maxDistance float64) bool {
	return proxy.M_shape.Raycast(ray.ToLocal(proxy.GetLocalToWorldTransform()), maxDistance)
}

/// Cast a world space ray against the shape. The hit point and the normal of
/// info are in world space; the fraction is unchanged by the transform.
func (proxy B3ProxyShape) RaycastWithInfo(ray B3Ray, info *B3RaycastInfo, maxDistance float64) bool {
	localToWorld := proxy.GetLocalToWorldTransform()

	var localInfo B3RaycastInfo
	if !proxy.M_shape.RaycastWithInfo(ray.ToLocal(localToWorld), &localInfo, maxDistance) {
		return false
	}

	info.WorldPoint = B3TransformVec3Mul(localToWorld, localInfo.WorldPoint)
	info.WorldNormal = localToWorld.Q.Rotate(localInfo.WorldNormal)
	info.HitFraction = localInfo.HitFraction
	info.ProxyShape = proxy.M_entity
	if proxy.M_body != nil {
		info.Body = proxy.M_body.GetEntity()
	}
	return true
}
