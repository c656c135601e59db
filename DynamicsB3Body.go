package box3d

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

/// A collision body: a rigid frame carrying proxy shapes. Bodies are created
/// via B3CollisionWorld.CreateCollisionBody.
type B3CollisionBody struct {
	M_entity B3Entity

	/// Local-to-world transform.
	M_xf B3Transform

	/// Transform used for the last broad-phase update.
	M_broadPhaseXf B3Transform

	M_isSleeping bool

	/// Proxy-shape entities in creation order.
	M_proxyShapes []B3Entity

	M_world *B3CollisionWorld

	M_userData interface{}
}

func (body B3CollisionBody) GetEntity() B3Entity {
	return body.M_entity
}

func (body B3CollisionBody) GetTransform() B3Transform {
	return body.M_xf
}

func (body B3CollisionBody) GetPosition() mgl64.Vec3 {
	return body.M_xf.P
}

func (body B3CollisionBody) GetWorld() *B3CollisionWorld {
	return body.M_world
}

func (body B3CollisionBody) GetUserData() interface{} {
	return body.M_userData
}

func (body *B3CollisionBody) SetUserData(data interface{}) {
	body.M_userData = data
}

func (body B3CollisionBody) IsSleeping() bool {
	return body.M_isSleeping
}

func (body B3CollisionBody) GetNbProxyShapes() int {
	return len(body.M_proxyShapes)
}

/// Proxy-shape entities of the body.
func (body B3CollisionBody) GetProxyShapes() []B3Entity {
	res := make([]B3Entity, len(body.M_proxyShapes))
	copy(res, body.M_proxyShapes)
	return res
}

func (body B3CollisionBody) GetWorldPoint(localPoint mgl64.Vec3) mgl64.Vec3 {
	return B3TransformVec3Mul(body.M_xf, localPoint)
}

func (body B3CollisionBody) GetLocalPoint(worldPoint mgl64.Vec3) mgl64.Vec3 {
	return B3TransformVec3MulT(body.M_xf, worldPoint)
}

/// Set the local-to-world transform. The broad-phase is updated by the next
/// B3CollisionWorld.UpdateBroadPhase while the body is awake.
func (body *B3CollisionBody) SetTransform(xf B3Transform) {
	B3Assert(xf.IsValid())
	body.M_xf = xf
}

/// Move the rows of the proxy shapes of this body across the sleeping
/// boundary of the proxy-shape components.
func (body *B3CollisionBody) SetIsSleeping(isSleeping bool) {
	if body.M_isSleeping == isSleeping {
		return
	}

	body.M_isSleeping = isSleeping

	components := &body.M_world.M_proxyShapesComponents
	for _, proxyShape := range body.M_proxyShapes {
		components.SetIsEntitySleeping(proxyShape, isSleeping)
	}
}

/// Attach a collision shape to the body. The shape must have been created
/// by the world of the body.
func (body *B3CollisionBody) AddCollisionShape(shape B3Handle, transform B3Transform, mass float64) (B3Entity, error) {
	return body.M_world.addProxyShape(body, shape, transform, mass)
}

func (body *B3CollisionBody) RemoveCollisionShape(proxyShape B3Entity) error {
	for i, e := range body.M_proxyShapes {
		if e != proxyShape {
			continue
		}

		if err := body.M_world.removeProxyShape(proxyShape); err != nil {
			return err
		}

		body.M_proxyShapes = append(body.M_proxyShapes[:i], body.M_proxyShapes[i+1:]...)
		return nil
	}

	return errors.Wrapf(ErrUnknownEntity, "proxy shape %s on body %s", proxyShape, body.M_entity)
}

/// Test a world point against the proxy shapes of the body.
func (body B3CollisionBody) TestPointInside(worldPoint mgl64.Vec3) bool {
	for _, proxyShape := range body.M_proxyShapes {
		proxy, err := body.M_world.GetProxyShape(proxyShape)
		if err != nil {
			continue
		}

		if proxy.TestPointInside(worldPoint) {
			return true
		}
	}
	return false
}

/// Closest hit of a world ray among the proxy shapes of the body.
func (body B3CollisionBody) Raycast(ray B3Ray, info *B3RaycastInfo, maxDistance float64) bool {
	hit := false

	for _, proxyShape := range body.M_proxyShapes {
		proxy, err := body.M_world.GetProxyShape(proxyShape)
		if err != nil {
			continue
		}

		var proxyInfo B3RaycastInfo
		if proxy.RaycastWithInfo(ray, &proxyInfo, maxDistance) {
			*info = proxyInfo
			maxDistance = proxyInfo.HitFraction
			hit = true
		}
	}

	return hit
}

/// World AABB enclosing all the proxy shapes of the body.
func (body B3CollisionBody) GetAABB() B3AABB {
	var res B3AABB
	first := true

	for _, proxyShape := range body.M_proxyShapes {
		proxy, err := body.M_world.GetProxyShape(proxyShape)
		if err != nil {
			continue
		}

		var aabb B3AABB
		proxy.ComputeWorldAABB(&aabb)
		if first {
			res = aabb
			first = false
		} else {
			res.CombineInPlace(aabb)
		}
	}

	return res
}

func (body B3CollisionBody) Dump(w io.Writer) {
	p := body.M_xf.P
	q := body.M_xf.Q
	fmt.Fprintf(w, "body %s position=(%.4f, %.4f, %.4f) orientation=(%.4f, %.4f, %.4f, %.4f) sleeping=%t proxies=%d\n",
		body.M_entity, p[0], p[1], p[2], q.W, q.V[0], q.V[1], q.V[2], body.M_isSleeping, len(body.M_proxyShapes))
}
