package box3d

import (
	"github.com/pkg/errors"
)

/// Owns the collision shapes and the proxy shapes. Both are addressed through
/// generation-checked handles, so a handle to a destroyed object is detected
/// with ErrStaleHandle instead of reaching freed memory.
type B3ShapeRepository struct {
	m_shapes  B3Arena[B3ShapeInterface]
	m_proxies B3Arena[*B3ProxyShape]

	/// Number of proxy shapes referencing each shape, by shape slot.
	m_shapeUseCount map[int32]int
}

func MakeB3ShapeRepository(capacity int) B3ShapeRepository {
	return B3ShapeRepository{
		m_shapes:        MakeB3Arena[B3ShapeInterface](capacity),
		m_proxies:       MakeB3Arena[*B3ProxyShape](capacity),
		m_shapeUseCount: make(map[int32]int),
	}
}

func NewB3ShapeRepository(capacity int) *B3ShapeRepository {
	res := MakeB3ShapeRepository(capacity)
	return &res
}

func (repo B3ShapeRepository) GetNbShapes() int {
	return repo.m_shapes.GetCount()
}

func (repo B3ShapeRepository) GetNbProxyShapes() int {
	return repo.m_proxies.GetCount()
}

/// Store a copy of shape and return its handle.
func (repo *B3ShapeRepository) CreateShape(shape B3ShapeInterface) B3Handle {
	B3Assert(shape != nil)
	return repo.m_shapes.Allocate(shape.Clone())
}

func (repo B3ShapeRepository) GetShape(h B3Handle) (B3ShapeInterface, error) {
	shape, err := repo.m_shapes.Get(h)
	if err != nil {
		return nil, errors.Wrap(err, "shape")
	}
	return shape, nil
}

/// Number of proxy shapes referencing the shape.
func (repo B3ShapeRepository) GetShapeUseCount(h B3Handle) int {
	if !repo.m_shapes.IsValid(h) {
		return 0
	}
	return repo.m_shapeUseCount[h.Index]
}

/// Destroy a shape. A shape still referenced by a proxy shape is not
/// destroyed and ErrShapeInUse is returned.
func (repo *B3ShapeRepository) DestroyShape(h B3Handle) error {
	if !repo.m_shapes.IsValid(h) {
		return errors.Wrapf(ErrStaleHandle, "shape %s", h)
	}

	if n := repo.m_shapeUseCount[h.Index]; n > 0 {
		return errors.Wrapf(ErrShapeInUse, "shape %s used by %d proxy shapes", h, n)
	}

	delete(repo.m_shapeUseCount, h.Index)
	return repo.m_shapes.Free(h)
}

/// Create a proxy shape binding the shape to a body with a local-to-body
/// transform and a mass.
func (repo *B3ShapeRepository) CreateProxyShape(shapeHandle B3Handle, body B3BodyInterface, transform B3Transform, mass float64) (B3Handle, error) {
	shape, err := repo.GetShape(shapeHandle)
	if err != nil {
		return B3Handle_null, err
	}

	proxy := NewB3ProxyShape(shape, shapeHandle, body, transform, mass)
	repo.m_shapeUseCount[shapeHandle.Index]++

	return repo.m_proxies.Allocate(proxy), nil
}

func (repo B3ShapeRepository) GetProxyShape(h B3Handle) (*B3ProxyShape, error) {
	proxy, err := repo.m_proxies.Get(h)
	if err != nil {
		return nil, errors.Wrap(err, "proxy shape")
	}
	return proxy, nil
}

func (repo *B3ShapeRepository) DestroyProxyShape(h B3Handle) error {
	proxy, err := repo.GetProxyShape(h)
	if err != nil {
		return err
	}

	shapeIndex := proxy.M_shapeHandle.Index
	B3Assert(repo.m_shapeUseCount[shapeIndex] > 0)
	repo.m_shapeUseCount[shapeIndex]--

	return repo.m_proxies.Free(h)
}
