package box3d

import "github.com/pkg/errors"

var (
	/// Returned when a handle refers to a freed or reused arena slot.
	ErrStaleHandle = errors.New("box3d: stale handle")

	/// Returned when two shapes of different kinds are compared.
	ErrShapeKindMismatch = errors.New("box3d: shape kind mismatch")

	/// Returned when a shape is destroyed while proxy shapes still use it.
	ErrShapeInUse = errors.New("box3d: shape still used by proxy shapes")

	/// Returned when an entity is not alive or does not belong to the body.
	ErrUnknownEntity = errors.New("box3d: unknown entity")

	ErrInvalidSettings = errors.New("box3d: invalid settings")
)
