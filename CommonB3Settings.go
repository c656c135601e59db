package box3d

import (
	"math"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func B3Assert(a bool) {
	if !a {
		panic("B3Assert")
	}
}

const B3_maxFloat = math.MaxFloat64

/// Difference between 1.0 and the next representable float64.
const B3_machineEpsilon = 2.220446049250313e-16

/// @file
/// Global tuning constants based on meters-kilograms-seconds (MKS) units.
///

// Collision

/// Below this value of |n . (b - a)| a segment is treated as parallel to a plane.
const B3_parallelEpsilon = 0.0001

/// Default ray length. A ray cast with this distance is unbounded.
const B3_raycastInfinityDistance = math.MaxFloat64

/// The maximum number of contact points in a manifold between two convex shapes.
const B3_maxManifoldPoints = 4

/// The collision margin used by shapes that do not define it implicitly
/// (a sphere's margin is its radius). This is in meters.
const B3_objectMargin = 0.04

/// This is used to fatten AABBs in the dynamic tree. This allows proxies
/// to move by a small amount without triggering a tree adjustment.
/// This is in meters.
const B3_aabbExtension = 0.1

/// This is used to fatten AABBs in the dynamic tree. This is used to predict
/// the future position based on the current displacement.
/// This is a dimensionless multiplier.
const B3_aabbMultiplier = 2.0

// Filtering

const B3_defaultCollisionCategoryBits uint16 = 0x0001
const B3_defaultCollideWithMaskBits uint16 = 0xFFFF

// Components

/// Number of rows a components table reserves when it is created.
const B3_initComponentsCapacity = 16

///////////////////////////////////////////////////////////////////////////////
/// Runtime settings of a collision world.
///////////////////////////////////////////////////////////////////////////////
type B3Settings struct {
	InitialProxyShapeCapacity int     `yaml:"initial_proxy_shape_capacity"`
	AABBExtension             float64 `yaml:"aabb_extension"`
	AABBMultiplier            float64 `yaml:"aabb_multiplier"`
	DefaultCategoryBits       uint16  `yaml:"default_category_bits"`
	DefaultMaskBits           uint16  `yaml:"default_mask_bits"`
	BoxMargin                 float64 `yaml:"box_margin"`
}

func MakeB3Settings() B3Settings {
	return B3Settings{
		InitialProxyShapeCapacity: B3_initComponentsCapacity,
		AABBExtension:             B3_aabbExtension,
		AABBMultiplier:            B3_aabbMultiplier,
		DefaultCategoryBits:       B3_defaultCollisionCategoryBits,
		DefaultMaskBits:           B3_defaultCollideWithMaskBits,
		BoxMargin:                 B3_objectMargin,
	}
}

/// Parse settings from YAML. Keys missing from the document keep their
/// default value.
func LoadB3Settings(data []byte) (B3Settings, error) {
	settings := MakeB3Settings()

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return MakeB3Settings(), errors.Wrap(err, "box3d: parse settings")
	}

	if err := settings.Validate(); err != nil {
		return MakeB3Settings(), err
	}

	return settings, nil
}

func (settings B3Settings) Validate() error {
	if settings.InitialProxyShapeCapacity < 0 {
		return errors.Wrapf(ErrInvalidSettings, "initial_proxy_shape_capacity %d", settings.InitialProxyShapeCapacity)
	}

	if !B3IsValid(settings.AABBExtension) || settings.AABBExtension < 0.0 {
		return errors.Wrapf(ErrInvalidSettings, "aabb_extension %v", settings.AABBExtension)
	}

	if !B3IsValid(settings.AABBMultiplier) || settings.AABBMultiplier < 0.0 {
		return errors.Wrapf(ErrInvalidSettings, "aabb_multiplier %v", settings.AABBMultiplier)
	}

	if !B3IsValid(settings.BoxMargin) || settings.BoxMargin <= 0.0 {
		return errors.Wrapf(ErrInvalidSettings, "box_margin %v", settings.BoxMargin)
	}

	return nil
}
