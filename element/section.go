package element

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// TrussSection holds the axial properties of a truss member
type TrussSection struct {
	E float64 `msgpack:"e" yaml:"e" validate:"gt=0"` // Young's modulus
	A float64 `msgpack:"a" yaml:"a" validate:"gt=0"` // Cross-sectional area
}

// FrameSection holds the properties of a 3D Euler-Bernoulli frame member.
// Iy and Iz are second moments of area about the local y and z axes.
type FrameSection struct {
	E  float64 `msgpack:"e" yaml:"e" validate:"gt=0"`   // Young's modulus
	G  float64 `msgpack:"g" yaml:"g" validate:"gt=0"`   // Shear modulus
	A  float64 `msgpack:"a" yaml:"a" validate:"gt=0"`   // Cross-sectional area
	Iy float64 `msgpack:"iy" yaml:"iy" validate:"gt=0"` // Bending inertia about local y
	Iz float64 `msgpack:"iz" yaml:"iz" validate:"gt=0"` // Bending inertia about local z
	J  float64 `msgpack:"j" yaml:"j" validate:"gt=0"`   // Torsion constant
}

// MembraneSection holds isotropic plane stress properties
type MembraneSection struct {
	E         float64 `msgpack:"e" yaml:"e" validate:"gt=0"`
	Nu        float64 `msgpack:"nu" yaml:"nu" validate:"gte=0,lt=0.5"` // Poisson's ratio
	Thickness float64 `msgpack:"t" yaml:"t" validate:"gt=0"`
}

func validateSection(section any) error {
	if err := validate.Struct(section); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSection, err)
	}
	return nil
}
