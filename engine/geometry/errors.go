package geometry

import "errors"

// Epsilon is the norm below which a plane or rotor is treated as degenerate.
const Epsilon = 1e-6

var (
	// ErrDegenerate is returned when normalizing a plane or rotor whose norm is (near) zero.
	ErrDegenerate = errors.New("geometry: degenerate input has zero norm")

	// ErrAntiparallel is returned by FromRotationBetween when the two directions point in
	// opposite directions and no unique rotation plane exists.
	ErrAntiparallel = errors.New("geometry: directions are antiparallel, rotation plane is undefined")
)

func isAntiparallel(err error) bool {
	return errors.Is(err, ErrAntiparallel)
}
