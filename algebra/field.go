// Package algebra defines the field abstraction shared by the number-field
// and finite-field backends. Curve arithmetic and polynomial code is written
// once against Field[E] and instantiated with either backend.
package algebra

// Field describes exact arithmetic in a field of odd characteristic (or
// characteristic zero). Implementations are value-semantic: operations return
// new elements and never mutate their arguments.
type Field[E any] interface {
	Zero() E
	One() E

	// FromInt returns the image of the rational integer n in the field.
	FromInt(n int64) E

	Add(x, y E) E
	Sub(x, y E) E
	Mul(x, y E) E
	Neg(x E) E

	// Inv returns x⁻¹. It returns an error if x is zero.
	Inv(x E) (E, error)

	Equal(x, y E) bool
	IsZero(x E) bool

	// String returns a human readable representation of x, for debugging and
	// logging purposes.
	String(x E) string
}

// Div returns x/y, or an error if y is zero.
func Div[E any](f Field[E], x, y E) (E, error) {
	inv, err := f.Inv(y)
	if err != nil {
		var zero E
		return zero, err
	}
	return f.Mul(x, inv), nil
}

// Square returns x².
func Square[E any](f Field[E], x E) E {
	return f.Mul(x, x)
}
