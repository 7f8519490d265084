package saturation

import "errors"

// ErrInconsistent reports an internal inconsistency in reduced group data,
// such as a Weil pairing whose order does not match the generator orders.
// The sieve retries the computation once with diagnostic logging before
// propagating it; seeing it escape means a genuine bug or malformed input.
var ErrInconsistent = errors.New("saturation: inconsistent reduced group data")

// ErrInconclusive is returned when the auxiliary-prime budget is exhausted
// before the sieve reaches full rank or its stagnation threshold. It is a
// reported resource limit, not a saturation verdict.
var ErrInconclusive = errors.New("saturation: auxiliary prime budget exhausted")
