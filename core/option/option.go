package option

import (
	"math"
	"strconv"
)

// Float32T is an option type for float32, used for metric attributes which
// may be left unspecified. NaN serves as the in-band null value.
type Float32T float32

// SomeFloat32 creates an optional float32 with an initial value of x.
func SomeFloat32(x float32) Float32T {
	return Float32T(x)
}

// Float32 creates an optional float32 without a value.
func Float32() Float32T {
	return Float32T(math.NaN())
}

// Unwrap returns the float value. For unset values it returns NaN.
func (o Float32T) Unwrap() float32 {
	return float32(o)
}

// OrElse returns the float value if set, otherwise dflt.
func (o Float32T) OrElse(dflt float32) float32 {
	if o.IsNone() {
		return dflt
	}
	return float32(o)
}

// IsNone returns true if o is unset.
func (o Float32T) IsNone() bool {
	return math.IsNaN(float64(o))
}

func (o Float32T) String() string {
	if o.IsNone() {
		return "Float32.None"
	}
	return strconv.FormatFloat(float64(o), 'g', -1, 32)
}
