package buffer

import (
	"fmt"
	"math"
)

// Kind identifies the scalar type stored in a Buffer.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindI32
	KindI64
	KindF32
	KindF64
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindI32:     "i32",
	KindI64:     "i64",
	KindF32:     "f32",
	KindF64:     "f64",
}

// String returns the short dtype name ("u8", "f32", ...).
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsFloat reports whether the kind holds floating point values.
func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// ParseKind maps a dtype name such as "u16" or "float32" to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "u8", "uint8":
		return KindU8, nil
	case "u16", "uint16":
		return KindU16, nil
	case "u32", "uint32":
		return KindU32, nil
	case "u64", "uint64":
		return KindU64, nil
	case "i32", "int32":
		return KindI32, nil
	case "i64", "int64":
		return KindI64, nil
	case "f32", "float32":
		return KindF32, nil
	case "f64", "float64":
		return KindF64, nil
	}
	return KindInvalid, fmt.Errorf("%w: unknown kind %q", ErrConversion, name)
}

// Scalar is the set of pixel types a Buffer may hold.
type Scalar interface {
	uint8 | uint16 | uint32 | uint64 | int32 | int64 | float32 | float64
}

// KindOf returns the Kind for the type parameter T.
func KindOf[T Scalar]() Kind {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return KindU8
	case uint16:
		return KindU16
	case uint32:
		return KindU32
	case uint64:
		return KindU64
	case int32:
		return KindI32
	case int64:
		return KindI64
	case float32:
		return KindF32
	case float64:
		return KindF64
	}
	return KindInvalid
}

// KindMin returns the smallest value representable by the kind.
func KindMin(k Kind) float64 {
	switch k {
	case KindI32:
		return math.MinInt32
	case KindI64:
		return math.MinInt64
	case KindF32:
		return -math.MaxFloat32
	case KindF64:
		return -math.MaxFloat64
	}
	return 0
}

// KindMax returns the largest value representable by the kind.
func KindMax(k Kind) float64 {
	switch k {
	case KindU8:
		return math.MaxUint8
	case KindU16:
		return math.MaxUint16
	case KindU32:
		return math.MaxUint32
	case KindU64:
		return math.MaxUint64
	case KindI32:
		return math.MaxInt32
	case KindI64:
		return math.MaxInt64
	case KindF32:
		return math.MaxFloat32
	case KindF64:
		return math.MaxFloat64
	}
	return 0
}

// FromFloat converts v to T, truncating toward zero for integer kinds and
// saturating at the kind's range. NaN maps to zero for integer kinds.
func FromFloat[T Scalar](v float64) T {
	k := KindOf[T]()
	if k.IsFloat() {
		return T(v)
	}
	if math.IsNaN(v) {
		return 0
	}
	lo, hi := KindMin(k), KindMax(k)
	if v <= lo {
		return T(lo)
	}
	if v >= hi {
		// float64(MaxUint64) and float64(MaxInt64) round up past the
		// representable range, so saturate with typed constants.
		switch k {
		case KindU64:
			var max uint64 = math.MaxUint64
			return T(max)
		case KindI64:
			var max int64 = math.MaxInt64
			return T(max)
		}
		return T(hi)
	}
	return T(math.Trunc(v))
}
