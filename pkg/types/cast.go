package types

import (
	"fmt"
	"strconv"
)

// CastTo converts v to the target Kind. If v is already of that kind the
// value passes through unchanged (even Null, which keeps its KindNull).
func CastTo(v Value, target Kind) (Value, error) {
	if v.kind == target {
		return v, nil
	}
	if v.kind == KindNull {
		return Null(), nil
	}

	switch target {
	case KindInt:
		return castToInt(v)
	case KindFloat:
		return castToFloat(v)
	case KindChars:
		return NewChars(v.String()), nil
	case KindDate:
		return castToDate(v)
	case KindBoolean:
		return castToBool(v)
	default:
		return Value{}, fmt.Errorf("cannot cast to %s", target)
	}
}

func castToInt(v Value) (Value, error) {
	switch v.kind {
	case KindFloat:
		return NewInt(int32(v.f)), nil
	case KindDate:
		return NewInt(v.i), nil
	case KindChars:
		i, err := strconv.ParseInt(v.chars, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("cannot cast %q to INT: %w", v.chars, err)
		}
		return NewInt(int32(i)), nil
	case KindBoolean:
		if v.b {
			return NewInt(1), nil
		}
		return NewInt(0), nil
	default:
		return Value{}, fmt.Errorf("cannot cast %s to INT", v.kind)
	}
}

func castToFloat(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return NewFloat(float32(v.i)), nil
	case KindChars:
		f, err := strconv.ParseFloat(v.chars, 32)
		if err != nil {
			return Value{}, fmt.Errorf("cannot cast %q to FLOAT: %w", v.chars, err)
		}
		return NewFloat(float32(f)), nil
	default:
		return Value{}, fmt.Errorf("cannot cast %s to FLOAT", v.kind)
	}
}

func castToDate(v Value) (Value, error) {
	switch v.kind {
	case KindChars:
		packed, err := ParseDate(v.chars)
		if err != nil {
			return Value{}, err
		}
		return NewDate(packed), nil
	default:
		return Value{}, fmt.Errorf("cannot cast %s to DATE", v.kind)
	}
}

func castToBool(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return NewBool(v.i != 0), nil
	case KindChars:
		switch v.chars {
		case "true", "TRUE", "1":
			return NewBool(true), nil
		case "false", "FALSE", "0":
			return NewBool(false), nil
		}
		return Value{}, fmt.Errorf("cannot cast %q to BOOLEAN", v.chars)
	default:
		return Value{}, fmt.Errorf("cannot cast %s to BOOLEAN", v.kind)
	}
}

// CastCost ranks an implicit promotion from -> to for the binder's
// overload resolution. Lower is cheaper; a negative result means the
// cast is impossible and should never be chosen implicitly.
func CastCost(from, to Kind) int {
	if from == to {
		return 0
	}
	switch {
	case from == KindInt && to == KindFloat:
		return 1
	case from == KindFloat && to == KindInt:
		return 3
	case from == KindChars && (to == KindInt || to == KindFloat):
		return 5
	case from == KindChars && to == KindDate:
		return 5
	case (from == KindInt || from == KindFloat) && to == KindChars:
		return 5
	case from == KindNull:
		return 0
	default:
		return -1
	}
}
