package types

import "strconv"

// Compare implements the value comparator. The bool result reports
// whether the two values were comparable at all; when false, the int
// result is meaningless and callers must treat the comparison as the
// distinguished INCOMPARABLE outcome (predicates collapse this to false).
//
// Null compares as INCOMPARABLE against anything, including another Null.
// Chars compared against Int/Float are both parsed as Float and compared
// as Float. Undefined must never reach a predicate, but for safety it is
// also INCOMPARABLE against everything.
func Compare(a, b Value) (cmp int, comparable bool) {
	if a.kind == KindNull || b.kind == KindNull {
		return 0, false
	}
	if a.kind == KindUndefined || b.kind == KindUndefined {
		return 0, false
	}

	if a.kind == b.kind {
		switch a.kind {
		case KindInt, KindDate:
			return compareInt32(a.i, b.i), true
		case KindFloat:
			return compareFloat32(a.f, b.f), true
		case KindChars:
			return compareString(a.chars, b.chars), true
		case KindBoolean:
			return compareBool(a.b, b.b), true
		}
	}

	if isNumeric(a.kind) && isNumeric(b.kind) {
		return compareFloat32(asFloat(a), asFloat(b)), true
	}

	if a.kind == KindChars && isNumeric(b.kind) {
		af, ok := parseFloat(a.chars)
		if !ok {
			return 0, false
		}
		return compareFloat32(af, asFloat(b)), true
	}
	if b.kind == KindChars && isNumeric(a.kind) {
		bf, ok := parseFloat(b.chars)
		if !ok {
			return 0, false
		}
		return compareFloat32(asFloat(a), bf), true
	}

	return 0, false
}

func isNumeric(k Kind) bool { return k == KindInt || k == KindFloat }

func asFloat(v Value) float32 {
	if v.kind == KindInt {
		return float32(v.i)
	}
	return v.f
}

func parseFloat(s string) (float32, bool) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

func compareInt32(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat32(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	ai, bi := 0, 0
	if a {
		ai = 1
	}
	if b {
		bi = 1
	}
	return compareInt32(int32(ai), int32(bi))
}
