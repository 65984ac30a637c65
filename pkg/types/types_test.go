package types

import "testing"

func TestCompareNullIncomparable(t *testing.T) {
	_, ok := Compare(Null(), NewInt(5))
	if ok {
		t.Fatalf("Null comparison must be incomparable")
	}
	_, ok = Compare(Null(), Null())
	if ok {
		t.Fatalf("Null vs Null must be incomparable")
	}
}

func TestCompareCharsNumericMixed(t *testing.T) {
	cmp, ok := Compare(NewChars("3.5"), NewFloat(3.5))
	if !ok || cmp != 0 {
		t.Fatalf("expected chars/float equal, got cmp=%d ok=%v", cmp, ok)
	}

	_, ok = Compare(NewChars("abc"), NewInt(1))
	if ok {
		t.Fatalf("non-numeric chars vs int should be incomparable")
	}
}

func TestCompareIntFloatPromotion(t *testing.T) {
	cmp, ok := Compare(NewInt(2), NewFloat(2.0))
	if !ok || cmp != 0 {
		t.Fatalf("expected int/float equal, got cmp=%d ok=%v", cmp, ok)
	}
}

func TestArithmeticIntIntYieldsInt(t *testing.T) {
	v, err := Add(NewInt(2), NewInt(3))
	if err != nil || v.Kind() != KindInt || v.AsInt() != 5 {
		t.Fatalf("expected Int(5), got %v err=%v", v, err)
	}
}

func TestArithmeticDivAlwaysFloat(t *testing.T) {
	v, err := Divide(NewInt(6), NewInt(3))
	if err != nil || v.Kind() != KindFloat || v.AsFloat() != 2.0 {
		t.Fatalf("expected Float(2), got %v err=%v", v, err)
	}
}

func TestArithmeticDivideByZeroYieldsNull(t *testing.T) {
	v, err := Divide(NewInt(1), NewInt(0))
	if err != nil || !v.IsNull() {
		t.Fatalf("expected Null, got %v err=%v", v, err)
	}

	v, err = Divide(NewFloat(1), NewFloat(0))
	if err != nil || !v.IsNull() {
		t.Fatalf("expected Null, got %v err=%v", v, err)
	}
}

func TestArithmeticIdentityLaws(t *testing.T) {
	a := NewInt(7)
	zero := NewInt(0)
	one := NewInt(1)

	sum, _ := Add(a, zero)
	if sum.AsInt() != 7 {
		t.Fatalf("a+0 != a")
	}
	prod, _ := Multiply(a, one)
	if prod.AsInt() != 7 {
		t.Fatalf("a*1 != a")
	}
	diff, _ := Subtract(a, a)
	if diff.AsInt() != 0 {
		t.Fatalf("a-a != 0")
	}
}

func TestArithmeticRejectsNonNumeric(t *testing.T) {
	if _, err := Add(NewChars("x"), NewInt(1)); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestCastRoundTrip(t *testing.T) {
	for _, v := range []Value{NewInt(42), NewFloat(3.5), NewChars("hi")} {
		back, err := CastTo(v, v.Kind())
		if err != nil || back.String() != v.String() {
			t.Fatalf("round trip failed for %v: %v", v, err)
		}
	}
}

func TestCastCharsToDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2000-02-29", false}, // leap year
		{"1900-02-29", true},  // not a leap year (div by 100, not 400)
		{"2100-02-29", true},  // not a leap year
		{"2001-2-4", false},
		{"2001-13-1", true},
		{"0000-1-1", true},
	}
	for _, tt := range tests {
		_, err := CastTo(NewChars(tt.in), KindDate)
		if (err != nil) != tt.wantErr {
			t.Errorf("CastTo(%q, Date): err=%v, wantErr=%v", tt.in, err, tt.wantErr)
		}
	}
}

func TestDatePackUnpack(t *testing.T) {
	packed := PackDate(2001, 2, 4)
	y, m, d := UnpackDate(packed)
	if y != 2001 || m != 2 || d != 4 {
		t.Fatalf("unpack mismatch: %d %d %d", y, m, d)
	}
}
