package geo

import (
	"math"
	"testing"
)

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	if d := Distance(-19.0, -40.0, -19.0, -40.0); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(-19.0, -40.0, -19.5, -40.2)
	b := Distance(-19.5, -40.2, -19.0, -40.0)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("asymmetric distance: %f vs %f", a, b)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// one degree of latitude is ~111.19 km
	d := Distance(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.1 {
		t.Fatalf("got %f, want ~111.19", d)
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10.50", 10.5, true},
		{" -19.0 ", -19.0, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseDecimal(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseDecimal(%q) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
