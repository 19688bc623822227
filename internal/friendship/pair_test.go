package friendship

import "testing"

func TestCanonicalPair(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		lo, hi string
	}{
		{"already ordered", "u1", "u2", "u1", "u2"},
		{"reversed", "u2", "u1", "u1", "u2"},
		{"uuid-like ids", "b3c9", "a1f2", "a1f2", "b3c9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := CanonicalPair(tt.a, tt.b)
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("CanonicalPair(%q, %q) = (%q, %q), want (%q, %q)", tt.a, tt.b, lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestCanonicalPairCommutative(t *testing.T) {
	pairs := [][2]string{{"u1", "u2"}, {"zzz", "aaa"}, {"x", "x2"}}
	for _, p := range pairs {
		lo1, hi1 := CanonicalPair(p[0], p[1])
		lo2, hi2 := CanonicalPair(p[1], p[0])
		if lo1 != lo2 || hi1 != hi2 {
			t.Errorf("CanonicalPair not commutative for (%q, %q)", p[0], p[1])
		}
	}
}
