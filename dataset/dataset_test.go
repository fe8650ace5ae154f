package dataset

import (
	"math"
	"testing"
)

func TestGenSeq(t *testing.T) {
	for _, length := range []int{1, 4, 5, 10} {
		for i := 0; i < 100; i++ {
			x, y := GenSeq(length)
			if len(x) != length {
				t.Fatalf("length %d: got %d digits", length, len(x))
			}
			full := append(append([]float64{}, x...), float64(y))
			for j := range full {
				d := full[j]
				if d != math.Trunc(d) || d < 0 || d > 9 {
					t.Fatalf("digit %d is %v, expected an integer in [0,9]", j, d)
				}
				if full[j] != full[len(full)-1-j] {
					t.Fatalf("sequence %v is not a palindrome", full)
				}
			}
			if y != int(x[0]) {
				t.Fatalf("label %d does not equal first digit %v", y, x[0])
			}
		}
	}
}

func TestGenBatch(t *testing.T) {
	x, y := GenBatch(32, 7)
	if len(x) != 32 || len(y) != 32 {
		t.Fatalf("expected 32 sequences and labels, got %d and %d", len(x), len(y))
	}
	for b := range x {
		if len(x[b]) != 7 {
			t.Fatalf("sequence %d has length %d, expected 7", b, len(x[b]))
		}
	}
}
