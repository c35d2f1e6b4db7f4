package mask

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"
)

func randomBytes(rng *rand.PCG, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(rng.Uint64())
	}
	return buf
}

func TestApply_SelfInverse(t *testing.T) {
	rng := rand.NewPCG(1, 2)

	// Includes the degenerate sizes: empty and a single byte.
	for _, n := range []int{0, 1, 7, 48, 4096} {
		frame := randomBytes(rng, n)
		key := randomBytes(rng, n)

		once := make([]byte, n)
		if err := Apply(once, frame, key); err != nil {
			t.Fatalf("Apply failed for n=%d: %v", n, err)
		}

		twice := make([]byte, n)
		if err := Apply(twice, once, key); err != nil {
			t.Fatalf("Apply failed for n=%d: %v", n, err)
		}

		if !bytes.Equal(twice, frame) {
			t.Errorf("double transform did not restore original for n=%d", n)
		}
	}
}

func TestApply_InPlace(t *testing.T) {
	frame := []byte{0x00, 0xFF, 0xAA, 0x55}
	key := []byte{0xFF, 0xFF, 0x0F, 0xF0}
	orig := append([]byte{}, frame...)

	if err := Apply(frame, frame, key); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := []byte{0xFF, 0x00, 0xA5, 0xA5}
	if !bytes.Equal(frame, want) {
		t.Errorf("got %x, want %x", frame, want)
	}

	if err := Apply(frame, frame, key); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !bytes.Equal(frame, orig) {
		t.Errorf("in-place double transform did not restore original")
	}
}

func TestApply_ChangesData(t *testing.T) {
	g := NewGenerator(42)
	frame := make([]byte, 48)
	for i := range frame {
		frame[i] = byte(i)
	}

	key, _ := g.Next(4, 4, 3)
	out := make([]byte, len(frame))
	if err := Apply(out, frame, key); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if bytes.Equal(out, frame) {
		t.Error("transform with a random mask should not be a no-op")
	}
}

func TestApply_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name            string
		dst, frame, key int
	}{
		{"short mask", 8, 8, 4},
		{"long mask", 8, 8, 16},
		{"short dst", 4, 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Apply(make([]byte, tt.dst), make([]byte, tt.frame), make([]byte, tt.key))
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("got %v, want ErrShapeMismatch", err)
			}
		})
	}
}
