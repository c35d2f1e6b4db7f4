// Package mask produces the deterministic key material used to obfuscate
// video frames and applies it via byte-wise XOR. Because XOR is its own
// inverse, running the same seed over an obfuscated video restores the
// original frames; "encrypt" and "decrypt" are the same operation.
//
// This is obfuscation, not cryptography: the keystream comes from a plain
// seeded PRNG and offers no resistance to known-plaintext recovery.
package mask

import (
	"fmt"
	"math/rand/v2"
)

// streamSalt derives the second PCG state word from the seed so the two
// words are never identical. Value is fixed forever; changing it would
// break decryption of existing outputs.
const streamSalt = 0x9e3779b97f4a7c15

// Generator yields a reproducible stream of mask bytes for one run.
// It is owned by a single pipeline and must not be shared across runs;
// the zero value is not usable, construct with NewGenerator.
//
// The internal position advances by exactly the number of bytes consumed,
// regardless of the shape they were requested in, so an odd-shaped frame
// mid-run does not desynchronize the sequence for later frames.
type Generator struct {
	rng  *rand.PCG
	word uint64
	rem  int
}

// NewGenerator creates a generator seeded for one run. The same seed
// always produces the same byte stream, on any platform.
func NewGenerator(seed int64) *Generator {
	s := uint64(seed)
	return &Generator{rng: rand.NewPCG(s, s^streamSalt)}
}

// Next returns width*height*channels mask bytes for the next frame,
// advancing the generator state. Dimensions must be non-negative.
func (g *Generator) Next(width, height, channels int) ([]byte, error) {
	if width < 0 || height < 0 || channels < 0 {
		return nil, fmt.Errorf("invalid mask shape %dx%dx%d", width, height, channels)
	}
	buf := make([]byte, width*height*channels)
	g.fill(buf)
	return buf, nil
}

// fill writes mask bytes into p, consuming the PCG output stream
// little-endian, one byte at a time. Leftover bytes of the current
// 64-bit word carry over to the next call.
func (g *Generator) fill(p []byte) {
	for i := range p {
		if g.rem == 0 {
			g.word = g.rng.Uint64()
			g.rem = 8
		}
		p[i] = byte(g.word)
		g.word >>= 8
		g.rem--
	}
}
