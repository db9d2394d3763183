package clock

import (
	"math/rand"
	"testing"
)

// TestNextIncarnation_Property_StrictlyAboveBoth checks that a refutation
// always outranks both the local incarnation and the claim it answers.
func TestNextIncarnation_Property_StrictlyAboveBoth(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		cur := uint64(rng.Intn(1 << 20))
		obs := uint64(rng.Intn(1 << 20))
		next := NextIncarnation(cur, obs)
		if next <= cur || next <= obs {
			t.Fatalf("NextIncarnation(%d, %d) = %d is not above both", cur, obs, next)
		}
		if next > max(cur, obs)+1 {
			t.Fatalf("NextIncarnation(%d, %d) = %d skips values", cur, obs, next)
		}
	}
}

// TestCounter_Property_DistinguishesStates checks that any accepted change
// produces a value different from the one observed before it.
func TestCounter_Property_DistinguishesStates(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	var c Counter
	for i := 0; i < 1000; i++ {
		c.Set(rng.Uint64())
		before := c.Load()
		if c.Increment() == before {
			t.Fatalf("Increment from %d did not change the value", before)
		}
	}
}
