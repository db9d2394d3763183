package clock

import (
	"math"
	"sync"
	"testing"
)

func TestCounter_Increment(t *testing.T) {
	var c Counter
	if c.Load() != 0 {
		t.Fatalf("Expected zero value counter to start at 0, got %d", c.Load())
	}
	if got := c.Increment(); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
	if got := c.Increment(); got != 2 {
		t.Errorf("Expected 2, got %d", got)
	}
}

func TestCounter_WrapsOnOverflow(t *testing.T) {
	var c Counter
	c.Set(math.MaxUint64)
	if got := c.Increment(); got != 0 {
		t.Errorf("Expected counter to wrap to 0, got %d", got)
	}
	if got := c.Increment(); got != 1 {
		t.Errorf("Expected 1 after wrap, got %d", got)
	}
}

func TestCounter_Concurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Increment()
			}
		}()
	}
	wg.Wait()
	if c.Load() != 8000 {
		t.Errorf("Expected 8000, got %d", c.Load())
	}
}

func TestSum_Wraps(t *testing.T) {
	if got := Sum(math.MaxUint64, 2); got != 1 {
		t.Errorf("Expected wrapped sum 1, got %d", got)
	}
}

func TestNextIncarnation(t *testing.T) {
	tests := []struct {
		name     string
		current  uint64
		observed uint64
		want     uint64
	}{
		{"observed equal", 3, 3, 4},
		{"observed ahead", 3, 7, 8},
		{"observed behind", 5, 2, 6},
		{"from zero", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextIncarnation(tt.current, tt.observed); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
