package quorum

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultPerTargetTimeout bounds each send in a fan-out.
	DefaultPerTargetTimeout = 2 * time.Second

	// MinPopulation is the smallest group that can ever hold quorum.
	MinPopulation = 3
)

// Majority returns the smallest strict majority of total: total/2 + 1.
func Majority(total int) int {
	return (total / 2) + 1
}

// Check reports whether alive members of a group of total members form a
// quorum: at least MinPopulation members and an alive strict majority.
func Check(alive, total int) bool {
	if total < MinPopulation {
		return false
	}
	return alive >= Majority(total)
}

// Result represents the outcome of a fan-out.
type Result struct {
	Success      bool
	Acks         int
	Required     int
	Targets      int
	ErrorMessage string
}

// SendFunc delivers to a single target. It returns true on success.
type SendFunc func(ctx context.Context, targetID string) (bool, error)

// Fanout sends to every target in parallel and waits for all of them or for
// ctx. It succeeds when at least required sends succeeded; required <= 0
// means best effort and always succeeds once every send returned.
func Fanout(ctx context.Context, targets []string, required int, send SendFunc) Result {
	if len(targets) == 0 {
		return Result{
			Success:      required <= 0,
			ErrorMessage: "no targets provided",
		}
	}

	if required > len(targets) {
		return Result{
			Success:      false,
			Required:     required,
			Targets:      len(targets),
			ErrorMessage: fmt.Sprintf("required=%d exceeds target count=%d", required, len(targets)),
		}
	}

	var (
		mu   sync.Mutex
		acks int
		errs []error
		wg   sync.WaitGroup
	)

	targetCtx, cancel := context.WithTimeout(ctx, DefaultPerTargetTimeout)
	defer cancel()

	for _, targetID := range targets {
		wg.Add(1)
		go func(tid string) {
			defer wg.Done()

			ok, err := send(targetCtx, tid)
			mu.Lock()
			defer mu.Unlock()

			if ok {
				acks++
			} else if err != nil {
				errs = append(errs, fmt.Errorf("target %s: %w", tid, err))
			}
		}(targetID)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		mu.Lock()
		defer mu.Unlock()
		return Result{
			Success:      false,
			Acks:         acks,
			Required:     required,
			Targets:      len(targets),
			ErrorMessage: fmt.Sprintf("context cancelled: %v", ctx.Err()),
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if acks >= required {
		return Result{
			Success:  true,
			Acks:     acks,
			Required: required,
			Targets:  len(targets),
		}
	}

	errMsg := fmt.Sprintf("not enough acks: acks=%d required=%d targets=%d", acks, required, len(targets))
	if len(errs) > 0 {
		errMsg += fmt.Sprintf(" errors=%v", errs[:min(3, len(errs))])
	}

	return Result{
		Success:      false,
		Acks:         acks,
		Required:     required,
		Targets:      len(targets),
		ErrorMessage: errMsg,
	}
}
