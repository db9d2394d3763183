// Package clock provides the logical counters used by the gossip engine:
// the per-store update counter that tells anti-entropy rounds whether
// anything changed, and the incarnation arithmetic a member uses to refute
// suspicion about itself.
package clock
