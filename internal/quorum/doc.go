// Package quorum provides the majority arithmetic behind leader elections and
// the parallel fan-out used to reach several peers at once (indirect probe
// relays and anti-entropy push targets).
package quorum
