// Package rumor defines the self-merging facts spread through the cluster:
// membership, services, service configuration and files, elections and
// departures. Every rumor has a stable (kind, key, id) identity and a Merge
// operation that converges regardless of delivery order.
package rumor
