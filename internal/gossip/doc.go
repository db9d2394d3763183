// Package gossip implements the membership and rumor engine: a SWIM failure
// detector over one UDP socket and anti-entropy push gossip over another,
// sharing the rumor stores, member list and elections owned by a Server.
//
// The Server runs five independent loops (inbound, outbound, expire, push
// and pull). They share state only through the lock-guarded stores, never
// through direct calls, so none depends on another making progress.
package gossip
