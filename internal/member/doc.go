// Package member implements the member list: every known cluster member and
// its health, kept as membership rumors so health changes spread like any
// other rumor, plus the round-robin probe order used by failure detection.
package member
