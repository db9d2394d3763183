// Package election holds the decision rules of the leader election protocol
// that runs on top of election rumors: vote tallies, when a candidate may
// declare itself finished, when a settled election must be restarted, and
// the local view a service takes of an election.
package election
