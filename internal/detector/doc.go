// Package detector implements the SWIM failure detector timer table.
//
// A probe moves a member through Pending -> AwaitingAck; a missed ack asks
// for an indirect probe, a missed indirect ack marks it Failed (suspect) and
// the suspicion timeout marks it Confirmed. Any ack removes the entry.
package detector
