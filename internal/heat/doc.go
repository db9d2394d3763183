// Package heat tracks which rumors still need to be sent to which members.
// A rumor starts hot for everybody when it changes and cools for one member
// each time it is delivered to that member.
package heat
