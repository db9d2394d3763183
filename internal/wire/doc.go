// Package wire encodes the datagrams exchanged by the SWIM and gossip
// sockets. Messages convert to the protobuf types generated from
// api/rumormill.proto, are snappy compressed and, when a ring key is
// configured, encrypted.
package wire
