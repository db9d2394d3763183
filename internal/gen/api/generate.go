// Package rumormillpb holds the protobuf messages generated from
// api/rumormill.proto.
package rumormillpb

//go:generate protoc --proto_path=../../../api --go_out=. --go_opt=paths=source_relative rumormill.proto
