// Package countdown exposes the timer store over gRPC.
//
// Messages are protobuf well-known types: a timer travels as a
// google.protobuf.Struct with the same "id", "label" and "target" fields as
// the persisted record, so no generated code is required.
package countdown
