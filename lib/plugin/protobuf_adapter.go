package plugin

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// NewProtobufAdapter creates an Adapter whose requests and responses are
// protobuf lists of numbers. It suits hosts that already carry values as
// google.protobuf.ListValue.
func NewProtobufAdapter(caller Caller) *Adapter[*structpb.ListValue, *structpb.ListValue] {
	serializer := Serializer[*structpb.ListValue, *structpb.ListValue]{
		MarshalRequest: ValuesFromProto,
		UnmarshalResponse: func(out []Value) (*structpb.ListValue, error) {
			return ValuesToProto(out), nil
		},
	}
	return NewAdapter(caller, serializer)
}
