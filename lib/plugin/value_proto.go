package plugin

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Proto converts v to a protobuf number value.
func (v Value) Proto() *structpb.Value {
	return structpb.NewNumberValue(v.Number)
}

// ValuesToProto converts vals to a protobuf list.
func ValuesToProto(vals []Value) *structpb.ListValue {
	list := &structpb.ListValue{Values: make([]*structpb.Value, len(vals))}
	for i, v := range vals {
		list.Values[i] = v.Proto()
	}
	return list
}

// ValuesFromProto converts a protobuf list of numbers. Any other kind of
// element is rejected.
func ValuesFromProto(list *structpb.ListValue) ([]Value, error) {
	vals := make([]Value, len(list.GetValues()))
	for i, pv := range list.GetValues() {
		n, ok := pv.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("element %d is not a number: %T", i, pv.GetKind())
		}
		vals[i] = Value{Number: n.NumberValue}
	}
	return vals, nil
}

// MarshalValuesJSON renders vals as the protobuf JSON form of a list.
// JSON has no NaN or infinity, so non-finite values are rejected.
func MarshalValuesJSON(vals []Value) ([]byte, error) {
	for i, v := range vals {
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return nil, fmt.Errorf("element %d is %s, which JSON cannot represent", i, v)
		}
	}
	return protojson.Marshal(ValuesToProto(vals))
}

// UnmarshalValuesJSON parses the protobuf JSON form of a list of numbers.
func UnmarshalValuesJSON(data []byte) ([]Value, error) {
	var list structpb.ListValue
	if err := protojson.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return ValuesFromProto(&list)
}
