// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package values reads typed values out of the attribute bags handed to
// the plugins.
package values

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// GetStringValue returns the string stored under k. A missing or empty
// value is an error only when required is set.
func GetStringValue(in *structpb.Struct, k string, required bool) (string, error) {
	v, ok := in.GetFields()[k]
	if !ok || isNull(v) {
		if required {
			return "", fmt.Errorf("missing required value %q", k)
		}
		return "", nil
	}

	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("unexpected type for value %q: want string, got %T", k, v.AsInterface())
	}
	if s.StringValue == "" && required {
		return "", fmt.Errorf("value %q cannot be empty", k)
	}
	return s.StringValue, nil
}

// GetBoolValue returns the bool stored under k, or false when the value is
// absent and not required.
func GetBoolValue(in *structpb.Struct, k string, required bool) (bool, error) {
	v, ok := in.GetFields()[k]
	if !ok || isNull(v) {
		if required {
			return false, fmt.Errorf("missing required value %q", k)
		}
		return false, nil
	}

	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("unexpected type for value %q: want bool, got %T", k, v.AsInterface())
	}
	return b.BoolValue, nil
}

// GetIntValue returns the integer stored under k. structpb only carries
// float64 numbers, so fractional values are rejected rather than truncated.
func GetIntValue(in *structpb.Struct, k string, required bool) (int64, error) {
	v, ok := in.GetFields()[k]
	if !ok || isNull(v) {
		if required {
			return 0, fmt.Errorf("missing required value %q", k)
		}
		return 0, nil
	}

	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("unexpected type for value %q: want number, got %T", k, v.AsInterface())
	}
	if n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("value %q must be a whole number, got %v", k, n.NumberValue)
	}
	return int64(n.NumberValue), nil
}

// StructFields returns the set of keys present in s. Callers delete the
// keys they recognize and report whatever is left as unknown.
func StructFields(s *structpb.Struct) map[string]struct{} {
	fields := make(map[string]struct{}, len(s.GetFields()))
	for k := range s.GetFields() {
		fields[k] = struct{}{}
	}
	return fields
}

func isNull(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return ok
}
