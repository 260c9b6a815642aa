// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InvalidArgumentError returns a grpc status error with code
// InvalidArgument. Every entry of badFields is appended to the message
// and attached as a BadRequest field violation, so callers see all of the
// problems with their attributes at once.
func InvalidArgumentError(msg string, badFields map[string]string) error {
	fields := make([]string, 0, len(badFields))
	for field := range badFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var details []string
	br := &errdetails.BadRequest{}
	for _, field := range fields {
		details = append(details, fmt.Sprintf("%s: %s", field, badFields[field]))
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       field,
			Description: badFields[field],
		})
	}
	if len(details) > 0 {
		msg = fmt.Sprintf("%s: [%s]", msg, strings.Join(details, ", "))
	}

	st := status.New(codes.InvalidArgument, msg)
	if len(br.FieldViolations) == 0 {
		return st.Err()
	}
	withDetails, err := st.WithDetails(br)
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}
