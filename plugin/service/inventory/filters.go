// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"fmt"
	"regexp"
	"strings"
)

var filterRe = regexp.MustCompile(`(?i)([^=><!:\s]+)\s*(=|!=|>|<|<=|>=|:|eq|ne)\s*([^,]+)`)

// buildFilters validates the filters of a ListInstancesRequest. If none
// of them names the instance status, the running status filter is added.
func buildFilters(in []string) ([]string, error) {
	var filters []string
	var foundStateFilter bool
	for _, filterAttr := range in {
		key, _, value, valid := extractFilterValue(filterAttr)
		switch {
		case !valid:
			return nil, fmt.Errorf("invalid filter %q. Ensure the operator is one of =, !=, >, <, <=, >=, :, eq, ne", filterAttr)
		case len(strings.TrimSpace(key)) == 0:
			return nil, fmt.Errorf("filter %q contains an empty filter key", filterAttr)
		case len(strings.TrimSpace(value)) == 0:
			return nil, fmt.Errorf("filter %q contains an empty value", filterAttr)
		}

		if key == "status" {
			foundStateFilter = true
		}
		filters = append(filters, filterAttr)
	}

	if !foundStateFilter {
		filters = append(filters, defaultStatusFilter)
	}
	return filters, nil
}

// extractFilterValue splits a "key operator value" filter. The boolean
// reports whether the filter had that shape.
func extractFilterValue(s string) (string, string, string, bool) {
	matches := filterRe.FindStringSubmatch(s)
	if len(matches) == 4 {
		return matches[1], matches[2], matches[3], true
	}
	return "", "", "", false
}
