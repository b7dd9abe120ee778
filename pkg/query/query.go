// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-style URL query parameters.
package query

import "strings"

// StringSlice splits a comma-separated query value into trimmed, non-empty,
// de-duplicated entries. An empty value yields nil.
//
// Example:
//
//	query.StringSlice("drama, sci-fi,,drama") // []string{"drama", "sci-fi"}
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}

	var res []string
	seen := make(map[string]bool)
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean == "" || seen[clean] {
			continue
		}
		seen[clean] = true
		res = append(res, clean)
	}
	return res
}
