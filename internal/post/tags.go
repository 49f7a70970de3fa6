// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package post

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TagList is an ordered list of tag names. Order is preserved as given and
// duplicates are kept. In JSON it accepts either a list of values or a single
// comma-separated string; anything else decodes to an empty list.
type TagList []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *TagList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = normalizeTags(raw)
	return nil
}

// normalizeTags trims each entry and drops the empty ones.
func normalizeTags(raw any) []string {
	switch v := raw.(type) {
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if tag := strings.TrimSpace(fmt.Sprint(item)); tag != "" {
				tags = append(tags, tag)
			}
		}
		return tags
	case string:
		tags := make([]string, 0)
		for _, part := range strings.Split(v, ",") {
			if tag := strings.TrimSpace(part); tag != "" {
				tags = append(tags, tag)
			}
		}
		return tags
	}
	return []string{}
}
