package utils

import (
	"strconv"
	"strings"
)

// ParseID parses a positive numeric id from a path or form value
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ParseIDs parses every value with ParseID, skipping the invalid ones
func ParseIDs(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		if id, ok := ParseID(v); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
