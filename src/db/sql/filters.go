package db

import "strings"

// OrderClause translates an API ordering parameter ("date", "-amount")
// into a SQL ORDER BY expression using a per-entity whitelist of column
// names. Unknown or empty parameters fall back to the entity default.
func OrderClause(param string, allowed map[string]string, fallback string) string {
	if param == "" {
		return fallback
	}

	desc := strings.HasPrefix(param, "-")
	key := strings.TrimPrefix(param, "-")

	col, ok := allowed[key]
	if !ok {
		return fallback
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}
