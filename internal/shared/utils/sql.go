package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereClause returns "" when there is nothing to filter on.
func WhereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(clauses)
}

// EscapeLike escapes the ILIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // backslash first
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// Placeholder returns the pgx positional parameter for position n.
func Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
