package repository

import (
	"fmt"
	"strings"
)

// EmployeeFilter captures list query parameters.
type EmployeeFilter struct {
	Name    string
	Role    string
	Company string
	Limit   int
	Offset  int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a raw term into an ILIKE substring pattern.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// whereClause builds the shared predicate for the page and count queries.
// Empty filters contribute no clause.
func (f EmployeeFilter) whereClause() (string, []any) {
	clauses := []string{}
	args := []any{}

	add := func(column, term string) {
		if term == "" {
			return
		}
		args = append(args, containsPattern(term))
		clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}
	add("name", f.Name)
	add("role", f.Role)
	add("company", f.Company)

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (f EmployeeFilter) window() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = 10
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Matches applies the same predicate in memory.
func (f EmployeeFilter) Matches(name, role, company string) bool {
	return containsFold(name, f.Name) && containsFold(role, f.Role) && containsFold(company, f.Company)
}

func containsFold(value, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}
