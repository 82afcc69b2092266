package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phrazzld/library-api/internal/projection"
)

// Sortable attributes and the SQL expressions they order by. Text columns
// are compared case-insensitively.
var (
	authorColumns = map[string]string{
		"Id":          "id",
		"FirstName":   "lower(first_name)",
		"LastName":    "lower(last_name)",
		"Genre":       "lower(genre)",
		"DateOfBirth": "date_of_birth",
	}
	bookColumns = map[string]string{
		"Id":          "id",
		"Title":       "lower(title)",
		"Description": "lower(description)",
	}
)

// orderClause renders sort as the body of an ORDER BY, in priority order,
// with id as the final tiebreak so paging is deterministic.
func orderClause(sort projection.SortClause, columns map[string]string) (string, error) {
	parts := make([]string, 0, len(sort)+1)
	for _, term := range sort {
		column, ok := columns[term.Attribute]
		if !ok {
			return "", fmt.Errorf("no column for sort attribute %q", term.Attribute)
		}
		dir := "ASC"
		if !term.Ascending {
			dir = "DESC"
		}
		parts = append(parts, column+" "+dir)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", "), nil
}

// params collects positional query arguments.
type params struct {
	args []any
}

// add appends v and returns its placeholder.
func (p *params) add(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}
