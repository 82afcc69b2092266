package projection

import (
	"fmt"
	"slices"
	"strings"
)

// OrderTerm is one parsed clause of an orderBy expression, before it has been
// resolved against a mapping set.
type OrderTerm struct {
	Clause     string // trimmed source text of the clause
	Field      string // logical field name
	Descending bool
}

// SortTerm orders by a single backing attribute.
type SortTerm struct {
	Attribute string
	Ascending bool
}

// SortClause is an ordered list of sort terms. The first term is the primary
// key; later terms only break ties. An empty clause means no explicit ordering
// was requested.
type SortClause []SortTerm

// IsEmpty reports whether the clause requests no ordering.
func (c SortClause) IsEmpty() bool {
	return len(c) == 0
}

// String renders the clause as "Attribute asc, Attribute desc".
func (c SortClause) String() string {
	parts := make([]string, len(c))
	for i, t := range c {
		dir := "asc"
		if !t.Ascending {
			dir = "desc"
		}
		parts[i] = t.Attribute + " " + dir
	}
	return strings.Join(parts, ", ")
}

// ParseOrderBy parses an orderBy expression using the grammar
//
//	expr   := clause (',' clause)*
//	clause := fieldName (' ' ('asc' | 'desc'))?
//
// Direction keywords are case-insensitive. A blank expression yields no terms.
// Every malformed clause is reported; the returned error wraps ErrInvalidSort.
func ParseOrderBy(expr string) ([]OrderTerm, error) {
	terms, errs := parseClauses(expr)
	if err := Combine(errs...); err != nil {
		return nil, err
	}
	return terms, nil
}

// parseClauses returns the well-formed terms of expr together with one error
// per malformed clause.
func parseClauses(expr string) ([]OrderTerm, []error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	var (
		terms []OrderTerm
		errs  []error
	)
	for _, raw := range strings.Split(expr, ",") {
		clause := strings.TrimSpace(raw)
		tokens := strings.Fields(clause)

		switch len(tokens) {
		case 0:
			errs = append(errs, &SortError{Clause: clause, Reason: "empty sort clause"})
		case 1:
			terms = append(terms, OrderTerm{Clause: clause, Field: tokens[0]})
		case 2:
			switch strings.ToLower(tokens[1]) {
			case "asc":
				terms = append(terms, OrderTerm{Clause: clause, Field: tokens[0]})
			case "desc":
				terms = append(terms, OrderTerm{Clause: clause, Field: tokens[0], Descending: true})
			default:
				errs = append(errs, &SortError{
					Clause: clause,
					Field:  tokens[0],
					Reason: fmt.Sprintf("unknown sort direction %q", tokens[1]),
				})
			}
		default:
			errs = append(errs, &SortError{
				Clause: clause,
				Field:  tokens[0],
				Reason: "expected a field name optionally followed by asc or desc",
			})
		}
	}
	return terms, errs
}

// CompileSort resolves an orderBy expression against the mappings registered
// for pair. Composite names expand to all of their backing attributes in
// declaration order; reversed mappings invert the requested direction.
//
// Unknown names and malformed clauses are collected into a single error wrapping
// ErrInvalidSort. A missing pair yields ErrUnregisteredMapping.
func (r *Registry) CompileSort(pair Pair, orderBy string) (SortClause, error) {
	set, err := r.Lookup(pair)
	if err != nil {
		return nil, err
	}

	terms, errs := parseClauses(orderBy)

	var clause SortClause
	for _, term := range terms {
		mapping, ok := set.Get(term.Field)
		if !ok {
			errs = append(errs, &SortError{
				Clause: term.Clause,
				Field:  term.Field,
				Reason: fmt.Sprintf("no mapping for %q", term.Field),
			})
			continue
		}
		descending := term.Descending != mapping.Reverse
		for _, target := range mapping.Targets {
			clause = append(clause, SortTerm{Attribute: target, Ascending: !descending})
		}
	}

	if err := Combine(errs...); err != nil {
		for _, e := range Unfold(err) {
			if se, ok := e.(*SortError); ok && se.Resource == "" {
				se.Resource = pair.String()
			}
		}
		return nil, err
	}
	return clause, nil
}

// Comparator orders two values of the same attribute, returning a negative
// number, zero or a positive number like cmp.Compare.
type Comparator[T any] func(a, b T) int

// SortStable orders items in place according to clause. Terms are applied from
// last to first, each with a stable single-key sort, so the first term ends up
// as the primary key and equal elements keep their relative order. Every
// attribute in clause needs a comparator.
func SortStable[T any](items []T, clause SortClause, comparators map[string]Comparator[T]) error {
	for _, term := range clause {
		if _, ok := comparators[term.Attribute]; !ok {
			return fmt.Errorf("no comparator for sort attribute %q", term.Attribute)
		}
	}

	for i := len(clause) - 1; i >= 0; i-- {
		term := clause[i]
		compare := comparators[term.Attribute]
		if term.Ascending {
			slices.SortStableFunc(items, compare)
		} else {
			slices.SortStableFunc(items, func(a, b T) int { return compare(b, a) })
		}
	}
	return nil
}
