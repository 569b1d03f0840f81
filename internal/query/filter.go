// Package query translates abstract filter/sort specifications into the SQL
// predicate consumed by the catalog store. It is stateless and never touches
// storage itself.
package query

import (
	"fmt"
	"strings"

	"bee-market/internal/catalog"
)

// Filter is the abstract read filter. Nil pointers mean "no constraint".
type Filter struct {
	OwnerID    *int64
	Category   string
	IsLimited  *bool
	InStock    *bool
	SearchTerm string
}

// Sort names a column from the allow-list plus a direction. A field outside
// the allow-list falls back silently to the default name-ascending order.
type Sort struct {
	Field      string
	Descending bool
}

// sortColumns is the allow-list of sortable fields. Caller-supplied names are
// never interpolated into SQL directly.
var sortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"createdAt": "created_at",
}

// Predicate is the assembled read predicate: a WHERE fragment with positional
// arguments and an ORDER BY clause.
type Predicate struct {
	Where   string
	Args    []interface{}
	OrderBy string
}

// Build assembles the predicate for a product listing.
func Build(f Filter, s Sort) Predicate {
	var b strings.Builder
	b.WriteString("WHERE 1=1")
	var args []interface{}

	and := func(clause string, arg interface{}) {
		args = append(args, arg)
		fmt.Fprintf(&b, " AND "+clause, len(args))
	}

	if f.OwnerID != nil {
		and("owner_id = $%d", *f.OwnerID)
	}
	if f.Category != "" {
		and("category = $%d", f.Category)
	}
	if f.IsLimited != nil {
		and("is_limited = $%d", *f.IsLimited)
	}
	if f.InStock != nil {
		and("in_stock = $%d", *f.InStock)
	}
	if f.SearchTerm != "" {
		and("name ILIKE $%d", "%"+escapeLike(f.SearchTerm)+"%")
	}

	return Predicate{Where: b.String(), Args: args, OrderBy: orderBy(s)}
}

func orderBy(s Sort) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		return "ORDER BY name ASC"
	}
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	return "ORDER BY " + col + " " + dir
}

// escapeLike neutralizes LIKE metacharacters so the search term is matched as
// a literal substring.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// ParseBoolFlag converts the text form of a boolean filter into its tri-state
// pointer. The empty string means "unset"; anything other than the sentinel
// literals "true" and "false" is rejected.
func ParseBoolFlag(s string) (*bool, error) {
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, &catalog.ValidationError{Field: "filter", Reason: fmt.Sprintf("boolean flag must be \"true\" or \"false\", got %q", s)}
	}
}
