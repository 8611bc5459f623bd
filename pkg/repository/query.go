package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Comparison operators a ListQuery filter may carry. The HTTP layer only
// produces these; anything else is rejected here as well so a future caller
// cannot smuggle raw SQL through the field/op pair.
const (
	OpEq  = "eq"
	OpGt  = "gt"
	OpGte = "gte"
	OpLt  = "lt"
	OpLte = "lte"
	OpIn  = "in"
)

var ErrUnknownOperator = errors.New("unknown filter operator")

var predicates = map[string]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

type Filter struct {
	Field string
	Op    string
	Value any
}

type SortKey struct {
	Field string
	Desc  bool
}

// ListQuery is the structured form of a listing request: filters, sort keys,
// a field projection and a page window. Field names are database columns,
// already validated against an allow-list by the caller.
type ListQuery struct {
	Filters []Filter
	Sort    []SortKey
	Fields  []string
	Page    int
	Limit   int
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func (q ListQuery) applyFilters(db *gorm.DB) (*gorm.DB, error) {
	for _, filter := range q.Filters {
		if filter.Op == OpIn {
			db = db.Where(fmt.Sprintf("%s IN ?", filter.Field), filter.Value)

			continue
		}

		predicate, found := predicates[filter.Op]
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, filter.Op)
		}

		db = db.Where(fmt.Sprintf("%s %s ?", filter.Field, predicate), filter.Value)
	}

	return db, nil
}

// applyWindow adds projection, ordering and the page window. keyColumns are
// always selected so association loading keeps working under a projection.
func (q ListQuery) applyWindow(db *gorm.DB, keyColumns ...string) *gorm.DB {
	if len(q.Fields) > 0 {
		columns := append([]string{}, keyColumns...)
		columns = append(columns, q.Fields...)
		db = db.Select(columns)
	}

	if len(q.Sort) == 0 {
		db = db.Order("created_at DESC")
	}

	for _, key := range q.Sort {
		direction := "ASC"
		if key.Desc {
			direction = "DESC"
		}

		db = db.Order(fmt.Sprintf("%s %s", key.Field, direction))
	}

	return db.Offset(q.Offset()).Limit(q.Limit)
}
