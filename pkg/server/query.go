package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tablescout.dev/TableScout/pkg/repository"
)

// Envelope is the standard response wrapper.
type Envelope struct {
	Success    bool        `json:"success"`
	Count      *int        `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Prev *PageRef `json:"prev,omitempty"`
	Next *PageRef `json:"next,omitempty"`
}

func dataEnvelope(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func listEnvelope(data any, count int, pagination Pagination) Envelope {
	return Envelope{Success: true, Count: &count, Pagination: &pagination, Data: data}
}

// Field describes one queryable attribute: the store column it maps to and
// whether its values bind numerically. Text columns must receive string
// binds even when the value looks like a number, otherwise id-shaped input
// such as a zipcode of "02108" would lose its leading zero and mismatch the
// column type at the store.
type Field struct {
	Column  string
	Numeric bool
}

// FieldSet maps the query-string names of an entity onto queryable fields.
// Anything not listed cannot be filtered, sorted or selected on.
type FieldSet map[string]Field

// RestaurantFields is the query surface of the restaurant collection.
var RestaurantFields = FieldSet{
	"name":          {Column: "name"},
	"slug":          {Column: "slug"},
	"description":   {Column: "description"},
	"phone":         {Column: "phone"},
	"email":         {Column: "email"},
	"website":       {Column: "website"},
	"photo":         {Column: "photo"},
	"averageRating": {Column: "average_rating", Numeric: true},
	"averageCost":   {Column: "average_cost", Numeric: true},
	"createdAt":     {Column: "created_at"},
	"city":          {Column: "location_city"},
	"state":         {Column: "location_state"},
	"zipcode":       {Column: "location_zipcode"},
	"country":       {Column: "location_country"},
}

// FoodFields is the query surface of the food collection.
var FoodFields = FieldSet{
	"name":         {Column: "name"},
	"description":  {Column: "description"},
	"price":        {Column: "price", Numeric: true},
	"createdAt":    {Column: "created_at"},
	"restaurantId": {Column: "restaurant_id", Numeric: true},
}

const (
	defaultPage  = 1
	defaultLimit = 25
)

var reservedKeys = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

var filterOperators = map[string]string{
	"gt":  repository.OpGt,
	"gte": repository.OpGte,
	"lt":  repository.OpLt,
	"lte": repository.OpLte,
	"in":  repository.OpIn,
}

// ParseListQuery translates raw query-string parameters into a structured
// store query. Filters arrive either as plain equality (`city=Boston`) or as
// a bracketed operator (`price[gte]=10`). Operators and field names outside
// the entity's field set are rejected rather than forwarded to the store.
func ParseListQuery(values url.Values, fields FieldSet) (repository.ListQuery, error) {
	query := repository.ListQuery{Page: defaultPage, Limit: defaultLimit}

	for key := range values {
		if reservedKeys[key] {
			continue
		}

		filter, err := parseFilter(key, values.Get(key), fields)
		if err != nil {
			return repository.ListQuery{}, err
		}

		query.Filters = append(query.Filters, filter)
	}

	if err := parseSort(values.Get("sort"), fields, &query); err != nil {
		return repository.ListQuery{}, err
	}

	if err := parseSelect(values.Get("select"), fields, &query); err != nil {
		return repository.ListQuery{}, err
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		query.Page = page
	}

	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		query.Limit = limit
	}

	return query, nil
}

func parseFilter(key string, value string, fields FieldSet) (repository.Filter, error) {
	name := key
	op := repository.OpEq

	if open := strings.IndexByte(key, '['); open >= 0 {
		if !strings.HasSuffix(key, "]") {
			return repository.Filter{}, ValidationFailed(fmt.Sprintf("malformed filter parameter %q", key))
		}

		name = key[:open]

		keyword := key[open+1 : len(key)-1]

		known, found := filterOperators[keyword]
		if !found {
			return repository.Filter{}, ValidationFailed(fmt.Sprintf("unsupported filter operator %q", keyword))
		}

		op = known
	}

	field, found := fields[name]
	if !found {
		return repository.Filter{}, ValidationFailed(fmt.Sprintf("cannot filter on field %q", name))
	}

	if op == repository.OpIn {
		elements, err := field.coerceList(name, strings.Split(value, ","))
		if err != nil {
			return repository.Filter{}, err
		}

		return repository.Filter{Field: field.Column, Op: op, Value: elements}, nil
	}

	coerced, err := field.coerce(name, value)
	if err != nil {
		return repository.Filter{}, err
	}

	return repository.Filter{Field: field.Column, Op: op, Value: coerced}, nil
}

// coerce converts the value for numeric fields and leaves everything else a
// string, so binds always match the target column type.
func (f Field) coerce(name string, value string) (any, error) {
	if !f.Numeric {
		return value, nil
	}

	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, ValidationFailed(fmt.Sprintf("field %q takes a numeric value, got %q", name, value))
	}

	return number, nil
}

func (f Field) coerceList(name string, values []string) (any, error) {
	if !f.Numeric {
		return values, nil
	}

	numbers := make([]float64, 0, len(values))

	for _, value := range values {
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, ValidationFailed(fmt.Sprintf("field %q takes numeric values, got %q", name, value))
		}

		numbers = append(numbers, number)
	}

	return numbers, nil
}

func parseSort(raw string, fields FieldSet, query *repository.ListQuery) error {
	if raw == "" {
		return nil
	}

	for _, key := range strings.Split(raw, ",") {
		descending := strings.HasPrefix(key, "-")
		name := strings.TrimPrefix(key, "-")

		field, found := fields[name]
		if !found {
			return ValidationFailed(fmt.Sprintf("cannot sort on field %q", name))
		}

		query.Sort = append(query.Sort, repository.SortKey{Field: field.Column, Desc: descending})
	}

	return nil
}

func parseSelect(raw string, fields FieldSet, query *repository.ListQuery) error {
	if raw == "" {
		return nil
	}

	for _, name := range strings.Split(raw, ",") {
		field, found := fields[name]
		if !found {
			return ValidationFailed(fmt.Sprintf("cannot select field %q", name))
		}

		query.Fields = append(query.Fields, field.Column)
	}

	return nil
}

// BuildPagination derives prev/next page references from the filtered total.
func BuildPagination(query repository.ListQuery, total int64) Pagination {
	var pagination Pagination

	if query.Offset() > 0 {
		pagination.Prev = &PageRef{Page: query.Page - 1, Limit: query.Limit}
	}

	if int64(query.Page*query.Limit) < total {
		pagination.Next = &PageRef{Page: query.Page + 1, Limit: query.Limit}
	}

	return pagination
}
