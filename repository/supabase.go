package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
)

var ErrNotFound = errors.New("record not found")

// Querier is satisfied by both *supa.Client and *postgrest.Client.
type Querier interface {
	From(table string) *postgrest.QueryBuilder
}

// fetch executes the query and decodes the JSON array PostgREST returns.
func fetch[T any](query *postgrest.FilterBuilder) ([]T, error) {
	data, _, err := query.Execute()
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

func first[T any](query *postgrest.FilterBuilder) (*T, error) {
	rows, err := fetch[T](query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func orderBy(column string, ascending bool) (string, *postgrest.OrderOpts) {
	return column, &postgrest.OrderOpts{Ascending: ascending}
}

// quote makes a value safe inside an or=(...) filter.
func quote(value string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value) + `"`
}
