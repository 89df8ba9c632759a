package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorLess      = "less"
	FilterOperatorGreater   = "greater"
	FilterIsNotNull         = "is_not_null"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
	FilterOperatorLess:      "<",
	FilterOperatorGreater:   ">",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Filter is one predicate on a column. Values are always bound as named arguments, keyed by
// ArgName or, when empty, by Field.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq less greater is_null is_not_null"`
	Table    string
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}

	column := f.Field
	if f.Table != "" {
		column = fmt.Sprintf("%s.%s", f.Table, f.Field)
	}

	argName := f.ArgName
	if argName == "" {
		argName = f.Field
	}

	if comparison, ok := comparisons[f.Operator]; ok {
		args[argName] = f.Value

		return fmt.Sprintf("%s %s :%s", column, comparison, argName), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[argName] = "%" + likeEscaper.Replace(fmt.Sprint(f.Value)) + "%"

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", column, argName), args
	case FilterOperatorIn:
		val := reflect.ValueOf(f.Value)
		if val.Kind() != reflect.Array && val.Kind() != reflect.Slice {
			args[argName] = f.Value

			return fmt.Sprintf("%s IN (:%s)", column, argName), args
		}

		if val.Len() == 0 {
			return "FALSE", args
		}

		named := make([]string, val.Len())

		for idx := range val.Len() {
			name := fmt.Sprintf("%s_%d", argName, idx)
			args[name] = val.Index(idx).Interface()
			named[idx] = ":" + name
		}

		return fmt.Sprintf("%s IN (%s)", column, strings.Join(named, ", ")), args
	case FilterIsNotNull:
		return column + " IS NOT NULL", args
	case FilterIsNull:
		return column + " IS NULL", args
	default:
		return "", args
	}
}

// FilterGroup joins Filters (Filter or nested FilterGroup) with Operator, AND when unset.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	whereClause := []string{}

	for _, filter := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch fill := filter.(type) {
		case Filter:
			where, arg = fill.GetWhereClause()
		case FilterGroup:
			where, arg = fill.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		whereClause = append(whereClause, where)
		maps.Copy(args, arg)
	}

	if len(whereClause) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return fmt.Sprintf("(%s)", strings.Join(whereClause, " "+operator+" ")), args
}
