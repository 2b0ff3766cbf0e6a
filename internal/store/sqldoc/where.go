package sqldoc

import (
	"fmt"
	"slices"
	"strings"

	"scheduleright/internal/store"
)

// indexedColumns maps document field names onto the denormalized index
// columns of the documents table. Anything else is filtered through JSON
// extraction on the body blob.
var indexedColumns = map[string]string{
	"type":         "doc_type",
	"org_id":       "org_id",
	"site_id":      "site_id",
	"slot_id":      "slot_id",
	"email":        "email",
	"client_email": "email",
	"token":        "token",
	"status":       "status",
	"start_time":   "start_time",
	"end_time":     "end_time",
}

func columnFor(field string) (string, error) {
	if col, ok := indexedColumns[field]; ok {
		return col, nil
	}

	for _, r := range field {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return "", fmt.Errorf("unsupported selector field: %s", field)
		}
	}

	return fmt.Sprintf("JSON_UNQUOTE(JSON_EXTRACT(body, '$.%s'))", field), nil
}

// buildWhere translates a selector into a SQL predicate with positional args.
// Fields are visited in sorted order so the generated SQL is deterministic.
func buildWhere(selector store.Selector) (string, []any, error) {
	if len(selector) == 0 {
		return "", nil, nil
	}

	fields := make([]string, 0, len(selector))
	for field := range selector {
		fields = append(fields, field)
	}

	slices.Sort(fields)

	predicates := make([]string, 0, len(fields))
	args := []any{}

	for _, field := range fields {
		column, err := columnFor(field)
		if err != nil {
			return "", nil, err
		}

		conds := asConds(selector[field])

		for _, cond := range conds {
			predicate, condArgs, err := buildPredicate(column, cond)
			if err != nil {
				return "", nil, err
			}

			predicates = append(predicates, predicate)
			args = append(args, condArgs...)
		}
	}

	return " WHERE " + strings.Join(predicates, " AND "), args, nil
}

func asConds(value any) store.Conds {
	switch v := value.(type) {
	case store.Cond:
		return store.Conds{v}
	case store.Conds:
		return v
	default:
		return store.Conds{{Op: store.OpEq, Value: v}}
	}
}

func buildPredicate(column string, cond store.Cond) (string, []any, error) {
	switch cond.Op {
	case store.OpEq:
		return column + " = ?", []any{cond.Value}, nil
	case store.OpNe:
		return column + " != ?", []any{cond.Value}, nil
	case store.OpGte:
		return column + " >= ?", []any{cond.Value}, nil
	case store.OpLte:
		return column + " <= ?", []any{cond.Value}, nil
	case store.OpIn:
		values, ok := cond.Value.([]any)
		if !ok {
			return "", nil, fmt.Errorf("$in requires a list of values")
		}

		if len(values) == 0 {
			// Nothing can match an empty membership list.
			return "1 = 0", nil, nil
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")

		return fmt.Sprintf("%s IN (%s)", column, placeholders), values, nil
	default:
		return "", nil, fmt.Errorf("unsupported selector operator: %s", cond.Op)
	}
}
