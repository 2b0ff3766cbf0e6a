package store

// Op is a selector operator. The supported set is deliberately small: it is
// the subset both backends can translate (Mango passthrough on CouchDB, SQL
// predicates on the relational fallback).
type Op string

const (
	OpEq  Op = "$eq"
	OpNe  Op = "$ne"
	OpIn  Op = "$in"
	OpGte Op = "$gte"
	OpLte Op = "$lte"
)

// Cond is a single operator match on a field.
type Cond struct {
	Op    Op
	Value any
}

// Conds combines several operator matches on the same field (e.g. a range).
type Conds []Cond

func Ne(value any) Cond {
	return Cond{Op: OpNe, Value: value}
}

func In(values ...any) Cond {
	return Cond{Op: OpIn, Value: values}
}

func Gte(value any) Cond {
	return Cond{Op: OpGte, Value: value}
}

func Lte(value any) Cond {
	return Cond{Op: OpLte, Value: value}
}

// Between matches values in the closed interval [from, to].
func Between(from, to any) Conds {
	return Conds{Gte(from), Lte(to)}
}

// Selector maps field names to either a literal value (equality) or a
// Cond/Conds operator match. All fields combine with AND.
type Selector map[string]any

// Mango renders the selector as a CouchDB Mango selector document.
func (s Selector) Mango() map[string]any {
	mango := make(map[string]any, len(s))

	for field, value := range s {
		switch v := value.(type) {
		case Cond:
			mango[field] = map[string]any{string(v.Op): v.Value}
		case Conds:
			combined := make(map[string]any, len(v))
			for _, cond := range v {
				combined[string(cond.Op)] = cond.Value
			}

			mango[field] = combined
		default:
			mango[field] = map[string]any{string(OpEq): v}
		}
	}

	return mango
}

// Sort orders results by a single field.
type Sort struct {
	Field      string
	Descending bool
}

// Query is a selector plus ordering and pagination.
type Query struct {
	Selector Selector
	Sort     []Sort
	Limit    int
	Skip     int
}
