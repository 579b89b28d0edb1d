package metadata

// Operator represents a comparison operator for filtering.
type Operator string

const (
	// OpEqual represents the equality operator.
	OpEqual Operator = "eq"
	// OpNotEqual represents the inequality operator.
	OpNotEqual Operator = "ne"
	// OpGreaterThan represents the greater than operator.
	OpGreaterThan Operator = "gt"
	// OpGreaterEqual represents the greater than or equal operator.
	OpGreaterEqual Operator = "gte"
	// OpLessThan represents the less than operator.
	OpLessThan Operator = "lt"
	// OpLessEqual represents the less than or equal operator.
	OpLessEqual Operator = "lte"
	// OpIn represents the in list operator.
	OpIn Operator = "in"
	// OpRange selects the half-open interval [Value, Upper).
	OpRange Operator = "range"
)

// Filter is a predicate over a single value.
type Filter struct {
	Operator Operator `json:"op"`
	Value    Value    `json:"value"`
	Upper    Value    `json:"upper,omitempty"`
	Values   []Value  `json:"values,omitempty"`
}

// Eq returns an equality filter.
func Eq(v Value) Filter { return Filter{Operator: OpEqual, Value: v} }

// Range returns a filter selecting [lo, hi).
func Range(lo, hi Value) Filter { return Filter{Operator: OpRange, Value: lo, Upper: hi} }

// In returns a set membership filter.
func In(vs ...Value) Filter { return Filter{Operator: OpIn, Values: vs} }

// Matches reports whether v satisfies the filter.
//
// Ordering operators only match values of a comparable rank: numbers against
// numbers, strings against strings.
func (f Filter) Matches(v Value) bool {
	switch f.Operator {
	case OpEqual:
		return Equal(v, f.Value)
	case OpNotEqual:
		return !Equal(v, f.Value)
	case OpGreaterThan:
		return sameRank(v, f.Value) && Compare(v, f.Value) > 0
	case OpGreaterEqual:
		return sameRank(v, f.Value) && Compare(v, f.Value) >= 0
	case OpLessThan:
		return sameRank(v, f.Value) && Compare(v, f.Value) < 0
	case OpLessEqual:
		return sameRank(v, f.Value) && Compare(v, f.Value) <= 0
	case OpIn:
		for _, item := range f.Values {
			if Equal(v, item) {
				return true
			}
		}
		return false
	case OpRange:
		return sameRank(v, f.Value) && sameRank(v, f.Upper) &&
			Compare(v, f.Value) >= 0 && Compare(v, f.Upper) < 0
	default:
		return false
	}
}

func sameRank(a, b Value) bool {
	return rank(a.Kind) == rank(b.Kind)
}
