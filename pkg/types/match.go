package types

// MatchType is the three-valued outcome of a condition.
type MatchType int

const (
	// MatchNotApplicable means the condition could not judge the file, for
	// example a content test on a binary file.
	MatchNotApplicable MatchType = iota
	MatchYes
	MatchNo
)

func (m MatchType) String() string {
	switch m {
	case MatchYes:
		return "yes"
	case MatchNo:
		return "no"
	default:
		return "not_applicable"
	}
}

// MatchResult is a MatchType plus the values the condition extracted while
// deciding. Values is never nil.
type MatchResult struct {
	Type   MatchType
	Values []string
}

func newMatch(t MatchType, values []string) MatchResult {
	if values == nil {
		values = []string{}
	}
	return MatchResult{Type: t, Values: values}
}

// Yes builds a positive result.
func Yes(values ...string) MatchResult { return newMatch(MatchYes, values) }

// No builds a negative result.
func No(values ...string) MatchResult { return newMatch(MatchNo, values) }

// NotApplicable builds a result for a file the condition cannot judge.
func NotApplicable(values ...string) MatchResult { return newMatch(MatchNotApplicable, values) }

// IsMatch reports whether the result is Yes.
func (r MatchResult) IsMatch() bool { return r.Type == MatchYes }
