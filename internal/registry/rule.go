package registry

// RuleKind names the constraint variants an option can declare.
type RuleKind string

const (
	// RuleNone passes every value, including values of the wrong kind.
	// Distinct from a nil Rule, which falls back to a bare kind check.
	RuleNone RuleKind = "none"

	// RuleRange accepts number values within an inclusive range.
	RuleRange RuleKind = "range"

	// RulePattern accepts string values byte-equal to the pattern text.
	// Despite the name this is exact comparison, not regular-expression
	// matching; see the validator tests that pin this down.
	RulePattern RuleKind = "pattern"
)

// Rule is a declared value constraint. A nil *Rule on an Option means
// "no rule configured": values are checked against the declared kind
// only.
type Rule struct {
	Kind    RuleKind
	Min     int64
	Max     int64
	Pattern string
}

// NumberRange constrains a number option to [min, max] inclusive.
func NumberRange(min, max int64) *Rule {
	return &Rule{Kind: RuleRange, Min: min, Max: max}
}

// Pattern constrains a string option to exactly the given text.
func Pattern(text string) *Rule {
	return &Rule{Kind: RulePattern, Pattern: text}
}

// None declares an always-passing rule.
func None() *Rule {
	return &Rule{Kind: RuleNone}
}
